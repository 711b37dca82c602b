package component

// Result is the tagged per-component outcome of a full pipeline pass.
// Construct it only through Succeed or Fail so a success can never carry
// failure details and a failure can never carry an artifact.
type Result struct {
	success bool
	name    string

	artifact *Artifact
	outcome  *Outcome

	failure *Error
}

// Succeed builds a successful result carrying the generated artifact and
// its validation outcome.
func Succeed(name string, artifact *Artifact, outcome *Outcome) Result {
	return Result{success: true, name: name, artifact: artifact, outcome: outcome}
}

// Fail builds a failed result from a phase-tagged error.
func Fail(name string, err *Error) Result {
	return Result{success: false, name: name, failure: err}
}

// Success reports whether the component migrated cleanly.
func (r Result) Success() bool { return r.success }

// Name returns the component name.
func (r Result) Name() string { return r.name }

// Artifact returns the generated artifact, nil on failure.
func (r Result) Artifact() *Artifact {
	if !r.success {
		return nil
	}

	return r.artifact
}

// Outcome returns the validation outcome, nil on failure.
func (r Result) Outcome() *Outcome {
	if !r.success {
		return nil
	}

	return r.outcome
}

// Failure returns the phase-tagged error, nil on success.
func (r Result) Failure() *Error {
	if r.success {
		return nil
	}

	return r.failure
}
