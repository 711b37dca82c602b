package component

import (
	"errors"
	"fmt"
)

// Phase identifies the pipeline stage an error originated from. External
// tooling routes failures primarily on this field.
type Phase string

// Pipeline phases.
const (
	PhaseAnalysis       Phase = "analysis"
	PhaseTransformation Phase = "transformation"
	PhaseGeneration     Phase = "generation"
	PhaseCompilation    Phase = "compilation"
	PhaseValidation     Phase = "validation"
	PhaseManifest       Phase = "manifest"
)

// Error is a phase-tagged pipeline error. All phases except PhaseManifest
// are component-scoped and recovered at the orchestrator boundary into a
// failure record; a PhaseManifest error is fatal and aborts the run, since
// progress cannot be tracked without a reliable ledger.
type Error struct {
	Phase     Phase
	Component string
	Msg       string
	Err       error
}

// Error implements the error interface.
func (e *Error) Error() string {
	prefix := string(e.Phase)
	if e.Component != "" {
		prefix = fmt.Sprintf("%s [%s]", e.Phase, e.Component)
	}

	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Msg, e.Err)
	}

	return fmt.Sprintf("%s: %s", prefix, e.Msg)
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// Fatal reports whether this error must abort the batch run.
func (e *Error) Fatal() bool {
	return e.Phase == PhaseManifest
}

func newError(phase Phase, component, msg string, cause error) *Error {
	return &Error{Phase: phase, Component: component, Msg: msg, Err: cause}
}

// AnalysisError reports that a baseline source could not be parsed or
// understood.
func AnalysisError(comp, msg string, cause error) *Error {
	return newError(PhaseAnalysis, comp, msg, cause)
}

// TransformationError reports that no valid mapping could be constructed.
func TransformationError(comp, msg string, cause error) *Error {
	return newError(PhaseTransformation, comp, msg, cause)
}

// GenerationError reports that artifact emission failed.
func GenerationError(comp, msg string, cause error) *Error {
	return newError(PhaseGeneration, comp, msg, cause)
}

// CompilationError reports that an emitted artifact does not build.
// Detected by the external compiler collaborator and recorded back into the
// artifact.
func CompilationError(comp, msg string, cause error) *Error {
	return newError(PhaseCompilation, comp, msg, cause)
}

// ValidationError reports that post-hoc scoring found disqualifying issues.
func ValidationError(comp, msg string, cause error) *Error {
	return newError(PhaseValidation, comp, msg, cause)
}

// ManifestStoreError reports that durable state is unreadable or
// unwritable. This is the one fatal error class.
func ManifestStoreError(msg string, cause error) *Error {
	return newError(PhaseManifest, "", msg, cause)
}

// PhaseOf extracts the pipeline phase from err, or an empty phase when err
// is not a pipeline error.
func PhaseOf(err error) Phase {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Phase
	}

	return ""
}

// IsFatal reports whether err carries a fatal manifest-store failure.
func IsFatal(err error) bool {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Fatal()
	}

	return false
}
