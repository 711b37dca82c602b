package component

// CompilationStatus tracks whether the emitted artifact has been through the
// external compiler collaborator yet.
type CompilationStatus string

// Compilation states. The generator only ever emits StatusPending; success
// or error is recorded by the compiler integration downstream.
const (
	StatusPending CompilationStatus = "pending"
	StatusSuccess CompilationStatus = "success"
	StatusError   CompilationStatus = "error"
)

// DocBlock documents one mapped unit of behavior in the generated component.
// Exactly one block exists per plan mapping; this is the traceability
// contract that lets a reviewer match generated documentation back to the
// original business logic. All fields are always present, empty or not.
type DocBlock struct {
	Subject       string   `json:"subject"`
	Rationale     string   `json:"rationale"`
	Actions       []string `json:"actions"`
	Collaborators []string `json:"collaborators"`
	DataFlow      string   `json:"data_flow"`
	Dependencies  []string `json:"dependencies"`
	EdgeCases     string   `json:"edge_cases,omitempty"`
}

// Artifact is the full output bundle for one generated component.
type Artifact struct {
	Name       string `json:"name"`
	OutputPath string `json:"output_path"`

	Source        string `json:"source"`
	PropsContract string `json:"props_contract"`

	// StateContract is present only when the plan carries hook mappings.
	StateContract string `json:"state_contract,omitempty"`

	// ResponseContract is present only when the plan maps external calls.
	ResponseContract string `json:"response_contract,omitempty"`

	Docs []DocBlock `json:"docs"`

	// TestScaffold is omitted entirely under the skip-tests option.
	TestScaffold string `json:"test_scaffold,omitempty"`

	Readme string `json:"readme"`

	CompilationStatus CompilationStatus `json:"compilation_status"`
	CompilationErrors []string          `json:"compilation_errors,omitempty"`
}
