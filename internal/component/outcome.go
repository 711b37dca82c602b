package component

// Issue codes emitted by the validator.
const (
	CodeBusinessLogicNotPreserved = "BUSINESS_LOGIC_NOT_PRESERVED"
	CodeManualReviewRequired      = "MANUAL_REVIEW_REQUIRED"
	CodeMissingDocBlock           = "MISSING_DOC_BLOCK"
	CodeCompilationFailed         = "COMPILATION_FAILED"
	CodeExcerptDrift              = "EXCERPT_DRIFT"
)

// Issue is one validation error or warning.
type Issue struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Path    string `json:"path,omitempty"`
	Value   string `json:"value,omitempty"`
}

// Score bounds for validation outcomes.
const (
	MinScore = 0
	MaxScore = 100
)

// Outcome is the validator's verdict for one generated component.
type Outcome struct {
	Component string  `json:"component"`
	Valid     bool    `json:"valid"`
	Errors    []Issue `json:"errors,omitempty"`
	Warnings  []Issue `json:"warnings,omitempty"`

	// Score is in [MinScore, MaxScore]; 100 means no deductions at all.
	Score int `json:"score"`

	BusinessLogicPreserved bool `json:"business_logic_preserved"`
	TypesSafe              bool `json:"types_safe"`
	TestsPass              bool `json:"tests_pass"`
}
