// Package component defines the value types flowing through the migration
// pipeline: the analyzed descriptor, the transformation plan, the generated
// artifact, the validation outcome, and the phase-tagged result envelope.
//
// Everything in this package is a plain value. Pipeline stages receive these
// by value or as read-only pointers and never mutate them after construction.
package component

// Kind classifies the exported unit found in a baseline source file.
type Kind string

// Component kinds.
const (
	KindFunction Kind = "function"
	KindClass    Kind = "class"
	KindHook     Kind = "hook"
)

// PatternKind classifies a detected unit of business logic.
type PatternKind string

// Business logic pattern kinds. Validation and state-transition patterns
// encode correctness-critical behavior; losing one fails preservation.
const (
	PatternValidation      PatternKind = "validation"
	PatternTransformation  PatternKind = "transformation"
	PatternConditional     PatternKind = "conditional"
	PatternExternalCall    PatternKind = "external-call"
	PatternStateTransition PatternKind = "state-transition"
)

// Critical reports whether losing this pattern kind during migration must
// fail business-logic preservation.
func (k PatternKind) Critical() bool {
	return k == PatternValidation || k == PatternStateTransition
}

// Span is a line range in the baseline source (1-based, EndLine inclusive).
type Span struct {
	StartLine int `json:"start_line"`
	EndLine   int `json:"end_line"`
}

// Pattern is one detected unit of business logic inside a baseline.
type Pattern struct {
	Kind        PatternKind `json:"kind"`
	Description string      `json:"description"`
	Span        Span        `json:"span"`
	Excerpt     string      `json:"excerpt,omitempty"`

	// Confidence is the detector's heuristic certainty in [0, 1].
	Confidence float64 `json:"confidence"`

	// LowConfidence marks patterns whose confidence fell below the
	// configured threshold. Low-confidence patterns are still recorded;
	// detection never drops signal.
	LowConfidence bool `json:"low_confidence,omitempty"`
}

// HookUsage records one state or effect usage in the baseline
// (useState, useEffect, useReducer and friends).
type HookUsage struct {
	Hook        string   `json:"hook"`
	Bindings    []string `json:"bindings,omitempty"`
	Deps        []string `json:"deps,omitempty"`
	Initializer string   `json:"initializer,omitempty"`
}

// PropSpec describes one declared input parameter of the component.
type PropSpec struct {
	Name        string `json:"name"`
	Type        string `json:"type,omitempty"`
	Required    bool   `json:"required"`
	Default     string `json:"default,omitempty"`
	Description string `json:"description,omitempty"`
}

// Complexity bounds. The analyzer clamps its monotonic complexity function
// into this range.
const (
	MinComplexity = 1
	MaxComplexity = 5
)

// Descriptor is the structural and behavioral model of one baseline
// component. It is created fresh per analysis and immutable once returned:
// two analyses of identical source bytes yield field-for-field identical
// descriptors, with all lists in source order.
type Descriptor struct {
	Name       string `json:"name"`
	SourcePath string `json:"source_path"`
	Kind       Kind   `json:"kind"`

	Hooks    []HookUsage `json:"hooks,omitempty"`
	Props    []PropSpec  `json:"props,omitempty"`
	Patterns []Pattern   `json:"patterns,omitempty"`

	// Dependencies lists external module identifiers imported by the
	// baseline, in import order.
	Dependencies []string `json:"dependencies,omitempty"`

	LineCount  int      `json:"line_count"`
	Complexity int      `json:"complexity"`
	Comments   []string `json:"comments,omitempty"`
}

// CriticalPatterns returns the indices of patterns whose kind is
// correctness-critical, in detection order.
func (d *Descriptor) CriticalPatterns() []int {
	var idx []int

	for i, p := range d.Patterns {
		if p.Kind.Critical() {
			idx = append(idx, i)
		}
	}

	return idx
}
