package component

// MappingStrategy names the rewrite applied to a pattern when it is carried
// into the new component generation.
type MappingStrategy string

// Mapping strategies, one per pattern kind.
const (
	StrategyGuardHook     MappingStrategy = "guard-hook"
	StrategyPureTransform MappingStrategy = "pure-transform"
	StrategyRenderBranch  MappingStrategy = "render-branch"
	StrategyServiceCall   MappingStrategy = "service-call"
	StrategyStoreAction   MappingStrategy = "store-action"
)

// PatternMapping binds one detected pattern to its target unit in the
// generated component. PatternIndex refers into Descriptor.Patterns.
type PatternMapping struct {
	PatternIndex int             `json:"pattern_index"`
	Target       string          `json:"target"`
	Strategy     MappingStrategy `json:"strategy"`

	// Rewritten is the pattern excerpt re-expressed for the new
	// architecture. The validator compares it against the original
	// excerpt to flag drift.
	Rewritten string `json:"rewritten,omitempty"`
}

// UnmappedPattern records a pattern for which no mapping target could be
// constructed, with the reason it could not.
type UnmappedPattern struct {
	PatternIndex int    `json:"pattern_index"`
	Reason       string `json:"reason"`
}

// HookMapping carries one baseline state/effect usage into the new
// architecture's state model.
type HookMapping struct {
	Source HookUsage `json:"source"`
	Target string    `json:"target"`
}

// Plan is the transformer's output for one descriptor: how the baseline maps
// onto the new component generation. One plan maps to exactly one
// descriptor and is immutable once returned.
type Plan struct {
	Component  string      `json:"component"`
	Descriptor *Descriptor `json:"-"`

	Mappings     []PatternMapping  `json:"mappings,omitempty"`
	Unmapped     []UnmappedPattern `json:"unmapped,omitempty"`
	HookMappings []HookMapping     `json:"hook_mappings,omitempty"`

	// BusinessLogicPreserved is true only when every detected pattern has
	// a mapping target. Any unmapped validation or state-transition
	// pattern forces it false.
	BusinessLogicPreserved bool `json:"business_logic_preserved"`

	// RequiresManualReview is true when any pattern confidence fell below
	// threshold or the descriptor complexity reached the review floor.
	RequiresManualReview bool `json:"requires_manual_review"`
}

// MappingFor returns the mapping for the given pattern index, if present.
func (p *Plan) MappingFor(patternIndex int) (PatternMapping, bool) {
	for _, m := range p.Mappings {
		if m.PatternIndex == patternIndex {
			return m, true
		}
	}

	return PatternMapping{}, false
}
