// Package transformer maps a component descriptor into a transformation
// plan, judging whether business logic survives the rewrite.
//
// The transformer is pure: no I/O, no clock, no mutation of its input, so
// retrying it is always safe.
package transformer

import (
	"fmt"
	"strings"

	"github.com/relift-dev/relift/internal/component"
	"github.com/relift-dev/relift/internal/config"
)

// Transformer builds plans from descriptors.
type Transformer struct {
	reviewComplexity int
}

// New creates a transformer with the given review settings.
func New(cfg config.AnalyzerConfig) *Transformer {
	return &Transformer{reviewComplexity: cfg.ReviewComplexity}
}

// Transform produces the plan for one descriptor.
//
// Every pattern either receives a mapping target or lands in the unmapped
// list with a reason. Preservation is true only when nothing is unmapped;
// an unmapped validation or state-transition pattern always forces it
// false. Manual review is requested when any pattern fell below the
// confidence threshold or the descriptor complexity reached the review
// floor.
func (t *Transformer) Transform(desc *component.Descriptor) (*component.Plan, error) {
	if desc == nil {
		return nil, component.TransformationError("", "nil descriptor", nil)
	}

	if desc.Name == "" {
		return nil, component.TransformationError("", "descriptor has no component name", nil)
	}

	plan := &component.Plan{
		Component:    desc.Name,
		Descriptor:   desc,
		HookMappings: mapHooks(desc),
	}

	setters := stateSetters(desc)
	counters := map[component.PatternKind]int{}

	for i, p := range desc.Patterns {
		counters[p.Kind]++

		if reason, unmappable := unmappableReason(p, setters); unmappable {
			plan.Unmapped = append(plan.Unmapped, component.UnmappedPattern{
				PatternIndex: i,
				Reason:       reason,
			})

			continue
		}

		plan.Mappings = append(plan.Mappings, component.PatternMapping{
			PatternIndex: i,
			Target:       targetName(p.Kind, counters[p.Kind]),
			Strategy:     strategyFor(p.Kind),
			Rewritten:    rewriteExcerpt(p),
		})
	}

	plan.BusinessLogicPreserved = len(plan.Unmapped) == 0

	plan.RequiresManualReview = desc.Complexity >= t.reviewComplexity
	for _, p := range desc.Patterns {
		if p.LowConfidence {
			plan.RequiresManualReview = true

			break
		}
	}

	return plan, nil
}

// stateSetters collects the setter bindings the new state model can back.
func stateSetters(desc *component.Descriptor) map[string]bool {
	setters := map[string]bool{}

	for _, h := range desc.Hooks {
		for _, b := range h.Bindings {
			setters[b] = true
		}
	}

	return setters
}

// unmappableReason decides whether a pattern has no mapping target.
//
// A state transition is only mappable when its setter is backed by a known
// state binding (or is a dispatch/setState form the store layer absorbs);
// an orphaned setter has no equivalent in the generated state model. Any
// pattern without a source excerpt carries nothing to migrate.
func unmappableReason(p component.Pattern, setters map[string]bool) (string, bool) {
	if p.Excerpt == "" {
		return "no source excerpt to carry over", true
	}

	if p.Kind != component.PatternStateTransition {
		return "", false
	}

	callee := excerptCallee(p.Excerpt)
	if setters[callee] || callee == "dispatch" || strings.HasSuffix(callee, ".setState") ||
		strings.HasSuffix(callee, ".dispatch") {
		return "", false
	}

	return fmt.Sprintf("setter %s has no matching state binding", callee), true
}

// excerptCallee returns the call target at the head of an excerpt.
func excerptCallee(excerpt string) string {
	head, _, found := strings.Cut(excerpt, "(")
	if !found {
		return ""
	}

	return strings.TrimSpace(head)
}

// targetName builds the deterministic unit name a pattern maps onto.
func targetName(kind component.PatternKind, ordinal int) string {
	switch kind {
	case component.PatternValidation:
		return fmt.Sprintf("guards.rule%d", ordinal)
	case component.PatternTransformation:
		return fmt.Sprintf("selectors.derive%d", ordinal)
	case component.PatternConditional:
		return fmt.Sprintf("view.branch%d", ordinal)
	case component.PatternExternalCall:
		return fmt.Sprintf("services.call%d", ordinal)
	case component.PatternStateTransition:
		return fmt.Sprintf("store.action%d", ordinal)
	}

	return fmt.Sprintf("misc.unit%d", ordinal)
}

func strategyFor(kind component.PatternKind) component.MappingStrategy {
	switch kind {
	case component.PatternValidation:
		return component.StrategyGuardHook
	case component.PatternTransformation:
		return component.StrategyPureTransform
	case component.PatternConditional:
		return component.StrategyRenderBranch
	case component.PatternExternalCall:
		return component.StrategyServiceCall
	case component.PatternStateTransition:
		return component.StrategyStoreAction
	}

	return component.StrategyPureTransform
}

// rewriteExcerpt re-expresses a pattern excerpt for the new architecture.
// The rewrite is intentionally conservative: the validator compares it
// against the original to flag drift, so structure is preserved and only
// the addressing changes.
func rewriteExcerpt(p component.Pattern) string {
	switch p.Kind {
	case component.PatternStateTransition:
		return "store." + strings.TrimPrefix(p.Excerpt, "this.")
	case component.PatternExternalCall:
		return "services." + strings.TrimPrefix(p.Excerpt, "await ")
	case component.PatternValidation:
		return "guard(" + p.Excerpt + ")"
	default:
		return p.Excerpt
	}
}

// mapHooks carries baseline state/effect usages into the new state model.
func mapHooks(desc *component.Descriptor) []component.HookMapping {
	var mappings []component.HookMapping

	effectOrdinal := 0

	for _, h := range desc.Hooks {
		target := ""

		switch {
		case len(h.Bindings) > 0:
			target = "store." + h.Bindings[0]
		case strings.Contains(h.Hook, "Effect"):
			effectOrdinal++
			target = fmt.Sprintf("effects.effect%d", effectOrdinal)
		default:
			target = "store." + h.Hook
		}

		mappings = append(mappings, component.HookMapping{Source: h, Target: target})
	}

	return mappings
}
