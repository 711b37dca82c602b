package transformer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relift-dev/relift/internal/component"
	"github.com/relift-dev/relift/internal/config"
	"github.com/relift-dev/relift/internal/transformer"
)

func newTransformer() *transformer.Transformer {
	return transformer.New(config.AnalyzerConfig{
		ConfidenceThreshold: config.DefaultConfidenceThreshold,
		ReviewComplexity:    config.DefaultReviewComplexity,
	})
}

func simpleDescriptor() *component.Descriptor {
	return &component.Descriptor{
		Name:       "UserCard",
		SourcePath: "src/UserCard.tsx",
		Kind:       component.KindFunction,
		Complexity: 2,
		Hooks: []component.HookUsage{
			{Hook: "useState", Bindings: []string{"user", "setUser"}, Initializer: "null"},
		},
		Patterns: []component.Pattern{
			{
				Kind:        component.PatternValidation,
				Description: "guard clause validating input",
				Span:        component.Span{StartLine: 10, EndLine: 12},
				Excerpt:     "if (!user.email) throw new Error('email required')",
				Confidence:  0.9,
			},
			{
				Kind:        component.PatternStateTransition,
				Description: "state update via setUser",
				Span:        component.Span{StartLine: 20, EndLine: 20},
				Excerpt:     "setUser(next)",
				Confidence:  0.9,
			},
			{
				Kind:        component.PatternExternalCall,
				Description: "external call to fetch",
				Span:        component.Span{StartLine: 25, EndLine: 25},
				Excerpt:     "await fetch('/api/user')",
				Confidence:  0.9,
			},
		},
	}
}

func TestTransformMapsEveryPattern(t *testing.T) {
	t.Parallel()

	plan, err := newTransformer().Transform(simpleDescriptor())
	require.NoError(t, err)

	assert.Equal(t, "UserCard", plan.Component)
	require.Len(t, plan.Mappings, 3)
	assert.Empty(t, plan.Unmapped)
	assert.True(t, plan.BusinessLogicPreserved)
	assert.False(t, plan.RequiresManualReview)

	assert.Equal(t, "guards.rule1", plan.Mappings[0].Target)
	assert.Equal(t, component.StrategyGuardHook, plan.Mappings[0].Strategy)

	assert.Equal(t, "store.action1", plan.Mappings[1].Target)
	assert.Equal(t, component.StrategyStoreAction, plan.Mappings[1].Strategy)

	assert.Equal(t, "services.call1", plan.Mappings[2].Target)
	assert.Equal(t, component.StrategyServiceCall, plan.Mappings[2].Strategy)
}

func TestTransformRewritesExcerpts(t *testing.T) {
	t.Parallel()

	plan, err := newTransformer().Transform(simpleDescriptor())
	require.NoError(t, err)

	assert.Equal(t, "guard(if (!user.email) throw new Error('email required'))", plan.Mappings[0].Rewritten)
	assert.Equal(t, "store.setUser(next)", plan.Mappings[1].Rewritten)
	assert.Equal(t, "services.fetch('/api/user')", plan.Mappings[2].Rewritten)
}

func TestOrphanedSetterBreaksPreservation(t *testing.T) {
	t.Parallel()

	desc := simpleDescriptor()
	desc.Patterns = append(desc.Patterns, component.Pattern{
		Kind:        component.PatternStateTransition,
		Description: "state update via setTheme",
		Span:        component.Span{StartLine: 30, EndLine: 30},
		Excerpt:     "setTheme('dark')",
		Confidence:  0.9,
	})

	plan, err := newTransformer().Transform(desc)
	require.NoError(t, err)

	require.Len(t, plan.Unmapped, 1)
	assert.Equal(t, 3, plan.Unmapped[0].PatternIndex)
	assert.Contains(t, plan.Unmapped[0].Reason, "setTheme")
	assert.False(t, plan.BusinessLogicPreserved)

	_, mapped := plan.MappingFor(3)
	assert.False(t, mapped)
}

func TestDispatchFormsAreAlwaysMappable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		excerpt string
	}{
		{name: "bare dispatch", excerpt: "dispatch({type: 'reset'})"},
		{name: "this.setState", excerpt: "this.setState({open: true})"},
		{name: "store dispatch", excerpt: "store.dispatch(reset())"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			desc := &component.Descriptor{
				Name:       "Panel",
				Kind:       component.KindClass,
				Complexity: 2,
				Patterns: []component.Pattern{{
					Kind:        component.PatternStateTransition,
					Description: "state update",
					Excerpt:     tt.excerpt,
					Confidence:  0.9,
				}},
			}

			plan, err := newTransformer().Transform(desc)
			require.NoError(t, err)

			assert.Empty(t, plan.Unmapped)
			assert.True(t, plan.BusinessLogicPreserved)
		})
	}
}

func TestEmptyExcerptIsUnmappable(t *testing.T) {
	t.Parallel()

	desc := simpleDescriptor()
	desc.Patterns[0].Excerpt = ""

	plan, err := newTransformer().Transform(desc)
	require.NoError(t, err)

	require.Len(t, plan.Unmapped, 1)
	assert.Equal(t, 0, plan.Unmapped[0].PatternIndex)
	assert.False(t, plan.BusinessLogicPreserved)
}

func TestReviewTriggers(t *testing.T) {
	t.Parallel()

	t.Run("high complexity", func(t *testing.T) {
		t.Parallel()

		desc := simpleDescriptor()
		desc.Complexity = config.DefaultReviewComplexity

		plan, err := newTransformer().Transform(desc)
		require.NoError(t, err)
		assert.True(t, plan.RequiresManualReview)
	})

	t.Run("low-confidence pattern", func(t *testing.T) {
		t.Parallel()

		desc := simpleDescriptor()
		desc.Patterns[2].Confidence = 0.4
		desc.Patterns[2].LowConfidence = true

		plan, err := newTransformer().Transform(desc)
		require.NoError(t, err)
		assert.True(t, plan.RequiresManualReview)
	})
}

func TestHookMappings(t *testing.T) {
	t.Parallel()

	desc := &component.Descriptor{
		Name:       "Dashboard",
		Kind:       component.KindFunction,
		Complexity: 1,
		Hooks: []component.HookUsage{
			{Hook: "useState", Bindings: []string{"items", "setItems"}},
			{Hook: "useEffect", Deps: []string{"items"}},
			{Hook: "useContext"},
		},
	}

	plan, err := newTransformer().Transform(desc)
	require.NoError(t, err)

	require.Len(t, plan.HookMappings, 3)
	assert.Equal(t, "store.items", plan.HookMappings[0].Target)
	assert.Equal(t, "effects.effect1", plan.HookMappings[1].Target)
	assert.Equal(t, "store.useContext", plan.HookMappings[2].Target)
}

func TestTransformIsPure(t *testing.T) {
	t.Parallel()

	desc := simpleDescriptor()
	tr := newTransformer()

	first, err := tr.Transform(desc)
	require.NoError(t, err)

	second, err := tr.Transform(desc)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, simpleDescriptor(), desc)
}

func TestTransformRejectsBadInput(t *testing.T) {
	t.Parallel()

	tr := newTransformer()

	_, err := tr.Transform(nil)
	require.Error(t, err)
	assert.Equal(t, component.PhaseTransformation, component.PhaseOf(err))

	_, err = tr.Transform(&component.Descriptor{})
	require.Error(t, err)
	assert.Equal(t, component.PhaseTransformation, component.PhaseOf(err))
}
