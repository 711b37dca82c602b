package generator_test

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relift-dev/relift/internal/component"
	"github.com/relift-dev/relift/internal/config"
	"github.com/relift-dev/relift/internal/generator"
)

func samplePlan() *component.Plan {
	desc := &component.Descriptor{
		Name:       "UserCard",
		SourcePath: "src/UserCard.tsx",
		Kind:       component.KindFunction,
		Props: []component.PropSpec{
			{Name: "userId", Type: "string", Required: true},
			{Name: "compact", Type: "boolean", Default: "false"},
		},
		Dependencies: []string{"react", "axios"},
		Patterns: []component.Pattern{
			{
				Kind:        component.PatternValidation,
				Description: "guard clause validating input",
				Span:        component.Span{StartLine: 10, EndLine: 12},
				Excerpt:     "if (!userId) throw new Error('missing id')",
				Confidence:  0.9,
			},
			{
				Kind:          component.PatternExternalCall,
				Description:   "external call to axios",
				Span:          component.Span{StartLine: 20, EndLine: 20},
				Excerpt:       "await axios.get('/api/user')",
				Confidence:    0.45,
				LowConfidence: true,
			},
		},
	}

	return &component.Plan{
		Component:  "UserCard",
		Descriptor: desc,
		Mappings: []component.PatternMapping{
			{PatternIndex: 0, Target: "guards.rule1", Strategy: component.StrategyGuardHook},
			{PatternIndex: 1, Target: "services.call1", Strategy: component.StrategyServiceCall},
		},
		HookMappings: []component.HookMapping{
			{Source: component.HookUsage{Hook: "useState", Bindings: []string{"user", "setUser"}}, Target: "store.user"},
		},
		BusinessLogicPreserved: true,
	}
}

func TestGenerateArtifactBundle(t *testing.T) {
	t.Parallel()

	gen := generator.New(config.Config{OutputPath: "out"})

	artifact, err := gen.Generate(samplePlan())
	require.NoError(t, err)

	assert.Equal(t, "UserCard", artifact.Name)
	assert.Equal(t, filepath.Join("out", "UserCard"), artifact.OutputPath)

	assert.Contains(t, artifact.Source, "export function UserCard")
	assert.Contains(t, artifact.PropsContract, "interface UserCardProps")
	assert.Contains(t, artifact.PropsContract, "userId: string")
	assert.NotEmpty(t, artifact.StateContract)
	assert.NotEmpty(t, artifact.ResponseContract)
	assert.NotEmpty(t, artifact.TestScaffold)
	assert.NotEmpty(t, artifact.Readme)
}

func TestGenerateStatusAlwaysPending(t *testing.T) {
	t.Parallel()

	gen := generator.New(config.Config{OutputPath: "out"})

	artifact, err := gen.Generate(samplePlan())
	require.NoError(t, err)

	assert.Equal(t, component.StatusPending, artifact.CompilationStatus)
	assert.Empty(t, artifact.CompilationErrors)
}

func TestOneDocBlockPerMapping(t *testing.T) {
	t.Parallel()

	plan := samplePlan()
	gen := generator.New(config.Config{OutputPath: "out"})

	artifact, err := gen.Generate(plan)
	require.NoError(t, err)

	require.Len(t, artifact.Docs, len(plan.Mappings))

	for i, block := range artifact.Docs {
		mapping := plan.Mappings[i]
		pattern := plan.Descriptor.Patterns[mapping.PatternIndex]

		assert.Equal(t, mapping.Target, block.Subject)
		assert.Equal(t, pattern.Description, block.Rationale)
		assert.NotEmpty(t, block.Actions)
		assert.NotNil(t, block.Collaborators)
		assert.NotEmpty(t, block.DataFlow)
		assert.Equal(t, plan.Descriptor.Dependencies, block.Dependencies)
	}

	// Only the low-confidence mapping carries an edge-case note.
	assert.Empty(t, artifact.Docs[0].EdgeCases)
	assert.NotEmpty(t, artifact.Docs[1].EdgeCases)
}

func TestDocBlockDependenciesNeverNull(t *testing.T) {
	t.Parallel()

	plan := samplePlan()
	plan.Descriptor.Dependencies = nil

	gen := generator.New(config.Config{OutputPath: "out"})

	artifact, err := gen.Generate(plan)
	require.NoError(t, err)

	for _, block := range artifact.Docs {
		require.NotNil(t, block.Dependencies)
		assert.Empty(t, block.Dependencies)
	}

	data, err := json.Marshal(artifact.Docs)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"dependencies":[]`)
}

func TestSkipTestsOmitsScaffold(t *testing.T) {
	t.Parallel()

	gen := generator.New(config.Config{OutputPath: "out", SkipTests: true})

	artifact, err := gen.Generate(samplePlan())
	require.NoError(t, err)

	assert.Empty(t, artifact.TestScaffold)
	assert.NotEmpty(t, artifact.Source)
}

func TestNameOverride(t *testing.T) {
	t.Parallel()

	gen := generator.New(config.Config{OutputPath: "out", ComponentName: "ProfileCard"})

	artifact, err := gen.Generate(samplePlan())
	require.NoError(t, err)

	assert.Equal(t, "ProfileCard", artifact.Name)
	assert.Equal(t, filepath.Join("out", "ProfileCard"), artifact.OutputPath)
	assert.Contains(t, artifact.Source, "ProfileCard")
}

func TestConditionalContracts(t *testing.T) {
	t.Parallel()

	plan := samplePlan()
	plan.HookMappings = nil
	plan.Mappings = plan.Mappings[:1]

	gen := generator.New(config.Config{OutputPath: "out"})

	artifact, err := gen.Generate(plan)
	require.NoError(t, err)

	assert.Empty(t, artifact.StateContract)
	assert.Empty(t, artifact.ResponseContract)
}

func TestGenerateRejectsNilPlan(t *testing.T) {
	t.Parallel()

	gen := generator.New(config.Config{OutputPath: "out"})

	_, err := gen.Generate(nil)
	require.Error(t, err)
	assert.Equal(t, component.PhaseGeneration, component.PhaseOf(err))
}
