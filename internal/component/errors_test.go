package component_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relift-dev/relift/internal/component"
)

func TestErrorPhaseTagging(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		err   *component.Error
		phase component.Phase
		fatal bool
	}{
		{
			name:  "analysis error",
			err:   component.AnalysisError("Alpha", "parse failed", nil),
			phase: component.PhaseAnalysis,
		},
		{
			name:  "transformation error",
			err:   component.TransformationError("Alpha", "no mapping", nil),
			phase: component.PhaseTransformation,
		},
		{
			name:  "generation error",
			err:   component.GenerationError("Alpha", "render failed", nil),
			phase: component.PhaseGeneration,
		},
		{
			name:  "compilation error",
			err:   component.CompilationError("Alpha", "does not build", nil),
			phase: component.PhaseCompilation,
		},
		{
			name:  "validation error",
			err:   component.ValidationError("Alpha", "disqualified", nil),
			phase: component.PhaseValidation,
		},
		{
			name:  "manifest store error is fatal",
			err:   component.ManifestStoreError("unwritable", nil),
			phase: component.PhaseManifest,
			fatal: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.phase, tt.err.Phase)
			assert.Equal(t, tt.fatal, tt.err.Fatal())
			assert.Equal(t, tt.phase, component.PhaseOf(tt.err))
			assert.Equal(t, tt.fatal, component.IsFatal(tt.err))
		})
	}
}

func TestErrorMessageIncludesComponent(t *testing.T) {
	t.Parallel()

	err := component.AnalysisError("Alpha", "parse failed", errors.New("unexpected token"))

	assert.Contains(t, err.Error(), "analysis")
	assert.Contains(t, err.Error(), "Alpha")
	assert.Contains(t, err.Error(), "parse failed")
	assert.Contains(t, err.Error(), "unexpected token")
}

func TestErrorUnwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("disk full")
	err := component.ManifestStoreError("write manifest", cause)

	require.ErrorIs(t, err, cause)

	wrapped := fmt.Errorf("run aborted: %w", err)

	assert.Equal(t, component.PhaseManifest, component.PhaseOf(wrapped))
	assert.True(t, component.IsFatal(wrapped))
}

func TestPhaseOfPlainError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, component.Phase(""), component.PhaseOf(errors.New("plain")))
	assert.False(t, component.IsFatal(errors.New("plain")))
}
