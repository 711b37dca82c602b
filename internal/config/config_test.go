package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relift-dev/relift/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, config.DefaultWorkers, cfg.Workers)
	assert.False(t, cfg.Force)
	assert.False(t, cfg.DryRun)
	assert.False(t, cfg.SkipTests)
	assert.InEpsilon(t, config.DefaultConfidenceThreshold, cfg.Analyzer.ConfidenceThreshold, 1e-9)
	assert.Equal(t, config.DefaultReviewComplexity, cfg.Analyzer.ReviewComplexity)
	assert.Equal(t, config.DefaultErrorPenalty, cfg.Scoring.ErrorPenalty)
	assert.Equal(t, config.DefaultWarningPenalty, cfg.Scoring.WarningPenalty)
	assert.Equal(t, config.DefaultPreservationPenalty, cfg.Scoring.PreservationPenalty)
	assert.Equal(t, config.DefaultReviewPenalty, cfg.Scoring.ReviewPenalty)
	assert.InEpsilon(t, config.DefaultDriftFloor, cfg.Scoring.DriftFloor, 1e-9)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "relift.yaml")

	content := []byte("workers: 4\nskip_tests: true\nanalyzer:\n  confidence_threshold: 0.7\nscoring:\n  error_penalty: 25\n")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Workers)
	assert.True(t, cfg.SkipTests)
	assert.InEpsilon(t, 0.7, cfg.Analyzer.ConfidenceThreshold, 1e-9)
	assert.Equal(t, 25, cfg.Scoring.ErrorPenalty)

	// Unset keys keep their defaults.
	assert.Equal(t, config.DefaultWarningPenalty, cfg.Scoring.WarningPenalty)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	base := func() config.Config {
		return config.Config{
			Workers: 1,
			Analyzer: config.AnalyzerConfig{
				ConfidenceThreshold: config.DefaultConfidenceThreshold,
				ReviewComplexity:    config.DefaultReviewComplexity,
			},
			Scoring: config.ScoringConfig{
				ErrorPenalty:        config.DefaultErrorPenalty,
				WarningPenalty:      config.DefaultWarningPenalty,
				PreservationPenalty: config.DefaultPreservationPenalty,
				ReviewPenalty:       config.DefaultReviewPenalty,
				DriftFloor:          config.DefaultDriftFloor,
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr bool
	}{
		{name: "valid defaults", mutate: func(*config.Config) {}},
		{name: "zero workers", mutate: func(c *config.Config) { c.Workers = 0 }, wantErr: true},
		{name: "negative threshold", mutate: func(c *config.Config) { c.Analyzer.ConfidenceThreshold = -0.1 }, wantErr: true},
		{name: "threshold above one", mutate: func(c *config.Config) { c.Analyzer.ConfidenceThreshold = 1.5 }, wantErr: true},
		{name: "negative penalty", mutate: func(c *config.Config) { c.Scoring.ErrorPenalty = -1 }, wantErr: true},
		{name: "drift floor above one", mutate: func(c *config.Config) { c.Scoring.DriftFloor = 2 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := base()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
