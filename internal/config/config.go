// Package config defines relift run configuration and its loader.
package config

import (
	"errors"
	"fmt"
)

// Default heuristic and scoring settings. These are tunable policy, not
// hard-coded law: the loader exposes every one of them through the config
// file and environment.
const (
	DefaultWorkers             = 1
	DefaultConfidenceThreshold = 0.5
	DefaultReviewComplexity    = 4
	DefaultErrorPenalty        = 20
	DefaultWarningPenalty      = 5
	DefaultPreservationPenalty = 30
	DefaultReviewPenalty       = 10
	DefaultDriftFloor          = 0.35
	DefaultManifestDirName     = ".relift"
	DefaultManifestFileName    = "manifest.json"
)

// Sentinel validation errors.
var (
	errWorkersRange   = errors.New("workers must be at least 1")
	errThresholdRange = errors.New("confidence threshold must be in [0, 1]")
	errPenaltyRange   = errors.New("scoring penalties must be non-negative")
	errDriftRange     = errors.New("drift floor must be in [0, 1]")
)

// AnalyzerConfig tunes business-logic pattern detection.
type AnalyzerConfig struct {
	// ConfidenceThreshold marks patterns below it as low-confidence.
	// Low-confidence patterns are recorded, never dropped.
	ConfidenceThreshold float64 `mapstructure:"confidence_threshold" json:"confidence_threshold"`

	// ReviewComplexity is the descriptor complexity at which a plan
	// requests manual review.
	ReviewComplexity int `mapstructure:"review_complexity" json:"review_complexity"`
}

// ScoringConfig holds the validator's deduction constants.
type ScoringConfig struct {
	ErrorPenalty        int `mapstructure:"error_penalty" json:"error_penalty"`
	WarningPenalty      int `mapstructure:"warning_penalty" json:"warning_penalty"`
	PreservationPenalty int `mapstructure:"preservation_penalty" json:"preservation_penalty"`
	ReviewPenalty       int `mapstructure:"review_penalty" json:"review_penalty"`

	// DriftFloor is the minimum excerpt similarity before the validator
	// warns about mapped-rewrite drift.
	DriftFloor float64 `mapstructure:"drift_floor" json:"drift_floor"`
}

// Config is the full relift run configuration.
type Config struct {
	OutputPath   string `mapstructure:"output_path" json:"output_path"`
	ManifestPath string `mapstructure:"manifest_path" json:"manifest_path,omitempty"`

	Workers   int  `mapstructure:"workers" json:"workers"`
	Force     bool `mapstructure:"force" json:"force"`
	DryRun    bool `mapstructure:"dry_run" json:"dry_run"`
	SkipTests bool `mapstructure:"skip_tests" json:"skip_tests"`
	Verbose   bool `mapstructure:"verbose" json:"verbose"`

	// ComponentName overrides the analyzer-derived name. Only meaningful
	// for single-baseline runs.
	ComponentName string `mapstructure:"component_name" json:"component_name,omitempty"`

	Analyzer AnalyzerConfig `mapstructure:"analyzer" json:"analyzer"`
	Scoring  ScoringConfig  `mapstructure:"scoring" json:"scoring"`
}

// Validate checks configured values for internal consistency.
func (c *Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("%w: got %d", errWorkersRange, c.Workers)
	}

	if c.Analyzer.ConfidenceThreshold < 0 || c.Analyzer.ConfidenceThreshold > 1 {
		return fmt.Errorf("%w: got %v", errThresholdRange, c.Analyzer.ConfidenceThreshold)
	}

	if c.Scoring.ErrorPenalty < 0 || c.Scoring.WarningPenalty < 0 ||
		c.Scoring.PreservationPenalty < 0 || c.Scoring.ReviewPenalty < 0 {
		return errPenaltyRange
	}

	if c.Scoring.DriftFloor < 0 || c.Scoring.DriftFloor > 1 {
		return fmt.Errorf("%w: got %v", errDriftRange, c.Scoring.DriftFloor)
	}

	return nil
}
