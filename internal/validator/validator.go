// Package validator scores a generated artifact against preservation and
// compilation criteria. It performs no I/O and never mutates its inputs.
package validator

import (
	"fmt"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/relift-dev/relift/internal/component"
	"github.com/relift-dev/relift/internal/config"
)

// Validator checks plan/artifact pairs.
type Validator struct {
	scoring config.ScoringConfig
	dmp     *diffmatchpatch.DiffMatchPatch
}

// New creates a validator with the given scoring constants.
func New(cfg config.ScoringConfig) *Validator {
	return &Validator{scoring: cfg, dmp: diffmatchpatch.New()}
}

// Validate produces the outcome for one migrated component.
//
// The score starts at 100 and deducts the configured penalty per error,
// per warning, for lost preservation, and for a manual-review request,
// clamped to zero. Validity depends on errors only; warnings never block.
func (v *Validator) Validate(plan *component.Plan, artifact *component.Artifact) (*component.Outcome, error) {
	if plan == nil || artifact == nil {
		return nil, component.ValidationError("", "nil plan or artifact", nil)
	}

	var (
		errs     []component.Issue
		warnings []component.Issue
	)

	if !plan.BusinessLogicPreserved {
		errs = append(errs, component.Issue{
			Code:    component.CodeBusinessLogicNotPreserved,
			Message: fmt.Sprintf("%d pattern(s) have no mapping target", len(plan.Unmapped)),
			Path:    "plan.unmapped",
		})
	}

	if plan.RequiresManualReview {
		warnings = append(warnings, component.Issue{
			Code:    component.CodeManualReviewRequired,
			Message: "low-confidence detection or high complexity; review the generated component",
			Path:    "plan",
		})
	}

	errs = append(errs, traceabilityErrors(plan, artifact)...)
	errs = append(errs, compilationErrors(artifact)...)
	warnings = append(warnings, v.driftWarnings(plan)...)

	score := component.MaxScore
	score -= v.scoring.ErrorPenalty * len(errs)
	score -= v.scoring.WarningPenalty * len(warnings)

	if !plan.BusinessLogicPreserved {
		score -= v.scoring.PreservationPenalty
	}

	if plan.RequiresManualReview {
		score -= v.scoring.ReviewPenalty
	}

	if score < component.MinScore {
		score = component.MinScore
	}

	return &component.Outcome{
		Component:              artifact.Name,
		Valid:                  len(errs) == 0,
		Errors:                 errs,
		Warnings:               warnings,
		Score:                  score,
		BusinessLogicPreserved: plan.BusinessLogicPreserved,
		TypesSafe:              artifact.CompilationStatus != component.StatusError && artifact.PropsContract != "",
		TestsPass:              artifact.TestScaffold != "",
	}, nil
}

// traceabilityErrors enforces the one-doc-block-per-mapping contract.
func traceabilityErrors(plan *component.Plan, artifact *component.Artifact) []component.Issue {
	subjects := map[string]bool{}
	for _, d := range artifact.Docs {
		subjects[d.Subject] = true
	}

	var errs []component.Issue

	for _, m := range plan.Mappings {
		if !subjects[m.Target] {
			errs = append(errs, component.Issue{
				Code:    component.CodeMissingDocBlock,
				Message: fmt.Sprintf("no documentation block for mapped unit %s", m.Target),
				Path:    "artifact.docs",
				Value:   m.Target,
			})
		}
	}

	return errs
}

// compilationErrors surfaces compiler-recorded failures, one per message.
func compilationErrors(artifact *component.Artifact) []component.Issue {
	if artifact.CompilationStatus != component.StatusError {
		return nil
	}

	msgs := artifact.CompilationErrors
	if len(msgs) == 0 {
		msgs = []string{"compilation failed"}
	}

	errs := make([]component.Issue, 0, len(msgs))

	for _, msg := range msgs {
		errs = append(errs, component.Issue{
			Code:    component.CodeCompilationFailed,
			Message: msg,
			Path:    "artifact.source",
		})
	}

	return errs
}

// driftWarnings flags mapped rewrites that diverged too far from their
// source excerpt.
func (v *Validator) driftWarnings(plan *component.Plan) []component.Issue {
	if plan.Descriptor == nil {
		return nil
	}

	var warnings []component.Issue

	for _, m := range plan.Mappings {
		if m.Rewritten == "" || m.PatternIndex >= len(plan.Descriptor.Patterns) {
			continue
		}

		excerpt := plan.Descriptor.Patterns[m.PatternIndex].Excerpt
		if excerpt == "" {
			continue
		}

		sim := v.similarity(excerpt, m.Rewritten)
		if sim < v.scoring.DriftFloor {
			warnings = append(warnings, component.Issue{
				Code:    component.CodeExcerptDrift,
				Message: fmt.Sprintf("rewrite of %s retains only %.0f%% of the source excerpt", m.Target, sim*100),
				Path:    fmt.Sprintf("plan.mappings[%d]", m.PatternIndex),
			})
		}
	}

	return warnings
}

// similarity computes 1 − normalized Levenshtein distance over the diff.
func (v *Validator) similarity(a, b string) float64 {
	if a == b {
		return 1
	}

	// DiffLevenshtein counts runes, so the denominator must too.
	longest := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > longest {
		longest = n
	}

	if longest == 0 {
		return 1
	}

	diffs := v.dmp.DiffMain(a, b, false)
	lev := v.dmp.DiffLevenshtein(diffs)

	sim := 1 - float64(lev)/float64(longest)
	if sim < 0 {
		return 0
	}

	return sim
}
