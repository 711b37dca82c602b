// Package orchestrator drives baseline components through the migration
// pipeline, owning the manifest and progress state for the run.
//
// The orchestrator is the only place cross-component state lives. Pipeline
// stages are injected as single-capability interfaces; there is no global
// lookup. Manifest updates go through a single writer loop regardless of
// the worker count, so the durable ledger never sees interleaved writes.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/relift-dev/relift/internal/component"
	"github.com/relift-dev/relift/internal/config"
	"github.com/relift-dev/relift/internal/manifest"
	"github.com/relift-dev/relift/internal/observability"
)

// Analyzer parses one baseline source into a descriptor.
type Analyzer interface {
	Analyze(ctx context.Context, sourcePath string, content []byte) (*component.Descriptor, error)
}

// Transformer maps a descriptor into a plan.
type Transformer interface {
	Transform(desc *component.Descriptor) (*component.Plan, error)
}

// Generator emits the artifact bundle for a plan.
type Generator interface {
	Generate(plan *component.Plan) (*component.Artifact, error)
}

// Validator scores a plan/artifact pair.
type Validator interface {
	Validate(plan *component.Plan, artifact *component.Artifact) (*component.Outcome, error)
}

// Store persists the run manifest.
type Store interface {
	Create(cfg config.Config) *manifest.Manifest
	Load(path string) (*manifest.Manifest, error)
	Save(m *manifest.Manifest, path string) error
}

// Deps carries the orchestrator's injected collaborators.
type Deps struct {
	Analyzer    Analyzer
	Transformer Transformer
	Generator   Generator
	Validator   Validator
	Store       Store

	Logger  *slog.Logger
	Metrics *observability.Metrics

	// Clock defaults to time.Now; injectable for deterministic tests.
	Clock func() time.Time

	// OnProgress, if set, receives a snapshot as each component begins.
	OnProgress func(Progress)

	// OnResult, if set, receives every per-component result from the
	// writer loop (serialized, completion order). Callers use it to
	// write artifacts to durable storage.
	OnResult func(component.Result)
}

// Summary is the final outcome of a batch run.
type Summary struct {
	Results  []component.Result
	Manifest *manifest.Manifest
	Elapsed  time.Duration

	Succeeded int
	Failed    int
	Skipped   int
}

// Orchestrator runs migration batches.
type Orchestrator struct {
	cfg  config.Config
	deps Deps
}

// Sentinel for constructor validation.
var errMissingDep = fmt.Errorf("orchestrator: missing pipeline dependency")

// New creates an orchestrator. All five pipeline collaborators are
// required; logger, metrics, clock, and callbacks are optional.
func New(cfg config.Config, deps Deps) (*Orchestrator, error) {
	if deps.Analyzer == nil || deps.Transformer == nil || deps.Generator == nil ||
		deps.Validator == nil || deps.Store == nil {
		return nil, errMissingDep
	}

	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	if deps.Clock == nil {
		deps.Clock = time.Now
	}

	return &Orchestrator{cfg: cfg, deps: deps}, nil
}

// workItem is one baseline scheduled for processing.
type workItem struct {
	name string
	path string
}

// Run drives all baselines through the pipeline.
//
// Components with a recorded outcome in a pre-existing manifest are
// skipped entirely unless the force flag is set: successes are never
// redone, and a recorded failure keeps its failure record until a forced
// retry. The manifest is persisted after every component, bounding crash
// loss to at most one in-flight component. Per-component failures are
// recorded and the batch continues; only a manifest store failure aborts
// the run. Cancellation is honored between components, never
// mid-component.
func (o *Orchestrator) Run(ctx context.Context, baselines []string) (*Summary, error) {
	manifestPath := o.manifestPath()

	ledger, err := o.deps.Store.Load(manifestPath)
	if err != nil {
		return nil, err
	}

	if ledger == nil {
		ledger = o.deps.Store.Create(o.cfg)
	}

	tr := newTracker(len(baselines), o.deps.Clock)

	var (
		work    []workItem
		results []component.Result
	)

	for _, path := range baselines {
		name := o.componentName(path, len(baselines))

		if !o.cfg.Force && (ledger.Succeeded(name) || ledger.FailedComponent(name)) {
			outcome := "success"
			if !ledger.Succeeded(name) {
				outcome = "failure"
			}

			o.emitProgress(tr.snapshot(name))
			tr.skipped++
			o.deps.Metrics.ObserveComponent(observability.StatusSkipped)
			o.deps.Logger.InfoContext(ctx, "skipping component with recorded outcome",
				"component", name, "outcome", outcome)

			continue
		}

		work = append(work, workItem{name: name, path: path})
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	completions := o.startWorkers(ctx, work)

	var fatal error

	for res := range completions {
		if fatal != nil {
			// Store already failed; drain remaining completions.
			continue
		}

		o.emitProgress(tr.snapshot(res.Name()))

		ledger = o.record(ledger, res)

		saveErr := o.deps.Store.Save(ledger, manifestPath)
		if saveErr != nil {
			fatal = saveErr

			cancel()

			continue
		}

		o.observe(ctx, res, tr)
		results = append(results, res)

		if o.deps.OnResult != nil {
			o.deps.OnResult(res)
		}
	}

	if fatal != nil {
		return nil, fatal
	}

	finalErr := o.deps.Store.Save(ledger, manifestPath)
	if finalErr != nil {
		return nil, finalErr
	}

	summary := &Summary{
		Results:   results,
		Manifest:  ledger,
		Elapsed:   o.deps.Clock().Sub(tr.started),
		Succeeded: tr.succeeded,
		Failed:    tr.failed,
		Skipped:   tr.skipped,
	}

	return summary, ctx.Err()
}

// startWorkers feeds work to a bounded pool and returns the completion
// stream. Dispatch stops between components when the context is canceled;
// an in-flight component always runs to completion so the manifest stays
// consistent.
func (o *Orchestrator) startWorkers(ctx context.Context, work []workItem) <-chan component.Result {
	workers := o.cfg.Workers
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan workItem)
	completions := make(chan component.Result)

	var wg sync.WaitGroup

	for range workers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for item := range jobs {
				completions <- o.processOne(ctx, item.name, item.path)
			}
		}()
	}

	go func() {
		defer close(jobs)

		for _, item := range work {
			if ctx.Err() != nil {
				return
			}

			jobs <- item
		}
	}()

	go func() {
		wg.Wait()
		close(completions)
	}()

	return completions
}

// processOne runs the four pipeline stages for a single component. Every
// stage failure is returned as a phase-tagged result; nothing escapes.
func (o *Orchestrator) processOne(ctx context.Context, name, path string) component.Result {
	content, err := os.ReadFile(path)
	if err != nil {
		return component.Fail(name, component.AnalysisError(name, "read baseline source", err))
	}

	desc, err := timedStage(o, component.PhaseAnalysis, func() (*component.Descriptor, error) {
		return o.deps.Analyzer.Analyze(ctx, path, content)
	})
	if err != nil {
		return component.Fail(name, coerce(err, component.PhaseAnalysis, name))
	}

	plan, err := timedStage(o, component.PhaseTransformation, func() (*component.Plan, error) {
		return o.deps.Transformer.Transform(desc)
	})
	if err != nil {
		return component.Fail(name, coerce(err, component.PhaseTransformation, name))
	}

	artifact, err := timedStage(o, component.PhaseGeneration, func() (*component.Artifact, error) {
		return o.deps.Generator.Generate(plan)
	})
	if err != nil {
		return component.Fail(name, coerce(err, component.PhaseGeneration, name))
	}

	outcome, err := timedStage(o, component.PhaseValidation, func() (*component.Outcome, error) {
		return o.deps.Validator.Validate(plan, artifact)
	})
	if err != nil {
		return component.Fail(name, coerce(err, component.PhaseValidation, name))
	}

	if !outcome.Valid {
		first := outcome.Errors[0]

		return component.Fail(name, component.ValidationError(name,
			fmt.Sprintf("%s: %s (score %d)", first.Code, first.Message, outcome.Score), nil))
	}

	return component.Succeed(name, artifact, outcome)
}

// timedStage runs one pipeline stage and records its duration.
func timedStage[T any](o *Orchestrator, phase component.Phase, fn func() (T, error)) (T, error) {
	start := o.deps.Clock()
	out, err := fn()
	o.deps.Metrics.ObserveStage(string(phase), o.deps.Clock().Sub(start))

	return out, err
}

// record folds one result into the manifest, never mutating the previous
// value.
func (o *Orchestrator) record(ledger *manifest.Manifest, res component.Result) *manifest.Manifest {
	if res.Success() {
		return ledger.RecordSuccess(res.Name())
	}

	failure := res.Failure()

	stack := ""
	if failure.Err != nil {
		stack = failure.Err.Error()
	}

	return ledger.RecordFailure(res.Name(), failure.Error(), stack, o.deps.Clock())
}

// observe updates counters, metrics, and the log for one recorded result.
func (o *Orchestrator) observe(ctx context.Context, res component.Result, tr *tracker) {
	if res.Success() {
		tr.succeeded++
		o.deps.Metrics.ObserveComponent(observability.StatusSuccess)
		o.deps.Logger.InfoContext(ctx, "component migrated",
			"component", res.Name(),
			"op", "migrate",
			"status", "success",
			"score", res.Outcome().Score,
		)

		return
	}

	tr.failed++
	o.deps.Metrics.ObserveComponent(observability.StatusFailure)
	o.deps.Logger.ErrorContext(ctx, "component migration failed",
		"component", res.Name(),
		"op", "migrate",
		"status", "failure",
		"phase", res.Failure().Phase,
		"error", res.Failure().Error(),
	)
}

func (o *Orchestrator) emitProgress(p Progress) {
	if o.deps.OnProgress != nil {
		o.deps.OnProgress(p)
	}
}

// manifestPath resolves the manifest location for this run.
func (o *Orchestrator) manifestPath() string {
	if o.cfg.ManifestPath != "" {
		return o.cfg.ManifestPath
	}

	return manifest.DefaultPath(o.cfg.OutputPath)
}

// componentName derives the manifest key for a baseline. The configured
// override applies only to single-baseline runs; otherwise the file stem
// is the component's identity across runs.
func (o *Orchestrator) componentName(path string, batchSize int) string {
	if o.cfg.ComponentName != "" && batchSize == 1 {
		return o.cfg.ComponentName
	}

	base := filepath.Base(path)

	return strings.TrimSuffix(base, filepath.Ext(base))
}

// coerce ensures stage errors carry their phase and component tags.
func coerce(err error, phase component.Phase, name string) *component.Error {
	var pe *component.Error
	if errors.As(err, &pe) {
		if pe.Component == "" {
			tagged := *pe
			tagged.Component = name

			return &tagged
		}

		return pe
	}

	return &component.Error{Phase: phase, Component: name, Msg: "stage failed", Err: err}
}
