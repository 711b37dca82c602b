// Package generator emits the new-generation component artifact set from a
// transformation plan.
//
// Generation is template-driven and purely in-memory; writing artifacts to
// disk is the caller's concern. The generator never claims compilation
// success: status starts at pending and only the downstream compiler
// collaborator moves it.
package generator

import (
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/relift-dev/relift/internal/component"
	"github.com/relift-dev/relift/internal/config"
)

// Generator builds artifacts from plans.
type Generator struct {
	outputPath   string
	nameOverride string
	skipTests    bool
}

// New creates a generator honoring the run's generation options.
func New(cfg config.Config) *Generator {
	return &Generator{
		outputPath:   cfg.OutputPath,
		nameOverride: cfg.ComponentName,
		skipTests:    cfg.SkipTests,
	}
}

// templateData is the single payload all artifact templates render from.
type templateData struct {
	Name         string
	SourcePath   string
	Props        []component.PropSpec
	Mappings     []component.PatternMapping
	Unmapped     []component.UnmappedPattern
	HookMappings []component.HookMapping
	HasServices  bool
}

// Generate emits the artifact bundle for one plan. Exactly one
// documentation block is produced per mapping, never merged or omitted,
// so a reviewer can trace every generated unit back to the original
// business logic.
func (g *Generator) Generate(plan *component.Plan) (*component.Artifact, error) {
	if plan == nil || plan.Descriptor == nil {
		return nil, component.GenerationError("", "nil plan", nil)
	}

	name := plan.Component
	if g.nameOverride != "" {
		name = g.nameOverride
	}

	data := templateData{
		Name:         name,
		SourcePath:   plan.Descriptor.SourcePath,
		Props:        plan.Descriptor.Props,
		Mappings:     plan.Mappings,
		Unmapped:     plan.Unmapped,
		HookMappings: plan.HookMappings,
		HasServices:  hasStrategy(plan, component.StrategyServiceCall),
	}

	artifact := &component.Artifact{
		Name:              name,
		OutputPath:        filepath.Join(g.outputPath, name),
		Docs:              docBlocks(plan, name),
		CompilationStatus: component.StatusPending,
	}

	renders := []struct {
		tmpl *template.Template
		dst  *string
		skip bool
	}{
		{sourceTmpl, &artifact.Source, false},
		{propsTmpl, &artifact.PropsContract, false},
		{stateTmpl, &artifact.StateContract, len(plan.HookMappings) == 0},
		{responseTmpl, &artifact.ResponseContract, !data.HasServices},
		{testTmpl, &artifact.TestScaffold, g.skipTests},
		{readmeTmpl, &artifact.Readme, false},
	}

	for _, r := range renders {
		if r.skip {
			continue
		}

		out, err := render(r.tmpl, data)
		if err != nil {
			return nil, component.GenerationError(name, fmt.Sprintf("render %s", r.tmpl.Name()), err)
		}

		*r.dst = out
	}

	return artifact, nil
}

func render(tmpl *template.Template, data templateData) (string, error) {
	var sb strings.Builder

	err := tmpl.Execute(&sb, data)
	if err != nil {
		return "", err
	}

	return sb.String(), nil
}

// docBlocks builds the one-to-one documentation blocks for a plan's
// mappings, in mapping order. Every block field is populated; slice
// fields serialize as empty arrays, never null.
func docBlocks(plan *component.Plan, name string) []component.DocBlock {
	blocks := make([]component.DocBlock, 0, len(plan.Mappings))

	deps := plan.Descriptor.Dependencies
	if deps == nil {
		deps = []string{}
	}

	for _, m := range plan.Mappings {
		pattern := plan.Descriptor.Patterns[m.PatternIndex]

		block := component.DocBlock{
			Subject:   m.Target,
			Rationale: pattern.Description,
			Actions: []string{
				fmt.Sprintf("carry %s behavior from lines %d-%d", pattern.Kind, pattern.Span.StartLine, pattern.Span.EndLine),
				fmt.Sprintf("rewire as %s", m.Strategy),
			},
			Collaborators: collaboratorsFor(m.Strategy),
			DataFlow: fmt.Sprintf("%s source lines %d-%d flow into %s",
				name, pattern.Span.StartLine, pattern.Span.EndLine, m.Target),
			Dependencies: deps,
		}

		if pattern.LowConfidence {
			block.EdgeCases = fmt.Sprintf("detection confidence %.2f below threshold; verify behavior manually", pattern.Confidence)
		}

		blocks = append(blocks, block)
	}

	return blocks
}

func collaboratorsFor(strategy component.MappingStrategy) []string {
	switch strategy {
	case component.StrategyGuardHook:
		return []string{"useGuards"}
	case component.StrategyStoreAction:
		return []string{"createStore"}
	case component.StrategyServiceCall:
		return []string{"services"}
	case component.StrategyPureTransform, component.StrategyRenderBranch:
		return []string{}
	}

	return []string{}
}

func hasStrategy(plan *component.Plan, strategy component.MappingStrategy) bool {
	for _, m := range plan.Mappings {
		if m.Strategy == strategy {
			return true
		}
	}

	return false
}
