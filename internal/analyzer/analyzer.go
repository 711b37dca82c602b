// Package analyzer parses one baseline component source file into a
// structural and behavioral descriptor.
//
// Parsing is tree-sitter based (tsx grammar family); everything downstream
// of the parse is heuristic, replaceable policy. Analysis is deterministic:
// identical source bytes always yield an identical descriptor.
package analyzer

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/relift-dev/relift/internal/component"
	"github.com/relift-dev/relift/internal/config"
)

// Analyzer turns baseline source text into component descriptors.
type Analyzer struct {
	threshold float64
	logger    *slog.Logger
}

// New creates an analyzer with the given detection settings.
func New(cfg config.AnalyzerConfig, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}

	return &Analyzer{threshold: cfg.ConfidenceThreshold, logger: logger}
}

// Analyze parses content and produces a descriptor for the exported
// component it contains. It fails with an analysis-phase error when the
// source is not a supported language, cannot be parsed, or declares no
// exported component.
func (a *Analyzer) Analyze(ctx context.Context, sourcePath string, content []byte) (*component.Descriptor, error) {
	lang, supported := classifySource(sourcePath, content)
	if !supported {
		return nil, component.AnalysisError("", fmt.Sprintf("unsupported source language %q for %s", lang, sourcePath), nil)
	}

	grammar, tsLang := grammarFor(sourcePath)
	if tsLang == nil {
		return nil, component.AnalysisError("", fmt.Sprintf("no grammar for %s", sourcePath), nil)
	}

	parser := sitter.NewParser()
	parser.SetLanguage(tsLang)

	tree, err := parser.ParseString(ctx, nil, content)
	if err != nil {
		return nil, component.AnalysisError("", "parse baseline source", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.IsNull() {
		return nil, component.AnalysisError("", "empty parse tree", nil)
	}

	found, ok := findComponent(root, content)
	if !ok {
		return nil, component.AnalysisError("", fmt.Sprintf("no exported component found in %s", sourcePath), nil)
	}

	hooks := extractHooks(root, content)
	patterns := detectPatterns(root, content, a.threshold, hooks)
	depth := branchingDepth(root)

	desc := &component.Descriptor{
		Name:         found.name,
		SourcePath:   sourcePath,
		Kind:         found.kind,
		Hooks:        hooks,
		Props:        extractProps(root, content),
		Patterns:     patterns,
		Dependencies: extractImports(root, content),
		LineCount:    countLines(content),
		Complexity:   complexityScore(depth, patterns),
		Comments:     extractComments(root, content),
	}

	a.logger.DebugContext(ctx, "analyzed baseline",
		"component", desc.Name,
		"kind", desc.Kind,
		"grammar", grammar,
		"loc", desc.LineCount,
		"patterns", len(desc.Patterns),
		"complexity", desc.Complexity,
	)

	return desc, nil
}

// candidate is a component declaration found at the top level.
type candidate struct {
	name string
	kind component.Kind
}

// findComponent locates the exported component declaration: a function or
// arrow-function constant with a capitalized name, a use-prefixed hook, or
// a class extending a component base. Export is either an inline export
// declaration or a trailing `export default Name`.
func findComponent(root sitter.Node, src []byte) (candidate, bool) {
	var (
		ordered  []candidate
		exported = map[string]bool{}
	)

	collect := func(n sitter.Node, isExported bool) {
		c, ok := declarationCandidate(n, src)
		if !ok {
			return
		}

		ordered = append(ordered, c)

		if isExported {
			exported[c.name] = true
		}
	}

	for i := range root.NamedChildCount() {
		child := root.NamedChild(i)

		if child.Type() != "export_statement" {
			collect(child, false)
			continue
		}

		for j := range child.NamedChildCount() {
			inner := child.NamedChild(j)
			if inner.Type() == "identifier" {
				// export default Name;
				exported[nodeText(inner, src)] = true
				continue
			}

			collect(inner, true)
		}
	}

	for _, c := range ordered {
		if exported[c.name] {
			return c, true
		}
	}

	return candidate{}, false
}

// declarationCandidate classifies one top-level declaration node.
func declarationCandidate(n sitter.Node, src []byte) (candidate, bool) {
	switch n.Type() {
	case "function_declaration":
		name := nodeText(n.ChildByFieldName("name"), src)

		return classifyName(name)

	case "class_declaration":
		name := nodeText(n.ChildByFieldName("name"), src)
		if !isComponentName(name) {
			return candidate{}, false
		}

		if heritage, ok := firstNamedOfType(n, "class_heritage"); ok {
			if strings.Contains(nodeText(heritage, src), "Component") {
				return candidate{name: name, kind: component.KindClass}, true
			}
		}

		return candidate{}, false

	case "lexical_declaration", "variable_declaration":
		decl, ok := firstNamedOfType(n, "variable_declarator")
		if !ok {
			return candidate{}, false
		}

		value := decl.ChildByFieldName("value")
		if value.IsNull() || !isComponentValue(value, src) {
			return candidate{}, false
		}

		name := nodeText(decl.ChildByFieldName("name"), src)

		return classifyName(name)
	}

	return candidate{}, false
}

// isComponentValue accepts arrow functions, function expressions, and
// wrapper calls like memo(...) or forwardRef(...).
func isComponentValue(value sitter.Node, src []byte) bool {
	switch value.Type() {
	case "arrow_function", "function_expression", "function":
		return true
	case "call_expression":
		callee := nodeText(value.ChildByFieldName("function"), src)

		return callee == "memo" || callee == "forwardRef" ||
			strings.HasSuffix(callee, ".memo") || strings.HasSuffix(callee, ".forwardRef")
	}

	return false
}

func classifyName(name string) (candidate, bool) {
	if isHookName(name) {
		return candidate{name: name, kind: component.KindHook}, true
	}

	if isComponentName(name) {
		return candidate{name: name, kind: component.KindFunction}, true
	}

	return candidate{}, false
}

func isComponentName(name string) bool {
	if name == "" {
		return false
	}

	return unicode.IsUpper(rune(name[0]))
}

func isHookName(name string) bool {
	const prefix = "use"

	if !strings.HasPrefix(name, prefix) || len(name) <= len(prefix) {
		return false
	}

	return unicode.IsUpper(rune(name[len(prefix)]))
}

// extractImports collects external dependency identifiers in import order.
func extractImports(root sitter.Node, src []byte) []string {
	var (
		deps []string
		seen = map[string]bool{}
	)

	for i := range root.NamedChildCount() {
		child := root.NamedChild(i)
		if child.Type() != "import_statement" {
			continue
		}

		source, ok := firstNamedOfType(child, "string")
		if !ok {
			continue
		}

		dep := strings.Trim(nodeText(source, src), `"'`)
		if dep != "" && !seen[dep] {
			seen[dep] = true
			deps = append(deps, dep)
		}
	}

	return deps
}

// extractComments collects cleaned comment text in document order.
func extractComments(root sitter.Node, src []byte) []string {
	var comments []string

	walkNamed(root, 0, func(n sitter.Node, _ int) {
		if n.Type() != "comment" {
			return
		}

		cleaned := cleanComment(nodeText(n, src))
		if cleaned != "" {
			comments = append(comments, cleaned)
		}
	})

	return comments
}

// cleanComment strips comment delimiters and per-line asterisk gutters.
func cleanComment(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "/*")
	raw = strings.TrimSuffix(raw, "*/")
	raw = strings.TrimPrefix(raw, "//")

	lines := strings.Split(raw, "\n")
	for i, line := range lines {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "*")
		lines[i] = strings.TrimSpace(line)
	}

	return strings.TrimSpace(strings.Join(lines, " "))
}

func countLines(content []byte) int {
	if len(content) == 0 {
		return 0
	}

	n := bytes.Count(content, []byte("\n"))
	if content[len(content)-1] != '\n' {
		n++
	}

	return n
}
