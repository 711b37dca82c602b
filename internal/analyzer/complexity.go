package analyzer

import (
	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/relift-dev/relift/internal/component"
)

// branchNodeTypes start a nesting level for branching-depth purposes.
var branchNodeTypes = map[string]bool{
	"if_statement":       true,
	"ternary_expression": true,
	"switch_statement":   true,
	"for_statement":      true,
	"for_in_statement":   true,
	"while_statement":    true,
	"do_statement":       true,
	"try_statement":      true,
}

// branchingDepth computes the maximum nesting depth of branch constructs.
func branchingDepth(root sitter.Node) int {
	maxDepth := 0

	var descend func(n sitter.Node, depth int)

	descend = func(n sitter.Node, depth int) {
		if branchNodeTypes[n.Type()] {
			depth++
			if depth > maxDepth {
				maxDepth = depth
			}
		}

		for i := range n.NamedChildCount() {
			descend(n.NamedChild(i), depth)
		}
	}

	descend(root, 0)

	return maxDepth
}

// complexityScore maps branching depth, external-call count, and pattern
// count onto the [1, 5] scale. The function is monotonic in each input:
// more branching, more external calls, or more patterns never lowers the
// score.
func complexityScore(branchDepth int, patterns []component.Pattern) int {
	externalCalls := 0

	for _, p := range patterns {
		if p.Kind == component.PatternExternalCall {
			externalCalls++
		}
	}

	score := component.MinComplexity +
		branchDepth/2 +
		externalCalls/2 +
		len(patterns)/4

	if score > component.MaxComplexity {
		return component.MaxComplexity
	}

	return score
}
