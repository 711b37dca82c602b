package analyzer

import (
	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/relift-dev/relift/internal/component"
)

// walkNamed visits n and its named descendants in document (pre-order)
// order. Traversal order is what makes analysis deterministic: all
// extracted lists follow it.
func walkNamed(n sitter.Node, depth int, visit func(n sitter.Node, depth int)) {
	visit(n, depth)

	for i := range n.NamedChildCount() {
		walkNamed(n.NamedChild(i), depth+1, visit)
	}
}

// nodeText extracts the source text covered by a node (allocating copy).
func nodeText(n sitter.Node, src []byte) string {
	if n.IsNull() {
		return ""
	}

	start := int(n.StartByte())
	end := int(n.EndByte())

	if start < 0 || end > len(src) || start > end {
		return ""
	}

	return string(src[start:end])
}

// nodeSpan converts tree-sitter points to a 1-based line span.
func nodeSpan(n sitter.Node) component.Span {
	return component.Span{
		StartLine: int(n.StartPoint().Row) + 1,
		EndLine:   int(n.EndPoint().Row) + 1,
	}
}

// spanKey builds a map key identifying a node's byte range, used to
// deduplicate pattern detections over the same source region.
func spanKey(n sitter.Node) uint64 {
	return uint64(n.StartByte())<<32 | uint64(n.EndByte())
}

// firstNamedOfType returns the first named child with the given type.
func firstNamedOfType(n sitter.Node, typ string) (sitter.Node, bool) {
	for i := range n.NamedChildCount() {
		child := n.NamedChild(i)
		if child.Type() == typ {
			return child, true
		}
	}

	return sitter.Node{}, false
}
