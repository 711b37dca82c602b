package analyzer

import (
	"strings"

	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/relift-dev/relift/internal/component"
)

// bareHooks are hooks invoked for effect, never bound to a declarator.
var bareHooks = map[string]bool{
	"useEffect":          true,
	"useLayoutEffect":    true,
	"useInsertionEffect": true,
}

// extractHooks collects state/effect usages in document order. Bound hooks
// (useState and friends) are found through their variable declarators; bare
// effect hooks through their expression statements, so nothing is counted
// twice.
func extractHooks(root sitter.Node, src []byte) []component.HookUsage {
	var hooks []component.HookUsage

	walkNamed(root, 0, func(n sitter.Node, _ int) {
		switch n.Type() {
		case "variable_declarator":
			if usage, ok := boundHook(n, src); ok {
				hooks = append(hooks, usage)
			}
		case "expression_statement":
			if usage, ok := bareHook(n, src); ok {
				hooks = append(hooks, usage)
			}
		}
	})

	return hooks
}

// boundHook handles `const [x, setX] = useState(init)` and similar.
func boundHook(decl sitter.Node, src []byte) (component.HookUsage, bool) {
	value := decl.ChildByFieldName("value")
	if value.IsNull() || value.Type() != "call_expression" {
		return component.HookUsage{}, false
	}

	callee := nodeText(value.ChildByFieldName("function"), src)
	if !isHookName(callee) {
		return component.HookUsage{}, false
	}

	usage := component.HookUsage{
		Hook:        callee,
		Bindings:    bindingNames(decl.ChildByFieldName("name"), src),
		Deps:        callDeps(value, src),
		Initializer: callInitializer(callee, value, src),
	}

	return usage, true
}

// bareHook handles `useEffect(() => {...}, [deps])` statements.
func bareHook(stmt sitter.Node, src []byte) (component.HookUsage, bool) {
	call, ok := firstNamedOfType(stmt, "call_expression")
	if !ok {
		return component.HookUsage{}, false
	}

	callee := nodeText(call.ChildByFieldName("function"), src)
	if !bareHooks[callee] {
		return component.HookUsage{}, false
	}

	return component.HookUsage{Hook: callee, Deps: callDeps(call, src)}, true
}

// bindingNames flattens the declarator name: a plain identifier, an array
// pattern ([value, setValue]), or an object pattern ({data, error}).
func bindingNames(name sitter.Node, src []byte) []string {
	if name.IsNull() {
		return nil
	}

	if name.Type() == "identifier" {
		return []string{nodeText(name, src)}
	}

	var names []string

	for i := range name.NamedChildCount() {
		child := name.NamedChild(i)
		if child.Type() == "identifier" || child.Type() == "shorthand_property_identifier_pattern" {
			names = append(names, nodeText(child, src))
		}
	}

	return names
}

// callDeps returns identifier names from a trailing dependency array
// argument, or nil when there is none.
func callDeps(call sitter.Node, src []byte) []string {
	args := call.ChildByFieldName("arguments")
	if args.IsNull() {
		return nil
	}

	count := args.NamedChildCount()
	if count == 0 {
		return nil
	}

	last := args.NamedChild(count - 1)
	if last.Type() != "array" {
		return nil
	}

	deps := []string{}

	for i := range last.NamedChildCount() {
		deps = append(deps, nodeText(last.NamedChild(i), src))
	}

	return deps
}

// callInitializer returns the first argument text for value-carrying hooks.
func callInitializer(callee string, call sitter.Node, src []byte) string {
	if callee != "useState" && callee != "useReducer" && callee != "useRef" {
		return ""
	}

	args := call.ChildByFieldName("arguments")
	if args.IsNull() || args.NamedChildCount() == 0 {
		return ""
	}

	return strings.TrimSpace(nodeText(args.NamedChild(0), src))
}
