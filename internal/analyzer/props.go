package analyzer

import (
	"strings"

	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/relift-dev/relift/internal/component"
)

// extractProps collects the component's declared input parameters.
//
// A `...Props` interface or type alias is the primary source; destructured
// function parameters supply defaults (and are the only source for
// untyped baselines). Order follows the declaration.
func extractProps(root sitter.Node, src []byte) []component.PropSpec {
	props := interfaceProps(root, src)
	defaults := destructuredDefaults(root, src)

	if len(props) == 0 {
		return destructuredProps(root, src)
	}

	for i := range props {
		if def, ok := defaults[props[i].Name]; ok {
			props[i].Default = def
			props[i].Required = false
		}
	}

	return props
}

// interfaceProps reads property signatures from the first *Props interface
// or object type alias.
func interfaceProps(root sitter.Node, src []byte) []component.PropSpec {
	var props []component.PropSpec

	walkNamed(root, 0, func(n sitter.Node, _ int) {
		if props != nil {
			return
		}

		typ := n.Type()
		if typ != "interface_declaration" && typ != "type_alias_declaration" {
			return
		}

		name := nodeText(n.ChildByFieldName("name"), src)
		if !strings.HasSuffix(name, "Props") {
			return
		}

		props = propertySignatures(n, src)
	})

	return props
}

// propertySignatures collects property_signature nodes under a declaration.
func propertySignatures(decl sitter.Node, src []byte) []component.PropSpec {
	props := []component.PropSpec{}

	walkNamed(decl, 0, func(n sitter.Node, _ int) {
		if n.Type() != "property_signature" {
			return
		}

		name := nodeText(n.ChildByFieldName("name"), src)
		if name == "" {
			return
		}

		full := nodeText(n, src)
		head, _, _ := strings.Cut(full, ":")

		props = append(props, component.PropSpec{
			Name:     name,
			Type:     propType(n, src),
			Required: !strings.Contains(head, "?"),
		})
	})

	return props
}

// propType extracts the annotation text without its leading colon.
func propType(sig sitter.Node, src []byte) string {
	annotation := sig.ChildByFieldName("type")
	if annotation.IsNull() {
		return ""
	}

	return strings.TrimSpace(strings.TrimPrefix(nodeText(annotation, src), ":"))
}

// destructuredProps derives props from the component's first object-pattern
// parameter when no typed contract exists.
func destructuredProps(root sitter.Node, src []byte) []component.PropSpec {
	pattern, ok := firstParamPattern(root)
	if !ok {
		return nil
	}

	var props []component.PropSpec

	for i := range pattern.NamedChildCount() {
		child := pattern.NamedChild(i)

		switch child.Type() {
		case "shorthand_property_identifier_pattern":
			props = append(props, component.PropSpec{
				Name:     nodeText(child, src),
				Required: true,
			})
		case "object_assignment_pattern":
			name := nodeText(child.ChildByFieldName("left"), src)
			def := strings.TrimSpace(nodeText(child.ChildByFieldName("right"), src))
			props = append(props, component.PropSpec{
				Name:    name,
				Default: def,
			})
		}
	}

	return props
}

// destructuredDefaults maps prop names to their destructuring defaults.
func destructuredDefaults(root sitter.Node, src []byte) map[string]string {
	defaults := map[string]string{}

	pattern, ok := firstParamPattern(root)
	if !ok {
		return defaults
	}

	for i := range pattern.NamedChildCount() {
		child := pattern.NamedChild(i)
		if child.Type() != "object_assignment_pattern" {
			continue
		}

		name := nodeText(child.ChildByFieldName("left"), src)
		defaults[name] = strings.TrimSpace(nodeText(child.ChildByFieldName("right"), src))
	}

	return defaults
}

// firstParamPattern finds the first object-pattern parameter of any
// function-like node in the file.
func firstParamPattern(root sitter.Node) (sitter.Node, bool) {
	var (
		found  sitter.Node
		haveIt bool
	)

	walkNamed(root, 0, func(n sitter.Node, _ int) {
		if haveIt {
			return
		}

		switch n.Type() {
		case "function_declaration", "arrow_function", "function_expression", "function":
		default:
			return
		}

		params := n.ChildByFieldName("parameters")
		if params.IsNull() {
			return
		}

		for i := range params.NamedChildCount() {
			param := params.NamedChild(i)

			if param.Type() == "object_pattern" {
				found, haveIt = param, true

				return
			}

			// Typed parameter: (props: FooProps) or ({a, b}: FooProps).
			if param.Type() == "required_parameter" || param.Type() == "optional_parameter" {
				if inner, ok := firstNamedOfType(param, "object_pattern"); ok {
					found, haveIt = inner, true

					return
				}
			}
		}
	})

	return found, haveIt
}
