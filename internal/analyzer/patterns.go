package analyzer

import (
	"fmt"
	"regexp"
	"strings"

	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/relift-dev/relift/internal/component"
)

// Detector confidence levels. Heuristic policy, tunable only through the
// threshold that flags low-confidence detections.
const (
	confGuardThrow     = 0.9
	confValidationCall = 0.8
	confValidationCond = 0.6
	confKnownSetter    = 0.9
	confUnknownSetter  = 0.55
	confDispatch       = 0.85
	confExternalCall   = 0.9
	confAwaited        = 0.7
	confTransform      = 0.75
	confBranch         = 0.6
	confTernary        = 0.5
	confSwitch         = 0.65
)

// maxExcerptLen caps pattern excerpts to keep descriptors compact.
const maxExcerptLen = 200

var (
	reSetter         = regexp.MustCompile(`^set[A-Z]`)
	reValidationName = regexp.MustCompile(`(?i)^(validate|isvalid|check|assert|verify)`)
	reValidationCond = regexp.MustCompile(`(?i)(valid|error|required|missing|empty|invalid)`)
	reTransformCall  = regexp.MustCompile(`\.(map|filter|reduce|flatMap|sort|sorted)$`)
)

// detector accumulates business-logic patterns over one parse tree.
type detector struct {
	src       []byte
	threshold float64
	setters   map[string]bool

	patterns []component.Pattern
	recorded map[uint64]bool
	consumed map[uint64]bool
}

// detectPatterns runs the pattern heuristics over the tree. Patterns are
// returned in document order; detections below threshold are flagged
// low-confidence, never dropped.
func detectPatterns(root sitter.Node, src []byte, threshold float64, hooks []component.HookUsage) []component.Pattern {
	d := &detector{
		src:       src,
		threshold: threshold,
		setters:   knownSetters(hooks),
		recorded:  map[uint64]bool{},
		consumed:  map[uint64]bool{},
	}

	walkNamed(root, 0, d.visit)

	return d.patterns
}

// knownSetters collects set-prefixed state bindings from hook usages.
func knownSetters(hooks []component.HookUsage) map[string]bool {
	setters := map[string]bool{}

	for _, h := range hooks {
		for _, b := range h.Bindings {
			if reSetter.MatchString(b) {
				setters[b] = true
			}
		}
	}

	return setters
}

func (d *detector) visit(n sitter.Node, _ int) {
	switch n.Type() {
	case "if_statement":
		d.visitIf(n)
	case "ternary_expression":
		d.record(n, component.PatternConditional, confTernary, "ternary branch")
	case "switch_statement":
		d.record(n, component.PatternConditional, confSwitch,
			fmt.Sprintf("switch on %q", d.conditionText(n)))
	case "call_expression":
		d.visitCall(n)
	case "await_expression":
		d.visitAwait(n)
	}
}

// visitIf classifies an if statement as a validation guard (it throws or
// checks validity-shaped identifiers) or as a plain conditional branch.
func (d *detector) visitIf(n sitter.Node) {
	cond := d.conditionText(n)

	if d.containsThrow(n) {
		d.record(n, component.PatternValidation, confGuardThrow,
			fmt.Sprintf("guard clause on %q", cond))
		d.consumeValidationCalls(n)

		return
	}

	if reValidationCond.MatchString(cond) {
		d.record(n, component.PatternValidation, confValidationCond,
			fmt.Sprintf("validity check on %q", cond))
		d.consumeValidationCalls(n)

		return
	}

	d.record(n, component.PatternConditional, confBranch,
		fmt.Sprintf("conditional branch on %q", cond))
}

func (d *detector) visitCall(n sitter.Node) {
	if d.consumed[spanKey(n)] {
		return
	}

	callee := nodeText(n.ChildByFieldName("function"), d.src)
	if callee == "" || isHookName(callee) {
		return
	}

	switch {
	case reSetter.MatchString(lastSegment(callee)):
		conf := confUnknownSetter
		if d.setters[callee] {
			conf = confKnownSetter
		}

		d.record(n, component.PatternStateTransition, conf,
			fmt.Sprintf("state transition via %s", callee))

	case lastSegment(callee) == "dispatch" || strings.HasSuffix(callee, ".setState"):
		d.record(n, component.PatternStateTransition, confDispatch,
			fmt.Sprintf("state transition via %s", callee))

	case isExternalCallee(callee):
		d.record(n, component.PatternExternalCall, confExternalCall,
			fmt.Sprintf("external call to %s", callee))

	case reValidationName.MatchString(lastSegment(callee)):
		d.record(n, component.PatternValidation, confValidationCall,
			fmt.Sprintf("validation call to %s", callee))

	case reTransformCall.MatchString(callee):
		d.record(n, component.PatternTransformation, confTransform,
			fmt.Sprintf("data transformation via %s", callee))
	}
}

// visitAwait records generically awaited work as an external call unless
// the awaited expression is itself an external call (which the call visit
// records with higher confidence).
func (d *detector) visitAwait(n sitter.Node) {
	if n.NamedChildCount() == 0 {
		return
	}

	inner := n.NamedChild(0)
	if inner.Type() == "call_expression" {
		callee := nodeText(inner.ChildByFieldName("function"), d.src)
		if isExternalCallee(callee) {
			return
		}
	}

	d.record(n, component.PatternExternalCall, confAwaited,
		fmt.Sprintf("awaited external work: %s", truncate(nodeText(n, d.src), 60)))
}

// record appends one pattern, deduplicating by node span.
func (d *detector) record(n sitter.Node, kind component.PatternKind, conf float64, desc string) {
	key := spanKey(n)
	if d.recorded[key] {
		return
	}

	d.recorded[key] = true

	d.patterns = append(d.patterns, component.Pattern{
		Kind:          kind,
		Description:   desc,
		Span:          nodeSpan(n),
		Excerpt:       truncate(nodeText(n, d.src), maxExcerptLen),
		Confidence:    conf,
		LowConfidence: conf < d.threshold,
	})
}

// consumeValidationCalls marks validation-shaped calls inside an already
// recorded guard so they are not double-counted.
func (d *detector) consumeValidationCalls(n sitter.Node) {
	walkNamed(n, 0, func(child sitter.Node, _ int) {
		if child.Type() != "call_expression" {
			return
		}

		callee := nodeText(child.ChildByFieldName("function"), d.src)
		if reValidationName.MatchString(lastSegment(callee)) {
			d.consumed[spanKey(child)] = true
		}
	})
}

func (d *detector) conditionText(n sitter.Node) string {
	cond := n.ChildByFieldName("condition")
	if cond.IsNull() {
		cond = n.ChildByFieldName("value")
	}

	if cond.IsNull() {
		return ""
	}

	return truncate(strings.Trim(nodeText(cond, d.src), "()"), 80)
}

func (d *detector) containsThrow(n sitter.Node) bool {
	found := false

	walkNamed(n, 0, func(child sitter.Node, _ int) {
		if child.Type() == "throw_statement" {
			found = true
		}
	})

	return found
}

// isExternalCallee recognizes network/service call shapes.
func isExternalCallee(callee string) bool {
	if callee == "fetch" || strings.HasSuffix(callee, ".fetch") {
		return true
	}

	head, _, _ := strings.Cut(callee, ".")
	head = strings.ToLower(head)

	return head == "axios" || strings.Contains(head, "api") || strings.Contains(head, "client")
}

func lastSegment(callee string) string {
	if idx := strings.LastIndex(callee, "."); idx >= 0 {
		return callee[idx+1:]
	}

	return callee
}

func truncate(s string, limit int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= limit {
		return s
	}

	cut := s[:limit]
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}

	return cut + "…"
}
