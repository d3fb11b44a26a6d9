// Package dart lowers widget-tree source (a Flutter/Dart subset) into the IR
// and generates it back. The parser locates the widget class (and its State
// class when stateful), lifts field declarations into state bindings, and
// recursively lowers the build() return expression. Constructor arguments it
// cannot classify stay opaque expression slots; the IR always carries the
// component-model widget vocabulary, so registry transforms run backward at
// parse time.
package dart

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/uimorph/uimorph/pkg/anim"
	"github.com/uimorph/uimorph/pkg/ir"
	"github.com/uimorph/uimorph/pkg/registry"
	"github.com/uimorph/uimorph/pkg/state"
	"github.com/uimorph/uimorph/pkg/textutil"
)

var (
	widgetClassRe = regexp.MustCompile(`class\s+(\w+)\s+extends\s+(StatelessWidget|StatefulWidget)\b`)
	buildRe       = regexp.MustCompile(`Widget\s+build\s*\(\s*BuildContext\s+\w+\s*\)`)
	ctorAheadRe   = regexp.MustCompile(`^([A-Za-z_][\w.]*)\s*\(`)
	identRe       = regexp.MustCompile(`^[A-Za-z_]\w*$`)
)

// Parse lowers src into an IR document. The returned error, if any, is an
// *ir.ParseError carrying line and column.
func Parse(src, sourceFile string, reg *registry.Registry) (*ir.Document, []ir.Warning, error) {
	m := widgetClassRe.FindStringSubmatchIndex(src)
	if m == nil {
		return nil, nil, parseErrorAt(src, 0, "no widget class found")
	}

	componentName := src[m[2]:m[3]]
	classKind := src[m[4]:m[5]]

	classBody, bodyOffset, err := classBodyAfter(src, m[1])
	if err != nil {
		return nil, nil, err
	}

	if classKind == "StatefulWidget" {
		stateRe := regexp.MustCompile(`class\s+(\w+)\s+extends\s+State<\s*` + regexp.QuoteMeta(componentName) + `\s*>`)

		sm := stateRe.FindStringSubmatchIndex(src)
		if sm == nil {
			return nil, nil, parseErrorAt(src, m[0], fmt.Sprintf("stateful widget %s has no State class", componentName))
		}

		classBody, bodyOffset, err = classBodyAfter(src, sm[1])
		if err != nil {
			return nil, nil, err
		}
	}

	bm := buildRe.FindStringIndex(classBody)
	if bm == nil {
		return nil, nil, parseErrorAt(src, bodyOffset, fmt.Sprintf("class %s has no build method", componentName))
	}

	bindings := detectFields(classBody[:bm[0]])
	state.UpgradeWidgetReducer(bindings, classBody)

	buildBody, buildOffset, err := classBodyAfter(src, bodyOffset+bm[1])
	if err != nil {
		return nil, nil, err
	}

	retIdx := strings.Index(buildBody, "return")
	if retIdx < 0 {
		return nil, nil, parseErrorAt(src, buildOffset, "build method has no return statement")
	}

	for _, line := range strings.Split(buildBody[:retIdx], "\n") {
		if binding := state.DetectWidgetContextRead(strings.TrimSpace(line)); binding != nil {
			bindings = append(bindings, binding)
		}
	}

	cur := &cursor{src: src, pos: buildOffset + retIdx + len("return")}

	root, err := cur.parseWidget()
	if err != nil {
		return nil, nil, err
	}

	var warnings []ir.Warning

	root = lowerTree(root, reg, "root", &warnings)
	detectTransitions(root, bindings)
	warnings = append(warnings, state.AttachBindings(root, bindings)...)

	doc := ir.NewDocument(root, ir.FrameworkWidgetTree, sourceFile, componentName)

	return doc, warnings, nil
}

// classBodyAfter returns the brace-delimited body starting at the first '{'
// at or after from.
func classBodyAfter(src string, from int) (body string, bodyOffset int, err error) {
	idx := strings.Index(src[from:], "{")
	if idx < 0 {
		return "", 0, parseErrorAt(src, from, "expected class body")
	}

	open := from + idx

	end, balErr := textutil.Balanced(src, open)
	if balErr != nil {
		return "", 0, parseErrorAt(src, open, "unterminated body")
	}

	return src[open+1 : end-1], open + 1, nil
}

// detectFields lifts State-class field declarations into bindings, one per
// declaration line.
func detectFields(region string) []*ir.StateBinding {
	var bindings []*ir.StateBinding

	for _, line := range strings.Split(region, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "@") || strings.HasPrefix(trimmed, "//") {
			continue
		}

		if binding := state.DetectWidgetField(trimmed); binding != nil {
			bindings = append(bindings, binding)
		}
	}

	return bindings
}

// lowerTree converts a raw constructor tree (widget-tree vocabulary) into
// canonical IR: animation and gesture extraction first, then backward
// registry transforms. A GestureDetector carrying nothing but gestures and a
// single child dissolves into that child.
func lowerTree(n *ir.Node, reg *registry.Registry, path string, warnings *[]ir.Warning) *ir.Node {
	if n.Kind != ir.KindElement {
		return n
	}

	for i, child := range n.Children {
		n.Children[i] = lowerTree(child, reg, fmt.Sprintf("%s/children[%d]", path, i), warnings)
	}

	dartName := n.WidgetType
	n.Animation = anim.ExtractWidget(dartName, n.Props)

	if dartName == "GestureDetector" && len(n.Props) == 0 && n.Animation != nil &&
		len(n.Children) == 1 && n.Children[0].Kind == ir.KindElement {
		child := n.Children[0]

		if child.Animation == nil {
			child.Animation = n.Animation
		} else {
			child.Animation.Gestures = append(child.Animation.Gestures, n.Animation.Gestures...)
		}

		return child
	}

	entry, ok := reg.ResolveBackward(dartName)
	if !ok {
		*warnings = append(*warnings, ir.Warning{
			Kind:    ir.WarnUnknownWidget,
			Path:    path,
			Message: fmt.Sprintf("widget %q has no component-model mapping; kept verbatim", dartName),
		})

		return n
	}

	n.WidgetType = entry.SourceWidget

	props := make(map[string]ir.PropValue, len(n.Props))

	names := make([]string, 0, len(n.Props))
	for name := range n.Props {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		target, value, warn := reg.TransformProp(entry, name, n.Props[name], registry.Backward)
		if warn != nil {
			warn.Path = path
			*warnings = append(*warnings, *warn)
		}

		props[target] = value
	}

	n.Props = props

	return n
}

func detectTransitions(root *ir.Node, bindings []*ir.StateBinding) {
	ir.Walk(root, func(n *ir.Node, _ string) bool {
		if n.Kind != ir.KindElement {
			return true
		}

		for name, value := range n.Props {
			if value.Kind == ir.PropExpression {
				state.DetectTransition(bindings, name, value.SourceText)
			}
		}

		if n.Animation != nil {
			for _, g := range n.Animation.Gestures {
				state.DetectTransition(bindings, string(g.Kind), g.Handler)
			}
		}

		return true
	})
}

// cursor is a byte-offset scanner over the whole source, so reported
// positions match the original file.
type cursor struct {
	src string
	pos int
}

func (c *cursor) errorf(format string, args ...any) error {
	return parseErrorAt(c.src, c.pos, fmt.Sprintf(format, args...))
}

func parseErrorAt(src string, offset int, message string) error {
	line, col := textutil.LineCol(src, offset)

	return &ir.ParseError{Message: message, Line: line, Column: col}
}

// skipSpace skips whitespace and line comments.
func (c *cursor) skipSpace() {
	for c.pos < len(c.src) {
		switch c.src[c.pos] {
		case ' ', '\t', '\n', '\r':
			c.pos++

		case '/':
			if c.pos+1 < len(c.src) && c.src[c.pos+1] == '/' {
				for c.pos < len(c.src) && c.src[c.pos] != '\n' {
					c.pos++
				}

				continue
			}

			return

		default:
			return
		}
	}
}

func (c *cursor) readTypeName() string {
	start := c.pos

	for c.pos < len(c.src) {
		ch := c.src[c.pos]
		if ch == '_' || ch == '.' ||
			(ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') {
			c.pos++
			continue
		}

		break
	}

	return c.src[start:c.pos]
}

func (c *cursor) readIdent() string {
	start := c.pos

	for c.pos < len(c.src) {
		ch := c.src[c.pos]
		if ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') {
			c.pos++
			continue
		}

		break
	}

	return c.src[start:c.pos]
}

func (c *cursor) skipString() error {
	quote := c.src[c.pos]
	c.pos++

	for c.pos < len(c.src) {
		switch c.src[c.pos] {
		case '\\':
			c.pos += 2

		case quote:
			c.pos++
			return nil

		default:
			c.pos++
		}
	}

	return c.errorf("unterminated string")
}

// readValue reads a top-level value: everything up to (not including) a stop
// byte at bracket depth zero.
func (c *cursor) readValue(stops string) string {
	start := c.pos
	depth := 0

	for c.pos < len(c.src) {
		ch := c.src[c.pos]

		switch ch {
		case '(', '[', '{':
			depth++

		case ')', ']', '}':
			if depth == 0 && strings.IndexByte(stops, ch) >= 0 {
				return strings.TrimSpace(c.src[start:c.pos])
			}

			depth--

		case ',':
			if depth == 0 && strings.IndexByte(stops, ch) >= 0 {
				return strings.TrimSpace(c.src[start:c.pos])
			}

		case '\'', '"':
			if err := c.skipString(); err != nil {
				return strings.TrimSpace(c.src[start:c.pos])
			}

			continue
		}

		c.pos++
	}

	return strings.TrimSpace(c.src[start:c.pos])
}

// constructorAhead reports whether the cursor sits on a widget constructor
// call: a dotted type name whose final segment is capitalized, followed by
// '('. Lowercase final segments (Theme.of, EdgeInsets.all) are plain calls.
func (c *cursor) constructorAhead() bool {
	m := ctorAheadRe.FindStringSubmatch(c.src[c.pos:])
	if m == nil {
		return false
	}

	segments := strings.Split(m[1], ".")

	last := segments[len(segments)-1]
	if last == "" {
		// Trailing dot before '(' is not a constructor name.
		return false
	}

	return last[0] == '_' || (last[0] >= 'A' && last[0] <= 'Z')
}

// parseWidget parses one constructor call into a raw element carrying
// widget-tree names.
func (c *cursor) parseWidget() (*ir.Node, error) {
	c.skipSpace()

	if !c.constructorAhead() {
		return nil, c.errorf("expected widget constructor")
	}

	name := c.readTypeName()

	c.skipSpace()

	if c.pos >= len(c.src) || c.src[c.pos] != '(' {
		return nil, c.errorf("expected argument list for %s", name)
	}

	c.pos++ // consume '('

	el := ir.NewElement(name)

	return el, c.parseArgs(el, name)
}

func (c *cursor) parseArgs(el *ir.Node, name string) error {
	first := true

	for {
		c.skipSpace()

		if c.pos >= len(c.src) {
			return c.errorf("unterminated argument list for %s", name)
		}

		if c.src[c.pos] == ')' {
			c.pos++
			return nil
		}

		if argName, ok := c.peekNamedArg(); ok {
			err := c.parseNamedArg(el, argName)
			if err != nil {
				return err
			}
		} else {
			c.parsePositionalArg(el, first)
		}

		first = false

		c.skipSpace()

		if c.pos < len(c.src) && c.src[c.pos] == ',' {
			c.pos++
		}
	}
}

// peekNamedArg consumes "name:" when the cursor sits on a named argument.
func (c *cursor) peekNamedArg() (string, bool) {
	save := c.pos

	name := c.readIdent()
	if name == "" {
		c.pos = save
		return "", false
	}

	c.skipSpace()

	if c.pos >= len(c.src) || c.src[c.pos] != ':' {
		c.pos = save
		return "", false
	}

	c.pos++ // consume ':'
	c.skipSpace()

	return name, true
}

func (c *cursor) parseNamedArg(el *ir.Node, name string) error {
	switch name {
	case "child":
		if c.constructorAhead() {
			child, err := c.parseWidget()
			if err != nil {
				return err
			}

			el.Children = append(el.Children, child)

			return nil
		}

		el.Children = append(el.Children, ir.NewExpressionSlot(c.readValue(",)")))

		return nil

	case "children":
		if c.pos >= len(c.src) || c.src[c.pos] != '[' {
			// A computed children value stays opaque.
			el.Children = append(el.Children, ir.NewExpressionSlot(c.readValue(",)")))

			return nil
		}

		c.pos++ // consume '['

		return c.parseChildList(el)

	default:
		el.Props[name] = classifyDartValue(c.readValue(",)"))

		return nil
	}
}

func (c *cursor) parseChildList(el *ir.Node) error {
	for {
		c.skipSpace()

		if c.pos >= len(c.src) {
			return c.errorf("unterminated children list")
		}

		if c.src[c.pos] == ']' {
			c.pos++
			return nil
		}

		if c.constructorAhead() {
			child, err := c.parseWidget()
			if err != nil {
				return err
			}

			el.Children = append(el.Children, child)
		} else {
			el.Children = append(el.Children, ir.NewExpressionSlot(c.readValue(",]")))
		}

		c.skipSpace()

		if c.pos < len(c.src) && c.src[c.pos] == ',' {
			c.pos++
		}
	}
}

// parsePositionalArg handles positional constructor arguments. A string
// argument becomes text content (interpolations become expression slots);
// anything else stays an opaque slot child.
func (c *cursor) parsePositionalArg(el *ir.Node, first bool) {
	raw := c.readValue(",)")

	if first && len(raw) >= 2 && (raw[0] == '\'' || raw[0] == '"') && raw[len(raw)-1] == raw[0] {
		el.Children = append(el.Children, splitInterpolated(raw[1:len(raw)-1])...)

		return
	}

	el.Children = append(el.Children, ir.NewExpressionSlot(raw))
}

// splitInterpolated splits a Dart string body into text literals and
// expression slots: "Count: $count" → ["Count:", {count}]. Whitespace runs
// collapse the same way markup text does.
func splitInterpolated(s string) []*ir.Node {
	var nodes []*ir.Node

	flush := func(text string) {
		if collapsed := strings.Join(strings.Fields(text), " "); collapsed != "" {
			nodes = append(nodes, ir.NewTextLiteral(collapsed))
		}
	}

	start := 0

	for i := 0; i < len(s); i++ {
		if s[i] != '$' || i+1 >= len(s) {
			continue
		}

		if s[i+1] == '{' {
			depth := 0

			for j := i + 1; j < len(s); j++ {
				switch s[j] {
				case '{':
					depth++
				case '}':
					depth--
				}

				if depth == 0 {
					flush(s[start:i])
					nodes = append(nodes, ir.NewExpressionSlot(strings.TrimSpace(s[i+2:j])))

					i = j
					start = j + 1

					break
				}
			}

			continue
		}

		j := i + 1
		for j < len(s) && (s[j] == '_' ||
			(s[j] >= 'a' && s[j] <= 'z') || (s[j] >= 'A' && s[j] <= 'Z') || (s[j] >= '0' && s[j] <= '9')) {
			j++
		}

		if j > i+1 {
			flush(s[start:i])
			nodes = append(nodes, ir.NewExpressionSlot(s[i+1:j]))

			i = j - 1
			start = j
		}
	}

	flush(s[start:])

	return nodes
}

// classifyDartValue applies the literal-vs-expression rule to a constructor
// argument value.
func classifyDartValue(raw string) ir.PropValue {
	switch raw {
	case "true":
		return ir.BoolLiteral(true)
	case "false":
		return ir.BoolLiteral(false)
	}

	if _, err := strconv.ParseFloat(raw, 64); err == nil {
		return ir.NumberLiteral(raw)
	}

	if len(raw) >= 2 {
		quote := raw[0]
		if (quote == '\'' || quote == '"') && raw[len(raw)-1] == quote &&
			!strings.ContainsRune(raw[1:len(raw)-1], rune(quote)) &&
			!strings.Contains(raw, "$") {
			return ir.StringLiteral(raw[1 : len(raw)-1])
		}
	}

	return ir.Expression(raw)
}
