// Package jsx lowers component-model source (a JSX/TSX subset) into the IR
// and generates it back. The parser locates the exported component function,
// lifts hook declarations into state bindings, and recursively lowers the
// returned markup; anything syntactically valid but not structurally
// recognized degrades to an opaque expression slot, never an error.
package jsx

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/uimorph/uimorph/pkg/anim"
	"github.com/uimorph/uimorph/pkg/ir"
	"github.com/uimorph/uimorph/pkg/registry"
	"github.com/uimorph/uimorph/pkg/state"
	"github.com/uimorph/uimorph/pkg/textutil"
)

// Parse lowers src into an IR document. The returned error, if any, is an
// *ir.ParseError carrying line and column; no partial document accompanies
// an error.
func Parse(src, sourceFile string, reg *registry.Registry) (*ir.Document, []ir.Warning, error) {
	componentName, body, bodyOffset, err := findComponent(src)
	if err != nil {
		return nil, nil, err
	}

	bindings := detectBindings(body)

	jsxStart, err := findReturnMarkup(src, body, bodyOffset)
	if err != nil {
		return nil, nil, err
	}

	cur := &cursor{src: src, pos: jsxStart}

	root, err := cur.parseElement()
	if err != nil {
		return nil, nil, err
	}

	finishTree(root, bindings)
	warnings := state.AttachBindings(root, bindings)

	doc := ir.NewDocument(root, ir.FrameworkComponentModel, sourceFile, componentName)

	return doc, warnings, nil
}

// findComponent locates the exported component function and returns its name
// and brace-delimited body.
func findComponent(src string) (name, body string, bodyOffset int, err error) {
	markers := []string{
		"export default function ",
		"export function ",
		"function ",
	}

	for _, marker := range markers {
		idx := strings.Index(src, marker)
		if idx < 0 {
			continue
		}

		rest := src[idx+len(marker):]

		nameEnd := strings.IndexAny(rest, "( \t\n")
		if nameEnd <= 0 {
			continue
		}

		name = strings.TrimSpace(rest[:nameEnd])

		braceIdx := strings.Index(rest, "{")
		if braceIdx < 0 {
			continue
		}

		open := idx + len(marker) + braceIdx

		end, balErr := textutil.Balanced(src, open)
		if balErr != nil {
			return "", "", 0, parseErrorAt(src, open, "unterminated component body")
		}

		return name, src[open+1 : end-1], open + 1, nil
	}

	// Arrow component: export default NAME = () => { ... } or const NAME = () => ...
	if name, body, bodyOffset, ok := findArrowComponent(src); ok {
		return name, body, bodyOffset, nil
	}

	return "", "", 0, parseErrorAt(src, 0, "no exported component function found")
}

func findArrowComponent(src string) (name, body string, bodyOffset int, ok bool) {
	idx := strings.Index(src, "const ")
	if idx < 0 {
		return "", "", 0, false
	}

	rest := src[idx+len("const "):]

	eq := strings.Index(rest, "=")
	if eq < 0 {
		return "", "", 0, false
	}

	name = strings.TrimSpace(rest[:eq])

	arrow := strings.Index(rest, "=>")
	if arrow < 0 {
		return "", "", 0, false
	}

	afterArrow := idx + len("const ") + arrow + 2

	brace := strings.IndexFunc(src[afterArrow:], func(r rune) bool { return r != ' ' && r != '\n' && r != '\t' })
	if brace < 0 {
		return "", "", 0, false
	}

	open := afterArrow + brace
	if src[open] != '{' {
		// Expression-bodied arrow: the body is the returned markup itself.
		return name, src[open:], open, true
	}

	end, err := textutil.Balanced(src, open)
	if err != nil {
		return "", "", 0, false
	}

	return name, src[open+1 : end-1], open + 1, true
}

// detectBindings lifts hook declarations into state bindings, one per
// declaration site.
func detectBindings(body string) []*ir.StateBinding {
	var bindings []*ir.StateBinding

	for _, stmt := range textutil.SplitTop(body, ';') {
		trimmed := strings.TrimSpace(stmt)
		if !strings.HasPrefix(trimmed, "const ") {
			continue
		}

		if binding := state.DetectComponentDecl(trimmed + ";"); binding != nil {
			bindings = append(bindings, binding)
		}
	}

	return bindings
}

// findReturnMarkup returns the offset (into src) of the root JSX element. It
// scans statements at brace depth zero so a "return" inside a handler closure
// or a text child never counts as the component's return.
func findReturnMarkup(src, body string, bodyOffset int) (int, error) {
	offset := 0

	for _, stmt := range textutil.SplitTop(body, ';') {
		trimmed := strings.TrimLeft(stmt, " \t\n\r")
		lead := len(stmt) - len(trimmed)

		if startsReturn(trimmed) {
			pos := bodyOffset + offset + lead + len("return")

			for pos < len(src) && (src[pos] == ' ' || src[pos] == '\n' || src[pos] == '\t' || src[pos] == '(') {
				pos++
			}

			if pos >= len(src) || src[pos] != '<' {
				return 0, parseErrorAt(src, pos, "component does not return markup")
			}

			return pos, nil
		}

		offset += len(stmt) + 1
	}

	// Expression-bodied arrow components have no return statement; the body
	// is the markup itself.
	if trimmed := strings.TrimLeft(body, " \t\n\r("); strings.HasPrefix(trimmed, "<") {
		return bodyOffset + len(body) - len(trimmed), nil
	}

	return 0, parseErrorAt(src, bodyOffset, "component has no return statement")
}

// startsReturn reports whether a statement begins with the return keyword
// itself, not an identifier like returnValue.
func startsReturn(stmt string) bool {
	if !strings.HasPrefix(stmt, "return") {
		return false
	}

	if len(stmt) == len("return") {
		return true
	}

	switch stmt[len("return")] {
	case ' ', '\t', '\n', '\r', '(', '<':
		return true
	}

	return false
}

// finishTree runs post-lowering passes over every element: animation/gesture
// extraction and state transition detection.
func finishTree(root *ir.Node, bindings []*ir.StateBinding) {
	ir.Walk(root, func(n *ir.Node, _ string) bool {
		if n.Kind != ir.KindElement {
			return true
		}

		n.Animation = anim.ExtractComponent(n.WidgetType, n.Props)

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

func (c *cursor) skipSpace() {
	for c.pos < len(c.src) {
		switch c.src[c.pos] {
		case ' ', '\t', '\n', '\r':
			c.pos++
		default:
			return
		}
	}
}

func (c *cursor) readName() string {
	start := c.pos

	for c.pos < len(c.src) {
		ch := c.src[c.pos]
		if ch == '_' || ch == '-' || ch == '.' ||
			(ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') {
			c.pos++
			continue
		}

		break
	}

	return c.src[start:c.pos]
}

// parseElement parses one JSX element starting at '<'.
func (c *cursor) parseElement() (*ir.Node, error) {
	if c.pos >= len(c.src) || c.src[c.pos] != '<' {
		return nil, c.errorf("expected element")
	}

	c.pos++ // consume '<'

	tag := c.readName()
	if tag == "" {
		return nil, c.errorf("element with empty tag name")
	}

	el := ir.NewElement(tag)

	selfClosing, err := c.parseAttributes(el)
	if err != nil {
		return nil, err
	}

	if selfClosing {
		return el, nil
	}

	return el, c.parseChildren(el, tag)
}

func (c *cursor) parseAttributes(el *ir.Node) (selfClosing bool, err error) {
	for {
		c.skipSpace()

		if c.pos >= len(c.src) {
			return false, c.errorf("unterminated element %s", el.WidgetType)
		}

		switch c.src[c.pos] {
		case '/':
			if c.pos+1 >= len(c.src) || c.src[c.pos+1] != '>' {
				return false, c.errorf("malformed self-closing tag")
			}

			c.pos += 2

			return true, nil

		case '>':
			c.pos++
			return false, nil
		}

		name := c.readName()
		if name == "" {
			return false, c.errorf("malformed attribute in element %s", el.WidgetType)
		}

		c.skipSpace()

		if c.pos < len(c.src) && c.src[c.pos] == '=' {
			c.pos++
			c.skipSpace()

			value, valErr := c.parseAttrValue()
			if valErr != nil {
				return false, valErr
			}

			el.Props[name] = value

			continue
		}

		// Bare attribute: boolean shorthand.
		el.Props[name] = ir.BoolLiteral(true)
	}
}

func (c *cursor) parseAttrValue() (ir.PropValue, error) {
	if c.pos >= len(c.src) {
		return ir.PropValue{}, c.errorf("unterminated attribute value")
	}

	switch c.src[c.pos] {
	case '"', '\'':
		quote := c.src[c.pos]

		end := strings.IndexByte(c.src[c.pos+1:], quote)
		if end < 0 {
			return ir.PropValue{}, c.errorf("unterminated string")
		}

		value := c.src[c.pos+1 : c.pos+1+end]
		c.pos += end + 2

		return ir.StringLiteral(value), nil

	case '{':
		end, err := textutil.Balanced(c.src, c.pos)
		if err != nil {
			return ir.PropValue{}, c.errorf("unbalanced braces in attribute value")
		}

		inner := c.src[c.pos+1 : end-1]
		c.pos = end

		return classifyExpr(inner), nil

	default:
		return ir.PropValue{}, c.errorf("unexpected attribute value syntax")
	}
}

// classifyExpr applies the literal-vs-expression rule: only constant
// literals become Literal values; everything else keeps its source text.
func classifyExpr(inner string) ir.PropValue {
	trimmed := strings.TrimSpace(inner)

	switch trimmed {
	case "true":
		return ir.BoolLiteral(true)
	case "false":
		return ir.BoolLiteral(false)
	}

	if _, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return ir.NumberLiteral(trimmed)
	}

	if len(trimmed) >= 2 {
		quote := trimmed[0]
		if (quote == '\'' || quote == '"') && trimmed[len(trimmed)-1] == quote &&
			!strings.ContainsRune(trimmed[1:len(trimmed)-1], rune(quote)) &&
			!strings.Contains(trimmed, "${") {
			return ir.StringLiteral(trimmed[1 : len(trimmed)-1])
		}
	}

	return ir.Expression(trimmed)
}

func (c *cursor) parseChildren(el *ir.Node, tag string) error {
	for {
		textStart := c.pos

		for c.pos < len(c.src) && c.src[c.pos] != '<' && c.src[c.pos] != '{' {
			c.pos++
		}

		if text := collapseText(c.src[textStart:c.pos]); text != "" {
			el.Children = append(el.Children, ir.NewTextLiteral(text))
		}

		if c.pos >= len(c.src) {
			return c.errorf("unterminated element %s", tag)
		}

		if c.src[c.pos] == '{' {
			end, err := textutil.Balanced(c.src, c.pos)
			if err != nil {
				return c.errorf("unbalanced braces in children of %s", tag)
			}

			inner := strings.TrimSpace(c.src[c.pos+1 : end-1])
			c.pos = end

			// Comments are not content.
			if !strings.HasPrefix(inner, "/*") {
				el.Children = append(el.Children, ir.NewExpressionSlot(inner))
			}

			continue
		}

		// '<': closing tag or child element.
		if c.pos+1 < len(c.src) && c.src[c.pos+1] == '/' {
			c.pos += 2

			closing := c.readName()
			if closing != tag {
				return c.errorf("mismatched closing tag: expected </%s>, got </%s>", tag, closing)
			}

			c.skipSpace()

			if c.pos >= len(c.src) || c.src[c.pos] != '>' {
				return c.errorf("malformed closing tag </%s>", closing)
			}

			c.pos++

			return nil
		}

		child, err := c.parseElement()
		if err != nil {
			return err
		}

		el.Children = append(el.Children, child)
	}
}

// collapseText trims a text run and collapses internal whitespace runs to
// single spaces. Whitespace-only runs disappear.
func collapseText(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}
