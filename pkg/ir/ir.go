// Package ir defines the framework-neutral intermediate representation shared
// by every parser, generator and converter in UIMorph. A Document is produced
// once by a parser and never mutated in place; transforms operate on deep
// copies so the two generator paths never alias each other's trees.
package ir

import "time"

// Version is the IR schema version stamped into every Document.
const Version = "1.0"

// Framework identifies one of the two source paradigms.
type Framework string

// Supported source frameworks.
const (
	FrameworkComponentModel Framework = "componentModel"
	FrameworkWidgetTree     Framework = "widgetTree"
)

// Valid reports whether f is a known framework tag.
func (f Framework) Valid() bool {
	return f == FrameworkComponentModel || f == FrameworkWidgetTree
}

// Metadata records where a Document came from.
type Metadata struct {
	SourceFramework Framework `json:"sourceFramework"`
	SourceFile      string    `json:"sourceFile,omitempty"`
	ComponentName   string    `json:"componentName,omitempty"`
	GeneratedAt     int64     `json:"generatedAt"`
}

// Document is the root of a parsed component tree.
type Document struct {
	Version  string   `json:"version"`
	Metadata Metadata `json:"metadata"`
	Root     *Node    `json:"root"`
}

// NewDocument builds a Document around root with freshly stamped metadata.
func NewDocument(root *Node, from Framework, sourceFile, componentName string) *Document {
	return &Document{
		Version: Version,
		Metadata: Metadata{
			SourceFramework: from,
			SourceFile:      sourceFile,
			ComponentName:   componentName,
			GeneratedAt:     time.Now().UnixMilli(),
		},
		Root: root,
	}
}

// Clone returns a deep copy of the document. Transforms clone before
// rewriting so the original stays usable by concurrent generator calls.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}

	out := *d
	out.Root = d.Root.Clone()

	return &out
}

// NodeKind discriminates the closed Node variant.
type NodeKind string

// Node kinds. The set is closed: every consumer switches exhaustively and
// treats any other value as a structural error.
const (
	KindElement        NodeKind = "element"
	KindTextLiteral    NodeKind = "text"
	KindExpressionSlot NodeKind = "expression"
)

// Node is one vertex of the IR tree. Exactly one variant's fields are
// populated, selected by Kind:
//
//   - KindElement: WidgetType, Props, Children, State, Animation
//   - KindTextLiteral: Text
//   - KindExpressionSlot: SourceText (verbatim original source)
type Node struct {
	Kind NodeKind `json:"kind"`

	// Element variant.
	WidgetType string               `json:"widgetType,omitempty"`
	Props      map[string]PropValue `json:"props,omitempty"`
	Children   []*Node              `json:"children,omitempty"`
	State      *StateBinding        `json:"stateBinding,omitempty"`
	Animation  *AnimationSpec       `json:"animationSpec,omitempty"`

	// TextLiteral variant.
	Text string `json:"text,omitempty"`

	// ExpressionSlot variant.
	SourceText string `json:"sourceText,omitempty"`
}

// NewElement builds an element node with an empty prop map.
func NewElement(widgetType string) *Node {
	return &Node{Kind: KindElement, WidgetType: widgetType, Props: map[string]PropValue{}}
}

// NewTextLiteral builds a text literal node.
func NewTextLiteral(text string) *Node {
	return &Node{Kind: KindTextLiteral, Text: text}
}

// NewExpressionSlot builds an opaque passthrough node carrying src verbatim.
func NewExpressionSlot(src string) *Node {
	return &Node{Kind: KindExpressionSlot, SourceText: src}
}

// Clone returns a deep copy of the node and its subtree.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}

	out := *n

	if n.Props != nil {
		out.Props = make(map[string]PropValue, len(n.Props))
		for k, v := range n.Props {
			out.Props[k] = v
		}
	}

	if n.Children != nil {
		out.Children = make([]*Node, len(n.Children))
		for i, c := range n.Children {
			out.Children[i] = c.Clone()
		}
	}

	if n.State != nil {
		state := n.State.clone()
		out.State = state
	}

	if n.Animation != nil {
		anim := n.Animation.clone()
		out.Animation = anim
	}

	return &out
}

// PropValueKind discriminates the closed PropValue variant.
type PropValueKind string

// PropValue kinds.
const (
	PropLiteral    PropValueKind = "literal"
	PropExpression PropValueKind = "expression"
)

// LiteralKind classifies a compile-time constant prop value.
type LiteralKind string

// Literal kinds.
const (
	LiteralString LiteralKind = "string"
	LiteralNumber LiteralKind = "number"
	LiteralBool   LiteralKind = "bool"
)

// PropValue is the value of one element prop. The classification rule is the
// core invariant of the whole system: a value is an Expression whenever the
// original syntax was not a constant literal (identifier, member access,
// interpolation, call, inline handler), and its SourceText must survive
// byte-for-byte through generation.
type PropValue struct {
	Kind PropValueKind `json:"kind"`

	// Literal variant. Raw holds the canonical source text of the constant:
	// the unquoted string value, the digits as written, or "true"/"false".
	LiteralKind LiteralKind `json:"literalKind,omitempty"`
	Raw         string      `json:"raw,omitempty"`

	// Expression variant: original source text, verbatim.
	SourceText string `json:"sourceText,omitempty"`
}

// StringLiteral builds a string-literal prop value.
func StringLiteral(value string) PropValue {
	return PropValue{Kind: PropLiteral, LiteralKind: LiteralString, Raw: value}
}

// NumberLiteral builds a number-literal prop value from its source digits.
func NumberLiteral(raw string) PropValue {
	return PropValue{Kind: PropLiteral, LiteralKind: LiteralNumber, Raw: raw}
}

// BoolLiteral builds a bool-literal prop value.
func BoolLiteral(v bool) PropValue {
	raw := "false"
	if v {
		raw = "true"
	}

	return PropValue{Kind: PropLiteral, LiteralKind: LiteralBool, Raw: raw}
}

// Expression builds an expression prop value carrying src verbatim.
func Expression(src string) PropValue {
	return PropValue{Kind: PropExpression, SourceText: src}
}

// IsLiteral reports whether the value is a compile-time constant.
func (p PropValue) IsLiteral() bool { return p.Kind == PropLiteral }
