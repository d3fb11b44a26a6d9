package ir

import "fmt"

// WidgetResolver answers whether a widget type is known vocabulary. The
// mapping registry satisfies it; tests substitute fixed sets.
type WidgetResolver interface {
	KnownWidget(name string) bool
}

// UnknownWidgetType is the explicit placeholder type for tags the registry
// cannot resolve. Parsers tag unmapped elements with their verbatim name and
// the validator downgrades them to warnings; generation emits a passthrough
// container. Only a missing or malformed tree is fatal.
const UnknownWidgetType = "unknown"

// Validate checks doc's structural invariants against the registry
// vocabulary. Fatal problems (nil document, missing root, an unrecognized
// node kind, element payloads on non-element nodes) return a StructuralError.
// Unknown widget types and untagged prop values return as warnings on an
// otherwise successful result.
func Validate(doc *Document, resolver WidgetResolver) ([]Warning, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}

	if doc.Root == nil {
		return nil, ErrMissingRoot
	}

	var warnings []Warning

	err := validateNode(doc.Root, "root", resolver, &warnings)
	if err != nil {
		return nil, err
	}

	return warnings, nil
}

func validateNode(n *Node, path string, resolver WidgetResolver, warnings *[]Warning) error {
	if n == nil {
		return &StructuralError{Path: path, Message: "nil node"}
	}

	switch n.Kind {
	case KindElement:
		return validateElement(n, path, resolver, warnings)

	case KindTextLiteral:
		if len(n.Children) != 0 || len(n.Props) != 0 {
			return &StructuralError{Path: path, Message: "text literal must not carry props or children"}
		}

		return nil

	case KindExpressionSlot:
		if len(n.Children) != 0 || len(n.Props) != 0 {
			return &StructuralError{Path: path, Message: "expression slot must not carry props or children"}
		}

		if n.SourceText == "" {
			*warnings = append(*warnings, Warning{
				Kind:    WarnUnsupportedSyntax,
				Path:    path,
				Message: "empty expression slot",
			})
		}

		return nil

	default:
		return &StructuralError{Path: path, Message: fmt.Sprintf("unknown node kind %q", n.Kind)}
	}
}

func validateElement(n *Node, path string, resolver WidgetResolver, warnings *[]Warning) error {
	if n.WidgetType == "" {
		return &StructuralError{Path: path, Message: "element with empty widget type"}
	}

	if n.WidgetType != UnknownWidgetType && resolver != nil && !resolver.KnownWidget(n.WidgetType) {
		*warnings = append(*warnings, Warning{
			Kind:    WarnUnknownWidget,
			Path:    path,
			Message: fmt.Sprintf("widget type %q not in mapping registry", n.WidgetType),
		})
	}

	for name, value := range n.Props {
		switch value.Kind {
		case PropLiteral:
			if value.LiteralKind != LiteralString && value.LiteralKind != LiteralNumber && value.LiteralKind != LiteralBool {
				return &StructuralError{
					Path:    path,
					Message: fmt.Sprintf("prop %q has literal of unknown kind %q", name, value.LiteralKind),
				}
			}

		case PropExpression:
			if value.SourceText == "" {
				*warnings = append(*warnings, Warning{
					Kind:    WarnUnresolvedProp,
					Path:    path,
					Message: fmt.Sprintf("prop %q is an empty expression", name),
				})
			}

		default:
			return &StructuralError{
				Path:    path,
				Message: fmt.Sprintf("prop %q has unknown value kind %q", name, value.Kind),
			}
		}
	}

	for i, child := range n.Children {
		childPath := fmt.Sprintf("%s/children[%d]", path, i)

		err := validateNode(child, childPath, resolver, warnings)
		if err != nil {
			return err
		}
	}

	return nil
}

// Walk calls visit for every node in depth-first order, passing its path.
// Returning false from visit stops descent into that subtree.
func Walk(root *Node, visit func(n *Node, path string) bool) {
	walk(root, "root", visit)
}

func walk(n *Node, path string, visit func(n *Node, path string) bool) {
	if n == nil {
		return
	}

	if !visit(n, path) {
		return
	}

	for i, child := range n.Children {
		walk(child, fmt.Sprintf("%s/children[%d]", path, i), visit)
	}
}
