package registry

import (
	"fmt"
	"strings"

	"github.com/uimorph/uimorph/pkg/ir"
)

// TransformProp translates one prop through entry in the given direction.
// It returns the target prop name and value. Prop names missing from the
// entry pass through unchanged with a warning, never an error.
func (r *Registry) TransformProp(entry *Entry, name string, value ir.PropValue, dir Direction) (string, ir.PropValue, *ir.Warning) {
	if entry == nil {
		return name, value, unresolvedWarning(entry, name)
	}

	if dir == Forward {
		pt, ok := entry.PropTransforms[name]
		if !ok {
			return name, value, unresolvedWarning(entry, name)
		}

		target := pt.Target
		if target == "" {
			target = name
		}

		return target, transformValue(pt, value, Forward), nil
	}

	srcName, ok := entry.backwardProps[name]
	if !ok {
		return name, value, unresolvedWarning(entry, name)
	}

	pt := entry.PropTransforms[srcName]

	return srcName, transformValue(pt, value, Backward), nil
}

func unresolvedWarning(entry *Entry, name string) *ir.Warning {
	widget := "?"
	if entry != nil {
		widget = entry.SourceWidget
	}

	return &ir.Warning{
		Kind:    ir.WarnUnresolvedProp,
		Message: fmt.Sprintf("prop %q has no mapping on widget %s; passed through unchanged", name, widget),
	}
}

func transformValue(pt PropTransform, value ir.PropValue, dir Direction) ir.PropValue {
	switch pt.Transform {
	case TransformColor:
		return transformColor(value, dir)
	case TransformSpacing:
		return transformSpacing(value, dir)
	case TransformEnum:
		return transformEnum(pt, value, dir)
	default:
		return value
	}
}

// transformColor re-encodes colors between the two ecosystems:
// "#RRGGBB" ↔ Color(0xFFRRGGBB) and "#AARRGGBB" ↔ Color(0xAARRGGBB).
// Anything that does not match stays verbatim.
func transformColor(value ir.PropValue, dir Direction) ir.PropValue {
	if dir == Forward {
		if !value.IsLiteral() || value.LiteralKind != ir.LiteralString {
			return value
		}

		hex, ok := strings.CutPrefix(value.Raw, "#")
		if !ok {
			return value
		}

		switch len(hex) {
		case 6:
			return ir.Expression("Color(0xFF" + strings.ToUpper(hex) + ")")
		case 8:
			return ir.Expression("Color(0x" + strings.ToUpper(hex) + ")")
		default:
			return value
		}
	}

	if value.Kind != ir.PropExpression {
		return value
	}

	inner, ok := cutCall(value.SourceText, "Color")
	if !ok {
		return value
	}

	hex, ok := strings.CutPrefix(inner, "0x")
	if !ok || len(hex) != 8 {
		return value
	}

	hex = strings.ToUpper(hex)
	if strings.HasPrefix(hex, "FF") {
		return ir.StringLiteral("#" + hex[2:])
	}

	return ir.StringLiteral("#" + hex)
}

// transformSpacing expands a spacing scalar into the widget-tree box model:
// 16 ↔ EdgeInsets.all(16). Asymmetric insets stay opaque expressions.
func transformSpacing(value ir.PropValue, dir Direction) ir.PropValue {
	if dir == Forward {
		if value.IsLiteral() && value.LiteralKind == ir.LiteralNumber {
			return ir.Expression("EdgeInsets.all(" + value.Raw + ")")
		}

		return value
	}

	if value.Kind != ir.PropExpression {
		return value
	}

	inner, ok := cutCall(value.SourceText, "EdgeInsets.all")
	if !ok {
		return value
	}

	return ir.NumberLiteral(strings.TrimSpace(inner))
}

// transformEnum remaps keyword values through the entry's enum table.
// Forward output is an identifier expression on the widget-tree side
// (e.g. "center" → CrossAxisAlignment.center); backward output is the
// string literal keyword. Unknown values pass through verbatim.
func transformEnum(pt PropTransform, value ir.PropValue, dir Direction) ir.PropValue {
	if dir == Forward {
		if !value.IsLiteral() {
			return value
		}

		target, ok := pt.Enum[value.Raw]
		if !ok {
			return value
		}

		return ir.Expression(target)
	}

	if value.Kind != ir.PropExpression {
		return value
	}

	text := strings.TrimSpace(value.SourceText)

	for keyword, target := range pt.Enum {
		if target == text {
			return ir.StringLiteral(keyword)
		}
	}

	return value
}

// cutCall returns the argument text of a call to name, e.g.
// cutCall("Color(0xFF000000)", "Color") → "0xFF000000".
func cutCall(src, name string) (string, bool) {
	trimmed := strings.TrimSpace(src)

	rest, ok := strings.CutPrefix(trimmed, name)
	if !ok {
		return "", false
	}

	rest = strings.TrimSpace(rest)
	if !strings.HasPrefix(rest, "(") || !strings.HasSuffix(rest, ")") {
		return "", false
	}

	return strings.TrimSpace(rest[1 : len(rest)-1]), true
}
