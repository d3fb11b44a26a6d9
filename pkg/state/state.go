// Package state detects and re-expands state idioms attached to IR subtrees.
// The detect half runs on the parse side and lifts declaration sites into
// ir.StateBinding values; the expand half runs on the generate side and emits
// the target ecosystem's idiom. Each declaration site converts independently;
// idioms the detector does not recognize stay in the source as opaque
// expressions rather than being guessed.
package state

import (
	"regexp"
	"strings"

	"github.com/uimorph/uimorph/pkg/ir"
	"github.com/uimorph/uimorph/pkg/textutil"
)

// Component-model hook declaration shapes.
var (
	useStateRe = regexp.MustCompile(
		`^const\s*\[\s*(\w+)\s*,\s*(\w+)\s*\]\s*=\s*useState(?:<[^>]*>)?\s*\((.*)\)\s*;?$`)
	useReducerRe = regexp.MustCompile(
		`^const\s*\[\s*(\w+)\s*,\s*(\w+)\s*\]\s*=\s*useReducer\s*\((.*)\)\s*;?$`)
	useContextRe = regexp.MustCompile(
		`^const\s+(\w+)\s*=\s*useContext\s*\((\w+)\)\s*;?$`)
	useStoreRe = regexp.MustCompile(
		`^const\s+(\w+)\s*=\s*useSyncExternalStore\s*\((.*)\)\s*;?$`)
)

// DetectComponentDecl recognizes one component-model declaration statement.
// It returns nil when the statement is not a supported state idiom; callers
// leave such statements opaque.
func DetectComponentDecl(stmt string) *ir.StateBinding {
	stmt = strings.TrimSpace(stmt)

	if m := useStateRe.FindStringSubmatch(stmt); m != nil {
		return &ir.StateBinding{
			Pattern:      ir.StateLocal,
			Name:         m[1],
			Setter:       m[2],
			InitialValue: strings.TrimSpace(m[3]),
			Source:       stmt,
		}
	}

	if m := useReducerRe.FindStringSubmatch(stmt); m != nil {
		args := textutil.SplitTop(m[3], ',')

		binding := &ir.StateBinding{
			Pattern: ir.StateReducer,
			Name:    m[1],
			Setter:  m[2],
			Source:  stmt,
		}

		if len(args) > 0 {
			binding.Reducer = strings.TrimSpace(args[0])
		}

		if len(args) > 1 {
			binding.InitialValue = strings.TrimSpace(args[1])
		}

		return binding
	}

	if m := useContextRe.FindStringSubmatch(stmt); m != nil {
		return &ir.StateBinding{
			Pattern:      ir.StateContextDerived,
			Name:         m[1],
			InitialValue: m[2],
			Source:       stmt,
		}
	}

	if m := useStoreRe.FindStringSubmatch(stmt); m != nil {
		return &ir.StateBinding{
			Pattern:      ir.StateExternalStore,
			Name:         m[1],
			InitialValue: strings.TrimSpace(m[2]),
			Source:       stmt,
		}
	}

	return nil
}

// Widget-tree (State class) declaration shapes.
var (
	notifierFieldRe = regexp.MustCompile(
		`^final\s+(?:ValueNotifier(?:<([\w<>, ]+)>)?\s+)?(\w+)\s*=\s*ValueNotifier(?:<[\w<>, ]+>)?\s*\((.*)\)\s*;$`)
	plainFieldRe = regexp.MustCompile(
		`^(?:late\s+)?(\w+(?:<[\w<>, ]+>)?)\s+(\w+)\s*=\s*(.+?)\s*;$`)
	contextReadRe = regexp.MustCompile(
		`^final\s+(\w+)\s*=\s*(\w+)\.of\s*\(\s*context\s*\)\s*;$`)
)

// Field type keywords that are declarations, not state.
var nonStateTypes = map[string]bool{
	"return": true, "void": true, "final": true, "const": true,
}

// DetectWidgetField recognizes one State-class field declaration. Mutable
// fields become local bindings; ValueNotifier fields become external-store
// bindings. Anything else returns nil.
func DetectWidgetField(stmt string) *ir.StateBinding {
	stmt = strings.TrimSpace(stmt)

	if m := notifierFieldRe.FindStringSubmatch(stmt); m != nil {
		return &ir.StateBinding{
			Pattern:      ir.StateExternalStore,
			Name:         m[2],
			TypeName:     m[1],
			InitialValue: strings.TrimSpace(m[3]),
			Source:       stmt,
		}
	}

	if m := plainFieldRe.FindStringSubmatch(stmt); m != nil {
		if nonStateTypes[m[1]] {
			return nil
		}

		return &ir.StateBinding{
			Pattern:      ir.StateLocal,
			Name:         m[2],
			TypeName:     m[1],
			InitialValue: strings.TrimSpace(m[3]),
			Source:       stmt,
		}
	}

	return nil
}

// DetectWidgetContextRead recognizes a scope lookup inside build(), e.g.
// "final theme = ThemeScope.of(context);".
func DetectWidgetContextRead(stmt string) *ir.StateBinding {
	stmt = strings.TrimSpace(stmt)

	m := contextReadRe.FindStringSubmatch(stmt)
	if m == nil {
		return nil
	}

	return &ir.StateBinding{
		Pattern:      ir.StateContextDerived,
		Name:         m[1],
		InitialValue: m[2],
		Source:       stmt,
	}
}

var (
	intLitRe   = regexp.MustCompile(`^-?\d+$`)
	floatLitRe = regexp.MustCompile(`^-?\d*\.\d+$`)
)

// dartTypeFor infers a Dart field type from a literal initializer.
func dartTypeFor(init string) string {
	trimmed := strings.TrimSpace(init)

	switch {
	case trimmed == "true" || trimmed == "false":
		return "bool"
	case intLitRe.MatchString(trimmed):
		return "int"
	case floatLitRe.MatchString(trimmed):
		return "double"
	case strings.HasPrefix(trimmed, "'") || strings.HasPrefix(trimmed, "\""):
		return "String"
	default:
		return "var"
	}
}
