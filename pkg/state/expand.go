package state

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/uimorph/uimorph/pkg/ir"
)

// ExpandComponentDecl emits the component-model hook declaration for one
// binding. Unknown patterns fall back to the original source text.
func ExpandComponentDecl(b *ir.StateBinding) string {
	switch b.Pattern {
	case ir.StateLocal:
		return fmt.Sprintf("const [%s, %s] = useState(%s);", b.Name, setterFor(b), b.InitialValue)

	case ir.StateReducer:
		reducer := b.Reducer
		if reducer == "" {
			reducer = "reducer"
		}

		return fmt.Sprintf("const [%s, %s] = useReducer(%s, %s);", b.Name, setterFor(b), reducer, b.InitialValue)

	case ir.StateExternalStore:
		args := b.InitialValue
		if args == "" {
			args = "subscribe, getSnapshot"
		}

		return fmt.Sprintf("const %s = useSyncExternalStore(%s);", b.Name, args)

	case ir.StateContextDerived:
		return fmt.Sprintf("const %s = useContext(%s);", b.Name, b.InitialValue)

	default:
		return b.Source
	}
}

// ExpandWidgetField emits the State-class member lines for one binding.
// Context-derived bindings have no field; they expand inside build() via
// ExpandWidgetBuildLocal.
func ExpandWidgetField(b *ir.StateBinding) []string {
	switch b.Pattern {
	case ir.StateLocal:
		typeName := b.TypeName
		if typeName == "" {
			typeName = dartTypeFor(b.InitialValue)
		}

		return []string{fmt.Sprintf("%s %s = %s;", typeName, b.Name, widgetInitializer(b))}

	case ir.StateReducer:
		reducer := b.Reducer
		if reducer == "" {
			reducer = "reducer"
		}

		return []string{
			fmt.Sprintf("var %s = %s;", b.Name, widgetInitializer(b)),
			"",
			fmt.Sprintf("void %s(dynamic event) {", setterFor(b)),
			fmt.Sprintf("  setState(() { %s = %s(%s, event); });", b.Name, reducer, b.Name),
			"}",
		}

	case ir.StateExternalStore:
		return []string{fmt.Sprintf("final %s = ValueNotifier(%s);", b.Name, widgetInitializer(b))}

	case ir.StateContextDerived:
		return nil

	default:
		return []string{b.Source}
	}
}

// ExpandWidgetBuildLocal emits the build()-local line for a context-derived
// binding, or "" for other patterns.
func ExpandWidgetBuildLocal(b *ir.StateBinding) string {
	if b.Pattern != ir.StateContextDerived {
		return ""
	}

	return fmt.Sprintf("final %s = %s.of(context);", b.Name, b.InitialValue)
}

func setterFor(b *ir.StateBinding) string {
	if b.Setter != "" {
		return b.Setter
	}

	if b.Pattern == ir.StateReducer {
		return "dispatch"
	}

	return "set" + strings.ToUpper(b.Name[:1]) + b.Name[1:]
}

// widgetInitializer converts a component-model initializer into Dart-safe
// text: double-quoted strings become single-quoted, everything else passes
// through verbatim.
func widgetInitializer(b *ir.StateBinding) string {
	init := strings.TrimSpace(b.InitialValue)

	if len(init) >= 2 && init[0] == '"' && init[len(init)-1] == '"' &&
		!strings.Contains(init[1:len(init)-1], "'") {
		return "'" + init[1:len(init)-1] + "'"
	}

	return init
}

// Handler shapes rewritten between the two idioms.
var (
	dispatchMethodRe = regexp.MustCompile(
		`void\s+(\w+)\s*\(\s*(\w+)\s+event\s*\)\s*\{\s*setState\s*\(\s*\(\)\s*\{\s*(\w+)\s*=\s*(\w+)\s*\(\s*(\w+)\s*,\s*event\s*\)\s*;\s*\}\s*\)\s*;\s*\}`)
	arrowSetterRe = regexp.MustCompile(`^\(\s*(\w*)\s*\)\s*=>\s*(\w+)\s*\((.*)\)$`)
	setStateRe    = regexp.MustCompile(`^\(\s*(\w*)\s*\)\s*=>\s*setState\s*\(\s*\(\)\s*\{\s*(\w+)\s*=\s*(.+?);?\s*\}\s*\)$`)
)

// RewriteHandlerToWidget converts a component-model handler expression into
// the explicit-rebuild idiom when it is exactly a setter or dispatch call:
//
//	() => setCount(count + 1)  →  () => setState(() { count = count + 1; })
//	(v) => setName(v)          →  (v) => setState(() { name = v; })
//
// Dispatch calls keep their shape (the dispatch method exists on the State
// class). Anything else returns the input verbatim.
func RewriteHandlerToWidget(bindings []*ir.StateBinding, expr string) string {
	m := arrowSetterRe.FindStringSubmatch(strings.TrimSpace(expr))
	if m == nil {
		return expr
	}

	param, callee, arg := m[1], m[2], strings.TrimSpace(m[3])

	for _, b := range bindings {
		if callee != setterFor(b) {
			continue
		}

		switch b.Pattern {
		case ir.StateLocal:
			return fmt.Sprintf("(%s) => setState(() { %s = %s; })", param, b.Name, arg)
		case ir.StateReducer, ir.StateExternalStore, ir.StateContextDerived:
			return expr
		}
	}

	return expr
}

// RewriteHandlerToComponent is the inverse of RewriteHandlerToWidget:
//
//	() => setState(() { count = count + 1; })  →  () => setCount(count + 1)
func RewriteHandlerToComponent(bindings []*ir.StateBinding, expr string) string {
	m := setStateRe.FindStringSubmatch(strings.TrimSpace(expr))
	if m == nil {
		return expr
	}

	param, name, value := m[1], m[2], strings.TrimSpace(m[3])

	for _, b := range bindings {
		if b.Name == name && b.Pattern == ir.StateLocal {
			return fmt.Sprintf("(%s) => %s(%s)", param, setterFor(b), value)
		}
	}

	return expr
}

// DetectTransition records the mutation a handler performs against its
// binding, if any. Returns the owning binding and the normalized mutation.
func DetectTransition(bindings []*ir.StateBinding, trigger, expr string) {
	trimmed := strings.TrimSpace(expr)

	if m := arrowSetterRe.FindStringSubmatch(trimmed); m != nil {
		callee, arg := m[2], strings.TrimSpace(m[3])

		for _, b := range bindings {
			if callee != setterFor(b) {
				continue
			}

			mutation := fmt.Sprintf("%s = %s", b.Name, arg)
			if b.Pattern == ir.StateReducer {
				mutation = fmt.Sprintf("%s(%s)", callee, arg)
			}

			b.Transitions = append(b.Transitions, ir.StateTransition{
				Trigger:            trigger,
				MutationExpression: mutation,
			})

			return
		}
	}

	if m := setStateRe.FindStringSubmatch(trimmed); m != nil {
		name, value := m[2], strings.TrimSpace(m[3])

		for _, b := range bindings {
			if b.Name != name {
				continue
			}

			b.Transitions = append(b.Transitions, ir.StateTransition{
				Trigger:            trigger,
				MutationExpression: fmt.Sprintf("%s = %s", name, value),
			})

			return
		}
	}
}

// UpgradeWidgetReducer upgrades a local binding to the reducer pattern when
// the State class declares a dispatch method delegating to a reducer
// function, e.g.
//
//	void dispatch(CounterEvent event) {
//	  setState(() { state = reduce(state, event); });
//	}
func UpgradeWidgetReducer(bindings []*ir.StateBinding, classBody string) {
	m := dispatchMethodRe.FindStringSubmatch(classBody)
	if m == nil || m[3] != m[5] {
		return
	}

	for _, b := range bindings {
		if b.Name == m[3] && b.Pattern == ir.StateLocal {
			b.Pattern = ir.StateReducer
			b.Setter = m[1]
			b.Reducer = m[4]

			return
		}
	}
}
