package routes

import (
	"fmt"
	"strings"

	"github.com/uimorph/uimorph/pkg/anim"
	"github.com/uimorph/uimorph/pkg/ir"
	"github.com/uimorph/uimorph/pkg/textutil"
)

// Generate renders a schema as navigation source for the given framework.
// Guards come out as a sequential wrapper running in descending priority
// order and short-circuiting to the reserved unauthorized route.
func Generate(schema *Schema, framework ir.Framework) (string, []ir.Warning, error) {
	if schema == nil {
		return "", nil, &ir.GenerationError{Message: "nil route schema", NodePath: "routes"}
	}

	warnings := finish(schema)

	switch framework {
	case ir.FrameworkComponentModel:
		return generateComponent(schema), warnings, nil

	case ir.FrameworkWidgetTree:
		return generateWidget(schema), warnings, nil

	default:
		return "", nil, fmt.Errorf("%w: %q", ir.ErrUnknownFramework, framework)
	}
}

func generateComponent(schema *Schema) string {
	w := textutil.NewIndentWriter("  ")

	if len(schema.Guards) > 0 {
		w.Line("export const guards = [")
		w.In()

		for _, guard := range schema.Guards {
			w.Line(componentGuardObject(guard))
		}

		w.Out()
		w.Line("];")
		w.Blank()
	}

	w.Line("export const routes = [")
	w.In()

	for _, route := range schema.Routes {
		writeComponentRoute(w, route)
	}

	w.Out()
	w.Line("];")

	if len(schema.Guards) > 0 {
		w.Blank()
		writeComponentGuardWrapper(w, schema.Guards)
	}

	return w.String()
}

func writeComponentRoute(w *textutil.IndentWriter, route Route) {
	w.Line("{")
	w.In()
	w.Line(fmt.Sprintf("path: '%s',", route.Path))
	w.Line(fmt.Sprintf("name: '%s',", route.Name))

	if route.Component != "" {
		w.Line(fmt.Sprintf("component: %s,", route.Component))
	}

	if route.Transition != nil {
		w.Line("transition: " + componentTransitionObject(route.Transition) + ",")
	}

	if len(route.Guards) > 0 {
		w.Line(fmt.Sprintf("guards: ['%s'],", strings.Join(route.Guards, "', '")))
	}

	if len(route.Children) > 0 {
		w.Line("children: [")
		w.In()

		for _, child := range route.Children {
			writeComponentRoute(w, child)
		}

		w.Out()
		w.Line("],")
	}

	w.Out()
	w.Line("},")
}

func componentGuardObject(guard Guard) string {
	fields := []string{
		fmt.Sprintf("name: '%s'", guard.Name),
		fmt.Sprintf("type: '%s'", guard.Type),
		fmt.Sprintf("handler: %s", guard.Handler),
	}

	if len(guard.Routes) > 0 {
		fields = append(fields, fmt.Sprintf("routes: ['%s']", strings.Join(guard.Routes, "', '")))
	}

	fields = append(fields, fmt.Sprintf("priority: %d", guard.Priority))

	return "{ " + strings.Join(fields, ", ") + " },"
}

func componentTransitionObject(cfg *TransitionConfig) string {
	fields := []string{fmt.Sprintf("type: '%s'", cfg.Type)}

	if cfg.DurationMs > 0 {
		fields = append(fields, fmt.Sprintf("duration: %d", cfg.DurationMs))
	}

	if cfg.Easing != "" {
		fields = append(fields, fmt.Sprintf("easing: '%s'", cfg.Easing))
	}

	return "{ " + strings.Join(fields, ", ") + " }"
}

func writeComponentGuardWrapper(w *textutil.IndentWriter, guards []Guard) {
	w.Line("export function runGuards(to) {")
	w.In()

	for _, guard := range guards {
		w.Line(fmt.Sprintf("if (!%s(to)) {", guard.Handler))
		w.In()
		w.Line(fmt.Sprintf("return '%s';", UnauthorizedRoute))
		w.Out()
		w.Line("}")
	}

	w.Blank()
	w.Line("return null;")
	w.Out()
	w.Line("}")
}

func generateWidget(schema *Schema) string {
	w := textutil.NewIndentWriter("  ")

	w.Line("final List<RouteBase> routes = [")
	w.In()

	for _, route := range schema.Routes {
		writeGoRoute(w, route, schema.Guards)
	}

	w.Out()
	w.Line("];")

	if len(schema.Guards) > 0 {
		w.Blank()
		writeWidgetGuardWrapper(w, schema.Guards)
	}

	return w.String()
}

func writeGoRoute(w *textutil.IndentWriter, route Route, guards []Guard) {
	w.Line("GoRoute(")
	w.In()
	w.Line(fmt.Sprintf("path: '%s',", route.Path))
	w.Line(fmt.Sprintf("name: '%s',", route.Name))

	if route.Component != "" {
		w.Line(fmt.Sprintf("builder: (context, state) => %s(),", route.Component))
	}

	if route.Transition != nil {
		w.Line("transition: " + widgetTransitionCall(route.Transition) + ",")
	}

	if routeGuarded(route, guards) {
		w.Line("redirect: _runGuards,")
	}

	if len(route.Children) > 0 {
		w.Line("routes: [")
		w.In()

		for _, child := range route.Children {
			writeGoRoute(w, child, guards)
		}

		w.Out()
		w.Line("],")
	}

	w.Out()
	w.Line("),")
}

// routeGuarded reports whether any guard runs for this route.
func routeGuarded(route Route, guards []Guard) bool {
	for _, guard := range guards {
		if guard.Applies(route.Name) {
			return true
		}
	}

	return false
}

func widgetTransitionCall(cfg *TransitionConfig) string {
	fields := []string{fmt.Sprintf("type: '%s'", cfg.Type)}

	if cfg.DurationMs > 0 {
		fields = append(fields, fmt.Sprintf("duration: %d", cfg.DurationMs))
	}

	if cfg.Easing != "" {
		fields = append(fields, fmt.Sprintf("easing: %s", anim.CurveFor(cfg.Easing)))
	}

	return "RouteTransition(" + strings.Join(fields, ", ") + ")"
}

func writeWidgetGuardWrapper(w *textutil.IndentWriter, guards []Guard) {
	w.Line("String? _runGuards(BuildContext context, GoRouterState state) {")
	w.In()

	for _, guard := range guards {
		w.Line(fmt.Sprintf("if (!%s(context, state)) {", guard.Handler))
		w.In()
		w.Line(fmt.Sprintf("return '/%s';", UnauthorizedRoute))
		w.Out()
		w.Line("}")
	}

	w.Blank()
	w.Line("return null;")
	w.Out()
	w.Line("}")
}
