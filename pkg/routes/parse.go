package routes

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/uimorph/uimorph/pkg/anim"
	"github.com/uimorph/uimorph/pkg/ir"
	"github.com/uimorph/uimorph/pkg/textutil"
)

var (
	routesListRe  = regexp.MustCompile(`routes[^=\n]*=\s*\[`)
	guardsListRe  = regexp.MustCompile(`guards\s*=\s*\[`)
	builderRe     = regexp.MustCompile(`=>\s*(?:const\s+)?([A-Za-z_]\w*)`)
	guardWrapRe   = regexp.MustCompile(`String\?\s+_runGuards[^{]*\{`)
	guardCheckRe  = regexp.MustCompile(`if\s*\(\s*!\s*(\w+)\s*\(`)
	transitionFns = regexp.MustCompile(`^RouteTransition\s*\(`)
)

// Parse lowers navigation source into a route schema. The returned error, if
// any, is an *ir.ParseError.
func Parse(src string, framework ir.Framework) (*Schema, []ir.Warning, error) {
	switch framework {
	case ir.FrameworkComponentModel:
		return parseComponent(src)

	case ir.FrameworkWidgetTree:
		return parseWidget(src)

	default:
		return nil, nil, fmt.Errorf("%w: %q", ir.ErrUnknownFramework, framework)
	}
}

// parseComponent reads the react-router style shape: an exported route object
// array plus an optional guard object array.
func parseComponent(src string) (*Schema, []ir.Warning, error) {
	inner, ok := findList(src, routesListRe)
	if !ok {
		return nil, nil, parseErrorAt(src, 0, "no route array found")
	}

	schema := &Schema{}

	for _, item := range objectItems(inner) {
		route, err := parseRouteObject(src, item)
		if err != nil {
			return nil, nil, err
		}

		schema.Routes = append(schema.Routes, route)
	}

	if guardInner, ok := findList(src, guardsListRe); ok {
		for _, item := range objectItems(guardInner) {
			schema.Guards = append(schema.Guards, parseGuardObject(item))
		}
	}

	warnings := finish(schema)

	return schema, warnings, nil
}

func parseRouteObject(src, obj string) (Route, error) {
	var route Route

	fields, err := objectFields(obj)
	if err != nil {
		return route, parseErrorAt(src, strings.Index(src, obj), "malformed route object")
	}

	for key, value := range fields {
		switch key {
		case "path":
			route.Path = unquote(value)

		case "name":
			route.Name = unquote(value)

		case "component":
			route.Component = value

		case "transition":
			route.Transition = parseTransitionObject(value)

		case "guards":
			route.Guards = nameList(value)

		case "meta":
			if metaFields, metaErr := objectFields(value); metaErr == nil {
				route.Meta = map[string]string{}
				for k, v := range metaFields {
					route.Meta[k] = unquote(v)
				}
			}

		case "children":
			trimmed := strings.TrimSpace(value)
			if !strings.HasPrefix(trimmed, "[") {
				continue
			}

			for _, item := range objectItems(trimmed[1 : len(trimmed)-1]) {
				child, childErr := parseRouteObject(src, item)
				if childErr != nil {
					return route, childErr
				}

				route.Children = append(route.Children, child)
			}
		}
	}

	return route, nil
}

func parseGuardObject(obj string) Guard {
	guard := Guard{Type: GuardBefore}

	fields, err := objectFields(obj)
	if err != nil {
		return guard
	}

	for key, value := range fields {
		switch key {
		case "name":
			guard.Name = unquote(value)

		case "type":
			if GuardType(unquote(value)) == GuardAfter {
				guard.Type = GuardAfter
			}

		case "handler":
			guard.Handler = value

		case "routes":
			guard.Routes = nameList(value)

		case "priority":
			guard.Priority, _ = strconv.Atoi(value)
		}
	}

	if guard.Handler == "" {
		guard.Handler = guard.Name
	}

	return guard
}

// parseTransitionObject reads "{ type: 'fade', duration: 200, easing: 'easeOut' }".
func parseTransitionObject(value string) *TransitionConfig {
	fields, err := objectFields(value)
	if err != nil {
		return nil
	}

	cfg := &TransitionConfig{}

	for key, v := range fields {
		switch key {
		case "type":
			cfg.Type = TransitionType(unquote(v))

		case "duration":
			cfg.DurationMs, _ = strconv.Atoi(v)

		case "easing":
			cfg.Easing = unquote(v)
		}
	}

	return cfg
}

// parseWidget reads the GoRoute tree shape plus an optional _runGuards
// wrapper function.
func parseWidget(src string) (*Schema, []ir.Warning, error) {
	open := strings.Index(src, "[")
	if open < 0 {
		return nil, nil, parseErrorAt(src, 0, "no route list found")
	}

	end, err := textutil.Balanced(src, open)
	if err != nil {
		return nil, nil, parseErrorAt(src, open, "unterminated route list")
	}

	schema := &Schema{}

	for _, item := range constructorItems(src[open+1:end-1], "GoRoute") {
		route, routeErr := parseGoRoute(src, item)
		if routeErr != nil {
			return nil, nil, routeErr
		}

		schema.Routes = append(schema.Routes, route)
	}

	schema.Guards = parseGuardWrapper(src)

	warnings := finish(schema)

	return schema, warnings, nil
}

func parseGoRoute(src, item string) (Route, error) {
	var route Route

	open := strings.Index(item, "(")
	if open < 0 || !strings.HasSuffix(item, ")") {
		return route, parseErrorAt(src, strings.Index(src, item), "malformed GoRoute")
	}

	for _, field := range textutil.SplitTop(item[open+1:len(item)-1], ',') {
		key, value, ok := splitField(field)
		if !ok {
			continue
		}

		switch key {
		case "path":
			route.Path = unquote(value)

		case "name":
			route.Name = unquote(value)

		case "builder":
			if m := builderRe.FindStringSubmatch(value); m != nil {
				route.Component = m[1]
			}

		case "transition":
			route.Transition = parseWidgetTransition(value)

		case "redirect":
			// Guard wiring is reconstructed from the wrapper function.

		case "routes":
			trimmed := strings.TrimSpace(value)
			if !strings.HasPrefix(trimmed, "[") {
				continue
			}

			for _, child := range constructorItems(trimmed[1:len(trimmed)-1], "GoRoute") {
				childRoute, err := parseGoRoute(src, child)
				if err != nil {
					return route, err
				}

				route.Children = append(route.Children, childRoute)
			}
		}
	}

	return route, nil
}

// parseWidgetTransition reads "RouteTransition(type: 'fade', duration: 200,
// easing: Curves.easeOut)".
func parseWidgetTransition(value string) *TransitionConfig {
	trimmed := strings.TrimSpace(value)
	if !transitionFns.MatchString(trimmed) || !strings.HasSuffix(trimmed, ")") {
		return nil
	}

	open := strings.Index(trimmed, "(")
	cfg := &TransitionConfig{}

	for _, field := range textutil.SplitTop(trimmed[open+1:len(trimmed)-1], ',') {
		key, v, ok := splitField(field)
		if !ok {
			continue
		}

		switch key {
		case "type":
			cfg.Type = TransitionType(unquote(v))

		case "duration":
			cfg.DurationMs, _ = strconv.Atoi(v)

		case "easing":
			cfg.Easing = anim.EasingFor(v)
		}
	}

	return cfg
}

// parseGuardWrapper reconstructs guards from the sequential wrapper. Order in
// the wrapper is already priority order, so reconstructed guards share
// priority zero and keep their sequence under the stable sort.
func parseGuardWrapper(src string) []Guard {
	loc := guardWrapRe.FindStringIndex(src)
	if loc == nil {
		return nil
	}

	end, err := textutil.Balanced(src, loc[1]-1)
	if err != nil {
		return nil
	}

	var guards []Guard

	for _, m := range guardCheckRe.FindAllStringSubmatch(src[loc[1]:end], -1) {
		guards = append(guards, Guard{
			Name:    m[1],
			Type:    GuardBefore,
			Handler: m[1],
		})
	}

	return guards
}

// findList locates "name = [" and returns the bracketed list's inner text.
func findList(src string, re *regexp.Regexp) (inner string, ok bool) {
	loc := re.FindStringIndex(src)
	if loc == nil {
		return "", false
	}

	open := loc[1] - 1

	end, err := textutil.Balanced(src, open)
	if err != nil {
		return "", false
	}

	return src[open+1 : end-1], true
}

// objectItems splits a list body into its top-level object literals.
func objectItems(inner string) []string {
	var items []string

	for _, item := range textutil.SplitTop(inner, ',') {
		trimmed := strings.TrimSpace(item)
		if strings.HasPrefix(trimmed, "{") {
			items = append(items, trimmed)
		}
	}

	return items
}

// constructorItems splits a list body into top-level calls to name.
func constructorItems(inner, name string) []string {
	var items []string

	for _, item := range textutil.SplitTop(inner, ',') {
		trimmed := strings.TrimSpace(item)
		if strings.HasPrefix(trimmed, name) {
			items = append(items, trimmed)
		}
	}

	return items
}

// objectFields splits "{a: x, b: y}" into a key → raw value map.
func objectFields(obj string) (map[string]string, error) {
	trimmed := strings.TrimSpace(obj)
	if !strings.HasPrefix(trimmed, "{") || !strings.HasSuffix(trimmed, "}") {
		return nil, fmt.Errorf("not an object literal")
	}

	fields := map[string]string{}

	for _, field := range textutil.SplitTop(trimmed[1:len(trimmed)-1], ',') {
		key, value, ok := splitField(field)
		if ok {
			fields[key] = value
		}
	}

	return fields, nil
}

func splitField(field string) (key, value string, ok bool) {
	parts := textutil.SplitTop(field, ':')
	if len(parts) < 2 {
		return "", "", false
	}

	key = strings.TrimSpace(parts[0])
	value = strings.TrimSpace(strings.Join(parts[1:], ":"))

	return key, value, key != ""
}

func unquote(s string) string {
	trimmed := strings.TrimSpace(s)

	if len(trimmed) >= 2 {
		quote := trimmed[0]
		if (quote == '\'' || quote == '"') && trimmed[len(trimmed)-1] == quote {
			return trimmed[1 : len(trimmed)-1]
		}
	}

	return trimmed
}

// nameList reads "[a, 'b']" into plain names.
func nameList(value string) []string {
	trimmed := strings.TrimSpace(value)
	if !strings.HasPrefix(trimmed, "[") || !strings.HasSuffix(trimmed, "]") {
		return nil
	}

	var names []string

	for _, item := range textutil.SplitTop(trimmed[1:len(trimmed)-1], ',') {
		if name := unquote(item); name != "" {
			names = append(names, name)
		}
	}

	return names
}

func parseErrorAt(src string, offset int, message string) error {
	if offset < 0 {
		offset = 0
	}

	line, col := textutil.LineCol(src, offset)

	return &ir.ParseError{Message: message, Line: line, Column: col}
}
