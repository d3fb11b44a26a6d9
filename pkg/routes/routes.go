// Package routes converts declarative navigation trees between the two
// ecosystems through a neutral route schema. The schema is independent of the
// main IR but shares its naming utilities and warning taxonomy. Guard lists
// compile to a sequential wrapper on both targets; route names derive from
// paths when not given explicitly.
package routes

import (
	"fmt"
	"sort"
	"strings"

	"github.com/uimorph/uimorph/pkg/ir"
	"github.com/uimorph/uimorph/pkg/textutil"
)

// UnauthorizedRoute is the reserved route a failing guard redirects to.
const UnauthorizedRoute = "unauthorized"

// Schema is a neutral navigation tree plus its guards.
type Schema struct {
	Routes []Route `json:"routes" yaml:"routes"`
	Guards []Guard `json:"guards,omitempty" yaml:"guards,omitempty"`
}

// Route is one navigation entry.
type Route struct {
	Name       string            `json:"name" yaml:"name"`
	Path       string            `json:"path" yaml:"path"`
	Component  string            `json:"component,omitempty" yaml:"component,omitempty"`
	Params     []Param           `json:"params,omitempty" yaml:"params,omitempty"`
	Children   []Route           `json:"children,omitempty" yaml:"children,omitempty"`
	Meta       map[string]string `json:"meta,omitempty" yaml:"meta,omitempty"`
	Transition *TransitionConfig `json:"transition,omitempty" yaml:"transition,omitempty"`
	// Guards lists guard names scoped to this route.
	Guards []string `json:"guards,omitempty" yaml:"guards,omitempty"`
}

// Param is one path parameter, derived from ':name' and '*' segments.
type Param struct {
	Name     string `json:"name" yaml:"name"`
	Type     string `json:"type" yaml:"type"`
	Required bool   `json:"required" yaml:"required"`
}

// TransitionType names a route transition animation.
type TransitionType string

// Transition types. Unrecognized identifiers fall back to TransitionDefault.
const (
	TransitionFade       TransitionType = "fade"
	TransitionSlide      TransitionType = "slide"
	TransitionSlideUp    TransitionType = "slideUp"
	TransitionSlideDown  TransitionType = "slideDown"
	TransitionSlideLeft  TransitionType = "slideLeft"
	TransitionSlideRight TransitionType = "slideRight"
	TransitionScale      TransitionType = "scale"
	TransitionDefault    TransitionType = "platformDefault"
	TransitionNone       TransitionType = "none"
)

var validTransitions = map[TransitionType]bool{
	TransitionFade: true, TransitionSlide: true,
	TransitionSlideUp: true, TransitionSlideDown: true,
	TransitionSlideLeft: true, TransitionSlideRight: true,
	TransitionScale: true, TransitionDefault: true, TransitionNone: true,
}

// TransitionConfig describes how entering a route animates.
type TransitionConfig struct {
	Type       TransitionType `json:"type" yaml:"type"`
	DurationMs int            `json:"durationMs,omitempty" yaml:"durationMs,omitempty"`
	Easing     string         `json:"easing,omitempty" yaml:"easing,omitempty"`
}

// GuardType says when a guard runs relative to the navigation.
type GuardType string

// Guard types.
const (
	GuardBefore GuardType = "before"
	GuardAfter  GuardType = "after"
)

// Guard is a named navigation check. An empty Routes list applies the guard
// everywhere.
type Guard struct {
	Name     string    `json:"name" yaml:"name"`
	Type     GuardType `json:"type" yaml:"type"`
	Handler  string    `json:"handler" yaml:"handler"`
	Routes   []string  `json:"routes,omitempty" yaml:"routes,omitempty"`
	Priority int       `json:"priority" yaml:"priority"`
}

// DeriveName derives a route name from its path: parameter and wildcard
// segments are stripped and the static remainder camelCase-joined. The root
// path names itself "home"; a path with no static segments names itself
// "route".
func DeriveName(path string) string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return "home"
	}

	var static []string

	for _, seg := range strings.Split(trimmed, "/") {
		if seg == "" || strings.HasPrefix(seg, ":") || strings.HasPrefix(seg, "*") {
			continue
		}

		static = append(static, seg)
	}

	if len(static) == 0 {
		return "route"
	}

	return textutil.CamelJoin(static)
}

// PathParams derives the parameter list from a path: ':name' segments are
// required string params, '*' segments are optional catch-alls.
func PathParams(path string) []Param {
	var params []Param

	for _, seg := range strings.Split(strings.Trim(path, "/"), "/") {
		switch {
		case strings.HasPrefix(seg, ":"):
			params = append(params, Param{Name: seg[1:], Type: "string", Required: true})

		case strings.HasPrefix(seg, "*"):
			name := seg[1:]
			if name == "" {
				name = "splat"
			}

			params = append(params, Param{Name: name, Type: "string", Required: false})
		}
	}

	return params
}

// SortGuards orders guards by descending priority. The sort is stable, so
// equal priorities keep their declaration order.
func SortGuards(guards []Guard) {
	sort.SliceStable(guards, func(i, j int) bool {
		return guards[i].Priority > guards[j].Priority
	})
}

// Applies reports whether the guard runs for the named route.
func (g Guard) Applies(routeName string) bool {
	if len(g.Routes) == 0 {
		return true
	}

	for _, name := range g.Routes {
		if name == routeName {
			return true
		}
	}

	return false
}

// finish fills derived fields across the schema: default names, path params,
// transition normalization, guard ordering and collision detection.
func finish(schema *Schema) []ir.Warning {
	var warnings []ir.Warning

	SortGuards(schema.Guards)

	seen := map[string]bool{}

	var walk func(routes []Route, path string)

	walk = func(rs []Route, path string) {
		for i := range rs {
			route := &rs[i]

			if route.Name == "" {
				route.Name = DeriveName(route.Path)
			}

			route.Params = PathParams(route.Path)

			if route.Transition != nil && !validTransitions[route.Transition.Type] {
				warnings = append(warnings, ir.Warning{
					Kind:    ir.WarnUnknownTransition,
					Path:    fmt.Sprintf("%s/%s", path, route.Name),
					Message: fmt.Sprintf("unknown transition %q; using %s", route.Transition.Type, TransitionDefault),
				})

				route.Transition.Type = TransitionDefault
			}

			if seen[route.Name] {
				warnings = append(warnings, ir.Warning{
					Kind:    ir.WarnNameCollision,
					Path:    fmt.Sprintf("%s/%s", path, route.Name),
					Message: fmt.Sprintf("route name %q derived more than once", route.Name),
				})
			}

			seen[route.Name] = true

			walk(route.Children, fmt.Sprintf("%s/%s", path, route.Name))
		}
	}

	walk(schema.Routes, "routes")

	return warnings
}
