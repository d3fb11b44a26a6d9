package anim

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/uimorph/uimorph/pkg/ir"
)

// GenerateComponentProps re-materializes a spec as component-model props in
// deterministic order.
func GenerateComponentProps(spec *ir.AnimationSpec) []Prop {
	if spec.Empty() {
		return nil
	}

	var props []Prop

	if len(spec.Tweens) > 0 {
		if from := tweenObject(spec.Tweens, true); from != "" {
			props = append(props, Prop{Name: "from", Value: ir.Expression(from)})
		}

		props = append(props, Prop{Name: "animate", Value: ir.Expression(tweenObject(spec.Tweens, false))})
	}

	if len(spec.Keyframes) > 0 {
		props = append(props, Prop{Name: "keyframes", Value: ir.Expression(keyframeArray(spec.Keyframes))})
	}

	if spec.DurationMs > 0 {
		props = append(props, Prop{Name: "duration", Value: ir.NumberLiteral(fmt.Sprintf("%d", spec.DurationMs))})
	}

	if spec.Easing != "" {
		props = append(props, Prop{Name: "easing", Value: ir.StringLiteral(spec.Easing)})
	}

	props = append(props, gestureProps(spec, false)...)

	return props
}

// GenerateWidgetProps re-materializes a spec as widget-tree constructor
// arguments in deterministic order. Keyframe sequences lower to a
// TweenSequence of weighted segments.
func GenerateWidgetProps(spec *ir.AnimationSpec) []Prop {
	if spec.Empty() {
		return nil
	}

	return append(GenerateWidgetTweenProps(spec), GenerateWidgetGestureProps(spec)...)
}

// GenerateWidgetTweenProps emits only the animation half of the spec.
// Generators use it when gestures move onto a GestureDetector wrapper.
func GenerateWidgetTweenProps(spec *ir.AnimationSpec) []Prop {
	var props []Prop

	if spec.DurationMs > 0 {
		props = append(props, Prop{
			Name:  "duration",
			Value: ir.Expression(fmt.Sprintf("Duration(milliseconds: %d)", spec.DurationMs)),
		})
	}

	if spec.Easing != "" {
		props = append(props, Prop{Name: "curve", Value: ir.Expression(CurveFor(spec.Easing))})
	}

	tweens := append([]ir.Tween(nil), spec.Tweens...)
	sort.Slice(tweens, func(i, j int) bool { return tweens[i].Property < tweens[j].Property })

	for _, tween := range tweens {
		props = append(props, Prop{Name: string(tween.Property), Value: ir.Expression(tween.To)})
	}

	if len(spec.Keyframes) > 1 {
		props = append(props, Prop{Name: "sequence", Value: ir.Expression(tweenSequence(spec.Keyframes))})
	}

	return props
}

// GenerateWidgetGestureProps emits only the gesture half of the spec.
func GenerateWidgetGestureProps(spec *ir.AnimationSpec) []Prop {
	return gestureProps(spec, true)
}

// WrapsInGestureDetector reports whether widget-tree generation must wrap
// the element: gestures on anything but a gesture-mapped widget need an
// explicit GestureDetector parent.
func WrapsInGestureDetector(widgetType string, spec *ir.AnimationSpec) bool {
	return spec != nil && len(spec.Gestures) > 0 && widgetType != "Pressable"
}

func gestureProps(spec *ir.AnimationSpec, widget bool) []Prop {
	var props []Prop

	for _, kind := range gestureOrder {
		for _, g := range spec.Gestures {
			if g.Kind != kind {
				continue
			}

			name := componentGestureName(kind)
			if widget {
				name = widgetGestureName(kind)
			}

			props = append(props, Prop{Name: name, Value: ir.Expression(g.Handler)})
			props = append(props, constraintProps(g, widget)...)
		}
	}

	return props
}

func constraintProps(g ir.Gesture, widget bool) []Prop {
	if len(g.Constraints) == 0 {
		return nil
	}

	spelling := componentConstraintProps
	if widget {
		spelling = widgetConstraintProps
	}

	// Reverse the spelling table: neutral key → side-specific prop name.
	names := map[string]string{}
	for propName, key := range spelling {
		names[key] = propName
	}

	keys := make([]string, 0, len(g.Constraints))
	for k := range g.Constraints {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	var props []Prop

	for _, key := range keys {
		name, ok := names[key]
		if !ok {
			continue
		}

		raw := g.Constraints[key]

		value := ir.Expression(raw)
		if key == "axis" {
			value = ir.StringLiteral(strings.Trim(raw, `"'`))
		}

		props = append(props, Prop{Name: name, Value: value})
	}

	return props
}

func componentGestureName(kind ir.GestureKind) string {
	for name, k := range componentGestureProps {
		if k == kind {
			return name
		}
	}

	return string(kind)
}

func widgetGestureName(kind ir.GestureKind) string {
	for name, k := range widgetGestureProps {
		if k == kind {
			return name
		}
	}

	return string(kind)
}

// tweenObject renders the from/animate object literal. The from object is
// "" when no tween recorded a starting value.
func tweenObject(tweens []ir.Tween, from bool) string {
	ordered := append([]ir.Tween(nil), tweens...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Property < ordered[j].Property })

	var fields []string

	for _, tween := range ordered {
		value := tween.To
		if from {
			value = tween.From
		}

		if value == "" {
			continue
		}

		fields = append(fields, fmt.Sprintf("%s: %s", tween.Property, value))
	}

	if len(fields) == 0 {
		return ""
	}

	return "{" + strings.Join(fields, ", ") + "}"
}

func keyframeArray(frames []ir.Keyframe) string {
	items := make([]string, 0, len(frames))

	for _, frame := range frames {
		fields := []string{fmt.Sprintf("offset: %s", trimFloat(frame.Offset))}

		keys := make([]string, 0, len(frame.Values))
		for k := range frame.Values {
			keys = append(keys, k)
		}

		sort.Strings(keys)

		for _, k := range keys {
			fields = append(fields, fmt.Sprintf("%s: %s", k, frame.Values[k]))
		}

		items = append(items, "{"+strings.Join(fields, ", ")+"}")
	}

	return "[" + strings.Join(items, ", ") + "]"
}

// tweenSequence lowers keyframes to weighted segments: each consecutive
// offset pair becomes one TweenSequenceItem weighted by the offset delta.
func tweenSequence(frames []ir.Keyframe) string {
	var items []string

	for i := 1; i < len(frames); i++ {
		// Round away float noise from offset arithmetic.
		weight := math.Round((frames[i].Offset-frames[i-1].Offset)*1e8) / 1e6

		keys := make([]string, 0, len(frames[i].Values))
		for k := range frames[i].Values {
			keys = append(keys, k)
		}

		sort.Strings(keys)

		var fields []string

		for _, k := range keys {
			from, ok := frames[i-1].Values[k]
			if !ok {
				continue
			}

			fields = append(fields, fmt.Sprintf("Tween(begin: %s, end: %s)", from, frames[i].Values[k]))
		}

		if len(fields) == 0 {
			continue
		}

		items = append(items, fmt.Sprintf(
			"TweenSequenceItem(weight: %s, tween: %s)", trimFloat(weight), strings.Join(fields, ", ")))
	}

	return "TweenSequence([" + strings.Join(items, ", ") + "])"
}

func trimFloat(f float64) string {
	s := fmt.Sprintf("%g", f)
	return s
}
