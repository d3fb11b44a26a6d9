package anim

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/uimorph/uimorph/pkg/ir"
	"github.com/uimorph/uimorph/pkg/textutil"
)

// AnimatedWidget is the component-model wrapper element carrying tweens.
const AnimatedWidget = "Animated"

var durationCallRe = regexp.MustCompile(`^Duration\s*\(\s*milliseconds:\s*(\d+)\s*\)$`)

// ExtractComponent pulls animation and gesture descriptors out of a
// component-model prop set. Recognized props are removed from props;
// the spec is nil when nothing was recognized.
func ExtractComponent(widgetType string, props map[string]ir.PropValue) *ir.AnimationSpec {
	spec := &ir.AnimationSpec{}

	if widgetType == AnimatedWidget {
		extractComponentTweens(spec, props)
	}

	extractGestures(spec, props, componentGestureProps, componentConstraintProps)

	if spec.Empty() {
		return nil
	}

	return spec
}

func extractComponentTweens(spec *ir.AnimationSpec, props map[string]ir.PropValue) {
	var fromValues map[string]string

	if v, ok := props["from"]; ok && v.Kind == ir.PropExpression {
		fromValues = parseObjectLiteral(v.SourceText)

		delete(props, "from")
	}

	if v, ok := props["duration"]; ok && v.IsLiteral() && v.LiteralKind == ir.LiteralNumber {
		spec.DurationMs, _ = strconv.Atoi(v.Raw)

		delete(props, "duration")
	}

	if v, ok := props["easing"]; ok && v.IsLiteral() {
		spec.Easing = v.Raw

		delete(props, "easing")
	}

	if v, ok := props["animate"]; ok && v.Kind == ir.PropExpression {
		toValues := parseObjectLiteral(v.SourceText)

		for _, key := range sortedKeys(toValues) {
			prop, known := tweenProperties[key]
			if !known {
				continue
			}

			spec.Tweens = append(spec.Tweens, ir.Tween{
				Property: prop,
				From:     fromValues[key],
				To:       toValues[key],
			})
		}

		delete(props, "animate")
	}

	if v, ok := props["keyframes"]; ok && v.Kind == ir.PropExpression {
		spec.Keyframes = parseKeyframes(v.SourceText)

		delete(props, "keyframes")
	}
}

// ExtractWidget is the widget-tree counterpart working on raw constructor
// arguments (before registry prop transforms).
func ExtractWidget(widgetName string, props map[string]ir.PropValue) *ir.AnimationSpec {
	spec := &ir.AnimationSpec{}

	if widgetName == "AnimatedContainer" {
		extractWidgetTweens(spec, props)
	}

	extractGestures(spec, props, widgetGestureProps, widgetConstraintProps)

	if spec.Empty() {
		return nil
	}

	return spec
}

func extractWidgetTweens(spec *ir.AnimationSpec, props map[string]ir.PropValue) {
	if v, ok := props["duration"]; ok && v.Kind == ir.PropExpression {
		if m := durationCallRe.FindStringSubmatch(strings.TrimSpace(v.SourceText)); m != nil {
			spec.DurationMs, _ = strconv.Atoi(m[1])

			delete(props, "duration")
		}
	}

	if v, ok := props["curve"]; ok && v.Kind == ir.PropExpression {
		if easing := EasingFor(strings.TrimSpace(v.SourceText)); easing != "" {
			spec.Easing = easing

			delete(props, "curve")
		}
	}

	for _, key := range sortedKeys(props) {
		prop, known := tweenProperties[key]
		if !known {
			continue
		}

		value := props[key]

		spec.Tweens = append(spec.Tweens, ir.Tween{Property: prop, To: rawText(value)})

		delete(props, key)
	}
}

func extractGestures(
	spec *ir.AnimationSpec,
	props map[string]ir.PropValue,
	gestureNames map[string]ir.GestureKind,
	constraintNames map[string]string,
) {
	constraints := map[string]string{}

	for _, name := range sortedKeys(props) {
		if key, ok := constraintNames[name]; ok {
			constraints[key] = rawText(props[name])

			delete(props, name)
		}
	}

	for _, name := range sortedKeys(props) {
		kind, ok := gestureNames[name]
		if !ok {
			continue
		}

		value := props[name]
		if value.Kind != ir.PropExpression {
			continue
		}

		gesture := ir.Gesture{Kind: kind, Handler: value.SourceText}

		for key, v := range constraints {
			if constraintApplies(kind, key) {
				if gesture.Constraints == nil {
					gesture.Constraints = map[string]string{}
				}

				gesture.Constraints[key] = v
			}
		}

		spec.Gestures = append(spec.Gestures, gesture)

		delete(props, name)
	}

	sortGestures(spec)
}

func constraintApplies(kind ir.GestureKind, key string) bool {
	switch kind {
	case ir.GestureDrag:
		return key == "axis" || key == "dragThreshold"
	case ir.GesturePinch:
		return key == "pinchThreshold"
	case ir.GestureRotate:
		return key == "rotateThreshold"
	default:
		return false
	}
}

func sortGestures(spec *ir.AnimationSpec) {
	order := map[ir.GestureKind]int{}
	for i, k := range gestureOrder {
		order[k] = i
	}

	for i := 1; i < len(spec.Gestures); i++ {
		for j := i; j > 0 && order[spec.Gestures[j].Kind] < order[spec.Gestures[j-1].Kind]; j-- {
			spec.Gestures[j], spec.Gestures[j-1] = spec.Gestures[j-1], spec.Gestures[j]
		}
	}
}

// parseObjectLiteral parses "{opacity: 1, scale: 1.2}" into a key→text map.
// Values keep their verbatim source text.
func parseObjectLiteral(src string) map[string]string {
	trimmed := strings.TrimSpace(src)
	if !strings.HasPrefix(trimmed, "{") || !strings.HasSuffix(trimmed, "}") {
		return nil
	}

	out := map[string]string{}

	for _, field := range textutil.SplitTop(trimmed[1:len(trimmed)-1], ',') {
		parts := textutil.SplitTop(field, ':')
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		if key == "" {
			continue
		}

		out[key] = strings.TrimSpace(parts[1])
	}

	return out
}

// parseKeyframes parses "[{offset: 0, opacity: 0}, {offset: 1, opacity: 1}]"
// into an offset-sorted keyframe list.
func parseKeyframes(src string) []ir.Keyframe {
	trimmed := strings.TrimSpace(src)
	if !strings.HasPrefix(trimmed, "[") || !strings.HasSuffix(trimmed, "]") {
		return nil
	}

	var frames []ir.Keyframe

	for _, item := range textutil.SplitTop(trimmed[1:len(trimmed)-1], ',') {
		values := parseObjectLiteral(strings.TrimSpace(item))
		if values == nil {
			continue
		}

		frame := ir.Keyframe{Values: map[string]string{}}

		for k, v := range values {
			if k == "offset" {
				frame.Offset, _ = strconv.ParseFloat(v, 64)
				continue
			}

			frame.Values[k] = v
		}

		frames = append(frames, frame)
	}

	for i := 1; i < len(frames); i++ {
		for j := i; j > 0 && frames[j].Offset < frames[j-1].Offset; j-- {
			frames[j], frames[j-1] = frames[j-1], frames[j]
		}
	}

	return frames
}

func rawText(v ir.PropValue) string {
	if v.IsLiteral() {
		return v.Raw
	}

	return v.SourceText
}
