// Package anim maps declarative animation and gesture descriptors between
// the two ecosystems. Specs ride on IR elements as metadata
// (ir.AnimationSpec); extraction runs on each parser's raw prop vocabulary
// before registry transforms, and generation re-materializes props for the
// target side.
package anim

import (
	"sort"

	"github.com/uimorph/uimorph/pkg/ir"
)

// Prop is one generated prop in deterministic order.
type Prop struct {
	Name  string
	Value ir.PropValue
}

// tweenProperties is the closed set of animatable properties.
var tweenProperties = map[string]ir.TweenProperty{
	"opacity":     ir.TweenOpacity,
	"scale":       ir.TweenScale,
	"rotation":    ir.TweenRotation,
	"translation": ir.TweenTranslation,
	"color":       ir.TweenColor,
	"size":        ir.TweenSize,
}

// easings maps shared easing names to widget-tree curve identifiers.
var easings = map[string]string{
	"linear":    "Curves.linear",
	"easeIn":    "Curves.easeIn",
	"easeOut":   "Curves.easeOut",
	"easeInOut": "Curves.easeInOut",
	"bounce":    "Curves.bounceOut",
	"elastic":   "Curves.elasticOut",
}

// componentGestureProps maps component-model gesture prop names to kinds.
var componentGestureProps = map[string]ir.GestureKind{
	"onTap":       ir.GestureTap,
	"onLongPress": ir.GestureLongPress,
	"onDrag":      ir.GestureDrag,
	"onPinch":     ir.GesturePinch,
	"onRotate":    ir.GestureRotate,
}

// widgetGestureProps maps widget-tree gesture callback names to kinds.
var widgetGestureProps = map[string]ir.GestureKind{
	"onTap":          ir.GestureTap,
	"onLongPress":    ir.GestureLongPress,
	"onPanUpdate":    ir.GestureDrag,
	"onScaleUpdate":  ir.GesturePinch,
	"onRotateUpdate": ir.GestureRotate,
}

// componentConstraintProps maps constraint prop names to neutral keys.
var componentConstraintProps = map[string]string{
	"dragAxis":        "axis",
	"dragThreshold":   "dragThreshold",
	"pinchThreshold":  "pinchThreshold",
	"rotateThreshold": "rotateThreshold",
}

// widgetConstraintProps is the widget-tree spelling of the same constraints.
var widgetConstraintProps = map[string]string{
	"panAxis":         "axis",
	"panThreshold":    "dragThreshold",
	"scaleThreshold":  "pinchThreshold",
	"rotateThreshold": "rotateThreshold",
}

// gestureKinds in deterministic generation order.
var gestureOrder = []ir.GestureKind{
	ir.GestureTap,
	ir.GestureLongPress,
	ir.GestureDrag,
	ir.GesturePinch,
	ir.GestureRotate,
}

// CurveFor returns the widget-tree curve identifier for a shared easing
// name, defaulting to linear for unknown names.
func CurveFor(easing string) string {
	if curve, ok := easings[easing]; ok {
		return curve
	}

	return "Curves.linear"
}

// EasingFor is the inverse of CurveFor; unknown curves report "" so callers
// can keep the original expression.
func EasingFor(curve string) string {
	for name, c := range easings {
		if c == curve {
			return name
		}
	}

	return ""
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}
