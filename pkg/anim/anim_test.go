package anim_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uimorph/uimorph/pkg/anim"
	"github.com/uimorph/uimorph/pkg/ir"
)

func TestExtractComponentTweens(t *testing.T) {
	t.Parallel()

	props := map[string]ir.PropValue{
		"from":     ir.Expression("{opacity: 0}"),
		"animate":  ir.Expression("{opacity: 1, scale: 1.2}"),
		"duration": ir.NumberLiteral("300"),
		"easing":   ir.StringLiteral("easeOut"),
		"padding":  ir.NumberLiteral("8"),
	}

	spec := anim.ExtractComponent(anim.AnimatedWidget, props)
	require.NotNil(t, spec)

	assert.Equal(t, 300, spec.DurationMs)
	assert.Equal(t, "easeOut", spec.Easing)
	require.Len(t, spec.Tweens, 2)
	assert.Equal(t, ir.TweenOpacity, spec.Tweens[0].Property)
	assert.Equal(t, "0", spec.Tweens[0].From)
	assert.Equal(t, "1", spec.Tweens[0].To)
	assert.Equal(t, ir.TweenScale, spec.Tweens[1].Property)

	// Animation props are consumed; layout props stay.
	assert.Len(t, props, 1)
	assert.Contains(t, props, "padding")
}

func TestExtractComponentGestures(t *testing.T) {
	t.Parallel()

	props := map[string]ir.PropValue{
		"onDrag":        ir.Expression("handleDrag"),
		"dragAxis":      ir.StringLiteral("x"),
		"dragThreshold": ir.NumberLiteral("10"),
		"onLongPress":   ir.Expression("() => select()"),
	}

	spec := anim.ExtractComponent("View", props)
	require.NotNil(t, spec)
	require.Len(t, spec.Gestures, 2)

	assert.Equal(t, ir.GestureLongPress, spec.Gestures[0].Kind)
	assert.Equal(t, ir.GestureDrag, spec.Gestures[1].Kind)
	assert.Equal(t, "x", spec.Gestures[1].Constraints["axis"])
	assert.Equal(t, "10", spec.Gestures[1].Constraints["dragThreshold"])
	assert.Empty(t, props)
}

func TestExtractWidgetTweens(t *testing.T) {
	t.Parallel()

	props := map[string]ir.PropValue{
		"duration": ir.Expression("Duration(milliseconds: 300)"),
		"curve":    ir.Expression("Curves.easeOut"),
		"opacity":  ir.Expression("1"),
	}

	spec := anim.ExtractWidget("AnimatedContainer", props)
	require.NotNil(t, spec)
	assert.Equal(t, 300, spec.DurationMs)
	assert.Equal(t, "easeOut", spec.Easing)
	require.Len(t, spec.Tweens, 1)
	assert.Equal(t, ir.TweenOpacity, spec.Tweens[0].Property)
	assert.Empty(t, props)
}

func TestGenerateWidgetProps(t *testing.T) {
	t.Parallel()

	spec := &ir.AnimationSpec{
		DurationMs: 300,
		Easing:     "easeOut",
		Tweens:     []ir.Tween{{Property: ir.TweenOpacity, To: "1"}},
	}

	props := anim.GenerateWidgetProps(spec)
	require.Len(t, props, 3)
	assert.Equal(t, "duration", props[0].Name)
	assert.Equal(t, "Duration(milliseconds: 300)", props[0].Value.SourceText)
	assert.Equal(t, "curve", props[1].Name)
	assert.Equal(t, "Curves.easeOut", props[1].Value.SourceText)
	assert.Equal(t, "opacity", props[2].Name)
}

func TestGenerateComponentRoundTrip(t *testing.T) {
	t.Parallel()

	props := map[string]ir.PropValue{
		"animate":  ir.Expression("{opacity: 1}"),
		"from":     ir.Expression("{opacity: 0}"),
		"duration": ir.NumberLiteral("200"),
	}

	spec := anim.ExtractComponent(anim.AnimatedWidget, props)
	require.NotNil(t, spec)

	out := anim.GenerateComponentProps(spec)

	regenerated := map[string]ir.PropValue{}
	for _, p := range out {
		regenerated[p.Name] = p.Value
	}

	assert.Equal(t, "{opacity: 1}", regenerated["animate"].SourceText)
	assert.Equal(t, "{opacity: 0}", regenerated["from"].SourceText)
	assert.Equal(t, "200", regenerated["duration"].Raw)
}

func TestKeyframesLowerToWeightedSegments(t *testing.T) {
	t.Parallel()

	props := map[string]ir.PropValue{
		"keyframes": ir.Expression("[{offset: 0, opacity: 0}, {offset: 0.4, opacity: 1}, {offset: 1, opacity: 0.5}]"),
	}

	spec := anim.ExtractComponent(anim.AnimatedWidget, props)
	require.NotNil(t, spec)
	require.Len(t, spec.Keyframes, 3)

	out := anim.GenerateWidgetProps(spec)
	require.Len(t, out, 1)
	assert.Equal(t, "sequence", out[0].Name)
	assert.Contains(t, out[0].Value.SourceText, "TweenSequenceItem(weight: 40")
	assert.Contains(t, out[0].Value.SourceText, "Tween(begin: 0, end: 1)")
}

func TestUnknownEasingFallsBack(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Curves.linear", anim.CurveFor("zigzag"))
	assert.Equal(t, "", anim.EasingFor("Curves.mystery"))
}
