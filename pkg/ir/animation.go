package ir

// TweenProperty names an animatable property.
type TweenProperty string

// Animatable properties.
const (
	TweenOpacity     TweenProperty = "opacity"
	TweenScale       TweenProperty = "scale"
	TweenRotation    TweenProperty = "rotation"
	TweenTranslation TweenProperty = "translation"
	TweenColor       TweenProperty = "color"
	TweenSize        TweenProperty = "size"
)

// GestureKind names a recognized gesture.
type GestureKind string

// Gesture kinds.
const (
	GestureTap       GestureKind = "tap"
	GestureLongPress GestureKind = "longPress"
	GestureDrag      GestureKind = "drag"
	GesturePinch     GestureKind = "pinch"
	GestureRotate    GestureKind = "rotate"
)

// AnimationSpec is element metadata describing animations and gestures. It
// rides on the element rather than reshaping the tree, so structural
// conversion never depends on it.
type AnimationSpec struct {
	Tweens    []Tween    `json:"tweens,omitempty"`
	Keyframes []Keyframe `json:"keyframes,omitempty"`
	Gestures  []Gesture  `json:"gestures,omitempty"`
	// DurationMs and Easing apply to the whole spec unless a tween
	// overrides them.
	DurationMs int    `json:"durationMs,omitempty"`
	Easing     string `json:"easing,omitempty"`
}

// Tween animates one property between two values.
type Tween struct {
	Property TweenProperty `json:"property"`
	// From and To are source expressions or literal text, verbatim.
	From       string `json:"from,omitempty"`
	To         string `json:"to"`
	DurationMs int    `json:"durationMs,omitempty"`
	Easing     string `json:"easing,omitempty"`
}

// Keyframe is one step of a keyframe sequence. Offsets are 0..1; generation
// lowers consecutive offsets into weighted segments.
type Keyframe struct {
	Offset float64           `json:"offset"`
	Values map[string]string `json:"values"`
}

// Gesture maps a gesture descriptor to its handler expression, preserving
// constraints such as axis locks and activation thresholds.
type Gesture struct {
	Kind        GestureKind       `json:"kind"`
	Handler     string            `json:"handler"`
	Constraints map[string]string `json:"constraints,omitempty"`
}

// Empty reports whether the spec carries no animation or gesture data.
func (s *AnimationSpec) Empty() bool {
	return s == nil || (len(s.Tweens) == 0 && len(s.Keyframes) == 0 && len(s.Gestures) == 0)
}

func (s *AnimationSpec) clone() *AnimationSpec {
	if s == nil {
		return nil
	}

	out := *s

	if s.Tweens != nil {
		out.Tweens = make([]Tween, len(s.Tweens))
		copy(out.Tweens, s.Tweens)
	}

	if s.Keyframes != nil {
		out.Keyframes = make([]Keyframe, len(s.Keyframes))

		for i, kf := range s.Keyframes {
			ckf := kf
			ckf.Values = make(map[string]string, len(kf.Values))

			for k, v := range kf.Values {
				ckf.Values[k] = v
			}

			out.Keyframes[i] = ckf
		}
	}

	if s.Gestures != nil {
		out.Gestures = make([]Gesture, len(s.Gestures))

		for i, g := range s.Gestures {
			cg := g

			if g.Constraints != nil {
				cg.Constraints = make(map[string]string, len(g.Constraints))
				for k, v := range g.Constraints {
					cg.Constraints[k] = v
				}
			}

			out.Gestures[i] = cg
		}
	}

	return &out
}
