package ir

// StatePattern names one of the four state idioms the converter round-trips.
type StatePattern string

// State patterns.
const (
	// StateLocal is paired-value-and-setter on the component side and a
	// mutable field with explicit rebuild on the widget side.
	StateLocal StatePattern = "local"
	// StateReducer is a reducer hook on the component side and a typed
	// event/state stream on the widget side.
	StateReducer StatePattern = "reducer"
	// StateExternalStore is a store subscription hook on the component side
	// and an observable store (value notifier) on the widget side.
	StateExternalStore StatePattern = "externalStore"
	// StateContextDerived is a context read on the component side and an
	// inherited-scope lookup on the widget side.
	StateContextDerived StatePattern = "contextDerived"
)

// StateBinding describes one state declaration site lifted off the component
// body. Multiple declarations in one component stay independent bindings;
// they are never unified.
type StateBinding struct {
	Pattern StatePattern `json:"pattern"`
	// Name is the state value identifier (count, theme, ...).
	Name string `json:"name"`
	// Setter is the companion identifier on the component-model side
	// (setCount, dispatch). Empty for patterns without one.
	Setter string `json:"setter,omitempty"`
	// TypeName is the declared value type when the source carried one
	// (Dart field type, TS generic argument). Empty means inferred.
	TypeName string `json:"typeName,omitempty"`
	// InitialValue is the initializer expression, verbatim.
	InitialValue string `json:"initialValue,omitempty"`
	// Reducer is the reducer function expression for StateReducer bindings.
	Reducer string `json:"reducer,omitempty"`
	// Source is the full original declaration, kept for opaque fallback.
	Source string `json:"source,omitempty"`

	Transitions []StateTransition `json:"transitions,omitempty"`
}

// StateTransition records one place where the state value is mutated.
type StateTransition struct {
	// Trigger is the prop name carrying the mutating handler (onClick).
	Trigger string `json:"trigger"`
	// MutationExpression is the normalized mutation, e.g. "count = count + 1".
	MutationExpression string `json:"mutationExpression"`
}

func (b *StateBinding) clone() *StateBinding {
	if b == nil {
		return nil
	}

	out := *b

	if b.Transitions != nil {
		out.Transitions = make([]StateTransition, len(b.Transitions))
		copy(out.Transitions, b.Transitions)
	}

	return &out
}
