package ir

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across the engine.
var (
	ErrUnknownFramework = errors.New("unknown source framework")
	ErrMissingRoot      = errors.New("document has no root node")
	ErrNilDocument      = errors.New("nil document")
)

// ParseError reports malformed input. It is fatal to the call that produced
// it: no partial IR accompanies a ParseError.
type ParseError struct {
	Message string `json:"message"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %d:%d: %s", e.Line, e.Column, e.Message)
}

// GenerationError reports an IR shape unrepresentable in the target. NodePath
// localizes the offending node, e.g. "root/children[1]/children[0]".
type GenerationError struct {
	Message  string `json:"message"`
	NodePath string `json:"nodePath"`
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation error at %s: %s", e.NodePath, e.Message)
}

// StructuralError is the fatal half of validation: missing root, bad node
// kind, wrong arity.
type StructuralError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("structural error at %s: %s", e.Path, e.Message)
}

// WarningKind classifies non-fatal findings attached to successful results.
type WarningKind string

// Warning kinds.
const (
	WarnUnknownWidget     WarningKind = "unknownWidget"
	WarnUnresolvedProp    WarningKind = "unresolvedProp"
	WarnUnsupportedSyntax WarningKind = "unsupportedSyntax"
	WarnNameCollision     WarningKind = "nameCollision"
	WarnUnknownTransition WarningKind = "unknownTransition"
)

// Warning is a non-fatal finding. Unknown widgets and unresolved props never
// abort a conversion; they surface here instead.
type Warning struct {
	Kind    WarningKind `json:"kind"`
	Path    string      `json:"path,omitempty"`
	Message string      `json:"message"`
}

func (w Warning) String() string {
	if w.Path == "" {
		return fmt.Sprintf("%s: %s", w.Kind, w.Message)
	}

	return fmt.Sprintf("%s at %s: %s", w.Kind, w.Path, w.Message)
}
