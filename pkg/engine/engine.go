// Package engine is the conversion facade. Every call is a synchronous,
// pure, request-scoped computation; the only shared state is the mapping
// registry snapshot, which is immutable and swapped atomically on reload, so
// in-flight conversions keep the snapshot they started with.
package engine

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/uimorph/uimorph/pkg/dart"
	"github.com/uimorph/uimorph/pkg/ir"
	"github.com/uimorph/uimorph/pkg/jsx"
	"github.com/uimorph/uimorph/pkg/registry"
	"github.com/uimorph/uimorph/pkg/routes"
)

// Observer receives a record of each finished conversion. Implementations
// must be safe for concurrent use.
type Observer interface {
	ObserveConversion(from, to ir.Framework, warnings int, elapsed time.Duration)
}

// Engine converts UI source between the two frameworks through the IR.
type Engine struct {
	registry atomic.Pointer[registry.Registry]
	observer Observer

	indentWidth  int
	statePattern ir.StatePattern
}

// Option configures an Engine.
type Option func(*Engine)

// WithObserver wires a conversion observer.
func WithObserver(obs Observer) Option {
	return func(e *Engine) { e.observer = obs }
}

// WithIndentWidth sets the indentation width of generated output in spaces.
func WithIndentWidth(width int) Option {
	return func(e *Engine) {
		if width > 0 {
			e.indentWidth = width
		}
	}
}

// WithStatePattern sets the state pattern assumed for bindings that carry
// none, e.g. in documents supplied directly rather than parsed from source.
func WithStatePattern(pattern ir.StatePattern) Option {
	return func(e *Engine) {
		if pattern != "" {
			e.statePattern = pattern
		}
	}
}

// New returns an engine reading from the given registry snapshot.
func New(reg *registry.Registry, opts ...Option) *Engine {
	e := &Engine{indentWidth: 2, statePattern: ir.StateLocal}
	e.registry.Store(reg)

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Registry returns the current snapshot.
func (e *Engine) Registry() *registry.Registry {
	return e.registry.Load()
}

// ReloadRegistry publishes a new snapshot for subsequent conversions.
func (e *Engine) ReloadRegistry(reg *registry.Registry) {
	e.registry.Store(reg)
}

// ParseRequest is one parse call.
type ParseRequest struct {
	Source     string
	Framework  ir.Framework
	SourceFile string
}

// Parse lowers source text into a validated IR document.
func (e *Engine) Parse(req ParseRequest) (*ir.Document, []ir.Warning, error) {
	return parseWith(e.registry.Load(), req)
}

func parseWith(reg *registry.Registry, req ParseRequest) (*ir.Document, []ir.Warning, error) {
	var (
		doc      *ir.Document
		warnings []ir.Warning
		err      error
	)

	switch req.Framework {
	case ir.FrameworkComponentModel:
		doc, warnings, err = jsx.Parse(req.Source, req.SourceFile, reg)

	case ir.FrameworkWidgetTree:
		doc, warnings, err = dart.Parse(req.Source, req.SourceFile, reg)

	default:
		return nil, nil, fmt.Errorf("%w: %q", ir.ErrUnknownFramework, req.Framework)
	}

	if err != nil {
		return nil, nil, err
	}

	structural, err := ir.Validate(doc, reg)
	if err != nil {
		return nil, nil, err
	}

	return doc, mergeWarnings(warnings, structural), nil
}

// mergeWarnings appends validator warnings to parser warnings, skipping
// unknown-widget findings for nodes the parser already flagged.
func mergeWarnings(parsed, structural []ir.Warning) []ir.Warning {
	flagged := make(map[string]bool, len(parsed))

	for _, w := range parsed {
		if w.Kind == ir.WarnUnknownWidget {
			flagged[w.Path] = true
		}
	}

	for _, w := range structural {
		if w.Kind == ir.WarnUnknownWidget && flagged[w.Path] {
			continue
		}

		parsed = append(parsed, w)
	}

	return parsed
}

// Generate renders an IR document as source for the target framework.
func (e *Engine) Generate(doc *ir.Document, target ir.Framework) (string, []ir.Warning, error) {
	return e.generateWith(e.registry.Load(), doc, target)
}

func (e *Engine) generateWith(reg *registry.Registry, doc *ir.Document, target ir.Framework) (string, []ir.Warning, error) {
	doc = e.withDefaultPatterns(doc)

	switch target {
	case ir.FrameworkComponentModel:
		return jsx.Generate(doc, reg, jsx.WithIndent(e.indentWidth))

	case ir.FrameworkWidgetTree:
		return dart.Generate(doc, reg, dart.WithIndent(e.indentWidth))

	default:
		return "", nil, fmt.Errorf("%w: %q", ir.ErrUnknownFramework, target)
	}
}

// withDefaultPatterns fills bindings that carry no pattern with the engine's
// default. The document is cloned first so the caller's copy stays untouched.
func (e *Engine) withDefaultPatterns(doc *ir.Document) *ir.Document {
	if doc == nil || doc.Root == nil {
		return doc
	}

	bare := false

	ir.Walk(doc.Root, func(n *ir.Node, _ string) bool {
		if n.State != nil && n.State.Pattern == "" {
			bare = true
			return false
		}

		return true
	})

	if !bare {
		return doc
	}

	doc = doc.Clone()

	ir.Walk(doc.Root, func(n *ir.Node, _ string) bool {
		if n.State != nil && n.State.Pattern == "" {
			n.State.Pattern = e.statePattern
		}

		return true
	})

	return doc
}

// ConvertRequest is one end-to-end conversion.
type ConvertRequest struct {
	Source     string
	From       ir.Framework
	To         ir.Framework
	SourceFile string
}

// Result is a finished conversion.
type Result struct {
	Output   string
	Document *ir.Document
	Warnings []ir.Warning
	Elapsed  time.Duration
}

// Convert parses source in one framework and generates the other. Both
// halves run against the same registry snapshot.
func (e *Engine) Convert(req ConvertRequest) (*Result, error) {
	start := time.Now()
	reg := e.registry.Load()

	doc, warnings, err := parseWith(reg, ParseRequest{
		Source:     req.Source,
		Framework:  req.From,
		SourceFile: req.SourceFile,
	})
	if err != nil {
		return nil, err
	}

	out, genWarnings, err := e.generateWith(reg, doc, req.To)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Output:   out,
		Document: doc,
		Warnings: append(warnings, genWarnings...),
		Elapsed:  time.Since(start),
	}

	if e.observer != nil {
		e.observer.ObserveConversion(req.From, req.To, len(result.Warnings), result.Elapsed)
	}

	return result, nil
}

// ConvertRoutes converts navigation source between the frameworks through
// the neutral route schema.
func (e *Engine) ConvertRoutes(src string, from, to ir.Framework) (string, []ir.Warning, error) {
	schema, warnings, err := routes.Parse(src, from)
	if err != nil {
		return "", nil, err
	}

	out, genWarnings, err := routes.Generate(schema, to)
	if err != nil {
		return "", nil, err
	}

	return out, append(warnings, genWarnings...), nil
}
