package jsx

import (
	"fmt"
	"sort"
	"strings"

	"github.com/uimorph/uimorph/pkg/anim"
	"github.com/uimorph/uimorph/pkg/ir"
	"github.com/uimorph/uimorph/pkg/registry"
	"github.com/uimorph/uimorph/pkg/state"
	"github.com/uimorph/uimorph/pkg/textutil"
)

// hookModule is where hook imports come from.
const hookModule = "react"

// hooksByPattern maps state patterns to the hook each one imports.
var hooksByPattern = map[ir.StatePattern]string{
	ir.StateLocal:          "useState",
	ir.StateReducer:        "useReducer",
	ir.StateExternalStore:  "useSyncExternalStore",
	ir.StateContextDerived: "useContext",
}

// emission is the per-invocation generation context. It is created per call
// and discarded at the end, so concurrent generations never share state.
type emission struct {
	reg      *registry.Registry
	bindings []*ir.StateBinding
	// imports maps module → set of named imports.
	imports  map[string]map[string]bool
	warnings []ir.Warning
}

// Option adjusts generated output.
type Option func(*genConfig)

type genConfig struct {
	indent string
}

// WithIndent sets the indentation unit to width spaces. Non-positive widths
// keep the two-space default.
func WithIndent(width int) Option {
	return func(c *genConfig) {
		if width > 0 {
			c.indent = strings.Repeat(" ", width)
		}
	}
}

// Generate renders doc as component-model source. The returned error, if
// any, is an *ir.GenerationError naming the offending node path.
func Generate(doc *ir.Document, reg *registry.Registry, opts ...Option) (string, []ir.Warning, error) {
	if doc == nil || doc.Root == nil {
		return "", nil, &ir.GenerationError{Message: "document has no root node", NodePath: "root"}
	}

	cfg := genConfig{indent: "  "}
	for _, opt := range opts {
		opt(&cfg)
	}

	em := &emission{reg: reg, imports: map[string]map[string]bool{}}
	em.collectBindings(doc.Root)

	body := textutil.NewIndentWriter(cfg.indent)
	body.In()
	body.In()

	err := em.writeNode(body, doc.Root, "root")
	if err != nil {
		return "", nil, err
	}

	name := doc.Metadata.ComponentName
	if name == "" {
		name = "Component"
	}

	header := textutil.NewIndentWriter(cfg.indent)

	em.writeImports(header)

	header.Line(fmt.Sprintf("export default function %s() {", name))
	header.In()

	for _, binding := range em.bindings {
		header.Line(state.ExpandComponentDecl(binding))
	}

	if len(em.bindings) > 0 {
		header.Blank()
	}

	header.Line("return (")

	footer := textutil.NewIndentWriter(cfg.indent)
	footer.In()
	footer.Line(");")
	footer.Out()
	footer.Line("}")

	return header.String() + body.String() + footer.String(), em.warnings, nil
}

func (em *emission) collectBindings(root *ir.Node) {
	em.bindings = state.CollectBindings(root)

	for _, binding := range em.bindings {
		if hook, ok := hooksByPattern[binding.Pattern]; ok {
			em.addImport(hookModule, hook)
		}
	}
}

func (em *emission) addImport(module, name string) {
	if em.imports[module] == nil {
		em.imports[module] = map[string]bool{}
	}

	em.imports[module][name] = true
}

// writeImports emits one deduplicated import statement per module, modules
// and names both in alphabetical order, so generation is deterministic.
func (em *emission) writeImports(w *textutil.IndentWriter) {
	if len(em.imports) == 0 {
		return
	}

	modules := make([]string, 0, len(em.imports))
	for module := range em.imports {
		modules = append(modules, module)
	}

	sort.Strings(modules)

	for _, module := range modules {
		names := make([]string, 0, len(em.imports[module]))
		for name := range em.imports[module] {
			names = append(names, name)
		}

		sort.Strings(names)

		w.Line(fmt.Sprintf("import { %s } from '%s';", strings.Join(names, ", "), module))
	}

	w.Blank()
}

func (em *emission) writeNode(w *textutil.IndentWriter, n *ir.Node, path string) error {
	switch n.Kind {
	case ir.KindTextLiteral:
		w.Line(n.Text)
		return nil

	case ir.KindExpressionSlot:
		w.Line("{" + n.SourceText + "}")
		return nil

	case ir.KindElement:
		return em.writeElement(w, n, path)

	default:
		return &ir.GenerationError{Message: fmt.Sprintf("unknown node kind %q", n.Kind), NodePath: path}
	}
}

func (em *emission) writeElement(w *textutil.IndentWriter, n *ir.Node, path string) error {
	tag := n.WidgetType
	unknown := false

	if entry, ok := em.reg.ResolveForward(n.WidgetType); ok {
		for _, module := range entry.ImportsFor(ir.FrameworkComponentModel) {
			em.addImport(module, tag)
		}
	} else {
		// Unmapped widget: passthrough container plus a comment naming the
		// original type.
		unknown = true
		tag = "View"

		em.warnings = append(em.warnings, ir.Warning{
			Kind:    ir.WarnUnknownWidget,
			Path:    path,
			Message: fmt.Sprintf("widget %q has no component-model mapping; emitted passthrough View", n.WidgetType),
		})

		if entry, ok := em.reg.ResolveForward(tag); ok {
			for _, module := range entry.ImportsFor(ir.FrameworkComponentModel) {
				em.addImport(module, tag)
			}
		}
	}

	attrs := em.renderAttrs(n)

	if len(n.Children) == 0 && !unknown {
		if attrs == "" {
			w.Line("<" + tag + " />")
		} else {
			w.Line("<" + tag + " " + attrs + " />")
		}

		return nil
	}

	if attrs == "" {
		w.Line("<" + tag + ">")
	} else {
		w.Line("<" + tag + " " + attrs + ">")
	}

	w.In()

	if unknown {
		w.Line(fmt.Sprintf("{/* passthrough: %s */}", n.WidgetType))
	}

	for i, child := range n.Children {
		err := em.writeNode(w, child, fmt.Sprintf("%s/children[%d]", path, i))
		if err != nil {
			return err
		}
	}

	w.Out()
	w.Line("</" + tag + ">")

	return nil
}

// renderAttrs renders props in deterministic order: plain props sorted
// alphabetically, then animation and gesture props in converter order.
func (em *emission) renderAttrs(n *ir.Node) string {
	names := make([]string, 0, len(n.Props))
	for name := range n.Props {
		names = append(names, name)
	}

	sort.Strings(names)

	var parts []string

	for _, name := range names {
		parts = append(parts, em.renderAttr(name, n.Props[name]))
	}

	if n.Animation != nil {
		if n.WidgetType == anim.AnimatedWidget {
			em.addImport("react-native-reanimated", anim.AnimatedWidget)
		}

		for _, p := range anim.GenerateComponentProps(n.Animation) {
			parts = append(parts, em.renderAttr(p.Name, p.Value))
		}
	}

	return strings.Join(parts, " ")
}

func (em *emission) renderAttr(name string, value ir.PropValue) string {
	switch value.Kind {
	case ir.PropLiteral:
		switch value.LiteralKind {
		case ir.LiteralString:
			return fmt.Sprintf(`%s="%s"`, name, value.Raw)
		default:
			return fmt.Sprintf("%s={%s}", name, value.Raw)
		}

	default:
		// Expression source text is emitted verbatim and unquoted: the
		// generator-side half of the round-trip invariant.
		text := state.RewriteHandlerToComponent(em.bindings, value.SourceText)

		return fmt.Sprintf("%s={%s}", name, text)
	}
}
