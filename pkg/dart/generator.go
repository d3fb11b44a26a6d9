package dart

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

const baseImport = "package:flutter/widgets.dart"

// emission is the per-invocation generation context.
type emission struct {
	reg      *registry.Registry
	bindings []*ir.StateBinding
	imports  map[string]bool
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

// Generate renders doc as widget-tree source. Local, reducer and
// external-store bindings force a StatefulWidget scaffold; context-derived
// bindings expand inside build().
func Generate(doc *ir.Document, reg *registry.Registry, opts ...Option) (string, []ir.Warning, error) {
	if doc == nil || doc.Root == nil {
		return "", nil, &ir.GenerationError{Message: "document has no root node", NodePath: "root"}
	}

	cfg := genConfig{indent: "  "}
	for _, opt := range opts {
		opt(&cfg)
	}

	em := &emission{reg: reg, imports: map[string]bool{baseImport: true}}
	em.bindings = state.CollectBindings(doc.Root)

	body := textutil.NewIndentWriter(cfg.indent)
	body.In()
	body.In()

	err := em.writeNode(body, doc.Root, "return ", ";", "root")
	if err != nil {
		return "", nil, err
	}

	name := doc.Metadata.ComponentName
	if name == "" {
		name = "Component"
	}

	header := textutil.NewIndentWriter(cfg.indent)

	em.writeImports(header)

	if em.stateful() {
		em.writeStatefulScaffold(header, name)
	} else {
		em.writeStatelessScaffold(header, name)
	}

	footer := textutil.NewIndentWriter(cfg.indent)
	footer.In()
	footer.Line("}")
	footer.Out()
	footer.Line("}")

	return header.String() + body.String() + footer.String(), em.warnings, nil
}

// stateful reports whether any binding needs a State class.
func (em *emission) stateful() bool {
	for _, b := range em.bindings {
		if b.Pattern != ir.StateContextDerived {
			return true
		}
	}

	return false
}

func (em *emission) writeImports(w *textutil.IndentWriter) {
	modules := make([]string, 0, len(em.imports))
	for module := range em.imports {
		modules = append(modules, module)
	}

	sort.Strings(modules)

	for _, module := range modules {
		w.Line(fmt.Sprintf("import '%s';", module))
	}

	w.Blank()
}

func (em *emission) writeStatelessScaffold(w *textutil.IndentWriter, name string) {
	w.Line(fmt.Sprintf("class %s extends StatelessWidget {", name))
	w.In()
	w.Line(fmt.Sprintf("const %s({super.key});", name))
	w.Blank()
	w.Line("@override")
	w.Line("Widget build(BuildContext context) {")
	w.In()

	em.writeBuildLocals(w)
}

func (em *emission) writeStatefulScaffold(w *textutil.IndentWriter, name string) {
	stateName := "_" + name + "State"

	w.Line(fmt.Sprintf("class %s extends StatefulWidget {", name))
	w.In()
	w.Line(fmt.Sprintf("const %s({super.key});", name))
	w.Blank()
	w.Line("@override")
	w.Line(fmt.Sprintf("State<%s> createState() => %s();", name, stateName))
	w.Out()
	w.Line("}")
	w.Blank()
	w.Line(fmt.Sprintf("class %s extends State<%s> {", stateName, name))
	w.In()

	for _, binding := range em.bindings {
		lines := state.ExpandWidgetField(binding)
		if len(lines) == 0 {
			continue
		}

		for _, line := range lines {
			if line == "" {
				w.Blank()
			} else {
				w.Line(line)
			}
		}

		w.Blank()
	}

	w.Line("@override")
	w.Line("Widget build(BuildContext context) {")
	w.In()

	em.writeBuildLocals(w)
}

// writeBuildLocals expands context-derived bindings at the top of build().
func (em *emission) writeBuildLocals(w *textutil.IndentWriter) {
	wrote := false

	for _, binding := range em.bindings {
		if line := state.ExpandWidgetBuildLocal(binding); line != "" {
			w.Line(line)

			wrote = true
		}
	}

	if wrote {
		w.Blank()
	}
}

func (em *emission) writeNode(w *textutil.IndentWriter, n *ir.Node, prefix, suffix, path string) error {
	switch n.Kind {
	case ir.KindTextLiteral:
		w.Line(prefix + "Text(" + dartString(n.Text) + ")" + suffix)
		return nil

	case ir.KindExpressionSlot:
		w.Line(prefix + n.SourceText + suffix)
		return nil

	case ir.KindElement:
		return em.writeElement(w, n, prefix, suffix, path)

	default:
		return &ir.GenerationError{Message: fmt.Sprintf("unknown node kind %q", n.Kind), NodePath: path}
	}
}

func (em *emission) writeElement(w *textutil.IndentWriter, n *ir.Node, prefix, suffix, path string) error {
	entry, known := em.reg.ResolveForward(n.WidgetType)

	dartName := n.WidgetType
	if known {
		dartName = entry.TargetWidget

		for _, module := range entry.ImportsFor(ir.FrameworkWidgetTree) {
			em.imports[module] = true
		}
	} else {
		dartName = "Container"

		em.warnings = append(em.warnings, ir.Warning{
			Kind:    ir.WarnUnknownWidget,
			Path:    path,
			Message: fmt.Sprintf("widget %q has no widget-tree mapping; emitted passthrough Container", n.WidgetType),
		})
	}

	props := em.transformProps(entry, n, path)

	if n.Animation != nil {
		props = append(props, anim.GenerateWidgetTweenProps(n.Animation)...)

		if !anim.WrapsInGestureDetector(n.WidgetType, n.Animation) {
			props = append(props, anim.GenerateWidgetGestureProps(n.Animation)...)
		}
	}

	if n.Animation != nil && anim.WrapsInGestureDetector(n.WidgetType, n.Animation) {
		w.Line(prefix + "GestureDetector(")
		w.In()

		for _, p := range anim.GenerateWidgetGestureProps(n.Animation) {
			w.Line(p.Name + ": " + em.dartValue(p.Value) + ",")
		}

		err := em.writeElementBody(w, n, dartName, props, !known, "child: ", ",", path)
		if err != nil {
			return err
		}

		w.Out()
		w.Line(")" + suffix)

		return nil
	}

	return em.writeElementBody(w, n, dartName, props, !known, prefix, suffix, path)
}

// writeElementBody emits one constructor call. Text elements whose children
// are all text or expression slots collapse into a positional interpolated
// string.
func (em *emission) writeElementBody(
	w *textutil.IndentWriter, n *ir.Node, dartName string,
	props []anim.Prop, passthrough bool, prefix, suffix, path string,
) error {
	if dartName == "Text" && len(n.Children) > 0 && allTextual(n.Children) {
		positional := dartString(interpolated(n.Children))

		if len(props) == 0 {
			w.Line(prefix + dartName + "(" + positional + ")" + suffix)
			return nil
		}

		w.Line(prefix + dartName + "(")
		w.In()
		w.Line(positional + ",")
		em.writeProps(w, props)
		w.Out()
		w.Line(")" + suffix)

		return nil
	}

	if len(props) == 0 && len(n.Children) == 0 && !passthrough {
		w.Line(prefix + dartName + "()" + suffix)
		return nil
	}

	w.Line(prefix + dartName + "(")
	w.In()

	if passthrough {
		w.Line("// passthrough: " + n.WidgetType)
	}

	em.writeProps(w, props)

	var err error

	switch {
	case len(n.Children) == 1:
		err = em.writeNode(w, n.Children[0], "child: ", ",", path+"/children[0]")

	case len(n.Children) > 1:
		w.Line("children: [")
		w.In()

		for i, child := range n.Children {
			err = em.writeNode(w, child, "", ",", fmt.Sprintf("%s/children[%d]", path, i))
			if err != nil {
				break
			}
		}

		w.Out()
		w.Line("],")
	}

	if err != nil {
		return err
	}

	w.Out()
	w.Line(")" + suffix)

	return nil
}

func (em *emission) writeProps(w *textutil.IndentWriter, props []anim.Prop) {
	for _, p := range props {
		w.Line(p.Name + ": " + em.dartValue(p.Value) + ",")
	}
}

// transformProps runs forward registry transforms over the element's props,
// sorted by source name for deterministic output.
func (em *emission) transformProps(entry *registry.Entry, n *ir.Node, path string) []anim.Prop {
	names := make([]string, 0, len(n.Props))
	for name := range n.Props {
		names = append(names, name)
	}

	sort.Strings(names)

	props := make([]anim.Prop, 0, len(names))

	for _, name := range names {
		target, value, warn := em.reg.TransformProp(entry, name, n.Props[name], registry.Forward)
		if warn != nil {
			warn.Path = path
			em.warnings = append(em.warnings, *warn)
		}

		props = append(props, anim.Prop{Name: target, Value: value})
	}

	return props
}

func (em *emission) dartValue(v ir.PropValue) string {
	if v.IsLiteral() {
		if v.LiteralKind == ir.LiteralString {
			return dartString(v.Raw)
		}

		return v.Raw
	}

	return state.RewriteHandlerToWidget(em.bindings, v.SourceText)
}

// interpolated joins textual children into one Dart interpolated string body.
func interpolated(children []*ir.Node) string {
	parts := make([]string, 0, len(children))

	for _, child := range children {
		if child.Kind == ir.KindTextLiteral {
			parts = append(parts, child.Text)
			continue
		}

		expr := child.SourceText
		if identRe.MatchString(expr) {
			parts = append(parts, "$"+expr)
		} else {
			parts = append(parts, "${"+expr+"}")
		}
	}

	return strings.Join(parts, " ")
}

func allTextual(children []*ir.Node) bool {
	for _, child := range children {
		if child.Kind == ir.KindElement {
			return false
		}
	}

	return true
}

// dartString quotes a string, preferring single quotes.
func dartString(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}

	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}

	return "'" + strings.ReplaceAll(s, "'", `\'`) + "'"
}
