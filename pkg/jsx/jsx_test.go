package jsx_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uimorph/uimorph/pkg/ir"
	"github.com/uimorph/uimorph/pkg/jsx"
	"github.com/uimorph/uimorph/pkg/registry"
)

const counterSource = `import { Button, Text, View } from 'react-native';

export default function Counter() {
  const [count, setCount] = useState(0);

  return (
    <View padding={16}>
      <Text>Count: {count}</Text>
      <Button onClick={() => setCount(count + 1)}>Inc</Button>
    </View>
  );
}
`

func mustRegistry(t *testing.T) *registry.Registry {
	t.Helper()

	reg, err := registry.Load()
	require.NoError(t, err)

	return reg
}

func TestParseCounter(t *testing.T) {
	t.Parallel()

	doc, warnings, err := jsx.Parse(counterSource, "Counter.jsx", mustRegistry(t))
	require.NoError(t, err)
	assert.Empty(t, warnings)

	assert.Equal(t, ir.FrameworkComponentModel, doc.Metadata.SourceFramework)
	assert.Equal(t, "Counter", doc.Metadata.ComponentName)

	root := doc.Root
	require.Equal(t, ir.KindElement, root.Kind)
	assert.Equal(t, "View", root.WidgetType)
	assert.Equal(t, ir.NumberLiteral("16"), root.Props["padding"])
	require.Len(t, root.Children, 2)

	text := root.Children[0]
	assert.Equal(t, "Text", text.WidgetType)
	require.Len(t, text.Children, 2)
	assert.Equal(t, ir.KindTextLiteral, text.Children[0].Kind)
	assert.Equal(t, "Count:", text.Children[0].Text)
	assert.Equal(t, ir.KindExpressionSlot, text.Children[1].Kind)
	assert.Equal(t, "count", text.Children[1].SourceText)

	button := root.Children[1]
	assert.Equal(t, "Button", button.WidgetType)
	require.Contains(t, button.Props, "onClick")

	onClick := button.Props["onClick"]
	assert.Equal(t, ir.PropExpression, onClick.Kind)
	assert.Equal(t, "() => setCount(count + 1)", onClick.SourceText)

	require.Len(t, button.Children, 1)
	assert.Equal(t, "Inc", button.Children[0].Text)
}

func TestParseLiftsStateBinding(t *testing.T) {
	t.Parallel()

	doc, _, err := jsx.Parse(counterSource, "Counter.jsx", mustRegistry(t))
	require.NoError(t, err)

	binding := doc.Root.State
	require.NotNil(t, binding)
	assert.Equal(t, ir.StateLocal, binding.Pattern)
	assert.Equal(t, "count", binding.Name)
	assert.Equal(t, "setCount", binding.Setter)
	assert.Equal(t, "0", binding.InitialValue)

	require.Len(t, binding.Transitions, 1)
	assert.Equal(t, "onClick", binding.Transitions[0].Trigger)
	assert.Equal(t, "count = count + 1", binding.Transitions[0].MutationExpression)
}

func TestParseAttributeClassification(t *testing.T) {
	t.Parallel()

	src := `export default function Form() {
  return (
    <TextInput secureTextEntry placeholder="Name" maxLength={10} autoFocus={false} style={{flex: 1}} />
  );
}
`

	doc, _, err := jsx.Parse(src, "Form.jsx", mustRegistry(t))
	require.NoError(t, err)

	props := doc.Root.Props
	assert.Equal(t, ir.BoolLiteral(true), props["secureTextEntry"])
	assert.Equal(t, ir.StringLiteral("Name"), props["placeholder"])
	assert.Equal(t, ir.NumberLiteral("10"), props["maxLength"])
	assert.Equal(t, ir.BoolLiteral(false), props["autoFocus"])
	assert.Equal(t, ir.Expression("{flex: 1}"), props["style"])
}

func TestParseArrowComponent(t *testing.T) {
	t.Parallel()

	src := `const Banner = () => <Text>Hello</Text>;
`

	doc, _, err := jsx.Parse(src, "Banner.jsx", mustRegistry(t))
	require.NoError(t, err)

	assert.Equal(t, "Banner", doc.Metadata.ComponentName)
	assert.Equal(t, "Text", doc.Root.WidgetType)
	require.Len(t, doc.Root.Children, 1)
	assert.Equal(t, "Hello", doc.Root.Children[0].Text)
}

func TestParseReturnInsideHandler(t *testing.T) {
	t.Parallel()

	src := `export default function Saver() {
  return (
    <View>
      <Button onClick={() => { return save(); }}>Go</Button>
    </View>
  );
}
`

	doc, _, err := jsx.Parse(src, "Saver.jsx", mustRegistry(t))
	require.NoError(t, err)

	assert.Equal(t, "View", doc.Root.WidgetType)
	require.Len(t, doc.Root.Children, 1)

	button := doc.Root.Children[0]
	assert.Equal(t, "Button", button.WidgetType)
	assert.Equal(t, "() => { return save(); }", button.Props["onClick"].SourceText)
}

func TestParseReturnWordInText(t *testing.T) {
	t.Parallel()

	src := `export default function Hint() {
  return (
    <Text>Press return to continue</Text>
  );
}
`

	doc, _, err := jsx.Parse(src, "Hint.jsx", mustRegistry(t))
	require.NoError(t, err)

	assert.Equal(t, "Text", doc.Root.WidgetType)
	require.Len(t, doc.Root.Children, 1)
	assert.Equal(t, "Press return to continue", doc.Root.Children[0].Text)
}

func TestParseMismatchedClosingTag(t *testing.T) {
	t.Parallel()

	src := `export default function Broken() {
  return (
    <View><Text>hi</View>
  );
}
`

	_, _, err := jsx.Parse(src, "Broken.jsx", mustRegistry(t))
	require.Error(t, err)

	var parseErr *ir.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Contains(t, parseErr.Message, "mismatched closing tag")
	assert.Positive(t, parseErr.Line)
	assert.Positive(t, parseErr.Column)
}

func TestParseNoComponent(t *testing.T) {
	t.Parallel()

	_, _, err := jsx.Parse("const x = 1;\n", "x.js", mustRegistry(t))
	require.Error(t, err)

	var parseErr *ir.ParseError
	require.True(t, errors.As(err, &parseErr))
}

func TestGenerateCounter(t *testing.T) {
	t.Parallel()

	reg := mustRegistry(t)

	doc, _, err := jsx.Parse(counterSource, "Counter.jsx", reg)
	require.NoError(t, err)

	out, warnings, err := jsx.Generate(doc, reg)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	assert.Contains(t, out, "import { useState } from 'react';")
	assert.Contains(t, out, "import { Button, Text, View } from 'react-native';")
	assert.Contains(t, out, "export default function Counter() {")
	assert.Contains(t, out, "const [count, setCount] = useState(0);")
	assert.Contains(t, out, "onClick={() => setCount(count + 1)}")
}

func TestGenerateIsStable(t *testing.T) {
	t.Parallel()

	reg := mustRegistry(t)

	doc, _, err := jsx.Parse(counterSource, "Counter.jsx", reg)
	require.NoError(t, err)

	first, _, err := jsx.Generate(doc, reg)
	require.NoError(t, err)

	redoc, _, err := jsx.Parse(first, "Counter.jsx", reg)
	require.NoError(t, err)

	second, _, err := jsx.Generate(redoc, reg)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestGenerateUnknownWidgetPassthrough(t *testing.T) {
	t.Parallel()

	reg := mustRegistry(t)

	doc := ir.NewDocument(ir.NewElement("Gauge"), ir.FrameworkWidgetTree, "gauge.dart", "Gauge")

	out, warnings, err := jsx.Generate(doc, reg)
	require.NoError(t, err)

	assert.Contains(t, out, "<View>")
	assert.Contains(t, out, "{/* passthrough: Gauge */}")

	require.Len(t, warnings, 1)
	assert.Equal(t, ir.WarnUnknownWidget, warnings[0].Kind)
}

func TestGenerateNilRoot(t *testing.T) {
	t.Parallel()

	_, _, err := jsx.Generate(&ir.Document{}, mustRegistry(t))
	require.Error(t, err)

	var genErr *ir.GenerationError
	require.True(t, errors.As(err, &genErr))
}
