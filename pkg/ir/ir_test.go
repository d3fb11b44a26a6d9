package ir_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uimorph/uimorph/pkg/ir"
)

type fixedResolver map[string]bool

func (r fixedResolver) KnownWidget(name string) bool { return r[name] }

func sampleDoc() *ir.Document {
	root := ir.NewElement("View")
	root.Props["padding"] = ir.NumberLiteral("16")

	button := ir.NewElement("Button")
	button.Props["onClick"] = ir.Expression("() => setCount(count + 1)")
	button.Children = append(button.Children, ir.NewTextLiteral("Inc"))

	root.Children = append(root.Children, button)

	return ir.NewDocument(root, ir.FrameworkComponentModel, "counter.jsx", "Counter")
}

func TestValidateCleanDocument(t *testing.T) {
	t.Parallel()

	doc := sampleDoc()
	resolver := fixedResolver{"View": true, "Button": true}

	warnings, err := ir.Validate(doc, resolver)
	require.NoError(t, err)
	assert.Empty(t, warnings)
}

func TestValidateUnknownWidgetIsWarning(t *testing.T) {
	t.Parallel()

	doc := sampleDoc()
	resolver := fixedResolver{"View": true}

	warnings, err := ir.Validate(doc, resolver)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, ir.WarnUnknownWidget, warnings[0].Kind)
	assert.Equal(t, "root/children[0]", warnings[0].Path)
}

func TestValidateMissingRootIsFatal(t *testing.T) {
	t.Parallel()

	doc := &ir.Document{Version: ir.Version}

	_, err := ir.Validate(doc, nil)
	require.ErrorIs(t, err, ir.ErrMissingRoot)
}

func TestValidateBadNodeKindIsFatal(t *testing.T) {
	t.Parallel()

	doc := sampleDoc()
	doc.Root.Children = append(doc.Root.Children, &ir.Node{Kind: "mystery"})

	_, err := ir.Validate(doc, nil)
	require.Error(t, err)

	var structural *ir.StructuralError

	require.ErrorAs(t, err, &structural)
	assert.Contains(t, structural.Message, "mystery")
}

func TestValidateUntaggedPropIsFatal(t *testing.T) {
	t.Parallel()

	doc := sampleDoc()
	doc.Root.Props["broken"] = ir.PropValue{}

	_, err := ir.Validate(doc, nil)

	var structural *ir.StructuralError

	require.ErrorAs(t, err, &structural)
	assert.Equal(t, "root", structural.Path)
}

func TestCloneIsDeep(t *testing.T) {
	t.Parallel()

	doc := sampleDoc()
	clone := doc.Clone()

	clone.Root.Props["padding"] = ir.NumberLiteral("32")
	clone.Root.Children[0].Children[0].Text = "Dec"

	assert.Equal(t, "16", doc.Root.Props["padding"].Raw)
	assert.Equal(t, "Inc", doc.Root.Children[0].Children[0].Text)
}

func TestDocumentJSONRoundTrip(t *testing.T) {
	t.Parallel()

	doc := sampleDoc()

	data, err := json.Marshal(doc)
	require.NoError(t, err)

	var back ir.Document

	require.NoError(t, json.Unmarshal(data, &back))

	assert.Equal(t, doc.Root, back.Root)
	assert.Equal(t, doc.Metadata.ComponentName, back.Metadata.ComponentName)
}

func TestWalkVisitsDepthFirst(t *testing.T) {
	t.Parallel()

	doc := sampleDoc()

	var paths []string

	ir.Walk(doc.Root, func(_ *ir.Node, path string) bool {
		paths = append(paths, path)
		return true
	})

	assert.Equal(t, []string{
		"root",
		"root/children[0]",
		"root/children[0]/children[0]",
	}, paths)
}
