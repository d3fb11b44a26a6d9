package registry_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uimorph/uimorph/pkg/ir"
	"github.com/uimorph/uimorph/pkg/registry"
)

func loadCore(t *testing.T) *registry.Registry {
	t.Helper()

	reg, err := registry.Load()
	require.NoError(t, err)

	return reg
}

func TestLoadCoreTable(t *testing.T) {
	t.Parallel()

	reg := loadCore(t)
	assert.Positive(t, reg.Len())

	entry, ok := reg.ResolveForward("View")
	require.True(t, ok)
	assert.Equal(t, "Container", entry.TargetWidget)
}

func TestMappingTotality(t *testing.T) {
	t.Parallel()

	reg := loadCore(t)

	// For every registered widget, backward(forward(w)) == w.
	for _, entry := range reg.Entries() {
		forward, ok := reg.ResolveForward(entry.SourceWidget)
		require.True(t, ok, entry.SourceWidget)

		back, ok := reg.ResolveBackward(forward.TargetWidget)
		require.True(t, ok, forward.TargetWidget)

		assert.Equal(t, entry.SourceWidget, back.SourceWidget)
	}
}

func TestSchemaRejectsMalformedTable(t *testing.T) {
	t.Parallel()

	bad := []byte("version: 1\nmappings:\n  - source: View\n")

	_, err := registry.LoadBytes(bad)
	require.ErrorIs(t, err, registry.ErrInvalidTable)
}

func TestExtraTableOverridesCore(t *testing.T) {
	t.Parallel()

	core := []byte(`
version: 1
mappings:
  - source: View
    target: Container
`)
	extra := []byte(`
version: 1
mappings:
  - source: View
    target: DecoratedBox
`)

	reg, err := registry.LoadBytes(core, extra)
	require.NoError(t, err)

	entry, ok := reg.ResolveForward("View")
	require.True(t, ok)
	assert.Equal(t, "DecoratedBox", entry.TargetWidget)

	_, ok = reg.ResolveBackward("Container")
	assert.False(t, ok)
}

func TestTransformPropEventRename(t *testing.T) {
	t.Parallel()

	reg := loadCore(t)
	entry, _ := reg.ResolveForward("Button")

	name, value, warn := reg.TransformProp(entry, "onClick", ir.Expression("() => save()"), registry.Forward)
	require.Nil(t, warn)
	assert.Equal(t, "onPressed", name)
	assert.Equal(t, "() => save()", value.SourceText)

	name, _, warn = reg.TransformProp(entry, "onPressed", ir.Expression("() => save()"), registry.Backward)
	require.Nil(t, warn)
	assert.Equal(t, "onClick", name)
}

func TestTransformPropColor(t *testing.T) {
	t.Parallel()

	reg := loadCore(t)
	entry, _ := reg.ResolveForward("View")

	name, value, warn := reg.TransformProp(entry, "backgroundColor", ir.StringLiteral("#ff8800"), registry.Forward)
	require.Nil(t, warn)
	assert.Equal(t, "color", name)
	assert.Equal(t, ir.PropExpression, value.Kind)
	assert.Equal(t, "Color(0xFFFF8800)", value.SourceText)

	name, value, warn = reg.TransformProp(entry, "color", ir.Expression("Color(0xFFFF8800)"), registry.Backward)
	require.Nil(t, warn)
	assert.Equal(t, "backgroundColor", name)
	require.True(t, value.IsLiteral())
	assert.Equal(t, "#FF8800", value.Raw)
}

func TestTransformPropSpacing(t *testing.T) {
	t.Parallel()

	reg := loadCore(t)
	entry, _ := reg.ResolveForward("View")

	_, value, warn := reg.TransformProp(entry, "padding", ir.NumberLiteral("16"), registry.Forward)
	require.Nil(t, warn)
	assert.Equal(t, "EdgeInsets.all(16)", value.SourceText)

	_, value, warn = reg.TransformProp(entry, "padding", ir.Expression("EdgeInsets.all(16)"), registry.Backward)
	require.Nil(t, warn)
	require.True(t, value.IsLiteral())
	assert.Equal(t, "16", value.Raw)

	// Asymmetric insets stay opaque in both directions.
	_, value, _ = reg.TransformProp(entry, "padding", ir.Expression("EdgeInsets.only(top: 4)"), registry.Backward)
	assert.Equal(t, ir.PropExpression, value.Kind)
}

func TestTransformPropEnum(t *testing.T) {
	t.Parallel()

	reg := loadCore(t)
	entry, _ := reg.ResolveForward("Column")

	name, value, warn := reg.TransformProp(entry, "alignItems", ir.StringLiteral("center"), registry.Forward)
	require.Nil(t, warn)
	assert.Equal(t, "crossAxisAlignment", name)
	assert.Equal(t, "CrossAxisAlignment.center", value.SourceText)

	name, value, warn = reg.TransformProp(entry, "crossAxisAlignment", ir.Expression("CrossAxisAlignment.center"), registry.Backward)
	require.Nil(t, warn)
	assert.Equal(t, "alignItems", name)
	assert.Equal(t, "center", value.Raw)
}

func TestTransformPropUnresolvedPassesThrough(t *testing.T) {
	t.Parallel()

	reg := loadCore(t)
	entry, _ := reg.ResolveForward("View")

	name, value, warn := reg.TransformProp(entry, "elevation", ir.NumberLiteral("4"), registry.Forward)
	require.NotNil(t, warn)
	assert.Equal(t, ir.WarnUnresolvedProp, warn.Kind)
	assert.Equal(t, "elevation", name)
	assert.Equal(t, "4", value.Raw)
}

func TestKnownWidget(t *testing.T) {
	t.Parallel()

	reg := loadCore(t)
	assert.True(t, reg.KnownWidget("Button"))
	assert.False(t, reg.KnownWidget("Carousel"))
}
