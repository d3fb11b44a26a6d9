package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uimorph/uimorph/pkg/ir"
)

const counterComponent = `export default function Counter() {
  const [count, setCount] = useState(0);

  return (
    <View padding={16}>
      <Text>Count: {count}</Text>
      <Button onClick={() => setCount(count + 1)}>Inc</Button>
    </View>
  );
}
`

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func TestRunConvert_ComponentToWidget(t *testing.T) {
	input := writeTempFile(t, "Counter.jsx", counterComponent)
	out := filepath.Join(t.TempDir(), "counter.dart")

	var buf bytes.Buffer

	err := runConvert(input, convertOptions{from: "auto", outPath: out, verify: true}, &buf)
	require.NoError(t, err)

	converted, err := os.ReadFile(out)
	require.NoError(t, err)

	assert.Contains(t, string(converted), "class Counter extends StatefulWidget")
	assert.Contains(t, string(converted), "Text('Count: $count')")
	assert.Empty(t, buf.String(), "output file given, stdout stays empty")
}

func TestRunConvert_StdoutAndExplicitFrameworks(t *testing.T) {
	input := writeTempFile(t, "Counter.jsx", counterComponent)

	var buf bytes.Buffer

	err := runConvert(input, convertOptions{from: "componentModel", to: "widgetTree"}, &buf)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "StatefulWidget")
}

func TestRunConvert_ConfigDefaults(t *testing.T) {
	input := writeTempFile(t, "Counter.jsx", counterComponent)
	cfg := writeTempFile(t, "uimorph.yaml", `convert:
  indent_width: 4
  default_target: componentModel
`)

	var buf bytes.Buffer

	err := runConvert(input, convertOptions{configPath: cfg, from: "auto"}, &buf)
	require.NoError(t, err)

	// The configured default target matches the source framework, so the
	// conversion flips to the widget tree; the indent width still applies.
	assert.Contains(t, buf.String(), "class Counter extends StatefulWidget")
	assert.Contains(t, buf.String(), "\n        return Container(")
}

func TestResolveTarget(t *testing.T) {
	tests := []struct {
		name       string
		flag       string
		configured string
		from       ir.Framework
		want       ir.Framework
		wantErr    bool
	}{
		{
			name:       "explicit flag wins",
			flag:       "componentModel",
			configured: "widgetTree",
			from:       ir.FrameworkWidgetTree,
			want:       ir.FrameworkComponentModel,
		},
		{
			name:       "configured default applies",
			flag:       "",
			configured: "componentModel",
			from:       ir.FrameworkWidgetTree,
			want:       ir.FrameworkComponentModel,
		},
		{
			name:       "default matching source flips",
			flag:       "",
			configured: "widgetTree",
			from:       ir.FrameworkWidgetTree,
			want:       ir.FrameworkComponentModel,
		},
		{
			name: "no flag no default",
			flag: "",
			from: ir.FrameworkComponentModel,
			want: ir.FrameworkWidgetTree,
		},
		{
			name:    "unknown flag",
			flag:    "native",
			from:    ir.FrameworkComponentModel,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveTarget(tt.flag, tt.configured, tt.from)
			if tt.wantErr {
				require.ErrorIs(t, err, ir.ErrUnknownFramework)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRunConvert_UnknownFramework(t *testing.T) {
	input := writeTempFile(t, "Counter.jsx", counterComponent)

	err := runConvert(input, convertOptions{from: "native"}, &bytes.Buffer{})
	require.ErrorIs(t, err, ir.ErrUnknownFramework)
}

func TestRunConvert_MissingInput(t *testing.T) {
	err := runConvert(filepath.Join(t.TempDir(), "nope.jsx"), convertOptions{from: "auto"}, &bytes.Buffer{})
	require.Error(t, err)
}

func TestRunRoutes_ComponentToWidget(t *testing.T) {
	input := writeTempFile(t, "routes.js", `export const routes = [
  { path: '/', component: Home },
  { path: '/users/:id', component: UserDetail },
];
`)

	var buf bytes.Buffer

	err := runRoutes(input, "", "auto", "", "", &buf)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "GoRoute(")
	assert.Contains(t, buf.String(), "path: '/users/:id',")
}

func TestRunRegistryList(t *testing.T) {
	var buf bytes.Buffer

	err := runRegistryList("", &buf)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "View")
	assert.Contains(t, buf.String(), "Container")
	assert.Contains(t, buf.String(), "mappings")
}

func TestRunRegistryValidate(t *testing.T) {
	path := writeTempFile(t, "extra.yaml", `version: 1
mappings:
  - source: Badge
    target: Chip
`)

	var buf bytes.Buffer

	err := runRegistryValidate(path, &buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "mapping table is valid")
}

func TestRunRegistryValidate_BadTable(t *testing.T) {
	path := writeTempFile(t, "extra.yaml", "mappings: nope\n")

	err := runRegistryValidate(path, &bytes.Buffer{})
	require.Error(t, err)
}

func TestRunValidate_ValidDocument(t *testing.T) {
	doc := ir.NewDocument(ir.NewElement("View"), ir.FrameworkComponentModel, "Counter.jsx", "Counter")

	data, err := json.Marshal(doc)
	require.NoError(t, err)

	path := writeTempFile(t, "doc.json", string(data))

	var buf bytes.Buffer

	err = runValidate(path, "", &buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "IR document is valid")
}

func TestRunValidate_InvalidDocument(t *testing.T) {
	path := writeTempFile(t, "doc.json", `{"version": "1.0", "metadata": {"sourceFramework": "componentModel", "generatedAt": 1}, "root": {"kind": "banana"}}`)

	var buf bytes.Buffer

	err := runValidate(path, "", &buf)
	require.ErrorIs(t, err, ErrInvalidDocument)
	assert.Contains(t, buf.String(), "IR validation failed")
}

func TestRunValidate_MalformedJSON(t *testing.T) {
	path := writeTempFile(t, "doc.json", "{not json")

	err := runValidate(path, "", &bytes.Buffer{})
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrInvalidDocument)
}
