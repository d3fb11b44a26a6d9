package mcp

import (
	"context"
	"testing"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uimorph/uimorph/pkg/engine"
	"github.com/uimorph/uimorph/pkg/registry"
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

func newTestServer(t *testing.T) *Server {
	t.Helper()

	reg, err := registry.Load()
	require.NoError(t, err)

	return NewServer(ServerDeps{Engine: engine.New(reg)})
}

func TestNewServer_RegistersAllTools(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	names := srv.ListToolNames()
	assert.Equal(t, []string{ToolNameRoutes, ToolNameConvert, ToolNameParse}, names)
}

func TestHandleConvert_ComponentToWidget(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	input := ConvertInput{
		Source:     counterComponent,
		From:       "componentModel",
		To:         "widgetTree",
		SourceFile: "Counter.jsx",
	}

	result, output, err := srv.handleConvert(context.Background(), &mcpsdk.CallToolRequest{}, input)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, result.IsError)

	text, ok := result.Content[0].(*mcpsdk.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, "StatefulWidget")

	converted, ok := output.Data.(ConvertOutput)
	require.True(t, ok)
	assert.Contains(t, converted.Output, "Text('Count: $count')")
}

func TestHandleConvert_AutoDetectsFramework(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	input := ConvertInput{
		Source: counterComponent,
		From:   FrameworkAuto,
		To:     "widgetTree",
	}

	result, output, err := srv.handleConvert(context.Background(), &mcpsdk.CallToolRequest{}, input)
	require.NoError(t, err)
	assert.False(t, result.IsError)

	converted, ok := output.Data.(ConvertOutput)
	require.True(t, ok)
	assert.Equal(t, "componentModel", string(converted.From))
}

func TestHandleConvert_EmptySource(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	result, _, err := srv.handleConvert(context.Background(), &mcpsdk.CallToolRequest{}, ConvertInput{To: "widgetTree"})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)

	text, ok := result.Content[0].(*mcpsdk.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, "source parameter is required")
}

func TestHandleConvert_SourceTooLarge(t *testing.T) {
	t.Parallel()

	reg, err := registry.Load()
	require.NoError(t, err)

	srv := NewServer(ServerDeps{Engine: engine.New(reg), MaxInputBytes: 16})

	input := ConvertInput{Source: counterComponent, From: "componentModel", To: "widgetTree"}

	result, _, err := srv.handleConvert(context.Background(), &mcpsdk.CallToolRequest{}, input)
	require.NoError(t, err)
	assert.True(t, result.IsError)

	text, ok := result.Content[0].(*mcpsdk.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, "exceeds maximum size")
}

func TestHandleConvert_SameFramework(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	input := ConvertInput{Source: counterComponent, From: "componentModel", To: "componentModel"}

	result, _, err := srv.handleConvert(context.Background(), &mcpsdk.CallToolRequest{}, input)
	require.NoError(t, err)
	assert.True(t, result.IsError)

	text, ok := result.Content[0].(*mcpsdk.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, "must differ")
}

func TestHandleParse_ReturnsDocument(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	input := ParseInput{Source: counterComponent, Framework: "componentModel", SourceFile: "Counter.jsx"}

	result, output, err := srv.handleParse(context.Background(), &mcpsdk.CallToolRequest{}, input)
	require.NoError(t, err)
	assert.False(t, result.IsError)

	parsed, ok := output.Data.(ParseOutput)
	require.True(t, ok)
	require.NotNil(t, parsed.Document)
	assert.Equal(t, "Counter", parsed.Document.Metadata.ComponentName)
	assert.Equal(t, "View", parsed.Document.Root.WidgetType)
}

func TestHandleParse_UnknownFramework(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	input := ParseInput{Source: counterComponent, Framework: "native"}

	result, _, err := srv.handleParse(context.Background(), &mcpsdk.CallToolRequest{}, input)
	require.NoError(t, err)
	assert.True(t, result.IsError)

	text, ok := result.Content[0].(*mcpsdk.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, "unknown source framework")
}

func TestHandleRoutes_ComponentToWidget(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	input := RoutesInput{
		Source: "export const routes = [\n  { path: '/', component: Home },\n];\n",
		From:   "componentModel",
		To:     "widgetTree",
	}

	result, output, err := srv.handleRoutes(context.Background(), &mcpsdk.CallToolRequest{}, input)
	require.NoError(t, err)
	assert.False(t, result.IsError)

	converted, ok := output.Data.(RoutesOutput)
	require.True(t, ok)
	assert.Contains(t, converted.Output, "GoRoute(")
}

func TestHandleRoutes_EmptyTarget(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t)

	input := RoutesInput{Source: "export const routes = [];", From: "componentModel"}

	result, _, err := srv.handleRoutes(context.Background(), &mcpsdk.CallToolRequest{}, input)
	require.NoError(t, err)
	assert.True(t, result.IsError)

	text, ok := result.Content[0].(*mcpsdk.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, "to parameter is required")
}
