package mcp

import (
	"encoding/json"
	"errors"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/uimorph/uimorph/internal/detect"
	"github.com/uimorph/uimorph/pkg/ir"
)

// Tool name constants.
const (
	ToolNameConvert = "ui_convert"
	ToolNameParse   = "ui_parse"
	ToolNameRoutes  = "routes_convert"
)

// Input size limits.
const (
	// MaxSourceInputBytes is the maximum allowed size for inline source input (1 MB).
	MaxSourceInputBytes = 1 << 20
)

// FrameworkAuto asks the server to detect the source framework.
const FrameworkAuto = "auto"

// Sentinel errors for tool input validation.
var (
	// ErrEmptySource indicates the source parameter is empty.
	ErrEmptySource = errors.New("source parameter is required and must not be empty")
	// ErrEmptyTarget indicates the to parameter is empty.
	ErrEmptyTarget = errors.New("to parameter is required and must not be empty")
	// ErrSourceTooLarge indicates the source input exceeds the size limit.
	ErrSourceTooLarge = errors.New("source input exceeds maximum size")
	// ErrSameFramework indicates source and target frameworks are equal.
	ErrSameFramework = errors.New("source and target frameworks must differ")
)

// Input types (auto-generate JSON schemas via struct tags).

// ConvertInput is the input schema for the ui_convert tool.
type ConvertInput struct {
	Source     string `json:"source"                jsonschema:"UI source to convert"`
	From       string `json:"from,omitempty"        jsonschema:"source framework (componentModel, widgetTree, or auto)"`
	To         string `json:"to"                    jsonschema:"target framework (componentModel or widgetTree)"`
	SourceFile string `json:"source_file,omitempty" jsonschema:"original file name, used for framework detection"`
}

// ParseInput is the input schema for the ui_parse tool.
type ParseInput struct {
	Source     string `json:"source"                jsonschema:"UI source to parse"`
	Framework  string `json:"framework,omitempty"   jsonschema:"source framework (componentModel, widgetTree, or auto)"`
	SourceFile string `json:"source_file,omitempty" jsonschema:"original file name, used for framework detection"`
}

// RoutesInput is the input schema for the routes_convert tool.
type RoutesInput struct {
	Source string `json:"source"         jsonschema:"navigation source to convert"`
	From   string `json:"from,omitempty" jsonschema:"source framework (componentModel, widgetTree, or auto)"`
	To     string `json:"to"             jsonschema:"target framework (componentModel or widgetTree)"`
}

// Output type (used as structured output for generic AddTool).

// ToolOutput is a generic wrapper for tool results.
type ToolOutput struct {
	Data any `json:"data"`
}

// Result helpers.

// errorResult builds a CallToolResult with isError set.
func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: err.Error()},
		},
		IsError: true,
	}, ToolOutput{}, nil
}

// jsonResult builds a CallToolResult with JSON-encoded content.
func jsonResult(value any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("encode result: %w", err))
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: string(data)},
		},
	}, ToolOutput{Data: value}, nil
}

// validateSourceInput checks common source input constraints.
func (s *Server) validateSourceInput(source string) error {
	if source == "" {
		return ErrEmptySource
	}

	if len(source) > s.maxInput {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrSourceTooLarge, len(source), s.maxInput)
	}

	return nil
}

// resolveFramework maps a tool framework parameter onto an ir.Framework,
// running detection for "auto" or an empty value.
func resolveFramework(name, sourceFile, source string) (ir.Framework, error) {
	switch name {
	case "", FrameworkAuto:
		return detect.Framework(sourceFile, []byte(source))

	case string(ir.FrameworkComponentModel):
		return ir.FrameworkComponentModel, nil

	case string(ir.FrameworkWidgetTree):
		return ir.FrameworkWidgetTree, nil

	default:
		return "", fmt.Errorf("%w: %q", ir.ErrUnknownFramework, name)
	}
}
