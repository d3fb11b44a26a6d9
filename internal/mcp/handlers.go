package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/uimorph/uimorph/pkg/engine"
	"github.com/uimorph/uimorph/pkg/ir"
)

// ConvertOutput is the structured result of the ui_convert tool.
type ConvertOutput struct {
	Output   string       `json:"output"`
	From     ir.Framework `json:"from"`
	To       ir.Framework `json:"to"`
	Warnings []ir.Warning `json:"warnings,omitempty"`
}

// ParseOutput is the structured result of the ui_parse tool.
type ParseOutput struct {
	Document *ir.Document `json:"document"`
	Warnings []ir.Warning `json:"warnings,omitempty"`
}

// RoutesOutput is the structured result of the routes_convert tool.
type RoutesOutput struct {
	Output   string       `json:"output"`
	From     ir.Framework `json:"from"`
	To       ir.Framework `json:"to"`
	Warnings []ir.Warning `json:"warnings,omitempty"`
}

func (s *Server) handleConvert(
	_ context.Context, _ *mcpsdk.CallToolRequest, input ConvertInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	err := s.validateSourceInput(input.Source)
	if err != nil {
		return errorResult(err)
	}

	from, err := resolveFramework(input.From, input.SourceFile, input.Source)
	if err != nil {
		return errorResult(err)
	}

	to, err := targetFramework(input.To)
	if err != nil {
		return errorResult(err)
	}

	if from == to {
		return errorResult(fmt.Errorf("%w: %s", ErrSameFramework, from))
	}

	result, err := s.engine.Convert(engine.ConvertRequest{
		Source:     input.Source,
		From:       from,
		To:         to,
		SourceFile: input.SourceFile,
	})
	if err != nil {
		return errorResult(err)
	}

	return jsonResult(ConvertOutput{
		Output:   result.Output,
		From:     from,
		To:       to,
		Warnings: result.Warnings,
	})
}

func (s *Server) handleParse(
	_ context.Context, _ *mcpsdk.CallToolRequest, input ParseInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	err := s.validateSourceInput(input.Source)
	if err != nil {
		return errorResult(err)
	}

	framework, err := resolveFramework(input.Framework, input.SourceFile, input.Source)
	if err != nil {
		return errorResult(err)
	}

	doc, warnings, err := s.engine.Parse(engine.ParseRequest{
		Source:     input.Source,
		Framework:  framework,
		SourceFile: input.SourceFile,
	})
	if err != nil {
		return errorResult(err)
	}

	return jsonResult(ParseOutput{Document: doc, Warnings: warnings})
}

func (s *Server) handleRoutes(
	_ context.Context, _ *mcpsdk.CallToolRequest, input RoutesInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	err := s.validateSourceInput(input.Source)
	if err != nil {
		return errorResult(err)
	}

	from, err := resolveFramework(input.From, "", input.Source)
	if err != nil {
		return errorResult(err)
	}

	to, err := targetFramework(input.To)
	if err != nil {
		return errorResult(err)
	}

	if from == to {
		return errorResult(fmt.Errorf("%w: %s", ErrSameFramework, from))
	}

	out, warnings, err := s.engine.ConvertRoutes(input.Source, from, to)
	if err != nil {
		return errorResult(err)
	}

	return jsonResult(RoutesOutput{
		Output:   out,
		From:     from,
		To:       to,
		Warnings: warnings,
	})
}

// targetFramework maps the to parameter onto an ir.Framework. Detection is
// not available for targets.
func targetFramework(name string) (ir.Framework, error) {
	switch name {
	case "":
		return "", ErrEmptyTarget

	case string(ir.FrameworkComponentModel):
		return ir.FrameworkComponentModel, nil

	case string(ir.FrameworkWidgetTree):
		return ir.FrameworkWidgetTree, nil

	default:
		return "", fmt.Errorf("%w: %q", ir.ErrUnknownFramework, name)
	}
}
