// Package mcp implements a Model Context Protocol server exposing uimorph
// conversion capabilities as MCP tools over stdio transport.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/uimorph/uimorph/pkg/engine"
)

const (
	// serverName is the MCP server implementation name.
	serverName = "uimorph"
	// serverVersion is the MCP server implementation version.
	serverVersion = "1.0.0"

	// toolCount is the expected number of registered tools.
	toolCount = 3
)

// ServerDeps holds injectable dependencies for the MCP server.
// Zero-value fields use production defaults.
type ServerDeps struct {
	// Engine performs the conversions. Required.
	Engine *engine.Engine

	// Logger is an optional structured logger. Nil uses slog default.
	Logger *slog.Logger

	// MaxInputBytes caps inline source size. Zero uses MaxSourceInputBytes.
	MaxInputBytes int
}

// Server wraps the MCP SDK server with uimorph tool registrations.
type Server struct {
	inner    *mcpsdk.Server
	engine   *engine.Engine
	mu       sync.RWMutex
	tools    []string
	maxInput int
}

// NewServer creates a new MCP server with all uimorph tools registered.
func NewServer(deps ServerDeps) *Server {
	opts := &mcpsdk.ServerOptions{}
	if deps.Logger != nil {
		opts.Logger = deps.Logger
	}

	inner := mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    serverName,
			Version: serverVersion,
		},
		opts,
	)

	maxInput := deps.MaxInputBytes
	if maxInput <= 0 {
		maxInput = MaxSourceInputBytes
	}

	srv := &Server{
		inner:    inner,
		engine:   deps.Engine,
		tools:    make([]string, 0, toolCount),
		maxInput: maxInput,
	}

	srv.registerTools()

	return srv
}

// ListToolNames returns the sorted names of all registered tools.
func (s *Server) ListToolNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, len(s.tools))
	copy(names, s.tools)
	sort.Strings(names)

	return names
}

// Run starts the MCP server on stdio transport. It blocks until the context
// is canceled or the connection closes.
func (s *Server) Run(ctx context.Context) error {
	err := s.inner.Run(ctx, &mcpsdk.StdioTransport{})
	if err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}

	return nil
}

// RunWithTransport starts the MCP server on the given transport. It blocks
// until the context is canceled or the connection closes.
func (s *Server) RunWithTransport(ctx context.Context, transport mcpsdk.Transport) error {
	err := s.inner.Run(ctx, transport)
	if err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}

	return nil
}

// registerTools adds all uimorph MCP tools to the server.
func (s *Server) registerTools() {
	s.registerConvertTool()
	s.registerParseTool()
	s.registerRoutesTool()
}

func (s *Server) registerConvertTool() {
	mcpsdk.AddTool(s.inner, &mcpsdk.Tool{
		Name:        ToolNameConvert,
		Description: convertToolDescription,
	}, s.handleConvert)

	s.trackTool(ToolNameConvert)
}

func (s *Server) registerParseTool() {
	mcpsdk.AddTool(s.inner, &mcpsdk.Tool{
		Name:        ToolNameParse,
		Description: parseToolDescription,
	}, s.handleParse)

	s.trackTool(ToolNameParse)
}

func (s *Server) registerRoutesTool() {
	mcpsdk.AddTool(s.inner, &mcpsdk.Tool{
		Name:        ToolNameRoutes,
		Description: routesToolDescription,
	}, s.handleRoutes)

	s.trackTool(ToolNameRoutes)
}

func (s *Server) trackTool(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tools = append(s.tools, name)
}

// Tool description constants.
const (
	convertToolDescription = "Convert UI source between the component-model " +
		"(JSX) and widget-tree (Dart) syntaxes. " +
		"Accepts inline source plus source and target framework identifiers."

	parseToolDescription = "Parse UI source into the neutral intermediate " +
		"representation. Returns the IR document as JSON."

	routesToolDescription = "Convert declarative navigation definitions " +
		"(route tables, guards, transitions) between the two ecosystems."
)
