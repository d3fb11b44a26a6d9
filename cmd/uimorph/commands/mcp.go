package commands

import (
	"context"

	"github.com/spf13/cobra"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/uimorph/uimorph/internal/mcp"
	"github.com/uimorph/uimorph/internal/observability"
	"github.com/uimorph/uimorph/pkg/config"
	"github.com/uimorph/uimorph/pkg/engine"
	"github.com/uimorph/uimorph/pkg/ir"
	"github.com/uimorph/uimorph/pkg/registry"
)

// NewMCPCommand creates the MCP server command.
func NewMCPCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for AI agent integration",
		Long: `Start a Model Context Protocol (MCP) server on stdio transport.

The MCP server exposes uimorph conversion capabilities as tools that AI
agents can discover and invoke:
  - ui_convert: Convert UI source between the two syntaxes
  - ui_parse: Parse UI source into the neutral IR
  - routes_convert: Convert navigation definitions`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}

			logger := observability.NewLogger(cfg.Logging)

			reg, err := registry.Load(cfg.Mappings.ExtraTables...)
			if err != nil {
				return err
			}

			engineOpts := []engine.Option{
				engine.WithIndentWidth(cfg.Convert.IndentWidth),
				engine.WithStatePattern(ir.StatePattern(cfg.Convert.StatePattern)),
			}

			if cfg.Server.Metrics {
				provider := sdkmetric.NewMeterProvider()
				defer func() {
					shutdownErr := provider.Shutdown(context.Background())
					if shutdownErr != nil {
						logger.Warn("meter provider shutdown failed", "error", shutdownErr)
					}
				}()

				metrics, metricsErr := observability.NewConversionMetrics(provider.Meter("uimorph"))
				if metricsErr != nil {
					return metricsErr
				}

				engineOpts = append(engineOpts, engine.WithObserver(metrics))
			}

			deps := mcp.ServerDeps{
				Engine:        engine.New(reg, engineOpts...),
				Logger:        logger,
				MaxInputBytes: cfg.Server.MaxInputBytes,
			}

			srv := mcp.NewServer(deps)

			logger.Info("starting mcp server", "tools", srv.ListToolNames())

			return srv.Run(cobraCmd.Context())
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to config file")

	return cmd
}
