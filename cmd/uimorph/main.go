// Package main provides the entry point for the uimorph CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/uimorph/uimorph/cmd/uimorph/commands"
	"github.com/uimorph/uimorph/pkg/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "uimorph",
		Short: "UIMorph - bidirectional UI source converter",
		Long: `UIMorph converts UI source between the component-model (JSX) and
widget-tree (Dart) syntaxes through a framework-neutral intermediate
representation.

Commands:
  convert   Convert a component or widget file to the other syntax
  routes    Convert navigation definitions between the two ecosystems
  registry  Inspect and validate widget mapping tables
  validate  Validate an IR document against the schema
  mcp       Start the MCP server for AI agent integration`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewConvertCommand())
	rootCmd.AddCommand(commands.NewRoutesCommand())
	rootCmd.AddCommand(commands.NewRegistryCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewMCPCommand())
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "uimorph %s\n", version.String())
		},
	}
}
