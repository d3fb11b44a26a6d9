package commands

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/uimorph/uimorph/pkg/ir"
	"github.com/uimorph/uimorph/pkg/registry"
)

// NewRegistryCommand creates the registry command group.
func NewRegistryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Inspect and validate widget mapping tables",
	}

	cmd.AddCommand(newRegistryListCommand())
	cmd.AddCommand(newRegistryValidateCommand())

	return cmd
}

func newRegistryListCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List all widget mappings",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runRegistryList(configPath, os.Stdout)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to config file")

	return cmd
}

func runRegistryList(configPath string, stdout io.Writer) error {
	app, err := newAppContext(configPath)
	if err != nil {
		return err
	}

	reg := app.engine.Registry()

	tbl := table.NewWriter()
	tbl.SetOutputMirror(stdout)
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"SOURCE", "TARGET", "PROPS", "IMPORTS"})

	for _, entry := range reg.Entries() {
		props := make([]string, 0, len(entry.PropTransforms))
		for name := range entry.PropTransforms {
			props = append(props, name)
		}

		tbl.AppendRow(table.Row{
			entry.SourceWidget,
			entry.TargetWidget,
			strings.Join(sorted(props), ", "),
			strings.Join(entry.ImportsFor(ir.FrameworkWidgetTree), ", "),
		})
	}

	tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %d mappings", reg.Len())})
	tbl.Render()

	return nil
}

func newRegistryValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "validate <table.yaml>",
		Short:         "Validate a mapping table against the table schema",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, args []string) error {
			return runRegistryValidate(args[0], os.Stdout)
		},
	}

	return cmd
}

func runRegistryValidate(tablePath string, stdout io.Writer) error {
	reg, err := registry.Load(tablePath)
	if err != nil {
		return err
	}

	color.New(color.FgGreen).Fprintf(stdout, "mapping table is valid (%s)\n", tablePath)
	fmt.Fprintf(stdout, "  %d mappings after merge with the core table\n", reg.Len())

	return nil
}

func sorted(values []string) []string {
	sort.Strings(values)
	return values
}
