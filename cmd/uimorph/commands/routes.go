package commands

import (
	"io"
	"os"

	"github.com/spf13/cobra"
)

// NewRoutesCommand creates the routes command.
func NewRoutesCommand() *cobra.Command {
	var (
		configPath string
		from       string
		to         string
		outPath    string
	)

	cmd := &cobra.Command{
		Use:   "routes <file|->",
		Short: "Convert navigation definitions between the two ecosystems",
		Long: `Convert declarative route tables, guards and transitions between the
react-router object shape and the GoRoute tree shape.

Examples:
  uimorph routes routes.js
  uimorph routes --from widgetTree --to componentModel router.dart`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, args []string) error {
			return runRoutes(args[0], configPath, from, to, outPath, os.Stdout)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to config file")
	cmd.Flags().StringVar(&from, "from", "auto", "source framework (componentModel, widgetTree, auto)")
	cmd.Flags().StringVar(&to, "to", "", "target framework (default: the other framework)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default: stdout)")

	return cmd
}

func runRoutes(inputPath, configPath, fromFlag, toFlag, outPath string, stdout io.Writer) error {
	app, err := newAppContext(configPath)
	if err != nil {
		return err
	}

	content, label, err := readInput(inputPath)
	if err != nil {
		return err
	}

	from, err := resolveSource(fromFlag, label, content)
	if err != nil {
		return err
	}

	to, err := resolveTarget(toFlag, app.cfg.Convert.DefaultTarget, from)
	if err != nil {
		return err
	}

	out, warnings, err := app.engine.ConvertRoutes(string(content), from, to)
	if err != nil {
		return err
	}

	printWarnings(os.Stderr, warnings)

	app.logger.Info("converted routes",
		"source", label,
		"from", from,
		"to", to,
		"warnings", len(warnings),
	)

	return writeOutput(outPath, out, stdout)
}
