package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"github.com/uimorph/uimorph/pkg/engine"
	"github.com/uimorph/uimorph/pkg/ir"
)

// ErrVerifyMismatch means the generated output did not reproduce itself on a
// round trip through the other framework.
var ErrVerifyMismatch = errors.New("verification failed: output is not round-trip stable")

// convertOptions collects the convert command flags.
type convertOptions struct {
	configPath string
	from       string
	to         string
	outPath    string
	verify     bool
	stats      bool
}

// NewConvertCommand creates the convert command.
func NewConvertCommand() *cobra.Command {
	var opts convertOptions

	cmd := &cobra.Command{
		Use:   "convert <file|->",
		Short: "Convert UI source between component-model and widget-tree syntax",
		Long: `Convert a component or widget file to the other syntax.

Examples:
  uimorph convert Counter.jsx
  uimorph convert --from widgetTree --to componentModel counter.dart
  uimorph convert --verify -o counter.dart Counter.jsx
  uimorph convert - < Counter.jsx`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, args []string) error {
			return runConvert(args[0], opts, os.Stdout)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "path to config file")
	cmd.Flags().StringVar(&opts.from, "from", "auto", "source framework (componentModel, widgetTree, auto)")
	cmd.Flags().StringVar(&opts.to, "to", "", "target framework (default: the other framework)")
	cmd.Flags().StringVarP(&opts.outPath, "out", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&opts.verify, "verify", false, "re-convert the output and check it reproduces itself")
	cmd.Flags().BoolVar(&opts.stats, "stats", false, "print conversion statistics on stderr")

	return cmd
}

func runConvert(inputPath string, opts convertOptions, stdout io.Writer) error {
	app, err := newAppContext(opts.configPath)
	if err != nil {
		return err
	}

	content, label, err := readInput(inputPath)
	if err != nil {
		return err
	}

	from, err := resolveSource(opts.from, label, content)
	if err != nil {
		return err
	}

	to, err := resolveTarget(opts.to, app.cfg.Convert.DefaultTarget, from)
	if err != nil {
		return err
	}

	result, err := app.engine.Convert(engine.ConvertRequest{
		Source:     string(content),
		From:       from,
		To:         to,
		SourceFile: label,
	})
	if err != nil {
		return err
	}

	printWarnings(os.Stderr, result.Warnings)

	if opts.verify || app.cfg.Convert.Verify {
		verifyErr := verifyRoundTrip(app, result.Output, from, to)
		if verifyErr != nil {
			return verifyErr
		}
	}

	if opts.stats {
		fmt.Fprintf(os.Stderr, "%s -> %s: %s in %s, %d warnings\n",
			from, to,
			humanize.Bytes(uint64(len(result.Output))),
			result.Elapsed.Round(time.Microsecond),
			len(result.Warnings),
		)
	}

	app.logger.Debug("converted",
		"source", label,
		"from", from,
		"to", to,
		"warnings", len(result.Warnings),
		"elapsed", result.Elapsed,
	)

	return writeOutput(opts.outPath, result.Output, stdout)
}

// verifyRoundTrip converts the output back and forward again and requires the
// second rendering to match the first byte for byte.
func verifyRoundTrip(app *appContext, output string, from, to ir.Framework) error {
	back, err := app.engine.Convert(engine.ConvertRequest{
		Source: output,
		From:   to,
		To:     from,
	})
	if err != nil {
		return fmt.Errorf("verify: convert back: %w", err)
	}

	again, err := app.engine.Convert(engine.ConvertRequest{
		Source: back.Output,
		From:   from,
		To:     to,
	})
	if err != nil {
		return fmt.Errorf("verify: convert forward: %w", err)
	}

	if again.Output == output {
		return nil
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(output, again.Output, false)

	fmt.Fprintln(os.Stderr, dmp.DiffPrettyText(diffs))

	return ErrVerifyMismatch
}
