// Package commands implements the uimorph CLI commands.
package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"

	"github.com/uimorph/uimorph/internal/detect"
	"github.com/uimorph/uimorph/internal/observability"
	"github.com/uimorph/uimorph/pkg/config"
	"github.com/uimorph/uimorph/pkg/engine"
	"github.com/uimorph/uimorph/pkg/ir"
	"github.com/uimorph/uimorph/pkg/registry"
)

// appContext carries what every command needs after configuration loads.
type appContext struct {
	cfg    *config.Config
	logger *slog.Logger
	engine *engine.Engine
}

func newAppContext(configPath string) (*appContext, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	reg, err := registry.Load(cfg.Mappings.ExtraTables...)
	if err != nil {
		return nil, err
	}

	return &appContext{
		cfg:    cfg,
		logger: observability.NewLogger(cfg.Logging),
		engine: engine.New(reg,
			engine.WithIndentWidth(cfg.Convert.IndentWidth),
			engine.WithStatePattern(ir.StatePattern(cfg.Convert.StatePattern)),
		),
	}, nil
}

// readInput reads a source file, with "-" meaning stdin.
func readInput(inputPath string) (content []byte, label string, err error) {
	if inputPath == "-" {
		content, err = io.ReadAll(os.Stdin)
		if err != nil {
			return nil, "", fmt.Errorf("read stdin: %w", err)
		}

		return content, "stdin", nil
	}

	content, err = os.ReadFile(inputPath)
	if err != nil {
		return nil, "", fmt.Errorf("read input: %w", err)
	}

	return content, inputPath, nil
}

// resolveSource maps the --from flag onto a framework, detecting when the
// flag is "auto" or empty.
func resolveSource(flag, label string, content []byte) (ir.Framework, error) {
	switch flag {
	case "", "auto":
		return detect.Framework(label, content)

	case string(ir.FrameworkComponentModel):
		return ir.FrameworkComponentModel, nil

	case string(ir.FrameworkWidgetTree):
		return ir.FrameworkWidgetTree, nil

	default:
		return "", fmt.Errorf("%w: %q", ir.ErrUnknownFramework, flag)
	}
}

// resolveTarget maps the --to flag onto a framework. An empty flag falls back
// to the configured default target; a default matching the source framework
// falls back again to the other framework of the pair.
func resolveTarget(flag, configured string, from ir.Framework) (ir.Framework, error) {
	if flag == "" {
		if fw := ir.Framework(configured); knownFramework(fw) && fw != from {
			return fw, nil
		}

		return otherFramework(from), nil
	}

	if fw := ir.Framework(flag); knownFramework(fw) {
		return fw, nil
	}

	return "", fmt.Errorf("%w: %q", ir.ErrUnknownFramework, flag)
}

func knownFramework(fw ir.Framework) bool {
	return fw == ir.FrameworkComponentModel || fw == ir.FrameworkWidgetTree
}

func otherFramework(fw ir.Framework) ir.Framework {
	if fw == ir.FrameworkComponentModel {
		return ir.FrameworkWidgetTree
	}

	return ir.FrameworkComponentModel
}

// printWarnings lists non-fatal findings on stderr.
func printWarnings(out io.Writer, warnings []ir.Warning) {
	for _, warning := range warnings {
		color.New(color.FgYellow).Fprintf(out, "warning: %s\n", warning)
	}
}

// writeOutput writes converted source to a file or the given writer.
func writeOutput(outPath, content string, stdout io.Writer) error {
	if outPath == "" {
		_, err := io.WriteString(stdout, content)
		if err != nil {
			return fmt.Errorf("write output: %w", err)
		}

		return nil
	}

	err := os.WriteFile(outPath, []byte(content), 0o644)
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	return nil
}
