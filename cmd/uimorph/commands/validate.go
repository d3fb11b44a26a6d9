package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/xeipuuv/gojsonschema"

	"github.com/uimorph/uimorph/pkg/ir/spec"
)

// ErrInvalidDocument means the IR document failed schema validation.
var ErrInvalidDocument = errors.New("IR document is invalid")

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	var (
		schemaPath string
		nocolor    bool
	)

	cmd := &cobra.Command{
		Use:   "validate <file.json|->",
		Short: "Validate an IR document against the IR schema",
		Long: `Validate an IR document JSON file against the canonical IR schema.

Examples:
  uimorph validate counter-ir.json
  uimorph validate - < counter-ir.json
  uimorph validate --schema custom-schema.json counter-ir.json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, args []string) error {
			if nocolor {
				color.NoColor = true
			}

			return runValidate(args[0], schemaPath, os.Stdout)
		},
	}

	cmd.Flags().StringVar(&schemaPath, "schema", "", "path to an alternative IR JSON schema")
	cmd.Flags().BoolVar(&nocolor, "no-color", false, "disable colored output")

	return cmd
}

func runValidate(inputPath, schemaPath string, stdout io.Writer) error {
	content, label, err := readInput(inputPath)
	if err != nil {
		return err
	}

	var inputData any

	dec := json.NewDecoder(bytes.NewReader(content))
	dec.UseNumber()

	decodeErr := dec.Decode(&inputData)
	if decodeErr != nil {
		return fmt.Errorf("invalid JSON in %s: %w", label, decodeErr)
	}

	schemaLoader, err := loadSchema(schemaPath)
	if err != nil {
		return err
	}

	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(inputData))
	if err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}

	if result.Valid() {
		color.New(color.FgGreen).Fprintf(stdout, "IR document is valid (%s)\n", label)

		return nil
	}

	color.New(color.FgRed).Fprintf(stdout, "IR validation failed (%s)\n", label)
	fmt.Fprintf(stdout, "\nErrors:\n")

	for _, verr := range result.Errors() {
		color.New(color.FgRed).Fprintf(stdout, "  - %s: %s\n", verr.Field(), verr.Description())
	}

	return fmt.Errorf("%w: %d errors", ErrInvalidDocument, len(result.Errors()))
}

func loadSchema(schemaPath string) (gojsonschema.JSONLoader, error) {
	if schemaPath == "" {
		schemaBytes, err := spec.SchemaFS.ReadFile(spec.SchemaPath)
		if err != nil {
			return nil, fmt.Errorf("read embedded schema: %w", err)
		}

		return gojsonschema.NewBytesLoader(schemaBytes), nil
	}

	schemaBytes, err := os.ReadFile(schemaPath)
	if err != nil {
		return nil, fmt.Errorf("read schema file: %w", err)
	}

	return gojsonschema.NewBytesLoader(schemaBytes), nil
}
