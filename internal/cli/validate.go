package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/easelhq/easel/pkg/canvas"
	"github.com/easelhq/easel/pkg/validate"
)

// validateCommand creates the validate command for checking documents.
func (c *CLI) validateCommand() *cobra.Command {
	var width, height int

	cmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "Check a banner document against the layout rules",
		Long: `Check a banner document against the layout rules.

The validate command decodes a fabric.js document and reports every
violation: structural defects, out-of-bounds elements, malformed
gradients, legacy text types, invalid colors, and element overlaps.

The target resolution defaults to the document's declared canvas; pass
--width and --height to check against a different target.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runValidate(args[0], width, height)
		},
	}

	cmd.Flags().IntVar(&width, "width", 0, "target canvas width (default: document width)")
	cmd.Flags().IntVar(&height, "height", 0, "target canvas height (default: document height)")

	return cmd
}

// runValidate loads a document, validates it, and reports violations.
// Returns an error for invalid documents so the exit code reflects the
// outcome.
func (c *CLI) runValidate(path string, width, height int) error {
	doc, err := loadDocument(path)
	if err != nil {
		return err
	}
	if width == 0 {
		width = doc.Width
	}
	if height == 0 {
		height = doc.Height
	}

	validator := c.config.Validator()
	valid, violations := validator.Validate(doc, width, height)
	if valid {
		printSuccess("%s is valid (%d objects, %dx%d)", path, len(doc.Objects), width, height)
		return nil
	}

	printError("%s has %d violations", path, len(violations))
	for category, count := range validate.CountByCategory(violations) {
		printDetail("%s: %d", category, count)
	}
	printNewline()
	for _, v := range violations {
		printInfo("%s", v.String())
	}
	if validate.AllDeterministic(violations) {
		printDetail("all violations are mechanically fixable; try 'easel repair %s'", path)
	}
	return fmt.Errorf("validation failed with %d violations", len(violations))
}

// loadDocument reads and decodes a document file. Model-output framing
// such as code fences is tolerated.
func loadDocument(path string) (*canvas.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := canvas.DecodeText(string(data))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return doc, nil
}
