package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/easelhq/easel/pkg/repair"
)

// repairCommand creates the repair command for fixing documents offline.
func (c *CLI) repairCommand() *cobra.Command {
	var (
		output string
		width  int
		height int
		indent bool
	)

	cmd := &cobra.Command{
		Use:   "repair [file]",
		Short: "Apply deterministic fixes to a banner document",
		Long: `Apply deterministic fixes to a banner document.

The repair command fixes everything that can be fixed mechanically:
missing defaults, canvas mismatches, out-of-bounds elements, malformed
gradients, legacy text types, and overlapping textboxes. Violations that
need judgement (such as invalid colors) are reported but left alone.

The input file is never modified; use --output to control where the
repaired document is written.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRepair(args[0], output, width, height, indent)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: input with .repaired.json suffix)")
	cmd.Flags().IntVar(&width, "width", 0, "target canvas width (default: document width)")
	cmd.Flags().IntVar(&height, "height", 0, "target canvas height (default: document height)")
	cmd.Flags().BoolVar(&indent, "indent", false, "indent JSON output")

	return cmd
}

// runRepair validates, repairs, and re-validates a document.
func (c *CLI) runRepair(path, output string, width, height int, indent bool) error {
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
		printSuccess("%s is already valid, nothing to repair", path)
		return nil
	}
	printInfo("Found %d violations", len(violations))

	repaired := repair.Repair(doc, violations, width, height, c.config.RepairOptions())
	_, remaining := validator.Validate(repaired, width, height)

	fixed := len(violations) - len(remaining)
	printSuccess("Fixed %d of %d violations", fixed, len(violations))
	for _, v := range remaining {
		printDetail("unresolved: %s", v.String())
	}

	var data []byte
	if indent {
		data, err = repaired.EncodeIndent()
	} else {
		data, err = repaired.Encode()
	}
	if err != nil {
		return err
	}

	if output == "" {
		output = strings.TrimSuffix(path, ".json") + ".repaired.json"
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return err
	}
	printFile(output)
	return nil
}
