package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/easelhq/easel/pkg/pipeline"
	"github.com/easelhq/easel/pkg/store"
)

// composeOpts holds the command-line flags for the compose command.
type composeOpts struct {
	output     string // output file path (or base path for multiple formats)
	formats    []string
	width      int
	height     int
	rounds     int
	indent     bool
	noCritique bool
	refresh    bool
	noCache    bool
	save       bool
}

// composeCommand creates the compose command for generating banners.
func (c *CLI) composeCommand() *cobra.Command {
	var formatsStr string
	opts := composeOpts{
		width:  pipeline.DefaultWidth,
		height: pipeline.DefaultHeight,
		rounds: pipeline.DefaultMaxRounds,
	}

	cmd := &cobra.Command{
		Use:   "compose [brief]",
		Short: "Generate a banner document from a creative brief",
		Long: `Generate a banner document from a creative brief.

The compose command runs the full pipeline: research the brief, plan the
layout, produce assets, compose a candidate document, then validate,
repair, and refine it until it follows the layout rules.

Results are cached locally for faster subsequent runs. Use --refresh to
bypass the cache, or --no-critique to skip the subjective quality loop
and keep only deterministic validation and repair.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			return c.runCompose(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): json (default), html (comma-separated)")
	cmd.Flags().IntVar(&opts.width, "width", opts.width, "canvas width in pixels")
	cmd.Flags().IntVar(&opts.height, "height", opts.height, "canvas height in pixels")
	cmd.Flags().IntVar(&opts.rounds, "rounds", opts.rounds, "maximum refinement rounds")
	cmd.Flags().BoolVar(&opts.indent, "indent", false, "indent JSON output")
	cmd.Flags().BoolVar(&opts.noCritique, "no-critique", false, "skip the subjective critique loop")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cached results")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.save, "save", false, "archive the result")

	return cmd
}

// runCompose executes the pipeline and writes the requested artifacts.
func (c *CLI) runCompose(ctx context.Context, brief string, opts *composeOpts) error {
	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	pipeOpts := pipeline.Options{
		Brief:        brief,
		Width:        opts.width,
		Height:       opts.height,
		MaxRounds:    opts.rounds,
		Refresh:      opts.refresh,
		SkipCritique: opts.noCritique,
		Formats:      opts.formats,
		Indent:       opts.indent,
		Logger:       c.Logger,
		Validator:    c.config.Validator(),
		Repair:       c.config.RepairOptions(),
	}

	spinner := newSpinnerWithContext(ctx, "Composing banner...")
	spinner.Start()
	result, err := runner.Execute(ctx, pipeOpts)
	spinner.Stop()
	if err != nil {
		if spinner.Cancelled() {
			printWarning("Cancelled")
		}
		return err
	}

	printSuccess("Composed %dx%d banner with %d objects", opts.width, opts.height, len(result.Document.Objects))
	printBannerStats(result)

	if !result.Valid {
		printWarning("%d violations remain after refinement", len(result.Violations))
		for _, v := range result.Violations {
			printDetail("%s", v.String())
		}
	}

	if err := c.writeArtifacts(result, opts); err != nil {
		return err
	}

	if opts.save {
		if err := c.archive(ctx, brief, opts, result); err != nil {
			return fmt.Errorf("archive: %w", err)
		}
	}
	return nil
}

// writeArtifacts writes each requested format to disk.
func (c *CLI) writeArtifacts(result *pipeline.Result, opts *composeOpts) error {
	base := artifactBasePath(opts.output)
	for _, format := range opts.formats {
		path := opts.output
		if path == "" || len(opts.formats) > 1 {
			path = base + "." + format
		}
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return err
		}
		printFile(path)
	}
	return nil
}

// archive stores the final document in the configured archive.
func (c *CLI) archive(ctx context.Context, brief string, opts *composeOpts, result *pipeline.Result) error {
	s, err := c.newStore(ctx)
	if err != nil {
		return err
	}
	defer s.Close(ctx)

	data, err := result.Document.Encode()
	if err != nil {
		return err
	}
	violations := make([]string, len(result.Violations))
	for i, v := range result.Violations {
		violations[i] = v.String()
	}
	rec := store.NewRecord(brief, opts.width, opts.height, data, result.Valid, violations)
	if err := s.Put(ctx, rec); err != nil {
		return err
	}
	printInfo("Archived as %s", rec.ID)
	return nil
}

// artifactBasePath derives the base output path from the --output flag.
// If output is empty, "banner" is used. A known format extension on the
// output path is stripped so multiple formats share the base.
func artifactBasePath(output string) string {
	if output == "" {
		return "banner"
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// parseFormats parses the --format flag into a slice of output formats.
// If empty, defaults to ["json"].
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatJSON}
	}
	return strings.Split(s, ",")
}
