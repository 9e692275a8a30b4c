// Package pipeline provides the core banner generation pipeline for Easel.
//
// This package implements the complete research → plan → assets → compose →
// refine pipeline that can be used by CLI and API components. By centralizing
// this logic, we ensure consistent behavior across all entry points and avoid
// code duplication.
//
// # Architecture
//
// The pipeline consists of five stages:
//
//  1. Research: Gather tone, palette, and keyword guidance for the brief
//  2. Plan: Turn the research into a layout plan and asset descriptors
//  3. Assets: Produce images and fonts concurrently
//  4. Compose: Generate a candidate document from the plan and assets
//  5. Refine: Validate, repair, and iterate until the document is clean
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(backend, cache, nil, logger)
//	opts := pipeline.Options{
//	    Brief:  "taco tuesday special",
//	    Width:  1080,
//	    Height: 1080,
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	banner := result.Artifacts["json"]
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/easelhq/easel/pkg/assets"
	"github.com/easelhq/easel/pkg/cache"
	"github.com/easelhq/easel/pkg/canvas"
	"github.com/easelhq/easel/pkg/errors"
	"github.com/easelhq/easel/pkg/gen"
	"github.com/easelhq/easel/pkg/refine"
	"github.com/easelhq/easel/pkg/repair"
	"github.com/easelhq/easel/pkg/validate"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultWidth is the default canvas width in pixels.
	DefaultWidth = 1080

	// DefaultHeight is the default canvas height in pixels.
	DefaultHeight = 1080

	// DefaultMaxRounds caps refinement feedback round-trips. This matches
	// refine.DefaultMaxRounds so CLI and API behave identically.
	DefaultMaxRounds = refine.DefaultMaxRounds
)

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatHTML = "html"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatHTML: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the banner pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Generation options
	Brief     string `json:"brief"`
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`
	MaxRounds int    `json:"max_rounds,omitempty"`
	Refresh   bool   `json:"refresh,omitempty"`

	// SkipCritique disables the subjective critique loop. Deterministic
	// validation and repair still run.
	SkipCritique bool `json:"skip_critique,omitempty"`

	// Output options
	Formats []string `json:"formats,omitempty"`
	Indent  bool     `json:"indent,omitempty"`

	// Runtime options (not serialized)
	Logger    *log.Logger         `json:"-"`
	Validator *validate.Validator `json:"-"`
	Repair    repair.Options      `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Document is the final composed document.
	Document *canvas.Document

	// DocumentHash is the content hash of the document.
	DocumentHash string

	// Research is the research guidance used for planning.
	Research *gen.Research

	// Plan is the layout plan the document was composed from.
	Plan *gen.Plan

	// Assets are the produced asset URLs.
	Assets []assets.Result

	// Valid reports whether the final document passed validation.
	Valid bool

	// Violations are the outstanding violations, empty when Valid.
	Violations []validate.Violation

	// Artifacts contains encoded outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ResearchTime  time.Duration
	AssetTime     time.Duration
	ComposeTime   time.Duration
	RefineTime    time.Duration
	AssetCount    int
	AssetFailures int
	RefineRounds  int
	RepairPasses  int
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ResearchHit bool // Whether research came from cache
	AssetsHit   bool // Whether all assets came from cache
	DocumentHit bool // Whether the refined document came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: json, html)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect
// as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := errors.ValidateBrief(o.Brief); err != nil {
		return err
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if err := errors.ValidateResolution(o.Width, o.Height); err != nil {
		return err
	}
	if o.MaxRounds <= 0 {
		o.MaxRounds = DefaultMaxRounds
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Validator == nil {
		o.Validator = validate.Default()
	}
	if o.Repair == (repair.Options{}) {
		o.Repair = repair.DefaultOptions()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// ResearchKeyOpts returns cache key options for the research stage.
func (o *Options) ResearchKeyOpts() cache.ResearchKeyOpts {
	return cache.ResearchKeyOpts{
		Width:  o.Width,
		Height: o.Height,
	}
}

// DocumentKeyOpts returns cache key options for the refined document.
func (o *Options) DocumentKeyOpts() cache.DocumentKeyOpts {
	return cache.DocumentKeyOpts{
		Width:     o.Width,
		Height:    o.Height,
		MaxRounds: o.MaxRounds,
	}
}

// ArtifactKeyOpts returns cache key options for encoded artifacts.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: format,
		Indent: o.Indent,
	}
}
