// Package refine drives a candidate document to validity.
//
// The controller alternates two mechanisms: deterministic repair for
// violation categories with a mechanical fix, and external feedback
// round-trips for everything else (color problems, and whatever survives
// a repair pass). Round-trips are hard-capped; running out of rounds is
// not an error, the best candidate seen so far is returned together with
// its remaining violations.
package refine

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/easelhq/easel/pkg/canvas"
	"github.com/easelhq/easel/pkg/errors"
	"github.com/easelhq/easel/pkg/gen"
	"github.com/easelhq/easel/pkg/repair"
	"github.com/easelhq/easel/pkg/validate"
)

// DefaultMaxRounds caps external feedback round-trips per candidate.
const DefaultMaxRounds = 5

// Phase labels for log output and observability hooks.
const (
	PhaseValidating         = "validating"
	PhaseRepairing          = "repairing"
	PhaseRequestingFeedback = "requesting-feedback"
	PhaseDone               = "done"
)

// Options configures a refinement run.
type Options struct {
	// Brief is the creative brief the critic judges against.
	Brief string

	// Width and Height are the target canvas dimensions.
	Width  int
	Height int

	// MaxRounds caps feedback round-trips. Zero means DefaultMaxRounds.
	MaxRounds int

	// Validator checks candidates. Nil means the default policy.
	Validator *validate.Validator

	// Repair configures the deterministic repairer.
	Repair repair.Options

	// Applier revises candidates from feedback text. Required.
	Applier gen.FeedbackApplier

	// Critic judges structurally valid candidates. Optional; without a
	// critic, structural validity ends the run.
	Critic gen.Critic

	// Logger receives per-phase progress. Nil means the default logger.
	Logger *log.Logger
}

// ValidateAndSetDefaults checks required fields and fills in defaults.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Applier == nil {
		return fmt.Errorf("applier is required")
	}
	if err := errors.ValidateResolution(o.Width, o.Height); err != nil {
		return err
	}
	if o.MaxRounds <= 0 {
		o.MaxRounds = DefaultMaxRounds
	}
	if o.Validator == nil {
		o.Validator = validate.Default()
	}
	if o.Repair == (repair.Options{}) {
		o.Repair = repair.DefaultOptions()
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	return nil
}

// Stats records what a refinement run did.
type Stats struct {
	Rounds            int           // feedback round-trips consumed
	RepairPasses      int           // deterministic repair passes applied
	FeedbackFailures  int           // feedback responses that failed to parse (recovered)
	ViolationsInitial int           // violations on the incoming candidate
	ViolationsFinal   int           // violations on the returned document
	Duration          time.Duration // wall time of the run
}

// Result is the outcome of a refinement run.
type Result struct {
	Document   *canvas.Document
	Valid      bool
	Violations []validate.Violation
	Stats      Stats
}

// Controller refines candidates against one fixed configuration.
// Safe for concurrent use; each Refine call keeps its own state.
type Controller struct {
	opts Options
}

// New creates a Controller. Options are validated once here so Refine
// never has to.
func New(opts Options) (*Controller, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	return &Controller{opts: opts}, nil
}

// candidate is a document with its current validation state.
type candidate struct {
	doc        *canvas.Document
	valid      bool
	violations []validate.Violation
}

// Refine drives doc to validity within the round budget and returns the
// best document seen. The input document is never mutated.
func (c *Controller) Refine(ctx context.Context, doc *canvas.Document) (*Result, error) {
	if doc == nil {
		return nil, errors.New(errors.ErrCodeInvalidDocument, "no candidate to refine")
	}

	start := time.Now()
	stats := Stats{}
	logger := c.opts.Logger

	cur := c.settle(doc.Clone(), &stats)
	stats.ViolationsInitial = len(cur.violations)
	best := cur

	for round := 1; round <= c.opts.MaxRounds; round++ {
		feedback, done := c.nextFeedback(ctx, cur, &stats, logger)
		if done {
			stats.Duration = time.Since(start)
			logger.Info("refinement converged", "phase", PhaseDone, "rounds", stats.Rounds, "repairs", stats.RepairPasses)
			return c.result(cur, stats), nil
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		stats.Rounds = round
		logger.Info("requesting feedback revision",
			"phase", PhaseRequestingFeedback, "round", round, "violations", len(cur.violations))

		revised, err := c.opts.Applier.ApplyFeedback(ctx, cur.doc, feedback)
		if err != nil {
			// A bad revision never loses the current candidate.
			stats.FeedbackFailures++
			logger.Warn("feedback revision unusable, keeping candidate", "round", round, "err", err)
			continue
		}

		cur = c.settle(revised, &stats)
		if cur.valid || (!best.valid && len(cur.violations) < len(best.violations)) {
			best = cur
		}
	}

	stats.Duration = time.Since(start)
	if best.valid {
		logger.Info("refinement converged", "phase", PhaseDone, "rounds", stats.Rounds, "repairs", stats.RepairPasses)
	} else {
		logger.Warn("refinement budget exhausted",
			"phase", PhaseDone, "rounds", stats.Rounds, "violations", len(best.violations))
	}
	return c.result(best, stats), nil
}

// nextFeedback decides whether the run is finished, and if not, what
// feedback to send upstream. Valid candidates consult the critic;
// invalid ones escalate their violation summary.
func (c *Controller) nextFeedback(ctx context.Context, cur candidate, stats *Stats, logger *log.Logger) (string, bool) {
	if !cur.valid {
		return validate.Summarize(cur.violations), false
	}
	if c.opts.Critic == nil {
		return "", true
	}

	crit, err := c.opts.Critic.Critique(ctx, cur.doc, c.opts.Brief)
	if err != nil {
		// The candidate is structurally valid; a broken critic is not a
		// reason to discard it.
		stats.FeedbackFailures++
		logger.Warn("critique unusable, accepting candidate", "err", err)
		return "", true
	}
	if crit.Passed {
		return "", true
	}
	return crit.Feedback, false
}

// settle validates doc and applies one deterministic repair pass when
// any of the violations have a mechanical fix, then re-validates.
func (c *Controller) settle(doc *canvas.Document, stats *Stats) candidate {
	v := c.opts.Validator
	ok, violations := v.Validate(doc, c.opts.Width, c.opts.Height)
	if ok {
		return candidate{doc: doc, valid: true}
	}

	c.opts.Logger.Debug("validation failed", "phase", PhaseValidating, "violations", len(violations))

	if hasDeterministic(violations) {
		c.opts.Logger.Debug("applying deterministic repair", "phase", PhaseRepairing)
		doc = repair.Repair(doc, violations, c.opts.Width, c.opts.Height, c.opts.Repair)
		stats.RepairPasses++
		ok, violations = v.Validate(doc, c.opts.Width, c.opts.Height)
	}

	return candidate{doc: doc, valid: ok, violations: violations}
}

func (c *Controller) result(cur candidate, stats Stats) *Result {
	stats.ViolationsFinal = len(cur.violations)
	return &Result{
		Document:   cur.doc,
		Valid:      cur.valid,
		Violations: cur.violations,
		Stats:      stats,
	}
}

func hasDeterministic(violations []validate.Violation) bool {
	for _, v := range violations {
		if v.Category.Deterministic() {
			return true
		}
	}
	return false
}
