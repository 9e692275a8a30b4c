package gen

import (
	"context"

	"github.com/easelhq/easel/pkg/assets"
	"github.com/easelhq/easel/pkg/canvas"
)

// Research is the style groundwork for a brief: palette, tone and the
// phrases the planner should work into the composition.
type Research struct {
	Summary  string   `json:"summary"`
	Tone     string   `json:"tone,omitempty"`
	Palette  []string `json:"palette,omitempty"`
	Keywords []string `json:"keywords,omitempty"`
}

// Plan is a composition plan: the copy to set and the assets to produce
// before composing.
type Plan struct {
	Headline string              `json:"headline"`
	Subhead  string              `json:"subhead,omitempty"`
	Layout   string              `json:"layout,omitempty"`
	Assets   []assets.Descriptor `json:"assets,omitempty"`
}

// ComposeRequest carries everything a backend needs to produce a
// candidate document.
type ComposeRequest struct {
	Brief   string          `json:"brief"`
	Width   int             `json:"width"`
	Height  int             `json:"height"`
	Plan    *Plan           `json:"plan,omitempty"`
	Assets  []assets.Result `json:"assets,omitempty"`
	FontURL string          `json:"fontUrl,omitempty"`
}

// Researcher produces style research for a brief.
type Researcher interface {
	Research(ctx context.Context, brief string, width, height int, refresh bool) (*Research, error)
}

// Planner produces a composition plan from a brief and its research.
type Planner interface {
	Plan(ctx context.Context, brief string, research *Research) (*Plan, error)
}

// Composer produces a candidate canvas document.
type Composer interface {
	Compose(ctx context.Context, req ComposeRequest) (*canvas.Document, error)
}

// Critic judges a candidate against its brief. The verdict is either a
// pass or a request to continue with concrete feedback.
type Critic interface {
	Critique(ctx context.Context, doc *canvas.Document, brief string) (Critique, error)
}

// FeedbackApplier revises a document according to feedback text. The
// feedback may come from a critic or from accumulated validation
// messages that deterministic repair could not resolve.
type FeedbackApplier interface {
	ApplyFeedback(ctx context.Context, doc *canvas.Document, feedback string) (*canvas.Document, error)
}

// Backend is the full set of generation capabilities the pipeline uses.
type Backend interface {
	Researcher
	Planner
	Composer
	Critic
	FeedbackApplier
	assets.Producer
}
