// Package gateway implements the generation backend over the easel
// gateway HTTP API.
//
// The gateway fronts the actual model providers; this client only knows
// the stable endpoint surface:
//
//	POST /v1/research   brief + resolution  -> research JSON
//	POST /v1/plan       brief + research    -> plan JSON
//	POST /v1/compose    plan + assets       -> candidate document text
//	POST /v1/critique   document + brief    -> PASS or CONTINUE verdict
//	POST /v1/feedback   document + feedback -> revised document text
//	POST /v1/assets     descriptor          -> asset URL
//
// Document-producing endpoints answer with raw model text that may be
// wrapped in markdown fences; it is parsed with canvas.DecodeText before
// anything downstream sees it.
package gateway

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/easelhq/easel/pkg/assets"
	"github.com/easelhq/easel/pkg/canvas"
	"github.com/easelhq/easel/pkg/gen"
	"github.com/easelhq/easel/pkg/httputil"
)

// Gateway is a gen.Backend speaking to the easel gateway API.
// Research and asset responses are cached; composition, critique and
// feedback are always fresh because the refinement loop depends on the
// backend actually reacting to revised input.
type Gateway struct {
	base   string
	client *gen.Client
}

// New creates a gateway client for the given base URL.
// The token is sent as a bearer credential on every request; pass ""
// for unauthenticated gateways. If cache is nil a default file cache is
// created.
func New(baseURL, token string, cache *httputil.Cache) (*Gateway, error) {
	if cache == nil {
		var err error
		cache, err = gen.NewCache(24 * time.Hour)
		if err != nil {
			return nil, err
		}
	}

	var headers map[string]string
	if token != "" {
		headers = map[string]string{"Authorization": "Bearer " + token}
	}

	return &Gateway{
		base:   strings.TrimSuffix(baseURL, "/"),
		client: gen.NewClient(cache, headers),
	}, nil
}

func (g *Gateway) url(path string) string { return g.base + path }

type researchRequest struct {
	Brief  string `json:"brief"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Research fetches style research for a brief.
func (g *Gateway) Research(ctx context.Context, brief string, width, height int, refresh bool) (*gen.Research, error) {
	var research gen.Research
	key := fmt.Sprintf("research:%dx%d:%s", width, height, brief)
	err := g.client.Cached(ctx, key, refresh, &research, func() error {
		return g.client.PostJSON(ctx, g.url("/v1/research"), researchRequest{Brief: brief, Width: width, Height: height}, &research)
	})
	if err != nil {
		return nil, fmt.Errorf("research: %w", err)
	}
	return &research, nil
}

type planRequest struct {
	Brief    string        `json:"brief"`
	Research *gen.Research `json:"research,omitempty"`
}

// Plan fetches a composition plan.
func (g *Gateway) Plan(ctx context.Context, brief string, research *gen.Research) (*gen.Plan, error) {
	var plan gen.Plan
	err := httputil.RetryWithBackoff(ctx, func() error {
		return g.client.PostJSON(ctx, g.url("/v1/plan"), planRequest{Brief: brief, Research: research}, &plan)
	})
	if err != nil {
		return nil, fmt.Errorf("plan: %w", err)
	}
	return &plan, nil
}

// Compose produces a candidate document.
func (g *Gateway) Compose(ctx context.Context, req gen.ComposeRequest) (*canvas.Document, error) {
	var raw string
	err := httputil.RetryWithBackoff(ctx, func() error {
		var err error
		raw, err = g.client.PostText(ctx, g.url("/v1/compose"), req)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("compose: %w", err)
	}

	doc, err := canvas.DecodeText(raw)
	if err != nil {
		return nil, fmt.Errorf("compose: %w", err)
	}
	return doc, nil
}

type critiqueRequest struct {
	Document *canvas.Document `json:"document"`
	Brief    string           `json:"brief"`
}

// Critique asks the gateway to judge a candidate against the brief.
func (g *Gateway) Critique(ctx context.Context, doc *canvas.Document, brief string) (gen.Critique, error) {
	var raw string
	err := httputil.RetryWithBackoff(ctx, func() error {
		var err error
		raw, err = g.client.PostText(ctx, g.url("/v1/critique"), critiqueRequest{Document: doc, Brief: brief})
		return err
	})
	if err != nil {
		return gen.Critique{}, fmt.Errorf("critique: %w", err)
	}
	return gen.ParseCritique(raw)
}

type feedbackRequest struct {
	Document *canvas.Document `json:"document"`
	Feedback string           `json:"feedback"`
}

// ApplyFeedback asks the gateway for a revised document.
func (g *Gateway) ApplyFeedback(ctx context.Context, doc *canvas.Document, feedback string) (*canvas.Document, error) {
	var raw string
	err := httputil.RetryWithBackoff(ctx, func() error {
		var err error
		raw, err = g.client.PostText(ctx, g.url("/v1/feedback"), feedbackRequest{Document: doc, Feedback: feedback})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("feedback: %w", err)
	}

	revised, err := canvas.DecodeText(raw)
	if err != nil {
		return nil, fmt.Errorf("feedback: %w", err)
	}
	return revised, nil
}

type assetResponse struct {
	URL string `json:"url"`
}

// Produce generates one asset and returns its URL.
func (g *Gateway) Produce(ctx context.Context, task assets.Task, refresh bool) (string, error) {
	var resp assetResponse
	key := fmt.Sprintf("asset:%s:%s:%s", task.Kind, task.Prompt, task.Family)
	err := g.client.Cached(ctx, key, refresh, &resp, func() error {
		return g.client.PostJSON(ctx, g.url("/v1/assets"), task.Descriptor, &resp)
	})
	if err != nil {
		return "", fmt.Errorf("asset %s: %w", task.Kind, err)
	}
	return resp.URL, nil
}

// Ensure Gateway satisfies the full backend contract.
var _ gen.Backend = (*Gateway)(nil)
