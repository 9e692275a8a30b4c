package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/easelhq/easel/pkg/assets"
	"github.com/easelhq/easel/pkg/canvas"
	"github.com/easelhq/easel/pkg/gen"
	"github.com/easelhq/easel/pkg/httputil"
)

func newTestGateway(t *testing.T, handler http.Handler) *Gateway {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cache, err := httputil.NewCache(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	g, err := New(server.URL, "secret", cache)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return g
}

func TestResearch(t *testing.T) {
	calls := 0
	g := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/research" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer secret" {
			t.Errorf("Authorization = %q", auth)
		}
		calls++
		json.NewEncoder(w).Encode(gen.Research{
			Summary: "warm, festive, food-forward",
			Palette: []string{"#E84D1C", "#FFD23F"},
		})
	}))

	research, err := g.Research(context.Background(), "taco tuesday", 1080, 1080, false)
	if err != nil {
		t.Fatalf("Research: %v", err)
	}
	if research.Summary == "" || len(research.Palette) != 2 {
		t.Errorf("unexpected research: %+v", research)
	}

	// Second identical request is served from cache.
	if _, err := g.Research(context.Background(), "taco tuesday", 1080, 1080, false); err != nil {
		t.Fatalf("Research (cached): %v", err)
	}
	if calls != 1 {
		t.Errorf("server calls = %d, want 1", calls)
	}
}

func TestComposeStripsFences(t *testing.T) {
	g := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/compose" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte("```json\n{\"version\":\"5.3.0\",\"width\":1080,\"height\":1080,\"objects\":[]}\n```"))
	}))

	doc, err := g.Compose(context.Background(), gen.ComposeRequest{Brief: "taco tuesday", Width: 1080, Height: 1080})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if doc.Width != 1080 || doc.Version != "5.3.0" {
		t.Errorf("unexpected document: %+v", doc)
	}
}

func TestComposeBadCandidate(t *testing.T) {
	g := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("I could not produce a document, sorry."))
	}))

	if _, err := g.Compose(context.Background(), gen.ComposeRequest{}); err == nil {
		t.Fatal("expected error for unparseable candidate")
	}
}

func TestCritique(t *testing.T) {
	g := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/critique" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte("CONTINUE: the headline is cramped"))
	}))

	c, err := g.Critique(context.Background(), &canvas.Document{Version: "5.3.0"}, "taco tuesday")
	if err != nil {
		t.Fatalf("Critique: %v", err)
	}
	if c.Passed || c.Feedback != "the headline is cramped" {
		t.Errorf("unexpected critique: %+v", c)
	}
}

func TestApplyFeedback(t *testing.T) {
	g := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/feedback" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var req map[string]any
		json.NewDecoder(r.Body).Decode(&req)
		if req["feedback"] != "enlarge the logo" {
			t.Errorf("feedback = %v", req["feedback"])
		}
		w.Write([]byte(`{"version":"5.3.0","width":1080,"height":1080,"objects":[]}`))
	}))

	doc, err := g.ApplyFeedback(context.Background(), &canvas.Document{Version: "5.3.0"}, "enlarge the logo")
	if err != nil {
		t.Fatalf("ApplyFeedback: %v", err)
	}
	if doc.Height != 1080 {
		t.Errorf("unexpected document: %+v", doc)
	}
}

func TestProduce(t *testing.T) {
	calls := 0
	g := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/assets" {
			t.Errorf("path = %s", r.URL.Path)
		}
		calls++
		var d assets.Descriptor
		json.NewDecoder(r.Body).Decode(&d)
		json.NewEncoder(w).Encode(map[string]string{"url": "https://cdn.example.com/" + d.Kind + ".bin"})
	}))

	task := assets.NewTask(assets.Descriptor{Kind: assets.KindFont, Family: "Lora"})
	url, err := g.Produce(context.Background(), task, false)
	if err != nil {
		t.Fatalf("Produce: %v", err)
	}
	if url != "https://cdn.example.com/font.bin" {
		t.Errorf("url = %q", url)
	}

	// Identical descriptor is cached regardless of task ID.
	again := assets.NewTask(assets.Descriptor{Kind: assets.KindFont, Family: "Lora"})
	if _, err := g.Produce(context.Background(), again, false); err != nil {
		t.Fatalf("Produce (cached): %v", err)
	}
	if calls != 1 {
		t.Errorf("server calls = %d, want 1", calls)
	}
}
