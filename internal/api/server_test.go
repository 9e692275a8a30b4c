package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/easelhq/easel/pkg/assets"
	"github.com/easelhq/easel/pkg/canvas"
	"github.com/easelhq/easel/pkg/gen"
	"github.com/easelhq/easel/pkg/pipeline"
	"github.com/easelhq/easel/pkg/store"
)

// stubBackend is a minimal gen.Backend producing one fixed banner.
type stubBackend struct{}

func (stubBackend) Research(ctx context.Context, brief string, width, height int, refresh bool) (*gen.Research, error) {
	return &gen.Research{Summary: "fixture", Tone: "plain"}, nil
}

func (stubBackend) Plan(ctx context.Context, brief string, research *gen.Research) (*gen.Plan, error) {
	return &gen.Plan{Headline: "Fixture", Layout: "hero-left",
		Assets: []assets.Descriptor{{Kind: assets.KindImage, Prompt: "background"}}}, nil
}

func (stubBackend) Produce(ctx context.Context, task assets.Task, refresh bool) (string, error) {
	return "https://cdn.example.com/bg.png", nil
}

func (stubBackend) Compose(ctx context.Context, req gen.ComposeRequest) (*canvas.Document, error) {
	return fixtureDocument(), nil
}

func (stubBackend) Critique(ctx context.Context, doc *canvas.Document, brief string) (gen.Critique, error) {
	return gen.Critique{Passed: true}, nil
}

func (stubBackend) ApplyFeedback(ctx context.Context, doc *canvas.Document, feedback string) (*canvas.Document, error) {
	return doc.Clone(), nil
}

func fixtureDocument() *canvas.Document {
	return &canvas.Document{
		Version: "5.3.0",
		Width:   1080,
		Height:  1080,
		Objects: []*canvas.Element{
			{Type: canvas.TypeImage, Left: 0, Top: 0, Width: 1080, Height: 1080, ScaleX: 1, ScaleY: 1, Src: "https://cdn.example.com/bg.png"},
			{Type: canvas.TypeTextbox, Left: 100, Top: 100, Width: 600, Height: 60, ScaleX: 1, ScaleY: 1,
				Text: "Fixture", FontSize: 48, LineHeight: 1.2, Fill: canvas.FlatColor("#FFFFFF")},
		},
	}
}

func newTestServer(t *testing.T) (*Server, store.Store) {
	t.Helper()
	s, err := store.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	runner := pipeline.NewRunner(stubBackend{}, nil, nil, nil)
	return NewServer(runner, s, nil, nil), s
}

func doRequest(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	server, _ := newTestServer(t)
	w := doRequest(t, server.Handler(), http.MethodGet, "/healthz", nil)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestComposeArchivesResult(t *testing.T) {
	server, s := newTestServer(t)
	h := server.Handler()

	w := doRequest(t, h, http.MethodPost, "/v1/banners", map[string]any{
		"brief": "taco tuesday", "width": 1080, "height": 1080,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var resp struct {
		ID       string          `json:"id"`
		Valid    bool            `json:"valid"`
		Document json.RawMessage `json:"document"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !resp.Valid {
		t.Error("Valid = false")
	}
	if _, err := canvas.Decode(resp.Document); err != nil {
		t.Errorf("document does not decode: %v", err)
	}

	rec, err := s.Get(context.Background(), resp.ID)
	if err != nil {
		t.Fatalf("archived record missing: %v", err)
	}
	if rec.Brief != "taco tuesday" {
		t.Errorf("archived brief = %q", rec.Brief)
	}

	// Fetch through the API as well
	w = doRequest(t, h, http.MethodGet, "/v1/banners/"+resp.ID, nil)
	if w.Code != http.StatusOK {
		t.Errorf("get status = %d", w.Code)
	}
}

func TestComposeRejectsBadBody(t *testing.T) {
	server, _ := newTestServer(t)
	h := server.Handler()

	tests := []struct {
		name string
		body any
	}{
		{"missing brief", map[string]any{"width": 1080}},
		{"unknown field", map[string]any{"brief": "ok", "bogus": true}},
		{"tiny canvas", map[string]any{"brief": "ok", "width": 4, "height": 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, h, http.MethodPost, "/v1/banners", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d (body %s)", w.Code, http.StatusBadRequest, w.Body.String())
			}
		})
	}
}

func TestGetMissingBanner(t *testing.T) {
	server, _ := newTestServer(t)
	w := doRequest(t, server.Handler(), http.MethodGet, "/v1/banners/nope", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestDeleteBanner(t *testing.T) {
	server, s := newTestServer(t)
	h := server.Handler()

	data, _ := fixtureDocument().Encode()
	rec := store.NewRecord("doomed", 1080, 1080, data, true, nil)
	if err := s.Put(context.Background(), rec); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	w := doRequest(t, h, http.MethodDelete, "/v1/banners/"+rec.ID, nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNoContent)
	}
	if _, err := s.Get(context.Background(), rec.ID); err == nil {
		t.Error("record still present after delete")
	}
}

func TestListBanners(t *testing.T) {
	server, s := newTestServer(t)

	data, _ := fixtureDocument().Encode()
	for i := 0; i < 3; i++ {
		rec := store.NewRecord(fmt.Sprintf("brief %d", i), 1080, 1080, data, true, nil)
		if err := s.Put(context.Background(), rec); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
	}

	w := doRequest(t, server.Handler(), http.MethodGet, "/v1/banners", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var records []store.Record
	if err := json.Unmarshal(w.Body.Bytes(), &records); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(records) != 3 {
		t.Errorf("len(records) = %d, want 3", len(records))
	}
}

func TestValidateEndpoint(t *testing.T) {
	server, _ := newTestServer(t)
	h := server.Handler()

	doc := fixtureDocument()
	doc.Objects[1].Left = -30
	encoded, _ := doc.Encode()

	w := doRequest(t, h, http.MethodPost, "/v1/validate", map[string]any{
		"document": json.RawMessage(encoded),
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp struct {
		Valid      bool     `json:"valid"`
		Violations []string `json:"violations"`
		Repairable bool     `json:"repairable"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Valid || len(resp.Violations) == 0 {
		t.Errorf("response = %+v, want invalid with violations", resp)
	}
	if !resp.Repairable {
		t.Error("repairable = false, want true for a boundary-only document")
	}

	// A bad color needs a design decision, not a mechanical fix.
	doc = fixtureDocument()
	doc.Objects[1].Fill = canvas.FlatColor("chartreuse")
	encoded, _ = doc.Encode()

	w = doRequest(t, h, http.MethodPost, "/v1/validate", map[string]any{
		"document": json.RawMessage(encoded),
	})
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Valid || resp.Repairable {
		t.Errorf("response = %+v, want invalid and not repairable", resp)
	}
}

func TestRepairEndpoint(t *testing.T) {
	server, _ := newTestServer(t)
	h := server.Handler()

	doc := fixtureDocument()
	doc.Objects[1].Left = -30
	encoded, _ := doc.Encode()

	w := doRequest(t, h, http.MethodPost, "/v1/repair", map[string]any{
		"document": json.RawMessage(encoded),
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp struct {
		Document json.RawMessage `json:"document"`
		Valid    bool            `json:"valid"`
		Fixed    int             `json:"fixed"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !resp.Valid || resp.Fixed == 0 {
		t.Errorf("response valid=%v fixed=%d, want repaired", resp.Valid, resp.Fixed)
	}
	repaired, err := canvas.Decode(resp.Document)
	if err != nil {
		t.Fatalf("repaired document does not decode: %v", err)
	}
	if repaired.Objects[1].Left != 0 {
		t.Errorf("Left = %v, want 0", repaired.Objects[1].Left)
	}
}

func TestRepairRejectsMalformedDocument(t *testing.T) {
	server, _ := newTestServer(t)
	w := doRequest(t, server.Handler(), http.MethodPost, "/v1/repair", map[string]any{
		"document": json.RawMessage(`"not an object"`),
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}
