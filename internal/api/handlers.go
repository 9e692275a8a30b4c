package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/easelhq/easel/pkg/canvas"
	easelerrors "github.com/easelhq/easel/pkg/errors"
	"github.com/easelhq/easel/pkg/pipeline"
	"github.com/easelhq/easel/pkg/repair"
	"github.com/easelhq/easel/pkg/store"
	"github.com/easelhq/easel/pkg/validate"
)

// maxBodySize caps request bodies. Documents are small; anything bigger
// is a client error.
const maxBodySize = 4 << 20

// composeResponse is the body returned by POST /v1/banners.
type composeResponse struct {
	ID         string           `json:"id"`
	Document   json.RawMessage  `json:"document"`
	Valid      bool             `json:"valid"`
	Violations []string         `json:"violations,omitempty"`
	Stats      composeStats     `json:"stats"`
	CacheInfo  composeCacheInfo `json:"cache_info"`
}

type composeStats struct {
	RefineRounds  int `json:"refine_rounds"`
	RepairPasses  int `json:"repair_passes"`
	AssetCount    int `json:"asset_count"`
	AssetFailures int `json:"asset_failures"`
}

type composeCacheInfo struct {
	ResearchHit bool `json:"research_hit"`
	AssetsHit   bool `json:"assets_hit"`
	DocumentHit bool `json:"document_hit"`
}

// handleCompose runs the pipeline for a posted brief and archives the
// result.
func (s *Server) handleCompose(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	if err := decodeBody(w, r, &opts); err != nil {
		writeError(w, easelerrors.Wrap(easelerrors.ErrCodeInvalidInput, err, "invalid request body"))
		return
	}

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}

	encoded, err := result.Document.Encode()
	if err != nil {
		writeError(w, err)
		return
	}

	violations := make([]string, len(result.Violations))
	for i, v := range result.Violations {
		violations[i] = v.String()
	}

	rec := store.NewRecord(opts.Brief, result.Document.Width, result.Document.Height, encoded, result.Valid, violations)
	if err := s.store.Put(r.Context(), rec); err != nil {
		s.logger.Warn("archive failed", "id", rec.ID, "error", err)
	}

	writeJSON(w, http.StatusCreated, composeResponse{
		ID:         rec.ID,
		Document:   encoded,
		Valid:      result.Valid,
		Violations: violations,
		Stats: composeStats{
			RefineRounds:  result.Stats.RefineRounds,
			RepairPasses:  result.Stats.RepairPasses,
			AssetCount:    result.Stats.AssetCount,
			AssetFailures: result.Stats.AssetFailures,
		},
		CacheInfo: composeCacheInfo{
			ResearchHit: result.CacheInfo.ResearchHit,
			AssetsHit:   result.CacheInfo.AssetsHit,
			DocumentHit: result.CacheInfo.DocumentHit,
		},
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.List(r.Context(), 100)
	if err != nil {
		writeError(w, err)
		return
	}
	if records == nil {
		records = []*store.Record{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// documentRequest carries a document plus an optional target resolution
// for the validate and repair endpoints.
type documentRequest struct {
	Document json.RawMessage `json:"document"`
	Width    int             `json:"width,omitempty"`
	Height   int             `json:"height,omitempty"`
}

// decodeDocument decodes the request and applies resolution defaults.
func (req *documentRequest) decode() (*canvas.Document, int, int, error) {
	doc, err := canvas.Decode(req.Document)
	if err != nil {
		return nil, 0, 0, easelerrors.Wrap(easelerrors.ErrCodeInvalidDocument, err, "invalid document")
	}
	width, height := req.Width, req.Height
	if width == 0 {
		width = doc.Width
	}
	if height == 0 {
		height = doc.Height
	}
	if err := easelerrors.ValidateResolution(width, height); err != nil {
		return nil, 0, 0, err
	}
	return doc, width, height, nil
}

type validateResponse struct {
	Valid      bool     `json:"valid"`
	Violations []string `json:"violations,omitempty"`

	// Repairable reports whether every violation has a mechanical fix,
	// so a caller knows /v1/repair can resolve the document without a
	// fresh composition.
	Repairable bool `json:"repairable"`
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req documentRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, easelerrors.Wrap(easelerrors.ErrCodeInvalidInput, err, "invalid request body"))
		return
	}
	doc, width, height, err := req.decode()
	if err != nil {
		writeError(w, err)
		return
	}

	valid, violations := s.validator.Validate(doc, width, height)
	writeJSON(w, http.StatusOK, validateResponse{
		Valid:      valid,
		Violations: violationStrings(violations),
		Repairable: validate.AllDeterministic(violations),
	})
}

type repairResponse struct {
	Document   json.RawMessage `json:"document"`
	Valid      bool            `json:"valid"`
	Fixed      int             `json:"fixed"`
	Violations []string        `json:"violations,omitempty"`
}

func (s *Server) handleRepair(w http.ResponseWriter, r *http.Request) {
	var req documentRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, easelerrors.Wrap(easelerrors.ErrCodeInvalidInput, err, "invalid request body"))
		return
	}
	doc, width, height, err := req.decode()
	if err != nil {
		writeError(w, err)
		return
	}

	_, violations := s.validator.Validate(doc, width, height)
	repaired := repair.Repair(doc, violations, width, height, repair.DefaultOptions())
	valid, remaining := s.validator.Validate(repaired, width, height)

	encoded, err := repaired.Encode()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, repairResponse{
		Document:   encoded,
		Valid:      valid,
		Fixed:      len(violations) - len(remaining),
		Violations: violationStrings(remaining),
	})
}

// =============================================================================
// Helpers
// =============================================================================

func violationStrings(violations []validate.Violation) []string {
	if len(violations) == 0 {
		return nil
	}
	out := make([]string, len(violations))
	for i, v := range violations {
		out[i] = v.String()
	}
	return out
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorResponse is the uniform error body.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// writeError maps domain errors to HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := easelerrors.GetCode(err)

	switch {
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case code == easelerrors.ErrCodeNotFound || code == easelerrors.ErrCodeDocumentNotFound:
		status = http.StatusNotFound
	case code == easelerrors.ErrCodeInvalidInput || code == easelerrors.ErrCodeInvalidBrief ||
		code == easelerrors.ErrCodeInvalidResolution || code == easelerrors.ErrCodeInvalidDocument ||
		code == easelerrors.ErrCodeInvalidFormat:
		status = http.StatusBadRequest
	case code == easelerrors.ErrCodeRateLimited:
		status = http.StatusTooManyRequests
	case code == easelerrors.ErrCodeUnauthorized:
		status = http.StatusUnauthorized
	case code == easelerrors.ErrCodeTimeout:
		status = http.StatusGatewayTimeout
	}

	writeJSON(w, status, errorResponse{
		Error: easelerrors.UserMessage(err),
		Code:  string(code),
	})
}
