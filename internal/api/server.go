// Package api implements the easel HTTP API.
//
// The server exposes the banner pipeline and archive over REST:
//
//	POST   /v1/banners       compose a banner from a brief
//	GET    /v1/banners       list archived banners
//	GET    /v1/banners/{id}  fetch one archived banner
//	DELETE /v1/banners/{id}  delete an archived banner
//	POST   /v1/validate      validate a posted document
//	POST   /v1/repair        repair a posted document
//	GET    /healthz          liveness probe
//
// Compose requests accept the same options as the CLI; results are
// archived automatically so they can be fetched again by ID.
package api

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/easelhq/easel/pkg/pipeline"
	"github.com/easelhq/easel/pkg/store"
	"github.com/easelhq/easel/pkg/validate"
)

// composeTimeout bounds one pipeline run, including all refinement
// round-trips to the gateway.
const composeTimeout = 10 * time.Minute

// Server routes API requests to the pipeline and the archive.
type Server struct {
	runner    *pipeline.Runner
	store     store.Store
	validator *validate.Validator
	logger    *log.Logger
}

// NewServer creates a server. A nil validator means the default policy;
// a nil logger means the default logger.
func NewServer(runner *pipeline.Runner, s store.Store, validator *validate.Validator, logger *log.Logger) *Server {
	if validator == nil {
		validator = validate.Default()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		runner:    runner,
		store:     s,
		validator: validator,
		logger:    logger,
	}
}

// Handler builds the chi router with all routes registered.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(composeTimeout))

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/banners", s.handleCompose)
		r.Get("/banners", s.handleList)
		r.Get("/banners/{id}", s.handleGet)
		r.Delete("/banners/{id}", s.handleDelete)
		r.Post("/validate", s.handleValidate)
		r.Post("/repair", s.handleRepair)
	})

	return r
}

// logRequests logs one line per request with status and duration.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Millisecond))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
