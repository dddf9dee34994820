// Package server exposes the analysis engine over HTTP and persists results
// as fetchable reports.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/chatlytics/chatlytics/engine"
)

// maxUploadBytes bounds a transcript upload.
const maxUploadBytes = 16 << 20

// Server wires the engine and the report store behind a chi router.
type Server struct {
	store     *Store
	cfg       engine.Config
	retention time.Duration
}

func New(store *Store, cfg engine.Config, retention time.Duration) *Server {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &Server{store: store, cfg: cfg, retention: retention}
}

// Router builds the HTTP handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(api chi.Router) {
		api.Get("/health", s.handleHealth)
		api.Post("/analyze", s.handleAnalyze)
		api.Get("/reports/{id}", s.handleGetReport)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleAnalyze accepts a transcript either as a multipart "transcript" file
// or as the raw request body, analyzes it, stores the report and returns the
// report ID with the full result.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	raw, err := readTranscript(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	conv, err := engine.Parse(raw, s.cfg)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	res, err := engine.Analyze(r.Context(), conv, s.cfg)
	if err != nil {
		respondEngineError(w, err)
		return
	}

	id, err := s.store.SaveReport(r.Context(), res, s.retention)
	if err != nil {
		log.Printf("save report: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to store report")
		return
	}

	respondJSON(w, http.StatusCreated, Report{
		ID:        id,
		CreatedAt: time.Now().UTC(),
		ExpiresAt: time.Now().UTC().Add(s.retention),
		Result:    res,
	})
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	report, err := s.store.GetReport(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		respondError(w, http.StatusNotFound, "report not found")
		return
	}
	if err != nil {
		log.Printf("get report %s: %v", id, err)
		respondError(w, http.StatusInternalServerError, "failed to load report")
		return
	}
	respondJSON(w, http.StatusOK, report)
}

func readTranscript(r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxUploadBytes)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			return nil, errors.New("invalid multipart form")
		}
		f, _, err := r.FormFile("transcript")
		if err != nil {
			return nil, errors.New("missing transcript file field")
		}
		defer f.Close()
		return io.ReadAll(f)
	}

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, errors.New("failed to read request body")
	}
	if len(raw) == 0 {
		return nil, errors.New("empty request body")
	}
	return raw, nil
}

// respondEngineError maps the engine error taxonomy onto HTTP statuses:
// unparseable input is 422, too little data 400, too much 413.
func respondEngineError(w http.ResponseWriter, err error) {
	var (
		parseErr *engine.ParseError
		insuff   *engine.InsufficientDataError
		tooLarge *engine.TooLargeError
	)
	switch {
	case errors.As(err, &parseErr):
		respondError(w, http.StatusUnprocessableEntity, parseErr.Error())
	case errors.As(err, &insuff):
		respondJSON(w, http.StatusBadRequest, map[string]any{
			"error":  insuff.Error(),
			"got":    insuff.Got,
			"needed": insuff.Needed(),
		})
	case errors.As(err, &tooLarge):
		respondError(w, http.StatusRequestEntityTooLarge, tooLarge.Error())
	default:
		log.Printf("analyze: %v", err)
		respondError(w, http.StatusInternalServerError, "analysis failed")
	}
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}
