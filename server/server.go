// Package server exposes the generation pipeline over a small HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"auto_ppt_generator/logger"
	"auto_ppt_generator/pipeline"
)

// Runner executes one pipeline per call. *pipeline.Orchestrator satisfies it.
type Runner interface {
	Run(ctx context.Context, p pipeline.Prompt) (pipeline.Result, error)
}

type deck struct {
	ID        string
	Result    pipeline.Result
	Artifact  []byte
	CreatedAt time.Time
}

type deckStore struct {
	mu    sync.Mutex
	decks map[string]*deck
}

func newStore() *deckStore {
	return &deckStore{decks: make(map[string]*deck)}
}

func (s *deckStore) set(id string, d *deck) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.decks[id] = d
}

func (s *deckStore) get(id string) (*deck, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.decks[id]
	return d, ok
}

type Server struct {
	runner   Runner
	renderer pipeline.Renderer
	store    *deckStore
	timeout  time.Duration
	log      *logger.Logger
}

func New(runner Runner, renderer pipeline.Renderer, log *logger.Logger) (*Server, error) {
	if runner == nil {
		return nil, errors.New("pipeline runner required")
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Server{
		runner:   runner,
		renderer: renderer,
		store:    newStore(),
		timeout:  5 * time.Minute,
		log:      log.With("component", "server"),
	}, nil
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/decks", s.handleDeckCreate)
	mux.HandleFunc("/api/decks/", s.handleDeckByID)
	return s.logMiddleware(mux)
}

// --- Handlers ---

type deckCreateReq struct {
	Prompt     string `json:"prompt"`
	SlideCount int    `json:"slide_count,omitempty"`
}

type deckResp struct {
	DeckID    string                `json:"deck_id"`
	Status    pipeline.ResultStatus `json:"status"`
	Revisions int                   `json:"revisions"`
	Slides    int                   `json:"slides"`
	Plan      pipeline.SlidePlan    `json:"plan"`
	Draft     pipeline.ContentDraft `json:"draft"`
}

func (s *Server) handleDeckCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req deckCreateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		http.Error(w, "prompt is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	prompt := pipeline.Prompt{Text: req.Prompt, SlideCountHint: req.SlideCount}
	result, err := s.runner.Run(ctx, prompt)
	if err != nil {
		s.log.Error("pipeline run failed", "error", err)
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	d := &deck{ID: uuid.NewString(), Result: result, CreatedAt: time.Now()}
	if s.renderer != nil {
		artifact, err := s.renderer.Render(ctx, result.Title(), result.Plan, result.Draft)
		if err != nil {
			s.log.Error("render failed", "deck", d.ID, "error", err)
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		d.Artifact = artifact
	}
	s.store.set(d.ID, d)
	writeJSON(w, toResp(d))
}

func (s *Server) handleDeckByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/api/decks/")
	id, wantFile := rest, false
	if strings.HasSuffix(rest, "/file") {
		id, wantFile = strings.TrimSuffix(rest, "/file"), true
	}
	if id == "" {
		http.NotFound(w, r)
		return
	}
	d, ok := s.store.get(id)
	if !ok {
		http.Error(w, "deck not found", http.StatusNotFound)
		return
	}

	if wantFile {
		if len(d.Artifact) == 0 {
			http.Error(w, "no artifact for deck", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.presentationml.presentation")
		w.Header().Set("Content-Disposition", `attachment; filename="`+d.ID+`.pptx"`)
		_, _ = w.Write(d.Artifact)
		return
	}
	writeJSON(w, toResp(d))
}

// --- Helpers ---

func toResp(d *deck) deckResp {
	return deckResp{
		DeckID:    d.ID,
		Status:    d.Result.Status,
		Revisions: d.Result.Revisions,
		Slides:    len(d.Result.Plan),
		Plan:      d.Result.Plan,
		Draft:     d.Result.Draft,
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Info("request", "method", r.Method, "path", r.URL.Path, "elapsed", time.Since(start))
	})
}
