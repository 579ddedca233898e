// Package http exposes stateless diagnostic sessions over a JSON API.
// Clients carry their AnswerSet in every request; the server keeps no session state.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/aretw0/autodiag/internal/presentation/graph"
	"github.com/aretw0/autodiag/pkg/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Engine defines the subset of the diagnostic engine served over HTTP.
type Engine interface {
	Rules() []domain.Rule
	Questions() []domain.Question
	NextQuestion(ctx context.Context, answers domain.AnswerSet) (domain.Question, bool)
	RecordAnswer(ctx context.Context, answers domain.AnswerSet, id string, value bool) (domain.AnswerSet, error)
	Diagnose(ctx context.Context, answers domain.AnswerSet) domain.Report
	Progress(answers domain.AnswerSet) (done, total int)
	ValidateAnswers(answers domain.AnswerSet) error
}

// Server serves the diagnostic API.
type Server struct {
	Engine  Engine
	Streams *StreamManager

	logger  *slog.Logger
	version string
	metrics http.Handler
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithVersion sets the version reported by GET /info.
func WithVersion(version string) Option {
	return func(s *Server) {
		s.version = version
	}
}

// WithMetricsHandler mounts h at GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// NewServer creates a Server for engine.
func NewServer(engine Engine, opts ...Option) *Server {
	s := &Server{
		Engine:  engine,
		Streams: NewStreamManager(),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		version: "dev",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine Engine, opts ...Option) http.Handler {
	return NewServer(engine, opts...).Routes()
}

// Routes builds the chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/questions", s.GetQuestions)
	r.Get("/rules", s.GetRules)
	r.Get("/graph", s.GetGraph)
	r.Get("/events", s.SubscribeEvents)
	r.Post("/next", s.Next)
	r.Post("/answer", s.Answer)
	r.Post("/diagnose", s.Diagnose)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SessionRequest carries the client's answers.
type SessionRequest struct {
	Answers map[string]any `json:"answers"`
}

// AnswerRequest records one answer on top of Answers.
type AnswerRequest struct {
	Answers    map[string]any `json:"answers"`
	QuestionID string         `json:"question_id"`
	Value      any            `json:"value"`
}

// StepResponse describes where a session stands.
type StepResponse struct {
	Answers  domain.AnswerSet `json:"answers"`
	Question *domain.Question `json:"question,omitempty"`
	Done     int              `json:"done"`
	Total    int              `json:"total"`
	Complete bool             `json:"complete"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Next handles POST /next.
func (s *Server) Next(w http.ResponseWriter, r *http.Request) {
	var body SessionRequest
	if !s.decode(w, r, &body) {
		return
	}
	answers, ok := s.answers(w, body.Answers)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, s.step(r.Context(), answers))
}

// Answer handles POST /answer.
func (s *Server) Answer(w http.ResponseWriter, r *http.Request) {
	var body AnswerRequest
	if !s.decode(w, r, &body) {
		return
	}
	answers, ok := s.answers(w, body.Answers)
	if !ok {
		return
	}
	value, isBool := body.Value.(bool)
	if !isBool {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("%w: %s must be a boolean", domain.ErrInvalidAnswer, body.QuestionID))
		return
	}

	next, err := s.Engine.RecordAnswer(r.Context(), answers, body.QuestionID, value)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.step(r.Context(), next))
}

// Diagnose handles POST /diagnose.
func (s *Server) Diagnose(w http.ResponseWriter, r *http.Request) {
	var body SessionRequest
	if !s.decode(w, r, &body) {
		return
	}
	answers, ok := s.answers(w, body.Answers)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, s.Engine.Diagnose(r.Context(), answers))
}

// GetQuestions handles GET /questions.
func (s *Server) GetQuestions(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Engine.Questions())
}

// GetRules handles GET /rules.
func (s *Server) GetRules(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Engine.Rules())
}

// GetGraph handles GET /graph and returns the catalog as a Mermaid flowchart.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, graph.GenerateMermaid(s.Engine.Questions(), s.Engine.Rules(), nil))
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"app":       "autodiag-http",
		"version":   s.version,
		"rules":     len(s.Engine.Rules()),
		"questions": len(s.Engine.Questions()),
	})
}

// Notify broadcasts msg to every /events subscriber.
func (s *Server) Notify(msg string) {
	s.Streams.Broadcast(msg)
}

// SubscribeEvents handles the GET /events request (SSE). Events announce catalog reloads.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe()
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Debug("SSE client disconnected")
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func (s *Server) step(ctx context.Context, answers domain.AnswerSet) StepResponse {
	done, total := s.Engine.Progress(answers)
	resp := StepResponse{Answers: answers, Done: done, Total: total}
	if q, ok := s.Engine.NextQuestion(ctx, answers); ok {
		resp.Question = &q
	} else {
		resp.Complete = true
	}
	return resp
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return false
	}
	return true
}

func (s *Server) answers(w http.ResponseWriter, raw map[string]any) (domain.AnswerSet, bool) {
	answers, err := domain.DecodeAnswers(raw)
	if err == nil {
		err = s.Engine.ValidateAnswers(answers)
	}
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return nil, false
	}
	return answers, true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrAlreadyAnswered), errors.Is(err, domain.ErrNotApplicable):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnknownQuestion), errors.Is(err, domain.ErrInvalidAnswer):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	} else {
		s.logger.Warn("request rejected", "status", status, "error", err)
	}
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}

// StreamManager handles active SSE connections.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[chan string]struct{}
}

func NewStreamManager() *StreamManager {
	return &StreamManager{subscribers: make(map[chan string]struct{})}
}

func (sm *StreamManager) Subscribe() (<-chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	sm.subscribers[ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if _, ok := sm.subscribers[ch]; ok {
			delete(sm.subscribers, ch)
			close(ch)
		}
	}
}

func (sm *StreamManager) Broadcast(msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers {
		select {
		case ch <- msg:
		default:
			// Slow client; drop.
		}
	}
}

// Len returns the number of active subscribers.
func (sm *StreamManager) Len() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers)
}
