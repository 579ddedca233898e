// Package mcp exposes the diagnostic questionnaire as Model Context Protocol tools.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/autodiag/internal/presentation/graph"
	"github.com/aretw0/autodiag/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	// KnowledgeURI is the resource holding the active rules and questions.
	KnowledgeURI = "autodiag://knowledge"
	// GraphURI is the resource holding the Mermaid rendering of the catalog.
	GraphURI = "autodiag://graph"
)

// StepResponse describes where a session stands.
type StepResponse struct {
	Answers  domain.AnswerSet `json:"answers" jsonschema_description:"Answers recorded so far"`
	Question *Question        `json:"question,omitempty" jsonschema_description:"Next question to ask, absent when the session is complete"`
	Done     int              `json:"done" jsonschema_description:"Number of answered questions"`
	Total    int              `json:"total" jsonschema_description:"Estimated number of questions in this session"`
	Complete bool             `json:"complete" jsonschema_description:"True when no question remains and diagnose should be called"`
}

// Question is the tool-facing form of a domain.Question.
// The gate is flattened to its text form so the output schema stays finite.
type Question struct {
	ID     string `json:"id" jsonschema_description:"Answer key of the question"`
	Prompt string `json:"prompt" jsonschema_description:"Text to show the user"`
	When   string `json:"when,omitempty" jsonschema_description:"Applicability gate, e.g. starts == false"`
}

func newQuestion(q domain.Question) *Question {
	out := &Question{ID: q.ID, Prompt: q.Prompt}
	if q.Gated() {
		out.When = q.When.String()
	}
	return out
}

// Knowledge is the payload of the knowledge resource.
type Knowledge struct {
	Questions []domain.Question `json:"questions"`
	Rules     []domain.Rule     `json:"rules"`
}

// Engine defines the interface required by the MCP server.
type Engine interface {
	Rules() []domain.Rule
	Questions() []domain.Question
	NextQuestion(ctx context.Context, answers domain.AnswerSet) (domain.Question, bool)
	RecordAnswer(ctx context.Context, answers domain.AnswerSet, id string, value bool) (domain.AnswerSet, error)
	Diagnose(ctx context.Context, answers domain.AnswerSet) domain.Report
	Progress(answers domain.AnswerSet) (done, total int)
	ValidateAnswers(answers domain.AnswerSet) error
}

// Server wraps the engine and exposes it as an MCP Server.
type Server struct {
	engine    Engine
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*serverConfig)

type serverConfig struct {
	version string
	logger  *slog.Logger
}

// WithVersion sets the version announced during initialization.
func WithVersion(version string) Option {
	return func(c *serverConfig) {
		c.version = version
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *serverConfig) {
		c.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine, opts ...Option) *Server {
	cfg := serverConfig{version: "dev", logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&cfg)
	}
	s := &Server{
		engine:    engine,
		logger:    cfg.logger,
		mcpServer: server.NewMCPServer("autodiag-mcp", cfg.version),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the SSE transport on port until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

const answersDescription = `JSON object of answers recorded so far, e.g. {"starts": false}`

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_questions",
		mcp.WithDescription("List every question of the active catalog in declaration order."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		jsonBytes, _ := json.Marshal(s.engine.Questions())
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})

	s.mcpServer.AddTool(mcp.NewTool("next_question",
		mcp.WithDescription("Return the next question to ask given the answers so far."),
		mcp.WithString("answers", mcp.Description(answersDescription)),
		mcp.WithOutputSchema[StepResponse](),
	), mcp.NewStructuredToolHandler(s.handleNextQuestion))

	s.mcpServer.AddTool(mcp.NewTool("record_answer",
		mcp.WithDescription("Record a yes/no answer and return the next question."),
		mcp.WithString("question_id", mcp.Required(), mcp.Description("ID of the question being answered")),
		mcp.WithBoolean("value", mcp.Required(), mcp.Description("true for yes, false for no")),
		mcp.WithString("answers", mcp.Description(answersDescription)),
		mcp.WithOutputSchema[StepResponse](),
	), mcp.NewStructuredToolHandler(s.handleRecordAnswer))

	s.mcpServer.AddTool(mcp.NewTool("diagnose",
		mcp.WithDescription("Resolve the diagnosis for a set of answers and summarize the symptoms."),
		mcp.WithString("answers", mcp.Description(answersDescription)),
		mcp.WithOutputSchema[domain.Report](),
	), mcp.NewStructuredToolHandler(s.handleDiagnose))
}

func (s *Server) handleNextQuestion(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (StepResponse, error) {
	answers, err := s.parseAnswers(args)
	if err != nil {
		return StepResponse{}, err
	}
	return s.step(ctx, answers), nil
}

func (s *Server) handleRecordAnswer(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (StepResponse, error) {
	answers, err := s.parseAnswers(args)
	if err != nil {
		return StepResponse{}, err
	}
	id, _ := args["question_id"].(string)
	value, ok := args["value"].(bool)
	if !ok {
		return StepResponse{}, fmt.Errorf("%w: value must be a boolean", domain.ErrInvalidAnswer)
	}

	next, err := s.engine.RecordAnswer(ctx, answers, id, value)
	if err != nil {
		s.logger.Warn("MCP record_answer rejected", "question", id, "error", err)
		return StepResponse{}, err
	}
	return s.step(ctx, next), nil
}

func (s *Server) handleDiagnose(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (domain.Report, error) {
	answers, err := s.parseAnswers(args)
	if err != nil {
		return domain.Report{}, err
	}
	return s.engine.Diagnose(ctx, answers), nil
}

func (s *Server) step(ctx context.Context, answers domain.AnswerSet) StepResponse {
	done, total := s.engine.Progress(answers)
	resp := StepResponse{Answers: answers, Done: done, Total: total}
	if q, ok := s.engine.NextQuestion(ctx, answers); ok {
		resp.Question = newQuestion(q)
	} else {
		resp.Complete = true
	}
	return resp
}

// parseAnswers accepts the answers argument as a JSON string or as an object.
func (s *Server) parseAnswers(args map[string]interface{}) (domain.AnswerSet, error) {
	raw := map[string]any{}
	switch v := args["answers"].(type) {
	case nil:
	case string:
		if v != "" {
			if err := json.Unmarshal([]byte(v), &raw); err != nil {
				return nil, fmt.Errorf("%w: answers is not a JSON object: %v", domain.ErrInvalidAnswer, err)
			}
		}
	case map[string]any:
		raw = v
	default:
		return nil, fmt.Errorf("%w: answers has %T value", domain.ErrInvalidAnswer, v)
	}

	answers, err := domain.DecodeAnswers(raw)
	if err != nil {
		return nil, err
	}
	if err := s.engine.ValidateAnswers(answers); err != nil {
		return nil, err
	}
	return answers, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(KnowledgeURI, "Diagnostic Knowledge Base",
		mcp.WithMIMEType("application/json"),
	), s.readKnowledge)

	s.mcpServer.AddResource(mcp.NewResource(GraphURI, "Questionnaire Graph (Mermaid)",
		mcp.WithMIMEType("text/plain"),
	), s.readGraph)
}

func (s *Server) readKnowledge(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	jsonBytes, err := json.Marshal(Knowledge{Questions: s.engine.Questions(), Rules: s.engine.Rules()})
	if err != nil {
		return nil, fmt.Errorf("failed to encode knowledge: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      KnowledgeURI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}

func (s *Server) readGraph(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      GraphURI,
			MIMEType: "text/plain",
			Text:     graph.GenerateMermaid(s.engine.Questions(), s.engine.Rules(), nil),
		},
	}, nil
}
