package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/aretw0/autodiag/pkg/domain"
)

// Event types emitted by JSONHandler.
const (
	EventQuestion = "question"
	EventReport   = "report"
	EventSystem   = "system"
)

// Event is one JSON line written by JSONHandler.
type Event struct {
	Type     string           `json:"type"`
	Question *domain.Question `json:"question,omitempty"`
	Done     int              `json:"done,omitempty"`
	Total    int              `json:"total,omitempty"`
	Report   *domain.Report   `json:"report,omitempty"`
	Message  string           `json:"message,omitempty"`
}

// JSONHandler implements the IOHandler interface for structured JSON-Lines communication.
type JSONHandler struct {
	Reader  *bufio.Reader
	Writer  io.Writer
	Encoder *json.Encoder
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{
		Reader:  bufio.NewReader(r),
		Writer:  w,
		Encoder: json.NewEncoder(w),
	}
}

func (h *JSONHandler) Question(ctx context.Context, q domain.Question, done, total int) error {
	return h.Encoder.Encode(Event{Type: EventQuestion, Question: &q, Done: done, Total: total})
}

// Input reads one line. JSON booleans and JSON strings are unwrapped; anything else is returned raw.
func (h *JSONHandler) Input(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	text, err := h.Reader.ReadString('\n')
	if err != nil && (err != io.EOF || text == "") {
		return "", err
	}
	text = strings.TrimSpace(text)

	var b bool
	if err := json.Unmarshal([]byte(text), &b); err == nil {
		if b {
			return "true", nil
		}
		return "false", nil
	}
	var s string
	if err := json.Unmarshal([]byte(text), &s); err == nil {
		return s, nil
	}
	return text, nil
}

func (h *JSONHandler) Report(ctx context.Context, report domain.Report) error {
	return h.Encoder.Encode(Event{Type: EventReport, Report: &report})
}

func (h *JSONHandler) SystemOutput(ctx context.Context, msg string) error {
	return h.Encoder.Encode(Event{Type: EventSystem, Message: msg})
}
