package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/aretw0/autodiag/internal/i18n"
	"github.com/aretw0/autodiag/internal/presentation/tui"
	"github.com/aretw0/autodiag/pkg/domain"
)

// TextHandler implements the interactive console interface.
type TextHandler struct {
	Reader    *bufio.Reader
	Writer    io.Writer
	Renderer  ContentRenderer
	Localizer *i18n.Localizer
	// Clear wipes the screen before each question, as a full-screen console would.
	Clear bool

	inputChan chan inputResult
	startOnce sync.Once
}

type inputResult struct {
	text string
	err  error
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerRenderer configures the markdown renderer used for reports.
func WithTextHandlerRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// WithTextHandlerLocalizer configures the language of the console copy.
func WithTextHandlerLocalizer(loc *i18n.Localizer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Localizer = loc
	}
}

// WithClearScreen clears the terminal before every question.
func WithClearScreen(clear bool) TextHandlerOption {
	return func(h *TextHandler) {
		h.Clear = clear
	}
}

// NewTextHandler creates a handler for standard text IO.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		Reader:    bufio.NewReader(r),
		Writer:    w,
		Localizer: i18n.New(""),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// initPump starts the single reader goroutine. Reads happen off the caller's
// goroutine so Input can return on context cancellation without losing lines.
func (h *TextHandler) initPump() {
	h.startOnce.Do(func() {
		h.inputChan = make(chan inputResult)
		go h.pump()
	})
}

func (h *TextHandler) pump() {
	for {
		text, err := h.Reader.ReadString('\n')
		if text != "" {
			h.inputChan <- inputResult{text: text}
		}
		if err != nil {
			if err != io.EOF {
				h.inputChan <- inputResult{err: err}
			}
			close(h.inputChan)
			return
		}
	}
}

// Question prints the progress bar, the counter and the yes/no menu.
func (h *TextHandler) Question(ctx context.Context, q domain.Question, done, total int) error {
	if h.Clear {
		tui.ClearScreen(h.Writer)
	}
	loc := h.Localizer
	fmt.Fprintf(h.Writer, "\n%s: %s\n", loc.T(i18n.Progress), tui.ProgressBar(done, total))
	fmt.Fprintf(h.Writer, "\n%s\n", loc.T(i18n.QuestionCounter, done+1, total))
	fmt.Fprintf(h.Writer, "\n%s\n\n", q.Prompt)
	fmt.Fprintln(h.Writer, loc.T(i18n.OptionYes))
	fmt.Fprintln(h.Writer, loc.T(i18n.OptionNo))
	fmt.Fprintf(h.Writer, "\n%s", loc.T(i18n.Choose))
	return nil
}

// Input returns the next sanitized line, or ctx.Err() when ctx is done first.
func (h *TextHandler) Input(ctx context.Context) (string, error) {
	h.initPump()

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case res, ok := <-h.inputChan:
			if !ok {
				return "", io.EOF
			}
			if res.err != nil {
				return "", res.err
			}
			clean, err := SanitizeInput(strings.TrimSpace(res.text))
			if err != nil {
				fmt.Fprintf(h.Writer, "Error: %v\n", err)
				continue
			}
			return clean, nil
		}
	}
}

// Report renders the report markdown through the Renderer when one is set.
func (h *TextHandler) Report(ctx context.Context, report domain.Report) error {
	output := tui.ReportMarkdown(h.Localizer, report)
	if h.Renderer != nil {
		if rendered, err := h.Renderer(output); err == nil {
			output = rendered
		}
	}
	_, err := fmt.Fprintln(h.Writer, "\n"+strings.TrimSpace(output))
	return err
}

func (h *TextHandler) SystemOutput(ctx context.Context, msg string) error {
	_, err := fmt.Fprintf(h.Writer, "\n%s\n", msg)
	return err
}
