package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/autodiag/internal/i18n"
	"github.com/aretw0/autodiag/pkg/domain"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	promptStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("81"))

	optionStyle = lipgloss.NewStyle().
			PaddingLeft(2).
			Foreground(lipgloss.Color("205"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("208"))
)

// Session is the subset of the engine the interactive model drives.
type Session interface {
	NextQuestion(ctx context.Context, answers domain.AnswerSet) (domain.Question, bool)
	RecordAnswer(ctx context.Context, answers domain.AnswerSet, id string, value bool) (domain.AnswerSet, error)
	Diagnose(ctx context.Context, answers domain.AnswerSet) domain.Report
	Progress(answers domain.AnswerSet) (done, total int)
}

// Model is the full-screen questionnaire.
type Model struct {
	ctx     context.Context
	session Session
	loc     *i18n.Localizer
	render  func(string) (string, error)

	answers  domain.AnswerSet
	current  domain.Question
	report   *domain.Report
	notice   string
	bar      progress.Model
	viewport viewport.Model

	// Restart is set when the user asked for another diagnosis from the report screen.
	Restart bool
	// Cancelled is set when the user quit before the report was shown.
	Cancelled bool
}

// NewModel prepares a fresh session.
func NewModel(ctx context.Context, session Session, loc *i18n.Localizer, render func(string) (string, error)) *Model {
	m := &Model{
		ctx:      ctx,
		session:  session,
		loc:      loc,
		render:   render,
		answers:  domain.NewAnswerSet(),
		bar:      progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		viewport: viewport.New(80, 20),
	}
	m.advance()
	return m
}

// Report returns the final report, nil while questions remain.
func (m *Model) Report() *domain.Report {
	return m.report
}

// Answers returns the answers recorded so far.
func (m *Model) Answers() domain.AnswerSet {
	return m.answers
}

func (m *Model) advance() {
	q, ok := m.session.NextQuestion(m.ctx, m.answers)
	if ok {
		m.current = q
		return
	}
	report := m.session.Diagnose(m.ctx, m.answers)
	m.report = &report

	content := ReportMarkdown(m.loc, report)
	if m.render != nil {
		if rendered, err := m.render(content); err == nil {
			content = rendered
		}
	}
	m.viewport.SetContent(content)
}

func (m *Model) answer(value bool) {
	next, err := m.session.RecordAnswer(m.ctx, m.answers, m.current.ID, value)
	if err != nil {
		m.notice = err.Error()
		return
	}
	m.notice = ""
	m.answers = next
	m.advance()
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.bar.Width = min(msg.Width-4, 60)
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - 4 // minus header/footer
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.Cancelled = m.report == nil
			return m, tea.Quit
		}

		if m.report != nil {
			switch msg.String() {
			case "r", "s", "y":
				m.Restart = true
				return m, tea.Quit
			case "enter", "n":
				return m, tea.Quit
			}
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

		switch strings.ToLower(msg.String()) {
		case "1", "s", "y":
			m.answer(true)
		case "2", "n":
			m.answer(false)
		default:
			m.notice = m.loc.T(i18n.InvalidChoice)
		}
		return m, nil
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(m.loc.T(i18n.Title)))
	sb.WriteString("\n\n")

	if m.report != nil {
		sb.WriteString(m.viewport.View())
		sb.WriteString("\n")
		sb.WriteString(dimStyle.Render(m.loc.T(i18n.Restart)))
		return sb.String()
	}

	done, total := m.session.Progress(m.answers)
	percent := 0.0
	if total > 0 {
		percent = float64(done) / float64(total)
	}
	sb.WriteString(fmt.Sprintf("%s: %s (%d/%d)\n\n", m.loc.T(i18n.Progress), m.bar.ViewAs(percent), done, total))
	sb.WriteString(dimStyle.Render(m.loc.T(i18n.QuestionCounter, done+1, total)))
	sb.WriteString("\n\n")
	sb.WriteString(promptStyle.Render(m.current.Prompt))
	sb.WriteString("\n\n")
	sb.WriteString(optionStyle.Render(m.loc.T(i18n.OptionYes)))
	sb.WriteString("\n")
	sb.WriteString(optionStyle.Render(m.loc.T(i18n.OptionNo)))
	sb.WriteString("\n")
	if m.notice != "" {
		sb.WriteString("\n")
		sb.WriteString(warnStyle.Render(m.notice))
		sb.WriteString("\n")
	}
	return sb.String()
}

// RunInteractive drives sessions full-screen until the user stops restarting.
func RunInteractive(ctx context.Context, session Session, loc *i18n.Localizer) error {
	render := NewRenderer()
	for {
		m := NewModel(ctx, session, loc, render)
		p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
		if _, err := p.Run(); err != nil {
			return err
		}
		if !m.Restart {
			return nil
		}
	}
}
