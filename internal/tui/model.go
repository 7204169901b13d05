package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"cvscore/internal/domain"
)

// Messages carry the round number they answer; answers to an older round
// are ignored, which is how the UI cancels superseded requests.
type relevanceMsg struct {
	round int
	res   domain.RelevanceResult
	err   error
}

type suggestionMsg struct {
	round int
	res   domain.SuggestionResult
	err   error
}

type complexityMsg struct {
	round int
	res   domain.ComplexityResult
	err   error
}

type report struct {
	relevance  *domain.RelevanceResult
	suggestion *domain.SuggestionResult
	complexity *domain.ComplexityResult
	errs       []string
}

// Model is the Bubble Tea model for the interactive scorer.
type Model struct {
	ctx      context.Context
	scorer   domain.Scorer
	jobText  string
	input    textinput.Model
	viewport viewport.Model
	report   report
	round    int
	waiting  int
	status   string
	ready    bool
	lastText string
}

// New creates a new TUI model scoring input against jobText.
func New(ctx context.Context, scorer domain.Scorer, jobText string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Paste CV text and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{ctx: ctx, scorer: scorer, jobText: jobText, input: ti, viewport: vp, status: "Ready. Type CV text to score."}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window and result events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 2 + 1 + qh + 1 // header + job line, status, input box, spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.renderReport())
		return m, nil
	case relevanceMsg:
		if msg.round == m.round {
			m.settle(msg.err)
			if msg.err == nil {
				m.report.relevance = &msg.res
			}
			m.viewport.SetContent(m.renderReport())
		}
		return m, nil
	case suggestionMsg:
		if msg.round == m.round {
			m.settle(msg.err)
			if msg.err == nil {
				m.report.suggestion = &msg.res
			}
			m.viewport.SetContent(m.renderReport())
		}
		return m, nil
	case complexityMsg:
		if msg.round == m.round {
			m.settle(msg.err)
			if msg.err == nil {
				m.report.complexity = &msg.res
			}
			m.viewport.SetContent(m.renderReport())
		}
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		if msg.String() == "enter" {
			text := strings.TrimSpace(m.input.Value())
			if text != "" {
				return m.score(text)
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) score(text string) (tea.Model, tea.Cmd) {
	m.round++
	m.waiting = 3
	m.lastText = text
	m.report = report{}
	m.status = "Scoring..."
	m.viewport.SetContent(m.renderReport())

	ctx, scorer, job, round := m.ctx, m.scorer, m.jobText, m.round
	return m, tea.Batch(
		func() tea.Msg {
			res, err := scorer.Relevance(ctx, text, job)
			return relevanceMsg{round: round, res: res, err: err}
		},
		func() tea.Msg {
			res, err := scorer.Suggest(ctx, text)
			return suggestionMsg{round: round, res: res, err: err}
		},
		func() tea.Msg {
			res, err := scorer.Complexity(ctx, text)
			return complexityMsg{round: round, res: res, err: err}
		},
	)
}

func (m *Model) settle(err error) {
	if err != nil {
		m.report.errs = append(m.report.errs, err.Error())
	}
	m.waiting--
	if m.waiting > 0 {
		return
	}
	if len(m.report.errs) > 0 {
		m.status = "Error: " + strings.Join(m.report.errs, "; ")
	} else {
		m.status = fmt.Sprintf("Scored %d characters", len(m.lastText))
	}
}

// View renders the TUI layout and current report.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("CV Scorer")
	job := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render("Job: " + preview(m.jobText, 100))
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	results := resultBoxStyle.Render(m.viewport.View())
	return header + "\n" + job + "\n" + results + "\n" + input + "\n" + status
}

func (m Model) renderReport() string {
	r := m.report
	if r.relevance == nil && r.suggestion == nil && r.complexity == nil {
		return "No results yet."
	}
	var b strings.Builder
	if r.relevance != nil {
		fmt.Fprintf(&b, "Job match:   %s\n", highlightStyle.Render(fmt.Sprintf("%d%%", r.relevance.Similarity)))
	}
	if r.complexity != nil {
		fmt.Fprintf(&b, "Complexity:  %d (%s)\n", r.complexity.Score, r.complexity.Level)
	}
	if r.suggestion != nil {
		fmt.Fprintf(&b, "\nClosest profile (%.3f):\n  %s\n", r.suggestion.Score, r.suggestion.Match)
		if len(r.suggestion.Keywords) == 0 {
			b.WriteString("\nNo missing keywords.")
		} else {
			kws := make([]string, len(r.suggestion.Keywords))
			for i, k := range r.suggestion.Keywords {
				kws[i] = highlightStyle.Render(k)
			}
			b.WriteString("\nMissing keywords:\n  " + strings.Join(kws, ", "))
		}
	}
	return b.String()
}

var (
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)

func preview(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
