package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cvscore/internal/domain"
)

type fakeScorer struct {
	complexityErr error
	lastJob       string
}

func (f *fakeScorer) Relevance(_ context.Context, _, jobText string) (domain.RelevanceResult, error) {
	f.lastJob = jobText
	return domain.RelevanceResult{Similarity: 42}, nil
}

func (f *fakeScorer) Suggest(context.Context, string) (domain.SuggestionResult, error) {
	return domain.SuggestionResult{Match: "golang developer docker", Score: 0.5, Keywords: []string{"docker"}}, nil
}

func (f *fakeScorer) Complexity(context.Context, string) (domain.ComplexityResult, error) {
	if f.complexityErr != nil {
		return domain.ComplexityResult{}, f.complexityErr
	}
	return domain.ComplexityResult{Score: 45, Level: "comfortable"}, nil
}

// drain runs cmd and every command batched inside it, collecting messages.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drain(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func submit(t *testing.T, m Model, text string) (Model, []tea.Msg) {
	t.Helper()
	m.input.SetValue(text)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return next.(Model), drain(cmd)
}

func sized(t *testing.T, scorer domain.Scorer) Model {
	t.Helper()
	m := New(context.Background(), scorer, "Senior golang engineer")
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return next.(Model)
}

func TestModelScoresOnEnter(t *testing.T) {
	scorer := &fakeScorer{}
	m := sized(t, scorer)
	assert.Contains(t, m.View(), "No results yet.")

	m, msgs := submit(t, m, "golang developer")
	require.Len(t, msgs, 3)
	assert.Equal(t, "Scoring...", m.status)

	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	assert.Equal(t, "Senior golang engineer", scorer.lastJob)
	assert.Equal(t, 0, m.waiting)
	assert.Equal(t, "Scored 16 characters", m.status)

	view := m.renderReport()
	assert.Contains(t, view, "42%")
	assert.Contains(t, view, "comfortable")
	assert.Contains(t, view, "golang developer docker")
	assert.Contains(t, view, "docker")
}

func TestModelIgnoresBlankInput(t *testing.T) {
	m := sized(t, &fakeScorer{})
	m.input.SetValue("   ")
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	assert.Equal(t, 0, m.round)
	assert.Equal(t, "Ready. Type CV text to score.", m.status)
}

func TestModelDropsSupersededResults(t *testing.T) {
	m := sized(t, &fakeScorer{})
	m, stale := submit(t, m, "first")
	m, _ = submit(t, m, "second")

	for _, msg := range stale {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	assert.Equal(t, 3, m.waiting)
	assert.Equal(t, "Scoring...", m.status)
	assert.Nil(t, m.report.relevance)
}

func TestModelReportsErrors(t *testing.T) {
	m := sized(t, &fakeScorer{complexityErr: errors.New("engine not ready")})
	m, msgs := submit(t, m, "text")
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	assert.Equal(t, "Error: engine not ready", m.status)
	assert.NotNil(t, m.report.relevance)
	assert.Nil(t, m.report.complexity)
}

func TestModelQuitKeys(t *testing.T) {
	m := sized(t, &fakeScorer{})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
