package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/passguardian/passguardian-go/internal/clipboard"
	"github.com/passguardian/passguardian-go/internal/model"
)

type checkDoneMsg struct {
	result model.StrengthResult
	err    error
}

type generateDoneMsg struct {
	resp model.GenerateResponse
	err  error
}

type historyLoadedMsg struct {
	gen     int
	entries []model.HistoryEntry
	err     error
}

type historyClearedMsg struct {
	err error
}

type copiedMsg struct {
	method clipboard.Method
	err    error
}

type copyResetMsg struct {
	gen int
}

type healthMsg struct {
	err error
}

func (m Model) checkCmd(password string) tea.Cmd {
	ctx, svc := m.ctx, m.svc.Checker
	return func() tea.Msg {
		res, _, err := svc.Check(ctx, password)
		return checkDoneMsg{result: res, err: err}
	}
}

func (m Model) generateCmd(settings model.GeneratorSettings) tea.Cmd {
	ctx, svc := m.ctx, m.svc.Generator
	return func() tea.Msg {
		resp, _, err := svc.Generate(ctx, settings)
		return generateDoneMsg{resp: resp, err: err}
	}
}

// loadHistoryCmd fetches everything; filtering happens at render time.
// gen tags the result so that a superseded load can be dropped.
func (m Model) loadHistoryCmd(gen int) tea.Cmd {
	ctx, svc := m.ctx, m.svc.History
	return func() tea.Msg {
		entries, err := svc.List(ctx, model.FilterAll)
		return historyLoadedMsg{gen: gen, entries: entries, err: err}
	}
}

// reloadHistory supersedes any load in flight and starts a new one.
func (m Model) reloadHistory() (Model, tea.Cmd) {
	m.historyGen++
	m.loadingHistory = true
	return m, m.loadHistoryCmd(m.historyGen)
}

func (m Model) clearHistoryCmd() tea.Cmd {
	ctx, svc := m.ctx, m.svc.History
	return func() tea.Msg {
		return historyClearedMsg{err: svc.Clear(ctx)}
	}
}

func (m Model) copyCmd(text string) tea.Cmd {
	svc := m.svc.Copier
	return func() tea.Msg {
		method, err := svc.Copy(text)
		return copiedMsg{method: method, err: err}
	}
}

func copyResetCmd(after time.Duration, gen int) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return copyResetMsg{gen: gen}
	})
}

func (m Model) healthCmd() tea.Cmd {
	ctx, health := m.ctx, m.svc.Health
	return func() tea.Msg {
		return healthMsg{err: health(ctx)}
	}
}
