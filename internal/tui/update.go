package tui

import (
	"errors"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/passguardian/passguardian-go/internal/model"
	"github.com/passguardian/passguardian-go/internal/service"
	"github.com/passguardian/passguardian-go/internal/validation"
)

// Update is the single entry point for every action.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case checkDoneMsg:
		m.checking = false
		if msg.err != nil {
			m.notice = checkFailureNotice(msg.err)
			return m, nil
		}
		res := msg.result
		m.result = &res
		return m.reloadHistory()

	case generateDoneMsg:
		m.generating = false
		if msg.err != nil {
			m.notice = generateFailureNotice(msg.err)
			return m, nil
		}
		res := msg.resp.Result()
		m.result = &res
		m.generated = msg.resp.Password
		m.genLength = msg.resp.Length
		m.copied = false
		return m.reloadHistory()

	case historyLoadedMsg:
		// A load started before a newer load or a clear must not
		// bring back what that clear removed.
		if msg.gen != m.historyGen {
			return m, nil
		}
		m.loadingHistory = false
		m.historyOffline = msg.err != nil
		if msg.entries != nil {
			m.history = msg.entries
		}
		return m, nil

	case historyClearedMsg:
		if errors.Is(msg.err, service.ErrRemoteClearFailed) {
			m.status = msgRemoteClear
		}
		return m, nil

	case copiedMsg:
		if msg.err != nil {
			m.notice = msgCopyFailed
			return m, nil
		}
		m.copied = true
		m.copyGen++
		return m, copyResetCmd(m.resetAfter, m.copyGen)

	case copyResetMsg:
		// An older timer must not cut a newer copy's indicator short.
		if msg.gen == m.copyGen {
			m.copied = false
		}
		return m, nil

	case healthMsg:
		if msg.err != nil {
			m.backend = backendOffline
		} else {
			m.backend = backendOnline
		}
		return m, nil
	}

	return m.updateInput(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	// A notice blocks until acknowledged.
	if m.notice != "" {
		m.notice = ""
		return m, nil
	}

	if m.confirmClear {
		switch {
		case key.Matches(msg, m.keys.Confirm):
			m.confirmClear = false
			m.history = []model.HistoryEntry{}
			m.historyGen++
			m.loadingHistory = false
			m.status = ""
			return m, m.clearHistoryCmd()
		case key.Matches(msg, m.keys.Cancel):
			m.confirmClear = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.SwitchTab):
		return m.switchTab(), nil

	case key.Matches(msg, m.keys.ToggleHistory):
		m.showHistory = !m.showHistory
		if m.showHistory {
			return m.reloadHistory()
		}
		return m, nil

	case key.Matches(msg, m.keys.CycleFilter):
		m.filter = m.filter.Next()
		return m, nil

	case key.Matches(msg, m.keys.ClearHistory):
		m.confirmClear = true
		return m, nil

	case key.Matches(msg, m.keys.Submit):
		if m.tab == TabCheck {
			return m.submitCheck()
		}
		return m.submitGenerate()
	}

	if m.tab == TabGenerate {
		return m.handleSettingsKey(msg)
	}
	return m.updateInput(msg)
}

func (m Model) switchTab() Model {
	if m.tab == TabCheck {
		m.tab = TabGenerate
		m.input.Blur()
	} else {
		m.tab = TabCheck
		m.input.Focus()
	}
	return m
}

func (m Model) submitCheck() (tea.Model, tea.Cmd) {
	if m.checking {
		return m, nil
	}
	password := m.input.Value()
	if password == "" {
		m.notice = msgEmptyPassword
		return m, nil
	}
	m.checking = true
	return m, m.checkCmd(password)
}

func (m Model) submitGenerate() (tea.Model, tea.Cmd) {
	if m.generating {
		return m, nil
	}
	m.generating = true
	return m, m.generateCmd(m.settings)
}

func (m Model) handleSettingsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Shorter):
		m.settings = m.settings.WithLength(m.settings.Length - 1)
	case key.Matches(msg, m.keys.Longer):
		m.settings = m.settings.WithLength(m.settings.Length + 1)
	case key.Matches(msg, m.keys.Uppercase):
		m.settings.UseUppercase = !m.settings.UseUppercase
	case key.Matches(msg, m.keys.Numbers):
		m.settings.UseNumbers = !m.settings.UseNumbers
	case key.Matches(msg, m.keys.Symbols):
		m.settings.UseSymbols = !m.settings.UseSymbols
	case key.Matches(msg, m.keys.Copy):
		if m.generated == "" {
			return m, nil
		}
		return m, m.copyCmd(m.generated)
	}
	return m, nil
}

func (m Model) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.tab != TabCheck {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func checkFailureNotice(err error) string {
	if errors.Is(err, service.ErrEmptyPassword) {
		return msgEmptyPassword
	}
	return msgCheckFailed
}

func generateFailureNotice(err error) string {
	var fe validation.FieldError
	if errors.As(err, &fe) {
		return "Invalid settings: " + fe.Error()
	}
	return msgGenerateFailed
}
