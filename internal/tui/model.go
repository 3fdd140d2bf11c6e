package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/passguardian/passguardian-go/internal/clipboard"
	"github.com/passguardian/passguardian-go/internal/model"
)

// Tab is the active panel. Exactly one is active at a time.
type Tab int

const (
	TabCheck Tab = iota
	TabGenerate
)

func (t Tab) String() string {
	if t == TabGenerate {
		return "generate"
	}
	return "check"
}

// Checker scores a password.
type Checker interface {
	Check(ctx context.Context, password string) (model.StrengthResult, model.HistoryEntry, error)
}

// Generator asks for a new password.
type Generator interface {
	Generate(ctx context.Context, settings model.GeneratorSettings) (model.GenerateResponse, model.HistoryEntry, error)
}

// History lists and clears merged history.
type History interface {
	List(ctx context.Context, filter model.HistoryFilter) ([]model.HistoryEntry, error)
	Clear(ctx context.Context) error
}

// Copier writes to the clipboard.
type Copier interface {
	Copy(text string) (clipboard.Method, error)
}

// Services are the side-effecting dependencies of the UI.
type Services struct {
	Checker   Checker
	Generator Generator
	History   History
	Copier    Copier
	// Health is optional; when set its outcome is shown as the backend status.
	Health func(ctx context.Context) error
}

const (
	msgEmptyPassword  = "Please enter a password"
	msgCheckFailed    = "Failed to check password. Make sure the backend server is running."
	msgGenerateFailed = "Failed to generate password. Make sure the backend server is running."
	msgCopyFailed     = "Failed to copy password to clipboard."
	msgRemoteClear    = "History cleared locally; the server history could not be cleared."
)

type backendState int

const (
	backendUnknown backendState = iota
	backendOnline
	backendOffline
)

// Model holds all view state. Every change goes through Update.
type Model struct {
	ctx  context.Context
	svc  Services
	keys keyMap
	help help.Model

	input    textinput.Model
	tab      Tab
	settings model.GeneratorSettings

	result    *model.StrengthResult
	generated string
	genLength int

	copied     bool
	copyGen    int
	resetAfter time.Duration

	history        []model.HistoryEntry
	historyGen     int
	historyOffline bool
	showHistory    bool
	filter         model.HistoryFilter
	confirmClear   bool

	checking       bool
	generating     bool
	loadingHistory bool

	notice  string
	status  string
	backend backendState
	width   int
}

// New builds the initial state on the check tab with default generator settings.
func New(ctx context.Context, svc Services) Model {
	ti := textinput.New()
	ti.Placeholder = "Enter your password"
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '•'
	ti.Prompt = "› "
	ti.CharLimit = 256
	ti.Cursor.SetMode(cursor.CursorStatic)
	ti.Focus()

	return Model{
		ctx:        ctx,
		svc:        svc,
		keys:       defaultKeyMap(),
		help:       help.New(),
		input:      ti,
		tab:        TabCheck,
		settings:   model.DefaultGeneratorSettings(),
		resetAfter: clipboard.ResetAfter,
		history:    []model.HistoryEntry{},
	}
}

// Init loads history and checks backend health.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loadHistoryCmd(m.historyGen)}
	if m.svc.Health != nil {
		cmds = append(cmds, m.healthCmd())
	}
	return tea.Batch(cmds...)
}

// Tab returns the active tab.
func (m Model) Tab() Tab { return m.tab }

// Settings returns the generator settings.
func (m Model) Settings() model.GeneratorSettings { return m.settings }

// Result returns the last strength result, if any.
func (m Model) Result() (model.StrengthResult, bool) {
	if m.result == nil {
		return model.StrengthResult{}, false
	}
	return *m.result, true
}

// Generated returns the last generated password.
func (m Model) Generated() string { return m.generated }

// Copied reports whether the copied indicator is on.
func (m Model) Copied() bool { return m.copied }

// Notice returns the pending blocking notice, if any.
func (m Model) Notice() string { return m.notice }

// Loading reports the in-flight flags.
func (m Model) Loading() (checking, generating bool) { return m.checking, m.generating }

// VisibleHistory returns the history entries that pass the filter.
func (m Model) VisibleHistory() []model.HistoryEntry { return m.filter.Apply(m.history) }

// HistoryShown reports whether the history panel is open.
func (m Model) HistoryShown() bool { return m.showHistory }

// Filter returns the active history filter.
func (m Model) Filter() model.HistoryFilter { return m.filter }
