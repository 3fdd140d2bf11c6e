package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/passguardian/passguardian-go/internal/model"
	"github.com/passguardian/passguardian-go/internal/traits"
)

// View renders the current state.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("PassGuardian"))
	b.WriteString("  ")
	b.WriteString(subtleStyle.Render(m.backendLabel()))
	b.WriteString("\n")
	b.WriteString(subtleStyle.Render("Check your password strength"))
	b.WriteString("\n\n")

	b.WriteString(m.viewTabs())
	b.WriteString("\n\n")

	if m.tab == TabCheck {
		b.WriteString(m.viewCheck())
	} else {
		b.WriteString(m.viewGenerate())
	}

	if m.result != nil {
		b.WriteString("\n")
		b.WriteString(viewResult(*m.result))
	}

	if m.showHistory {
		b.WriteString("\n")
		b.WriteString(m.viewHistory())
	}

	b.WriteString("\n")
	b.WriteString(viewInfo())

	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(subtleStyle.Render(m.status))
	}

	switch {
	case m.notice != "":
		b.WriteString("\n")
		b.WriteString(noticeStyle.Render(m.notice + "\n" + subtleStyle.Render("press any key to continue")))
	case m.confirmClear:
		b.WriteString("\n")
		b.WriteString(noticeStyle.Render("Clear all password history? (y/n)"))
	}

	b.WriteString("\n")
	if m.tab == TabCheck {
		b.WriteString(m.help.View(m.keys.checkHelp()))
	} else {
		b.WriteString(m.help.View(m.keys.generateHelp()))
	}
	b.WriteString("\n")
	return b.String()
}

func (m Model) backendLabel() string {
	switch m.backend {
	case backendOnline:
		return "● backend online"
	case backendOffline:
		return "○ backend offline"
	default:
		return ""
	}
}

func (m Model) viewTabs() string {
	check, gen := inactiveTab, inactiveTab
	if m.tab == TabCheck {
		check = activeTab
	} else {
		gen = activeTab
	}
	hist := "History (ctrl+r)"
	if m.showHistory {
		hist = "Hide History (ctrl+r)"
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		check.Render("Check Password"),
		gen.Render("Generate Password"),
		inactiveTab.Render(hist),
	)
}

func (m Model) viewCheck() string {
	label := "Check Strength"
	if m.checking {
		label = "Checking..."
	}
	return m.input.View() + "\n" + buttonStyle.Render(label)
}

func (m Model) viewGenerate() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Length: ‹ %d › (%d-%d)\n", m.settings.Length, model.MinGenerateLength, model.MaxGenerateLength)
	b.WriteString(checkbox(m.settings.UseUppercase, "Uppercase letters (A-Z)", "u"))
	b.WriteString(checkbox(m.settings.UseNumbers, "Numbers (0-9)", "n"))
	b.WriteString(checkbox(m.settings.UseSymbols, "Symbols (!@#$...)", "s"))
	settings := panelStyle.Render(strings.TrimRight(b.String(), "\n"))

	label := "Generate Password"
	if m.generating {
		label = "Generating..."
	}
	out := settings + "\n" + buttonStyle.Render(label)

	if m.generated != "" {
		copyLabel := "press c to copy"
		if m.copied {
			copyLabel = "✓ Copied!"
		}
		out += "\n" + passwordStyle.Render(m.generated) +
			"\n" + subtleStyle.Render(model.LengthLabel(m.genLength)) +
			"  " + copyLabel
	}
	return out
}

func checkbox(on bool, label, hotkey string) string {
	mark := "[ ]"
	if on {
		mark = "[x]"
	}
	return fmt.Sprintf("%s %s (%s)\n", mark, label, hotkey)
}

func viewResult(res model.StrengthResult) string {
	var b strings.Builder
	b.WriteString("Password Strength: ")
	b.WriteString(ratingStyle(res.Rating).Render(string(res.Rating)))
	b.WriteString("\n")
	for _, line := range res.Feedback {
		style := failStyle
		if traits.Passing(line) {
			style = passStyle
		}
		b.WriteString("  ")
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) viewHistory() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Password History  filter: %s", m.filter)
	if m.loadingHistory {
		b.WriteString("  loading...")
	}
	if m.historyOffline {
		b.WriteString("  (server unavailable, showing local history)")
	}
	b.WriteString("\n")

	entries := m.VisibleHistory()
	if len(entries) == 0 {
		b.WriteString(subtleStyle.Render("No history yet."))
		return panelStyle.Render(b.String())
	}
	for _, e := range entries {
		b.WriteString(historyLine(e))
		b.WriteString("\n")
	}
	return panelStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func historyLine(e model.HistoryEntry) string {
	when := e.Timestamp
	if t := e.Time(); !t.IsZero() {
		when = t.Local().Format("2006-01-02 15:04")
	}

	kind := "checked"
	if e.IsGenerated() {
		kind = "generated"
	}

	classes := []string{flag(e.HasUppercase, "A-Z"), flag(e.HasLowercase, "a-z"), flag(e.HasNumbers, "0-9"), flag(e.HasSymbols, "#!")}
	line := fmt.Sprintf("%s  %-9s  %s  %2d chars  %s",
		when, kind, ratingStyle(e.Rating).Render(fmt.Sprintf("%-6s", e.Rating)), e.Length, strings.Join(classes, " "))
	if e.IsCommon {
		line += "  " + failStyle.Render("common")
	}
	return line
}

func flag(on bool, label string) string {
	if on {
		return label
	}
	return strings.Repeat("·", len([]rune(label)))
}

func viewInfo() string {
	return subtleStyle.Render(strings.Join([]string{
		"How PassGuardian works:",
		"  • Checks if password is at least 12 characters long",
		"  • Looks for uppercase and lowercase letters",
		"  • Verifies inclusion of numbers and special characters",
		"  • Compares against common passwords",
	}, "\n"))
}
