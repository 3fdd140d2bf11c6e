package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/passguardian/passguardian-go/internal/model"
)

// Rating colors.
const (
	ColorWeak    = lipgloss.Color("#ff4d4d")
	ColorMedium  = lipgloss.Color("#ffa64d")
	ColorStrong  = lipgloss.Color("#33cc33")
	ColorNeutral = lipgloss.Color("#666")
)

// RatingColor maps a rating to its display color.
func RatingColor(r model.Rating) lipgloss.Color {
	switch r {
	case model.RatingWeak:
		return ColorWeak
	case model.RatingMedium:
		return ColorMedium
	case model.RatingStrong:
		return ColorStrong
	default:
		return ColorNeutral
	}
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#61dafb"))
	subtleStyle   = lipgloss.NewStyle().Foreground(ColorNeutral)
	activeTab     = lipgloss.NewStyle().Bold(true).Underline(true).Padding(0, 1)
	inactiveTab   = lipgloss.NewStyle().Foreground(ColorNeutral).Padding(0, 1)
	buttonStyle   = lipgloss.NewStyle().Bold(true).Padding(0, 1).Border(lipgloss.RoundedBorder())
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	noticeStyle   = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(ColorWeak).Padding(0, 1)
	passwordStyle = lipgloss.NewStyle().Bold(true)
	passStyle     = lipgloss.NewStyle().Foreground(ColorStrong)
	failStyle     = lipgloss.NewStyle().Foreground(ColorWeak)
)

func ratingStyle(r model.Rating) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(RatingColor(r))
}
