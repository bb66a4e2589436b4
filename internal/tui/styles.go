package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/reelkithq/reelkit/pkg/domain"
)

var (
	// Base palette
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e4e4ec")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c0c4d0"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7c6cf0"))

	logoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a294ff")).
			Bold(true)

	// Help bar
	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	helpLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	// Status line + banners
	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#4ade80"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f59e0b"))

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e06060")).
			Bold(true)

	inputPromptStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#7c6cf0")).
				Bold(true)

	inputPlaceholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#343c4a"))

	selectedRowBg = lipgloss.NewStyle().Background(lipgloss.Color("#1e1e2a"))

	// Per-status dot colors, roughly matching the web dashboard badges.
	statusColors = map[domain.Status]lipgloss.Color{
		domain.StatusCreated:    lipgloss.Color("#606878"),
		domain.StatusPending:    lipgloss.Color("#f59e0b"),
		domain.StatusProcessing: lipgloss.Color("#22d3ee"),
		domain.StatusRendering:  lipgloss.Color("#b080d0"),
		domain.StatusCompleted:  lipgloss.Color("#4ade80"),
		domain.StatusFailed:     lipgloss.Color("#e06060"),
	}
)

// StatusStyle returns a bold style colored for the given project status.
func StatusStyle(s domain.Status) lipgloss.Style {
	if c, ok := statusColors[s]; ok {
		return lipgloss.NewStyle().Foreground(c).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#606878")).Bold(true)
}

// spinnerFrames animate next to projects that are still rendering.
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func spinnerFrame(frame int) string {
	return accentStyle.Render(spinnerFrames[frame%len(spinnerFrames)])
}

// helpEntry renders a single "key label" pair for help bars.
func helpEntry(key, label string) string {
	return helpKeyStyle.Render(key) + " " + helpLabelStyle.Render(label)
}
