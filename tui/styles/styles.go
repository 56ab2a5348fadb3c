package styles

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	PrimaryColor   = lipgloss.Color("#7C3AED") // Purple
	AccentColor    = lipgloss.Color("#F59E0B") // Amber
	UpColor        = lipgloss.Color("#10B981") // Green
	DownColor      = lipgloss.Color("#EF4444") // Red
	NeutralColor   = lipgloss.Color("#6B7280") // Gray
	BorderColor    = lipgloss.Color("#374151")
	TextColor      = lipgloss.Color("#F9FAFB")
	TextSecondary  = lipgloss.Color("#9CA3AF")
	TextMutedColor = lipgloss.Color("#6B7280")
)

// Panel styles
var (
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(0, 1)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			Padding(0, 1)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(TextSecondary)

	RowStyle = lipgloss.NewStyle().
			Foreground(TextColor)
)

// Text styles
var (
	PriceUpStyle = lipgloss.NewStyle().
			Foreground(UpColor)

	PriceDownStyle = lipgloss.NewStyle().
			Foreground(DownColor)

	MutedStyle = lipgloss.NewStyle().
			Foreground(TextMutedColor)

	HeadlineStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(AccentColor)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(TextSecondary).
			Padding(0, 1)
)

// BadgeStyle colors the per-ticker impact badge.
func BadgeStyle(level string) lipgloss.Style {
	switch level {
	case "DIRECT":
		return lipgloss.NewStyle().Bold(true).Foreground(AccentColor)
	case "SECTOR":
		return lipgloss.NewStyle().Foreground(PrimaryColor)
	case "LINKED":
		return lipgloss.NewStyle().Foreground(TextSecondary)
	}
	return lipgloss.NewStyle().Foreground(TextMutedColor)
}

// PulseStyle colors the reaction pulse label.
func PulseStyle(pulse string) lipgloss.Style {
	switch pulse {
	case "HIGH":
		return lipgloss.NewStyle().Bold(true).Foreground(DownColor)
	case "MEDIUM":
		return lipgloss.NewStyle().Bold(true).Foreground(AccentColor)
	}
	return lipgloss.NewStyle().Foreground(NeutralColor)
}
