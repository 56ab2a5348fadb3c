package panels

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/zappabad/marketgame/internal/game"
	"github.com/zappabad/marketgame/tui/styles"
)

// NewsPanel displays the currently running headline and the reaction
// meter. It only ever receives the public news projection, so there
// is nothing here that could leak direction or intensity.
type NewsPanel struct {
	snap   *game.StateSnapshot
	width  int
	height int
}

// NewNewsPanel creates a news panel.
func NewNewsPanel() *NewsPanel {
	return &NewsPanel{}
}

// SetSnapshot installs the latest state poll.
func (p *NewsPanel) SetSnapshot(snap *game.StateSnapshot) {
	p.snap = snap
}

// SetSize updates the panel dimensions.
func (p *NewsPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// View renders the panel.
func (p *NewsPanel) View() string {
	var content strings.Builder

	if p.snap == nil || p.snap.News == nil {
		content.WriteString(styles.MutedStyle.Render("No breaking news"))
		return p.frame(content.String())
	}

	item := p.snap.News
	content.WriteString(styles.HeadlineStyle.Render(item.Headline))
	content.WriteString("\n")
	if item.Summary != "" {
		content.WriteString(styles.RowStyle.Render(item.Summary))
		content.WriteString("\n")
	}
	for _, b := range item.Bullets {
		content.WriteString(styles.MutedStyle.Render("  • " + b))
		content.WriteString("\n")
	}

	meta := p.snap.ReactionMeta
	if meta.Active {
		content.WriteString("\n")
		content.WriteString(fmt.Sprintf("%s  affected: %d  %s",
			styles.PulseStyle(meta.Pulse).Render("pulse "+meta.Pulse),
			meta.Affected,
			progressBar(meta.Progress, 24),
		))
	}

	return p.frame(content.String())
}

func progressBar(pct, width int) string {
	filled := pct * width / 100
	if filled > width {
		filled = width
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return styles.MutedStyle.Render(bar)
}

func (p *NewsPanel) frame(body string) string {
	return styles.PanelStyle.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			styles.TitleStyle.Render("Breaking News"),
			body,
		))
}
