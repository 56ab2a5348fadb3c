package panels

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/zappabad/marketgame/internal/game"
	"github.com/zappabad/marketgame/tui/styles"
)

// LeaderboardPanel shows player rankings and the top-movers feed.
type LeaderboardPanel struct {
	snap    *game.StateSnapshot
	maxRows int
	width   int
	height  int
}

// NewLeaderboardPanel creates a leaderboard panel.
func NewLeaderboardPanel() *LeaderboardPanel {
	return &LeaderboardPanel{maxRows: 10}
}

// SetSnapshot installs the latest state poll.
func (p *LeaderboardPanel) SetSnapshot(snap *game.StateSnapshot) {
	p.snap = snap
}

// SetSize updates the panel dimensions.
func (p *LeaderboardPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// View renders the panel.
func (p *LeaderboardPanel) View() string {
	var content strings.Builder

	if p.snap == nil || len(p.snap.Leaderboard) == 0 {
		content.WriteString(styles.MutedStyle.Render("No players yet"))
	} else {
		content.WriteString(styles.HeaderStyle.Render(fmt.Sprintf("%-4s %-18s %14s", "#", "PLAYER", "TOTAL")))
		content.WriteString("\n")
		for i, entry := range p.snap.Leaderboard {
			if i >= p.maxRows {
				break
			}
			content.WriteString(styles.RowStyle.Render(
				fmt.Sprintf("%-4d %-18s %14.2f", i+1, truncate(entry.Player, 18), entry.Total)))
			content.WriteString("\n")
		}
	}

	if p.snap != nil && len(p.snap.Movers) > 0 {
		content.WriteString("\n")
		content.WriteString(styles.HeaderStyle.Render("TOP MOVERS"))
		content.WriteString("\n")
		for _, m := range p.snap.Movers {
			style := styles.PriceUpStyle
			if m.Pct < 0 {
				style = styles.PriceDownStyle
			}
			content.WriteString(fmt.Sprintf("%-6s %10.2f %s\n",
				m.Ticker, m.Price, style.Render(fmt.Sprintf("%+6.2f%%", m.Pct*100))))
		}
	}

	return styles.PanelStyle.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			styles.TitleStyle.Render("Leaderboard"),
			content.String(),
		))
}
