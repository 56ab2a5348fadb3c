package panels

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/zappabad/marketgame/internal/game"
	"github.com/zappabad/marketgame/internal/market"
	"github.com/zappabad/marketgame/tui/styles"
)

// MarketPanel displays the live market table: price, tick change,
// spread and the impact badge for every company.
type MarketPanel struct {
	companies []market.Company
	snap      *game.StateSnapshot
	width     int
	height    int
}

// NewMarketPanel creates a market table panel.
func NewMarketPanel() *MarketPanel {
	return &MarketPanel{}
}

// SetCompanies installs the bootstrap catalog, ordering rows by
// sector then ticker.
func (p *MarketPanel) SetCompanies(companies []market.Company) {
	p.companies = make([]market.Company, len(companies))
	copy(p.companies, companies)
	sort.Slice(p.companies, func(i, j int) bool {
		if p.companies[i].Sector != p.companies[j].Sector {
			return p.companies[i].Sector < p.companies[j].Sector
		}
		return p.companies[i].Ticker < p.companies[j].Ticker
	})
}

// SetSnapshot installs the latest state poll.
func (p *MarketPanel) SetSnapshot(snap *game.StateSnapshot) {
	p.snap = snap
}

// SetSize updates the panel dimensions.
func (p *MarketPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// View renders the panel.
func (p *MarketPanel) View() string {
	var content strings.Builder

	content.WriteString(styles.HeaderStyle.Render(
		fmt.Sprintf("%-6s %-22s %-12s %10s %8s %8s %8s",
			"TICKER", "NAME", "SECTOR", "PRICE", "CHG", "SPREAD", "IMPACT")))
	content.WriteString("\n")

	if p.snap == nil {
		content.WriteString(styles.MutedStyle.Render("waiting for market data..."))
		return p.frame(content.String())
	}

	for _, co := range p.companies {
		px := p.snap.Prices[co.Ticker]

		chg := 0.0
		if hist := p.snap.History[co.Ticker]; len(hist) >= 2 {
			prev := hist[len(hist)-2]
			if prev != 0 {
				chg = (px - prev) / prev
			}
		}

		chgStyle := styles.MutedStyle
		if chg > 0 {
			chgStyle = styles.PriceUpStyle
		} else if chg < 0 {
			chgStyle = styles.PriceDownStyle
		}

		spread := p.snap.Quotes[co.Ticker].SpreadPct
		badge := string(p.snap.ImpactMap[co.Ticker])

		row := fmt.Sprintf("%-6s %-22s %-12s %10.2f %s %7.2f%% %s",
			co.Ticker,
			truncate(co.Name, 22),
			co.Sector,
			px,
			chgStyle.Render(fmt.Sprintf("%+7.2f%%", chg*100)),
			spread*100,
			styles.BadgeStyle(badge).Render(badge),
		)
		content.WriteString(row)
		content.WriteString("\n")
	}

	return p.frame(content.String())
}

func (p *MarketPanel) frame(body string) string {
	return styles.PanelStyle.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			styles.TitleStyle.Render("Market"),
			body,
		))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
