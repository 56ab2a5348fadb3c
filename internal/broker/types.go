package broker

import (
	"strings"

	"github.com/zappabad/marketgame/internal/market"
)

// Side is the direction of an order.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// ParseSide normalizes a side string; ok is false for anything that
// is not BUY or SELL.
func ParseSide(s string) (Side, bool) {
	switch Side(strings.ToUpper(strings.TrimSpace(s))) {
	case SideBuy:
		return SideBuy, true
	case SideSell:
		return SideSell, true
	}
	return "", false
}

// Holding is a player's position in one ticker.
type Holding struct {
	Qty     int64   `json:"qty"`
	AvgCost float64 `json:"avg"`
}

// TradeRecord is one fill appended to a portfolio's trade log.
type TradeRecord struct {
	ID        string        `json:"id"`
	Time      int64         `json:"ts"`
	Ticker    market.Ticker `json:"ticker"`
	Side      Side          `json:"side"`
	Qty       int64         `json:"qty"`
	FillPrice float64       `json:"fill"`
	Fee       float64       `json:"fee"`
}

// Fill reports the execution costs of a trade back to the caller.
type Fill struct {
	FillPrice float64 `json:"fill_price"`
	SpreadPct float64 `json:"spread_pct"`
	SlipPct   float64 `json:"slip_pct"`
	Fee       float64 `json:"fee"`
}

// Portfolio is one player's account: cash, holdings at average cost,
// realized P&L and the append-only trade log.
type Portfolio struct {
	Player      string
	Cash        float64
	Holdings    map[market.Ticker]Holding
	RealizedPnL float64
	Trades      []TradeRecord
}

// Snapshot is the per-poll read model of a portfolio.
type Snapshot struct {
	Cash          float64                   `json:"cash"`
	HoldingsValue float64                   `json:"holdings_value"`
	TotalValue    float64                   `json:"total_value"`
	RealizedPnL   float64                   `json:"realized_pnl"`
	Holdings      map[market.Ticker]Holding `json:"holdings"`
	RecentTrades  []TradeRecord             `json:"recent_trades"`
}

// LeaderboardEntry ranks one player by total portfolio value.
type LeaderboardEntry struct {
	Player string  `json:"player"`
	Total  float64 `json:"total"`
}
