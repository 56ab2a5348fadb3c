package service

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/zappabad/marketgame/internal/broker"
	"github.com/zappabad/marketgame/internal/market"
	marketservice "github.com/zappabad/marketgame/internal/market/service"
)

var (
	// ErrInvalidOrder is returned for a bad ticker, side or quantity.
	ErrInvalidOrder = errors.New("invalid order")
	// ErrInsufficientFunds is returned when a buy exceeds available cash.
	ErrInsufficientFunds = errors.New("not enough cash")
	// ErrInsufficientHoldings is returned when a sell exceeds the position.
	ErrInsufficientHoldings = errors.New("not enough holdings")
)

// Service executes player orders against the price engine's quotes
// and owns all portfolios. Fills are atomic: a failed trade leaves
// the portfolio untouched. It is not internally synchronized; the
// game world serializes access.
type Service struct {
	cfg        Config
	engine     *marketservice.Engine
	portfolios map[string]*broker.Portfolio
}

// NewService creates a broker over the given price engine.
func NewService(engine *marketservice.Engine, cfg Config) *Service {
	if cfg.RecentTrades <= 0 {
		cfg.RecentTrades = DefaultConfig().RecentTrades
	}
	return &Service{
		cfg:        cfg,
		engine:     engine,
		portfolios: make(map[string]*broker.Portfolio),
	}
}

// EnsurePlayer creates a portfolio on first contact.
func (s *Service) EnsurePlayer(player string) *broker.Portfolio {
	p, ok := s.portfolios[player]
	if !ok {
		p = &broker.Portfolio{
			Player:   player,
			Cash:     s.cfg.StartCash,
			Holdings: make(map[market.Ticker]broker.Holding),
		}
		s.portfolios[player] = p
	}
	return p
}

// Trade validates and executes an order at the spread/slippage
// adjusted fill price. Trading is allowed in every game status.
func (s *Service) Trade(player string, ticker market.Ticker, side broker.Side, qty int64) (broker.Fill, error) {
	if player == "" {
		return broker.Fill{}, fmt.Errorf("%w: missing player", ErrInvalidOrder)
	}
	if qty <= 0 {
		return broker.Fill{}, fmt.Errorf("%w: quantity must be positive", ErrInvalidOrder)
	}
	if side != broker.SideBuy && side != broker.SideSell {
		return broker.Fill{}, fmt.Errorf("%w: bad side %q", ErrInvalidOrder, side)
	}

	fillPx, spreadPct, slipPct, ok := s.engine.ExecQuote(ticker, side == broker.SideBuy, qty)
	if !ok {
		return broker.Fill{}, fmt.Errorf("%w: unknown ticker %s", ErrInvalidOrder, ticker)
	}

	notional := fillPx * float64(qty)
	fee := math.Max(s.cfg.MinFee, notional*s.cfg.FeePct)

	p := s.EnsurePlayer(player)

	switch side {
	case broker.SideBuy:
		cost := notional + fee
		if p.Cash < cost {
			return broker.Fill{}, fmt.Errorf("%w: need %.2f, have %.2f", ErrInsufficientFunds, cost, p.Cash)
		}
		p.Cash -= cost

		h := p.Holdings[ticker]
		newQty := h.Qty + qty
		h.AvgCost = (h.AvgCost*float64(h.Qty) + fillPx*float64(qty)) / float64(newQty)
		h.Qty = newQty
		p.Holdings[ticker] = h

	case broker.SideSell:
		h, held := p.Holdings[ticker]
		if !held || h.Qty < qty {
			return broker.Fill{}, fmt.Errorf("%w: have %d, want to sell %d", ErrInsufficientHoldings, h.Qty, qty)
		}
		p.Cash += notional - fee
		p.RealizedPnL += float64(qty)*(fillPx-h.AvgCost) - fee

		h.Qty -= qty
		if h.Qty == 0 {
			delete(p.Holdings, ticker)
		} else {
			p.Holdings[ticker] = h
		}
	}

	p.Trades = append(p.Trades, broker.TradeRecord{
		ID:        uuid.NewString(),
		Time:      time.Now().Unix(),
		Ticker:    ticker,
		Side:      side,
		Qty:       qty,
		FillPrice: fillPx,
		Fee:       fee,
	})

	return broker.Fill{
		FillPrice: fillPx,
		SpreadPct: spreadPct,
		SlipPct:   slipPct,
		Fee:       fee,
	}, nil
}

// ValueOf returns cash plus marked-to-market holdings for a player.
func (s *Service) ValueOf(player string) float64 {
	p := s.EnsurePlayer(player)
	total := p.Cash
	for t, h := range p.Holdings {
		if px, ok := s.engine.Price(t); ok {
			total += px * float64(h.Qty)
		}
	}
	return total
}

// Snapshot returns the per-poll read model of a player's portfolio,
// with the trade log trimmed to the recent display window.
func (s *Service) Snapshot(player string) broker.Snapshot {
	p := s.EnsurePlayer(player)

	holdingsValue := 0.0
	holdings := make(map[market.Ticker]broker.Holding, len(p.Holdings))
	for t, h := range p.Holdings {
		holdings[t] = h
		if px, ok := s.engine.Price(t); ok {
			holdingsValue += px * float64(h.Qty)
		}
	}

	recent := p.Trades
	if len(recent) > s.cfg.RecentTrades {
		recent = recent[len(recent)-s.cfg.RecentTrades:]
	}
	trades := make([]broker.TradeRecord, len(recent))
	copy(trades, recent)

	return broker.Snapshot{
		Cash:          p.Cash,
		HoldingsValue: holdingsValue,
		TotalValue:    p.Cash + holdingsValue,
		RealizedPnL:   p.RealizedPnL,
		Holdings:      holdings,
		RecentTrades:  trades,
	}
}

// Leaderboard ranks all players by total value descending, ties
// broken by player name ascending.
func (s *Service) Leaderboard() []broker.LeaderboardEntry {
	out := make([]broker.LeaderboardEntry, 0, len(s.portfolios))
	for name := range s.portfolios {
		out = append(out, broker.LeaderboardEntry{
			Player: name,
			Total:  s.ValueOf(name),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Player < out[j].Player
	})
	return out
}

// Players returns the number of registered portfolios.
func (s *Service) Players() int {
	return len(s.portfolios)
}

// Reset deletes every portfolio.
func (s *Service) Reset() {
	s.portfolios = make(map[string]*broker.Portfolio)
}
