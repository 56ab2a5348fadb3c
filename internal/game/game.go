package game

import (
	"crypto/subtle"
	"errors"
	"math"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/zappabad/marketgame/internal/broker"
	brokerservice "github.com/zappabad/marketgame/internal/broker/service"
	"github.com/zappabad/marketgame/internal/market"
	marketservice "github.com/zappabad/marketgame/internal/market/service"
	"github.com/zappabad/marketgame/internal/news"
	newsservice "github.com/zappabad/marketgame/internal/news/service"
)

// Status is the round state machine position.
type Status string

const (
	StatusWaiting Status = "WAITING"
	StatusActive  Status = "ACTIVE"
	StatusEnded   Status = "ENDED"
)

var (
	// ErrNotWaiting is returned by Start when the game already ran.
	ErrNotWaiting = errors.New("game is not waiting")
	// ErrNotActive is returned by AdvanceRound outside an active game.
	ErrNotActive = errors.New("game is not active")
	// ErrUnauthorized is returned when the admin secret does not match.
	ErrUnauthorized = errors.New("unauthorized")
)

// Game is the single world: catalog, engines, portfolios and the
// round clock, all guarded by one lock. Every external operation
// (tick, trade, admin action, poll) serializes on it, so each caller
// sees a consistent snapshot.
type Game struct {
	cfg Config
	log *zap.Logger

	mu      sync.Mutex
	catalog *market.Catalog
	engine  *marketservice.Engine
	news    *newsservice.Service
	broker  *brokerservice.Service

	status        Status
	round         int
	roundDeadline time.Time

	// now is injectable so round-clock tests control wall time.
	now func() time.Time

	closed    chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// New wires up a game world over the company catalog and news items.
func New(catalog *market.Catalog, items []news.Item, cfg Config, log *zap.Logger) *Game {
	if log == nil {
		log = zap.NewNop()
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	engine := marketservice.NewEngine(catalog, cfg.Market, rng)

	return &Game{
		cfg:     cfg,
		log:     log,
		catalog: catalog,
		engine:  engine,
		news:    newsservice.NewService(items, engine, cfg.News, rng),
		broker:  brokerservice.NewService(engine, cfg.Broker),
		status:  StatusWaiting,
		now:     time.Now,
		closed:  make(chan struct{}),
	}
}

// Run starts the background tick loop.
func (g *Game) Run() {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		ticker := time.NewTicker(g.cfg.TickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-g.closed:
				return
			case <-ticker.C:
				g.Tick(g.now())
			}
		}
	}()
}

// Close stops the tick loop.
func (g *Game) Close() {
	g.closeOnce.Do(func() {
		close(g.closed)
	})
	g.wg.Wait()
}

// Tick advances the world by one market tick. Only an active game
// moves prices; the countdown derives from the round deadline in wall
// time, so coalesced ticks never stretch a round.
func (g *Game) Tick(now time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.status != StatusActive {
		return
	}

	g.engine.Advance(now.Unix())

	// Displayed news and shock decay have independent lifecycles; the
	// headline clears once nothing is in flight anymore.
	if g.engine.ActiveShocks() == 0 && g.news.Current() != nil {
		g.news.ClearCurrent()
	}

	if !now.Before(g.roundDeadline) {
		g.advanceRoundLocked(now)
	}
}

func (g *Game) advanceRoundLocked(now time.Time) {
	if g.round >= g.cfg.Rounds {
		g.status = StatusEnded
		g.log.Info("game ended", zap.Int("round", g.round))
		return
	}
	g.round++
	g.roundDeadline = now.Add(time.Duration(g.cfg.RoundSeconds) * time.Second)
	g.log.Info("round started", zap.Int("round", g.round))
}

// Start moves WAITING to ACTIVE and opens round 1.
func (g *Game) Start() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.status != StatusWaiting {
		return ErrNotWaiting
	}
	g.status = StatusActive
	g.round = 0
	g.advanceRoundLocked(g.now())
	return nil
}

// AdvanceRound forces the countdown-zero transition, skipping the
// rest of the current round.
func (g *Game) AdvanceRound() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.status != StatusActive {
		return ErrNotActive
	}
	g.advanceRoundLocked(g.now())
	return nil
}

// Reset returns the world to its initial state: start prices, fresh
// histories, no shocks, no portfolios, WAITING at round 0.
func (g *Game) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.engine.Reset(g.now().Unix())
	g.news.Reset()
	g.broker.Reset()
	g.status = StatusWaiting
	g.round = 0
	g.roundDeadline = time.Time{}
	g.log.Info("game reset")
}

// CheckAdmin compares the supplied secret in constant time.
func (g *Game) CheckAdmin(password string) bool {
	return subtle.ConstantTimeCompare([]byte(password), []byte(g.cfg.AdminPassword)) == 1
}

// Authorize is CheckAdmin with the error taxonomy: a mismatch returns
// ErrUnauthorized and nothing about how close the guess was.
func (g *Game) Authorize(password string) error {
	if !g.CheckAdmin(password) {
		return ErrUnauthorized
	}
	return nil
}

// TriggerNews fires a catalog item by id.
func (g *Game) TriggerNews(id news.ID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	res, err := g.news.Trigger(id)
	if err != nil {
		return err
	}
	g.log.Info("news triggered",
		zap.String("id", string(id)),
		zap.Int("affected", res.Affected))
	return nil
}

// TriggerRandomNews fires a random untriggered catalog item.
func (g *Game) TriggerRandomNews() (news.ID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	id, res, err := g.news.TriggerRandom()
	if err != nil {
		return "", err
	}
	g.log.Info("random news triggered",
		zap.String("id", string(id)),
		zap.Int("affected", res.Affected))
	return id, nil
}

// SetReactionTicks adjusts the decay window length for future shocks.
func (g *Game) SetReactionTicks(n int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.engine.SetShockTicks(n)
}

// Trade executes a player order. Trading is allowed in every status.
func (g *Game) Trade(player string, ticker market.Ticker, side broker.Side, qty int64) (broker.Fill, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.broker.Trade(player, ticker, side, qty)
}

// EnsurePlayer registers a portfolio on first join.
func (g *Game) EnsurePlayer(player string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.broker.EnsurePlayer(player)
}

func (g *Game) timerSecondsLocked(now time.Time) int {
	if g.status != StatusActive {
		return 0
	}
	left := g.roundDeadline.Sub(now).Seconds()
	if left < 0 {
		return 0
	}
	return int(math.Ceil(left))
}

// Bootstrap is the read-once catalog payload.
type Bootstrap struct {
	Companies []market.Company `json:"companies"`
	Sectors   []market.Sector  `json:"sectors"`
}

// StateSnapshot is the per-poll read model of the whole world.
type StateSnapshot struct {
	Round        int                                  `json:"round"`
	Status       Status                               `json:"status"`
	TimerSeconds int                                  `json:"timer_s"`
	News         *news.PublicItem                     `json:"news"`
	Prices       map[market.Ticker]float64            `json:"prices"`
	Quotes       map[market.Ticker]market.Quote       `json:"quotes"`
	History      map[market.Ticker][]float64          `json:"history"`
	OHLC         map[market.Ticker][]market.Bar       `json:"ohlc"`
	ReactionMeta marketservice.ReactionMeta           `json:"reaction_meta"`
	ImpactMap    map[market.Ticker]market.ImpactLevel `json:"impact_map"`
	Leaderboard  []broker.LeaderboardEntry            `json:"leaderboard"`
	Movers       []marketservice.Mover                `json:"movers,omitempty"`
	Portfolio    *broker.Snapshot                     `json:"portfolio,omitempty"`
}

// AdminState is the headline-only summary for the admin console.
type AdminState struct {
	Round        int    `json:"round"`
	Status       Status `json:"status"`
	TimerSeconds int    `json:"timer_s"`
	Headline     string `json:"headline,omitempty"`
}

// GetBootstrap returns the immutable catalog payload.
func (g *Game) GetBootstrap() Bootstrap {
	return Bootstrap{
		Companies: g.catalog.Companies(),
		Sectors:   g.catalog.Sectors(),
	}
}

// Snapshot assembles a consistent view of the world. Players get an
// all-NONE impact map so badges never hint at upcoming moves; the
// presenter gets the real classification. Movers ride along only for
// the presenter feed.
func (g *Game) Snapshot(player string, presenter bool) StateSnapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	view := g.engine.View()
	tickers := g.catalog.Tickers()

	quotes := make(map[market.Ticker]market.Quote, len(tickers))
	history := make(map[market.Ticker][]float64, len(tickers))
	ohlc := make(map[market.Ticker][]market.Bar, len(tickers))
	for _, t := range tickers {
		if q, ok := g.engine.Quote(t); ok {
			quotes[t] = q
		}
		history[t] = view.History(t)
		ohlc[t] = view.Bars(t)
	}

	impact := make(map[market.Ticker]market.ImpactLevel, len(tickers))
	if presenter {
		impact = g.engine.ImpactLevels()
	} else {
		for _, t := range tickers {
			impact[t] = market.ImpactNone
		}
	}

	snap := StateSnapshot{
		Round:        g.round,
		Status:       g.status,
		TimerSeconds: g.timerSecondsLocked(g.now()),
		News:         g.news.CurrentPublic(),
		Prices:       g.engine.Prices(),
		Quotes:       quotes,
		History:      history,
		OHLC:         ohlc,
		ReactionMeta: g.engine.ReactionMeta(),
		ImpactMap:    impact,
		Leaderboard:  g.broker.Leaderboard(),
	}

	if presenter {
		snap.Movers = g.engine.Movers(g.cfg.MoversN)
	}
	if player != "" {
		p := g.broker.Snapshot(player)
		snap.Portfolio = &p
	}
	return snap
}

// AdminNews returns full catalog records, hidden fields included.
func (g *Game) AdminNews() []news.Item {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.news.Catalog()
}

// GetAdminState returns the headline-only world summary.
func (g *Game) GetAdminState() AdminState {
	g.mu.Lock()
	defer g.mu.Unlock()

	s := AdminState{
		Round:        g.round,
		Status:       g.status,
		TimerSeconds: g.timerSecondsLocked(g.now()),
	}
	if cur := g.news.Current(); cur != nil {
		s.Headline = cur.Headline
	}
	return s
}

// GetStatus returns the current state machine position.
func (g *Game) GetStatus() Status {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.status
}

// GetRound returns the current round number.
func (g *Game) GetRound() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.round
}

// SetClock injects a wall-clock source for tests.
func (g *Game) SetClock(now func() time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.now = now
}

// Engine exposes the price engine for in-process consumers.
func (g *Game) Engine() *marketservice.Engine {
	return g.engine
}
