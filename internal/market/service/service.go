package service

import (
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/zappabad/marketgame/internal/market"
	marketview "github.com/zappabad/marketgame/internal/market/view"
)

// ShockRequest describes a news shock handed to the engine.
type ShockRequest struct {
	NewsID  string
	Tickers []market.Ticker
	Sectors []market.Sector
	Up      bool
	// Intensity selects the shock profile: LOW, MEDIUM or HIGH.
	Intensity string
}

// ShockResult reports how a shock landed.
type ShockResult struct {
	Levels   map[market.Ticker]market.ImpactLevel
	Affected int
}

// ReactionMeta summarizes the current aggregate market reaction for
// display. Direction and intensity of the underlying news are not
// derivable from it.
type ReactionMeta struct {
	Active   bool   `json:"active"`
	Pulse    string `json:"pulse"`
	Affected int    `json:"affected"`
	Progress int    `json:"progress"`
}

// Mover is one entry of the presenter's top-movers feed.
type Mover struct {
	Ticker market.Ticker `json:"ticker"`
	Name   string        `json:"name"`
	Sector market.Sector `json:"sector"`
	Price  float64       `json:"price"`
	Pct    float64       `json:"pct"`
}

// activeShock is a live decaying impact created by one triggered news
// item. Contributions fade geometrically each tick and the shock is
// removed once its life runs out.
type activeShock struct {
	newsID    string
	life      int
	totalLife int

	// Per-ticker signed drift and unsigned vol boost at full strength.
	drift    map[market.Ticker]float64
	volBoost map[market.Ticker]float64
	weights  map[market.Ticker]float64
	levels   map[market.Ticker]market.ImpactLevel

	// Floor-move enforcement: price at trigger and the total move the
	// window should guarantee on DIRECT names.
	startPrice map[market.Ticker]float64
	minMove    float64
}

func (s *activeShock) decay(decayPerTick float64) float64 {
	elapsed := s.totalLife - s.life
	return math.Pow(decayPerTick, float64(elapsed))
}

// Engine owns per-company price state and evolves it each tick with
// background noise plus the contributions of all live shocks. It is
// not internally synchronized; the game world serializes access.
type Engine struct {
	cfg     Config
	catalog *market.Catalog
	rng     *rand.Rand
	view    *marketview.MarketView

	prices     map[market.Ticker]float64
	prevPrices map[market.Ticker]float64
	vol        map[market.Ticker]float64
	trend      map[market.Ticker]float64
	fairValue  map[market.Ticker]float64
	liquidity  map[market.Ticker]float64

	shocks []*activeShock
	tick   int64
}

// NewEngine creates a price engine over the catalog. A nil rng gets a
// time-seeded source; tests inject a fixed seed for determinism.
func NewEngine(catalog *market.Catalog, cfg Config, rng *rand.Rand) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	e := &Engine{
		cfg:     cfg,
		catalog: catalog,
		rng:     rng,
		view:    marketview.NewMarketView(cfg.HistorySize, cfg.BarSize, cfg.BarPeriodTicks),
	}
	e.init(time.Now().Unix())
	return e
}

func (e *Engine) init(now int64) {
	n := e.catalog.Size()
	e.prices = make(map[market.Ticker]float64, n)
	e.prevPrices = make(map[market.Ticker]float64, n)
	e.vol = make(map[market.Ticker]float64, n)
	e.trend = make(map[market.Ticker]float64, n)
	e.fairValue = make(map[market.Ticker]float64, n)
	e.liquidity = make(map[market.Ticker]float64, n)
	e.shocks = nil
	e.tick = 0

	for _, co := range e.catalog.Companies() {
		t := co.Ticker
		e.prices[t] = co.StartPrice
		e.prevPrices[t] = co.StartPrice
		e.vol[t] = math.Max(e.cfg.MinVol, e.baseVol(co.Sector)*e.uniform(0.85, 1.15))
		e.trend[t] = 0
		e.fairValue[t] = co.StartPrice
		e.liquidity[t] = e.baseLiquidity(co.Sector) * e.uniform(0.85, 1.15)
		e.view.Seed(t, co.StartPrice, now)
	}
}

// Reset restores every company to its start price and clears shocks,
// histories and derived dynamics.
func (e *Engine) Reset(now int64) {
	e.view = marketview.NewMarketView(e.cfg.HistorySize, e.cfg.BarSize, e.cfg.BarPeriodTicks)
	e.init(now)
}

func (e *Engine) baseVol(s market.Sector) float64 {
	if v, ok := e.cfg.BaseVolBySector[s]; ok {
		return v
	}
	return e.cfg.DefaultBaseVol
}

func (e *Engine) baseLiquidity(s market.Sector) float64 {
	if v, ok := e.cfg.LiquidityBySector[s]; ok {
		return v
	}
	return e.cfg.DefaultLiquidity
}

func (e *Engine) uniform(lo, hi float64) float64 {
	return lo + e.rng.Float64()*(hi-lo)
}

// shockContribution returns the signed drift and vol boost a ticker
// receives this tick. Overlapping shocks do not stack: the single
// strongest contribution wins.
func (e *Engine) shockContribution(t market.Ticker) (drift, volBoost float64, level market.ImpactLevel) {
	level = market.ImpactNone
	var bestAbs float64
	for _, s := range e.shocks {
		d := s.drift[t] * s.decay(e.cfg.ShockDecay)
		if math.Abs(d) > bestAbs {
			bestAbs = math.Abs(d)
			drift = d
			level = s.levels[t]
		}
		if vb := s.volBoost[t] * s.decay(e.cfg.ShockDecay); vb > volBoost {
			volBoost = vb
		}
	}
	return drift, volBoost, level
}

// Advance evolves every price by one tick: volatility clustering plus
// shock vol boost, trend decay, mean reversion toward a slow-moving
// fair value, a gaussian log return and the shock drift, with the
// price floored at a small positive epsilon. A catalog with zero
// companies is a no-op.
func (e *Engine) Advance(now int64) {
	e.tick++

	for t, px := range e.prices {
		e.prevPrices[t] = px
	}

	for _, co := range e.catalog.Companies() {
		t := co.Ticker
		px := e.prices[t]

		drift, volBoost, _ := e.shockContribution(t)

		baseV := e.baseVol(co.Sector)
		e.vol[t] = math.Max(e.cfg.MinVol,
			e.cfg.VolSmooth*e.vol[t]+(1-e.cfg.VolSmooth)*baseV+volBoost)

		e.trend[t] *= e.cfg.TrendDecay

		// Mean reversion is damped while the name is shocked so news
		// moves are not immediately pulled back.
		if fv := e.fairValue[t]; fv > 0 {
			mispricing := (px - fv) / fv
			calm := math.Max(0, 1-math.Min(1, volBoost*420))
			e.trend[t] -= e.cfg.MeanRevertK * mispricing * calm
		}

		eps := e.rng.NormFloat64()
		r := e.trend[t] + drift + e.vol[t]*eps

		px2 := math.Max(e.cfg.PriceFloor, px*math.Exp(r))
		e.prices[t] = px2
		e.fairValue[t] = e.cfg.FairSmooth*e.fairValue[t] + (1-e.cfg.FairSmooth)*px2
	}

	e.enforceMinimumMove()

	for _, co := range e.catalog.Companies() {
		e.view.Record(co.Ticker, e.prices[co.Ticker], now)
	}

	// Age shocks after their contribution has been applied.
	live := e.shocks[:0]
	for _, s := range e.shocks {
		s.life--
		if s.life > 0 {
			live = append(live, s)
		}
	}
	e.shocks = live
}

// enforceMinimumMove guarantees impacted tickers drift noticeably over
// the reaction window even when noise happens to cancel the shock.
// The nudge follows the shock's own sign, so no direction leaks that
// was not already priced in.
func (e *Engine) enforceMinimumMove() {
	for _, s := range e.shocks {
		if s.minMove <= 0 || s.totalLife == 0 {
			continue
		}
		progress := float64(s.totalLife-s.life) / float64(s.totalLife)
		targetSoFar := s.minMove * progress

		for t, w := range s.weights {
			if w <= 0 {
				continue
			}
			start := s.startPrice[t]
			if start <= 0 {
				continue
			}
			cur := e.prices[t]
			moved := math.Abs((cur - start) / start)
			req := targetSoFar * w
			if moved >= req {
				continue
			}
			sign := 1.0
			if s.drift[t] < 0 {
				sign = -1
			}
			gap := math.Min(0.0030, req-moved)
			e.prices[t] = math.Max(e.cfg.PriceFloor, cur*(1+sign*gap))
		}
	}
}

// ApplyShock registers a new decaying shock: an immediate gap move on
// every impacted ticker plus drift and vol-boost contributions over
// the reaction window. Multiple shocks may coexist; overlapping
// impacts combine by max, not sum.
func (e *Engine) ApplyShock(req ShockRequest) ShockResult {
	profile, ok := e.cfg.Profiles[req.Intensity]
	if !ok {
		profile = e.cfg.Profiles["LOW"]
	}
	sign := 1.0
	if !req.Up {
		sign = -1
	}

	weights, levels, signs := e.collectImpacts(req.Tickers, req.Sectors, req.Up)

	s := &activeShock{
		newsID:     req.NewsID,
		life:       e.cfg.ShockTicks,
		totalLife:  e.cfg.ShockTicks,
		drift:      make(map[market.Ticker]float64),
		volBoost:   make(map[market.Ticker]float64),
		weights:    weights,
		levels:     levels,
		startPrice: make(map[market.Ticker]float64),
		minMove:    e.cfg.MinMoveTargets[req.Intensity],
	}

	// One draw per shock, scaled per ticker by weight, so a DIRECT
	// name always moves strictly more than a SECTOR or LINKED one.
	jump := e.uniform(profile.JumpLo, profile.JumpHi)
	trendPerTick := e.uniform(profile.TrendLo, profile.TrendHi)
	volBoost := e.uniform(profile.VolLo, profile.VolHi)

	affected := 0
	for t, w := range weights {
		if w <= 0 {
			continue
		}
		affected++
		tickSign := sign * signs[t]

		e.prices[t] = math.Max(e.cfg.PriceFloor, e.prices[t]*(1+jump*w*tickSign))

		s.drift[t] = trendPerTick * w * tickSign
		s.volBoost[t] = volBoost * w
		s.startPrice[t] = e.prices[t]
	}

	e.shocks = append(e.shocks, s)
	return ShockResult{Levels: levels, Affected: affected}
}

// collectImpacts resolves a shock's scope into per-ticker weights,
// impact levels and relative signs. Directly named tickers take
// DIRECT; sector-scoped news makes every member DIRECT when no ticker
// is named; remaining members of shocked sectors take SECTOR; sectors
// linked to a shocked one take LINKED. Inverse links fire on UP news
// only and push the opposite way at reduced weight.
func (e *Engine) collectImpacts(tickers []market.Ticker, sectors []market.Sector, up bool) (
	map[market.Ticker]float64, map[market.Ticker]market.ImpactLevel, map[market.Ticker]float64,
) {
	direct := make(map[market.Ticker]bool, len(tickers))
	for _, t := range tickers {
		if e.catalog.Has(t) {
			direct[t] = true
		}
	}

	sectorSet := make(map[market.Sector]bool, len(sectors))
	for _, s := range sectors {
		sectorSet[s] = true
	}

	// Sector news with no named tickers hits every member directly.
	if len(direct) == 0 && len(sectorSet) > 0 {
		for s := range sectorSet {
			for _, t := range e.catalog.SectorMembers(s) {
				direct[t] = true
			}
		}
	}

	linked := make(map[market.Sector]bool)
	for s := range sectorSet {
		for _, ls := range e.cfg.SectorLinks[s] {
			linked[ls] = true
		}
	}

	weights := make(map[market.Ticker]float64, e.catalog.Size())
	levels := make(map[market.Ticker]market.ImpactLevel, e.catalog.Size())
	signs := make(map[market.Ticker]float64, e.catalog.Size())

	for _, co := range e.catalog.Companies() {
		t := co.Ticker
		signs[t] = 1
		switch {
		case direct[t]:
			weights[t] = e.cfg.DirectWeight
			levels[t] = market.ImpactDirect
		case sectorSet[co.Sector]:
			weights[t] = e.cfg.SectorWeight
			levels[t] = market.ImpactSector
		case linked[co.Sector]:
			weights[t] = e.cfg.LinkedWeight
			levels[t] = market.ImpactLinked
		default:
			weights[t] = 0
			levels[t] = market.ImpactNone
		}
	}

	if up {
		inverse := make(map[market.Sector]bool)
		for src := range sectorSet {
			for _, inv := range e.cfg.SectorInverse[src] {
				inverse[inv] = true
			}
		}
		// Inverse is more specific than plain link spillover and
		// overrides it; DIRECT and SECTOR impacts stay as they are.
		for _, co := range e.catalog.Companies() {
			t := co.Ticker
			if !inverse[co.Sector] || weights[t] >= e.cfg.SectorWeight {
				continue
			}
			weights[t] = e.cfg.InverseWeight
			signs[t] = -1
			levels[t] = market.ImpactLinked
		}
	}

	return weights, levels, signs
}

// Price returns a ticker's current mark price.
func (e *Engine) Price(t market.Ticker) (float64, bool) {
	px, ok := e.prices[t]
	return px, ok
}

// Prices returns a copy of all current prices.
func (e *Engine) Prices() map[market.Ticker]float64 {
	out := make(map[market.Ticker]float64, len(e.prices))
	for t, px := range e.prices {
		out[t] = px
	}
	return out
}

// Quote derives the current bid/ask for a ticker. The spread widens
// with volatility and is capped.
func (e *Engine) Quote(t market.Ticker) (market.Quote, bool) {
	mid, ok := e.prices[t]
	if !ok {
		return market.Quote{}, false
	}
	spread := e.spreadPct(t)
	return market.Quote{
		Bid:       mid * (1 - spread/2),
		Ask:       mid * (1 + spread/2),
		SpreadPct: spread,
	}, true
}

func (e *Engine) spreadPct(t market.Ticker) float64 {
	s := e.cfg.BaseSpreadPct + e.vol[t]*e.cfg.SpreadVolK
	return math.Max(e.cfg.BaseSpreadPct, math.Min(e.cfg.MaxSpreadPct, s))
}

// ExecQuote computes the fill price for a trade of the given size:
// mid adjusted by half the spread plus size- and volatility-dependent
// slippage, against the taker on both sides.
func (e *Engine) ExecQuote(t market.Ticker, buy bool, qty int64) (fill, spreadPct, slipPct float64, ok bool) {
	mid, ok := e.prices[t]
	if !ok {
		return 0, 0, 0, false
	}
	spreadPct = e.spreadPct(t)

	liq := math.Max(500, e.liquidity[t])
	slip := e.cfg.BaseSlipPct + e.cfg.SlipQtyK*float64(qty)/liq + e.cfg.SlipVolK*e.vol[t]
	slipPct = math.Max(e.cfg.BaseSlipPct, math.Min(e.cfg.MaxSlipPct, slip))

	if buy {
		fill = mid * (1 + spreadPct/2 + slipPct)
	} else {
		fill = mid * (1 - spreadPct/2 - slipPct)
	}
	return fill, spreadPct, slipPct, true
}

// ImpactLevels returns the per-ticker badge for the market table: the
// level of the strongest live shock touching each ticker, NONE when
// nothing is in flight.
func (e *Engine) ImpactLevels() map[market.Ticker]market.ImpactLevel {
	out := make(map[market.Ticker]market.ImpactLevel, e.catalog.Size())
	for _, t := range e.catalog.Tickers() {
		_, _, level := e.shockContribution(t)
		out[t] = level
	}
	return out
}

// ReactionMeta reports the aggregate reaction state: active while any
// shock is in flight, with a pulse level derived from the mean
// magnitude across impacted tickers and progress from the newest
// shock's elapsed life.
func (e *Engine) ReactionMeta() ReactionMeta {
	if len(e.shocks) == 0 {
		return ReactionMeta{Pulse: "CALM"}
	}

	latest := e.shocks[len(e.shocks)-1]
	affected := 0
	var magSum float64
	for t, w := range latest.weights {
		if w <= 0 {
			continue
		}
		affected++
		d, vb, _ := e.shockContribution(t)
		magSum += math.Abs(d) + vb
	}

	meanMag := 0.0
	if affected > 0 {
		meanMag = magSum / float64(affected)
	}
	pulse := "CALM"
	switch {
	case meanMag >= 0.0025:
		pulse = "HIGH"
	case meanMag >= 0.0012:
		pulse = "MEDIUM"
	}

	progress := 100 * (latest.totalLife - latest.life) / latest.totalLife
	if progress > 100 {
		progress = 100
	}

	return ReactionMeta{
		Active:   true,
		Pulse:    pulse,
		Affected: affected,
		Progress: progress,
	}
}

// Movers returns the top-n companies by absolute percentage move
// since the previous tick.
func (e *Engine) Movers(n int) []Mover {
	out := make([]Mover, 0, e.catalog.Size())
	for _, co := range e.catalog.Companies() {
		px := e.prices[co.Ticker]
		last := e.prevPrices[co.Ticker]
		pct := 0.0
		if last != 0 {
			pct = (px - last) / last
		}
		out = append(out, Mover{
			Ticker: co.Ticker,
			Name:   co.Name,
			Sector: co.Sector,
			Price:  px,
			Pct:    pct,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return math.Abs(out[i].Pct) > math.Abs(out[j].Pct)
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// SetShockTicks adjusts the reaction window length for future shocks.
func (e *Engine) SetShockTicks(n int) {
	if n > 0 {
		e.cfg.ShockTicks = n
	}
}

// ShockTicks returns the configured reaction window length.
func (e *Engine) ShockTicks() int {
	return e.cfg.ShockTicks
}

// ActiveShocks returns the number of shocks currently in flight.
func (e *Engine) ActiveShocks() int {
	return len(e.shocks)
}

// View exposes the per-ticker history and OHLC bars.
func (e *Engine) View() *marketview.MarketView {
	return e.view
}

// Catalog returns the engine's company catalog.
func (e *Engine) Catalog() *market.Catalog {
	return e.catalog
}
