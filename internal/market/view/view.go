package view

import (
	"sync"

	"github.com/zappabad/marketgame/internal/market"
)

// priceRing is a bounded append-only buffer of prices.
// Oldest entries are overwritten once capacity is reached.
type priceRing struct {
	buf   []float64
	size  int
	start int
	count int
}

func newPriceRing(capacity int) *priceRing {
	return &priceRing{buf: make([]float64, capacity), size: capacity}
}

func (r *priceRing) push(px float64) {
	if r.count < r.size {
		r.buf[(r.start+r.count)%r.size] = px
		r.count++
		return
	}
	// overwrite oldest
	r.buf[r.start] = px
	r.start = (r.start + 1) % r.size
}

// values returns the ring contents in chronological order (oldest first).
func (r *priceRing) values() []float64 {
	out := make([]float64, r.count)
	for i := 0; i < r.count; i++ {
		out[i] = r.buf[(r.start+i)%r.size]
	}
	return out
}

type barRing struct {
	buf   []market.Bar
	size  int
	start int
	count int
}

func newBarRing(capacity int) *barRing {
	return &barRing{buf: make([]market.Bar, capacity), size: capacity}
}

func (r *barRing) push(b market.Bar) {
	if r.count < r.size {
		r.buf[(r.start+r.count)%r.size] = b
		r.count++
		return
	}
	r.buf[r.start] = b
	r.start = (r.start + 1) % r.size
}

func (r *barRing) last() *market.Bar {
	if r.count == 0 {
		return nil
	}
	return &r.buf[(r.start+r.count-1)%r.size]
}

func (r *barRing) values() []market.Bar {
	out := make([]market.Bar, r.count)
	for i := 0; i < r.count; i++ {
		out[i] = r.buf[(r.start+i)%r.size]
	}
	return out
}

// MarketView maintains per-ticker bounded price history and OHLC bars
// for charting. The price engine records into it once per tick.
type MarketView struct {
	mu sync.RWMutex

	historySize int
	barSize     int
	barPeriod   int

	history  map[market.Ticker]*priceRing
	bars     map[market.Ticker]*barRing
	barTicks map[market.Ticker]int
}

// NewMarketView creates a view with the given history capacity, bar
// capacity and bar period (in ticks).
func NewMarketView(historySize, barSize, barPeriod int) *MarketView {
	if historySize <= 0 {
		historySize = 30
	}
	if barSize <= 0 {
		barSize = 80
	}
	if barPeriod <= 0 {
		barPeriod = 10
	}
	return &MarketView{
		historySize: historySize,
		barSize:     barSize,
		barPeriod:   barPeriod,
		history:     make(map[market.Ticker]*priceRing),
		bars:        make(map[market.Ticker]*barRing),
		barTicks:    make(map[market.Ticker]int),
	}
}

// Seed initializes a ticker's history with its start price. The
// history ring is pre-filled so sparklines render flat lines at game
// start instead of growing from empty.
func (v *MarketView) Seed(t market.Ticker, startPrice float64, now int64) {
	v.mu.Lock()
	defer v.mu.Unlock()

	hr := newPriceRing(v.historySize)
	for i := 0; i < v.historySize; i++ {
		hr.push(startPrice)
	}
	v.history[t] = hr

	br := newBarRing(v.barSize)
	br.push(market.Bar{Time: now, Open: startPrice, High: startPrice, Low: startPrice, Close: startPrice})
	v.bars[t] = br
	v.barTicks[t] = 0
}

// Record appends a tick price, updating the open OHLC bar and rolling
// a new bar once per bar period.
func (v *MarketView) Record(t market.Ticker, px float64, now int64) {
	v.mu.Lock()
	defer v.mu.Unlock()

	hr, ok := v.history[t]
	if !ok {
		return
	}
	hr.push(px)

	br := v.bars[t]
	v.barTicks[t]++
	if v.barTicks[t] >= v.barPeriod {
		br.push(market.Bar{Time: now, Open: px, High: px, Low: px, Close: px})
		v.barTicks[t] = 0
		return
	}
	if b := br.last(); b != nil {
		if px > b.High {
			b.High = px
		}
		if px < b.Low {
			b.Low = px
		}
		b.Close = px
	}
}

// History returns the bounded price history for a ticker, oldest first.
func (v *MarketView) History(t market.Ticker) []float64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	hr, ok := v.history[t]
	if !ok {
		return nil
	}
	return hr.values()
}

// Bars returns the OHLC bars for a ticker, oldest first.
func (v *MarketView) Bars(t market.Ticker) []market.Bar {
	v.mu.RLock()
	defer v.mu.RUnlock()
	br, ok := v.bars[t]
	if !ok {
		return nil
	}
	return br.values()
}

// HistoryLen returns the current history length for a ticker.
func (v *MarketView) HistoryLen(t market.Ticker) int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	hr, ok := v.history[t]
	if !ok {
		return 0
	}
	return hr.count
}
