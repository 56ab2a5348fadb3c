package market

// Ticker uniquely identifies a listed company.
type Ticker string

// Sector groups companies for news spillover purposes.
type Sector string

// Company represents a listed instrument in the game catalog.
// Catalog data is immutable after load; only the live price state
// held by the price engine changes during a game.
type Company struct {
	Ticker     Ticker  `json:"ticker"`
	Name       string  `json:"name"`
	Sector     Sector  `json:"sector"`
	StartPrice float64 `json:"start_price"`
}

// ImpactLevel classifies how a news shock reaches a ticker.
type ImpactLevel string

const (
	ImpactNone   ImpactLevel = "NONE"
	ImpactDirect ImpactLevel = "DIRECT"
	ImpactSector ImpactLevel = "SECTOR"
	ImpactLinked ImpactLevel = "LINKED"
)

// Quote is the derived bid/ask around the current mark price.
type Quote struct {
	Bid       float64 `json:"bid"`
	Ask       float64 `json:"ask"`
	SpreadPct float64 `json:"spread_pct"`
}

// Bar is one OHLC candle covering a fixed number of ticks.
type Bar struct {
	Time  int64   `json:"ts"`
	Open  float64 `json:"o"`
	High  float64 `json:"h"`
	Low   float64 `json:"l"`
	Close float64 `json:"c"`
}
