package news

import "github.com/zappabad/marketgame/internal/market"

// ID uniquely identifies a news item in the catalog.
type ID string

// Direction is the sign of a news item's intended price move.
type Direction string

const (
	DirectionUp   Direction = "UP"
	DirectionDown Direction = "DOWN"
)

// Intensity is the magnitude class of a news item.
type Intensity string

const (
	IntensityLow    Intensity = "LOW"
	IntensityMedium Intensity = "MEDIUM"
	IntensityHigh   Intensity = "HIGH"
)

// Item is the full internal news record. Direction, intensity and
// scope are only ever serialized through the Admin projection;
// players and the presenter see the Public projection.
type Item struct {
	ID       ID       `json:"id"`
	Headline string   `json:"headline"`
	Summary  string   `json:"summary"`
	Body     string   `json:"body"`
	Bullets  []string `json:"bullets"`

	Tickers   []market.Ticker `json:"tickers"`
	Sectors   []market.Sector `json:"sectors"`
	Direction Direction       `json:"direction"`
	Intensity Intensity       `json:"intensity"`
}

// PublicItem is the player/presenter projection of a news item. It
// deliberately carries no direction, intensity or scope fields.
type PublicItem struct {
	ID       ID       `json:"id"`
	Headline string   `json:"headline"`
	Summary  string   `json:"summary"`
	Body     string   `json:"body"`
	Bullets  []string `json:"bullets"`
}

// Public returns the projection safe to show players and presenters.
func (i Item) Public() PublicItem {
	bullets := i.Bullets
	if bullets == nil {
		bullets = []string{}
	}
	return PublicItem{
		ID:       i.ID,
		Headline: i.Headline,
		Summary:  i.Summary,
		Body:     i.Body,
		Bullets:  bullets,
	}
}
