package news

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zappabad/marketgame/internal/market"
)

func TestParseCatalog(t *testing.T) {
	data := []byte(`[
		{
			"id": "N1",
			"headline": "NovaWorks lands defense contract",
			"summary": "Multi-year award",
			"bullets": ["Guidance raised"],
			"tickers": ["NOVA"],
			"direction": "UP",
			"intensity": "HIGH"
		},
		{
			"id": "N2",
			"headline": "Chip glut hits the sector",
			"sectors": ["Tech"],
			"direction": "DOWN",
			"intensity": "MEDIUM"
		}
	]`)

	items, err := ParseCatalog(data)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, ID("N1"), items[0].ID)
	require.Equal(t, DirectionDown, items[1].Direction)
}

func TestParseCatalogValidation(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"bad json", `{`},
		{"missing id", `[{"headline": "x", "tickers": ["A"], "direction": "UP", "intensity": "LOW"}]`},
		{"duplicate id", `[
			{"id": "N1", "headline": "x", "tickers": ["A"], "direction": "UP", "intensity": "LOW"},
			{"id": "N1", "headline": "y", "tickers": ["B"], "direction": "UP", "intensity": "LOW"}
		]`},
		{"missing headline", `[{"id": "N1", "tickers": ["A"], "direction": "UP", "intensity": "LOW"}]`},
		{"empty scope", `[{"id": "N1", "headline": "x", "direction": "UP", "intensity": "LOW"}]`},
		{"bad direction", `[{"id": "N1", "headline": "x", "tickers": ["A"], "direction": "SIDEWAYS", "intensity": "LOW"}]`},
		{"bad intensity", `[{"id": "N1", "headline": "x", "tickers": ["A"], "direction": "UP", "intensity": "EXTREME"}]`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(tc.body))
			require.Error(t, err)
		})
	}
}

func TestPublicProjectionLeaksNothing(t *testing.T) {
	item := Item{
		ID:        "N1",
		Headline:  "NovaWorks lands defense contract",
		Tickers:   []market.Ticker{"NOVA"},
		Direction: DirectionUp,
		Intensity: IntensityHigh,
	}

	raw, err := json.Marshal(item.Public())
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	for _, hidden := range []string{"direction", "intensity", "tickers", "sectors"} {
		require.NotContains(t, fields, hidden)
	}
	require.Equal(t, "N1", fields["id"])
	// Bullets serialize as an empty list, never null.
	require.Equal(t, []any{}, fields["bullets"])
}
