package market

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewCatalogIndexes(t *testing.T) {
	cat, err := NewCatalog([]Company{
		{Ticker: "NOVA", Name: "NovaWorks", Sector: "Tech", StartPrice: 100},
		{Ticker: "QBIT", Name: "QuantumBit", Sector: "Tech", StartPrice: 80},
		{Ticker: "WAVE", Name: "WaveLine", Sector: "Telecom", StartPrice: 50},
	})
	require.NoError(t, err)

	require.Equal(t, 3, cat.Size())
	require.True(t, cat.Has("NOVA"))
	require.False(t, cat.Has("NOPE"))

	co, ok := cat.Lookup("QBIT")
	require.True(t, ok)
	require.Equal(t, "QuantumBit", co.Name)

	require.Equal(t, Sector("Telecom"), cat.SectorOf("WAVE"))
	require.ElementsMatch(t, []Ticker{"NOVA", "QBIT"}, cat.SectorMembers("Tech"))
	require.Equal(t, []Sector{"Tech", "Telecom"}, cat.Sectors())
	require.Equal(t, []Ticker{"NOVA", "QBIT", "WAVE"}, cat.Tickers())
}

func TestNewCatalogValidation(t *testing.T) {
	cases := []struct {
		name      string
		companies []Company
	}{
		{"missing ticker", []Company{{Name: "X", Sector: "Tech", StartPrice: 1}}},
		{"missing sector", []Company{{Ticker: "X", StartPrice: 1}}},
		{"zero price", []Company{{Ticker: "X", Sector: "Tech"}}},
		{"negative price", []Company{{Ticker: "X", Sector: "Tech", StartPrice: -5}}},
		{"duplicate ticker", []Company{
			{Ticker: "X", Sector: "Tech", StartPrice: 1},
			{Ticker: "X", Sector: "Banking", StartPrice: 2},
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewCatalog(tc.companies)
			require.Error(t, err)
		})
	}
}

func TestNewCatalogEmptyIsLegal(t *testing.T) {
	cat, err := NewCatalog(nil)
	require.NoError(t, err)
	require.Equal(t, 0, cat.Size())
	require.Empty(t, cat.Tickers())
}

func TestParseCatalog(t *testing.T) {
	data := []byte(`[
		{"ticker": "NOVA", "name": "NovaWorks", "sector": "Tech", "start_price": 104.5}
	]`)
	cat, err := ParseCatalog(data)
	require.NoError(t, err)

	co, ok := cat.Lookup("NOVA")
	require.True(t, ok)
	require.Equal(t, 104.5, co.StartPrice)

	_, err = ParseCatalog([]byte(`{not json`))
	require.Error(t, err)
}
