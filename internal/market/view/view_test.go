package view

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSeedPrefillsHistory(t *testing.T) {
	v := NewMarketView(30, 80, 10)
	v.Seed("NOVA", 100, 1000)

	h := v.History("NOVA")
	require.Len(t, h, 30)
	for _, px := range h {
		require.Equal(t, 100.0, px)
	}

	bars := v.Bars("NOVA")
	require.Len(t, bars, 1)
	require.Equal(t, 100.0, bars[0].Open)
	require.Equal(t, 100.0, bars[0].Close)
}

func TestRecordEvictsOldestPrice(t *testing.T) {
	v := NewMarketView(5, 80, 10)
	v.Seed("NOVA", 1, 0)

	for i := 1; i <= 7; i++ {
		v.Record("NOVA", float64(i*10), int64(i))
	}

	h := v.History("NOVA")
	require.Len(t, h, 5)
	require.Equal(t, []float64{30, 40, 50, 60, 70}, h)
	require.Equal(t, 5, v.HistoryLen("NOVA"))
}

func TestRecordRollsBarsPerPeriod(t *testing.T) {
	v := NewMarketView(30, 80, 3)
	v.Seed("NOVA", 100, 0)

	v.Record("NOVA", 105, 1)
	v.Record("NOVA", 95, 2)

	bars := v.Bars("NOVA")
	require.Len(t, bars, 1)
	require.Equal(t, 105.0, bars[0].High)
	require.Equal(t, 95.0, bars[0].Low)
	require.Equal(t, 95.0, bars[0].Close)

	// Third record closes the period and opens a new bar.
	v.Record("NOVA", 101, 3)
	bars = v.Bars("NOVA")
	require.Len(t, bars, 2)
	require.Equal(t, 101.0, bars[1].Open)
	require.Equal(t, int64(3), bars[1].Time)
}

func TestUnknownTickerIsEmpty(t *testing.T) {
	v := NewMarketView(30, 80, 10)

	require.Nil(t, v.History("NOPE"))
	require.Nil(t, v.Bars("NOPE"))
	require.Equal(t, 0, v.HistoryLen("NOPE"))

	// Recording an unseeded ticker is ignored rather than panicking.
	v.Record("NOPE", 10, 1)
	require.Equal(t, 0, v.HistoryLen("NOPE"))
}
