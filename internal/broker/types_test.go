package broker

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseSide(t *testing.T) {
	cases := []struct {
		in   string
		want Side
		ok   bool
	}{
		{"BUY", SideBuy, true},
		{"buy", SideBuy, true},
		{" sell ", SideSell, true},
		{"SELL", SideSell, true},
		{"hold", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := ParseSide(tc.in)
		require.Equal(t, tc.ok, ok, "input %q", tc.in)
		require.Equal(t, tc.want, got, "input %q", tc.in)
	}
}
