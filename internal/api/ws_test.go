package api

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/zappabad/marketgame/internal/game"
	"github.com/zappabad/marketgame/internal/market"
)

func TestStreamPushesSnapshots(t *testing.T) {
	s, g := testServer(t)
	s.cfg.StreamInterval = 20 * time.Millisecond
	require.NoError(t, g.Start())

	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/stream?player=alice"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var snaps []game.StateSnapshot
	for i := 0; i < 2; i++ {
		var snap game.StateSnapshot
		require.NoError(t, conn.ReadJSON(&snap))
		snaps = append(snaps, snap)
	}

	require.Equal(t, game.StatusActive, snaps[0].Status)
	require.NotNil(t, snaps[0].Portfolio)
	require.Equal(t, market.ImpactNone, snaps[0].ImpactMap["NOVA"])
}
