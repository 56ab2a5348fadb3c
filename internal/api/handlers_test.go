package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/zappabad/marketgame/internal/game"
	"github.com/zappabad/marketgame/internal/market"
	"github.com/zappabad/marketgame/internal/news"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testServer(t *testing.T) (*Server, *game.Game) {
	t.Helper()

	cat, err := market.NewCatalog([]market.Company{
		{Ticker: "NOVA", Name: "NovaWorks", Sector: "Tech", StartPrice: 100},
		{Ticker: "WAVE", Name: "WaveLine", Sector: "Telecom", StartPrice: 50},
	})
	require.NoError(t, err)

	items := []news.Item{
		{
			ID:        "N1",
			Headline:  "NovaWorks lands defense contract",
			Tickers:   []market.Ticker{"NOVA"},
			Direction: news.DirectionUp,
			Intensity: news.IntensityHigh,
		},
	}

	cfg := game.DefaultConfig()
	cfg.Seed = 17
	cfg.AdminPassword = "sekrit"
	g := game.New(cat, items, cfg, zap.NewNop())

	return NewServer(g, zap.NewNop(), DefaultConfig()), g
}

func doJSON(t *testing.T, s *Server, method, path string, body any, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

func adminHeader() map[string]string {
	return map[string]string{"X-Admin-Password": "sekrit"}
}

func TestBootstrap(t *testing.T) {
	s, _ := testServer(t)

	w := doJSON(t, s, http.MethodGet, "/api/bootstrap", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var b game.Bootstrap
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &b))
	require.Len(t, b.Companies, 2)
	require.Equal(t, []market.Sector{"Tech", "Telecom"}, b.Sectors)
}

func TestStateHidesImpactFromPlayers(t *testing.T) {
	s, g := testServer(t)
	require.NoError(t, g.Start())
	require.NoError(t, g.TriggerNews("N1"))

	w := doJSON(t, s, http.MethodGet, "/api/state?player=alice", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var player game.StateSnapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &player))
	require.Equal(t, market.ImpactNone, player.ImpactMap["NOVA"])
	require.NotNil(t, player.Portfolio)
	require.NotNil(t, player.News)
	require.NotContains(t, w.Body.String(), "direction")

	// No player id means the presenter view with the real badges.
	w = doJSON(t, s, http.MethodGet, "/api/state", nil, nil)
	var presenter game.StateSnapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &presenter))
	require.Equal(t, market.ImpactDirect, presenter.ImpactMap["NOVA"])
	require.Nil(t, presenter.Portfolio)
	require.NotEmpty(t, presenter.Movers)
}

func TestLatestStateAlias(t *testing.T) {
	s, _ := testServer(t)

	w := doJSON(t, s, http.MethodGet, "/api/latest_state", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestTrade(t *testing.T) {
	s, _ := testServer(t)

	w := doJSON(t, s, http.MethodPost, "/api/trade", gin.H{
		"player": "alice", "ticker": "NOVA", "side": "buy", "qty": 10,
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, true, resp["ok"])
	require.Greater(t, resp["fill_price"].(float64), 0.0)
	require.Greater(t, resp["fee"].(float64), 0.0)
}

func TestTradeRejections(t *testing.T) {
	s, _ := testServer(t)

	// Unparseable body.
	req := httptest.NewRequest(http.MethodPost, "/api/trade", strings.NewReader("{nope"))
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)

	// Bad side.
	w = doJSON(t, s, http.MethodPost, "/api/trade", gin.H{
		"player": "alice", "ticker": "NOVA", "side": "hold", "qty": 1,
	}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown ticker.
	w = doJSON(t, s, http.MethodPost, "/api/trade", gin.H{
		"player": "alice", "ticker": "NOPE", "side": "buy", "qty": 1,
	}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	// More than the starting cash can cover.
	w = doJSON(t, s, http.MethodPost, "/api/trade", gin.H{
		"player": "alice", "ticker": "NOVA", "side": "buy", "qty": 100000,
	}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "cash")

	// Selling what is not held.
	w = doJSON(t, s, http.MethodPost, "/api/trade", gin.H{
		"player": "alice", "ticker": "NOVA", "side": "sell", "qty": 1,
	}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminLogin(t *testing.T) {
	s, _ := testServer(t)

	w := doJSON(t, s, http.MethodPost, "/api/admin/login", gin.H{"password": "sekrit"}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, s, http.MethodPost, "/api/admin/login", gin.H{"password": "wrong"}, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// A body that does not parse is just a failed login.
	req := httptest.NewRequest(http.MethodPost, "/api/admin/login", strings.NewReader("{nope"))
	w = httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminRoutesRequireSecret(t *testing.T) {
	s, _ := testServer(t)

	w := doJSON(t, s, http.MethodGet, "/api/admin/state", nil, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, s, http.MethodPost, "/api/admin/start", nil, map[string]string{"X-Admin-Password": "wrong"})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// The query parameter works for dashboards that cannot set headers.
	w = doJSON(t, s, http.MethodGet, "/api/admin/state?password=sekrit", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestAdminGameControls(t *testing.T) {
	s, g := testServer(t)

	w := doJSON(t, s, http.MethodPost, "/api/admin/start", nil, adminHeader())
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, game.StatusActive, g.GetStatus())

	// Starting twice conflicts.
	w = doJSON(t, s, http.MethodPost, "/api/admin/start", nil, adminHeader())
	require.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, s, http.MethodPost, "/api/admin/advance", nil, adminHeader())
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 2, g.GetRound())

	w = doJSON(t, s, http.MethodPost, "/api/admin/reset", nil, adminHeader())
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, game.StatusWaiting, g.GetStatus())
}

func TestAdminTrigger(t *testing.T) {
	s, _ := testServer(t)

	w := doJSON(t, s, http.MethodPost, "/api/admin/trigger", gin.H{"news_id": "N1"}, adminHeader())
	require.Equal(t, http.StatusOK, w.Code)

	// Repeats conflict, unknown ids 404, missing ids 400.
	w = doJSON(t, s, http.MethodPost, "/api/admin/trigger", gin.H{"news_id": "N1"}, adminHeader())
	require.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, s, http.MethodPost, "/api/admin/trigger", gin.H{"news_id": "NOPE"}, adminHeader())
	require.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, s, http.MethodPost, "/api/admin/trigger", gin.H{}, adminHeader())
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminRandomAndNews(t *testing.T) {
	s, _ := testServer(t)

	w := doJSON(t, s, http.MethodPost, "/api/admin/random", nil, adminHeader())
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "N1", resp["news_id"])

	w = doJSON(t, s, http.MethodGet, "/api/admin/news", nil, adminHeader())
	require.Equal(t, http.StatusOK, w.Code)
	// The admin catalog is the one place hidden fields appear.
	require.Contains(t, w.Body.String(), "direction")
}

func TestAdminReaction(t *testing.T) {
	s, g := testServer(t)

	w := doJSON(t, s, http.MethodPost, "/api/admin/reaction", gin.H{"ticks": 12}, adminHeader())
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 12, g.Engine().ShockTicks())

	w = doJSON(t, s, http.MethodPost, "/api/admin/reaction", gin.H{"ticks": 0}, adminHeader())
	require.Equal(t, http.StatusBadRequest, w.Code)
}
