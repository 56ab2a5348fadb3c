package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zappabad/marketgame/internal/broker"
	brokerservice "github.com/zappabad/marketgame/internal/broker/service"
	"github.com/zappabad/marketgame/internal/market"
	"github.com/zappabad/marketgame/internal/news"
	newsservice "github.com/zappabad/marketgame/internal/news/service"
)

func okResponse(c *gin.Context, body gin.H) {
	if body == nil {
		body = gin.H{}
	}
	body["ok"] = true
	c.JSON(http.StatusOK, body)
}

func errResponse(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"ok": false, "error": msg})
}

// tradeError maps the engine's error taxonomy onto HTTP statuses. The
// error text is surfaced verbatim: these are user-input or
// business-rule rejections, not internal faults.
func tradeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, brokerservice.ErrInvalidOrder):
		errResponse(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, brokerservice.ErrInsufficientFunds),
		errors.Is(err, brokerservice.ErrInsufficientHoldings):
		errResponse(c, http.StatusBadRequest, err.Error())
	default:
		errResponse(c, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) handleBootstrap(c *gin.Context) {
	b := s.game.GetBootstrap()
	c.JSON(http.StatusOK, b)
}

func (s *Server) handleState(c *gin.Context) {
	// Player polls never see the real impact map; presenter/admin
	// polls (no player id) do.
	player := c.Query("player")
	c.JSON(http.StatusOK, s.game.Snapshot(player, player == ""))
}

type tradeRequest struct {
	Player string `json:"player"`
	Ticker string `json:"ticker"`
	Side   string `json:"side"`
	Qty    int64  `json:"qty"`
}

func (s *Server) handleTrade(c *gin.Context) {
	var req tradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errResponse(c, http.StatusBadRequest, "invalid trade request")
		return
	}

	side, ok := broker.ParseSide(req.Side)
	if !ok {
		errResponse(c, http.StatusBadRequest, "invalid trade")
		return
	}

	fill, err := s.game.Trade(req.Player, market.Ticker(req.Ticker), side, req.Qty)
	if err != nil {
		tradeError(c, err)
		return
	}

	okResponse(c, gin.H{
		"fill_price": fill.FillPrice,
		"spread_pct": fill.SpreadPct * 100,
		"slip_pct":   fill.SlipPct * 100,
		"fee":        fill.Fee,
	})
}

// requireAdmin checks the shared secret from the X-Admin-Password
// header (or "password" query parameter). The comparison is constant
// time; the response never says how close a guess was.
func (s *Server) requireAdmin(c *gin.Context) {
	password := c.GetHeader("X-Admin-Password")
	if password == "" {
		password = c.Query("password")
	}
	if err := s.game.Authorize(password); err != nil {
		errResponse(c, http.StatusUnauthorized, err.Error())
		c.Abort()
		return
	}
	c.Next()
}

type adminLoginRequest struct {
	Password string `json:"password"`
}

func (s *Server) handleAdminLogin(c *gin.Context) {
	// A malformed body leaves the password empty, which fails the
	// same way a wrong one does.
	var req adminLoginRequest
	_ = c.ShouldBindJSON(&req)
	if err := s.game.Authorize(req.Password); err != nil {
		errResponse(c, http.StatusUnauthorized, err.Error())
		return
	}
	okResponse(c, nil)
}

func (s *Server) handleAdminState(c *gin.Context) {
	c.JSON(http.StatusOK, s.game.GetAdminState())
}

func (s *Server) handleAdminNews(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"news": s.game.AdminNews()})
}

type triggerRequest struct {
	NewsID string `json:"news_id"`
}

func (s *Server) handleAdminTrigger(c *gin.Context) {
	var req triggerRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.NewsID == "" {
		errResponse(c, http.StatusBadRequest, "missing news_id")
		return
	}

	err := s.game.TriggerNews(news.ID(req.NewsID))
	switch {
	case err == nil:
		okResponse(c, nil)
	case errors.Is(err, newsservice.ErrNotFound):
		errResponse(c, http.StatusNotFound, err.Error())
	case errors.Is(err, newsservice.ErrAlreadyTriggered):
		errResponse(c, http.StatusConflict, err.Error())
	default:
		errResponse(c, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) handleAdminRandom(c *gin.Context) {
	id, err := s.game.TriggerRandomNews()
	if err != nil {
		errResponse(c, http.StatusInternalServerError, err.Error())
		return
	}
	okResponse(c, gin.H{"news_id": string(id)})
}

func (s *Server) handleAdminReset(c *gin.Context) {
	s.game.Reset()
	okResponse(c, nil)
}

func (s *Server) handleAdminStart(c *gin.Context) {
	if err := s.game.Start(); err != nil {
		errResponse(c, http.StatusConflict, err.Error())
		return
	}
	okResponse(c, nil)
}

func (s *Server) handleAdminAdvance(c *gin.Context) {
	if err := s.game.AdvanceRound(); err != nil {
		errResponse(c, http.StatusConflict, err.Error())
		return
	}
	okResponse(c, nil)
}

type reactionRequest struct {
	Ticks int `json:"ticks"`
}

func (s *Server) handleAdminReaction(c *gin.Context) {
	var req reactionRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Ticks <= 0 {
		errResponse(c, http.StatusBadRequest, "ticks must be positive")
		return
	}
	s.game.SetReactionTicks(req.Ticks)
	okResponse(c, nil)
}
