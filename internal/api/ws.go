package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// handleStream upgrades to a websocket and pushes a state snapshot on
// every tick interval until the client goes away. It is a push mirror
// of GET /api/state for frontends that prefer not to poll.
func (s *Server) handleStream(c *gin.Context) {
	player := c.Query("player")

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	// Drain client frames so pings and close messages are processed.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(s.cfg.StreamInterval)
	defer ticker.Stop()

	for range ticker.C {
		snap := s.game.Snapshot(player, player == "")
		conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := conn.WriteJSON(snap); err != nil {
			return
		}
	}
}
