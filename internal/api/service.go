package api

import (
	"net/http"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/zappabad/marketgame/internal/game"
)

// Server is the HTTP boundary of the game: the JSON API the player,
// presenter and admin frontends poll, plus a websocket state feed.
type Server struct {
	cfg      Config
	router   *gin.Engine
	game     *game.Game
	log      *zap.Logger
	upgrader websocket.Upgrader
}

// NewServer creates the API server over a game world.
func NewServer(g *game.Game, log *zap.Logger, cfg Config) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.StreamInterval <= 0 {
		cfg.StreamInterval = DefaultConfig().StreamInterval
	}

	s := &Server{
		cfg:  cfg,
		game: g,
		log:  log,
		upgrader: websocket.Upgrader{
			// The game is served on a trusted LAN for an in-person
			// event; the browser origin is not checked.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}

	router := gin.New()
	router.Use(ginzap.Ginzap(log, time.RFC3339, true))
	router.Use(ginzap.RecoveryWithZap(log, true))

	s.router = router
	s.registerRoutes()
	return s
}

// Router returns the gin engine, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Start runs the HTTP server on the configured address.
func (s *Server) Start() error {
	s.log.Info("starting API server", zap.String("addr", s.cfg.Addr))
	return s.router.Run(s.cfg.Addr)
}

func (s *Server) registerRoutes() {
	apiGroup := s.router.Group("/api")
	{
		apiGroup.GET("/bootstrap", s.handleBootstrap)
		apiGroup.GET("/state", s.handleState)
		apiGroup.GET("/latest_state", s.handleState)
		apiGroup.POST("/trade", s.handleTrade)
		apiGroup.GET("/stream", s.handleStream)

		admin := apiGroup.Group("/admin")
		{
			admin.POST("/login", s.handleAdminLogin)
			admin.GET("/state", s.requireAdmin, s.handleAdminState)
			admin.GET("/news", s.requireAdmin, s.handleAdminNews)
			admin.POST("/trigger", s.requireAdmin, s.handleAdminTrigger)
			admin.POST("/random", s.requireAdmin, s.handleAdminRandom)
			admin.POST("/reset", s.requireAdmin, s.handleAdminReset)
			admin.POST("/start", s.requireAdmin, s.handleAdminStart)
			admin.POST("/advance", s.requireAdmin, s.handleAdminAdvance)
			admin.POST("/reaction", s.requireAdmin, s.handleAdminReaction)
		}
	}
}
