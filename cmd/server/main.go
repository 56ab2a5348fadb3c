package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/zappabad/marketgame/data"
	"github.com/zappabad/marketgame/internal/api"
	"github.com/zappabad/marketgame/internal/game"
	"github.com/zappabad/marketgame/internal/market"
	"github.com/zappabad/marketgame/internal/news"
)

func main() {
	var (
		addr       = flag.String("addr", ":5000", "listen address")
		configPath = flag.String("config", "", "optional YAML tuning file")
		companies  = flag.String("companies", "", "companies JSON (default: embedded catalog)")
		newsPath   = flag.String("news", "", "news JSON (default: embedded catalog)")
	)
	flag.Parse()

	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	cfg, err := game.LoadConfig(*configPath)
	if err != nil {
		logger.Fatal("loading config", zap.Error(err))
	}

	catalog, err := market.ParseCatalog(readOr(*companies, data.Companies, logger))
	if err != nil {
		logger.Fatal("loading companies", zap.Error(err))
	}
	items, err := news.ParseCatalog(readOr(*newsPath, data.News, logger))
	if err != nil {
		logger.Fatal("loading news", zap.Error(err))
	}

	g := game.New(catalog, items, cfg, logger)
	g.Run()
	defer g.Close()

	apiCfg := api.DefaultConfig()
	apiCfg.Addr = *addr
	if env := os.Getenv("ADDR"); env != "" && *addr == ":5000" {
		apiCfg.Addr = env
	}
	apiCfg.StreamInterval = cfg.TickInterval

	server := api.NewServer(g, logger, apiCfg)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("news market game up",
		zap.String("addr", apiCfg.Addr),
		zap.Int("companies", catalog.Size()),
		zap.Int("news_items", len(items)))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		logger.Fatal("server stopped", zap.Error(err))
	case sig := <-sigCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}
}

func readOr(path string, fallback []byte, logger *zap.Logger) []byte {
	if path == "" {
		return fallback
	}
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Fatal("reading catalog file", zap.String("path", path), zap.Error(err))
	}
	return data
}
