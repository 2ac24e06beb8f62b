package main

import (
	"context"
	"flag"
	"log"

	"go.uber.org/zap"

	redis_cache "github.com/mkudasheva/paper-broker/internal/adapter/cache"
	"github.com/mkudasheva/paper-broker/internal/adapter/in_memory"
	"github.com/mkudasheva/paper-broker/internal/adapter/pg"
	apihttp "github.com/mkudasheva/paper-broker/internal/api/http"
	"github.com/mkudasheva/paper-broker/internal/config"
	"github.com/mkudasheva/paper-broker/internal/core"
	"github.com/mkudasheva/paper-broker/internal/logging"
	"github.com/mkudasheva/paper-broker/internal/port"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()

	var (
		orders  port.OrderRepository
		candles port.CandleSource
	)
	if cfg.Postgres.DSN != "" {
		repo, err := pg.NewRepo(ctx, cfg.Postgres.DSN)
		if err != nil {
			logger.Fatal("failed to connect to Postgres", zap.Error(err))
		}
		defer repo.Close()
		orders, candles = repo, repo
		logger.Info("using Postgres stores")
	} else {
		mem := in_memory.NewMemoryRepo()
		orders, candles = mem, mem
		logger.Info("using in-memory stores")
	}

	var cache port.CandleCache
	if cfg.Server.EnableRedis {
		rc := redis_cache.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.TTL())
		defer rc.Close() //nolint:errcheck
		cache = rc
		logger.Info("candle cache enabled", zap.String("addr", cfg.Redis.Addr))
	}

	handler := core.NewSimHandler(orders, candles, cache, logger)
	server := apihttp.NewHTTPServer(handler, cfg.Server.RateLimit())

	logger.Info("starting HTTP server", zap.String("addr", cfg.Server.Addr))
	if err := server.Run(cfg.Server.Addr); err != nil {
		logger.Fatal("HTTP server failed", zap.Error(err))
	}
}
