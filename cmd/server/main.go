package main

import (
	"context"

	"github.com/joho/godotenv"

	"github.com/stablemate/stablemate/internal/app"
	"github.com/stablemate/stablemate/internal/cache"
	"github.com/stablemate/stablemate/internal/config"
	"github.com/stablemate/stablemate/internal/db"
	"github.com/stablemate/stablemate/internal/httpapi"
	"github.com/stablemate/stablemate/internal/logger"
	"github.com/stablemate/stablemate/internal/session"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := config.New()

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L()

	// Init DB
	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		return
	}

	// Init Redis
	redisCache := cache.NewRedisCache(cfg)
	if err := redisCache.Ping(context.Background()); err != nil {
		log.Error("failed to connect to redis", "err", err)
		return
	}

	appCtx := app.New(database, redisCache, log)
	sessions := session.NewStore(redisCache, cfg.Auth.JWTSecret, cfg.Auth.SessionTTL)
	handler := httpapi.NewHandler(appCtx, sessions)

	if cfg.App.ENV == "development" {
		if err := db.SeedTestData(database); err != nil {
			log.Error("failed to seed", "err", err)
		}
	}

	addr := cfg.HTTP.Host + ":" + cfg.HTTP.Port
	log.Info("starting http server", "addr", addr)

	if err := httpapi.Serve(cfg, handler); err != nil {
		log.Error("failed to start http server", "err", err)
	}
}
