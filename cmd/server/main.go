package main

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/taskdeck/todo-webapp/internal/api"
	"github.com/taskdeck/todo-webapp/internal/api/session"
	"github.com/taskdeck/todo-webapp/internal/core/ports"
	"github.com/taskdeck/todo-webapp/internal/infrastructure/config"
	redisdb "github.com/taskdeck/todo-webapp/internal/infrastructure/db/redis"
	"github.com/taskdeck/todo-webapp/internal/infrastructure/db/sqlite"
	"github.com/taskdeck/todo-webapp/internal/infrastructure/sessionstore"
	"github.com/taskdeck/todo-webapp/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx := context.Background()

	db, err := sqlite.Connect(ctx, sqlite.Config{Path: cfg.SQLite.Path})
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.SQLite.Path).Msg("failed to open database")
	}
	defer db.Close()

	var (
		store ports.SessionStore
		rdb   *redis.Client
	)
	switch cfg.Session.Backend {
	case "redis":
		rdb, err = redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("failed to connect to redis")
		}
		defer rdb.Close()
		store = sessionstore.NewRedis(rdb)
	default:
		store = sessionstore.NewMemory()
	}

	sessions := session.NewManager(store, cfg.Session.Secret, cfg.Session.TTL, log)
	e := api.NewRouter(db, sessions, rdb, log)

	log.Info().
		Str("port", cfg.Port).
		Str("env", cfg.Env).
		Str("session_backend", cfg.Session.Backend).
		Msg("starting server")

	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
