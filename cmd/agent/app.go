// cmd/agent/app.go
package main

import (
	"context"
	"fmt"
	"time"

	"northwind-agent/internal/common/config"
	"northwind-agent/internal/common/database"
	"northwind-agent/internal/common/logger"
	"northwind-agent/internal/common/observability"
	"northwind-agent/internal/datastore"
	"northwind-agent/internal/genai"
	"northwind-agent/internal/retrieval"
	"northwind-agent/internal/workers/execute"
	"northwind-agent/internal/workers/plan"
	"northwind-agent/internal/workers/retrieve"
	"northwind-agent/internal/workers/router"
	"northwind-agent/internal/workers/sqlgen"
	"northwind-agent/internal/workers/synthesize"
	"northwind-agent/internal/workflow"
)

// app holds the wired dependency graph shared by all commands.
type app struct {
	cfg   *config.Config
	log   logger.Logger
	obs   *observability.Observability
	sql   *database.SQLClient
	redis *database.RedisClient
	store *datastore.Store
	agent *workflow.Agent
}

// newApp loads configuration and wires the full pipeline. Everything is
// fail-fast except the cache: an unreachable redis only disables caching.
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format)
	obs := observability.New(cfg.App.Name)

	sqlClient, err := database.NewSQL(cfg.Database.SQL)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	store := datastore.New(sqlClient.DB, cfg.Database.SQL.Driver, log)

	var searcher retrieval.Searcher
	switch cfg.Retrieval.Backend {
	case "elasticsearch":
		searcher, err = retrieval.NewElasticRetriever(cfg.Retrieval.Elasticsearch, log)
	default:
		searcher, err = retrieval.NewLocalRetriever(cfg.Retrieval.DocsDir, log)
	}
	if err != nil {
		sqlClient.Close()
		return nil, fmt.Errorf("build retriever: %w", err)
	}

	gen := genai.NewClient(&cfg.GenAI, log)

	var redisClient *database.RedisClient
	if cfg.Cache.Enabled {
		redisClient, _ = database.NewRedis(cfg.Database.Redis)
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		pingErr := redisClient.Ping(pingCtx)
		cancel()
		if pingErr != nil {
			log.Warn("redis unreachable, generator cache disabled", map[string]interface{}{
				"error": pingErr.Error(),
			})
			redisClient.Close()
			redisClient = nil
		} else {
			ttl := time.Duration(cfg.Cache.TTL) * time.Second
			gen = gen.WithCache(genai.NewRedisCache(redisClient, ttl))
		}
	}

	handlers := workflow.Handlers{
		Router: router.NewHandler(
			&router.Config{Timeout: time.Duration(cfg.GenAI.Timeout) * time.Millisecond}, gen, log),
		Retriever: retrieve.NewHandler(&retrieve.Config{TopK: cfg.Retrieval.TopK}, searcher, log),
		Planner:   plan.NewHandler(gen, log),
		SQLGen:    sqlgen.NewHandler(sqlgen.DefaultConfig(), gen, store, log),
		Executor:  execute.NewHandler(store, log),
		Synthesizer: synthesize.NewHandler(
			&synthesize.Config{ResultTruncation: cfg.Workflow.ResultTruncation}, gen, log),
	}

	agent := workflow.NewAgent(handlers,
		cfg.Workflow.MaxRepairRetries, cfg.Workflow.MaxSteps, log, obs)

	return &app{
		cfg:   cfg,
		log:   log,
		obs:   obs,
		sql:   sqlClient,
		redis: redisClient,
		store: store,
		agent: agent,
	}, nil
}

func (a *app) Close() {
	if a.redis != nil {
		a.redis.Close()
	}
	if a.sql != nil {
		a.sql.Close()
	}
	if a.obs != nil {
		a.obs.Shutdown()
	}
}
