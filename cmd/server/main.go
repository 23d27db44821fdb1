// Command server boots the Translation Pipeline's HTTP surface: config
// load, dependency wiring, and graceful shutdown, following the teacher's
// message-service bootstrap.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fathima-sithara/lingua-relay/internal/api"
	"github.com/fathima-sithara/lingua-relay/internal/auth"
	"github.com/fathima-sithara/lingua-relay/internal/cache"
	"github.com/fathima-sithara/lingua-relay/internal/cache/rediscache"
	"github.com/fathima-sithara/lingua-relay/internal/config"
	"github.com/fathima-sithara/lingua-relay/internal/detect"
	"github.com/fathima-sithara/lingua-relay/internal/directory"
	"github.com/fathima-sithara/lingua-relay/internal/events"
	"github.com/fathima-sithara/lingua-relay/internal/glossary"
	"github.com/fathima-sithara/lingua-relay/internal/logging"
	"github.com/fathima-sithara/lingua-relay/internal/parser"
	"github.com/fathima-sithara/lingua-relay/internal/pipeline"
	"github.com/fathima-sithara/lingua-relay/internal/store"
	"github.com/fathima-sithara/lingua-relay/internal/translator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load: %v", err)
	}

	logger, err := logging.New(logging.Config{Development: cfg.App.Env != "production"})
	if err != nil {
		log.Fatalf("logging init: %v", err)
	}
	defer logger.Sync()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	detector := detect.New(detect.Config{})
	dir := directory.New()
	messageStore := store.New(detector)

	translateCache := cache.New(cache.Config{
		TTL:        time.Duration(cfg.Cache.TTLMinutes) * time.Minute,
		MaxEntries: cfg.Cache.MaxEntries,
	})
	defer translateCache.Close()
	cacheMirror := rediscache.New(rdb, time.Duration(cfg.Cache.TTLMinutes)*time.Minute, logger)

	mode := translator.ModeOnline
	if cfg.Translator.Mode == "offline" {
		mode = translator.ModeOffline
	}
	adapter := translator.New(translator.Config{
		Mode:          mode,
		Endpoint:      cfg.Translator.Endpoint,
		APIKey:        cfg.Translator.APIKey,
		Timeout:       time.Duration(cfg.Translator.TimeoutSecs) * time.Second,
		MaxRetries:    cfg.Translator.MaxRetries,
		AllowDegraded: cfg.Translator.AllowDegraded,
	}, logger)

	glossaries := glossary.NewRegistry()
	contentParser := parser.New(parser.Config{})

	publisher := events.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.TranslationTopic, logger)
	defer publisher.Close()

	orchestrator := pipeline.New(
		messageStore,
		contentParser,
		detector,
		translateCache,
		adapter,
		glossaries,
		cfg.Pipeline.SupportedLangs,
		pipeline.Config{Concurrency: cfg.Pipeline.FanOutConcurrency},
		logger,
		publisher,
		cacheMirror,
	)

	authMgr := auth.NewManager(cfg.JWT.Secret, cfg.JWT.TTL())
	limiter := api.NewRateLimiter(rdb, "lingua_relay:post_message", cfg.App.RateLimitPerMin, time.Minute)

	handlers := api.NewHandlers(dir, messageStore, contentParser, orchestrator, authMgr, logger)
	app := api.NewServer(handlers, limiter)

	go func() {
		if err := app.Listen(cfg.App.PortString()); err != nil {
			logger.Fatalw("server listen failed", "error", err)
		}
	}()
	logger.Infow("lingua-relay started", "port", cfg.App.Port, "env", cfg.App.Env)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeoutDuration())
	defer cancel()
	_ = app.ShutdownWithContext(ctx)
	logger.Info("lingua-relay stopped")
}
