// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"telegram-shape-relay/internal/application"
	"telegram-shape-relay/internal/config"
	"telegram-shape-relay/internal/domain/ports/repository"
	"telegram-shape-relay/internal/infra/adapters/ai"
	"telegram-shape-relay/internal/infra/adapters/telegram"
	"telegram-shape-relay/internal/infra/db/postgres"
	"telegram-shape-relay/internal/infra/db/sqlite"
	"telegram-shape-relay/internal/infra/logging"
	"telegram-shape-relay/internal/infra/metrics"
	red "telegram-shape-relay/internal/infra/redis"
	"telegram-shape-relay/internal/infra/state"
	"telegram-shape-relay/internal/infra/web"
	"telegram-shape-relay/internal/usecase"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	dev := flag.Bool("dev", false, "dev mode (console logs, unredacted keys)")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath, *dev)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	metrics.MustRegister()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ----- Storage -----
	var credRepo repository.CredentialRepository
	switch cfg.Database.Driver {
	case "postgres":
		pool, err := postgres.NewPgxPool(ctx, cfg.Database.URL, 8)
		if err != nil {
			logger.Fatal().Err(err).Msg("postgres connect failed")
		}
		defer pool.Close()
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			logger.Fatal().Err(err).Msg("postgres schema failed")
		}
		credRepo = postgres.NewPostgresCredentialRepo(pool, logger)
	default:
		repo, err := sqlite.NewSQLiteCredentialRepo(cfg.Database.Path, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("sqlite open failed")
		}
		defer repo.Close()
		credRepo = repo
	}

	// ----- Redis (optional) -----
	var rateLimiter *red.RateLimiter
	if cfg.Redis.URL != "" {
		client, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis connect failed")
		}
		defer client.Close()
		rateLimiter = red.NewRateLimiter(client)
		credRepo = red.NewCachedCredentialRepo(credRepo, client, cfg.Redis.TTL)
		logger.Info().Msg("redis cache and rate limiter enabled")
	}

	stateRepo := state.NewMemoryStateRepo()

	// ----- Adapters -----
	aiAdapter, err := ai.NewShapesAdapter(cfg.Shapes.BaseURL, cfg.Shapes.Model)
	if err != nil {
		logger.Fatal().Err(err).Msg("shapes adapter init failed")
	}

	// ----- Usecases and facade -----
	credUC := usecase.NewCredentialUseCase(credRepo, logger, cfg.Runtime.Dev)
	relayUC := usecase.NewRelayUseCase(credRepo, aiAdapter, logger)
	dialogUC := usecase.NewDialogUseCase(stateRepo, credUC, relayUC, logger)
	facade := application.NewBotFacade(credUC, relayUC, dialogUC, logger)

	botAdapter, err := telegram.NewRealTelegramBotAdapter(&cfg.Bot, facade, rateLimiter, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("telegram init failed")
	}

	go func() {
		if err := botAdapter.StartPolling(ctx); err != nil && ctx.Err() == nil {
			logger.Error().Err(err).Msg("polling stopped")
			cancel()
		}
	}()
	logger.Info().Str("model", cfg.Shapes.Model).Str("storage", cfg.Database.Driver).Msg("bot polling started")

	facade.NotifyStartup(ctx, botAdapter, cfg.Bot.AdminIDs)

	// ----- Web server -----
	authMgr := web.NewAuthManager(cfg.Web.JWTSecret, !cfg.Runtime.Dev, 30*time.Minute)
	server := web.NewServer(credUC, authMgr, cfg.Web.AdminToken, cfg.Shapes.Model, cfg.Database.Driver, logger)
	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Web.Port),
		Handler: server.Router(),
	}
	go func() {
		logger.Info().Int("port", cfg.Web.Port).Msg("web server listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("web server stopped")
			cancel()
		}
	}()

	// ----- Shutdown -----
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case s := <-sig:
		logger.Info().Str("signal", s.String()).Msg("shutting down")
	case <-ctx.Done():
	}

	botAdapter.StopPolling()
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("web server shutdown failed")
	}
}
