package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"relationship-mediator/config"
	_ "relationship-mediator/docs" // Swagger docs
	"relationship-mediator/internal/chat"
	chatHTTP "relationship-mediator/internal/chat/delivery/http"
	"relationship-mediator/internal/chat/handlers"
	"relationship-mediator/internal/chat/intent"
	"relationship-mediator/internal/chat/pending"
	"relationship-mediator/internal/chat/plugins"
	"relationship-mediator/internal/chat/registry"
	"relationship-mediator/internal/chat/usecase"
	"relationship-mediator/internal/httpserver"
	"relationship-mediator/internal/invite"
	"relationship-mediator/internal/middleware"
	"relationship-mediator/internal/notify"
	"relationship-mediator/internal/session/repository"
	qdrantRepo "relationship-mediator/internal/session/repository/qdrant"
	restRepo "relationship-mediator/internal/session/repository/rest"
	"relationship-mediator/internal/witness"
	"relationship-mediator/pkg/expopush"
	"relationship-mediator/pkg/gmailer"
	"relationship-mediator/pkg/llmprovider"
	"relationship-mediator/pkg/log"
	"relationship-mediator/pkg/qdrant"
	"relationship-mediator/pkg/voyage"
)

// @title       Relationship Mediator API
// @description Chat intent routing and handler dispatch for AI-guided relationship mediation.
// @version     1
// @host        localhost:8080
// @schemes     http
func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		return
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting Relationship Mediator...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)
	logger.Infof(ctx, "Session API URL: %s", cfg.SessionAPI.URL)

	// 3. Completion model
	specs := make([]llmprovider.ProviderSpec, 0, len(cfg.LLM.Providers))
	for _, p := range cfg.LLM.Providers {
		specs = append(specs, llmprovider.ProviderSpec{
			Name:     p.Name,
			Enabled:  p.Enabled,
			Priority: p.Priority,
			APIKey:   p.APIKey,
			BaseURL:  p.BaseURL,
			Model:    p.Model,
		})
	}
	providers, err := llmprovider.BuildProviders(specs)
	if err != nil {
		logger.Warnf(ctx, "No completion providers available, detection falls back to keywords: %v", err)
	}
	manager := llmprovider.NewManager(providers, &llmprovider.Config{
		FallbackEnabled: cfg.LLM.FallbackEnabled,
		RetryAttempts:   cfg.LLM.RetryAttempts,
		RetryDelay:      parseDurationOr(cfg.LLM.RetryDelay, time.Second),
		MaxTotalTimeout: parseDurationOr(cfg.LLM.MaxTotalTimeout, 60*time.Second),
	}, logger)
	modelClient := usecase.NewModelClient(logger, manager)

	// 4. Session backend
	sessionRepo := restRepo.New(restRepo.NewClient(cfg.SessionAPI.URL, cfg.SessionAPI.APIKey), logger)

	// 5. Semantic session search (optional)
	var vectorRepo repository.VectorRepository
	if cfg.Qdrant.URL != "" && cfg.Voyage.APIKey != "" {
		qdrantClient := qdrant.NewClient(cfg.Qdrant.URL)
		if err := qdrantClient.EnsureCollection(ctx, qdrant.CreateCollectionRequest{
			Name: cfg.Qdrant.CollectionName,
			Vectors: qdrant.VectorsConfig{
				Size:     cfg.Qdrant.VectorSize,
				Distance: "Cosine",
			},
		}); err != nil {
			logger.Warnf(ctx, "Qdrant not available (optional): %v", err)
		} else {
			voyageClient, vErr := voyage.New(cfg.Voyage.APIKey, cfg.Voyage.Model)
			if vErr != nil {
				logger.Warnf(ctx, "Voyage embeddings not available (optional): %v", vErr)
			} else {
				vectorRepo = qdrantRepo.New(qdrantClient, voyageClient, cfg.Qdrant.CollectionName, logger)
				logger.Info(ctx, "✅ Semantic session search initialized")
			}
		}
	} else {
		logger.Warn(ctx, "Qdrant or Voyage not configured, semantic session search disabled")
	}

	// 6. Side-effect senders (optional)
	var inviter chat.InviteSender
	if cfg.Gmail.CredentialsPath != "" {
		mailer, mErr := gmailer.NewClientFromCredentialsFile(ctx, cfg.Gmail.CredentialsPath, cfg.Gmail.TokenPath, cfg.Gmail.From)
		if mErr != nil {
			logger.Warnf(ctx, "Gmail not available (optional), invitations disabled: %v", mErr)
		} else {
			inviter = invite.NewEmailInviter(logger, mailer)
			logger.Info(ctx, "✅ Email invitations initialized")
		}
	}
	notifier := notify.NewPushNotifier(logger, expopush.New(), sessionRepo)

	// 7. Router state
	pendingStore := pending.NewStore(logger, parseDurationOr(cfg.Router.PendingTTL, 24*time.Hour))
	witnessLog := witness.NewLog(logger, parseDurationOr(cfg.Router.WitnessRetention, 24*time.Hour))
	responder := witness.NewResponder(logger, modelClient, witnessLog)

	// 8. Handler registry
	reg := registry.New(logger)
	reg.Bootstrap(func(r *registry.Registry) {
		r.RegisterPlugin(plugins.NewCheckIn())

		r.Register(handlers.NewSessionCreation(logger, sessionRepo, vectorRepo, pendingStore, inviter, notifier))
		r.Register(handlers.NewSessionSwitch(logger, sessionRepo, pendingStore))
		r.Register(handlers.NewCheckIn(logger))
		r.Register(handlers.NewSessionsList(logger))
		r.Register(handlers.NewContinuation(logger))
		r.Register(handlers.NewWitnessing(logger, responder, witnessLog))
		r.Register(handlers.NewHelp(logger))
	})

	// 9. Chat router
	detector := intent.NewDetector(logger, modelClient, reg, intent.Config{
		Timeout: parseDurationOr(cfg.Router.ClassifyTimeout, 5*time.Second),
	})
	chatUC := usecase.New(logger, detector, reg, sessionRepo, vectorRepo, pendingStore)
	chatHandler := chatHTTP.New(logger, chatUC)

	// 10. HTTP Server
	mw := middleware.New(logger, cfg.Router.RateLimitPerMin)
	httpServer, err := httpserver.New(logger, httpserver.Config{
		Logger:      logger,
		Port:        cfg.HTTPServer.Port,
		Mode:        cfg.HTTPServer.Mode,
		Environment: cfg.Environment.Name,
		ChatHandler: chatHandler,
		Middleware:  mw,
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize HTTP server: ", err)
		return
	}

	// 11. Run
	if err := httpServer.Run(); err != nil {
		logger.Error(ctx, "Failed to run server: ", err)
		return
	}

	logger.Info(ctx, "Server stopped gracefully")
}

func parseDurationOr(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}
