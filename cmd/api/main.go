package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/medex/marketplace-api/internal/config"
	authHandler "github.com/medex/marketplace-api/internal/handler/auth"
	healthHandler "github.com/medex/marketplace-api/internal/handler/health"
	marketplaceHandler "github.com/medex/marketplace-api/internal/handler/marketplace"
	organizationHandler "github.com/medex/marketplace-api/internal/handler/organization"
	patientHandler "github.com/medex/marketplace-api/internal/handler/patient"
	recordHandler "github.com/medex/marketplace-api/internal/handler/record"
	"github.com/medex/marketplace-api/internal/middleware"
	"github.com/medex/marketplace-api/internal/model"
	"github.com/medex/marketplace-api/internal/repository/memory"
	"github.com/medex/marketplace-api/internal/repository/postgres"
	"github.com/medex/marketplace-api/internal/router"
	eventService "github.com/medex/marketplace-api/internal/service/event"
	ledgerService "github.com/medex/marketplace-api/internal/service/ledger"
	marketplaceService "github.com/medex/marketplace-api/internal/service/marketplace"
	organizationService "github.com/medex/marketplace-api/internal/service/organization"
	patientService "github.com/medex/marketplace-api/internal/service/patient"
	recordService "github.com/medex/marketplace-api/internal/service/record"
	"github.com/medex/marketplace-api/pkg/auth"
	"github.com/medex/marketplace-api/pkg/messaging/redis"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Outbox journal
	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	outboxRepo := postgres.NewOutboxRepository(db)

	broker, err := redis.NewRedisBroker(redis.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   cfg.Redis.MaxRetries,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, &log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer broker.Close()

	eventSvc := eventService.NewService(outboxRepo, broker, &log.Logger)

	// Marketplace state store, seeded with the root organization.
	seedOrg := model.Organization{
		Address:  model.Address(cfg.Marketplace.Seed),
		Type:     model.OrganizationType(cfg.Marketplace.SeedOrgType),
		Location: cfg.Marketplace.SeedLocation,
		Name:     cfg.Marketplace.SeedName,
		AddedAt:  time.Now(),
	}
	store := memory.New(seedOrg)

	owner := model.Address(cfg.Marketplace.Owner)
	marketplaceAddr := model.Address(cfg.Marketplace.Marketplace)

	tokenSvc := auth.NewTokenService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)

	orgSvc := organizationService.NewService(store, eventSvc, seedOrg.Address)
	patientSvc := patientService.NewService(store, eventSvc, marketplaceAddr)
	recordSvc := recordService.NewService(store, eventSvc)
	ledgerSvc := ledgerService.NewService(store, eventSvc, owner, marketplaceAddr)
	marketplaceSvc := marketplaceService.NewService(store, eventSvc, tokenSvc, marketplaceAddr)

	authMiddleware := middleware.NewAuthMiddleware(tokenSvc)

	r := router.NewRouter(
		authMiddleware,
		healthHandler.NewHandler(db),
		authHandler.NewHandler(tokenSvc, cfg.JWT.DevTokenMint),
		organizationHandler.NewHandler(orgSvc),
		patientHandler.NewHandler(patientSvc),
		recordHandler.NewHandler(recordSvc),
		marketplaceHandler.NewHandler(marketplaceSvc, ledgerSvc),
		router.RouterConfig{
			RateLimit:     rate.Limit(cfg.Server.RateLimit),
			RateBurst:     cfg.Server.RateBurst,
			CORSConfig:    middleware.DefaultCORSConfig(),
			MetricsPrefix: "medmarket_http",
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()
	log.Info().Int("port", cfg.Server.Port).Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
