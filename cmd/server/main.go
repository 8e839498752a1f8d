package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/flexprice/billingrecon/internal/api"
	v1 "github.com/flexprice/billingrecon/internal/api/v1"
	"github.com/flexprice/billingrecon/internal/cache"
	"github.com/flexprice/billingrecon/internal/config"
	"github.com/flexprice/billingrecon/internal/domain/plan"
	"github.com/flexprice/billingrecon/internal/logger"
	"github.com/flexprice/billingrecon/internal/metrics"
	"github.com/flexprice/billingrecon/internal/postgres"
	"github.com/flexprice/billingrecon/internal/repository"
	"github.com/flexprice/billingrecon/internal/sentry"
	"github.com/flexprice/billingrecon/internal/service"
	"github.com/flexprice/billingrecon/internal/types"
	"github.com/flexprice/billingrecon/internal/validator"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

func init() {
	// Date arithmetic is UTC throughout
	time.Local = time.UTC
}

func main() {
	var opts []fx.Option

	// Core dependencies
	opts = append(opts,
		fx.Provide(
			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Monitoring
			metrics.NewDefaultMetrics,
			sentry.NewSentryService,

			// Cache
			cache.NewInMemoryCache,

			// Price catalog
			plan.NewCatalogFromConfig,

			// Repositories
			repository.NewCustomerRepository,
			repository.NewInvoiceRepository,
			repository.NewTransactionRepository,
			repository.NewPlanChangeRepository,
		),
		postgres.Module(),
		fx.Invoke(
			// Register custom validations before the first request binds
			validator.NewValidator,
			sentry.RegisterHooks,
		),
	)

	// Service layer
	opts = append(opts,
		fx.Provide(
			service.NewServiceParams,

			service.NewReconciliationService,
			service.NewProrationService,
			service.NewRevenueService,
		),
	)

	// API
	opts = append(opts,
		fx.Provide(
			provideHandlers,
			api.NewRouter,
		),
		fx.Invoke(
			startServer,
		),
	)

	app := fx.New(opts...)
	app.Run()
}

func provideHandlers(
	logger *logger.Logger,
	reconciliationService service.ReconciliationService,
	prorationService service.ProrationService,
	revenueService service.RevenueService,
) api.Handlers {
	return api.Handlers{
		Health:         v1.NewHealthHandler(logger),
		Reconciliation: v1.NewReconciliationHandler(reconciliationService, logger),
		Proration:      v1.NewProrationHandler(prorationService, logger),
		Revenue:        v1.NewRevenueHandler(revenueService, logger),
	}
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	db *postgres.DB,
	log *logger.Logger,
) {
	mode := cfg.Deployment.Mode
	if mode == "" {
		mode = types.ModeLocal
	}

	switch mode {
	case types.ModeLocal, types.ModeAPI:
		startAPIServer(lc, r, cfg, db, log)
	default:
		log.Fatalf("Unknown deployment mode: %s", mode)
	}
}

func startAPIServer(
	lc fx.Lifecycle,
	r *gin.Engine,
	cfg *config.Configuration,
	db *postgres.DB,
	log *logger.Logger,
) {
	srv := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: r,
	}

	log.Info("Registering API server start hook")
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("Starting API server...", "address", cfg.Server.Address)
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			err := srv.Shutdown(ctx)
			db.Close()
			return err
		},
	})
}
