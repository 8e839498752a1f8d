package api

import (
	v1 "github.com/flexprice/billingrecon/internal/api/v1"
	"github.com/flexprice/billingrecon/internal/config"
	"github.com/flexprice/billingrecon/internal/logger"
	"github.com/flexprice/billingrecon/internal/metrics"
	"github.com/flexprice/billingrecon/internal/rest/middleware"
	"github.com/flexprice/billingrecon/internal/sentry"
	"github.com/flexprice/billingrecon/internal/types"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Health         *v1.HealthHandler
	Reconciliation *v1.ReconciliationHandler
	Proration      *v1.ProrationHandler
	Revenue        *v1.RevenueHandler
}

func NewRouter(handlers Handlers, cfg *config.Configuration, logger *logger.Logger, m *metrics.Metrics, sentrySvc *sentry.Service) *gin.Engine {
	if cfg.Deployment.Mode != types.ModeLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.SentryMiddleware(cfg),
		middleware.RequestIDMiddleware,
		middleware.CORSMiddleware,
		middleware.MetricsMiddleware(m),
		middleware.ErrorHandler(logger, sentrySvc),
	)

	router.GET("/health", handlers.Health.Health)
	router.GET("/metrics", gin.WrapH(m.Handler()))

	v1Router := router.Group("/v1")

	customers := v1Router.Group("/customers/:id")
	{
		customers.GET("/discrepancies", handlers.Reconciliation.GetCustomerDiscrepancies)
		customers.POST("/plan-change/preview", handlers.Proration.PreviewPlanChange)
		customers.GET("/plan-changes", handlers.Proration.ListPlanChanges)
	}

	v1Router.GET("/discrepancies", handlers.Reconciliation.ListDiscrepancies)
	v1Router.POST("/proration/calculate", handlers.Proration.CalculateProration)
	v1Router.GET("/revenue/summary", handlers.Revenue.GetSummary)

	return router
}
