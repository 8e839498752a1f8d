package service

import (
	"github.com/flexprice/billingrecon/internal/cache"
	"github.com/flexprice/billingrecon/internal/config"
	"github.com/flexprice/billingrecon/internal/domain/customer"
	"github.com/flexprice/billingrecon/internal/domain/invoice"
	"github.com/flexprice/billingrecon/internal/domain/plan"
	"github.com/flexprice/billingrecon/internal/domain/planchange"
	"github.com/flexprice/billingrecon/internal/domain/transaction"
	"github.com/flexprice/billingrecon/internal/logger"
	"github.com/flexprice/billingrecon/internal/metrics"
	"github.com/flexprice/billingrecon/internal/postgres"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger  *logger.Logger
	Config  *config.Configuration
	DB      postgres.IClient
	Metrics *metrics.Metrics
	Cache   cache.Cache
	Catalog *plan.Catalog

	// Repositories
	CustomerRepo    customer.Repository
	InvoiceRepo     invoice.Repository
	TransactionRepo transaction.Repository
	PlanChangeRepo  planchange.Repository
}

// Common service params
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	db postgres.IClient,
	metrics *metrics.Metrics,
	cache cache.Cache,
	catalog *plan.Catalog,
	customerRepo customer.Repository,
	invoiceRepo invoice.Repository,
	transactionRepo transaction.Repository,
	planChangeRepo planchange.Repository,
) ServiceParams {
	return ServiceParams{
		Logger:          logger,
		Config:          config,
		DB:              db,
		Metrics:         metrics,
		Cache:           cache,
		Catalog:         catalog,
		CustomerRepo:    customerRepo,
		InvoiceRepo:     invoiceRepo,
		TransactionRepo: transactionRepo,
		PlanChangeRepo:  planChangeRepo,
	}
}
