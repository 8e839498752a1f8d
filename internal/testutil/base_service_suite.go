package testutil

import (
	"context"
	"time"

	"github.com/flexprice/billingrecon/internal/cache"
	"github.com/flexprice/billingrecon/internal/config"
	"github.com/flexprice/billingrecon/internal/domain/customer"
	"github.com/flexprice/billingrecon/internal/domain/invoice"
	"github.com/flexprice/billingrecon/internal/domain/plan"
	"github.com/flexprice/billingrecon/internal/domain/planchange"
	"github.com/flexprice/billingrecon/internal/domain/transaction"
	"github.com/flexprice/billingrecon/internal/logger"
	"github.com/flexprice/billingrecon/internal/metrics"
	"github.com/flexprice/billingrecon/internal/validator"
	"github.com/stretchr/testify/suite"
)

// Stores holds all the repository interfaces for testing
type Stores struct {
	CustomerRepo    customer.Repository
	InvoiceRepo     invoice.Repository
	TransactionRepo transaction.Repository
	PlanChangeRepo  planchange.Repository
}

// BaseServiceTestSuite provides common functionality for all service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	stores  Stores
	db      *MockPostgresClient
	logger  *logger.Logger
	config  *config.Configuration
	metrics *metrics.Metrics
	cache   cache.Cache
	catalog *plan.Catalog
	now     time.Time
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	validator.NewValidator()

	s.config = config.GetDefaultConfig()
	s.logger = logger.NewNopLogger()
	s.catalog = plan.NewCatalogFromConfig(s.config)
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.ctx = SetupContext()
	s.setupStores()
	s.now = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.clearStores()
}

func (s *BaseServiceTestSuite) setupStores() {
	s.stores = Stores{
		CustomerRepo:    NewInMemoryCustomerStore(),
		InvoiceRepo:     NewInMemoryInvoiceStore(),
		TransactionRepo: NewInMemoryTransactionStore(),
		PlanChangeRepo:  NewInMemoryPlanChangeStore(),
	}

	s.db = NewMockPostgresClient(s.logger)
	s.metrics = metrics.NewMetrics("test")
	s.cache = cache.NewInMemoryCache(s.config)
}

func (s *BaseServiceTestSuite) clearStores() {
	s.stores.CustomerRepo.(*InMemoryCustomerStore).Clear()
	s.stores.InvoiceRepo.(*InMemoryInvoiceStore).Clear()
	s.stores.TransactionRepo.(*InMemoryTransactionStore).Clear()
	s.stores.PlanChangeRepo.(*InMemoryPlanChangeStore).Clear()
	s.cache.Flush(s.ctx)
}

func (s *BaseServiceTestSuite) ClearStores() {
	s.clearStores()
}

// GetContext returns the test context
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// GetConfig returns the test configuration
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

// GetStores returns all test repositories
func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

// GetDB returns the mock snapshot client
func (s *BaseServiceTestSuite) GetDB() *MockPostgresClient {
	return s.db
}

func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

func (s *BaseServiceTestSuite) GetMetrics() *metrics.Metrics {
	return s.metrics
}

func (s *BaseServiceTestSuite) GetCache() cache.Cache {
	return s.cache
}

func (s *BaseServiceTestSuite) GetCatalog() *plan.Catalog {
	return s.catalog
}

// GetNow returns the fixed reference time of the test
func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.now
}
