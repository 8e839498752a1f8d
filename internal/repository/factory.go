package repository

import (
	"github.com/flexprice/billingrecon/internal/domain/customer"
	"github.com/flexprice/billingrecon/internal/domain/invoice"
	"github.com/flexprice/billingrecon/internal/domain/planchange"
	"github.com/flexprice/billingrecon/internal/domain/transaction"
	"github.com/flexprice/billingrecon/internal/logger"
	"github.com/flexprice/billingrecon/internal/postgres"
	postgresRepo "github.com/flexprice/billingrecon/internal/repository/postgres"
)

func NewCustomerRepository(db *postgres.DB, logger *logger.Logger) customer.Repository {
	return postgresRepo.NewCustomerRepository(db, logger)
}

func NewInvoiceRepository(db *postgres.DB, logger *logger.Logger) invoice.Repository {
	return postgresRepo.NewInvoiceRepository(db, logger)
}

func NewTransactionRepository(db *postgres.DB, logger *logger.Logger) transaction.Repository {
	return postgresRepo.NewTransactionRepository(db, logger)
}

func NewPlanChangeRepository(db *postgres.DB, logger *logger.Logger) planchange.Repository {
	return postgresRepo.NewPlanChangeRepository(db, logger)
}
