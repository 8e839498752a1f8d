package service

import (
	"context"
	"time"

	"github.com/flexprice/billingrecon/internal/domain/customer"
	"github.com/flexprice/billingrecon/internal/domain/invoice"
	"github.com/flexprice/billingrecon/internal/domain/transaction"
	"github.com/flexprice/billingrecon/internal/testutil"
	"github.com/flexprice/billingrecon/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

func newTestServiceParams(s *testutil.BaseServiceTestSuite) ServiceParams {
	stores := s.GetStores()
	return NewServiceParams(
		s.GetLogger(),
		s.GetConfig(),
		s.GetDB(),
		s.GetMetrics(),
		s.GetCache(),
		s.GetCatalog(),
		stores.CustomerRepo,
		stores.InvoiceRepo,
		stores.TransactionRepo,
		stores.PlanChangeRepo,
	)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type fixtures struct {
	ctx          context.Context
	customers    *testutil.InMemoryCustomerStore
	invoices     *testutil.InMemoryInvoiceStore
	transactions *testutil.InMemoryTransactionStore
}

func newFixtures(s *testutil.BaseServiceTestSuite) fixtures {
	stores := s.GetStores()
	return fixtures{
		ctx:          s.GetContext(),
		customers:    stores.CustomerRepo.(*testutil.InMemoryCustomerStore),
		invoices:     stores.InvoiceRepo.(*testutil.InMemoryInvoiceStore),
		transactions: stores.TransactionRepo.(*testutil.InMemoryTransactionStore),
	}
}

func (f fixtures) customer(id, planName string, seats int, cycle types.BillingCycle, status types.CustomerStatus, renewal time.Time) *customer.Customer {
	c := &customer.Customer{
		ID:              id,
		Name:            "Customer " + id,
		Plan:            planName,
		Seats:           seats,
		BillingCycle:    cycle,
		Status:          status,
		SignupDate:      date(2023, 1, 1),
		NextRenewalDate: renewal,
	}
	if err := f.customers.Create(f.ctx, c); err != nil {
		panic(err)
	}
	return c
}

func (f fixtures) invoice(id, customerID, amount string, status types.InvoiceStatus, issued time.Time) *invoice.Invoice {
	inv := &invoice.Invoice{
		ID:         id,
		CustomerID: customerID,
		Amount:     dec(amount),
		Status:     status,
		IssuedDate: issued,
		LineItems: invoice.NewLineItems(invoice.LineItem{
			Description: "Subscription",
			Amount:      dec(amount),
		}),
	}
	if status == types.InvoiceStatusPaid {
		inv.PaidDate = lo.ToPtr(issued)
	}
	if err := f.invoices.Create(f.ctx, inv); err != nil {
		panic(err)
	}
	return inv
}

func (f fixtures) txn(id, customerID string, invoiceID *string, typ types.TransactionType, amount string, status types.TransactionStatus, d time.Time) *transaction.Transaction {
	t := &transaction.Transaction{
		ID:            id,
		CustomerID:    customerID,
		InvoiceID:     invoiceID,
		Type:          typ,
		Amount:        dec(amount),
		Date:          d,
		PaymentMethod: "card",
		Status:        status,
		Description:   string(typ) + " " + id,
	}
	if err := f.transactions.Create(f.ctx, t); err != nil {
		panic(err)
	}
	return t
}
