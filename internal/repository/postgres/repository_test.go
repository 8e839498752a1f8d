package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	ierr "github.com/flexprice/billingrecon/internal/errors"
	"github.com/flexprice/billingrecon/internal/logger"
	"github.com/flexprice/billingrecon/internal/postgres"
	"github.com/flexprice/billingrecon/internal/types"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type RepositorySuite struct {
	suite.Suite
	ctx  context.Context
	db   *postgres.DB
	mock sqlmock.Sqlmock
}

func TestRepositorySuite(t *testing.T) {
	suite.Run(t, new(RepositorySuite))
}

func (s *RepositorySuite) SetupTest() {
	raw, mock, err := sqlmock.New()
	s.Require().NoError(err)
	s.ctx = context.Background()
	s.db = postgres.NewFromSqlx(sqlx.NewDb(raw, "postgres"), logger.NewNopLogger())
	s.mock = mock
}

func (s *RepositorySuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
	s.db.Close()
}

var (
	day1 = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	day2 = time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
)

func customerRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "plan", "seats", "billing_cycle", "status", "signup_date", "next_renewal_date",
	})
}

func (s *RepositorySuite) TestCustomerGet() {
	s.mock.ExpectQuery(regexp.QuoteMeta("FROM customers WHERE id = $1")).
		WithArgs("cust_1").
		WillReturnRows(customerRows().AddRow("cust_1", "Acme", "Pro", 8, "monthly", "active", day1, day2))

	c, err := NewCustomerRepository(s.db, logger.NewNopLogger()).Get(s.ctx, "cust_1")
	s.Require().NoError(err)
	s.Equal("Acme", c.Name)
	s.Equal(8, c.Seats)
	s.Equal(types.BillingCycleMonthly, c.BillingCycle)
	s.Equal(types.CustomerStatusActive, c.Status)
	s.True(day2.Equal(c.NextRenewalDate))
}

func (s *RepositorySuite) TestCustomerGet_NotFound() {
	s.mock.ExpectQuery(regexp.QuoteMeta("FROM customers WHERE id = $1")).
		WithArgs("cust_missing").
		WillReturnRows(customerRows())

	_, err := NewCustomerRepository(s.db, logger.NewNopLogger()).Get(s.ctx, "cust_missing")
	s.True(ierr.IsNotFound(err))
}

func (s *RepositorySuite) TestCustomerList_Filter() {
	s.mock.ExpectQuery(regexp.QuoteMeta("FROM customers WHERE status IN ($1, $2) AND LOWER(plan) = $3 ORDER BY id ASC")).
		WithArgs("active", "trial", "pro").
		WillReturnRows(customerRows().
			AddRow("cust_1", "Acme", "Pro", 8, "monthly", "active", day1, day2).
			AddRow("cust_2", "Beta", "pro", 2, "annual", "trial", day1, day2))

	filter := types.NewNoLimitCustomerFilter()
	filter.Statuses = []types.CustomerStatus{types.CustomerStatusActive, types.CustomerStatusTrial}
	filter.Plan = " Pro "

	customers, err := NewCustomerRepository(s.db, logger.NewNopLogger()).List(s.ctx, filter)
	s.Require().NoError(err)
	s.Len(customers, 2)
	s.Equal(types.BillingCycleAnnual, customers[1].BillingCycle)
}

func (s *RepositorySuite) TestInvoiceListByCustomer_UnparsableLineItems() {
	s.mock.ExpectQuery(regexp.QuoteMeta("FROM invoices WHERE customer_id = $1 ORDER BY issued_date ASC, id ASC")).
		WithArgs("cust_1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "customer_id", "amount", "status", "issued_date", "paid_date", "line_items",
		}).
			AddRow("inv_1", "cust_1", "145.00", "paid", day1, day1, `[{"description":"Pro x 5","amount":"145.00"}]`).
			AddRow("inv_2", "cust_1", "59.00", "pending", day2, nil, `{not json`))

	invoices, err := NewInvoiceRepository(s.db, logger.NewNopLogger()).ListByCustomer(s.ctx, "cust_1")
	s.Require().NoError(err)
	s.Require().Len(invoices, 2)

	s.Equal("145", invoices[0].Amount.String())
	s.Require().NotNil(invoices[0].PaidDate)
	total, ok := invoices[0].LineItems.Total()
	s.True(ok)
	s.Equal("145", total.String())

	s.Nil(invoices[1].PaidDate)
	s.False(invoices[1].LineItems.Valid)
	s.Equal(`{not json`, invoices[1].LineItems.Raw)
}

func (s *RepositorySuite) TestTransactionList_FailedChargesThisMonth() {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	s.mock.ExpectQuery(regexp.QuoteMeta(
		"FROM transactions WHERE type IN ($1) AND status IN ($2) AND date >= $3 AND date < $4 ORDER BY date ASC, id ASC")).
		WithArgs("charge", "failed", "2024-06-01T00:00:00Z", "2024-07-01T00:00:00Z").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "customer_id", "invoice_id", "type", "amount", "date", "payment_method", "status", "description",
		}).AddRow("txn_1", "cust_1", nil, "charge", "59.00", start, "card", "failed", "Pro renewal"))

	txns, err := NewTransactionRepository(s.db, logger.NewNopLogger()).
		List(s.ctx, types.NewFailedChargesFilter(start, end))
	s.Require().NoError(err)
	s.Require().Len(txns, 1)
	s.Nil(txns[0].InvoiceID)
	s.True(txns[0].IsFailedCharge())
}

func (s *RepositorySuite) TestPlanChangeListByCustomer() {
	s.mock.ExpectQuery(regexp.QuoteMeta("FROM plan_changes WHERE customer_id = $1 ORDER BY effective_date ASC, id ASC")).
		WithArgs("cust_1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "customer_id", "previous_plan", "new_plan", "previous_seats", "new_seats",
			"change_type", "effective_date", "proration_amount",
		}).AddRow("plchg_1", "cust_1", "Enterprise", "Pro", 15, 8, "downgrade", day1, "-506.50"))

	changes, err := NewPlanChangeRepository(s.db, logger.NewNopLogger()).ListByCustomer(s.ctx, "cust_1")
	s.Require().NoError(err)
	s.Require().Len(changes, 1)
	s.True(changes[0].IsCredit())
	s.Equal(types.PlanChangeTypeDowngrade, changes[0].ChangeType)
}

func TestReadsShareSnapshotTransaction(t *testing.T) {
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	db := postgres.NewFromSqlx(sqlx.NewDb(raw, "postgres"), logger.NewNopLogger())
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM invoices")).WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(regexp.QuoteMeta("FROM transactions")).WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectCommit()

	err = db.WithSnapshot(context.Background(), func(ctx context.Context) error {
		if _, err := NewInvoiceRepository(db, logger.NewNopLogger()).ListByCustomer(ctx, "cust_1"); err != nil {
			return err
		}
		_, err := NewTransactionRepository(db, logger.NewNopLogger()).ListByCustomer(ctx, "cust_1")
		return err
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
