package discrepancy

import (
	"fmt"
	"sort"

	"github.com/flexprice/billingrecon/internal/domain/invoice"
	"github.com/flexprice/billingrecon/internal/domain/transaction"
	"github.com/flexprice/billingrecon/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Policy configures the detection rules
type Policy struct {
	// DuplicateWindowDays is inclusive and measured in UTC calendar days
	DuplicateWindowDays int
	CheckLineItems      bool
}

// DefaultPolicy flags equal charges up to 7 days apart and checks line item totals
func DefaultPolicy() Policy {
	return Policy{DuplicateWindowDays: 7, CheckLineItems: true}
}

// Detector runs the detection rules over one customer's records
type Detector struct {
	policy Policy
}

func NewDetector(policy Policy) *Detector {
	return &Detector{policy: policy}
}

// Detect returns findings in rule order: duplicate charges, failed payments,
// unmatched invoices, orphan refunds, line item mismatches. The result depends only
// on the input records, never on their order, and the inputs are not modified.
func (d *Detector) Detect(invoices []*invoice.Invoice, txns []*transaction.Transaction) []Discrepancy {
	invoices = lo.Filter(invoices, func(i *invoice.Invoice, _ int) bool { return i != nil })
	txns = lo.Filter(txns, func(t *transaction.Transaction, _ int) bool { return t != nil })

	result := make([]Discrepancy, 0)
	result = append(result, d.duplicateCharges(txns)...)
	result = append(result, d.failedPayments(txns)...)
	result = append(result, d.unmatchedInvoices(invoices, txns)...)
	result = append(result, d.orphanRefunds(txns)...)
	if d.policy.CheckLineItems {
		result = append(result, d.lineItemMismatches(invoices)...)
	}
	return result
}

func (d *Detector) duplicateCharges(txns []*transaction.Transaction) []Discrepancy {
	charges := lo.Filter(txns, func(t *transaction.Transaction, _ int) bool {
		return t.IsSucceededCharge()
	})
	sort.SliceStable(charges, func(i, j int) bool {
		return charges[i].ID < charges[j].ID
	})

	var out []Discrepancy
	for i := 0; i < len(charges); i++ {
		for j := i + 1; j < len(charges); j++ {
			a, b := charges[i], charges[j]
			if a.ID == b.ID || a.CustomerID != b.CustomerID || !a.Amount.Equal(b.Amount) {
				continue
			}
			apart := absInt(types.DaysBetween(a.Date, b.Date))
			if apart > d.policy.DuplicateWindowDays {
				continue
			}
			out = append(out, Discrepancy{
				Kind: types.DiscrepancyKindDuplicateCharge,
				Description: fmt.Sprintf(
					"Possible duplicate charge: %s and %s both charged %s within %d day(s)",
					a.ID, b.ID, money(a.Amount), apart,
				),
				Details: DuplicateChargeDetails{
					FirstTransactionID:  a.ID,
					SecondTransactionID: b.ID,
					Amount:              a.Amount,
					FirstDate:           a.Date,
					SecondDate:          b.Date,
					FirstDescription:    a.Description,
					SecondDescription:   b.Description,
					DaysApart:           apart,
				},
			})
		}
	}
	return out
}

func (d *Detector) failedPayments(txns []*transaction.Transaction) []Discrepancy {
	failed := lo.Filter(txns, func(t *transaction.Transaction, _ int) bool {
		return t.IsFailedCharge()
	})
	if len(failed) == 0 {
		return nil
	}
	sortByDateThenID(failed)

	total := decimal.Zero
	payments := make([]FailedPayment, 0, len(failed))
	for _, t := range failed {
		total = total.Add(t.Amount)
		payments = append(payments, FailedPayment{
			TransactionID: t.ID,
			InvoiceID:     t.InvoiceID,
			Amount:        t.Amount,
			Date:          t.Date,
			PaymentMethod: t.PaymentMethod,
			Description:   t.Description,
		})
	}

	return []Discrepancy{{
		Kind:        types.DiscrepancyKindFailedPayments,
		Description: fmt.Sprintf("%d failed payment(s) totalling %s", len(failed), money(total)),
		Details: FailedPaymentsDetails{
			Count:       len(failed),
			TotalAmount: total,
			Payments:    payments,
		},
	}}
}

// unmatchedInvoices reports paid invoices not settled by succeeded charges that
// reference them. An invoice is settled when one referencing charge equals its
// amount or the referencing charges sum to it.
func (d *Detector) unmatchedInvoices(invoices []*invoice.Invoice, txns []*transaction.Transaction) []Discrepancy {
	refs := lo.GroupBy(lo.Filter(txns, func(t *transaction.Transaction, _ int) bool {
		return t.IsSucceededCharge() && t.InvoiceID != nil
	}), func(t *transaction.Transaction) string {
		return *t.InvoiceID
	})

	paid := lo.Filter(invoices, func(i *invoice.Invoice, _ int) bool {
		return i.IsPaid() && !settles(i, refs[i.ID])
	})
	sort.SliceStable(paid, func(i, j int) bool {
		if !paid[i].IssuedDate.Equal(paid[j].IssuedDate) {
			return paid[i].IssuedDate.Before(paid[j].IssuedDate)
		}
		return paid[i].ID < paid[j].ID
	})

	out := make([]Discrepancy, 0, len(paid))
	for _, inv := range paid {
		charges := append([]*transaction.Transaction(nil), refs[inv.ID]...)
		sortByDateThenID(charges)

		total := decimal.Zero
		refCharges := make([]ChargeReference, 0, len(charges))
		for _, c := range charges {
			total = total.Add(c.Amount)
			refCharges = append(refCharges, ChargeReference{
				TransactionID: c.ID,
				Amount:        c.Amount,
				Date:          c.Date,
			})
		}

		description := fmt.Sprintf(
			"Invoice %s for %s is marked paid but no succeeded charge references it",
			inv.ID, money(inv.Amount),
		)
		if len(charges) > 0 {
			description = fmt.Sprintf(
				"Invoice %s for %s is marked paid but its %d succeeded charge(s) total %s",
				inv.ID, money(inv.Amount), len(charges), money(total),
			)
		}

		out = append(out, Discrepancy{
			Kind:        types.DiscrepancyKindUnmatchedInvoice,
			Description: description,
			Details: UnmatchedInvoiceDetails{
				InvoiceID:          inv.ID,
				Amount:             inv.Amount,
				IssuedDate:         inv.IssuedDate,
				PaidDate:           inv.PaidDate,
				ReferencingCharges: refCharges,
				ReferencedTotal:    total,
			},
		})
	}
	return out
}

func settles(inv *invoice.Invoice, charges []*transaction.Transaction) bool {
	if len(charges) == 0 {
		return false
	}
	_, exact := lo.Find(charges, func(c *transaction.Transaction) bool {
		return c.Amount.Equal(inv.Amount)
	})
	if exact {
		return true
	}
	total := lo.Reduce(charges, func(sum decimal.Decimal, c *transaction.Transaction, _ int) decimal.Decimal {
		return sum.Add(c.Amount)
	}, decimal.Zero)
	return total.Equal(inv.Amount)
}

func (d *Detector) orphanRefunds(txns []*transaction.Transaction) []Discrepancy {
	refunds := lo.Filter(txns, func(t *transaction.Transaction, _ int) bool {
		return t.IsRefund()
	})
	sortByDateThenID(refunds)

	charges := lo.Filter(txns, func(t *transaction.Transaction, _ int) bool {
		return t.IsSucceededCharge()
	})

	var out []Discrepancy
	for _, r := range refunds {
		refundDay := types.TruncateToDay(r.Date)
		_, matched := lo.Find(charges, func(c *transaction.Transaction) bool {
			return c.CustomerID == r.CustomerID &&
				c.Amount.Equal(r.Amount) &&
				!types.TruncateToDay(c.Date).After(refundDay)
		})
		if matched {
			continue
		}
		out = append(out, Discrepancy{
			Kind: types.DiscrepancyKindOrphanRefund,
			Description: fmt.Sprintf(
				"Refund %s of %s has no prior succeeded charge of the same amount",
				r.ID, money(r.Amount),
			),
			Details: OrphanRefundDetails{
				TransactionID: r.ID,
				InvoiceID:     r.InvoiceID,
				Amount:        r.Amount,
				Date:          r.Date,
				Status:        r.Status,
				Description:   r.Description,
			},
		})
	}
	return out
}

// lineItemMismatches reports invoices whose itemised total differs from the invoice amount.
// Unavailable or empty line item lists carry no breakdown and are skipped.
func (d *Detector) lineItemMismatches(invoices []*invoice.Invoice) []Discrepancy {
	sorted := append([]*invoice.Invoice(nil), invoices...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].IssuedDate.Equal(sorted[j].IssuedDate) {
			return sorted[i].IssuedDate.Before(sorted[j].IssuedDate)
		}
		return sorted[i].ID < sorted[j].ID
	})

	var out []Discrepancy
	for _, inv := range sorted {
		total, ok := inv.LineItems.Total()
		if !ok || len(inv.LineItems.Items) == 0 || total.Equal(inv.Amount) {
			continue
		}
		out = append(out, Discrepancy{
			Kind: types.DiscrepancyKindLineItemMismatch,
			Description: fmt.Sprintf(
				"Invoice %s amount %s does not match its line item total %s",
				inv.ID, money(inv.Amount), money(total),
			),
			Details: LineItemMismatchDetails{
				InvoiceID:     inv.ID,
				InvoiceAmount: inv.Amount,
				LineItemTotal: total,
				Difference:    inv.Amount.Sub(total),
				LineItemCount: len(inv.LineItems.Items),
			},
		})
	}
	return out
}

func sortByDateThenID(txns []*transaction.Transaction) {
	sort.SliceStable(txns, func(i, j int) bool {
		if !txns[i].Date.Equal(txns[j].Date) {
			return txns[i].Date.Before(txns[j].Date)
		}
		return txns[i].ID < txns[j].ID
	})
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
