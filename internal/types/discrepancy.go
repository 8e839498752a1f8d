package types

// DiscrepancyKind identifies the detection rule that produced a finding.
// Values are listed in the order the rules run.
type DiscrepancyKind string

const (
	DiscrepancyKindDuplicateCharge  DiscrepancyKind = "DuplicateCharge"
	DiscrepancyKindFailedPayments   DiscrepancyKind = "FailedPayments"
	DiscrepancyKindUnmatchedInvoice DiscrepancyKind = "UnmatchedInvoice"
	DiscrepancyKindOrphanRefund     DiscrepancyKind = "OrphanRefund"
	DiscrepancyKindLineItemMismatch DiscrepancyKind = "LineItemMismatch"
)

func (k DiscrepancyKind) String() string {
	return string(k)
}
