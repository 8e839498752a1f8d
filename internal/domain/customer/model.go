package customer

import (
	"time"

	"github.com/flexprice/billingrecon/internal/types"
)

// Customer is a subscriber as recorded by the billing record store
type Customer struct {
	ID              string               `db:"id" json:"id"`
	Name            string               `db:"name" json:"name"`
	Plan            string               `db:"plan" json:"plan"`
	Seats           int                  `db:"seats" json:"seats"`
	BillingCycle    types.BillingCycle   `db:"billing_cycle" json:"billing_cycle"`
	Status          types.CustomerStatus `db:"status" json:"status"`
	SignupDate      time.Time            `db:"signup_date" json:"signup_date"`
	NextRenewalDate time.Time            `db:"next_renewal_date" json:"next_renewal_date"`
}

// IsActive reports whether the customer contributes to recurring revenue
func (c *Customer) IsActive() bool {
	return c.Status == types.CustomerStatusActive
}
