package invoice

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// LineItem is one priced entry on an invoice
type LineItem struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// LineItems is the ordered line item list of an invoice as stored in a JSON text
// column. A payload that cannot be decoded leaves Valid false and keeps the raw
// text so callers can show it without treating the invoice as broken.
type LineItems struct {
	Items []LineItem
	Valid bool
	Raw   string
}

// NewLineItems returns a valid set holding items
func NewLineItems(items ...LineItem) LineItems {
	return LineItems{Items: items, Valid: true}
}

// ParseLineItems decodes a stored payload. It never fails; an empty payload is a
// valid empty list and anything undecodable is returned as unavailable.
func ParseLineItems(raw string) LineItems {
	if raw == "" {
		return LineItems{Valid: true}
	}
	var items []LineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return LineItems{Raw: raw}
	}
	return LineItems{Items: items, Valid: true, Raw: raw}
}

// Total sums the line item amounts. The bool is false when the items are unavailable.
func (l LineItems) Total() (decimal.Decimal, bool) {
	if !l.Valid {
		return decimal.Zero, false
	}
	total := decimal.Zero
	for _, item := range l.Items {
		total = total.Add(item.Amount)
	}
	return total, true
}

// Scan implements sql.Scanner
func (l *LineItems) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*l = LineItems{Valid: true}
	case string:
		*l = ParseLineItems(v)
	case []byte:
		*l = ParseLineItems(string(v))
	default:
		return fmt.Errorf("unsupported line_items column type %T", src)
	}
	return nil
}

// Value implements driver.Valuer
func (l LineItems) Value() (driver.Value, error) {
	if !l.Valid {
		return l.Raw, nil
	}
	b, err := json.Marshal(l.Items)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// lineItemsJSON carries Items only when available; an available empty set renders as []
type lineItemsJSON struct {
	Available bool        `json:"available"`
	Items     *[]LineItem `json:"items,omitempty"`
	Raw       string      `json:"raw,omitempty"`
}

func (l LineItems) MarshalJSON() ([]byte, error) {
	if !l.Valid {
		return json.Marshal(lineItemsJSON{Raw: l.Raw})
	}
	items := l.Items
	if items == nil {
		items = []LineItem{}
	}
	return json.Marshal(lineItemsJSON{Available: true, Items: &items})
}
