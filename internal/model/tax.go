package model

import (
	"time"

	"github.com/shopspring/decimal"

	money "github.com/rezonia/gst-engine/internal/decimal"
)

// TreatmentKind names how GST applies to a category
type TreatmentKind string

const (
	TreatmentInclusive TreatmentKind = "inclusive" // price already contains GST
	TreatmentExclusive TreatmentKind = "exclusive" // GST is added on top
	TreatmentExempt    TreatmentKind = "exempt"    // no GST applies
)

// Valid reports whether k is one of the known treatments
func (k TreatmentKind) Valid() bool {
	switch k {
	case TreatmentInclusive, TreatmentExclusive, TreatmentExempt:
		return true
	default:
		return false
	}
}

// CategoryDefinition describes the GST treatment of one billable category
type CategoryDefinition struct {
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Treatment   TreatmentKind   `json:"treatment"`
	Rate        decimal.Decimal `json:"rate"`
	Description string          `json:"description"`
}

// AmountResult is the cent breakdown of a single amount.
// ExclusiveCents + GSTCents == InclusiveCents always holds.
type AmountResult struct {
	InclusiveCents money.Cents     `json:"inclusive_cents"`
	ExclusiveCents money.Cents     `json:"exclusive_cents"`
	GSTCents       money.Cents     `json:"gst_cents"`
	Rate           decimal.Decimal `json:"rate"`
	Treatment      TreatmentKind   `json:"treatment"`

	// Set when the amount was calculated through a category
	CategoryCode string `json:"category_code,omitempty"`
	Category     string `json:"category,omitempty"`
	Description  string `json:"description,omitempty"`
}

// LineItem is one billable entry supplied by the caller
type LineItem struct {
	Amount       decimal.Decimal `json:"amount"`
	Quantity     int             `json:"quantity,omitempty"` // 0 means 1
	CategoryCode string          `json:"category"`
	Description  string          `json:"description,omitempty"`
}

// LineItemResult is the calculated form of a LineItem
type LineItemResult struct {
	LineNumber       int             `json:"line_number"`
	Description      string          `json:"description"`
	Quantity         int             `json:"quantity"`
	UnitAmountCents  money.Cents     `json:"unit_amount_cents"`
	TotalAmountCents money.Cents     `json:"total_amount_cents"`
	ExclusiveCents   money.Cents     `json:"exclusive_cents"`
	GSTCents         money.Cents     `json:"gst_cents"`
	InclusiveCents   money.Cents     `json:"inclusive_cents"`
	Treatment        TreatmentKind   `json:"treatment"`
	Rate             decimal.Decimal `json:"rate"`
	CategoryCode     string          `json:"category_code"`
	Category         string          `json:"category"`
}

// Breakdown is the aggregated GST calculation over a batch of line items
type Breakdown struct {
	LineItems              []LineItemResult `json:"line_items"`
	SubtotalExclusiveCents money.Cents      `json:"subtotal_exclusive_cents"`
	TotalGSTCents          money.Cents      `json:"total_gst_cents"`
	TotalInclusiveCents    money.Cents      `json:"total_inclusive_cents"`
	Rate                   decimal.Decimal  `json:"rate"`
	CalculatedAt           time.Time        `json:"calculated_at"`
}

// Balanced reports whether subtotal + GST equals the inclusive total
func (b *Breakdown) Balanced() bool {
	return b.SubtotalExclusiveCents+b.TotalGSTCents == b.TotalInclusiveCents
}
