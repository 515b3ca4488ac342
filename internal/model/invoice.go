package model

import (
	"encoding/json"
	"time"
)

// DateLayout is the plain date form accepted for invoice dates
const DateLayout = "2006-01-02"

// Timestamp is a time that decodes from RFC 3339 or a plain YYYY-MM-DD date.
// Plain dates are midnight UTC. It encodes as RFC 3339.
type Timestamp struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}

	if d, err := time.Parse(DateLayout, s); err == nil {
		t.Time = d
		return nil
	}
	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return NewValidationError("date", s, "datetime", "want RFC 3339 or YYYY-MM-DD")
	}
	t.Time = parsed
	return nil
}

// Address is a postal address
type Address struct {
	Line1    string `json:"line1"`
	Line2    string `json:"line2,omitempty"`
	City     string `json:"city"`
	State    string `json:"state"`
	Postcode string `json:"postcode"`
	Country  string `json:"country"`
}

// Party represents the customer side of an invoice
type Party struct {
	ID      string   `json:"id,omitempty"`
	Name    string   `json:"name"`
	Email   string   `json:"email,omitempty"`
	Phone   string   `json:"phone,omitempty"`
	ABN     string   `json:"abn,omitempty"`
	Address *Address `json:"address,omitempty"`
}

// Supplier is the issuing business
type Supplier struct {
	Name     string  `json:"name"`
	ABN      string  `json:"abn,omitempty"`
	ABNValid bool    `json:"abn_valid"`
	Address  Address `json:"address"`
}

// InvoiceMetadata is the caller-supplied part of an invoice.
// Zero values are filled from the assembler defaults.
type InvoiceMetadata struct {
	InvoiceNumber   string     `json:"invoice_number"`
	InvoiceDate     Timestamp  `json:"invoice_date"`
	DueDate         *Timestamp `json:"due_date,omitempty"`
	SupplierName    string     `json:"supplier_name,omitempty"`
	SupplierABN     string     `json:"supplier_abn,omitempty"`
	SupplierAddress *Address   `json:"supplier_address,omitempty"`
	Customer        Party      `json:"customer"`
	PaymentTerms    string     `json:"payment_terms,omitempty"`
}

// Invoice is a GST invoice record. Breakdown fields are flattened into it.
type Invoice struct {
	InvoiceNumber string     `json:"invoice_number"`
	InvoiceDate   time.Time  `json:"invoice_date"`
	DueDate       *time.Time `json:"due_date,omitempty"`
	Supplier      Supplier   `json:"supplier"`
	Customer      Party      `json:"customer"`

	Breakdown

	PaymentTerms   string   `json:"payment_terms"`
	PaymentMethods []string `json:"payment_methods"`

	GSTRegistrationRequired bool `json:"gst_registration_required"`
	TaxInvoice              bool `json:"tax_invoice"`

	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"created_at"`
}
