package gst

import (
	"time"

	"github.com/rezonia/gst-engine/internal/abn"
	"github.com/rezonia/gst-engine/internal/model"
)

// Invoice defaults used when neither configuration nor caller supplies a value
const (
	DefaultSupplierName = "Ballarat Tool Library"
	DefaultPaymentTerms = "Due on receipt"
	DefaultCurrency     = "AUD"
)

// DefaultSupplierAddress is the placeholder address of the default supplier
var DefaultSupplierAddress = model.Address{
	Line1:    "TBD",
	City:     "Ballarat",
	State:    "VIC",
	Postcode: "3350",
	Country:  "Australia",
}

// DefaultPaymentMethods lists the accepted payment methods
var DefaultPaymentMethods = []string{"Credit Card", "Debit Card"}

// Assembler turns line items plus metadata into an Invoice
type Assembler struct {
	aggregator     *Aggregator
	supplier       model.Supplier
	paymentTerms   string
	paymentMethods []string
	currency       string
}

// AssemblerOption configures an Assembler
type AssemblerOption func(*Assembler)

// WithSupplier sets the default supplier identity
func WithSupplier(name, abnValue string, address model.Address) AssemblerOption {
	return func(a *Assembler) {
		if name != "" {
			a.supplier.Name = name
		}
		a.supplier.ABN = abnValue
		a.supplier.Address = address
	}
}

// WithPaymentTerms sets the default payment terms
func WithPaymentTerms(terms string) AssemblerOption {
	return func(a *Assembler) {
		if terms != "" {
			a.paymentTerms = terms
		}
	}
}

// WithPaymentMethods sets the accepted payment methods
func WithPaymentMethods(methods ...string) AssemblerOption {
	return func(a *Assembler) {
		if len(methods) > 0 {
			a.paymentMethods = append([]string(nil), methods...)
		}
	}
}

// WithCurrency sets the invoice currency code
func WithCurrency(code string) AssemblerOption {
	return func(a *Assembler) {
		if code != "" {
			a.currency = code
		}
	}
}

// NewAssembler creates an assembler over registry
func NewAssembler(registry *Registry, opts ...AssemblerOption) *Assembler {
	a := &Assembler{
		aggregator: NewAggregator(registry),
		supplier: model.Supplier{
			Name:    DefaultSupplierName,
			Address: DefaultSupplierAddress,
		},
		paymentTerms:   DefaultPaymentTerms,
		paymentMethods: DefaultPaymentMethods,
		currency:       DefaultCurrency,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Aggregator returns the aggregator used for breakdowns
func (a *Assembler) Aggregator() *Aggregator {
	return a.aggregator
}

// Build aggregates items and decorates the breakdown with invoice metadata.
// The clock is read once; calculated_at, created_at and a missing invoice
// date all share that instant.
func (a *Assembler) Build(meta model.InvoiceMetadata, items []model.LineItem, clock Clock) (*model.Invoice, error) {
	if clock == nil {
		return nil, errNilClock
	}
	now := clock()

	breakdown, err := a.aggregator.Build(items, FixedClock(now))
	if err != nil {
		return nil, err
	}

	invoiceDate := meta.InvoiceDate.Time
	if invoiceDate.IsZero() {
		invoiceDate = now
	}

	var dueDate *time.Time
	if meta.DueDate != nil {
		d := meta.DueDate.Time
		dueDate = &d
	}

	paymentTerms := meta.PaymentTerms
	if paymentTerms == "" {
		paymentTerms = a.paymentTerms
	}

	gstCharged := breakdown.TotalGSTCents > 0

	return &model.Invoice{
		InvoiceNumber:           meta.InvoiceNumber,
		InvoiceDate:             invoiceDate,
		DueDate:                 dueDate,
		Supplier:                a.supplierFor(meta),
		Customer:                meta.Customer,
		Breakdown:               *breakdown,
		PaymentTerms:            paymentTerms,
		PaymentMethods:          append([]string(nil), a.paymentMethods...),
		GSTRegistrationRequired: gstCharged,
		TaxInvoice:              gstCharged,
		Currency:                a.currency,
		CreatedAt:               now,
	}, nil
}

func (a *Assembler) supplierFor(meta model.InvoiceMetadata) model.Supplier {
	s := a.supplier
	if meta.SupplierName != "" {
		s.Name = meta.SupplierName
	}
	if meta.SupplierABN != "" {
		s.ABN = meta.SupplierABN
	}
	if meta.SupplierAddress != nil {
		s.Address = *meta.SupplierAddress
	}
	s.ABNValid = s.ABN != "" && abn.IsValid(s.ABN)
	return s
}
