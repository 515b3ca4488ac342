package gstlib

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/rezonia/gst-engine/internal/abn"
	money "github.com/rezonia/gst-engine/internal/decimal"
	"github.com/rezonia/gst-engine/internal/gst"
	"github.com/rezonia/gst-engine/internal/model"
)

// Engine bundles a category registry with an invoice assembler
type Engine struct {
	registry  *gst.Registry
	assembler *gst.Assembler
	clock     gst.Clock
}

// NewEngine creates an engine over registry. A nil clock means the system clock.
func NewEngine(registry *gst.Registry, clock gst.Clock, opts ...gst.AssemblerOption) *Engine {
	if clock == nil {
		clock = gst.SystemClock
	}
	return &Engine{
		registry:  registry,
		assembler: gst.NewAssembler(registry, opts...),
		clock:     clock,
	}
}

// NewDefaultEngine creates an engine with the built-in category table
func NewDefaultEngine() *Engine {
	return NewEngine(gst.DefaultRegistry(), nil)
}

// Registry returns the engine's category registry
func (e *Engine) Registry() *gst.Registry {
	return e.registry
}

// ResolveCategory returns the definition registered for code
func (e *Engine) ResolveCategory(code string) (model.CategoryDefinition, error) {
	return e.registry.Resolve(code)
}

// CalculateByCategory calculates amount under the treatment of category code
func (e *Engine) CalculateByCategory(amount decimal.Decimal, code string) (model.AmountResult, error) {
	return e.registry.CalculateByCategory(amount, code)
}

// BuildBreakdown aggregates items; any failing item fails the whole batch
func (e *Engine) BuildBreakdown(items []model.LineItem) (*model.Breakdown, error) {
	return e.assembler.Aggregator().Build(items, e.clock)
}

// BuildBreakdowns aggregates independent batches concurrently, preserving order
func (e *Engine) BuildBreakdowns(ctx context.Context, batches [][]model.LineItem) ([]*model.Breakdown, error) {
	return e.assembler.Aggregator().BuildBatch(ctx, batches, e.clock)
}

// BuildInvoice assembles a tax invoice from meta and items
func (e *Engine) BuildInvoice(meta model.InvoiceMetadata, items []model.LineItem) (*model.Invoice, error) {
	return e.assembler.Build(meta, items, e.clock)
}

var defaultEngine = NewDefaultEngine()

// ResolveCategory looks code up in the default registry
func ResolveCategory(code string) (CategoryDefinition, error) {
	return defaultEngine.ResolveCategory(code)
}

// AmountFromFloat converts a float amount for the calculate functions.
// NaN and infinities are rejected with an InvalidAmountError.
func AmountFromFloat(v float64) (decimal.Decimal, error) {
	d, err := money.FromFloat(v)
	if err != nil {
		return decimal.Zero, model.NewInvalidAmountError("amount", v, "not a finite number", err)
	}
	return d, nil
}

// NewLineItem builds a line item from a float amount
func NewLineItem(amount float64, quantity int, code, description string) (LineItem, error) {
	d, err := AmountFromFloat(amount)
	if err != nil {
		return LineItem{}, err
	}
	return LineItem{Amount: d, Quantity: quantity, CategoryCode: code, Description: description}, nil
}

// CalculateInclusive treats amount as GST-inclusive at rate
func CalculateInclusive(amount, rate decimal.Decimal) (AmountResult, error) {
	return gst.CalculateInclusive(amount, rate)
}

// CalculateExclusive treats amount as GST-exclusive at rate
func CalculateExclusive(amount, rate decimal.Decimal) (AmountResult, error) {
	return gst.CalculateExclusive(amount, rate)
}

// CalculateExempt carries amount through without GST
func CalculateExempt(amount decimal.Decimal) (AmountResult, error) {
	return gst.CalculateExempt(amount)
}

// CalculateByCategory calculates amount through the default registry
func CalculateByCategory(amount decimal.Decimal, code string) (AmountResult, error) {
	return defaultEngine.CalculateByCategory(amount, code)
}

// BuildBreakdown aggregates items through the default registry. clock is required.
func BuildBreakdown(items []LineItem, clock Clock) (*Breakdown, error) {
	return defaultEngine.assembler.Aggregator().Build(items, clock)
}

// BuildBreakdowns aggregates batches through the default registry. clock is required.
func BuildBreakdowns(ctx context.Context, batches [][]LineItem, clock Clock) ([]*Breakdown, error) {
	return defaultEngine.assembler.Aggregator().BuildBatch(ctx, batches, clock)
}

// BuildInvoice assembles an invoice with the default supplier details. clock is required.
func BuildInvoice(meta InvoiceMetadata, items []LineItem, clock Clock) (*Invoice, error) {
	return defaultEngine.assembler.Build(meta, items, clock)
}

// IsValidIdentifier reports whether raw is a checksum-valid ABN
func IsValidIdentifier(raw string) bool {
	return abn.IsValid(raw)
}

// FormatABN groups a valid ABN as "NN NNN NNN NNN"
func FormatABN(raw string) string {
	return abn.Format(raw)
}

// FormatMoney renders cents as dollars, e.g. 5500 -> "$55.00"
func FormatMoney(c Cents) string {
	return money.FormatMoney(c)
}
