package gst

import (
	"context"
	"fmt"
	"runtime"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	money "github.com/rezonia/gst-engine/internal/decimal"
	"github.com/rezonia/gst-engine/internal/model"
)

// Aggregator folds line items into a Breakdown
type Aggregator struct {
	registry *Registry
}

// NewAggregator creates an aggregator over registry
func NewAggregator(registry *Registry) *Aggregator {
	return &Aggregator{registry: registry}
}

// Registry returns the registry the aggregator resolves categories with
func (a *Aggregator) Registry() *Registry {
	return a.registry
}

// Build calculates every item in order and sums the results.
// Any failing item fails the whole batch; no partial breakdown is returned.
func (a *Aggregator) Build(items []model.LineItem, clock Clock) (*model.Breakdown, error) {
	if clock == nil {
		return nil, errNilClock
	}

	breakdown := &model.Breakdown{
		LineItems: make([]model.LineItemResult, 0, len(items)),
		Rate:      a.registry.Rate(),
	}

	exclusive := make([]money.Cents, 0, len(items))
	taxes := make([]money.Cents, 0, len(items))
	inclusive := make([]money.Cents, 0, len(items))

	for i, item := range items {
		line, err := a.buildLine(i, item)
		if err != nil {
			return nil, err
		}

		breakdown.LineItems = append(breakdown.LineItems, line)
		exclusive = append(exclusive, line.ExclusiveCents)
		taxes = append(taxes, line.GSTCents)
		inclusive = append(inclusive, line.InclusiveCents)
	}

	var err error
	if breakdown.SubtotalExclusiveCents, err = money.Sum(exclusive...); err != nil {
		return nil, totalError("subtotal_exclusive_cents", err)
	}
	if breakdown.TotalGSTCents, err = money.Sum(taxes...); err != nil {
		return nil, totalError("total_gst_cents", err)
	}
	if breakdown.TotalInclusiveCents, err = money.Sum(inclusive...); err != nil {
		return nil, totalError("total_inclusive_cents", err)
	}

	breakdown.CalculatedAt = clock()
	return breakdown, nil
}

func totalError(field string, err error) error {
	return model.NewInvalidAmountError(field, nil, "sum of line items too large", err)
}

// buildLine calculates the item at index i of the input
func (a *Aggregator) buildLine(i int, item model.LineItem) (model.LineItemResult, error) {
	field := fmt.Sprintf("line_items[%d]", i)

	quantity := item.Quantity
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return model.LineItemResult{}, model.NewInvalidAmountError(field+".quantity", item.Quantity, "must be at least 1", nil)
	}
	if err := validateAmount(field+".amount", item.Amount); err != nil {
		return model.LineItemResult{}, err
	}

	category, err := a.registry.Lookup(item.CategoryCode)
	if err != nil {
		return model.LineItemResult{}, err
	}

	total := item.Amount.Mul(decimal.NewFromInt(int64(quantity)))
	if err := validateRange(field+".amount", total, category.Rate); err != nil {
		return model.LineItemResult{}, err
	}
	calc := category.Calculate(total)

	description := item.Description
	if description == "" {
		description = category.Description
	}

	return model.LineItemResult{
		LineNumber:       i + 1,
		Description:      description,
		Quantity:         quantity,
		UnitAmountCents:  money.ToCents(item.Amount),
		TotalAmountCents: calc.InclusiveCents,
		ExclusiveCents:   calc.ExclusiveCents,
		GSTCents:         calc.GSTCents,
		InclusiveCents:   calc.InclusiveCents,
		Treatment:        calc.Treatment,
		Rate:             calc.Rate,
		CategoryCode:     category.Code,
		Category:         category.Name,
	}, nil
}

// BuildBatch builds independent breakdowns concurrently. Results keep the
// order of batches. The first failure cancels the remaining work.
func (a *Aggregator) BuildBatch(ctx context.Context, batches [][]model.LineItem, clock Clock) ([]*model.Breakdown, error) {
	if clock == nil {
		return nil, errNilClock
	}
	results := make([]*model.Breakdown, len(batches))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, items := range batches {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			b, err := a.Build(items, clock)
			if err != nil {
				return fmt.Errorf("batch %d: %w", i, err)
			}
			results[i] = b
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
