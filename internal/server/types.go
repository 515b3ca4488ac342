package server

import (
	"github.com/shopspring/decimal"

	"github.com/rezonia/gst-engine/internal/model"
)

// CalculateRequest prices a single amount, either through a category or
// with an explicit treatment and rate
type CalculateRequest struct {
	Amount    *decimal.Decimal `json:"amount" binding:"required"`
	Category  string           `json:"category,omitempty"`
	Treatment string           `json:"treatment,omitempty" binding:"omitempty,oneof=inclusive exclusive exempt"`
	Rate      *decimal.Decimal `json:"rate,omitempty"`
}

// BreakdownRequest is the body of the breakdown endpoint
type BreakdownRequest struct {
	LineItems []model.LineItem `json:"line_items" binding:"required"`
}

// BatchBreakdownRequest holds independent breakdown requests
type BatchBreakdownRequest struct {
	Batches []BreakdownRequest `json:"batches" binding:"required,dive"`
}

// BatchBreakdownResponse keeps the order of the request batches
type BatchBreakdownResponse struct {
	Breakdowns []*model.Breakdown `json:"breakdowns"`
}

// InvoiceRequest is invoice metadata plus the lines to bill
type InvoiceRequest struct {
	model.InvoiceMetadata
	LineItems []model.LineItem `json:"line_items" binding:"required"`
}

// ABNRequest is the body of the ABN validation endpoint
type ABNRequest struct {
	ABN string `json:"abn" binding:"required"`
}

// ABNResponse reports the checksum result
type ABNResponse struct {
	ABN       string `json:"abn"`
	Valid     bool   `json:"valid"`
	Formatted string `json:"formatted,omitempty"`
}

// CategoriesResponse lists the registry
type CategoriesResponse struct {
	Rate       decimal.Decimal            `json:"rate"`
	Categories []model.CategoryDefinition `json:"categories"`
}

// ErrorResponse is the standard error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}
