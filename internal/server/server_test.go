package server_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	money "github.com/rezonia/gst-engine/internal/decimal"
	"github.com/rezonia/gst-engine/internal/gst"
	"github.com/rezonia/gst-engine/internal/model"
	"github.com/rezonia/gst-engine/internal/server"
)

var testTime = time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)

func newTestServer() *server.Server {
	config := &server.Config{
		Address:          ":8080",
		Clock:            gst.FixedClock(testTime),
		Logger:           slog.New(slog.NewTextHandler(io.Discard, nil)),
		NewInvoiceNumber: func() string { return "INV-TEST" },
	}
	return server.NewServer(config)
}

func doJSON(t *testing.T, srv *server.Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer()

	w := doJSON(t, srv, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "ok", response["status"])
	assert.Equal(t, "2026-03-01T09:30:00Z", response["time"])
}

func TestListCategoriesEndpoint(t *testing.T) {
	srv := newTestServer()

	w := doJSON(t, srv, http.MethodGet, "/api/v1/categories", "")

	require.Equal(t, http.StatusOK, w.Code)

	var response server.CategoriesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	require.Len(t, response.Categories, 6)
	assert.Equal(t, gst.CategoryDamageFee, response.Categories[0].Code)
	assert.True(t, response.Rate.Equal(gst.StandardRate))
}

func TestGetCategoryEndpoint(t *testing.T) {
	srv := newTestServer()

	w := doJSON(t, srv, http.MethodGet, "/api/v1/categories/SECURITY_DEPOSIT", "")
	require.Equal(t, http.StatusOK, w.Code)

	var def model.CategoryDefinition
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &def))
	assert.Equal(t, "Security Deposit", def.Name)
	assert.Equal(t, model.TreatmentExempt, def.Treatment)
	assert.True(t, def.Rate.IsZero())
}

func TestGetCategoryEndpoint_NotFound(t *testing.T) {
	srv := newTestServer()

	w := doJSON(t, srv, http.MethodGet, "/api/v1/categories/tool_rental", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	var response server.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, server.CodeUnknownCategory, response.Code)
}

func TestCalculateEndpoint(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		inclusive money.Cents
		exclusive money.Cents
		gstCents  money.Cents
		treatment model.TreatmentKind
	}{
		{
			name:      "category",
			body:      `{"amount": 55.00, "category": "TOOL_RENTAL"}`,
			inclusive: 5500, exclusive: 5000, gstCents: 500,
			treatment: model.TreatmentInclusive,
		},
		{
			name:      "inclusive default rate",
			body:      `{"amount": 55, "treatment": "inclusive"}`,
			inclusive: 5500, exclusive: 5000, gstCents: 500,
			treatment: model.TreatmentInclusive,
		},
		{
			name:      "exclusive",
			body:      `{"amount": 50, "treatment": "exclusive", "rate": 0.1}`,
			inclusive: 5500, exclusive: 5000, gstCents: 500,
			treatment: model.TreatmentExclusive,
		},
		{
			name:      "exempt",
			body:      `{"amount": 150, "treatment": "exempt"}`,
			inclusive: 15000, exclusive: 15000, gstCents: 0,
			treatment: model.TreatmentExempt,
		},
	}

	srv := newTestServer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, srv, http.MethodPost, "/api/v1/calculate", tt.body)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			var result model.AmountResult
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
			assert.Equal(t, tt.inclusive, result.InclusiveCents)
			assert.Equal(t, tt.exclusive, result.ExclusiveCents)
			assert.Equal(t, tt.gstCents, result.GSTCents)
			assert.Equal(t, tt.treatment, result.Treatment)
		})
	}
}

func TestCalculateEndpoint_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"empty body", "", http.StatusBadRequest, server.CodeBadRequest},
		{"missing amount", `{"category": "TOOL_RENTAL"}`, http.StatusBadRequest, server.CodeBadRequest},
		{"bad treatment", `{"amount": 1, "treatment": "zero-rated"}`, http.StatusBadRequest, server.CodeBadRequest},
		{"neither category nor treatment", `{"amount": 1}`, http.StatusBadRequest, server.CodeBadRequest},
		{"category with treatment", `{"amount": 1, "category": "TOOL_RENTAL", "treatment": "exclusive"}`, http.StatusBadRequest, server.CodeBadRequest},
		{"category with rate", `{"amount": 1, "category": "TOOL_RENTAL", "rate": 0.15}`, http.StatusBadRequest, server.CodeBadRequest},
		{"amount too large", `{"amount": 1e17, "category": "DONATION"}`, http.StatusBadRequest, server.CodeInvalidAmount},
		{"unknown category", `{"amount": 1, "category": "NOT_A_CATEGORY"}`, http.StatusUnprocessableEntity, server.CodeUnknownCategory},
		{"negative amount", `{"amount": -1, "category": "TOOL_RENTAL"}`, http.StatusBadRequest, server.CodeInvalidAmount},
	}

	srv := newTestServer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, srv, http.MethodPost, "/api/v1/calculate", tt.body)
			assert.Equal(t, tt.status, w.Code)

			var response server.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, tt.code, response.Code)
			assert.NotEmpty(t, response.Error)
		})
	}
}

func TestBreakdownEndpoint(t *testing.T) {
	srv := newTestServer()

	body := `{"line_items": [
		{"amount": 50.00, "category": "MEMBERSHIP_FEE", "description": "Annual membership"},
		{"amount": 20.00, "category": "DONATION"}
	]}`
	w := doJSON(t, srv, http.MethodPost, "/api/v1/breakdown", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var breakdown model.Breakdown
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &breakdown))

	assert.Equal(t, money.Cents(6545), breakdown.SubtotalExclusiveCents)
	assert.Equal(t, money.Cents(455), breakdown.TotalGSTCents)
	assert.Equal(t, money.Cents(7000), breakdown.TotalInclusiveCents)
	assert.True(t, breakdown.CalculatedAt.Equal(testTime))
	require.Len(t, breakdown.LineItems, 2)
	assert.Equal(t, "Annual membership", breakdown.LineItems[0].Description)
	assert.Equal(t, "Charitable donation (not subject to GST)", breakdown.LineItems[1].Description)
}

func TestBreakdownEndpoint_UnknownCategory(t *testing.T) {
	srv := newTestServer()

	body := `{"line_items": [
		{"amount": 10, "category": "TOOL_RENTAL"},
		{"amount": 10, "category": "NOT_A_CATEGORY"}
	]}`
	w := doJSON(t, srv, http.MethodPost, "/api/v1/breakdown", body)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "NOT_A_CATEGORY")
	assert.NotContains(t, w.Body.String(), "line_items")
}

func TestBreakdownEndpoint_MissingItems(t *testing.T) {
	srv := newTestServer()

	w := doJSON(t, srv, http.MethodPost, "/api/v1/breakdown", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBatchBreakdownEndpoint(t *testing.T) {
	srv := newTestServer()

	body := `{"batches": [
		{"line_items": [{"amount": 55, "category": "TOOL_RENTAL"}]},
		{"line_items": []},
		{"line_items": [{"amount": 150, "category": "SECURITY_DEPOSIT"}]}
	]}`
	w := doJSON(t, srv, http.MethodPost, "/api/v1/breakdown/batch", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var response server.BatchBreakdownResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.Breakdowns, 3)

	assert.Equal(t, money.Cents(500), response.Breakdowns[0].TotalGSTCents)
	assert.Equal(t, money.Cents(0), response.Breakdowns[1].TotalInclusiveCents)
	assert.Equal(t, money.Cents(15000), response.Breakdowns[2].TotalInclusiveCents)
	assert.Equal(t, money.Cents(0), response.Breakdowns[2].TotalGSTCents)
}

func TestBatchBreakdownEndpoint_Failure(t *testing.T) {
	srv := newTestServer()

	body := `{"batches": [
		{"line_items": [{"amount": 55, "category": "TOOL_RENTAL"}]},
		{"line_items": [{"amount": -5, "category": "TOOL_RENTAL"}]}
	]}`
	w := doJSON(t, srv, http.MethodPost, "/api/v1/breakdown/batch", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response server.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, server.CodeInvalidAmount, response.Code)
	assert.Contains(t, response.Error, "batch 1")
}

func TestInvoiceEndpoint(t *testing.T) {
	srv := newTestServer()

	body := `{
		"customer": {"name": "Jo Citizen", "email": "jo@example.com"},
		"supplier_abn": "51 824 753 556",
		"line_items": [
			{"amount": 55.00, "category": "TOOL_RENTAL", "description": "Drill hire"},
			{"amount": 150.00, "category": "SECURITY_DEPOSIT"}
		]
	}`
	w := doJSON(t, srv, http.MethodPost, "/api/v1/invoices", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var inv model.Invoice
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &inv))

	assert.Equal(t, "INV-TEST", inv.InvoiceNumber)
	assert.True(t, inv.InvoiceDate.Equal(testTime))
	assert.True(t, inv.CreatedAt.Equal(testTime))
	assert.Equal(t, "Jo Citizen", inv.Customer.Name)
	assert.Equal(t, gst.DefaultSupplierName, inv.Supplier.Name)
	assert.True(t, inv.Supplier.ABNValid)
	assert.Equal(t, money.Cents(20500), inv.TotalInclusiveCents)
	assert.Equal(t, money.Cents(500), inv.TotalGSTCents)
	assert.True(t, inv.TaxInvoice)
	assert.True(t, inv.GSTRegistrationRequired)
	assert.Equal(t, "AUD", inv.Currency)
	assert.Equal(t, gst.DefaultPaymentTerms, inv.PaymentTerms)
}

func TestInvoiceEndpoint_PlainDates(t *testing.T) {
	srv := newTestServer()

	body := `{"invoice_date": "2026-01-18", "due_date": "2026-02-01", "line_items": [{"amount": 20, "category": "DONATION"}]}`
	w := doJSON(t, srv, http.MethodPost, "/api/v1/invoices", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var inv model.Invoice
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &inv))
	assert.True(t, inv.InvoiceDate.Equal(time.Date(2026, 1, 18, 0, 0, 0, 0, time.UTC)))
	require.NotNil(t, inv.DueDate)
	assert.True(t, inv.DueDate.Equal(time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, inv.CreatedAt.Equal(testTime))
}

func TestInvoiceEndpoint_BadDate(t *testing.T) {
	srv := newTestServer()

	body := `{"invoice_date": "18/01/2026", "line_items": []}`
	w := doJSON(t, srv, http.MethodPost, "/api/v1/invoices", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBreakdownEndpoint_TotalTooLarge(t *testing.T) {
	srv := newTestServer()

	body := `{"line_items": [
		{"amount": 5e16, "category": "DONATION"},
		{"amount": 5e16, "category": "DONATION"}
	]}`
	w := doJSON(t, srv, http.MethodPost, "/api/v1/breakdown", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response server.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, server.CodeInvalidAmount, response.Code)
}

func TestInvoiceEndpoint_KeepsInvoiceNumber(t *testing.T) {
	srv := newTestServer()

	body := `{"invoice_number": "INV-0042", "line_items": [{"amount": 20, "category": "DONATION"}]}`
	w := doJSON(t, srv, http.MethodPost, "/api/v1/invoices", body)
	require.Equal(t, http.StatusCreated, w.Code)

	var inv model.Invoice
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &inv))
	assert.Equal(t, "INV-0042", inv.InvoiceNumber)
	assert.False(t, inv.TaxInvoice)
}

func TestInvoiceEndpoint_GeneratedNumber(t *testing.T) {
	srv := server.NewServer(&server.Config{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	body := `{"line_items": [{"amount": 20, "category": "DONATION"}]}`
	w := doJSON(t, srv, http.MethodPost, "/api/v1/invoices", body)
	require.Equal(t, http.StatusCreated, w.Code)

	var inv model.Invoice
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &inv))
	assert.True(t, strings.HasPrefix(inv.InvoiceNumber, "INV-"))
	assert.Len(t, inv.InvoiceNumber, len("INV-")+36)
}

func TestInvoiceEndpoint_UnknownCategory(t *testing.T) {
	srv := newTestServer()

	body := `{"line_items": [{"amount": 20, "category": "BOGUS"}]}`
	w := doJSON(t, srv, http.MethodPost, "/api/v1/invoices", body)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestValidateABNEndpoint(t *testing.T) {
	tests := []struct {
		name      string
		abn       string
		valid     bool
		formatted string
	}{
		{"valid spaced", "51 824 753 556", true, "51 824 753 556"},
		{"valid compact", "53004085616", true, "53 004 085 616"},
		{"bad checksum", "12 345 678 901", false, ""},
		{"too short", "12345", false, ""},
	}

	srv := newTestServer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := json.Marshal(server.ABNRequest{ABN: tt.abn})
			require.NoError(t, err)

			w := doJSON(t, srv, http.MethodPost, "/api/v1/abn/validate", string(body))
			require.Equal(t, http.StatusOK, w.Code)

			var response server.ABNResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, tt.abn, response.ABN)
			assert.Equal(t, tt.valid, response.Valid)
			assert.Equal(t, tt.formatted, response.Formatted)
		})
	}
}

func TestValidateABNEndpoint_MissingABN(t *testing.T) {
	srv := newTestServer()

	w := doJSON(t, srv, http.MethodPost, "/api/v1/abn/validate", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCustomAssembler(t *testing.T) {
	reg, err := gst.NewRegistry(gst.StandardRate, model.CategoryDefinition{
		Code: "WORKSHOP", Name: "Workshop", Treatment: model.TreatmentExclusive, Rate: gst.StandardRate,
	})
	require.NoError(t, err)

	srv := server.NewServer(&server.Config{
		Assembler: gst.NewAssembler(reg, gst.WithCurrency("NZD")),
		Clock:     gst.FixedClock(testTime),
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	w := doJSON(t, srv, http.MethodPost, "/api/v1/calculate", `{"amount": 100, "category": "WORKSHOP"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var result model.AmountResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, money.Cents(11000), result.InclusiveCents)

	w = doJSON(t, srv, http.MethodPost, "/api/v1/calculate", `{"amount": 100, "category": "TOOL_RENTAL"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func BenchmarkBreakdownEndpoint(b *testing.B) {
	srv := newTestServer()
	body := []byte(`{"line_items": [
		{"amount": 55.00, "category": "TOOL_RENTAL"},
		{"amount": 50.00, "category": "MEMBERSHIP_FEE"},
		{"amount": 150.00, "category": "SECURITY_DEPOSIT"}
	]}`)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/breakdown", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, req)
	}
}
