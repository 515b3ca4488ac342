package server

import (
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rezonia/gst-engine/internal/abn"
	"github.com/rezonia/gst-engine/internal/gst"
	"github.com/rezonia/gst-engine/internal/model"
)

// Error codes returned in ErrorResponse.Code
const (
	CodeBadRequest      = "BAD_REQUEST"
	CodeUnknownCategory = "UNKNOWN_CATEGORY"
	CodeInvalidAmount   = "INVALID_AMOUNT"
	CodeInvalidInput    = "INVALID_INPUT"
	CodeInternal        = "INTERNAL"
)

// Config holds server configuration
type Config struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Debug        bool

	// Assembler prices and assembles invoices; defaults to the built-in table
	Assembler *gst.Assembler
	// Clock stamps breakdowns and invoices; defaults to gst.SystemClock
	Clock gst.Clock
	// Logger receives rejected requests; defaults to JSON on stderr
	Logger *slog.Logger
	// NewInvoiceNumber names invoices submitted without a number
	NewInvoiceNumber func() string
}

// Server represents the HTTP API server
type Server struct {
	config    *Config
	router    *gin.Engine
	assembler *gst.Assembler
	registry  *gst.Registry
	clock     gst.Clock
	logger    *slog.Logger
	newNumber func() string
}

// NewServer creates a new API server
func NewServer(config *Config) *Server {
	if !config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if config.Debug {
		router.Use(gin.Logger())
	}

	assembler := config.Assembler
	if assembler == nil {
		assembler = gst.NewAssembler(gst.DefaultRegistry())
	}

	clock := config.Clock
	if clock == nil {
		clock = gst.SystemClock
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(os.Stderr, nil))
	}

	newNumber := config.NewInvoiceNumber
	if newNumber == nil {
		newNumber = func() string { return "INV-" + uuid.NewString() }
	}

	s := &Server{
		config:    config,
		router:    router,
		assembler: assembler,
		registry:  assembler.Aggregator().Registry(),
		clock:     clock,
		logger:    logger,
		newNumber: newNumber,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/categories", s.handleListCategories)
		v1.GET("/categories/:code", s.handleGetCategory)

		v1.POST("/calculate", s.handleCalculate)
		v1.POST("/breakdown", s.handleBreakdown)
		v1.POST("/breakdown/batch", s.handleBatchBreakdown)
		v1.POST("/invoices", s.handleInvoice)

		v1.POST("/abn/validate", s.handleValidateABN)
	}
}

// Run starts the HTTP server
func (s *Server) Run() error {
	srv := &http.Server{
		Addr:         s.config.Address,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}
	s.logger.Info("gst engine listening", "address", s.config.Address, "categories", len(s.registry.Codes()))
	return srv.ListenAndServe()
}

// Handler returns the http.Handler for use with custom servers
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   s.clock().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, CategoriesResponse{
		Rate:       s.registry.Rate(),
		Categories: s.registry.List(),
	})
}

func (s *Server) handleGetCategory(c *gin.Context) {
	def, err := s.registry.Resolve(c.Param("code"))
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error(), Code: CodeUnknownCategory})
		return
	}
	c.JSON(http.StatusOK, def)
}

func (s *Server) handleCalculate(c *gin.Context) {
	var req CalculateRequest
	if !s.bind(c, &req) {
		return
	}

	if req.Category != "" && (req.Treatment != "" || req.Rate != nil) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "category cannot be combined with treatment or rate",
			Code:  CodeBadRequest,
		})
		return
	}

	var (
		result model.AmountResult
		err    error
	)

	switch {
	case req.Category != "":
		result, err = s.registry.CalculateByCategory(*req.Amount, req.Category)
	case req.Treatment == string(model.TreatmentExempt):
		result, err = gst.CalculateExempt(*req.Amount)
	case req.Treatment != "":
		rate := s.registry.Rate()
		if req.Rate != nil {
			rate = *req.Rate
		}
		if req.Treatment == string(model.TreatmentExclusive) {
			result, err = gst.CalculateExclusive(*req.Amount, rate)
		} else {
			result, err = gst.CalculateInclusive(*req.Amount, rate)
		}
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "either category or treatment is required",
			Code:  CodeBadRequest,
		})
		return
	}

	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleBreakdown(c *gin.Context) {
	var req BreakdownRequest
	if !s.bind(c, &req) {
		return
	}

	breakdown, err := s.assembler.Aggregator().Build(req.LineItems, s.clock)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, breakdown)
}

func (s *Server) handleBatchBreakdown(c *gin.Context) {
	var req BatchBreakdownRequest
	if !s.bind(c, &req) {
		return
	}

	batches := make([][]model.LineItem, len(req.Batches))
	for i, b := range req.Batches {
		batches[i] = b.LineItems
	}

	breakdowns, err := s.assembler.Aggregator().BuildBatch(c.Request.Context(), batches, s.clock)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, BatchBreakdownResponse{Breakdowns: breakdowns})
}

func (s *Server) handleInvoice(c *gin.Context) {
	var req InvoiceRequest
	if !s.bind(c, &req) {
		return
	}

	meta := req.InvoiceMetadata
	if meta.InvoiceNumber == "" {
		meta.InvoiceNumber = s.newNumber()
	}

	invoice, err := s.assembler.Build(meta, req.LineItems, s.clock)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, invoice)
}

func (s *Server) handleValidateABN(c *gin.Context) {
	var req ABNRequest
	if !s.bind(c, &req) {
		return
	}

	resp := ABNResponse{ABN: req.ABN, Valid: abn.IsValid(req.ABN)}
	if resp.Valid {
		resp.Formatted = abn.Format(req.ABN)
	}
	c.JSON(http.StatusOK, resp)
}

// Helper functions

func (s *Server) bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid request body",
			Code:    CodeBadRequest,
			Details: err.Error(),
		})
		return false
	}
	return true
}

func (s *Server) writeError(c *gin.Context, err error) {
	var (
		catErr    *model.UnknownCategoryError
		amountErr *model.InvalidAmountError
		valErr    *model.ValidationError
	)

	status, code := http.StatusInternalServerError, CodeInternal
	switch {
	case errors.As(err, &catErr):
		status, code = http.StatusUnprocessableEntity, CodeUnknownCategory
	case errors.As(err, &amountErr):
		status, code = http.StatusBadRequest, CodeInvalidAmount
	case errors.As(err, &valErr):
		status, code = http.StatusBadRequest, CodeInvalidInput
	}

	s.logger.Warn("calculation rejected",
		"path", c.FullPath(),
		"status", status,
		"code", code,
		"error", err.Error(),
	)
	c.JSON(status, ErrorResponse{Error: err.Error(), Code: code})
}
