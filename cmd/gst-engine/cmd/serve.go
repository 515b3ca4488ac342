package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rezonia/gst-engine/internal/server"
)

var (
	serverAddr   string
	serverDebug  bool
	readTimeout  time.Duration
	writeTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP API server for GST calculation.

The API provides endpoints for:
  - GET  /api/v1/categories        - List categories
  - GET  /api/v1/categories/:code  - Get one category
  - POST /api/v1/calculate         - Calculate a single amount
  - POST /api/v1/breakdown         - Aggregate line items
  - POST /api/v1/breakdown/batch   - Aggregate independent batches
  - POST /api/v1/invoices          - Assemble an invoice
  - POST /api/v1/abn/validate      - Validate an ABN
  - GET  /health                   - Health check

Flags override the server section of the config file.

Examples:
  # Start server on the configured address
  gst-engine serve

  # Start on custom port in debug mode
  gst-engine serve --address :9090 --debug`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serverAddr, "address", ":8080", "Server listen address")
	serveCmd.Flags().BoolVar(&serverDebug, "debug", false, "Enable debug mode")
	serveCmd.Flags().DurationVar(&readTimeout, "read-timeout", 30*time.Second, "HTTP read timeout")
	serveCmd.Flags().DurationVar(&writeTimeout, "write-timeout", 30*time.Second, "HTTP write timeout")
}

func runServe(cmd *cobra.Command, args []string) error {
	asm, err := loadAssembler()
	if err != nil {
		return err
	}

	config := &server.Config{
		Address:      cfg.Server.Address,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		Debug:        cfg.Server.Debug,
		Assembler:    asm,
		Clock:        clock,
	}

	flags := cmd.Flags()
	if flags.Changed("address") {
		config.Address = serverAddr
	}
	if flags.Changed("debug") {
		config.Debug = serverDebug
	}
	if flags.Changed("read-timeout") {
		config.ReadTimeout = readTimeout
	}
	if flags.Changed("write-timeout") {
		config.WriteTimeout = writeTimeout
	}

	level := slog.LevelInfo
	if verbose || config.Debug {
		level = slog.LevelDebug
	}
	config.Logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	srv := server.NewServer(config)

	// Handle graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		fmt.Println("\nShutting down server...")
		os.Exit(0)
	}()

	fmt.Printf("Starting server on %s\n", config.Address)
	return srv.Run()
}
