package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rezonia/gst-engine/internal/config"
	"github.com/rezonia/gst-engine/internal/gst"
)

var (
	version = "1.0.0"

	// Global flags
	verbose      bool
	outputFormat string
	configFile   string

	cfg    *config.Config
	cfgErr error
	clock  gst.Clock = gst.SystemClock
)

var rootCmd = &cobra.Command{
	Use:   "gst-engine",
	Short: "Calculate Australian GST and assemble tax invoices",
	Long: `GST Engine calculates GST in integer cents and assembles tax invoices.

Supports:
  - Inclusive, exclusive and exempt treatments
  - A configurable category table (defaults to the tool library table)
  - ABN checksum validation
  - An HTTP API (serve)

Examples:
  # GST contained in a $55.00 tool rental
  gst-engine calculate 55.00 --category TOOL_RENTAL

  # Breakdown for a list of line items
  gst-engine breakdown --item MEMBERSHIP_FEE:50.00 --item DONATION:20.00

  # Assemble an invoice from a JSON file
  gst-engine invoice order.json -f table

  # Validate an ABN
  gst-engine abn "51 824 753 556"`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "json", "Output format (json, table)")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Config file (env: GSTENGINE_CONFIG)")

	cobra.OnInitialize(initConfig)
}

func initConfig() {
	cfg, cfgErr = config.Load(configFile)
	if cfgErr != nil {
		return
	}
	printVerbose("GST rate %s, currency %s, %d configured categories\n",
		cfg.GST.Rate, cfg.GST.Currency, len(cfg.Categories))
}

// loadAssembler builds the assembler described by the loaded configuration
func loadAssembler() (*gst.Assembler, error) {
	if cfgErr != nil {
		return nil, fmt.Errorf("load config: %w", cfgErr)
	}
	return cfg.Assembler()
}

func printVerbose(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}
