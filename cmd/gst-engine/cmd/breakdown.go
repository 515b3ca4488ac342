package cmd

import (
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var breakdownItems []string

var breakdownCmd = &cobra.Command{
	Use:   "breakdown [file]",
	Short: "Aggregate GST over a list of line items",
	Long: `Aggregate GST over line items read from a JSON file, stdin, or --item flags.

The input is either an array of line items or an object with a
"line_items" array. Each line item has an amount, a category and an
optional quantity and description. Any failing line fails the whole run.

Examples:
  gst-engine breakdown items.json
  cat items.json | gst-engine breakdown -
  gst-engine breakdown --item MEMBERSHIP_FEE:50.00 --item DONATION:20.00 -f table`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBreakdown,
}

func init() {
	rootCmd.AddCommand(breakdownCmd)

	breakdownCmd.Flags().StringArrayVarP(&breakdownItems, "item", "i", nil, "Line item as CODE:AMOUNT[:QTY[:DESCRIPTION]] (repeatable)")
}

func runBreakdown(cmd *cobra.Command, args []string) error {
	in, err := collectItems(breakdownItems, args, cmd.InOrStdin())
	if err != nil {
		return err
	}

	asm, err := loadAssembler()
	if err != nil {
		return err
	}

	breakdown, err := asm.Aggregator().Build(in.LineItems, clock)
	if err != nil {
		return err
	}

	printVerbose("Aggregated %d line items\n", len(breakdown.LineItems))

	return writeOutput(cmd.OutOrStdout(), breakdown, func(tw *tabwriter.Writer) {
		writeBreakdownTable(tw, breakdown)
	})
}
