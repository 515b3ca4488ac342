package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	money "github.com/rezonia/gst-engine/internal/decimal"
	"github.com/rezonia/gst-engine/internal/gst"
	"github.com/rezonia/gst-engine/internal/model"
)

var (
	calcCategory  string
	calcTreatment string
	calcRate      string
)

var calculateCmd = &cobra.Command{
	Use:   "calculate <amount>",
	Short: "Calculate GST on a single amount",
	Long: `Calculate the GST component of a single dollar amount.

Either name a category, or give a treatment (and optionally a rate;
the configured GST rate is used otherwise). A category carries its own
treatment and rate, so --category cannot be combined with either.

Examples:
  gst-engine calculate 55.00 --category TOOL_RENTAL
  gst-engine calculate 50 --treatment exclusive
  gst-engine calculate 150 --treatment exempt -f table`,
	Args: cobra.ExactArgs(1),
	RunE: runCalculate,
}

func init() {
	rootCmd.AddCommand(calculateCmd)

	calculateCmd.Flags().StringVar(&calcCategory, "category", "", "Category code")
	calculateCmd.Flags().StringVar(&calcTreatment, "treatment", "", "Treatment (inclusive, exclusive, exempt)")
	calculateCmd.Flags().StringVar(&calcRate, "rate", "", "GST rate as a fraction, e.g. 0.10")
	calculateCmd.MarkFlagsMutuallyExclusive("category", "treatment")
	calculateCmd.MarkFlagsMutuallyExclusive("category", "rate")
}

func runCalculate(cmd *cobra.Command, args []string) error {
	amount, err := money.FromString(args[0])
	if err != nil {
		return model.NewInvalidAmountError("amount", args[0], "not a decimal number", err)
	}

	asm, err := loadAssembler()
	if err != nil {
		return err
	}
	registry := asm.Aggregator().Registry()

	rate := registry.Rate()
	if calcRate != "" {
		rate, err = money.FromString(calcRate)
		if err != nil {
			return model.NewInvalidAmountError("rate", calcRate, "not a decimal number", err)
		}
	}

	var result model.AmountResult
	switch {
	case calcCategory != "":
		result, err = registry.CalculateByCategory(amount, calcCategory)
	case calcTreatment != "":
		var treatment gst.Treatment
		treatment, err = gst.TreatmentFor(model.TreatmentKind(calcTreatment))
		if err != nil {
			return err
		}
		switch treatment.Kind() {
		case model.TreatmentInclusive:
			result, err = gst.CalculateInclusive(amount, rate)
		case model.TreatmentExclusive:
			result, err = gst.CalculateExclusive(amount, rate)
		default:
			result, err = gst.CalculateExempt(amount)
		}
	default:
		return fmt.Errorf("either --category or --treatment is required")
	}
	if err != nil {
		return err
	}

	printVerbose("%s %s at %s: GST %s\n", result.Treatment, args[0], result.Rate, result.GSTCents)

	return writeOutput(cmd.OutOrStdout(), result, func(tw *tabwriter.Writer) {
		writeAmountTable(tw, result)
	})
}
