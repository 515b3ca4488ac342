package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rezonia/gst-engine/internal/abn"
)

var abnCmd = &cobra.Command{
	Use:   "abn <abn>...",
	Short: "Validate Australian Business Numbers",
	Long: `Check one or more ABNs against the modulus 89 checksum.

Spaces and dashes are ignored. The command fails when any ABN is invalid.

Examples:
  gst-engine abn "51 824 753 556"
  gst-engine abn 53004085616 12345678901 -f table`,
	Args: cobra.MinimumNArgs(1),
	RunE: runABN,
}

func init() {
	rootCmd.AddCommand(abnCmd)
}

// ABNResult is the validation outcome for one ABN
type ABNResult struct {
	ABN       string `json:"abn"`
	Valid     bool   `json:"valid"`
	Formatted string `json:"formatted,omitempty"`
}

func runABN(cmd *cobra.Command, args []string) error {
	results := make([]ABNResult, 0, len(args))
	invalid := 0

	for _, raw := range args {
		r := ABNResult{ABN: raw, Valid: abn.IsValid(raw)}
		if r.Valid {
			r.Formatted = abn.Format(raw)
		} else {
			invalid++
		}
		results = append(results, r)
	}

	err := writeOutput(cmd.OutOrStdout(), results, func(tw *tabwriter.Writer) {
		fmt.Fprintln(tw, "ABN\tVALID\tFORMATTED")
		fmt.Fprintln(tw, "---\t-----\t---------")
		for _, r := range results {
			fmt.Fprintf(tw, "%s\t%t\t%s\n", r.ABN, r.Valid, orDash(r.Formatted))
		}
	})
	if err != nil {
		return err
	}

	if invalid > 0 {
		return fmt.Errorf("%d of %d ABNs invalid", invalid, len(args))
	}
	return nil
}
