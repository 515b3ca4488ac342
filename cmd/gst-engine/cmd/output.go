package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/rezonia/gst-engine/internal/model"
)

// writeOutput renders v as JSON, or through table when --format table
func writeOutput(w io.Writer, v interface{}, table func(tw *tabwriter.Writer)) error {
	switch outputFormat {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(v)
	case "table":
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		table(tw)
		return tw.Flush()
	default:
		return fmt.Errorf("unsupported output format: %s", outputFormat)
	}
}

func writeAmountTable(tw *tabwriter.Writer, r model.AmountResult) {
	fmt.Fprintln(tw, "CATEGORY\tTREATMENT\tRATE\tEXCLUSIVE\tGST\tINCLUSIVE")
	fmt.Fprintln(tw, "--------\t---------\t----\t---------\t---\t---------")
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
		orDash(r.CategoryCode),
		r.Treatment,
		r.Rate.String(),
		r.ExclusiveCents,
		r.GSTCents,
		r.InclusiveCents,
	)
}

func writeBreakdownTable(tw *tabwriter.Writer, b *model.Breakdown) {
	fmt.Fprintln(tw, "#\tDESCRIPTION\tCATEGORY\tQTY\tUNIT\tEXCLUSIVE\tGST\tINCLUSIVE")
	fmt.Fprintln(tw, "-\t-----------\t--------\t---\t----\t---------\t---\t---------")

	for _, li := range b.LineItems {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%s\t%s\t%s\n",
			li.LineNumber,
			li.Description,
			li.CategoryCode,
			li.Quantity,
			li.UnitAmountCents,
			li.ExclusiveCents,
			li.GSTCents,
			li.InclusiveCents,
		)
	}

	fmt.Fprintf(tw, "\t\t\t\t\t%s\t%s\t%s\n", "---------", "---", "---------")
	fmt.Fprintf(tw, "\tTOTAL\t\t\t\t%s\t%s\t%s\n",
		b.SubtotalExclusiveCents,
		b.TotalGSTCents,
		b.TotalInclusiveCents,
	)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
