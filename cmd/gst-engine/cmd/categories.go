package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rezonia/gst-engine/internal/model"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories [code]",
	Short: "List GST categories",
	Long: `List the configured GST categories, or show a single one.

Examples:
  gst-engine categories -f table
  gst-engine categories SECURITY_DEPOSIT`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCategories,
}

func init() {
	rootCmd.AddCommand(categoriesCmd)
}

func runCategories(cmd *cobra.Command, args []string) error {
	asm, err := loadAssembler()
	if err != nil {
		return err
	}
	registry := asm.Aggregator().Registry()

	defs := registry.List()
	if len(args) == 1 {
		def, err := registry.Resolve(args[0])
		if err != nil {
			return err
		}
		defs = []model.CategoryDefinition{def}
	}

	return writeOutput(cmd.OutOrStdout(), defs, func(tw *tabwriter.Writer) {
		fmt.Fprintln(tw, "CODE\tNAME\tTREATMENT\tRATE\tDESCRIPTION")
		fmt.Fprintln(tw, "----\t----\t---------\t----\t-----------")
		for _, d := range defs {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", d.Code, d.Name, d.Treatment, d.Rate.String(), d.Description)
		}
	})
}
