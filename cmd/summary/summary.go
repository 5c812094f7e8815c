// Package summary prints the spending summary of a collection
package summary

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"spendwise/cmd/root"
	"spendwise/internal/logging"
	"spendwise/internal/models"
	"spendwise/internal/report"
	"spendwise/internal/validation"
)

var (
	collection string
	format     string
	output     string
)

// Cmd represents the summary command
var Cmd = &cobra.Command{
	Use:   "summary",
	Short: "Show the spending summary of a collection",
	Long: `Show total expenditure, spending per category, top merchants and locations, daily
totals and the average daily spending of a collection.

Example:
  spendwise summary -c july
  spendwise summary -c july -f json -o july.json`,
	RunE: summaryFunc,
}

func init() {
	Cmd.Flags().StringVarP(&collection, "collection", "c", "", "Collection to summarize")
	Cmd.Flags().StringVarP(&format, "format", "f", report.FormatText, "Output format: text, json or yaml")
	Cmd.Flags().StringVarP(&output, "output", "o", "", "Write the summary to a file instead of stdout")
	_ = Cmd.MarkFlagRequired("collection")
}

func summaryFunc(cmd *cobra.Command, args []string) error {
	if err := validation.IsValidOutputFormat(format); err != nil {
		return err
	}
	c, err := root.GetContainer()
	if err != nil {
		return err
	}

	txs, err := c.GetStore().Transactions(cmd.Context(), collection)
	if err != nil {
		return err
	}

	data, err := c.GetReportGenerator().GenerateReport(report.Summarize(collection, txs), format)
	if err != nil {
		return err
	}

	if output == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(output, data, models.PermissionReportFile); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	c.GetLogger().Info("Summary written", logging.F(logging.FieldOutputFile, output))
	return nil
}
