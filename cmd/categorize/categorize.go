// Package categorize classifies merchant names from the command line
package categorize

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"spendwise/cmd/root"
	"spendwise/internal/categorizer"
)

// Cmd represents the categorize command
var Cmd = &cobra.Command{
	Use:   "categorize <merchant>...",
	Short: "Classify merchant names into spending categories",
	Long: `Classify merchant names using the learned merchant mappings and the language model.
With categorization.auto_learn enabled the new classifications are saved.

Example:
  spendwise categorize starbucks "carrefour market" talabat`,
	Args: cobra.MinimumNArgs(1),
	RunE: categorizeFunc,
}

func categorizeFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	classifier := c.GetClassifier()
	mapping := classifier.ClassifyMerchants(cmd.Context(), args)

	for _, arg := range args {
		name := strings.ToLower(strings.TrimSpace(arg))
		fmt.Fprintln(cmd.OutOrStdout(), FormatLine(name, mapping[name], classifier.Categories()))
	}
	return nil
}

// FormatLine renders one merchant with its free-text category and the matching category.
func FormatLine(merchant, freetext string, categories []string) string {
	if freetext == "" {
		return fmt.Sprintf("%s: uncategorized", merchant)
	}
	category, ok := categorizer.FindFirstMatch(freetext, categories)
	if !ok {
		return fmt.Sprintf("%s: %s", merchant, freetext)
	}
	return fmt.Sprintf("%s: %s (%s)", merchant, freetext, category)
}
