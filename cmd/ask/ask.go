// Package ask handles natural-language questions about a collection
package ask

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"spendwise/cmd/root"
	"spendwise/internal/parsererror"
)

var (
	collection string
	showSQL    bool
)

// Cmd represents the ask command
var Cmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a question about your expenses",
	Long: `Answer a question about a collection. The question is turned into SQL, run against
the collection's table and the result is explained.

Example:
  spendwise ask -c july "Total expenditure"
  spendwise ask -c july "How much did I spend on food?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: askFunc,
}

func init() {
	Cmd.Flags().StringVarP(&collection, "collection", "c", "", "Collection to query")
	Cmd.Flags().BoolVar(&showSQL, "show-sql", false, "Print the generated SQL and its result")
	_ = Cmd.MarkFlagRequired("collection")
}

func askFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	if _, ok := c.GetConfig().TableFor(collection); !ok {
		return &parsererror.UnknownCollectionError{Collection: collection}
	}
	question := strings.Join(args, " ")
	engine := c.GetQueryEngine()
	out := cmd.OutOrStdout()

	if !showSQL {
		answer, err := engine.Run(cmd.Context(), question, collection)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, answer)
		return nil
	}

	sql, err := engine.GenerateSQL(cmd.Context(), question, collection)
	if err != nil {
		return err
	}
	outcome := engine.Execute(cmd.Context(), collection, sql)
	fmt.Fprintf(out, "SQL: %s\nResult: %s\n\n", sql, outcome.Text)

	answer, err := engine.GenerateAnswer(cmd.Context(), question, outcome)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, answer)
	return nil
}
