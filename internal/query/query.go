// Package query answers natural-language questions about a collection: the model writes
// SQL, the store executes it and the model explains the result.
package query

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"spendwise/internal/llm"
	"spendwise/internal/logging"
	"spendwise/internal/models"
	"spendwise/internal/parsererror"
	"spendwise/internal/store"
)

// NoExpenseText replaces the empty-result sentinel before answer synthesis.
const NoExpenseText = "No results: the user has not made any expense."

const answerPersona = "You are an expense assistant and your name is SpendWise. " +
	"Given the following user question and the corresponding SQL result, answer the user question " +
	"based on the data present in SQL result and ignore what you are not provided with. " +
	"If the result info appears to be empty, just say that the user has not made any expense. " +
	"The currency used is AED. " +
	"If you are asked to get the summary report, get the list of expenses corresponding to each category " +
	"from SQL result and provide only that in the answer. " +
	"You must not compute total sum at your end. " +
	"If user is asking any other questions, give tricky and intelligent responses."

// Executor runs SQL for a collection.
type Executor interface {
	TableFor(collection string) (string, error)
	Dialect() string
	Query(ctx context.Context, collection, sql string) store.Outcome
}

// Engine chains SQL generation, execution and answer synthesis. It keeps no state
// between calls.
type Engine struct {
	generator  llm.Generator
	executor   Executor
	categories []string
	logger     logging.Logger
}

// NewEngine creates an Engine.
func NewEngine(generator llm.Generator, executor Executor, categories []string, logger logging.Logger) *Engine {
	if len(categories) == 0 {
		categories = models.DefaultCategories()
	}
	return &Engine{generator: generator, executor: executor, categories: categories, logger: logger}
}

// SQLPrompt builds the instruction the model writes SQL from.
func SQLPrompt(table, dialect string, categories []string) string {
	var sb strings.Builder
	sb.WriteString("You are an intelligent SQL chatbot and your name is SpendWise who will talk about expense history. ")
	sb.WriteString("Help the following question with a brilliant answer.\n")
	fmt.Fprintf(&sb, "Use the table %q with these columns:\n%s.\n", table, strings.Join(models.QueryColumns, ", "))
	fmt.Fprintf(&sb, "Categories include: %s.\n", strings.Join(categories, ", "))
	sb.WriteString("- Provide SQL queries based only on the 'Category_freetext' column.\n")
	sb.WriteString("- For summaries, provide the total expense for each category in descending order.\n")
	sb.WriteString("- For totals, calculate the sum of all categories.\n")
	sb.WriteString("- For comparisons, provide results for all mentioned categories in the order specified.\n")
	sb.WriteString("- For specific items, group all relevant categories (e.g., 'food' includes food delivery, groceries, restaurants and cafes).\n")
	switch dialect {
	case "postgres":
		sb.WriteString("- Write PostgreSQL and quote every column name in double quotes, e.g. \"Amount\". \"Date\" is a timestamp such as '2024-07-05 00:00:00'.\n")
	default:
		sb.WriteString("- Write SQLite SQL. Dates are stored as 'YYYY-MM-DD HH:MM:SS' text, e.g. '2024-07-05 00:00:00'.\n")
	}
	sb.WriteString("Do not append any characters or explain the SQL query.")
	return sb.String()
}

func questionPrompt(question string) string {
	return fmt.Sprintf("Question: %s\nAnswer:", question)
}

// GenerateSQL asks the model for a single SQL statement answering question against the
// collection's table.
func (e *Engine) GenerateSQL(ctx context.Context, question, collection string) (string, error) {
	table, err := e.executor.TableFor(collection)
	if err != nil {
		return "", err
	}
	if e.generator == nil {
		return "", fmt.Errorf("language model is not configured")
	}

	text, err := e.generator.Generate(ctx, llm.Request{
		System: SQLPrompt(table, e.executor.Dialect(), e.categories),
		Prompt: questionPrompt(question),
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate SQL: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("empty SQL from model: %w", parsererror.ErrInvalidModelResponse)
	}

	sql := CleanSQLQuery(text)
	e.logger.Debug("Generated SQL",
		logging.F(logging.FieldCollection, collection),
		logging.F(logging.FieldQuery, sql))
	return sql, nil
}

var statementSeparator = regexp.MustCompile(`;\s*`)

// CleanSQLQuery keeps only the first statement of the model output and terminates it
// with a semicolon.
func CleanSQLQuery(raw string) string {
	s := llm.StripCodeFences(raw)
	first := statementSeparator.Split(s, 2)[0]
	return strings.TrimSpace(first + ";")
}

// Execute runs sql against the collection. Failures are returned as an error outcome.
func (e *Engine) Execute(ctx context.Context, collection, sql string) store.Outcome {
	out := e.executor.Query(ctx, collection, sql)
	if out.Kind == store.OutcomeError {
		e.logger.Warn("SQL execution failed, passing error to answer",
			logging.F(logging.FieldQuery, sql),
			logging.F(logging.FieldError, out.Text))
	}
	return out
}

// ResultText is the SQL result as shown to the model.
func ResultText(out store.Outcome) string {
	if out.Kind == store.OutcomeEmpty {
		return NoExpenseText
	}
	return out.Text
}

// GenerateAnswer asks the model to explain the outcome. The answer is returned verbatim.
func (e *Engine) GenerateAnswer(ctx context.Context, question string, out store.Outcome) (string, error) {
	if e.generator == nil {
		return "", fmt.Errorf("language model is not configured")
	}
	answer, err := e.generator.Generate(ctx, llm.Request{
		System: answerPersona,
		Prompt: fmt.Sprintf("Question: %s\nSQL Result: %s\nAnswer:", question, ResultText(out)),
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate answer: %w", err)
	}
	return answer, nil
}

// Run answers question about the collection.
func (e *Engine) Run(ctx context.Context, question, collection string) (string, error) {
	sql, err := e.GenerateSQL(ctx, question, collection)
	if err != nil {
		return "", err
	}
	out := e.Execute(ctx, collection, sql)
	answer, err := e.GenerateAnswer(ctx, question, out)
	if err != nil {
		return "", err
	}
	e.logger.Info("Question answered",
		logging.F(logging.FieldQuestion, question),
		logging.F(logging.FieldCollection, collection),
		logging.F(logging.FieldStatus, out.Kind.String()))
	return answer, nil
}
