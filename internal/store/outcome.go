package store

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"spendwise/internal/logging"
)

// EmptyResultText is the text of a query that returned no rows.
const EmptyResultText = "No contents to share at the moment."

// OutcomeKind classifies a query outcome.
type OutcomeKind int

const (
	// OutcomeRows means the query returned at least one row.
	OutcomeRows OutcomeKind = iota
	// OutcomeEmpty means the query succeeded without rows.
	OutcomeEmpty
	// OutcomeError means the query failed; Text carries the error message.
	OutcomeError
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeRows:
		return "rows"
	case OutcomeEmpty:
		return "empty"
	case OutcomeError:
		return "error"
	default:
		return "unknown"
	}
}

// Outcome is the result of executing SQL. Failures are values, not errors, so they can be
// handed on to answer synthesis.
type Outcome struct {
	Kind    OutcomeKind
	Text    string
	Columns []string
	Rows    [][]interface{}
	Err     error
}

func errorOutcome(err error) Outcome {
	return Outcome{Kind: OutcomeError, Text: fmt.Sprintf("Error executing query: %v", err), Err: err}
}

var readOnlyStatement = regexp.MustCompile(`(?is)^\s*(select|with)\b`)

// Query runs a read-only statement against the database after checking the collection
// exists in the configuration. It never returns an error; failures become OutcomeError.
func (s *Store) Query(ctx context.Context, collection, sql string) Outcome {
	if _, err := s.TableFor(collection); err != nil {
		return errorOutcome(err)
	}
	if !readOnlyStatement.MatchString(sql) {
		return errorOutcome(fmt.Errorf("only SELECT statements can be executed"))
	}

	start := time.Now()
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return errorOutcome(tx.Error)
	}
	// Whatever the statement does, nothing it touched is committed.
	defer tx.Rollback()
	release, err := s.readOnly(tx)
	if err != nil {
		return errorOutcome(err)
	}
	defer release()

	rows, err := tx.Raw(sql).Rows()
	if err != nil {
		s.logger.WithError(err).Warn("Query failed", logging.F(logging.FieldQuery, sql))
		return errorOutcome(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			s.logger.WithError(err).Warn("Failed to close rows")
		}
	}()

	columns, err := rows.Columns()
	if err != nil {
		return errorOutcome(err)
	}

	var result [][]interface{}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		ptrs := make([]interface{}, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return errorOutcome(err)
		}
		result = append(result, values)
	}
	if err := rows.Err(); err != nil {
		return errorOutcome(err)
	}

	s.logger.Debug("Query executed",
		logging.F(logging.FieldQuery, sql),
		logging.F(logging.FieldCount, len(result)),
		logging.F(logging.FieldDuration, time.Since(start).Milliseconds()))

	if len(result) == 0 {
		return Outcome{Kind: OutcomeEmpty, Text: EmptyResultText, Columns: columns}
	}
	return Outcome{Kind: OutcomeRows, Text: FormatRows(result), Columns: columns, Rows: result}
}

// readOnly makes the transaction refuse writes. sqlite's query_only flag belongs to the
// connection, so release switches it back off before the connection is returned.
func (s *Store) readOnly(tx *gorm.DB) (func(), error) {
	switch s.Dialect() {
	case "sqlite":
		if err := tx.Exec("PRAGMA query_only = ON").Error; err != nil {
			return nil, err
		}
		return func() {
			if err := tx.WithContext(context.Background()).Exec("PRAGMA query_only = OFF").Error; err != nil {
				s.logger.WithError(err).Warn("Failed to reset query_only")
			}
		}, nil
	case "postgres":
		if err := tx.Exec("SET TRANSACTION READ ONLY").Error; err != nil {
			return nil, err
		}
	}
	return func() {}, nil
}

// FormatRows renders rows as a list of tuples, e.g. [('starbucks', 45.0)].
func FormatRows(rows [][]interface{}) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, row := range rows {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteByte('(')
		for j, v := range row {
			if j > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(formatValue(v))
		}
		if len(row) == 1 {
			sb.WriteByte(',')
		}
		sb.WriteByte(')')
	}
	sb.WriteByte(']')
	return sb.String()
}

func formatValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return "None"
	case string:
		return quote(val)
	case []byte:
		return quote(string(val))
	case bool:
		if val {
			return "True"
		}
		return "False"
	case int64:
		return strconv.FormatInt(val, 10)
	case int:
		return strconv.Itoa(val)
	case float64:
		return formatFloat(val)
	case float32:
		return formatFloat(float64(val))
	case time.Time:
		return quote(val.Format("2006-01-02 15:04:05"))
	case fmt.Stringer:
		return quote(val.String())
	default:
		return fmt.Sprintf("%v", val)
	}
}

func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEn") {
		s += ".0"
	}
	return s
}

func quote(s string) string {
	if strings.Contains(s, "'") && !strings.Contains(s, `"`) {
		return `"` + strings.ReplaceAll(s, `\`, `\\`) + `"`
	}
	s = strings.ReplaceAll(s, `\`, `\\`)
	return "'" + strings.ReplaceAll(s, "'", `\'`) + "'"
}
