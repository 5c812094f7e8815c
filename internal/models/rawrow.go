package models

import "strings"

// RawRow is one row of extracted tabular data. Columns and Values are parallel and keep
// the column order of the source table; a short row has fewer values than columns.
type RawRow struct {
	Columns []string
	Values  []string
}

// Get returns the cell for the named column and whether the column exists in the row.
func (r RawRow) Get(column string) (string, bool) {
	for i, c := range r.Columns {
		if c != column {
			continue
		}
		if i < len(r.Values) {
			return r.Values[i], true
		}
		return "", true
	}
	return "", false
}

// IsEmpty reports whether every cell of the row is blank.
func (r RawRow) IsEmpty() bool {
	for _, v := range r.Values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
