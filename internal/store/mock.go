package store

import (
	"context"

	"spendwise/internal/parsererror"
)

// MockStore returns canned query outcomes and records the statements it receives.
type MockStore struct {
	Tables   map[string]string
	Outcome  Outcome
	Received []string
}

// TableFor resolves a collection from Tables.
func (m *MockStore) TableFor(collection string) (string, error) {
	table, ok := m.Tables[collection]
	if !ok {
		return "", &parsererror.UnknownCollectionError{Collection: collection}
	}
	return table, nil
}

// Dialect reports sqlite.
func (m *MockStore) Dialect() string {
	return "sqlite"
}

// Query records sql and returns the canned outcome.
func (m *MockStore) Query(ctx context.Context, collection, sql string) Outcome {
	m.Received = append(m.Received, sql)
	if _, err := m.TableFor(collection); err != nil {
		return errorOutcome(err)
	}
	return m.Outcome
}
