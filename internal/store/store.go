// Package store persists named collections of transactions in a SQL database and runs
// read-only SQL against them.
package store

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"spendwise/internal/logging"
	"spendwise/internal/models"
	"spendwise/internal/parsererror"
)

const insertBatchSize = 200

// Store keeps one table per collection. Saves are serialized and each one fully
// replaces the collection's table inside a single database transaction.
type Store struct {
	db          *gorm.DB
	collections map[string]string
	logger      logging.Logger
	mu          sync.Mutex
}

// CollectionInfo describes a configured collection.
type CollectionInfo struct {
	Name   string
	Table  string
	Exists bool
	Rows   int64
}

// Open connects to the database selected by driver ("sqlite" or "postgres").
func Open(driver, dsn string, collections map[string]string, logger logging.Logger) (*Store, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if driver == "sqlite" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sql.DB: %w", err)
		}
		// One connection keeps ":memory:" databases alive and matches sqlite's single writer.
		sqlDB.SetMaxOpenConns(1)
	}

	logger.Debug("Connected to database", logging.F("driver", driver))
	return New(db, collections, logger), nil
}

// New wraps an open gorm connection.
func New(db *gorm.DB, collections map[string]string, logger logging.Logger) *Store {
	return &Store{db: db, collections: collections, logger: logger}
}

// Close closes the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Dialect returns the SQL dialect name of the connection, e.g. "sqlite" or "postgres".
func (s *Store) Dialect() string {
	return s.db.Dialector.Name()
}

// TableFor resolves a collection to its table.
func (s *Store) TableFor(collection string) (string, error) {
	table, ok := s.collections[collection]
	if !ok {
		return "", &parsererror.UnknownCollectionError{Collection: collection}
	}
	return table, nil
}

// Save replaces the collection's table with txs. Transactions without a merchant are
// skipped.
func (s *Store) Save(ctx context.Context, collection string, txs []models.Transaction) error {
	table, err := s.TableFor(collection)
	if err != nil {
		return err
	}

	rows := slices.DeleteFunc(slices.Clone(txs), func(tx models.Transaction) bool {
		return strings.TrimSpace(tx.Merchant) == ""
	})

	s.mu.Lock()
	defer s.mu.Unlock()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		migrator := tx.Migrator()
		if migrator.HasTable(table) {
			if err := migrator.DropTable(table); err != nil {
				return fmt.Errorf("drop table %s: %w", table, err)
			}
		}
		if err := tx.Table(table).Migrator().CreateTable(&models.Transaction{}); err != nil {
			return fmt.Errorf("create table %s: %w", table, err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.Table(table).CreateInBatches(rows, insertBatchSize).Error; err != nil {
			return fmt.Errorf("insert into %s: %w", table, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Saved collection",
		logging.F(logging.FieldCollection, collection),
		logging.F(logging.FieldTable, table),
		logging.F(logging.FieldCount, len(rows)))
	return nil
}

// Transactions reads a whole collection back.
func (s *Store) Transactions(ctx context.Context, collection string) ([]models.Transaction, error) {
	table, err := s.TableFor(collection)
	if err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)
	if !db.Migrator().HasTable(table) {
		return nil, fmt.Errorf("collection %s has not been ingested yet", collection)
	}

	var txs []models.Transaction
	if err := db.Table(table).Order(clause.OrderByColumn{Column: clause.Column{Name: "Date"}}).Find(&txs).Error; err != nil {
		return nil, fmt.Errorf("read %s: %w", table, err)
	}
	return txs, nil
}

// Collections lists the configured collections with their table state.
func (s *Store) Collections(ctx context.Context) ([]CollectionInfo, error) {
	db := s.db.WithContext(ctx)
	infos := make([]CollectionInfo, 0, len(s.collections))
	for name, table := range s.collections {
		info := CollectionInfo{Name: name, Table: table}
		if db.Migrator().HasTable(table) {
			info.Exists = true
			if err := db.Table(table).Count(&info.Rows).Error; err != nil {
				return nil, fmt.Errorf("count %s: %w", table, err)
			}
		}
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}
