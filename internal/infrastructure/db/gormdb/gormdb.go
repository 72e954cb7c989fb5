// Package gormdb provides relational repositories for the shop, backed by
// PostgreSQL in production and SQLite for local runs and tests.
package gormdb

import (
	"context"
	"fmt"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config selects the SQL dialect and connection string.
type Config struct {
	Driver string
	DSN    string
	Debug  bool
}

// Store bundles the gorm-backed repositories over a single connection pool.
type Store struct {
	db *gorm.DB

	Users  *AuthRepository
	Sweets *SweetRepository
	Events *StockEventRepository
}

// Open connects with the configured dialect and migrates the schema.
func Open(cfg Config) (*Store, error) {
	var dialector gorm.Dialector
	switch strings.ToLower(cfg.Driver) {
	case DriverPostgres:
		dialector = postgres.Open(cfg.DSN)
	case DriverSQLite:
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("gormdb: unsupported driver %q", cfg.Driver)
	}

	logLevel := logger.Silent
	if cfg.Debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("gormdb open: %w", err)
	}

	if strings.EqualFold(cfg.Driver, DriverSQLite) && strings.Contains(cfg.DSN, ":memory:") {
		// every new connection to :memory: would see an empty database
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("gormdb pool: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(&userModel{}, &sweetModel{}, &stockEventModel{}); err != nil {
		return nil, fmt.Errorf("gormdb migrate: %w", err)
	}

	return &Store{
		db:     db,
		Users:  &AuthRepository{db: db},
		Sweets: &SweetRepository{db: db},
		Events: &StockEventRepository{db: db},
	}, nil
}

// Ping reports whether the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the connection pool.
func (s *Store) Close(context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
