package main

import (
	"context"
	"fmt"

	"github.com/sweetshop/sweet-shop/internal/core/ports"
	"github.com/sweetshop/sweet-shop/internal/infrastructure/config"
	"github.com/sweetshop/sweet-shop/internal/infrastructure/db/gormdb"
	"github.com/sweetshop/sweet-shop/internal/infrastructure/db/mongo"
)

// storage is the repository set of whichever backend STORAGE_DRIVER selects.
type storage struct {
	users  ports.AuthRepository
	sweets ports.SweetRepository
	events ports.StockEventRepository
	ping   func(context.Context) error
	close  func(context.Context) error
}

func openStorage(ctx context.Context, cfg *config.Config) (*storage, error) {
	switch cfg.Storage.Driver {
	case config.StorageMongo:
		s, err := mongo.Open(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		return &storage{users: s.Users, sweets: s.Sweets, events: s.Events, ping: s.Ping, close: s.Close}, nil

	case config.StoragePostgres, config.StorageSQLite:
		s, err := gormdb.Open(gormdb.Config{
			Driver: cfg.Storage.Driver,
			DSN:    cfg.Storage.DSN,
			Debug:  cfg.LogLevel == "debug" || cfg.LogLevel == "trace",
		})
		if err != nil {
			return nil, err
		}
		return &storage{users: s.Users, sweets: s.Sweets, events: s.Events, ping: s.Ping, close: s.Close}, nil

	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
}
