package app

import (
	"context"
	"fmt"

	"menusvc/internal/config"
	"menusvc/internal/repositories"
	"menusvc/pkg/mongodb"
)

// Store is an opened menu item store.
type Store struct {
	Accessor  repositories.MenuItemAccessor
	Rebuilder repositories.Rebuilder
	Ping      func(ctx context.Context) error
	Close     func(ctx context.Context) error
}

// OpenStore opens the store selected by cfg.StoreDriver. The accessor is
// instrumented with Prometheus metrics.
func OpenStore(ctx context.Context, cfg *config.Config) (*Store, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		conn := mongodb.NewConnectionManager(mongodb.Config{
			URI:        cfg.Mongo.URI,
			Database:   cfg.Mongo.Database,
			Collection: cfg.Mongo.Collection,
		})
		accessor := repositories.NewMongoMenuItemAccessor(conn)
		return &Store{
			Accessor:  repositories.Instrument(accessor),
			Rebuilder: accessor,
			Ping:      conn.Ping,
			Close:     conn.Close,
		}, nil

	case config.DriverPostgres, config.DriverSQLite:
		db, err := repositories.OpenGORMDatabase(cfg.StoreDriver, cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get database handle: %w", err)
		}
		accessor := repositories.NewGORMMenuItemAccessor(db)
		if err := accessor.Migrate(ctx); err != nil {
			sqlDB.Close()
			return nil, err
		}
		return &Store{
			Accessor:  repositories.Instrument(accessor),
			Rebuilder: accessor,
			Ping:      sqlDB.PingContext,
			Close:     func(context.Context) error { return sqlDB.Close() },
		}, nil

	case config.DriverMemory:
		accessor := repositories.NewMemoryMenuItemAccessor()
		return &Store{
			Accessor:  repositories.Instrument(accessor),
			Rebuilder: accessor,
			Ping:      func(context.Context) error { return nil },
			Close:     func(context.Context) error { return nil },
		}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
