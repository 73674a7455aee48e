// Package storage keeps small opaque snapshots under fixed keys. It backs
// the cart and the admin session, which each persist a single value.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/aaravmahajanofficial/storefront/internal/config"
)

var ErrNotFound = errors.New("storage: key not found")

// Store is a durable key/value map. Load returns ErrNotFound for a key
// that was never saved or has been deleted.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// New opens the store selected by cfg.Storage.Driver.
func New(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.Storage.Driver {
	case "", "file":
		return NewFileStore(cfg.Storage.Dir)
	case "redis":
		client, err := NewRedisClient(ctx, &cfg.RedisConnect)
		if err != nil {
			return nil, err
		}

		return NewRedisStore(client, cfg.Storage.TTL), nil
	case "postgres":
		db, err := OpenPostgres(ctx, &cfg.Database)
		if err != nil {
			return nil, err
		}

		store := NewPostgresStore(db)
		if err := store.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}

		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
