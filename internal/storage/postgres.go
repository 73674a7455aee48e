package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/XSAM/otelsql"
	"github.com/aaravmahajanofficial/storefront/internal/config"
	"github.com/aaravmahajanofficial/storefront/internal/utils"

	_ "github.com/lib/pq"
)

type PostgresStore struct {
	DB *sql.DB
}

// OpenPostgres opens a traced connection pool and checks it is reachable.
func OpenPostgres(ctx context.Context, cfg *config.Database) (*sql.DB, error) {

	db, err := otelsql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := utils.WithStoreTimeout(ctx)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("✅ Successfully connected to Postgres", slog.String("host", cfg.Host), slog.String("db", cfg.Name))

	return db, nil
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{DB: db}
}

func (p *PostgresStore) EnsureSchema(ctx context.Context) error {
	dbCtx, cancel := utils.WithStoreTimeout(ctx)
	defer cancel()

	query := `
		CREATE TABLE IF NOT EXISTS storefront_kv (
			key TEXT PRIMARY KEY,
			value BYTEA NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`

	if _, err := p.DB.ExecContext(dbCtx, query); err != nil {
		return fmt.Errorf("failed to create storefront_kv table: %w", err)
	}

	return nil
}

func (p *PostgresStore) Load(ctx context.Context, key string) ([]byte, error) {
	dbCtx, cancel := utils.WithStoreTimeout(ctx)
	defer cancel()

	query := `
		SELECT value
		FROM storefront_kv
		WHERE key = $1
	`

	var value []byte

	if err := p.DB.QueryRowContext(dbCtx, query, key).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying key %s: %w", key, err)
	}

	return value, nil
}

func (p *PostgresStore) Save(ctx context.Context, key string, value []byte) error {
	dbCtx, cancel := utils.WithStoreTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO storefront_kv (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`

	if _, err := p.DB.ExecContext(dbCtx, query, key, value); err != nil {
		return fmt.Errorf("failed to save key %s: %w", key, err)
	}

	return nil
}

func (p *PostgresStore) Delete(ctx context.Context, key string) error {
	dbCtx, cancel := utils.WithStoreTimeout(ctx)
	defer cancel()

	query := `
		DELETE FROM storefront_kv
		WHERE key = $1
	`

	if _, err := p.DB.ExecContext(dbCtx, query, key); err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}

	return nil
}

func (p *PostgresStore) Close() error {
	return p.DB.Close()
}
