package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps the blob as one keyed row. The database is still
// loaded and saved wholesale; Postgres only contributes durability for
// deployments that already run it.
type PostgresStore struct {
	pool *pgxpool.Pool
	key  string
}

func NewPostgresStore(databaseURL, key string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	config.MaxConns = 10
	config.MaxConnLifetime = 30 * time.Minute
	config.MaxConnIdleTime = 5 * time.Minute

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if key == "" {
		key = DefaultBlobKey
	}

	s := &PostgresStore{pool: pool, key: key}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (p *PostgresStore) ensureSchema(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS blob_store (
			key        TEXT PRIMARY KEY,
			data       JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create blob_store table: %w", err)
	}
	return nil
}

func (p *PostgresStore) Load(ctx context.Context) ([]byte, error) {
	var data []byte
	err := p.pool.QueryRow(ctx, "SELECT data FROM blob_store WHERE key = $1", p.key).Scan(&data)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read blob row: %w", err)
	}
	return data, nil
}

func (p *PostgresStore) Save(ctx context.Context, data []byte) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO blob_store (key, data, updated_at) VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()
	`, p.key, data)
	if err != nil {
		return fmt.Errorf("failed to write blob row: %w", err)
	}
	return nil
}

func (p *PostgresStore) Close() {
	p.pool.Close()
}
