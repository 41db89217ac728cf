package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/yourusername/tile-inventory/internal/domain/entity"
	"github.com/yourusername/tile-inventory/internal/domain/repository"
)

type postgresProductCache struct {
	db *sql.DB
}

// NewPostgresProductCache stores cache snapshots as JSONB rows keyed by name.
func NewPostgresProductCache(ctx context.Context, db *sql.DB) (repository.ProductCache, error) {
	c := &postgresProductCache{db: db}
	if err := c.ensureSchema(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *postgresProductCache) ensureSchema(ctx context.Context) error {
	_, err := c.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS product_cache (
	cache_key  TEXT PRIMARY KEY,
	payload    JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`)
	if err != nil {
		return fmt.Errorf("product_cache schema: %w", err)
	}
	return nil
}

func (c *postgresProductCache) Load(ctx context.Context, key string) ([]entity.CatalogProduct, error) {
	var payload []byte
	err := c.db.QueryRowContext(ctx, `SELECT payload FROM product_cache WHERE cache_key = $1`, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	var out []entity.CatalogProduct
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return out, nil
}

func (c *postgresProductCache) Store(ctx context.Context, key string, products []entity.CatalogProduct) error {
	if products == nil {
		products = []entity.CatalogProduct{}
	}
	payload, err := json.Marshal(products)
	if err != nil {
		return err
	}
	_, err = c.db.ExecContext(ctx, `
INSERT INTO product_cache (cache_key, payload, updated_at)
VALUES ($1, $2, NOW())
ON CONFLICT (cache_key) DO UPDATE SET payload = EXCLUDED.payload, updated_at = NOW()`, key, payload)
	if err != nil {
		return fmt.Errorf("store %s: %w", key, err)
	}
	return nil
}
