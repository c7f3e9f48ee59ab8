package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// SchemaSQL creates every table the store reads or writes. Statements are
// idempotent so it can run on each deploy.
const SchemaSQL = `
CREATE TABLE IF NOT EXISTS products (
    id                BIGSERIAL PRIMARY KEY,
    name              TEXT NOT NULL,
    price             NUMERIC(12, 2) NOT NULL,
    stock_quantity    INTEGER NOT NULL DEFAULT 0,
    is_active         BOOLEAN NOT NULL DEFAULT TRUE,
    created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    is_featured       BOOLEAN NOT NULL DEFAULT FALSE,
    is_daily_deal     BOOLEAN NOT NULL DEFAULT FALSE,
    daily_deal_price  NUMERIC(12, 2),
    is_flash_sale     BOOLEAN NOT NULL DEFAULT FALSE,
    flash_sale_price  NUMERIC(12, 2),
    flash_sale_start  TIMESTAMPTZ,
    flash_sale_end    TIMESTAMPTZ,
    views_count       INTEGER NOT NULL DEFAULT 0,
    total_sales_count INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_products_created_at ON products (created_at DESC);

CREATE TABLE IF NOT EXISTS categories (
    id   BIGSERIAL PRIMARY KEY,
    name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS product_categories (
    product_id  BIGINT NOT NULL REFERENCES products (id) ON DELETE CASCADE,
    category_id BIGINT NOT NULL REFERENCES categories (id) ON DELETE CASCADE,
    PRIMARY KEY (product_id, category_id)
);

CREATE TABLE IF NOT EXISTS product_tags (
    product_id BIGINT NOT NULL REFERENCES products (id) ON DELETE CASCADE,
    tag_id     BIGINT NOT NULL,
    PRIMARY KEY (product_id, tag_id)
);

CREATE TABLE IF NOT EXISTS featured_products (
    id         BIGSERIAL PRIMARY KEY,
    product_id BIGINT NOT NULL UNIQUE REFERENCES products (id) ON DELETE CASCADE,
    position   INTEGER NOT NULL DEFAULT 0,
    start_date TIMESTAMPTZ,
    end_date   TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS daily_deals (
    id         BIGSERIAL PRIMARY KEY,
    product_id BIGINT NOT NULL REFERENCES products (id) ON DELETE CASCADE,
    date       DATE NOT NULL,
    priority   INTEGER NOT NULL DEFAULT 0,
    deal_price NUMERIC(12, 2),
    start_at   TIMESTAMPTZ,
    end_at     TIMESTAMPTZ,
    UNIQUE (product_id, date)
);

CREATE TABLE IF NOT EXISTS flash_sales (
    id       BIGSERIAL PRIMARY KEY,
    name     TEXT NOT NULL,
    start_at TIMESTAMPTZ NOT NULL,
    end_at   TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_flash_sales_window ON flash_sales (start_at, end_at);

CREATE TABLE IF NOT EXISTS flash_sale_items (
    id            BIGSERIAL PRIMARY KEY,
    flash_sale_id BIGINT NOT NULL REFERENCES flash_sales (id) ON DELETE CASCADE,
    product_id    BIGINT NOT NULL REFERENCES products (id) ON DELETE CASCADE,
    sale_price    NUMERIC(12, 2) NOT NULL,
    priority      INTEGER NOT NULL DEFAULT 0,
    UNIQUE (flash_sale_id, product_id)
);

CREATE TABLE IF NOT EXISTS product_daily_stats (
    product_id BIGINT NOT NULL REFERENCES products (id) ON DELETE CASCADE,
    date       DATE NOT NULL,
    views      INTEGER NOT NULL DEFAULT 0,
    sales      INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (product_id, date)
);

CREATE TABLE IF NOT EXISTS customers (
    id    TEXT PRIMARY KEY,
    name  TEXT,
    email TEXT
);

CREATE TABLE IF NOT EXISTS orders (
    id             BIGSERIAL PRIMARY KEY,
    user_id        TEXT NOT NULL,
    status         TEXT NOT NULL,
    order_date     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    delivered_date TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_orders_order_date ON orders (order_date);
CREATE INDEX IF NOT EXISTS idx_orders_delivered ON orders (status, delivered_date);

CREATE TABLE IF NOT EXISTS order_items (
    id         BIGSERIAL PRIMARY KEY,
    order_id   BIGINT NOT NULL REFERENCES orders (id) ON DELETE CASCADE,
    product_id BIGINT NOT NULL REFERENCES products (id),
    quantity   INTEGER NOT NULL,
    unit_price NUMERIC(12, 2) NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_order_items_product ON order_items (product_id);
`

// Migrate applies SchemaSQL in one transaction.
func Migrate(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin migration: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, SchemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration: %w", err)
	}
	return nil
}
