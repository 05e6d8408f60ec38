package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS users (
	id            UUID PRIMARY KEY,
	email         TEXT UNIQUE NOT NULL,
	password_hash TEXT NOT NULL,
	first_name    TEXT NOT NULL DEFAULT '',
	last_name     TEXT NOT NULL DEFAULT '',
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS vendor_tiers (
	id            UUID PRIMARY KEY,
	name          TEXT UNIQUE NOT NULL,
	monthly_price NUMERIC(12,2) NOT NULL DEFAULT 0,
	max_products  INTEGER NOT NULL DEFAULT 0,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS vendors (
	id            UUID PRIMARY KEY,
	owner_id      UUID UNIQUE NOT NULL REFERENCES users(id),
	tier_id       UUID NOT NULL REFERENCES vendor_tiers(id),
	business_name TEXT NOT NULL,
	tax_id        TEXT NOT NULL DEFAULT '',
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS products (
	id             UUID PRIMARY KEY,
	vendor_id      UUID NOT NULL REFERENCES vendors(id),
	name           TEXT NOT NULL,
	description    TEXT NOT NULL DEFAULT '',
	category       TEXT NOT NULL DEFAULT '',
	sku            TEXT NOT NULL DEFAULT '',
	currency       TEXT NOT NULL DEFAULT 'INR',
	purchase_price NUMERIC(12,2),
	selling_price  NUMERIC(12,2),
	mrp            NUMERIC(12,2),
	gst            NUMERIC(5,2),
	image_url      TEXT NOT NULL DEFAULT '',
	is_active      BOOLEAN NOT NULL DEFAULT TRUE,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_products_vendor ON products(vendor_id);

CREATE TABLE IF NOT EXISTS product_variants (
	id                 UUID PRIMARY KEY,
	product_id         UUID NOT NULL REFERENCES products(id) ON DELETE CASCADE,
	attributes         JSONB NOT NULL DEFAULT '{}',
	sku                TEXT NOT NULL,
	purchase_price     NUMERIC(12,2),
	selling_price      NUMERIC(12,2),
	mrp                NUMERIC(12,2),
	gst                NUMERIC(5,2),
	inventory_quantity INTEGER NOT NULL DEFAULT 0 CHECK (inventory_quantity >= 0),
	is_default         BOOLEAN NOT NULL DEFAULT FALSE,
	images             TEXT[] NOT NULL DEFAULT '{}',
	image_url          TEXT,
	created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_product_variants_product ON product_variants(product_id);
CREATE UNIQUE INDEX IF NOT EXISTS uq_product_variants_default
	ON product_variants(product_id) WHERE is_default;
CREATE UNIQUE INDEX IF NOT EXISTS uq_product_variants_attributes
	ON product_variants(product_id, attributes);

INSERT INTO vendor_tiers (id, name, monthly_price, max_products)
VALUES ('00000000-0000-0000-0000-000000000001', 'CORE', 0, 100)
ON CONFLICT (name) DO NOTHING;
`

// EnsureSchema creates the tables the service needs. It is safe to run on every start.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}
	return nil
}
