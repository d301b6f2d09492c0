package postgres

import (
	"context"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS businesses (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		square_access_token TEXT NOT NULL DEFAULT '',
		square_merchant_id TEXT NOT NULL DEFAULT '',
		square_token_expires_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_businesses_merchant ON businesses (square_merchant_id)`,
	`CREATE TABLE IF NOT EXISTS ingredients (
		id TEXT PRIMARY KEY,
		business_id TEXT NOT NULL REFERENCES businesses(id),
		name TEXT NOT NULL,
		quantity_in_stock NUMERIC(18,6) NOT NULL DEFAULT 0,
		base_unit TEXT NOT NULL,
		max NUMERIC(18,6),
		conversion_rate NUMERIC(18,6),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_ingredients_business ON ingredients (business_id)`,
	`ALTER TABLE ingredients ADD COLUMN IF NOT EXISTS pos_item_id TEXT NOT NULL DEFAULT ''`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_ingredients_pos_item ON ingredients (business_id, pos_item_id) WHERE pos_item_id <> ''`,
	`CREATE TABLE IF NOT EXISTS recipes (
		id TEXT PRIMARY KEY,
		business_id TEXT NOT NULL REFERENCES businesses(id),
		name TEXT NOT NULL,
		unit_cost NUMERIC(18,2) NOT NULL DEFAULT 0,
		ingredients JSONB NOT NULL DEFAULT '[]',
		variation_ids TEXT[] NOT NULL DEFAULT '{}',
		modifiers JSONB NOT NULL DEFAULT '[]',
		categories TEXT[] NOT NULL DEFAULT '{}',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_recipes_business ON recipes (business_id)`,
	`CREATE TABLE IF NOT EXISTS shopping_lists (
		id TEXT PRIMARY KEY,
		business_id TEXT NOT NULL UNIQUE REFERENCES businesses(id),
		lines JSONB NOT NULL DEFAULT '[]',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS processed_events (
		order_id TEXT PRIMARY KEY,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		expires_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_processed_events_expires ON processed_events (expires_at)`,
	`CREATE TABLE IF NOT EXISTS ingredient_movements (
		id TEXT PRIMARY KEY,
		business_id TEXT NOT NULL,
		ingredient_id TEXT NOT NULL,
		order_id TEXT NOT NULL,
		quantity NUMERIC(18,6) NOT NULL,
		unit TEXT NOT NULL,
		resulting_stock NUMERIC(18,6) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_ingredient_movements_order ON ingredient_movements (order_id)`,
	`ALTER TABLE ingredient_movements ADD COLUMN IF NOT EXISTS kind TEXT NOT NULL DEFAULT 'CONSUME'
		CHECK (kind IN ('CONSUME','RECEIPT'))`,
	`CREATE TABLE IF NOT EXISTS inbox_events (
		id TEXT PRIMARY KEY,
		merchant_id TEXT NOT NULL DEFAULT '',
		order_id TEXT NOT NULL,
		event_type TEXT NOT NULL,
		payload JSONB NOT NULL,
		status TEXT NOT NULL DEFAULT 'PENDING'
			CHECK (status IN ('PENDING','PROCESSING','DONE','SKIPPED','FAILED')),
		attempts INT NOT NULL DEFAULT 0,
		last_error TEXT NOT NULL DEFAULT '',
		received_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		claimed_at TIMESTAMPTZ,
		processed_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_inbox_events_pending ON inbox_events (status, received_at)`,
}

// Migrate crea las tablas si no existen. Es idempotente.
func Migrate(ctx context.Context, q Querier) error {
	for _, stmt := range schema {
		if _, err := q.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
