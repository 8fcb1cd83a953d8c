package postgres

import (
	"context"
	"database/sql"
)

// Schema is the DDL for the four entity tables. Deleting a component cascades
// to its properties and parameters at the database level; the validation
// layer above never cascades itself.
const Schema = `
CREATE TABLE IF NOT EXISTS participants (
    id         BIGSERIAL PRIMARY KEY,
    user_name  TEXT NOT NULL UNIQUE,
    type       TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS components (
    id         BIGSERIAL PRIMARY KEY,
    type       TEXT NOT NULL,
    owner_id   BIGINT REFERENCES participants(id),
    parent_id  BIGINT REFERENCES components(id) ON DELETE SET NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS properties (
    id           BIGSERIAL PRIMARY KEY,
    type         TEXT NOT NULL,
    value        TEXT NOT NULL DEFAULT '',
    component_id BIGINT NOT NULL REFERENCES components(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS parameters (
    id          BIGSERIAL PRIMARY KEY,
    type        TEXT NOT NULL,
    value       TEXT NOT NULL DEFAULT '',
    property_id BIGINT NOT NULL REFERENCES properties(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_components_owner  ON components(owner_id);
CREATE INDEX IF NOT EXISTS idx_components_parent ON components(parent_id);
CREATE INDEX IF NOT EXISTS idx_properties_component ON properties(component_id);
CREATE INDEX IF NOT EXISTS idx_parameters_property  ON parameters(property_id);
`

// InitSchema creates the tables if they do not exist yet.
func InitSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, Schema)
	return err
}
