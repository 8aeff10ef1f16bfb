package database

import (
	"context"
	"fmt"
)

var migrations = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`,

	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		identity_key VARCHAR(255) UNIQUE NOT NULL,
		email VARCHAR(255) NOT NULL,
		name VARCHAR(255) NOT NULL,
		photo_url VARCHAR(500),
		role VARCHAR(20) NOT NULL DEFAULT 'guest',
		has_storage_permission BOOLEAN NOT NULL DEFAULT FALSE,
		permission_granted_at TIMESTAMP WITH TIME ZONE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS documents (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		original_name VARCHAR(500) NOT NULL,
		stored_name VARCHAR(500) NOT NULL,
		owner_identity_key VARCHAR(255) NOT NULL,
		owner_email VARCHAR(255) NOT NULL,
		owner_name VARCHAR(255) NOT NULL,
		version INTEGER NOT NULL DEFAULT 1,
		is_private BOOLEAN NOT NULL DEFAULT FALSE,
		tags TEXT[] NOT NULL DEFAULT '{}',
		storage VARCHAR(20) NOT NULL,
		storage_ref VARCHAR(1000) NOT NULL,
		size_bytes BIGINT NOT NULL DEFAULT 0,
		content_type VARCHAR(255) NOT NULL DEFAULT 'application/octet-stream',
		uploaded_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	// Two concurrent uploads of the same (name, owner) pair must not
	// end up with the same version number. The losing insert fails
	// with a unique violation and surfaces as a conflict.
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_documents_name_owner_version
		ON documents(original_name, owner_identity_key, version)`,

	`CREATE INDEX IF NOT EXISTS idx_documents_owner_identity_key ON documents(owner_identity_key)`,
	`CREATE INDEX IF NOT EXISTS idx_documents_uploaded_at ON documents(uploaded_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_documents_is_private ON documents(is_private)`,
}

func (db *DB) Migrate(ctx context.Context) error {
	for i, migration := range migrations {
		if _, err := db.Pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
