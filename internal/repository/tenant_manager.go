package repository

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"wa_botflow/internal/interfaces"
)

type TenantManager struct {
	db *pgxpool.Pool
}

var _ interfaces.TenantProvisioner = (*TenantManager)(nil)

func NewTenantManager(db *pgxpool.Pool) *TenantManager {
	return &TenantManager{db: db}
}

var schemaNameRe = regexp.MustCompile("[^a-zA-Z0-9_]+")

// sanitizeSchemaName ensures schema name is safe for SQL
func sanitizeSchemaName(name string) string {
	return strings.ToLower(schemaNameRe.ReplaceAllString(name, "_"))
}

// SchemaFor is the tenant schema, and business id, of a user.
func SchemaFor(userID int) string {
	return fmt.Sprintf("tenant_%d", userID)
}

// tenantTables is the per-business DDL. Button targets carry no foreign key:
// a deleted target leaves a dangling link that the router degrades around
// and the graph validator reports.
func tenantTables(schema string) []string {
	return []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s.bot_config (
				id SERIAL PRIMARY KEY,
				key VARCHAR(64) UNIQUE NOT NULL,
				value TEXT,
				updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			)
		`, schema),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s.menus (
				id UUID PRIMARY KEY,
				name VARCHAR(100) UNIQUE NOT NULL,
				message_text TEXT NOT NULL,
				is_entry_point BOOLEAN NOT NULL DEFAULT FALSE,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			)
		`, schema),
		fmt.Sprintf(`
			CREATE UNIQUE INDEX IF NOT EXISTS menus_single_entry
			ON %s.menus (is_entry_point) WHERE is_entry_point
		`, schema),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s.menu_buttons (
				id UUID PRIMARY KEY,
				menu_id UUID NOT NULL REFERENCES %s.menus(id) ON DELETE CASCADE,
				sort_order INT NOT NULL CHECK (sort_order BETWEEN 1 AND 3),
				label VARCHAR(20) NOT NULL,
				action_type VARCHAR(32) NOT NULL,
				next_menu_id UUID,
				UNIQUE (menu_id, sort_order)
			)
		`, schema, schema),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s.booking_steps (
				id UUID PRIMARY KEY,
				step_order INT UNIQUE NOT NULL,
				prompt_text TEXT NOT NULL,
				input_type VARCHAR(16) NOT NULL,
				expected_values JSONB NOT NULL DEFAULT '[]',
				validation_type VARCHAR(16) NOT NULL DEFAULT 'none',
				validation_regex TEXT NOT NULL DEFAULT '',
				retry_message TEXT NOT NULL DEFAULT '',
				is_required BOOLEAN NOT NULL DEFAULT TRUE,
				is_enabled BOOLEAN NOT NULL DEFAULT TRUE
			)
		`, schema),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s.conversations (
				id UUID PRIMARY KEY,
				platform VARCHAR(32) NOT NULL,
				contact VARCHAR(128) NOT NULL,
				state VARCHAR(32) NOT NULL,
				context JSONB NOT NULL DEFAULT '{}',
				offered_buttons JSONB NOT NULL DEFAULT '[]',
				updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
				UNIQUE (platform, contact)
			)
		`, schema),
	}
}

// CreateTenantSchema creates a new schema for a user with all required tables
func (t *TenantManager) CreateTenantSchema(ctx context.Context, userID int) (string, error) {
	schemaName := SchemaFor(userID)

	tx, err := t.db.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", schemaName)); err != nil {
		return "", fmt.Errorf("failed to create schema: %w", err)
	}
	for _, ddl := range tenantTables(schemaName) {
		if _, err := tx.Exec(ctx, ddl); err != nil {
			return "", fmt.Errorf("failed to create table: %w", err)
		}
	}

	return schemaName, tx.Commit(ctx)
}

// EnsureTenantTables brings an existing tenant schema up to date. Called at
// startup for every active user.
func (t *TenantManager) EnsureTenantTables(ctx context.Context, schemaName string) error {
	schemaName = sanitizeSchemaName(schemaName)
	if _, err := t.db.Exec(ctx, fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", schemaName)); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	for _, ddl := range tenantTables(schemaName) {
		if _, err := t.db.Exec(ctx, ddl); err != nil {
			return fmt.Errorf("ensure tables in %s: %w", schemaName, err)
		}
	}
	return nil
}

// DropTenantSchema removes a user's schema and all data
func (t *TenantManager) DropTenantSchema(ctx context.Context, schemaName string) error {
	schemaName = sanitizeSchemaName(schemaName)
	_, err := t.db.Exec(ctx, fmt.Sprintf("DROP SCHEMA IF EXISTS %s CASCADE", schemaName))
	return err
}
