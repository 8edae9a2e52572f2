package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"wa_botflow/internal/interfaces"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx so the same insert
// helpers serve the dashboard writes and the template transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Postgres error codes we classify
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgInvalidText         = "22P02"
)

// qualifyConfigTable returns schema-qualified table name
func qualifyConfigTable(schema, table string) string {
	if schema == "" || schema == "public" {
		return table
	}
	return fmt.Sprintf("%s.%s", schema, table)
}

// tenantTable qualifies table with the schema of a business id.
func tenantTable(businessID, table string) string {
	return qualifyConfigTable(sanitizeSchemaName(businessID), table)
}

// classify maps driver errors onto the port sentinels.
func classify(err error, notFound error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return notFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation, pgCheckViolation:
			return fmt.Errorf("%w: %s", interfaces.ErrConflict, pgErr.Detail)
		case pgForeignKeyViolation, pgInvalidText:
			return notFound
		}
	}
	return err
}

func configCacheKey(businessID string) string { return "config:" + businessID }

func graphCacheKey(businessID string) string { return "graph:" + businessID }

func stepsCacheKey(businessID string) string { return "steps:" + businessID }

func conversationCacheKey(businessID, platform, contact string) string {
	return "conv:" + businessID + ":" + platform + ":" + contact
}
