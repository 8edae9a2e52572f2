package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresClient struct {
	Pool *pgxpool.Pool
}

func NewPostgresClient(ctx context.Context, connString string) (*PostgresClient, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse connection string: %w", err)
	}

	// Pool configuration
	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	client := &PostgresClient{Pool: pool}
	if err := client.Migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return client, nil
}

// Migrate creates the shared tables. Per-business tables live in the
// tenant schemas created by the tenant manager.
func (p *PostgresClient) Migrate(ctx context.Context) error {
	statements := []struct {
		name string
		ddl  string
	}{
		{"users", `
			CREATE TABLE IF NOT EXISTS users (
				id SERIAL PRIMARY KEY,
				username VARCHAR(50) UNIQUE NOT NULL,
				password_hash VARCHAR(255) NOT NULL,
				role VARCHAR(20) DEFAULT 'user',
				schema_name VARCHAR(64) UNIQUE,
				is_active BOOLEAN NOT NULL DEFAULT TRUE,
				wa_enabled BOOLEAN NOT NULL DEFAULT TRUE,
				telegram_token TEXT NOT NULL DEFAULT '',
				daily_limit INT NOT NULL DEFAULT 0,
				monthly_limit INT NOT NULL DEFAULT 0,
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			)`},
		{"message_usage", `
			CREATE TABLE IF NOT EXISTS message_usage (
				user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				date DATE NOT NULL,
				messages_sent INT NOT NULL DEFAULT 0,
				messages_received INT NOT NULL DEFAULT 0,
				PRIMARY KEY (user_id, date)
			)`},
	}
	for _, s := range statements {
		if _, err := p.Pool.Exec(ctx, s.ddl); err != nil {
			return fmt.Errorf("create %s table: %w", s.name, err)
		}
	}

	// columns added after the first release
	for _, alter := range []string{
		"ALTER TABLE users ADD COLUMN IF NOT EXISTS schema_name VARCHAR(64) UNIQUE",
		"ALTER TABLE users ADD COLUMN IF NOT EXISTS is_active BOOLEAN NOT NULL DEFAULT TRUE",
		"ALTER TABLE users ADD COLUMN IF NOT EXISTS wa_enabled BOOLEAN NOT NULL DEFAULT TRUE",
		"ALTER TABLE users ADD COLUMN IF NOT EXISTS telegram_token TEXT NOT NULL DEFAULT ''",
		"ALTER TABLE users ADD COLUMN IF NOT EXISTS daily_limit INT NOT NULL DEFAULT 0",
		"ALTER TABLE users ADD COLUMN IF NOT EXISTS monthly_limit INT NOT NULL DEFAULT 0",
	} {
		if _, err := p.Pool.Exec(ctx, alter); err != nil {
			return fmt.Errorf("alter users: %w", err)
		}
	}

	var count int
	if err := p.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		slog.Info("database initialized, users table empty; admin will be ensured at startup")
	}
	return nil
}

func (p *PostgresClient) Close() {
	p.Pool.Close()
}
