package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"wa_botflow/internal/entities"
	"wa_botflow/internal/interfaces"
)

var ErrUserNotFound = fmt.Errorf("user %w", interfaces.ErrNotFound)

type UserRepository struct {
	db *pgxpool.Pool
}

var _ interfaces.UserStore = (*UserRepository)(nil)

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, username, password_hash, COALESCE(role, 'user'), COALESCE(schema_name, ''),
	is_active, wa_enabled, telegram_token, daily_limit, monthly_limit`

func scanUser(row rowScanner) (*entities.User, error) {
	var u entities.User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.SchemaName,
		&u.IsActive, &u.WAEnabled, &u.TelegramToken, &u.DailyLimit, &u.MonthlyLimit)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts user and sets its ID.
func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO users (username, password_hash, role, is_active, wa_enabled, daily_limit, monthly_limit)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, user.Username, user.PasswordHash, user.Role, user.IsActive, user.WAEnabled,
		user.DailyLimit, user.MonthlyLimit).Scan(&user.ID)
	return classify(err, ErrUserNotFound)
}

// GetByUsername returns nil, nil when the user does not exist.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*entities.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx,
		fmt.Sprintf("SELECT %s FROM users WHERE username = $1", userColumns), username))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil // Not found
	}
	return user, err
}

func (r *UserRepository) GetByID(ctx context.Context, id int) (*entities.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx,
		fmt.Sprintf("SELECT %s FROM users WHERE id = $1", userColumns), id))
	if err != nil {
		return nil, classify(err, ErrUserNotFound)
	}
	return user, nil
}

func (r *UserRepository) List(ctx context.Context) ([]entities.User, error) {
	rows, err := r.db.Query(ctx, fmt.Sprintf("SELECT %s FROM users ORDER BY id", userColumns))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []entities.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *UserRepository) SetSchemaName(ctx context.Context, id int, schemaName string) error {
	return r.exec(ctx, "UPDATE users SET schema_name = $1 WHERE id = $2", schemaName, id)
}

func (r *UserRepository) SetTelegramToken(ctx context.Context, id int, token string) error {
	return r.exec(ctx, "UPDATE users SET telegram_token = $1 WHERE id = $2", token, id)
}

// UpdateAccess changes the admin-controlled fields of a user.
func (r *UserRepository) UpdateAccess(ctx context.Context, u entities.User) error {
	return r.exec(ctx, `
		UPDATE users SET role = $1, is_active = $2, wa_enabled = $3, daily_limit = $4, monthly_limit = $5
		WHERE id = $6
	`, u.Role, u.IsActive, u.WAEnabled, u.DailyLimit, u.MonthlyLimit, u.ID)
}

func (r *UserRepository) Delete(ctx context.Context, id int) error {
	return r.exec(ctx, "DELETE FROM users WHERE id = $1", id)
}

func (r *UserRepository) exec(ctx context.Context, sql string, args ...any) error {
	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return classify(err, ErrUserNotFound)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}
