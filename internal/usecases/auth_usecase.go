package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"wa_botflow/internal/entities"
	"wa_botflow/internal/interfaces"
)

const tokenTTL = 24 * time.Hour

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTaken      = fmt.Errorf("username %w", interfaces.ErrConflict)
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
)

type AuthUsecase struct {
	users     interfaces.UserStore
	tenants   interfaces.TenantProvisioner
	jwtSecret []byte
	now       func() time.Time
}

func NewAuthUsecase(users interfaces.UserStore, tenants interfaces.TenantProvisioner, secret string) *AuthUsecase {
	return &AuthUsecase{
		users:     users,
		tenants:   tenants,
		jwtSecret: []byte(secret),
		now:       time.Now,
	}
}

// Register creates an account and its business schema. The schema name is
// the business id used by every other API.
func (uc *AuthUsecase) Register(ctx context.Context, username, password string) (*entities.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrInvalidCredentials)
	}
	if len(password) < 8 {
		return nil, ErrWeakPassword
	}

	existing, err := uc.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		Username:     username,
		PasswordHash: string(hashed),
		Role:         entities.RoleOwner,
		IsActive:     true,
		WAEnabled:    true,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}
	if err := uc.provision(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (uc *AuthUsecase) provision(ctx context.Context, user *entities.User) error {
	schema, err := uc.tenants.CreateTenantSchema(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("create business schema: %w", err)
	}
	if err := uc.users.SetSchemaName(ctx, user.ID, schema); err != nil {
		return err
	}
	user.SchemaName = schema
	return nil
}

// Login returns a signed token carrying the user id, role and business id.
func (uc *AuthUsecase) Login(ctx context.Context, username, password string) (string, error) {
	user, err := uc.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrInvalidCredentials
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		return "", ErrInvalidCredentials
	}
	if !user.IsActive {
		return "", interfaces.ErrAccountDenied
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":     user.ID,
		"role":        user.Role,
		"schema_name": user.SchemaName,
		"exp":         uc.now().Add(tokenTTL).Unix(),
	})

	tokenString, err := token.SignedString(uc.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// EnsureAdmin creates a root user if none exists (called on startup)
func (uc *AuthUsecase) EnsureAdmin(ctx context.Context, username, password string) error {
	user, err := uc.users.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if user != nil {
		if user.SchemaName == "" {
			return uc.provision(ctx, user)
		}
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := &entities.User{
		Username:     username,
		PasswordHash: string(hashed),
		Role:         entities.RoleAdmin,
		IsActive:     true,
		WAEnabled:    true,
	}
	if err := uc.users.Create(ctx, admin); err != nil {
		return err
	}
	return uc.provision(ctx, admin)
}
