package interfaces

//go:generate mockgen -source=ports.go -destination=mocks/ports_mock.go -package=mock_interfaces

import (
	"context"
	"errors"
	"fmt"

	"wa_botflow/internal/entities"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflicts with existing data")
	ErrMenuNotFound  = fmt.Errorf("menu %w", ErrNotFound)
	ErrAccountDenied = errors.New("business account is disabled")
	ErrAIAuth        = errors.New("ai provider rejected credentials")
	ErrAIQuota       = errors.New("ai provider quota exhausted")
	ErrQuotaExceeded = errors.New("message quota exceeded")
)

// AIClient is the text generation backend behind the assist gate.
// Implementations wrap auth failures with ErrAIAuth and quota failures with
// ErrAIQuota.
type AIClient interface {
	GenerateResponse(ctx context.Context, prompt string) (string, error)
}

// Messenger delivers a router reply to one recipient on a concrete transport.
type Messenger interface {
	SendReply(ctx context.Context, to string, reply entities.RouterResult) error
}

// GraphReader is the read side of a business's menu graph.
type GraphReader interface {
	LoadGraph(ctx context.Context, businessID string) (*entities.MenuGraph, error)
	GetMenu(ctx context.Context, businessID, menuID string) (entities.Menu, error)
}

type BookingStepReader interface {
	ListBookingSteps(ctx context.Context, businessID string) ([]entities.BookingStep, error)
}

type BotConfigStore interface {
	GetBotConfig(ctx context.Context, businessID string) (entities.BotConfig, error)
	SetConfig(ctx context.Context, businessID, key, value string) error
}

// ConversationStore holds one state row per (business, platform, contact).
// GetConversation returns ErrNotFound for a customer never seen before.
type ConversationStore interface {
	GetConversation(ctx context.Context, businessID, platform, contact string) (*entities.Conversation, error)
	SaveConversation(ctx context.Context, conv *entities.Conversation) error
}

// GraphWriter is bound to one open transaction of one business.
type GraphWriter interface {
	DeleteGraph(ctx context.Context) error
	UpsertBotConfig(ctx context.Context, cfg entities.BotConfig) error
	InsertMenu(ctx context.Context, m entities.Menu) error
	InsertButton(ctx context.Context, b entities.Button) error
	InsertBookingStep(ctx context.Context, s entities.BookingStep) error
}

// TemplateStore runs fn inside a single transaction that is serialized per
// business. Any error from fn rolls the whole application back.
type TemplateStore interface {
	ApplyTemplateTx(ctx context.Context, businessID string, fn func(GraphWriter) error) error
}

type TemplateCatalog interface {
	Get(id string) (entities.Template, error)
	List() []entities.TemplateSummary
}

// UsageTracker enforces the owner's message quota for a business.
type UsageTracker interface {
	CheckQuota(ctx context.Context, businessID string) error
	RecordTurn(ctx context.Context, businessID string, replied bool) error
}

// MenuStore is the dashboard's read/write access to the menu graph.
type MenuStore interface {
	GraphReader
	CreateMenu(ctx context.Context, businessID string, menu *entities.Menu) error
	UpdateMenu(ctx context.Context, businessID string, menu entities.Menu) error
	DeleteMenu(ctx context.Context, businessID, menuID string) error
	SetEntryMenu(ctx context.Context, businessID, menuID string) error
	GetButton(ctx context.Context, businessID, buttonID string) (entities.Button, error)
	CreateButton(ctx context.Context, businessID string, button *entities.Button) error
	UpdateButton(ctx context.Context, businessID string, button entities.Button) error
	DeleteButton(ctx context.Context, businessID, buttonID string) error
}

type BookingStepStore interface {
	BookingStepReader
	GetBookingStep(ctx context.Context, businessID, stepID string) (entities.BookingStep, error)
	CreateBookingStep(ctx context.Context, businessID string, step *entities.BookingStep) error
	UpdateBookingStep(ctx context.Context, businessID string, step entities.BookingStep) error
	DeleteBookingStep(ctx context.Context, businessID, stepID string) error
}

type BotConfigAdmin interface {
	BotConfigStore
	SaveBotConfig(ctx context.Context, businessID string, cfg entities.BotConfig) error
}

type ConversationLister interface {
	ListConversations(ctx context.Context, businessID string, state entities.State, limit int) ([]entities.Conversation, error)
}

// UserStore is the account storage used by authentication. GetByUsername
// returns nil, nil for an unknown name.
type UserStore interface {
	GetByUsername(ctx context.Context, username string) (*entities.User, error)
	Create(ctx context.Context, user *entities.User) error
	SetSchemaName(ctx context.Context, id int, schemaName string) error
}

// TenantProvisioner creates the per-business schema of a new account.
type TenantProvisioner interface {
	CreateTenantSchema(ctx context.Context, userID int) (string, error)
}
