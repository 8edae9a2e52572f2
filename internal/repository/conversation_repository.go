package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"wa_botflow/internal/entities"
	"wa_botflow/internal/infrastructure"
	"wa_botflow/internal/interfaces"
)

// ConversationRepository keeps one state row per customer and platform in
// the business schema, with a read-through cache in front of it.
type ConversationRepository struct {
	db    *pgxpool.Pool
	cache *infrastructure.Cache
}

var (
	_ interfaces.ConversationStore  = (*ConversationRepository)(nil)
	_ interfaces.ConversationLister = (*ConversationRepository)(nil)
)

func NewConversationRepository(db *pgxpool.Pool, cache *infrastructure.Cache) *ConversationRepository {
	return &ConversationRepository{db: db, cache: cache}
}

const conversationColumns = "id::text, platform, contact, state, context, offered_buttons, updated_at"

func (r *ConversationRepository) GetConversation(ctx context.Context, businessID, platform, contact string) (*entities.Conversation, error) {
	key := conversationCacheKey(businessID, platform, contact)
	var cached entities.Conversation
	if r.cache.GetJSON(key, &cached) {
		return &cached, nil
	}

	row := r.db.QueryRow(ctx, fmt.Sprintf("SELECT %s FROM %s WHERE platform=$1 AND contact=$2",
		conversationColumns, tenantTable(businessID, "conversations")), platform, contact)
	conv, err := scanConversation(row)
	if err != nil {
		return nil, classify(err, interfaces.ErrNotFound)
	}
	conv.BusinessID = businessID
	r.cache.SetJSON(key, conv)
	return conv, nil
}

func (r *ConversationRepository) SaveConversation(ctx context.Context, conv *entities.Conversation) error {
	if conv.Context == nil {
		conv.Context = map[string]any{}
	}
	if conv.OfferedButtons == nil {
		conv.OfferedButtons = []string{}
	}
	if conv.UpdatedAt.IsZero() {
		conv.UpdatedAt = time.Now()
	}
	_, err := r.db.Exec(ctx, fmt.Sprintf(`
		INSERT INTO %s (id, platform, contact, state, context, offered_buttons, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (platform, contact) DO UPDATE SET
			state=EXCLUDED.state,
			context=EXCLUDED.context,
			offered_buttons=EXCLUDED.offered_buttons,
			updated_at=EXCLUDED.updated_at
	`, tenantTable(conv.BusinessID, "conversations")),
		conv.ID, conv.Platform, conv.Contact, string(conv.State), conv.Context, conv.OfferedButtons, conv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert conversation: %w", err)
	}
	r.cache.SetJSON(conversationCacheKey(conv.BusinessID, conv.Platform, conv.Contact), conv)
	return nil
}

// ListConversations returns the most recently active conversations, newest
// first, optionally only those in state.
func (r *ConversationRepository) ListConversations(ctx context.Context, businessID string, state entities.State, limit int) ([]entities.Conversation, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	query := fmt.Sprintf("SELECT %s FROM %s", conversationColumns, tenantTable(businessID, "conversations"))
	args := []any{}
	if state != "" {
		query += " WHERE state = $1"
		args = append(args, string(state))
	}
	query += fmt.Sprintf(" ORDER BY updated_at DESC LIMIT %d", limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query conversations: %w", err)
	}
	defer rows.Close()

	list := []entities.Conversation{}
	for rows.Next() {
		conv, err := scanConversation(rows)
		if err != nil {
			return nil, err
		}
		conv.BusinessID = businessID
		list = append(list, *conv)
	}
	return list, rows.Err()
}

func scanConversation(row rowScanner) (*entities.Conversation, error) {
	var conv entities.Conversation
	var state string
	err := row.Scan(&conv.ID, &conv.Platform, &conv.Contact, &state, &conv.Context, &conv.OfferedButtons, &conv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	conv.State = entities.State(state)
	if conv.Context == nil {
		conv.Context = map[string]any{}
	}
	return &conv, nil
}
