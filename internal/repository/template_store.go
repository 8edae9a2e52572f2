package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"wa_botflow/internal/entities"
	"wa_botflow/internal/infrastructure"
	"wa_botflow/internal/interfaces"
)

// TemplateStore runs template applications. Each one is a single
// transaction holding a per-business advisory lock, so concurrent
// applications for the same business queue up instead of interleaving.
type TemplateStore struct {
	db    *pgxpool.Pool
	cache *infrastructure.Cache
}

var _ interfaces.TemplateStore = (*TemplateStore)(nil)

func NewTemplateStore(db *pgxpool.Pool, cache *infrastructure.Cache) *TemplateStore {
	return &TemplateStore{db: db, cache: cache}
}

func (s *TemplateStore) ApplyTemplateTx(ctx context.Context, businessID string, fn func(interfaces.GraphWriter) error) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", "template:"+businessID); err != nil {
		return fmt.Errorf("lock business: %w", err)
	}
	if err := fn(&txWriter{tx: tx, businessID: businessID}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	s.cache.Delete(configCacheKey(businessID), graphCacheKey(businessID), stepsCacheKey(businessID))
	return nil
}

// txWriter is the GraphWriter bound to one open template transaction.
type txWriter struct {
	tx         pgx.Tx
	businessID string
}

// DeleteGraph clears menus, buttons and booking steps. Bot config rows are
// overwritten by UpsertBotConfig rather than deleted.
func (w *txWriter) DeleteGraph(ctx context.Context) error {
	for _, table := range []string{"menu_buttons", "menus", "booking_steps"} {
		if _, err := w.tx.Exec(ctx, fmt.Sprintf("DELETE FROM %s", tenantTable(w.businessID, table))); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

func (w *txWriter) UpsertBotConfig(ctx context.Context, cfg entities.BotConfig) error {
	return upsertBotConfig(ctx, w.tx, w.businessID, cfg)
}

func (w *txWriter) InsertMenu(ctx context.Context, m entities.Menu) error {
	return insertMenu(ctx, w.tx, w.businessID, m)
}

func (w *txWriter) InsertButton(ctx context.Context, b entities.Button) error {
	return insertButton(ctx, w.tx, w.businessID, b)
}

func (w *txWriter) InsertBookingStep(ctx context.Context, s entities.BookingStep) error {
	return insertBookingStep(ctx, w.tx, w.businessID, s)
}
