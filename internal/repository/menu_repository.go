package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"wa_botflow/internal/entities"
	"wa_botflow/internal/infrastructure"
	"wa_botflow/internal/interfaces"
)

var ErrButtonNotFound = fmt.Errorf("button %w", interfaces.ErrNotFound)

// MenuRepository persists the menu graph of each business: menus and their
// ordered quick-reply buttons.
type MenuRepository struct {
	db    *pgxpool.Pool
	cache *infrastructure.Cache
}

var _ interfaces.MenuStore = (*MenuRepository)(nil)

func NewMenuRepository(db *pgxpool.Pool, cache *infrastructure.Cache) *MenuRepository {
	return &MenuRepository{db: db, cache: cache}
}

// LoadGraph reads every menu with its buttons. The cached copy is rebuilt
// through NewMenuGraph so each caller gets its own index.
func (r *MenuRepository) LoadGraph(ctx context.Context, businessID string) (*entities.MenuGraph, error) {
	var menus []entities.Menu
	if r.cache.GetJSON(graphCacheKey(businessID), &menus) {
		return entities.NewMenuGraph(businessID, menus), nil
	}

	menus, err := r.readMenus(ctx, businessID)
	if err != nil {
		return nil, err
	}
	r.cache.SetJSON(graphCacheKey(businessID), menus)
	return entities.NewMenuGraph(businessID, menus), nil
}

func (r *MenuRepository) readMenus(ctx context.Context, businessID string) ([]entities.Menu, error) {
	rows, err := r.db.Query(ctx, fmt.Sprintf(`
		SELECT id::text, name, message_text, is_entry_point
		FROM %s ORDER BY is_entry_point DESC, name
	`, tenantTable(businessID, "menus")))
	if err != nil {
		return nil, fmt.Errorf("query menus: %w", err)
	}
	defer rows.Close()

	menus := []entities.Menu{}
	index := map[string]int{}
	for rows.Next() {
		var m entities.Menu
		if err := rows.Scan(&m.ID, &m.Name, &m.MessageText, &m.IsEntryPoint); err != nil {
			return nil, err
		}
		m.Buttons = []entities.Button{}
		index[m.ID] = len(menus)
		menus = append(menus, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	buttons, err := r.queryButtons(ctx, r.db, businessID, "")
	if err != nil {
		return nil, err
	}
	for _, b := range buttons {
		if i, ok := index[b.MenuID]; ok {
			menus[i].Buttons = append(menus[i].Buttons, b)
		}
	}
	return menus, nil
}

// queryButtons lists buttons ordered by menu and position, optionally
// restricted to one menu.
func (r *MenuRepository) queryButtons(ctx context.Context, q querier, businessID, menuID string) ([]entities.Button, error) {
	query := fmt.Sprintf(`
		SELECT id::text, menu_id::text, sort_order, label, action_type, next_menu_id::text
		FROM %s`, tenantTable(businessID, "menu_buttons"))
	var args []any
	if menuID != "" {
		query += " WHERE menu_id = $1"
		args = append(args, menuID)
	}
	query += " ORDER BY menu_id, sort_order"

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, classify(err, interfaces.ErrMenuNotFound)
	}
	defer rows.Close()

	buttons := []entities.Button{}
	for rows.Next() {
		var b entities.Button
		var action string
		if err := rows.Scan(&b.ID, &b.MenuID, &b.Order, &b.Label, &action, &b.NextMenuID); err != nil {
			return nil, err
		}
		b.ActionType = entities.ActionType(action)
		buttons = append(buttons, b)
	}
	return buttons, rows.Err()
}

func (r *MenuRepository) GetMenu(ctx context.Context, businessID, menuID string) (entities.Menu, error) {
	var m entities.Menu
	err := r.db.QueryRow(ctx, fmt.Sprintf(`
		SELECT id::text, name, message_text, is_entry_point FROM %s WHERE id = $1
	`, tenantTable(businessID, "menus")), menuID).Scan(&m.ID, &m.Name, &m.MessageText, &m.IsEntryPoint)
	if err != nil {
		return entities.Menu{}, classify(err, interfaces.ErrMenuNotFound)
	}
	if m.Buttons, err = r.queryButtons(ctx, r.db, businessID, m.ID); err != nil {
		return entities.Menu{}, err
	}
	return m, nil
}

// CreateMenu inserts m with a fresh id. Marking it as entry point clears the
// flag on the previous entry menu in the same transaction.
func (r *MenuRepository) CreateMenu(ctx context.Context, businessID string, m *entities.Menu) error {
	m.ID = uuid.NewString()
	m.Buttons = []entities.Button{}
	return r.inTx(ctx, businessID, func(tx pgx.Tx) error {
		if m.IsEntryPoint {
			if err := clearEntry(ctx, tx, businessID); err != nil {
				return err
			}
		}
		return insertMenu(ctx, tx, businessID, *m)
	})
}

func (r *MenuRepository) UpdateMenu(ctx context.Context, businessID string, m entities.Menu) error {
	return r.inTx(ctx, businessID, func(tx pgx.Tx) error {
		if m.IsEntryPoint {
			if err := clearEntry(ctx, tx, businessID); err != nil {
				return err
			}
		}
		tag, err := tx.Exec(ctx, fmt.Sprintf(`
			UPDATE %s SET name=$1, message_text=$2, is_entry_point=$3 WHERE id=$4
		`, tenantTable(businessID, "menus")), m.Name, m.MessageText, m.IsEntryPoint, m.ID)
		if err != nil {
			return classify(err, interfaces.ErrMenuNotFound)
		}
		if tag.RowsAffected() == 0 {
			return interfaces.ErrMenuNotFound
		}
		return nil
	})
}

// DeleteMenu removes a menu and its buttons. Buttons elsewhere that pointed
// at it are left dangling on purpose; the graph validator reports them.
func (r *MenuRepository) DeleteMenu(ctx context.Context, businessID, menuID string) error {
	tag, err := r.db.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id=$1", tenantTable(businessID, "menus")), menuID)
	if err != nil {
		return classify(err, interfaces.ErrMenuNotFound)
	}
	if tag.RowsAffected() == 0 {
		return interfaces.ErrMenuNotFound
	}
	r.invalidate(businessID)
	return nil
}

// SetEntryMenu makes menuID the single entry point.
func (r *MenuRepository) SetEntryMenu(ctx context.Context, businessID, menuID string) error {
	return r.inTx(ctx, businessID, func(tx pgx.Tx) error {
		if err := clearEntry(ctx, tx, businessID); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, fmt.Sprintf("UPDATE %s SET is_entry_point=TRUE WHERE id=$1",
			tenantTable(businessID, "menus")), menuID)
		if err != nil {
			return classify(err, interfaces.ErrMenuNotFound)
		}
		if tag.RowsAffected() == 0 {
			return interfaces.ErrMenuNotFound
		}
		return nil
	})
}

func (r *MenuRepository) GetButton(ctx context.Context, businessID, buttonID string) (entities.Button, error) {
	var b entities.Button
	var action string
	err := r.db.QueryRow(ctx, fmt.Sprintf(`
		SELECT id::text, menu_id::text, sort_order, label, action_type, next_menu_id::text
		FROM %s WHERE id = $1
	`, tenantTable(businessID, "menu_buttons")), buttonID).
		Scan(&b.ID, &b.MenuID, &b.Order, &b.Label, &action, &b.NextMenuID)
	if err != nil {
		return entities.Button{}, classify(err, ErrButtonNotFound)
	}
	b.ActionType = entities.ActionType(action)
	return b, nil
}

// CreateButton adds b to its menu. Position clashes and positions outside
// 1..3 come back as ErrConflict from the table constraints.
func (r *MenuRepository) CreateButton(ctx context.Context, businessID string, b *entities.Button) error {
	b.ID = uuid.NewString()
	if err := insertButton(ctx, r.db, businessID, *b); err != nil {
		return err
	}
	r.invalidate(businessID)
	return nil
}

func (r *MenuRepository) UpdateButton(ctx context.Context, businessID string, b entities.Button) error {
	tag, err := r.db.Exec(ctx, fmt.Sprintf(`
		UPDATE %s SET sort_order=$1, label=$2, action_type=$3, next_menu_id=$4 WHERE id=$5
	`, tenantTable(businessID, "menu_buttons")), b.Order, b.Label, string(b.ActionType), b.NextMenuID, b.ID)
	if err != nil {
		return classify(err, ErrButtonNotFound)
	}
	if tag.RowsAffected() == 0 {
		return ErrButtonNotFound
	}
	r.invalidate(businessID)
	return nil
}

func (r *MenuRepository) DeleteButton(ctx context.Context, businessID, buttonID string) error {
	tag, err := r.db.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id=$1",
		tenantTable(businessID, "menu_buttons")), buttonID)
	if err != nil {
		return classify(err, ErrButtonNotFound)
	}
	if tag.RowsAffected() == 0 {
		return ErrButtonNotFound
	}
	r.invalidate(businessID)
	return nil
}

func (r *MenuRepository) inTx(ctx context.Context, businessID string, fn func(pgx.Tx) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}
	r.invalidate(businessID)
	return nil
}

func (r *MenuRepository) invalidate(businessID string) {
	r.cache.Delete(graphCacheKey(businessID))
}

func clearEntry(ctx context.Context, q querier, businessID string) error {
	_, err := q.Exec(ctx, fmt.Sprintf("UPDATE %s SET is_entry_point=FALSE WHERE is_entry_point",
		tenantTable(businessID, "menus")))
	return err
}

func insertMenu(ctx context.Context, q querier, businessID string, m entities.Menu) error {
	_, err := q.Exec(ctx, fmt.Sprintf(`
		INSERT INTO %s (id, name, message_text, is_entry_point, created_at)
		VALUES ($1, $2, $3, $4, NOW())
	`, tenantTable(businessID, "menus")), m.ID, m.Name, m.MessageText, m.IsEntryPoint)
	if err != nil {
		if c := classify(err, interfaces.ErrMenuNotFound); errors.Is(c, interfaces.ErrConflict) {
			return fmt.Errorf("menu %q: %w", m.Name, c)
		}
		return err
	}
	return nil
}

func insertButton(ctx context.Context, q querier, businessID string, b entities.Button) error {
	_, err := q.Exec(ctx, fmt.Sprintf(`
		INSERT INTO %s (id, menu_id, sort_order, label, action_type, next_menu_id)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, tenantTable(businessID, "menu_buttons")), b.ID, b.MenuID, b.Order, b.Label, string(b.ActionType), b.NextMenuID)
	return classify(err, interfaces.ErrMenuNotFound)
}
