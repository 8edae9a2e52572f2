package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"wa_botflow/internal/entities"
	"wa_botflow/internal/interfaces"
)

// AIResetter clears a tripped assist breaker.
type AIResetter interface {
	Reset(businessID string)
}

// DashboardUsecase is the administrator's editing surface over one business:
// menus, buttons, booking steps, bot config and conversations.
type DashboardUsecase struct {
	menus         interfaces.MenuStore
	steps         interfaces.BookingStepStore
	configs       interfaces.BotConfigAdmin
	conversations interfaces.ConversationLister
	ai            AIResetter
}

func NewDashboardUsecase(menus interfaces.MenuStore, steps interfaces.BookingStepStore, configs interfaces.BotConfigAdmin,
	conversations interfaces.ConversationLister, ai AIResetter) *DashboardUsecase {
	return &DashboardUsecase{
		menus:         menus,
		steps:         steps,
		configs:       configs,
		conversations: conversations,
		ai:            ai,
	}
}

// Menu management

func (u *DashboardUsecase) ListMenus(ctx context.Context, businessID string) ([]entities.Menu, error) {
	graph, err := u.menus.LoadGraph(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if graph.Menus == nil {
		return []entities.Menu{}, nil
	}
	return graph.Menus, nil
}

func (u *DashboardUsecase) GetMenu(ctx context.Context, businessID, menuID string) (entities.Menu, error) {
	return u.menus.GetMenu(ctx, businessID, menuID)
}

func (u *DashboardUsecase) CreateMenu(ctx context.Context, businessID string, m *entities.Menu) error {
	m.Name = strings.TrimSpace(m.Name)
	if err := entities.ValidateMenu(*m); err != nil {
		return err
	}
	return u.menus.CreateMenu(ctx, businessID, m)
}

func (u *DashboardUsecase) UpdateMenu(ctx context.Context, businessID string, m entities.Menu) error {
	m.Name = strings.TrimSpace(m.Name)
	if err := entities.ValidateMenu(m); err != nil {
		return err
	}
	return u.menus.UpdateMenu(ctx, businessID, m)
}

func (u *DashboardUsecase) DeleteMenu(ctx context.Context, businessID, menuID string) error {
	return u.menus.DeleteMenu(ctx, businessID, menuID)
}

func (u *DashboardUsecase) SetEntryMenu(ctx context.Context, businessID, menuID string) error {
	return u.menus.SetEntryMenu(ctx, businessID, menuID)
}

// ValidateGraph reports every inconsistency of the stored graph. An empty
// slice means the graph is clean.
func (u *DashboardUsecase) ValidateGraph(ctx context.Context, businessID string) ([]entities.GraphWarning, error) {
	graph, err := u.menus.LoadGraph(ctx, businessID)
	if err != nil {
		return nil, err
	}
	return graph.Validate(), nil
}

// Button management

// CreateButton appends b to its menu. A zero Order takes the first free
// position.
func (u *DashboardUsecase) CreateButton(ctx context.Context, businessID string, b *entities.Button) error {
	menu, err := u.menus.GetMenu(ctx, businessID, b.MenuID)
	if err != nil {
		return err
	}
	b.Label = strings.TrimSpace(b.Label)
	if b.Order == 0 {
		b.Order = freePosition(menu.Buttons)
	}
	if err := entities.ValidateMenuButtons(append(menu.Buttons, *b)); err != nil {
		return err
	}
	if err := u.checkTarget(ctx, businessID, *b); err != nil {
		return err
	}
	return u.menus.CreateButton(ctx, businessID, b)
}

// UpdateButton replaces a button in place. The owning menu cannot change.
func (u *DashboardUsecase) UpdateButton(ctx context.Context, businessID string, b entities.Button) error {
	existing, err := u.menus.GetButton(ctx, businessID, b.ID)
	if err != nil {
		return err
	}
	b.MenuID = existing.MenuID
	b.Label = strings.TrimSpace(b.Label)

	menu, err := u.menus.GetMenu(ctx, businessID, b.MenuID)
	if err != nil {
		return err
	}
	buttons := make([]entities.Button, 0, len(menu.Buttons))
	for _, other := range menu.Buttons {
		if other.ID == b.ID {
			other = b
		}
		buttons = append(buttons, other)
	}
	if err := entities.ValidateMenuButtons(buttons); err != nil {
		return err
	}
	if err := u.checkTarget(ctx, businessID, b); err != nil {
		return err
	}
	return u.menus.UpdateButton(ctx, businessID, b)
}

func (u *DashboardUsecase) DeleteButton(ctx context.Context, businessID, buttonID string) error {
	return u.menus.DeleteButton(ctx, businessID, buttonID)
}

// checkTarget refuses to create a dangling OPEN_MENU link. Links that dangle
// later, because their target was deleted, are reported by ValidateGraph.
func (u *DashboardUsecase) checkTarget(ctx context.Context, businessID string, b entities.Button) error {
	if b.ActionType != entities.ActionOpenMenu {
		return nil
	}
	if b.NextMenu() == b.MenuID {
		return fmt.Errorf("%w: a button cannot open its own menu", entities.ErrInvalidButton)
	}
	_, err := u.menus.GetMenu(ctx, businessID, b.NextMenu())
	if errors.Is(err, interfaces.ErrNotFound) {
		return fmt.Errorf("%w: next_menu_id %s does not exist", entities.ErrInvalidButton, b.NextMenu())
	}
	return err
}

func freePosition(buttons []entities.Button) int {
	used := map[int]bool{}
	for _, b := range buttons {
		used[b.Order] = true
	}
	for pos := 1; pos <= entities.MaxButtonsPerMenu; pos++ {
		if !used[pos] {
			return pos
		}
	}
	return entities.MaxButtonsPerMenu + 1
}

// Booking steps

func (u *DashboardUsecase) ListBookingSteps(ctx context.Context, businessID string) ([]entities.BookingStep, error) {
	return u.steps.ListBookingSteps(ctx, businessID)
}

// CreateBookingStep stores s. A zero Order appends it after the last step.
func (u *DashboardUsecase) CreateBookingStep(ctx context.Context, businessID string, s *entities.BookingStep) error {
	if s.Order == 0 {
		steps, err := u.steps.ListBookingSteps(ctx, businessID)
		if err != nil {
			return err
		}
		s.Order = 1
		for _, existing := range steps {
			s.Order = max(s.Order, existing.Order+1)
		}
	}
	if err := entities.ValidateBookingStep(*s); err != nil {
		return err
	}
	return u.steps.CreateBookingStep(ctx, businessID, s)
}

func (u *DashboardUsecase) UpdateBookingStep(ctx context.Context, businessID string, s entities.BookingStep) error {
	if _, err := u.steps.GetBookingStep(ctx, businessID, s.ID); err != nil {
		return err
	}
	if err := entities.ValidateBookingStep(s); err != nil {
		return err
	}
	return u.steps.UpdateBookingStep(ctx, businessID, s)
}

func (u *DashboardUsecase) DeleteBookingStep(ctx context.Context, businessID, stepID string) error {
	return u.steps.DeleteBookingStep(ctx, businessID, stepID)
}

// Bot config

func (u *DashboardUsecase) GetBotConfig(ctx context.Context, businessID string) (entities.BotConfig, error) {
	return u.configs.GetBotConfig(ctx, businessID)
}

// SaveBotConfig stores cfg. Saving with AI enabled also clears a tripped
// breaker, so fixing a bad key and saving is enough to bring AI back.
func (u *DashboardUsecase) SaveBotConfig(ctx context.Context, businessID string, cfg entities.BotConfig) error {
	if cfg.StaticReplies == nil {
		cfg.StaticReplies = []entities.StaticReply{}
	}
	if err := entities.ValidateBotConfig(cfg); err != nil {
		return err
	}
	if err := u.configs.SaveBotConfig(ctx, businessID, cfg); err != nil {
		return err
	}
	if cfg.AIEnabled {
		u.resetAI(businessID)
	}
	return nil
}

// EnableAI turns AI assistance back on after the breaker disabled it.
func (u *DashboardUsecase) EnableAI(ctx context.Context, businessID string) error {
	if err := u.configs.SetConfig(ctx, businessID, entities.ConfigAIEnabled, "true"); err != nil {
		return err
	}
	u.resetAI(businessID)
	return nil
}

func (u *DashboardUsecase) resetAI(businessID string) {
	if u.ai != nil {
		u.ai.Reset(businessID)
	}
}

// Conversations

func (u *DashboardUsecase) ListConversations(ctx context.Context, businessID string, state entities.State, limit int) ([]entities.Conversation, error) {
	return u.conversations.ListConversations(ctx, businessID, state, limit)
}
