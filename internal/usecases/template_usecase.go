package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"wa_botflow/internal/entities"
	"wa_botflow/internal/infrastructure"
	"wa_botflow/internal/interfaces"
)

// TemplateUsecase rebuilds a business's bot from a catalog template.
type TemplateUsecase struct {
	catalog interfaces.TemplateCatalog
	store   interfaces.TemplateStore
	locks   *infrastructure.KeyedLocker
	ai      AIResetter
	logger  *slog.Logger
	newID   func() string
}

// NewTemplateUsecase builds the usecase. ai may be nil; when set, applying a
// template that enables AI also closes a tripped breaker.
func NewTemplateUsecase(catalog interfaces.TemplateCatalog, store interfaces.TemplateStore, locks *infrastructure.KeyedLocker,
	ai AIResetter, logger *slog.Logger) *TemplateUsecase {
	if locks == nil {
		locks = infrastructure.NewKeyedLocker()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TemplateUsecase{
		catalog: catalog,
		store:   store,
		locks:   locks,
		ai:      ai,
		logger:  logger,
		newID:   func() string { return uuid.NewString() },
	}
}

func (u *TemplateUsecase) ListTemplates() []entities.TemplateSummary {
	return u.catalog.List()
}

// ApplyTemplate replaces the whole configuration, menu graph and booking
// steps of businessID with the template. Everything runs in one store
// transaction: on failure the previous graph is kept and the call can be
// retried. Applications to the same business are serialized.
func (u *TemplateUsecase) ApplyTemplate(ctx context.Context, businessID, templateID string) (entities.ApplyResult, error) {
	if strings.TrimSpace(businessID) == "" {
		return entities.ApplyResult{}, fmt.Errorf("apply template: business id is required")
	}
	tpl, err := u.catalog.Get(templateID)
	if err != nil {
		return entities.ApplyResult{}, err
	}
	if err := tpl.Validate(); err != nil {
		return entities.ApplyResult{}, err
	}

	unlock := u.locks.Lock("template:" + businessID)
	defer unlock()

	var result entities.ApplyResult
	err = u.store.ApplyTemplateTx(ctx, businessID, func(w interfaces.GraphWriter) error {
		var err error
		result, err = u.materialize(ctx, w, businessID, tpl)
		return err
	})
	if err != nil {
		u.logger.Error("template apply failed", "business", businessID, "template", templateID, "error", err)
		return entities.ApplyResult{}, fmt.Errorf("apply template %s: %w", templateID, err)
	}

	if u.ai != nil && tpl.BotConfig.BotConfig().AIEnabled {
		u.ai.Reset(businessID)
	}

	u.logger.Info("template applied",
		"business", businessID,
		"template", templateID,
		"menus", result.MenusCreated,
		"buttons", result.ButtonsCount,
		"steps", result.StepsCreated)
	return result, nil
}

// materialize builds the graph in two passes: every menu first so that its
// id is known, then the buttons whose links are resolved by menu name. This
// handles forward references, cycles and self links alike.
func (u *TemplateUsecase) materialize(ctx context.Context, w interfaces.GraphWriter, businessID string, tpl entities.Template) (entities.ApplyResult, error) {
	res := entities.ApplyResult{
		BusinessID: businessID,
		TemplateID: tpl.ID,
		MenuIDs:    make(map[string]string, len(tpl.Menus)),
	}

	if err := w.DeleteGraph(ctx); err != nil {
		return res, fmt.Errorf("delete graph: %w", err)
	}
	if err := w.UpsertBotConfig(ctx, tpl.BotConfig.BotConfig()); err != nil {
		return res, fmt.Errorf("write bot config: %w", err)
	}

	for _, tm := range tpl.Menus {
		id := u.newID()
		m := entities.Menu{ID: id, Name: tm.Name, MessageText: tm.MessageText, IsEntryPoint: tm.IsEntryPoint}
		if err := w.InsertMenu(ctx, m); err != nil {
			return res, fmt.Errorf("create menu %q: %w", tm.Name, err)
		}
		res.MenuIDs[tm.Name] = id
		if tm.IsEntryPoint {
			res.EntryMenuID = id
		}
		res.MenusCreated++
	}

	for _, tm := range tpl.Menus {
		menuID := res.MenuIDs[tm.Name]
		for i, tb := range tm.Buttons {
			b := entities.Button{
				ID:         u.newID(),
				MenuID:     menuID,
				Order:      i + 1,
				Label:      strings.TrimSpace(tb.Label),
				ActionType: tb.ActionType,
			}
			if tb.ActionType == entities.ActionOpenMenu {
				target, ok := res.MenuIDs[tb.LinksToMenu]
				if !ok {
					return res, fmt.Errorf("%w: button %q links to unknown menu %q", entities.ErrInvalidTemplate, tb.Label, tb.LinksToMenu)
				}
				b.NextMenuID = &target
			}
			if err := w.InsertButton(ctx, b); err != nil {
				return res, fmt.Errorf("create button %q: %w", tb.Label, err)
			}
			res.ButtonsCount++
		}
	}

	for i, ts := range tpl.BookingSteps {
		step := ts.BookingStep(i + 1)
		step.ID = u.newID()
		step.BusinessID = businessID
		if err := w.InsertBookingStep(ctx, step); err != nil {
			return res, fmt.Errorf("create booking step %d: %w", i+1, err)
		}
		res.StepsCreated++
	}
	return res, nil
}
