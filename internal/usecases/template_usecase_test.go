package usecases

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"wa_botflow/internal/entities"
	"wa_botflow/internal/interfaces"
	mock_interfaces "wa_botflow/internal/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

// cyclicTemplate references a menu before it is declared, links two menus to
// each other and has a self loop.
func cyclicTemplate() entities.Template {
	return entities.Template{
		ID:   "cyclic",
		Name: "Cyclic",
		BotConfig: entities.TemplateBotConfig{
			GreetingMessage:    "Hello!",
			AppointmentEnabled: true,
			StaticReplies:      []entities.StaticReply{{Keywords: []string{"open"}, Reply: "9-5"}},
		},
		Menus: []entities.TemplateMenu{
			{Name: "main", MessageText: "Main", IsEntryPoint: true, Buttons: []entities.TemplateButton{
				{Label: "More", ActionType: entities.ActionOpenMenu, LinksToMenu: "more"},
				{Label: "Book", ActionType: entities.ActionStartBooking},
			}},
			{Name: "more", MessageText: "More", Buttons: []entities.TemplateButton{
				{Label: "Back", ActionType: entities.ActionOpenMenu, LinksToMenu: "main"},
				{Label: "Again", ActionType: entities.ActionOpenMenu, LinksToMenu: "more"},
				{Label: "Human", ActionType: entities.ActionHuman},
			}},
		},
		BookingSteps: []entities.TemplateStep{
			{PromptText: "Service?", InputType: entities.InputButton, ExpectedValues: []string{"A", "B"}, IsRequired: true},
			{PromptText: "Name?", InputType: entities.InputText},
		},
	}
}

// recordingWriter collects what the materializer writes so the resulting
// graph can be checked as a whole.
type recordingWriter struct {
	calls   []string
	cfg     entities.BotConfig
	menus   []entities.Menu
	buttons []entities.Button
	steps   []entities.BookingStep
	failOn  string
}

func (w *recordingWriter) record(call string) error {
	w.calls = append(w.calls, call)
	if call == w.failOn {
		return errors.New("db down")
	}
	return nil
}

func (w *recordingWriter) DeleteGraph(context.Context) error { return w.record("delete") }

func (w *recordingWriter) UpsertBotConfig(_ context.Context, cfg entities.BotConfig) error {
	w.cfg = cfg
	return w.record("config")
}

func (w *recordingWriter) InsertMenu(_ context.Context, m entities.Menu) error {
	w.menus = append(w.menus, m)
	return w.record("menu")
}

func (w *recordingWriter) InsertButton(_ context.Context, b entities.Button) error {
	w.buttons = append(w.buttons, b)
	return w.record("button")
}

func (w *recordingWriter) InsertBookingStep(_ context.Context, s entities.BookingStep) error {
	w.steps = append(w.steps, s)
	return w.record("step")
}

func (w *recordingWriter) graph() *entities.MenuGraph {
	menus := make([]entities.Menu, len(w.menus))
	copy(menus, w.menus)
	for i := range menus {
		for _, b := range w.buttons {
			if b.MenuID == menus[i].ID {
				menus[i].Buttons = append(menus[i].Buttons, b)
			}
		}
	}
	return entities.NewMenuGraph("tenant_1", menus)
}

func newTestTemplateUsecase(t *testing.T, tpl entities.Template, w *recordingWriter) *TemplateUsecase {
	ctrl := gomock.NewController(t)
	catalog := mock_interfaces.NewMockTemplateCatalog(ctrl)
	store := mock_interfaces.NewMockTemplateStore(ctrl)
	catalog.EXPECT().Get(tpl.ID).Return(tpl, nil)
	store.EXPECT().ApplyTemplateTx(gomock.Any(), "tenant_1", gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, fn func(interfaces.GraphWriter) error) error {
			return fn(w)
		})
	uc := NewTemplateUsecase(catalog, store, nil, nil, nil)
	n := 0
	uc.newID = func() string {
		n++
		return fmt.Sprintf("id-%02d", n)
	}
	return uc
}

func TestTemplateUsecase_ApplyTemplate(t *testing.T) {
	ctx := context.Background()

	t.Run("two pass build resolves forward and cyclic links", func(t *testing.T) {
		w := &recordingWriter{}
		uc := newTestTemplateUsecase(t, cyclicTemplate(), w)

		res, err := uc.ApplyTemplate(ctx, "tenant_1", "cyclic")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := []string{"delete", "config", "menu", "menu", "button", "button", "button", "button", "button", "step", "step"}
		if fmt.Sprint(w.calls) != fmt.Sprint(want) {
			t.Fatalf("unexpected write order %v", w.calls)
		}
		if res.MenusCreated != 2 || res.ButtonsCount != 5 || res.StepsCreated != 2 {
			t.Fatalf("unexpected counts %+v", res)
		}
		if res.EntryMenuID != res.MenuIDs["main"] {
			t.Fatalf("entry menu id mismatch %+v", res)
		}

		g := w.graph()
		if warnings := g.Validate(); len(warnings) != 0 {
			t.Fatalf("graph should be clean, got %+v", warnings)
		}
		if broken := g.BrokenLinks(); len(broken) != 0 {
			t.Fatalf("dangling links after apply: %+v", broken)
		}
		for _, b := range w.buttons {
			if b.ActionType != entities.ActionOpenMenu {
				if b.NextMenuID != nil {
					t.Fatalf("non OPEN_MENU button with target: %+v", b)
				}
				continue
			}
			created := false
			for _, id := range res.MenuIDs {
				if id == b.NextMenu() {
					created = true
				}
			}
			if !created {
				t.Fatalf("button %s targets a menu outside this application", b.Label)
			}
		}

		if w.cfg.GreetingMessage != "Hello!" || len(w.cfg.StaticReplies) != 1 || !w.cfg.AppointmentEnabled {
			t.Fatalf("config not carried over: %+v", w.cfg)
		}
		if w.steps[0].Order != 1 || w.steps[1].Order != 2 || w.steps[0].BusinessID != "tenant_1" || !w.steps[0].IsEnabled {
			t.Fatalf("unexpected steps %+v", w.steps)
		}
		if fmt.Sprint(w.steps[0].ExpectedValues) != "[A B]" {
			t.Fatalf("expected values not carried over: %v", w.steps[0].ExpectedValues)
		}
	})

	t.Run("every menu has unique button order and exactly one entry", func(t *testing.T) {
		w := &recordingWriter{}
		uc := newTestTemplateUsecase(t, cyclicTemplate(), w)
		if _, err := uc.ApplyTemplate(ctx, "tenant_1", "cyclic"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		entries := 0
		for _, m := range w.graph().Menus {
			if m.IsEntryPoint {
				entries++
			}
			if err := entities.ValidateMenuButtons(m.Buttons); err != nil {
				t.Fatalf("menu %s: %v", m.Name, err)
			}
		}
		if entries != 1 {
			t.Fatalf("expected one entry menu, got %d", entries)
		}
	})

	t.Run("writer failure aborts and is reported", func(t *testing.T) {
		w := &recordingWriter{failOn: "button"}
		uc := newTestTemplateUsecase(t, cyclicTemplate(), w)
		_, err := uc.ApplyTemplate(ctx, "tenant_1", "cyclic")
		if err == nil {
			t.Fatalf("expected error")
		}
		if w.calls[len(w.calls)-1] != "button" || len(w.steps) != 0 {
			t.Fatalf("materializer continued after failure: %v", w.calls)
		}
	})
}

func TestTemplateUsecase_ApplyTemplateResetsAI(t *testing.T) {
	ctx := context.Background()

	t.Run("ai enabled template closes the breaker", func(t *testing.T) {
		tpl := cyclicTemplate()
		tpl.BotConfig.AIEnabled = true
		uc := newTestTemplateUsecase(t, tpl, &recordingWriter{})
		ai := &resetRecorder{}
		uc.ai = ai

		if _, err := uc.ApplyTemplate(ctx, "tenant_1", "cyclic"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(ai.reset) != 1 || ai.reset[0] != "tenant_1" {
			t.Fatalf("expected reset of tenant_1, got %v", ai.reset)
		}
	})

	t.Run("ai disabled template leaves the breaker alone", func(t *testing.T) {
		uc := newTestTemplateUsecase(t, cyclicTemplate(), &recordingWriter{})
		ai := &resetRecorder{}
		uc.ai = ai

		if _, err := uc.ApplyTemplate(ctx, "tenant_1", "cyclic"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(ai.reset) != 0 {
			t.Fatalf("unexpected reset %v", ai.reset)
		}
	})

	t.Run("failed apply does not reset", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		catalog := mock_interfaces.NewMockTemplateCatalog(ctrl)
		store := mock_interfaces.NewMockTemplateStore(ctrl)
		tpl := cyclicTemplate()
		tpl.BotConfig.AIEnabled = true
		catalog.EXPECT().Get("cyclic").Return(tpl, nil)
		store.EXPECT().ApplyTemplateTx(gomock.Any(), "tenant_1", gomock.Any()).Return(errors.New("tx failed"))
		ai := &resetRecorder{}

		if _, err := NewTemplateUsecase(catalog, store, nil, ai, nil).ApplyTemplate(ctx, "tenant_1", "cyclic"); err == nil {
			t.Fatalf("expected error")
		}
		if len(ai.reset) != 0 {
			t.Fatalf("unexpected reset %v", ai.reset)
		}
	})
}

func TestTemplateUsecase_ApplyTemplateErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown template", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		catalog := mock_interfaces.NewMockTemplateCatalog(ctrl)
		store := mock_interfaces.NewMockTemplateStore(ctrl)
		catalog.EXPECT().Get("nope").Return(entities.Template{}, entities.ErrTemplateNotFound)

		_, err := NewTemplateUsecase(catalog, store, nil, nil, nil).ApplyTemplate(ctx, "tenant_1", "nope")
		if !errors.Is(err, entities.ErrTemplateNotFound) {
			t.Fatalf("expected ErrTemplateNotFound, got %v", err)
		}
	})

	t.Run("invalid template never reaches the store", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		catalog := mock_interfaces.NewMockTemplateCatalog(ctrl)
		store := mock_interfaces.NewMockTemplateStore(ctrl)
		tpl := cyclicTemplate()
		tpl.Menus[1].IsEntryPoint = true
		catalog.EXPECT().Get("cyclic").Return(tpl, nil)

		_, err := NewTemplateUsecase(catalog, store, nil, nil, nil).ApplyTemplate(ctx, "tenant_1", "cyclic")
		if !errors.Is(err, entities.ErrInvalidTemplate) {
			t.Fatalf("expected ErrInvalidTemplate, got %v", err)
		}
	})

	t.Run("store error is wrapped", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		catalog := mock_interfaces.NewMockTemplateCatalog(ctrl)
		store := mock_interfaces.NewMockTemplateStore(ctrl)
		boom := errors.New("tx failed")
		catalog.EXPECT().Get("cyclic").Return(cyclicTemplate(), nil)
		store.EXPECT().ApplyTemplateTx(gomock.Any(), "tenant_1", gomock.Any()).Return(boom)

		_, err := NewTemplateUsecase(catalog, store, nil, nil, nil).ApplyTemplate(ctx, "tenant_1", "cyclic")
		if !errors.Is(err, boom) {
			t.Fatalf("expected wrapped store error, got %v", err)
		}
	})

	t.Run("gomock writer sees delete before config before menus", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		catalog := mock_interfaces.NewMockTemplateCatalog(ctrl)
		store := mock_interfaces.NewMockTemplateStore(ctrl)
		w := mock_interfaces.NewMockGraphWriter(ctrl)
		tpl := entities.Template{ID: "one", Name: "One", Menus: []entities.TemplateMenu{
			{Name: "only", MessageText: "Only", IsEntryPoint: true, Buttons: []entities.TemplateButton{
				{Label: "Self", ActionType: entities.ActionOpenMenu, LinksToMenu: "only"},
			}},
		}}
		catalog.EXPECT().Get("one").Return(tpl, nil)
		store.EXPECT().ApplyTemplateTx(gomock.Any(), "tenant_1", gomock.Any()).DoAndReturn(
			func(_ context.Context, _ string, fn func(interfaces.GraphWriter) error) error { return fn(w) })

		var menuID string
		gomock.InOrder(
			w.EXPECT().DeleteGraph(gomock.Any()).Return(nil),
			w.EXPECT().UpsertBotConfig(gomock.Any(), gomock.Any()).Return(nil),
			w.EXPECT().InsertMenu(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, m entities.Menu) error {
				menuID = m.ID
				return nil
			}),
			w.EXPECT().InsertButton(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, b entities.Button) error {
				if b.MenuID != menuID || b.NextMenu() != menuID || b.Order != 1 {
					t.Fatalf("self link not resolved: %+v", b)
				}
				return nil
			}),
		)

		if _, err := NewTemplateUsecase(catalog, store, nil, nil, nil).ApplyTemplate(ctx, "tenant_1", "one"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}
