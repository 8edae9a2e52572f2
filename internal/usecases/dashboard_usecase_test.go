package usecases

import (
	"context"
	"errors"
	"testing"

	"wa_botflow/internal/entities"
	"wa_botflow/internal/interfaces"
	mock_interfaces "wa_botflow/internal/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

type resetRecorder struct{ reset []string }

func (r *resetRecorder) Reset(businessID string) { r.reset = append(r.reset, businessID) }

type dashboardMocks struct {
	menus   *mock_interfaces.MockMenuStore
	steps   *mock_interfaces.MockBookingStepStore
	configs *mock_interfaces.MockBotConfigAdmin
	convs   *mock_interfaces.MockConversationLister
	ai      *resetRecorder
}

func newDashboard(t *testing.T) (*DashboardUsecase, *dashboardMocks) {
	ctrl := gomock.NewController(t)
	m := &dashboardMocks{
		menus:   mock_interfaces.NewMockMenuStore(ctrl),
		steps:   mock_interfaces.NewMockBookingStepStore(ctrl),
		configs: mock_interfaces.NewMockBotConfigAdmin(ctrl),
		convs:   mock_interfaces.NewMockConversationLister(ctrl),
		ai:      &resetRecorder{},
	}
	return NewDashboardUsecase(m.menus, m.steps, m.configs, m.convs, m.ai), m
}

func menuWithButtons(n int) entities.Menu {
	m := entities.Menu{ID: "m-main", Name: "Main", MessageText: "Hi", IsEntryPoint: true}
	for i := 1; i <= n; i++ {
		m.Buttons = append(m.Buttons, entities.Button{
			ID: "b" + string(rune('0'+i)), MenuID: "m-main", Order: i, Label: "Option", ActionType: entities.ActionFAQ,
		})
	}
	return m
}

func TestDashboard_Menus(t *testing.T) {
	ctx := context.Background()

	t.Run("create rejects invalid menu without touching the store", func(t *testing.T) {
		d, _ := newDashboard(t)
		err := d.CreateMenu(ctx, "tenant_1", &entities.Menu{Name: "  ", MessageText: "x"})
		if !errors.Is(err, entities.ErrInvalidMenu) {
			t.Fatalf("expected ErrInvalidMenu, got %v", err)
		}
	})

	t.Run("create trims the name", func(t *testing.T) {
		d, m := newDashboard(t)
		m.menus.EXPECT().CreateMenu(gomock.Any(), "tenant_1", gomock.Any()).DoAndReturn(
			func(_ context.Context, _ string, menu *entities.Menu) error {
				if menu.Name != "Main" {
					t.Fatalf("name not trimmed: %q", menu.Name)
				}
				menu.ID = "new"
				return nil
			})
		menu := &entities.Menu{Name: " Main ", MessageText: "Hello"}
		if err := d.CreateMenu(ctx, "tenant_1", menu); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if menu.ID != "new" {
			t.Fatalf("id not propagated: %+v", menu)
		}
	})

	t.Run("validate graph reports broken link", func(t *testing.T) {
		d, m := newDashboard(t)
		main := menuWithButtons(1)
		main.Buttons[0].ActionType = entities.ActionOpenMenu
		gone := "m-gone"
		main.Buttons[0].NextMenuID = &gone
		m.menus.EXPECT().LoadGraph(gomock.Any(), "tenant_1").Return(entities.NewMenuGraph("tenant_1", []entities.Menu{main}), nil)

		warnings, err := d.ValidateGraph(ctx, "tenant_1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(warnings) != 1 || warnings[0].Code != entities.WarnBrokenLink {
			t.Fatalf("unexpected warnings %+v", warnings)
		}
	})

	t.Run("list of empty graph is not nil", func(t *testing.T) {
		d, m := newDashboard(t)
		m.menus.EXPECT().LoadGraph(gomock.Any(), "tenant_1").Return(entities.NewMenuGraph("tenant_1", nil), nil)
		menus, err := d.ListMenus(ctx, "tenant_1")
		if err != nil || menus == nil || len(menus) != 0 {
			t.Fatalf("got %v, %v", menus, err)
		}
	})
}

func TestDashboard_CreateButton(t *testing.T) {
	ctx := context.Background()
	target := "m-services"

	tests := []struct {
		name    string
		menu    entities.Menu
		button  entities.Button
		target  error // result of looking up the OPEN_MENU target
		wantErr error
		wantPos int
	}{
		{
			name:    "first free position is assigned",
			menu:    menuWithButtons(2),
			button:  entities.Button{MenuID: "m-main", Label: "Book", ActionType: entities.ActionStartBooking},
			wantPos: 3,
		},
		{
			name:    "fourth button is rejected",
			menu:    menuWithButtons(3),
			button:  entities.Button{MenuID: "m-main", Label: "More", ActionType: entities.ActionFAQ},
			wantErr: entities.ErrInvalidButton,
		},
		{
			name:    "duplicate order is rejected",
			menu:    menuWithButtons(1),
			button:  entities.Button{MenuID: "m-main", Order: 1, Label: "Again", ActionType: entities.ActionFAQ},
			wantErr: entities.ErrInvalidButton,
		},
		{
			name:    "label over twenty characters is rejected",
			menu:    menuWithButtons(0),
			button:  entities.Button{MenuID: "m-main", Label: "This label is far too long", ActionType: entities.ActionFAQ},
			wantErr: entities.ErrInvalidButton,
		},
		{
			name:    "open menu to a missing target is rejected",
			menu:    menuWithButtons(0),
			button:  entities.Button{MenuID: "m-main", Label: "Services", ActionType: entities.ActionOpenMenu, NextMenuID: &target},
			target:  interfaces.ErrMenuNotFound,
			wantErr: entities.ErrInvalidButton,
		},
		{
			name:    "open menu to an existing target is stored",
			menu:    menuWithButtons(0),
			button:  entities.Button{MenuID: "m-main", Label: "Services", ActionType: entities.ActionOpenMenu, NextMenuID: &target},
			wantPos: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, m := newDashboard(t)
			m.menus.EXPECT().GetMenu(gomock.Any(), "tenant_1", "m-main").Return(tt.menu, nil)
			if tt.button.ActionType == entities.ActionOpenMenu {
				m.menus.EXPECT().GetMenu(gomock.Any(), "tenant_1", target).Return(entities.Menu{ID: target}, tt.target)
			}
			if tt.wantErr == nil {
				m.menus.EXPECT().CreateButton(gomock.Any(), "tenant_1", gomock.Any()).Return(nil)
			}

			b := tt.button
			err := d.CreateButton(ctx, "tenant_1", &b)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if b.Order != tt.wantPos {
				t.Fatalf("expected position %d, got %d", tt.wantPos, b.Order)
			}
		})
	}
}

func TestDashboard_UpdateButton(t *testing.T) {
	ctx := context.Background()

	t.Run("moving onto a taken position is rejected", func(t *testing.T) {
		d, m := newDashboard(t)
		menu := menuWithButtons(2)
		m.menus.EXPECT().GetButton(gomock.Any(), "tenant_1", "b1").Return(menu.Buttons[0], nil)
		m.menus.EXPECT().GetMenu(gomock.Any(), "tenant_1", "m-main").Return(menu, nil)

		err := d.UpdateButton(ctx, "tenant_1", entities.Button{ID: "b1", Order: 2, Label: "X", ActionType: entities.ActionFAQ})
		if !errors.Is(err, entities.ErrInvalidButton) {
			t.Fatalf("expected ErrInvalidButton, got %v", err)
		}
	})

	t.Run("menu id comes from the stored button", func(t *testing.T) {
		d, m := newDashboard(t)
		menu := menuWithButtons(2)
		m.menus.EXPECT().GetButton(gomock.Any(), "tenant_1", "b2").Return(menu.Buttons[1], nil)
		m.menus.EXPECT().GetMenu(gomock.Any(), "tenant_1", "m-main").Return(menu, nil)
		m.menus.EXPECT().UpdateButton(gomock.Any(), "tenant_1", gomock.Any()).DoAndReturn(
			func(_ context.Context, _ string, b entities.Button) error {
				if b.MenuID != "m-main" || b.Label != "Human" {
					t.Fatalf("unexpected button %+v", b)
				}
				return nil
			})

		err := d.UpdateButton(ctx, "tenant_1", entities.Button{ID: "b2", MenuID: "other", Order: 3, Label: " Human ", ActionType: entities.ActionHuman})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("unknown button", func(t *testing.T) {
		d, m := newDashboard(t)
		m.menus.EXPECT().GetButton(gomock.Any(), "tenant_1", "nope").Return(entities.Button{}, interfaces.ErrNotFound)
		err := d.UpdateButton(ctx, "tenant_1", entities.Button{ID: "nope"})
		if !errors.Is(err, interfaces.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestDashboard_BookingSteps(t *testing.T) {
	ctx := context.Background()

	t.Run("zero order appends after the last step", func(t *testing.T) {
		d, m := newDashboard(t)
		m.steps.EXPECT().ListBookingSteps(gomock.Any(), "tenant_1").Return([]entities.BookingStep{{Order: 1}, {Order: 4}}, nil)
		m.steps.EXPECT().CreateBookingStep(gomock.Any(), "tenant_1", gomock.Any()).Return(nil)

		s := &entities.BookingStep{PromptText: "Your name?", InputType: entities.InputText, IsEnabled: true}
		if err := d.CreateBookingStep(ctx, "tenant_1", s); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s.Order != 5 {
			t.Fatalf("expected order 5, got %d", s.Order)
		}
	})

	t.Run("button step without values is rejected", func(t *testing.T) {
		d, _ := newDashboard(t)
		s := &entities.BookingStep{Order: 1, PromptText: "Pick", InputType: entities.InputButton}
		if err := d.CreateBookingStep(ctx, "tenant_1", s); !errors.Is(err, entities.ErrInvalidBookingStep) {
			t.Fatalf("expected ErrInvalidBookingStep, got %v", err)
		}
	})

	t.Run("update of a missing step", func(t *testing.T) {
		d, m := newDashboard(t)
		m.steps.EXPECT().GetBookingStep(gomock.Any(), "tenant_1", "s1").Return(entities.BookingStep{}, interfaces.ErrNotFound)
		err := d.UpdateBookingStep(ctx, "tenant_1", entities.BookingStep{ID: "s1"})
		if !errors.Is(err, interfaces.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestDashboard_BotConfig(t *testing.T) {
	ctx := context.Background()

	t.Run("static reply without keywords is rejected", func(t *testing.T) {
		d, _ := newDashboard(t)
		cfg := entities.DefaultBotConfig()
		cfg.StaticReplies = []entities.StaticReply{{Keywords: []string{" "}, Reply: "Open 9-5"}}
		if err := d.SaveBotConfig(ctx, "tenant_1", cfg); !errors.Is(err, entities.ErrInvalidBotConfig) {
			t.Fatalf("expected ErrInvalidBotConfig, got %v", err)
		}
	})

	t.Run("saving with AI enabled resets the breaker", func(t *testing.T) {
		d, m := newDashboard(t)
		cfg := entities.DefaultBotConfig()
		cfg.AIEnabled = true
		m.configs.EXPECT().SaveBotConfig(gomock.Any(), "tenant_1", cfg).Return(nil)
		if err := d.SaveBotConfig(ctx, "tenant_1", cfg); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(m.ai.reset) != 1 {
			t.Fatalf("breaker not reset: %v", m.ai.reset)
		}
	})

	t.Run("enable AI", func(t *testing.T) {
		d, m := newDashboard(t)
		m.configs.EXPECT().SetConfig(gomock.Any(), "tenant_1", entities.ConfigAIEnabled, "true").Return(nil)
		if err := d.EnableAI(ctx, "tenant_1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(m.ai.reset) != 1 || m.ai.reset[0] != "tenant_1" {
			t.Fatalf("breaker not reset: %v", m.ai.reset)
		}
	})

	t.Run("enable AI store failure keeps breaker", func(t *testing.T) {
		d, m := newDashboard(t)
		m.configs.EXPECT().SetConfig(gomock.Any(), "tenant_1", entities.ConfigAIEnabled, "true").Return(errors.New("db down"))
		if err := d.EnableAI(ctx, "tenant_1"); err == nil {
			t.Fatal("expected error")
		}
		if len(m.ai.reset) != 0 {
			t.Fatalf("breaker reset on failure: %v", m.ai.reset)
		}
	})
}
