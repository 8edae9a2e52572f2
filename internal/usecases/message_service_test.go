package usecases

import (
	"context"
	"errors"
	"strings"
	"testing"

	"wa_botflow/internal/entities"
	"wa_botflow/internal/infrastructure"
	"wa_botflow/internal/interfaces"
	mock_interfaces "wa_botflow/internal/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

type assistFunc func(kind entities.AssistKind, input string) entities.AssistOutcome

func (f assistFunc) Assist(_ context.Context, _ string, kind entities.AssistKind, input string, _ entities.FlowContext) entities.AssistOutcome {
	return f(kind, input)
}

type serviceMocks struct {
	graphs  *mock_interfaces.MockGraphReader
	steps   *mock_interfaces.MockBookingStepReader
	configs *mock_interfaces.MockBotConfigStore
	convs   *mock_interfaces.MockConversationStore
	usage   *mock_interfaces.MockUsageTracker
}

func newServiceMocks(t *testing.T) *serviceMocks {
	ctrl := gomock.NewController(t)
	return &serviceMocks{
		graphs:  mock_interfaces.NewMockGraphReader(ctrl),
		steps:   mock_interfaces.NewMockBookingStepReader(ctrl),
		configs: mock_interfaces.NewMockBotConfigStore(ctrl),
		convs:   mock_interfaces.NewMockConversationStore(ctrl),
		usage:   mock_interfaces.NewMockUsageTracker(ctrl),
	}
}

func (m *serviceMocks) service(a Assistant, limiter *infrastructure.MessageRateLimiter) *MessageService {
	return NewMessageService(MessageServiceDeps{
		Graphs:        m.graphs,
		Steps:         m.steps,
		Configs:       m.configs,
		Conversations: m.convs,
		Usage:         m.usage,
		Assistant:     a,
		Limiter:       limiter,
	})
}

func (m *serviceMocks) expectLoad(cfg entities.BotConfig) {
	m.configs.EXPECT().GetBotConfig(gomock.Any(), "tenant_1").Return(cfg, nil)
	m.graphs.EXPECT().LoadGraph(gomock.Any(), "tenant_1").Return(fixtureGraph(), nil)
	m.steps.EXPECT().ListBookingSteps(gomock.Any(), "tenant_1").Return(fixtureSteps(), nil)
}

func inbound(text, payload string) entities.InboundEvent {
	return entities.InboundEvent{BusinessID: "tenant_1", Platform: "whatsapp", Contact: "628111", MessageText: text, ButtonPayload: payload}
}

func TestMessageService_HandleInbound(t *testing.T) {
	ctx := context.Background()

	t.Run("first message creates the conversation", func(t *testing.T) {
		m := newServiceMocks(t)
		m.usage.EXPECT().CheckQuota(gomock.Any(), "tenant_1").Return(nil)
		m.expectLoad(fixtureConfig())
		m.convs.EXPECT().GetConversation(gomock.Any(), "tenant_1", "whatsapp", "628111").Return(nil, interfaces.ErrNotFound)
		m.convs.EXPECT().SaveConversation(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, c *entities.Conversation) error {
			if c.ID == "" || c.State != entities.StateAwaitingIntent {
				t.Fatalf("unexpected conversation %+v", c)
			}
			if c.Context["current_menu_id"] != "m-main" {
				t.Fatalf("unexpected context %v", c.Context)
			}
			if strings.Join(c.OfferedButtons, ",") != "b-book,b-services,b-faq" {
				t.Fatalf("unexpected offered buttons %v", c.OfferedButtons)
			}
			return nil
		})
		m.usage.EXPECT().RecordTurn(gomock.Any(), "tenant_1", true).Return(nil)

		res, err := m.service(nil, nil).HandleInbound(ctx, inbound("hello", ""))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.ReplyText != "Welcome to Bella Salon" || len(res.Buttons) != 3 {
			t.Fatalf("unexpected result %+v", res)
		}
	})

	t.Run("numeric reply picks offered button", func(t *testing.T) {
		m := newServiceMocks(t)
		m.usage.EXPECT().CheckQuota(gomock.Any(), "tenant_1").Return(nil)
		m.expectLoad(fixtureConfig())
		m.convs.EXPECT().GetConversation(gomock.Any(), "tenant_1", "whatsapp", "628111").Return(&entities.Conversation{
			ID: "c1", BusinessID: "tenant_1", Platform: "whatsapp", Contact: "628111",
			State:          entities.StateAwaitingIntent,
			Context:        map[string]any{"kind": "menu", "current_menu_id": "m-main"},
			OfferedButtons: []string{"b-book", "b-services", "b-faq"},
		}, nil)
		m.convs.EXPECT().SaveConversation(gomock.Any(), gomock.Any()).Return(nil)
		m.usage.EXPECT().RecordTurn(gomock.Any(), "tenant_1", true).Return(nil)

		res, err := m.service(nil, nil).HandleInbound(ctx, inbound(" 2 ", ""))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.ReplyText != "Our services" {
			t.Fatalf("expected services menu, got %q", res.ReplyText)
		}
	})

	t.Run("booking context survives the store round trip", func(t *testing.T) {
		m := newServiceMocks(t)
		m.usage.EXPECT().CheckQuota(gomock.Any(), "tenant_1").Return(nil)
		m.expectLoad(fixtureConfig())
		// numbers come back from JSONB as float64
		m.convs.EXPECT().GetConversation(gomock.Any(), "tenant_1", "whatsapp", "628111").Return(&entities.Conversation{
			ID: "c1", State: entities.StateBookingStep,
			Context: map[string]any{"kind": "booking", "intent": "booking", "step_index": float64(0), "attempts": float64(0),
				"answers": []any{}},
		}, nil)
		m.convs.EXPECT().SaveConversation(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, c *entities.Conversation) error {
			if c.State != entities.StateBookingStep || c.Context["step_index"] != 1 {
				t.Fatalf("expected step 1, got %s %v", c.State, c.Context)
			}
			if strings.Join(c.OfferedButtons, ",") != "opt:Morning,opt:Afternoon" {
				t.Fatalf("unexpected offered buttons %v", c.OfferedButtons)
			}
			return nil
		})
		m.usage.EXPECT().RecordTurn(gomock.Any(), "tenant_1", true).Return(nil)

		res, err := m.service(nil, nil).HandleInbound(ctx, inbound("Ana", ""))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.ReplyText != "Pick a time" {
			t.Fatalf("unexpected reply %q", res.ReplyText)
		}
	})

	t.Run("human review stays silent", func(t *testing.T) {
		m := newServiceMocks(t)
		m.usage.EXPECT().CheckQuota(gomock.Any(), "tenant_1").Return(nil)
		m.expectLoad(fixtureConfig())
		m.convs.EXPECT().GetConversation(gomock.Any(), "tenant_1", "whatsapp", "628111").Return(&entities.Conversation{
			ID: "c1", State: entities.StateHumanReview, Context: map[string]any{"kind": "intent", "intent": "human"},
		}, nil)
		m.usage.EXPECT().RecordTurn(gomock.Any(), "tenant_1", false).Return(nil)

		res, err := m.service(nil, nil).HandleInbound(ctx, inbound("hello?", ""))
		if err != nil || res != nil {
			t.Fatalf("expected silence, got %+v %v", res, err)
		}
	})

	t.Run("quota exceeded", func(t *testing.T) {
		m := newServiceMocks(t)
		m.usage.EXPECT().CheckQuota(gomock.Any(), "tenant_1").Return(interfaces.ErrQuotaExceeded)

		_, err := m.service(nil, nil).HandleInbound(ctx, inbound("hi", ""))
		if !errors.Is(err, interfaces.ErrQuotaExceeded) {
			t.Fatalf("expected ErrQuotaExceeded, got %v", err)
		}
	})

	t.Run("invalid event", func(t *testing.T) {
		m := newServiceMocks(t)
		_, err := m.service(nil, nil).HandleInbound(ctx, entities.InboundEvent{BusinessID: "tenant_1"})
		if !errors.Is(err, ErrInvalidInbound) {
			t.Fatalf("expected ErrInvalidInbound, got %v", err)
		}
	})

	t.Run("rate limited", func(t *testing.T) {
		m := newServiceMocks(t)
		limiter := infrastructure.NewMessageRateLimiter(0.0001, 1)
		defer limiter.Close()
		m.usage.EXPECT().CheckQuota(gomock.Any(), "tenant_1").Return(nil)
		m.expectLoad(fixtureConfig())
		m.convs.EXPECT().GetConversation(gomock.Any(), "tenant_1", "whatsapp", "628111").Return(nil, interfaces.ErrNotFound)
		m.convs.EXPECT().SaveConversation(gomock.Any(), gomock.Any()).Return(nil)
		m.usage.EXPECT().RecordTurn(gomock.Any(), "tenant_1", true).Return(nil)

		svc := m.service(nil, limiter)
		if _, err := svc.HandleInbound(ctx, inbound("hi", "")); err != nil {
			t.Fatalf("first message: %v", err)
		}
		if _, err := svc.HandleInbound(ctx, inbound("hi", "")); !errors.Is(err, ErrRateLimited) {
			t.Fatalf("expected ErrRateLimited, got %v", err)
		}
	})

	t.Run("store failure is returned", func(t *testing.T) {
		m := newServiceMocks(t)
		m.usage.EXPECT().CheckQuota(gomock.Any(), "tenant_1").Return(nil)
		m.configs.EXPECT().GetBotConfig(gomock.Any(), "tenant_1").Return(entities.BotConfig{}, errors.New("db down"))

		if _, err := m.service(nil, nil).HandleInbound(ctx, inbound("hi", "")); err == nil {
			t.Fatalf("expected error")
		}
	})
}

func TestMessageService_Assist(t *testing.T) {
	ctx := context.Background()
	cfg := fixtureConfig()
	cfg.AIEnabled = true
	cfg.AIFeatures = entities.AIFeatures{IntentDetection: true, DatetimeAssist: true, FaqAnswers: true}

	t.Run("faq answer replaces unknown help", func(t *testing.T) {
		m := newServiceMocks(t)
		m.usage.EXPECT().CheckQuota(gomock.Any(), "tenant_1").Return(nil)
		m.expectLoad(cfg)
		m.convs.EXPECT().GetConversation(gomock.Any(), "tenant_1", "whatsapp", "628111").Return(&entities.Conversation{
			ID: "c1", State: entities.StateFAQ, Context: map[string]any{"kind": "faq"}}, nil)
		m.convs.EXPECT().SaveConversation(gomock.Any(), gomock.Any()).Return(nil)
		m.usage.EXPECT().RecordTurn(gomock.Any(), "tenant_1", true).Return(nil)

		a := assistFunc(func(kind entities.AssistKind, input string) entities.AssistOutcome {
			if kind != entities.AssistFAQ || input != "is there parking" {
				t.Fatalf("unexpected assist %s %q", kind, input)
			}
			return entities.AssistOutcome{Answered: true, Response: "Yes, behind the shop."}
		})
		res, err := m.service(a, nil).HandleInbound(ctx, inbound("is there parking", ""))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.HasPrefix(res.ReplyText, "Yes, behind the shop.") || res.NewState != entities.StateFAQ {
			t.Fatalf("unexpected result %+v", res)
		}
	})

	t.Run("fallback keeps static reply", func(t *testing.T) {
		m := newServiceMocks(t)
		m.usage.EXPECT().CheckQuota(gomock.Any(), "tenant_1").Return(nil)
		m.expectLoad(cfg)
		m.convs.EXPECT().GetConversation(gomock.Any(), "tenant_1", "whatsapp", "628111").Return(&entities.Conversation{
			ID: "c1", State: entities.StateFAQ, Context: map[string]any{"kind": "faq"}}, nil)
		m.convs.EXPECT().SaveConversation(gomock.Any(), gomock.Any()).Return(nil)
		m.usage.EXPECT().RecordTurn(gomock.Any(), "tenant_1", true).Return(nil)

		a := assistFunc(func(entities.AssistKind, string) entities.AssistOutcome {
			return entities.AssistOutcome{Fallback: true, Reason: ReasonAuthError, DisableAI: true}
		})
		res, err := m.service(a, nil).HandleInbound(ctx, inbound("is there parking", ""))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.ReplyText != cfg.UnknownMessageHelp {
			t.Fatalf("expected static help, got %q", res.ReplyText)
		}
	})

	t.Run("intent reroutes to matching button", func(t *testing.T) {
		m := newServiceMocks(t)
		m.usage.EXPECT().CheckQuota(gomock.Any(), "tenant_1").Return(nil)
		m.expectLoad(cfg)
		m.convs.EXPECT().GetConversation(gomock.Any(), "tenant_1", "whatsapp", "628111").Return(&entities.Conversation{
			ID: "c1", State: entities.StateAwaitingIntent, Context: map[string]any{"kind": "menu", "current_menu_id": "m-main"}}, nil)
		m.convs.EXPECT().SaveConversation(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, c *entities.Conversation) error {
			if c.State != entities.StateBookingStep {
				t.Fatalf("expected BOOKING_STEP to be saved, got %s", c.State)
			}
			return nil
		})
		m.usage.EXPECT().RecordTurn(gomock.Any(), "tenant_1", true).Return(nil)

		a := assistFunc(func(entities.AssistKind, string) entities.AssistOutcome {
			return entities.AssistOutcome{Answered: true, Response: string(entities.ActionStartBooking)}
		})
		res, err := m.service(a, nil).HandleInbound(ctx, inbound("can I get a haircut tomorrow", ""))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.ReplyText != "What is your name?" || res.Rule != "intent_assist" {
			t.Fatalf("unexpected result %+v", res)
		}
	})
}

func TestMessageService_PreviewAndRelease(t *testing.T) {
	ctx := context.Background()

	t.Run("preview does not touch conversations", func(t *testing.T) {
		m := newServiceMocks(t)
		m.expectLoad(fixtureConfig())
		res, err := m.service(nil, nil).Preview(ctx, "tenant_1", "", nil, entities.TextEvent("hi"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.NewState != entities.StateAwaitingIntent {
			t.Fatalf("unexpected result %+v", res)
		}
	})

	t.Run("release resets state", func(t *testing.T) {
		m := newServiceMocks(t)
		m.convs.EXPECT().GetConversation(gomock.Any(), "tenant_1", "whatsapp", "628111").Return(&entities.Conversation{
			ID: "c1", State: entities.StateHumanReview, OfferedButtons: []string{"x"}}, nil)
		m.convs.EXPECT().SaveConversation(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, c *entities.Conversation) error {
			if c.State != entities.StateNew || len(c.OfferedButtons) != 0 {
				t.Fatalf("unexpected conversation %+v", c)
			}
			return nil
		})
		if err := m.service(nil, nil).Release(ctx, "tenant_1", "whatsapp", "628111"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("release unknown conversation", func(t *testing.T) {
		m := newServiceMocks(t)
		m.convs.EXPECT().GetConversation(gomock.Any(), "tenant_1", "whatsapp", "0").Return(nil, interfaces.ErrNotFound)
		if err := m.service(nil, nil).Release(ctx, "tenant_1", "whatsapp", "0"); !errors.Is(err, interfaces.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}
