package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"wa_botflow/internal/entities"
	"wa_botflow/internal/infrastructure"
	"wa_botflow/internal/interfaces"
)

var (
	ErrInvalidInbound = errors.New("inbound event needs business and contact")
	ErrRateLimited    = errors.New("too many messages, slow down")
)

// Assistant is the AI fallback consulted when the router asks for help.
type Assistant interface {
	Assist(ctx context.Context, businessID string, kind entities.AssistKind, input string, fc entities.FlowContext) entities.AssistOutcome
}

var _ Assistant = (*AssistGate)(nil)

// MessageService runs one conversation turn: it loads the business's graph,
// config and the customer's state, routes the event and persists the result.
// Turns of the same conversation never overlap.
type MessageService struct {
	graphs        interfaces.GraphReader
	steps         interfaces.BookingStepReader
	configs       interfaces.BotConfigStore
	conversations interfaces.ConversationStore
	usage         interfaces.UsageTracker
	assistant     Assistant
	locks         *infrastructure.KeyedLocker
	limiter       *infrastructure.MessageRateLimiter
	logger        *slog.Logger
	now           func() time.Time
}

type MessageServiceDeps struct {
	Graphs        interfaces.GraphReader
	Steps         interfaces.BookingStepReader
	Configs       interfaces.BotConfigStore
	Conversations interfaces.ConversationStore
	Usage         interfaces.UsageTracker
	Assistant     Assistant
	Locks         *infrastructure.KeyedLocker
	Limiter       *infrastructure.MessageRateLimiter
	Logger        *slog.Logger
}

func NewMessageService(d MessageServiceDeps) *MessageService {
	if d.Locks == nil {
		d.Locks = infrastructure.NewKeyedLocker()
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	return &MessageService{
		graphs:        d.Graphs,
		steps:         d.Steps,
		configs:       d.Configs,
		conversations: d.Conversations,
		usage:         d.Usage,
		assistant:     d.Assistant,
		locks:         d.Locks,
		limiter:       d.Limiter,
		logger:        d.Logger,
		now:           time.Now,
	}
}

func conversationKey(businessID, platform, contact string) string {
	return businessID + "/" + platform + "/" + contact
}

// HandleInbound processes one customer message or button tap. A nil result
// with a nil error means the conversation is with a human operator and the
// bot stays silent.
func (s *MessageService) HandleInbound(ctx context.Context, ev entities.InboundEvent) (*entities.RouterResult, error) {
	ev.BusinessID = strings.TrimSpace(ev.BusinessID)
	ev.Contact = strings.TrimSpace(ev.Contact)
	if ev.BusinessID == "" || ev.Contact == "" {
		return nil, ErrInvalidInbound
	}
	key := conversationKey(ev.BusinessID, ev.Platform, ev.Contact)
	if s.limiter != nil && !s.limiter.Allow(key) {
		s.logger.Warn("inbound rate limited", "business", ev.BusinessID, "platform", ev.Platform, "contact", ev.Contact)
		return nil, ErrRateLimited
	}

	unlock := s.locks.Lock(key)
	defer unlock()

	if s.usage != nil {
		if err := s.usage.CheckQuota(ctx, ev.BusinessID); err != nil {
			return nil, err
		}
	}

	in, conv, err := s.load(ctx, ev)
	if err != nil {
		return nil, err
	}

	if conv.State == entities.StateHumanReview {
		s.logger.Debug("conversation with operator, no auto reply", "business", ev.BusinessID, "contact", ev.Contact)
		s.recordTurn(ctx, ev.BusinessID, false)
		return nil, nil
	}

	in.Event = offeredButtonEvent(ev.Event(), conv.OfferedButtons)
	res := Route(in)
	if res.Assist != nil && s.assistant != nil {
		res = s.resolveAssist(ctx, ev.BusinessID, in, res)
	}

	conv.State = res.NewState
	conv.Context = entities.EncodeContext(res.NewContext)
	conv.OfferedButtons = conv.OfferedButtons[:0]
	for _, b := range res.Buttons {
		conv.OfferedButtons = append(conv.OfferedButtons, b.ID)
	}
	conv.UpdatedAt = s.now()
	if err := s.conversations.SaveConversation(ctx, conv); err != nil {
		return nil, fmt.Errorf("save conversation: %w", err)
	}
	s.recordTurn(ctx, ev.BusinessID, true)

	s.logger.Info("turn routed",
		"business", ev.BusinessID,
		"platform", ev.Platform,
		"contact", ev.Contact,
		"rule", res.Rule,
		"state", res.NewState)
	return &res, nil
}

// Preview routes an event against the stored graph without reading or
// writing any conversation and without calling the AI backend.
func (s *MessageService) Preview(ctx context.Context, businessID string, state entities.State, raw map[string]any, ev entities.Event) (entities.RouterResult, error) {
	if state == "" {
		state = entities.StateNew
	}
	in, err := s.routeInput(ctx, businessID)
	if err != nil {
		return entities.RouterResult{}, err
	}
	in.State = state
	in.Context = entities.DecodeContext(state, raw)
	in.Event = ev
	return Route(in), nil
}

// Release hands a conversation back to the bot after an operator is done.
// The next customer message starts from the entry menu.
func (s *MessageService) Release(ctx context.Context, businessID, platform, contact string) error {
	key := conversationKey(businessID, platform, contact)
	unlock := s.locks.Lock(key)
	defer unlock()

	conv, err := s.conversations.GetConversation(ctx, businessID, platform, contact)
	if err != nil {
		return err
	}
	conv.State = entities.StateNew
	conv.Context = entities.EncodeContext(entities.EmptyContext{})
	conv.OfferedButtons = nil
	conv.UpdatedAt = s.now()
	if err := s.conversations.SaveConversation(ctx, conv); err != nil {
		return fmt.Errorf("release conversation: %w", err)
	}
	s.logger.Info("conversation released", "business", businessID, "platform", platform, "contact", contact)
	return nil
}

func (s *MessageService) load(ctx context.Context, ev entities.InboundEvent) (RouteInput, *entities.Conversation, error) {
	in, err := s.routeInput(ctx, ev.BusinessID)
	if err != nil {
		return RouteInput{}, nil, err
	}
	conv, err := s.conversations.GetConversation(ctx, ev.BusinessID, ev.Platform, ev.Contact)
	if errors.Is(err, interfaces.ErrNotFound) {
		conv = &entities.Conversation{
			ID:         uuid.NewString(),
			BusinessID: ev.BusinessID,
			Platform:   ev.Platform,
			Contact:    ev.Contact,
			State:      entities.StateNew,
			Context:    map[string]any{},
		}
	} else if err != nil {
		return RouteInput{}, nil, fmt.Errorf("load conversation: %w", err)
	}
	in.State = conv.State
	in.Context = entities.DecodeContext(conv.State, conv.Context)
	return in, conv, nil
}

func (s *MessageService) routeInput(ctx context.Context, businessID string) (RouteInput, error) {
	cfg, err := s.configs.GetBotConfig(ctx, businessID)
	if err != nil {
		return RouteInput{}, fmt.Errorf("load bot config: %w", err)
	}
	graph, err := s.graphs.LoadGraph(ctx, businessID)
	if err != nil {
		return RouteInput{}, fmt.Errorf("load menu graph: %w", err)
	}
	steps, err := s.steps.ListBookingSteps(ctx, businessID)
	if err != nil {
		return RouteInput{}, fmt.Errorf("load booking steps: %w", err)
	}
	return RouteInput{Config: cfg, Graph: graph, BookingSteps: steps}, nil
}

// resolveAssist consults the AI for the router's request. Only an answered
// outcome changes the reply; every fallback keeps the static one.
func (s *MessageService) resolveAssist(ctx context.Context, businessID string, in RouteInput, res entities.RouterResult) entities.RouterResult {
	req := *res.Assist
	out := s.assistant.Assist(ctx, businessID, req.Kind, req.Input, in.Context)
	if !out.Answered {
		if out.DisableAI {
			s.logger.Warn("ai assist disabled", "business", businessID, "reason", out.Reason)
		}
		return res
	}

	switch req.Kind {
	case entities.AssistFAQ:
		res.ReplyText = out.Response + "\n\n" + msgFaqContinuation
		res.Rule = "faq_assist"
		return res

	case entities.AssistIntent:
		payload, ok := payloadForAction(in, entities.ActionType(out.Response))
		if !ok {
			return res
		}
		in.Event = entities.ButtonEvent(payload)
		rerouted := Route(in)
		rerouted.Rule = "intent_assist"
		return rerouted

	case entities.AssistDatetime:
		in.Event = entities.TextEvent(out.Response)
		rerouted := Route(in)
		rerouted.Rule = "datetime_assist"
		return rerouted
	}
	return res
}

// payloadForAction finds a button that performs action, preferring the menu
// the customer is looking at, then the entry menu, then any menu, then the
// built-in defaults.
func payloadForAction(in RouteInput, action entities.ActionType) (string, bool) {
	var menus []entities.Menu
	if m, ok := in.Graph.Menu(entities.CurrentMenu(in.Context)); ok {
		menus = append(menus, m)
	}
	if m, ok := in.Graph.EntryMenu(); ok {
		menus = append(menus, m)
	}
	if in.Graph != nil {
		menus = append(menus, in.Graph.Menus...)
	}
	for _, m := range menus {
		for _, b := range m.Buttons {
			if b.ActionType == action {
				return b.ID, true
			}
		}
	}
	return DefaultPayloadFor(action)
}

// offeredButtonEvent maps a numeric reply ("1".."3") to the button offered
// at that position, for transports that can only send text.
func offeredButtonEvent(ev entities.Event, offered []string) entities.Event {
	if ev.IsButton() || len(offered) == 0 {
		return ev
	}
	n, err := strconv.Atoi(strings.TrimSpace(ev.Value))
	if err != nil || n < 1 || n > len(offered) {
		return ev
	}
	return entities.ButtonEvent(offered[n-1])
}

func (s *MessageService) recordTurn(ctx context.Context, businessID string, replied bool) {
	if s.usage == nil {
		return
	}
	if err := s.usage.RecordTurn(ctx, businessID, replied); err != nil {
		s.logger.Warn("usage not recorded", "business", businessID, "error", err)
	}
}
