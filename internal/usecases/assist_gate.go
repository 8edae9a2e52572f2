package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"wa_botflow/internal/entities"
	"wa_botflow/internal/interfaces"
)

// Fallback reasons reported by the assist gate.
const (
	ReasonAIDisabled      = "ai_disabled"
	ReasonFeatureDisabled = "feature_disabled"
	ReasonNoClient        = "no_client"
	ReasonEmptyResponse   = "empty_response"
	ReasonUnrecognized    = "unrecognized"
	ReasonUpstreamError   = "upstream_error"
	ReasonAuthError       = "auth_error"
	ReasonQuotaError      = "quota_error"
)

const intentNone = "NONE"

// AssistGate calls the AI backend on behalf of the router and trips a per
// business breaker when the provider rejects the key or the quota is gone.
type AssistGate struct {
	ai     interfaces.AIClient
	config interfaces.BotConfigStore
	logger *slog.Logger
	now    func() time.Time

	mu      sync.RWMutex
	tripped map[string]bool
}

func NewAssistGate(ai interfaces.AIClient, config interfaces.BotConfigStore, logger *slog.Logger) *AssistGate {
	if logger == nil {
		logger = slog.Default()
	}
	return &AssistGate{
		ai:      ai,
		config:  config,
		logger:  logger,
		now:     time.Now,
		tripped: make(map[string]bool),
	}
}

// Assist answers one request. It never returns an error: every failure is a
// fallback outcome and the router's static reply stands.
func (g *AssistGate) Assist(ctx context.Context, businessID string, kind entities.AssistKind, input string, fc entities.FlowContext) entities.AssistOutcome {
	if g.ai == nil {
		return fallback(ReasonNoClient)
	}
	if g.isTripped(businessID) {
		return fallback(ReasonAIDisabled)
	}
	cfg, err := g.config.GetBotConfig(ctx, businessID)
	if err != nil {
		g.logger.Warn("assist config lookup failed", "business", businessID, "error", err)
		return fallback(ReasonUpstreamError)
	}
	if !cfg.AIEnabled {
		return fallback(ReasonAIDisabled)
	}
	if !cfg.AIFeatureEnabled(kind) {
		return fallback(ReasonFeatureDisabled)
	}

	prompt := g.prompt(kind, input, cfg, fc)
	resp, err := g.ai.GenerateResponse(ctx, prompt)
	if err != nil {
		return g.handleError(ctx, businessID, kind, err)
	}
	resp = strings.TrimSpace(resp)
	if resp == "" {
		return fallback(ReasonEmptyResponse)
	}

	switch kind {
	case entities.AssistIntent:
		label := strings.ToUpper(strings.Trim(resp, " .\"'`\n"))
		if label == intentNone || !entities.ActionType(label).Valid() || entities.ActionType(label) == entities.ActionOpenMenu {
			return fallback(ReasonUnrecognized)
		}
		resp = label
	case entities.AssistDatetime:
		d := strings.Trim(resp, " .\"'`\n")
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return fallback(ReasonUnrecognized)
		}
		resp = d
	}
	return entities.AssistOutcome{Answered: true, Response: resp}
}

func (g *AssistGate) handleError(ctx context.Context, businessID string, kind entities.AssistKind, err error) entities.AssistOutcome {
	reason := ""
	switch {
	case errors.Is(err, interfaces.ErrAIAuth):
		reason = ReasonAuthError
	case errors.Is(err, interfaces.ErrAIQuota):
		reason = ReasonQuotaError
	default:
		g.logger.Warn("assist call failed", "business", businessID, "kind", kind, "error", err)
		return fallback(ReasonUpstreamError)
	}

	g.trip(businessID)
	if serr := g.config.SetConfig(ctx, businessID, entities.ConfigAIEnabled, "false"); serr != nil {
		g.logger.Error("failed to persist ai disable", "business", businessID, "error", serr)
	}
	g.logger.Warn("ai disabled for business", "business", businessID, "reason", reason, "error", err)
	return entities.AssistOutcome{Fallback: true, Reason: reason, DisableAI: true}
}

// Reset closes the breaker after an operator re-enabled AI.
func (g *AssistGate) Reset(businessID string) {
	g.mu.Lock()
	delete(g.tripped, businessID)
	g.mu.Unlock()
}

func (g *AssistGate) trip(businessID string) {
	g.mu.Lock()
	g.tripped[businessID] = true
	g.mu.Unlock()
}

func (g *AssistGate) isTripped(businessID string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.tripped[businessID]
}

func (g *AssistGate) prompt(kind entities.AssistKind, input string, cfg entities.BotConfig, fc entities.FlowContext) string {
	var sb strings.Builder
	switch kind {
	case entities.AssistFAQ:
		sb.WriteString("You answer customer questions for a small business on WhatsApp. ")
		sb.WriteString("Reply in the customer's language, at most three short sentences. ")
		sb.WriteString("If the facts below do not answer the question, say that a team member will follow up.\n")
		if len(cfg.StaticReplies) > 0 {
			sb.WriteString("\nFacts:\n")
			for _, sr := range cfg.StaticReplies {
				fmt.Fprintf(&sb, "- %s\n", sr.Reply)
			}
		}
		fmt.Fprintf(&sb, "\nQuestion: %s", input)

	case entities.AssistIntent:
		sb.WriteString("Classify the customer message into exactly one label: ")
		sb.WriteString("START_BOOKING, START_ORDER, FAQ, HUMAN, CANCEL_APPOINTMENT, CANCEL_ORDER, NONE. ")
		sb.WriteString("Reply with the label only.\n")
		if mc, ok := fc.(entities.MenuContext); ok && mc.CurrentMenuID != "" {
			sb.WriteString("The customer is looking at a menu of options.\n")
		}
		fmt.Fprintf(&sb, "Message: %s", input)

	case entities.AssistDatetime:
		fmt.Fprintf(&sb, "Today is %s. ", g.now().Format("Monday 2006-01-02"))
		sb.WriteString("Convert the customer's date expression to YYYY-MM-DD. ")
		sb.WriteString("Reply with the date only, or NONE if it is not a date.\n")
		fmt.Fprintf(&sb, "Expression: %s", input)
	}
	return sb.String()
}

func fallback(reason string) entities.AssistOutcome {
	return entities.AssistOutcome{Fallback: true, Reason: reason}
}
