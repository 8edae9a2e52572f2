package entities

import (
	"encoding/json"
	"math"
	"strconv"
)

// FlowContext is the typed conversation context. The store keeps it as an
// untyped JSON object; DecodeContext and EncodeContext translate at that
// boundary only.
type FlowContext interface {
	ContextKind() string
}

const (
	contextKindEmpty   = "empty"
	contextKindMenu    = "menu"
	contextKindBooking = "booking"
	contextKindFAQ     = "faq"
	contextKindIntent  = "intent"
)

type EmptyContext struct{}

type MenuContext struct {
	CurrentMenuID string
}

type BookingAnswer struct {
	StepID string `json:"step_id"`
	Prompt string `json:"prompt"`
	Value  string `json:"value"`
}

type BookingContext struct {
	Intent    string
	StepIndex int
	Attempts  int
	Answers   []BookingAnswer
}

type FaqContext struct{}

// IntentContext records which flow a hand-off state belongs to (order,
// human review, cancellation lookups, booking without steps).
type IntentContext struct {
	Intent string
}

func (EmptyContext) ContextKind() string   { return contextKindEmpty }
func (MenuContext) ContextKind() string    { return contextKindMenu }
func (BookingContext) ContextKind() string { return contextKindBooking }
func (FaqContext) ContextKind() string     { return contextKindFAQ }
func (IntentContext) ContextKind() string  { return contextKindIntent }

// CurrentMenu returns the menu id the customer is looking at, if any.
func CurrentMenu(c FlowContext) string {
	if m, ok := c.(MenuContext); ok {
		return m.CurrentMenuID
	}
	return ""
}

func EncodeContext(c FlowContext) map[string]any {
	out := map[string]any{}
	if c == nil {
		out["kind"] = contextKindEmpty
		return out
	}
	out["kind"] = c.ContextKind()
	switch v := c.(type) {
	case MenuContext:
		out["current_menu_id"] = v.CurrentMenuID
	case BookingContext:
		out["intent"] = v.Intent
		out["step_index"] = v.StepIndex
		out["attempts"] = v.Attempts
		answers := make([]any, 0, len(v.Answers))
		for _, a := range v.Answers {
			answers = append(answers, map[string]any{"step_id": a.StepID, "prompt": a.Prompt, "value": a.Value})
		}
		out["answers"] = answers
	case IntentContext:
		out["intent"] = v.Intent
	}
	return out
}

// DecodeContext rebuilds the typed context. The explicit "kind" key wins;
// legacy bags without it are interpreted from the state they were saved with.
func DecodeContext(state State, raw map[string]any) FlowContext {
	kind, _ := raw["kind"].(string)
	if kind == "" {
		kind = kindForState(state, raw)
	}
	switch kind {
	case contextKindMenu:
		id, _ := raw["current_menu_id"].(string)
		return MenuContext{CurrentMenuID: id}
	case contextKindBooking:
		intent, _ := raw["intent"].(string)
		return BookingContext{
			Intent:    intent,
			StepIndex: intValue(raw["step_index"], -1),
			Attempts:  intValue(raw["attempts"], 0),
			Answers:   decodeAnswers(raw["answers"]),
		}
	case contextKindFAQ:
		return FaqContext{}
	case contextKindIntent:
		intent, _ := raw["intent"].(string)
		return IntentContext{Intent: intent}
	}
	return EmptyContext{}
}

func kindForState(state State, raw map[string]any) string {
	switch state {
	case StateBookingStep:
		return contextKindBooking
	case StateFAQ:
		return contextKindFAQ
	case StateAwaitingIntent:
		return contextKindMenu
	}
	if _, ok := raw["intent"]; ok {
		return contextKindIntent
	}
	return contextKindEmpty
}

// intValue accepts the shapes a number takes after a JSON round trip.
func intValue(v any, def int) int {
	switch n := v.(type) {
	case int:
		return n
	case int32:
		return int(n)
	case int64:
		return int(n)
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return def
		}
		return int(n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i)
		}
	case string:
		if i, err := strconv.Atoi(n); err == nil {
			return i
		}
	}
	return def
}

func decodeAnswers(v any) []BookingAnswer {
	if v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var answers []BookingAnswer
	if err := json.Unmarshal(b, &answers); err != nil {
		return nil
	}
	return answers
}
