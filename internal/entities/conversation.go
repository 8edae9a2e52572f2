package entities

import "time"

type State string

const (
	StateNew                    State = "NEW"
	StateAwaitingIntent         State = "AWAITING_INTENT"
	StateFAQ                    State = "FAQ"
	StateBookingStep            State = "BOOKING_STEP"
	StateBookingService         State = "BOOKING_SERVICE"
	StateOrderStart             State = "ORDER_START"
	StateHumanReview            State = "HUMAN_REVIEW"
	StateCancelAppointmentCheck State = "CANCEL_APPOINTMENT_CHECK"
	StateCancelOrderCheck       State = "CANCEL_ORDER_CHECK"
	StateBookingConfirm         State = "BOOKING_CONFIRM"
)

type EventKind string

const (
	EventText   EventKind = "text"
	EventButton EventKind = "button"
)

// Event is one inbound customer action: a typed message or a button tap.
type Event struct {
	Kind    EventKind `json:"kind"`
	Value   string    `json:"value,omitempty"`   // text events
	Payload string    `json:"payload,omitempty"` // button events
}

func TextEvent(v string) Event { return Event{Kind: EventText, Value: v} }

func ButtonEvent(p string) Event { return Event{Kind: EventButton, Payload: p} }

func (e Event) IsButton() bool { return e.Kind == EventButton && e.Payload != "" }

func (e Event) Input() string {
	if e.Kind == EventButton {
		return e.Payload
	}
	return e.Value
}

type ReplyType string

const (
	ReplyText        ReplyType = "text"
	ReplyInteractive ReplyType = "interactive"
)

type InteractiveButton struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type AssistKind string

const (
	AssistFAQ      AssistKind = "faq"
	AssistIntent   AssistKind = "intent"
	AssistDatetime AssistKind = "datetime"
)

// AssistRequest is set on a RouterResult when the static answer could be
// improved by the AI collaborator. The router itself never calls it.
type AssistRequest struct {
	Kind  AssistKind `json:"kind"`
	Input string     `json:"input"`
}

type AssistOutcome struct {
	Answered  bool   `json:"answered"`
	Response  string `json:"response,omitempty"`
	Fallback  bool   `json:"fallback"`
	Reason    string `json:"reason,omitempty"`
	DisableAI bool   `json:"disable_ai"`
}

type RouterResult struct {
	ReplyText  string              `json:"reply_text"`
	ReplyType  ReplyType           `json:"reply_type"`
	Buttons    []InteractiveButton `json:"interactive_buttons,omitempty"`
	NewState   State               `json:"new_state"`
	NewContext FlowContext         `json:"-"`
	Assist     *AssistRequest      `json:"assist,omitempty"`
	Rule       string              `json:"rule"` // which dispatch rule produced the result
}

// Conversation is the persisted state of one customer on one platform.
type Conversation struct {
	ID             string         `json:"id"`
	BusinessID     string         `json:"business_id"`
	Platform       string         `json:"platform"`
	Contact        string         `json:"contact"`
	State          State          `json:"state"`
	Context        map[string]any `json:"context"`
	OfferedButtons []string       `json:"offered_buttons"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// InboundEvent is what a transport hands to the conversation service.
type InboundEvent struct {
	BusinessID    string
	Platform      string // "whatsapp", "whatsapp_cloud", "telegram", "web"
	Contact       string
	MessageText   string
	ButtonPayload string
}

func (e InboundEvent) Event() Event {
	if e.ButtonPayload != "" {
		return ButtonEvent(e.ButtonPayload)
	}
	return TextEvent(e.MessageText)
}
