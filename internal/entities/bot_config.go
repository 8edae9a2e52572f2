package entities

import (
	"errors"
	"fmt"
	"strings"
)

// Bot config keys as stored in the tenant bot_config table
const (
	ConfigGreetingMessage    = "greeting_message"
	ConfigFallbackMessage    = "fallback_message"
	ConfigUnknownMessageHelp = "unknown_message_help"
	ConfigFaqWelcomeMessage  = "faq_welcome_message"
	ConfigServicePrompt      = "service_prompt"
	ConfigStaticReplies      = "static_replies"
	ConfigAppointmentEnabled = "appointment_enabled"
	ConfigOrderEnabled       = "order_enabled"
	ConfigAIEnabled          = "ai_enabled"
	ConfigAIFeatures         = "ai_features"
)

type StaticReply struct {
	Keywords []string `json:"keywords" yaml:"keywords"`
	Reply    string   `json:"reply" yaml:"reply"`
}

type AIFeatures struct {
	IntentDetection bool `json:"intent_detection" yaml:"intent_detection"`
	DatetimeAssist  bool `json:"datetime_assist" yaml:"datetime_assist"`
	FaqAnswers      bool `json:"faq_answers" yaml:"faq_answers"`
}

type BotConfig struct {
	GreetingMessage    string        `json:"greeting_message"`
	FallbackMessage    string        `json:"fallback_message"`
	UnknownMessageHelp string        `json:"unknown_message_help"`
	FaqWelcomeMessage  string        `json:"faq_welcome_message"`
	ServicePrompt      string        `json:"service_prompt"` // used when booking has no steps
	StaticReplies      []StaticReply `json:"static_replies"`
	AppointmentEnabled bool          `json:"appointment_enabled"`
	OrderEnabled       bool          `json:"order_enabled"`
	AIEnabled          bool          `json:"ai_enabled"`
	AIFeatures         AIFeatures    `json:"ai_features"`
}

// DefaultBotConfig is what a business gets before anything is configured.
func DefaultBotConfig() BotConfig {
	return BotConfig{
		GreetingMessage:    "👋 Welcome! How can we help you today?",
		FallbackMessage:    "Sorry, something went wrong. Let's start over.",
		UnknownMessageHelp: "🤔 I didn't catch that. Type *menu* to see the options.",
		FaqWelcomeMessage:  "❓ Ask me anything about our business.",
		ServicePrompt:      "📅 Which service would you like to book?",
		StaticReplies:      []StaticReply{},
		AppointmentEnabled: true,
		OrderEnabled:       true,
	}
}

// AIFeatureEnabled reports whether the AI gate may be called for kind.
func (c BotConfig) AIFeatureEnabled(kind AssistKind) bool {
	if !c.AIEnabled {
		return false
	}
	switch kind {
	case AssistFAQ:
		return c.AIFeatures.FaqAnswers
	case AssistIntent:
		return c.AIFeatures.IntentDetection
	case AssistDatetime:
		return c.AIFeatures.DatetimeAssist
	}
	return false
}

var ErrInvalidBotConfig = errors.New("invalid bot config")

// ValidateBotConfig rejects static replies that could never match or would
// answer with nothing.
func ValidateBotConfig(c BotConfig) error {
	for i, r := range c.StaticReplies {
		if strings.TrimSpace(r.Reply) == "" {
			return fmt.Errorf("%w: static reply %d has no text", ErrInvalidBotConfig, i+1)
		}
		keywords := 0
		for _, k := range r.Keywords {
			if strings.TrimSpace(k) != "" {
				keywords++
			}
		}
		if keywords == 0 {
			return fmt.Errorf("%w: static reply %d has no keywords", ErrInvalidBotConfig, i+1)
		}
	}
	return nil
}
