package entities

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var (
	ErrTemplateNotFound = errors.New("template not found")
	ErrInvalidTemplate  = errors.New("invalid template")
)

// Template is an immutable bundle that can rebuild a business's whole bot:
// config values, a menu graph whose buttons link by menu name, and booking
// steps.
type Template struct {
	ID           string            `json:"id" yaml:"id"`
	Name         string            `json:"name" yaml:"name"`
	Description  string            `json:"description" yaml:"description"`
	BotConfig    TemplateBotConfig `json:"bot_config" yaml:"bot_config"`
	Menus        []TemplateMenu    `json:"menus" yaml:"menus"`
	BookingSteps []TemplateStep    `json:"booking_steps" yaml:"booking_steps"`
}

type TemplateBotConfig struct {
	GreetingMessage    string        `json:"greeting_message" yaml:"greeting_message"`
	FallbackMessage    string        `json:"fallback_message" yaml:"fallback_message"`
	UnknownMessageHelp string        `json:"unknown_message_help" yaml:"unknown_message_help"`
	FaqWelcomeMessage  string        `json:"faq_welcome_message" yaml:"faq_welcome_message"`
	ServicePrompt      string        `json:"service_prompt" yaml:"service_prompt"`
	StaticReplies      []StaticReply `json:"static_replies" yaml:"static_replies"`
	AppointmentEnabled bool          `json:"appointment_enabled" yaml:"appointment_enabled"`
	OrderEnabled       bool          `json:"order_enabled" yaml:"order_enabled"`
	AIEnabled          bool          `json:"ai_enabled" yaml:"ai_enabled"`
	AIFeatures         AIFeatures    `json:"ai_features" yaml:"ai_features"`
}

type TemplateMenu struct {
	Name         string           `json:"name" yaml:"name"`
	MessageText  string           `json:"message_text" yaml:"message_text"`
	IsEntryPoint bool             `json:"is_entry_point" yaml:"is_entry_point"`
	Buttons      []TemplateButton `json:"buttons" yaml:"buttons"`
}

type TemplateButton struct {
	Label       string     `json:"label" yaml:"label"`
	ActionType  ActionType `json:"action_type" yaml:"action_type"`
	LinksToMenu string     `json:"links_to_menu,omitempty" yaml:"links_to_menu,omitempty"`
}

type TemplateStep struct {
	PromptText      string         `json:"prompt_text" yaml:"prompt_text"`
	InputType       InputType      `json:"input_type" yaml:"input_type"`
	ExpectedValues  []string       `json:"expected_values,omitempty" yaml:"expected_values,omitempty"`
	ValidationType  ValidationType `json:"validation_type,omitempty" yaml:"validation_type,omitempty"`
	ValidationRegex string         `json:"validation_regex,omitempty" yaml:"validation_regex,omitempty"`
	RetryMessage    string         `json:"retry_message,omitempty" yaml:"retry_message,omitempty"`
	IsRequired      bool           `json:"is_required" yaml:"is_required"`
}

// BotConfig expands the template values into a full config.
func (t TemplateBotConfig) BotConfig() BotConfig {
	cfg := DefaultBotConfig()
	if t.GreetingMessage != "" {
		cfg.GreetingMessage = t.GreetingMessage
	}
	if t.FallbackMessage != "" {
		cfg.FallbackMessage = t.FallbackMessage
	}
	if t.UnknownMessageHelp != "" {
		cfg.UnknownMessageHelp = t.UnknownMessageHelp
	}
	if t.FaqWelcomeMessage != "" {
		cfg.FaqWelcomeMessage = t.FaqWelcomeMessage
	}
	if t.ServicePrompt != "" {
		cfg.ServicePrompt = t.ServicePrompt
	}
	if t.StaticReplies != nil {
		cfg.StaticReplies = t.StaticReplies
	}
	cfg.AppointmentEnabled = t.AppointmentEnabled
	cfg.OrderEnabled = t.OrderEnabled
	cfg.AIEnabled = t.AIEnabled
	cfg.AIFeatures = t.AIFeatures
	return cfg
}

// TemplateSummary is the catalog listing shape.
type TemplateSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Menus       int    `json:"menus"`
	Steps       int    `json:"booking_steps"`
}

func (t Template) Summary() TemplateSummary {
	return TemplateSummary{ID: t.ID, Name: t.Name, Description: t.Description, Menus: len(t.Menus), Steps: len(t.BookingSteps)}
}

// ApplyResult reports what a template application created.
type ApplyResult struct {
	BusinessID   string            `json:"business_id"`
	TemplateID   string            `json:"template_id"`
	MenuIDs      map[string]string `json:"menu_ids"` // template menu name -> generated id
	EntryMenuID  string            `json:"entry_menu_id"`
	MenusCreated int               `json:"menus_created"`
	ButtonsCount int               `json:"buttons_created"`
	StepsCreated int               `json:"booking_steps_created"`
}

// Validate checks a template before it may be applied: unique menu names,
// exactly one entry menu, protocol limits on buttons and links that resolve
// to menus of the same template.
func (t Template) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidTemplate)
	}
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("%w %s: name is required", ErrInvalidTemplate, t.ID)
	}
	if len(t.Menus) == 0 {
		return fmt.Errorf("%w %s: at least one menu is required", ErrInvalidTemplate, t.ID)
	}

	names := make(map[string]bool, len(t.Menus))
	entries := 0
	for _, m := range t.Menus {
		if strings.TrimSpace(m.Name) == "" {
			return fmt.Errorf("%w %s: menu without name", ErrInvalidTemplate, t.ID)
		}
		if names[m.Name] {
			return fmt.Errorf("%w %s: duplicate menu name %q", ErrInvalidTemplate, t.ID, m.Name)
		}
		names[m.Name] = true
		if m.IsEntryPoint {
			entries++
		}
	}
	if entries != 1 {
		return fmt.Errorf("%w %s: expected exactly one entry menu, found %d", ErrInvalidTemplate, t.ID, entries)
	}

	for _, m := range t.Menus {
		if len(m.Buttons) > MaxButtonsPerMenu {
			return fmt.Errorf("%w %s: menu %q has %d buttons", ErrInvalidTemplate, t.ID, m.Name, len(m.Buttons))
		}
		for _, b := range m.Buttons {
			if err := b.validate(names); err != nil {
				return fmt.Errorf("%w %s: menu %q: %v", ErrInvalidTemplate, t.ID, m.Name, err)
			}
		}
	}

	for i, s := range t.BookingSteps {
		step := s.BookingStep(i + 1)
		if err := ValidateBookingStep(step); err != nil {
			return fmt.Errorf("%w %s: booking step %d: %v", ErrInvalidTemplate, t.ID, i+1, err)
		}
	}
	return nil
}

func (b TemplateButton) validate(menus map[string]bool) error {
	label := strings.TrimSpace(b.Label)
	if label == "" {
		return errors.New("button without label")
	}
	if utf8.RuneCountInString(label) > MaxButtonLabelLen {
		return fmt.Errorf("label %q exceeds %d characters", label, MaxButtonLabelLen)
	}
	if !b.ActionType.Valid() {
		return fmt.Errorf("button %q has unknown action %q", label, b.ActionType)
	}
	if b.ActionType == ActionOpenMenu {
		if !menus[b.LinksToMenu] {
			return fmt.Errorf("button %q links to unknown menu %q", label, b.LinksToMenu)
		}
	} else if b.LinksToMenu != "" {
		return fmt.Errorf("button %q links a menu but has action %s", label, b.ActionType)
	}
	return nil
}

// BookingStep converts the definition into a step at the given position.
// Template steps are always enabled.
func (s TemplateStep) BookingStep(order int) BookingStep {
	values := make([]string, len(s.ExpectedValues))
	copy(values, s.ExpectedValues)
	return BookingStep{
		Order:           order,
		PromptText:      s.PromptText,
		InputType:       s.InputType,
		ExpectedValues:  values,
		ValidationType:  s.ValidationType,
		ValidationRegex: s.ValidationRegex,
		RetryMessage:    s.RetryMessage,
		IsRequired:      s.IsRequired,
		IsEnabled:       true,
	}
}
