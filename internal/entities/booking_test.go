package entities

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestValidateBookingStep(t *testing.T) {
	values := func(n int) []string {
		out := make([]string, n)
		for i := range out {
			out[i] = "v"
		}
		return out
	}
	tests := []struct {
		name    string
		step    BookingStep
		wantErr bool
	}{
		{"text", BookingStep{Order: 1, PromptText: "Name?", InputType: InputText}, false},
		{"text email", BookingStep{Order: 1, PromptText: "Mail?", InputType: InputText, ValidationType: ValidationEmail}, false},
		{"regex ok", BookingStep{Order: 1, PromptText: "Code?", InputType: InputText, ValidationType: ValidationRegex, ValidationRegex: `^[A-Z]{3}$`}, false},
		{"regex missing", BookingStep{Order: 1, PromptText: "Code?", InputType: InputText, ValidationType: ValidationRegex}, true},
		{"regex broken", BookingStep{Order: 1, PromptText: "Code?", InputType: InputText, ValidationType: ValidationRegex, ValidationRegex: `(`}, true},
		{"unknown validation", BookingStep{Order: 1, PromptText: "x", InputType: InputText, ValidationType: "iban"}, true},
		{"no prompt", BookingStep{Order: 1, InputType: InputText}, true},
		{"zero order", BookingStep{PromptText: "x", InputType: InputText}, true},
		{"button one value", BookingStep{Order: 1, PromptText: "x", InputType: InputButton, ExpectedValues: values(1)}, false},
		{"list twenty values", BookingStep{Order: 1, PromptText: "x", InputType: InputList, ExpectedValues: values(20)}, false},
		{"button no values", BookingStep{Order: 1, PromptText: "x", InputType: InputButton}, true},
		{"list twenty one values", BookingStep{Order: 1, PromptText: "x", InputType: InputList, ExpectedValues: values(21)}, true},
		{"blank value", BookingStep{Order: 1, PromptText: "x", InputType: InputButton, ExpectedValues: []string{"a", " "}}, true},
		{"unknown input", BookingStep{Order: 1, PromptText: "x", InputType: "VOICE"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBookingStep(tt.step)
			if (err != nil) != tt.wantErr {
				t.Fatalf("wantErr %v, got %v", tt.wantErr, err)
			}
			if err != nil && !errors.Is(err, ErrInvalidBookingStep) {
				t.Fatalf("expected ErrInvalidBookingStep, got %v", err)
			}
		})
	}
}

func TestEnabledSteps(t *testing.T) {
	got := EnabledSteps([]BookingStep{
		{ID: "c", Order: 3, IsEnabled: true},
		{ID: "a", Order: 1, IsEnabled: true},
		{ID: "b", Order: 2, IsEnabled: false},
	})
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "c" {
		t.Fatalf("unexpected steps %+v", got)
	}
}

func TestContextTranslation(t *testing.T) {
	t.Run("booking survives a JSON round trip", func(t *testing.T) {
		in := BookingContext{Intent: "booking", StepIndex: 2, Attempts: 1,
			Answers: []BookingAnswer{{StepID: "s1", Prompt: "Name?", Value: "Ana"}}}
		b, err := json.Marshal(EncodeContext(in))
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		var raw map[string]any
		if err := json.Unmarshal(b, &raw); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		out, ok := DecodeContext(StateBookingStep, raw).(BookingContext)
		if !ok {
			t.Fatalf("expected BookingContext")
		}
		if out.StepIndex != 2 || out.Attempts != 1 || len(out.Answers) != 1 || out.Answers[0].Value != "Ana" {
			t.Fatalf("unexpected context %+v", out)
		}
	})

	t.Run("legacy bag without kind follows the state", func(t *testing.T) {
		c := DecodeContext(StateAwaitingIntent, map[string]any{"current_menu_id": "m1"})
		if CurrentMenu(c) != "m1" {
			t.Fatalf("expected menu m1, got %+v", c)
		}
		bc, ok := DecodeContext(StateBookingStep, map[string]any{}).(BookingContext)
		if !ok || bc.StepIndex != -1 {
			t.Fatalf("missing step index must decode out of range, got %+v", bc)
		}
		if _, ok := DecodeContext(StateHumanReview, map[string]any{"intent": "human"}).(IntentContext); !ok {
			t.Fatalf("expected IntentContext")
		}
	})

	t.Run("nil and corrupt input", func(t *testing.T) {
		if got := EncodeContext(nil)["kind"]; got != "empty" {
			t.Fatalf("unexpected kind %v", got)
		}
		if _, ok := DecodeContext(StateNew, nil).(EmptyContext); !ok {
			t.Fatalf("nil bag must decode to EmptyContext")
		}
		bc := DecodeContext(StateBookingStep, map[string]any{"kind": "booking", "step_index": "nope"}).(BookingContext)
		if bc.StepIndex != -1 {
			t.Fatalf("corrupt step index must fall out of range, got %d", bc.StepIndex)
		}
	})
}

func TestBotConfig(t *testing.T) {
	cfg := DefaultBotConfig()
	if cfg.AIFeatureEnabled(AssistFAQ) {
		t.Fatalf("AI is off by default")
	}
	cfg.AIEnabled = true
	cfg.AIFeatures.FaqAnswers = true
	if !cfg.AIFeatureEnabled(AssistFAQ) || cfg.AIFeatureEnabled(AssistIntent) {
		t.Fatalf("feature flags not honored")
	}

	cfg.StaticReplies = []StaticReply{{Keywords: []string{" "}, Reply: "x"}}
	if err := ValidateBotConfig(cfg); !errors.Is(err, ErrInvalidBotConfig) {
		t.Fatalf("expected ErrInvalidBotConfig, got %v", err)
	}
	cfg.StaticReplies = []StaticReply{{Keywords: []string{"price"}, Reply: "  "}}
	if err := ValidateBotConfig(cfg); !errors.Is(err, ErrInvalidBotConfig) {
		t.Fatalf("expected ErrInvalidBotConfig, got %v", err)
	}
	cfg.StaticReplies = []StaticReply{{Keywords: []string{"price"}, Reply: "From $10"}}
	if err := ValidateBotConfig(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
