package entities

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

type InputType string

const (
	InputText   InputType = "TEXT"
	InputButton InputType = "BUTTON"
	InputList   InputType = "LIST"
)

type ValidationType string

const (
	ValidationNone   ValidationType = "none"
	ValidationEmail  ValidationType = "email"
	ValidationPhone  ValidationType = "phone"
	ValidationNumber ValidationType = "number"
	ValidationDate   ValidationType = "date"
	ValidationRegex  ValidationType = "regex"
)

const (
	MinExpectedValues = 1
	MaxExpectedValues = 20
)

var ErrInvalidBookingStep = errors.New("invalid booking step")

type BookingStep struct {
	ID              string         `json:"id"`
	BusinessID      string         `json:"business_id"`
	Order           int            `json:"order"`
	PromptText      string         `json:"prompt_text"`
	InputType       InputType      `json:"input_type"`
	ExpectedValues  []string       `json:"expected_values"`
	ValidationType  ValidationType `json:"validation_type"`
	ValidationRegex string         `json:"validation_regex"`
	RetryMessage    string         `json:"retry_message"`
	IsRequired      bool           `json:"is_required"`
	IsEnabled       bool           `json:"is_enabled"`
}

// ValidateBookingStep checks a step at the data-model boundary.
func ValidateBookingStep(s BookingStep) error {
	if strings.TrimSpace(s.PromptText) == "" {
		return fmt.Errorf("%w: prompt_text is required", ErrInvalidBookingStep)
	}
	if s.Order < 1 {
		return fmt.Errorf("%w: order must be positive", ErrInvalidBookingStep)
	}
	switch s.InputType {
	case InputText:
		switch s.ValidationType {
		case "", ValidationNone, ValidationEmail, ValidationPhone, ValidationNumber, ValidationDate:
		case ValidationRegex:
			if s.ValidationRegex == "" {
				return fmt.Errorf("%w: regex validation needs validation_regex", ErrInvalidBookingStep)
			}
			if _, err := regexp.Compile(s.ValidationRegex); err != nil {
				return fmt.Errorf("%w: bad validation_regex: %v", ErrInvalidBookingStep, err)
			}
		default:
			return fmt.Errorf("%w: unknown validation_type %q", ErrInvalidBookingStep, s.ValidationType)
		}
	case InputButton, InputList:
		n := len(s.ExpectedValues)
		if n < MinExpectedValues || n > MaxExpectedValues {
			return fmt.Errorf("%w: %s input needs %d-%d expected_values, got %d",
				ErrInvalidBookingStep, s.InputType, MinExpectedValues, MaxExpectedValues, n)
		}
		for _, v := range s.ExpectedValues {
			if strings.TrimSpace(v) == "" {
				return fmt.Errorf("%w: expected_values cannot contain blanks", ErrInvalidBookingStep)
			}
		}
	default:
		return fmt.Errorf("%w: unknown input_type %q", ErrInvalidBookingStep, s.InputType)
	}
	return nil
}

// EnabledSteps returns the enabled steps sorted by Order. Disabled steps are
// dropped from sequencing entirely.
func EnabledSteps(steps []BookingStep) []BookingStep {
	out := make([]BookingStep, 0, len(steps))
	for _, s := range steps {
		if s.IsEnabled {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}
