package entities

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// WhatsApp quick-reply limits
const (
	MaxButtonsPerMenu = 3
	MaxButtonLabelLen = 20
	MaxMenuNameLen    = 100
)

type ActionType string

const (
	ActionOpenMenu          ActionType = "OPEN_MENU"
	ActionStartBooking      ActionType = "START_BOOKING"
	ActionStartOrder        ActionType = "START_ORDER"
	ActionFAQ               ActionType = "FAQ"
	ActionHuman             ActionType = "HUMAN"
	ActionCancelAppointment ActionType = "CANCEL_APPOINTMENT"
	ActionCancelOrder       ActionType = "CANCEL_ORDER"
)

var actionTypes = []ActionType{
	ActionOpenMenu,
	ActionStartBooking,
	ActionStartOrder,
	ActionFAQ,
	ActionHuman,
	ActionCancelAppointment,
	ActionCancelOrder,
}

func (a ActionType) Valid() bool {
	for _, t := range actionTypes {
		if a == t {
			return true
		}
	}
	return false
}

var (
	ErrInvalidMenu   = errors.New("invalid menu")
	ErrInvalidButton = errors.New("invalid button")
)

type Menu struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	MessageText  string   `json:"message_text"`
	IsEntryPoint bool     `json:"is_entry_point"`
	Buttons      []Button `json:"buttons"` // ordered by Order
}

type Button struct {
	ID         string     `json:"id"`
	MenuID     string     `json:"menu_id"`
	Order      int        `json:"order"` // 1..3
	Label      string     `json:"label"`
	ActionType ActionType `json:"action_type"`
	NextMenuID *string    `json:"next_menu_id"` // set only for OPEN_MENU
}

// NextMenu returns the OPEN_MENU target or "" when unset.
func (b Button) NextMenu() string {
	if b.NextMenuID == nil {
		return ""
	}
	return *b.NextMenuID
}

// ValidateMenu checks the fields of a menu row, not its buttons.
func ValidateMenu(m Menu) error {
	name := strings.TrimSpace(m.Name)
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidMenu)
	}
	if utf8.RuneCountInString(name) > MaxMenuNameLen {
		return fmt.Errorf("%w: name longer than %d characters", ErrInvalidMenu, MaxMenuNameLen)
	}
	if strings.TrimSpace(m.MessageText) == "" {
		return fmt.Errorf("%w: message_text is required", ErrInvalidMenu)
	}
	return nil
}

// ValidateButton enforces the WhatsApp protocol limits on a single button.
// Uniqueness of order and the per-menu count are checked by ValidateMenuButtons.
func ValidateButton(b Button) error {
	label := strings.TrimSpace(b.Label)
	if label == "" {
		return fmt.Errorf("%w: label is required", ErrInvalidButton)
	}
	if utf8.RuneCountInString(label) > MaxButtonLabelLen {
		return fmt.Errorf("%w: label %q exceeds %d characters", ErrInvalidButton, label, MaxButtonLabelLen)
	}
	if b.Order < 1 || b.Order > MaxButtonsPerMenu {
		return fmt.Errorf("%w: order must be between 1 and %d", ErrInvalidButton, MaxButtonsPerMenu)
	}
	if !b.ActionType.Valid() {
		return fmt.Errorf("%w: unknown action_type %q", ErrInvalidButton, b.ActionType)
	}
	if b.ActionType == ActionOpenMenu && b.NextMenu() == "" {
		return fmt.Errorf("%w: OPEN_MENU requires next_menu_id", ErrInvalidButton)
	}
	if b.ActionType != ActionOpenMenu && b.NextMenuID != nil {
		return fmt.Errorf("%w: next_menu_id is only allowed for OPEN_MENU", ErrInvalidButton)
	}
	return nil
}

// ValidateMenuButtons checks a full button set of one menu.
func ValidateMenuButtons(buttons []Button) error {
	if len(buttons) > MaxButtonsPerMenu {
		return fmt.Errorf("%w: a menu can have at most %d buttons", ErrInvalidButton, MaxButtonsPerMenu)
	}
	seen := make(map[int]bool, len(buttons))
	for _, b := range buttons {
		if err := ValidateButton(b); err != nil {
			return err
		}
		if seen[b.Order] {
			return fmt.Errorf("%w: duplicate order %d", ErrInvalidButton, b.Order)
		}
		seen[b.Order] = true
	}
	return nil
}
