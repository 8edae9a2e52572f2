package entities

import (
	"fmt"
	"sort"
	"unicode/utf8"
)

// MenuGraph is a business's full set of menus with their buttons.
type MenuGraph struct {
	BusinessID string `json:"business_id"`
	Menus      []Menu `json:"menus"`

	menuIndex   map[string]int
	buttonIndex map[string]Button
}

// NewMenuGraph orders each menu's buttons and indexes the graph. A graph that
// did not come from here (decoded from JSON, a literal) still works: lookups
// fall back to scanning and never write to the graph.
func NewMenuGraph(businessID string, menus []Menu) *MenuGraph {
	g := &MenuGraph{BusinessID: businessID, Menus: menus}
	g.menuIndex = make(map[string]int, len(menus))
	g.buttonIndex = make(map[string]Button)
	for i := range g.Menus {
		m := &g.Menus[i]
		m.Buttons = m.SortedButtons()
		g.menuIndex[m.ID] = i
		for _, b := range m.Buttons {
			g.buttonIndex[b.ID] = b
		}
	}
	return g
}

// SortedButtons returns a copy of the buttons ordered by Order.
func (m Menu) SortedButtons() []Button {
	out := make([]Button, len(m.Buttons))
	copy(out, m.Buttons)
	sort.SliceStable(out, func(a, b int) bool { return out[a].Order < out[b].Order })
	return out
}

// Menu resolves a menu id. ok is false when the menu does not exist.
func (g *MenuGraph) Menu(id string) (Menu, bool) {
	if g == nil || id == "" {
		return Menu{}, false
	}
	if g.menuIndex != nil {
		i, ok := g.menuIndex[id]
		if !ok {
			return Menu{}, false
		}
		return g.Menus[i], true
	}
	for _, m := range g.Menus {
		if m.ID == id {
			return m, true
		}
	}
	return Menu{}, false
}

// EntryMenu returns the first menu flagged as entry point.
func (g *MenuGraph) EntryMenu() (Menu, bool) {
	if g == nil {
		return Menu{}, false
	}
	for _, m := range g.Menus {
		if m.IsEntryPoint {
			return m, true
		}
	}
	return Menu{}, false
}

// Button looks up a button anywhere in the graph.
func (g *MenuGraph) Button(id string) (Button, bool) {
	if g == nil || id == "" {
		return Button{}, false
	}
	if g.buttonIndex != nil {
		b, ok := g.buttonIndex[id]
		return b, ok
	}
	for _, m := range g.Menus {
		for _, b := range m.Buttons {
			if b.ID == id {
				return b, true
			}
		}
	}
	return Button{}, false
}

// MenuButton looks up a button among the buttons of one menu.
func (g *MenuGraph) MenuButton(menuID, buttonID string) (Button, bool) {
	m, ok := g.Menu(menuID)
	if !ok {
		return Button{}, false
	}
	for _, b := range m.Buttons {
		if b.ID == buttonID {
			return b, true
		}
	}
	return Button{}, false
}

type WarningCode string

const (
	WarnBrokenLink       WarningCode = "broken_link"
	WarnMissingTarget    WarningCode = "missing_target"
	WarnUnexpectedTarget WarningCode = "unexpected_target"
	WarnNoEntryMenu      WarningCode = "no_entry_menu"
	WarnMultipleEntry    WarningCode = "multiple_entry_menus"
	WarnEmptyEntryMenu   WarningCode = "empty_entry_menu"
	WarnEmptyTarget      WarningCode = "empty_target_menu"
	WarnTooManyButtons   WarningCode = "too_many_buttons"
	WarnDuplicateOrder   WarningCode = "duplicate_order"
	WarnLabelTooLong     WarningCode = "label_too_long"
)

type GraphWarning struct {
	Code     WarningCode `json:"code"`
	MenuID   string      `json:"menu_id,omitempty"`
	ButtonID string      `json:"button_id,omitempty"`
	Message  string      `json:"message"`
}

// Validate scans the graph once and reports inconsistencies. None of them is
// fatal at routing time; they are surfaced to administrators.
func (g *MenuGraph) Validate() []GraphWarning {
	warnings := []GraphWarning{}
	if g == nil || len(g.Menus) == 0 {
		return warnings
	}

	entries := 0
	for _, m := range g.Menus {
		if m.IsEntryPoint {
			entries++
			if len(m.Buttons) == 0 {
				warnings = append(warnings, GraphWarning{Code: WarnEmptyEntryMenu, MenuID: m.ID,
					Message: fmt.Sprintf("entry menu %q has no buttons", m.Name)})
			}
		}
		if len(m.Buttons) > MaxButtonsPerMenu {
			warnings = append(warnings, GraphWarning{Code: WarnTooManyButtons, MenuID: m.ID,
				Message: fmt.Sprintf("menu %q has %d buttons, WhatsApp allows %d", m.Name, len(m.Buttons), MaxButtonsPerMenu)})
		}

		orders := map[int]bool{}
		for _, b := range m.Buttons {
			if orders[b.Order] {
				warnings = append(warnings, GraphWarning{Code: WarnDuplicateOrder, MenuID: m.ID, ButtonID: b.ID,
					Message: fmt.Sprintf("menu %q has two buttons with order %d", m.Name, b.Order)})
			}
			orders[b.Order] = true

			if utf8.RuneCountInString(b.Label) > MaxButtonLabelLen {
				warnings = append(warnings, GraphWarning{Code: WarnLabelTooLong, MenuID: m.ID, ButtonID: b.ID,
					Message: fmt.Sprintf("button %q is longer than %d characters", b.Label, MaxButtonLabelLen)})
			}
			warnings = append(warnings, g.linkWarnings(m, b)...)
		}
	}

	switch {
	case entries == 0:
		warnings = append(warnings, GraphWarning{Code: WarnNoEntryMenu, Message: "no menu is marked as entry point"})
	case entries > 1:
		warnings = append(warnings, GraphWarning{Code: WarnMultipleEntry,
			Message: fmt.Sprintf("%d menus are marked as entry point", entries)})
	}
	return warnings
}

func (g *MenuGraph) linkWarnings(m Menu, b Button) []GraphWarning {
	if b.ActionType != ActionOpenMenu {
		if b.NextMenuID != nil {
			return []GraphWarning{{Code: WarnUnexpectedTarget, MenuID: m.ID, ButtonID: b.ID,
				Message: fmt.Sprintf("button %q has a target menu but action %s", b.Label, b.ActionType)}}
		}
		return nil
	}
	target := b.NextMenu()
	if target == "" {
		return []GraphWarning{{Code: WarnMissingTarget, MenuID: m.ID, ButtonID: b.ID,
			Message: fmt.Sprintf("button %q opens a menu but has no target", b.Label)}}
	}
	t, ok := g.Menu(target)
	if !ok {
		return []GraphWarning{{Code: WarnBrokenLink, MenuID: m.ID, ButtonID: b.ID,
			Message: fmt.Sprintf("button %q points to deleted menu %s", b.Label, target)}}
	}
	if len(t.Buttons) == 0 {
		return []GraphWarning{{Code: WarnEmptyTarget, MenuID: m.ID, ButtonID: b.ID,
			Message: fmt.Sprintf("button %q opens menu %q which has no buttons", b.Label, t.Name)}}
	}
	return nil
}

// BrokenLinks lists OPEN_MENU buttons whose target is not a known menu.
func (g *MenuGraph) BrokenLinks() []Button {
	var out []Button
	if g == nil {
		return out
	}
	for _, m := range g.Menus {
		for _, b := range m.Buttons {
			if b.ActionType != ActionOpenMenu {
				continue
			}
			if _, ok := g.Menu(b.NextMenu()); !ok {
				out = append(out, b)
			}
		}
	}
	return out
}
