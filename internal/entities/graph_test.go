package entities

import (
	"errors"
	"strings"
	"testing"
)

func ptr(s string) *string { return &s }

func codes(ws []GraphWarning) map[WarningCode]int {
	out := map[WarningCode]int{}
	for _, w := range ws {
		out[w.Code]++
	}
	return out
}

func TestMenuGraph_Validate(t *testing.T) {
	t.Run("healthy graph has no warnings", func(t *testing.T) {
		g := NewMenuGraph("tenant_1", []Menu{
			{ID: "main", Name: "Main", IsEntryPoint: true, Buttons: []Button{
				{ID: "b1", MenuID: "main", Order: 1, Label: "Services", ActionType: ActionOpenMenu, NextMenuID: ptr("svc")},
				{ID: "b2", MenuID: "main", Order: 2, Label: "Book", ActionType: ActionStartBooking},
			}},
			{ID: "svc", Name: "Services", Buttons: []Button{
				{ID: "b3", MenuID: "svc", Order: 1, Label: "Back", ActionType: ActionOpenMenu, NextMenuID: ptr("main")},
			}},
		})
		if ws := g.Validate(); len(ws) != 0 {
			t.Fatalf("expected no warnings, got %+v", ws)
		}
	})

	t.Run("empty graph", func(t *testing.T) {
		if ws := NewMenuGraph("tenant_1", nil).Validate(); len(ws) != 0 {
			t.Fatalf("expected no warnings, got %+v", ws)
		}
	})

	t.Run("reports every inconsistency", func(t *testing.T) {
		g := NewMenuGraph("tenant_1", []Menu{
			{ID: "a", Name: "A", IsEntryPoint: true, Buttons: []Button{
				{ID: "b1", Order: 1, Label: "Gone", ActionType: ActionOpenMenu, NextMenuID: ptr("deleted")},
				{ID: "b2", Order: 1, Label: "Dup", ActionType: ActionFAQ},
				{ID: "b3", Order: 2, Label: strings.Repeat("x", MaxButtonLabelLen+1), ActionType: ActionHuman},
				{ID: "b4", Order: 3, Label: "NoTarget", ActionType: ActionOpenMenu},
			}},
			{ID: "b", Name: "B", IsEntryPoint: true, Buttons: []Button{
				{ID: "b5", Order: 1, Label: "Odd", ActionType: ActionFAQ, NextMenuID: ptr("a")},
				{ID: "b6", Order: 2, Label: "Empty", ActionType: ActionOpenMenu, NextMenuID: ptr("c")},
			}},
			{ID: "c", Name: "C"},
		})
		got := codes(g.Validate())
		for _, want := range []WarningCode{
			WarnBrokenLink, WarnDuplicateOrder, WarnLabelTooLong, WarnMissingTarget,
			WarnUnexpectedTarget, WarnEmptyTarget, WarnTooManyButtons, WarnMultipleEntry,
		} {
			if got[want] != 1 {
				t.Fatalf("expected one %s warning, got %v", want, got)
			}
		}
		if got[WarnNoEntryMenu] != 0 {
			t.Fatalf("unexpected no_entry_menu: %v", got)
		}
	})

	t.Run("missing and empty entry menu", func(t *testing.T) {
		got := codes(NewMenuGraph("tenant_1", []Menu{{ID: "a", Name: "A"}}).Validate())
		if got[WarnNoEntryMenu] != 1 {
			t.Fatalf("expected no_entry_menu, got %v", got)
		}
		got = codes(NewMenuGraph("tenant_1", []Menu{{ID: "a", Name: "A", IsEntryPoint: true}}).Validate())
		if got[WarnEmptyEntryMenu] != 1 {
			t.Fatalf("expected empty_entry_menu, got %v", got)
		}
	})
}

func TestMenuGraph_Lookups(t *testing.T) {
	g := NewMenuGraph("tenant_1", []Menu{
		{ID: "main", Name: "Main", IsEntryPoint: true, Buttons: []Button{
			{ID: "b2", Order: 2, Label: "Second", ActionType: ActionFAQ},
			{ID: "b1", Order: 1, Label: "First", ActionType: ActionOpenMenu, NextMenuID: ptr("gone")},
		}},
		{ID: "other", Name: "Other", Buttons: []Button{
			{ID: "b9", Order: 1, Label: "Human", ActionType: ActionHuman},
		}},
	})

	entry, ok := g.EntryMenu()
	if !ok || entry.ID != "main" {
		t.Fatalf("unexpected entry menu %+v", entry)
	}
	if entry.Buttons[0].ID != "b1" {
		t.Fatalf("buttons not ordered: %+v", entry.Buttons)
	}
	if _, ok := g.MenuButton("main", "b9"); ok {
		t.Fatalf("b9 does not belong to main")
	}
	if b, ok := g.Button("b9"); !ok || b.ActionType != ActionHuman {
		t.Fatalf("expected global lookup of b9, got %+v", b)
	}
	if _, ok := g.Menu(""); ok {
		t.Fatalf("empty id must not resolve")
	}
	if broken := g.BrokenLinks(); len(broken) != 1 || broken[0].ID != "b1" {
		t.Fatalf("unexpected broken links %+v", broken)
	}

	var nilGraph *MenuGraph
	if _, ok := nilGraph.EntryMenu(); ok {
		t.Fatalf("nil graph has no entry menu")
	}
}

func TestValidateMenuButtons(t *testing.T) {
	tests := []struct {
		name    string
		buttons []Button
		wantErr bool
	}{
		{"ok", []Button{
			{Order: 1, Label: "A", ActionType: ActionFAQ},
			{Order: 2, Label: "B", ActionType: ActionOpenMenu, NextMenuID: ptr("m")},
		}, false},
		{"four buttons", []Button{
			{Order: 1, Label: "A", ActionType: ActionFAQ},
			{Order: 2, Label: "B", ActionType: ActionFAQ},
			{Order: 3, Label: "C", ActionType: ActionFAQ},
			{Order: 3, Label: "D", ActionType: ActionFAQ},
		}, true},
		{"duplicate order", []Button{
			{Order: 1, Label: "A", ActionType: ActionFAQ},
			{Order: 1, Label: "B", ActionType: ActionHuman},
		}, true},
		{"order out of range", []Button{{Order: 4, Label: "A", ActionType: ActionFAQ}}, true},
		{"unknown action", []Button{{Order: 1, Label: "A", ActionType: "DANCE"}}, true},
		{"label of 20 runes", []Button{{Order: 1, Label: strings.Repeat("é", MaxButtonLabelLen), ActionType: ActionFAQ}}, false},
		{"label of 21 runes", []Button{{Order: 1, Label: strings.Repeat("é", MaxButtonLabelLen+1), ActionType: ActionFAQ}}, true},
		{"target on non open menu", []Button{{Order: 1, Label: "A", ActionType: ActionHuman, NextMenuID: ptr("m")}}, true},
		{"open menu without target", []Button{{Order: 1, Label: "A", ActionType: ActionOpenMenu}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateMenuButtons(tt.buttons)
			if (err != nil) != tt.wantErr {
				t.Fatalf("wantErr %v, got %v", tt.wantErr, err)
			}
			if err != nil && !errors.Is(err, ErrInvalidButton) {
				t.Fatalf("expected ErrInvalidButton, got %v", err)
			}
		})
	}
}

func TestValidateMenu(t *testing.T) {
	if err := ValidateMenu(Menu{Name: "Main", MessageText: "Hi"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateMenu(Menu{Name: "  ", MessageText: "Hi"}); !errors.Is(err, ErrInvalidMenu) {
		t.Fatalf("expected ErrInvalidMenu, got %v", err)
	}
	if err := ValidateMenu(Menu{Name: "Main"}); !errors.Is(err, ErrInvalidMenu) {
		t.Fatalf("expected ErrInvalidMenu for missing text, got %v", err)
	}
}

func TestMenuGraph_LookupsWithoutIndex(t *testing.T) {
	g := &MenuGraph{Menus: []Menu{
		{ID: "main", IsEntryPoint: true, Buttons: []Button{
			{ID: "b2", Order: 2, Label: "Second", ActionType: ActionFAQ},
			{ID: "b1", Order: 1, Label: "First", ActionType: ActionHuman},
		}},
	}}
	if m, ok := g.Menu("main"); !ok || m.ID != "main" {
		t.Fatalf("menu not found by scan")
	}
	if b, ok := g.Button("b1"); !ok || b.ActionType != ActionHuman {
		t.Fatalf("button not found by scan")
	}
	if _, ok := g.MenuButton("main", "b2"); !ok {
		t.Fatalf("menu button not found by scan")
	}
	if g.Menus[0].Buttons[0].ID != "b2" || g.menuIndex != nil || g.buttonIndex != nil {
		t.Fatalf("lookups must not modify the graph")
	}
	if got := g.Menus[0].SortedButtons(); got[0].ID != "b1" {
		t.Fatalf("expected sorted copy, got %+v", got)
	}
}
