package templates

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"wa_botflow/internal/entities"
)

const customTemplate = `
id: bakery
name: Bakery
description: Pre-orders for bread and cakes.
bot_config:
  greeting_message: "Fresh bread every morning"
  order_enabled: true
menus:
  - name: main
    message_text: "What would you like?"
    is_entry_point: true
    buttons:
      - label: "Order"
        action_type: START_ORDER
      - label: "Loop"
        action_type: OPEN_MENU
        links_to_menu: main
`

func TestBuiltinTemplates(t *testing.T) {
	r, err := NewRegistry("", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	list := r.List()
	ids := make([]string, 0, len(list))
	for _, s := range list {
		ids = append(ids, s.ID)
	}
	if strings.Join(ids, ",") != "clinic,restaurant,salon" {
		t.Fatalf("unexpected builtin ids %v", ids)
	}

	for _, id := range ids {
		t.Run(id, func(t *testing.T) {
			tpl, err := r.Get(id)
			if err != nil {
				t.Fatalf("get %s: %v", id, err)
			}
			if err := tpl.Validate(); err != nil {
				t.Fatalf("builtin %s invalid: %v", id, err)
			}
			if len(tpl.BookingSteps) == 0 {
				t.Fatalf("builtin %s has no booking steps", id)
			}
		})
	}
}

func TestRegistry_GetUnknown(t *testing.T) {
	r, err := NewRegistry("", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := r.Get("nope"); !errors.Is(err, entities.ErrTemplateNotFound) {
		t.Fatalf("expected ErrTemplateNotFound, got %v", err)
	}
}

func TestParse(t *testing.T) {
	t.Run("self loop is a valid link", func(t *testing.T) {
		tpl, err := Parse([]byte(customTemplate))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tpl.Menus[0].Buttons[1].LinksToMenu != "main" {
			t.Fatalf("unexpected link %+v", tpl.Menus[0].Buttons[1])
		}
	})

	cases := []struct {
		name string
		doc  string
	}{
		{name: "unknown field", doc: strings.Replace(customTemplate, "description:", "descripton:", 1)},
		{name: "dangling link", doc: strings.Replace(customTemplate, "links_to_menu: main", "links_to_menu: other", 1)},
		{name: "no entry menu", doc: strings.Replace(customTemplate, "is_entry_point: true", "is_entry_point: false", 1)},
		{name: "label too long", doc: strings.Replace(customTemplate, `label: "Order"`, `label: "Order something really tasty"`, 1)},
		{name: "bad action", doc: strings.Replace(customTemplate, "START_ORDER", "START_PARTY", 1)},
		{name: "link on non open menu", doc: strings.Replace(customTemplate, "action_type: START_ORDER", "action_type: START_ORDER\n        links_to_menu: main", 1)},
		{name: "choice step without values", doc: customTemplate + `
booking_steps:
  - prompt_text: "Size?"
    input_type: BUTTON
`},
		{name: "too many buttons", doc: customTemplate + `      - label: "A"
        action_type: FAQ
      - label: "B"
        action_type: HUMAN
`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse([]byte(tc.doc)); !errors.Is(err, entities.ErrInvalidTemplate) {
				t.Fatalf("expected ErrInvalidTemplate, got %v", err)
			}
		})
	}
}

func TestRegistry_Directory(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bakery.yaml"), []byte(customTemplate), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	r, err := NewRegistry(dir, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := r.Get("bakery"); err != nil {
		t.Fatalf("expected bakery template: %v", err)
	}
	if _, err := r.Get("salon"); err != nil {
		t.Fatalf("builtins must stay available: %v", err)
	}

	t.Run("broken file keeps previous catalog", func(t *testing.T) {
		if err := os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("id: ["), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
		if err := r.Reload(); err == nil {
			t.Fatalf("expected reload error")
		}
		if _, err := r.Get("bakery"); err != nil {
			t.Fatalf("previous catalog lost: %v", err)
		}
		os.Remove(filepath.Join(dir, "broken.yaml"))
	})

	t.Run("watch picks up new files", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		done := make(chan error, 1)
		go func() { done <- r.Watch(ctx) }()
		time.Sleep(100 * time.Millisecond)

		doc := strings.Replace(customTemplate, "id: bakery", "id: cafe", 1)
		if err := os.WriteFile(filepath.Join(dir, "cafe.yaml"), []byte(doc), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}

		deadline := time.Now().Add(3 * time.Second)
		for {
			if _, err := r.Get("cafe"); err == nil {
				break
			}
			if time.Now().After(deadline) {
				t.Fatalf("cafe template was not loaded")
			}
			time.Sleep(20 * time.Millisecond)
		}
		cancel()
		if err := <-done; err != nil {
			t.Fatalf("watch returned %v", err)
		}
	})
}
