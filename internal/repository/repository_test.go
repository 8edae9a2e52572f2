package repository

import (
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"wa_botflow/internal/entities"
	"wa_botflow/internal/interfaces"
)

func TestTenantTable(t *testing.T) {
	tests := []struct {
		business string
		want     string
	}{
		{"tenant_7", "tenant_7.menus"},
		{"Tenant-7; DROP", "tenant_7_drop.menus"},
		{"public", "menus"},
		{"", "menus"},
	}
	for _, tt := range tests {
		t.Run(tt.business, func(t *testing.T) {
			if got := tenantTable(tt.business, "menus"); got != tt.want {
				t.Fatalf("tenantTable(%q) = %q, want %q", tt.business, got, tt.want)
			}
		})
	}
}

func TestTenantTablesDDL(t *testing.T) {
	ddl := strings.Join(tenantTables("tenant_3"), "\n")
	for _, want := range []string{
		"tenant_3.menus",
		"WHERE is_entry_point",
		"REFERENCES tenant_3.menus(id) ON DELETE CASCADE",
		"CHECK (sort_order BETWEEN 1 AND 3)",
		"UNIQUE (menu_id, sort_order)",
		"label VARCHAR(20)",
		"UNIQUE (platform, contact)",
	} {
		if !strings.Contains(ddl, want) {
			t.Fatalf("tenant DDL missing %q", want)
		}
	}
	if strings.Contains(ddl, "next_menu_id UUID REFERENCES") {
		t.Fatalf("button targets must not carry a foreign key")
	}
}

func TestClassify(t *testing.T) {
	notFound := errors.New("thing not found")
	other := errors.New("boom")

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil", nil, nil},
		{"no rows", pgx.ErrNoRows, notFound},
		{"unique", &pgconn.PgError{Code: pgUniqueViolation}, interfaces.ErrConflict},
		{"check", &pgconn.PgError{Code: pgCheckViolation}, interfaces.ErrConflict},
		{"foreign key", &pgconn.PgError{Code: pgForeignKeyViolation}, notFound},
		{"bad uuid", &pgconn.PgError{Code: pgInvalidText}, notFound},
		{"other", other, other},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(tt.err, notFound)
			if tt.want == nil {
				if got != nil {
					t.Fatalf("expected nil, got %v", got)
				}
				return
			}
			if !errors.Is(got, tt.want) {
				t.Fatalf("classify(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestBotConfigFromValues(t *testing.T) {
	t.Run("empty store yields defaults", func(t *testing.T) {
		got := BotConfigFromValues(map[string]string{})
		want := entities.DefaultBotConfig()
		if got.GreetingMessage != want.GreetingMessage || !got.AppointmentEnabled || got.AIEnabled {
			t.Fatalf("unexpected config %+v", got)
		}
	})

	t.Run("stored values win over defaults", func(t *testing.T) {
		cfg := entities.DefaultBotConfig()
		cfg.GreetingMessage = "Hi there"
		cfg.OrderEnabled = false
		cfg.AIEnabled = true
		cfg.AIFeatures = entities.AIFeatures{FaqAnswers: true}
		cfg.StaticReplies = []entities.StaticReply{{Keywords: []string{"price"}, Reply: "from $10"}}

		values, err := BotConfigValues(cfg)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got := BotConfigFromValues(values)
		if got.GreetingMessage != "Hi there" || got.OrderEnabled || !got.AIEnabled || !got.AIFeatures.FaqAnswers {
			t.Fatalf("unexpected config %+v", got)
		}
		if len(got.StaticReplies) != 1 || got.StaticReplies[0].Reply != "from $10" {
			t.Fatalf("static replies lost: %+v", got.StaticReplies)
		}
	})

	t.Run("garbage keeps defaults", func(t *testing.T) {
		got := BotConfigFromValues(map[string]string{
			entities.ConfigAppointmentEnabled: "maybe",
			entities.ConfigStaticReplies:      "{not json",
			entities.ConfigGreetingMessage:    "",
		})
		if !got.AppointmentEnabled || len(got.StaticReplies) != 0 || got.GreetingMessage == "" {
			t.Fatalf("unexpected config %+v", got)
		}
	})
}

func TestQuotaStatus(t *testing.T) {
	tests := []struct {
		name                        string
		daily, monthly              int
		today, month                int
		wantDailyLeft, wantDailyPct int
		wantMonthLeft               int
	}{
		{"unlimited", 0, 0, 50, 500, -1, 0, -1},
		{"half used", 100, 1000, 50, 200, 50, 50, 800},
		{"over limit clamps", 10, 100, 15, 150, 0, 100, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := QuotaStatus(tt.daily, tt.monthly, tt.today, tt.month)
			if s.DailyRemaining != tt.wantDailyLeft || s.DailyPercent != tt.wantDailyPct || s.MonthlyRemaining != tt.wantMonthLeft {
				t.Fatalf("unexpected status %+v", s)
			}
		})
	}
}
