package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"wa_botflow/internal/entities"
	"wa_botflow/internal/infrastructure"
	"wa_botflow/internal/interfaces"
)

// ConfigEntry is one raw key/value row of bot_config.
type ConfigEntry struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ConfigRepository stores the bot config of each business as key/value rows
// and assembles them into entities.BotConfig on read.
type ConfigRepository struct {
	db    *pgxpool.Pool
	cache *infrastructure.Cache
}

var _ interfaces.BotConfigAdmin = (*ConfigRepository)(nil)

func NewConfigRepository(db *pgxpool.Pool, cache *infrastructure.Cache) *ConfigRepository {
	return &ConfigRepository{db: db, cache: cache}
}

// GetConfig returns a config value by key; a missing key is "".
func (r *ConfigRepository) GetConfig(ctx context.Context, businessID, key string) (string, error) {
	var value *string
	err := r.db.QueryRow(ctx,
		fmt.Sprintf("SELECT value FROM %s WHERE key=$1", tenantTable(businessID, "bot_config")), key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil // not found is not strictly an error
	}
	if err != nil {
		return "", err
	}
	if value == nil {
		return "", nil
	}
	return *value, nil
}

// SetConfig sets a config value
func (r *ConfigRepository) SetConfig(ctx context.Context, businessID, key, value string) error {
	if err := setConfig(ctx, r.db, businessID, key, value); err != nil {
		return err
	}
	r.cache.Delete(configCacheKey(businessID))
	return nil
}

func setConfig(ctx context.Context, q querier, businessID, key, value string) error {
	_, err := q.Exec(ctx, fmt.Sprintf(`
		INSERT INTO %s (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value=EXCLUDED.value, updated_at=NOW()
	`, tenantTable(businessID, "bot_config")), key, value)
	return err
}

// GetAllConfigs returns the raw rows
func (r *ConfigRepository) GetAllConfigs(ctx context.Context, businessID string) ([]ConfigEntry, error) {
	rows, err := r.db.Query(ctx,
		fmt.Sprintf("SELECT key, COALESCE(value, ''), updated_at FROM %s ORDER BY key", tenantTable(businessID, "bot_config")))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	configs := []ConfigEntry{}
	for rows.Next() {
		var c ConfigEntry
		if err := rows.Scan(&c.Key, &c.Value, &c.UpdatedAt); err != nil {
			return nil, err
		}
		configs = append(configs, c)
	}
	return configs, rows.Err()
}

// GetBotConfig assembles the typed config over the defaults. Unparseable
// values keep the default.
func (r *ConfigRepository) GetBotConfig(ctx context.Context, businessID string) (entities.BotConfig, error) {
	var cfg entities.BotConfig
	if r.cache.GetJSON(configCacheKey(businessID), &cfg) {
		return cfg, nil
	}
	entries, err := r.GetAllConfigs(ctx, businessID)
	if err != nil {
		return entities.BotConfig{}, fmt.Errorf("read bot config: %w", err)
	}
	values := make(map[string]string, len(entries))
	for _, e := range entries {
		values[e.Key] = e.Value
	}
	cfg = BotConfigFromValues(values)
	r.cache.SetJSON(configCacheKey(businessID), cfg)
	return cfg, nil
}

// SaveBotConfig writes every field of cfg.
func (r *ConfigRepository) SaveBotConfig(ctx context.Context, businessID string, cfg entities.BotConfig) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := upsertBotConfig(ctx, tx, businessID, cfg); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return err
	}
	r.cache.Delete(configCacheKey(businessID))
	return nil
}

func upsertBotConfig(ctx context.Context, q querier, businessID string, cfg entities.BotConfig) error {
	values, err := BotConfigValues(cfg)
	if err != nil {
		return err
	}
	for _, key := range botConfigKeys {
		if err := setConfig(ctx, q, businessID, key, values[key]); err != nil {
			return fmt.Errorf("write %s: %w", key, err)
		}
	}
	return nil
}

var botConfigKeys = []string{
	entities.ConfigGreetingMessage,
	entities.ConfigFallbackMessage,
	entities.ConfigUnknownMessageHelp,
	entities.ConfigFaqWelcomeMessage,
	entities.ConfigServicePrompt,
	entities.ConfigStaticReplies,
	entities.ConfigAppointmentEnabled,
	entities.ConfigOrderEnabled,
	entities.ConfigAIEnabled,
	entities.ConfigAIFeatures,
}

// BotConfigValues flattens cfg into bot_config rows.
func BotConfigValues(cfg entities.BotConfig) (map[string]string, error) {
	replies := cfg.StaticReplies
	if replies == nil {
		replies = []entities.StaticReply{}
	}
	repliesJSON, err := json.Marshal(replies)
	if err != nil {
		return nil, fmt.Errorf("encode static replies: %w", err)
	}
	featuresJSON, err := json.Marshal(cfg.AIFeatures)
	if err != nil {
		return nil, fmt.Errorf("encode ai features: %w", err)
	}
	return map[string]string{
		entities.ConfigGreetingMessage:    cfg.GreetingMessage,
		entities.ConfigFallbackMessage:    cfg.FallbackMessage,
		entities.ConfigUnknownMessageHelp: cfg.UnknownMessageHelp,
		entities.ConfigFaqWelcomeMessage:  cfg.FaqWelcomeMessage,
		entities.ConfigServicePrompt:      cfg.ServicePrompt,
		entities.ConfigStaticReplies:      string(repliesJSON),
		entities.ConfigAppointmentEnabled: strconv.FormatBool(cfg.AppointmentEnabled),
		entities.ConfigOrderEnabled:       strconv.FormatBool(cfg.OrderEnabled),
		entities.ConfigAIEnabled:          strconv.FormatBool(cfg.AIEnabled),
		entities.ConfigAIFeatures:         string(featuresJSON),
	}, nil
}

// BotConfigFromValues is the inverse of BotConfigValues. Empty text values
// fall back to the defaults so a business is never left with blank replies.
func BotConfigFromValues(values map[string]string) entities.BotConfig {
	cfg := entities.DefaultBotConfig()

	text := func(key string, dst *string) {
		if v := values[key]; v != "" {
			*dst = v
		}
	}
	flag := func(key string, dst *bool) {
		if b, err := strconv.ParseBool(values[key]); err == nil {
			*dst = b
		}
	}

	text(entities.ConfigGreetingMessage, &cfg.GreetingMessage)
	text(entities.ConfigFallbackMessage, &cfg.FallbackMessage)
	text(entities.ConfigUnknownMessageHelp, &cfg.UnknownMessageHelp)
	text(entities.ConfigFaqWelcomeMessage, &cfg.FaqWelcomeMessage)
	text(entities.ConfigServicePrompt, &cfg.ServicePrompt)
	flag(entities.ConfigAppointmentEnabled, &cfg.AppointmentEnabled)
	flag(entities.ConfigOrderEnabled, &cfg.OrderEnabled)
	flag(entities.ConfigAIEnabled, &cfg.AIEnabled)

	if v := values[entities.ConfigStaticReplies]; v != "" {
		var replies []entities.StaticReply
		if err := json.Unmarshal([]byte(v), &replies); err == nil {
			cfg.StaticReplies = replies
		}
	}
	if v := values[entities.ConfigAIFeatures]; v != "" {
		var features entities.AIFeatures
		if err := json.Unmarshal([]byte(v), &features); err == nil {
			cfg.AIFeatures = features
		}
	}
	return cfg
}
