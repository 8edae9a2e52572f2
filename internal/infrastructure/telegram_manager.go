package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"wa_botflow/internal/entities"
	"wa_botflow/internal/interfaces"
)

// Telegram rejects callback data longer than this
const maxCallbackData = 64

// TelegramBotInstance represents a single business's Telegram bot
type TelegramBotInstance struct {
	Bot        *tgbotapi.BotAPI
	BusinessID string
	StopChan   chan struct{}
	IsRunning  bool
	mu         sync.Mutex
}

func (b *TelegramBotInstance) running() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.IsRunning
}

// TelegramBotManager manages per-business Telegram bot instances
type TelegramBotManager struct {
	bots     map[string]*TelegramBotInstance
	mu       sync.RWMutex
	handler  InboundHandler
	debounce *ClickDebouncer
	logger   *slog.Logger
}

func NewTelegramBotManager(handler InboundHandler, logger *slog.Logger) *TelegramBotManager {
	return &TelegramBotManager{
		bots:     make(map[string]*TelegramBotInstance),
		handler:  handler,
		debounce: NewClickDebouncer(2 * time.Second),
		logger:   logger,
	}
}

// GetBot returns the business's bot or nil
func (m *TelegramBotManager) GetBot(businessID string) *TelegramBotInstance {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.bots[businessID]
}

// ValidateToken checks if a token is valid by creating a test bot
func (m *TelegramBotManager) ValidateToken(token string) (string, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}
	return bot.Self.UserName, nil
}

// ConnectBot creates and starts a bot for a business with its token
func (m *TelegramBotManager) ConnectBot(businessID, token string) (*TelegramBotInstance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.bots[businessID]; ok {
		return existing, nil
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	instance := &TelegramBotInstance{
		Bot:        bot,
		BusinessID: businessID,
		StopChan:   make(chan struct{}),
		IsRunning:  true,
	}
	m.bots[businessID] = instance

	go m.startPolling(instance)
	return instance, nil
}

// startPolling runs the update loop for a business's bot
func (m *TelegramBotManager) startPolling(instance *TelegramBotInstance) {
	logger := m.logger.With("business", instance.BusinessID, "transport", "telegram")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := instance.Bot.GetUpdatesChan(u)
	logger.Info("telegram polling started", "bot", instance.Bot.Self.UserName)

	for {
		select {
		case <-instance.StopChan:
			instance.Bot.StopReceivingUpdates()
			instance.mu.Lock()
			instance.IsRunning = false
			instance.mu.Unlock()
			logger.Info("telegram polling stopped")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			go m.handleUpdate(instance, update, logger)
		}
	}
}

func (m *TelegramBotManager) handleUpdate(instance *TelegramBotInstance, update tgbotapi.Update, logger *slog.Logger) {
	var chatID int64
	ev := entities.InboundEvent{BusinessID: instance.BusinessID, Platform: "telegram"}

	switch {
	case update.CallbackQuery != nil:
		cb := update.CallbackQuery
		instance.Bot.Request(tgbotapi.NewCallback(cb.ID, ""))
		if cb.Message == nil {
			return
		}
		chatID = cb.Message.Chat.ID
		if !m.debounce.Allow(strconv.FormatInt(chatID, 10), cb.Data) {
			return
		}
		// long ids travel as their position and resolve like a typed number
		if _, err := strconv.Atoi(cb.Data); err == nil {
			ev.MessageText = cb.Data
		} else {
			ev.ButtonPayload = cb.Data
		}
	case update.Message != nil:
		chatID = update.Message.Chat.ID
		if update.Message.IsCommand() {
			ev.MessageText = update.Message.Command()
		} else {
			ev.MessageText = update.Message.Text
		}
		if ev.MessageText == "" {
			return
		}
	default:
		return
	}
	ev.Contact = strconv.FormatInt(chatID, 10)

	if m.handler == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), turnTimeout)
	defer cancel()

	res, err := m.handler(ctx, ev)
	if err != nil {
		logger.Warn("turn failed", "contact", ev.Contact, "error", err)
		return
	}
	if res == nil {
		return
	}
	if err := sendTelegramReply(instance.Bot, chatID, *res); err != nil {
		logger.Error("send reply failed", "contact", ev.Contact, "error", err)
	}
}

// ReplyKeyboard builds one inline button per row from the reply's buttons.
// Button ids that do not fit in callback data are replaced by their
// position.
func ReplyKeyboard(reply entities.RouterResult) *tgbotapi.InlineKeyboardMarkup {
	if len(reply.Buttons) == 0 {
		return nil
	}
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(reply.Buttons))
	for i, b := range reply.Buttons {
		data := b.ID
		if len(data) > maxCallbackData {
			data = strconv.Itoa(i + 1)
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(b.Title, data)))
	}
	keyboard := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &keyboard
}

func sendTelegramReply(bot *tgbotapi.BotAPI, chatID int64, reply entities.RouterResult) error {
	msg := tgbotapi.NewMessage(chatID, reply.ReplyText)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if kb := ReplyKeyboard(reply); kb != nil {
		msg.ReplyMarkup = kb
	}
	if _, err := bot.Send(msg); err == nil {
		return nil
	}
	// unbalanced markdown in business text; resend as plain text
	msg.ParseMode = ""
	_, err := bot.Send(msg)
	return err
}

// TelegramMessenger sends replies through one business's running bot.
type TelegramMessenger struct {
	manager    *TelegramBotManager
	businessID string
}

var _ interfaces.Messenger = (*TelegramMessenger)(nil)

func (m *TelegramBotManager) Messenger(businessID string) *TelegramMessenger {
	return &TelegramMessenger{manager: m, businessID: businessID}
}

func (t *TelegramMessenger) SendReply(_ context.Context, to string, reply entities.RouterResult) error {
	instance := t.manager.GetBot(t.businessID)
	if instance == nil || !instance.running() {
		return fmt.Errorf("bot not connected for %s", t.businessID)
	}
	chatID, err := strconv.ParseInt(to, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid chat id %q: %w", to, err)
	}
	return sendTelegramReply(instance.Bot, chatID, reply)
}

// DisconnectBot stops a business's bot
func (m *TelegramBotManager) DisconnectBot(businessID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if instance, ok := m.bots[businessID]; ok {
		close(instance.StopChan)
		delete(m.bots, businessID)
	}
}

// GetStatus returns connection status for a business
func (m *TelegramBotManager) GetStatus(businessID string) (connected bool, botName string) {
	instance := m.GetBot(businessID)
	if instance != nil && instance.running() {
		return true, instance.Bot.Self.UserName
	}
	return false, ""
}

// ConnectedCount is the number of running bots
func (m *TelegramBotManager) ConnectedCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.bots)
}

// DisconnectAll stops all bots (for graceful shutdown)
func (m *TelegramBotManager) DisconnectAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, instance := range m.bots {
		close(instance.StopChan)
	}
	m.bots = make(map[string]*TelegramBotInstance)
}
