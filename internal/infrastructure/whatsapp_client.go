package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/skip2/go-qrcode"
	"go.mau.fi/whatsmeow"
	waProto "go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	waLog "go.mau.fi/whatsmeow/util/log"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"wa_botflow/internal/entities"
	"wa_botflow/internal/interfaces"
)

const turnTimeout = 30 * time.Second

// WhatsAppClient is one business's linked-device WhatsApp session. Incoming
// chat messages are routed through the handler and answered in place.
type WhatsAppClient struct {
	Client     *whatsmeow.Client
	BusinessID string

	handler InboundHandler
	logger  *slog.Logger

	qrCode string
	qrLock sync.RWMutex
}

var _ interfaces.Messenger = (*WhatsAppClient)(nil)

func NewWhatsAppClient(ctx context.Context, dbPath, businessID string, handler InboundHandler, logger *slog.Logger) (*WhatsAppClient, error) {
	dbLog := waLog.Stdout("Database", "WARN", true)
	container, err := sqlstore.New(ctx, "sqlite", "file:"+dbPath+"?_pragma=foreign_keys(1)", dbLog)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to device store: %w", err)
	}

	deviceStore, err := container.GetFirstDevice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get device: %w", err)
	}

	clientLog := waLog.Stdout("Client", "INFO", true)
	w := &WhatsAppClient{
		Client:     whatsmeow.NewClient(deviceStore, clientLog),
		BusinessID: businessID,
		handler:    handler,
		logger:     logger.With("business", businessID, "transport", "whatsapp"),
	}
	w.Client.AddEventHandler(w.onEvent)
	return w, nil
}

func (w *WhatsAppClient) Connect() error {
	if w.Client.Store.ID != nil {
		if err := w.Client.Connect(); err != nil {
			return err
		}
		w.logger.Info("whatsapp connected with existing session")
		return nil
	}

	// new login: the pairing code arrives on the QR channel
	qrChan, err := w.Client.GetQRChannel(context.Background())
	if err != nil {
		return fmt.Errorf("qr channel: %w", err)
	}
	if err := w.Client.Connect(); err != nil {
		return err
	}
	go w.watchQR(qrChan)
	return nil
}

func (w *WhatsAppClient) watchQR(qrChan <-chan whatsmeow.QRChannelItem) {
	for evt := range qrChan {
		if evt.Event == "code" {
			w.qrLock.Lock()
			w.qrCode = evt.Code
			w.qrLock.Unlock()
			w.logger.Info("whatsapp pairing code refreshed")
			continue
		}
		w.logger.Info("whatsapp login event", "event", evt.Event)
	}
}

func (w *WhatsAppClient) GetQR() string {
	w.qrLock.RLock()
	defer w.qrLock.RUnlock()
	return w.qrCode
}

// QRPNG renders the current pairing code. ok is false when there is none.
func (w *WhatsAppClient) QRPNG(size int) (png []byte, ok bool, err error) {
	code := w.GetQR()
	if code == "" {
		return nil, false, nil
	}
	png, err = qrcode.Encode(code, qrcode.Medium, size)
	return png, err == nil, err
}

func (w *WhatsAppClient) IsLoggedIn() bool {
	return w.Client.Store.ID != nil
}

// IsConnected returns true if client is connected and logged in
func (w *WhatsAppClient) IsConnected() bool {
	return w.Client.IsConnected() && w.Client.Store.ID != nil
}

// GetUserInfo returns connected phone number and push name
func (w *WhatsAppClient) GetUserInfo() (string, string) {
	if w.Client.Store.ID == nil {
		return "", ""
	}
	return w.Client.Store.ID.User, w.Client.Store.PushName
}

func (w *WhatsAppClient) Logout() error {
	w.qrLock.Lock()
	w.qrCode = ""
	w.qrLock.Unlock()

	if err := w.Client.Logout(context.Background()); err != nil {
		return err
	}
	w.Client.Disconnect()
	return nil
}

func (w *WhatsAppClient) Disconnect() {
	w.Client.Disconnect()
}

// SendReply sends a router reply to a phone number or full JID.
func (w *WhatsAppClient) SendReply(ctx context.Context, to string, reply entities.RouterResult) error {
	jid, err := parseRecipient(to)
	if err != nil {
		return err
	}
	return w.sendText(ctx, jid, FormatNumberedReply(reply))
}

func (w *WhatsAppClient) sendText(ctx context.Context, jid types.JID, text string) error {
	_, err := w.Client.SendMessage(ctx, jid, &waProto.Message{Conversation: &text})
	return err
}

func parseRecipient(to string) (types.JID, error) {
	if strings.Contains(to, "@") {
		return types.ParseJID(to)
	}
	jid, err := types.ParseJID(to + "@" + types.DefaultUserServer)
	if err != nil {
		return types.JID{}, fmt.Errorf("invalid number format: %w", err)
	}
	return jid, nil
}

func (w *WhatsAppClient) onEvent(evt any) {
	msg, ok := evt.(*events.Message)
	if !ok || msg.Info.IsFromMe || msg.Info.IsGroup || w.handler == nil {
		return
	}
	ev, ok := parseMessage(w.BusinessID, msg)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), turnTimeout)
	defer cancel()

	w.Client.SendChatPresence(ctx, msg.Info.Chat, types.ChatPresenceComposing, types.ChatPresenceMediaText)
	res, err := w.handler(ctx, ev)
	if err != nil {
		w.logger.Warn("turn failed", "contact", ev.Contact, "error", err)
		return
	}
	if res == nil {
		return
	}
	if err := w.sendText(ctx, msg.Info.Chat, FormatNumberedReply(*res)); err != nil {
		w.logger.Error("send reply failed", "contact", ev.Contact, "error", err)
	}
}

// parseMessage extracts text or a button selection. Messages without
// either (media, reactions) are ignored.
func parseMessage(businessID string, msg *events.Message) (entities.InboundEvent, bool) {
	ev := entities.InboundEvent{
		BusinessID: businessID,
		Platform:   "whatsapp",
		Contact:    msg.Info.Chat.User,
	}
	m := msg.Message
	switch {
	case m.GetButtonsResponseMessage().GetSelectedButtonID() != "":
		ev.ButtonPayload = m.GetButtonsResponseMessage().GetSelectedButtonID()
	case m.GetListResponseMessage().GetSingleSelectReply().GetSelectedRowID() != "":
		ev.ButtonPayload = m.GetListResponseMessage().GetSingleSelectReply().GetSelectedRowID()
	case m.GetConversation() != "":
		ev.MessageText = m.GetConversation()
	case m.GetExtendedTextMessage().GetText() != "":
		ev.MessageText = m.GetExtendedTextMessage().GetText()
	default:
		return ev, false
	}
	return ev, true
}
