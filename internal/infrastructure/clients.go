package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"wa_botflow/internal/entities"
	"wa_botflow/internal/interfaces"
)

const graphAPIBase = "https://graph.facebook.com/v18.0"

// WhatsAppBusinessClient sends replies through the WhatsApp Cloud API.
// Replies with buttons go out as interactive quick-reply messages so the tap
// comes back as a button payload.
type WhatsAppBusinessClient struct {
	accessToken   string
	phoneNumberID string
	baseURL       string
	http          *http.Client
}

var _ interfaces.Messenger = (*WhatsAppBusinessClient)(nil)

func NewWhatsAppBusinessClient(accessToken, phoneNumberID string) *WhatsAppBusinessClient {
	return &WhatsAppBusinessClient{
		accessToken:   accessToken,
		phoneNumberID: phoneNumberID,
		baseURL:       graphAPIBase,
		http:          &http.Client{Timeout: 15 * time.Second},
	}
}

func (w *WhatsAppBusinessClient) SendReply(ctx context.Context, to string, reply entities.RouterResult) error {
	payload := CloudAPIPayload(to, reply)
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	url := fmt.Sprintf("%s/%s/messages", w.baseURL, w.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+w.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.http.Do(req)
	if err != nil {
		return fmt.Errorf("send whatsapp message: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("whatsapp cloud api status %d: %s", resp.StatusCode, body)
	}
	return nil
}

// CloudAPIPayload builds the Cloud API message body for a router reply.
func CloudAPIPayload(to string, reply entities.RouterResult) map[string]any {
	if reply.ReplyType != entities.ReplyInteractive || len(reply.Buttons) == 0 {
		return map[string]any{
			"messaging_product": "whatsapp",
			"to":                to,
			"type":              "text",
			"text":              map[string]string{"body": reply.ReplyText},
		}
	}
	buttons := make([]map[string]any, 0, len(reply.Buttons))
	for _, b := range reply.Buttons {
		buttons = append(buttons, map[string]any{
			"type":  "reply",
			"reply": map[string]string{"id": b.ID, "title": b.Title},
		})
	}
	return map[string]any{
		"messaging_product": "whatsapp",
		"to":                to,
		"type":              "interactive",
		"interactive": map[string]any{
			"type":   "button",
			"body":   map[string]string{"text": reply.ReplyText},
			"action": map[string]any{"buttons": buttons},
		},
	}
}

// CloudWebhook is the subset of the Cloud API webhook body we route on.
type CloudWebhook struct {
	Entry []struct {
		Changes []struct {
			Value struct {
				Messages []CloudMessage `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

type CloudMessage struct {
	From string `json:"from"`
	Type string `json:"type"`
	Text struct {
		Body string `json:"body"`
	} `json:"text"`
	Interactive struct {
		Type        string `json:"type"`
		ButtonReply struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"button_reply"`
		ListReply struct {
			ID string `json:"id"`
		} `json:"list_reply"`
	} `json:"interactive"`
}

// InboundEvents turns a webhook body into events for businessID. Message
// types we cannot route (media, reactions) are skipped.
func (w CloudWebhook) InboundEvents(businessID string) []entities.InboundEvent {
	var events []entities.InboundEvent
	for _, e := range w.Entry {
		for _, c := range e.Changes {
			for _, m := range c.Value.Messages {
				ev := entities.InboundEvent{BusinessID: businessID, Platform: "whatsapp_cloud", Contact: m.From}
				switch m.Type {
				case "text":
					ev.MessageText = m.Text.Body
				case "interactive":
					ev.ButtonPayload = m.Interactive.ButtonReply.ID
					if ev.ButtonPayload == "" {
						ev.ButtonPayload = m.Interactive.ListReply.ID
					}
				default:
					continue
				}
				events = append(events, ev)
			}
		}
	}
	return events
}

const geminiBase = "https://generativelanguage.googleapis.com/v1beta"

// GeminiAPIError is a non-2xx answer from the Gemini API. It unwraps to
// interfaces.ErrAIAuth or interfaces.ErrAIQuota where the status says so.
type GeminiAPIError struct {
	StatusCode int
	Body       string
}

func (e *GeminiAPIError) Error() string {
	return fmt.Sprintf("gemini api error (status %d): %s", e.StatusCode, e.Body)
}

// IsAuth also covers the 400 INVALID_ARGUMENT answer Gemini gives for a bad key.
func (e *GeminiAPIError) IsAuth() bool {
	if e.StatusCode == 401 || e.StatusCode == 403 {
		return true
	}
	return strings.Contains(e.Body, "API_KEY_INVALID") || strings.Contains(e.Body, "PERMISSION_DENIED")
}

func (e *GeminiAPIError) IsRateLimit() bool {
	return e.StatusCode == 429 || strings.Contains(e.Body, "RESOURCE_EXHAUSTED")
}

func (e *GeminiAPIError) Unwrap() error {
	switch {
	case e.IsAuth():
		return interfaces.ErrAIAuth
	case e.IsRateLimit():
		return interfaces.ErrAIQuota
	}
	return nil
}

type GeminiClient struct {
	apiKey  string
	model   string
	baseURL string
	http    *http.Client
}

var _ interfaces.AIClient = (*GeminiClient)(nil)

func NewGeminiClient(apiKey, model string) *GeminiClient {
	if model == "" {
		model = "gemini-1.5-flash"
	}
	return &GeminiClient{
		apiKey:  apiKey,
		model:   model,
		baseURL: geminiBase,
		http:    &http.Client{Timeout: 20 * time.Second},
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func (g *GeminiClient) GenerateResponse(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(map[string]any{
		"contents": []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		"generationConfig": map[string]any{
			"temperature":     0.2,
			"maxOutputTokens": 256,
		},
	})
	if err != nil {
		return "", err
	}
	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.baseURL, g.model, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", &GeminiAPIError{StatusCode: resp.StatusCode, Body: string(errBody)}
	}

	var out geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode gemini response: %w", err)
	}
	var sb strings.Builder
	for _, c := range out.Candidates {
		for _, p := range c.Content.Parts {
			sb.WriteString(p.Text)
		}
		if sb.Len() > 0 {
			break
		}
	}
	return strings.TrimSpace(sb.String()), nil
}
