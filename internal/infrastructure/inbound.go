package infrastructure

import (
	"context"
	"fmt"
	"strings"

	"wa_botflow/internal/entities"
)

// InboundHandler runs one conversation turn for a transport. A nil result
// with a nil error means the bot must stay silent.
type InboundHandler func(ctx context.Context, ev entities.InboundEvent) (*entities.RouterResult, error)

// FormatNumberedReply renders a reply for transports without native
// buttons. The customer answers with the number, which the conversation
// service maps back to the offered button.
func FormatNumberedReply(reply entities.RouterResult) string {
	if len(reply.Buttons) == 0 {
		return reply.ReplyText
	}
	var sb strings.Builder
	sb.WriteString(reply.ReplyText)
	sb.WriteString("\n")
	for i, b := range reply.Buttons {
		fmt.Fprintf(&sb, "\n%d. %s", i+1, b.Title)
	}
	sb.WriteString("\n\nReply with a number to choose.")
	return sb.String()
}
