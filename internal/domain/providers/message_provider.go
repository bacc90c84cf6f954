package providers

import (
	"context"
)

// MessageSender defines the interface for outbound patient messaging.
// Delivery is handled by an external collaborator (WhatsApp Cloud API in
// production); the monitoring engine only hands it rendered messages.
type MessageSender interface {
	// SendText sends a plain text message and returns the provider message ID
	SendText(ctx context.Context, to, body string) (string, error)
}
