// Package bus defines the message envelopes passed between the HTTP gateway,
// the reply bridge and the provider channels.
package bus

// InboundMessage is a chat message delivered to us by the provider webhook.
type InboundMessage struct {
	Channel   string            `json:"channel"`
	SenderID  string            `json:"sender_id"` // provider address, e.g. "whatsapp:+15551234567"
	Content   string            `json:"content"`
	MessageID string            `json:"message_id,omitempty"` // provider message SID
	Metadata  map[string]string `json:"metadata,omitempty"`
}

type OutboundMessage struct {
	Channel string `json:"channel"`
	From    string `json:"from"`
	To      string `json:"to"`
	Content string `json:"content"`
}

// BroadcastRequest asks for one message to be delivered to every recipient.
type BroadcastRequest struct {
	Recipients []string `json:"numbers"`
	Message    string   `json:"message"`
}
