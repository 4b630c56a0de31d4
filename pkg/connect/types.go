package connect

import "time"

// Message is a single note between an investor and a founder, optionally
// scoped to a listing the conversation is about.
type Message struct {
	ID           string    `json:"id"`
	StartupID    int64     `json:"startup_id,omitempty"`
	SenderUUID   string    `json:"sender_uuid"`
	ReceiverUUID string    `json:"receiver_uuid"`
	Content      string    `json:"content"`
	SentAt       time.Time `json:"sent_at"`
}

// inboundFrame is what a connected client sends over the socket.
type inboundFrame struct {
	StartupID    int64  `json:"startup_id,omitempty"`
	ReceiverUUID string `json:"receiver_uuid"`
	Content      string `json:"content"`
}

// Ack confirms to the sender that a frame was processed.
type Ack struct {
	MessageID string `json:"message_id"`
	Status    string `json:"status"` // "sent" or "delivered"
	Error     string `json:"error,omitempty"`
}

// ThreadMessage is one entry of a conversation history (REST API).
type ThreadMessage struct {
	SenderUUID   string `json:"sender_uuid"`
	ReceiverUUID string `json:"receiver_uuid"`
	StartupID    int64  `json:"startup_id,omitempty"`
	Content      string `json:"content"`
	IsRead       bool   `json:"is_read"`
	MessagedAt   int64  `json:"messaged_at"` // epoch seconds
}
