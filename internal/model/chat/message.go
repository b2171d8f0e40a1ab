package chat

import "time"

// Message roles as the backend expects them on the wire.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of the fortune-telling transcript.
type Message struct {
	ID            string    `json:"id"`
	Role          string    `json:"role"`
	Text          string    `json:"text"`
	SenderDisplay string    `json:"senderDisplay"`
	CreatedAt     time.Time `json:"createdAt"`
}

// WireMessage is the {role, content} pair sent to the next_question endpoint.
type WireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ToWire maps a transcript to wire messages in the given order.
func ToWire(messages []Message) []WireMessage {
	if len(messages) == 0 {
		return nil
	}
	wire := make([]WireMessage, 0, len(messages))
	for _, msg := range messages {
		wire = append(wire, WireMessage{Role: msg.Role, Content: msg.Text})
	}
	return wire
}
