package models

// Export represents the root of a chat export file as produced by the
// Telegram desktop "Export chat history" feature.
type Export struct {
	Name     string    `json:"name"`
	Type     string    `json:"type"`
	ID       int64     `json:"id"`
	Messages []Message `json:"messages"`
}

// ContentMessages returns only the conversational messages, skipping
// service events (joins, title changes, topic creation).
func (e *Export) ContentMessages() []Message {
	out := make([]Message, 0, len(e.Messages))
	for _, m := range e.Messages {
		if m.IsContent() {
			out = append(out, m)
		}
	}
	return out
}
