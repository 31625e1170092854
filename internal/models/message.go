package models

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Message kinds as encoded in the export's "type" field.
const (
	TypeMessage = "message"
	TypeService = "service"
)

// Reactor identifies one entry in a reaction's bounded "recent" sample.
// The sample undercounts true reactors; Count on the parent Reaction is
// the authoritative total.
type Reactor struct {
	From   string `json:"from"`
	FromID string `json:"from_id"`
}

// Reaction is one emoji reaction on a message.
type Reaction struct {
	Emoji  string    `json:"emoji"`
	Count  int       `json:"count"`
	Recent []Reactor `json:"recent,omitempty"`
}

// Message is one record of the export, either a conversational message or
// a service event. IDs are unique within an export and are the only safe
// join key across derived structures.
type Message struct {
	ID               int        `json:"id"`
	Type             string     `json:"type"`
	Action           string     `json:"action,omitempty"`
	Date             string     `json:"date"`
	DateUnix         string     `json:"date_unixtime,omitempty"`
	Edited           string     `json:"edited,omitempty"`
	From             string     `json:"from,omitempty"`
	FromID           string     `json:"from_id,omitempty"`
	Actor            string     `json:"actor,omitempty"`
	ActorID          string     `json:"actor_id,omitempty"`
	Title            string     `json:"title,omitempty"`
	Text             RichText   `json:"text,omitempty"`
	ReplyToMessageID *int       `json:"reply_to_message_id,omitempty"`
	ForwardedFrom    string     `json:"forwarded_from,omitempty"`
	Reactions        []Reaction `json:"reactions,omitempty"`
	Photo            string     `json:"photo,omitempty"`
	File             string     `json:"file,omitempty"`
	MediaType        string     `json:"media_type,omitempty"`
	MimeType         string     `json:"mime_type,omitempty"`
	DurationSeconds  int        `json:"duration_seconds,omitempty"`
}

var (
	hashtagRegex = regexp.MustCompile(`#[\p{L}\p{N}_]+`)
	linkRegex    = regexp.MustCompile(`https?://\S+`)
)

// IsContent reports whether this is a conversational message rather than
// a service event.
func (m *Message) IsContent() bool {
	return m.Type == TypeMessage
}

// IsReply reports whether the message references a parent message.
func (m *Message) IsReply() bool {
	return m.ReplyToMessageID != nil
}

// IsForwarded reports whether the message carries a forward origin label.
func (m *Message) IsForwarded() bool {
	return m.ForwardedFrom != ""
}

// PlainText returns the display text with all rich-text spans flattened in
// order. Every text-based heuristic downstream depends on this accessor.
func (m *Message) PlainText() string {
	return m.Text.Flatten()
}

// TextLength returns the display text length in runes.
func (m *Message) TextLength() int {
	return utf8.RuneCountInString(m.PlainText())
}

// SenderKey returns the stable grouping key for the message's author: the
// sender identifier when present, else the display name. Senders without a
// stable identifier merge only on exact display-name match.
func (m *Message) SenderKey() string {
	if m.FromID != "" {
		return m.FromID
	}
	if m.From != "" {
		return m.From
	}
	if m.ActorID != "" {
		return m.ActorID
	}
	return m.Actor
}

// SenderName returns the display name of the message author.
func (m *Message) SenderName() string {
	if m.From != "" {
		return m.From
	}
	return m.Actor
}

// Time parses the message timestamp. It prefers the unix field and falls
// back to the human-readable date; the zero time means unparseable.
func (m *Message) Time() time.Time {
	if m.DateUnix != "" {
		if sec, err := strconv.ParseInt(m.DateUnix, 10, 64); err == nil {
			return time.Unix(sec, 0).UTC()
		}
	}
	if m.Date != "" {
		if t, err := time.Parse("2006-01-02T15:04:05", m.Date); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

// ReactionTotal sums reaction counts. Counts are authoritative even when
// the per-reactor sample is shorter.
func (m *Message) ReactionTotal() int {
	total := 0
	for _, r := range m.Reactions {
		total += r.Count
	}
	return total
}

// HasMedia reports whether the message carries any media descriptor.
func (m *Message) HasMedia() bool {
	return m.Photo != "" || m.File != "" || m.MediaType != ""
}

// MediaKind returns a coarse media category, or "" for text-only messages.
func (m *Message) MediaKind() string {
	if m.MediaType != "" {
		return m.MediaType
	}
	if m.Photo != "" {
		return "photo"
	}
	if m.File != "" {
		return "file"
	}
	return ""
}

// HasLink reports whether the message contains a link span or a bare URL.
func (m *Message) HasLink() bool {
	for _, sp := range m.Text {
		if sp.Type == SpanLink || sp.Type == SpanTextLink {
			return true
		}
	}
	return linkRegex.MatchString(m.PlainText())
}

// Hashtags extracts lowercased hashtags (without the leading '#') from the
// display text, deduplicated, in order of first appearance.
func (m *Message) Hashtags() []string {
	matches := hashtagRegex.FindAllString(m.PlainText(), -1)
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(matches))
	tags := make([]string, 0, len(matches))
	for _, h := range matches {
		tag := strings.ToLower(strings.TrimPrefix(h, "#"))
		if !seen[tag] {
			seen[tag] = true
			tags = append(tags, tag)
		}
	}
	return tags
}
