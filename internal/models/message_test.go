package models

import (
	"encoding/json"
	"testing"
)

func TestRichTextBareString(t *testing.T) {
	var m Message
	if err := json.Unmarshal([]byte(`{"id":1,"type":"message","text":"hello world"}`), &m); err != nil {
		t.Fatal(err)
	}
	if got := m.PlainText(); got != "hello world" {
		t.Fatalf("expected %q, got %q", "hello world", got)
	}
}

func TestRichTextMixedSpans(t *testing.T) {
	raw := `{"id":2,"type":"message","text":["check ",{"type":"bold","text":"this"},{"type":"text_link","text":" link","href":"https://example.com"},{"type":"hashtag","text":" #golang"}]}`
	var m Message
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		t.Fatal(err)
	}
	if got := m.PlainText(); got != "check this link #golang" {
		t.Fatalf("unexpected flattened text: %q", got)
	}
	if !m.HasLink() {
		t.Fatal("expected HasLink to be true for text_link span")
	}
	tags := m.Hashtags()
	if len(tags) != 1 || tags[0] != "golang" {
		t.Fatalf("expected [golang], got %v", tags)
	}
}

func TestRichTextUnknownSpanType(t *testing.T) {
	raw := `{"id":3,"type":"message","text":[{"type":"custom_emoji","text":"🔥"}]}`
	var m Message
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		t.Fatal(err)
	}
	if got := m.PlainText(); got != "🔥" {
		t.Fatalf("unknown span text should survive flattening, got %q", got)
	}
}

func TestRichTextEmpty(t *testing.T) {
	var m Message
	if err := json.Unmarshal([]byte(`{"id":4,"type":"message","text":""}`), &m); err != nil {
		t.Fatal(err)
	}
	if m.PlainText() != "" {
		t.Fatal("empty text should flatten to empty string")
	}
	if m.TextLength() != 0 {
		t.Fatal("empty text should have zero length")
	}
}

func TestSenderKeyPrefersID(t *testing.T) {
	m := Message{From: "Alice", FromID: "user100"}
	if m.SenderKey() != "user100" {
		t.Fatalf("expected user100, got %s", m.SenderKey())
	}
	m = Message{From: "Alice"}
	if m.SenderKey() != "Alice" {
		t.Fatalf("expected display-name fallback, got %s", m.SenderKey())
	}
}

func TestTimeParsing(t *testing.T) {
	m := Message{Date: "2024-01-15T09:30:00", DateUnix: "1705311000"}
	if m.Time().IsZero() {
		t.Fatal("expected parseable timestamp")
	}
	if m.Time().Unix() != 1705311000 {
		t.Fatalf("unix field should win, got %d", m.Time().Unix())
	}

	m = Message{Date: "2024-01-15T09:30:00"}
	if m.Time().Hour() != 9 {
		t.Fatalf("expected hour 9, got %d", m.Time().Hour())
	}

	m = Message{}
	if !m.Time().IsZero() {
		t.Fatal("missing dates should yield zero time")
	}
}

func TestReactionTotal(t *testing.T) {
	m := Message{Reactions: []Reaction{
		{Emoji: "👍", Count: 5, Recent: []Reactor{{From: "Bob", FromID: "user2"}}},
		{Emoji: "❤️", Count: 3},
	}}
	if m.ReactionTotal() != 8 {
		t.Fatalf("expected 8, got %d", m.ReactionTotal())
	}
}

func TestHasLinkBareURL(t *testing.T) {
	m := Message{Text: RichText{{Type: SpanPlain, Text: "see https://go.dev for docs"}}}
	if !m.HasLink() {
		t.Fatal("expected bare URL to count as link")
	}
}

func TestContentMessages(t *testing.T) {
	e := Export{Messages: []Message{
		{ID: 1, Type: TypeMessage},
		{ID: 2, Type: TypeService, Action: "topic_created"},
		{ID: 3, Type: TypeMessage},
	}}
	got := e.ContentMessages()
	if len(got) != 2 {
		t.Fatalf("expected 2 content messages, got %d", len(got))
	}
}
