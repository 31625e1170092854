package models

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Span types found in Telegram export text arrays. Unknown types are
// preserved as-is; flattening only cares about the text content.
const (
	SpanPlain      = "plain"
	SpanBold       = "bold"
	SpanItalic     = "italic"
	SpanCode       = "code"
	SpanPre        = "pre"
	SpanMention    = "mention"
	SpanHashtag    = "hashtag"
	SpanLink       = "link"
	SpanTextLink   = "text_link"
	SpanSpoiler    = "spoiler"
	SpanBlockquote = "blockquote"
	SpanUnderline  = "underline"
	SpanStrike     = "strikethrough"
)

// Span is one typed segment of a rich-text message body.
type Span struct {
	Type string `json:"type"`
	Text string `json:"text"`
	Href string `json:"href,omitempty"`
}

// RichText is an ordered list of spans. The export encodes it either as a
// bare string or as an array whose elements are strings or span objects;
// UnmarshalJSON accepts all three shapes.
type RichText []Span

func (rt *RichText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*rt = nil
		return nil
	}

	// Bare string body
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*rt = nil
			return nil
		}
		*rt = RichText{{Type: SpanPlain, Text: s}}
		return nil
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return err
	}

	spans := make(RichText, 0, len(elems))
	for _, e := range elems {
		e = bytes.TrimSpace(e)
		if len(e) > 0 && e[0] == '"' {
			var s string
			if err := json.Unmarshal(e, &s); err != nil {
				return err
			}
			spans = append(spans, Span{Type: SpanPlain, Text: s})
			continue
		}
		var sp Span
		if err := json.Unmarshal(e, &sp); err != nil {
			return err
		}
		spans = append(spans, sp)
	}
	*rt = spans
	return nil
}

// MarshalJSON writes the span array form.
func (rt RichText) MarshalJSON() ([]byte, error) {
	return json.Marshal([]Span(rt))
}

// Flatten concatenates span text in order, reconstructing the display text.
func (rt RichText) Flatten() string {
	if len(rt) == 0 {
		return ""
	}
	if len(rt) == 1 {
		return rt[0].Text
	}
	var b strings.Builder
	for _, sp := range rt {
		b.WriteString(sp.Text)
	}
	return b.String()
}
