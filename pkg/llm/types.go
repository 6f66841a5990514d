package llm

import (
	"context"
	"encoding/json"
)

// Message represents a chat message in a conversation. Ordinary chat turns
// carry plain text in Content; multimodal extraction turns carry a list of
// structured Parts instead. At most one of the two is set.
type Message struct {
	Role    string
	Content string
	Parts   []ContentPart
}

// ContentPart is one structured content item of a multimodal message.
type ContentPart struct {
	Type        string `json:"type"`
	Text        string `json:"text,omitempty"`
	ImageBase64 string `json:"image_base64,omitempty"`
	MimeType    string `json:"mime_type,omitempty"`
	PageIndex   *int   `json:"page_index,omitempty"`
}

// TextPart returns a plain text content part.
func TextPart(text string) ContentPart {
	return ContentPart{Type: "text", Text: text}
}

// ImagePart returns an encoded page image content part.
func ImagePart(imageBase64, mimeType string, pageIndex int) ContentPart {
	idx := pageIndex
	return ContentPart{
		Type:        "image_base64",
		ImageBase64: imageBase64,
		MimeType:    mimeType,
		PageIndex:   &idx,
	}
}

// wireMessage is the on-the-wire shape: content is either a string or an
// array of content parts.
type wireMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

// MarshalJSON emits string content for plain turns and a content-part array
// for multimodal turns.
func (m Message) MarshalJSON() ([]byte, error) {
	wm := wireMessage{Role: m.Role}
	if m.Parts != nil {
		wm.Content = m.Parts
	} else {
		wm.Content = m.Content
	}
	return json.Marshal(wm)
}

// UnmarshalJSON accepts both content shapes.
func (m *Message) UnmarshalJSON(data []byte) error {
	var raw struct {
		Role    string          `json:"role"`
		Content json.RawMessage `json:"content"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	m.Role = raw.Role
	m.Content = ""
	m.Parts = nil
	if len(raw.Content) == 0 {
		return nil
	}
	var text string
	if err := json.Unmarshal(raw.Content, &text); err == nil {
		m.Content = text
		return nil
	}
	return json.Unmarshal(raw.Content, &m.Parts)
}

// Completer is the interface chat and ingestion services use to talk to a
// model backend. Implementations handle protocol-specific details such as
// request formatting, authentication, and response parsing.
type Completer interface {
	// Complete sends a chat completion request and returns the text of the
	// first choice.
	Complete(ctx context.Context, messages []Message) (string, error)
}
