package llm

import (
	"encoding/json"
	"testing"
)

func TestMessageMarshalPlainText(t *testing.T) {
	data, err := json.Marshal(Message{Role: "user", Content: "hello"})
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"role":"user","content":"hello"}` {
		t.Errorf("unexpected wire shape: %s", data)
	}
}

func TestMessageMarshalParts(t *testing.T) {
	msg := Message{
		Role: "user",
		Parts: []ContentPart{
			TextPart("read this"),
			ImagePart("aW1n", "image/jpeg", 0),
		},
	}

	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatal(err)
	}

	var decoded struct {
		Role    string        `json:"role"`
		Content []ContentPart `json:"content"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("content should be an array for multimodal messages: %v", err)
	}
	if len(decoded.Content) != 2 {
		t.Fatalf("expected 2 content parts, got %d", len(decoded.Content))
	}
	if decoded.Content[0].Type != "text" || decoded.Content[0].Text != "read this" {
		t.Errorf("unexpected text part: %+v", decoded.Content[0])
	}
	img := decoded.Content[1]
	if img.Type != "image_base64" || img.ImageBase64 != "aW1n" || img.MimeType != "image/jpeg" {
		t.Errorf("unexpected image part: %+v", img)
	}
	if img.PageIndex == nil || *img.PageIndex != 0 {
		t.Errorf("expected page index 0, got %v", img.PageIndex)
	}
}

func TestMessageUnmarshalBothShapes(t *testing.T) {
	var plain Message
	if err := json.Unmarshal([]byte(`{"role":"assistant","content":"hi"}`), &plain); err != nil {
		t.Fatal(err)
	}
	if plain.Role != "assistant" || plain.Content != "hi" || plain.Parts != nil {
		t.Errorf("unexpected plain message: %+v", plain)
	}

	var multi Message
	if err := json.Unmarshal([]byte(`{"role":"user","content":[{"type":"text","text":"x"}]}`), &multi); err != nil {
		t.Fatal(err)
	}
	if len(multi.Parts) != 1 || multi.Parts[0].Text != "x" {
		t.Errorf("unexpected multimodal message: %+v", multi)
	}
}
