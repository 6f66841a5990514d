package prompt

import (
	"strings"
	"testing"
)

func TestExtractionWithText(t *testing.T) {
	messages := Extraction(ExtractionInput{
		FileName:       "claim.pdf",
		Text:           "CLAIM FORM CONTENT",
		IncludeText:    true,
		PageCount:      4,
		CharacterCount: 18,
		Truncated:      false,
		Images:         []string{"aW1nMQ==", "aW1nMg=="},
	})

	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	if messages[0].Role != "system" || messages[1].Role != "user" {
		t.Fatalf("unexpected roles: %s, %s", messages[0].Role, messages[1].Role)
	}

	sys := messages[0].Parts
	if len(sys) != 1 {
		t.Fatalf("expected 1 system part without examples, got %d", len(sys))
	}
	if !strings.Contains(sys[0].Text, "PDF ingestion agent") {
		t.Error("expected extraction instructions in system part")
	}

	user := messages[1].Parts
	if len(user) != 3 {
		t.Fatalf("expected text part plus 2 image parts, got %d", len(user))
	}
	if !strings.Contains(user[0].Text, "Document name: claim.pdf") {
		t.Error("expected file name in user prompt")
	}
	if !strings.Contains(user[0].Text, "Page count: 4") {
		t.Error("expected page count in user prompt")
	}
	if !strings.Contains(user[0].Text, "Characters processed: 18 (truncated=false)") {
		t.Error("expected character metadata in user prompt")
	}
	if !strings.Contains(user[0].Text, "CLAIM FORM CONTENT") {
		t.Error("expected document text in user prompt")
	}

	for i, part := range user[1:] {
		if part.Type != "image_base64" {
			t.Errorf("part %d: expected image_base64 type, got %q", i, part.Type)
		}
		if part.MimeType != "image/jpeg" {
			t.Errorf("part %d: expected image/jpeg, got %q", i, part.MimeType)
		}
		if part.PageIndex == nil || *part.PageIndex != i {
			t.Errorf("part %d: wrong page index %v", i, part.PageIndex)
		}
	}
}

func TestExtractionImageOnly(t *testing.T) {
	messages := Extraction(ExtractionInput{
		FileName:    "scan.pdf",
		IncludeText: false,
		PageCount:   2,
		Images:      []string{"aW1n"},
	})

	user := messages[1].Parts
	if !strings.Contains(user[0].Text, "Text extraction was deliberately skipped") {
		t.Error("expected image-only instruction")
	}
	if strings.Contains(user[0].Text, "Document content begins below") {
		t.Error("document text section should be absent in image-only mode")
	}
}

func TestExtractionIncludesExamples(t *testing.T) {
	messages := Extraction(ExtractionInput{
		FileName:    "claim.pdf",
		Text:        "x",
		IncludeText: true,
		Examples:    []string{`{"ClaimDetails": {}}`, `{"Invoice": {}}`},
	})

	sys := messages[0].Parts
	if len(sys) != 2 {
		t.Fatalf("expected instructions plus examples part, got %d parts", len(sys))
	}
	if !strings.Contains(sys[1].Text, "examples of the desired JSON structure") {
		t.Error("expected examples preamble")
	}
	if !strings.Contains(sys[1].Text, `"ClaimDetails"`) || !strings.Contains(sys[1].Text, `"Invoice"`) {
		t.Error("expected both examples in the snippet")
	}
}
