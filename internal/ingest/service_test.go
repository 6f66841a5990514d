package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/user/claimsportal/internal/pdf"
	"github.com/user/claimsportal/pkg/llm"
)

type stubCompleter struct {
	response string
	err      error
	calls    int
	messages []llm.Message
}

func (s *stubCompleter) Complete(_ context.Context, messages []llm.Message) (string, error) {
	s.calls++
	s.messages = messages
	return s.response, s.err
}

type stubExtractor struct {
	text   string
	meta   pdf.TextMetadata
	images []string
	info   pdf.RenderInfo
}

func (s *stubExtractor) Text(_ []byte) (string, pdf.TextMetadata, error) {
	return s.text, s.meta, nil
}

func (s *stubExtractor) Render(_ []byte) ([]string, pdf.RenderInfo) {
	return s.images, s.info
}

type stubOCR struct {
	text  string
	calls int
}

func (s *stubOCR) ExtractText(_ context.Context, _ []byte) string {
	s.calls++
	return s.text
}

func defaultExtractor() *stubExtractor {
	return &stubExtractor{
		text:   "Claim form for Jane Doe",
		meta:   pdf.TextMetadata{PageCount: 2, CharacterCount: 23, MaxChars: 20000},
		images: []string{"aW1nMQ==", "aW1nMg=="},
		info: pdf.RenderInfo{
			RenderedPageCount: 2,
			MaxPages:          3,
			ImageResolution:   &pdf.Resolution{Width: 1224, Height: 1584, Scale: 2.0},
		},
	}
}

func TestProcessPDFNotConfigured(t *testing.T) {
	client := &stubCompleter{}
	svc := New(client, defaultExtractor(), nil, nil, Options{Configured: false, IncludeText: true})

	_, err := svc.ProcessPDF(context.Background(), []byte("%PDF"), "claim.pdf")
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if client.calls != 0 {
		t.Error("no model call should be made when unconfigured")
	}
}

func TestProcessPDFNoReadableText(t *testing.T) {
	extractor := defaultExtractor()
	extractor.text = "   \n  "
	client := &stubCompleter{}
	svc := New(client, extractor, nil, nil, Options{Configured: true, IncludeText: true})

	_, err := svc.ProcessPDF(context.Background(), []byte("%PDF"), "scan.pdf")
	if !errors.Is(err, ErrNoText) {
		t.Fatalf("expected ErrNoText, got %v", err)
	}
	if client.calls != 0 {
		t.Error("no model call should be made without readable text")
	}
}

func TestProcessPDFSuccess(t *testing.T) {
	client := &stubCompleter{response: `{"claim_number": "CLM-001"}`}
	svc := New(client, defaultExtractor(), nil, nil, Options{Configured: true, IncludeText: true})

	result, err := svc.ProcessPDF(context.Background(), []byte("%PDF"), "claim.pdf")
	if err != nil {
		t.Fatal(err)
	}
	if result.FileName != "claim.pdf" {
		t.Errorf("unexpected file name %q", result.FileName)
	}
	if result.Metadata.TextSource != SourcePDFText {
		t.Errorf("expected text source %q, got %q", SourcePDFText, result.Metadata.TextSource)
	}
	if result.Metadata.RenderedPageCount != 2 {
		t.Errorf("expected 2 rendered pages, got %d", result.Metadata.RenderedPageCount)
	}
	if result.ParseError != "" {
		t.Errorf("unexpected parse error %q", result.ParseError)
	}
	obj, ok := result.ParsedJSON.(map[string]any)
	if !ok || obj["claim_number"] != "CLM-001" {
		t.Errorf("unexpected parsed JSON %v", result.ParsedJSON)
	}
	if client.calls != 1 {
		t.Errorf("expected exactly one model call, got %d", client.calls)
	}
}

func TestProcessPDFOCRReplacesText(t *testing.T) {
	client := &stubCompleter{response: "{}"}
	ocr := &stubOCR{text: "OCR recovered text"}
	svc := New(client, defaultExtractor(), ocr, nil, Options{Configured: true, IncludeText: true})

	result, err := svc.ProcessPDF(context.Background(), []byte("%PDF"), "claim.pdf")
	if err != nil {
		t.Fatal(err)
	}
	if ocr.calls != 1 {
		t.Errorf("expected one OCR call, got %d", ocr.calls)
	}
	if result.Metadata.TextSource != SourceOCR {
		t.Errorf("expected text source %q, got %q", SourceOCR, result.Metadata.TextSource)
	}
	if result.Metadata.OCRWarning != "" {
		t.Errorf("unexpected OCR warning %q", result.Metadata.OCRWarning)
	}

	// The user message carries the OCR text, not the original extraction.
	var found bool
	for _, part := range client.messages[len(client.messages)-1].Parts {
		if strings.Contains(part.Text, "OCR recovered text") {
			found = true
		}
	}
	if !found {
		t.Error("prompt should carry the OCR text")
	}
}

func TestProcessPDFOCRFailureFallsBack(t *testing.T) {
	client := &stubCompleter{response: "{}"}
	ocr := &stubOCR{text: ""}
	svc := New(client, defaultExtractor(), ocr, nil, Options{Configured: true, IncludeText: true})

	result, err := svc.ProcessPDF(context.Background(), []byte("%PDF"), "claim.pdf")
	if err != nil {
		t.Fatal(err)
	}
	if result.Metadata.TextSource != SourcePDFText {
		t.Errorf("expected fallback to %q, got %q", SourcePDFText, result.Metadata.TextSource)
	}
	if result.Metadata.OCRWarning == "" {
		t.Error("expected an OCR warning on fallback")
	}
}

func TestProcessPDFImageOnlyMode(t *testing.T) {
	extractor := defaultExtractor()
	extractor.text = "" // image-only mode must not require text
	client := &stubCompleter{response: "{}"}
	svc := New(client, extractor, nil, nil, Options{Configured: true, IncludeText: false})

	if _, err := svc.ProcessPDF(context.Background(), []byte("%PDF"), "scan.pdf"); err != nil {
		t.Fatal(err)
	}
	if client.calls != 1 {
		t.Errorf("expected one model call, got %d", client.calls)
	}
}

func TestProcessPDFModelError(t *testing.T) {
	client := &stubCompleter{err: errors.New("API error (status 500): boom")}
	svc := New(client, defaultExtractor(), nil, nil, Options{Configured: true, IncludeText: true})

	_, err := svc.ProcessPDF(context.Background(), []byte("%PDF"), "claim.pdf")
	if err == nil || !strings.Contains(err.Error(), "status 500") {
		t.Fatalf("expected upstream error, got %v", err)
	}
}

func TestProcessPDFUnparsableResponse(t *testing.T) {
	client := &stubCompleter{response: "Sorry, I cannot read this document."}
	svc := New(client, defaultExtractor(), nil, nil, Options{Configured: true, IncludeText: true})

	result, err := svc.ProcessPDF(context.Background(), []byte("%PDF"), "claim.pdf")
	if err != nil {
		t.Fatal(err)
	}
	if result.RawResponse != "Sorry, I cannot read this document." {
		t.Errorf("raw response should be preserved, got %q", result.RawResponse)
	}
	if result.ParsedJSON != nil {
		t.Errorf("expected nil parsed JSON, got %v", result.ParsedJSON)
	}
	if result.ParseError == "" {
		t.Error("expected a parse error")
	}
}

func TestLoadReferenceExamples(t *testing.T) {
	dir := t.TempDir()
	writeFile := func(name, content string) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	writeFile("a.json", `{"claim_number": "CLM-001"}`)
	writeFile("b.json", "not json at all")
	writeFile("c.json", `{"claim_number": "CLM-002"}`)
	writeFile("notes.txt", `{"claim_number": "ignored"}`)

	examples := loadReferenceExamples(dir)
	if len(examples) != 2 {
		t.Fatalf("expected 2 examples, got %d", len(examples))
	}
	if !strings.Contains(examples[0], "CLM-001") {
		t.Errorf("unexpected first example %q", examples[0])
	}
	if !strings.Contains(examples[1], "CLM-002") {
		t.Errorf("invalid file should be skipped, got %q", examples[1])
	}
}

func TestLoadReferenceExamplesMissingDir(t *testing.T) {
	if examples := loadReferenceExamples(""); examples != nil {
		t.Errorf("expected nil for empty dir, got %v", examples)
	}
	if examples := loadReferenceExamples("/does/not/exist"); examples != nil {
		t.Errorf("expected nil for missing dir, got %v", examples)
	}
}
