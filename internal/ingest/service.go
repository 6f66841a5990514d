// Package ingest extracts structured JSON from uploaded PDF claim documents
// by combining local text extraction, optional OCR, page rendering, and a
// single model call.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/user/claimsportal/internal/pdf"
	"github.com/user/claimsportal/internal/prompt"
	"github.com/user/claimsportal/pkg/llm"
)

// ErrNotConfigured is returned before any extraction work when the model API
// credentials are missing.
var ErrNotConfigured = errors.New("Azure OpenAI credentials not configured: set AZURE_OPENAI_ENDPOINT, AZURE_OPENAI_KEY, and AZURE_OPENAI_DEPLOYMENT")

// ErrNoText is returned when text inclusion is enabled but the PDF yields no
// readable text. No model call is attempted in that case.
var ErrNoText = errors.New("unable to extract readable text from PDF")

// Extractor produces text and page images from PDF bytes.
type Extractor interface {
	Text(data []byte) (string, pdf.TextMetadata, error)
	Render(data []byte) ([]string, pdf.RenderInfo)
}

// OCR performs best-effort whole-document OCR, returning an empty string on
// any failure.
type OCR interface {
	ExtractText(ctx context.Context, pdfBytes []byte) string
}

// Text source labels recorded in metadata.
const (
	SourcePDFText = "pdf_text"
	SourceOCR     = "mistral_document_ai"
)

// Metadata describes how a document was processed.
type Metadata struct {
	PageCount         int             `json:"page_count"`
	Truncated         bool            `json:"truncated"`
	CharacterCount    int             `json:"character_count"`
	MaxChars          int             `json:"max_chars"`
	TextSource        string          `json:"text_source"`
	OCRWarning        string          `json:"ocr_warning,omitempty"`
	RenderedPageCount int             `json:"rendered_page_count"`
	MaxPages          int             `json:"max_pages"`
	ImageResolution   *pdf.Resolution `json:"image_resolution"`
	PromptTokens      int             `json:"prompt_tokens,omitempty"`
}

// Result is the immutable outcome of one PDF processing call. ParsedJSON is
// nil and ParseError set when the model output was not valid JSON; the raw
// response is preserved either way.
type Result struct {
	FileName    string   `json:"file_name"`
	Metadata    Metadata `json:"metadata"`
	RawResponse string   `json:"raw_response"`
	ParsedJSON  any      `json:"parsed_json"`
	ParseError  string   `json:"parse_error,omitempty"`
}

// Options configures a Service.
type Options struct {
	// Configured reports whether model API credentials are present.
	Configured bool
	// IncludeText controls whether extracted document text is sent to the
	// model; when false the model works from page images alone.
	IncludeText bool
	// ReferenceDir is an optional directory of reference JSON examples that
	// guide extraction.
	ReferenceDir string
}

// Service orchestrates the PDF-to-structured-JSON pipeline.
type Service struct {
	client      llm.Completer
	extractor   Extractor
	ocr         OCR
	counter     *prompt.Counter
	configured  bool
	includeText bool
	examples    []string
}

// New creates an ingestion service. ocr may be nil when the OCR fallback is
// disabled; counter may be nil to skip token accounting. Reference examples
// are loaded once, here.
func New(client llm.Completer, extractor Extractor, ocr OCR, counter *prompt.Counter, opts Options) *Service {
	return &Service{
		client:      client,
		extractor:   extractor,
		ocr:         ocr,
		counter:     counter,
		configured:  opts.Configured,
		includeText: opts.IncludeText,
		examples:    loadReferenceExamples(opts.ReferenceDir),
	}
}

// ProcessPDF extracts structured JSON data from one PDF document. It makes
// at most one model call and never retries.
func (s *Service) ProcessPDF(ctx context.Context, pdfBytes []byte, fileName string) (*Result, error) {
	if !s.configured {
		return nil, ErrNotConfigured
	}

	text, textMeta, err := s.extractor.Text(pdfBytes)
	if err != nil {
		return nil, fmt.Errorf("extract text: %w", err)
	}

	metadata := Metadata{
		PageCount:      textMeta.PageCount,
		Truncated:      textMeta.Truncated,
		CharacterCount: textMeta.CharacterCount,
		MaxChars:       textMeta.MaxChars,
		TextSource:     SourcePDFText,
	}

	if s.includeText && s.ocr != nil {
		if ocrText := s.ocr.ExtractText(ctx, pdfBytes); ocrText != "" {
			text = ocrText
			metadata.TextSource = SourceOCR
		} else {
			metadata.OCRWarning = "OCR failed; falling back to extracted PDF text."
		}
	}

	images, renderInfo := s.extractor.Render(pdfBytes)
	metadata.RenderedPageCount = renderInfo.RenderedPageCount
	metadata.MaxPages = renderInfo.MaxPages
	metadata.ImageResolution = renderInfo.ImageResolution

	if s.includeText && strings.TrimSpace(text) == "" {
		return nil, ErrNoText
	}

	promptText := ""
	if s.includeText {
		promptText = text
	}

	messages := prompt.Extraction(prompt.ExtractionInput{
		FileName:       fileName,
		Text:           promptText,
		IncludeText:    s.includeText,
		PageCount:      metadata.PageCount,
		CharacterCount: metadata.CharacterCount,
		Truncated:      metadata.Truncated,
		Images:         images,
		Examples:       s.examples,
	})
	metadata.PromptTokens = s.counter.CountMessages(messages)

	slog.Info("processing PDF",
		"file_name", fileName,
		"page_count", metadata.PageCount,
		"text_source", metadata.TextSource,
		"rendered_pages", metadata.RenderedPageCount,
		"prompt_tokens", metadata.PromptTokens,
	)

	rawResponse, err := s.client.Complete(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("model call: %w", err)
	}

	result := &Result{
		FileName:    fileName,
		Metadata:    metadata,
		RawResponse: rawResponse,
	}

	parsed, parseErr := ParseModelJSON(rawResponse)
	if parseErr != nil {
		slog.Debug("failed to parse model response as JSON", "error", parseErr)
		result.ParseError = parseErr.Error()
	} else {
		result.ParsedJSON = parsed
	}

	return result, nil
}
