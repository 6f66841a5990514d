// Package pdf turns raw PDF bytes into model-ready inputs: concatenated
// length-capped page text and base64-encoded page raster images. Per-page
// failures degrade the result instead of aborting it.
package pdf

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Defaults applied when a Config field is left zero.
const (
	DefaultMaxChars    = 20000
	DefaultMaxPages    = 3
	DefaultRenderScale = 2.0
)

// Config bounds how much of a document is extracted and rendered.
type Config struct {
	MaxChars    int
	MaxPages    int
	RenderScale float64
}

// Extractor extracts text and page images from PDF documents.
type Extractor struct {
	maxChars int
	maxPages int
	scale    float64
}

// NewExtractor creates an extractor, filling unset config fields with the
// package defaults.
func NewExtractor(cfg Config) *Extractor {
	e := &Extractor{
		maxChars: cfg.MaxChars,
		maxPages: cfg.MaxPages,
		scale:    cfg.RenderScale,
	}
	if e.maxChars <= 0 {
		e.maxChars = DefaultMaxChars
	}
	if e.maxPages <= 0 {
		e.maxPages = DefaultMaxPages
	}
	if e.scale <= 0 {
		e.scale = DefaultRenderScale
	}
	return e
}

// TextMetadata describes the outcome of a text extraction pass.
type TextMetadata struct {
	PageCount      int  `json:"page_count"`
	Truncated      bool `json:"truncated"`
	CharacterCount int  `json:"character_count"`
	MaxChars       int  `json:"max_chars"`
}

// Text extracts page text in order, joins non-empty pages with a blank line,
// and truncates to the configured character cap. A page that fails to yield
// text contributes an empty string and a warning log rather than an error.
func (e *Extractor) Text(data []byte) (string, TextMetadata, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", TextMetadata{}, fmt.Errorf("open pdf: %w", err)
	}

	pageCount := reader.NumPage()
	chunks := make([]string, 0, pageCount)
	for i := 1; i <= pageCount; i++ {
		text, err := pageText(reader, i)
		if err != nil {
			slog.Warn("failed to extract text from page", "page", i, "error", err)
			text = ""
		}
		chunks = append(chunks, strings.TrimSpace(text))
	}

	text, truncated := joinAndTruncate(chunks, e.maxChars)
	metadata := TextMetadata{
		PageCount:      pageCount,
		Truncated:      truncated,
		CharacterCount: len([]rune(text)),
		MaxChars:       e.maxChars,
	}
	return text, metadata, nil
}

// pageText extracts the plain text of a single page. Malformed pages can
// make the library panic, so that is converted into an error here.
func pageText(reader *pdf.Reader, num int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("page %d: %v", num, r)
		}
	}()

	page := reader.Page(num)
	if page.V.IsNull() {
		return "", fmt.Errorf("page %d: missing page object", num)
	}
	return page.GetPlainText(nil)
}

// joinAndTruncate joins non-empty chunks with a blank-line separator and
// caps the result at max characters.
func joinAndTruncate(chunks []string, max int) (string, bool) {
	nonEmpty := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		if chunk != "" {
			nonEmpty = append(nonEmpty, chunk)
		}
	}

	text := strings.Join(nonEmpty, "\n\n")
	runes := []rune(text)
	if len(runes) <= max {
		return text, false
	}
	return string(runes[:max]), true
}
