package pdf

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// ocrModel is the document-AI model name sent with every OCR request.
const ocrModel = "mistral-document-ai-2505"

// OCRClient calls an external document-AI OCR endpoint with a whole PDF.
// It is strictly best-effort: any failure yields an empty result so the
// caller can fall back to locally extracted text.
type OCRClient struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

// NewOCRClient creates an OCR client for the given endpoint and key.
func NewOCRClient(endpoint, apiKey string) *OCRClient {
	return &OCRClient{
		endpoint: endpoint,
		apiKey:   apiKey,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

type ocrRequest struct {
	Model              string      `json:"model"`
	Document           ocrDocument `json:"document"`
	IncludeImageBase64 bool        `json:"include_image_base64"`
}

type ocrDocument struct {
	Type        string `json:"type"`
	DocumentURL string `json:"document_url"`
}

// ocrResponse covers the known placements of text fragments: a primary
// output object, page lists nested under it, and a top-level page list.
type ocrResponse struct {
	Output *ocrOutput `json:"output"`
	Pages  []ocrPage  `json:"pages"`
}

type ocrOutput struct {
	Text     string    `json:"text"`
	Markdown string    `json:"markdown"`
	Pages    []ocrPage `json:"pages"`
}

type ocrPage struct {
	Text     string `json:"text"`
	Markdown string `json:"markdown"`
}

// ExtractText OCRs the PDF and concatenates every discoverable text or
// markdown fragment. It returns an empty string on any failure or when the
// response carries no text.
func (c *OCRClient) ExtractText(ctx context.Context, pdfBytes []byte) string {
	payload := ocrRequest{
		Model: ocrModel,
		Document: ocrDocument{
			Type:        "document_url",
			DocumentURL: "data:application/pdf;base64," + base64.StdEncoding.EncodeToString(pdfBytes),
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		slog.Warn("failed to marshal OCR request", "error", err)
		return ""
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		slog.Warn("failed to create OCR request", "error", err)
		return ""
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Warn("OCR request failed", "error", err)
		return ""
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Warn("failed to read OCR response", "error", err)
		return ""
	}

	if resp.StatusCode != http.StatusOK {
		slog.Warn("OCR error", "status", resp.StatusCode, "body", string(respBody))
		return ""
	}

	var result ocrResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		slog.Warn("failed to parse OCR response", "error", err)
		return ""
	}

	return joinFragments(collectFragments(&result))
}

// collectFragments gathers text from every known fragment location, in a
// fixed order: primary output text, output page list, top-level page list.
func collectFragments(result *ocrResponse) []string {
	var fragments []string
	appendPage := func(page ocrPage) {
		if page.Text != "" {
			fragments = append(fragments, page.Text)
		} else if page.Markdown != "" {
			fragments = append(fragments, page.Markdown)
		}
	}

	if result.Output != nil {
		if result.Output.Text != "" {
			fragments = append(fragments, result.Output.Text)
		} else if result.Output.Markdown != "" {
			fragments = append(fragments, result.Output.Markdown)
		}
		for _, page := range result.Output.Pages {
			appendPage(page)
		}
	}
	for _, page := range result.Pages {
		appendPage(page)
	}
	return fragments
}

func joinFragments(fragments []string) string {
	trimmed := make([]string, 0, len(fragments))
	for _, fragment := range fragments {
		if f := strings.TrimSpace(fragment); f != "" {
			trimmed = append(trimmed, f)
		}
	}
	return strings.TrimSpace(strings.Join(trimmed, "\n\n"))
}
