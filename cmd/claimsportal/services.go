package main

import (
	"time"

	"github.com/user/claimsportal/internal/chat"
	"github.com/user/claimsportal/internal/config"
	"github.com/user/claimsportal/internal/ingest"
	"github.com/user/claimsportal/internal/pdf"
	"github.com/user/claimsportal/internal/prompt"
	"github.com/user/claimsportal/pkg/llm/azure"
)

// Fixed sampling parameters and timeouts per call path.
const (
	chatMaxTokens      = 1000
	chatTemperature    = 0.7
	chatTimeout        = 30 * time.Second
	extractMaxTokens   = 2000
	extractTemperature = 0.2
	extractTimeout     = 60 * time.Second
	topP               = 0.9
)

// newChatService wires the chat path: a 30s-timeout client against the chat
// deployment.
func newChatService(cfg *config.Config, counter *prompt.Counter) *chat.Service {
	client := azure.New(&azure.Config{
		Endpoint:    cfg.AzureOpenAI.Endpoint,
		APIKey:      cfg.AzureOpenAI.APIKey,
		Deployment:  cfg.AzureOpenAI.Deployment,
		APIVersion:  cfg.AzureOpenAI.APIVersion,
		MaxTokens:   chatMaxTokens,
		Temperature: chatTemperature,
		TopP:        topP,
		Timeout:     chatTimeout,
	})
	return chat.New(client, counter, cfg.ChatConfigured())
}

// newIngestService wires the PDF ingestion path: a 60s-timeout client
// against the PDF deployment, the local extractor, and the optional OCR
// fallback.
func newIngestService(cfg *config.Config, counter *prompt.Counter) *ingest.Service {
	client := azure.New(&azure.Config{
		Endpoint:    cfg.AzureOpenAI.Endpoint,
		APIKey:      cfg.AzureOpenAI.APIKey,
		Deployment:  cfg.AzureOpenAI.PDFDeployment,
		APIVersion:  cfg.AzureOpenAI.APIVersion,
		MaxTokens:   extractMaxTokens,
		Temperature: extractTemperature,
		TopP:        topP,
		Timeout:     extractTimeout,
	})

	extractor := pdf.NewExtractor(pdf.Config{
		MaxChars:    cfg.Ingestion.MaxChars,
		MaxPages:    cfg.Ingestion.MaxPages,
		RenderScale: cfg.Ingestion.RenderScale,
	})

	var ocr ingest.OCR
	if cfg.OCREnabled() {
		ocr = pdf.NewOCRClient(cfg.Ingestion.OCREndpoint, cfg.Ingestion.OCRKey)
	}

	return ingest.New(client, extractor, ocr, counter, ingest.Options{
		Configured:   cfg.IngestConfigured(),
		IncludeText:  cfg.Ingestion.IncludeText,
		ReferenceDir: cfg.Ingestion.ReferenceDir,
	})
}
