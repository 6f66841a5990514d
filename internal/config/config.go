// Package config loads the process-wide configuration from the environment
// (optionally seeded from a .env file) once at startup. The resulting value
// is treated as read-only and passed into each component at construction.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Defaults for every recognized option.
const (
	DefaultAddr        = ":8000"
	DefaultLogLevel    = "info"
	DefaultDataDir     = "data"
	DefaultModel       = "gpt-4"
	DefaultDeployment  = "gpt-4"
	DefaultAPIVersion  = "2024-02-15-preview"
	DefaultOCREndpoint = "https://mirakalous-ai-rnd.services.ai.azure.com/providers/mistral/azure/ocr"
	DefaultMaxChars    = 20000
	DefaultMaxPages    = 3
	DefaultRenderScale = 2.0
	DefaultReferenceDir = "data/reference_examples"
)

// defaultCORSOrigins are the portal frontend origins allowed by default.
var defaultCORSOrigins = []string{
	"http://localhost:3030",
	"http://localhost:3031",
	"http://localhost:5173",
	"http://localhost:8004",
}

// AzureOpenAI holds the model API credentials and deployment names.
type AzureOpenAI struct {
	Endpoint      string `json:"endpoint"`
	APIKey        string `json:"api_key"`
	Model         string `json:"model"`
	Deployment    string `json:"deployment"`
	PDFDeployment string `json:"pdf_deployment"`
	APIVersion    string `json:"api_version"`
}

// Ingestion holds the PDF ingestion toggles and bounds.
type Ingestion struct {
	IncludeText  bool    `json:"include_text"`
	UseOCR       bool    `json:"use_ocr"`
	OCREndpoint  string  `json:"ocr_endpoint"`
	OCRKey       string  `json:"ocr_key"`
	MaxChars     int     `json:"max_chars"`
	MaxPages     int     `json:"max_pages"`
	RenderScale  float64 `json:"render_scale"`
	ReferenceDir string  `json:"reference_dir"`
}

// Config is the full process configuration.
type Config struct {
	Addr        string      `json:"addr"`
	LogLevel    string      `json:"log_level"`
	DataDir     string      `json:"data_dir"`
	CORSOrigins []string    `json:"cors_origins"`
	AzureOpenAI AzureOpenAI `json:"azure_openai"`
	Ingestion   Ingestion   `json:"ingestion"`
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first when present; real environment variables
// always win.
func Load() *Config {
	// Best-effort: a missing .env file is not an error.
	_ = godotenv.Load()

	cfg := &Config{
		Addr:        envStr("ADDR", DefaultAddr),
		LogLevel:    envStr("LOG_LEVEL", DefaultLogLevel),
		DataDir:     envStr("DATA_DIR", DefaultDataDir),
		CORSOrigins: envList("CORS_ALLOWED_ORIGINS", defaultCORSOrigins),
		AzureOpenAI: AzureOpenAI{
			Endpoint:      os.Getenv("AZURE_OPENAI_ENDPOINT"),
			APIKey:        os.Getenv("AZURE_OPENAI_KEY"),
			Model:         envStr("AZURE_OPENAI_MODEL", DefaultModel),
			Deployment:    envStr("AZURE_OPENAI_DEPLOYMENT", DefaultDeployment),
			PDFDeployment: os.Getenv("AZURE_OPENAI_PDF_DEPLOYMENT"),
			APIVersion:    envStr("AZURE_OPENAI_API_VERSION", DefaultAPIVersion),
		},
		Ingestion: Ingestion{
			IncludeText:  envFlag("PDF_INGESTION_INCLUDE_TEXT", true),
			UseOCR:       envFlag("PDF_INGESTION_USE_MISTRAL", false),
			OCREndpoint:  envStr("MISTRAL_OCR_ENDPOINT", DefaultOCREndpoint),
			OCRKey:       os.Getenv("MISTRAL_KEY"),
			MaxChars:     envInt("PDF_INGESTION_MAX_CHARS", DefaultMaxChars),
			MaxPages:     envInt("PDF_INGESTION_MAX_PAGES", DefaultMaxPages),
			RenderScale:  envFloat("PDF_INGESTION_RENDER_SCALE", DefaultRenderScale),
			ReferenceDir: envStr("REFERENCE_EXAMPLES_DIR", DefaultReferenceDir),
		},
	}

	if cfg.AzureOpenAI.PDFDeployment == "" {
		cfg.AzureOpenAI.PDFDeployment = cfg.AzureOpenAI.Deployment
	}

	return cfg
}

// ChatConfigured reports whether the chat path has usable credentials.
func (c *Config) ChatConfigured() bool {
	return c.AzureOpenAI.Endpoint != "" && c.AzureOpenAI.APIKey != ""
}

// IngestConfigured reports whether the PDF ingestion path has usable
// credentials, including a deployment name.
func (c *Config) IngestConfigured() bool {
	return c.ChatConfigured() && c.AzureOpenAI.PDFDeployment != ""
}

// OCREnabled reports whether the OCR fallback is both switched on and
// credentialed.
func (c *Config) OCREnabled() bool {
	return c.Ingestion.UseOCR && c.Ingestion.OCREndpoint != "" && c.Ingestion.OCRKey != ""
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

// envFlag parses a boolean toggle leniently: when the default is true, any
// value other than "false" keeps it on; when false, only "true" turns it on.
func envFlag(key string, fallback bool) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if v == "" {
		return fallback
	}
	if fallback {
		return v != "false"
	}
	return v == "true"
}

func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
