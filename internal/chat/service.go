// Package chat answers portal chat requests by framing them with a
// context-specific system prompt and forwarding them to the model API.
package chat

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/user/claimsportal/internal/prompt"
	"github.com/user/claimsportal/pkg/llm"
)

// notConfiguredMessage is the user-facing error when credentials are absent.
const notConfiguredMessage = "Azure OpenAI is not configured. Please set AZURE_OPENAI_ENDPOINT and AZURE_OPENAI_KEY in your .env file."

// Request is one chat turn with its optional context payloads. ClaimsData
// and EventLog are kept raw so malformed shapes degrade to "absent" instead
// of failing the request.
type Request struct {
	Message     string          `json:"message"`
	ChatHistory []llm.Message   `json:"chat_history"`
	ContextType string          `json:"context_type"`
	DocumentID  *int            `json:"document_id"`
	ClaimsData  json.RawMessage `json:"claims_data"`
	EventLog    json.RawMessage `json:"event_log"`
}

// Result is the outcome of a chat call. Exactly one of Response and Error is
// meaningful, selected by Success.
type Result struct {
	Success  bool   `json:"success"`
	Response string `json:"response,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Service builds prompts and performs the single model call per request.
type Service struct {
	client     llm.Completer
	counter    *prompt.Counter
	configured bool
}

// New creates a chat service. configured=false turns every call into an
// immediate configuration-error result with no network activity.
func New(client llm.Completer, counter *prompt.Counter, configured bool) *Service {
	return &Service{
		client:     client,
		counter:    counter,
		configured: configured,
	}
}

// Configured reports whether model credentials are present.
func (s *Service) Configured() bool {
	return s.configured
}

// Chat answers one user message. Upstream failures are folded into the
// result rather than returned as errors; the endpoint layer forwards the
// result as-is.
func (s *Service) Chat(ctx context.Context, req Request) Result {
	contextType := req.ContextType
	if contextType == "" {
		contextType = prompt.ContextDashboard
	}

	claims := prompt.DecodeClaims(req.ClaimsData)
	eventLog := prompt.DecodeEventLog(req.EventLog)

	system := prompt.System(contextType, claims, eventLog)
	messages := prompt.Conversation(system, req.ChatHistory, req.Message)

	if !s.configured {
		return Result{Success: false, Error: notConfiguredMessage}
	}

	slog.Debug("sending chat request",
		"context_type", contextType,
		"messages", len(messages),
		"prompt_tokens", s.counter.CountMessages(messages),
	)

	response, err := s.client.Complete(ctx, messages)
	if err != nil {
		return Result{Success: false, Error: "Azure OpenAI API error: " + err.Error()}
	}

	return Result{Success: true, Response: response}
}
