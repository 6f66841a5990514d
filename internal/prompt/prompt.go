// Package prompt builds the chat-completion message lists sent to the model:
// context-specific system prompts for the dashboard chat, history truncation,
// and the multimodal extraction prompt for PDF ingestion. Everything here is
// pure; no network calls are made.
package prompt

import (
	"encoding/json"
	"strings"

	"github.com/user/claimsportal/pkg/llm"
)

// Context kinds accepted by chat requests.
const (
	ContextDashboard = "dashboard"
	ContextDocument  = "document"
	ContextGeneral   = "general"
)

// HistoryLimit is the number of prior conversation turns retained, i.e. the
// last 10 request/response pairs.
const HistoryLimit = 20

const dashboardBasePrompt = `You are an intelligent assistant for SunLife Insurance Claims Processing Dashboard.
You help users understand and analyze insurance claims data, statistics, and processing information.

You can help with:
1. Explaining claims statistics (processed, accepted, pending, denied)
2. Analyzing geographical distribution of claims
3. Understanding claim details and patterns
4. Answering questions about claims processing
5. Providing insights about claim trends
6. Helping with data interpretation and analysis

Instructions:
1. Be helpful and accurate in your responses
2. Use the provided claims data when available
3. Provide specific numbers and statistics when relevant
4. Keep responses concise but informative
5. If asked about something not in the data, say so clearly
6. Format responses with markdown for better readability
7. Use emojis sparingly to enhance readability (✅ accepted, ⏳ pending, ❌ denied)
8. When presenting data in tables or lists, ALWAYS use proper markdown table format:
   - Use markdown tables (| column | column |) for tabular data
   - Use markdown lists (- or 1.) for sequential data
   - Use bold (**text**) for emphasis on numbers or key points
   - Ensure tables are properly formatted with headers and alignment

Please help the user understand and analyze their insurance claims data.`

const documentPrompt = `You are an intelligent document assistant for SunLife Insurance.
You help users understand and analyze insurance claim documents, forms, and related paperwork.

You can help with:
1. Extracting information from documents
2. Understanding document content
3. Answering questions about document details
4. Identifying key information in forms
5. Explaining document structure and purpose

Instructions:
1. Be helpful and accurate in your responses
2. Use the provided document content when available
3. Provide specific quotes or references when possible
4. Keep responses concise but informative
5. If asked about something not in the document, say so clearly
6. Format responses with markdown for better readability

Please help the user understand and analyze their insurance documents.`

const generalPrompt = `You are an intelligent assistant for SunLife Insurance Claims Processing Portal.
You help users with questions about insurance claims, processing, and general inquiries.

Instructions:
1. Be helpful and accurate in your responses
2. Keep responses concise but informative
3. Format responses with markdown for better readability
4. If you don't know something, say so clearly

Please help the user with their questions.`

// System returns the system prompt for the given context type. Claims data
// and the event log only apply to the dashboard context.
func System(contextType string, claims *ClaimsSummary, eventLog []json.RawMessage) string {
	switch contextType {
	case ContextDashboard:
		return Dashboard(claims, eventLog)
	case ContextDocument:
		return Document()
	default:
		return General()
	}
}

// Dashboard renders the dashboard system prompt. Sections for claims data
// and agent activity are omitted entirely when the corresponding input is
// absent.
func Dashboard(claims *ClaimsSummary, eventLog []json.RawMessage) string {
	parts := []string{dashboardBasePrompt}

	if claims != nil {
		parts = append(parts, "\nCurrent Claims Data Summary:\n"+formatClaimsSummary(claims))
	}

	if len(eventLog) > 0 {
		parts = append(parts, "\nClaims Process Agent Activity Log:\n"+formatEventLog(eventLog))
		parts = append(parts, "\nUse the activity log to answer questions about the claims process agent stages, actions taken, extracted information, branching decisions, and outcomes.")
	}

	if claims != nil || len(eventLog) > 0 {
		parts = append(parts, "\nUse this data to provide accurate and relevant responses.")
	}

	return strings.Join(parts, "\n")
}

// Document returns the fixed document-chat system prompt.
func Document() string {
	return documentPrompt
}

// General returns the fixed minimal system prompt.
func General() string {
	return generalPrompt
}

// Conversation assembles the full message list for a chat call: the system
// message, the most recent HistoryLimit prior turns in original order, then
// the new user message.
func Conversation(system string, history []llm.Message, userMessage string) []llm.Message {
	if len(history) > HistoryLimit {
		history = history[len(history)-HistoryLimit:]
	}

	messages := make([]llm.Message, 0, len(history)+2)
	messages = append(messages, llm.Message{Role: "system", Content: system})
	messages = append(messages, history...)
	messages = append(messages, llm.Message{Role: "user", Content: userMessage})
	return messages
}
