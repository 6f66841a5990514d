package prompt

import (
	"fmt"
	"strings"

	"github.com/user/claimsportal/pkg/llm"
)

const extractionInstructions = "You are a Sun Life insurance PDF ingestion agent. " +
	"Your task is to extract structured data from dental and medical claim PDFs. " +
	"Return a single JSON object that mirrors the fields present in the PDF. " +
	"Use the following guidelines:\n" +
	"1. Key top-level sections typically include ClaimantInformation, ClaimDetails, ProviderInformation, " +
	"Invoice, PrescriptionRequest, and AdditionalNotes.\n" +
	"2. Within each section, include all data points that appear in the document. " +
	"Use nested objects to reflect structure (e.g., addresses, items, expenses).\n" +
	"3. Preserve numeric values as numbers when possible, otherwise keep strings.\n" +
	"4. Use null for fields that are explicitly absent but expected.\n" +
	"5. NEVER invent data that is not in the document. If unsure, omit the field or set it to null.\n" +
	"6. Preserve bilingual (French/English) text when present.\n" +
	"7. Output valid JSON only. Do not include commentary, markdown, or code fences.\n"

// ExtractionInput carries everything needed to build an extraction prompt
// for one PDF document.
type ExtractionInput struct {
	FileName       string
	Text           string
	IncludeText    bool
	PageCount      int
	CharacterCount int
	Truncated      bool
	// Images are base64-encoded JPEG page renders in increasing page order.
	Images []string
	// Examples are pretty-printed reference JSON documents appended to the
	// system message as guidance.
	Examples []string
}

// Extraction builds the two-message multimodal prompt for structured data
// extraction: a system message with fixed instructions plus optional
// reference examples, and a user message with the document text (or an
// image-only instruction) followed by one content part per rendered page.
func Extraction(in ExtractionInput) []llm.Message {
	systemParts := []llm.ContentPart{llm.TextPart(extractionInstructions)}
	if len(in.Examples) > 0 {
		snippet := "Here are examples of the desired JSON structure derived from similar documents:\n" +
			strings.Join(in.Examples, "\n\n")
		systemParts = append(systemParts, llm.TextPart(snippet))
	}

	var userPrompt string
	if in.IncludeText {
		userPrompt = fmt.Sprintf(
			"Document name: %s\nPage count: %d\nCharacters processed: %d (truncated=%t)\n\nDocument content begins below:\n%s",
			in.FileName, in.PageCount, in.CharacterCount, in.Truncated, in.Text)
	} else {
		userPrompt = fmt.Sprintf(
			"Document name: %s\nPage count: %d\n"+
				"Text extraction was deliberately skipped. "+
				"Use only the supplied page images to read the document and extract every data field. "+
				"Return the structured JSON exactly as specified in the instructions.",
			in.FileName, in.PageCount)
	}

	userParts := []llm.ContentPart{llm.TextPart(userPrompt)}
	for idx, image := range in.Images {
		userParts = append(userParts, llm.ImagePart(image, "image/jpeg", idx))
	}

	return []llm.Message{
		{Role: "system", Parts: systemParts},
		{Role: "user", Parts: userParts},
	}
}
