package pdf

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestOCRExtractTextRequestFormat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer ocr-key" {
			t.Errorf("unexpected authorization header %q", r.Header.Get("Authorization"))
		}

		body, _ := io.ReadAll(r.Body)
		var req ocrRequest
		if err := json.Unmarshal(body, &req); err != nil {
			t.Fatalf("invalid request body: %v", err)
		}
		if req.Model != "mistral-document-ai-2505" {
			t.Errorf("unexpected model %q", req.Model)
		}
		if req.Document.Type != "document_url" {
			t.Errorf("unexpected document type %q", req.Document.Type)
		}
		if !strings.HasPrefix(req.Document.DocumentURL, "data:application/pdf;base64,") {
			t.Errorf("expected data URL, got %q", req.Document.DocumentURL)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"output": map[string]any{"text": "recognized text"},
		})
	}))
	defer server.Close()

	client := NewOCRClient(server.URL, "ocr-key")
	if got := client.ExtractText(context.Background(), []byte("%PDF")); got != "recognized text" {
		t.Errorf("unexpected OCR text %q", got)
	}
}

func TestOCRExtractTextNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"error": "bad key"}`)
	}))
	defer server.Close()

	client := NewOCRClient(server.URL, "wrong-key")
	if got := client.ExtractText(context.Background(), []byte("%PDF")); got != "" {
		t.Errorf("expected empty result on error status, got %q", got)
	}
}

func TestOCRExtractTextUnreachableEndpoint(t *testing.T) {
	client := NewOCRClient("http://127.0.0.1:1", "ocr-key")
	if got := client.ExtractText(context.Background(), []byte("%PDF")); got != "" {
		t.Errorf("expected empty result on connection failure, got %q", got)
	}
}

func TestCollectFragmentsPlacements(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{
			name: "output text",
			body: `{"output": {"text": "from output"}}`,
			want: "from output",
		},
		{
			name: "output markdown when text absent",
			body: `{"output": {"markdown": "# from markdown"}}`,
			want: "# from markdown",
		},
		{
			name: "output pages",
			body: `{"output": {"pages": [{"text": "page 1"}, {"markdown": "page 2 md"}]}}`,
			want: "page 1\n\npage 2 md",
		},
		{
			name: "top-level pages",
			body: `{"pages": [{"text": "page a"}, {"text": "page b"}]}`,
			want: "page a\n\npage b",
		},
		{
			name: "output text before pages",
			body: `{"output": {"text": "summary"}, "pages": [{"text": "page a"}]}`,
			want: "summary\n\npage a",
		},
		{
			name: "empty response",
			body: `{}`,
			want: "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var result ocrResponse
			if err := json.Unmarshal([]byte(tc.body), &result); err != nil {
				t.Fatal(err)
			}
			if got := joinFragments(collectFragments(&result)); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}
