package ingest

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// maxReferenceExamples caps how many reference documents are appended to the
// extraction prompt, to keep it compact.
const maxReferenceExamples = 2

// loadReferenceExamples reads reference JSON documents from dir and returns
// them pretty-printed, at most maxReferenceExamples of them. Files that
// cannot be read or are not valid JSON are skipped individually.
func loadReferenceExamples(dir string) []string {
	if dir == "" {
		return nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		slog.Debug("unable to read reference examples directory", "dir", dir, "error", err)
		return nil
	}

	var examples []string
	for _, entry := range entries {
		if len(examples) == maxReferenceExamples {
			break
		}
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".json") {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			slog.Debug("unable to load reference example", "path", path, "error", err)
			continue
		}

		// Indent instead of re-marshalling so the document's key order
		// is preserved in the prompt.
		var buf bytes.Buffer
		if err := json.Indent(&buf, data, "", "  "); err != nil {
			slog.Debug("reference example is not valid JSON", "path", path, "error", err)
			continue
		}
		examples = append(examples, buf.String())
	}

	return examples
}
