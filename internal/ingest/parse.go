package ingest

import (
	"encoding/json"
	"strings"
)

// ParseModelJSON attempts to parse model output as JSON. Code-fence wrapping
// (with an optional leading "json" language tag) is stripped first. A parse
// failure is reported to the caller as a value, never escalated: the raw
// text is still usable.
func ParseModelJSON(raw string) (any, error) {
	cleaned := strings.TrimSpace(raw)
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.Trim(cleaned, "`")
		cleaned = strings.TrimPrefix(cleaned, "json")
	}

	var parsed any
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return nil, err
	}
	return parsed, nil
}
