package prompt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Statistics holds claim counts by status for the dashboard summary.
type Statistics struct {
	ProcessedToday int `json:"processedToday"`
	ProcessedWeek  int `json:"processedWeek"`
	ProcessedMonth int `json:"processedMonth"`
	Accepted       int `json:"accepted"`
	Pending        int `json:"pending"`
	Denied         int `json:"denied"`
	Total          int `json:"total"`
}

// CityCount is the per-city claim distribution.
type CityCount struct {
	City     string `json:"city"`
	Total    int    `json:"total"`
	Accepted int    `json:"accepted"`
	Pending  int    `json:"pending"`
	Denied   int    `json:"denied"`
}

// RecentClaim is one entry of the recent-claims sample.
type RecentClaim struct {
	ClaimNumber string  `json:"claimNumber"`
	PatientName string  `json:"patientName"`
	Status      string  `json:"status"`
	City        string  `json:"city"`
	Amount      float64 `json:"amount"`
}

// ClaimsSummary is the read-only dashboard data supplied with a chat request.
type ClaimsSummary struct {
	Statistics   *Statistics   `json:"statistics"`
	CityData     []CityCount   `json:"cityData"`
	RecentClaims []RecentClaim `json:"recentClaims"`
}

// Event is one step transition recorded by the external claims-processing
// agent. ActionData is kept raw so arbitrary structures survive untouched.
type Event struct {
	Timestamp  int64           `json:"timestamp"`
	FromNodeID string          `json:"fromNodeId"`
	ToNodeID   string          `json:"toNodeId"`
	Reason     string          `json:"reason"`
	Action     string          `json:"action"`
	ActionData json.RawMessage `json:"actionData"`
}

// DecodeClaims parses the claims_data payload of a chat request. Anything
// that is not a JSON object is treated as absent.
func DecodeClaims(raw json.RawMessage) *ClaimsSummary {
	if len(raw) == 0 {
		return nil
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil || probe == nil {
		return nil
	}
	var summary ClaimsSummary
	if err := json.Unmarshal(raw, &summary); err != nil {
		return nil
	}
	return &summary
}

// DecodeEventLog parses the event_log payload of a chat request. Anything
// that is not a JSON array is treated as absent; individual entries are only
// validated later, when the timeline is rendered.
func DecodeEventLog(raw json.RawMessage) []json.RawMessage {
	if len(raw) == 0 {
		return nil
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil
	}
	return entries
}

// decodeEvent parses a single event log entry. Entries that are not JSON
// objects are rejected.
func decodeEvent(raw json.RawMessage) (Event, bool) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil || probe == nil {
		slog.Debug("skipping malformed event log entry", "entry", string(raw))
		return Event{}, false
	}
	var event Event
	if err := json.Unmarshal(raw, &event); err != nil {
		slog.Debug("skipping malformed event log entry", "entry", string(raw), "error", err)
		return Event{}, false
	}
	return event, true
}

// formatClaimsSummary renders the dashboard data as labeled text sections:
// statistics, the first 10 cities, and the first 5 recent claims.
func formatClaimsSummary(claims *ClaimsSummary) string {
	var parts []string

	if claims.Statistics != nil {
		stats := claims.Statistics
		parts = append(parts,
			"Statistics:",
			fmt.Sprintf("  - Processed Today: %d", stats.ProcessedToday),
			fmt.Sprintf("  - Processed This Week: %d", stats.ProcessedWeek),
			fmt.Sprintf("  - Processed This Month: %d", stats.ProcessedMonth),
			fmt.Sprintf("  - Accepted Claims: %d", stats.Accepted),
			fmt.Sprintf("  - Pending Claims: %d", stats.Pending),
			fmt.Sprintf("  - Denied Claims: %d", stats.Denied),
			fmt.Sprintf("  - Total Claims: %d", stats.Total),
		)
	}

	if len(claims.CityData) > 0 {
		parts = append(parts, "\nCity-wise Distribution:")
		cities := claims.CityData
		if len(cities) > 10 {
			cities = cities[:10]
		}
		for _, city := range cities {
			name := city.City
			if name == "" {
				name = "Unknown"
			}
			parts = append(parts, fmt.Sprintf("  - %s: Total=%d, Accepted=%d, Pending=%d, Denied=%d",
				name, city.Total, city.Accepted, city.Pending, city.Denied))
		}
	}

	if len(claims.RecentClaims) > 0 {
		parts = append(parts, "\nRecent Claims (sample):")
		recent := claims.RecentClaims
		if len(recent) > 5 {
			recent = recent[:5]
		}
		for _, claim := range recent {
			parts = append(parts, fmt.Sprintf("  - %s: %s (%s) - %s - $%v",
				orUnknown(claim.ClaimNumber), orUnknown(claim.PatientName),
				orUnknown(claim.Status), orUnknown(claim.City), claim.Amount))
		}
	}

	return strings.Join(parts, "\n")
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

// formatEventLog renders the agent activity timeline. The count covers every
// supplied entry; malformed entries are skipped from the timeline itself.
func formatEventLog(entries []json.RawMessage) string {
	parts := []string{
		fmt.Sprintf("Total Events Recorded: %d", len(entries)),
		"\nChronological Activity Timeline (latest last):",
	}

	for _, raw := range entries {
		event, ok := decodeEvent(raw)
		if !ok {
			continue
		}

		timeStr := "N/A"
		if event.Timestamp != 0 {
			timeStr = time.UnixMilli(event.Timestamp).Format("15:04:05")
		}

		desc := fmt.Sprintf("Started: %s", event.ToNodeID)
		if event.FromNodeID != "" {
			desc = fmt.Sprintf("%s → %s", event.FromNodeID, event.ToNodeID)
		}
		parts = append(parts, fmt.Sprintf("  [%s] %s", timeStr, desc))

		if event.Reason != "" {
			parts = append(parts, fmt.Sprintf("    reason: %s", event.Reason))
		}
		if event.Action != "" {
			parts = append(parts, fmt.Sprintf("    action: %s", event.Action))
		}
		if data := formatActionData(event.ActionData); data != "" {
			parts = append(parts, "    actionData:")
			for _, line := range strings.Split(data, "\n") {
				parts = append(parts, "      "+line)
			}
		}
	}

	return strings.Join(parts, "\n")
}

// formatActionData pretty-prints the raw action data, falling back to its
// string form when it cannot be re-indented.
func formatActionData(raw json.RawMessage) string {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return ""
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		slog.Debug("unable to serialize actionData", "data", trimmed, "error", err)
		return trimmed
	}
	return buf.String()
}
