// Package eventlog persists claim simulation event logs as flat JSON files:
// one timestamped snapshot per save plus a "latest" file per claim.
package eventlog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// ErrNotFound is returned when no log has been saved for a claim.
var ErrNotFound = errors.New("event log not found")

// Log is the stored payload for one claim's event log.
type Log struct {
	ClaimNumber string            `json:"claim_number"`
	PatientName string            `json:"patient_name"`
	Timestamp   string            `json:"timestamp"`
	Events      []json.RawMessage `json:"events"`
}

// Store is a directory-backed event log store.
type Store struct {
	dir string
	mu  sync.Mutex
	now func() time.Time
}

// NewStore creates a store rooted at dir. The directory is created on the
// first save.
func NewStore(dir string) *Store {
	return &Store{dir: dir, now: time.Now}
}

// sanitizeClaimNumber makes a claim number safe to use as a file name.
func sanitizeClaimNumber(claimNumber string) string {
	safe := strings.ReplaceAll(claimNumber, " ", "_")
	return strings.ReplaceAll(safe, "/", "_")
}

func (s *Store) latestPath(claimNumber string) string {
	return filepath.Join(s.dir, sanitizeClaimNumber(claimNumber)+"_latest.json")
}

// Save writes a timestamped snapshot of the events plus the per-claim latest
// file, and returns the snapshot path.
func (s *Store) Save(claimNumber, patientName string, events []json.RawMessage) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create event log dir: %w", err)
	}

	now := s.now()
	log := Log{
		ClaimNumber: claimNumber,
		PatientName: patientName,
		Timestamp:   now.Format(time.RFC3339),
		Events:      events,
	}

	snapshot := filepath.Join(s.dir,
		fmt.Sprintf("%s_%s.json", sanitizeClaimNumber(claimNumber), now.Format("20060102_150405")))
	if err := writeJSON(snapshot, &log); err != nil {
		return "", err
	}
	if err := writeJSON(s.latestPath(claimNumber), &log); err != nil {
		return "", err
	}

	return snapshot, nil
}

// Latest reads back the most recently saved log for the claim.
func (s *Store) Latest(claimNumber string) (*Log, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.latestPath(claimNumber))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read event log: %w", err)
	}

	var log Log
	if err := json.Unmarshal(data, &log); err != nil {
		return nil, fmt.Errorf("unmarshal event log: %w", err)
	}
	return &log, nil
}

// writeJSON marshals v with indentation and writes it atomically via a
// temp-file rename.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal event log: %w", err)
	}
	data = append(data, '\n')

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write event log: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename event log: %w", err)
	}
	return nil
}
