package scowl

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// SourceLock records the checksum observed for a pinned archive so
// later builds can detect upstream tampering or corruption.
type SourceLock struct {
	Commit     string    `json:"commit"`
	SHA256     string    `json:"sha256"`
	ArchiveURL string    `json:"archive_url"`
	RecordedAt time.Time `json:"recorded_at"`
}

// ReadLock loads the lock file. A missing file or one without the
// required fields yields (nil, nil): the build then records a fresh
// lock instead of failing.
func ReadLock(path string) (*SourceLock, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read source lock: %w", err)
	}

	var lock SourceLock
	if err := json.Unmarshal(data, &lock); err != nil {
		return nil, fmt.Errorf("parse source lock: %w", err)
	}
	if lock.Commit == "" || lock.SHA256 == "" || lock.ArchiveURL == "" {
		return nil, nil
	}
	return &lock, nil
}

// WriteLock writes the lock file, stamping the current time.
func WriteLock(path string, lock SourceLock) error {
	lock.RecordedAt = time.Now().UTC()
	data, err := json.MarshalIndent(lock, "", "  ")
	if err != nil {
		return fmt.Errorf("encode source lock: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write source lock: %w", err)
	}
	return nil
}
