// Package meta maintains dict.meta.json, the record associating a
// packed dictionary artifact with the source it was derived from, the
// build profile, word statistics, and the artifact's size and
// checksum. Unknown keys already present in the file are preserved.
package meta

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
)

// Source identifies the pinned upstream word-list archive.
type Source struct {
	Repo       string `json:"repo"`
	Branch     string `json:"branch"`
	Commit     string `json:"commit"`
	ArchiveURL string `json:"archiveUrl"`
	SHA256     string `json:"sha256"`
}

// Profile records the SCOWL query and normalization applied.
type Profile struct {
	Size          int      `json:"size"`
	Spellings     []string `json:"spellings"`
	VariantLevel  int      `json:"variantLevel"`
	Classes       string   `json:"classes"`
	Normalization string   `json:"normalization"`
}

// Stats summarizes the normalized word list.
type Stats struct {
	WordCount      int       `json:"wordCount"`
	MinLength      int       `json:"minLength"`
	MaxLength      int       `json:"maxLength"`
	BuildTimestamp time.Time `json:"buildTimestamp"`
}

// Artifacts names the packed output and carries the size and checksum
// external tooling uses to verify it after transfer or storage.
type Artifacts struct {
	DawgFile   string `json:"dawgFile"`
	DawgBytes  int64  `json:"dawgBytes"`
	DawgSHA256 string `json:"dawgSha256"`
	BuildID    string `json:"buildId"`
}

// Record is everything one build contributes to the metadata file.
type Record struct {
	Source    Source
	Profile   Profile
	Stats     Stats
	Artifacts Artifacts
}

// NewBuildID returns a fresh identifier for one build run.
func NewBuildID() string {
	return uuid.NewString()
}

// StatsFor computes word statistics with the given timestamp.
func StatsFor(words []string, at time.Time) Stats {
	s := Stats{WordCount: len(words), BuildTimestamp: at.UTC()}
	for _, w := range words {
		if s.MinLength == 0 || len(w) < s.MinLength {
			s.MinLength = len(w)
		}
		if len(w) > s.MaxLength {
			s.MaxLength = len(w)
		}
	}
	return s
}

// Write merges rec into the metadata file at path. Keys other than
// source, profile, stats, and artifacts survive untouched, so
// hand-added annotations are not lost across rebuilds.
func Write(path string, rec Record) error {
	doc := map[string]json.RawMessage{}
	if existing, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(existing, &doc); err != nil {
			return fmt.Errorf("parse existing metadata: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("read existing metadata: %w", err)
	}

	for key, v := range map[string]any{
		"source":    rec.Source,
		"profile":   rec.Profile,
		"stats":     rec.Stats,
		"artifacts": rec.Artifacts,
	} {
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode metadata %s: %w", key, err)
		}
		doc[key] = raw
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	if err := os.WriteFile(path, append(out, '\n'), 0o644); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}
	return nil
}

// Read loads the typed portion of the metadata file.
func Read(path string) (Record, error) {
	var doc struct {
		Source    Source    `json:"source"`
		Profile   Profile   `json:"profile"`
		Stats     Stats     `json:"stats"`
		Artifacts Artifacts `json:"artifacts"`
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Record{}, fmt.Errorf("read metadata: %w", err)
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return Record{}, fmt.Errorf("parse metadata: %w", err)
	}
	return Record{Source: doc.Source, Profile: doc.Profile, Stats: doc.Stats, Artifacts: doc.Artifacts}, nil
}
