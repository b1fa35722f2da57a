package meta_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tilepile/dawg/internal/meta"
)

func sampleRecord() meta.Record {
	return meta.Record{
		Source: meta.Source{
			Repo:       "https://github.com/en-wl/wordlist",
			Branch:     "v2",
			Commit:     "abc123",
			ArchiveURL: "https://github.com/en-wl/wordlist/archive/abc123.tar.gz",
			SHA256:     "deadbeef",
		},
		Profile: meta.Profile{Size: 80, Spellings: []string{"A", "B"}, VariantLevel: 5,
			Classes: "core", Normalization: "uppercase-alpha-strip"},
		Stats: meta.StatsFor([]string{"AN", "AND"}, time.Date(2026, 1, 17, 0, 0, 0, 0, time.UTC)),
		Artifacts: meta.Artifacts{DawgFile: "dict.dawg", DawgBytes: 42,
			DawgSHA256: "cafe", BuildID: meta.NewBuildID()},
	}
}

func TestWriteRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dict.meta.json")
	rec := sampleRecord()
	require.NoError(t, meta.Write(path, rec))

	got, err := meta.Read(path)
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestWritePreservesUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dict.meta.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"notes":"keep me","stats":{"wordCount":1}}`), 0o644))

	require.NoError(t, meta.Write(path, sampleRecord()))

	var doc map[string]json.RawMessage
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.JSONEq(t, `"keep me"`, string(doc["notes"]))

	got, err := meta.Read(path)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Stats.WordCount)
}

func TestStatsFor(t *testing.T) {
	s := meta.StatsFor([]string{"A", "THREE", "BE"}, time.Now())
	assert.Equal(t, 3, s.WordCount)
	assert.Equal(t, 1, s.MinLength)
	assert.Equal(t, 5, s.MaxLength)

	empty := meta.StatsFor(nil, time.Now())
	assert.Zero(t, empty.WordCount)
	assert.Zero(t, empty.MinLength)
	assert.Zero(t, empty.MaxLength)
}
