package scowl_test

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tilepile/dawg/internal/scowl"
)

func TestLockRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "source.lock.json")

	lock, err := scowl.ReadLock(path)
	require.NoError(t, err)
	assert.Nil(t, lock, "missing lock file reads as nil")

	want := scowl.SourceLock{Commit: "abc", SHA256: "def", ArchiveURL: "https://example.com/a.tar.gz"}
	require.NoError(t, scowl.WriteLock(path, want))

	got, err := scowl.ReadLock(path)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want.Commit, got.Commit)
	assert.Equal(t, want.SHA256, got.SHA256)
	assert.Equal(t, want.ArchiveURL, got.ArchiveURL)
	assert.False(t, got.RecordedAt.IsZero())
}

func TestLockIgnoresIncomplete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "source.lock.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"commit":"abc"}`), 0o644))

	lock, err := scowl.ReadLock(path)
	require.NoError(t, err)
	assert.Nil(t, lock)
}

func TestEnsureArchive(t *testing.T) {
	payload := []byte("archive bytes")
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write(payload)
	}))
	defer srv.Close()

	cacheDir := t.TempDir()
	ctx := context.Background()

	path, sha, downloaded, err := scowl.EnsureArchive(ctx, srv.URL, "abc", "", cacheDir)
	require.NoError(t, err)
	assert.True(t, downloaded)
	assert.Equal(t, 1, hits)
	assert.FileExists(t, path)

	wantSHA, err := scowl.SHA256File(path)
	require.NoError(t, err)
	assert.Equal(t, wantSHA, sha)

	// Cache hit: no second download, checksum verified against the pin.
	_, _, downloaded, err = scowl.EnsureArchive(ctx, srv.URL, "abc", sha, cacheDir)
	require.NoError(t, err)
	assert.False(t, downloaded)
	assert.Equal(t, 1, hits)

	// A wrong pin is fatal.
	_, _, _, err = scowl.EnsureArchive(ctx, srv.URL, "abc", "0000", cacheDir)
	require.ErrorContains(t, err, "checksum mismatch")
}

func TestDownloadRejectsBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	err := scowl.Download(context.Background(), srv.URL, filepath.Join(t.TempDir(), "a.tar.gz"))
	require.ErrorContains(t, err, "unexpected status")
}

// makeArchive builds a small tar.gz with the given top-level directory.
func makeArchive(t *testing.T, topLevel string, files map[string]string) string {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)

	require.NoError(t, tw.WriteHeader(&tar.Header{
		Name: topLevel + "/", Typeflag: tar.TypeDir, Mode: 0o755,
	}))
	for name, content := range files {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name: topLevel + "/" + name, Typeflag: tar.TypeReg,
			Mode: 0o644, Size: int64(len(content)),
		}))
		_, err := tw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())

	path := filepath.Join(t.TempDir(), "archive.tar.gz")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func TestExtract(t *testing.T) {
	archive := makeArchive(t, "wordlist-deadbeef", map[string]string{
		"README.md": "hello",
		"LICENSE":   "license text",
	})
	srcDir := t.TempDir()

	root, err := scowl.Extract(archive, "abc", srcDir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(srcDir, "wordlist-abc"), root)
	assert.FileExists(t, filepath.Join(root, "README.md"))

	// Second call is a no-op on the existing tree.
	again, err := scowl.Extract(archive, "abc", srcDir)
	require.NoError(t, err)
	assert.Equal(t, root, again)
}

func TestCopyNotices(t *testing.T) {
	archive := makeArchive(t, "wl", map[string]string{
		"LICENSE":   "license text",
		"Copyright": "copyright text",
	})
	srcDir := t.TempDir()
	root, err := scowl.Extract(archive, "abc", srcDir)
	require.NoError(t, err)

	licensesDir := filepath.Join(t.TempDir(), "licenses")
	require.NoError(t, scowl.CopyNotices(root, licensesDir))
	assert.FileExists(t, filepath.Join(licensesDir, "SCOWL-LICENSE.txt"))
	assert.FileExists(t, filepath.Join(licensesDir, "SCOWL-COPYRIGHTS.txt"))

	err = scowl.CopyNotices(t.TempDir(), licensesDir)
	require.ErrorContains(t, err, "no license/copyright")
}

func TestArchiveURL(t *testing.T) {
	assert.Equal(t,
		"https://github.com/en-wl/wordlist/archive/"+scowl.Commit+".tar.gz",
		scowl.ArchiveURL(scowl.Commit))
}
