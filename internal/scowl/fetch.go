package scowl

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
)

// SHA256File returns the hex SHA-256 of the file at path.
func SHA256File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("checksum %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("checksum %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Download fetches url into dest, creating parent directories. The
// file is written through a temp name and renamed so a failed download
// never leaves a truncated archive behind.
func Download(ctx context.Context, url, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("download %s: %w", url, err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("download %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download %s: unexpected status %s", url, resp.Status)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".download-*")
	if err != nil {
		return fmt.Errorf("download %s: %w", url, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return fmt.Errorf("download %s: %w", url, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("download %s: %w", url, err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return fmt.Errorf("download %s: %w", url, err)
	}
	return nil
}

// EnsureArchive makes sure the archive for commit exists in cacheDir
// and matches expectedSHA when one is known. It returns the archive
// path, its actual checksum, and whether a download happened.
func EnsureArchive(ctx context.Context, url, commit, expectedSHA, cacheDir string) (path, sha string, downloaded bool, err error) {
	path = filepath.Join(cacheDir, fmt.Sprintf("wordlist-%s.tar.gz", commit))
	if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
		if err := Download(ctx, url, path); err != nil {
			return "", "", false, err
		}
		downloaded = true
	}

	sha, err = SHA256File(path)
	if err != nil {
		return "", "", downloaded, err
	}
	if expectedSHA != "" && sha != expectedSHA {
		return "", "", downloaded, fmt.Errorf(
			"archive checksum mismatch for %s: expected=%s actual=%s; delete the archive and retry if the source changed",
			path, expectedSHA, sha)
	}
	return path, sha, downloaded, nil
}
