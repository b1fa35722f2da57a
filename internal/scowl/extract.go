package scowl

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Extract unpacks the archive under srcDir and returns the source
// root, normalized to srcDir/wordlist-<commit> regardless of the
// archive's own top-level directory name. Extraction is skipped when
// the target already exists.
func Extract(archivePath, commit, srcDir string) (string, error) {
	target := filepath.Join(srcDir, "wordlist-"+commit)
	if _, err := os.Stat(target); err == nil {
		return target, nil
	}
	if err := os.MkdirAll(srcDir, 0o755); err != nil {
		return "", fmt.Errorf("create source dir: %w", err)
	}

	f, err := os.Open(archivePath)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", archivePath, err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", archivePath, err)
	}
	defer gz.Close()

	topLevel := ""
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("extract %s: %w", archivePath, err)
		}

		name := filepath.Clean(hdr.Name)
		if name == "." || strings.HasPrefix(name, "..") || filepath.IsAbs(name) {
			continue
		}
		if topLevel == "" {
			topLevel, _, _ = strings.Cut(name, string(filepath.Separator))
		}
		dest := filepath.Join(srcDir, name)

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(dest, 0o755); err != nil {
				return "", fmt.Errorf("extract %s: %w", archivePath, err)
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
				return "", fmt.Errorf("extract %s: %w", archivePath, err)
			}
			out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, os.FileMode(hdr.Mode)&0o777)
			if err != nil {
				return "", fmt.Errorf("extract %s: %w", archivePath, err)
			}
			if _, err := io.Copy(out, tr); err != nil {
				out.Close()
				return "", fmt.Errorf("extract %s: %w", archivePath, err)
			}
			if err := out.Close(); err != nil {
				return "", fmt.Errorf("extract %s: %w", archivePath, err)
			}
		}
	}

	if topLevel == "" {
		return "", fmt.Errorf("extract %s: archive is empty", archivePath)
	}
	extracted := filepath.Join(srcDir, topLevel)
	if extracted != target {
		if err := os.Rename(extracted, target); err != nil {
			return "", fmt.Errorf("extract %s: %w", archivePath, err)
		}
	}
	return target, nil
}
