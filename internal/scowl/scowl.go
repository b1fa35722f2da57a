// Package scowl resolves the pinned SCOWLv2 word-list source: it
// downloads the archive for a fixed commit, checksum-locks it, extracts
// it, and drives the scowl tool to emit the raw word list. Everything
// here is I/O orchestration around the automaton core, which never
// touches the network or filesystem itself.
package scowl

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
)

const (
	// Repo is the upstream SCOWL repository.
	Repo = "https://github.com/en-wl/wordlist"
	// Branch is the upstream branch the pin lives on.
	Branch = "v2"
	// Commit pins the v2 branch HEAD as of January 17, 2026.
	Commit = "744c092883db13112f6680892850c1f1b6547b81"
)

// ArchiveURL returns the tarball URL for a commit.
func ArchiveURL(commit string) string {
	return fmt.Sprintf("%s/archive/%s.tar.gz", Repo, commit)
}

// Profile selects which slice of SCOWL becomes the dictionary.
type Profile struct {
	Size         int
	Spellings    string
	VariantLevel int
}

// WordList runs the scowl tool inside the extracted source tree and
// returns the raw word-list text. The scowl database is built with
// make on first use; builtDB reports whether that happened.
func WordList(ctx context.Context, root string, p Profile) (raw string, builtDB bool, err error) {
	if _, statErr := os.Stat(filepath.Join(root, "scowl.db")); os.IsNotExist(statErr) {
		if err := runCommand(ctx, root, "make"); err != nil {
			return "", false, fmt.Errorf("build scowl.db: %w", err)
		}
		builtDB = true
	}

	cmd := exec.CommandContext(ctx, filepath.Join(root, "scowl"),
		"--db", "scowl.db",
		"word-list", strconv.Itoa(p.Size), p.Spellings, strconv.Itoa(p.VariantLevel),
		"--deaccent",
		"--categories=",
		"--tags=",
		"--wo-poses=abbr",
		"--wo-pos-categories=nonword,special,wordpart",
	)
	cmd.Dir = root
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", builtDB, fmt.Errorf("scowl word-list: %w\nstderr:\n%s", err, stderr.String())
	}
	if stdout.Len() == 0 {
		return "", builtDB, fmt.Errorf("scowl word-list produced no output")
	}
	return stdout.String(), builtDB, nil
}

func runCommand(ctx context.Context, dir string, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w\nstderr:\n%s", name, err, stderr.String())
	}
	return nil
}

// CopyNotices copies the SCOWL license and copyright files out of the
// extracted source so they ship next to the dictionary artifact.
func CopyNotices(root, licensesDir string) error {
	licenseCandidates := []string{"LICENSE", "License", "COPYING", "Copyright"}
	copyrightCandidates := []string{"Copyright", "COPYRIGHT", "LICENSE", "README.md"}

	license := firstExisting(root, licenseCandidates)
	copyright := firstExisting(root, copyrightCandidates)
	if license == "" || copyright == "" {
		return fmt.Errorf("scowl source at %s has no license/copyright files", root)
	}

	if err := os.MkdirAll(licensesDir, 0o755); err != nil {
		return fmt.Errorf("create licenses dir: %w", err)
	}
	if err := copyFile(license, filepath.Join(licensesDir, "SCOWL-LICENSE.txt")); err != nil {
		return err
	}
	return copyFile(copyright, filepath.Join(licensesDir, "SCOWL-COPYRIGHTS.txt"))
}

func firstExisting(root string, names []string) string {
	for _, name := range names {
		path := filepath.Join(root, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("copy notice %s: %w", src, err)
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return fmt.Errorf("copy notice %s: %w", src, err)
	}
	return nil
}
