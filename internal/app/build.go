// Package app wires the build pipeline together: resolve the pinned
// SCOWL source, normalize it into a word list, build and pack the
// automaton, and record the artifact metadata.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tilepile/dawg"
	"github.com/tilepile/dawg/internal/config"
	"github.com/tilepile/dawg/internal/meta"
	"github.com/tilepile/dawg/internal/progress"
	"github.com/tilepile/dawg/internal/scowl"
	"github.com/tilepile/dawg/internal/wordlist"
)

const buildSteps = 7

// BuildResult summarizes a completed dictionary build.
type BuildResult struct {
	Words     int
	States    int
	Edges     int
	DawgPath  string
	DawgBytes int64
	DawgSHA   string
}

// Build runs the whole pipeline. The SCOWL cache, extracted source,
// lock file, and raw word list live under cfg.Data.Dir; the word
// list, packed dictionary, metadata, and license copies are written
// to their configured paths as given.
func Build(ctx context.Context, log *slog.Logger, cfg *config.Config) (*BuildResult, error) {
	track := progress.New(log, buildSteps)

	scowlDir := filepath.Join(cfg.Data.Dir, "scowl")
	cacheDir := filepath.Join(scowlDir, "cache")
	srcDir := filepath.Join(scowlDir, "src")
	lockPath := filepath.Join(scowlDir, "source.lock.json")
	rawPath := filepath.Join(cfg.Data.Dir, "words_raw.txt")

	commit := scowl.Commit
	archiveURL := scowl.ArchiveURL(commit)

	lock, err := scowl.ReadLock(lockPath)
	if err != nil {
		return nil, err
	}
	expectedSHA := strings.TrimSpace(cfg.SCOWL.ArchiveSHA256)
	if expectedSHA == "" && lock != nil && lock.Commit == commit && lock.ArchiveURL == archiveURL {
		expectedSHA = lock.SHA256
	}

	// Step 1: resolve the pinned source archive.
	started := track.Start("resolve SCOWL source archive",
		"first run downloads the archive; this can take a while")
	archivePath, actualSHA, downloaded, err := scowl.EnsureArchive(ctx, archiveURL, commit, expectedSHA, cacheDir)
	if err != nil {
		return nil, err
	}
	detail := "cache hit"
	if downloaded {
		detail = "downloaded"
	}
	track.Done(started, detail)

	// Step 2: record or verify the source lock.
	started = track.Start("record source checksum", "")
	if expectedSHA == "" {
		err := scowl.WriteLock(lockPath, scowl.SourceLock{
			Commit: commit, SHA256: actualSHA, ArchiveURL: archiveURL,
		})
		if err != nil {
			return nil, err
		}
		track.Done(started, "new source.lock.json written")
	} else {
		track.Done(started, "checksum verified")
	}

	// Step 3: extract.
	started = track.Start("extract SCOWL archive", "")
	scowlRoot, err := scowl.Extract(archivePath, commit, srcDir)
	if err != nil {
		return nil, err
	}
	track.Done(started, scowlRoot)

	// Step 4: query the raw word list.
	started = track.Start("generate raw SCOWL word list",
		"builds scowl.db first if missing; this can take a few minutes")
	profile := scowl.Profile{
		Size:         cfg.SCOWL.Size,
		Spellings:    cfg.SCOWL.Spellings,
		VariantLevel: cfg.SCOWL.VariantLevel,
	}
	raw, builtDB, err := scowl.WordList(ctx, scowlRoot, profile)
	if err != nil {
		return nil, err
	}
	detail = "queried existing scowl.db"
	if builtDB {
		detail = "built scowl.db and queried"
	}
	track.Done(started, detail)

	// Step 5: normalize and persist the word list.
	started = track.Start("normalize word list", "")
	if err := os.MkdirAll(cfg.Data.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	if err := os.WriteFile(rawPath, []byte(raw), 0o644); err != nil {
		return nil, fmt.Errorf("write raw word list: %w", err)
	}
	words := wordlist.Normalize(raw)
	if err := dawg.Validate(words); err != nil {
		return nil, err
	}
	if err := wordlist.Write(cfg.Data.WordsFile, words); err != nil {
		return nil, err
	}
	track.Done(started, fmt.Sprintf("%d normalized words", len(words)))

	// Step 6: build the automaton and pack it.
	started = track.Start("build and pack DAWG", "")
	automaton, err := dawg.Build(words)
	if err != nil {
		return nil, err
	}
	artifact, err := automaton.Pack()
	if err != nil {
		return nil, err
	}
	if err := artifact.WriteFile(cfg.Data.DawgFile); err != nil {
		return nil, err
	}
	track.Info(fmt.Sprintf("%d states, %d transitions, %d bytes packed",
		automaton.NumStates(), automaton.NumEdges(), artifact.Size))
	track.Done(started, cfg.Data.DawgFile)

	// Step 7: licenses and metadata, independent of each other.
	started = track.Start("write licenses and metadata", "")
	record := meta.Record{
		Source: meta.Source{
			Repo:       scowl.Repo,
			Branch:     scowl.Branch,
			Commit:     commit,
			ArchiveURL: archiveURL,
			SHA256:     actualSHA,
		},
		Profile: meta.Profile{
			Size:          cfg.SCOWL.Size,
			Spellings:     splitSpellings(cfg.SCOWL.Spellings),
			VariantLevel:  cfg.SCOWL.VariantLevel,
			Classes:       "core",
			Normalization: "uppercase-alpha-strip",
		},
		Stats: meta.StatsFor(words, time.Now()),
		Artifacts: meta.Artifacts{
			DawgFile:   filepath.Base(cfg.Data.DawgFile),
			DawgBytes:  artifact.Size,
			DawgSHA256: artifact.SHA256,
			BuildID:    meta.NewBuildID(),
		},
	}
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error { return scowl.CopyNotices(scowlRoot, cfg.Data.LicensesDir) })
	g.Go(func() error { return meta.Write(cfg.Data.MetaFile, record) })
	if err := g.Wait(); err != nil {
		return nil, err
	}
	track.Done(started, cfg.Data.MetaFile)

	track.Summary()
	return &BuildResult{
		Words:     len(words),
		States:    automaton.NumStates(),
		Edges:     automaton.NumEdges(),
		DawgPath:  cfg.Data.DawgFile,
		DawgBytes: artifact.Size,
		DawgSHA:   artifact.SHA256,
	}, nil
}

func splitSpellings(s string) []string {
	var out []string
	for _, seg := range strings.Split(s, ",") {
		if seg = strings.TrimSpace(seg); seg != "" {
			out = append(out, seg)
		}
	}
	return out
}
