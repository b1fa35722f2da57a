package dawg

import (
	"context"
	"fmt"
	"iter"
	"os"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// LoaderFunc produces the packed buffer for an Index, typically by
// reading a file or fetching over the network. It is the one
// suspension point in the system; the core itself never does I/O.
type LoaderFunc func(ctx context.Context) ([]byte, error)

// FileLoader returns a LoaderFunc that reads the packed buffer from
// path. For querying a large dictionary in place without loading it,
// use OpenFile instead.
func FileLoader(path string) LoaderFunc {
	return func(context.Context) ([]byte, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read packed dawg: %w", err)
		}
		return data, nil
	}
}

// Index is a caller-owned handle around a packed dictionary with an
// explicit load step. Queries issued before Load completes return
// ErrNotLoaded. Loading is idempotent and single-flight: concurrent
// Load calls observe one shared in-flight load, and once a load has
// succeeded further calls are no-ops. After that the index is
// immutable and safe to query from any number of goroutines.
type Index struct {
	load   LoaderFunc
	flight singleflight.Group
	reader atomic.Pointer[Reader]
}

// NewIndex returns an unloaded Index that will obtain its packed
// buffer from load.
func NewIndex(load LoaderFunc) *Index {
	return &Index{load: load}
}

// Load makes the index ready. If a load is already in flight the call
// attaches to it instead of starting another. A failed load leaves the
// index unloaded so a later call can retry; cancelling ctx abandons
// only this caller's wait, not the shared load itself.
func (ix *Index) Load(ctx context.Context) error {
	if ix.reader.Load() != nil {
		return nil
	}

	ch := ix.flight.DoChan("load", func() (any, error) {
		// Detached from ctx: one waiter giving up must not fail the
		// load for everyone attached to it.
		data, err := ix.load(context.WithoutCancel(ctx))
		if err != nil {
			return nil, fmt.Errorf("load packed dawg: %w", err)
		}
		rd, err := Decode(data)
		if err != nil {
			return nil, err
		}
		ix.reader.Store(rd)
		return rd, nil
	})

	select {
	case <-ctx.Done():
		return ctx.Err()
	case res := <-ch:
		return res.Err
	}
}

// Loaded reports whether a load has completed successfully.
func (ix *Index) Loaded() bool {
	return ix.reader.Load() != nil
}

// IsWord reports whether s is exactly one of the packed words.
func (ix *Index) IsWord(s string) (bool, error) {
	rd := ix.reader.Load()
	if rd == nil {
		return false, fmt.Errorf("isWord %q: %w", s, ErrNotLoaded)
	}
	return rd.IsWord(s), nil
}

// IsPrefix reports whether some packed word starts with s.
func (ix *Index) IsPrefix(s string) (bool, error) {
	rd := ix.reader.Load()
	if rd == nil {
		return false, fmt.Errorf("isPrefix %q: %w", s, ErrNotLoaded)
	}
	return rd.IsPrefix(s), nil
}

// Completions returns the packed words starting with prefix, ascending,
// at most limit of them (limit <= 0 for all). See Reader.Completions.
func (ix *Index) Completions(prefix string, limit int) (iter.Seq[string], error) {
	rd := ix.reader.Load()
	if rd == nil {
		return nil, fmt.Errorf("completions %q: %w", prefix, ErrNotLoaded)
	}
	return rd.Completions(prefix, limit), nil
}

// Reader returns the underlying Reader once loaded.
func (ix *Index) Reader() (*Reader, error) {
	rd := ix.reader.Load()
	if rd == nil {
		return nil, ErrNotLoaded
	}
	return rd, nil
}
