package dawg

import (
	"errors"
	"fmt"
)

// ErrNotLoaded is returned by Index queries issued before Load has
// completed. It is the caller's job to await Load first; the index
// never retries on its own.
var ErrNotLoaded = errors.New("dawg: index not loaded")

// ValidationError reports a malformed word list. It names the
// offending position and both adjacent values so the bad input can be
// located in the source list. A build attempt that produced one is
// fatal and must not be retried with the same input.
type ValidationError struct {
	Index  int    // position of the offending word
	Prev   string // word preceding it, if any
	Word   string // the offending word
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("dawg: invalid word list at index %d: %s (prev=%q word=%q)",
		e.Index, e.Reason, e.Prev, e.Word)
}

// DecodeError reports a structurally inconsistent packed buffer, such
// as a transition pointing outside the buffer. It is always fatal: a
// corrupt automaton could otherwise silently answer queries wrong.
type DecodeError struct {
	Offset int64 // byte offset of the inconsistency
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("dawg: corrupt packed buffer at offset %d: %s", e.Offset, e.Reason)
}
