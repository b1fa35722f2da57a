package dawg

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"iter"

	"golang.org/x/exp/mmap"
)

// Reader answers membership, prefix, and completion queries against a
// packed buffer, traversing it in place through an io.ReaderAt. It
// never mutates the buffer; all traversal state is local, so a Reader
// is safe for concurrent use.
type Reader struct {
	r          io.ReaderAt
	numWords   int
	numStates  int
	numRecords int
}

// NewReader validates the packed buffer behind r and returns a Reader
// over it. size is the byte length of the buffer. Every record is
// checked up front: letters in range and ascending within a block,
// every block terminated, every target a real block start, and the
// block graph acyclic. Any
// inconsistency is a *DecodeError; nothing is tolerated, since a
// corrupt automaton would answer queries wrong without a trace.
func NewReader(r io.ReaderAt, size int64) (*Reader, error) {
	header := make([]byte, headerSize)
	if size < headerSize {
		return nil, &DecodeError{Offset: 0, Reason: "buffer shorter than header"}
	}
	if _, err := r.ReadAt(header, 0); err != nil {
		return nil, fmt.Errorf("read packed header: %w", err)
	}
	if !bytes.Equal(header[0:4], []byte(packedMagic)) {
		return nil, &DecodeError{Offset: 0, Reason: "bad magic"}
	}
	if v := binary.BigEndian.Uint32(header[4:8]); v != packedVersion {
		return nil, &DecodeError{Offset: 4, Reason: fmt.Sprintf("unsupported version %d", v)}
	}

	rd := &Reader{
		r:          r,
		numWords:   int(binary.BigEndian.Uint32(header[8:12])),
		numStates:  int(binary.BigEndian.Uint32(header[12:16])),
		numRecords: int(binary.BigEndian.Uint32(header[16:20])),
	}
	if rd.numRecords > maxRecords {
		return nil, &DecodeError{Offset: 16, Reason: "record count exceeds format limit"}
	}
	if want := int64(headerSize + rd.numRecords*recordSize); size != want {
		return nil, &DecodeError{Offset: 16,
			Reason: fmt.Sprintf("buffer is %d bytes, header implies %d", size, want)}
	}

	if err := rd.verify(); err != nil {
		return nil, err
	}
	return rd, nil
}

// Decode returns a Reader over an in-memory packed buffer.
func Decode(data []byte) (*Reader, error) {
	return NewReader(bytes.NewReader(data), int64(len(data)))
}

// OpenFile memory-maps a packed dictionary file and returns a Reader
// that queries it in place, without reading it into memory. Call Close
// when done with it.
func OpenFile(path string) (*Reader, error) {
	f, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open packed dawg: %w", err)
	}
	rd, err := NewReader(f, int64(f.Len()))
	if err != nil {
		f.Close()
		return nil, err
	}
	return rd, nil
}

// Close releases the underlying source if it is an io.Closer, such as
// the mapping created by OpenFile.
func (rd *Reader) Close() error {
	if closer, ok := rd.r.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// NumWords returns the word count recorded in the buffer.
func (rd *Reader) NumWords() int { return rd.numWords }

// NumStates returns the state count recorded in the buffer.
func (rd *Reader) NumStates() int { return rd.numStates }

// NumRecords returns the number of transition records.
func (rd *Reader) NumRecords() int { return rd.numRecords }

// verify walks every record once. Block starts are derived from the
// last flags: record 0 starts a block, and so does any record that
// follows a terminated block.
func (rd *Reader) verify() error {
	isStart := make([]bool, rd.numRecords)
	prevLetter := -1
	atStart := true
	for i := 0; i < rd.numRecords; i++ {
		if atStart {
			isStart[i] = true
			prevLetter = -1
		}
		rec, err := rd.recordAt(i)
		if err != nil {
			return err
		}
		letter := recordLetter(rec)
		if letter >= alphabetSize {
			return &DecodeError{Offset: recordOffset(i), Reason: "letter outside alphabet"}
		}
		if letter <= prevLetter {
			return &DecodeError{Offset: recordOffset(i), Reason: "letters not ascending within block"}
		}
		prevLetter = letter
		if t := recordTarget(rec); t >= rd.numRecords {
			return &DecodeError{Offset: recordOffset(i), Reason: "transition target outside buffer"}
		}
		atStart = recordLast(rec)
	}
	if !atStart && rd.numRecords > 0 {
		return &DecodeError{Offset: recordOffset(rd.numRecords - 1), Reason: "final block not terminated"}
	}
	for i := 0; i < rd.numRecords; i++ {
		rec, err := rd.recordAt(i)
		if err != nil {
			return err
		}
		if t := recordTarget(rec); t != 0 && !isStart[t] {
			return &DecodeError{Offset: recordOffset(i), Reason: "transition target is not a block start"}
		}
	}

	// Third pass: the block graph must be acyclic. A cycle would make
	// the word set infinite and a traversal below it would never
	// terminate. Depth-first over blocks, a state byte per record:
	// 0 unseen, 1 on the current path, 2 fully explored.
	state := make([]byte, rd.numRecords)
	type frame struct{ block, pos int }
	for start := 0; start < rd.numRecords; start++ {
		if !isStart[start] || state[start] != 0 {
			continue
		}
		state[start] = 1
		stack := []frame{{start, start}}
		for len(stack) > 0 {
			f := &stack[len(stack)-1]
			rec, err := rd.recordAt(f.pos)
			if err != nil {
				return err
			}
			if t := recordTarget(rec); t != 0 {
				if state[t] == 1 {
					return &DecodeError{Offset: recordOffset(f.pos), Reason: "transitions form a cycle"}
				}
				if state[t] == 0 {
					state[t] = 1
					stack = append(stack, frame{t, t})
					continue
				}
			}
			if recordLast(rec) {
				state[f.block] = 2
				stack = stack[:len(stack)-1]
			} else {
				f.pos++
			}
		}
	}
	return nil
}

const alphabetSize = 26

func recordOffset(i int) int64 {
	return headerSize + int64(i)*recordSize
}

// recordAt reads record i. Bounds were settled during verify, so an
// error here means the backing storage went away underneath us.
func (rd *Reader) recordAt(i int) (uint32, error) {
	var buf [recordSize]byte
	if _, err := rd.r.ReadAt(buf[:], recordOffset(i)); err != nil {
		return 0, fmt.Errorf("read packed record %d: %w", i, err)
	}
	return binary.BigEndian.Uint32(buf[:]), nil
}

// record reads record i, panicking on I/O failure. Traversals use it
// after verify has proven every index in range; a failure at that
// point has no recovery.
func (rd *Reader) record(i int) uint32 {
	rec, err := rd.recordAt(i)
	if err != nil {
		panic(err)
	}
	return rec
}

// walk follows s from the root. ok is false if some letter had no
// transition. block is the transition block of the reached state, leaf
// is true when that state has no transitions, and final is the final
// flag of the last transition taken (false when s is empty).
func (rd *Reader) walk(s string) (block int, leaf, final, ok bool) {
	leaf = rd.numRecords == 0
	for i := 0; i < len(s); i++ {
		if leaf {
			return 0, true, false, false
		}
		want := int(s[i]) - 'A'
		pos := block
		for {
			rec := rd.record(pos)
			letter := recordLetter(rec)
			if letter == want {
				final = recordFinal(rec)
				block = recordTarget(rec)
				leaf = block == 0
				break
			}
			if letter > want || recordLast(rec) {
				return 0, false, false, false
			}
			pos++
		}
	}
	return block, leaf, final, true
}

// IsWord reports whether s is exactly one of the packed words. The
// empty string is never a word: the root is non-final by construction.
func (rd *Reader) IsWord(s string) bool {
	if s == "" {
		return false
	}
	_, _, final, ok := rd.walk(s)
	return ok && final
}

// IsPrefix reports whether some packed word starts with s, including s
// itself. The empty string is a prefix of anything, so it returns true
// whenever the automaton is non-empty.
func (rd *Reader) IsPrefix(s string) bool {
	if s == "" {
		return rd.numRecords > 0
	}
	_, _, _, ok := rd.walk(s)
	return ok
}

// Completions returns a lazy sequence of the packed words starting
// with prefix, in ascending order, prefix itself first when it is a
// word. At most limit words are produced; limit <= 0 means all of
// them. The sequence is finite and restartable: ranging over it again
// replays it from the start.
func (rd *Reader) Completions(prefix string, limit int) iter.Seq[string] {
	return func(yield func(string) bool) {
		block, leaf, final, ok := rd.walk(prefix)
		if !ok {
			return
		}

		remaining := limit
		emit := func(word []byte) bool {
			if !yield(string(word)) {
				return false
			}
			if limit > 0 {
				remaining--
				if remaining == 0 {
					return false
				}
			}
			return true
		}

		word := append([]byte(nil), prefix...)
		if final && !emit(word) {
			return
		}
		if !leaf {
			rd.descend(block, word, emit)
		}
	}
}

// descend runs the depth-first traversal below one block, extending
// word in place. emit returns false to stop the whole walk.
func (rd *Reader) descend(block int, word []byte, emit func([]byte) bool) bool {
	for pos := block; ; pos++ {
		rec := rd.record(pos)
		word = append(word, byte('A'+recordLetter(rec)))
		if recordFinal(rec) && !emit(word) {
			return false
		}
		if t := recordTarget(rec); t != 0 {
			if !rd.descend(t, word, emit) {
				return false
			}
		}
		word = word[:len(word)-1]
		if recordLast(rec) {
			return true
		}
	}
}
