package dawg

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"os"
)

/* FILE FORMAT

All integers are big-endian.

	offset 0:  4 bytes  magic "DAWG"
	offset 4:  uint32   format version, currently 1
	offset 8:  uint32   number of words
	offset 12: uint32   number of states
	offset 16: uint32   number of transition records
	offset 20: records, one uint32 each

A record packs, from the high bit down:

	bits 31-27  letter, 0 for 'A' through 25 for 'Z'
	bit  26     the target state is final
	bit  25     last record of the current state's transition block
	bits 24-0   index of the target state's first record, or 0 when
	            the target has no outgoing transitions

Record 0 begins the root state's transition block, so the buffer is
self-describing: no external state is needed to traverse it. The root
is never the target of a transition (the automaton is acyclic), which
frees target index 0 to mean "leaf". A state's block ends at the record
carrying the last flag; leaf states own no block at all. The root's own
final flag is implicitly false, since empty words never pass
validation.

Record indices are assigned by a depth-first walk from the root in
ascending letter order, numbering each state's block on first visit.
The walk is fixed, so packing the same automaton twice produces
byte-identical buffers.
*/

const (
	packedMagic   = "DAWG"
	packedVersion = 1

	headerSize = 20
	recordSize = 4

	letterShift = 27
	letterMask  = 0x1f
	finalBit    = 1 << 26
	lastBit     = 1 << 25
	targetMask  = 1<<25 - 1

	// maxRecords is the largest record count addressable by the
	// 25-bit target field.
	maxRecords = targetMask
)

// Artifact is a packed automaton: the opaque byte buffer that crosses
// the process or storage boundary, together with the byte size and
// SHA-256 checksum that travel with it out of band.
type Artifact struct {
	Data   []byte
	Size   int64
	SHA256 string
}

// Pack serializes the automaton into a packed buffer. The result is
// deterministic: equal automatons yield byte-identical artifacts.
func (a *Automaton) Pack() (*Artifact, error) {
	// First pass: number each reachable state's transition block on
	// first visit, depth first in ascending letter order.
	firstRecord := make(map[*state]int, a.numStates)
	ordered := make([]*state, 0, a.numStates)
	numRecords := 0

	var visit func(s *state)
	visit = func(s *state) {
		if len(s.edges) == 0 {
			return
		}
		if _, seen := firstRecord[s]; seen {
			return
		}
		firstRecord[s] = numRecords
		numRecords += len(s.edges)
		ordered = append(ordered, s)
		for _, e := range s.edges {
			visit(e.to)
		}
	}
	visit(a.root)

	if numRecords > maxRecords {
		return nil, fmt.Errorf("dawg: automaton has %d transitions, packed format holds at most %d",
			numRecords, maxRecords)
	}

	// Second pass: emit the header and every block in visit order.
	data := make([]byte, headerSize+numRecords*recordSize)
	copy(data[0:4], packedMagic)
	binary.BigEndian.PutUint32(data[4:8], packedVersion)
	binary.BigEndian.PutUint32(data[8:12], uint32(a.numWords))
	binary.BigEndian.PutUint32(data[12:16], uint32(a.numStates))
	binary.BigEndian.PutUint32(data[16:20], uint32(numRecords))

	pos := headerSize
	for _, s := range ordered {
		for i, e := range s.edges {
			rec := uint32(e.ch-'A') << letterShift
			if e.to.final {
				rec |= finalBit
			}
			if i == len(s.edges)-1 {
				rec |= lastBit
			}
			if len(e.to.edges) > 0 {
				rec |= uint32(firstRecord[e.to])
			}
			binary.BigEndian.PutUint32(data[pos:pos+recordSize], rec)
			pos += recordSize
		}
	}

	sum := sha256.Sum256(data)
	return &Artifact{
		Data:   data,
		Size:   int64(len(data)),
		SHA256: hex.EncodeToString(sum[:]),
	}, nil
}

// WriteFile writes the packed buffer to path.
func (art *Artifact) WriteFile(path string) error {
	if err := os.WriteFile(path, art.Data, 0o644); err != nil {
		return fmt.Errorf("write packed dawg: %w", err)
	}
	return nil
}

func recordLetter(rec uint32) int { return int(rec>>letterShift) & letterMask }
func recordFinal(rec uint32) bool { return rec&finalBit != 0 }
func recordLast(rec uint32) bool  { return rec&lastBit != 0 }
func recordTarget(rec uint32) int { return int(rec & targetMask) }
