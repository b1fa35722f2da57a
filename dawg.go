package dawg

import (
	"bytes"
	"errors"
	"strconv"
)

// state is a node of the automaton under construction. Transitions are
// kept in ascending letter order; because words arrive sorted, edges
// are only ever appended and the newest edge is always the last one.
type state struct {
	id    int  // assigned when the state is registered as canonical
	final bool
	edges []edge
}

type edge struct {
	ch byte // 'A'..'Z'
	to *state
}

// lastEdge returns the most recently added edge. Only called on states
// that lie on the active path, which always have at least one edge.
func (s *state) lastEdge() *edge {
	return &s.edges[len(s.edges)-1]
}

// Automaton is a finished, immutable DAWG. It recognizes exactly the
// word list it was built from. Obtain one from Build or
// Builder.Finish, then serialize it with Pack.
type Automaton struct {
	root      *state
	numWords  int
	numStates int
	numEdges  int
}

// NumWords returns the number of words the automaton recognizes.
func (a *Automaton) NumWords() int { return a.numWords }

// NumStates returns the number of states, including the root.
func (a *Automaton) NumStates() int { return a.numStates }

// NumEdges returns the number of transitions.
func (a *Automaton) NumEdges() int { return a.numEdges }

// Contains reports whether word was part of the input list, by walking
// the in-memory graph. Packed lookups go through Reader instead.
func (a *Automaton) Contains(word string) bool {
	if word == "" {
		return false
	}
	node := a.root
	for i := 0; i < len(word); i++ {
		node = child(node, word[i])
		if node == nil {
			return false
		}
	}
	return node.final
}

// child returns the target of the ch transition, or nil.
func child(s *state, ch byte) *state {
	for i := range s.edges {
		if s.edges[i].ch == ch {
			return s.edges[i].to
		}
		if s.edges[i].ch > ch {
			break
		}
	}
	return nil
}

// uncheckedState is an entry of the active path: the chain of states
// created for the previous word that has not yet been confirmed
// minimal. Indexed by depth, the deepest entry last.
type uncheckedState struct {
	parent *state
	ch     byte
	child  *state
}

// Builder constructs a minimal Automaton from words added in strictly
// increasing order. The register maps a state's structural signature
// to the canonical state carrying it; it exists only until Finish.
type Builder struct {
	root      *state
	register  map[string]*state
	unchecked []uncheckedState
	lastWord  string
	numWords  int
	nextID    int
	done      *Automaton
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		root:     &state{},
		register: make(map[string]*state),
	}
}

// Build validates words and constructs the minimal automaton
// recognizing exactly that list. An empty list yields an automaton
// that matches nothing, not even the empty string.
func Build(words []string) (*Automaton, error) {
	b := NewBuilder()
	for _, word := range words {
		if err := b.Add(word); err != nil {
			return nil, err
		}
	}
	return b.Finish(), nil
}

// Add appends the next word. Words must be non-empty, uppercase A-Z,
// and strictly greater than the previous word; violations return a
// *ValidationError naming the position. Adding to a finished builder
// is an error.
func (b *Builder) Add(word string) error {
	if b.done != nil {
		return errors.New("dawg: builder already finished")
	}
	if err := checkWord(b.numWords, b.lastWord, word); err != nil {
		return err
	}

	// Length of the common prefix with the previous word. Everything
	// on the active path below that depth will never be touched again
	// and can be folded into the register.
	commonPrefix := 0
	for commonPrefix < min(len(word), len(b.lastWord)) &&
		word[commonPrefix] == b.lastWord[commonPrefix] {
		commonPrefix++
	}
	b.minimize(commonPrefix)

	node := b.root
	if len(b.unchecked) > 0 {
		node = b.unchecked[len(b.unchecked)-1].child
	}

	for i := commonPrefix; i < len(word); i++ {
		next := &state{}
		node.edges = append(node.edges, edge{ch: word[i], to: next})
		b.unchecked = append(b.unchecked, uncheckedState{parent: node, ch: word[i], child: next})
		node = next
	}

	node.final = true
	b.lastWord = word
	b.numWords++
	return nil
}

// Finish folds the remaining active path into the register and returns
// the finished automaton. Subsequent calls return the same value.
func (b *Builder) Finish() *Automaton {
	if b.done != nil {
		return b.done
	}

	b.minimize(0)

	numStates := len(b.register) + 1
	numEdges := len(b.root.edges)
	for _, s := range b.register {
		numEdges += len(s.edges)
	}

	b.done = &Automaton{
		root:      b.root,
		numWords:  b.numWords,
		numStates: numStates,
		numEdges:  numEdges,
	}

	// Construction-only structures are dead weight from here on.
	b.register = nil
	b.unchecked = nil
	b.lastWord = ""

	return b.done
}

// minimize folds active-path states deeper than downTo into the
// register, deepest first. A state whose signature is already
// registered is discarded and the transition into it redirected to the
// canonical state; otherwise the state itself becomes canonical.
func (b *Builder) minimize(downTo int) {
	for i := len(b.unchecked) - 1; i >= downTo; i-- {
		u := b.unchecked[i]
		sig := b.signature(u.child)
		if canonical, ok := b.register[sig]; ok {
			// The edge into u.child is the newest edge of its parent.
			u.parent.lastEdge().to = canonical
		} else {
			u.child.id = b.nextID
			b.nextID++
			b.register[sig] = u.child
		}
	}
	b.unchecked = b.unchecked[:downTo]
}

// signature is the structural equivalence key of a state: its final
// flag plus the (letter, canonical child id) pairs in order. All
// children of an active-path state are registered before the state
// itself, so their ids are settled by the time this runs.
func (b *Builder) signature(s *state) string {
	var buff bytes.Buffer
	if s.final {
		buff.WriteByte('!')
	}
	for _, e := range s.edges {
		buff.WriteByte('_')
		buff.WriteByte(e.ch)
		buff.WriteByte(':')
		buff.WriteString(strconv.Itoa(e.to.id))
	}
	return buff.String()
}
