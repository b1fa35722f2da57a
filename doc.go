/*
Package dawg builds, packs, and queries a Directed Acyclic Word Graph:
a minimal deterministic acyclic automaton recognizing a finite set of
uppercase A-Z words.

The builder consumes a strictly increasing, duplicate-free word list
and performs incremental minimization: states created for the previous
word are folded into a register of canonical states as soon as the next
word diverges from them, so shared suffixes collapse into shared
subgraphs. Given the same input the resulting automaton, and therefore
the packed artifact, is byte-for-byte identical on every run.

A finished Automaton is serialized with Pack into a flat, self
describing byte buffer of fixed-width transition records (the layout is
documented in packed.go). The buffer is the only representation that
crosses a process or storage boundary; it travels with its byte size
and SHA-256 checksum so that external tooling can verify it in transit.

Queries never touch the builder. A Reader traverses a packed buffer in
place through an io.ReaderAt, so a dictionary opened with OpenFile is
memory-mapped and queried without being read into memory. An Index
wraps a Reader behind an explicit Load step: concurrent Load calls are
collapsed into a single in-flight load, and once loaded the index is
immutable and safe for any number of concurrent readers.

	words := []string{"A", "AN", "AND", "ANT"}
	automaton, err := dawg.Build(words)
	if err != nil { ... }
	art, err := automaton.Pack()
	if err != nil { ... }

	r, err := dawg.Decode(art.Data)
	if err != nil { ... }
	r.IsWord("AND")  // true
	r.IsPrefix("AN") // true
	for w := range r.Completions("AN", 0) {
		// "AN", "AND", "ANT"
	}

Inputs are assumed to be normalized already (uppercase, A-Z only); the
package never re-normalizes and performs no I/O of its own beyond the
ReaderAt handed to it.
*/
package dawg
