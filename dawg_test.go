package dawg_test

import (
	"fmt"
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tilepile/dawg"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		words  []string
		index  int
		reason string
	}{
		{name: "ok", words: []string{"A", "AN", "AND", "ANT"}},
		{name: "empty list", words: nil},
		{name: "empty word", words: []string{"A", ""}, index: 1, reason: "empty word"},
		{name: "lowercase", words: []string{"A", "an"}, index: 1, reason: "letter outside A-Z"},
		{name: "digit", words: []string{"A1"}, index: 0, reason: "letter outside A-Z"},
		{name: "unsorted", words: []string{"AN", "A"}, index: 1, reason: "words not sorted"},
		{name: "duplicate", words: []string{"A", "A"}, index: 1, reason: "duplicate word"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := dawg.Validate(tt.words)
			if tt.reason == "" {
				require.NoError(t, err)
				return
			}
			var verr *dawg.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.index, verr.Index)
			assert.Equal(t, tt.reason, verr.Reason)
			assert.Equal(t, tt.words[tt.index], verr.Word)
			if tt.index > 0 {
				assert.Equal(t, tt.words[tt.index-1], verr.Prev)
			}
		})
	}
}

func TestBuildContains(t *testing.T) {
	words := []string{"A", "AN", "AND", "ANT"}
	a, err := dawg.Build(words)
	require.NoError(t, err)

	assert.Equal(t, len(words), a.NumWords())
	for _, w := range words {
		assert.True(t, a.Contains(w), w)
	}
	for _, w := range []string{"", "AS", "ANDS", "B", "ANTS"} {
		assert.False(t, a.Contains(w), w)
	}
}

func TestBuilderRejectsBadInput(t *testing.T) {
	b := dawg.NewBuilder()
	require.NoError(t, b.Add("AN"))

	var verr *dawg.ValidationError

	err := b.Add("AN")
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "duplicate word", verr.Reason)
	assert.Equal(t, 1, verr.Index)
	assert.Equal(t, "AN", verr.Prev)

	err = b.Add("A")
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "words not sorted", verr.Reason)

	err = b.Add("")
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "empty word", verr.Reason)

	err = b.Add("ant")
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "letter outside A-Z", verr.Reason)
}

func TestBuilderFinishedIsFinal(t *testing.T) {
	b := dawg.NewBuilder()
	require.NoError(t, b.Add("CAT"))

	a := b.Finish()
	require.Error(t, b.Add("DOG"))
	assert.Same(t, a, b.Finish())
}

func TestEmptyAutomaton(t *testing.T) {
	a, err := dawg.Build(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, a.NumWords())
	assert.Equal(t, 1, a.NumStates())
	assert.Equal(t, 0, a.NumEdges())
	assert.False(t, a.Contains(""))
	assert.False(t, a.Contains("A"))
}

// trieStates counts the states of a naive, non-minimized trie over
// words: one per distinct prefix, plus the root.
func trieStates(words []string) int {
	prefixes := map[string]bool{"": true}
	for _, w := range words {
		for i := 1; i <= len(w); i++ {
			prefixes[w[:i]] = true
		}
	}
	return len(prefixes)
}

func TestMinimality(t *testing.T) {
	// Shared -P/-PS suffixes must collapse into shared subgraphs.
	words := []string{"TAP", "TAPS", "TOP", "TOPS"}
	a, err := dawg.Build(words)
	require.NoError(t, err)
	assert.Less(t, a.NumStates(), trieStates(words))

	// A single word shares no suffix with anything; the DAWG is then
	// exactly the trie.
	single, err := dawg.Build([]string{"AB"})
	require.NoError(t, err)
	assert.Equal(t, trieStates([]string{"AB"}), single.NumStates())
}

// randomWords returns a deterministic pseudo-random sorted unique word
// list for round-trip tests.
func randomWords(n int, seed int64) []string {
	rng := rand.New(rand.NewSource(seed))
	set := map[string]bool{}
	for len(set) < n {
		length := 1 + rng.Intn(12)
		word := make([]byte, length)
		for i := range word {
			word[i] = byte('A' + rng.Intn(26))
		}
		set[string(word)] = true
	}
	words := make([]string, 0, n)
	for w := range set {
		words = append(words, w)
	}
	slices.Sort(words)
	return words
}

func TestRoundTripMembership(t *testing.T) {
	words := randomWords(2000, 1)
	a, err := dawg.Build(words)
	require.NoError(t, err)

	art, err := a.Pack()
	require.NoError(t, err)

	rd, err := dawg.Decode(art.Data)
	require.NoError(t, err)
	require.Equal(t, len(words), rd.NumWords())

	inList := map[string]bool{}
	for _, w := range words {
		inList[w] = true
	}

	for _, w := range words {
		require.True(t, rd.IsWord(w), w)
		for i := 1; i <= len(w); i++ {
			require.True(t, rd.IsPrefix(w[:i]), w[:i])
		}
	}

	// Mangled variants must not be recognized unless they happen to be
	// in the list themselves.
	for _, w := range words[:200] {
		for _, probe := range []string{w + "X", "X" + w, w[:len(w)-1]} {
			if probe != "" && !inList[probe] {
				require.False(t, rd.IsWord(probe), probe)
			}
		}
	}

	// Decoding and re-deriving the full word set must match exactly.
	got := slices.Collect(rd.Completions("", 0))
	require.Equal(t, words, got)
}

func TestDeterministicPacking(t *testing.T) {
	words := randomWords(500, 2)

	var artifacts []*dawg.Artifact
	for i := 0; i < 2; i++ {
		a, err := dawg.Build(words)
		require.NoError(t, err)
		art, err := a.Pack()
		require.NoError(t, err)
		artifacts = append(artifacts, art)
	}

	assert.Equal(t, artifacts[0].Data, artifacts[1].Data)
	assert.Equal(t, artifacts[0].SHA256, artifacts[1].SHA256)
	assert.Equal(t, artifacts[0].Size, artifacts[1].Size)
}

func ExampleBuild() {
	a, _ := dawg.Build([]string{"A", "AN", "AND", "ANT"})
	art, _ := a.Pack()
	rd, _ := dawg.Decode(art.Data)

	fmt.Println(rd.IsWord("AND"), rd.IsWord("AS"), rd.IsPrefix("AN"), rd.IsPrefix("ANDS"))
	for w := range rd.Completions("AN", 10) {
		fmt.Println(w)
	}
	// Output:
	// true false true false
	// AN
	// AND
	// ANT
}

func BenchmarkIsWord(b *testing.B) {
	words := randomWords(20000, 3)
	a, err := dawg.Build(words)
	if err != nil {
		b.Fatal(err)
	}
	art, err := a.Pack()
	if err != nil {
		b.Fatal(err)
	}
	rd, err := dawg.Decode(art.Data)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rd.IsWord(words[i%len(words)])
	}
}
