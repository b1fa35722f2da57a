// Package wordlist normalizes raw dictionary text into the strictly
// sorted, duplicate-free, uppercase A-Z word list the automaton
// builder consumes, and reads/writes the words.txt artifact.
package wordlist

import (
	"bufio"
	"fmt"
	"os"
	"slices"
	"strings"
)

// NormalizeWord maps arbitrary input text to the dictionary alphabet:
// uppercased, with everything outside A-Z stripped. This runs at the
// query boundary too, so user input matches what was indexed.
func NormalizeWord(s string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(s) {
		if r >= 'A' && r <= 'Z' {
			b.WriteByte(byte(r))
		}
	}
	return b.String()
}

// Normalize turns raw word-list text, one candidate per line, into a
// sorted unique list of normalized words. Lines that normalize to
// nothing are dropped.
func Normalize(raw string) []string {
	seen := make(map[string]bool)
	for line := range strings.Lines(raw) {
		word := NormalizeWord(line)
		if word != "" {
			seen[word] = true
		}
	}
	words := make([]string, 0, len(seen))
	for w := range seen {
		words = append(words, w)
	}
	slices.Sort(words)
	return words
}

// Write writes words to path, one per line, newline-terminated.
func Write(path string, words []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write word list: %w", err)
	}
	w := bufio.NewWriter(f)
	for _, word := range words {
		w.WriteString(word)
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("write word list: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write word list: %w", err)
	}
	return nil
}

// Read loads a words file written by Write.
func Read(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read word list: %w", err)
	}
	defer f.Close()

	var words []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			words = append(words, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read word list: %w", err)
	}
	return words, nil
}
