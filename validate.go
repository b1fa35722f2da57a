package dawg

// Validate confirms that words is a valid builder input: every word
// uses only uppercase A-Z, none is empty, and the sequence is strictly
// increasing (which also rules out duplicates). It is a pure check;
// the first violation is returned as a *ValidationError.
func Validate(words []string) error {
	prev := ""
	for i, word := range words {
		if err := checkWord(i, prev, word); err != nil {
			return err
		}
		prev = word
	}
	return nil
}

// checkWord validates a single word against its predecessor. prev is
// empty for the first word.
func checkWord(index int, prev, word string) error {
	if word == "" {
		return &ValidationError{Index: index, Prev: prev, Word: word, Reason: "empty word"}
	}
	for j := 0; j < len(word); j++ {
		if word[j] < 'A' || word[j] > 'Z' {
			return &ValidationError{Index: index, Prev: prev, Word: word,
				Reason: "letter outside A-Z"}
		}
	}
	if prev != "" {
		if word == prev {
			return &ValidationError{Index: index, Prev: prev, Word: word, Reason: "duplicate word"}
		}
		if word < prev {
			return &ValidationError{Index: index, Prev: prev, Word: word, Reason: "words not sorted"}
		}
	}
	return nil
}
