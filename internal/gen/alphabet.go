// Package gen produces random automata for exercising and benchmarking
// determinization algorithms. All randomness flows through a caller-supplied
// rand source so runs can be reproduced from a seed.
package gen

import (
	"fmt"
)

// DefaultLetters is the symbol pool used by Alphabet. Each symbol of the
// produced alphabet is one or more of these letters.
const DefaultLetters = "abcdefghijklmnopqrstuvwxyz"

// DefaultAlphabetCardinality is the number of symbols Alphabet produces when
// no cardinality is configured.
const DefaultAlphabetCardinality = 5

// Alphabet returns an alphabet of exactly cardinality distinct symbols. The
// first 26 symbols are the single letters "a" through "z"; past that, symbols
// get longer ("aa", "ab", ...). The empty label is never included.
//
// Panics if cardinality is not positive.
func Alphabet(cardinality int) []string {
	return AlphabetFromLetters(cardinality, DefaultLetters)
}

// AlphabetFromLetters is like Alphabet but draws symbols from the given
// letter pool instead of DefaultLetters.
func AlphabetFromLetters(cardinality int, letters string) []string {
	if cardinality < 1 {
		panic(fmt.Sprintf("alphabet cardinality must be positive, got %d", cardinality))
	}
	if len(letters) == 0 {
		panic("alphabet letter pool is empty")
	}

	symbols := make([]string, cardinality)
	for i := 0; i < cardinality; i++ {
		symbols[i] = symbolName(i, letters)
	}
	return symbols
}

// symbolName spells out the i-th symbol in bijective base-N over the letter
// pool, so index 0 is "a" and index 26 is "aa" for the default pool.
func symbolName(i int, letters string) string {
	n := len(letters)

	name := ""
	for {
		name = string(letters[i%n]) + name
		i = i/n - 1
		if i < 0 {
			break
		}
	}
	return name
}
