package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Alphabet(t *testing.T) {
	testCases := []struct {
		name        string
		cardinality int
		expect      []string
	}{
		{
			name:        "single symbol",
			cardinality: 1,
			expect:      []string{"a"},
		},
		{
			name:        "default cardinality",
			cardinality: 5,
			expect:      []string{"a", "b", "c", "d", "e"},
		},
		{
			name:        "full letter pool",
			cardinality: 26,
			expect: []string{
				"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l", "m",
				"n", "o", "p", "q", "r", "s", "t", "u", "v", "w", "x", "y", "z",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			actual := Alphabet(tc.cardinality)

			assert.Equal(tc.expect, actual)
		})
	}
}

func Test_Alphabet_beyondLetterPool(t *testing.T) {
	assert := assert.New(t)

	actual := Alphabet(30)

	assert.Len(actual, 30)
	assert.Equal("z", actual[25])
	assert.Equal("aa", actual[26])
	assert.Equal("ab", actual[27])

	// all symbols distinct
	seen := map[string]bool{}
	for _, sym := range actual {
		assert.False(seen[sym], "duplicate symbol %q", sym)
		seen[sym] = true
	}
}

func Test_Alphabet_panicsOnBadCardinality(t *testing.T) {
	assert := assert.New(t)

	assert.Panics(func() {
		Alphabet(0)
	})
}
