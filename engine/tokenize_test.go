package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var tokenizeTestCases = []struct {
	name     string
	input    string
	expected []string
}{
	{
		name:     "Empty",
		input:    "",
		expected: []string{},
	},
	{
		name:     "OnlySeparators",
		input:    " .,!?;:()[]{}\"' \t\n",
		expected: []string{},
	},
	{
		name:     "Lowercases",
		input:    "The Quick BROWN fox",
		expected: []string{"the", "quick", "brown", "fox"},
	},
	{
		name:     "SplitsOnPunctuation",
		input:    `Hello, World! (it's) [a] {test}; "done": yes?`,
		expected: []string{"hello", "world", "it", "s", "a", "test", "done", "yes"},
	},
	{
		name:     "KeepsOtherSymbols",
		input:    "e-mail user@example snake_case",
		expected: []string{"e-mail", "user@example", "snake_case"},
	},
	{
		name:     "PreservesRepeats",
		input:    "go go  gopher",
		expected: []string{"go", "go", "gopher"},
	},
}

func TestTokenize(t *testing.T) {
	for _, testCase := range tokenizeTestCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert := require.New(t)
			tokens := Tokenize(testCase.input)
			if len(testCase.expected) == 0 {
				assert.Empty(tokens)
				return
			}
			assert.Equal(testCase.expected, tokens)
		})
	}
}

func TestTokenizeIsDeterministic(t *testing.T) {
	assert := require.New(t)
	content := "Fuzzy, prefix; and vector-space (TF-IDF) ranking!"
	assert.Equal(Tokenize(content), Tokenize(content))
}

func TestTermCounts(t *testing.T) {
	assert := require.New(t)
	distinct, counts := termCounts([]string{"b", "a", "b", "c", "b"})
	assert.Equal([]string{"b", "a", "c"}, distinct)
	assert.Equal(map[string]int{"a": 1, "b": 3, "c": 1}, counts)
}
