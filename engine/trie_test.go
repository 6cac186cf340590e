package engine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTrieSearch(t *testing.T) {
	tr := newTrie()
	tr.insert("cat", 0)
	tr.insert("car", 1)
	tr.insert("cart", 2)
	tr.insert("dog", 3)
	tr.insert("cat", 4)

	var trieSearchTestCases = []struct {
		name     string
		prefix   string
		expected []uint32
	}{
		{name: "SharedPrefix", prefix: "ca", expected: []uint32{0, 1, 2, 4}},
		{name: "ExactTermAndLonger", prefix: "car", expected: []uint32{1, 2}},
		{name: "LeafTerm", prefix: "cart", expected: []uint32{2}},
		{name: "UpperCasePrefix", prefix: "CA", expected: []uint32{0, 1, 2, 4}},
		{name: "EmptyPrefixMatchesAll", prefix: "", expected: []uint32{0, 1, 2, 3, 4}},
		{name: "UnknownPrefix", prefix: "xyz", expected: []uint32{}},
		{name: "PrefixLongerThanTerm", prefix: "carts", expected: []uint32{}},
	}

	for _, testCase := range trieSearchTestCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert := require.New(t)
			found := tr.search(testCase.prefix)
			assert.ElementsMatch(testCase.expected, found.ToArray())
		})
	}
}

func TestTrieInsertIsIdempotent(t *testing.T) {
	assert := require.New(t)
	tr := newTrie()
	tr.insert("apple", 7)
	tr.insert("apple", 7)
	assert.Equal(uint64(1), tr.search("app").GetCardinality())
}

func TestTrieIntermediateNodesAreNotTerminal(t *testing.T) {
	assert := require.New(t)
	tr := newTrie()
	tr.insert("cart", 1)
	assert.Equal([]uint32{1}, tr.search("car").ToArray())

	node := tr.root
	for _, ch := range "car" {
		node = node.children[ch]
	}
	assert.False(node.terminal)
	assert.Nil(node.docs)
}
