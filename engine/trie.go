package engine

import (
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
)

type trieNode struct {
	children map[rune]*trieNode
	terminal bool
	docs     *roaring.Bitmap
}

func newTrieNode() *trieNode {
	return &trieNode{children: make(map[rune]*trieNode)}
}

// trie maps every prefix of an indexed term to the documents holding a term with that prefix.
type trie struct {
	root *trieNode
}

func newTrie() *trie {
	return &trie{root: newTrieNode()}
}

func (t *trie) insert(term string, doc uint32) {
	node := t.root
	for _, ch := range strings.ToLower(term) {
		child, ok := node.children[ch]
		if !ok {
			child = newTrieNode()
			node.children[ch] = child
		}
		node = child
	}
	if !node.terminal {
		node.terminal = true
		node.docs = roaring.New()
	}
	node.docs.Add(doc)
}

// search returns the union of documents at every terminal node under prefix.
// An unknown prefix yields an empty bitmap.
func (t *trie) search(prefix string) *roaring.Bitmap {
	found := roaring.New()
	node := t.root
	for _, ch := range strings.ToLower(prefix) {
		child, ok := node.children[ch]
		if !ok {
			return found
		}
		node = child
	}

	stack := []*trieNode{node}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if current.terminal {
			found.Or(current.docs)
		}
		for _, child := range current.children {
			stack = append(stack, child)
		}
	}
	return found
}
