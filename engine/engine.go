// Package engine is an in-memory full-text ranking core. Documents are indexed once and ranked
// against free-text queries by combining TF-IDF cosine similarity, prefix matches from a trie
// and Levenshtein-distance fuzzy matches.
package engine

import (
	"strings"
	"sync"

	"github.com/meghashyamc/catalogsearch/logger"
)

// Engine owns every index structure. AddDocument holds the write lock and searches hold the
// read lock, so a search never sees a partially indexed document.
type Engine struct {
	mu     sync.RWMutex
	logger logger.Logger
	config Config

	docs    []Document
	handles map[string]uint32
	index   *invertedIndex
	vectors *vectorStore
	trie    *trie
}

func New(logger logger.Logger, config Config) *Engine {
	return &Engine{
		logger:  logger,
		config:  config,
		handles: make(map[string]uint32),
		index:   newInvertedIndex(),
		vectors: &vectorStore{},
		trie:    newTrie(),
	}
}

// AddDocument indexes doc. It returns a *ValidationError, leaving the engine unchanged,
// when the id is empty or already indexed, or when the content has no terms.
func (e *Engine) AddDocument(doc Document) error {
	if strings.TrimSpace(doc.ID) == "" {
		return &ValidationError{Field: "id", Reason: "must not be empty"}
	}
	if strings.TrimSpace(doc.Content) == "" {
		return &ValidationError{Field: "content", Reason: "must not be empty"}
	}
	tokens := Tokenize(doc.Content)
	if len(tokens) == 0 {
		return &ValidationError{Field: "content", Reason: "must contain at least one term"}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.handles[doc.ID]; exists {
		return &ValidationError{Field: "id", Reason: "document " + doc.ID + " is already indexed"}
	}

	handle := uint32(len(e.docs))
	e.docs = append(e.docs, doc.clone())
	e.handles[doc.ID] = handle

	for _, token := range tokens {
		e.index.recordOccurrence(token, handle)
	}
	distinct, counts := termCounts(tokens)
	e.vectors.add(e.index, len(e.docs), distinct, counts, len(tokens))
	for _, term := range distinct {
		e.trie.insert(term, handle)
	}

	e.logger.Debug("indexed document", "id", doc.ID, "terms", len(tokens), "distinct_terms", len(distinct))
	return nil
}

// Search returns the documents matching query, best first.
// A query with no terms, or one that matches nothing, yields an empty list.
func (e *Engine) Search(query string, opts Options) []Document {
	results := e.Rank(query, opts)
	docs := make([]Document, len(results))
	for i, result := range results {
		docs[i] = result.Document
	}
	return docs
}

// Rank is Search with the fused score of every returned document.
func (e *Engine) Rank(query string, opts Options) []Result {
	queryTerms := Tokenize(query)
	if len(queryTerms) == 0 {
		return []Result{}
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	if len(e.docs) == 0 {
		return []Result{}
	}
	results := e.rank(e.score(queryTerms, opts))
	e.logger.Debug("ranked query", "terms", len(queryTerms), "results", len(results))
	return results
}

// Document returns the indexed copy of the document with the given id.
func (e *Engine) Document(id string) (Document, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	handle, ok := e.handles[id]
	if !ok {
		return Document{}, false
	}
	return e.docs[handle].clone(), true
}

// Len returns the number of indexed documents.
func (e *Engine) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.docs)
}

// TermCount returns the number of distinct indexed terms.
func (e *Engine) TermCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.index.size()
}
