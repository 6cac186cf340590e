package engine

// invertedIndex maps a term to the documents containing it and the number of occurrences in each.
// vocabulary keeps terms in the order they were first seen so that scans are deterministic.
type invertedIndex struct {
	postings   map[string]map[uint32]int
	vocabulary []string
}

func newInvertedIndex() *invertedIndex {
	return &invertedIndex{postings: make(map[string]map[uint32]int)}
}

func (ix *invertedIndex) recordOccurrence(term string, doc uint32) {
	docs, ok := ix.postings[term]
	if !ok {
		docs = make(map[uint32]int)
		ix.postings[term] = docs
		ix.vocabulary = append(ix.vocabulary, term)
	}
	docs[doc]++
}

func (ix *invertedIndex) documentFrequency(term string) int {
	return len(ix.postings[term])
}

// postingsFor returns nil for unknown terms. Callers must not modify the returned map.
func (ix *invertedIndex) postingsFor(term string) map[uint32]int {
	return ix.postings[term]
}

func (ix *invertedIndex) terms() []string {
	return ix.vocabulary
}

func (ix *invertedIndex) size() int {
	return len(ix.vocabulary)
}
