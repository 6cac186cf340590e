package engine

import (
	"cmp"
	"slices"
)

// score fuses cosine similarity, prefix boosts and fuzzy boosts into one value per document handle.
func (e *Engine) score(queryTerms []string, opts Options) []float64 {
	scores := make([]float64, len(e.docs))

	qv := queryVector(e.index, len(e.docs), queryTerms)
	for handle, dv := range e.vectors.vectors {
		scores[handle] = cosineSimilarity(qv, dv)
	}

	for _, term := range queryTerms {
		matches := e.trie.search(term)
		it := matches.Iterator()
		for it.HasNext() {
			scores[it.Next()] += opts.PrefixBoost
		}
	}

	for _, queryTerm := range queryTerms {
		fuzzyMatches(e.index, queryTerm, opts.FuzzyThreshold, func(term string) {
			for handle := range e.index.postingsFor(term) {
				scores[handle] += e.config.FuzzyIncrement
			}
		})
	}

	return scores
}

// rank keeps positive scores and orders them descending. Equal scores keep insertion order.
func (e *Engine) rank(scores []float64) []Result {
	type scored struct {
		handle uint32
		score  float64
	}
	hits := make([]scored, 0, len(scores))
	for handle, s := range scores {
		if s > 0 {
			hits = append(hits, scored{handle: uint32(handle), score: s})
		}
	}
	slices.SortStableFunc(hits, func(a, b scored) int {
		return cmp.Compare(b.score, a.score)
	})

	results := make([]Result, len(hits))
	for i, hit := range hits {
		results[i] = Result{Document: e.docs[hit.handle].clone(), Score: hit.score}
	}
	return results
}
