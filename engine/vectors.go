package engine

import "math"

type sparseVector struct {
	weights map[string]float64
	norm    float64
}

func newSparseVector(weights map[string]float64) sparseVector {
	var sum float64
	for _, w := range weights {
		sum += w * w
	}
	return sparseVector{weights: weights, norm: math.Sqrt(sum)}
}

// vectorStore holds one TF-IDF vector per document handle.
// A vector is built once, against the corpus statistics at insertion time, and never refreshed.
type vectorStore struct {
	vectors []sparseVector
}

func idf(totalDocs, df int) float64 {
	if df == 0 || totalDocs == 0 {
		return 0
	}
	return math.Log(float64(totalDocs) / float64(df))
}

// add computes the document vector. The document's occurrences must already be recorded in ix.
func (vs *vectorStore) add(ix *invertedIndex, totalDocs int, distinct []string, counts map[string]int, length int) {
	weights := make(map[string]float64, len(distinct))
	for _, term := range distinct {
		tf := float64(counts[term]) / float64(length)
		weights[term] = tf * idf(totalDocs, ix.documentFrequency(term))
	}
	vs.vectors = append(vs.vectors, newSparseVector(weights))
}

// queryVector weights every known query term by its idf alone, with no term-frequency factor.
func queryVector(ix *invertedIndex, totalDocs int, terms []string) sparseVector {
	weights := make(map[string]float64, len(terms))
	for _, term := range terms {
		if df := ix.documentFrequency(term); df > 0 {
			weights[term] = idf(totalDocs, df)
		}
	}
	return newSparseVector(weights)
}

func cosineSimilarity(query, doc sparseVector) float64 {
	if query.norm == 0 || doc.norm == 0 {
		return 0
	}
	var dot float64
	for term, qw := range query.weights {
		if dw, ok := doc.weights[term]; ok {
			dot += qw * dw
		}
	}
	similarity := dot / (query.norm * doc.norm)
	return max(0, min(1, similarity))
}
