package engine

// levenshtein is the classic edit distance with unit cost for substitution, insertion and deletion.
// It works on runes so multi-byte characters count as one edit.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			if ra[i-1] == rb[j-1] {
				curr[j] = prev[j-1]
				continue
			}
			curr[j] = 1 + min(
				prev[j-1], // substitution
				prev[j],   // deletion
				curr[j-1], // insertion
			)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func runeLen(s string) int {
	n := 0
	for range s {
		n++
	}
	return n
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// fuzzyMatches calls match for every indexed term within threshold edits of queryTerm.
// The length difference is a lower bound on the distance, so those pairs skip the matrix.
func fuzzyMatches(ix *invertedIndex, queryTerm string, threshold int, match func(term string)) {
	if threshold < 0 {
		return
	}
	queryLen := runeLen(queryTerm)
	for _, term := range ix.terms() {
		if abs(runeLen(term)-queryLen) > threshold {
			continue
		}
		if levenshtein(queryTerm, term) <= threshold {
			match(term)
		}
	}
}
