package retrieval

import "sort"

// fuseRRF merges per-method rankings via Reciprocal Rank Fusion.
// fusedScore(d) = sum of 1/(k + rank_i(d)) over the rankings where d appears;
// a document absent from a ranking simply contributes nothing for it. Fusion
// is a pure function of its inputs: ties break by corpus index, so identical
// rankings always fuse to the identical output ordering.
func fuseRRF(k int, rankings ...[]rankedDoc) []rankedDoc {
	fused := make(map[int]float64)
	for _, ranking := range rankings {
		for rank, r := range ranking {
			fused[r.index] += 1.0 / float64(k+rank+1)
		}
	}

	result := make([]rankedDoc, 0, len(fused))
	for index, score := range fused {
		result = append(result, rankedDoc{index: index, score: score})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].score != result[j].score {
			return result[i].score > result[j].score
		}
		return result[i].index < result[j].index
	})
	return result
}
