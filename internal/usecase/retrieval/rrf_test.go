package retrieval

import (
	"math"
	"testing"
)

func TestFuseRRF_DocumentInBothRankingsWins(t *testing.T) {
	lexical := []rankedDoc{{index: 0, score: 2.1}, {index: 1, score: 1.4}}
	semantic := []rankedDoc{{index: 1, score: 0.9}, {index: 2, score: 0.7}}

	fused := fuseRRF(60, semantic, lexical)
	if len(fused) != 3 {
		t.Fatalf("Expected 3 fused docs, got %d", len(fused))
	}
	if fused[0].index != 1 {
		t.Errorf("Expected doc 1 (present in both rankings) first, got %d", fused[0].index)
	}

	// rank 2 in lexical + rank 1 in semantic
	want := 1.0/62 + 1.0/61
	if math.Abs(fused[0].score-want) > 1e-12 {
		t.Errorf("Expected fused score %g, got %g", want, fused[0].score)
	}
}

func TestFuseRRF_AbsentRankingContributesNothing(t *testing.T) {
	lexical := []rankedDoc{{index: 0, score: 1.0}}

	fused := fuseRRF(60, nil, lexical)
	if len(fused) != 1 {
		t.Fatalf("Expected 1 fused doc, got %d", len(fused))
	}
	want := 1.0 / 61
	if math.Abs(fused[0].score-want) > 1e-12 {
		t.Errorf("Expected fused score %g, got %g", want, fused[0].score)
	}
}

func TestFuseRRF_Deterministic(t *testing.T) {
	lexical := []rankedDoc{{index: 3, score: 2.0}, {index: 0, score: 1.5}, {index: 1, score: 0.5}}
	semantic := []rankedDoc{{index: 1, score: 0.8}, {index: 3, score: 0.6}, {index: 2, score: 0.2}}

	first := fuseRRF(60, semantic, lexical)
	for n := 0; n < 10; n++ {
		again := fuseRRF(60, semantic, lexical)
		if len(again) != len(first) {
			t.Fatalf("Fusion output length changed between runs")
		}
		for i := range first {
			if again[i].index != first[i].index {
				t.Fatalf("Fusion ordering changed between runs: %v vs %v", first, again)
			}
		}
	}
}

func TestFuseRRF_TieBreaksByIndex(t *testing.T) {
	// Both docs hold rank 1 in exactly one ranking, so their fused scores tie.
	lexical := []rankedDoc{{index: 5, score: 1.0}}
	semantic := []rankedDoc{{index: 2, score: 1.0}}

	fused := fuseRRF(60, semantic, lexical)
	if fused[0].index != 2 || fused[1].index != 5 {
		t.Errorf("Expected tie broken by index (2 before 5), got %d then %d",
			fused[0].index, fused[1].index)
	}
}

func TestFuseRRF_Empty(t *testing.T) {
	if fused := fuseRRF(60); len(fused) != 0 {
		t.Errorf("Expected empty fusion of no rankings, got %v", fused)
	}
}
