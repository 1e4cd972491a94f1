package atlas

import (
	"sort"
	"strings"
)

// DefaultTopK is the number of chunks selected for answer generation.
const DefaultTopK = 5

// ScoreChunk counts how many of the question tokens occur as a substring
// anywhere in the lowercased chunk text. Each token contributes at most 1,
// independent of how often it occurs. An empty token list scores 0.
//
// Substring containment is deliberate: the chunker cuts at fixed-width
// boundaries, so word-boundary matching would lose tokens adjacent to a cut.
func ScoreChunk(chunkText string, tokens []string) int {
	if len(tokens) == 0 {
		return 0
	}
	lower := strings.ToLower(chunkText)
	score := 0
	for _, token := range tokens {
		if strings.Contains(lower, token) {
			score++
		}
	}
	return score
}

// SelectTopChunks scores every chunk against the question tokens, keeps
// those with a positive score, and returns the top k by score descending.
// The sort is stable, so equally scored chunks keep their input order.
// Fewer than k chunks are returned when fewer score above zero.
func SelectTopChunks(chunks []Chunk, tokens []string, k int) []ScoredChunk {
	if k <= 0 {
		k = DefaultTopK
	}

	scored := make([]ScoredChunk, 0, len(chunks))
	for _, chunk := range chunks {
		if score := ScoreChunk(chunk.Text, tokens); score > 0 {
			scored = append(scored, ScoredChunk{Chunk: chunk, Score: score})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > k {
		scored = scored[:k]
	}
	return scored
}
