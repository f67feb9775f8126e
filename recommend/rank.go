package recommend

import (
	"sort"

	"github.com/libsys-io/libsys/errors"
)

// Matrix is a dense N×N item-item similarity matrix. Entry (i, j) is
// the similarity of item i to item j. It is loaded once and never
// mutated; concurrent reads are safe.
type Matrix [][]float64

// Ranked is one ranked candidate: an index position and its score.
type Ranked struct {
	Position int
	Score    float64
}

// Rank returns up to topK positions most similar to pos, ordered by
// score descending with ties broken by ascending position. The item's
// own self-similarity entry is always excluded.
func Rank(pos int, m Matrix, topK int) ([]Ranked, error) {
	if pos < 0 || pos >= len(m) {
		return nil, errors.Mark(errors.Newf("position %d outside [0, %d)", pos, len(m)), ErrBadPosition)
	}
	if topK <= 0 {
		return nil, nil
	}

	row := m[pos]
	candidates := make([]Ranked, 0, len(row))
	for i, score := range row {
		if i == pos {
			continue
		}
		candidates = append(candidates, Ranked{Position: i, Score: score})
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		if candidates[a].Score != candidates[b].Score {
			return candidates[a].Score > candidates[b].Score
		}
		return candidates[a].Position < candidates[b].Position
	})

	if topK < len(candidates) {
		candidates = candidates[:topK]
	}
	return candidates, nil
}
