package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/libsys-io/libsys/errors"
)

func testMatrix() Matrix {
	// 6 items; row 5 has its self-similarity at the maximum
	return Matrix{
		{1.0, 0.2, 0.3, 0.1, 0.0, 0.5},
		{0.2, 1.0, 0.6, 0.4, 0.1, 0.3},
		{0.3, 0.6, 1.0, 0.2, 0.2, 0.7},
		{0.1, 0.4, 0.2, 1.0, 0.5, 0.1},
		{0.0, 0.1, 0.2, 0.5, 1.0, 0.4},
		{0.5, 0.3, 0.7, 0.1, 0.4, 1.0},
	}
}

func TestRankExcludesSelf(t *testing.T) {
	m := testMatrix()

	ranked, err := Rank(5, m, 4)
	require.NoError(t, err)
	require.Len(t, ranked, 4)

	for _, r := range ranked {
		assert.NotEqual(t, 5, r.Position, "self position must never appear")
	}

	// Row 5 without (5,5): scores 0.5, 0.3, 0.7, 0.1, 0.4
	assert.Equal(t, 2, ranked[0].Position)
	assert.InDelta(t, 0.7, ranked[0].Score, 1e-9)
	assert.Equal(t, 0, ranked[1].Position)
	assert.Equal(t, 4, ranked[2].Position)
	assert.Equal(t, 1, ranked[3].Position)
}

func TestRankOrdering(t *testing.T) {
	m := testMatrix()

	ranked, err := Rank(0, m, len(m))
	require.NoError(t, err)

	for i := 1; i < len(ranked); i++ {
		prev, cur := ranked[i-1], ranked[i]
		if prev.Score == cur.Score {
			assert.Less(t, prev.Position, cur.Position, "equal scores must order by ascending position")
		} else {
			assert.Greater(t, prev.Score, cur.Score)
		}
	}
}

func TestRankTieBreaking(t *testing.T) {
	m := Matrix{
		{1.0, 0.5, 0.5, 0.5},
		{0.5, 1.0, 0.5, 0.5},
		{0.5, 0.5, 1.0, 0.5},
		{0.5, 0.5, 0.5, 1.0},
	}

	ranked, err := Rank(2, m, 3)
	require.NoError(t, err)
	require.Len(t, ranked, 3)

	// All scores equal: ascending position order, self excluded
	assert.Equal(t, []Ranked{
		{Position: 0, Score: 0.5},
		{Position: 1, Score: 0.5},
		{Position: 3, Score: 0.5},
	}, ranked)
}

func TestRankTopKLimits(t *testing.T) {
	m := testMatrix()

	ranked, err := Rank(1, m, 2)
	require.NoError(t, err)
	assert.Len(t, ranked, 2)

	// topK larger than the matrix returns everything except self
	ranked, err = Rank(1, m, 100)
	require.NoError(t, err)
	assert.Len(t, ranked, len(m)-1)

	ranked, err = Rank(1, m, 0)
	require.NoError(t, err)
	assert.Empty(t, ranked)
}

func TestRankBadPosition(t *testing.T) {
	m := testMatrix()

	_, err := Rank(-1, m, 4)
	assert.True(t, errors.Is(err, ErrBadPosition))

	_, err = Rank(len(m), m, 4)
	assert.True(t, errors.Is(err, ErrBadPosition))
}

func TestRankDoesNotMutate(t *testing.T) {
	m := testMatrix()
	want := testMatrix()

	_, err := Rank(3, m, 4)
	require.NoError(t, err)
	assert.Equal(t, want, m)
}
