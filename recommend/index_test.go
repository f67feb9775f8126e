package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/libsys-io/libsys/errors"
)

var indexTitles = []string{
	"The Hobbit",
	"A Wizard of Earthsea",
	"Dune",
	"The Left Hand of Darkness",
	"Neuromancer",
	"Harry Potter",
	"The Name of the Wind",
}

func TestBuildIndex(t *testing.T) {
	ix, err := BuildIndex(indexTitles)
	require.NoError(t, err)
	assert.Equal(t, len(indexTitles), ix.Len())

	title, err := ix.Title(2)
	require.NoError(t, err)
	assert.Equal(t, "Dune", title)
}

func TestBuildIndexEmpty(t *testing.T) {
	_, err := BuildIndex(nil)
	assert.True(t, errors.Is(err, ErrBadArtifact))
}

func TestBuildIndexBlankTitle(t *testing.T) {
	_, err := BuildIndex([]string{"Dune", "   ", "Neuromancer"})
	assert.True(t, errors.Is(err, ErrBadArtifact))
}

func TestTitleOutOfRange(t *testing.T) {
	ix, err := BuildIndex(indexTitles)
	require.NoError(t, err)

	_, err = ix.Title(-1)
	assert.True(t, errors.Is(err, ErrBadPosition))
	_, err = ix.Title(ix.Len())
	assert.True(t, errors.Is(err, ErrBadPosition))
}

func TestResolveExact(t *testing.T) {
	ix, err := BuildIndex(indexTitles)
	require.NoError(t, err)

	tests := []struct {
		query    string
		position int
		matched  string
	}{
		{"Dune", 2, "Dune"},
		{"dune", 2, "Dune"},
		{"  DUNE  ", 2, "Dune"},
		{"harry potter", 5, "Harry Potter"},
		{"the hobbit", 0, "The Hobbit"},
	}

	for _, tc := range tests {
		t.Run(tc.query, func(t *testing.T) {
			match, err := ix.Resolve(tc.query, DefaultFuzzyCutoff)
			require.NoError(t, err)
			assert.Equal(t, tc.position, match.Position)
			assert.Equal(t, tc.matched, match.Title)
		})
	}
}

func TestResolveExactLowestIndexWins(t *testing.T) {
	// Duplicate normalized titles resolve to the first position.
	ix, err := BuildIndex([]string{"Dune", "DUNE", "dune"})
	require.NoError(t, err)

	match, err := ix.Resolve("dune", DefaultFuzzyCutoff)
	require.NoError(t, err)
	assert.Equal(t, 0, match.Position)
	assert.Equal(t, "Dune", match.Title)
}

func TestResolveSubstring(t *testing.T) {
	ix, err := BuildIndex(indexTitles)
	require.NoError(t, err)

	match, err := ix.Resolve("earthsea", DefaultFuzzyCutoff)
	require.NoError(t, err)
	assert.Equal(t, 1, match.Position)
	assert.Equal(t, "A Wizard of Earthsea", match.Title)

	// "the" is a substring of several titles; first index order wins
	match, err = ix.Resolve("the", DefaultFuzzyCutoff)
	require.NoError(t, err)
	assert.Equal(t, 0, match.Position)
}

func TestResolveFuzzy(t *testing.T) {
	ix, err := BuildIndex(indexTitles)
	require.NoError(t, err)

	// Misspelled query: no exact or substring hit, close enough in
	// edit distance to clear the cutoff.
	match, err := ix.Resolve("hary poter", DefaultFuzzyCutoff)
	require.NoError(t, err)
	assert.Equal(t, 5, match.Position)
	assert.Equal(t, "Harry Potter", match.Title)
}

func TestResolveFuzzyBelowCutoff(t *testing.T) {
	ix, err := BuildIndex(indexTitles)
	require.NoError(t, err)

	_, err = ix.Resolve("zzzz qqqq xxxx", DefaultFuzzyCutoff)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestResolveEmptyQuery(t *testing.T) {
	ix, err := BuildIndex(indexTitles)
	require.NoError(t, err)

	for _, query := range []string{"", "   ", "\t\n"} {
		_, err := ix.Resolve(query, DefaultFuzzyCutoff)
		assert.True(t, errors.Is(err, ErrNotFound), "query %q", query)
	}
}

func TestResolveDeterministic(t *testing.T) {
	ix, err := BuildIndex(indexTitles)
	require.NoError(t, err)

	first, err := ix.Resolve("neuromancer", DefaultFuzzyCutoff)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := ix.Resolve("neuromancer", DefaultFuzzyCutoff)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
