package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func enrichIndex(t *testing.T) *TitleIndex {
	t.Helper()
	ix, err := BuildIndex([]string{"Dune", "Neuromancer", "The Hobbit", "Solaris"})
	require.NoError(t, err)
	return ix
}

func TestEnrichPreservesOrderAndLength(t *testing.T) {
	ix := enrichIndex(t)
	catalog := NewCatalog([]CatalogItem{
		{Title: "Dune", Author: "Frank Herbert", ImageURL: "http://img/dune.jpg"},
		{Title: "The Hobbit", Author: "J.R.R. Tolkien", ImageURL: "http://img/hobbit.jpg"},
	})

	positions := []int{2, 0, 1}
	records := Enrich(positions, ix, []MetadataSource{catalog})

	require.Len(t, records, len(positions))
	assert.Equal(t, "The Hobbit", records[0].Title)
	assert.Equal(t, "Dune", records[1].Title)
	// Neuromancer is not in the catalog: still one record, empty fields
	assert.Equal(t, "Neuromancer", records[2].Title)
	assert.Empty(t, records[2].Author)
	assert.Empty(t, records[2].ImageURL)
}

func TestEnrichSourcePrecedence(t *testing.T) {
	ix := enrichIndex(t)

	// First source knows the title but has no image; second has one.
	// The populated URL must win regardless of source position.
	merged := NewCatalog([]CatalogItem{
		{Title: "Solaris", Author: "Stanislaw Lem", ImageURL: ""},
	})
	rawImport := NewCatalog([]CatalogItem{
		{Title: "Solaris", Author: "S. Lem", ImageURL: "http://img/solaris.jpg"},
	})

	records := Enrich([]int{3}, ix, []MetadataSource{merged, rawImport})
	require.Len(t, records, 1)

	// Author still comes from the first source that knows the title
	assert.Equal(t, "Stanislaw Lem", records[0].Author)
	assert.Equal(t, "http://img/solaris.jpg", records[0].ImageURL)
}

func TestCatalogDeduplicatesByTitle(t *testing.T) {
	catalog := NewCatalog([]CatalogItem{
		{Title: "Dune", Author: "Frank Herbert", ImageURL: "http://img/first.jpg"},
		{Title: "Dune", Author: "F. Herbert", ImageURL: "http://img/second.jpg"},
	})

	assert.Equal(t, 1, catalog.Len())
	item, ok := catalog.Lookup("Dune")
	require.True(t, ok)
	assert.Equal(t, "http://img/first.jpg", item.ImageURL, "first occurrence wins")
}

func TestEnrichBadPositionYieldsEmptyRecord(t *testing.T) {
	ix := enrichIndex(t)
	records := Enrich([]int{0, 99}, ix, nil)

	require.Len(t, records, 2)
	assert.Equal(t, "Dune", records[0].Title)
	assert.Empty(t, records[1].Title)
}

func TestImageFor(t *testing.T) {
	catalog := NewCatalog([]CatalogItem{
		{Title: "Dune", Author: "Frank Herbert", ImageURL: "http://img/dune.jpg"},
	})
	sources := []MetadataSource{catalog}

	// The row's own URL takes precedence
	assert.Equal(t, "http://own.jpg", imageFor("Dune", "http://own.jpg", sources))
	// Falls back to the sources
	assert.Equal(t, "http://img/dune.jpg", imageFor("Dune", "", sources))
	// Unknown title: empty
	assert.Empty(t, imageFor("Unknown", "", sources))
}
