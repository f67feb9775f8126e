package recommend

// CatalogItem is one book's metadata from a catalog source.
type CatalogItem struct {
	Title    string
	Author   string
	ImageURL string
}

// MetadataSource looks up catalog metadata by exact title.
type MetadataSource interface {
	Lookup(title string) (CatalogItem, bool)
}

// Catalog is a map-backed MetadataSource built from one catalog
// artifact. Duplicate titles keep the first occurrence only.
type Catalog struct {
	byTitle map[string]CatalogItem
}

// NewCatalog builds a Catalog from rows, de-duplicating by title.
func NewCatalog(items []CatalogItem) *Catalog {
	byTitle := make(map[string]CatalogItem, len(items))
	for _, item := range items {
		if _, seen := byTitle[item.Title]; seen {
			continue
		}
		byTitle[item.Title] = item
	}
	return &Catalog{byTitle: byTitle}
}

// Lookup implements MetadataSource.
func (c *Catalog) Lookup(title string) (CatalogItem, bool) {
	item, ok := c.byTitle[title]
	return item, ok
}

// Len returns the number of distinct titles in the catalog.
func (c *Catalog) Len() int {
	return len(c.byTitle)
}

// Record is one enriched recommendation: a transient view handed to the
// presentation layer, never persisted by this package. NumRatings and
// AvgRating are populated only for popularity-list records.
type Record struct {
	Title      string
	Author     string
	ImageURL   string
	NumRatings int
	AvgRating  float64
}

// Enrich joins ranked positions against the metadata sources, in input
// order. Sources are consulted in their given order; the author comes
// from the first source that knows the title, and the image URL is the
// first non-empty one across sources, so an earlier source with no
// image never shadows a later one that has it. A title with no metadata
// in any source still yields a record with empty author and image, so
// one bad title never aborts the batch.
func Enrich(positions []int, ix *TitleIndex, sources []MetadataSource) []Record {
	records := make([]Record, 0, len(positions))
	for _, pos := range positions {
		title, err := ix.Title(pos)
		if err != nil {
			records = append(records, Record{})
			continue
		}

		rec := Record{Title: title}
		for _, source := range sources {
			item, ok := source.Lookup(title)
			if !ok {
				continue
			}
			if rec.Author == "" {
				rec.Author = item.Author
			}
			if rec.ImageURL == "" {
				rec.ImageURL = item.ImageURL
			}
			if rec.Author != "" && rec.ImageURL != "" {
				break
			}
		}
		records = append(records, rec)
	}
	return records
}

// imageFor applies the enrichment precedence rule to a single title
// that already carries its own candidate URL (the popularity table's
// optional image column comes first).
func imageFor(title, own string, sources []MetadataSource) string {
	if own != "" {
		return own
	}
	for _, source := range sources {
		if item, ok := source.Lookup(title); ok && item.ImageURL != "" {
			return item.ImageURL
		}
	}
	return ""
}
