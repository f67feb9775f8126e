package recommend

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/libsys-io/libsys/errors"
)

// Artifact file names inside the configured artifacts directory.
const (
	PopularFile      = "popular.csv"
	PivotTitlesFile  = "pivot_titles.csv"
	CatalogFile      = "books.csv"
	SimilarityFile   = "similarity.csv"
	ExtraCatalogFile = "books_extra.csv" // optional backfill catalog
)

// PopularRow is one row of the precomputed popularity table, already
// sorted by the popularity metric the artifact encodes.
type PopularRow struct {
	Title      string
	Author     string
	NumRatings int
	AvgRating  float64
	ImageURL   string
}

// artifacts bundles everything one loaded session owns. Immutable
// after load.
type artifacts struct {
	index   *TitleIndex
	matrix  Matrix
	popular []PopularRow
	sources []MetadataSource
}

// loadArtifacts reads all recommendation artifacts from dir. A missing
// or unreadable file yields ErrArtifactLoad; a readable but malformed
// one yields ErrBadArtifact. The optional extra catalog is skipped
// silently when absent.
func loadArtifacts(dir string) (*artifacts, error) {
	titles, err := readTitles(filepath.Join(dir, PivotTitlesFile))
	if err != nil {
		return nil, err
	}

	index, err := BuildIndex(titles)
	if err != nil {
		return nil, err
	}

	matrix, err := readMatrix(filepath.Join(dir, SimilarityFile), index.Len())
	if err != nil {
		return nil, err
	}

	popular, err := readPopular(filepath.Join(dir, PopularFile))
	if err != nil {
		return nil, err
	}

	primary, err := readCatalog(filepath.Join(dir, CatalogFile))
	if err != nil {
		return nil, err
	}

	sources := []MetadataSource{NewCatalog(primary)}

	extraPath := filepath.Join(dir, ExtraCatalogFile)
	if _, statErr := os.Stat(extraPath); statErr == nil {
		extra, err := readCatalog(extraPath)
		if err != nil {
			return nil, err
		}
		sources = append(sources, NewCatalog(extra))
	}

	return &artifacts{
		index:   index,
		matrix:  matrix,
		popular: popular,
		sources: sources,
	}, nil
}

// readTitles reads the pivot-table title order, one title per row.
func readTitles(path string) ([]string, error) {
	rows, header, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	col, ok := header["title"]
	if !ok {
		return nil, errors.Mark(errors.Newf("%s: missing title column", path), ErrBadArtifact)
	}

	titles := make([]string, 0, len(rows))
	for _, row := range rows {
		titles = append(titles, row[col])
	}
	return titles, nil
}

// readPopular reads the popularity table.
func readPopular(path string) ([]PopularRow, error) {
	rows, header, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	for _, required := range []string{"title", "author", "num_ratings", "avg_rating"} {
		if _, ok := header[required]; !ok {
			return nil, errors.Mark(errors.Newf("%s: missing %s column", path, required), ErrBadArtifact)
		}
	}

	popular := make([]PopularRow, 0, len(rows))
	for i, row := range rows {
		numRatings, err := strconv.Atoi(strings.TrimSpace(row[header["num_ratings"]]))
		if err != nil {
			return nil, errors.Mark(errors.Wrapf(err, "%s: row %d num_ratings", path, i+1), ErrBadArtifact)
		}
		avgRating, err := strconv.ParseFloat(strings.TrimSpace(row[header["avg_rating"]]), 64)
		if err != nil {
			return nil, errors.Mark(errors.Wrapf(err, "%s: row %d avg_rating", path, i+1), ErrBadArtifact)
		}

		p := PopularRow{
			Title:      row[header["title"]],
			Author:     row[header["author"]],
			NumRatings: numRatings,
			AvgRating:  avgRating,
		}
		if col, ok := header["image_url"]; ok {
			p.ImageURL = strings.TrimSpace(row[col])
		}
		popular = append(popular, p)
	}
	return popular, nil
}

// readCatalog reads a catalog file, collapsing the three image-URL
// resolution columns into one primary URL: medium wins, then large,
// then small.
func readCatalog(path string) ([]CatalogItem, error) {
	rows, header, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	for _, required := range []string{"title", "author"} {
		if _, ok := header[required]; !ok {
			return nil, errors.Mark(errors.Newf("%s: missing %s column", path, required), ErrBadArtifact)
		}
	}

	// Ordered accessor list, not column-name probing: the first
	// non-empty resolution wins.
	urlColumns := []string{"image_url_m", "image_url_l", "image_url_s"}

	items := make([]CatalogItem, 0, len(rows))
	for _, row := range rows {
		item := CatalogItem{
			Title:  row[header["title"]],
			Author: row[header["author"]],
		}
		for _, name := range urlColumns {
			col, ok := header[name]
			if !ok {
				continue
			}
			if url := strings.TrimSpace(row[col]); url != "" {
				item.ImageURL = url
				break
			}
		}
		items = append(items, item)
	}
	return items, nil
}

// readMatrix reads the dense similarity matrix and checks it is n×n,
// aligned to the pivot-table row order.
func readMatrix(path string, n int) (Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "open %s", path), ErrArtifactLoad)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = n

	matrix := make(Matrix, 0, n)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Mark(errors.Wrapf(err, "read %s row %d", path, len(matrix)+1), ErrBadArtifact)
		}

		row := make([]float64, n)
		for j, field := range record {
			row[j], err = strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, errors.Mark(errors.Wrapf(err, "%s: row %d col %d", path, len(matrix)+1, j+1), ErrBadArtifact)
			}
		}
		matrix = append(matrix, row)
	}

	if len(matrix) != n {
		return nil, errors.Mark(errors.Newf("%s: %d rows, want %d to match the title index", path, len(matrix), n), ErrBadArtifact)
	}
	return matrix, nil
}

// readCSV reads a headered CSV into rows plus a lowercased
// column-name → position map.
func readCSV(path string) ([][]string, map[string]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Mark(errors.Wrapf(err, "open %s", path), ErrArtifactLoad)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	all, err := reader.ReadAll()
	if err != nil {
		return nil, nil, errors.Mark(errors.Wrapf(err, "read %s", path), ErrBadArtifact)
	}
	if len(all) == 0 {
		return nil, nil, errors.Mark(errors.Newf("%s: empty file", path), ErrBadArtifact)
	}

	header := make(map[string]int, len(all[0]))
	for i, name := range all[0] {
		header[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return all[1:], header, nil
}
