// Package recommend implements the book recommendation core: resolving
// free-text titles against an indexed catalog, ranking candidates by a
// precomputed item-item similarity matrix, and enriching results with
// author and cover-image metadata.
package recommend

import (
	"strings"

	"github.com/hbollon/go-edlib"

	"github.com/libsys-io/libsys/errors"
)

// Sentinel errors for the recommendation core. Callers distinguish a
// recoverable "no matching title" from artifact problems that disable
// the feature until a reload succeeds.
var (
	// ErrNotFound means no indexed title matched the query.
	ErrNotFound = errors.New("no matching title")
	// ErrBadArtifact means an artifact was readable but malformed.
	ErrBadArtifact = errors.New("malformed recommendation artifact")
	// ErrArtifactLoad means an artifact file was missing or unreadable.
	ErrArtifactLoad = errors.New("failed to load recommendation artifact")
	// ErrBadPosition means a ranker position was outside the index.
	// Seeing it indicates a defect, not a user error.
	ErrBadPosition = errors.New("position outside title index")
)

// DefaultFuzzyCutoff is the minimum edit-distance similarity ratio for
// the fuzzy matching tier. Preserved from the desktop application.
const DefaultFuzzyCutoff = 0.6

// TitleIndex is a positional lookup structure over all known book
// titles. Position i is stable for the life of the index and doubles as
// the row/column index into the similarity matrix.
type TitleIndex struct {
	titles     []string
	normalized []string
}

// BuildIndex builds a TitleIndex from the pivot-table title order.
// The normalized parallel sequence is computed once, up front.
func BuildIndex(titles []string) (*TitleIndex, error) {
	if len(titles) == 0 {
		return nil, errors.Mark(errors.New("title index requires at least one title"), ErrBadArtifact)
	}

	normalized := make([]string, len(titles))
	for i, title := range titles {
		if strings.TrimSpace(title) == "" {
			return nil, errors.Mark(errors.Newf("blank title at row %d", i), ErrBadArtifact)
		}
		normalized[i] = normalize(title)
	}

	return &TitleIndex{titles: titles, normalized: normalized}, nil
}

// Len returns the number of indexed titles.
func (ix *TitleIndex) Len() int {
	return len(ix.titles)
}

// Title returns the original-cased title at position pos.
func (ix *TitleIndex) Title(pos int) (string, error) {
	if pos < 0 || pos >= len(ix.titles) {
		return "", errors.Mark(errors.Newf("position %d outside [0, %d)", pos, len(ix.titles)), ErrBadPosition)
	}
	return ix.titles[pos], nil
}

// Match is a resolved query: the index position and the original-cased
// title actually matched, so callers can show "showing results for X"
// when the match differs from the literal query.
type Match struct {
	Position int
	Title    string
}

// Resolve finds the best-matching indexed title for a free-text query.
// Matching tiers, first hit wins:
//
//  1. exact match on the normalized title (lowest position on ties)
//  2. substring containment, scanned in index order
//  3. fuzzy edit-distance ratio against the raw titles, accepted only
//     when the best candidate reaches cutoff
//
// An empty or whitespace-only query returns ErrNotFound without a scan.
func (ix *TitleIndex) Resolve(query string, cutoff float64) (Match, error) {
	q := normalize(query)
	if q == "" {
		return Match{}, errors.Mark(errors.New("empty query"), ErrNotFound)
	}

	// Tier 1: exact
	for i, title := range ix.normalized {
		if title == q {
			return Match{Position: i, Title: ix.titles[i]}, nil
		}
	}

	// Tier 2: substring
	for i, title := range ix.normalized {
		if strings.Contains(title, q) {
			return Match{Position: i, Title: ix.titles[i]}, nil
		}
	}

	// Tier 3: fuzzy, against the raw titles like the exact-cased query
	best := -1
	bestRatio := 0.0
	for i, title := range ix.titles {
		ratio, err := edlib.StringsSimilarity(query, title, edlib.Levenshtein)
		if err != nil {
			continue
		}
		if float64(ratio) > bestRatio {
			bestRatio = float64(ratio)
			best = i
		}
	}
	if best >= 0 && bestRatio >= cutoff {
		return Match{Position: best, Title: ix.titles[best]}, nil
	}

	return Match{}, errors.Mark(errors.Newf("no title matching %q", query), ErrNotFound)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
