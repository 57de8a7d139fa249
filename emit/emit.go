// Package emit implements the three canonical JSON output formats spec'd
// for this system: counts, index, and results. Every JSON object here is
// marshaled from a Go map with string keys, and encoding/json writes such
// map keys in sorted order, which gives the ascending locations, tokens
// and queries the formats require. The interior position arrays are not
// map keys, so WriteIndex sorts each of them explicitly before marshaling.
package emit

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/wizenheimer/cobweb/index"
)

// WriteCounts writes path as a JSON object mapping location to its
// integer word count, keys ascending.
func WriteCounts(path string, counts []index.Count) error {
	sorted := append([]index.Count(nil), counts...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Location < sorted[j].Location })

	out := make(map[string]int, len(sorted))
	for _, c := range sorted {
		out[c.Location] = c.Count
	}
	return writeJSON(path, out)
}

// TokenEntry is one token's complete postings, ready for JSON emission:
// an ordered map from Location to ascending Positions.
type TokenEntry struct {
	Token     string
	Locations []LocationEntry
}

// LocationEntry is one (token, location) pair's ascending position list.
type LocationEntry struct {
	Location  string
	Positions []int
}

// WriteIndex writes path as a JSON object mapping token -> object mapping
// location -> ascending array of positions, with both the outer token
// keys and the inner location keys ascending.
func WriteIndex(path string, entries []TokenEntry) error {
	sorted := append([]TokenEntry(nil), entries...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Token < sorted[j].Token })

	out := make(map[string]map[string][]int, len(sorted))
	for _, te := range sorted {
		locs := make(map[string][]int, len(te.Locations))
		for _, le := range te.Locations {
			positions := append([]int(nil), le.Positions...)
			sort.Ints(positions)
			locs[le.Location] = positions
		}
		out[te.Token] = locs
	}
	return writeJSON(path, out)
}

// resultJSON is the on-the-wire shape of one ranked QueryResult: score is
// rendered to exactly 8 decimal places, as a string (not a JSON number),
// per the documented format.
type resultJSON struct {
	Count int    `json:"count"`
	Score string `json:"score"`
	Where string `json:"where"`
}

// WriteResults writes path as a JSON object mapping each canonical query
// to its ranked result list, sorted by query key ascending. resultsByQuery
// must already hold each query's results in ranked order (as
// index.Index.Search returns them) — WriteResults does not re-sort within
// a query.
func WriteResults(path string, resultsByQuery map[string][]index.QueryResult) error {
	out := make(map[string][]resultJSON, len(resultsByQuery))
	for query, results := range resultsByQuery {
		rendered := make([]resultJSON, 0, len(results))
		for _, r := range results {
			rendered = append(rendered, resultJSON{
				Count: r.Matches,
				Score: fmt.Sprintf("%.8f", r.Score),
				Where: r.Location,
			})
		}
		out[query] = rendered
	}
	return writeJSON(path, out)
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
