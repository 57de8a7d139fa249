// Package index implements the Inverted Index: a sorted mapping from
// Token to a mapping from Location to a set of Positions, plus a
// per-Location word-count side table, and the ranked search algorithm
// over that structure.
//
// Two concrete types share one write/read core: Index, which guards every
// operation with a fair reader/writer lock for concurrent use, and Local,
// which is lock-free and meant for the local-then-merge pattern the
// builder and crawler use — each worker constructs a fresh Local, indexes
// one file or page into it with no contention, then merges it into the
// shared Index under a single write-lock acquisition.
package index

import (
	"sort"
	"strings"

	"github.com/RoaringBitmap/roaring"
	"github.com/wizenheimer/cobweb/index/skiplist"
)

// core holds the actual data structures; both Index and Local embed one
// and add their own concurrency discipline on top.
type core struct {
	// tokens maps Token -> (Location -> Positions). Positions are stored
	// in a roaring.Bitmap: insertion is idempotent, iteration is
	// ascending, and cardinality is O(1) — exactly what counts needs.
	tokens *skiplist.List[string, *skiplist.List[string, *roaring.Bitmap]]

	// counts maps Location -> total distinct (token, position)
	// observations recorded for that Location.
	counts *skiplist.List[string, int]
}

func newCore() *core {
	return &core{
		tokens: skiplist.New[string, *skiplist.List[string, *roaring.Bitmap]](),
		counts: skiplist.New[string, int](),
	}
}

func (c *core) add(token, location string, position int) {
	locs := c.tokens.GetOrInsert(token, func() *skiplist.List[string, *roaring.Bitmap] {
		return skiplist.New[string, *roaring.Bitmap]()
	})
	bitmap := locs.GetOrInsert(location, roaring.New)

	p := uint32(position)
	if bitmap.Contains(p) {
		return // idempotent: this (token, location, position) was already observed
	}
	bitmap.Add(p)
	cur, _ := c.counts.Get(location)
	c.counts.Set(location, cur+1)
}

func (c *core) addAll(tokens []string, location string, start int) {
	for i, t := range tokens {
		c.add(t, location, start+i)
	}
}

// merge unions every (token, location, positions) triple from other into
// c. It assumes the merge contract documented on Index.Merge: locations
// present in other must not already be present in c. Under that contract,
// other's per-location counts can be added to c's as-is rather than
// recomputed from bitmap cardinalities.
func (c *core) merge(other *core) {
	for token, otherLocs := range other.tokens.All() {
		locs := c.tokens.GetOrInsert(token, func() *skiplist.List[string, *roaring.Bitmap] {
			return skiplist.New[string, *roaring.Bitmap]()
		})
		for location, otherBitmap := range otherLocs.All() {
			bitmap := locs.GetOrInsert(location, roaring.New)
			bitmap.Or(otherBitmap)
		}
	}
	for location, n := range other.counts.All() {
		cur, _ := c.counts.Get(location)
		c.counts.Set(location, cur+n)
	}
}

func (c *core) containsWord(token string) bool {
	_, ok := c.tokens.Get(token)
	return ok
}

func (c *core) containsLocation(token, location string) bool {
	locs, ok := c.tokens.Get(token)
	if !ok {
		return false
	}
	_, ok = locs.Get(location)
	return ok
}

func (c *core) containsPosition(token, location string, position int) bool {
	locs, ok := c.tokens.Get(token)
	if !ok {
		return false
	}
	bitmap, ok := locs.Get(location)
	if !ok {
		return false
	}
	return bitmap.Contains(uint32(position))
}

func (c *core) containsCount(location string) bool {
	_, ok := c.counts.Get(location)
	return ok
}

func (c *core) numWords() int { return c.tokens.Len() }

func (c *core) numLocations(token string) int {
	locs, ok := c.tokens.Get(token)
	if !ok {
		return 0
	}
	return locs.Len()
}

func (c *core) numPositions(token, location string) int {
	locs, ok := c.tokens.Get(token)
	if !ok {
		return 0
	}
	bitmap, ok := locs.Get(location)
	if !ok {
		return 0
	}
	return int(bitmap.GetCardinality())
}

func (c *core) numCounts() int { return c.counts.Len() }

func (c *core) words() []string {
	out := make([]string, 0, c.tokens.Len())
	for token := range c.tokens.All() {
		out = append(out, token)
	}
	return out
}

func (c *core) locations(token string) []string {
	locs, ok := c.tokens.Get(token)
	if !ok {
		return nil
	}
	out := make([]string, 0, locs.Len())
	for location := range locs.All() {
		out = append(out, location)
	}
	return out
}

func (c *core) positions(token, location string) []int {
	locs, ok := c.tokens.Get(token)
	if !ok {
		return nil
	}
	bitmap, ok := locs.Get(location)
	if !ok {
		return nil
	}
	arr := bitmap.ToArray()
	out := make([]int, len(arr))
	for i, p := range arr {
		out[i] = int(p)
	}
	return out
}

// Count pairs a Location with its word count. Counts returns a read-only
// snapshot of these, ascending by Location.
type Count struct {
	Location string
	Count    int
}

func (c *core) countsSnapshot() []Count {
	out := make([]Count, 0, c.counts.Len())
	for location, n := range c.counts.All() {
		out = append(out, Count{Location: location, Count: n})
	}
	return out
}

func (c *core) count(location string) int {
	n, _ := c.counts.Get(location)
	return n
}

// QueryResult binds one Location to the aggregate match statistics a
// search accumulated for it. Score is computed at accumulation time from
// the Location's word count snapshotted then — not a live reference back
// into the index — so a QueryResult remains valid even if the index is
// later mutated.
type QueryResult struct {
	Location string
	Matches  int
	Score    float64
}

// search implements the §4.3 algorithm: accumulate matches per Location
// across every stem's selected postings (exact lookup, or a prefix tail
// range walk), then sort by the comparator (score desc, matches desc,
// location case-insensitive asc).
func (c *core) search(stems []string, prefix bool) []QueryResult {
	hits := make(map[string]*QueryResult)
	var order []string // first-seen Location order; final order comes from sort below

	addHit := func(location string, matches int) {
		qr, ok := hits[location]
		if !ok {
			qr = &QueryResult{Location: location}
			hits[location] = qr
			order = append(order, location)
		}
		qr.Matches += matches
		total := c.count(location)
		qr.Score = float64(qr.Matches) / float64(total)
	}

	for _, stem := range stems {
		if !prefix {
			locs, ok := c.tokens.Get(stem)
			if !ok {
				continue
			}
			for location, bitmap := range locs.All() {
				addHit(location, int(bitmap.GetCardinality()))
			}
			continue
		}

		for token, locs := range c.tokens.From(stem) {
			if !strings.HasPrefix(token, stem) {
				break
			}
			for location, bitmap := range locs.All() {
				addHit(location, int(bitmap.GetCardinality()))
			}
		}
	}

	results := make([]QueryResult, 0, len(order))
	for _, location := range order {
		results = append(results, *hits[location])
	}
	sort.Slice(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Matches != b.Matches {
			return a.Matches > b.Matches
		}
		return strings.ToLower(a.Location) < strings.ToLower(b.Location)
	})
	return results
}
