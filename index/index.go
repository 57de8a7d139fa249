package index

import "github.com/wizenheimer/cobweb/rwfair"

// Index is the shared, concurrency-safe Inverted Index. All reads acquire
// the read side of its lock, all writes the write side, per the §5
// concurrency model: a read-mostly access pattern under query load that
// still needs to absorb write bursts from ingestion and crawl-time merges
// without starving.
type Index struct {
	lock *rwfair.Lock
	c    *core
}

// New returns an empty, ready-to-use Index.
func New() *Index {
	return &Index{lock: rwfair.New(), c: newCore()}
}

// Add records a single (token, location, position) observation. Adding the
// same triple twice is a no-op; the first observation is the one that
// increments the Location's count.
func (idx *Index) Add(token, location string, position int) {
	idx.lock.WriteLock()
	defer idx.lock.WriteUnlock()
	idx.c.add(token, location, position)
}

// AddAll records tokens at location, assigning consecutive positions
// starting at start.
func (idx *Index) AddAll(tokens []string, location string, start int) {
	idx.lock.WriteLock()
	defer idx.lock.WriteUnlock()
	idx.c.addAll(tokens, location, start)
}

// Merge unions every (token, location, positions) triple from local into
// idx. The caller must guarantee that local's Locations do not already
// appear in idx — true for the file builder (each file has a unique
// Location) and the crawler (each URL is admitted to `visited` at most
// once) — since merge adds per-location counts rather than recomputing
// them from bitmap cardinalities. Violating this contract silently
// double-counts; see the design notes on why that tradeoff was kept.
func (idx *Index) Merge(local *Local) {
	idx.lock.WriteLock()
	defer idx.lock.WriteUnlock()
	idx.c.merge(local.c)
}

// ContainsWord reports whether token has ever been indexed.
func (idx *Index) ContainsWord(token string) bool {
	idx.lock.ReadLock()
	defer idx.lock.ReadUnlock()
	return idx.c.containsWord(token)
}

// ContainsLocation reports whether token occurs at location.
func (idx *Index) ContainsLocation(token, location string) bool {
	idx.lock.ReadLock()
	defer idx.lock.ReadUnlock()
	return idx.c.containsLocation(token, location)
}

// ContainsPosition reports whether token occurs at location at position.
func (idx *Index) ContainsPosition(token, location string, position int) bool {
	idx.lock.ReadLock()
	defer idx.lock.ReadUnlock()
	return idx.c.containsPosition(token, location, position)
}

// ContainsCount reports whether location has a recorded count.
func (idx *Index) ContainsCount(location string) bool {
	idx.lock.ReadLock()
	defer idx.lock.ReadUnlock()
	return idx.c.containsCount(location)
}

// NumWords reports the number of distinct tokens indexed.
func (idx *Index) NumWords() int {
	idx.lock.ReadLock()
	defer idx.lock.ReadUnlock()
	return idx.c.numWords()
}

// NumLocations reports the number of distinct locations token occurs at.
func (idx *Index) NumLocations(token string) int {
	idx.lock.ReadLock()
	defer idx.lock.ReadUnlock()
	return idx.c.numLocations(token)
}

// NumPositions reports the number of positions token occupies at location.
func (idx *Index) NumPositions(token, location string) int {
	idx.lock.ReadLock()
	defer idx.lock.ReadUnlock()
	return idx.c.numPositions(token, location)
}

// NumCounts reports the number of locations with a recorded count.
func (idx *Index) NumCounts() int {
	idx.lock.ReadLock()
	defer idx.lock.ReadUnlock()
	return idx.c.numCounts()
}

// Words returns a read-only snapshot of every indexed token, ascending.
func (idx *Index) Words() []string {
	idx.lock.ReadLock()
	defer idx.lock.ReadUnlock()
	return idx.c.words()
}

// Locations returns a read-only snapshot of every location token occurs
// at, ascending.
func (idx *Index) Locations(token string) []string {
	idx.lock.ReadLock()
	defer idx.lock.ReadUnlock()
	return idx.c.locations(token)
}

// Positions returns a read-only snapshot of every position token occupies
// at location, ascending.
func (idx *Index) Positions(token, location string) []int {
	idx.lock.ReadLock()
	defer idx.lock.ReadUnlock()
	return idx.c.positions(token, location)
}

// Counts returns a read-only snapshot of every location's word count,
// ascending by location.
func (idx *Index) Counts() []Count {
	idx.lock.ReadLock()
	defer idx.lock.ReadUnlock()
	return idx.c.countsSnapshot()
}

// Count returns location's word count, or 0 if it has none.
func (idx *Index) Count(location string) int {
	idx.lock.ReadLock()
	defer idx.lock.ReadUnlock()
	return idx.c.count(location)
}

// Search runs the §4.3 ranked search algorithm over stems, which the
// caller must pass as a set (no repeats) — exact mode looks up each stem
// directly, prefix mode walks the tail range of tokens starting with it.
// Results are sorted score descending, matches descending, location
// case-insensitive ascending.
func (idx *Index) Search(stems []string, prefix bool) []QueryResult {
	idx.lock.ReadLock()
	defer idx.lock.ReadUnlock()
	return idx.c.search(stems, prefix)
}
