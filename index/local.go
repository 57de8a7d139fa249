package index

// Local is a lock-free Inverted Index meant to be built by a single
// goroutine and then folded into a shared Index via Index.Merge. It
// exposes the same write API as Index but pays no locking cost, since
// nothing else can see it until it is merged.
type Local struct {
	c *core
}

// NewLocal returns an empty Local index.
func NewLocal() *Local {
	return &Local{c: newCore()}
}

// Add records a single (token, location, position) observation.
func (l *Local) Add(token, location string, position int) {
	l.c.add(token, location, position)
}

// AddAll records tokens at location starting at position start and
// incrementing by one per token, in order.
func (l *Local) AddAll(tokens []string, location string, start int) {
	l.c.addAll(tokens, location, start)
}

// NumWords reports the number of distinct tokens recorded so far.
func (l *Local) NumWords() int { return l.c.numWords() }

// Count reports the word count recorded for location, or 0 if none.
func (l *Local) Count(location string) int { return l.c.count(location) }
