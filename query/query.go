// Package query implements the Query Processor: it reads query lines,
// normalizes and deduplicates each into a canonical stem set, memoizes
// results per (mode, canonical key), and invokes the Inverted Index's
// search algorithm at most once per distinct normalized query per mode
// when lines are processed one at a time. On a concurrent Processor the
// memo check and the memo insert are separate critical sections, so two
// workers handling the same query at once may both search it; the later
// insert overwrites the earlier one.
package query

import (
	"bufio"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/wizenheimer/cobweb/analyze"
	"github.com/wizenheimer/cobweb/emit"
	"github.com/wizenheimer/cobweb/index"
	"github.com/wizenheimer/cobweb/workqueue"
)

// Processor normalizes, deduplicates, and memoizes queries against a
// shared Inverted Index. Memoization is per-mode: exact and prefix each
// get an independent cache, keyed by the canonical query — the sorted,
// space-joined stem set.
type Processor struct {
	idx   *index.Index
	queue *workqueue.Queue // nil means single-threaded

	mu     sync.Mutex
	exact  map[string][]index.QueryResult
	prefix map[string][]index.QueryResult
	log    *slog.Logger
}

// New returns a single-threaded Processor over idx.
func New(idx *index.Index) *Processor {
	return &Processor{
		idx:    idx,
		exact:  make(map[string][]index.QueryResult),
		prefix: make(map[string][]index.QueryResult),
		log:    slog.Default(),
	}
}

// NewConcurrent returns a Processor that dispatches ProcessLine calls to
// queue.
func NewConcurrent(idx *index.Index, queue *workqueue.Queue) *Processor {
	p := New(idx)
	p.queue = queue
	return p
}

func (p *Processor) memo(prefixMode bool) map[string][]index.QueryResult {
	if prefixMode {
		return p.prefix
	}
	return p.exact
}

func canonicalKey(stems []string) string {
	return strings.Join(stems, " ")
}

// ProcessLine tokenizes and stems line into a canonical stem set; if the
// set is empty the line is ignored. If the canonical key is already
// memoized for this mode, ProcessLine returns without touching the index
// again. Otherwise it runs index.Search and stores the result.
func (p *Processor) ProcessLine(line string, prefixMode bool) {
	run := func() {
		stems := analyze.UniqueStems(line)
		if len(stems) == 0 {
			return
		}
		key := canonicalKey(stems)

		p.mu.Lock()
		cache := p.memo(prefixMode)
		if _, ok := cache[key]; ok {
			p.mu.Unlock()
			return
		}
		p.mu.Unlock()

		results := p.idx.Search(stems, prefixMode)

		p.mu.Lock()
		p.memo(prefixMode)[key] = results
		p.mu.Unlock()
	}

	if p.queue == nil {
		run()
		return
	}
	p.queue.Execute(run)
}

// ProcessFile reads path line by line, calling ProcessLine on each. If
// this Processor is concurrent, ProcessFile blocks until every dispatched
// line has been processed.
func (p *Processor) ProcessFile(path string, prefixMode bool) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		p.ProcessLine(scanner.Text(), prefixMode)
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	if p.queue != nil {
		p.queue.Finish()
	}
	return nil
}

// Queries returns the set of canonical keys memoized under mode.
func (p *Processor) Queries(prefixMode bool) []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	cache := p.memo(prefixMode)
	out := make([]string, 0, len(cache))
	for k := range cache {
		out = append(out, k)
	}
	return out
}

// Results returns the memoized result list for query under mode, or an
// empty slice if it has not been (or could not be) resolved. query is
// re-canonicalized before lookup, so callers may pass it in any token
// order or case.
func (p *Processor) Results(query string, prefixMode bool) []index.QueryResult {
	key := canonicalKey(analyze.UniqueStems(query))

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.memo(prefixMode)[key]
}

// WriteResults serializes the per-mode memo as canonical results JSON,
// sorted by query key ascending.
func (p *Processor) WriteResults(prefixMode bool, path string) error {
	p.mu.Lock()
	snapshot := make(map[string][]index.QueryResult, len(p.memo(prefixMode)))
	for k, v := range p.memo(prefixMode) {
		snapshot[k] = v
	}
	p.mu.Unlock()

	return emit.WriteResults(path, snapshot)
}
