// Package crawler implements the Web Crawler: a budget-bounded breadth-
// first fetch/parse loop that feeds discovered pages into a shared
// Inverted Index. Each page is fetched, cleaned, indexed into a fresh
// local index, and merged — the same local-then-merge pattern the file
// builder uses — then its outbound links are extracted and, budget
// permitting, enqueued as further CrawlTasks.
package crawler

import (
	"log/slog"
	"net/url"
	"sync"

	"github.com/wizenheimer/cobweb/analyze"
	"github.com/wizenheimer/cobweb/fetch"
	"github.com/wizenheimer/cobweb/index"
	"github.com/wizenheimer/cobweb/workqueue"
)

// Fetcher retrieves a page's HTML body, given a redirect budget. It
// returns ("", false) on any failure — connection refusal, timeout,
// non-HTML content, exhausted redirect budget.
type Fetcher interface {
	Fetch(uri string, redirectBudget int) (body string, ok bool)
}

// Cleaner strips HTML down to a link-safe view and a plaintext view, and
// extracts absolute URIs from the link-safe view's anchors.
type Cleaner interface {
	Clean(rawHTML string) (linkSafe, plaintext string)
	ExtractLinks(base, linkSafeHTML string) []string
}

// Crawler bounds a BFS fetch loop to at most total admitted pages and at
// most total enqueued URIs (separately — see the budget-overshoot design
// note), feeding every page it successfully indexes into a shared Index.
type Crawler struct {
	idx     *index.Index
	queue   *workqueue.Queue
	fetcher Fetcher
	cleaner Cleaner
	total   int
	log     *slog.Logger

	visitedMu sync.Mutex
	visited   map[string]bool

	crawledMu sync.Mutex
	crawled   int
}

// New returns a Crawler bounded to total admitted/enqueued pages, using
// queue to fan CrawlTasks out across worker goroutines.
func New(idx *index.Index, queue *workqueue.Queue, fetcher Fetcher, cleaner Cleaner, total int) *Crawler {
	if total < 1 {
		total = 1
	}
	return &Crawler{
		idx:     idx,
		queue:   queue,
		fetcher: fetcher,
		cleaner: cleaner,
		total:   total,
		visited: make(map[string]bool),
		log:     slog.Default(),
	}
}

// normalize parses uri and strips any #fragment, keeping scheme, host,
// port, path, and query verbatim.
func normalize(uri string) (string, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return "", err
	}
	u.Fragment = ""
	return u.String(), nil
}

// Crawl normalizes seed and, if it has not been seen before, admits it to
// `visited` and submits the first CrawlTask. Crawl returns immediately;
// call Finish to block for the transitive closure of the crawl.
func (c *Crawler) Crawl(seed string) error {
	normalized, err := normalize(seed)
	if err != nil {
		c.log.Warn("crawler: malformed seed URI", slog.String("seed", seed), slog.Any("error", err))
		return err
	}

	c.visitedMu.Lock()
	if c.visited[normalized] {
		c.visitedMu.Unlock()
		return nil
	}
	c.visited[normalized] = true
	c.visitedMu.Unlock()

	c.submit(normalized, normalized)
	return nil
}

// Finish blocks until every submitted CrawlTask, including those
// recursively enqueued from within running tasks, has completed.
func (c *Crawler) Finish() {
	c.queue.Finish()
}

func (c *Crawler) submit(uri, original string) {
	c.queue.Execute(func() {
		c.crawlTask(uri, original)
	})
}

// crawlTask implements the §4.6 per-page pipeline. crawled and visited
// are deliberately guarded by separate mutexes, so that enqueuing
// discovered links never stalls admission checks for other in-flight
// tasks.
func (c *Crawler) crawlTask(uri, original string) {
	c.crawledMu.Lock()
	if c.crawled >= c.total {
		c.crawledMu.Unlock()
		return
	}
	c.crawled++
	c.crawledMu.Unlock()

	body, ok := c.fetcher.Fetch(uri, fetch.DefaultRedirectBudget)
	if !ok {
		return
	}

	linkSafe, plaintext := c.cleaner.Clean(body)

	local := index.NewLocal()
	stems := make([]string, 0)
	for _, tok := range analyze.Parse(plaintext) {
		stem := analyze.Stem(tok)
		if stem == "" {
			continue
		}
		stems = append(stems, stem)
	}
	local.AddAll(stems, original, 1)
	c.idx.Merge(local)

	links := c.cleaner.ExtractLinks(uri, linkSafe)

	c.visitedMu.Lock()
	defer c.visitedMu.Unlock()
	for _, link := range links {
		if len(c.visited) >= c.total {
			break
		}
		normalized, err := normalize(link)
		if err != nil {
			continue
		}
		if c.visited[normalized] {
			continue
		}
		c.visited[normalized] = true
		c.submit(normalized, normalized)
	}
}
