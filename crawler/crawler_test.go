package crawler

import (
	"sync"
	"testing"

	"github.com/wizenheimer/cobweb/index"
	"github.com/wizenheimer/cobweb/workqueue"
)

// fakeFetcher serves canned HTML bodies keyed by URI, ignoring the
// redirect budget entirely.
type fakeFetcher struct {
	mu    sync.Mutex
	pages map[string]string
}

func (f *fakeFetcher) Fetch(uri string, _ int) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	body, ok := f.pages[uri]
	return body, ok
}

// fakeCleaner treats the body itself as the plaintext and parses a
// comma-separated list of links out of a "LINKS:" prefix, avoiding any
// dependency on a real HTML parser in these unit tests.
type fakeCleaner struct{}

func (fakeCleaner) Clean(raw string) (string, string) {
	return raw, raw
}

func (fakeCleaner) ExtractLinks(base, linkSafeHTML string) []string {
	const prefix = "LINKS:"
	idx := indexOf(linkSafeHTML, prefix)
	if idx < 0 {
		return nil
	}
	rest := linkSafeHTML[idx+len(prefix):]
	return splitNonEmpty(rest, ',')
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}

func splitNonEmpty(s string, sep byte) []string {
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == sep {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	return out
}

func TestCrawlIndexesSeedPage(t *testing.T) {
	idx := index.New()
	q := workqueue.New(2, 8)
	fetcher := &fakeFetcher{pages: map[string]string{
		"http://example.com/": "quick brown fox LINKS:",
	}}
	c := New(idx, q, fetcher, fakeCleaner{}, 1)

	if err := c.Crawl("http://example.com/"); err != nil {
		t.Fatalf("Crawl: %v", err)
	}
	c.Finish()

	if !idx.ContainsWord("quick") {
		t.Fatalf("seed page was not indexed: words=%v", idx.Words())
	}
	// fakeCleaner's plaintext is the whole body, so the "LINKS:" marker is
	// indexed too: quick, brown, fox, link.
	if got := idx.Count("http://example.com/"); got != 4 {
		t.Fatalf("Count() = %d, want 4", got)
	}
}

func TestCrawlStripsFragmentFromLocation(t *testing.T) {
	idx := index.New()
	q := workqueue.New(2, 8)
	fetcher := &fakeFetcher{pages: map[string]string{
		"http://example.com/page": "hello LINKS:",
	}}
	c := New(idx, q, fetcher, fakeCleaner{}, 1)

	if err := c.Crawl("http://example.com/page#section"); err != nil {
		t.Fatalf("Crawl: %v", err)
	}
	c.Finish()

	if !idx.ContainsLocation("hello", "http://example.com/page") {
		t.Fatalf("expected location with fragment stripped, locations=%v", idx.Locations("hello"))
	}
}

// S5 — crawler budget: total bounds admitted pages (overshoot tolerated).
func TestCrawlRespectsBudget(t *testing.T) {
	idx := index.New()
	q := workqueue.New(4, 32)

	pages := map[string]string{
		"http://example.com/0": "seed LINKS:http://example.com/1,http://example.com/2",
	}
	for i := 1; i <= 10; i++ {
		pages[linkN(i)] = "page LINKS:"
	}
	fetcher := &fakeFetcher{pages: pages}
	total := 3
	c := New(idx, q, fetcher, fakeCleaner{}, total)

	if err := c.Crawl("http://example.com/0"); err != nil {
		t.Fatalf("Crawl: %v", err)
	}
	c.Finish()

	if c.crawled > total+3 {
		t.Fatalf("crawled = %d, want <= total + (threads-1) = %d", c.crawled, total+3)
	}
	if len(c.visited) > total+3 {
		t.Fatalf("visited = %d, want <= total + (threads-1) = %d", len(c.visited), total+3)
	}
}

func linkN(i int) string {
	digits := "0123456789"
	return "http://example.com/" + string(digits[i])
}
