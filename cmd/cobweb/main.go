// Command cobweb is the CLI driver: wires the core packages (index,
// builder, query, crawler) to the concrete out-of-core collaborators
// (fetch.Client, htmlclean.Cleaner, emit) and exposes the flags spec'd for
// this system. None of the orchestration here is part of the tested core
// — it is the external interface the core expects a driver to provide.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/wizenheimer/cobweb/builder"
	"github.com/wizenheimer/cobweb/crawler"
	"github.com/wizenheimer/cobweb/emit"
	"github.com/wizenheimer/cobweb/fetch"
	"github.com/wizenheimer/cobweb/htmlclean"
	"github.com/wizenheimer/cobweb/index"
	"github.com/wizenheimer/cobweb/query"
	"github.com/wizenheimer/cobweb/workqueue"
)

type flags struct {
	text    string
	html    string
	crawl   int
	queries string
	partial bool
	threads int
	server  int
	counts  string
	idxPath string
	results string
}

func main() {
	f := &flags{}
	root := &cobra.Command{
		Use:           "cobweb",
		Short:         "single-node search engine: index files and crawled pages, answer ranked queries",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("threads") && f.threads < 1 {
				f.threads = 1
			}
			return run(f)
		},
	}

	root.Flags().StringVar(&f.text, "text", "", "ingest files under this path")
	root.Flags().StringVar(&f.html, "html", "", "seed URI to crawl")
	root.Flags().IntVar(&f.crawl, "crawl", 0, "crawl budget (page count)")
	root.Flags().StringVar(&f.queries, "query", "", "path to a file of query lines")
	root.Flags().BoolVar(&f.partial, "partial", false, "enable prefix-mode search")
	root.Flags().IntVar(&f.threads, "threads", 0, "enable multithreading with this many workers (min 1, default 5 when used)")
	root.Flags().IntVar(&f.server, "server", 8080, "HTTP server port (out of core scope; accepted for compatibility)")
	root.Flags().StringVar(&f.counts, "counts", "", "write counts JSON (default counts.json when flag is present with no value)")
	root.Flags().StringVar(&f.idxPath, "index", "", "write index JSON (default index.json when flag is present with no value)")
	root.Flags().StringVar(&f.results, "results", "", "write results JSON (default results.json when flag is present with no value)")
	root.Flags().Lookup("threads").NoOptDefVal = "5"
	root.Flags().Lookup("counts").NoOptDefVal = "counts.json"
	root.Flags().Lookup("index").NoOptDefVal = "index.json"
	root.Flags().Lookup("results").NoOptDefVal = "results.json"

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(0) // per §7: aggregate failures report via stderr, not exit code
	}
}

func run(f *flags) error {
	log := slog.Default()
	idx := index.New()

	threads := f.threads
	if threads < 0 {
		threads = 0
	}
	var queue *workqueue.Queue
	if threads > 0 {
		if threads < 1 {
			threads = 1
		}
		queue = workqueue.New(threads, threads*4)
	}

	if f.text != "" {
		var b *builder.Builder
		if queue != nil {
			b = builder.NewConcurrent(idx, queue)
		} else {
			b = builder.New(idx)
		}
		if err := b.Build(f.text); err != nil {
			log.Error("cobweb: build failed", slog.String("path", f.text), slog.Any("error", err))
		}
	}

	if f.html != "" {
		if f.crawl < 1 {
			f.crawl = 1
		}
		crawlQueue := queue
		if crawlQueue == nil {
			crawlQueue = workqueue.New(5, 20)
		}
		c := crawler.New(idx, crawlQueue, fetch.New(), htmlclean.New(), f.crawl)
		if err := c.Crawl(f.html); err != nil {
			log.Error("cobweb: crawl seed rejected", slog.String("seed", f.html), slog.Any("error", err))
		}
		c.Finish()
	}

	if f.counts != "" {
		path := f.counts
		if err := emit.WriteCounts(path, idx.Counts()); err != nil {
			log.Error("cobweb: failed to write counts", slog.Any("error", err))
		}
	}
	if f.idxPath != "" {
		if err := emit.WriteIndex(f.idxPath, buildIndexEntries(idx)); err != nil {
			log.Error("cobweb: failed to write index", slog.Any("error", err))
		}
	}

	if f.queries != "" {
		var proc *query.Processor
		if queue != nil {
			proc = query.NewConcurrent(idx, queue)
		} else {
			proc = query.New(idx)
		}
		if err := proc.ProcessFile(f.queries, f.partial); err != nil {
			log.Error("cobweb: failed to process queries", slog.String("path", f.queries), slog.Any("error", err))
		}
		if f.results != "" {
			if err := proc.WriteResults(f.partial, f.results); err != nil {
				log.Error("cobweb: failed to write results", slog.Any("error", err))
			}
		}
	}

	if queue != nil {
		queue.Shutdown()
		queue.Join()
	}
	return nil
}

func buildIndexEntries(idx *index.Index) []emit.TokenEntry {
	words := idx.Words()
	entries := make([]emit.TokenEntry, 0, len(words))
	for _, word := range words {
		locations := idx.Locations(word)
		locEntries := make([]emit.LocationEntry, 0, len(locations))
		for _, loc := range locations {
			locEntries = append(locEntries, emit.LocationEntry{
				Location:  loc,
				Positions: idx.Positions(word, loc),
			})
		}
		entries = append(entries, emit.TokenEntry{Token: word, Locations: locEntries})
	}
	return entries
}
