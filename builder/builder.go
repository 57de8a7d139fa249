// Package builder implements the Index Builder: it walks a filesystem
// path, reads ".txt"/".text" files line by line, tokenizes and stems their
// contents, and merges the result into a shared Inverted Index — either
// on the caller's goroutine, or fanned out across a workqueue.Queue using
// the local-then-merge pattern so that the CPU-bound tokenization phase
// never contends on the shared index's lock.
package builder

import (
	"bufio"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/wizenheimer/cobweb/analyze"
	"github.com/wizenheimer/cobweb/index"
	"github.com/wizenheimer/cobweb/workqueue"
)

// Builder ingests text files into a shared index, optionally fanning work
// out across a Queue.
type Builder struct {
	idx   *index.Index
	queue *workqueue.Queue // nil means single-threaded: build on the caller's goroutine
	log   *slog.Logger
}

// New returns a single-threaded Builder writing into idx.
func New(idx *index.Index) *Builder {
	return &Builder{idx: idx, log: slog.Default()}
}

// NewConcurrent returns a Builder that dispatches one task per discovered
// file to queue.
func NewConcurrent(idx *index.Index, queue *workqueue.Queue) *Builder {
	return &Builder{idx: idx, queue: queue, log: slog.Default()}
}

// isTextFile reports whether name (case-insensitively) ends in .txt or
// .text.
func isTextFile(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".txt") || strings.HasSuffix(lower, ".text")
}

// BuildPath dispatches: a directory is recursed into (on the caller's
// goroutine — only file I/O and tokenization are fanned out), a regular
// file matching isTextFile is passed to BuildFile (possibly via the
// queue), anything else is skipped silently.
func (b *Builder) BuildPath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		b.log.Warn("builder: cannot stat path", slog.String("path", path), slog.Any("error", err))
		return err
	}

	if info.IsDir() {
		entries, err := os.ReadDir(path)
		if err != nil {
			b.log.Warn("builder: cannot read directory", slog.String("path", path), slog.Any("error", err))
			return err
		}
		for _, entry := range entries {
			if err := b.BuildPath(filepath.Join(path, entry.Name())); err != nil {
				b.log.Warn("builder: skipping entry", slog.String("path", entry.Name()), slog.Any("error", err))
			}
		}
		return nil
	}

	if !info.Mode().IsRegular() || !isTextFile(info.Name()) {
		return nil // non-text siblings are skipped silently, per spec
	}

	if b.queue == nil {
		return b.BuildFile(path)
	}

	b.queue.Execute(func() {
		if err := b.BuildFile(path); err != nil {
			b.log.Warn("builder: failed to build file", slog.String("path", path), slog.Any("error", err))
		}
	})
	return nil
}

// Build recursively ingests path and, if this Builder is concurrent,
// blocks until every dispatched file has been merged (queue.Finish()).
// Single-threaded Builders merge synchronously in BuildFile already, so
// Build is just BuildPath for them.
func (b *Builder) Build(path string) error {
	err := b.BuildPath(path)
	if b.queue != nil {
		b.queue.Finish()
	}
	return err
}

// BuildFile reads path as UTF-8 text line by line, tokenizes and stems
// each line, and records the resulting tokens at consecutive positions
// starting at 1 — a single counter spanning the whole file, not reset per
// line. It builds into a fresh Local index and merges that into the
// shared index, so that concurrent BuildFile calls on different files
// never contend with each other — only the merge briefly takes the shared
// write lock.
func (b *Builder) BuildFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	local := index.NewLocal()
	position := 1

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		tokens := analyze.Parse(scanner.Text())
		stems := make([]string, 0, len(tokens))
		for _, tok := range tokens {
			stems = append(stems, analyze.Stem(tok))
		}
		local.AddAll(stems, path, position)
		position += len(stems)
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	b.idx.Merge(local)
	return nil
}
