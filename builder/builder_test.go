package builder

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/wizenheimer/cobweb/index"
	"github.com/wizenheimer/cobweb/workqueue"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile(%s): %v", path, err)
	}
	return path
}

func TestBuildFileIndexesTokensAtPositions(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.txt", "the quick brown fox")

	idx := index.New()
	b := New(idx)
	if err := b.BuildFile(path); err != nil {
		t.Fatalf("BuildFile: %v", err)
	}

	if got := idx.Count(path); got != 4 {
		t.Fatalf("Count() = %d, want 4", got)
	}
	if !idx.ContainsPosition("quick", path, 2) {
		t.Fatalf("expected quick at position 2")
	}
	if !idx.ContainsPosition("fox", path, 4) {
		t.Fatalf("expected fox at position 4")
	}
}

func TestBuildPathSkipsNonTextFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "hello world")
	writeFile(t, dir, "ignore.bin", "should not be indexed")

	idx := index.New()
	b := New(idx)
	if err := b.Build(dir); err != nil {
		t.Fatalf("Build: %v", err)
	}

	if idx.ContainsWord("ignore") {
		t.Fatalf("non-text file content leaked into the index")
	}
	if !idx.ContainsWord("hello") {
		t.Fatalf("expected 'hello' to be indexed")
	}
}

func TestBuildPathRecursesIntoDirectories(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}
	writeFile(t, dir, "a.txt", "alpha")
	writeFile(t, sub, "b.text", "beta")

	idx := index.New()
	b := New(idx)
	if err := b.Build(dir); err != nil {
		t.Fatalf("Build: %v", err)
	}

	if !idx.ContainsWord("alpha") || !idx.ContainsWord("beta") {
		t.Fatalf("expected both alpha and beta indexed, words=%v", idx.Words())
	}
}

func TestConcurrentBuildMergesAllFiles(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 10; i++ {
		writeFile(t, dir, filepathName(i), "shared word unique"+filepathSuffix(i))
	}

	idx := index.New()
	q := workqueue.New(4, 16)
	b := NewConcurrent(idx, q)
	if err := b.Build(dir); err != nil {
		t.Fatalf("Build: %v", err)
	}

	if got := idx.NumLocations("share"); got != 10 {
		t.Fatalf("NumLocations(share) = %d, want 10", got)
	}
}

func filepathName(i int) string { return "f" + filepathSuffix(i) + ".txt" }
func filepathSuffix(i int) string {
	digits := "0123456789"
	return string(digits[i])
}
