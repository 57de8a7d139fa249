package query

import (
	"testing"

	"github.com/wizenheimer/cobweb/index"
)

func TestProcessLineMemoizesPerMode(t *testing.T) {
	idx := index.New()
	idx.AddAll([]string{"quick", "brown", "fox"}, "a.txt", 1)

	p := New(idx)
	p.ProcessLine("quick fox", false)
	p.ProcessLine("fox quick", false) // same stem set, different word order

	if len(p.Queries(false)) != 1 {
		t.Fatalf("Queries(exact) = %v, want exactly 1 distinct canonical query", p.Queries(false))
	}

	exactResults := p.Results("quick fox", false)
	prefixResults := p.Results("quick fox", true)
	if len(exactResults) == 0 {
		t.Fatalf("Results(exact) is empty, want at least one match")
	}
	if len(prefixResults) != 0 {
		t.Fatalf("Results(prefix) = %v, want empty (prefix mode never queried)", prefixResults)
	}
}

func TestProcessLineIgnoresEmptyLines(t *testing.T) {
	idx := index.New()
	p := New(idx)
	p.ProcessLine("   ", false)

	if len(p.Queries(false)) != 0 {
		t.Fatalf("Queries(exact) = %v, want empty after a blank line", p.Queries(false))
	}
}

// S6 — feeding the same line twice performs exactly one underlying search.
func TestRepeatedLineSearchesOnce(t *testing.T) {
	idx := index.New()
	idx.AddAll([]string{"quick", "brown", "fox"}, "a.txt", 1)

	p := New(idx)
	p.ProcessLine("quick fox", false)
	first := p.Results("quick fox", false)

	// Mutate the index so a second real search would observe different data.
	idx.Add("quick", "b.txt", 1)
	idx.Add("fox", "b.txt", 2)

	p.ProcessLine("quick fox", false)
	second := p.Results("quick fox", false)

	if len(second) != len(first) {
		t.Fatalf("memoized result changed after a repeated query: first=%v second=%v", first, second)
	}
}

func TestResultsReCanonicalizesQuery(t *testing.T) {
	idx := index.New()
	idx.AddAll([]string{"quick", "brown", "fox"}, "a.txt", 1)

	p := New(idx)
	p.ProcessLine("fox quick", false)

	if got := p.Results("QUICK Fox", false); len(got) == 0 {
		t.Fatalf("Results() with different case/order = %v, want the memoized results", got)
	}
}
