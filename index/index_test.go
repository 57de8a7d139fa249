package index

import "testing"

func TestAddIsIdempotent(t *testing.T) {
	idx := New()
	idx.Add("fox", "a.txt", 3)
	idx.Add("fox", "a.txt", 3)

	if got := idx.NumPositions("fox", "a.txt"); got != 1 {
		t.Fatalf("NumPositions() = %d, want 1 (re-adding the same position must not double-count)", got)
	}
	if got := idx.Count("a.txt"); got != 1 {
		t.Fatalf("Count() = %d, want 1", got)
	}
}

func TestCountEqualsUnionOfPositions(t *testing.T) {
	idx := New()
	idx.Add("the", "a.txt", 1)
	idx.Add("quick", "a.txt", 2)
	idx.Add("brown", "a.txt", 3)
	idx.Add("fox", "a.txt", 4)

	if got := idx.Count("a.txt"); got != 4 {
		t.Fatalf("Count() = %d, want 4", got)
	}
}

func TestAddAllAssignsConsecutivePositions(t *testing.T) {
	idx := New()
	idx.AddAll([]string{"the", "quick", "brown", "fox"}, "a.txt", 1)

	for tok, want := range map[string]int{"the": 1, "quick": 2, "brown": 3, "fox": 4} {
		if !idx.ContainsPosition(tok, "a.txt", want) {
			t.Errorf("position %d for token %q not recorded", want, tok)
		}
	}
}

func TestMergeIsMonotone(t *testing.T) {
	idx := New()
	idx.Add("fox", "a.txt", 1)

	local := NewLocal()
	local.Add("dog", "b.txt", 1)
	local.Add("dog", "b.txt", 2)
	idx.Merge(local)

	if !idx.ContainsWord("fox") {
		t.Fatalf("merge lost pre-existing data")
	}
	if !idx.ContainsLocation("dog", "b.txt") {
		t.Fatalf("merge did not add new data")
	}
	if got := idx.Count("b.txt"); got != 2 {
		t.Fatalf("Count(b.txt) = %d, want 2", got)
	}
}

func TestNoEmptyInnerContainers(t *testing.T) {
	idx := New()
	if idx.ContainsWord("missing") {
		t.Fatalf("ContainsWord reported a token that was never added")
	}
	if got := idx.NumLocations("missing"); got != 0 {
		t.Fatalf("NumLocations(missing) = %d, want 0", got)
	}
}

// S1 — single file, exact search.
func TestSearchScenarioS1(t *testing.T) {
	idx := New()
	idx.AddAll([]string{"the", "quick", "brown", "fox"}, "a.txt", 1)

	results := idx.Search([]string{"quick", "fox"}, false)
	if len(results) != 1 {
		t.Fatalf("Search() returned %d results, want 1", len(results))
	}
	got := results[0]
	if got.Location != "a.txt" || got.Matches != 2 || got.Score != 0.5 {
		t.Fatalf("Search() = %+v, want {a.txt 2 0.5}", got)
	}
}

// S2 — two files, ranking by score.
func TestSearchScenarioS2(t *testing.T) {
	idx := New()
	// a.txt: 2 matches out of 10 tokens (score 0.2)
	idx.AddAll([]string{"cat", "dog", "x1", "x2", "x3", "x4", "x5", "x6", "x7", "x8"}, "a.txt", 1)
	// b.txt: 3 matches out of 100 tokens (score 0.03)
	bTokens := make([]string, 100)
	for i := range bTokens {
		bTokens[i] = "filler"
	}
	bTokens[0], bTokens[1], bTokens[2] = "cat", "dog", "cat"
	idx.AddAll(bTokens, "b.txt", 1)

	results := idx.Search([]string{"cat", "dog"}, false)
	if len(results) != 2 {
		t.Fatalf("Search() returned %d results, want 2", len(results))
	}
	if results[0].Location != "a.txt" || results[1].Location != "b.txt" {
		t.Fatalf("Search() order = [%s, %s], want [a.txt, b.txt]", results[0].Location, results[1].Location)
	}
}

// S3 — tie-break by matches then location, case-insensitive ascending.
func TestSearchScenarioS3(t *testing.T) {
	idx := New()
	idx.AddAll([]string{"cat", "dog", "x1", "x2", "x3", "x6", "x7", "x8", "x9", "x10"}, "Y.txt", 1)
	idx.AddAll([]string{"cat", "dog", "x1", "x2", "x3", "x6", "x7", "x8", "x9", "x10"}, "x.txt", 1)

	results := idx.Search([]string{"cat", "dog"}, false)
	if len(results) != 2 {
		t.Fatalf("Search() returned %d results, want 2", len(results))
	}
	if results[0].Location != "x.txt" || results[1].Location != "Y.txt" {
		t.Fatalf("Search() order = [%s, %s], want [x.txt, Y.txt]", results[0].Location, results[1].Location)
	}
}

// S4 — prefix search combines contributions from every matching token.
func TestSearchScenarioS4Prefix(t *testing.T) {
	idx := New()
	idx.Add("cat", "a.txt", 1)
	idx.Add("catalog", "a.txt", 2)
	idx.Add("dog", "a.txt", 3)

	results := idx.Search([]string{"cat"}, true)
	if len(results) != 1 {
		t.Fatalf("Search() returned %d results, want 1", len(results))
	}
	if results[0].Matches != 2 {
		t.Fatalf("Search() matches = %d, want 2 (cat + catalog)", results[0].Matches)
	}
}

func TestSearchExactExcludesPrefixOnly(t *testing.T) {
	idx := New()
	idx.Add("cat", "a.txt", 1)
	idx.Add("catalog", "a.txt", 2)

	results := idx.Search([]string{"cat"}, false)
	if len(results) != 1 || results[0].Matches != 1 {
		t.Fatalf("Search(exact) = %+v, want one result with 1 match", results)
	}
}

func TestSearchEmptyStemsReturnsEmpty(t *testing.T) {
	idx := New()
	idx.Add("cat", "a.txt", 1)

	results := idx.Search(nil, false)
	if len(results) != 0 {
		t.Fatalf("Search(nil) = %v, want empty", results)
	}
}

func TestPrefixResultsSupersetOfExact(t *testing.T) {
	idx := New()
	idx.Add("cat", "a.txt", 1)
	idx.Add("catalog", "a.txt", 2)
	idx.Add("dog", "b.txt", 1)

	exact := idx.Search([]string{"cat"}, false)
	prefix := idx.Search([]string{"cat"}, true)

	exactLocs := make(map[string]bool)
	for _, r := range exact {
		exactLocs[r.Location] = true
	}
	for loc := range exactLocs {
		found := false
		for _, r := range prefix {
			if r.Location == loc {
				found = true
			}
		}
		if !found {
			t.Fatalf("prefix search dropped location %q present in exact search", loc)
		}
	}
}
