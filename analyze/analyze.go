// Package analyze is the tokenizer/stemmer adapter: the pure text-
// processing seam between raw source text and the Inverted Index's
// Token type.
//
// The pipeline is deliberately shorter than a typical full-text analyzer:
// tokenize, lowercase, stem — no stopword removal and no minimum-length
// filter. A prefix search over "a" or "an" needs those short tokens
// present in the index, so dropping them upstream would silently break
// prefix mode.
package analyze

import (
	"sort"
	"strings"
	"unicode"

	snowballeng "github.com/kljensen/snowball/english"
)

// Parse splits text into tokens: lowercase, letter/digit runs, split on
// everything else. Order is preserved and duplicates are allowed — callers
// that need a deduplicated ordered set should use UniqueStems instead.
func Parse(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		tokens = append(tokens, strings.ToLower(f))
	}
	return tokens
}

// Stem returns the Snowball-English stem of a single lowercased token.
// Snowball's stemmer package-level function is not documented as
// goroutine-safe against shared mutable state, but it holds none — each
// call is independent, so no per-caller stemmer instance is actually
// required here (contrast a stateful stemmer implementation, where each
// worker must own its own).
func Stem(token string) string {
	return snowballeng.Stem(token, false)
}

// UniqueStems parses and stems a line of text, deduplicates the result,
// and returns it as a set ordered lexicographically (case-insensitively,
// though input is already lowercase by the time it reaches this point).
// This is the Query Processor's canonical-query-key builder: joining the
// returned slice with single spaces yields the memoization key.
func UniqueStems(line string) []string {
	tokens := Parse(line)
	seen := make(map[string]struct{}, len(tokens))
	stems := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		stem := Stem(tok)
		if stem == "" {
			continue
		}
		if _, ok := seen[stem]; ok {
			continue
		}
		seen[stem] = struct{}{}
		stems = append(stems, stem)
	}
	sort.Strings(stems)
	return stems
}
