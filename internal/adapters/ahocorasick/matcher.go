// Package ahocorasick provides multi-pattern string matching using an Aho-Corasick automaton.
// It wraps the petar-dambovaliev/aho-corasick library for O(n + m + z) matching.
package ahocorasick

import (
	"strings"
	"unicode"
	"unicode/utf8"

	aho "github.com/petar-dambovaliev/aho-corasick"

	"github.com/corey/minimot/internal/ports"
)

// Matcher finds literal keywords case-insensitively, with the same simple
// case folding as a (?i) regexp. It is immutable after New and safe for
// concurrent use.
type Matcher struct {
	automaton aho.AhoCorasick
	keywords  []string // lower-cased, as reported by Match
}

var _ ports.PatternMatcher = (*Matcher)(nil)

// New compiles an automaton over keywords. Empty keywords are ignored;
// a matcher with no keywords matches nothing.
func New(keywords []string) *Matcher {
	var kws, folded []string
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		kws = append(kws, strings.ToLower(kw))
		folded = append(folded, foldCase(kw))
	}
	builder := aho.NewAhoCorasickBuilder(aho.Opts{
		DFA: true,
	})
	return &Matcher{
		automaton: builder.Build(folded),
		keywords:  kws,
	}
}

// Match returns every distinct keyword found in content, in order of first
// appearance.
func (m *Matcher) Match(content string) []string {
	if len(m.keywords) == 0 {
		return nil
	}
	matches := m.automaton.FindAll(foldCase(content))
	if len(matches) == 0 {
		return nil
	}

	// Deduplicate by keyword
	seen := make(map[string]bool, len(matches))
	var result []string
	for i := range matches {
		kw := m.keywords[matches[i].Pattern()]
		if !seen[kw] {
			seen[kw] = true
			result = append(result, kw)
		}
	}
	return result
}

// Contains reports whether any keyword occurs in content. It stops at the
// first hit.
func (m *Matcher) Contains(content string) bool {
	if len(m.keywords) == 0 {
		return false
	}
	iter := m.automaton.IterOverlappingByte([]byte(foldCase(content)))
	return iter.Next() != nil
}

// Len returns the number of keywords in the automaton.
func (m *Matcher) Len() int {
	return len(m.keywords)
}

// foldCase maps every rune to the smallest rune of its unicode.SimpleFold
// orbit. Two strings fold equal exactly when a (?i) regexp treats them as
// equal rune by rune, so "\u212Aiss" and "KISS" both fold to "KISS".
func foldCase(s string) string {
	return strings.Map(foldRune, s)
}

func foldRune(r rune) rune {
	if r < utf8.RuneSelf {
		if 'a' <= r && r <= 'z' {
			return r - 'a' + 'A'
		}
		return r
	}
	min := r
	for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
		if f < min {
			min = f
		}
	}
	return min
}
