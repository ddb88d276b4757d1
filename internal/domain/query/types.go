// Package query implements the search expression language used to filter
// video titles, channel names and transcript lines.
//
// A raw expression is tokenized, parsed into a Query (an OR of AND-groups of
// typed terms) and evaluated against candidate texts by a Matcher. Queries are
// plain immutable values: parse once, match many times, from any goroutine.
//
// Syntax (general mode):
//
//	word          word must appear as a whole word
//	"some words"  phrase must appear as a substring
//	-word         word must not appear
//	-"a phrase"   phrase must not appear
//	run*  run+    stem followed by any word characters
//	(a b "c d")   sub-list of required terms
//	(-a b)        sub-list of excluded terms
//	x | y         either side may match
package query

import "strings"

// Kind tags the variant of a Term.
type Kind uint8

const (
	KindInclude Kind = iota + 1
	KindPhrase
	KindWildcard
	KindPartial
	KindExcludeWord
	KindExcludePhrase
)

func (k Kind) String() string {
	switch k {
	case KindInclude:
		return "include"
	case KindPhrase:
		return "phrase"
	case KindWildcard:
		return "wildcard"
	case KindPartial:
		return "partial"
	case KindExcludeWord:
		return "exclude-word"
	case KindExcludePhrase:
		return "exclude-phrase"
	}
	return "unknown"
}

// Term is a single typed predicate. Text holds the literal as typed, minus
// syntax markers; case folding happens at match time.
type Term struct {
	Kind Kind
	Text string
}

func Include(text string) Term       { return Term{Kind: KindInclude, Text: text} }
func Phrase(text string) Term        { return Term{Kind: KindPhrase, Text: text} }
func Wildcard(text string) Term      { return Term{Kind: KindWildcard, Text: text} }
func Partial(text string) Term       { return Term{Kind: KindPartial, Text: text} }
func ExcludeWord(text string) Term   { return Term{Kind: KindExcludeWord, Text: text} }
func ExcludePhrase(text string) Term { return Term{Kind: KindExcludePhrase, Text: text} }

// IsExclude reports whether the term must be absent for a match.
func (t Term) IsExclude() bool {
	return t.Kind == KindExcludeWord || t.Kind == KindExcludePhrase
}

// String renders the term back into query syntax.
func (t Term) String() string {
	switch t.Kind {
	case KindPhrase:
		return quote(t.Text)
	case KindExcludePhrase:
		return "-" + quote(t.Text)
	case KindExcludeWord:
		return "-" + escapeQuotes(t.Text)
	default:
		return escapeQuotes(t.Text)
	}
}

// AndGroup is a conjunction of terms. An empty group matches everything.
type AndGroup []Term

// String renders the group; an empty group renders as "()".
func (g AndGroup) String() string {
	if len(g) == 0 {
		return "()"
	}
	parts := make([]string, len(g))
	for i, t := range g {
		parts[i] = t.String()
	}
	return strings.Join(parts, " ")
}

// Query is a disjunction of AND-groups. A Query without groups matches
// every candidate.
type Query struct {
	OrGroups []AndGroup
}

// IsEmpty reports whether the query is the identity filter.
func (q Query) IsEmpty() bool { return len(q.OrGroups) == 0 }

// String renders the query back into general-mode syntax. Parsing the result
// yields a query with the same groups and terms.
func (q Query) String() string {
	parts := make([]string, len(q.OrGroups))
	for i, g := range q.OrGroups {
		parts[i] = g.String()
	}
	return strings.Join(parts, " | ")
}

func quote(s string) string { return `"` + escapeQuotes(s) + `"` }

func escapeQuotes(s string) string { return strings.ReplaceAll(s, `"`, `\"`) }

func unescapeQuotes(s string) string { return strings.ReplaceAll(s, `\"`, `"`) }
