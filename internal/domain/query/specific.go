package query

import (
	"regexp"
	"strings"
)

// wordClass matches one word character: a letter, a digit or underscore.
const wordClass = `[\p{L}\p{N}_]`

// Pattern is a ready-to-match specific-mode clause. Source is the clause as
// typed; Expr is the regular expression it was translated into, with all
// literal text escaped.
type Pattern struct {
	Kind   Kind
	Source string
	Expr   string
}

// Literal reports whether the pattern matches exactly its Source text.
func (p Pattern) Literal() bool { return p.Kind == KindInclude }

// SpecificQuery is the flat form used for transcript search and
// highlighting: independent alternatives whose matches are unioned.
type SpecificQuery struct {
	Include  []Pattern
	Wildcard []Pattern
	Partial  []Pattern
}

// IsEmpty reports whether the query has no patterns at all.
func (q SpecificQuery) IsEmpty() bool {
	return len(q.Include) == 0 && len(q.Wildcard) == 0 && len(q.Partial) == 0
}

// Patterns returns every pattern in match order: include, wildcard, partial.
func (q SpecificQuery) Patterns() []Pattern {
	out := make([]Pattern, 0, len(q.Include)+len(q.Wildcard)+len(q.Partial))
	out = append(out, q.Include...)
	out = append(out, q.Wildcard...)
	return append(out, q.Partial...)
}

// ParseSpecific builds a SpecificQuery. Clauses are separated by top-level
// pipes; there is no exclusion or grouping.
//
//	"the * fox"   wildcard: '*' stands for exactly one word
//	run+  run*    partial: '+' and '*' stand for any word characters
//	anything else is matched literally
func ParseSpecific(raw string) SpecificQuery {
	var q SpecificQuery
	for _, clause := range splitTopLevel(raw, '|') {
		if isQuoted(clause) {
			phrase := unescapeQuotes(strings.TrimSpace(clause[1 : len(clause)-1]))
			switch {
			case phrase == "":
			case strings.Contains(phrase, "*"):
				q.Wildcard = append(q.Wildcard, Pattern{
					Kind:   KindWildcard,
					Source: phrase,
					Expr:   expand(phrase, "*", wordClass+"+"),
				})
			default:
				q.Include = append(q.Include, Pattern{
					Kind:   KindInclude,
					Source: phrase,
					Expr:   regexp.QuoteMeta(phrase),
				})
			}
			continue
		}

		text := unescapeQuotes(clause)
		if strings.ContainsAny(text, "+*") {
			q.Partial = append(q.Partial, Pattern{
				Kind:   KindPartial,
				Source: text,
				Expr:   expand(text, "+*", wordClass+"*"),
			})
			continue
		}
		q.Include = append(q.Include, Pattern{
			Kind:   KindInclude,
			Source: text,
			Expr:   regexp.QuoteMeta(text),
		})
	}
	return q
}

// expand escapes s and replaces every marker rune in markers with repl.
func expand(s, markers, repl string) string {
	var b strings.Builder
	start := 0
	for i, r := range s {
		if !strings.ContainsRune(markers, r) {
			continue
		}
		b.WriteString(regexp.QuoteMeta(s[start:i]))
		b.WriteString(repl)
		start = i + 1
	}
	b.WriteString(regexp.QuoteMeta(s[start:]))
	return b.String()
}
