package query

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// termMatcher is a Term with its pattern resolved up front, so matching never
// looks at query syntax again.
type termMatcher struct {
	kind Kind
	text string         // lower-cased literal, phrase kinds only
	re   *regexp.Regexp // word-bounded kinds only
}

func newTermMatcher(t Term) termMatcher {
	lower := strings.ToLower(t.Text)
	switch t.Kind {
	case KindPhrase, KindExcludePhrase:
		return termMatcher{kind: t.Kind, text: lower}
	case KindWildcard, KindPartial:
		// '*' and '+' behave the same in both kinds: stem plus any word characters.
		return termMatcher{kind: t.Kind, re: compiled.get(expand(lower, "*+", wordClass+"*"))}
	default:
		return termMatcher{kind: t.Kind, re: compiled.get(regexp.QuoteMeta(lower))}
	}
}

// holds reports whether the term is satisfied by the lower-cased text.
func (m termMatcher) holds(text string) bool {
	switch m.kind {
	case KindPhrase:
		return strings.Contains(text, m.text)
	case KindExcludePhrase:
		return !strings.Contains(text, m.text)
	case KindExcludeWord:
		_, _, found := findBounded(m.re, text, 0)
		return !found
	default:
		_, _, found := findBounded(m.re, text, 0)
		return found
	}
}

// Matcher evaluates a general-mode Query. It is immutable once built and
// safe for concurrent use.
type Matcher struct {
	groups [][]termMatcher
}

// NewMatcher resolves every term of q into its match form.
func NewMatcher(q Query) *Matcher {
	m := &Matcher{groups: make([][]termMatcher, len(q.OrGroups))}
	for i, g := range q.OrGroups {
		tms := make([]termMatcher, len(g))
		for j, t := range g {
			tms[j] = newTermMatcher(t)
		}
		m.groups[i] = tms
	}
	return m
}

// Match reports whether text satisfies at least one AND-group. A matcher
// built from an empty Query matches everything.
func (m *Matcher) Match(text string) bool {
	if len(m.groups) == 0 {
		return true
	}
	text = strings.ToLower(text)
	for _, g := range m.groups {
		if groupHolds(g, text) {
			return true
		}
	}
	return false
}

func groupHolds(g []termMatcher, text string) bool {
	for _, tm := range g {
		if !tm.holds(text) {
			return false
		}
	}
	return true
}

// Match is a convenience for NewMatcher(q).Match(text).
func Match(q Query, text string) bool {
	return NewMatcher(q).Match(text)
}

// Hit is one specific-mode match. Text is lower-cased; Start and End are
// byte offsets into the candidate as given, for highlighting.
type Hit struct {
	Text  string
	Start int
	End   int
}

// SpecificMatcher evaluates a SpecificQuery. It is immutable once built and
// safe for concurrent use.
type SpecificMatcher struct {
	patterns []*regexp.Regexp
}

// NewSpecificMatcher compiles every pattern of q, case-insensitively.
func NewSpecificMatcher(q SpecificQuery) *SpecificMatcher {
	ps := q.Patterns()
	m := &SpecificMatcher{patterns: make([]*regexp.Regexp, len(ps))}
	for i, p := range ps {
		m.patterns[i] = compiled.get("(?i)" + p.Expr)
	}
	return m
}

// FindAll returns every non-overlapping word-bounded match of each pattern,
// pattern by pattern in include, wildcard, partial order. Empty matches are
// skipped.
func (m *SpecificMatcher) FindAll(text string) []Hit {
	var out []Hit
	for _, re := range m.patterns {
		from := 0
		for from <= len(text) {
			start, end, ok := findBounded(re, text, from)
			if !ok {
				break
			}
			if end == start {
				from = end + runeLen(text, end)
				if from > len(text) {
					break
				}
				continue
			}
			out = append(out, Hit{Text: strings.ToLower(text[start:end]), Start: start, End: end})
			from = end
		}
	}
	return out
}

// Strings returns the matched substrings only. A non-empty result means the
// text matched; its length is the occurrence count.
func (m *SpecificMatcher) Strings(text string) []string {
	matches := m.FindAll(text)
	if len(matches) == 0 {
		return nil
	}
	out := make([]string, len(matches))
	for i, h := range matches {
		out[i] = h.Text
	}
	return out
}

// FindSpecific is a convenience for NewSpecificMatcher(q).Strings(text).
func FindSpecific(q SpecificQuery, text string) []string {
	return NewSpecificMatcher(q).Strings(text)
}

// findBounded returns the leftmost match of re in s at or after from whose
// both ends sit on word boundaries. A rejected candidate is retried one rune
// past its start, as a backtracking engine anchored with \b would.
func findBounded(re *regexp.Regexp, s string, from int) (int, int, bool) {
	for from <= len(s) {
		loc := re.FindStringIndex(s[from:])
		if loc == nil {
			return 0, 0, false
		}
		start, end := from+loc[0], from+loc[1]
		if atBoundary(s, start) && atBoundary(s, end) {
			return start, end, true
		}
		if start >= len(s) {
			return 0, 0, false
		}
		from = start + runeLen(s, start)
	}
	return 0, 0, false
}

// atBoundary reports whether byte offset i lies between a word and a
// non-word character (or the start/end of s next to a word character).
func atBoundary(s string, i int) bool {
	before, after := false, false
	if i > 0 {
		r, _ := utf8.DecodeLastRuneInString(s[:i])
		before = isWordRune(r)
	}
	if i < len(s) {
		r, _ := utf8.DecodeRuneInString(s[i:])
		after = isWordRune(r)
	}
	return before != after
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

func runeLen(s string, i int) int {
	if i >= len(s) {
		return 1
	}
	_, size := utf8.DecodeRuneInString(s[i:])
	return size
}
