package query

import (
	"strings"
	"unicode"
)

// Parse builds a general-mode Query from a raw search expression.
//
// The expression is split on top-level pipes into OR-groups. Within a group,
// quoted phrases are lifted out first, then the remaining text is tokenized
// and each token classified as a sub-list, exclusion, wildcard, partial or
// plain include term. Parse never fails; an empty or blank expression yields
// the identity Query. A non-blank group without terms, like "()", is kept as
// an empty group and matches everything.
func Parse(raw string) Query {
	var q Query
	for _, src := range splitTopLevel(raw, '|') {
		q.OrGroups = append(q.OrGroups, parseGroup(src))
	}
	return q
}

func parseGroup(src string) AndGroup {
	phrases, rest := extractPhrases(src)
	group := phrases
	for _, tok := range tokenizeRaw(rest) {
		group = append(group, classify(tok)...)
	}
	return group
}

// extractPhrases lifts every top-level "..." phrase out of src and returns
// the phrase terms plus the leftover text. Phrases inside parentheses are
// left in place for the sub-list rules. A '-' glued to the opening quote, or
// leading the phrase content, turns the phrase into an exclusion.
func extractPhrases(src string) ([]Term, string) {
	var (
		terms    []Term
		rest     []rune
		depth    int
		inNested bool // inside a quote within parentheses
	)
	runes := []rune(src)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		escaped := i > 0 && runes[i-1] == '\\'
		switch {
		case r == '"' && !escaped && depth > 0:
			inNested = !inNested
		case r == '(' && !inNested:
			depth++
		case r == ')' && !inNested && depth > 0:
			depth--
		}
		if r != '"' || escaped || depth > 0 {
			rest = append(rest, r)
			continue
		}

		end := closingQuote(runes, i+1)
		if end < 0 {
			// Unterminated: leave it to the tokenizer.
			rest = append(rest, runes[i:]...)
			break
		}

		negate := false
		if n := len(rest); n > 0 && rest[n-1] == '-' && (n == 1 || unicode.IsSpace(rest[n-2])) {
			negate = true
			rest = rest[:n-1]
		}
		text := strings.TrimSpace(string(runes[i+1 : end]))
		if strings.HasPrefix(text, "-") {
			negate = true
			text = text[1:]
		}
		text = unescapeQuotes(text)
		if text != "" {
			if negate {
				terms = append(terms, ExcludePhrase(text))
			} else {
				terms = append(terms, Phrase(text))
			}
		}
		rest = append(rest, ' ')
		i = end
	}
	return terms, string(rest)
}

// closingQuote returns the index of the first unescaped quote at or after
// from, or -1.
func closingQuote(runes []rune, from int) int {
	for j := from; j < len(runes); j++ {
		if runes[j] == '"' && runes[j-1] != '\\' {
			return j
		}
	}
	return -1
}

// classify turns one raw token into terms, following the precedence
// sub-list, exclusion, wildcard, partial, include.
func classify(tok string) []Term {
	switch {
	case len(tok) >= 2 && tok[0] == '(' && tok[len(tok)-1] == ')':
		return classifySubList(strings.TrimSpace(tok[1 : len(tok)-1]))

	case tok[0] == '-':
		rem := tok[1:]
		if isQuoted(rem) {
			if text := unescapeQuotes(rem[1 : len(rem)-1]); text != "" {
				return []Term{ExcludePhrase(text)}
			}
			return nil
		}
		if rem == "" {
			return nil
		}
		return []Term{ExcludeWord(unescapeQuotes(rem))}

	case strings.Contains(tok, "*"):
		return []Term{Wildcard(unescapeQuotes(tok))}

	case strings.Contains(tok, "+"):
		return []Term{Partial(unescapeQuotes(tok))}
	}
	return []Term{Include(unescapeQuotes(tok))}
}

// classifySubList handles the content of a parenthesized token. A leading
// '-' excludes every sub-term; otherwise every sub-term is required.
func classifySubList(inner string) []Term {
	negate := strings.HasPrefix(inner, "-")
	if negate {
		inner = inner[1:]
	}
	var terms []Term
	for _, sub := range tokenizeRaw(inner) {
		quoted := isQuoted(sub)
		text := sub
		if quoted {
			text = sub[1 : len(sub)-1]
		}
		text = unescapeQuotes(text)
		if text == "" {
			continue
		}
		switch {
		case negate && quoted:
			terms = append(terms, ExcludePhrase(text))
		case negate:
			terms = append(terms, ExcludeWord(text))
		case quoted:
			terms = append(terms, Phrase(text))
		default:
			terms = append(terms, Include(text))
		}
	}
	return terms
}
