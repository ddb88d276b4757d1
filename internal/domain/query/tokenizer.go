package query

import (
	"strings"
	"unicode"
)

// lexState is the tokenizer automaton state. Parenthesis nesting is tracked
// separately as a depth counter and only while in stateNormal.
type lexState uint8

const (
	stateNormal lexState = iota
	stateInQuote
)

// tokenizer splits text on whitespace while keeping quoted phrases and
// parenthesized groups together.
//
// A quote preceded by a backslash in the current token buffer is literal.
// With keepEscapes the backslash stays in the token so that later passes can
// still tell escaped quotes apart; otherwise it is consumed.
type tokenizer struct {
	state        lexState
	depth        int
	keepEscapes  bool
	ignoreParens bool
	buf          []rune
	start        int // input index of buf[0]
	tokens       []string
}

// Tokenize splits s into whitespace-delimited tokens. Quoted substrings and
// parenthesized groups are never split; `\"` yields a literal quote. It
// never fails: unterminated quotes and unbalanced parentheses produce
// whatever was accumulated.
func Tokenize(s string) []string {
	t := &tokenizer{}
	return t.run(s)
}

// tokenizeRaw is Tokenize but leaves `\"` sequences in place.
func tokenizeRaw(s string) []string {
	t := &tokenizer{keepEscapes: true}
	return t.run(s)
}

func (t *tokenizer) run(s string) []string {
	runes := []rune(s)
	for i, r := range runes {
		if len(t.buf) == 0 {
			t.start = i
		}
		t.step(r)
	}
	if t.depth > 0 && t.state == stateNormal && len(t.buf) > 0 {
		// Unclosed group: split the rest as if the parentheses were plain text.
		rest := &tokenizer{keepEscapes: t.keepEscapes, ignoreParens: true}
		t.tokens = append(t.tokens, rest.run(string(runes[t.start:]))...)
		return t.tokens
	}
	t.flush()
	return t.tokens
}

func (t *tokenizer) step(r rune) {
	switch {
	case r == '"':
		if t.escaped() {
			if t.keepEscapes {
				t.buf = append(t.buf, r)
			} else {
				t.buf[len(t.buf)-1] = r
			}
			return
		}
		if t.state == stateInQuote {
			t.state = stateNormal
		} else {
			t.state = stateInQuote
		}
		t.buf = append(t.buf, r)
	case t.state == stateInQuote:
		t.buf = append(t.buf, r)
	case r == '(' && !t.ignoreParens:
		t.depth++
		t.buf = append(t.buf, r)
	case r == ')' && !t.ignoreParens:
		// A stray closing parenthesis is ordinary text.
		if t.depth > 0 {
			t.depth--
		}
		t.buf = append(t.buf, r)
	case unicode.IsSpace(r) && t.depth == 0:
		t.flush()
	default:
		t.buf = append(t.buf, r)
	}
}

func (t *tokenizer) escaped() bool {
	return len(t.buf) > 0 && t.buf[len(t.buf)-1] == '\\'
}

func (t *tokenizer) flush() {
	if len(t.buf) == 0 {
		return
	}
	if tok := strings.TrimSpace(string(t.buf)); tok != "" {
		t.tokens = append(t.tokens, tok)
	}
	t.buf = t.buf[:0]
}

// splitTopLevel splits s on sep where sep is outside a quoted phrase.
// Escaped quotes are kept verbatim. Parts are trimmed and blank parts dropped.
func splitTopLevel(s string, sep rune) []string {
	var (
		parts   []string
		buf     []rune
		inQuote bool
	)
	emit := func() {
		if p := strings.TrimSpace(string(buf)); p != "" {
			parts = append(parts, p)
		}
		buf = buf[:0]
	}
	for _, r := range s {
		switch {
		case r == '"':
			if len(buf) == 0 || buf[len(buf)-1] != '\\' {
				inQuote = !inQuote
			}
			buf = append(buf, r)
		case r == sep && !inQuote:
			emit()
		default:
			buf = append(buf, r)
		}
	}
	emit()
	return parts
}

// isQuoted reports whether tok is wrapped in unescaped double quotes.
func isQuoted(tok string) bool {
	return len(tok) >= 2 &&
		tok[0] == '"' &&
		tok[len(tok)-1] == '"' &&
		tok[len(tok)-2] != '\\'
}
