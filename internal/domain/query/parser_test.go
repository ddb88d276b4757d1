package query

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
)

func group(terms ...Term) AndGroup { return AndGroup(terms) }

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Query
	}{
		{"empty", "", Query{}},
		{"blank", "   ", Query{}},
		{"and", "hello world", Query{OrGroups: []AndGroup{
			group(Include("hello"), Include("world")),
		}}},
		{"or", "cat | dog", Query{OrGroups: []AndGroup{
			group(Include("cat")), group(Include("dog")),
		}}},
		{"blank or-groups dropped", "a | | b", Query{OrGroups: []AndGroup{
			group(Include("a")), group(Include("b")),
		}}},
		{"empty sub-list kept as group", "cat | ()", Query{OrGroups: []AndGroup{
			group(Include("cat")), {},
		}}},
		{"empty phrase kept as group", `cat | ""`, Query{OrGroups: []AndGroup{
			group(Include("cat")), {},
		}}},
		{"empty exclude sub-list kept as group", "cat | (-)", Query{OrGroups: []AndGroup{
			group(Include("cat")), {},
		}}},
		{"phrase", `"hello world"`, Query{OrGroups: []AndGroup{
			group(Phrase("hello world")),
		}}},
		{"pipe inside phrase", `"a | b" c`, Query{OrGroups: []AndGroup{
			group(Phrase("a | b"), Include("c")),
		}}},
		{"exclude word", "fish -shark", Query{OrGroups: []AndGroup{
			group(Include("fish"), ExcludeWord("shark")),
		}}},
		{"exclude phrase dash outside", `-"bad words" good`, Query{OrGroups: []AndGroup{
			group(ExcludePhrase("bad words"), Include("good")),
		}}},
		{"exclude phrase dash inside", `"-bad words"`, Query{OrGroups: []AndGroup{
			group(ExcludePhrase("bad words")),
		}}},
		{"detached dash keeps phrase", `- "a b"`, Query{OrGroups: []AndGroup{
			group(Phrase("a b")),
		}}},
		{"wildcard", "run*", Query{OrGroups: []AndGroup{
			group(Wildcard("run*")),
		}}},
		{"partial", "run+", Query{OrGroups: []AndGroup{
			group(Partial("run+")),
		}}},
		{"sub-list include", `(a "b c")`, Query{OrGroups: []AndGroup{
			group(Include("a"), Phrase("b c")),
		}}},
		{"sub-list exclude", `(-a "b c")`, Query{OrGroups: []AndGroup{
			group(ExcludeWord("a"), ExcludePhrase("b c")),
		}}},
		{"case kept as typed", "Hello", Query{OrGroups: []AndGroup{
			group(Include("Hello")),
		}}},
		{"escaped quote in phrase", `"say \"hi\""`, Query{OrGroups: []AndGroup{
			group(Phrase(`say "hi"`)),
		}}},
		{"escaped quote in word", `say \"hi\"`, Query{OrGroups: []AndGroup{
			group(Include("say"), Include(`"hi"`)),
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.in)
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestParse_EmptyIsIdentity(t *testing.T) {
	q := Parse("")
	assert.True(t, q.IsEmpty())
	assert.Equal(t, "", q.String())
}

func TestParse_RoundTrip(t *testing.T) {
	inputs := []string{
		"hello world",
		"cat | dog",
		`"hello world" -shark`,
		`-"bad words" good | run* walk+`,
		`(-a "b c") d`,
		`(a "b c")`,
		`"say \"hi\"" x`,
		"cat | ()",
	}
	// Phrases are lifted out before plain tokens, so order within a group
	// may differ after a round trip; membership may not.
	byTerm := cmpopts.SortSlices(func(a, b Term) bool {
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.Text < b.Text
	})
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			first := Parse(in)
			second := Parse(first.String())
			if diff := cmp.Diff(first, second, byTerm); diff != "" {
				t.Errorf("round trip of %q via %q changed (-first +second):\n%s", in, first.String(), diff)
			}
			assert.Equal(t, first.String(), Parse(in).String(), "parsing is deterministic")
		})
	}
}

func TestQueryString(t *testing.T) {
	q := Query{OrGroups: []AndGroup{
		group(Include("a"), Phrase("b c"), ExcludeWord("d")),
		group(ExcludePhrase(`say "hi"`), Wildcard("run*")),
	}}
	assert.Equal(t, `a "b c" -d | -"say \"hi\"" run*`, q.String())

	q = Query{OrGroups: []AndGroup{group(Include("cat")), {}}}
	assert.Equal(t, "cat | ()", q.String())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "exclude-phrase", KindExcludePhrase.String())
	assert.Equal(t, "unknown", Kind(0).String())
	assert.True(t, ExcludeWord("x").IsExclude())
	assert.False(t, Phrase("x").IsExclude())
}
