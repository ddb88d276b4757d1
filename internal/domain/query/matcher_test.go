package query

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		name  string
		query string
		text  string
		want  bool
	}{
		// Identity
		{"empty query matches anything", "", "whatever", true},
		{"empty query matches empty text", "", "", true},

		// AND within a group
		{"and both present", "hello world", "Hello big World", true},
		{"and one missing", "hello world", "hello there", false},

		// OR across groups
		{"or left", "cat | dog", "a cat sat", true},
		{"or right", "cat | dog", "a dog ran", true},
		{"or neither", "cat | dog", "a bird flew", false},
		{"empty sub-list group matches anything", "cat | ()", "dog", true},
		{"empty phrase group matches anything", `cat | ""`, "dog", true},
		{"empty exclude group matches anything", "cat | (-)", "dog", true},

		// Phrases are raw substrings
		{"phrase present", `"hello world"`, "say hello world!", true},
		{"phrase split", `"hello world"`, "hello there world", false},
		{"phrase inside word", `"lo wo"`, "hello world", true},

		// Includes are word-bounded
		{"include whole word", "cat", "the cat.", true},
		{"include inside word", "cat", "concatenate", false},
		{"include case folded", "HELLO", "hello", true},
		{"include unicode word", "café", "Le Café noir", true},
		{"include unicode prefix", "caf", "café", false},

		// Exclusions
		{"exclude absent", "fish -shark", "fish tank", true},
		{"exclude present", "fish -shark", "fish and shark", false},
		{"exclude is word-bounded", "fish -shark", "fish and sharks", true},
		{"exclude phrase absent", `-"bad words"`, "fine text", true},
		{"exclude phrase present", `-"bad words"`, "some bad words here", false},
		{"exclude sub-list", "(-a b) c", "c and b", false},

		// Wildcards anchor at word boundaries
		{"wildcard suffix", "run*", "running fast", true},
		{"wildcard bare stem", "run*", "we run", true},
		{"wildcard not mid-word", "run*", "overrun", false},
		{"wildcard infix", "c*t", "the colt ran", true},

		// OR with mixed terms
		{"or with exclusion", `fish -shark | "deep sea"`, "shark in the deep sea", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Match(Parse(tt.query), tt.text))
		})
	}
}

func TestMatch_WildcardAndPartialAgree(t *testing.T) {
	texts := []string{"running fast", "overrun", "run", "a rung", "Rundown", "", "ru n"}
	wild := NewMatcher(Parse("run*"))
	part := NewMatcher(Parse("run+"))
	for _, text := range texts {
		assert.Equal(t, wild.Match(text), part.Match(text), "text %q", text)
	}
}

func TestMatcher_ConcurrentUse(t *testing.T) {
	m := NewMatcher(Parse(`hello -world | "good day"`))
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				assert.True(t, m.Match("hello there"))
				assert.False(t, m.Match("hello world"))
				assert.True(t, m.Match("a good day"))
			}
		}()
	}
	wg.Wait()
}

func TestPatternCacheReuses(t *testing.T) {
	a := compiled.get(`abc\b`)
	b := compiled.get(`abc\b`)
	assert.Same(t, a, b)
}
