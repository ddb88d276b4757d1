package query

import (
	"regexp"
	"sync"
)

// patternCache holds compiled term patterns keyed by expression source.
// Filtering passes rebuild matchers for the same few terms over and over;
// compiled regexps are immutable and shared freely.
type patternCache struct {
	cache sync.Map // map[string]*regexp.Regexp
}

var compiled = &patternCache{}

// get returns the compiled form of expr, compiling and caching on first use.
// Every expr reaching here was built from escaped literals, so a compile
// failure is a bug in this package.
func (c *patternCache) get(expr string) *regexp.Regexp {
	if re, ok := c.cache.Load(expr); ok {
		return re.(*regexp.Regexp)
	}
	re := regexp.MustCompile(expr)
	actual, _ := c.cache.LoadOrStore(expr, re)
	return actual.(*regexp.Regexp)
}
