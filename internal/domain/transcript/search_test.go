package transcript

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey/minimot/internal/domain/query"
	"github.com/corey/minimot/internal/ports"
)

func writeTranscripts(t *testing.T, files map[string]string) []string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0644))
	}
	paths, err := ListFiles(dir, ".txt")
	require.NoError(t, err)
	return paths
}

// substrPrefilter stands in for the keyword automaton.
type substrPrefilter struct {
	keywords []string
	calls    *atomic.Int64
}

func (p substrPrefilter) Match(content string) []string { return nil }

func (p substrPrefilter) Contains(content string) bool {
	p.calls.Add(1)
	content = strings.ToLower(content)
	for _, k := range p.keywords {
		if strings.Contains(content, strings.ToLower(k)) {
			return true
		}
	}
	return false
}

func TestSearch(t *testing.T) {
	files := writeTranscripts(t, map[string]string{
		"One [id1].en.txt": "hello world\nnothing here\nHELLO again hello",
		"Two [id2].en.txt": "goodbye",
	})

	res, err := Search(context.Background(), files, query.ParseSpecific("hello"), SearchOptions{Workers: 2})
	require.NoError(t, err)

	assert.Equal(t, 2, res.Scanned)
	require.Len(t, res.Files, 1)
	f := res.Files[0]
	assert.Equal(t, "id1", f.VideoID)
	assert.Equal(t, 3, f.Occurrences)
	require.Len(t, f.Lines, 2)
	assert.Equal(t, 1, f.Lines[0].Line)
	assert.Equal(t, 3, f.Lines[1].Line)
	assert.Equal(t, "HELLO again hello", f.Lines[1].Text)
	assert.Equal(t, []query.Hit{{Text: "hello", Start: 0, End: 5}, {Text: "hello", Start: 12, End: 17}}, f.Lines[1].Hits)

	assert.Equal(t, map[string]int{"hello": 3}, res.Totals)
	assert.Equal(t, 3, res.Occurrences())
}

func TestSearch_PartialAndTopMatches(t *testing.T) {
	files := writeTranscripts(t, map[string]string{
		"a [a].txt": "running runner run",
		"b [b].txt": "runs ran",
	})

	res, err := Search(context.Background(), files, query.ParseSpecific("run*"), SearchOptions{})
	require.NoError(t, err)

	require.Len(t, res.Files, 2)
	assert.Equal(t, 4, res.Occurrences())
	top := res.TopMatches(2)
	require.Len(t, top, 2)
	assert.Equal(t, "run", top[0].Word)
	assert.Equal(t, 1, top[0].Count)
	assert.InDelta(t, 25.0, top[0].Percent, 0.001)
	assert.Equal(t, "runner", top[1].Word)
}

func TestSearch_PrefilterOnlyForLiterals(t *testing.T) {
	files := writeTranscripts(t, map[string]string{
		"a [a].txt": "the quick fox\nslow dog\nquick thinking",
	})
	var calls atomic.Int64
	opts := SearchOptions{Prefilter: func(keywords []string) ports.PatternMatcher {
		return substrPrefilter{keywords: keywords, calls: &calls}
	}}

	res, err := Search(context.Background(), files, query.ParseSpecific("quick|dog"), opts)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Occurrences())
	assert.Equal(t, int64(3), calls.Load())

	calls.Store(0)
	res, err = Search(context.Background(), files, query.ParseSpecific("quick|d+"), opts)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Occurrences())
	assert.Zero(t, calls.Load())
}

func TestSearch_EmptyQuery(t *testing.T) {
	files := writeTranscripts(t, map[string]string{"a [a].txt": "anything"})

	res, err := Search(context.Background(), files, query.ParseSpecific("  "), SearchOptions{})
	require.NoError(t, err)
	assert.Empty(t, res.Files)
	assert.Equal(t, 1, res.Scanned)
}

func TestSearch_MissingFile(t *testing.T) {
	files := []string{filepath.Join(t.TempDir(), "gone [x].txt")}

	_, err := Search(context.Background(), files, query.ParseSpecific("x"), SearchOptions{})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSearch_Cancelled(t *testing.T) {
	files := writeTranscripts(t, map[string]string{"a [a].txt": "x"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Search(ctx, files, query.ParseSpecific("x"), SearchOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}
