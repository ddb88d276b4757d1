package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/corey/minimot/internal/adapters/ytdlp"
	"github.com/corey/minimot/internal/app"
	"github.com/corey/minimot/internal/domain/query"
	"github.com/corey/minimot/internal/domain/transcript"
	"github.com/corey/minimot/internal/ports"
)

func bracket(s string) string { return "[" + s + "]" }

func TestHighlight(t *testing.T) {
	line := "Hey Vsauce, Michael here"
	hits := []query.Hit{
		{Text: "michael", Start: 12, End: 19},
		{Text: "hey", Start: 0, End: 3},
	}
	assert.Equal(t, "[Hey] Vsauce, [Michael] here", highlight(line, hits, bracket))
}

func TestHighlight_OverlapAndEmpty(t *testing.T) {
	line := "running fast"
	hits := []query.Hit{
		{Text: "running", Start: 0, End: 7},
		{Text: "run", Start: 0, End: 3},
	}
	assert.Equal(t, "[running] fast", highlight(line, hits, bracket))
	assert.Equal(t, "plain", highlight("plain", nil, bracket))
}

func TestFormatSearch_NoColor(t *testing.T) {
	res := &transcript.SearchResult{
		Files: []transcript.FileResult{{
			Path:        "/data/input/v/Title [abc].en.txt",
			VideoID:     "abc",
			Occurrences: 1,
			Lines: []transcript.LineHit{{
				Line: 3,
				Text: "hello world",
				Hits: []query.Hit{{Text: "hello", Start: 0, End: 5}},
			}},
		}},
		Totals:  map[string]int{"hello": 1},
		Scanned: 4,
	}
	st := newStyles(io.Discard, false)

	out := formatSearch(res, st, false, 0)
	assert.Equal(t, "⚡ 1 occurrences │ 1 files │ 4 scanned\n  Title [abc].en.txt:3: hello world\n", out)

	out = formatSearch(res, st, true, 5)
	assert.NotContains(t, out, "hello world")
	assert.Contains(t, out, "Top matches")
	assert.Contains(t, out, "hello")
}

func TestFormatVideo(t *testing.T) {
	v := ports.Video{
		Title:       "Why?",
		ChannelName: "vsauce",
		Duration:    754,
		UploadDate:  "20240131",
		ViewCount:   1500,
	}
	got := formatVideo(v, newStyles(io.Discard, false))
	assert.Equal(t, "Why? - vsauce │ 00:12:34 │ 2024-01-31 │ 1.5K views", got)
}

func TestFormatAnalysis(t *testing.T) {
	res := &app.AnalyzeResult{
		Videos: []app.AnalyzedVideo{
			{Video: ports.Video{Title: "A", ChannelName: "c"}, Word: "hey"},
			{Video: ports.Video{Title: "B", ChannelName: "c"}},
		},
		Stats: transcript.NewStats(0, []string{"hey", ""}),
	}
	out := formatAnalysis(res, newStyles(io.Discard, false), 10, true)
	assert.Contains(t, out, "⚡ 1st word │ 2 videos │ 1 with words │ 1 unique")
	assert.Contains(t, out, "hey")
	assert.Contains(t, out, "100.0%")
	assert.Contains(t, out, "A - c")
}

func TestResolveColor(t *testing.T) {
	assert.False(t, resolveColor("always", true))
	assert.True(t, resolveColor("always", false))
	assert.False(t, resolveColor("never", false))

	t.Setenv("NO_COLOR", "1")
	assert.False(t, resolveColor("auto", false))
	assert.True(t, resolveColor("always", false))
}

func TestGrepExitCode(t *testing.T) {
	assert.Equal(t, exitNoMatch, GrepExitCode(grepExit{code: exitNoMatch}))
	assert.Equal(t, exitTrouble, GrepExitCode(fmt.Errorf("run: %w", grepExit{code: exitTrouble})))
	assert.Equal(t, -1, GrepExitCode(errors.New("other")))

	assert.Equal(t, "no match", grepExit{code: exitNoMatch}.Error())
	assert.Equal(t, `no match for "cat | dog"`, grepExit{code: exitNoMatch, query: "cat | dog"}.Error())

	cause := app.ErrEmptyQuery
	ge := grepExit{code: exitTrouble, cause: cause}
	assert.ErrorIs(t, ge, app.ErrEmptyQuery)
	assert.Equal(t, "grep: empty query", ge.Error())
}

func TestExplain(t *testing.T) {
	err := explain(fmt.Errorf("download: %w", ytdlp.ErrUnavailable))
	assert.ErrorIs(t, err, ytdlp.ErrUnavailable)
	assert.Contains(t, err.Error(), "install yt-dlp")

	err = explain(app.ErrNoTranscripts)
	assert.Contains(t, err.Error(), "minimot convert")

	plain := errors.New("plain")
	assert.Equal(t, plain, explain(plain))
}

func TestDiagnoseDBLock(t *testing.T) {
	msg := diagnoseDBLock("/data/minimot.db")
	assert.Contains(t, msg, "/data/minimot.db")
	assert.Contains(t, msg, "minimot watch")
}

func TestConfigCommand(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"--data-dir", dir, "--color", "never", "config"})
	defer rootCmd.SetArgs(nil)

	assert.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "⚡ minimot config")
	assert.Contains(t, out.String(), "data_dir: "+dir)
}
