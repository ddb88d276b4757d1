package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math/rand/v2"
	"path/filepath"
	"slices"
	"strings"

	"github.com/corey/minimot/internal/domain/filter"
	"github.com/corey/minimot/internal/domain/query"
	"github.com/corey/minimot/internal/domain/transcript"
	"github.com/corey/minimot/internal/ports"
)

var (
	// ErrNoTranscripts is returned when a channel has no converted transcripts.
	ErrNoTranscripts = errors.New("no transcripts (run convert first)")
	// ErrEmptyQuery is returned for a search query without patterns.
	ErrEmptyQuery = errors.New("empty query")
)

// AnalyzeRequest selects the word position and the filter pass.
type AnalyzeRequest struct {
	Index    int // 0 is the first word, -1 the last
	Criteria filter.Criteria
}

// AnalyzedVideo is one transcript with its word at the requested position.
// Videos without stored metadata carry their ID and file name as title.
type AnalyzedVideo struct {
	Video ports.Video
	Word  string // "" when the transcript has no word there
	Path  string
}

// AnalyzeResult is the filtered, sorted list plus word statistics over it.
type AnalyzeResult struct {
	Videos []AnalyzedVideo
	Stats  transcript.Stats
}

// Random picks one of the analysed videos.
func (r *AnalyzeResult) Random() (AnalyzedVideo, bool) {
	if len(r.Videos) == 0 {
		return AnalyzedVideo{}, false
	}
	return r.Videos[rand.IntN(len(r.Videos))], true
}

// Analyze reads the word at req.Index from every transcript of channel,
// applies the filter pass and aggregates the surviving words.
func (a *App) Analyze(ctx context.Context, channel string, req AnalyzeRequest) (*AnalyzeResult, error) {
	f, err := req.Criteria.Compile()
	if err != nil {
		return nil, err
	}
	files, err := a.transcripts(channel)
	if err != nil {
		return nil, err
	}
	videos, err := a.Store.List(channel)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]ports.Video, len(videos))
	for _, v := range videos {
		byID[v.ID] = v
	}

	var rows []AnalyzedVideo
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		base := filepath.Base(path)
		id := transcript.VideoIDFromFilename(base)
		v, ok := byID[id]
		if !ok {
			v = ports.Video{ID: id, Title: strings.TrimSuffix(base, filepath.Ext(base))}
		}
		word := transcript.WordAtFile(path, req.Index)
		if !f.Keep(v, word) {
			continue
		}
		rows = append(rows, AnalyzedVideo{Video: v, Word: word, Path: path})
	}
	slices.SortStableFunc(rows, func(x, y AnalyzedVideo) int {
		return f.Compare(x.Video, y.Video)
	})

	words := make([]string, len(rows))
	for i, r := range rows {
		words[i] = r.Word
	}
	stats := transcript.NewStats(req.Index, words)
	a.Log.WithField("channel", channel).
		WithField("videos", stats.TotalVideos).
		WithField("with_words", stats.VideosWithWords).
		Debug("analysis finished")
	return &AnalyzeResult{Videos: rows, Stats: stats}, nil
}

// FilterVideos applies the filter pass to the stored metadata of channel.
// Word criteria need an analysis run and are not applied here.
func (a *App) FilterVideos(channel string, c filter.Criteria) ([]ports.Video, error) {
	c.Words = ""
	f, err := c.Compile()
	if err != nil {
		return nil, err
	}
	videos, err := a.Store.List(channel)
	if err != nil {
		return nil, err
	}
	return f.Apply(videos), nil
}

// SearchTranscripts runs a specific-mode query over the transcripts of
// channel. A non-zero Criteria first restricts the search to videos whose
// metadata passes the filter.
func (a *App) SearchTranscripts(ctx context.Context, channel, raw string, c filter.Criteria) (*transcript.SearchResult, error) {
	q := query.ParseSpecific(raw)
	if q.IsEmpty() {
		return nil, ErrEmptyQuery
	}
	files, err := a.transcripts(channel)
	if err != nil {
		return nil, err
	}

	if c != (filter.Criteria{}) {
		videos, err := a.FilterVideos(channel, c)
		if err != nil {
			return nil, err
		}
		keep := make(map[string]bool, len(videos))
		for _, v := range videos {
			keep[v.ID] = true
		}
		files = slices.DeleteFunc(files, func(path string) bool {
			return !keep[transcript.VideoIDFromFilename(filepath.Base(path))]
		})
	}

	return transcript.Search(ctx, files, q, transcript.SearchOptions{
		Workers:   a.Config.Search.Workers,
		Prefilter: a.prefilter,
	})
}

// transcripts lists the channel's transcript files.
func (a *App) transcripts(channel string) ([]string, error) {
	files, err := transcript.ListFiles(a.Paths.Channel(channel).TXTDir, ".txt")
	if errors.Is(err, fs.ErrNotExist) || (err == nil && len(files) == 0) {
		return nil, fmt.Errorf("%s: %w", channel, ErrNoTranscripts)
	}
	return files, err
}
