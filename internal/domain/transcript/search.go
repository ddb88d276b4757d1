package transcript

import (
	"bufio"
	"cmp"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/corey/minimot/internal/domain/query"
	"github.com/corey/minimot/internal/ports"
)

// SearchOptions tune a transcript search.
type SearchOptions struct {
	// Workers bounds how many files are scanned at once. <= 0 uses GOMAXPROCS.
	Workers int
	// Prefilter builds a keyword matcher used to skip lines that cannot
	// match. It is only consulted for queries made of literal patterns.
	Prefilter func(keywords []string) ports.PatternMatcher
}

// LineHit is a matching transcript line.
type LineHit struct {
	Line int    // 1-based
	Text string // the line as stored
	Hits []query.Hit
}

// FileResult collects the matching lines of one transcript.
type FileResult struct {
	Path        string
	VideoID     string
	Lines       []LineHit
	Occurrences int
}

// SearchResult is the outcome of a search over many transcripts.
type SearchResult struct {
	Files   []FileResult   // files with at least one hit, in input order
	Totals  map[string]int // lower-cased matched text -> occurrences
	Scanned int
}

// Occurrences returns the total number of matches over all files.
func (r *SearchResult) Occurrences() int {
	n := 0
	for _, f := range r.Files {
		n += f.Occurrences
	}
	return n
}

// TopMatches returns matched texts by occurrence count descending, then
// text ascending. Percent is the share of all occurrences.
func (r *SearchResult) TopMatches(n int) []WordCount {
	total := r.Occurrences()
	rows := make([]WordCount, 0, len(r.Totals))
	for w, c := range r.Totals {
		rows = append(rows, WordCount{Word: w, Count: c, Percent: float64(c) / float64(max(total, 1)) * 100})
	}
	slices.SortFunc(rows, func(a, b WordCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Word, b.Word)
	})
	if n > 0 && len(rows) > n {
		rows = rows[:n]
	}
	return rows
}

// Search scans transcripts line by line with the specific-mode matcher.
// Files are scanned concurrently; the first read error cancels the rest.
func Search(ctx context.Context, files []string, q query.SpecificQuery, opts SearchOptions) (*SearchResult, error) {
	res := &SearchResult{Totals: make(map[string]int), Scanned: len(files)}
	if q.IsEmpty() || len(files) == 0 {
		return res, nil
	}

	m := query.NewSpecificMatcher(q)
	var pre ports.PatternMatcher
	if opts.Prefilter != nil && len(q.Wildcard) == 0 && len(q.Partial) == 0 {
		keywords := make([]string, len(q.Include))
		for i, p := range q.Include {
			keywords[i] = p.Source
		}
		pre = opts.Prefilter(keywords)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]*FileResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fr, err := searchFile(gctx, path, m, pre)
			if err != nil {
				return err
			}
			results[i] = fr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, fr := range results {
		if fr == nil || len(fr.Lines) == 0 {
			continue
		}
		res.Files = append(res.Files, *fr)
		for _, l := range fr.Lines {
			for _, h := range l.Hits {
				res.Totals[h.Text]++
			}
		}
	}
	return res, nil
}

func searchFile(ctx context.Context, path string, m *query.SpecificMatcher, pre ports.PatternMatcher) (*FileResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", path, err)
	}
	defer f.Close()

	fr := &FileResult{Path: path, VideoID: VideoIDFromFilename(filepath.Base(path))}
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for n := 1; sc.Scan(); n++ {
		if n%1024 == 0 && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		line := sc.Text()
		if pre != nil && !pre.Contains(line) {
			continue
		}
		hits := m.FindAll(line)
		if len(hits) == 0 {
			continue
		}
		fr.Lines = append(fr.Lines, LineHit{Line: n, Text: line, Hits: hits})
		fr.Occurrences += len(hits)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("search %s: %w", path, err)
	}
	return fr, nil
}
