package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/corey/minimot/internal/app"
	"github.com/corey/minimot/internal/domain/filter"
	"github.com/corey/minimot/internal/domain/query"
	"github.com/corey/minimot/internal/domain/transcript"
	"github.com/corey/minimot/internal/ports"
)

// styles renders terminal output. With color off every style is a no-op.
type styles struct {
	header lipgloss.Style
	file   lipgloss.Style
	match  lipgloss.Style
	word   lipgloss.Style
	dim    lipgloss.Style
}

func newStyles(w io.Writer, color bool) styles {
	r := lipgloss.NewRenderer(w)
	if color {
		r.SetColorProfile(termenv.ANSI256)
	} else {
		r.SetColorProfile(termenv.Ascii)
	}
	return styles{
		header: r.NewStyle().Bold(true),
		file:   r.NewStyle().Foreground(lipgloss.Color("6")),
		match:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),
		word:   r.NewStyle().Foreground(lipgloss.Color("5")),
		dim:    r.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

func stylesFor(w io.Writer) styles {
	return newStyles(w, resolveColor(colorFlag, noColor))
}

// highlight wraps every hit of line with mark. Overlapping hits (from
// different patterns) are merged into the first one.
func highlight(line string, hits []query.Hit, mark func(string) string) string {
	sorted := slices.Clone(hits)
	slices.SortFunc(sorted, func(a, b query.Hit) int { return a.Start - b.Start })

	var sb strings.Builder
	pos := 0
	for _, h := range sorted {
		if h.Start < pos || h.End > len(line) {
			continue
		}
		sb.WriteString(line[pos:h.Start])
		sb.WriteString(mark(line[h.Start:h.End]))
		pos = h.End
	}
	sb.WriteString(line[pos:])
	return sb.String()
}

// formatSearch renders transcript search results grep-style:
//
//	⚡ 12 occurrences │ 3 files │ 40 scanned
//	  Title [id].en.txt:7: line with match
func formatSearch(res *transcript.SearchResult, st styles, countOnly bool, top int) string {
	var sb strings.Builder
	sb.WriteString(st.header.Render(fmt.Sprintf("⚡ %d occurrences", res.Occurrences())))
	sb.WriteString(fmt.Sprintf(" │ %d files │ %d scanned\n", len(res.Files), res.Scanned))

	if !countOnly {
		for _, f := range res.Files {
			name := filepath.Base(f.Path)
			for _, l := range f.Lines {
				sb.WriteString(fmt.Sprintf("  %s:%d: %s\n",
					st.file.Render(name), l.Line,
					highlight(l.Text, l.Hits, func(s string) string { return st.match.Render(s) })))
			}
		}
	}

	if top > 0 && len(res.Totals) > 0 {
		sb.WriteString(st.header.Render("Top matches") + "\n")
		for i, wc := range res.TopMatches(top) {
			sb.WriteString(fmt.Sprintf("  %3d. %-20s %6d  %5.1f%%\n", i+1, st.word.Render(wc.Word), wc.Count, wc.Percent))
		}
	}
	return sb.String()
}

// formatVideo renders one metadata line:
//
//	Title - Channel │ 00:12:34 │ 2024-01-31 │ 1.5M views
func formatVideo(v ports.Video, st styles) string {
	views := v.ViewCountFormatted
	if views == "" {
		views = filter.FormatCount(v.ViewCount)
	}
	date := filter.FormatUploadDate(v.UploadDate)
	if date == "" {
		date = "----------"
	}
	return fmt.Sprintf("%s - %s %s %s │ %s │ %s views",
		v.Title, v.ChannelName, st.dim.Render("│"),
		filter.FormatHMS(int(v.Duration)), date, views)
}

func formatVideos(videos []ports.Video, st styles) string {
	var sb strings.Builder
	sb.WriteString(st.header.Render(fmt.Sprintf("⚡ %d videos", len(videos))) + "\n")
	for _, v := range videos {
		sb.WriteString("  " + formatVideo(v, st) + "\n")
	}
	return sb.String()
}

// formatAnalysis renders word statistics and optionally every analysed video.
//
//	⚡ 1st word │ 120 videos │ 117 with words │ 35 unique
//	    1. hey        45   38.5%
func formatAnalysis(res *app.AnalyzeResult, st styles, top int, list bool) string {
	s := res.Stats
	var sb strings.Builder
	sb.WriteString(st.header.Render(fmt.Sprintf("⚡ %s word", s.Label)))
	sb.WriteString(fmt.Sprintf(" │ %d videos │ %d with words │ %d unique\n", s.TotalVideos, s.VideosWithWords, s.Unique()))

	for i, wc := range s.Top(top) {
		sb.WriteString(fmt.Sprintf("  %4d. %-20s %6d  %5.1f%%\n", i+1, st.word.Render(wc.Word), wc.Count, wc.Percent))
	}

	if list {
		sb.WriteString("\n")
		for _, r := range res.Videos {
			word := r.Word
			if word == "" {
				word = "-"
			}
			sb.WriteString(fmt.Sprintf("  %s %s %s\n", st.word.Render(fmt.Sprintf("%-14s", word)), st.dim.Render("│"), formatVideo(r.Video, st)))
		}
	}
	return sb.String()
}
