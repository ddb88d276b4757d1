package transcript

import (
	"cmp"
	"slices"
)

// WordCount is one row of a word frequency table.
type WordCount struct {
	Word    string
	Count   int
	Percent float64 // share of videos that have a word at the position
}

// Stats aggregates the word found at one position across videos.
type Stats struct {
	Index           int
	Label           string
	TotalVideos     int
	VideosWithWords int
	Counts          map[string]int
}

// NewStats tallies words, one entry per analysed video ("" when the video
// had no word at index).
func NewStats(index int, words []string) Stats {
	s := Stats{
		Index:       index,
		Label:       PositionLabel(index),
		TotalVideos: len(words),
		Counts:      make(map[string]int),
	}
	for _, w := range words {
		if w == "" {
			continue
		}
		s.VideosWithWords++
		s.Counts[w]++
	}
	return s
}

// Unique returns the number of distinct words.
func (s Stats) Unique() int { return len(s.Counts) }

// Top returns the n most frequent words, by count descending then word
// ascending. n <= 0 returns every word.
func (s Stats) Top(n int) []WordCount {
	rows := make([]WordCount, 0, len(s.Counts))
	for w, c := range s.Counts {
		var pct float64
		if s.VideosWithWords > 0 {
			pct = float64(c) / float64(s.VideosWithWords) * 100
		}
		rows = append(rows, WordCount{Word: w, Count: c, Percent: pct})
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
