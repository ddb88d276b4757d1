// Package filter implements the video filter pass: metadata criteria
// (title and channel queries, upload date range, duration range, selected
// words) applied to stored video records, followed by sorting.
package filter

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/corey/minimot/internal/domain/query"
	"github.com/corey/minimot/internal/ports"
)

// Sort keys.
const (
	SortTitle    = "title"
	SortDate     = "date"
	SortDuration = "duration"
)

// Criteria is the user-facing description of a filter pass. Zero fields
// impose no constraint.
type Criteria struct {
	Title       string // general-mode query against the title
	Channel     string // general-mode query against the channel name
	Words       string // comma-separated list of accepted selected words
	DateFrom    string `validate:"omitempty,datetime=2006-01-02"`
	DateTo      string `validate:"omitempty,datetime=2006-01-02"`
	DurationMin string // [[HH:]MM:]SS
	DurationMax string
	SortBy      string `validate:"omitempty,oneof=title date duration"`
	Desc        bool
}

var validate = validator.New()

// Filter is a compiled Criteria. It is immutable and safe for concurrent use.
type Filter struct {
	title    *query.Matcher
	channel  *query.Matcher
	words    map[string]bool
	dateFrom string // YYYYMMDD
	dateTo   string
	durMin   int
	durMax   int
	hasMin   bool
	hasMax   bool
	sortBy   string
	desc     bool
}

// Compile validates c and parses its queries once.
func (c Criteria) Compile() (*Filter, error) {
	if err := validate.Struct(c); err != nil {
		return nil, criteriaError(err)
	}

	f := &Filter{sortBy: c.SortBy, desc: c.Desc}
	if f.sortBy == "" {
		f.sortBy = SortTitle
	}
	if q := query.Parse(c.Title); !q.IsEmpty() {
		f.title = query.NewMatcher(q)
	}
	if q := query.Parse(c.Channel); !q.IsEmpty() {
		f.channel = query.NewMatcher(q)
	}
	for _, w := range strings.Split(c.Words, ",") {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			if f.words == nil {
				f.words = make(map[string]bool)
			}
			f.words[w] = true
		}
	}
	f.dateFrom = strings.ReplaceAll(c.DateFrom, "-", "")
	f.dateTo = strings.ReplaceAll(c.DateTo, "-", "")

	var err error
	if strings.TrimSpace(c.DurationMin) != "" {
		if f.durMin, err = ParseHMS(c.DurationMin); err != nil {
			return nil, fmt.Errorf("duration min: %w", err)
		}
		f.hasMin = true
	}
	if strings.TrimSpace(c.DurationMax) != "" {
		if f.durMax, err = ParseHMS(c.DurationMax); err != nil {
			return nil, fmt.Errorf("duration max: %w", err)
		}
		f.hasMax = true
	}
	return f, nil
}

// criteriaError maps validation failures onto the package's sentinel errors.
func criteriaError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	switch fe.Field() {
	case "DateFrom":
		return fmt.Errorf("date from %q: %w", fe.Value(), ErrInvalidDate)
	case "DateTo":
		return fmt.Errorf("date to %q: %w", fe.Value(), ErrInvalidDate)
	}
	return fmt.Errorf("%s %q: must be one of %s", strings.ToLower(fe.Field()), fe.Value(), fe.Param())
}

// Keep reports whether v, with its selected word (empty when no word
// analysis was run), passes every criterion.
func (f *Filter) Keep(v ports.Video, word string) bool {
	if f.title != nil && !f.title.Match(v.Title) {
		return false
	}
	if f.channel != nil && !f.channel.Match(v.ChannelName) {
		return false
	}
	if f.words != nil && (word == "" || !f.words[strings.ToLower(word)]) {
		return false
	}
	if f.dateFrom != "" && v.UploadDate < f.dateFrom {
		return false
	}
	if f.dateTo != "" && v.UploadDate > f.dateTo {
		return false
	}
	if f.hasMin && int(v.Duration) < f.durMin {
		return false
	}
	if f.hasMax && int(v.Duration) > f.durMax {
		return false
	}
	return true
}

// Compare orders two videos by the configured sort key and direction.
// Titles compare case-insensitively.
func (f *Filter) Compare(a, b ports.Video) int {
	var c int
	switch f.sortBy {
	case SortDate:
		c = cmp.Compare(a.UploadDate, b.UploadDate)
	case SortDuration:
		c = cmp.Compare(a.Duration, b.Duration)
	default:
		c = cmp.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
	}
	if f.desc {
		return -c
	}
	return c
}

// Apply returns the videos passing every criterion, sorted. Word criteria
// need per-video words, so a filter with words keeps nothing here; use Keep
// with the analysed word instead.
func (f *Filter) Apply(videos []ports.Video) []ports.Video {
	out := make([]ports.Video, 0, len(videos))
	for _, v := range videos {
		if f.Keep(v, "") {
			out = append(out, v)
		}
	}
	slices.SortStableFunc(out, f.Compare)
	return out
}
