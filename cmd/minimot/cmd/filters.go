package cmd

import (
	"github.com/spf13/cobra"

	"github.com/corey/minimot/internal/domain/filter"
)

// addFilterFlags registers the video filter pass flags on cmd.
func addFilterFlags(cmd *cobra.Command, c *filter.Criteria, withWords bool) {
	f := cmd.Flags()
	f.StringVar(&c.Title, "title", "", "Title query (general mode: words, \"phrases\", -exclude, a|b, (groups), stem*)")
	f.StringVar(&c.Channel, "channel-name", "", "Channel name query (general mode)")
	f.StringVar(&c.DateFrom, "from", "", "Uploaded on or after (YYYY-MM-DD)")
	f.StringVar(&c.DateTo, "to", "", "Uploaded on or before (YYYY-MM-DD)")
	f.StringVar(&c.DurationMin, "min", "", "Minimum duration ([[HH:]MM:]SS)")
	f.StringVar(&c.DurationMax, "max", "", "Maximum duration ([[HH:]MM:]SS)")
	f.StringVar(&c.SortBy, "sort", "", "Sort by title, date or duration (default title)")
	f.BoolVar(&c.Desc, "desc", false, "Sort descending")
	if withWords {
		f.StringVar(&c.Words, "words", "", "Comma-separated words to keep")
	}
}
