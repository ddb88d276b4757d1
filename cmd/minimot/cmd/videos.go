package cmd

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/corey/minimot/internal/domain/filter"
)

var videosCriteria filter.Criteria

var videosCmd = &cobra.Command{
	Use:   "videos <channel>",
	Short: "List recorded videos passing a metadata filter",
	Example: heredoc.Doc(`
		$ minimot videos vsauce --min 10:00 --sort duration --desc
		$ minimot videos vsauce --title 'space -(moon | mars)'
	`),
	Args: cobra.ExactArgs(1),
	RunE: runVideos,
}

func init() {
	addFilterFlags(videosCmd, &videosCriteria, false)
}

func runVideos(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	videos, err := a.FilterVideos(args[0], videosCriteria)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprint(out, formatVideos(videos, stylesFor(out)))
	return nil
}
