package cmd

import (
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch <channel>",
	Short: "Convert subtitles to transcripts as they are downloaded",
	Long: heredoc.Doc(`
		Watches input/<channel>/vtt_files and converts each new or rewritten
		.vtt file once writes settle. Runs until interrupted.
	`),
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()
	return a.Watch(cmd.Context(), args[0])
}
