package cmd

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
)

var downloadLimit int

var downloadCmd = &cobra.Command{
	Use:   "download <url>",
	Short: "Download auto-subtitles and metadata for a channel or playlist",
	Long: heredoc.Doc(`
		Runs yt-dlp for up to --limit new videos. Subtitles land in
		input/<channel>/vtt_files, metadata in the store and metadata.json.
		Videos already in archive.txt are skipped.
	`),
	Example: heredoc.Doc(`
		$ minimot download https://www.youtube.com/@vsauce/videos
		$ minimot download --limit 50 "https://www.youtube.com/playlist?list=PL123"
	`),
	Args: cobra.ExactArgs(1),
	RunE: runDownload,
}

func init() {
	downloadCmd.Flags().IntVarP(&downloadLimit, "limit", "n", 0, "Maximum videos this run (default download.limit)")
}

func runDownload(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.Download(cmd.Context(), args[0], downloadLimit)
	if res != nil {
		st := stylesFor(cmd.OutOrStdout())
		fmt.Fprintf(cmd.OutOrStdout(), "%s │ %d reported │ %d new\n",
			st.header.Render("⚡ "+res.Channel), res.Reported, res.Added)
	}
	return err
}
