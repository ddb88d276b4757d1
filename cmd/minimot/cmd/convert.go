package cmd

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
)

var (
	convertNoPunct   bool
	convertStopwords bool
)

var convertCmd = &cobra.Command{
	Use:   "convert <channel>",
	Short: "Convert downloaded subtitles into plain transcripts",
	Example: heredoc.Doc(`
		$ minimot convert vsauce
		$ minimot convert vsauce --no-punctuation --stopwords
	`),
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	f := convertCmd.Flags()
	f.BoolVar(&convertNoPunct, "no-punctuation", false, "Strip punctuation except apostrophes")
	f.BoolVar(&convertStopwords, "stopwords", false, "Drop words listed in the stopword file")
}

func runConvert(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if cmd.Flags().Changed("no-punctuation") {
		a.Config.Transcript.NoPunctuation = convertNoPunct
	}
	if cmd.Flags().Changed("stopwords") {
		a.Config.Transcript.UseStopwords = convertStopwords
	}

	res, err := a.Convert(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "⚡ %d converted │ %d failed\n", len(res.Converted), len(res.Failed))
	return nil
}
