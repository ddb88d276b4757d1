package cmd

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/corey/minimot/internal/app"
)

var (
	analyzeReq    app.AnalyzeRequest
	analyzeTop    int
	analyzeList   bool
	analyzeRandom bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <channel>",
	Short: "Count which word videos start (or end) with",
	Long: heredoc.Doc(`
		Reads the word at --index from every transcript (0 is the first word,
		-1 the last), applies the filter flags and prints word frequencies.
	`),
	Example: heredoc.Doc(`
		$ minimot analyze vsauce
		$ minimot analyze vsauce --index -1 --from 2020-01-01 --top 50
		$ minimot analyze vsauce --title '"what if" | why -short' --list --sort date --desc
		$ minimot analyze vsauce --words hey,hi --random
	`),
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	f := analyzeCmd.Flags()
	f.IntVarP(&analyzeReq.Index, "index", "i", 0, "Word position (0=1st, 1=2nd, -1=last)")
	f.IntVar(&analyzeTop, "top", 20, "Number of words to show (0 = all)")
	f.BoolVarP(&analyzeList, "list", "l", false, "List every analysed video")
	f.BoolVar(&analyzeRandom, "random", false, "Print the URL of one random matching video")
	addFilterFlags(analyzeCmd, &analyzeReq.Criteria, true)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.Analyze(cmd.Context(), args[0], analyzeReq)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if analyzeRandom {
		v, ok := res.Random()
		if !ok {
			return fmt.Errorf("no videos match")
		}
		fmt.Fprintf(out, "%s\n%s\n", v.Video.Title, v.Video.URL)
		return nil
	}
	fmt.Fprint(out, formatAnalysis(res, stylesFor(out), analyzeTop, analyzeList))
	return nil
}
