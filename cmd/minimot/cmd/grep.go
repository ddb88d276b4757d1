package cmd

import (
	"fmt"
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/corey/minimot/internal/domain/filter"
)

var (
	grepCriteria  filter.Criteria
	grepCountOnly bool
	grepQuiet     bool
	grepTop       int
)

var grepCmd = &cobra.Command{
	Use:   "grep <channel> <query>",
	Short: "Search transcripts",
	Long: heredoc.Doc(`
		Searches every transcript line with a specific-mode query: clauses
		separated by | are alternatives, "quoted phrases" match literally,
		'*' inside quotes stands for one word, and run+ or run* match any
		word starting with run. Matching is case-insensitive and whole-word.

		Exit status is 0 when something matched, 1 when nothing did.
	`),
	Example: heredoc.Doc(`
		$ minimot grep vsauce 'michael here'
		$ minimot grep vsauce '"hey * here" | vsauce' --top 10
		$ minimot grep vsauce 'quantum+' --from 2019-01-01 -c
	`),
	Args: cobra.ExactArgs(2),
	RunE: runGrep,
}

func init() {
	f := grepCmd.Flags()
	f.BoolVarP(&grepCountOnly, "count", "c", false, "Print counts only")
	f.BoolVarP(&grepQuiet, "quiet", "q", false, "Quiet mode (exit code only)")
	f.IntVar(&grepTop, "top", 0, "Also print the N most frequent matches")
	addFilterFlags(grepCmd, &grepCriteria, false)
}

func runGrep(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.SearchTranscripts(cmd.Context(), args[0], args[1], grepCriteria)
	if err != nil {
		fmt.Fprintf(os.Stderr, "grep: %v\n", explain(err))
		return grepExit{code: exitTrouble, cause: err}
	}

	if !grepQuiet {
		out := cmd.OutOrStdout()
		fmt.Fprint(out, formatSearch(res, stylesFor(out), grepCountOnly, grepTop))
	}
	if len(res.Files) == 0 {
		return grepExit{code: exitNoMatch, query: args[1]}
	}
	return nil
}
