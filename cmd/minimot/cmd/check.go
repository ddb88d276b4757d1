package cmd

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/corey/minimot/internal/app"
)

var checkOpts app.CheckOptions

var checkCmd = &cobra.Command{
	Use:   "check <channel>",
	Short: "Find recorded videos without subtitle files",
	Long: heredoc.Doc(`
		Compares stored metadata and archive.txt with the .vtt files present.
		Some videos have no auto subtitles; --prune drops their archive
		entries so the next download retries them.
	`),
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	f := checkCmd.Flags()
	f.BoolVar(&checkOpts.PruneArchive, "prune", false, "Remove archive entries without subtitles")
	f.BoolVar(&checkOpts.SaveMissing, "save", false, "Write missing_subtitles.json")
}

func runCheck(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	rep, err := a.CheckMissing(args[0], checkOpts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	st := stylesFor(out)
	fmt.Fprintf(out, "%s │ %d missing subtitles │ %d stale archive entries\n",
		st.header.Render(fmt.Sprintf("⚡ %d checked", rep.Checked)), len(rep.Missing), len(rep.Stale))
	for i, m := range rep.Missing {
		if i == 10 {
			fmt.Fprintf(out, "  ...and %d more\n", len(rep.Missing)-10)
			break
		}
		fmt.Fprintf(out, "  %s [%s]\n    %s\n", m.Title, m.ID, st.dim.Render("expected "+m.ExpectedFilename))
	}
	if rep.Pruned {
		fmt.Fprintf(out, "  pruned %d entries from archive.txt\n", len(rep.Stale))
	}
	return nil
}
