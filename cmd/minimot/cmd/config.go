package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corey/minimot/internal/app"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long:  "Prints resolved paths and the merged configuration as YAML. Does not open the database.",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	st := stylesFor(out)
	p := app.NewPaths(cfg.DataDir)

	fmt.Fprintln(out, st.header.Render("⚡ minimot config"))
	fmt.Fprintf(out, "  Data:       %s\n", p.Root)
	fmt.Fprintf(out, "  DB:         %s\n", p.DB)
	fmt.Fprintf(out, "  Input:      %s\n", p.InputDir)
	fmt.Fprintf(out, "  Stopwords:  %s\n\n", cfg.StopwordsPath())

	data, err := cfg.YAML()
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}
