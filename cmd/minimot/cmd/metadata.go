package cmd

import (
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <channel> [metadata.json]",
	Short: "Load a metadata.json file into the store",
	Long: heredoc.Doc(`
		Appends every record whose video ID is unknown. Without a file the
		channel's own input/<channel>/metadata.json is read.
	`),
	Args: cobra.RangeArgs(1, 2),
	RunE: runImport,
}

var exportCmd = &cobra.Command{
	Use:   "export <channel> [file]",
	Short: "Write a channel's metadata as JSON (stdout by default)",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runExport,
}

var channelsCmd = &cobra.Command{
	Use:   "channels",
	Short: "List channels with recorded videos",
	Args:  cobra.NoArgs,
	RunE:  runChannels,
}

func runImport(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	var path string
	if len(args) == 2 {
		path = args[1]
	}
	n, err := a.ImportMetadata(args[0], path)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "⚡ %d records imported\n", n)
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if len(args) == 1 {
		return a.ExportMetadata(args[0], cmd.OutOrStdout())
	}
	f, err := os.Create(args[1])
	if err != nil {
		return err
	}
	if err := a.ExportMetadata(args[0], f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func runChannels(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	counts, err := a.Channels()
	if err != nil {
		return err
	}
	names := slices.Sorted(maps.Keys(counts))
	out := cmd.OutOrStdout()
	st := stylesFor(out)
	fmt.Fprintln(out, st.header.Render(fmt.Sprintf("⚡ %d channels", len(names))))
	for _, name := range names {
		fmt.Fprintf(out, "  %-30s %d videos\n", st.file.Render(name), counts[name])
	}
	return nil
}
