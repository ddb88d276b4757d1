package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh <channel>",
	Short: "Re-read view, like and comment counts for recorded videos",
	Args:  cobra.ExactArgs(1),
	RunE:  runRefresh,
}

func runRefresh(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.RefreshMetadata(cmd.Context(), args[0])
	if res != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "⚡ %d requested │ %d updated │ %d new\n", res.Requested, res.Updated, res.Added)
	}
	return err
}
