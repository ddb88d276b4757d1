package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/corey/minimot/internal/app"
)

var (
	cfgFile   string
	colorFlag string
	noColor   bool

	cfg    app.Config
	logger *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:   "minimot",
	Short: "YouTube subtitle downloader and transcript analyser",
	Long: heredoc.Doc(`
		Download auto-generated subtitles for a channel or playlist, convert
		them to plain transcripts, then analyse and search them.

		Data lives under data_dir (default ./data): input/<channel>/ holds the
		subtitle and transcript files, minimot.db the video metadata.
	`),
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command. Errors other than grep's exit status are
// printed to stderr.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if err != nil && GrepExitCode(err) < 0 {
		fmt.Fprintf(os.Stderr, "error: %v\n", explain(err))
	}
	return err
}

func init() {
	rootCmd.PersistentPreRunE = loadConfig

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default $HOME/.config/minimot/minimot.yaml or ./minimot.yaml)")
	pf.String("data-dir", "", "data directory (overrides data_dir)")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("log-format", "", "log format: text or json")
	pf.StringVar(&colorFlag, "color", "auto", "Color output: auto, always, never")
	pf.BoolVar(&noColor, "no-color", false, "Suppress color output")

	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(videosCmd)
	rootCmd.AddCommand(grepCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(channelsCmd)
	rootCmd.AddCommand(configCmd)
}

// loadConfig merges config file, MINIMOT_* environment and flags, then
// builds the logger.
func loadConfig(cmd *cobra.Command, args []string) error {
	v := viper.New()
	pf := rootCmd.PersistentFlags()
	for key, flag := range map[string]string{
		"data_dir":   "data-dir",
		"log_level":  "log-level",
		"log_format": "log-format",
	} {
		if f := pf.Lookup(flag); f != nil && f.Changed {
			if err := v.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}

	c, err := app.LoadConfig(v, cfgFile)
	if err != nil {
		return err
	}
	l, err := app.NewLogger(c.LogLevel, c.LogFormat, os.Stderr)
	if err != nil {
		return err
	}
	cfg, logger = c, l
	return nil
}

// openApp opens the store and wires the application.
func openApp() (*app.App, error) {
	return app.New(cfg, logger)
}
