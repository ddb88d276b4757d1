package cmd

import (
	"os"

	"golang.org/x/term"
)

func isStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// resolveColor decides whether output is styled. --no-color wins, then an
// explicit --color always/never; auto follows NO_COLOR and whether stdout
// is a terminal.
func resolveColor(colorFlag string, noColorFlag bool) bool {
	if noColorFlag {
		return false
	}
	switch colorFlag {
	case "always":
		return true
	case "never":
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return isStdoutTTY()
}
