// minimot downloads YouTube auto-subtitles, turns them into transcripts and
// analyses them: word-position statistics, metadata filters and transcript
// search with a small boolean query language.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/corey/minimot/cmd/minimot/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cmd.Execute(ctx)
	stop()
	if err != nil {
		if code := cmd.GrepExitCode(err); code >= 0 {
			os.Exit(code)
		}
		os.Exit(1)
	}
}
