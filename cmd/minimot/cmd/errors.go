package cmd

import (
	"errors"
	"fmt"

	"github.com/corey/minimot/internal/adapters/bbolt"
	"github.com/corey/minimot/internal/adapters/ytdlp"
	"github.com/corey/minimot/internal/app"
)

// explain appends actionable guidance to errors users can fix themselves.
func explain(err error) error {
	switch {
	case bbolt.IsLocked(err):
		return fmt.Errorf("%w\n%s", err, diagnoseDBLock(app.NewPaths(cfg.DataDir).DB))
	case errors.Is(err, ytdlp.ErrUnavailable):
		return fmt.Errorf("%w\n"+
			"  → install yt-dlp:  https://github.com/yt-dlp/yt-dlp#installation\n"+
			"  → or point download.binary (MINIMOT_DOWNLOAD_BINARY) at it", err)
	case errors.Is(err, app.ErrNoTranscripts):
		return fmt.Errorf("%w\n  → convert subtitles first:  minimot convert <channel>", err)
	}
	return err
}

// diagnoseDBLock returns guidance when the bbolt file lock could not be
// acquired. Only one minimot process can hold the database at a time.
func diagnoseDBLock(dbPath string) string {
	return fmt.Sprintf("database %s is locked by another minimot process\n"+
		"  → a running 'minimot watch' or 'minimot download' holds it\n"+
		"  → find the process:  ps aux | grep minimot\n"+
		"  → stop it, then retry your command", dbPath)
}
