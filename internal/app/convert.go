package app

import (
	"context"
	"fmt"

	"github.com/corey/minimot/internal/domain/transcript"
)

// Convert turns every downloaded subtitle of channel into a transcript.
func (a *App) Convert(ctx context.Context, channel string) (*transcript.ConvertResult, error) {
	opts, err := a.transcriptOptions()
	if err != nil {
		return nil, err
	}
	ch := a.Paths.Channel(channel)
	res, err := transcript.ConvertDir(ctx, ch.VTTDir, ch.TXTDir, opts)
	if err != nil {
		return res, fmt.Errorf("convert %s: %w", channel, err)
	}
	for vtt, ferr := range res.Failed {
		a.Log.WithError(ferr).WithField("file", vtt).Warn("conversion failed")
	}
	a.Log.WithField("channel", channel).WithField("converted", len(res.Converted)).Info("subtitles converted")
	return res, nil
}

// Watch converts subtitles of channel as they land in its VTT directory,
// until ctx is done.
func (a *App) Watch(ctx context.Context, channel string) error {
	opts, err := a.transcriptOptions()
	if err != nil {
		return err
	}
	ch := a.Paths.Channel(channel)
	if err := ch.EnsureDirs(); err != nil {
		return err
	}

	w, err := a.newWatcher()
	if err != nil {
		return fmt.Errorf("watcher: %w", err)
	}
	defer w.Stop()

	if err := w.Watch(ch.VTTDir, func(path string) {
		a.onSubtitleChanged(ch, path, opts)
	}); err != nil {
		return fmt.Errorf("watch %s: %w", ch.VTTDir, err)
	}
	a.Log.WithField("dir", ch.VTTDir).Info("watching for subtitles")

	<-ctx.Done()
	return nil
}

// onSubtitleChanged converts one settled VTT file.
func (a *App) onSubtitleChanged(ch ChannelPaths, vttPath string, opts transcript.Options) {
	txt := transcript.TranscriptPath(ch.TXTDir, vttPath)
	if err := transcript.ConvertFile(vttPath, txt, opts); err != nil {
		a.Log.WithError(err).WithField("file", vttPath).Warn("conversion failed")
		return
	}
	a.Log.WithField("file", txt).Debug("transcript written")
}
