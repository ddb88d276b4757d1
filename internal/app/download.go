package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/corey/minimot/internal/adapters/ytdlp"
	"github.com/corey/minimot/internal/ports"
)

// DownloadResult summarises a download run.
type DownloadResult struct {
	Channel  string // storage identifier derived from the URL
	Reported int    // videos yt-dlp reported
	Added    int    // of those, records new to the store
}

// Download fetches subtitles for up to limit new videos of a channel or
// playlist URL and records their metadata. limit <= 0 uses the configured
// default. The channel's metadata.json is rewritten afterwards, also when
// the run was cut short.
func (a *App) Download(ctx context.Context, url string, limit int) (*DownloadResult, error) {
	f, err := a.fetcher()
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = a.Config.Download.Limit
	}

	handle := ytdlp.IdentifierFromURL(url)
	ch := a.Paths.Channel(handle)
	if err := ch.EnsureDirs(); err != nil {
		return nil, err
	}

	log := a.Log.WithField("channel", handle)
	log.WithFields(logrus.Fields{"url": url, "limit": limit}).Info("download started")

	res := &DownloadResult{Channel: handle}
	opts := ports.DownloadOptions{
		OutputDir:   ch.VTTDir,
		ArchiveFile: ch.Archive,
		Limit:       limit,
		ChannelName: ytdlp.ChannelNameFromURL(url),
	}
	n, err := f.Download(ctx, url, opts, func(v ports.Video) error {
		added, err := a.Store.Append(handle, v)
		if err != nil {
			return err
		}
		if added {
			res.Added++
			log.WithField("id", v.ID).Debug("video recorded")
		}
		return nil
	})
	res.Reported = n

	if werr := a.writeMetadata(handle); werr != nil {
		err = errors.Join(err, fmt.Errorf("write metadata: %w", werr))
	}
	if err != nil {
		return res, err
	}
	log.WithFields(logrus.Fields{"reported": n, "added": res.Added}).Info("download finished")
	return res, nil
}

// RefreshResult summarises a metadata refresh.
type RefreshResult struct {
	Requested int
	Updated   int
	Added     int
}

// RefreshMetadata re-reads metadata (view, like and comment counts) for
// every stored video of channel. Stored channel names and original
// timestamps are kept.
func (a *App) RefreshMetadata(ctx context.Context, channel string) (*RefreshResult, error) {
	ids, err := a.Store.IDs(channel)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("refresh %s: %w", channel, ErrNoVideos)
	}
	f, err := a.fetcher()
	if err != nil {
		return nil, err
	}

	res := &RefreshResult{Requested: len(ids)}
	_, err = f.FetchMetadata(ctx, ids, func(v ports.Video) error {
		old, err := a.Store.Get(channel, v.ID)
		switch {
		case errors.Is(err, ports.ErrNotFound):
			if _, err := a.Store.Append(channel, v); err != nil {
				return err
			}
			res.Added++
			return nil
		case err != nil:
			return err
		}
		if old.ChannelName != "" {
			v.ChannelName = old.ChannelName
		}
		if err := a.Store.Update(channel, v); err != nil {
			return err
		}
		res.Updated++
		return nil
	})

	if werr := a.writeMetadata(channel); werr != nil {
		err = errors.Join(err, fmt.Errorf("write metadata: %w", werr))
	}
	if err != nil {
		return res, err
	}
	a.Log.WithFields(logrus.Fields{
		"channel":   channel,
		"requested": res.Requested,
		"updated":   res.Updated,
	}).Info("metadata refreshed")
	return res, nil
}
