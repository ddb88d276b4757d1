package ports

import "context"

// SubtitleFetcher downloads auto-generated subtitles and video metadata
// from a channel or playlist URL. The adapter (yt-dlp) runs an external
// process; every call honours ctx cancellation by terminating it.
type SubtitleFetcher interface {
	// Download fetches subtitles for up to opts.Limit new videos into
	// opts.OutputDir, skipping IDs recorded in opts.ArchiveFile. onVideo is
	// called once per video as its metadata arrives; returning an error
	// stops the download. Returns the number of videos reported.
	Download(ctx context.Context, url string, opts DownloadOptions, onVideo func(Video) error) (int, error)

	// FetchMetadata re-reads metadata for already known video IDs without
	// downloading subtitles, in batches. onVideo is called per video.
	FetchMetadata(ctx context.Context, ids []string, onVideo func(Video) error) (int, error)
}

// DownloadOptions controls a subtitle download run.
type DownloadOptions struct {
	OutputDir   string // where .vtt files are written
	ArchiveFile string // yt-dlp download archive
	Limit       int    // maximum videos per run
	ChannelName string // overrides the extractor's channel name when set
}
