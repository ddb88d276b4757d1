// Package ytdlp implements ports.SubtitleFetcher by running the external
// yt-dlp program. yt-dlp prints one JSON document per processed video on
// stdout (--print-json); each document becomes a ports.Video as soon as it
// arrives.
package ytdlp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/corey/minimot/internal/domain/filter"
	"github.com/corey/minimot/internal/ports"
)

// ErrUnavailable is returned when the yt-dlp binary cannot be found.
var ErrUnavailable = errors.New("yt-dlp not available")

// exitMaxDownloads is yt-dlp's exit status when --max-downloads was hit.
const exitMaxDownloads = 101

// Defaults used when Options leaves a field zero.
const (
	DefaultBinary        = "yt-dlp"
	DefaultBatchSize     = 50
	DefaultExtractorArgs = "youtube:player-client=default,mweb;po_token=bgutil:http-1.2.2"
)

// Options configures the fetcher.
type Options struct {
	Binary        string // name or path of the yt-dlp executable
	ExtractorArgs string // passed as --extractor-args; "-" disables
	BatchSize     int    // video URLs per metadata refresh invocation
}

// Fetcher implements ports.SubtitleFetcher.
type Fetcher struct {
	binary        string
	extractorArgs string
	batchSize     int
	log           logrus.FieldLogger
	now           func() time.Time
}

var _ ports.SubtitleFetcher = (*Fetcher)(nil)

// New locates the yt-dlp binary. A missing binary is reported as
// ErrUnavailable so callers can disable download features instead of failing.
func New(opts Options, log logrus.FieldLogger) (*Fetcher, error) {
	if opts.Binary == "" {
		opts.Binary = DefaultBinary
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.ExtractorArgs == "" {
		opts.ExtractorArgs = DefaultExtractorArgs
	}
	if opts.ExtractorArgs == "-" {
		opts.ExtractorArgs = ""
	}
	path, err := exec.LookPath(opts.Binary)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, opts.Binary)
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Fetcher{
		binary:        path,
		extractorArgs: opts.ExtractorArgs,
		batchSize:     opts.BatchSize,
		log:           log.WithField("component", "ytdlp"),
		now:           time.Now,
	}, nil
}

// DownloadArgs builds the yt-dlp argument list for a subtitle download run.
func DownloadArgs(url string, opts ports.DownloadOptions, extractorArgs string) []string {
	args := []string{
		"--write-auto-sub",
		"--sub-lang", "en",
		"--skip-download",
		"--convert-subs", "vtt",
		"--print-json",
		"--download-archive", opts.ArchiveFile,
		"--no-warnings",
		"--force-write-archive",
		"--no-overwrites",
		"--sleep-subtitles", "1",
	}
	if extractorArgs != "" {
		args = append(args, "--extractor-args", extractorArgs)
	}
	args = append(args,
		"-o", filepath.Join(opts.OutputDir, "%(title)s [%(id)s].%(ext)s"),
		"--max-downloads", strconv.Itoa(opts.Limit),
		url,
	)
	return args
}

// MetadataArgs builds the argument list for a metadata-only refresh of ids.
func MetadataArgs(ids []string, extractorArgs string) []string {
	args := []string{"--skip-download", "--print-json", "--no-warnings"}
	if extractorArgs != "" {
		args = append(args, "--extractor-args", extractorArgs)
	}
	for _, id := range ids {
		args = append(args, WatchURL(id))
	}
	return args
}

// WatchURL returns the canonical page URL of a video.
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}

// Download runs a subtitle download and reports each video's metadata.
// The run stops once opts.Limit videos were reported.
func (f *Fetcher) Download(parent context.Context, url string, opts ports.DownloadOptions, onVideo func(ports.Video) error) (int, error) {
	if opts.Limit <= 0 {
		return 0, fmt.Errorf("download %s: limit must be positive", url)
	}
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	var (
		count int
		cbErr error
	)
	err := f.run(ctx, DownloadArgs(url, opts, f.extractorArgs), func(v ports.Video) error {
		if count >= opts.Limit {
			return nil // output still buffered after the stop
		}
		if opts.ChannelName != "" {
			v.ChannelName = opts.ChannelName
		}
		if cbErr = onVideo(v); cbErr != nil {
			return cbErr
		}
		count++
		if count >= opts.Limit {
			cancel()
		}
		return nil
	})
	switch {
	case cbErr != nil:
		return count, cbErr
	case count >= opts.Limit:
		return count, nil
	case parent.Err() != nil:
		return count, parent.Err()
	case err != nil && count == 0:
		return 0, fmt.Errorf("download %s: %w", url, err)
	case err != nil:
		// Videos without subtitles make yt-dlp exit non-zero; the rest of the
		// run is still usable.
		f.log.WithError(err).WithField("videos", count).Warn("yt-dlp finished with errors")
	}
	return count, nil
}

// FetchMetadata refreshes metadata for known ids in batches.
func (f *Fetcher) FetchMetadata(ctx context.Context, ids []string, onVideo func(ports.Video) error) (int, error) {
	count := 0
	for start := 0; start < len(ids); start += f.batchSize {
		if err := ctx.Err(); err != nil {
			return count, err
		}
		end := min(start+f.batchSize, len(ids))
		batch := ids[start:end]
		f.log.WithFields(logrus.Fields{"from": start, "to": end, "total": len(ids)}).Debug("refreshing batch")

		var cbErr error
		err := f.run(ctx, MetadataArgs(batch, f.extractorArgs), func(v ports.Video) error {
			if cbErr = onVideo(v); cbErr != nil {
				return cbErr
			}
			count++
			return nil
		})
		if cbErr != nil {
			return count, cbErr
		}
		if err != nil {
			if ctx.Err() != nil {
				return count, ctx.Err()
			}
			f.log.WithError(err).WithField("batch", start/f.batchSize).Warn("metadata batch finished with errors")
		}
	}
	return count, nil
}

// run executes yt-dlp and feeds every decoded video to onVideo. Lines that
// are not JSON, and playlist summaries, are skipped.
func (f *Fetcher) run(ctx context.Context, args []string, onVideo func(ports.Video) error) error {
	cmd := exec.CommandContext(ctx, f.binary, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	var stderr bytes.Buffer
	cmd.Stderr = &limitedWriter{buf: &stderr, max: 4096}

	f.log.WithField("args", args).Debug("starting yt-dlp")
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start yt-dlp: %w", err)
	}

	var cbErr error
	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		v, ok := ParseLine(scanner.Bytes(), f.now())
		if !ok {
			continue
		}
		if err := onVideo(v); err != nil {
			cbErr = err
			break
		}
	}
	if cbErr == nil {
		cbErr = scanner.Err()
	}
	if cbErr != nil {
		// Drain so the process is not blocked on a full pipe before it dies.
		_ = cmd.Process.Kill()
		_, _ = io.Copy(io.Discard, stdout)
		_ = cmd.Wait()
		return cbErr
	}

	waitErr := cmd.Wait()
	if ctx.Err() != nil {
		return ctx.Err()
	}
	var exitErr *exec.ExitError
	if errors.As(waitErr, &exitErr) && exitErr.ExitCode() == exitMaxDownloads {
		waitErr = nil
	}
	if waitErr != nil {
		return fmt.Errorf("yt-dlp: %w: %s", waitErr, bytes.TrimSpace(stderr.Bytes()))
	}
	return nil
}

// rawVideo is the subset of yt-dlp's info JSON that minimot records.
type rawVideo struct {
	Type                 string        `json:"_type"`
	ID                   string        `json:"id"`
	Title                string        `json:"title"`
	WebpageURL           string        `json:"webpage_url"`
	UploadDate           string        `json:"upload_date"`
	Duration             ports.Seconds `json:"duration"`
	ViewCount            int64         `json:"view_count"`
	LikeCount            int64         `json:"like_count"`
	DislikeCount         int64         `json:"dislike_count"`
	CommentCount         int64         `json:"comment_count"`
	Channel              string        `json:"channel"`
	ChannelID            string        `json:"channel_id"`
	ChannelURL           string        `json:"channel_url"`
	ChannelFollowerCount int64         `json:"channel_follower_count"`
}

// ParseLine decodes one line of yt-dlp output. It reports false for lines
// that are not a video document.
func ParseLine(line []byte, now time.Time) (ports.Video, bool) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 || line[0] != '{' {
		return ports.Video{}, false
	}
	var raw rawVideo
	if err := json.Unmarshal(line, &raw); err != nil {
		return ports.Video{}, false
	}
	if raw.Type == "playlist" || raw.ID == "" {
		return ports.Video{}, false
	}
	return ports.Video{
		ID:                 raw.ID,
		Title:              raw.Title,
		URL:                raw.WebpageURL,
		UploadDate:         raw.UploadDate,
		Duration:           raw.Duration,
		ViewCount:          raw.ViewCount,
		ViewCountFormatted: formatOrNA(raw.ViewCount),
		LikeCount:          raw.LikeCount,
		LikeCountFormatted: formatOrNA(raw.LikeCount),
		DislikeCount:       raw.DislikeCount,
		CommentCount:       raw.CommentCount,
		Timestamp:          now.Format("2006-01-02T15:04:05.000000"),
		ChannelName:        raw.Channel,
		ChannelID:          raw.ChannelID,
		ChannelURL:         raw.ChannelURL,
		SubscriberCount:    raw.ChannelFollowerCount,
	}, true
}

func formatOrNA(n int64) string {
	if n == 0 {
		return "N/A"
	}
	return filter.FormatCount(n)
}

// limitedWriter keeps the first max bytes written to it.
type limitedWriter struct {
	buf *bytes.Buffer
	max int
}

func (w *limitedWriter) Write(p []byte) (int, error) {
	if room := w.max - w.buf.Len(); room > 0 {
		if len(p) > room {
			w.buf.Write(p[:room])
		} else {
			w.buf.Write(p)
		}
	}
	return len(p), nil
}
