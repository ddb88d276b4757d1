package ytdlp

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey/minimot/internal/ports"
)

const sampleOutput = `[youtube:tab] Extracting URL
{"_type": "playlist", "id": "PLxyz", "title": "Uploads"}
{"id": "a1", "title": "First", "webpage_url": "https://www.youtube.com/watch?v=a1", "upload_date": "20240101", "duration": 61.5, "view_count": 1500, "like_count": 0, "channel": "Chan", "channel_id": "UC1", "channel_follower_count": 2500000}
not json at all
{"id": "b2", "title": "Second", "upload_date": "20240202", "duration": 120, "view_count": 2500000}
{"id": "c3", "title": "Third", "duration": null}
`

// fakeBinary writes an executable shell script standing in for yt-dlp.
func fakeBinary(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script stand-in needs a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "yt-dlp")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755))
	return path
}

func newTestFetcher(t *testing.T, binary string, batch int) *Fetcher {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	f, err := New(Options{Binary: binary, BatchSize: batch}, log)
	require.NoError(t, err)
	f.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	return f
}

func TestNew_MissingBinary(t *testing.T) {
	_, err := New(Options{Binary: filepath.Join(t.TempDir(), "no-such-yt-dlp")}, nil)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestParseLine(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	v, ok := ParseLine([]byte(`{"id": "a1", "title": "First", "duration": 61.5, "view_count": 1500, "channel_follower_count": 7}`), now)
	require.True(t, ok)
	assert.Equal(t, "a1", v.ID)
	assert.Equal(t, ports.Seconds(61), v.Duration)
	assert.Equal(t, "1.5K", v.ViewCountFormatted)
	assert.Equal(t, "N/A", v.LikeCountFormatted)
	assert.Equal(t, int64(7), v.SubscriberCount)
	assert.Equal(t, "2024-03-01T12:00:00.000000", v.Timestamp)

	_, ok = ParseLine([]byte(`{"_type": "playlist", "id": "PL"}`), now)
	assert.False(t, ok, "playlist entries are skipped")
	_, ok = ParseLine([]byte(`[download] 50%`), now)
	assert.False(t, ok)
	_, ok = ParseLine([]byte(`{"broken": `), now)
	assert.False(t, ok)
	_, ok = ParseLine([]byte(`{"title": "no id"}`), now)
	assert.False(t, ok)
}

func TestDownloadArgs(t *testing.T) {
	args := DownloadArgs("https://www.youtube.com/@vsauce", ports.DownloadOptions{
		OutputDir:   "/data/input/vsauce/vtt_files",
		ArchiveFile: "/data/input/vsauce/archive.txt",
		Limit:       500,
	}, DefaultExtractorArgs)

	joined := strings.Join(args, " ")
	assert.Contains(t, joined, "--write-auto-sub --sub-lang en --skip-download --convert-subs vtt --print-json")
	assert.Contains(t, joined, "--download-archive /data/input/vsauce/archive.txt")
	assert.Contains(t, joined, "-o /data/input/vsauce/vtt_files/%(title)s [%(id)s].%(ext)s")
	assert.Contains(t, joined, "--extractor-args "+DefaultExtractorArgs)
	assert.Equal(t, []string{"--max-downloads", "500", "https://www.youtube.com/@vsauce"}, args[len(args)-3:])
}

func TestDownloadArgs_OutputTemplateJoinsDir(t *testing.T) {
	args := DownloadArgs("https://www.youtube.com/@vsauce", ports.DownloadOptions{
		OutputDir: "data/input/vsauce/vtt_files/",
		Limit:     1,
	}, "")

	i := slices.Index(args, "-o")
	require.GreaterOrEqual(t, i, 0)
	assert.Equal(t, filepath.Join("data", "input", "vsauce", "vtt_files", "%(title)s [%(id)s].%(ext)s"), args[i+1])
	assert.NotContains(t, args[i+1], "//")
}

func TestMetadataArgs(t *testing.T) {
	args := MetadataArgs([]string{"a1", "b2"}, "")
	assert.Equal(t, []string{
		"--skip-download", "--print-json", "--no-warnings",
		"https://www.youtube.com/watch?v=a1",
		"https://www.youtube.com/watch?v=b2",
	}, args)
}

func TestDownload_StreamsVideos(t *testing.T) {
	bin := fakeBinary(t, "cat <<'EOF'\n"+sampleOutput+"EOF\nexit 1\n")
	f := newTestFetcher(t, bin, 0)

	var got []ports.Video
	n, err := f.Download(context.Background(), "https://www.youtube.com/@chan", ports.DownloadOptions{
		OutputDir: t.TempDir(), ArchiveFile: "archive.txt", Limit: 10,
	}, func(v ports.Video) error {
		got = append(got, v)
		return nil
	})
	require.NoError(t, err, "a non-zero exit after some videos is not fatal")
	assert.Equal(t, 3, n)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"a1", "b2", "c3"}, []string{got[0].ID, got[1].ID, got[2].ID})
	assert.Equal(t, "Chan", got[0].ChannelName)
	assert.Equal(t, ports.Seconds(120), got[1].Duration)
}

func TestDownload_StopsAtLimitAndOverridesChannel(t *testing.T) {
	bin := fakeBinary(t, "cat <<'EOF'\n"+sampleOutput+"EOF\n")
	f := newTestFetcher(t, bin, 0)

	var ids []string
	n, err := f.Download(context.Background(), "u", ports.DownloadOptions{Limit: 2, ChannelName: "vsauce"},
		func(v ports.Video) error {
			ids = append(ids, v.ID)
			assert.Equal(t, "vsauce", v.ChannelName)
			return nil
		})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"a1", "b2"}, ids)
}

func TestDownload_FailsWithoutVideos(t *testing.T) {
	bin := fakeBinary(t, "echo 'ERROR: Unsupported URL' >&2\nexit 1\n")
	f := newTestFetcher(t, bin, 0)

	n, err := f.Download(context.Background(), "u", ports.DownloadOptions{Limit: 5}, func(ports.Video) error { return nil })
	require.Error(t, err)
	assert.Equal(t, 0, n)
	assert.Contains(t, err.Error(), "Unsupported URL")
}

func TestDownload_CallbackErrorStops(t *testing.T) {
	bin := fakeBinary(t, "cat <<'EOF'\n"+sampleOutput+"EOF\n")
	f := newTestFetcher(t, bin, 0)

	boom := errors.New("disk full")
	n, err := f.Download(context.Background(), "u", ports.DownloadOptions{Limit: 5}, func(ports.Video) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, n)
}

func TestDownload_RejectsZeroLimit(t *testing.T) {
	f := newTestFetcher(t, fakeBinary(t, "exit 0\n"), 0)
	_, err := f.Download(context.Background(), "u", ports.DownloadOptions{}, func(ports.Video) error { return nil })
	assert.Error(t, err)
}

func TestFetchMetadata_Batches(t *testing.T) {
	// Echo one document per watch URL and log each invocation.
	calls := filepath.Join(t.TempDir(), "calls")
	bin := fakeBinary(t, `echo call >> "`+calls+`"
for a in "$@"; do
  case "$a" in
    https://www.youtube.com/watch*) id="${a#*v=}"; printf '{"id":"%s","title":"t-%s"}\n' "$id" "$id";;
  esac
done
`)
	f := newTestFetcher(t, bin, 2)

	var ids []string
	n, err := f.FetchMetadata(context.Background(), []string{"a1", "b2", "c3"}, func(v ports.Video) error {
		ids = append(ids, v.ID)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []string{"a1", "b2", "c3"}, ids)

	data, err := os.ReadFile(calls)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), "call"), "3 ids in batches of 2")
}

func TestFetchMetadata_Cancelled(t *testing.T) {
	f := newTestFetcher(t, fakeBinary(t, "exit 0\n"), 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.FetchMetadata(ctx, []string{"a1"}, func(ports.Video) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}
