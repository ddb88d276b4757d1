// Package app wires together all adapters and domain logic.
// It provides the operations behind the CLI: download, convert, analyze,
// filter, search and the metadata maintenance commands.
package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/corey/minimot/internal/adapters/ahocorasick"
	"github.com/corey/minimot/internal/adapters/bbolt"
	fsw "github.com/corey/minimot/internal/adapters/fsnotify"
	"github.com/corey/minimot/internal/adapters/ytdlp"
	"github.com/corey/minimot/internal/domain/transcript"
	"github.com/corey/minimot/internal/ports"
)

// ErrNoVideos is returned when a channel has no stored metadata.
var ErrNoVideos = errors.New("no videos recorded")

// App is the top-level container wiring all components together.
type App struct {
	Config  Config
	Paths   *Paths
	Store   ports.VideoStore
	Fetcher ports.SubtitleFetcher // nil until a download needs it
	Log     logrus.FieldLogger

	newWatcher func() (ports.Watcher, error)
	prefilter  func(keywords []string) ports.PatternMatcher
}

// New creates an App with the store opened and adapters wired. The yt-dlp
// fetcher is located lazily so commands that never download work without it.
func New(cfg Config, log logrus.FieldLogger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = discardLogger()
	}

	paths := NewPaths(cfg.DataDir)
	if err := paths.EnsureDirs(); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	store, err := bbolt.NewStore(paths.DB)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	return &App{
		Config: cfg,
		Paths:  paths,
		Store:  store,
		Log:    log,
		newWatcher: func() (ports.Watcher, error) {
			return fsw.NewWatcher([]string{".vtt"}, fsw.DefaultSettle, log)
		},
		prefilter: func(keywords []string) ports.PatternMatcher {
			return ahocorasick.New(keywords)
		},
	}, nil
}

// Close releases the store.
func (a *App) Close() error {
	return a.Store.Close()
}

func (a *App) fetcher() (ports.SubtitleFetcher, error) {
	if a.Fetcher != nil {
		return a.Fetcher, nil
	}
	f, err := ytdlp.New(ytdlp.Options{
		Binary:        a.Config.Download.Binary,
		ExtractorArgs: a.Config.Download.ExtractorArgs,
		BatchSize:     a.Config.Download.BatchSize,
	}, a.Log)
	if err != nil {
		return nil, err
	}
	a.Fetcher = f
	return f, nil
}

// transcriptOptions builds VTT cleaning options from config, loading the
// stopword file when enabled.
func (a *App) transcriptOptions() (transcript.Options, error) {
	opts := transcript.Options{
		NoPunctuation: a.Config.Transcript.NoPunctuation,
		BleepWord:     a.Config.Transcript.BleepWord,
	}
	if a.Config.Transcript.UseStopwords {
		words, err := transcript.LoadStopwordsFile(a.Config.StopwordsPath())
		if err != nil {
			return opts, fmt.Errorf("stopwords: %w", err)
		}
		opts.Stopwords = words
	}
	return opts, nil
}

// Channels returns every channel with stored metadata and its video count.
func (a *App) Channels() (map[string]int, error) {
	names, err := a.Store.Channels()
	if err != nil {
		return nil, err
	}
	out := make(map[string]int, len(names))
	for _, name := range names {
		ids, err := a.Store.IDs(name)
		if err != nil {
			return nil, err
		}
		out[name] = len(ids)
	}
	return out, nil
}

// ImportMetadata loads a metadata.json array into the store. An empty path
// reads the channel's own metadata.json. Returns how many records were new.
func (a *App) ImportMetadata(channel, path string) (int, error) {
	if path == "" {
		path = a.Paths.Channel(channel).Metadata
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("import %s: %w", path, err)
	}
	var videos []ports.Video
	if err := json.Unmarshal(data, &videos); err != nil {
		return 0, fmt.Errorf("import %s: %w", path, err)
	}
	n, err := a.Store.Import(channel, videos)
	if err != nil {
		return n, err
	}
	a.Log.WithFields(logrus.Fields{"channel": channel, "added": n, "total": len(videos)}).Info("metadata imported")
	return n, nil
}

// ExportMetadata writes the channel's records as an indented JSON array in
// metadata.json layout.
func (a *App) ExportMetadata(channel string, w io.Writer) error {
	videos, err := a.Store.List(channel)
	if err != nil {
		return err
	}
	if videos == nil {
		videos = []ports.Video{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(videos)
}

// writeMetadata mirrors the store into the channel's metadata.json so the
// data directory stays usable by tools reading that file.
func (a *App) writeMetadata(channel string) error {
	ch := a.Paths.Channel(channel)
	if err := os.MkdirAll(ch.Root, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(ch.Root, ".metadata-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if err := a.ExportMetadata(channel, tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), ch.Metadata)
}
