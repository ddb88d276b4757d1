package app

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/corey/minimot/internal/domain/transcript"
)

// MissingVideo is a recorded video without a subtitle file.
type MissingVideo struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	ExpectedFilename string `json:"expected_filename"`
}

// MissingReport is the result of a subtitle consistency check.
type MissingReport struct {
	Checked int            // videos with metadata
	Missing []MissingVideo // metadata without a .vtt file, by ID
	// Stale lists download archive IDs without a .vtt file. Videos without
	// auto subtitles end up here; pruning them lets a later run retry.
	Stale  []string
	Pruned bool
}

// CheckOptions control CheckMissing.
type CheckOptions struct {
	PruneArchive bool // rewrite archive.txt without stale entries
	SaveMissing  bool // write missing_subtitles.json when anything is missing
}

// CheckMissing compares stored metadata and the download archive of channel
// with the subtitle files actually present.
func (a *App) CheckMissing(channel string, opts CheckOptions) (*MissingReport, error) {
	ch := a.Paths.Channel(channel)
	videos, err := a.Store.List(channel)
	if err != nil {
		return nil, err
	}
	if len(videos) == 0 {
		return nil, fmt.Errorf("check %s: %w", channel, ErrNoVideos)
	}

	vtts, err := transcript.ListFiles(ch.VTTDir, ".vtt")
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	have := make(map[string]bool, len(vtts))
	for _, p := range vtts {
		if id := transcript.VideoIDFromFilename(filepath.Base(p)); id != "" {
			have[id] = true
		}
	}

	rep := &MissingReport{Checked: len(videos)}
	for _, v := range videos {
		if !have[v.ID] {
			rep.Missing = append(rep.Missing, MissingVideo{
				ID:               v.ID,
				Title:            v.Title,
				ExpectedFilename: fmt.Sprintf("%s [%s].en.vtt", v.Title, v.ID),
			})
		}
	}

	lines, err := readArchive(ch.Archive)
	if err != nil {
		return nil, err
	}
	var keep []string
	for _, line := range lines {
		parts := strings.Fields(line)
		if len(parts) >= 2 && parts[0] == "youtube" && !have[parts[1]] {
			rep.Stale = append(rep.Stale, parts[1])
			continue
		}
		keep = append(keep, line)
	}

	if opts.PruneArchive && len(rep.Stale) > 0 {
		if err := writeLines(ch.Archive, keep); err != nil {
			return nil, fmt.Errorf("prune archive: %w", err)
		}
		rep.Pruned = true
	}
	if opts.SaveMissing && len(rep.Missing) > 0 {
		data, err := json.MarshalIndent(rep.Missing, "", "  ")
		if err != nil {
			return nil, err
		}
		if err := os.WriteFile(ch.Missing, data, 0644); err != nil {
			return nil, err
		}
	}

	a.Log.WithFields(logrus.Fields{
		"channel": channel,
		"checked": rep.Checked,
		"missing": len(rep.Missing),
		"stale":   len(rep.Stale),
	}).Info("subtitle check finished")
	return rep, nil
}

// readArchive returns the non-blank lines of a download archive. A missing
// archive is empty.
func readArchive(path string) ([]string, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, sc.Err()
}

func writeLines(path string, lines []string) error {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	return os.WriteFile(path, []byte(b.String()), 0644)
}
