package app

import (
	"os"
	"path/filepath"
)

// Paths holds the resolved filesystem layout under the data directory.
type Paths struct {
	Root      string // <data_dir>/
	DB        string // <data_dir>/minimot.db
	InputDir  string // <data_dir>/input/
	Stopwords string // <data_dir>/input/stopwords.txt
}

// NewPaths constructs all resolved paths from a data directory.
func NewPaths(dataDir string) *Paths {
	input := filepath.Join(dataDir, "input")
	return &Paths{
		Root:      dataDir,
		DB:        filepath.Join(dataDir, "minimot.db"),
		InputDir:  input,
		Stopwords: filepath.Join(input, "stopwords.txt"),
	}
}

// EnsureDirs creates the data and input directories. Idempotent.
func (p *Paths) EnsureDirs() error {
	for _, d := range []string{p.Root, p.InputDir} {
		if err := os.MkdirAll(d, 0755); err != nil {
			return err
		}
	}
	return nil
}

// ChannelPaths is the per-channel layout under the input directory.
type ChannelPaths struct {
	Root     string // input/<handle>/
	VTTDir   string // input/<handle>/vtt_files/
	TXTDir   string // input/<handle>/txt_files/
	Archive  string // input/<handle>/archive.txt
	Metadata string // input/<handle>/metadata.json
	Missing  string // input/<handle>/missing_subtitles.json
}

// Channel returns the layout for one channel or playlist identifier.
func (p *Paths) Channel(handle string) ChannelPaths {
	root := filepath.Join(p.InputDir, handle)
	return ChannelPaths{
		Root:     root,
		VTTDir:   filepath.Join(root, "vtt_files"),
		TXTDir:   filepath.Join(root, "txt_files"),
		Archive:  filepath.Join(root, "archive.txt"),
		Metadata: filepath.Join(root, "metadata.json"),
		Missing:  filepath.Join(root, "missing_subtitles.json"),
	}
}

// EnsureDirs creates the channel's subtitle and transcript directories.
func (c ChannelPaths) EnsureDirs() error {
	for _, d := range []string{c.Root, c.VTTDir, c.TXTDir} {
		if err := os.MkdirAll(d, 0755); err != nil {
			return err
		}
	}
	return nil
}
