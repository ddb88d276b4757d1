package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPaths(t *testing.T) {
	p := NewPaths("/data")
	assert.Equal(t, "/data", p.Root)
	assert.Equal(t, filepath.Join("/data", "minimot.db"), p.DB)
	assert.Equal(t, filepath.Join("/data", "input"), p.InputDir)
	assert.Equal(t, filepath.Join("/data", "input", "stopwords.txt"), p.Stopwords)
}

func TestChannelPaths(t *testing.T) {
	c := NewPaths("/data").Channel("vsauce")
	assert.Equal(t, filepath.Join("/data", "input", "vsauce"), c.Root)
	assert.Equal(t, filepath.Join("/data", "input", "vsauce", "vtt_files"), c.VTTDir)
	assert.Equal(t, filepath.Join("/data", "input", "vsauce", "txt_files"), c.TXTDir)
	assert.Equal(t, filepath.Join("/data", "input", "vsauce", "archive.txt"), c.Archive)
	assert.Equal(t, filepath.Join("/data", "input", "vsauce", "metadata.json"), c.Metadata)
	assert.Equal(t, filepath.Join("/data", "input", "vsauce", "missing_subtitles.json"), c.Missing)
}

func TestEnsureDirs(t *testing.T) {
	p := NewPaths(filepath.Join(t.TempDir(), "data"))
	c := p.Channel("chan")

	// First call creates directories.
	require.NoError(t, p.EnsureDirs())
	require.NoError(t, c.EnsureDirs())
	for _, d := range []string{p.Root, p.InputDir, c.Root, c.VTTDir, c.TXTDir} {
		info, err := os.Stat(d)
		require.NoError(t, err, "dir %s should exist", d)
		assert.True(t, info.IsDir())
	}

	// Second call is idempotent.
	require.NoError(t, p.EnsureDirs())
	require.NoError(t, c.EnsureDirs())
}
