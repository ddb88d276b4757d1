package transcript

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWordAt(t *testing.T) {
	text := "Hello, world!\nIt's fine."
	tests := []struct {
		index int
		want  string
	}{
		{0, "hello"},
		{1, "world"},
		{2, "it's"},
		{-1, "fine"},
		{-4, "hello"},
		{4, ""},
		{-5, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, WordAt(text, tt.index), "index %d", tt.index)
	}

	assert.Equal(t, "", WordAt("... ok", 0))
	assert.Equal(t, "", WordAt("", 0))
}

func TestWordAtFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a [id].txt")
	require.NoError(t, os.WriteFile(path, []byte("So today we talk"), 0644))

	assert.Equal(t, "so", WordAtFile(path, 0))
	assert.Equal(t, "talk", WordAtFile(path, -1))
	assert.Equal(t, "", WordAtFile(filepath.Join(t.TempDir(), "missing.txt"), 0))
}

func TestPositionLabel(t *testing.T) {
	tests := map[int]string{
		0:  "1st",
		1:  "2nd",
		2:  "3rd",
		3:  "4th",
		10: "11th",
		-1: "last",
		-2: "2nd to last",
		-3: "3rd to last",
		-4: "4th from end",
	}
	for index, want := range tests {
		assert.Equal(t, want, PositionLabel(index), "index %d", index)
	}
}
