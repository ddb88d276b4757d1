package ytdlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentifierFromURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.youtube.com/@vsauce", "vsauce"},
		{"https://www.youtube.com/@vsauce/videos", "vsauce"},
		{"https://www.youtube.com/c/Vsauce", "Vsauce"},
		{"https://www.youtube.com/channel/UC6nSFpj9HTCZ5t-N3Rm3-HA", "UC6nSFpj9HTCZ5t-N3Rm3-HA"},
		{"https://www.youtube.com/user/Vsauce", "Vsauce"},
		{"https://www.youtube.com/playlist?list=PLabc123&index=2", "PLabc123"},
		{"https://www.youtube.com/watch?v=x&list=PLxyz", "PLxyz"},
		{"https://example.com/video", DefaultIdentifier},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, IdentifierFromURL(tt.url))
		})
	}
}

func TestChannelNameFromURL(t *testing.T) {
	assert.Equal(t, "vsauce", ChannelNameFromURL("https://www.youtube.com/@vsauce"))
	assert.Equal(t, "", ChannelNameFromURL("https://www.youtube.com/playlist?list=PLabc"))
}
