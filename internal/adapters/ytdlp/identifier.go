package ytdlp

import "regexp"

// DefaultIdentifier names the storage folder for URLs that are neither a
// recognised channel nor a playlist.
const DefaultIdentifier = "youtube_subtitles"

var (
	channelPatterns = []*regexp.Regexp{
		regexp.MustCompile(`youtube\.com/c/([^/]+)`),
		regexp.MustCompile(`youtube\.com/channel/([^/]+)`),
		regexp.MustCompile(`youtube\.com/@([^/]+)`),
		regexp.MustCompile(`youtube\.com/user/([^/]+)`),
	}
	playlistPattern = regexp.MustCompile(`[&?]list=([^&]+)`)
)

// IdentifierFromURL derives the folder/bucket name for a channel or playlist
// URL: the channel handle or ID when the URL names a channel, else the
// playlist ID, else DefaultIdentifier.
func IdentifierFromURL(url string) string {
	if name := ChannelNameFromURL(url); name != "" {
		return name
	}
	if m := playlistPattern.FindStringSubmatch(url); m != nil {
		return m[1]
	}
	return DefaultIdentifier
}

// ChannelNameFromURL returns the channel handle or ID in url, or "".
func ChannelNameFromURL(url string) string {
	for _, re := range channelPatterns {
		if m := re.FindStringSubmatch(url); m != nil {
			return m[1]
		}
	}
	return ""
}
