// Package ports defines the interfaces (contracts) that adapters must implement.
// These are the boundaries of the hexagonal architecture. Domain logic depends
// only on these interfaces, never on concrete implementations.
package ports

import (
	"errors"
	"strconv"
	"strings"
)

// ErrNotFound is returned when a channel or video record does not exist.
var ErrNotFound = errors.New("not found")

// VideoStore persists video metadata. Records are scoped by channel
// identifier (a channel handle or playlist ID) and keyed by video ID.
// Concurrent reads are safe; writes are serialized by the adapter.
//
// Crash safety: every write is transactional. A crash mid-write must not
// corrupt previously committed records.
type VideoStore interface {
	// Append inserts v unless a record with the same ID already exists.
	// Reports whether the record was inserted.
	Append(channel string, v Video) (bool, error)

	// Update replaces an existing record. OriginalTimestamp is carried over
	// from the stored record (or its Timestamp if it never had one).
	// Returns ErrNotFound if the record does not exist.
	Update(channel string, v Video) error

	// Get returns a single record, or ErrNotFound.
	Get(channel, id string) (Video, error)

	// List returns every record of a channel sorted by ID.
	// An unknown channel yields an empty list, not an error.
	List(channel string) ([]Video, error)

	// IDs returns the video IDs of a channel in sorted order.
	IDs(channel string) ([]string, error)

	// Channels returns every channel identifier with stored records.
	Channels() ([]string, error)

	// Import appends every record whose ID is unknown and returns how many
	// were added.
	Import(channel string, videos []Video) (int, error)

	// DeleteChannel removes all records of a channel.
	// Idempotent: deleting a nonexistent channel is not an error.
	DeleteChannel(channel string) error

	// Close releases the underlying database.
	Close() error
}

// Video is the metadata recorded for one downloaded video. The JSON layout
// matches metadata.json files written by earlier tooling, so exports can be
// diffed against and imported from them.
type Video struct {
	ID                 string  `json:"id"`
	Title              string  `json:"title"`
	URL                string  `json:"url"`
	UploadDate         string  `json:"upload_date"` // YYYYMMDD
	Duration           Seconds `json:"duration"`
	ViewCount          int64   `json:"view_count"`
	ViewCountFormatted string  `json:"view_count_formatted"`
	LikeCount          int64   `json:"like_count"`
	LikeCountFormatted string  `json:"like_count_formatted"`
	DislikeCount       int64   `json:"dislike_count"`
	CommentCount       int64   `json:"comment_count"`
	Timestamp          string  `json:"timestamp"`
	OriginalTimestamp  string  `json:"original_timestamp,omitempty"`
	ChannelName        string  `json:"channel_name"`
	ChannelID          string  `json:"channel_id"`
	ChannelURL         string  `json:"channel_url"`
	SubscriberCount    int64   `json:"subscriber_count"`
}

// Seconds is a video duration. Older metadata files store it as an integer,
// a float, or an empty string when the extractor did not report one; all of
// those decode. It always encodes as an integer.
type Seconds int

func (s *Seconds) UnmarshalJSON(b []byte) error {
	raw := strings.Trim(string(b), `"`)
	if raw == "" || raw == "null" {
		*s = 0
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return err
	}
	*s = Seconds(f)
	return nil
}
