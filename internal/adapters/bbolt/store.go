// Package bbolt implements the ports.VideoStore interface using bbolt (embedded B+ tree).
// Each channel gets its own top-level bucket holding one JSON record per video,
// keyed by video ID. Writes are transactional: a crash mid-write cannot corrupt
// previously committed data.
package bbolt

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/corey/minimot/internal/ports"
	bolt "go.etcd.io/bbolt"
)

// Store implements ports.VideoStore backed by bbolt.
type Store struct {
	db *bolt.DB
}

var _ ports.VideoStore = (*Store)(nil)

// NewStore opens (or creates) a bbolt database at the given path.
func NewStore(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	return &Store{db: db}, nil
}

// IsLocked reports whether err came from failing to acquire the database
// file lock, which means another process holds the store open.
func IsLocked(err error) bool {
	return errors.Is(err, bolt.ErrTimeout)
}

// Close closes the underlying bbolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Append inserts v unless its ID is already stored.
func (s *Store) Append(channel string, v ports.Video) (bool, error) {
	if v.ID == "" {
		return false, fmt.Errorf("append to %s: empty video id", channel)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return false, fmt.Errorf("marshal video %s: %w", v.ID, err)
	}

	inserted := false
	err = s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(channel))
		if err != nil {
			return err
		}
		if b.Get([]byte(v.ID)) != nil {
			return nil
		}
		inserted = true
		return b.Put([]byte(v.ID), data)
	})
	if err != nil {
		return false, err
	}
	return inserted, nil
}

// Update replaces an existing record, preserving when it was first seen.
func (s *Store) Update(channel string, v ports.Video) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(channel))
		if b == nil {
			return fmt.Errorf("channel %s: %w", channel, ports.ErrNotFound)
		}
		raw := b.Get([]byte(v.ID))
		if raw == nil {
			return fmt.Errorf("video %s in %s: %w", v.ID, channel, ports.ErrNotFound)
		}

		var old ports.Video
		if err := json.Unmarshal(raw, &old); err != nil {
			return fmt.Errorf("unmarshal video %s: %w", v.ID, err)
		}
		v.OriginalTimestamp = old.OriginalTimestamp
		if v.OriginalTimestamp == "" {
			v.OriginalTimestamp = old.Timestamp
		}

		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("marshal video %s: %w", v.ID, err)
		}
		return b.Put([]byte(v.ID), data)
	})
}

// Get returns a single record.
func (s *Store) Get(channel, id string) (ports.Video, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(channel))
		if b == nil {
			return nil
		}
		// Copy bytes out of the transaction (bbolt slices are only valid within tx)
		if raw := b.Get([]byte(id)); raw != nil {
			data = make([]byte, len(raw))
			copy(data, raw)
		}
		return nil
	})
	if err != nil {
		return ports.Video{}, err
	}
	if data == nil {
		return ports.Video{}, fmt.Errorf("video %s in %s: %w", id, channel, ports.ErrNotFound)
	}

	var v ports.Video
	if err := json.Unmarshal(data, &v); err != nil {
		return ports.Video{}, fmt.Errorf("unmarshal video %s: %w", id, err)
	}
	return v, nil
}

// List returns every record of a channel in key (ID) order.
func (s *Store) List(channel string) ([]ports.Video, error) {
	var videos []ports.Video
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(channel))
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, raw []byte) error {
			var v ports.Video
			// Unmarshal copies, so raw never escapes the transaction.
			if err := json.Unmarshal(raw, &v); err != nil {
				return fmt.Errorf("unmarshal video %s: %w", k, err)
			}
			videos = append(videos, v)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return videos, nil
}

// IDs returns the stored video IDs of a channel in sorted order.
func (s *Store) IDs(channel string) ([]string, error) {
	var ids []string
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(channel))
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, _ []byte) error {
			ids = append(ids, string(k))
			return nil
		})
	})
	return ids, err
}

// Channels lists every channel bucket.
func (s *Store) Channels() ([]string, error) {
	var names []string
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.ForEach(func(name []byte, _ *bolt.Bucket) error {
			names = append(names, string(name))
			return nil
		})
	})
	sort.Strings(names)
	return names, err
}

// Import appends every unknown record in a single transaction.
func (s *Store) Import(channel string, videos []ports.Video) (int, error) {
	added := 0
	err := s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(channel))
		if err != nil {
			return err
		}
		for _, v := range videos {
			if v.ID == "" || b.Get([]byte(v.ID)) != nil {
				continue
			}
			data, err := json.Marshal(v)
			if err != nil {
				return fmt.Errorf("marshal video %s: %w", v.ID, err)
			}
			if err := b.Put([]byte(v.ID), data); err != nil {
				return err
			}
			added++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return added, nil
}

// DeleteChannel removes all records for a channel.
// Idempotent: deleting a nonexistent channel is not an error.
func (s *Store) DeleteChannel(channel string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket([]byte(channel)); !errors.Is(err, bolt.ErrBucketNotFound) {
			return err
		}
		return nil // idempotent
	})
}
