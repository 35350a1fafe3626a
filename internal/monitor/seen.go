// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package monitor

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

// SeenStore records which articles each monitor has already alerted on, in a
// bbolt file with one bucket per monitor. The in-memory engine cache does not
// survive restarts; this store does, so a daemon restart never re-sends the
// same alert.
type SeenStore struct {
	db *bolt.DB
}

// OpenSeenStore opens or creates the alert-history file.
func OpenSeenStore(path string) (*SeenStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating state directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening alert history %s: %w", path, err)
	}
	return &SeenStore{db: db}, nil
}

// Close releases the underlying database.
func (s *SeenStore) Close() error {
	return s.db.Close()
}

// MarkSeen records that the monitor alerted on the article key at the given time.
func (s *SeenStore) MarkSeen(monitor, key string, at time.Time) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(monitor))
		if err != nil {
			return fmt.Errorf("creating bucket %s: %w", monitor, err)
		}
		return b.Put([]byte(key), []byte(at.UTC().Format(time.RFC3339Nano)))
	})
}

// Seen reports whether the monitor already alerted on the article key.
func (s *SeenStore) Seen(monitor, key string) (bool, error) {
	var seen bool
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(monitor))
		if b == nil {
			return nil
		}
		seen = b.Get([]byte(key)) != nil
		return nil
	})
	return seen, err
}

// Prune removes entries recorded before the cutoff across every monitor
// bucket and returns the number removed. Entries with unparseable timestamps
// are removed too.
func (s *SeenStore) Prune(cutoff time.Time) (int, error) {
	removed := 0
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.ForEach(func(_ []byte, b *bolt.Bucket) error {
			var stale [][]byte
			err := b.ForEach(func(k, v []byte) error {
				at, err := time.Parse(time.RFC3339Nano, string(v))
				if err != nil || at.Before(cutoff) {
					stale = append(stale, append([]byte(nil), k...))
				}
				return nil
			})
			if err != nil {
				return err
			}
			for _, k := range stale {
				if err := b.Delete(k); err != nil {
					return err
				}
				removed++
			}
			return nil
		})
	})
	return removed, err
}
