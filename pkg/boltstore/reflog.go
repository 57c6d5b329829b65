package boltstore

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"strings"

	bolt "go.etcd.io/bbolt"

	"github.com/odvcencio/twig/pkg/object"
)

// ReflogEntry records one movement of a branch head.
type ReflogEntry struct {
	Branch    string      `json:"branch"`
	OldHash   object.Hash `json:"old"`
	NewHash   object.Hash `json:"new"`
	Timestamp int64       `json:"ts"`
	Reason    string      `json:"reason"`
}

func (s *Store) appendReflog(logs *bolt.Bucket, branch string, oldHash, newHash object.Hash, reason string) error {
	if strings.TrimSpace(reason) == "" {
		reason = "update"
	}
	b, err := logs.CreateBucketIfNotExists([]byte(branch))
	if err != nil {
		return fmt.Errorf("reflog bucket %q: %w", branch, err)
	}
	seq, err := b.NextSequence()
	if err != nil {
		return fmt.Errorf("reflog sequence %q: %w", branch, err)
	}
	data, err := json.Marshal(ReflogEntry{
		Branch:    branch,
		OldHash:   oldHash,
		NewHash:   newHash,
		Timestamp: s.now().Unix(),
		Reason:    reason,
	})
	if err != nil {
		return fmt.Errorf("reflog encode: %w", err)
	}
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return b.Put(key, data)
}

// ReadReflog returns up to limit entries for branch, newest first. A
// non-positive limit returns every entry.
func (s *Store) ReadReflog(branch string, limit int) ([]ReflogEntry, error) {
	var entries []ReflogEntry
	err := s.db.View(func(tx *bolt.Tx) error {
		logs := tx.Bucket(bucketReflog)
		if logs == nil {
			return nil
		}
		b := logs.Bucket([]byte(branch))
		if b == nil {
			return nil
		}
		c := b.Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if limit > 0 && len(entries) >= limit {
				break
			}
			var e ReflogEntry
			if err := json.Unmarshal(v, &e); err != nil {
				return fmt.Errorf("decode entry %x: %w", k, err)
			}
			entries = append(entries, e)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read reflog %q: %w", branch, err)
	}
	return entries, nil
}
