// Package boltstore persists repository state in a bbolt database.
//
// The database holds one encoded state snapshot plus a per-branch log of
// head movements. Every Save runs in a single transaction, so a failed
// save leaves the previously persisted state authoritative.
package boltstore

import (
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/odvcencio/twig/pkg/object"
	"github.com/odvcencio/twig/pkg/state"
)

// ErrNoRepository is returned by Load when nothing has been saved yet.
var ErrNoRepository = errors.New("no repository state saved")

var (
	bucketState  = []byte("state")
	bucketHeads  = []byte("heads")
	bucketReflog = []byte("reflog")
	keySnapshot  = []byte("snapshot")
)

const openTimeout = time.Second

// Store is the persistence collaborator for repository state.
type Store struct {
	db  *bolt.DB
	now func() time.Time
}

// Open opens or creates the database at path. A database held by another
// process fails after a short timeout.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, fmt.Errorf("open state db %s: %w", path, err)
	}
	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Load decodes the saved state.
func (s *Store) Load() (*state.State, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketState)
		if b == nil {
			return ErrNoRepository
		}
		raw := b.Get(keySnapshot)
		if raw == nil {
			return ErrNoRepository
		}
		data = append([]byte(nil), raw...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	st, err := state.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	return st, nil
}

// Save writes st and records a reflog entry, tagged with reason, for every
// branch whose head differs from the previous save.
func (s *Store) Save(st *state.State, reason string) error {
	data, err := state.Encode(st)
	if err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bucketState)
		if err != nil {
			return err
		}
		if err := b.Put(keySnapshot, data); err != nil {
			return err
		}
		return s.recordHeads(tx, st.Heads(), reason)
	})
	if err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

func (s *Store) recordHeads(tx *bolt.Tx, heads map[string]object.Hash, reason string) error {
	hb, err := tx.CreateBucketIfNotExists(bucketHeads)
	if err != nil {
		return err
	}
	logs, err := tx.CreateBucketIfNotExists(bucketReflog)
	if err != nil {
		return err
	}

	// Branches gone since the last save lose their head and their log.
	var deleted [][]byte
	if err := hb.ForEach(func(k, _ []byte) error {
		if _, ok := heads[string(k)]; !ok {
			deleted = append(deleted, append([]byte(nil), k...))
		}
		return nil
	}); err != nil {
		return err
	}
	for _, k := range deleted {
		if err := hb.Delete(k); err != nil {
			return err
		}
		if logs.Bucket(k) != nil {
			if err := logs.DeleteBucket(k); err != nil {
				return err
			}
		}
	}

	for name, head := range heads {
		old := object.Hash(hb.Get([]byte(name)))
		if old == head {
			continue
		}
		if err := hb.Put([]byte(name), []byte(head)); err != nil {
			return err
		}
		if err := s.appendReflog(logs, name, old, head, reason); err != nil {
			return err
		}
	}
	return nil
}
