// Package inbox tracks processed event ids so redelivered messages are
// dropped instead of re-notifying.
package inbox

import (
	"fmt"
	"time"

	"github.com/boltdb/bolt"
)

var bucketName = []byte("processed_events")

// Inbox records which event ids have already been handled.
type Inbox interface {
	// MarkIfNew records the id and reports whether it was unseen. A false
	// return means the event was already processed.
	MarkIfNew(id string) (bool, error)
	Close() error
}

// BoltInbox is a file-backed Inbox. The store survives restarts, so a
// redelivery after a crash is still deduplicated.
type BoltInbox struct {
	db *bolt.DB
}

var _ Inbox = (*BoltInbox)(nil)

func Open(path string) (*BoltInbox, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("inbox: open %q: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("inbox: create bucket: %w", err)
	}
	return &BoltInbox{db: db}, nil
}

func (b *BoltInbox) MarkIfNew(id string) (bool, error) {
	var fresh bool
	err := b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(bucketName)
		if bucket.Get([]byte(id)) != nil {
			return nil
		}
		fresh = true
		return bucket.Put([]byte(id), []byte(time.Now().UTC().Format(time.RFC3339Nano)))
	})
	if err != nil {
		return false, fmt.Errorf("inbox: mark %q: %w", id, err)
	}
	return fresh, nil
}

func (b *BoltInbox) Close() error { return b.db.Close() }
