/*
 * SPDX-License-Identifier: Apache-2.0
 */

// Package audit implements a durable vfs.Observer/blockdev.Observer: a
// bbolt-backed log of every register/unregister boundary event, grounded
// on the teacher's pkg/store bucket-keyed persistence pattern but scoped
// down to a single append-only bucket instead of a full daemon store.
package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

const (
	databaseFileName = "audit.db"
)

var eventsBucket = []byte("events")

// Event is one recorded register/unregister boundary notification.
type Event struct {
	Seq       uint64    `json:"seq"`
	Time      time.Time `json:"time"`
	Kind      string    `json:"kind"` // "register" or "unregister"
	Subsystem string    `json:"subsystem"` // "vfs" or "blockdev"
	Prefix    string    `json:"prefix,omitempty"`
	Token     string    `json:"token,omitempty"`
}

// Log is a durable, append-only event log. The zero value is invalid;
// use Open.
type Log struct {
	db *bolt.DB
}

// Open creates or opens the audit database under rootDir.
func Open(rootDir string) (*Log, error) {
	if err := os.MkdirAll(rootDir, 0700); err != nil {
		return nil, errors.Wrap(err, "create audit directory")
	}

	db, err := bolt.Open(filepath.Join(rootDir, databaseFileName), 0600, &bolt.Options{Timeout: 4 * time.Second})
	if err != nil {
		return nil, errors.Wrap(err, "open audit database")
	}

	l := &Log{db: db}
	if err := l.db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(eventsBucket)
		return err
	}); err != nil {
		return nil, errors.Wrap(err, "initialize audit database")
	}
	return l, nil
}

// Close releases the underlying database file.
func (l *Log) Close() error {
	return l.db.Close()
}

// append persists event under the bucket's next sequence number.
func (l *Log) append(kind, subsystem, prefix, token string) {
	event := Event{Time: time.Now(), Kind: kind, Subsystem: subsystem, Prefix: prefix, Token: token}

	_ = l.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(eventsBucket)
		seq, err := bucket.NextSequence()
		if err != nil {
			return err
		}
		event.Seq = seq

		value, err := json.Marshal(&event)
		if err != nil {
			return err
		}
		return bucket.Put(seqKey(seq), value)
	})
}

// Events returns every recorded event in sequence order.
func (l *Log) Events() ([]Event, error) {
	var out []Event
	err := l.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(eventsBucket)
		return bucket.ForEach(func(_, value []byte) error {
			var e Event
			if err := json.Unmarshal(value, &e); err != nil {
				return err
			}
			out = append(out, e)
			return nil
		})
	})
	return out, err
}

func seqKey(seq uint64) []byte {
	key := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		key[i] = byte(seq)
		seq >>= 8
	}
	return key
}
