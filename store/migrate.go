package store

import (
	"encoding/json"
	"strconv"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/andromeda/focus/internal/models"
)

const (
	schemaVersionKey = "schema_version"
	schemaVersion    = 1
)

// rekeySessions moves sessions keyed by their RFC3339 start time onto
// sequence ids so that cursor order stays chronological.
func rekeySessions(tx *bolt.Tx) error {
	bucket := tx.Bucket([]byte(sessionBucket))

	type legacy struct {
		key  []byte
		sess models.Session
	}

	var entries []legacy

	cur := bucket.Cursor()

	for k, v := cur.First(); k != nil; k, v = cur.Next() {
		if len(k) == 8 {
			continue
		}

		var s models.Session

		err := json.Unmarshal(v, &s)
		if err != nil {
			return err
		}

		if s.StartTime.IsZero() {
			s.StartTime, _ = time.Parse(time.RFC3339Nano, string(k))
		}

		entries = append(entries, legacy{
			key:  append([]byte(nil), k...),
			sess: s,
		})
	}

	for i := range entries {
		e := &entries[i]

		err := bucket.Delete(e.key)
		if err != nil {
			return err
		}

		id, err := bucket.NextSequence()
		if err != nil {
			return err
		}

		e.sess.ID = int64(id)

		if e.sess.Status == "" {
			e.sess.Status = models.StatusCompleted
		}

		err = putSession(bucket, &e.sess)
		if err != nil {
			return err
		}
	}

	return nil
}

func (c *Client) migrate(tx *bolt.Tx) error {
	meta := tx.Bucket([]byte(metaBucket))

	version, _ := strconv.Atoi(string(meta.Get([]byte(schemaVersionKey))))
	if version >= schemaVersion {
		return nil
	}

	err := rekeySessions(tx)
	if err != nil {
		return err
	}

	return meta.Put(
		[]byte(schemaVersionKey),
		[]byte(strconv.Itoa(schemaVersion)),
	)
}
