// Package store persists focus categories and sessions in BoltDB
package store

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/andromeda/focus/internal/apperr"
	"github.com/andromeda/focus/internal/models"
	"github.com/andromeda/focus/internal/osutil"
)

const (
	categoryBucket = "categories"
	sessionBucket  = "sessions"
	metaBucket     = "meta"
)

var (
	errServerRunning = &apperr.Error{
		Message: "is focus serve already running? Only one instance can use the database at a time",
	}

	ErrSessionNotFound = &apperr.Error{
		Message: "Session not found",
	}

	ErrCategoryNotFound = &apperr.Error{
		Message: "Category not found",
	}
)

// Client is a BoltDB database client.
type Client struct {
	*bolt.DB
}

func itob(v int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(v))

	return b
}

func (c *Client) Categories() ([]models.Category, error) {
	var categories []models.Category

	err := c.View(func(tx *bolt.Tx) error {
		var err error

		categories, err = readCategories(tx)

		return err
	})

	return categories, err
}

func readCategories(tx *bolt.Tx) ([]models.Category, error) {
	categories := []models.Category{}

	err := tx.Bucket([]byte(categoryBucket)).ForEach(func(_, v []byte) error {
		var cat models.Category

		err := json.Unmarshal(v, &cat)
		if err != nil {
			return err
		}

		categories = append(categories, cat)

		return nil
	})

	return categories, err
}

func (c *Client) SeedCategories(
	defaults []models.Category,
) ([]models.Category, error) {
	var categories []models.Category

	err := c.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(categoryBucket))

		if b.Stats().KeyN > 0 {
			var err error

			categories, err = readCategories(tx)

			return err
		}

		for _, d := range defaults {
			id, err := b.NextSequence()
			if err != nil {
				return err
			}

			cat := models.Category{
				ID:        int64(id),
				Name:      d.Name,
				Color:     d.Color,
				CreatedAt: time.Now(),
			}

			v, err := json.Marshal(cat)
			if err != nil {
				return err
			}

			err = b.Put(itob(cat.ID), v)
			if err != nil {
				return err
			}

			categories = append(categories, cat)
		}

		return nil
	})

	return categories, err
}

func (c *Client) Category(id int64) (*models.Category, error) {
	var cat models.Category

	err := c.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(categoryBucket)).Get(itob(id))
		if v == nil {
			return ErrCategoryNotFound
		}

		return json.Unmarshal(v, &cat)
	})
	if err != nil {
		return nil, err
	}

	return &cat, nil
}

func putSession(b *bolt.Bucket, sess *models.Session) error {
	v, err := json.Marshal(sess)
	if err != nil {
		return err
	}

	return b.Put(itob(sess.ID), v)
}

func getSession(b *bolt.Bucket, id int64) (*models.Session, error) {
	v := b.Get(itob(id))
	if v == nil {
		return nil, ErrSessionNotFound
	}

	var sess models.Session

	err := json.Unmarshal(v, &sess)
	if err != nil {
		return nil, err
	}

	return &sess, nil
}

func (c *Client) StartSession(
	categoryID int64,
	now time.Time,
) (*models.Session, error) {
	var sess *models.Session

	err := c.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(sessionBucket))

		// only one session may be ongoing at a time
		var ongoing []*models.Session

		err := b.ForEach(func(_, v []byte) error {
			var s models.Session

			err := json.Unmarshal(v, &s)
			if err != nil {
				return err
			}

			if s.Status == models.StatusOngoing {
				ongoing = append(ongoing, &s)
			}

			return nil
		})
		if err != nil {
			return err
		}

		for _, s := range ongoing {
			s.Status = models.StatusCompleted
			s.EndTime = now

			err = putSession(b, s)
			if err != nil {
				return err
			}
		}

		id, err := b.NextSequence()
		if err != nil {
			return err
		}

		sess = &models.Session{
			ID:         int64(id),
			CategoryID: categoryID,
			StartTime:  now,
			Status:     models.StatusOngoing,
		}

		return putSession(b, sess)
	})
	if err != nil {
		return nil, err
	}

	return sess, nil
}

func (c *Client) SetSessionStatus(id int64, status models.Status) error {
	return c.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(sessionBucket))

		sess, err := getSession(b, id)
		if err != nil {
			return err
		}

		sess.Status = status

		return putSession(b, sess)
	})
}

func (c *Client) CompleteSession(
	id int64,
	notes string,
	now time.Time,
) (*models.Session, error) {
	var sess *models.Session

	err := c.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(sessionBucket))

		var err error

		sess, err = getSession(b, id)
		if err != nil {
			return err
		}

		sess.Status = models.StatusCompleted
		sess.EndTime = now
		sess.Notes = notes
		sess.Duration = int(now.Sub(sess.StartTime).Minutes())

		return putSession(b, sess)
	})
	if err != nil {
		return nil, err
	}

	return sess, nil
}

func (c *Client) Sessions(since time.Time) ([]models.Session, error) {
	sessions := []models.Session{}

	err := c.View(func(tx *bolt.Tx) error {
		cur := tx.Bucket([]byte(sessionBucket)).Cursor()

		// ids grow with start time, so walk backwards and stop early
		for k, v := cur.Last(); k != nil; k, v = cur.Prev() {
			var sess models.Session

			err := json.Unmarshal(v, &sess)
			if err != nil {
				return err
			}

			if !since.IsZero() && sess.StartTime.Before(since) {
				break
			}

			sessions = append(sessions, sess)
		}

		return nil
	})

	return sessions, err
}

// openDB creates or opens a database and locks it.
func openDB(pathToDB string) (*bolt.DB, error) {
	db, err := bolt.Open(
		pathToDB,
		osutil.FilePermission,
		&bolt.Options{Timeout: 1 * time.Second},
	)
	if err != nil {
		// another process holds the file lock
		if errors.Is(err, bolt.ErrTimeout) {
			return nil, errServerRunning
		}

		return nil, err
	}

	return db, nil
}

// NewClient returns a wrapper to a BoltDB connection.
func NewClient(dbPath string) (*Client, error) {
	db, err := openDB(dbPath)
	if err != nil {
		return nil, err
	}

	c := &Client{db}

	// Create the necessary buckets for storing data if they do not exist already
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{categoryBucket, sessionBucket, metaBucket} {
			_, err := tx.CreateBucketIfNotExists([]byte(name))
			if err != nil {
				return err
			}
		}

		return c.migrate(tx)
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return c, nil
}

var _ DB = (*Client)(nil)
