package store

import (
	"time"

	"github.com/andromeda/focus/internal/models"
)

// DB is the session storage interface used by the server.
type DB interface {
	// Categories returns every category ordered by id
	Categories() ([]models.Category, error)
	// SeedCategories inserts defaults if no category exists yet and returns
	// the resulting list
	SeedCategories(defaults []models.Category) ([]models.Category, error)
	// Category retrieves a single category
	Category(id int64) (*models.Category, error)
	// StartSession completes every ongoing session and opens a new one
	StartSession(categoryID int64, now time.Time) (*models.Session, error)
	// SetSessionStatus changes the status of an existing session
	SetSessionStatus(id int64, status models.Status) error
	// CompleteSession closes a session and records its duration in whole
	// minutes
	CompleteSession(id int64, notes string, now time.Time) (*models.Session, error)
	// Sessions returns the sessions started at or after since, newest first.
	// A zero since returns everything.
	Sessions(since time.Time) ([]models.Session, error)
	// Close ends the database connection
	Close() error
}
