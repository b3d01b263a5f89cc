package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/andromeda/focus/internal/models"
	"github.com/andromeda/focus/stats"
	"github.com/andromeda/focus/store"
)

func (s *Server) fail(c *gin.Context, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error(
			"request failed",
			slog.String("path", c.Request.URL.Path),
			slog.Any("error", err),
		)
	}

	c.JSON(status, gin.H{"error": err.Error()})
}

// categoryName resolves a category id through the name cache.
func (s *Server) categoryName(id int64) (string, error) {
	if id == 0 {
		return "", nil
	}

	if name, ok := s.names.Get(id); ok {
		return name, nil
	}

	cat, err := s.db.Category(id)
	if err != nil {
		return "", err
	}

	s.names.Add(id, cat.Name)

	return cat.Name, nil
}

func (s *Server) withCategoryNames(sessions []models.Session) []models.Session {
	for i := range sessions {
		name, err := s.categoryName(sessions[i].CategoryID)
		if err != nil {
			continue
		}

		sessions[i].CategoryName = name
	}

	return sessions
}

func (s *Server) announce(event string, id int64) {
	s.hub.Broadcast(models.SessionUpdate{
		Type:      models.SessionUpdateType,
		Event:     event,
		SessionID: id,
	})
}

func (s *Server) handleCategories(c *gin.Context) {
	cats, err := s.db.SeedCategories(DefaultCategories)
	if err != nil {
		s.fail(c, http.StatusInternalServerError, err)
		return
	}

	for _, cat := range cats {
		s.names.Add(cat.ID, cat.Name)
	}

	c.JSON(http.StatusOK, gin.H{"categories": cats})
}

type startRequest struct {
	CategoryID *int64 `json:"category_id"`
}

func (s *Server) handleStart(c *gin.Context) {
	var req startRequest

	err := c.ShouldBindJSON(&req)
	if err != nil {
		s.fail(c, http.StatusBadRequest, err)
		return
	}

	var (
		categoryID int64
		category   *string
	)

	if req.CategoryID != nil && *req.CategoryID != 0 {
		categoryID = *req.CategoryID

		name, err := s.categoryName(categoryID)
		if err != nil {
			if errors.Is(err, store.ErrCategoryNotFound) {
				s.fail(c, http.StatusBadRequest, err)
				return
			}

			s.fail(c, http.StatusInternalServerError, err)

			return
		}

		category = &name
	}

	sess, err := s.db.StartSession(categoryID, s.now())
	if err != nil {
		s.fail(c, http.StatusInternalServerError, err)
		return
	}

	s.metrics.sessionsStarted.Inc()
	s.announce("started", sess.ID)

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"session_id": sess.ID,
		"category":   category,
	})
}

func sessionID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": store.ErrSessionNotFound.Error()})
		return 0, false
	}

	return id, true
}

func (s *Server) handleStatus(status models.Status, event string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := sessionID(c)
		if !ok {
			return
		}

		err := s.db.SetSessionStatus(id, status)
		if err != nil {
			if errors.Is(err, store.ErrSessionNotFound) {
				s.fail(c, http.StatusNotFound, err)
				return
			}

			s.fail(c, http.StatusInternalServerError, err)

			return
		}

		s.announce(event, id)

		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

type completeRequest struct {
	Notes string `json:"notes"`
}

func (s *Server) handleComplete(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	var req completeRequest

	// an empty body means no notes
	if c.Request.ContentLength != 0 {
		err := c.ShouldBindJSON(&req)
		if err != nil {
			s.fail(c, http.StatusBadRequest, err)
			return
		}
	}

	sess, err := s.db.CompleteSession(id, req.Notes, s.now())
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			s.fail(c, http.StatusNotFound, err)
			return
		}

		s.fail(c, http.StatusInternalServerError, err)

		return
	}

	s.metrics.sessionsCompleted.Inc()
	s.metrics.sessionMinutes.Add(float64(sess.Duration))
	s.announce("completed", id)

	c.JSON(http.StatusOK, gin.H{"success": true, "duration": sess.Duration})
}

func (s *Server) handleSessions(c *gin.Context) {
	filter, err := stats.ParseFilter(c.Query("filter"))
	if err != nil {
		s.fail(c, http.StatusBadRequest, err)
		return
	}

	sessions, err := s.db.Sessions(stats.Since(filter, s.now()))
	if err != nil {
		s.fail(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"sessions": s.withCategoryNames(sessions)})
}

func (s *Server) handleStats(c *gin.Context) {
	sessions, err := s.db.Sessions(time.Time{})
	if err != nil {
		s.fail(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, stats.Compute(s.withCategoryNames(sessions), s.now()))
}
