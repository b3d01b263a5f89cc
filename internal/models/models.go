// Package models holds the records exchanged between the session API client,
// the reference server and its store.
package models

import (
	"time"
)

// Status is the server side status of a tracked session.
type Status string

const (
	StatusOngoing   Status = "ongoing"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
)

// Filter restricts a session listing to a time window.
type Filter string

const (
	FilterToday Filter = "today"
	FilterWeek  Filter = "week"
	FilterMonth Filter = "month"
	FilterAll   Filter = "all"
)

// Category labels a work session.
type Category struct {
	CreatedAt time.Time `json:"created_at,omitzero"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	ID        int64     `json:"id"`
}

// Session is a tracked work session.
type Session struct {
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time,omitzero"`
	CategoryName string    `json:"category__name"`
	Status       Status    `json:"status"`
	Notes        string    `json:"notes"`
	ID           int64     `json:"id"`
	CategoryID   int64     `json:"category_id,omitempty"`
	// Duration is in whole minutes.
	Duration int `json:"duration"`
}

// Stats summarises completed sessions.
type Stats struct {
	FavoriteCategory string `json:"favorite_category"`
	TodayMinutes     int    `json:"today_minutes"`
	TodaySessions    int    `json:"today_sessions"`
	WeekMinutes      int    `json:"week_minutes"`
	WeekSessions     int    `json:"week_sessions"`
}

// SessionUpdate is pushed to connected clients after every session change.
type SessionUpdate struct {
	Type      string `json:"type"`
	Event     string `json:"event,omitempty"`
	SessionID int64  `json:"session_id,omitempty"`
}

// SessionUpdateType is the only push message type clients act on.
const SessionUpdateType = "session_update"
