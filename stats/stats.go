// Package stats summarises tracked focus sessions
package stats

import (
	"cmp"
	"math"
	"slices"
	"time"

	"github.com/andromeda/focus/internal/apperr"
	"github.com/andromeda/focus/internal/models"
	"github.com/andromeda/focus/internal/timeutil"
)

const (
	week  = 7 * 24 * time.Hour
	month = 30 * 24 * time.Hour

	noFavorite = "None"
)

var errInvalidFilter = &apperr.Error{
	Message: "invalid session filter %q: expected one of today, week, month or all",
}

// ParseFilter validates a session filter. An empty value means today.
func ParseFilter(s string) (models.Filter, error) {
	switch f := models.Filter(s); f {
	case "":
		return models.FilterToday, nil
	case models.FilterToday, models.FilterWeek, models.FilterMonth, models.FilterAll:
		return f, nil
	default:
		return "", errInvalidFilter.Fmt(s)
	}
}

// Since returns the earliest start time included by f. The zero time means
// no lower bound.
func Since(f models.Filter, now time.Time) time.Time {
	switch f {
	case models.FilterToday:
		return timeutil.RoundToStart(now)
	case models.FilterWeek:
		return now.Add(-week)
	case models.FilterMonth:
		return now.Add(-month)
	default:
		return time.Time{}
	}
}

// Compute derives the summary served on the stats endpoint. Only completed
// sessions count.
func Compute(sessions []models.Session, now time.Time) models.Stats {
	var s models.Stats

	today := timeutil.RoundToStart(now)
	weekAgo := now.Add(-week)
	counts := make(map[string]int)

	for i := range sessions {
		sess := &sessions[i]

		if sess.Status != models.StatusCompleted {
			continue
		}

		if !sess.StartTime.Before(today) && sess.StartTime.Before(today.AddDate(0, 0, 1)) {
			s.TodayMinutes += sess.Duration
			s.TodaySessions++
		}

		if !sess.StartTime.Before(weekAgo) {
			s.WeekMinutes += sess.Duration
			s.WeekSessions++
		}

		if sess.CategoryName != "" {
			counts[sess.CategoryName]++
		}
	}

	s.FavoriteCategory = favorite(counts)

	return s
}

// favorite returns the most used category. Ties go to the name that sorts
// first.
func favorite(counts map[string]int) string {
	if len(counts) == 0 {
		return noFavorite
	}

	type kv struct {
		name  string
		count int
	}

	list := make([]kv, 0, len(counts))
	for k, v := range counts {
		list = append(list, kv{k, v})
	}

	slices.SortFunc(list, func(a, b kv) int {
		if c := cmp.Compare(b.count, a.count); c != 0 {
			return c
		}

		return cmp.Compare(a.name, b.name)
	})

	return list[0].name
}

// DailyMinutes totals completed minutes per day for the days ending on now,
// oldest first.
func DailyMinutes(sessions []models.Session, now time.Time, days int) []int {
	totals := make([]int, days)
	start := timeutil.RoundToStart(now).AddDate(0, 0, -(days - 1))

	for i := range sessions {
		sess := &sessions[i]

		if sess.Status != models.StatusCompleted || sess.StartTime.Before(start) {
			continue
		}

		day := int(math.Round(
			timeutil.RoundToStart(sess.StartTime.In(now.Location())).Sub(start).Hours() / 24,
		))
		if day < 0 || day >= days {
			continue
		}

		totals[day] += sess.Duration
	}

	return totals
}
