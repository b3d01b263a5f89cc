package stats

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andromeda/focus/internal/models"
)

var now = time.Date(2024, 5, 10, 15, 0, 0, 0, time.UTC)

var sessions = []models.Session{
	{
		StartTime:    now.Add(-time.Hour),
		CategoryName: "Work",
		Status:       models.StatusCompleted,
		Duration:     25,
	},
	{
		StartTime:    now.Add(-2 * time.Hour),
		CategoryName: "Study",
		Status:       models.StatusCompleted,
		Duration:     50,
	},
	{
		StartTime:    now.Add(-30 * time.Minute),
		CategoryName: "Study",
		Status:       models.StatusOngoing,
	},
	{
		StartTime:    now.Add(-3 * 24 * time.Hour),
		CategoryName: "Work",
		Status:       models.StatusCompleted,
		Duration:     40,
	},
	{
		StartTime:    now.Add(-20 * 24 * time.Hour),
		CategoryName: "Reading",
		Status:       models.StatusCompleted,
		Duration:     15,
	},
}

func TestCompute(t *testing.T) {
	got := Compute(sessions, now)

	expected := models.Stats{
		TodayMinutes:     75,
		TodaySessions:    2,
		WeekMinutes:      115,
		WeekSessions:     3,
		FavoriteCategory: "Work",
	}

	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("Compute() mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeEmpty(t *testing.T) {
	got := Compute(nil, now)

	assert.Equal(t, "None", got.FavoriteCategory)
	assert.Zero(t, got.WeekSessions)
}

func TestFavoriteTie(t *testing.T) {
	assert.Equal(t, "Exercise", favorite(map[string]int{
		"Study":    2,
		"Exercise": 2,
		"Work":     1,
	}))
}

func TestParseFilter(t *testing.T) {
	testCases := []struct {
		Input    string
		Expected models.Filter
		Err      bool
	}{
		{"", models.FilterToday, false},
		{"week", models.FilterWeek, false},
		{"month", models.FilterMonth, false},
		{"all", models.FilterAll, false},
		{"year", "", true},
	}

	for _, tc := range testCases {
		got, err := ParseFilter(tc.Input)
		if tc.Err {
			require.ErrorIs(t, err, errInvalidFilter)
			continue
		}

		require.NoError(t, err)
		assert.Equal(t, tc.Expected, got)
	}
}

func TestSince(t *testing.T) {
	assert.Equal(t, time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC), Since(models.FilterToday, now))
	assert.Equal(t, now.Add(-7*24*time.Hour), Since(models.FilterWeek, now))
	assert.Equal(t, now.Add(-30*24*time.Hour), Since(models.FilterMonth, now))
	assert.True(t, Since(models.FilterAll, now).IsZero())
}

func TestDailyMinutes(t *testing.T) {
	got := DailyMinutes(sessions, now, 7)

	assert.Equal(t, []int{0, 0, 0, 40, 0, 0, 75}, got)
}

func TestShow(t *testing.T) {
	pterm.DisableColor()
	defer pterm.EnableColor()

	var buf bytes.Buffer

	Show(&buf, Compute(sessions, now), sessions, now)

	out := buf.String()
	assert.Contains(t, out, "Time logged: 1h 15m")
	assert.Contains(t, out, "Favorite category: Work")
	assert.Contains(t, out, "Daily breakdown (minutes)")
	assert.Contains(t, out, "Fri May 10")
}
