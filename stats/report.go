package stats

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pterm/pterm"

	"github.com/andromeda/focus/internal/models"
	"github.com/andromeda/focus/internal/timeutil"
	"github.com/andromeda/focus/internal/ui"
)

const barChartChar = "▇"

func formatMinutes(mins int) string {
	h, m := timeutil.MinsToHoursAndMins(mins)
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}

	return fmt.Sprintf("%dh %dm", h, m)
}

// getSummary renders the totals block.
func getSummary(s models.Stats) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", ui.Heading("Today"))
	fmt.Fprintf(&b, "Time logged: %s\n", ui.Value(formatMinutes(s.TodayMinutes)))
	fmt.Fprintln(&b, "Sessions completed:", ui.Value(s.TodaySessions))

	fmt.Fprintf(&b, "\n%s\n", ui.Heading("Last 7 days"))
	fmt.Fprintf(&b, "Time logged: %s\n", ui.Value(formatMinutes(s.WeekMinutes)))
	fmt.Fprintln(&b, "Sessions completed:", ui.Value(s.WeekSessions))

	fmt.Fprintf(&b, "\nFavorite category: %s\n", ui.Accent(s.FavoriteCategory))

	return b.String()
}

// getBarChart renders minutes per day, daily[len-1] being the day of now.
func getBarChart(daily []int, now time.Time) string {
	if len(daily) == 0 {
		return ""
	}

	header := ui.Heading("\nDaily breakdown (minutes)")

	bars := make(pterm.Bars, 0, len(daily))

	for i, mins := range daily {
		date := now.AddDate(0, 0, i-(len(daily)-1))

		bars = append(bars, pterm.Bar{
			Label: date.Format("Mon Jan 02"),
			Value: mins,
		})
	}

	chart, err := pterm.DefaultBarChart.WithHorizontalBarCharacter(barChartChar).
		WithHorizontal().
		WithShowValue().
		WithBars(bars).
		Srender()
	if err != nil {
		pterm.Error.Println(err)
		return ""
	}

	return header + chart
}

// Show prints the summary and a breakdown of the last week.
func Show(w io.Writer, s models.Stats, sessions []models.Session, now time.Time) {
	output := fmt.Sprint(
		getSummary(s),
		getBarChart(DailyMinutes(sessions, now, 7), now),
	)

	fmt.Fprintln(w, strings.TrimSpace(output))
}
