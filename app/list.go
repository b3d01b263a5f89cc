package app

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/maruel/natural"
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/andromeda/focus/internal/models"
	"github.com/andromeda/focus/internal/timeutil"
	"github.com/andromeda/focus/internal/ui"
	"github.com/andromeda/focus/stats"
)

const (
	noSessionsMsg   = "No sessions found for the specified time range"
	noCategoriesMsg = "No categories found"
	tableTimeFormat = "Jan 02, 2006 03:04 PM"
	maxNotesWidth   = 40
)

// sortCategories orders categories by name the way a person would.
func sortCategories(categories []models.Category) {
	slices.SortStableFunc(categories, func(a, b models.Category) int {
		switch {
		case natural.Less(a.Name, b.Name):
			return -1
		case natural.Less(b.Name, a.Name):
			return 1
		default:
			return 0
		}
	})
}

func printCategoriesTable(w io.Writer, categories []models.Category) error {
	rows := make([][]string, 0, len(categories))

	for _, c := range categories {
		rows = append(rows, []string{
			fmt.Sprintf("%d", c.ID),
			c.Name,
			c.Color,
		})
	}

	return ui.PrintTable(w, []string{"ID", "NAME", "COLOR"}, rows)
}

// categoriesAction lists the categories a session can be started in.
func categoriesAction(ctx *cli.Context) error {
	e, err := setup(ctx, false)
	if err != nil {
		return err
	}

	defer e.Close()

	client, err := e.client()
	if err != nil {
		return err
	}

	categories, err := client.Categories(ctx.Context)
	if err != nil {
		return err
	}

	sortCategories(categories)

	if ctx.Bool("json") {
		return printJSON(categories)
	}

	if len(categories) == 0 {
		pterm.Info.Println(noCategoriesMsg)
		return nil
	}

	return printCategoriesTable(os.Stdout, categories)
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")

	r := []rune(s)
	if len(r) <= n {
		return s
	}

	return string(r[:n-1]) + "…"
}

// printSessionsTable prints a session table to the command-line.
func printSessionsTable(w io.Writer, sessions []models.Session) error {
	rows := make([][]string, len(sessions))

	for i := range sessions {
		sess := sessions[i]

		endDate := sess.EndTime.Format(tableTimeFormat)
		if sess.EndTime.IsZero() {
			endDate = ""
		}

		hrs, mins := timeutil.MinsToHoursAndMins(sess.Duration)

		rows[i] = []string{
			fmt.Sprintf("%d", i+1),
			sess.StartTime.Format(tableTimeFormat),
			endDate,
			sess.CategoryName,
			fmt.Sprintf("%dh %dm", hrs, mins),
			ui.SessionStatus(sess.Status),
			truncate(sess.Notes, maxNotesWidth),
		}
	}

	header := []string{"#", "START DATE", "END DATE", "CATEGORY", "DURATION", "STATUS", "NOTES"}

	return ui.PrintTable(w, header, rows)
}

// filterSince drops the sessions started before since. A zero since keeps
// everything.
func filterSince(sessions []models.Session, since time.Time) []models.Session {
	if since.IsZero() {
		return sessions
	}

	return slices.DeleteFunc(sessions, func(s models.Session) bool {
		return s.StartTime.Before(since)
	})
}

// sessionsAction lists the sessions recorded within a time period.
func sessionsAction(ctx *cli.Context) error {
	e, err := setup(ctx, false)
	if err != nil {
		return err
	}

	defer e.Close()

	filter, err := stats.ParseFilter(e.cfg.CLI.Filter)
	if err != nil {
		return err
	}

	client, err := e.client()
	if err != nil {
		return err
	}

	sessions, err := client.Sessions(ctx.Context, filter)
	if err != nil {
		return err
	}

	sessions = filterSince(sessions, e.cfg.CLI.Since)

	if ctx.Bool("json") {
		return printJSON(sessions)
	}

	if len(sessions) == 0 {
		pterm.Info.Println(noSessionsMsg)
		return nil
	}

	return printSessionsTable(os.Stdout, sessions)
}
