package core

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/travis-tran03/leetcode-jar/internal/models"
)

const (
	// NoUsers is shown by the totals and day views when the user list is empty.
	NoUsers = "(no users)"

	ExportFileName = "jar_data_export.json"
	CSVFileName    = "jar_history.csv"
)

// TotalLine is one row of the totals view.
type TotalLine struct {
	User   string `json:"user"`
	Missed int    `json:"missed"`
}

// DayLine is one row of the per-date view. Status is "none" when unset.
type DayLine struct {
	User   string `json:"user"`
	Status string `json:"status"`
}

// HistoryRow is one flattened (date, user, status) entry.
type HistoryRow struct {
	Date   string        `json:"date"`
	User   string        `json:"user"`
	Status models.Status `json:"status"`
}

// TotalsView lists the missed totals in user-list order.
func TotalsView(state *models.TrackerState) []TotalLine {
	totals := ComputeTotals(state)
	lines := make([]TotalLine, 0, len(totals))
	if state == nil {
		return lines
	}
	for _, u := range state.Users {
		lines = append(lines, TotalLine{User: u, Missed: totals[u]})
	}
	return lines
}

// RenderTotals formats the totals view as "travis: $0  |  david: $1".
func RenderTotals(state *models.TrackerState) string {
	lines := TotalsView(state)
	if len(lines) == 0 {
		return NoUsers
	}
	parts := make([]string, 0, len(lines))
	for _, l := range lines {
		parts = append(parts, fmt.Sprintf("%s: $%d", l.User, l.Missed))
	}
	return strings.Join(parts, "  |  ")
}

// DayView reports every active user's status on date.
func DayView(state *models.TrackerState, date string) []DayLine {
	lines := []DayLine{}
	if state == nil {
		return lines
	}
	day := state.Entries[date]
	for _, u := range state.Users {
		status := models.StatusNone
		if s, ok := day[u]; ok {
			status = string(s)
		}
		lines = append(lines, DayLine{User: u, Status: status})
	}
	return lines
}

// RenderDay formats the day view as newline separated "user: status" pairs.
func RenderDay(state *models.TrackerState, date string) string {
	lines := DayView(state, date)
	if len(lines) == 0 {
		return NoUsers
	}
	parts := make([]string, 0, len(lines))
	for _, l := range lines {
		parts = append(parts, l.User+": "+l.Status)
	}
	return strings.Join(parts, "\n")
}

// HistoryRows flattens the entries. Dates sort ascending; within a date the
// active users come first in list order, then orphaned keys in ascending order.
func HistoryRows(state *models.TrackerState) []HistoryRow {
	rows := []HistoryRow{}
	if state == nil {
		return rows
	}
	dates := make([]string, 0, len(state.Entries))
	for d := range state.Entries {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	for _, d := range dates {
		day := state.Entries[d]
		emitted := make(map[string]struct{}, len(day))
		for _, u := range state.Users {
			if s, ok := day[u]; ok {
				rows = append(rows, HistoryRow{Date: d, User: u, Status: s})
				emitted[u] = struct{}{}
			}
		}
		var orphans []string
		for u := range day {
			if _, ok := emitted[u]; !ok {
				orphans = append(orphans, u)
			}
		}
		sort.Strings(orphans)
		for _, u := range orphans {
			rows = append(rows, HistoryRow{Date: d, User: u, Status: day[u]})
		}
	}
	return rows
}

// FilterHistory keeps the rows of one user. An empty user keeps everything.
func FilterHistory(rows []HistoryRow, user string) []HistoryRow {
	if user == "" {
		return rows
	}
	out := []HistoryRow{}
	for _, r := range rows {
		if r.User == user {
			out = append(out, r)
		}
	}
	return out
}

// RenderHistory formats rows as "2024-01-01  travis: missed" lines.
func RenderHistory(rows []HistoryRow) string {
	var b strings.Builder
	for i, r := range rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s  %s: %s", r.Date, r.User, r.Status)
	}
	return b.String()
}

// ExportCSV renders the history as CSV with a date,user,status header.
// Every cell is quoted and rows are joined with "\n".
func ExportCSV(state *models.TrackerState) string {
	lines := []string{csvLine("date", "user", "status")}
	for _, r := range HistoryRows(state) {
		lines = append(lines, csvLine(r.Date, r.User, string(r.Status)))
	}
	return strings.Join(lines, "\n")
}

func csvLine(cells ...string) string {
	quoted := make([]string, len(cells))
	for i, c := range cells {
		quoted[i] = `"` + strings.ReplaceAll(c, `"`, `""`) + `"`
	}
	return strings.Join(quoted, ",")
}

// ExportJSON returns the state as indented JSON, ready to be written to
// ExportFileName.
func ExportJSON(state *models.TrackerState) ([]byte, error) {
	if state == nil {
		state = models.NewState()
	}
	out := state.Clone()
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode export: %w", err)
	}
	return data, nil
}
