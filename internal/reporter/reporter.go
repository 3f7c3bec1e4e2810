// Package reporter renders a computed schedule for humans (summary,
// task table, day-lane view) and for downstream tools (CSV and JSON).
// It only reads the record list; pool and worker internals never leak
// past the opaque worker IDs.
package reporter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"

	"github.com/DanielFS78/Calcular-tiempos-fabricacion/internal/calendar"
	"github.com/DanielFS78/Calcular-tiempos-fabricacion/internal/schedule"
	"github.com/DanielFS78/Calcular-tiempos-fabricacion/internal/ui"
)

const stampLayout = "02-01-2006 15:04"

// maxLaneDays caps the width of the day-lane view.
const maxLaneDays = 60

// Reporter presents one finished scheduling run.
type Reporter struct {
	RunID          string
	CreatedAt      time.Time
	Units          int
	WorkdayMinutes float64
	Records        []schedule.Record

	cal *calendar.Calendar
}

// New wraps a record list for presentation. Records are expected in
// start order, as the scheduler returns them.
func New(records []schedule.Record, cal *calendar.Calendar, workdayMinutes float64, units int) *Reporter {
	return &Reporter{
		RunID:          uuid.NewString(),
		CreatedAt:      time.Now(),
		Units:          units,
		WorkdayMinutes: workdayMinutes,
		Records:        records,
		cal:            cal,
	}
}

// Span returns the project start and end, or ok=false for an empty run.
func (r *Reporter) Span() (start, end time.Time, ok bool) {
	if len(r.Records) == 0 {
		return time.Time{}, time.Time{}, false
	}
	start = r.Records[0].Start
	for _, rec := range r.Records {
		if rec.End.After(end) {
			end = rec.End
		}
	}
	return start, end, true
}

// PrintSummary writes the project header: units, span and total
// working days.
func (r *Reporter) PrintSummary(w io.Writer) {
	start, end, ok := r.Span()
	if !ok {
		fmt.Fprintln(w, ui.Yellow("no tasks were scheduled"))
		return
	}

	fmt.Fprintf(w, "%s %s\n", ui.BoldCyan("Production plan"), ui.Dim(fmt.Sprintf("(%d units)", r.Units)))
	fmt.Fprintf(w, "  %s %s\n", ui.Bold("Start:"), start.Format(stampLayout))
	fmt.Fprintf(w, "  %s   %s\n", ui.Bold("End:"), end.Format(stampLayout))
	fmt.Fprintf(w, "  %s %.2f\n\n", ui.Bold("Working days:"), r.cal.CountWorkingDays(start, end))

	for _, total := range r.DepartmentTotals() {
		fmt.Fprintf(w, "  %s  %s min  %s h  %s workdays\n",
			ui.Department(string(total.Department)),
			ui.Bold(formatFloat(total.Minutes)),
			formatFloat(total.Hours),
			formatFloat(total.Workdays))
	}
	fmt.Fprintln(w)
}

// PrintSchedule writes the task table in start order.
func (r *Reporter) PrintSchedule(w io.Writer) {
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
		ui.Bold("TASK"), ui.Bold("DEPT"), ui.Bold("START"), ui.Bold("END"),
		ui.Bold("WORKER"), ui.Bold("MIN"), ui.Bold("DAYS"))
	for _, rec := range r.Records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			rec.Name,
			ui.Department(string(rec.Department)),
			rec.Start.Format(stampLayout),
			rec.End.Format(stampLayout),
			rec.WorkerID,
			formatFloat(rec.DurationMinutes),
			formatFloat(rec.WorkingDays))
	}
	tw.Flush()
}

// PrintLanes writes one row per task with a day-by-day occupancy lane.
// Non-working days render dimmed so rest gaps are visible. Spans wider
// than maxLaneDays are truncated with a marker.
func (r *Reporter) PrintLanes(w io.Writer) {
	start, end, ok := r.Span()
	if !ok {
		return
	}

	first := dateOf(start)
	days := int(dateOf(end).Sub(first).Hours()/24) + 1
	truncated := false
	if days > maxLaneDays {
		days, truncated = maxLaneDays, true
	}

	// Header: day-of-month ruler.
	fmt.Fprintf(w, "%-28s ", "")
	for d := 0; d < days; d++ {
		day := first.AddDate(0, 0, d)
		if day.Day()%5 == 0 {
			fmt.Fprint(w, ui.Dim(strconv.Itoa(day.Day()%10)))
		} else {
			fmt.Fprint(w, ui.Dim("·"))
		}
	}
	fmt.Fprintln(w)

	for _, rec := range r.Records {
		name := rec.Name
		if len(name) > 26 {
			name = name[:25] + "…"
		}
		fmt.Fprintf(w, "%-28s ", name)
		for d := 0; d < days; d++ {
			dayStart := first.AddDate(0, 0, d)
			dayEnd := dayStart.AddDate(0, 0, 1)
			active := rec.Start.Before(dayEnd) && rec.End.After(dayStart)
			switch {
			case active && r.cal.IsWorkday(dayStart):
				fmt.Fprint(w, ui.DepartmentFunc(string(rec.Department))("█"))
			case active:
				fmt.Fprint(w, ui.Dim("█"))
			case !r.cal.IsWorkday(dayStart):
				fmt.Fprint(w, ui.Dim("░"))
			default:
				fmt.Fprint(w, " ")
			}
		}
		fmt.Fprintln(w)
	}
	if truncated {
		fmt.Fprintln(w, ui.Yellow(fmt.Sprintf("(lane view truncated to %d days)", maxLaneDays)))
	}
}

// DepartmentTotal aggregates one department's share of the plan.
type DepartmentTotal struct {
	Department schedule.Department `json:"department"`
	Minutes    float64             `json:"minutes"`
	Hours      float64             `json:"hours"`
	Workdays   float64             `json:"workdays"`
}

// DepartmentTotals sums durations per department, in first-appearance
// order, with hour and workday conversions like the exported report.
func (r *Reporter) DepartmentTotals() []DepartmentTotal {
	index := make(map[schedule.Department]int)
	var totals []DepartmentTotal
	for _, rec := range r.Records {
		i, ok := index[rec.Department]
		if !ok {
			i = len(totals)
			index[rec.Department] = i
			totals = append(totals, DepartmentTotal{Department: rec.Department})
		}
		totals[i].Minutes += rec.DurationMinutes
	}
	for i := range totals {
		totals[i].Hours = round2(totals[i].Minutes / 60)
		totals[i].Workdays = round2(totals[i].Minutes / r.WorkdayMinutes)
	}
	return totals
}

// WriteCSV emits the detailed plan in the spreadsheet layout: one row
// per task plus a header.
func (r *Reporter) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	header := []string{"Task", "Department", "Start", "End", "Worker Type", "Worker", "Duration (min)", "Working Days", "Rationale"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, rec := range r.Records {
		row := []string{
			rec.Name,
			string(rec.Department),
			rec.Start.Format(stampLayout),
			rec.End.Format(stampLayout),
			strconv.Itoa(rec.WorkerType),
			rec.WorkerID,
			formatFloat(rec.DurationMinutes),
			formatFloat(rec.WorkingDays),
			rec.Rationale,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// jsonReport is the machine-readable result document.
type jsonReport struct {
	RunID           string              `json:"run_id"`
	CreatedAt       time.Time           `json:"created_at"`
	Units           int                 `json:"units"`
	WorkdayMinutes  float64             `json:"workday_minutes"`
	Start           *time.Time          `json:"start,omitempty"`
	End             *time.Time          `json:"end,omitempty"`
	TotalWorkdays   float64             `json:"total_working_days"`
	Departments     []DepartmentTotal   `json:"departments"`
	Records         []schedule.Record   `json:"records"`
	NonWorkingSpans []calendar.DateSpan `json:"non_working_spans,omitempty"`
}

// WriteJSON emits the full result, including the non-working spans a
// chart renderer needs to shade rest days.
func (r *Reporter) WriteJSON(w io.Writer) error {
	report := jsonReport{
		RunID:          r.RunID,
		CreatedAt:      r.CreatedAt,
		Units:          r.Units,
		WorkdayMinutes: r.WorkdayMinutes,
		Departments:    r.DepartmentTotals(),
		Records:        r.Records,
	}
	if start, end, ok := r.Span(); ok {
		report.Start, report.End = &start, &end
		report.TotalWorkdays = r.cal.CountWorkingDays(start, end)
		report.NonWorkingSpans = r.cal.NonWorkingSpans(start, end)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// formatFloat trims trailing zeros so whole minutes print bare.
func formatFloat(v float64) string {
	s := strconv.FormatFloat(round2(v), 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
