package reporter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/DanielFS78/Calcular-tiempos-fabricacion/internal/calendar"
	"github.com/DanielFS78/Calcular-tiempos-fabricacion/internal/schedule"
)

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse("2006-01-02T15:04", value)
	if err != nil {
		t.Fatalf("parse %q: %v", value, err)
	}
	return ts
}

func testReporter(t *testing.T) *Reporter {
	t.Helper()
	cal := calendar.New(calendar.Zaragoza2025())
	records := []schedule.Record{
		{
			TaskID: "T-0", Name: "(E) PCB-01", Department: schedule.Electronics,
			Start: mustTime(t, "2025-06-02T00:00"), End: mustTime(t, "2025-06-02T02:00"),
			WorkerType: 1, WorkerID: "ELE-T1-1", DurationMinutes: 120, WorkingDays: 1,
			Rationale: "worker ELE-T1-1 was available; no direct dependencies; began at the plan start date",
		},
		{
			TaskID: "T-1", Name: "(A) KIT-01", Department: schedule.Assembly,
			Start: mustTime(t, "2025-06-02T02:00"), End: mustTime(t, "2025-06-03T01:35"),
			WorkerType: 1, WorkerID: "ASM-T1-1", DurationMinutes: 525, WorkingDays: 1.07,
			Rationale: "worker ASM-T1-1 was available; started as dependencies (T-0) finished",
		},
	}
	return New(records, cal, 465, 3)
}

func TestSpan(t *testing.T) {
	r := testReporter(t)
	start, end, ok := r.Span()
	if !ok {
		t.Fatal("expected a span")
	}
	if !start.Equal(mustTime(t, "2025-06-02T00:00")) || !end.Equal(mustTime(t, "2025-06-03T01:35")) {
		t.Errorf("span = %v .. %v", start, end)
	}

	empty := New(nil, calendar.New(nil), 465, 1)
	if _, _, ok := empty.Span(); ok {
		t.Error("empty run should have no span")
	}
}

func TestDepartmentTotals(t *testing.T) {
	totals := testReporter(t).DepartmentTotals()
	if len(totals) != 2 {
		t.Fatalf("expected 2 departments, got %d", len(totals))
	}
	if totals[0].Department != schedule.Electronics || totals[0].Minutes != 120 {
		t.Errorf("first total = %+v, want Electronics with 120 min", totals[0])
	}
	if totals[0].Hours != 2 {
		t.Errorf("hours = %v, want 2", totals[0].Hours)
	}
	if totals[1].Workdays != 1.13 { // 525/465 rounded
		t.Errorf("workdays = %v, want 1.13", totals[1].Workdays)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := testReporter(t).WriteCSV(&buf); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "Task" || rows[0][8] != "Rationale" {
		t.Errorf("unexpected header: %v", rows[0])
	}
	if rows[1][1] != "Electronics" || rows[1][2] != "02-06-2025 00:00" {
		t.Errorf("unexpected first row: %v", rows[1])
	}
	if rows[2][6] != "525" {
		t.Errorf("duration cell = %q, want 525", rows[2][6])
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := testReporter(t).WriteJSON(&buf); err != nil {
		t.Fatalf("write json: %v", err)
	}

	var report struct {
		RunID           string            `json:"run_id"`
		Units           int               `json:"units"`
		TotalWorkdays   float64           `json:"total_working_days"`
		Departments     []DepartmentTotal `json:"departments"`
		Records         []schedule.Record `json:"records"`
		NonWorkingSpans []struct {
			From time.Time `json:"from"`
		} `json:"non_working_spans"`
	}
	if err := json.Unmarshal(buf.Bytes(), &report); err != nil {
		t.Fatalf("parse report: %v", err)
	}
	if report.RunID == "" {
		t.Error("run id missing")
	}
	if report.Units != 3 || len(report.Records) != 2 || len(report.Departments) != 2 {
		t.Errorf("unexpected report shape: units=%d records=%d departments=%d",
			report.Units, len(report.Records), len(report.Departments))
	}
	if report.TotalWorkdays != 1.07 {
		t.Errorf("total workdays = %v, want 1.07", report.TotalWorkdays)
	}
}

func TestPrintSummaryAndSchedule(t *testing.T) {
	r := testReporter(t)

	var summary bytes.Buffer
	r.PrintSummary(&summary)
	for _, want := range []string{"3 units", "02-06-2025 00:00", "Working days"} {
		if !strings.Contains(summary.String(), want) {
			t.Errorf("summary missing %q:\n%s", want, summary.String())
		}
	}

	var table bytes.Buffer
	r.PrintSchedule(&table)
	if !strings.Contains(table.String(), "(E) PCB-01") || !strings.Contains(table.String(), "ASM-T1-1") {
		t.Errorf("schedule table incomplete:\n%s", table.String())
	}

	var lanes bytes.Buffer
	r.PrintLanes(&lanes)
	if lanes.Len() == 0 {
		t.Error("lane view produced no output")
	}
}
