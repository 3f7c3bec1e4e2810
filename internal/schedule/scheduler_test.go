package schedule

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func runScheduler(t *testing.T, tasks []*Task, plan Headcount) ([]Record, error) {
	t.Helper()
	cal := testCalendar()
	rm := NewResourceManager(cal, plan)
	s := NewScheduler(tasks, rm, cal, mustTime(t, "2025-06-02T00:00"), 465, discardLogger())
	return s.Run()
}

func TestRun_SingleWorkerSequential(t *testing.T) {
	tasks := []*Task{
		{ID: "T-0", Name: "first", DurationMinutes: 465, Department: Assembly, WorkerType: 1},
		{ID: "T-1", Name: "second", DurationMinutes: 60, Department: Assembly, WorkerType: 1},
	}
	records, err := runScheduler(t, tasks, Headcount{Assembly: {1: 1}})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	// Tie on the earliest start resolves to the first-supplied task.
	if records[0].TaskID != "T-0" {
		t.Errorf("first record is %s, want T-0", records[0].TaskID)
	}
	if !records[1].Start.Equal(records[0].End) {
		t.Errorf("second task start %v, want first task end %v", records[1].Start, records[0].End)
	}
	if records[0].WorkerID != records[1].WorkerID {
		t.Error("a single-worker pool must serialize onto the same worker")
	}
}

func TestRun_DependenciesRespected(t *testing.T) {
	tasks := []*Task{
		{ID: "T-0", Name: "board", DurationMinutes: 120, Department: Electronics, WorkerType: 1},
		{ID: "T-1", Name: "frame", DurationMinutes: 240, Department: Mechanical, WorkerType: 1, Dependencies: []string{"T-0"}},
		{ID: "T-2", Name: "final", DurationMinutes: 60, Department: Assembly, WorkerType: 1, Dependencies: []string{"T-0", "T-1"}},
	}
	records, err := runScheduler(t, tasks, Headcount{
		Electronics: {1: 1}, Mechanical: {1: 1}, Assembly: {1: 1},
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	byID := make(map[string]Record)
	for _, r := range records {
		byID[r.TaskID] = r
	}
	for _, r := range records {
		if r.End.Before(r.Start) {
			t.Errorf("%s ends before it starts", r.TaskID)
		}
		if r.WorkingDays <= 0 {
			t.Errorf("%s has non-positive working days", r.TaskID)
		}
		if r.Rationale == "" {
			t.Errorf("%s has no rationale", r.TaskID)
		}
	}
	for _, tk := range tasks {
		for _, dep := range tk.Dependencies {
			if byID[dep].End.After(byID[tk.ID].Start) {
				t.Errorf("%s starts at %v before dependency %s ends at %v",
					tk.ID, byID[tk.ID].Start, dep, byID[dep].End)
			}
		}
	}
	for i := 1; i < len(records); i++ {
		if records[i].Start.Before(records[i-1].Start) {
			t.Error("records are not ordered by start time")
		}
	}
}

func TestRun_WorkerIntervalsNeverOverlap(t *testing.T) {
	var tasks []*Task
	for _, id := range []string{"T-0", "T-1", "T-2", "T-3", "T-4"} {
		tasks = append(tasks, &Task{
			ID: id, Name: id, DurationMinutes: 400, Department: Mechanical, WorkerType: 1,
		})
	}
	records, err := runScheduler(t, tasks, Headcount{Mechanical: {1: 2}})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	perWorker := make(map[string][]Record)
	for _, r := range records {
		perWorker[r.WorkerID] = append(perWorker[r.WorkerID], r)
	}
	if len(perWorker) != 2 {
		t.Fatalf("expected work spread over 2 workers, got %d", len(perWorker))
	}
	for worker, rs := range perWorker {
		for i := 1; i < len(rs); i++ {
			if rs[i].Start.Before(rs[i-1].End) {
				t.Errorf("worker %s has overlapping intervals: %v-%v then %v-%v",
					worker, rs[i-1].Start, rs[i-1].End, rs[i].Start, rs[i].End)
			}
		}
	}
}

func TestRun_GlobalStartRespected(t *testing.T) {
	tasks := []*Task{
		{ID: "T-0", Name: "only", DurationMinutes: 60, Department: Assembly, WorkerType: 1},
	}
	records, err := runScheduler(t, tasks, Headcount{Assembly: {1: 1}})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if want := mustTime(t, "2025-06-02T00:00"); !records[0].Start.Equal(want) {
		t.Errorf("start = %v, want the plan start %v", records[0].Start, want)
	}
}

func TestRun_MissingPoolIsFatal(t *testing.T) {
	tasks := []*Task{
		{ID: "T-0", Name: "orphan", DurationMinutes: 60, Department: Electronics, WorkerType: 7},
	}
	_, err := runScheduler(t, tasks, Headcount{Electronics: {1: 1}})
	var mpe *MissingPoolError
	if !errors.As(err, &mpe) {
		t.Fatalf("expected MissingPoolError, got %v", err)
	}
	if mpe.Department != Electronics || mpe.WorkerType != 7 || mpe.TaskID != "T-0" {
		t.Errorf("error does not name the missing pool: %+v", mpe)
	}
}

func TestRun_CircularDependenciesDeadlock(t *testing.T) {
	tasks := []*Task{
		{ID: "T-0", Name: "a", DurationMinutes: 60, Department: Assembly, WorkerType: 1, Dependencies: []string{"T-1"}},
		{ID: "T-1", Name: "b", DurationMinutes: 60, Department: Assembly, WorkerType: 1, Dependencies: []string{"T-0"}},
	}
	records, err := runScheduler(t, tasks, Headcount{Assembly: {1: 1}})
	var dle *DeadlockError
	if !errors.As(err, &dle) {
		t.Fatalf("expected DeadlockError, got %v", err)
	}
	if len(dle.Pending) != 2 {
		t.Errorf("pending = %v, want both tasks", dle.Pending)
	}
	if len(records) != 0 {
		t.Errorf("no task should have been committed, got %d records", len(records))
	}
}

func TestRun_PartialScheduleOnDeadlock(t *testing.T) {
	tasks := []*Task{
		{ID: "T-0", Name: "ok", DurationMinutes: 60, Department: Assembly, WorkerType: 1},
		{ID: "T-1", Name: "stuck", DurationMinutes: 60, Department: Assembly, WorkerType: 1, Dependencies: []string{"ghost"}},
	}
	records, err := runScheduler(t, tasks, Headcount{Assembly: {1: 1}})
	var dle *DeadlockError
	if !errors.As(err, &dle) {
		t.Fatalf("expected DeadlockError, got %v", err)
	}
	if len(records) != 1 || records[0].TaskID != "T-0" {
		t.Errorf("expected the schedulable task in the partial result, got %v", records)
	}
}

func TestRun_WeekendGapInAssignment(t *testing.T) {
	// Friday June 6; 465 min fill the day, the next task lands on Monday.
	cal := testCalendar()
	rm := NewResourceManager(cal, Headcount{Assembly: {1: 1}})
	tasks := []*Task{
		{ID: "T-0", Name: "friday", DurationMinutes: 465, Department: Assembly, WorkerType: 1},
		{ID: "T-1", Name: "monday", DurationMinutes: 60, Department: Assembly, WorkerType: 1, Dependencies: []string{"T-0"}},
	}
	s := NewScheduler(tasks, rm, cal, mustTime(t, "2025-06-06T00:00"), 465, discardLogger())
	records, err := s.Run()
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if want := mustTime(t, "2025-06-06T07:45"); !records[0].End.Equal(want) {
		t.Errorf("friday task end = %v, want %v", records[0].End, want)
	}
	if want := mustTime(t, "2025-06-09T01:00"); !records[1].End.Equal(want) {
		t.Errorf("monday task end = %v, want %v", records[1].End, want)
	}
}

func TestRun_RationaleMentionsBindingConstraint(t *testing.T) {
	tasks := []*Task{
		{ID: "T-0", Name: "first", DurationMinutes: 465, Department: Assembly, WorkerType: 1},
		{ID: "T-1", Name: "second", DurationMinutes: 60, Department: Assembly, WorkerType: 1},
	}
	records, err := runScheduler(t, tasks, Headcount{Assembly: {1: 1}})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := records[0].Rationale; !strings.Contains(got, "plan start date") {
		t.Errorf("first task rationale %q should mention the plan start date", got)
	}
	if got := records[1].Rationale; !strings.Contains(got, "waited for") {
		t.Errorf("queued task rationale %q should mention waiting for the worker", got)
	}
}
