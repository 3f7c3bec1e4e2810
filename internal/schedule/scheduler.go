package schedule

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/DanielFS78/Calcular-tiempos-fabricacion/internal/calendar"
)

// MissingPoolError reports a task that requires a (department, worker
// type) pool with no configured workers. The whole run aborts on it.
type MissingPoolError struct {
	TaskID     string
	Department Department
	WorkerType int
}

func (e *MissingPoolError) Error() string {
	return fmt.Sprintf("task %s requires pool %s/T%d, which has no configured workers",
		e.TaskID, e.Department, e.WorkerType)
}

// DeadlockError reports that pending tasks remain but none can ever
// become eligible, for example because their dependencies reference
// unknown tasks or form a cycle.
type DeadlockError struct {
	Pending []string
}

func (e *DeadlockError) Error() string {
	return fmt.Sprintf("no schedulable task among %d pending: %s",
		len(e.Pending), strings.Join(e.Pending, ", "))
}

// Scheduler places every task on the calendar with a greedy
// earliest-start loop. It is single-threaded and runs to completion in
// one call; concurrent what-if runs must each build their own
// ResourceManager.
type Scheduler struct {
	tasks          []*Task
	byID           map[string]*Task
	resources      *ResourceManager
	cal            *calendar.Calendar
	start          time.Time
	workdayMinutes float64
	log            *slog.Logger
}

// NewScheduler prepares a run over the given tasks. startDate's clock
// portion is discarded; the run begins at midnight of that date.
// Supplying the same slice order yields the same schedule: ties on the
// earliest candidate start go to the task supplied first.
func NewScheduler(tasks []*Task, rm *ResourceManager, cal *calendar.Calendar, startDate time.Time, workdayMinutes float64, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	y, m, d := startDate.Date()
	s := &Scheduler{
		tasks:          tasks,
		byID:           make(map[string]*Task, len(tasks)),
		resources:      rm,
		cal:            cal,
		start:          time.Date(y, m, d, 0, 0, 0, 0, startDate.Location()),
		workdayMinutes: workdayMinutes,
		log:            logger,
	}
	for i, t := range tasks {
		t.index = i
		s.byID[t.ID] = t
	}
	return s
}

// Run executes the scheduling loop until every task is committed or no
// further progress is possible. On a missing pool or a deadlock it
// returns the records committed so far together with the error, so the
// partial schedule stays available for diagnostics.
func (s *Scheduler) Run() ([]Record, error) {
	// A task that can never be scheduled aborts the run before any
	// placement happens. Upstream planners validate this too, but the
	// scheduler does not trust them.
	for _, t := range s.tasks {
		pool := s.resources.Pool(t.Department, t.WorkerType)
		if pool == nil || pool.Size() == 0 {
			return nil, &MissingPoolError{TaskID: t.ID, Department: t.Department, WorkerType: t.WorkerType}
		}
	}

	var records []Record
	for {
		best, bestStart := s.nextEligible()
		if best == nil {
			if pending := s.pendingIDs(); len(pending) > 0 {
				s.log.Error("scheduling deadlock", "pending", len(pending))
				return sortedByStart(records), &DeadlockError{Pending: pending}
			}
			break
		}

		pool := s.resources.Pool(best.Department, best.WorkerType)
		depsEnd, _ := s.dependenciesEnd(best)
		availableAt, _ := pool.EarliestAvailable()
		worker, start, end, err := pool.Assign(bestStart, best.DurationMinutes, s.workdayMinutes)
		if err != nil {
			// Unreachable after the pre-run check, but never silent.
			return sortedByStart(records), fmt.Errorf("assign %s: %w", best.ID, err)
		}

		best.result = &Assignment{
			Start:     start,
			End:       end,
			WorkerID:  worker.ID,
			Rationale: s.rationale(best, worker, start, depsEnd, availableAt),
		}
		records = append(records, Record{
			TaskID:          best.ID,
			Name:            best.Name,
			Department:      best.Department,
			Start:           start,
			End:             end,
			WorkerType:      best.WorkerType,
			WorkerID:        worker.ID,
			DurationMinutes: best.DurationMinutes,
			WorkingDays:     s.cal.CountWorkingDays(start, end),
			Rationale:       best.result.Rationale,
		})
		s.log.Debug("task scheduled",
			"task", best.ID,
			"worker", worker.ID,
			"start", start,
			"end", end)
	}

	s.log.Info("run complete", "tasks", len(records))
	return sortedByStart(records), nil
}

// nextEligible finds the pending task with the smallest candidate
// start across all pools. The candidate is the latest of the task's
// dependency end times, its pool's earliest worker availability, and
// the global start. Strict less-than keeps the first-supplied task on
// ties.
func (s *Scheduler) nextEligible() (*Task, time.Time) {
	var best *Task
	var bestStart time.Time

	for _, t := range s.tasks {
		if t.Scheduled() {
			continue
		}

		depsEnd, ok := s.dependenciesEnd(t)
		if !ok {
			continue
		}

		pool := s.resources.Pool(t.Department, t.WorkerType)
		availableAt, worker := pool.EarliestAvailable()
		if worker == nil {
			continue
		}

		candidate := maxTime(depsEnd, availableAt, s.start)
		switch {
		case best == nil || candidate.Before(bestStart):
			best, bestStart = t, candidate
		case candidate.Equal(bestStart) && t.index < best.index:
			// First-supplied task wins ties.
			best, bestStart = t, candidate
		}
	}
	return best, bestStart
}

// dependenciesEnd returns the latest end time among t's dependencies,
// or false while any of them is unscheduled or unknown.
func (s *Scheduler) dependenciesEnd(t *Task) (time.Time, bool) {
	var latest time.Time
	for _, depID := range t.Dependencies {
		dep, ok := s.byID[depID]
		if !ok || !dep.Scheduled() {
			return time.Time{}, false
		}
		if dep.result.End.After(latest) {
			latest = dep.result.End
		}
	}
	return latest, true
}

func (s *Scheduler) pendingIDs() []string {
	var ids []string
	for _, t := range s.tasks {
		if !t.Scheduled() {
			ids = append(ids, t.ID)
		}
	}
	return ids
}

// rationale explains which constraint fixed the task's start: worker
// availability, dependency completion, or the plan start date. Purely
// for human plan review.
func (s *Scheduler) rationale(t *Task, w *Worker, start, depsEnd, availableAt time.Time) string {
	var parts []string

	if start.Equal(availableAt) && availableAt.After(depsEnd) && availableAt.After(s.start) {
		parts = append(parts, fmt.Sprintf("waited for %s to finish its previous task", w.ID))
	} else {
		parts = append(parts, fmt.Sprintf("worker %s was available", w.ID))
	}

	if len(t.Dependencies) == 0 {
		parts = append(parts, "no direct dependencies")
	} else {
		switch {
		case start.Equal(depsEnd):
			parts = append(parts, fmt.Sprintf("started as dependencies (%s) finished", strings.Join(t.Dependencies, ", ")))
		default:
			parts = append(parts, fmt.Sprintf("dependencies (%s) had already finished", strings.Join(t.Dependencies, ", ")))
		}
	}

	if start.Equal(s.start) {
		parts = append(parts, "began at the plan start date")
	}
	return strings.Join(parts, "; ")
}

func maxTime(ts ...time.Time) time.Time {
	var out time.Time
	for _, t := range ts {
		if t.After(out) {
			out = t
		}
	}
	return out
}

func sortedByStart(records []Record) []Record {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Start.Before(records[j].Start)
	})
	return records
}
