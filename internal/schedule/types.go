// Package schedule implements the resource-constrained production
// scheduler: worker pools tracked per department and worker type, and a
// greedy earliest-start loop that commits one task at a time against a
// working-day calendar.
package schedule

import (
	"fmt"
	"time"
)

// Department is a coarse work category that both tasks and worker
// pools are partitioned by. The planner uses the three below; the
// engine accepts any value that has a configured pool.
type Department string

const (
	Electronics Department = "Electronics"
	Mechanical  Department = "Mechanical"
	Assembly    Department = "Assembly"
)

// Task is a single unit of work to place on the schedule. Identity and
// requirements are set by the planner; the assignment is written
// exactly once by the Scheduler.
type Task struct {
	ID              string
	Name            string
	DurationMinutes float64
	Department      Department
	WorkerType      int
	Dependencies    []string

	// index records the position the task was supplied in, used to
	// break earliest-start ties reproducibly.
	index  int
	result *Assignment
}

// Assignment is the committed outcome for one task.
type Assignment struct {
	Start     time.Time
	End       time.Time
	WorkerID  string
	Rationale string
}

// Scheduled reports whether the task has been committed.
func (t *Task) Scheduled() bool { return t.result != nil }

// Result returns the committed assignment, or false while pending.
func (t *Task) Result() (Assignment, bool) {
	if t.result == nil {
		return Assignment{}, false
	}
	return *t.result, true
}

func (t *Task) String() string {
	return fmt.Sprintf("Task(%s, %s)", t.ID, t.Name)
}

// Worker is one member of a pool. Department is rewritten when the
// worker is transferred; the ID keeps its original spelling.
type Worker struct {
	ID         string
	Type       int
	Department Department
}

func (w *Worker) String() string {
	return fmt.Sprintf("Worker(%s)", w.ID)
}

// Record is the output unit of a scheduling run, one per task, ordered
// by start time in the final result list.
type Record struct {
	TaskID          string     `json:"task_id"`
	Name            string     `json:"name"`
	Department      Department `json:"department"`
	Start           time.Time  `json:"start"`
	End             time.Time  `json:"end"`
	WorkerType      int        `json:"worker_type"`
	WorkerID        string     `json:"worker_id"`
	DurationMinutes float64    `json:"duration_minutes"`
	WorkingDays     float64    `json:"working_days"`
	Rationale       string     `json:"rationale"`
}
