package schedule

import (
	"fmt"
	"time"

	"github.com/DanielFS78/Calcular-tiempos-fabricacion/internal/calendar"
)

// WorkerPool owns the workers of one (department, worker type) pair.
// Every worker is either idle (FIFO order) or busy until a known
// timestamp, never both.
type WorkerPool struct {
	Department Department
	Type       int

	cal  *calendar.Calendar
	idle []*Worker
	busy map[string]busyWorker

	// scanOrder fixes the iteration order over busy workers so that
	// minimum-busy-until ties resolve the same way on every platform.
	scanOrder []string
}

type busyWorker struct {
	worker *Worker
	until  time.Time
}

// NewWorkerPool creates a pool over the given workers, idle in the
// order supplied.
func NewWorkerPool(cal *calendar.Calendar, dept Department, workerType int, workers []*Worker) *WorkerPool {
	p := &WorkerPool{
		Department: dept,
		Type:       workerType,
		cal:        cal,
		busy:       make(map[string]busyWorker),
	}
	for _, w := range workers {
		p.idle = append(p.idle, w)
		p.scanOrder = append(p.scanOrder, w.ID)
	}
	return p
}

// Size returns the total number of workers known to the pool.
func (p *WorkerPool) Size() int { return len(p.idle) + len(p.busy) }

// IdleCount returns how many workers are currently unassigned.
func (p *WorkerPool) IdleCount() int { return len(p.idle) }

// AvailabilityOf returns when the named worker becomes free. Idle and
// unknown workers are available from the zero time.
func (p *WorkerPool) AvailabilityOf(workerID string) time.Time {
	if b, ok := p.busy[workerID]; ok {
		return b.until
	}
	return time.Time{}
}

// EarliestAvailable returns the worker that can start soonest and the
// moment it becomes free. An idle worker wins with the zero time
// (immediately available); otherwise the busy worker with the smallest
// busy-until timestamp is returned, first-registered winning ties.
// A pool with no workers returns nil.
func (p *WorkerPool) EarliestAvailable() (time.Time, *Worker) {
	if len(p.idle) > 0 {
		return time.Time{}, p.idle[0]
	}
	var best *Worker
	var bestAt time.Time
	for _, id := range p.scanOrder {
		b, ok := p.busy[id]
		if !ok {
			continue
		}
		if best == nil || b.until.Before(bestAt) {
			best, bestAt = b.worker, b.until
		}
	}
	if best == nil {
		return time.Time{}, nil
	}
	return bestAt, best
}

// Assign picks the earliest-available worker, starts it no earlier
// than desiredStart and its own busy-until time, and books it until
// the working-time end of the task. It fails only when the pool has no
// workers at all, which is a configuration error on the caller's side.
func (p *WorkerPool) Assign(desiredStart time.Time, durationMinutes, workdayMinutes float64) (*Worker, time.Time, time.Time, error) {
	var worker *Worker
	availableAt := time.Time{}

	if len(p.idle) > 0 {
		worker = p.idle[0]
		p.idle = p.idle[1:]
	} else {
		at, w := p.EarliestAvailable()
		if w == nil {
			return nil, time.Time{}, time.Time{}, fmt.Errorf("pool %s/T%d has no workers", p.Department, p.Type)
		}
		worker, availableAt = w, at
		delete(p.busy, w.ID)
	}

	start := desiredStart
	if availableAt.After(start) {
		start = availableAt
	}
	end := p.cal.AddWorkingMinutes(start, durationMinutes, workdayMinutes)
	p.busy[worker.ID] = busyWorker{worker: worker, until: end}
	return worker, start, end, nil
}

// takeIdle removes and returns the oldest idle worker, or nil.
// Used by transfers; busy workers are never taken.
func (p *WorkerPool) takeIdle() *Worker {
	if len(p.idle) == 0 {
		return nil
	}
	w := p.idle[0]
	p.idle = p.idle[1:]
	for i, id := range p.scanOrder {
		if id == w.ID {
			p.scanOrder = append(p.scanOrder[:i], p.scanOrder[i+1:]...)
			break
		}
	}
	return w
}

// addIdle appends a worker to the idle queue.
func (p *WorkerPool) addIdle(w *Worker) {
	p.idle = append(p.idle, w)
	p.scanOrder = append(p.scanOrder, w.ID)
}
