// Package planner decomposes a production order into the flat,
// dependency-chained task list the scheduler consumes. Departments are
// chained by phase (Electronics before Mechanical before Assembly),
// tasks inside one department run strictly in the supplied order, and
// every duration is scaled by the waste factor and the unit count.
package planner

import (
	"fmt"

	"github.com/DanielFS78/Calcular-tiempos-fabricacion/internal/graph"
	"github.com/DanielFS78/Calcular-tiempos-fabricacion/internal/schedule"
)

// BuildTasks expands the per-department plans for the given number of
// units into scheduler tasks. The returned list is validated: IDs are
// unique, every dependency resolves, and the chain is acyclic.
func BuildTasks(plans []DepartmentPlan, units int) ([]*schedule.Task, error) {
	if units <= 0 {
		return nil, fmt.Errorf("units must be positive, got %d", units)
	}

	byDept := make(map[schedule.Department]DepartmentPlan, len(plans))
	for _, p := range plans {
		if _, dup := byDept[p.Department]; dup {
			return nil, fmt.Errorf("duplicate plan for department %s", p.Department)
		}
		byDept[p.Department] = p
	}

	var tasks []*schedule.Task
	counter := 0
	lastOfPhase := make(map[schedule.Department]string)

	for _, dept := range PhaseOrder {
		plan, ok := byDept[dept]
		if !ok {
			continue
		}

		lastInSequence := ""
		for _, product := range plan.Products {
			// Cross-department handoff applies to the first task a
			// product contributes; later tasks only chain locally.
			deps := phaseDependencies(dept, lastOfPhase)
			if lastInSequence != "" {
				deps = append(deps, lastInSequence)
			}

			if product.HasSubSteps() {
				first := true
				for _, sub := range product.SubSteps {
					current := deps
					if !first {
						current = []string{lastInSequence}
					}
					task := &schedule.Task{
						ID:              fmt.Sprintf("T-%d", counter),
						Name:            fmt.Sprintf("(%s) %s", product.Code, sub.Description),
						DurationMinutes: sub.Minutes * WasteFactor * float64(units),
						Department:      dept,
						WorkerType:      sub.WorkerType,
						Dependencies:    current,
					}
					tasks = append(tasks, task)
					lastInSequence = task.ID
					counter++
					first = false
				}
			} else {
				task := &schedule.Task{
					ID:              fmt.Sprintf("T-%d", counter),
					Name:            fmt.Sprintf("(%c) %s", dept[0], product.Code),
					DurationMinutes: product.OptimalMinutes * WasteFactor * float64(units),
					Department:      dept,
					WorkerType:      product.WorkerType,
					Dependencies:    deps,
				}
				tasks = append(tasks, task)
				lastInSequence = task.ID
				counter++
			}
		}
		if lastInSequence != "" {
			lastOfPhase[dept] = lastInSequence
		}
	}

	if _, err := graph.Build(tasks); err != nil {
		return nil, fmt.Errorf("invalid task chain: %w", err)
	}
	return tasks, nil
}

// phaseDependencies returns the upstream phase tails a department's
// first task must wait for.
func phaseDependencies(dept schedule.Department, lastOfPhase map[schedule.Department]string) []string {
	var deps []string
	switch dept {
	case schedule.Assembly:
		if id, ok := lastOfPhase[schedule.Mechanical]; ok {
			deps = append(deps, id)
		}
		if id, ok := lastOfPhase[schedule.Electronics]; ok {
			deps = append(deps, id)
		}
	case schedule.Mechanical:
		if id, ok := lastOfPhase[schedule.Electronics]; ok {
			deps = append(deps, id)
		}
	}
	return deps
}

// Headcount collects the configured worker counts of every department
// plan into the shape the resource manager expects.
func Headcount(plans []DepartmentPlan) schedule.Headcount {
	hc := make(schedule.Headcount, len(plans))
	for _, p := range plans {
		if len(p.Workers) == 0 {
			continue
		}
		types := make(map[int]int, len(p.Workers))
		for workerType, count := range p.Workers {
			types[workerType] = count
		}
		hc[p.Department] = types
	}
	return hc
}

// CheckCoverage verifies that every (department, worker type) pair the
// tasks require has a positive headcount, returning one error per
// missing pool.
func CheckCoverage(tasks []*schedule.Task, hc schedule.Headcount) []error {
	var errs []error
	seen := make(map[string]bool)
	for _, t := range tasks {
		key := fmt.Sprintf("%s/T%d", t.Department, t.WorkerType)
		if seen[key] {
			continue
		}
		seen[key] = true
		if hc[t.Department][t.WorkerType] <= 0 {
			errs = append(errs, fmt.Errorf("task %s requires %s, which has no workers configured", t.ID, key))
		}
	}
	return errs
}
