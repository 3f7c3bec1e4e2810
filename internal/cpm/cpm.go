// Package cpm runs critical path analysis over a task dependency
// graph. The figures ignore worker capacity entirely: they are the
// lower bound a plan could reach with unlimited staff, shown next to
// the capacity-constrained schedule for review.
package cpm

import (
	"math"
	"sort"

	"github.com/DanielFS78/Calcular-tiempos-fabricacion/internal/graph"
)

const epsilon = 1e-9

// Analyze computes earliest/latest start and finish for every task in
// the graph, in working minutes from the project start.
func Analyze(g *graph.TaskGraph) (*Result, error) {
	order, err := g.TopoSort()
	if err != nil {
		return nil, err
	}

	result := &Result{
		Tasks:     make(map[string]*TaskTimes, len(order)),
		TopoOrder: order,
	}
	for _, id := range order {
		result.Tasks[id] = &TaskTimes{TaskID: id}
	}

	// Forward pass.
	for _, id := range order {
		tt := result.Tasks[id]
		for _, dep := range g.RevAdj[id] {
			if ef := result.Tasks[dep].EF; ef > tt.ES {
				tt.ES = ef
			}
		}
		tt.EF = tt.ES + g.Tasks[id].DurationMinutes
		if tt.EF > result.TotalMinutes {
			result.TotalMinutes = tt.EF
		}
	}

	// Backward pass in reverse topological order.
	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		tt := result.Tasks[id]

		if len(g.Adj[id]) == 0 {
			tt.LF = result.TotalMinutes
		} else {
			minLS := math.Inf(1)
			for _, succ := range g.Adj[id] {
				if ls := result.Tasks[succ].LS; ls < minLS {
					minLS = ls
				}
			}
			tt.LF = minLS
		}
		tt.LS = tt.LF - g.Tasks[id].DurationMinutes
		tt.Slack = tt.LS - tt.ES
		tt.IsCritical = tt.Slack < epsilon
	}

	for _, id := range order {
		if result.Tasks[id].IsCritical {
			result.CriticalPath = append(result.CriticalPath, id)
		}
	}

	result.Waves = computeWaves(result)
	return result, nil
}

// computeWaves groups tasks by their earliest start time.
func computeWaves(result *Result) []Wave {
	groups := make(map[float64][]string)
	for _, id := range result.TopoOrder {
		es := result.Tasks[id].ES
		groups[es] = append(groups[es], id)
	}

	starts := make([]float64, 0, len(groups))
	for es := range groups {
		starts = append(starts, es)
	}
	sort.Float64s(starts)

	waves := make([]Wave, len(starts))
	for i, es := range starts {
		ids := groups[es]
		hasCritical := false
		for _, id := range ids {
			result.Tasks[id].Wave = i
			if result.Tasks[id].IsCritical {
				hasCritical = true
			}
		}
		waves[i] = Wave{Index: i, TaskIDs: ids, IsCritical: hasCritical}
	}
	return waves
}
