// Package graph validates the dependency structure of a task list
// before it reaches the scheduler: duplicate IDs, references to unknown
// tasks, and dependency cycles are all rejected here with a concrete
// path rather than surfacing later as a scheduling deadlock.
package graph

import (
	"fmt"
	"sort"

	"github.com/DanielFS78/Calcular-tiempos-fabricacion/internal/schedule"
)

// Build constructs and validates the dependency graph of tasks.
func Build(tasks []*schedule.Task) (*TaskGraph, error) {
	g := &TaskGraph{
		Tasks:  make(map[string]*schedule.Task, len(tasks)),
		Adj:    make(map[string][]string),
		RevAdj: make(map[string][]string),
	}

	for _, t := range tasks {
		if _, dup := g.Tasks[t.ID]; dup {
			return nil, fmt.Errorf("duplicate task id %q", t.ID)
		}
		g.Tasks[t.ID] = t
		g.Order = append(g.Order, t.ID)
	}

	for _, t := range tasks {
		for _, dep := range t.Dependencies {
			if _, ok := g.Tasks[dep]; !ok {
				return nil, fmt.Errorf("task %q depends on unknown task %q", t.ID, dep)
			}
			g.Adj[dep] = append(g.Adj[dep], t.ID)
			g.RevAdj[t.ID] = append(g.RevAdj[t.ID], dep)
		}
	}

	for _, id := range g.Order {
		if len(g.RevAdj[id]) == 0 {
			g.Roots = append(g.Roots, id)
		}
		if len(g.Adj[id]) == 0 {
			g.Leaves = append(g.Leaves, id)
		}
	}

	if cycle := g.DetectCycle(); cycle != nil {
		return nil, fmt.Errorf("dependency cycle detected: %v", cycle)
	}
	return g, nil
}

// TaskCount returns the number of tasks in the graph.
func (g *TaskGraph) TaskCount() int { return len(g.Tasks) }

// DetectCycle returns a cycle path if one exists, or nil for a DAG.
// DFS with coloring: white (unvisited), gray (in progress), black (done).
func (g *TaskGraph) DetectCycle() []string {
	const (
		white = 0
		gray  = 1
		black = 2
	)

	color := make(map[string]int)
	parent := make(map[string]string)

	var dfs func(node string) []string
	dfs = func(node string) []string {
		color[node] = gray
		for _, next := range g.Adj[node] {
			if color[next] == gray {
				cycle := []string{next, node}
				cur := node
				for cur != next {
					cur = parent[cur]
					cycle = append(cycle, cur)
				}
				for i, j := 0, len(cycle)-1; i < j; i, j = i+1, j-1 {
					cycle[i], cycle[j] = cycle[j], cycle[i]
				}
				return cycle
			}
			if color[next] == white {
				parent[next] = node
				if cycle := dfs(next); cycle != nil {
					return cycle
				}
			}
		}
		color[node] = black
		return nil
	}

	for _, id := range g.Order {
		if color[id] == white {
			if cycle := dfs(id); cycle != nil {
				return cycle
			}
		}
	}
	return nil
}

// TopoSort returns the task IDs in dependency order (Kahn's algorithm),
// supplied order first among the ready set.
func (g *TaskGraph) TopoSort() ([]string, error) {
	inDegree := make(map[string]int, len(g.Tasks))
	position := make(map[string]int, len(g.Tasks))
	for i, id := range g.Order {
		inDegree[id] = len(g.RevAdj[id])
		position[id] = i
	}

	var queue []string
	for _, id := range g.Order {
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	var order []string
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		order = append(order, node)

		var newReady []string
		for _, succ := range g.Adj[node] {
			inDegree[succ]--
			if inDegree[succ] == 0 {
				newReady = append(newReady, succ)
			}
		}
		sort.Slice(newReady, func(i, j int) bool { return position[newReady[i]] < position[newReady[j]] })
		queue = append(queue, newReady...)
	}

	if len(order) != len(g.Tasks) {
		return nil, fmt.Errorf("topological sort failed: graph has a cycle (%d of %d tasks sorted)", len(order), len(g.Tasks))
	}
	return order, nil
}
