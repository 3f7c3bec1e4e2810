package graph

import "github.com/DanielFS78/Calcular-tiempos-fabricacion/internal/schedule"

// TaskGraph is the dependency DAG over a flat task list.
type TaskGraph struct {
	Tasks  map[string]*schedule.Task
	Order  []string            // task IDs in the order supplied
	Adj    map[string][]string // task -> tasks that depend on it
	RevAdj map[string][]string // task -> its dependencies
	Roots  []string            // tasks with no dependencies
	Leaves []string            // tasks nothing depends on
}
