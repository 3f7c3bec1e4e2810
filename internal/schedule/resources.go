package schedule

import (
	"fmt"
	"sort"
	"strings"

	"github.com/DanielFS78/Calcular-tiempos-fabricacion/internal/calendar"
)

// Headcount configures how many workers of each type a department
// starts the run with: department -> worker type -> count.
type Headcount map[Department]map[int]int

type poolKey struct {
	dept       Department
	workerType int
}

// ResourceManager is the registry of worker pools for one scheduling
// run. Every worker belongs to exactly one pool at all times; transfers
// move workers, never copy them.
type ResourceManager struct {
	cal   *calendar.Calendar
	pools map[poolKey]*WorkerPool
}

// NewResourceManager builds one pool per (department, worker type)
// pair with a positive headcount. Worker IDs encode their origin, e.g.
// "MEC-T1-2" for the second type-1 worker of Mechanical.
func NewResourceManager(cal *calendar.Calendar, plan Headcount) *ResourceManager {
	rm := &ResourceManager{
		cal:   cal,
		pools: make(map[poolKey]*WorkerPool),
	}
	for dept, types := range plan {
		for workerType, count := range types {
			if count <= 0 {
				continue
			}
			workers := make([]*Worker, count)
			for i := range workers {
				workers[i] = &Worker{
					ID:         fmt.Sprintf("%s-T%d-%d", deptAbbrev(dept), workerType, i+1),
					Type:       workerType,
					Department: dept,
				}
			}
			rm.pools[poolKey{dept, workerType}] = NewWorkerPool(cal, dept, workerType, workers)
		}
	}
	return rm
}

func deptAbbrev(dept Department) string {
	if dept == Assembly {
		return "ASM"
	}
	s := strings.ToUpper(string(dept))
	if len(s) > 3 {
		s = s[:3]
	}
	return s
}

// Pool returns the pool for the pair, or nil when none was configured.
func (rm *ResourceManager) Pool(dept Department, workerType int) *WorkerPool {
	return rm.pools[poolKey{dept, workerType}]
}

// Pools returns every pool, ordered by department then worker type.
func (rm *ResourceManager) Pools() []*WorkerPool {
	keys := make([]poolKey, 0, len(rm.pools))
	for k := range rm.pools {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].dept != keys[j].dept {
			return keys[i].dept < keys[j].dept
		}
		return keys[i].workerType < keys[j].workerType
	})
	out := make([]*WorkerPool, len(keys))
	for i, k := range keys {
		out[i] = rm.pools[k]
	}
	return out
}

// Transfer moves up to count idle workers of the given type from one
// department's pool to another's, rewriting their department. It
// returns how many actually moved, which is less than count when the
// source has fewer idle workers, and zero when either pool is missing.
// Busy workers are never moved.
func (rm *ResourceManager) Transfer(from, to Department, workerType, count int) int {
	src := rm.Pool(from, workerType)
	dst := rm.Pool(to, workerType)
	if src == nil || dst == nil {
		return 0
	}

	moved := 0
	for moved < count {
		w := src.takeIdle()
		if w == nil {
			break
		}
		w.Department = to
		dst.addIdle(w)
		moved++
	}
	return moved
}
