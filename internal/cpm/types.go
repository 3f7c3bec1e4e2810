package cpm

// Result holds the complete critical path analysis of a task list.
type Result struct {
	Tasks        map[string]*TaskTimes
	CriticalPath []string // ordered task IDs on the critical path
	TotalMinutes float64  // theoretical minimum with unlimited workers
	Waves        []Wave   // groups that could run in parallel
	TopoOrder    []string
}

// TaskTimes holds the analysis figures for one task, all in working
// minutes from the project start.
type TaskTimes struct {
	TaskID     string
	ES, EF     float64 // earliest start/finish
	LS, LF     float64 // latest start/finish
	Slack      float64
	IsCritical bool
	Wave       int
}

// Wave is a group of tasks with the same earliest start.
type Wave struct {
	Index      int
	TaskIDs    []string
	IsCritical bool
}
