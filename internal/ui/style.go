// Package ui holds the terminal styling helpers shared by the CLI and
// the schedule reporter.
package ui

import "github.com/fatih/color"

// Sprint color functions for building styled strings.
var (
	Bold       = color.New(color.Bold).SprintFunc()
	Dim        = color.New(color.Faint).SprintFunc()
	Cyan       = color.New(color.FgCyan).SprintFunc()
	Green      = color.New(color.FgGreen).SprintFunc()
	Red        = color.New(color.FgRed).SprintFunc()
	Yellow     = color.New(color.FgYellow).SprintFunc()
	BoldCyan   = color.New(color.Bold, color.FgCyan).SprintFunc()
	BoldGreen  = color.New(color.Bold, color.FgGreen).SprintFunc()
	BoldRed    = color.New(color.Bold, color.FgRed).SprintFunc()
	BoldWhite  = color.New(color.Bold, color.FgWhite).SprintFunc()
	BoldYellow = color.New(color.Bold, color.FgYellow).SprintFunc()
)

// departmentColors is a palette of distinct bold colors for telling
// departments apart in the schedule table and the lane view.
var departmentColors = []func(a ...interface{}) string{
	BoldCyan,
	BoldYellow,
	BoldGreen,
	color.New(color.Bold, color.FgMagenta).SprintFunc(),
	color.New(color.Bold, color.FgHiBlue).SprintFunc(),
	color.New(color.Bold, color.FgHiRed).SprintFunc(),
}

// departmentColorIndex hashes a department name to a palette index.
func departmentColorIndex(name string) int {
	var h uint32
	for _, c := range name {
		h = h*31 + uint32(c)
	}
	return int(h % uint32(len(departmentColors)))
}

// Department returns the department name styled with its own color.
// Each name keeps the same color for the whole run.
func Department(name string) string {
	return DepartmentFunc(name)(name)
}

// DepartmentFunc returns the sprint function for a department's color,
// for painting things other than the name itself.
func DepartmentFunc(name string) func(a ...interface{}) string {
	return departmentColors[departmentColorIndex(name)]
}
