package planner

import "github.com/DanielFS78/Calcular-tiempos-fabricacion/internal/schedule"

// WasteFactor pads every theoretical duration for setup, rework and
// handling losses observed on the shop floor.
const WasteFactor = 1.20

// PhaseOrder is the department sequence a kit moves through. Assembly
// work waits for the last Mechanical and Electronics tasks; Mechanical
// waits for the last Electronics task.
var PhaseOrder = []schedule.Department{
	schedule.Electronics,
	schedule.Mechanical,
	schedule.Assembly,
}

// SubStep is one step of a product that is built in stages. Steps run
// strictly in the order listed.
type SubStep struct {
	Description string
	Minutes     float64
	WorkerType  int
}

// Product is a catalogue entry: either a single timed operation or a
// sequence of sub-steps.
type Product struct {
	Code           string
	Description    string
	WorkerType     int
	OptimalMinutes float64
	SubSteps       []SubStep
}

// HasSubSteps reports whether the product is built in stages.
func (p Product) HasSubSteps() bool { return len(p.SubSteps) > 0 }

// DepartmentPlan is the ordered product sequence one department works
// through, with its configured headcount per worker type.
type DepartmentPlan struct {
	Department schedule.Department
	Workers    map[int]int // worker type -> headcount
	Products   []Product
}
