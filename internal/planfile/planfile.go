// Package planfile loads and validates plan documents: the YAML file
// describing a production order (units, start date, per-department
// worker counts and product sequences, optional transfer) and the
// legacy JSON task-dump format. Precedence is defaults < file; the CLI
// overlays its flags on top.
package planfile

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/DanielFS78/Calcular-tiempos-fabricacion/internal/calendar"
	"github.com/DanielFS78/Calcular-tiempos-fabricacion/internal/planner"
	"github.com/DanielFS78/Calcular-tiempos-fabricacion/internal/schedule"
)

// DefaultWorkdayMinutes is the theoretical working capacity of one day.
const DefaultWorkdayMinutes = 465

const dateLayout = "2006-01-02"

// PlanFile is the on-disk shape of a production order.
type PlanFile struct {
	Units             int      `yaml:"units"`
	StartDate         string   `yaml:"start_date"`      // YYYY-MM-DD
	WorkdayMinutes    float64  `yaml:"workday_minutes"` // defaults to 465
	Holidays          []string `yaml:"holidays"`        // extra dates on top of the built-in calendar
	NoBuiltinHolidays bool     `yaml:"no_builtin_holidays"`

	Departments []DepartmentSection `yaml:"departments"`
	Transfer    *TransferSection    `yaml:"transfer"`
}

// DepartmentSection is one department's staffing and ordered work.
type DepartmentSection struct {
	Name     string           `yaml:"name"`
	Workers  map[int]int      `yaml:"workers"` // worker type -> headcount
	Products []ProductSection `yaml:"products"`
}

// ProductSection mirrors planner.Product.
type ProductSection struct {
	Code           string           `yaml:"code"`
	Description    string           `yaml:"description"`
	WorkerType     int              `yaml:"worker_type"`
	OptimalMinutes float64          `yaml:"optimal_minutes"`
	SubSteps       []SubStepSection `yaml:"sub_steps"`
}

// SubStepSection mirrors planner.SubStep.
type SubStepSection struct {
	Description string  `yaml:"description"`
	Minutes     float64 `yaml:"minutes"`
	WorkerType  int     `yaml:"worker_type"`
}

// TransferSection requests a one-shot worker reallocation applied
// before the scheduling loop starts.
type TransferSection struct {
	From    string      `yaml:"from"`
	To      string      `yaml:"to"`
	Workers map[int]int `yaml:"workers"` // worker type -> count
}

// Load reads, defaults and validates a plan file.
func Load(path string) (*PlanFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan: %w", err)
	}

	pf := &PlanFile{WorkdayMinutes: DefaultWorkdayMinutes}
	if err := yaml.Unmarshal(data, pf); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if pf.WorkdayMinutes == 0 {
		pf.WorkdayMinutes = DefaultWorkdayMinutes
	}
	if err := pf.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return pf, nil
}

func (pf *PlanFile) validate() error {
	if pf.Units <= 0 {
		return fmt.Errorf("units must be positive, got %d", pf.Units)
	}
	if _, err := time.Parse(dateLayout, pf.StartDate); err != nil {
		return fmt.Errorf("start_date %q is not a YYYY-MM-DD date", pf.StartDate)
	}
	if pf.WorkdayMinutes <= 0 || pf.WorkdayMinutes > 24*60 {
		return fmt.Errorf("workday_minutes %v out of range (0, 1440]", pf.WorkdayMinutes)
	}
	for _, h := range pf.Holidays {
		if _, err := time.Parse(dateLayout, h); err != nil {
			return fmt.Errorf("holiday %q is not a YYYY-MM-DD date", h)
		}
	}
	if len(pf.Departments) == 0 {
		return fmt.Errorf("at least one department is required")
	}
	for _, dept := range pf.Departments {
		if dept.Name == "" {
			return fmt.Errorf("department without a name")
		}
		for workerType, count := range dept.Workers {
			if workerType <= 0 {
				return fmt.Errorf("department %s: worker type %d must be positive", dept.Name, workerType)
			}
			if count < 0 {
				return fmt.Errorf("department %s: negative headcount for type %d", dept.Name, workerType)
			}
		}
		for _, p := range dept.Products {
			if p.Code == "" {
				return fmt.Errorf("department %s: product without a code", dept.Name)
			}
			if len(p.SubSteps) == 0 {
				if p.OptimalMinutes <= 0 {
					return fmt.Errorf("product %s: optimal_minutes must be positive", p.Code)
				}
				if p.WorkerType <= 0 {
					return fmt.Errorf("product %s: worker_type must be positive", p.Code)
				}
			}
			for _, sub := range p.SubSteps {
				if sub.Minutes <= 0 {
					return fmt.Errorf("product %s, step %q: minutes must be positive", p.Code, sub.Description)
				}
				if sub.WorkerType <= 0 {
					return fmt.Errorf("product %s, step %q: worker_type must be positive", p.Code, sub.Description)
				}
			}
		}
	}
	if tr := pf.Transfer; tr != nil {
		if tr.From == "" || tr.To == "" {
			return fmt.Errorf("transfer needs both from and to departments")
		}
		for workerType, count := range tr.Workers {
			if count < 0 {
				return fmt.Errorf("transfer: negative count for worker type %d", workerType)
			}
		}
	}
	return nil
}

// Start returns the plan start at midnight.
func (pf *PlanFile) Start() time.Time {
	t, _ := time.Parse(dateLayout, pf.StartDate)
	return t
}

// Calendar builds the working calendar: the built-in holiday set
// (unless disabled) merged with the plan's extra dates.
func (pf *PlanFile) Calendar() *calendar.Calendar {
	holidays := calendar.HolidaySet{}
	if !pf.NoBuiltinHolidays {
		holidays = calendar.Zaragoza2025()
	}
	holidays.Merge(calendar.NewHolidaySet(pf.Holidays...))
	return calendar.New(holidays)
}

// DepartmentPlans converts the file sections into planner input,
// preserving the file order.
func (pf *PlanFile) DepartmentPlans() []planner.DepartmentPlan {
	plans := make([]planner.DepartmentPlan, 0, len(pf.Departments))
	for _, dept := range pf.Departments {
		plan := planner.DepartmentPlan{
			Department: schedule.Department(dept.Name),
			Workers:    dept.Workers,
		}
		for _, p := range dept.Products {
			product := planner.Product{
				Code:           p.Code,
				Description:    p.Description,
				WorkerType:     p.WorkerType,
				OptimalMinutes: p.OptimalMinutes,
			}
			for _, sub := range p.SubSteps {
				product.SubSteps = append(product.SubSteps, planner.SubStep{
					Description: sub.Description,
					Minutes:     sub.Minutes,
					WorkerType:  sub.WorkerType,
				})
			}
			plan.Products = append(plan.Products, product)
		}
		plans = append(plans, plan)
	}
	return plans
}

// ApplyTransfer executes the plan's one-shot reallocation, if any,
// and returns how many workers moved per worker type.
func (pf *PlanFile) ApplyTransfer(rm *schedule.ResourceManager) map[int]int {
	if pf.Transfer == nil {
		return nil
	}
	moved := make(map[int]int)
	for workerType, count := range pf.Transfer.Workers {
		if count <= 0 {
			continue
		}
		moved[workerType] = rm.Transfer(
			schedule.Department(pf.Transfer.From),
			schedule.Department(pf.Transfer.To),
			workerType, count)
	}
	return moved
}
