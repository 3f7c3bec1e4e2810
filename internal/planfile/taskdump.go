package planfile

import (
	"fmt"
	"os"

	"github.com/tidwall/gjson"

	"github.com/DanielFS78/Calcular-tiempos-fabricacion/internal/schedule"
)

// LoadTaskDump reads a pre-decomposed flat task list from the legacy
// JSON dump format: an array of {id, name, duration_minutes,
// department, worker_type, dependencies}. Dumps in the wild carry
// extra fields and occasional nulls, so fields are picked out
// individually instead of unmarshalled into a rigid struct.
func LoadTaskDump(path string) ([]*schedule.Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read task dump: %w", err)
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%s is not valid JSON", path)
	}

	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return nil, fmt.Errorf("%s: expected a JSON array of tasks", path)
	}

	var tasks []*schedule.Task
	var fail error
	root.ForEach(func(_, item gjson.Result) bool {
		id := item.Get("id").String()
		if id == "" {
			fail = fmt.Errorf("task %d has no id", len(tasks))
			return false
		}
		duration := item.Get("duration_minutes").Float()
		if duration <= 0 {
			fail = fmt.Errorf("task %s: duration_minutes must be positive", id)
			return false
		}
		workerType := int(item.Get("worker_type").Int())
		if workerType <= 0 {
			fail = fmt.Errorf("task %s: worker_type must be positive", id)
			return false
		}

		task := &schedule.Task{
			ID:              id,
			Name:            item.Get("name").String(),
			DurationMinutes: duration,
			Department:      schedule.Department(item.Get("department").String()),
			WorkerType:      workerType,
		}
		if task.Name == "" {
			task.Name = id
		}
		for _, dep := range item.Get("dependencies").Array() {
			task.Dependencies = append(task.Dependencies, dep.String())
		}
		tasks = append(tasks, task)
		return true
	})
	if fail != nil {
		return nil, fmt.Errorf("%s: %w", path, fail)
	}
	if len(tasks) == 0 {
		return nil, fmt.Errorf("%s: no tasks in dump", path)
	}
	return tasks, nil
}
