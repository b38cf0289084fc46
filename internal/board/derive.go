package board

import "github.com/woolly-dev/woolly/pkg/types"

// DeriveTasks flattens the plan's checklists into one ordered list of
// tasks annotated with their phase. Phases are visited in document order
// and tasks in checklist order. When phase is non-nil only that phase
// contributes. The result is never nil.
func DeriveTasks(plan *types.Plan, phase *int) []types.BoardTask {
	tasks := []types.BoardTask{}
	if plan == nil {
		return tasks
	}
	for _, ph := range plan.Phases {
		if phase != nil && ph.PhaseNumber != *phase {
			continue
		}
		for _, t := range ph.Checklist {
			tasks = append(tasks, types.BoardTask{
				Task:        t,
				Phase:       ph.Title,
				PhaseNumber: ph.PhaseNumber,
			})
		}
	}
	return tasks
}
