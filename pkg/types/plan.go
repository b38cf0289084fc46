package types

import "fmt"

// Task status literals found in plan documents. Status is an open string:
// values outside this list are preserved as-is.
const (
	StatusToDo               = "to-do"
	StatusPending            = "pending"
	StatusInProgress         = "in-progress"
	StatusInProgressAlias    = "in-Progress"
	StatusCompleted          = "completed"
	StatusPartiallyCompleted = "partially-completed"
	StatusBlocked            = "blocked"
)

// Task priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// validPriorities is the set of recognized priority values.
var validPriorities = map[string]bool{
	PriorityLow:    true,
	PriorityMedium: true,
	PriorityHigh:   true,
}

// ValidPriority reports whether p is one of the priority constants.
func ValidPriority(p string) bool {
	return validPriorities[p]
}

// Plan is the persisted document of a feature project. It is read and
// written wholesale.
type Plan struct {
	ProjectName string  `json:"projectName,omitempty"`
	Description string  `json:"description,omitempty"`
	Phases      []Phase `json:"phases"`
	Extra       Extra   `json:"-"`
}

// Phase is a numbered stage of a Plan. PhaseNumber is unique within the
// Plan; Checklist order is display order.
type Phase struct {
	PhaseNumber int    `json:"phaseNumber"`
	Title       string `json:"title"`
	Status      string `json:"status"`
	Description string `json:"description"`
	Duration    string `json:"duration,omitempty"`
	Checklist   []Task `json:"checklist"`
	Extra       Extra  `json:"-"`
}

// Task is a single checklist item. ID is unique across the whole Plan.
type Task struct {
	ID          string `json:"id"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	Extra       Extra  `json:"-"`
}

// BoardTask is a Task flattened out of its Phase for display. Phase and
// PhaseNumber point back at the owning phase; the checklist still owns
// the task.
type BoardTask struct {
	Task
	Phase       string `json:"phase"`
	PhaseNumber int    `json:"phaseNumber"`
}

// Clone returns a deep copy of the plan. A nil plan clones to nil.
func (p *Plan) Clone() *Plan {
	if p == nil {
		return nil
	}
	out := &Plan{
		ProjectName: p.ProjectName,
		Description: p.Description,
		Extra:       p.Extra.Clone(),
	}
	if p.Phases != nil {
		out.Phases = make([]Phase, len(p.Phases))
		for i, ph := range p.Phases {
			out.Phases[i] = ph
			out.Phases[i].Extra = ph.Extra.Clone()
			if ph.Checklist != nil {
				out.Phases[i].Checklist = make([]Task, len(ph.Checklist))
				for j, t := range ph.Checklist {
					out.Phases[i].Checklist[j] = t
					out.Phases[i].Checklist[j].Extra = t.Extra.Clone()
				}
			}
		}
	}
	return out
}

// Phase returns the phase with the given number, or nil.
func (p *Plan) Phase(number int) *Phase {
	if p == nil {
		return nil
	}
	for i := range p.Phases {
		if p.Phases[i].PhaseNumber == number {
			return &p.Phases[i]
		}
	}
	return nil
}

// FindTask returns the task with the given id and the number of its phase.
func (p *Plan) FindTask(id string) (*Task, int, bool) {
	if p == nil {
		return nil, 0, false
	}
	for i := range p.Phases {
		for j := range p.Phases[i].Checklist {
			if p.Phases[i].Checklist[j].ID == id {
				return &p.Phases[i].Checklist[j], p.Phases[i].PhaseNumber, true
			}
		}
	}
	return nil, 0, false
}

// Validate checks the structural invariants the board relies on: phase
// numbers and task ids are unique and task ids are non-empty. Field
// contents are not checked.
func (p *Plan) Validate() error {
	if p == nil {
		return ErrInvalidPlan
	}
	phases := make(map[int]bool, len(p.Phases))
	ids := make(map[string]bool)
	for _, ph := range p.Phases {
		if phases[ph.PhaseNumber] {
			return fmt.Errorf("%w: %d", ErrDuplicatePhase, ph.PhaseNumber)
		}
		phases[ph.PhaseNumber] = true
		for _, t := range ph.Checklist {
			if t.ID == "" {
				return fmt.Errorf("%w: phase %d", ErrInvalidTaskID, ph.PhaseNumber)
			}
			if ids[t.ID] {
				return fmt.Errorf("%w: %s", ErrDuplicateTaskID, t.ID)
			}
			ids[t.ID] = true
		}
	}
	return nil
}
