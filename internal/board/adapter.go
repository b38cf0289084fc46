package board

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/woolly-dev/woolly/pkg/types"
)

// Adapter maps a plan to board cards and maps edited cards back into a
// plan. Cards must be a pure function of the plan.
type Adapter interface {
	Cards(plan *types.Plan) []Card
	// Apply returns a new plan carrying the state of cards. The input plan
	// is not modified.
	Apply(plan *types.Plan, cards []Card) (*types.Plan, error)
}

// ChecklistAdapter shows checklist tasks as cards. With Phase set only
// that phase's tasks are shown and only that phase is rewritten.
type ChecklistAdapter struct {
	Phase *int
}

// Cards derives one card per task.
func (a ChecklistAdapter) Cards(plan *types.Plan) []Card {
	tasks := DeriveTasks(plan, a.Phase)
	cards := make([]Card, len(tasks))
	for i, t := range tasks {
		cards[i] = Card{
			ID:          t.ID,
			Status:      t.Status,
			Title:       t.Description,
			Category:    t.Category,
			Priority:    t.Priority,
			PhaseNumber: t.PhaseNumber,
			Phase:       t.Phase,
		}
	}
	return cards
}

// Apply regroups cards into the checklists of their phases by phase
// number, keeping card order. Alias statuses are written in canonical
// form.
func (a ChecklistAdapter) Apply(plan *types.Plan, cards []Card) (*types.Plan, error) {
	if plan == nil {
		return nil, types.ErrInvalidPlan
	}
	out := plan.Clone()
	extras := make(map[string]types.Extra)
	for _, ph := range out.Phases {
		for _, t := range ph.Checklist {
			extras[t.ID] = t.Extra
		}
	}
	grouped := make(map[int][]types.Task, len(out.Phases))
	for _, c := range cards {
		if out.Phase(c.PhaseNumber) == nil {
			return nil, fmt.Errorf("card %s: phase %d: %w", c.ID, c.PhaseNumber, types.ErrInvalidPlan)
		}
		grouped[c.PhaseNumber] = append(grouped[c.PhaseNumber], types.Task{
			ID:          c.ID,
			Category:    c.Category,
			Description: c.Title,
			Status:      NormalizeStatus(c.Status),
			Priority:    c.Priority,
			Extra:       extras[c.ID],
		})
	}
	for i := range out.Phases {
		ph := &out.Phases[i]
		if a.Phase != nil && ph.PhaseNumber != *a.Phase {
			continue
		}
		checklist := grouped[ph.PhaseNumber]
		if checklist == nil {
			checklist = []types.Task{}
		}
		ph.Checklist = checklist
	}
	return out, nil
}

// phaseCardPrefix prefixes the ids of phase cards.
const phaseCardPrefix = "phase-"

// PhaseAdapter shows each phase as one card so a plan's phases can be
// moved across the board. Moving a card rewrites the phase status.
type PhaseAdapter struct{}

// Cards derives one card per phase.
func (PhaseAdapter) Cards(plan *types.Plan) []Card {
	cards := []Card{}
	if plan == nil {
		return cards
	}
	for _, ph := range plan.Phases {
		cards = append(cards, Card{
			ID:          PhaseCardID(ph.PhaseNumber),
			Status:      ph.Status,
			Title:       ph.Title,
			Category:    ph.Duration,
			PhaseNumber: ph.PhaseNumber,
			Phase:       ph.Title,
		})
	}
	return cards
}

// Apply writes each card's status, title and category (the phase
// duration) back to its phase. Checklists are left untouched. Phases have
// no priority, so a card carrying one is rejected with ErrNotEditable.
func (PhaseAdapter) Apply(plan *types.Plan, cards []Card) (*types.Plan, error) {
	if plan == nil {
		return nil, types.ErrInvalidPlan
	}
	out := plan.Clone()
	for _, c := range cards {
		n, err := ParsePhaseCardID(c.ID)
		if err != nil {
			return nil, err
		}
		ph := out.Phase(n)
		if ph == nil {
			return nil, fmt.Errorf("card %s: %w", c.ID, types.ErrCardNotFound)
		}
		if c.Priority != "" {
			return nil, fmt.Errorf("card %s: priority: %w", c.ID, types.ErrNotEditable)
		}
		ph.Status = NormalizeStatus(c.Status)
		ph.Title = c.Title
		ph.Duration = c.Category
	}
	return out, nil
}

// PhaseCardID returns the card id of phase n.
func PhaseCardID(n int) string {
	return phaseCardPrefix + strconv.Itoa(n)
}

// ParsePhaseCardID returns the phase number encoded in a phase card id.
func ParsePhaseCardID(id string) (int, error) {
	rest, ok := strings.CutPrefix(id, phaseCardPrefix)
	if !ok {
		return 0, fmt.Errorf("%w: %q", types.ErrCardNotFound, id)
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", types.ErrCardNotFound, id)
	}
	return n, nil
}
