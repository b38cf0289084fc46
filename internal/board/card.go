package board

import (
	"fmt"

	"github.com/woolly-dev/woolly/pkg/types"
)

// Card is what the board shows and moves: an id, a status and the fields
// a card renders. Adapters decide what a card stands for.
type Card struct {
	ID          string
	Status      string
	Title       string
	Category    string
	Priority    string
	PhaseNumber int
	Phase       string
}

// CardEdit holds the fields a direct edit changes. Nil fields are left
// alone.
type CardEdit struct {
	Title    *string
	Category *string
	Priority *string
}

// apply returns a copy of c with the edit applied.
func (e CardEdit) apply(c Card) (Card, error) {
	if e.Priority != nil && !types.ValidPriority(*e.Priority) {
		return c, fmt.Errorf("%w: %q", types.ErrInvalidPriority, *e.Priority)
	}
	if e.Title != nil {
		c.Title = *e.Title
	}
	if e.Category != nil {
		c.Category = *e.Category
	}
	if e.Priority != nil {
		c.Priority = *e.Priority
	}
	return c, nil
}

// IsZero reports whether the edit changes nothing.
func (e CardEdit) IsZero() bool {
	return e.Title == nil && e.Category == nil && e.Priority == nil
}

func findCard(cards []Card, id string) (int, bool) {
	for i, c := range cards {
		if c.ID == id {
			return i, true
		}
	}
	return -1, false
}
