package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/woolly-dev/woolly/internal/board"
	"github.com/woolly-dev/woolly/pkg/types"
)

// ErrAborted is returned when the user leaves a form without submitting.
var ErrAborted = errors.New("edit aborted")

// EditCardForm asks for a card's description, category and priority,
// starting from the card's current values. Only changed fields are set in
// the returned edit.
func EditCardForm(card board.Card) (board.CardEdit, error) {
	title, category, priority := card.Title, card.Category, card.Priority
	if !types.ValidPriority(priority) {
		priority = types.PriorityMedium
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Description").
				Value(&title),
			huh.NewInput().
				Title("Category").
				Value(&category),
			huh.NewSelect[string]().
				Title("Priority").
				Options(huh.NewOptions(priorityCycle...)...).
				Value(&priority),
		).Title("Edit " + card.ID),
	)

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return board.CardEdit{}, ErrAborted
		}
		return board.CardEdit{}, fmt.Errorf("prompt failed: %w", err)
	}
	return diffEdit(card, title, category, priority), nil
}

// diffEdit returns the edit that turns card into the given values.
func diffEdit(card board.Card, title, category, priority string) board.CardEdit {
	var edit board.CardEdit
	if title != card.Title {
		edit.Title = &title
	}
	if category != card.Category {
		edit.Category = &category
	}
	if priority != card.Priority {
		edit.Priority = &priority
	}
	return edit
}
