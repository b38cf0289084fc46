package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woolly-dev/woolly/internal/board"
)

func TestDiffEdit(t *testing.T) {
	card := board.Card{ID: "t1", Title: "Add endpoint", Category: "api", Priority: "high"}

	edit := diffEdit(card, "Add endpoint", "api", "high")
	assert.True(t, edit.IsZero())

	edit = diffEdit(card, "Add endpoints", "api", "low")
	require.NotNil(t, edit.Title)
	require.NotNil(t, edit.Priority)
	assert.Nil(t, edit.Category)
	assert.Equal(t, "Add endpoints", *edit.Title)
	assert.Equal(t, "low", *edit.Priority)
}
