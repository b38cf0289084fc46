package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/woolly-dev/woolly/internal/board"
	"github.com/woolly-dev/woolly/pkg/types"
)

// View renders the current state.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("woolly · " + m.ref.String()))
	b.WriteString("\n\n")

	switch {
	case m.loadErr != nil:
		b.WriteString(errorStyle.Render("Plan unavailable: " + m.loadErr.Error()))
		b.WriteString("\n")
		b.WriteString(metaStyle.Render("press r to retry, q to quit"))
		b.WriteString("\n")
		return b.String()
	case m.board == nil:
		b.WriteString(metaStyle.Render("loading plan..."))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(m.renderLanes())
	b.WriteString("\n")

	if m.editing != editNone {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}
	b.WriteString(m.renderStatus())
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m Model) renderLanes() string {
	state := m.board.State()
	laneWidth := max((m.width-len(types.Columns)*4)/len(types.Columns), 16)

	lanes := m.board.Lanes()
	rendered := make([]string, len(lanes))
	for i, lane := range lanes {
		var lines []string
		lines = append(lines, laneTitleStyle.Render(fmt.Sprintf("%s (%d)", lane.Column.Title(), len(lane.Cards))))
		for j, card := range lane.Cards {
			lines = append(lines, m.renderCard(card, i == m.col && j == m.row, state))
		}
		if len(lane.Cards) == 0 {
			lines = append(lines, metaStyle.Render("(empty)"))
		}

		style := laneStyle
		if state.Phase == board.Dragging && state.Over.Column == lane.Column {
			style = hoverLaneStyle
		}
		rendered[i] = style.Width(laneWidth).Render(strings.Join(lines, "\n"))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) renderCard(card board.Card, focused bool, state board.DragState) string {
	title := card.Title
	if title == "" {
		title = card.ID
	}
	prio := card.Priority
	if style, ok := priorityStyles[prio]; ok {
		prio = style.Render(prio)
	}
	meta := metaStyle.Render(strings.TrimSpace(card.Category + " " + prio))

	var line string
	switch {
	case state.Phase == board.Dragging && state.CardID == card.ID:
		line = draggedCardStyle.Render("» " + title)
	case focused:
		line = selectedCardStyle.Render("> " + title)
	default:
		line = cardStyle.Render("  " + title)
	}
	return line + "\n  " + meta
}

func (m Model) renderStatus() string {
	switch {
	case m.saving:
		return m.spinner.View() + " saving...\n"
	case m.board.Err() != nil:
		return errorStyle.Render("save failed, changes rolled back: "+m.board.Err().Error()) + "\n"
	case m.status != "":
		return statusStyle.Render(m.status) + "\n"
	}
	return ""
}
