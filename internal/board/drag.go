package board

import "github.com/woolly-dev/woolly/pkg/types"

// DragPhase is the state of a board's drag gesture.
type DragPhase int

// Drag phases. A board is always in exactly one of them.
const (
	Idle DragPhase = iota
	Dragging
	Resolving
)

// String returns the phase name.
func (p DragPhase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case Resolving:
		return "resolving"
	default:
		return "unknown"
	}
}

// Target is where a dragged card is hovered or dropped: a column, or
// another card whose lane decides the column. The zero Target means "no
// target".
type Target struct {
	Column types.Column
	CardID string
}

// ColumnTarget returns a target for a column.
func ColumnTarget(c types.Column) Target {
	return Target{Column: c}
}

// CardTarget returns a target for the card with the given id.
func CardTarget(id string) Target {
	return Target{CardID: id}
}

// IsZero reports whether t names no target.
func (t Target) IsZero() bool {
	return t.Column == "" && t.CardID == ""
}

// DragState is a snapshot of the gesture in progress.
type DragState struct {
	Phase DragPhase
	// CardID is the dragged card while Dragging.
	CardID string
	// Over is the hovered target while Dragging. It drives visual
	// feedback only.
	Over Target
}

// resolve returns the column a drop on t lands in.
func (t Target) resolve(lanes []Lane) (types.Column, bool) {
	if t.Column != "" {
		if _, err := types.ParseColumn(string(t.Column)); err != nil {
			return "", false
		}
		return t.Column, true
	}
	if t.CardID != "" {
		return laneOf(lanes, t.CardID)
	}
	return "", false
}
