package board

import "github.com/woolly-dev/woolly/pkg/types"

// columnStatuses maps each column to the status literals it accepts. The
// first literal is the canonical one written when a card is dropped into
// the column.
var columnStatuses = map[types.Column][]string{
	types.ColumnToDo:       {types.StatusToDo, types.StatusPending},
	types.ColumnInProgress: {types.StatusInProgress, types.StatusInProgressAlias},
	types.ColumnCompleted:  {types.StatusCompleted, types.StatusPartiallyCompleted},
	types.ColumnBlocked:    {types.StatusBlocked},
}

// Classify returns the column whose status set contains status. Columns
// are tested in display order and the first match wins. ok is false for
// statuses no column accepts.
func Classify(status string) (col types.Column, ok bool) {
	for _, c := range types.Columns {
		for _, s := range columnStatuses[c] {
			if s == status {
				return c, true
			}
		}
	}
	return "", false
}

// CanonicalStatus returns the status literal written when a card moves
// into col.
func CanonicalStatus(col types.Column) string {
	statuses := columnStatuses[col]
	if len(statuses) == 0 {
		return ""
	}
	return statuses[0]
}

// AcceptedStatuses returns a copy of the status literals col accepts.
func AcceptedStatuses(col types.Column) []string {
	return append([]string(nil), columnStatuses[col]...)
}

// NormalizeStatus rewrites alias spellings to their canonical literal.
// Other values, including unknown ones, are returned unchanged.
func NormalizeStatus(status string) string {
	if status == types.StatusInProgressAlias {
		return types.StatusInProgress
	}
	return status
}

// Lane is one board column and the cards currently in it.
type Lane struct {
	Column types.Column
	Cards  []Card
}

// Partition splits cards into the four lanes in display order, keeping
// card order within each lane. Cards whose status matches no column are
// left out of every lane; they stay in the card list and in the plan.
func Partition(cards []Card) []Lane {
	lanes := make([]Lane, len(types.Columns))
	index := make(map[types.Column]int, len(types.Columns))
	for i, c := range types.Columns {
		lanes[i] = Lane{Column: c, Cards: []Card{}}
		index[c] = i
	}
	for _, card := range cards {
		col, ok := Classify(card.Status)
		if !ok {
			continue
		}
		i := index[col]
		lanes[i].Cards = append(lanes[i].Cards, card)
	}
	return lanes
}

// laneOf returns the column of the lane holding the card with the given
// id.
func laneOf(lanes []Lane, id string) (types.Column, bool) {
	for _, lane := range lanes {
		for _, c := range lane.Cards {
			if c.ID == id {
				return lane.Column, true
			}
		}
	}
	return "", false
}
