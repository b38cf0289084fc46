package types

// Column is one of the four fixed board lanes. Columns are never stored;
// a task's column is derived from its status.
type Column string

// Board columns in display order.
const (
	ColumnToDo       Column = "to-do"
	ColumnInProgress Column = "in-progress"
	ColumnCompleted  Column = "completed"
	ColumnBlocked    Column = "blocked"
)

// Columns lists every column in display order.
var Columns = []Column{
	ColumnToDo,
	ColumnInProgress,
	ColumnCompleted,
	ColumnBlocked,
}

// ParseColumn returns the column named s.
// Returns ErrInvalidColumn if s is not a column identifier.
func ParseColumn(s string) (Column, error) {
	for _, c := range Columns {
		if string(c) == s {
			return c, nil
		}
	}
	return "", ErrInvalidColumn
}

// Title returns the human-readable column heading.
func (c Column) Title() string {
	switch c {
	case ColumnToDo:
		return "To Do"
	case ColumnInProgress:
		return "In Progress"
	case ColumnCompleted:
		return "Completed"
	case ColumnBlocked:
		return "Blocked"
	default:
		return string(c)
	}
}
