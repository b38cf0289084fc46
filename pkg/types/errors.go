package types

import "errors"

// Store operation errors.
var (
	ErrNotFound    = errors.New("plan not found")
	ErrConflict    = errors.New("plan was modified since it was read")
	ErrInvalidMode = errors.New("invalid project mode")
	ErrInvalidName = errors.New("invalid project name")
)

// Plan and board errors.
var (
	ErrInvalidPlan     = errors.New("invalid plan")
	ErrDuplicatePhase  = errors.New("duplicate phase number")
	ErrDuplicateTaskID = errors.New("duplicate task id")
	ErrInvalidTaskID   = errors.New("invalid task id")
	ErrInvalidColumn   = errors.New("invalid column")
	ErrInvalidPriority = errors.New("invalid priority")
	ErrCardNotFound    = errors.New("card not found")
	ErrBusy            = errors.New("a save is already in flight")
	ErrNotDragging     = errors.New("no card is being dragged")
	ErrNotEditable     = errors.New("field cannot be edited on this card")
)
