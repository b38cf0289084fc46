package types

import (
	"context"
	"errors"
)

// PlanStore defines backend-agnostic access to project plans. Every
// implementation reads and writes whole documents; there are no partial
// updates.
type PlanStore interface {
	// GetPlan returns the plan of the referenced project together with its
	// current revision token.
	// Returns ErrNotFound if the project has no plan.
	GetPlan(ctx context.Context, ref ProjectRef) (*Plan, string, error)

	// PutPlan overwrites the plan of the referenced project and returns the
	// new revision. When ifRevision is non-empty the write only happens if
	// the stored revision still equals it; otherwise ErrConflict is
	// returned and nothing is written. An empty ifRevision writes
	// unconditionally (last writer wins).
	PutPlan(ctx context.Context, ref ProjectRef, plan *Plan, ifRevision string) (string, error)

	// ListProjects returns the names of all projects of the given mode,
	// sorted. A mode with no projects yields an empty slice.
	ListProjects(ctx context.Context, mode Mode) ([]string, error)
}

// Backend is a PlanStore with a lifecycle. Callers attach to a backend,
// use it, and detach when done.
type Backend interface {
	PlanStore

	// Attach connects the backend described by config. Creates HomeDir if
	// it does not exist. Returns ErrAlreadyAttached if called while
	// already attached.
	Attach(config Config) error

	// Detach releases backend resources. Idempotent: multiple calls
	// succeed. After Detach, operations return ErrDetached.
	Detach() error
}

// Backend lifecycle errors.
var (
	ErrDetached        = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
)
