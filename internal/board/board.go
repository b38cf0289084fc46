// Package board implements the plan board: tasks derived from a plan,
// classified into four columns, moved with a drag gesture, and written
// back optimistically with rollback to the last known-good plan.
package board

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/woolly-dev/woolly/pkg/types"
)

// Persister writes whole plans. types.PlanStore satisfies it.
type Persister interface {
	PutPlan(ctx context.Context, ref types.ProjectRef, plan *types.Plan, ifRevision string) (string, error)
}

// Options configure a Board. The zero value shows checklist tasks of
// every phase.
type Options struct {
	// Adapter maps the plan to cards. Defaults to ChecklistAdapter{}.
	Adapter Adapter
	// OnChange runs after every write-through settles, successful or not,
	// so dependent views can re-fetch.
	OnChange func()
	Logger   *slog.Logger
}

// Board holds one project's cards and the drag gesture acting on them.
// All methods are safe for concurrent use; at most one write-through is
// in flight at a time.
type Board struct {
	mu sync.Mutex

	ref      types.ProjectRef
	store    Persister
	adapter  Adapter
	onChange func()
	logger   *slog.Logger

	plan     *types.Plan // last known-good
	revision string
	cards    []Card
	drag     DragState
	inflight *WriteThrough
	lastErr  error
}

// New creates a board over plan, which was read at revision.
// Returns an error if plan fails Validate.
func New(ref types.ProjectRef, store Persister, plan *types.Plan, revision string, opts Options) (*Board, error) {
	if err := plan.Validate(); err != nil {
		return nil, fmt.Errorf("plan %s: %w", ref, err)
	}
	if opts.Adapter == nil {
		opts.Adapter = ChecklistAdapter{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	b := &Board{
		ref:      ref,
		store:    store,
		adapter:  opts.Adapter,
		onChange: opts.OnChange,
		logger:   opts.Logger.With("project", ref.String()),
		plan:     plan.Clone(),
		revision: revision,
	}
	b.cards = b.adapter.Cards(b.plan)
	return b, nil
}

// Load fetches the plan of ref and creates a board over it.
func Load(ctx context.Context, store types.PlanStore, ref types.ProjectRef, opts Options) (*Board, error) {
	plan, rev, err := store.GetPlan(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("get plan %s: %w", ref, err)
	}
	return New(ref, store, plan, rev, opts)
}

// Ref returns the project the board shows.
func (b *Board) Ref() types.ProjectRef {
	return b.ref
}

// Cards returns a copy of the current cards, optimistic state included.
func (b *Board) Cards() []Card {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Card(nil), b.cards...)
}

// Lanes partitions the current cards into columns.
func (b *Board) Lanes() []Lane {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Partition(b.cards)
}

// Plan returns a copy of the last known-good plan.
func (b *Board) Plan() *types.Plan {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.plan.Clone()
}

// Revision returns the revision of the last known-good plan.
func (b *Board) Revision() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.revision
}

// State returns the drag gesture state.
func (b *Board) State() DragState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.drag
}

// Err returns the error of the last failed write-through, cleared by the
// next successful one.
func (b *Board) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastErr
}

// Replace swaps in a freshly fetched plan, for example after OnChange.
// Returns ErrBusy while a write-through is in flight.
func (b *Board) Replace(plan *types.Plan, revision string) error {
	if err := plan.Validate(); err != nil {
		return fmt.Errorf("plan %s: %w", b.ref, err)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.drag.Phase == Resolving {
		return types.ErrBusy
	}
	b.plan = plan.Clone()
	b.revision = revision
	b.cards = b.adapter.Cards(b.plan)
	b.drag = DragState{}
	return nil
}

// StartDrag begins dragging the card with the given id. Starting a new
// drag while dragging replaces the previous gesture.
// Returns ErrBusy while resolving and ErrCardNotFound for unknown ids.
func (b *Board) StartDrag(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.drag.Phase == Resolving {
		return types.ErrBusy
	}
	if _, ok := findCard(b.cards, id); !ok {
		return fmt.Errorf("%w: %s", types.ErrCardNotFound, id)
	}
	b.drag = DragState{Phase: Dragging, CardID: id}
	return nil
}

// Hover records the target under the dragged card. It never changes
// cards.
func (b *Board) Hover(t Target) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.drag.Phase == Dragging {
		b.drag.Over = t
	}
}

// Cancel ends a drag without changing anything.
func (b *Board) Cancel() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.drag.Phase == Dragging {
		b.drag = DragState{}
	}
}

// Drop releases the dragged card over t. Without a valid target the
// gesture ends and nil is returned. Otherwise the card takes the
// canonical status of the target column, the change is applied locally
// and the returned WriteThrough must be run and settled.
// Returns ErrNotDragging if no drag is in progress and ErrBusy while
// resolving.
func (b *Board) Drop(t Target) (*WriteThrough, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch b.drag.Phase {
	case Resolving:
		return nil, types.ErrBusy
	case Idle:
		return nil, types.ErrNotDragging
	}

	id := b.drag.CardID
	col, ok := t.resolve(Partition(b.cards))
	if !ok {
		b.drag = DragState{}
		return nil, nil
	}
	i, ok := findCard(b.cards, id)
	if !ok {
		b.drag = DragState{}
		return nil, fmt.Errorf("%w: %s", types.ErrCardNotFound, id)
	}

	cards := append([]Card(nil), b.cards...)
	cards[i].Status = CanonicalStatus(col)
	wt, err := b.beginLocked(cards)
	if err != nil {
		b.drag = DragState{}
		return nil, err
	}
	b.logger.Debug("card dropped", "card", id, "column", string(col))
	return wt, nil
}

// Edit changes the rendered fields of a card and applies the change the
// same way a drop does.
// Returns ErrBusy while resolving.
func (b *Board) Edit(id string, edit CardEdit) (*WriteThrough, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.drag.Phase == Resolving {
		return nil, types.ErrBusy
	}
	i, ok := findCard(b.cards, id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", types.ErrCardNotFound, id)
	}
	card, err := edit.apply(b.cards[i])
	if err != nil {
		return nil, err
	}
	cards := append([]Card(nil), b.cards...)
	cards[i] = card
	return b.beginLocked(cards)
}

// beginLocked maps cards to a plan, shows cards immediately and enters
// Resolving. The caller holds b.mu.
func (b *Board) beginLocked(cards []Card) (*WriteThrough, error) {
	updated, err := b.adapter.Apply(b.plan, cards)
	if err != nil {
		return nil, fmt.Errorf("apply cards: %w", err)
	}
	wt := &WriteThrough{
		store:      b.store,
		ref:        b.ref,
		plan:       updated,
		ifRevision: b.revision,
	}
	b.cards = cards
	b.drag = DragState{Phase: Resolving}
	b.inflight = wt
	return wt, nil
}

// Settle ends a write-through. On success the written plan becomes the
// last known-good plan; on failure the cards are derived again from the
// plan held before the change. Either way the board returns to Idle and
// OnChange runs. Settling a write-through that is not in flight does
// nothing.
func (b *Board) Settle(wt *WriteThrough, err error) {
	b.mu.Lock()
	if wt == nil || b.inflight != wt {
		b.mu.Unlock()
		return
	}
	if err != nil {
		b.logger.Warn("write-through failed, rolling back", "error", err)
		b.lastErr = err
	} else {
		b.plan = wt.plan
		b.revision = wt.revision
		b.lastErr = nil
	}
	b.cards = b.adapter.Cards(b.plan)
	b.inflight = nil
	b.drag = DragState{}
	onChange := b.onChange
	b.mu.Unlock()

	if onChange != nil {
		onChange()
	}
}

// Commit runs wt and settles it, returning the write error. A nil wt is
// a no-op.
func (b *Board) Commit(ctx context.Context, wt *WriteThrough) error {
	if wt == nil {
		return nil
	}
	err := wt.Run(ctx)
	b.Settle(wt, err)
	return err
}

// Move drags the card with the given id onto column and commits the
// change.
func (b *Board) Move(ctx context.Context, id string, column types.Column) error {
	if err := b.StartDrag(id); err != nil {
		return err
	}
	wt, err := b.Drop(ColumnTarget(column))
	if err != nil {
		return err
	}
	if wt == nil {
		return fmt.Errorf("%w: %q", types.ErrInvalidColumn, column)
	}
	return b.Commit(ctx, wt)
}

// WriteThrough is one pending persistence of an optimistic change.
type WriteThrough struct {
	store      Persister
	ref        types.ProjectRef
	plan       *types.Plan
	ifRevision string
	revision   string
}

// Plan returns the plan the write-through persists.
func (w *WriteThrough) Plan() *types.Plan {
	return w.plan.Clone()
}

// Run writes the whole plan, conditioned on the revision the board held
// when the change began. Run must be called at most once.
func (w *WriteThrough) Run(ctx context.Context) error {
	rev, err := w.store.PutPlan(ctx, w.ref, w.plan, w.ifRevision)
	if err != nil {
		return fmt.Errorf("put plan %s: %w", w.ref, err)
	}
	w.revision = rev
	return nil
}
