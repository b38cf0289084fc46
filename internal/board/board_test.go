package board

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/woolly-dev/woolly/pkg/types"
)

func TestNewRejectsInvalidPlan(t *testing.T) {
	plan := twoPhasePlan()
	plan.Phases[1].Checklist[0].ID = "t1"

	_, err := New(testRef, &fakeStore{}, plan, "", Options{})
	assert.ErrorIs(t, err, types.ErrDuplicateTaskID)
}

func TestDragLifecycle(t *testing.T) {
	t.Run("start drag records the card", func(t *testing.T) {
		b := newTestBoard(t, &fakeStore{}, Options{})
		require.NoError(t, b.StartDrag("t1"))
		st := b.State()
		assert.Equal(t, Dragging, st.Phase)
		assert.Equal(t, "t1", st.CardID)
	})

	t.Run("unknown card cannot be dragged", func(t *testing.T) {
		b := newTestBoard(t, &fakeStore{}, Options{})
		assert.ErrorIs(t, b.StartDrag("nope"), types.ErrCardNotFound)
		assert.Equal(t, Idle, b.State().Phase)
	})

	t.Run("hover changes no card", func(t *testing.T) {
		b := newTestBoard(t, &fakeStore{}, Options{})
		before := b.Cards()
		require.NoError(t, b.StartDrag("t1"))
		b.Hover(ColumnTarget(types.ColumnBlocked))
		assert.Equal(t, ColumnTarget(types.ColumnBlocked), b.State().Over)
		assert.Equal(t, before, b.Cards())
	})

	t.Run("drop over no target returns to idle without a write", func(t *testing.T) {
		store := &fakeStore{}
		b := newTestBoard(t, store, Options{})
		before := b.Cards()
		require.NoError(t, b.StartDrag("t1"))

		wt, err := b.Drop(Target{})
		require.NoError(t, err)
		assert.Nil(t, wt)
		assert.Equal(t, Idle, b.State().Phase)
		assert.Equal(t, before, b.Cards())
		assert.Zero(t, store.putCount())
	})

	t.Run("drop on a card whose status matches no column is no target", func(t *testing.T) {
		b := newTestBoard(t, &fakeStore{}, Options{})
		require.NoError(t, b.StartDrag("t1"))
		wt, err := b.Drop(CardTarget("t4"))
		require.NoError(t, err)
		assert.Nil(t, wt)
		assert.Equal(t, Idle, b.State().Phase)
	})

	t.Run("cancel ends the drag", func(t *testing.T) {
		b := newTestBoard(t, &fakeStore{}, Options{})
		require.NoError(t, b.StartDrag("t1"))
		b.Cancel()
		assert.Equal(t, DragState{}, b.State())
	})

	t.Run("drop without drag", func(t *testing.T) {
		b := newTestBoard(t, &fakeStore{}, Options{})
		_, err := b.Drop(ColumnTarget(types.ColumnBlocked))
		assert.ErrorIs(t, err, types.ErrNotDragging)
	})
}

func TestDropOnColumn(t *testing.T) {
	store := &fakeStore{}
	b := newTestBoard(t, store, Options{})

	require.NoError(t, b.StartDrag("t1"))
	wt, err := b.Drop(ColumnTarget(types.ColumnBlocked))
	require.NoError(t, err)
	require.NotNil(t, wt)

	// Applied locally before anything is written.
	assert.Equal(t, Resolving, b.State().Phase)
	assert.Equal(t, types.StatusBlocked, cardStatus(t, b.Cards(), "t1"))
	assert.Equal(t, []string{"t1"}, laneIDs(b.Lanes(), types.ColumnBlocked))
	assert.Zero(t, store.putCount())

	require.NoError(t, b.Commit(context.Background(), wt))
	assert.Equal(t, Idle, b.State().Phase)
	require.Equal(t, 1, store.putCount())
	assert.Equal(t, "rev-0", store.revs[0], "write must be conditioned on the loaded revision")
	assert.Equal(t, "rev-1", b.Revision())

	task, _, ok := b.Plan().FindTask("t1")
	require.True(t, ok)
	assert.Equal(t, types.StatusBlocked, task.Status)
}

func TestDropOnCardUsesThatCardsColumn(t *testing.T) {
	store := &fakeStore{}
	b := newTestBoard(t, store, Options{})

	require.NoError(t, b.StartDrag("t1"))
	wt, err := b.Drop(CardTarget("t3"))
	require.NoError(t, err)
	require.NotNil(t, wt)
	require.NoError(t, b.Commit(context.Background(), wt))

	// t3 sits in in-progress through its alias status; the canonical
	// literal is written.
	assert.Equal(t, types.StatusInProgress, cardStatus(t, b.Cards(), "t1"))
}

func TestDropWritesCanonicalStatus(t *testing.T) {
	store := &fakeStore{}
	var changes int
	b := newTestBoard(t, store, Options{OnChange: func() { changes++ }})

	require.NoError(t, b.Move(context.Background(), "t2", types.ColumnCompleted))
	assert.Equal(t, types.StatusCompleted, cardStatus(t, b.Cards(), "t2"))
	assert.Equal(t, 1, changes, "OnChange runs after a successful write too")
	assert.Equal(t, "rev-1", b.Revision())
	assert.NoError(t, b.Err())

	written := store.puts[0]
	task, _, _ := written.FindTask("t2")
	assert.Equal(t, "completed", task.Status)
}

func TestWriteThroughFailureRollsBack(t *testing.T) {
	store := &fakeStore{err: errBackend}
	var changes int
	b := newTestBoard(t, store, Options{OnChange: func() { changes++ }})
	original := ChecklistAdapter{}.Cards(twoPhasePlan())

	require.NoError(t, b.StartDrag("t1"))
	wt, err := b.Drop(ColumnTarget(types.ColumnBlocked))
	require.NoError(t, err)
	assert.Equal(t, types.StatusBlocked, cardStatus(t, b.Cards(), "t1"))

	err = b.Commit(context.Background(), wt)
	assert.ErrorIs(t, err, errBackend)
	assert.Equal(t, original, b.Cards())
	assert.Equal(t, types.StatusToDo, cardStatus(t, b.Cards(), "t1"))
	assert.Equal(t, Idle, b.State().Phase)
	assert.Equal(t, "rev-0", b.Revision())
	assert.ErrorIs(t, b.Err(), errBackend)
	assert.Equal(t, 1, changes)
}

func TestSecondOperationWhileResolvingIsDropped(t *testing.T) {
	store := &fakeStore{gate: make(chan struct{})}
	b := newTestBoard(t, store, Options{})

	require.NoError(t, b.StartDrag("t1"))
	first, err := b.Drop(ColumnTarget(types.ColumnBlocked))
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- b.Commit(context.Background(), first) }()

	assert.ErrorIs(t, b.StartDrag("t2"), types.ErrBusy)
	title := "renamed"
	_, err = b.Edit("t2", CardEdit{Title: &title})
	assert.ErrorIs(t, err, types.ErrBusy)
	assert.ErrorIs(t, b.Replace(twoPhasePlan(), "x"), types.ErrBusy)

	close(store.gate)
	require.NoError(t, <-done)
	assert.Equal(t, 1, store.putCount())
	assert.Equal(t, types.StatusPartiallyCompleted, cardStatus(t, b.Cards(), "t2"))
}

func TestSettleIgnoresStaleWriteThrough(t *testing.T) {
	b := newTestBoard(t, &fakeStore{}, Options{})
	require.NoError(t, b.StartDrag("t1"))
	wt, err := b.Drop(ColumnTarget(types.ColumnBlocked))
	require.NoError(t, err)
	require.NoError(t, b.Commit(context.Background(), wt))

	rev := b.Revision()
	b.Settle(wt, errBackend)
	assert.Equal(t, rev, b.Revision())
	assert.NoError(t, b.Err())
	assert.Equal(t, types.StatusBlocked, cardStatus(t, b.Cards(), "t1"))
}

func TestEdit(t *testing.T) {
	t.Run("changes rendered fields and persists them", func(t *testing.T) {
		store := &fakeStore{}
		b := newTestBoard(t, store, Options{})

		title, cat, prio := "Add v2 endpoint", "backend", types.PriorityLow
		wt, err := b.Edit("t1", CardEdit{Title: &title, Category: &cat, Priority: &prio})
		require.NoError(t, err)
		require.NoError(t, b.Commit(context.Background(), wt))

		task, _, ok := b.Plan().FindTask("t1")
		require.True(t, ok)
		assert.Equal(t, "Add v2 endpoint", task.Description)
		assert.Equal(t, "backend", task.Category)
		assert.Equal(t, types.PriorityLow, task.Priority)
		assert.Equal(t, types.StatusToDo, task.Status)
	})

	t.Run("rejects unknown priority", func(t *testing.T) {
		b := newTestBoard(t, &fakeStore{}, Options{})
		prio := "urgent"
		_, err := b.Edit("t1", CardEdit{Priority: &prio})
		assert.ErrorIs(t, err, types.ErrInvalidPriority)
		assert.Equal(t, Idle, b.State().Phase)
	})

	t.Run("unknown card", func(t *testing.T) {
		b := newTestBoard(t, &fakeStore{}, Options{})
		_, err := b.Edit("nope", CardEdit{})
		assert.ErrorIs(t, err, types.ErrCardNotFound)
	})
}

func TestWriteNormalizesAliasStatus(t *testing.T) {
	store := &fakeStore{}
	b := newTestBoard(t, store, Options{})

	require.NoError(t, b.Move(context.Background(), "t1", types.ColumnInProgress))

	written := store.puts[0]
	t3, _, _ := written.FindTask("t3")
	assert.Equal(t, types.StatusInProgress, t3.Status)
	t4, _, _ := written.FindTask("t4")
	assert.Equal(t, "archived", t4.Status, "unknown statuses are written back untouched")
}

func TestReplace(t *testing.T) {
	b := newTestBoard(t, &fakeStore{}, Options{})
	fresh := twoPhasePlan()
	fresh.Phases[0].Checklist[0].Status = types.StatusCompleted

	require.NoError(t, b.Replace(fresh, "rev-9"))
	assert.Equal(t, "rev-9", b.Revision())
	assert.Equal(t, types.StatusCompleted, cardStatus(t, b.Cards(), "t1"))
}

func TestPhaseFilteredBoardKeepsOtherPhases(t *testing.T) {
	store := &fakeStore{}
	two := 2
	b, err := New(testRef, store, twoPhasePlan(), "rev-0", Options{Adapter: ChecklistAdapter{Phase: &two}})
	require.NoError(t, err)
	assert.Len(t, b.Cards(), 2)

	require.NoError(t, b.Move(context.Background(), "t3", types.ColumnCompleted))

	written := store.puts[0]
	require.Len(t, written.Phases[0].Checklist, 2)
	assert.Equal(t, twoPhasePlan().Phases[0], written.Phases[0])
	t3, _, _ := written.FindTask("t3")
	assert.Equal(t, types.StatusCompleted, t3.Status)
}
