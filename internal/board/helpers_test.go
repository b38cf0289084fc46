package board

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/woolly-dev/woolly/pkg/types"
)

var errBackend = errors.New("backend unavailable")

// fakeStore records PutPlan calls. When gate is non-nil PutPlan blocks
// until it is closed.
type fakeStore struct {
	mu    sync.Mutex
	puts  []*types.Plan
	revs  []string
	err   error
	gate  chan struct{}
	nextN int
}

func (s *fakeStore) PutPlan(ctx context.Context, ref types.ProjectRef, plan *types.Plan, ifRevision string) (string, error) {
	s.mu.Lock()
	s.puts = append(s.puts, plan.Clone())
	s.revs = append(s.revs, ifRevision)
	gate := s.gate
	err := s.err
	s.nextN++
	n := s.nextN
	s.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("rev-%d", n), nil
}

func (s *fakeStore) putCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.puts)
}

var testRef = types.ProjectRef{Mode: types.ModeFeature, Name: "checkout"}

func twoPhasePlan() *types.Plan {
	return &types.Plan{
		ProjectName: "checkout",
		Phases: []types.Phase{
			{
				PhaseNumber: 1,
				Title:       "Foundations",
				Status:      types.StatusInProgress,
				Checklist: []types.Task{
					{ID: "t1", Category: "api", Description: "Add endpoint", Status: types.StatusToDo, Priority: types.PriorityHigh},
					{ID: "t2", Category: "db", Description: "Migrate schema", Status: types.StatusPartiallyCompleted, Priority: types.PriorityLow},
				},
			},
			{
				PhaseNumber: 2,
				Title:       "Polish",
				Status:      types.StatusPending,
				Checklist: []types.Task{
					{ID: "t3", Category: "ui", Description: "Copy review", Status: types.StatusInProgressAlias, Priority: types.PriorityMedium},
					{ID: "t4", Category: "ops", Description: "Archive old flags", Status: "archived", Priority: types.PriorityLow},
				},
			},
		},
	}
}

func newTestBoard(t *testing.T, store Persister, opts Options) *Board {
	t.Helper()
	b, err := New(testRef, store, twoPhasePlan(), "rev-0", opts)
	require.NoError(t, err)
	return b
}

func cardStatus(t *testing.T, cards []Card, id string) string {
	t.Helper()
	i, ok := findCard(cards, id)
	require.True(t, ok, "card %s not found", id)
	return cards[i].Status
}

func laneIDs(lanes []Lane, col types.Column) []string {
	for _, l := range lanes {
		if l.Column != col {
			continue
		}
		ids := make([]string, len(l.Cards))
		for i, c := range l.Cards {
			ids[i] = c.ID
		}
		return ids
	}
	return nil
}
