package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/woolly-dev/woolly/pkg/types"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		status string
		want   types.Column
		ok     bool
	}{
		{types.StatusToDo, types.ColumnToDo, true},
		{types.StatusPending, types.ColumnToDo, true},
		{types.StatusInProgress, types.ColumnInProgress, true},
		{types.StatusInProgressAlias, types.ColumnInProgress, true},
		{types.StatusCompleted, types.ColumnCompleted, true},
		{types.StatusPartiallyCompleted, types.ColumnCompleted, true},
		{types.StatusBlocked, types.ColumnBlocked, true},
		{"archived", "", false},
		{"", "", false},
		{"Completed", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			got, ok := Classify(tt.status)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCanonicalStatus(t *testing.T) {
	assert.Equal(t, "to-do", CanonicalStatus(types.ColumnToDo))
	assert.Equal(t, "in-progress", CanonicalStatus(types.ColumnInProgress))
	assert.Equal(t, "completed", CanonicalStatus(types.ColumnCompleted))
	assert.Equal(t, "blocked", CanonicalStatus(types.ColumnBlocked))
	assert.Equal(t, "", CanonicalStatus(types.Column("archive")))
}

func TestNormalizeStatus(t *testing.T) {
	assert.Equal(t, types.StatusInProgress, NormalizeStatus(types.StatusInProgressAlias))
	assert.Equal(t, types.StatusPending, NormalizeStatus(types.StatusPending))
	assert.Equal(t, "archived", NormalizeStatus("archived"))
}

func TestPartition(t *testing.T) {
	cards := ChecklistAdapter{}.Cards(twoPhasePlan())
	lanes := Partition(cards)

	assert.Len(t, lanes, 4)
	for i, c := range types.Columns {
		assert.Equal(t, c, lanes[i].Column)
	}
	assert.Equal(t, []string{"t1"}, laneIDs(lanes, types.ColumnToDo))
	assert.Equal(t, []string{"t3"}, laneIDs(lanes, types.ColumnInProgress))
	assert.Equal(t, []string{"t2"}, laneIDs(lanes, types.ColumnCompleted))
	assert.Equal(t, []string{}, laneIDs(lanes, types.ColumnBlocked))
}

func TestPartitionExcludesUnknownStatus(t *testing.T) {
	plan := twoPhasePlan()
	cards := ChecklistAdapter{}.Cards(plan)
	lanes := Partition(cards)

	for _, l := range lanes {
		for _, c := range l.Cards {
			assert.NotEqual(t, "t4", c.ID, "archived card must not be in lane %s", l.Column)
		}
	}
	assert.Equal(t, "archived", cardStatus(t, cards, "t4"))
	assert.Equal(t, "archived", plan.Phases[1].Checklist[1].Status)
}

func TestAcceptedStatusesIsACopy(t *testing.T) {
	s := AcceptedStatuses(types.ColumnCompleted)
	s[0] = "mutated"
	assert.Equal(t, types.StatusCompleted, CanonicalStatus(types.ColumnCompleted))
}
