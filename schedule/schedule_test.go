package schedule_test

import (
	"testing"

	"github.com/alanrogers/legofit/schedule"
	"github.com/stretchr/testify/require"
)

func TestNewScheduleRejectsEmptyList(t *testing.T) {
	_, err := schedule.NewSchedule()
	require.ErrorIs(t, err, schedule.ErrEmptySchedule)
}

func TestNewScheduleRejectsNonPositiveFields(t *testing.T) {
	_, err := schedule.NewSchedule(schedule.Stage{Iterations: 0, Replicates: 10})
	require.ErrorIs(t, err, schedule.ErrBadStage)

	_, err = schedule.NewSchedule(schedule.Stage{Iterations: 10, Replicates: -1})
	require.ErrorIs(t, err, schedule.ErrBadStage)
}

func TestNextAdvancesThenReturnsFalse(t *testing.T) {
	sch, err := schedule.NewSchedule(
		schedule.Stage{Iterations: 10, Replicates: 100},
		schedule.Stage{Iterations: 20, Replicates: 1000},
	)
	require.NoError(t, err)
	require.Equal(t, 2, sch.Len())

	first, ok := sch.Next()
	require.True(t, ok)
	require.Equal(t, schedule.Stage{Iterations: 10, Replicates: 100}, first)

	second, ok := sch.Next()
	require.True(t, ok)
	require.Equal(t, schedule.Stage{Iterations: 20, Replicates: 1000}, second)

	_, ok = sch.Next()
	require.False(t, ok)
}

func TestResetRewindsCursor(t *testing.T) {
	sch, err := schedule.NewSchedule(schedule.Stage{Iterations: 1, Replicates: 1})
	require.NoError(t, err)

	_, ok := sch.Next()
	require.True(t, ok)
	_, ok = sch.Next()
	require.False(t, ok)

	sch.Reset()
	_, ok = sch.Next()
	require.True(t, ok)
}
