package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string        { return &s }
func boolPtr(b bool) *bool           { return &b }
func timePtr(t time.Time) *time.Time { return &t }

func TestApplyTaskUpdate_OmittedFieldsUntouched(t *testing.T) {
	t.Parallel()

	task := Task{Name: "Buy milk", Description: "2 liters", Completed: false}
	completedNow := applyTaskUpdate(&task, TaskUpdate{})

	require.False(t, completedNow)
	require.Equal(t, "Buy milk", task.Name)
	require.Equal(t, "2 liters", task.Description)
	require.False(t, task.Completed)
	require.Nil(t, task.CompletedAt)
}

func TestApplyTaskUpdate_FalsyValuesApply(t *testing.T) {
	t.Parallel()

	done := time.Now().UTC()
	task := Task{Name: "Buy milk", Description: "2 liters", Completed: true, CompletedAt: &done}

	// An explicit empty description and completed=false must be honored,
	// not skipped as "falsy".
	completedNow := applyTaskUpdate(&task, TaskUpdate{
		Description: strPtr(""),
		Completed:   boolPtr(false),
	})

	require.False(t, completedNow)
	require.Equal(t, "", task.Description)
	require.False(t, task.Completed)
	require.Nil(t, task.CompletedAt, "reopening must clear completed_at")
}

func TestApplyTaskUpdate_CompletionStampsTime(t *testing.T) {
	t.Parallel()

	task := Task{Name: "Buy milk"}
	before := time.Now().UTC()
	completedNow := applyTaskUpdate(&task, TaskUpdate{Completed: boolPtr(true)})

	require.True(t, completedNow)
	require.True(t, task.Completed)
	require.NotNil(t, task.CompletedAt, "completing must not leave completed_at null")
	require.False(t, task.CompletedAt.Before(before))
}

func TestApplyTaskUpdate_ExplicitCompletedAtWins(t *testing.T) {
	t.Parallel()

	explicit := time.Date(2024, 3, 7, 12, 0, 0, 0, time.UTC)
	task := Task{Name: "Buy milk"}
	completedNow := applyTaskUpdate(&task, TaskUpdate{
		Completed:   boolPtr(true),
		CompletedAt: timePtr(explicit),
	})

	require.True(t, completedNow)
	require.Equal(t, explicit, *task.CompletedAt)
}

func TestApplyTaskUpdate_RepeatedCompletionNotATransition(t *testing.T) {
	t.Parallel()

	done := time.Date(2024, 3, 7, 12, 0, 0, 0, time.UTC)
	task := Task{Name: "Buy milk", Completed: true, CompletedAt: &done}
	completedNow := applyTaskUpdate(&task, TaskUpdate{Completed: boolPtr(true)})

	require.False(t, completedNow)
	require.Equal(t, done, *task.CompletedAt, "existing completed_at must be kept")
}
