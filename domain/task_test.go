package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTaskDraftValidate(t *testing.T) {
	t.Run("trims title and defaults priority", func(t *testing.T) {
		d := TaskDraft{Title: "  Buy milk  ", DueDate: "2024-05-01"}
		require.NoError(t, d.Validate())
		require.Equal(t, "Buy milk", d.Title)
		require.Equal(t, PriorityMedium, d.Priority)
	})

	t.Run("empty title rejected", func(t *testing.T) {
		d := TaskDraft{Title: "   "}
		err := d.Validate()
		require.Error(t, err)
		require.True(t, IsDomainError(err, ErrCodeInvalid))
	})

	t.Run("unknown priority rejected", func(t *testing.T) {
		d := TaskDraft{Title: "x", Priority: "urgent"}
		err := d.Validate()
		require.True(t, IsDomainError(err, ErrCodeInvalid))
	})

	t.Run("priority case-insensitive", func(t *testing.T) {
		d := TaskDraft{Title: "x", Priority: "HIGH"}
		require.NoError(t, d.Validate())
		require.Equal(t, PriorityHigh, d.Priority)
	})

	t.Run("bad due date rejected", func(t *testing.T) {
		d := TaskDraft{Title: "x", DueDate: "01/05/2024"}
		err := d.Validate()
		require.True(t, IsDomainError(err, ErrCodeInvalid))
	})
}

func TestTaskPatchValidate(t *testing.T) {
	t.Run("completed-only patch passes untouched", func(t *testing.T) {
		done := true
		p := TaskPatch{Completed: &done}
		require.NoError(t, p.Validate())
		require.Nil(t, p.Title)
		require.True(t, *p.Completed)
	})

	t.Run("present empty title rejected", func(t *testing.T) {
		empty := " "
		p := TaskPatch{Title: &empty}
		err := p.Validate()
		require.True(t, IsDomainError(err, ErrCodeInvalid))
	})

	t.Run("present priority normalized", func(t *testing.T) {
		prio := "Low"
		p := TaskPatch{Priority: &prio}
		require.NoError(t, p.Validate())
		require.Equal(t, PriorityLow, *p.Priority)
	})
}
