package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/domain/shared"
	"github.com/hyperflow/backend/internal/domain/work"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskRepository(t *testing.T) {
	db := setupTestDB(t)
	tasks := NewGormTaskRepository(db)
	insights := NewGormInsightRepository(db)
	ctx := context.Background()

	tn, _ := seedTenant(t, db, "acme")
	assignee := uuid.New()
	clientID := uuid.New()

	newTask := func(title string, assigned *uuid.UUID) *work.Task {
		est := 4.0
		task, err := work.NewTask(tn.ID, work.TaskFields{
			Title:         title,
			ClientID:      &clientID,
			AssignedTo:    assigned,
			EstimatedTime: &est,
		})
		require.NoError(t, err)
		require.NoError(t, tasks.Create(ctx, task))
		return task
	}

	design := newTask("Design landing page", &assignee)
	copyTask := newTask("Write launch copy", nil)

	t.Run("filters", func(t *testing.T) {
		filter := work.NewTaskFilter()
		filter.AssignedTo = &assignee
		list, total, err := tasks.FindAll(ctx, tn.ID, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, design.ID, list[0].ID)

		status := work.TaskStatusPending
		filter = work.NewTaskFilter()
		filter.Status = &status
		filter.Search = "COPY"
		list, total, err = tasks.FindAll(ctx, tn.ID, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, copyTask.ID, list[0].ID)
	})

	t.Run("completion persists timings", func(t *testing.T) {
		start := time.Now().UTC().Add(-3 * time.Hour)
		require.NoError(t, design.ChangeStatus(work.TaskStatusInProgress, start))
		require.NoError(t, design.ChangeStatus(work.TaskStatusCompleted, start.Add(3*time.Hour)))
		require.NoError(t, tasks.Update(ctx, design))

		found, err := tasks.FindByID(ctx, tn.ID, design.ID)
		require.NoError(t, err)
		assert.Equal(t, work.TaskStatusCompleted, found.Status)
		require.NotNil(t, found.ActualTime)
		assert.InDelta(t, 3.0, *found.ActualTime, 0.01)

		done, err := tasks.FindCompletedBetween(ctx, tn.ID, start, time.Now().UTC().Add(time.Hour))
		require.NoError(t, err)
		require.Len(t, done, 1)
		assert.Equal(t, design.ID, done[0].ID)
	})

	t.Run("created between", func(t *testing.T) {
		from := time.Now().UTC().Add(-time.Hour)
		to := time.Now().UTC().Add(time.Hour)
		list, err := tasks.FindCreatedBetween(ctx, tn.ID, from, to, &clientID, nil)
		require.NoError(t, err)
		assert.Len(t, list, 2)

		list, err = tasks.FindCreatedBetween(ctx, tn.ID, from, to, nil, &assignee)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("delete removes insights", func(t *testing.T) {
		in, err := work.NewInsight(tn.ID, copyTask.ID, "Split copy into three drafts", "ai")
		require.NoError(t, err)
		require.NoError(t, insights.Create(ctx, in))

		list, err := insights.FindByTask(ctx, tn.ID, copyTask.ID)
		require.NoError(t, err)
		assert.Len(t, list, 1)

		require.NoError(t, tasks.Delete(ctx, tn.ID, copyTask.ID))
		list, err = insights.FindByTask(ctx, tn.ID, copyTask.ID)
		require.NoError(t, err)
		assert.Empty(t, list)

		assert.ErrorIs(t, tasks.Delete(ctx, tn.ID, copyTask.ID), shared.ErrNotFound)
	})
}
