package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hyperflow/backend/internal/domain/hr"
	"github.com/hyperflow/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttendanceRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormAttendanceRepository(db)
	ctx := context.Background()

	tn, _ := seedTenant(t, db, "acme")
	userID := uuid.New()

	for d := 1; d <= 3; d++ {
		a, err := hr.NewAttendance(tn.ID, userID, utcDay(2024, time.March, d))
		require.NoError(t, err)
		require.NoError(t, a.Login(utcDay(2024, time.March, d).Add(9*time.Hour)))
		require.NoError(t, repo.Create(ctx, a))
	}

	t.Run("one record per user and day", func(t *testing.T) {
		dup, err := hr.NewAttendance(tn.ID, userID, utcDay(2024, time.March, 2).Add(15*time.Hour))
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Create(ctx, dup), shared.ErrAlreadyExists)
	})

	t.Run("find by day and log out", func(t *testing.T) {
		a, err := repo.FindByUserAndDate(ctx, tn.ID, userID, utcDay(2024, time.March, 2).Add(11*time.Hour))
		require.NoError(t, err)
		require.NoError(t, a.Logout(utcDay(2024, time.March, 2).Add(17*time.Hour)))
		require.NoError(t, repo.Update(ctx, a))

		found, err := repo.FindByID(ctx, tn.ID, a.ID)
		require.NoError(t, err)
		hours, ok := found.HoursWorked()
		assert.True(t, ok)
		assert.InDelta(t, 8.0, hours, 0.001)
	})

	t.Run("range is inclusive and ordered newest first", func(t *testing.T) {
		dr := shared.DateRange{Start: utcDay(2024, time.March, 2), End: utcDay(2024, time.March, 3)}
		list, err := repo.FindByUserBetween(ctx, tn.ID, userID, dr)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, 3, list[0].WorkDate.Day())
		assert.Equal(t, 2, list[1].WorkDate.Day())

		all, err := repo.FindBetween(ctx, tn.ID, shared.DateRange{Start: utcDay(2024, time.March, 1), End: utcDay(2024, time.March, 1)})
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("missing day", func(t *testing.T) {
		_, err := repo.FindByUserAndDate(ctx, tn.ID, userID, utcDay(2024, time.April, 1))
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestLeaveRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormLeaveRepository(db)
	ctx := context.Background()

	tn, _ := seedTenant(t, db, "acme")
	employee := uuid.New()

	req, err := hr.NewLeaveRequest(tn.ID, employee, utcDay(2024, time.May, 6), utcDay(2024, time.May, 8), hr.LeaveTypeAnnual, "Family trip")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, req))

	other, err := hr.NewLeaveRequest(tn.ID, uuid.New(), utcDay(2024, time.May, 10), utcDay(2024, time.May, 10), hr.LeaveTypeSick, "Flu")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, other))

	approver := uuid.New()
	require.NoError(t, req.Approve(approver, "enjoy", time.Now()))
	require.NoError(t, repo.Update(ctx, req))

	status := hr.LeaveStatusApproved
	list, total, err := repo.FindAll(ctx, tn.ID, hr.LeaveFilter{Filter: shared.DefaultFilter(), Status: &status})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, req.ID, list[0].ID)
	assert.Equal(t, 3, list[0].Days)
	require.NotNil(t, list[0].ApproverID)
	assert.Equal(t, approver, *list[0].ApproverID)

	list, total, err = repo.FindAll(ctx, tn.ID, hr.LeaveFilter{Filter: shared.DefaultFilter(), EmployeeID: &employee})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, utcDay(2024, time.May, 6), list[0].StartDate.UTC())
}

func TestAnnouncementRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormAnnouncementRepository(db)
	ctx := context.Background()

	tn, _ := seedTenant(t, db, "acme")
	author := uuid.New()

	base := time.Now().UTC().Add(-time.Hour)
	create := func(title string, pinned bool, cat hr.AnnouncementCategory, offset time.Duration) *hr.Announcement {
		a, err := hr.NewAnnouncement(tn.ID, author, hr.AnnouncementFields{
			Title:    title,
			Content:  title + " details",
			Category: cat,
			IsPinned: pinned,
		})
		require.NoError(t, err)
		a.CreatedAt = base.Add(offset)
		require.NoError(t, repo.Create(ctx, a))
		return a
	}

	pinned := create("Office closed Friday", true, hr.AnnouncementCompany, 0)
	create("Team lunch", false, hr.AnnouncementEvent, time.Minute)
	create("New benefits", false, hr.AnnouncementHR, 2*time.Minute)

	list, total, err := repo.FindAll(ctx, tn.ID, shared.DefaultFilter(), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, list, 3)
	assert.Equal(t, pinned.ID, list[0].ID, "pinned first")
	assert.Equal(t, "New benefits", list[1].Title)

	cat := hr.AnnouncementEvent
	list, total, err = repo.FindAll(ctx, tn.ID, shared.DefaultFilter(), &cat)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Team lunch", list[0].Title)

	require.NoError(t, repo.Delete(ctx, tn.ID, pinned.ID))
	_, err = repo.FindByID(ctx, tn.ID, pinned.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
