package services_test

import (
	"context"
	"testing"
	"time"

	"skillswap-backend/internal/apperrors"
	"skillswap-backend/internal/models"
	"skillswap-backend/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scheduleFixture struct {
	*requestFixture
	service   *services.SessionScheduleService
	requestID string
	scheduleA string // owned by user-a
	scheduleB string // owned by user-b
}

// newScheduleFixture builds an accepted session between user-a and user-b.
func newScheduleFixture(t *testing.T) *scheduleFixture {
	t.Helper()
	rf := newRequestFixture(t)
	f := &scheduleFixture{requestFixture: rf}
	clock := services.ClockFunc(func() time.Time { return f.now })
	f.service = services.NewSessionScheduleService(f.store.Schedules(), f.store.Requests(), clock)

	req, err := rf.service.Create(context.Background(), "user-a", guitarForPython("user-b"))
	require.NoError(t, err)
	_, err = rf.service.Transition(context.Background(), req.ID, models.RequestAccepted, "user-b")
	require.NoError(t, err)
	f.requestID = req.ID

	for _, s := range f.store.Schedules().ListByRequest(req.ID) {
		switch s.UserID {
		case "user-a":
			f.scheduleA = s.ID
		case "user-b":
			f.scheduleB = s.ID
		}
	}
	require.NotEmpty(t, f.scheduleA)
	require.NotEmpty(t, f.scheduleB)
	return f
}

func (f *scheduleFixture) requestStatus(t *testing.T) models.RequestStatus {
	t.Helper()
	req, err := f.store.Requests().GetByID(context.Background(), f.requestID)
	require.NoError(t, err)
	return req.Status
}

func TestCompleteFirstHalfLeavesRequestAccepted(t *testing.T) {
	f := newScheduleFixture(t)

	result, err := f.service.Complete(context.Background(), f.scheduleA, "user-a")
	require.NoError(t, err)

	assert.Equal(t, models.ScheduleCompleted, result.Schedule.Status)
	require.NotNil(t, result.Schedule.CompletedAt)
	assert.False(t, result.RequestCompleted)
	assert.Equal(t, models.RequestAccepted, f.requestStatus(t))
}

func TestCompleteBothHalvesRollsUpRequest(t *testing.T) {
	f := newScheduleFixture(t)

	_, err := f.service.Complete(context.Background(), f.scheduleA, "user-a")
	require.NoError(t, err)

	f.now = f.now.Add(time.Hour)
	result, err := f.service.Complete(context.Background(), f.scheduleB, "user-b")
	require.NoError(t, err)

	assert.True(t, result.RequestCompleted)
	req, err := f.store.Requests().GetByID(context.Background(), f.requestID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestCompleted, req.Status)
	require.NotNil(t, req.CompletedAt)
	assert.Equal(t, f.now, *req.CompletedAt)
}

func TestCompleteNotOwner(t *testing.T) {
	f := newScheduleFixture(t)

	_, err := f.service.Complete(context.Background(), f.scheduleA, "user-b")
	assert.True(t, apperrors.IsKind(err, apperrors.PermissionDenied))

	_, err = f.service.Complete(context.Background(), f.scheduleA, "user-c")
	assert.True(t, apperrors.IsKind(err, apperrors.PermissionDenied))
}

func TestCompleteMissingSchedule(t *testing.T) {
	f := newScheduleFixture(t)

	_, err := f.service.Complete(context.Background(), "missing", "user-a")
	assert.True(t, apperrors.IsKind(err, apperrors.NotFound))
}

func TestCancelIsUnilateral(t *testing.T) {
	f := newScheduleFixture(t)

	result, err := f.service.Cancel(context.Background(), f.scheduleA, "user-a")
	require.NoError(t, err)

	assert.Equal(t, models.ScheduleCancelled, result.Schedule.Status)
	assert.True(t, result.RequestCancelled)
	assert.Equal(t, models.RequestCancelled, f.requestStatus(t))

	// The sibling half is not touched: cancelling one schedule cancels the
	// request, not the counterpart's schedule.
	sibling, err := f.store.Schedules().GetByID(context.Background(), f.scheduleB)
	require.NoError(t, err)
	assert.Equal(t, models.ScheduleAccepted, sibling.Status)
}

func TestCancelSecondHalfAfterCancelledRequest(t *testing.T) {
	f := newScheduleFixture(t)

	_, err := f.service.Cancel(context.Background(), f.scheduleA, "user-a")
	require.NoError(t, err)

	result, err := f.service.Cancel(context.Background(), f.scheduleB, "user-b")
	require.NoError(t, err)
	assert.False(t, result.RequestCancelled)
	assert.Equal(t, models.RequestCancelled, f.requestStatus(t))
}

func TestCancelNotOwner(t *testing.T) {
	f := newScheduleFixture(t)

	_, err := f.service.Cancel(context.Background(), f.scheduleA, "user-c")
	assert.True(t, apperrors.IsKind(err, apperrors.PermissionDenied))
}

func TestCancelCompletedScheduleDoesNotRegressRequest(t *testing.T) {
	f := newScheduleFixture(t)

	_, err := f.service.Complete(context.Background(), f.scheduleA, "user-a")
	require.NoError(t, err)
	_, err = f.service.Complete(context.Background(), f.scheduleB, "user-b")
	require.NoError(t, err)
	require.Equal(t, models.RequestCompleted, f.requestStatus(t))

	_, err = f.service.Cancel(context.Background(), f.scheduleA, "user-a")
	assert.True(t, apperrors.IsKind(err, apperrors.FailedPrecondition))
	assert.Equal(t, models.RequestCompleted, f.requestStatus(t))
}

func TestCompleteTwiceRejected(t *testing.T) {
	f := newScheduleFixture(t)

	_, err := f.service.Complete(context.Background(), f.scheduleA, "user-a")
	require.NoError(t, err)

	_, err = f.service.Complete(context.Background(), f.scheduleA, "user-a")
	assert.True(t, apperrors.IsKind(err, apperrors.FailedPrecondition))
}

func TestListByUser(t *testing.T) {
	f := newScheduleFixture(t)

	schedules, err := f.service.ListByUser(context.Background(), "user-a")
	require.NoError(t, err)
	require.Len(t, schedules, 1)
	assert.Equal(t, f.scheduleA, schedules[0].ID)
	assert.Equal(t, "Python", schedules[0].SkillName)
}
