package services

import (
	"context"
	"time"

	"skillswap-backend/internal/apperrors"
	"skillswap-backend/internal/models"
)

// SessionScheduleStore is the storage dependency of the schedule service.
type SessionScheduleStore interface {
	GetByID(ctx context.Context, id string) (*models.SessionSchedule, error)
	ListByUser(ctx context.Context, userID string) ([]models.SessionSchedule, error)
	UpdateStatus(ctx context.Context, id string, from, to models.ScheduleStatus, now time.Time) (bool, error)
	CountNotCompleted(ctx context.Context, sessionRequestID string) (int, error)
}

// ScheduleTransition reports the outcome of completing or cancelling a
// schedule, including whether the parent request changed status with it.
type ScheduleTransition struct {
	Schedule         *models.SessionSchedule
	RequesterID      string
	RecipientID      string
	RequestCompleted bool
	RequestCancelled bool
}

// SessionScheduleService owns terminal schedule transitions and their
// back-propagation to the parent request. Completion requires both halves
// (the last completer triggers the rollup); cancellation of either half
// cancels the whole request unless it already finished.
type SessionScheduleService struct {
	scheduleRepo SessionScheduleStore
	requestRepo  SessionRequestStore
	clock        Clock
}

// NewSessionScheduleService creates a new session schedule service
func NewSessionScheduleService(scheduleRepo SessionScheduleStore, requestRepo SessionRequestStore, clock Clock) *SessionScheduleService {
	return &SessionScheduleService{
		scheduleRepo: scheduleRepo,
		requestRepo:  requestRepo,
		clock:        clock,
	}
}

// ListByUser retrieves the caller's schedules
func (s *SessionScheduleService) ListByUser(ctx context.Context, userID string) ([]models.SessionSchedule, error) {
	return s.scheduleRepo.ListByUser(ctx, userID)
}

func (s *SessionScheduleService) loadOwned(ctx context.Context, scheduleID, actorID string) (*models.SessionSchedule, error) {
	schedule, err := s.scheduleRepo.GetByID(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	if schedule.UserID != actorID {
		return nil, apperrors.New(apperrors.PermissionDenied, "you do not own this session schedule")
	}
	return schedule, nil
}

// Complete marks the actor's schedule completed. When no schedule of the
// request remains non-completed, the request itself is rolled up to
// completed — request completion is emergent, never invoked directly.
func (s *SessionScheduleService) Complete(ctx context.Context, scheduleID, actorID string) (*ScheduleTransition, error) {
	schedule, err := s.loadOwned(ctx, scheduleID, actorID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	ok, err := s.scheduleRepo.UpdateStatus(ctx, scheduleID, models.ScheduleAccepted, models.ScheduleCompleted, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.Newf(apperrors.FailedPrecondition, "session schedule is %s and cannot be completed", schedule.Status)
	}
	schedule.Status = models.ScheduleCompleted
	schedule.UpdatedAt = now
	schedule.CompletedAt = &now

	result := &ScheduleTransition{Schedule: schedule}

	remaining, err := s.scheduleRepo.CountNotCompleted(ctx, schedule.SessionRequestID)
	if err != nil {
		return nil, err
	}
	if remaining == 0 {
		done, err := s.requestRepo.UpdateStatus(ctx, schedule.SessionRequestID,
			[]models.RequestStatus{models.RequestAccepted}, models.RequestCompleted, now)
		if err != nil {
			return nil, err
		}
		result.RequestCompleted = done
	}

	s.attachParties(ctx, result, schedule.SessionRequestID)
	return result, nil
}

// Cancel marks the actor's schedule cancelled and unilaterally cancels the
// parent request unless it has already completed or been cancelled.
func (s *SessionScheduleService) Cancel(ctx context.Context, scheduleID, actorID string) (*ScheduleTransition, error) {
	schedule, err := s.loadOwned(ctx, scheduleID, actorID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	ok, err := s.scheduleRepo.UpdateStatus(ctx, scheduleID, models.ScheduleAccepted, models.ScheduleCancelled, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.Newf(apperrors.FailedPrecondition, "session schedule is %s and cannot be cancelled", schedule.Status)
	}
	schedule.Status = models.ScheduleCancelled
	schedule.UpdatedAt = now

	cancelled, err := s.requestRepo.UpdateStatus(ctx, schedule.SessionRequestID,
		[]models.RequestStatus{models.RequestPending, models.RequestAccepted}, models.RequestCancelled, now)
	if err != nil {
		return nil, err
	}

	result := &ScheduleTransition{Schedule: schedule, RequestCancelled: cancelled}
	s.attachParties(ctx, result, schedule.SessionRequestID)
	return result, nil
}

// attachParties fills the participant ids used for event notification.
// Failures are swallowed: the transition itself has already committed.
func (s *SessionScheduleService) attachParties(ctx context.Context, result *ScheduleTransition, requestID string) {
	req, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return
	}
	result.RequesterID = req.RequesterID
	result.RecipientID = req.RecipientID
}
