package services

import (
	"context"
	"time"

	"skillswap-backend/internal/apperrors"
	"skillswap-backend/internal/models"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// SessionRequestStore is the storage dependency of the session request
// service. Accept must commit the status flip and both schedule inserts
// atomically.
type SessionRequestStore interface {
	Create(ctx context.Context, req *models.SessionRequest) error
	GetByID(ctx context.Context, id string) (*models.SessionRequest, error)
	ListByRequester(ctx context.Context, userID string, status models.RequestStatus) ([]models.SessionRequest, error)
	ListByRecipient(ctx context.Context, userID string, status models.RequestStatus) ([]models.SessionRequest, error)
	UpdateStatus(ctx context.Context, id string, from []models.RequestStatus, to models.RequestStatus, now time.Time) (bool, error)
	Accept(ctx context.Context, id string, now time.Time, schedules []*models.SessionSchedule) (bool, error)
}

// SessionRequestService owns the session request lifecycle:
// pending -> accepted | rejected | cancelled, accepted -> completed | cancelled.
// Completion is never set through Transition; it is reached only via the
// schedule rollup in SessionScheduleService.
type SessionRequestService struct {
	requestRepo SessionRequestStore
	userRepo    UserStore
	clock       Clock
}

// NewSessionRequestService creates a new session request service
func NewSessionRequestService(requestRepo SessionRequestStore, userRepo UserStore, clock Clock) *SessionRequestService {
	return &SessionRequestService{
		requestRepo: requestRepo,
		userRepo:    userRepo,
		clock:       clock,
	}
}

// CreateSessionRequestParams carries the fields for proposing a session
type CreateSessionRequestParams struct {
	RecipientID      string
	SkillOfferedID   string
	SkillOfferedName string
	SkillSoughtID    string
	SkillSoughtName  string
	SessionType      string
	ProposedDate     time.Time
	ProposedTime     string
	Duration         int
	Location         *string
	MeetingLink      *string
	Description      *string
}

// Create proposes a new session. The recipient must exist, the proposed date
// must be strictly in the future, and both parties' display names and emails
// are denormalized onto the record.
func (s *SessionRequestService) Create(ctx context.Context, requesterID string, p CreateSessionRequestParams) (*models.SessionRequest, error) {
	if p.RecipientID == requesterID {
		return nil, apperrors.New(apperrors.InvalidArgument, "cannot request a session with yourself")
	}

	now := s.clock.Now()
	if !p.ProposedDate.After(now) {
		return nil, apperrors.New(apperrors.InvalidArgument, "proposed date must be in the future")
	}

	requester, err := s.userRepo.GetByID(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	recipient, err := s.userRepo.GetByID(ctx, p.RecipientID)
	if err != nil {
		if apperrors.IsKind(err, apperrors.NotFound) {
			return nil, apperrors.New(apperrors.NotFound, "recipient not found")
		}
		return nil, err
	}

	req := &models.SessionRequest{
		ID:               uuid.New().String(),
		RequesterID:      requester.ID,
		RequesterName:    requester.DisplayName,
		RequesterEmail:   requester.Email,
		RecipientID:      recipient.ID,
		RecipientName:    recipient.DisplayName,
		RecipientEmail:   recipient.Email,
		SkillOfferedID:   p.SkillOfferedID,
		SkillOfferedName: p.SkillOfferedName,
		SkillSoughtID:    p.SkillSoughtID,
		SkillSoughtName:  p.SkillSoughtName,
		SessionType:      p.SessionType,
		ProposedDate:     p.ProposedDate,
		ProposedTime:     p.ProposedTime,
		Duration:         p.Duration,
		Location:         p.Location,
		MeetingLink:      p.MeetingLink,
		Description:      p.Description,
		Status:           models.RequestPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.requestRepo.Create(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

// Transition applies a status transition requested by an actor. Accepting or
// rejecting is reserved for the recipient; cancelling is open to either
// party. Acceptance materializes both schedules before returning.
func (s *SessionRequestService) Transition(ctx context.Context, requestID string, target models.RequestStatus, actorID string) (*models.SessionRequest, error) {
	req, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()

	switch target {
	case models.RequestAccepted, models.RequestRejected:
		if actorID != req.RecipientID {
			return nil, apperrors.New(apperrors.PermissionDenied, "only the recipient can accept or reject a session request")
		}
	case models.RequestCancelled:
		if actorID != req.RequesterID && actorID != req.RecipientID {
			return nil, apperrors.New(apperrors.PermissionDenied, "you are not a participant of this session request")
		}
	default:
		return nil, apperrors.Newf(apperrors.InvalidArgument, "cannot transition a session request to %q", target)
	}

	var ok bool
	switch target {
	case models.RequestAccepted:
		schedules := materializeSchedules(req, now)
		ok, err = s.requestRepo.Accept(ctx, requestID, now, schedules)
	case models.RequestRejected:
		ok, err = s.requestRepo.UpdateStatus(ctx, requestID, []models.RequestStatus{models.RequestPending}, target, now)
	case models.RequestCancelled:
		ok, err = s.requestRepo.UpdateStatus(ctx, requestID, []models.RequestStatus{models.RequestPending, models.RequestAccepted}, target, now)
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.Newf(apperrors.FailedPrecondition, "session request is %s and cannot become %s", req.Status, target)
	}

	req.Status = target
	req.UpdatedAt = now
	if target == models.RequestAccepted {
		req.AcceptedAt = &now
	}
	return req, nil
}

// List returns the union of requests where the user is requester or
// recipient. Both sides are queried concurrently and concatenated; each side
// is ordered by creation time descending but no global order is imposed
// across the two.
func (s *SessionRequestService) List(ctx context.Context, userID string) ([]models.SessionRequest, error) {
	return s.list(ctx, userID, "")
}

// ListByStatus is List filtered to one status
func (s *SessionRequestService) ListByStatus(ctx context.Context, userID string, status models.RequestStatus) ([]models.SessionRequest, error) {
	if !status.Valid() {
		return nil, apperrors.Newf(apperrors.InvalidArgument, "unknown status %q", status)
	}
	return s.list(ctx, userID, status)
}

func (s *SessionRequestService) list(ctx context.Context, userID string, status models.RequestStatus) ([]models.SessionRequest, error) {
	var sent, received []models.SessionRequest
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sent, err = s.requestRepo.ListByRequester(gctx, userID, status)
		return err
	})
	g.Go(func() error {
		var err error
		received, err = s.requestRepo.ListByRecipient(gctx, userID, status)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return append(sent, received...), nil
}
