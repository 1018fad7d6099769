package services

import (
	"context"

	"skillswap-backend/internal/apperrors"
	"skillswap-backend/internal/models"

	"github.com/google/uuid"
)

// RatingStore is the storage dependency of the rating service. Create must
// insert the rating and refresh the ratee's aggregate atomically.
type RatingStore interface {
	Exists(ctx context.Context, raterID, sessionRequestID string) (bool, error)
	Create(ctx context.Context, rating *models.Rating) error
	ListByRatee(ctx context.Context, rateeID string) ([]models.Rating, error)
}

// RatingService enforces the one-rating-per-session-per-rater rule and
// maintains the denormalized per-user average.
type RatingService struct {
	ratingRepo  RatingStore
	requestRepo SessionRequestStore
	userRepo    UserStore
	clock       Clock
}

// NewRatingService creates a new rating service
func NewRatingService(ratingRepo RatingStore, requestRepo SessionRequestStore, userRepo UserStore, clock Clock) *RatingService {
	return &RatingService{
		ratingRepo:  ratingRepo,
		requestRepo: requestRepo,
		userRepo:    userRepo,
		clock:       clock,
	}
}

// CreateRatingParams carries the fields for rating a completed session.
// RaterID is optional; when present it must match the authenticated actor.
type CreateRatingParams struct {
	SessionRequestID  string
	SessionScheduleID *string
	RaterID           string
	RateeID           string
	RateeName         string
	SkillID           string
	SkillName         string
	Rating            int
	Feedback          *string
}

// Create records a rating for a completed session. The actor must be a
// participant of the session and may rate only the other participant, once.
func (s *RatingService) Create(ctx context.Context, actorID string, p CreateRatingParams) (*models.Rating, error) {
	if p.RaterID != "" && p.RaterID != actorID {
		return nil, apperrors.New(apperrors.PermissionDenied, "rater does not match the authenticated user")
	}

	req, err := s.requestRepo.GetByID(ctx, p.SessionRequestID)
	if err != nil {
		return nil, err
	}
	if req.Status != models.RequestCompleted {
		return nil, apperrors.New(apperrors.FailedPrecondition, "session is not completed")
	}
	if actorID != req.RequesterID && actorID != req.RecipientID {
		return nil, apperrors.New(apperrors.PermissionDenied, "you are not a participant of this session")
	}
	other := req.RequesterID
	if actorID == req.RequesterID {
		other = req.RecipientID
	}
	if p.RateeID != other {
		return nil, apperrors.New(apperrors.InvalidArgument, "ratee is not the other session participant")
	}

	rated, err := s.ratingRepo.Exists(ctx, actorID, p.SessionRequestID)
	if err != nil {
		return nil, err
	}
	if rated {
		return nil, apperrors.New(apperrors.AlreadyExists, "you have already rated this session")
	}

	rater, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	rating := &models.Rating{
		ID:                uuid.New().String(),
		SessionRequestID:  p.SessionRequestID,
		SessionScheduleID: p.SessionScheduleID,
		RaterID:           rater.ID,
		RaterName:         rater.DisplayName,
		RateeID:           p.RateeID,
		RateeName:         p.RateeName,
		SkillID:           p.SkillID,
		SkillName:         p.SkillName,
		Rating:            p.Rating,
		Feedback:          p.Feedback,
		CreatedAt:         s.clock.Now(),
	}
	if err := s.ratingRepo.Create(ctx, rating); err != nil {
		return nil, err
	}
	return rating, nil
}

// HasRated reports whether a rater has already rated a session
func (s *RatingService) HasRated(ctx context.Context, raterID, sessionRequestID string) (bool, error) {
	return s.ratingRepo.Exists(ctx, raterID, sessionRequestID)
}

// ListByUser retrieves all ratings received by a user
func (s *RatingService) ListByUser(ctx context.Context, userID string) ([]models.Rating, error) {
	return s.ratingRepo.ListByRatee(ctx, userID)
}

// Summary returns the denormalized rating aggregate for a user. A user with
// no ratings yields a zero summary.
func (s *RatingService) Summary(ctx context.Context, userID string) (*models.RatingSummary, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &models.RatingSummary{
		AverageRating: user.AverageRating,
		TotalRatings:  user.TotalRatings,
	}, nil
}
