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

type ratingFixture struct {
	*scheduleFixture
	service *services.RatingService
}

// newRatingFixture builds a fully completed session between user-a and user-b.
func newRatingFixture(t *testing.T) *ratingFixture {
	t.Helper()
	sf := newScheduleFixture(t)
	f := &ratingFixture{scheduleFixture: sf}
	clock := services.ClockFunc(func() time.Time { return f.now })
	f.service = services.NewRatingService(f.store.Ratings(), f.store.Requests(), f.store.Users(), clock)

	_, err := sf.service.Complete(context.Background(), sf.scheduleA, "user-a")
	require.NoError(t, err)
	_, err = sf.service.Complete(context.Background(), sf.scheduleB, "user-b")
	require.NoError(t, err)
	return f
}

func (f *ratingFixture) ratingOfBob(score int) services.CreateRatingParams {
	return services.CreateRatingParams{
		SessionRequestID: f.requestID,
		RateeID:          "user-b",
		RateeName:        "Bob",
		SkillID:          "skill-python",
		SkillName:        "Python",
		Rating:           score,
	}
}

func TestCreateRating(t *testing.T) {
	f := newRatingFixture(t)

	rating, err := f.service.Create(context.Background(), "user-a", f.ratingOfBob(5))
	require.NoError(t, err)

	assert.Equal(t, "user-a", rating.RaterID)
	assert.Equal(t, "Alice", rating.RaterName)
	assert.Equal(t, f.now, rating.CreatedAt)

	rated, err := f.service.HasRated(context.Background(), "user-a", f.requestID)
	require.NoError(t, err)
	assert.True(t, rated)

	summary, err := f.service.Summary(context.Background(), "user-b")
	require.NoError(t, err)
	assert.Equal(t, 5.0, summary.AverageRating)
	assert.Equal(t, 1, summary.TotalRatings)
}

func TestCreateRatingDuplicate(t *testing.T) {
	f := newRatingFixture(t)

	_, err := f.service.Create(context.Background(), "user-a", f.ratingOfBob(5))
	require.NoError(t, err)

	_, err = f.service.Create(context.Background(), "user-a", f.ratingOfBob(3))
	assert.True(t, apperrors.IsKind(err, apperrors.AlreadyExists))

	summary, err := f.service.Summary(context.Background(), "user-b")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TotalRatings)
}

func TestCreateRatingBothParticipants(t *testing.T) {
	f := newRatingFixture(t)

	_, err := f.service.Create(context.Background(), "user-a", f.ratingOfBob(5))
	require.NoError(t, err)

	_, err = f.service.Create(context.Background(), "user-b", services.CreateRatingParams{
		SessionRequestID: f.requestID,
		RateeID:          "user-a",
		RateeName:        "Alice",
		SkillID:          "skill-guitar",
		SkillName:        "Guitar",
		Rating:           4,
	})
	require.NoError(t, err)

	summary, err := f.service.Summary(context.Background(), "user-a")
	require.NoError(t, err)
	assert.Equal(t, 4.0, summary.AverageRating)
	assert.Equal(t, 1, summary.TotalRatings)
}

func TestCreateRatingRaterMismatch(t *testing.T) {
	f := newRatingFixture(t)

	p := f.ratingOfBob(5)
	p.RaterID = "user-b"
	_, err := f.service.Create(context.Background(), "user-a", p)
	assert.True(t, apperrors.IsKind(err, apperrors.PermissionDenied))
}

func TestCreateRatingByOutsider(t *testing.T) {
	f := newRatingFixture(t)

	_, err := f.service.Create(context.Background(), "user-c", f.ratingOfBob(5))
	assert.True(t, apperrors.IsKind(err, apperrors.PermissionDenied))
}

func TestCreateRatingWrongRatee(t *testing.T) {
	f := newRatingFixture(t)

	p := f.ratingOfBob(5)
	p.RateeID = "user-c"
	_, err := f.service.Create(context.Background(), "user-a", p)
	assert.True(t, apperrors.IsKind(err, apperrors.InvalidArgument))
}

func TestCreateRatingBeforeCompletion(t *testing.T) {
	sf := newScheduleFixture(t)
	clock := services.ClockFunc(func() time.Time { return sf.now })
	service := services.NewRatingService(sf.store.Ratings(), sf.store.Requests(), sf.store.Users(), clock)

	_, err := service.Create(context.Background(), "user-a", services.CreateRatingParams{
		SessionRequestID: sf.requestID,
		RateeID:          "user-b",
		RateeName:        "Bob",
		SkillID:          "skill-python",
		SkillName:        "Python",
		Rating:           5,
	})
	assert.True(t, apperrors.IsKind(err, apperrors.FailedPrecondition))
}

func TestSummaryDefaultsToZero(t *testing.T) {
	f := newRatingFixture(t)

	summary, err := f.service.Summary(context.Background(), "user-c")
	require.NoError(t, err)
	assert.Equal(t, 0.0, summary.AverageRating)
	assert.Equal(t, 0, summary.TotalRatings)
}

func TestAverageRoundsToOneDecimal(t *testing.T) {
	f := newRatingFixture(t)

	// First completed session: Alice rates Bob 5.
	_, err := f.service.Create(context.Background(), "user-a", f.ratingOfBob(5))
	require.NoError(t, err)

	// Second completed session between the same pair: Alice rates Bob 4.
	req, err := f.requestFixture.service.Create(context.Background(), "user-a", guitarForPython("user-b"))
	require.NoError(t, err)
	_, err = f.requestFixture.service.Transition(context.Background(), req.ID, models.RequestAccepted, "user-b")
	require.NoError(t, err)
	for _, s := range f.store.Schedules().ListByRequest(req.ID) {
		_, err = f.scheduleFixture.service.Complete(context.Background(), s.ID, s.UserID)
		require.NoError(t, err)
	}

	p := f.ratingOfBob(4)
	p.SessionRequestID = req.ID
	_, err = f.service.Create(context.Background(), "user-a", p)
	require.NoError(t, err)

	summary, err := f.service.Summary(context.Background(), "user-b")
	require.NoError(t, err)
	assert.Equal(t, 4.5, summary.AverageRating)
	assert.Equal(t, 2, summary.TotalRatings)
}

func TestListByUser_Ratings(t *testing.T) {
	f := newRatingFixture(t)

	_, err := f.service.Create(context.Background(), "user-a", f.ratingOfBob(5))
	require.NoError(t, err)

	ratings, err := f.service.ListByUser(context.Background(), "user-b")
	require.NoError(t, err)
	require.Len(t, ratings, 1)
	assert.Equal(t, 5, ratings[0].Rating)
	assert.Equal(t, "user-a", ratings[0].RaterID)
}
