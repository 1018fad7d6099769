package repository

import (
	"context"
	"errors"
	"fmt"

	"skillswap-backend/internal/apperrors"
	"skillswap-backend/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RatingRepository handles database operations for ratings
type RatingRepository struct {
	db *pgxpool.Pool
}

// NewRatingRepository creates a new rating repository
func NewRatingRepository(db *pgxpool.Pool) *RatingRepository {
	return &RatingRepository{db: db}
}

// Exists checks whether a rater has already rated a session
func (r *RatingRepository) Exists(ctx context.Context, raterID, sessionRequestID string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM ratings WHERE rater_id = $1 AND session_request_id = $2)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, raterID, sessionRequestID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check rating existence: %w", err)
	}
	return exists, nil
}

// Create inserts a rating and recomputes the ratee's denormalized aggregate
// in the same transaction, so concurrent raters can never overwrite each
// other's contribution. The unique index on (rater_id, session_request_id)
// backs the at-most-one-rating rule even when two inserts race.
func (r *RatingRepository) Create(ctx context.Context, rating *models.Rating) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO ratings (
			id, session_request_id, session_schedule_id,
			rater_id, rater_name, ratee_id, ratee_name,
			skill_id, skill_name, rating, feedback, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`,
		rating.ID, rating.SessionRequestID, rating.SessionScheduleID,
		rating.RaterID, rating.RaterName, rating.RateeID, rating.RateeName,
		rating.SkillID, rating.SkillName, rating.Rating, rating.Feedback, rating.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return apperrors.New(apperrors.AlreadyExists, "you have already rated this session")
		}
		return fmt.Errorf("failed to create rating: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE users
		SET average_rating = agg.avg, total_ratings = agg.cnt
		FROM (
			SELECT COALESCE(ROUND(AVG(rating)::numeric, 1), 0)::double precision AS avg, COUNT(*) AS cnt
			FROM ratings
			WHERE ratee_id = $1
		) AS agg
		WHERE users.id = $1
	`, rating.RateeID)
	if err != nil {
		return fmt.Errorf("failed to update rating aggregate: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit rating: %w", err)
	}
	return nil
}

// ListByRatee retrieves all ratings received by a user, newest first
func (r *RatingRepository) ListByRatee(ctx context.Context, rateeID string) ([]models.Rating, error) {
	query := `
		SELECT id, session_request_id, session_schedule_id,
			rater_id, rater_name, ratee_id, ratee_name,
			skill_id, skill_name, rating, feedback, created_at
		FROM ratings
		WHERE ratee_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, rateeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ratings: %w", err)
	}
	defer rows.Close()

	var ratings []models.Rating
	for rows.Next() {
		var rating models.Rating
		if err := rows.Scan(
			&rating.ID, &rating.SessionRequestID, &rating.SessionScheduleID,
			&rating.RaterID, &rating.RaterName, &rating.RateeID, &rating.RateeName,
			&rating.SkillID, &rating.SkillName, &rating.Rating, &rating.Feedback, &rating.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		ratings = append(ratings, rating)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ratings: %w", err)
	}
	return ratings, nil
}
