package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"skillswap-backend/internal/apperrors"
	"skillswap-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SessionScheduleRepository handles database operations for session schedules
type SessionScheduleRepository struct {
	db *pgxpool.Pool
}

// NewSessionScheduleRepository creates a new session schedule repository
func NewSessionScheduleRepository(db *pgxpool.Pool) *SessionScheduleRepository {
	return &SessionScheduleRepository{db: db}
}

const sessionScheduleColumns = `
	id, session_request_id, user_id, skill_id, skill_name,
	scheduled_date, scheduled_time, duration, location, meeting_link, notes,
	status, created_at, updated_at, completed_at`

func scanSessionSchedule(row pgx.Row) (*models.SessionSchedule, error) {
	var s models.SessionSchedule
	err := row.Scan(
		&s.ID, &s.SessionRequestID, &s.UserID, &s.SkillID, &s.SkillName,
		&s.ScheduledDate, &s.ScheduledTime, &s.Duration, &s.Location, &s.MeetingLink, &s.Notes,
		&s.Status, &s.CreatedAt, &s.UpdatedAt, &s.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetByID retrieves a session schedule by ID
func (r *SessionScheduleRepository) GetByID(ctx context.Context, id string) (*models.SessionSchedule, error) {
	query := `SELECT ` + sessionScheduleColumns + ` FROM session_schedules WHERE id = $1`
	schedule, err := scanSessionSchedule(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.New(apperrors.NotFound, "session schedule not found")
		}
		return nil, fmt.Errorf("failed to get session schedule: %w", err)
	}
	return schedule, nil
}

// ListByUser retrieves all schedules owned by a user, newest first
func (r *SessionScheduleRepository) ListByUser(ctx context.Context, userID string) ([]models.SessionSchedule, error) {
	query := `SELECT ` + sessionScheduleColumns + ` FROM session_schedules WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list session schedules: %w", err)
	}
	defer rows.Close()

	var schedules []models.SessionSchedule
	for rows.Next() {
		schedule, err := scanSessionSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session schedule: %w", err)
		}
		schedules = append(schedules, *schedule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read session schedules: %w", err)
	}
	return schedules, nil
}

// UpdateStatus conditionally moves a schedule from one status to another.
// It returns false when the schedule does not currently hold the expected
// status, so a terminal schedule can never be transitioned again.
func (r *SessionScheduleRepository) UpdateStatus(ctx context.Context, id string, from, to models.ScheduleStatus, now time.Time) (bool, error) {
	set := `status = $1, updated_at = $2`
	if to == models.ScheduleCompleted {
		set += `, completed_at = $2`
	}
	query := `UPDATE session_schedules SET ` + set + ` WHERE id = $3 AND status = $4`

	result, err := r.db.Exec(ctx, query, to, now, id, from)
	if err != nil {
		return false, fmt.Errorf("failed to update session schedule status: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// CountNotCompleted counts schedules of a request that have not reached
// completed. The completion rollup fires only when this drops to zero.
func (r *SessionScheduleRepository) CountNotCompleted(ctx context.Context, sessionRequestID string) (int, error) {
	query := `SELECT COUNT(*) FROM session_schedules WHERE session_request_id = $1 AND status <> 'completed'`
	var count int
	if err := r.db.QueryRow(ctx, query, sessionRequestID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count session schedules: %w", err)
	}
	return count, nil
}
