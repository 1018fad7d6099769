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

// SessionRequestRepository handles database operations for session requests
type SessionRequestRepository struct {
	db *pgxpool.Pool
}

// NewSessionRequestRepository creates a new session request repository
func NewSessionRequestRepository(db *pgxpool.Pool) *SessionRequestRepository {
	return &SessionRequestRepository{db: db}
}

const sessionRequestColumns = `
	id, requester_id, requester_name, requester_email,
	recipient_id, recipient_name, recipient_email,
	skill_offered_id, skill_offered_name, skill_sought_id, skill_sought_name,
	session_type, proposed_date, proposed_time, duration,
	location, meeting_link, description,
	status, created_at, updated_at, accepted_at, completed_at`

func scanSessionRequest(row pgx.Row) (*models.SessionRequest, error) {
	var req models.SessionRequest
	err := row.Scan(
		&req.ID, &req.RequesterID, &req.RequesterName, &req.RequesterEmail,
		&req.RecipientID, &req.RecipientName, &req.RecipientEmail,
		&req.SkillOfferedID, &req.SkillOfferedName, &req.SkillSoughtID, &req.SkillSoughtName,
		&req.SessionType, &req.ProposedDate, &req.ProposedTime, &req.Duration,
		&req.Location, &req.MeetingLink, &req.Description,
		&req.Status, &req.CreatedAt, &req.UpdatedAt, &req.AcceptedAt, &req.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// Create creates a new session request
func (r *SessionRequestRepository) Create(ctx context.Context, req *models.SessionRequest) error {
	query := `
		INSERT INTO session_requests (
			id, requester_id, requester_name, requester_email,
			recipient_id, recipient_name, recipient_email,
			skill_offered_id, skill_offered_name, skill_sought_id, skill_sought_name,
			session_type, proposed_date, proposed_time, duration,
			location, meeting_link, description,
			status, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
	`
	_, err := r.db.Exec(ctx, query,
		req.ID, req.RequesterID, req.RequesterName, req.RequesterEmail,
		req.RecipientID, req.RecipientName, req.RecipientEmail,
		req.SkillOfferedID, req.SkillOfferedName, req.SkillSoughtID, req.SkillSoughtName,
		req.SessionType, req.ProposedDate, req.ProposedTime, req.Duration,
		req.Location, req.MeetingLink, req.Description,
		req.Status, req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create session request: %w", err)
	}
	return nil
}

// GetByID retrieves a session request by ID
func (r *SessionRequestRepository) GetByID(ctx context.Context, id string) (*models.SessionRequest, error) {
	query := `SELECT ` + sessionRequestColumns + ` FROM session_requests WHERE id = $1`
	req, err := scanSessionRequest(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.New(apperrors.NotFound, "session request not found")
		}
		return nil, fmt.Errorf("failed to get session request: %w", err)
	}
	return req, nil
}

func (r *SessionRequestRepository) listBy(ctx context.Context, column, userID string, status models.RequestStatus) ([]models.SessionRequest, error) {
	query := `SELECT ` + sessionRequestColumns + ` FROM session_requests WHERE ` + column + ` = $1`
	args := []any{userID}
	if status != "" {
		query += ` AND status = $2`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list session requests: %w", err)
	}
	defer rows.Close()

	var requests []models.SessionRequest
	for rows.Next() {
		req, err := scanSessionRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session request: %w", err)
		}
		requests = append(requests, *req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read session requests: %w", err)
	}
	return requests, nil
}

// ListByRequester retrieves requests initiated by a user, newest first.
// An empty status means no status filter.
func (r *SessionRequestRepository) ListByRequester(ctx context.Context, userID string, status models.RequestStatus) ([]models.SessionRequest, error) {
	return r.listBy(ctx, "requester_id", userID, status)
}

// ListByRecipient retrieves requests addressed to a user, newest first.
// An empty status means no status filter.
func (r *SessionRequestRepository) ListByRecipient(ctx context.Context, userID string, status models.RequestStatus) ([]models.SessionRequest, error) {
	return r.listBy(ctx, "recipient_id", userID, status)
}

// UpdateStatus conditionally moves a request from one of the expected
// statuses to the target status. It returns false when the request no longer
// holds any expected status, which guards against lost updates under
// concurrent transitions.
func (r *SessionRequestRepository) UpdateStatus(ctx context.Context, id string, from []models.RequestStatus, to models.RequestStatus, now time.Time) (bool, error) {
	set := `status = $1, updated_at = $2`
	if to == models.RequestCompleted {
		set += `, completed_at = $2`
	}
	query := `UPDATE session_requests SET ` + set + ` WHERE id = $3 AND status = ANY($4)`

	expected := make([]string, len(from))
	for i, s := range from {
		expected[i] = string(s)
	}

	result, err := r.db.Exec(ctx, query, to, now, id, expected)
	if err != nil {
		return false, fmt.Errorf("failed to update session request status: %w", err)
	}
	return result.RowsAffected() > 0, nil
}

// Accept atomically moves a pending request to accepted and inserts both
// materialized schedules in a single transaction, so a failure can never
// leave one participant's schedule missing. It returns false without writing
// anything when the request is no longer pending.
func (r *SessionRequestRepository) Accept(ctx context.Context, id string, now time.Time, schedules []*models.SessionSchedule) (bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	result, err := tx.Exec(ctx,
		`UPDATE session_requests SET status = 'accepted', accepted_at = $2, updated_at = $2 WHERE id = $1 AND status = 'pending'`,
		id, now,
	)
	if err != nil {
		return false, fmt.Errorf("failed to accept session request: %w", err)
	}
	if result.RowsAffected() == 0 {
		return false, nil
	}

	for _, s := range schedules {
		_, err := tx.Exec(ctx, `
			INSERT INTO session_schedules (
				id, session_request_id, user_id, skill_id, skill_name,
				scheduled_date, scheduled_time, duration, location, meeting_link, notes,
				status, created_at, updated_at
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		`,
			s.ID, s.SessionRequestID, s.UserID, s.SkillID, s.SkillName,
			s.ScheduledDate, s.ScheduledTime, s.Duration, s.Location, s.MeetingLink, s.Notes,
			s.Status, s.CreatedAt, s.UpdatedAt,
		)
		if err != nil {
			return false, fmt.Errorf("failed to create session schedule: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("failed to commit acceptance: %w", err)
	}
	return true, nil
}
