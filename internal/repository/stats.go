package repository

import (
	"context"
	"fmt"

	"skillswap-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// StatsRepository computes platform-wide aggregates
type StatsRepository struct {
	db *pgxpool.Pool
}

// NewStatsRepository creates a new stats repository
func NewStatsRepository(db *pgxpool.Pool) *StatsRepository {
	return &StatsRepository{db: db}
}

// Collect gathers platform statistics in a single pass over each collection
func (r *StatsRepository) Collect(ctx context.Context) (*models.PlatformStats, error) {
	stats := &models.PlatformStats{
		RequestsByStatus: make(map[string]int),
	}

	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&stats.TotalMembers); err != nil {
		return nil, fmt.Errorf("failed to count members: %w", err)
	}
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM skills`).Scan(&stats.TotalSkills); err != nil {
		return nil, fmt.Errorf("failed to count skills: %w", err)
	}

	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM session_requests GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count session requests: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan request counts: %w", err)
		}
		stats.RequestsByStatus[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read request counts: %w", err)
	}

	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM session_schedules WHERE status = 'completed'`,
	).Scan(&stats.CompletedSessions); err != nil {
		return nil, fmt.Errorf("failed to count completed sessions: %w", err)
	}

	if err := r.db.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(ROUND(AVG(rating)::numeric, 1), 0)::double precision FROM ratings`,
	).Scan(&stats.TotalRatings, &stats.GlobalAverageRating); err != nil {
		return nil, fmt.Errorf("failed to aggregate ratings: %w", err)
	}

	return stats, nil
}
