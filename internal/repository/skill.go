package repository

import (
	"context"
	"errors"
	"fmt"

	"skillswap-backend/internal/apperrors"
	"skillswap-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SkillRepository handles database operations for skills
type SkillRepository struct {
	db *pgxpool.Pool
}

// NewSkillRepository creates a new skill repository
func NewSkillRepository(db *pgxpool.Pool) *SkillRepository {
	return &SkillRepository{db: db}
}

// Create creates a new skill
func (r *SkillRepository) Create(ctx context.Context, skill *models.Skill) error {
	query := `
		INSERT INTO skills (id, user_id, name, category, kind, level, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.Exec(ctx, query,
		skill.ID, skill.UserID, skill.Name, skill.Category, skill.Kind, skill.Level, skill.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create skill: %w", err)
	}
	return nil
}

// GetByID retrieves a skill by ID
func (r *SkillRepository) GetByID(ctx context.Context, id string) (*models.Skill, error) {
	query := `
		SELECT id, user_id, name, category, kind, level, created_at
		FROM skills
		WHERE id = $1
	`
	var skill models.Skill
	err := r.db.QueryRow(ctx, query, id).Scan(
		&skill.ID, &skill.UserID, &skill.Name, &skill.Category, &skill.Kind, &skill.Level, &skill.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.New(apperrors.NotFound, "skill not found")
		}
		return nil, fmt.Errorf("failed to get skill: %w", err)
	}
	return &skill, nil
}

// ListByUser retrieves all skills advertised by a user
func (r *SkillRepository) ListByUser(ctx context.Context, userID string) ([]models.Skill, error) {
	query := `
		SELECT id, user_id, name, category, kind, level, created_at
		FROM skills
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list skills: %w", err)
	}
	defer rows.Close()

	var skills []models.Skill
	for rows.Next() {
		var skill models.Skill
		if err := rows.Scan(
			&skill.ID, &skill.UserID, &skill.Name, &skill.Category, &skill.Kind, &skill.Level, &skill.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan skill: %w", err)
		}
		skills = append(skills, skill)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read skills: %w", err)
	}
	return skills, nil
}

// Delete deletes a skill by ID
func (r *SkillRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM skills WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete skill: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.New(apperrors.NotFound, "skill not found")
	}
	return nil
}
