package services

import (
	"context"

	"skillswap-backend/internal/apperrors"
	"skillswap-backend/internal/models"

	"github.com/google/uuid"
)

// SkillStore is the storage dependency of the skill service.
type SkillStore interface {
	Create(ctx context.Context, skill *models.Skill) error
	GetByID(ctx context.Context, id string) (*models.Skill, error)
	ListByUser(ctx context.Context, userID string) ([]models.Skill, error)
	Delete(ctx context.Context, id string) error
}

// SkillService handles the skills members advertise
type SkillService struct {
	skillRepo SkillStore
	clock     Clock
}

// NewSkillService creates a new skill service
func NewSkillService(skillRepo SkillStore, clock Clock) *SkillService {
	return &SkillService{
		skillRepo: skillRepo,
		clock:     clock,
	}
}

// CreateSkillParams carries the fields for advertising a skill
type CreateSkillParams struct {
	Name     string
	Category string
	Kind     string
	Level    string
}

// Create advertises a new skill for the given user
func (s *SkillService) Create(ctx context.Context, userID string, p CreateSkillParams) (*models.Skill, error) {
	skill := &models.Skill{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      p.Name,
		Category:  p.Category,
		Kind:      p.Kind,
		Level:     p.Level,
		CreatedAt: s.clock.Now(),
	}
	if err := s.skillRepo.Create(ctx, skill); err != nil {
		return nil, err
	}
	return skill, nil
}

// ListByUser retrieves all skills advertised by a user
func (s *SkillService) ListByUser(ctx context.Context, userID string) ([]models.Skill, error) {
	return s.skillRepo.ListByUser(ctx, userID)
}

// Delete removes a skill; only its owner may delete it
func (s *SkillService) Delete(ctx context.Context, skillID, actorID string) error {
	skill, err := s.skillRepo.GetByID(ctx, skillID)
	if err != nil {
		return err
	}
	if skill.UserID != actorID {
		return apperrors.New(apperrors.PermissionDenied, "you do not own this skill")
	}
	return s.skillRepo.Delete(ctx, skillID)
}
