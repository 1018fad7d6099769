package handlers

import (
	"net/http"

	"skillswap-backend/internal/middleware"
	"skillswap-backend/internal/models"
	"skillswap-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// SkillHandler handles skill-related HTTP requests
type SkillHandler struct {
	skillService *services.SkillService
}

// NewSkillHandler creates a new skill handler
func NewSkillHandler(skillService *services.SkillService) *SkillHandler {
	return &SkillHandler{
		skillService: skillService,
	}
}

// CreateSkillRequest represents the request body for advertising a skill
type CreateSkillRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Category string `json:"category" validate:"max=100"`
	Kind     string `json:"kind" validate:"required,oneof=teach learn"`
	Level    string `json:"level" validate:"omitempty,oneof=beginner intermediate advanced"`
}

// Create handles POST /api/v1/skills
func (h *SkillHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req CreateSkillRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondServiceError(w, err)
		return
	}

	skill, err := h.skillService.Create(ctx, userID, services.CreateSkillParams{
		Name:     req.Name,
		Category: req.Category,
		Kind:     req.Kind,
		Level:    req.Level,
	})
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to create skill")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, skill)
}

// ListByUser handles GET /api/v1/users/{user_id}/skills
func (h *SkillHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")

	skills, err := h.skillService.ListByUser(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list skills")
		respondServiceError(w, err)
		return
	}
	if skills == nil {
		skills = []models.Skill{}
	}

	respondJSON(w, http.StatusOK, skills)
}

// Delete handles DELETE /api/v1/skills/{skill_id}
func (h *SkillHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	skillID := chi.URLParam(r, "skill_id")

	if err := h.skillService.Delete(ctx, skillID, userID); err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("skill_id", skillID).Msg("Failed to delete skill")
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
