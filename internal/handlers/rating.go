package handlers

import (
	"net/http"

	"skillswap-backend/internal/middleware"
	"skillswap-backend/internal/models"
	"skillswap-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// RatingHandler handles rating-related HTTP requests
type RatingHandler struct {
	ratingService *services.RatingService
}

// NewRatingHandler creates a new rating handler
func NewRatingHandler(ratingService *services.RatingService) *RatingHandler {
	return &RatingHandler{
		ratingService: ratingService,
	}
}

// CreateRatingRequest represents the request body for rating a session
type CreateRatingRequest struct {
	SessionRequestID  string  `json:"session_request_id" validate:"required,uuid"`
	SessionScheduleID *string `json:"session_schedule_id,omitempty" validate:"omitempty,uuid"`
	RaterID           string  `json:"rater_id,omitempty" validate:"omitempty,uuid"`
	RateeID           string  `json:"ratee_id" validate:"required,uuid"`
	RateeName         string  `json:"ratee_name" validate:"required"`
	SkillID           string  `json:"skill_id" validate:"required,uuid"`
	SkillName         string  `json:"skill_name" validate:"required"`
	Rating            int     `json:"rating" validate:"required,min=1,max=5"`
	Feedback          *string `json:"feedback,omitempty"`
}

// Create handles POST /api/v1/ratings
func (h *RatingHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req CreateRatingRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondServiceError(w, err)
		return
	}

	rating, err := h.ratingService.Create(ctx, userID, services.CreateRatingParams{
		SessionRequestID:  req.SessionRequestID,
		SessionScheduleID: req.SessionScheduleID,
		RaterID:           req.RaterID,
		RateeID:           req.RateeID,
		RateeName:         req.RateeName,
		SkillID:           req.SkillID,
		SkillName:         req.SkillName,
		Rating:            req.Rating,
		Feedback:          req.Feedback,
	})
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("session_request_id", req.SessionRequestID).
			Msg("Failed to create rating")
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("rating_id", rating.ID).
		Str("ratee_id", rating.RateeID).
		Msg("Rating created")

	respondJSON(w, http.StatusCreated, map[string]string{"rating_id": rating.ID})
}

// ListByUser handles GET /api/v1/users/{user_id}/ratings
func (h *RatingHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")

	ratings, err := h.ratingService.ListByUser(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list ratings")
		respondServiceError(w, err)
		return
	}
	if ratings == nil {
		ratings = []models.Rating{}
	}

	respondJSON(w, http.StatusOK, map[string][]models.Rating{"ratings": ratings})
}

// Summary handles GET /api/v1/users/{user_id}/rating-summary
func (h *RatingHandler) Summary(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")

	summary, err := h.ratingService.Summary(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to get rating summary")
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, summary)
}
