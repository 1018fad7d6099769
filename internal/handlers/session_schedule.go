package handlers

import (
	"net/http"

	"skillswap-backend/internal/middleware"
	"skillswap-backend/internal/models"
	"skillswap-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// SessionScheduleHandler handles session schedule HTTP requests
type SessionScheduleHandler struct {
	scheduleService *services.SessionScheduleService
	hub             *services.Hub
}

// NewSessionScheduleHandler creates a new session schedule handler
func NewSessionScheduleHandler(scheduleService *services.SessionScheduleService, hub *services.Hub) *SessionScheduleHandler {
	return &SessionScheduleHandler{
		scheduleService: scheduleService,
		hub:             hub,
	}
}

// List handles GET /api/v1/schedules
func (h *SessionScheduleHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	schedules, err := h.scheduleService.ListByUser(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list session schedules")
		respondServiceError(w, err)
		return
	}
	if schedules == nil {
		schedules = []models.SessionSchedule{}
	}

	respondJSON(w, http.StatusOK, schedules)
}

// Complete handles POST /api/v1/schedules/{schedule_id}/complete
func (h *SessionScheduleHandler) Complete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	scheduleID := chi.URLParam(r, "schedule_id")

	result, err := h.scheduleService.Complete(ctx, scheduleID, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("schedule_id", scheduleID).Msg("Failed to complete session schedule")
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("schedule_id", scheduleID).
		Bool("request_completed", result.RequestCompleted).
		Msg("Session schedule completed")

	h.hub.Notify(services.Event{
		Type: services.EventScheduleCompleted,
		Data: map[string]interface{}{
			"schedule":          result.Schedule,
			"request_completed": result.RequestCompleted,
		},
	}, result.RequesterID, result.RecipientID)

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Cancel handles POST /api/v1/schedules/{schedule_id}/cancel
func (h *SessionScheduleHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	scheduleID := chi.URLParam(r, "schedule_id")

	result, err := h.scheduleService.Cancel(ctx, scheduleID, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("schedule_id", scheduleID).Msg("Failed to cancel session schedule")
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("schedule_id", scheduleID).
		Bool("request_cancelled", result.RequestCancelled).
		Msg("Session schedule cancelled")

	h.hub.Notify(services.Event{
		Type: services.EventScheduleCancelled,
		Data: map[string]interface{}{
			"schedule":          result.Schedule,
			"request_cancelled": result.RequestCancelled,
		},
	}, result.RequesterID, result.RecipientID)

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
