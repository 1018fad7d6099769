package handlers

import (
	"net/http"

	"skillswap-backend/internal/middleware"
	"skillswap-backend/internal/models"
	"skillswap-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// SessionRequestHandler handles session request HTTP requests
type SessionRequestHandler struct {
	requestService *services.SessionRequestService
	hub            *services.Hub
}

// NewSessionRequestHandler creates a new session request handler
func NewSessionRequestHandler(requestService *services.SessionRequestService, hub *services.Hub) *SessionRequestHandler {
	return &SessionRequestHandler{
		requestService: requestService,
		hub:            hub,
	}
}

// CreateSessionRequest represents the request body for proposing a session
type CreateSessionRequest struct {
	RecipientID      string          `json:"recipient_id" validate:"required,uuid"`
	SkillOfferedID   string          `json:"skill_offered_id" validate:"required,uuid"`
	SkillOfferedName string          `json:"skill_offered_name" validate:"required"`
	SkillSoughtID    string          `json:"skill_sought_id" validate:"required,uuid"`
	SkillSoughtName  string          `json:"skill_sought_name" validate:"required"`
	SessionType      string          `json:"session_type" validate:"required"`
	ProposedDate     models.FlexTime `json:"proposed_date" validate:"required"`
	ProposedTime     string          `json:"proposed_time" validate:"required"`
	Duration         int             `json:"duration" validate:"required,gt=0"`
	Location         *string         `json:"location,omitempty"`
	MeetingLink      *string         `json:"meeting_link,omitempty"`
	Description      *string         `json:"description,omitempty"`
}

// UpdateStatusRequest represents the request body for a status transition
type UpdateStatusRequest struct {
	Status models.RequestStatus `json:"status" validate:"required,oneof=accepted rejected cancelled"`
}

// Create handles POST /api/v1/session-requests
func (h *SessionRequestHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var req CreateSessionRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondServiceError(w, err)
		return
	}

	created, err := h.requestService.Create(ctx, userID, services.CreateSessionRequestParams{
		RecipientID:      req.RecipientID,
		SkillOfferedID:   req.SkillOfferedID,
		SkillOfferedName: req.SkillOfferedName,
		SkillSoughtID:    req.SkillSoughtID,
		SkillSoughtName:  req.SkillSoughtName,
		SessionType:      req.SessionType,
		ProposedDate:     req.ProposedDate.Time,
		ProposedTime:     req.ProposedTime,
		Duration:         req.Duration,
		Location:         req.Location,
		MeetingLink:      req.MeetingLink,
		Description:      req.Description,
	})
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Str("recipient_id", req.RecipientID).Msg("Failed to create session request")
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("request_id", created.ID).
		Msg("Session request created")

	h.hub.Notify(services.Event{
		Type: services.EventRequestCreated,
		Data: created,
	}, created.RecipientID)

	respondJSON(w, http.StatusCreated, map[string]string{"request_id": created.ID})
}

// List handles GET /api/v1/session-requests with an optional status filter
func (h *SessionRequestHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)

	var requests []models.SessionRequest
	var err error
	if status := r.URL.Query().Get("status"); status != "" {
		requests, err = h.requestService.ListByStatus(ctx, userID, models.RequestStatus(status))
	} else {
		requests, err = h.requestService.List(ctx, userID)
	}
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list session requests")
		respondServiceError(w, err)
		return
	}
	if requests == nil {
		requests = []models.SessionRequest{}
	}

	respondJSON(w, http.StatusOK, requests)
}

// UpdateStatus handles PATCH /api/v1/session-requests/{request_id}/status
func (h *SessionRequestHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := middleware.GetUserID(ctx)
	requestID := chi.URLParam(r, "request_id")

	var req UpdateStatusRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondServiceError(w, err)
		return
	}

	updated, err := h.requestService.Transition(ctx, requestID, req.Status, userID)
	if err != nil {
		log.Error().
			Err(err).
			Str("user_id", userID).
			Str("request_id", requestID).
			Str("status", string(req.Status)).
			Msg("Failed to update session request status")
		respondServiceError(w, err)
		return
	}

	log.Info().
		Str("user_id", userID).
		Str("request_id", requestID).
		Str("status", string(req.Status)).
		Msg("Session request status updated")

	h.hub.Notify(services.Event{
		Type: services.EventRequestStatus,
		Data: updated,
	}, updated.RequesterID, updated.RecipientID)

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
