package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"skillswap-backend/internal/handlers"
	"skillswap-backend/internal/middleware"
	"skillswap-backend/internal/models"
	"skillswap-backend/internal/repository/repositorytest"
	"skillswap-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// testAPI wires the full router against the in-memory store, mirroring the
// wiring in cmd.Run.
type testAPI struct {
	store  *repositorytest.Store
	router http.Handler
	now    time.Time
}

func newTestAPI() *testAPI {
	api := &testAPI{
		store: repositorytest.New(),
		now:   testTime,
	}
	clock := services.ClockFunc(func() time.Time { return api.now })

	userService := services.NewUserService(api.store.Users(), "test-secret", clock)
	skillService := services.NewSkillService(api.store.Skills(), clock)
	requestService := services.NewSessionRequestService(api.store.Requests(), api.store.Users(), clock)
	scheduleService := services.NewSessionScheduleService(api.store.Schedules(), api.store.Requests(), clock)
	ratingService := services.NewRatingService(api.store.Ratings(), api.store.Requests(), api.store.Users(), clock)
	statsService := services.NewStatsService(api.store.Stats(), api.store.Users())
	hub := services.NewHub()

	userHandler := handlers.NewUserHandler(userService)
	skillHandler := handlers.NewSkillHandler(skillService)
	requestHandler := handlers.NewSessionRequestHandler(requestService, hub)
	scheduleHandler := handlers.NewSessionScheduleHandler(scheduleService, hub)
	ratingHandler := handlers.NewRatingHandler(ratingService)
	statsHandler := handlers.NewStatsHandler(statsService)

	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/users", userHandler.Register)
		r.Post("/users/login", userHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(userService))

			r.Get("/users/{user_id}", userHandler.GetProfile)
			r.Get("/members", userHandler.ListMembers)
			r.Post("/skills", skillHandler.Create)
			r.Get("/users/{user_id}/skills", skillHandler.ListByUser)
			r.Delete("/skills/{skill_id}", skillHandler.Delete)
			r.Post("/session-requests", requestHandler.Create)
			r.Get("/session-requests", requestHandler.List)
			r.Patch("/session-requests/{request_id}/status", requestHandler.UpdateStatus)
			r.Get("/schedules", scheduleHandler.List)
			r.Post("/schedules/{schedule_id}/complete", scheduleHandler.Complete)
			r.Post("/schedules/{schedule_id}/cancel", scheduleHandler.Cancel)
			r.Post("/ratings", ratingHandler.Create)
			r.Get("/users/{user_id}/ratings", ratingHandler.ListByUser)
			r.Get("/users/{user_id}/rating-summary", ratingHandler.Summary)
			r.Get("/admin/stats", statsHandler.PlatformStats)
		})
	})
	api.router = r
	return api
}

func (a *testAPI) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	a.router.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), dst))
}

type registered struct {
	id    string
	token string
}

func (a *testAPI) register(t *testing.T, email, name string) registered {
	t.Helper()
	rr := a.do(t, http.MethodPost, "/api/v1/users", "", map[string]string{
		"email":        email,
		"password":     "correcthorse",
		"display_name": name,
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var resp struct {
		User  models.User `json:"user"`
		Token string      `json:"token"`
	}
	decodeBody(t, rr, &resp)
	return registered{id: resp.User.ID, token: resp.Token}
}

func (a *testAPI) createRequest(t *testing.T, requester registered, recipientID string) string {
	t.Helper()
	rr := a.do(t, http.MethodPost, "/api/v1/session-requests", requester.token, map[string]interface{}{
		"recipient_id":       recipientID,
		"skill_offered_id":   uuid.New().String(),
		"skill_offered_name": "Guitar",
		"skill_sought_id":    uuid.New().String(),
		"skill_sought_name":  "Python",
		"session_type":       "online",
		"proposed_date":      a.now.Add(24 * time.Hour).Format(time.RFC3339),
		"proposed_time":      "14:00",
		"duration":           60,
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var resp map[string]string
	decodeBody(t, rr, &resp)
	require.NotEmpty(t, resp["request_id"])
	return resp["request_id"]
}

func (a *testAPI) schedules(t *testing.T, user registered) []models.SessionSchedule {
	t.Helper()
	rr := a.do(t, http.MethodGet, "/api/v1/schedules", user.token, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var schedules []models.SessionSchedule
	decodeBody(t, rr, &schedules)
	return schedules
}

func TestSessionLifecycle(t *testing.T) {
	api := newTestAPI()
	alice := api.register(t, "alice@example.com", "Alice")
	bob := api.register(t, "bob@example.com", "Bob")
	carol := api.register(t, "carol@example.com", "Carol")

	// Alice proposes: she offers Guitar and wants Python from Bob.
	requestID := api.createRequest(t, alice, bob.id)

	rr := api.do(t, http.MethodGet, "/api/v1/session-requests?status=pending", bob.token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var pending []models.SessionRequest
	decodeBody(t, rr, &pending)
	require.Len(t, pending, 1)
	assert.Equal(t, "Alice", pending[0].RequesterName)

	// Bob accepts; both schedules materialize with complementary skills.
	rr = api.do(t, http.MethodPatch, fmt.Sprintf("/api/v1/session-requests/%s/status", requestID), bob.token,
		map[string]string{"status": "accepted"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	aliceSchedules := api.schedules(t, alice)
	require.Len(t, aliceSchedules, 1)
	assert.Equal(t, "Python", aliceSchedules[0].SkillName)

	bobSchedules := api.schedules(t, bob)
	require.Len(t, bobSchedules, 1)
	assert.Equal(t, "Guitar", bobSchedules[0].SkillName)

	// Alice completes her half; the request stays accepted.
	rr = api.do(t, http.MethodPost, fmt.Sprintf("/api/v1/schedules/%s/complete", aliceSchedules[0].ID), alice.token, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = api.do(t, http.MethodGet, "/api/v1/session-requests?status=accepted", alice.token, nil)
	var accepted []models.SessionRequest
	decodeBody(t, rr, &accepted)
	require.Len(t, accepted, 1)

	// Bob completes his half; the request rolls up to completed.
	rr = api.do(t, http.MethodPost, fmt.Sprintf("/api/v1/schedules/%s/complete", bobSchedules[0].ID), bob.token, nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = api.do(t, http.MethodGet, "/api/v1/session-requests?status=completed", alice.token, nil)
	var completed []models.SessionRequest
	decodeBody(t, rr, &completed)
	require.Len(t, completed, 1)
	require.NotNil(t, completed[0].CompletedAt)

	// Alice rates Bob; a second rating for the same session is rejected.
	ratingBody := map[string]interface{}{
		"session_request_id": requestID,
		"ratee_id":           bob.id,
		"ratee_name":         "Bob",
		"skill_id":           uuid.New().String(),
		"skill_name":         "Python",
		"rating":             5,
	}
	rr = api.do(t, http.MethodPost, "/api/v1/ratings", alice.token, ratingBody)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = api.do(t, http.MethodPost, "/api/v1/ratings", alice.token, ratingBody)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = api.do(t, http.MethodGet, fmt.Sprintf("/api/v1/users/%s/rating-summary", bob.id), alice.token, nil)
	var summary models.RatingSummary
	decodeBody(t, rr, &summary)
	assert.Equal(t, 5.0, summary.AverageRating)
	assert.Equal(t, 1, summary.TotalRatings)

	// Carol cannot cancel Alice's schedule, and Alice cannot cancel her own
	// completed one; the request never regresses from completed.
	rr = api.do(t, http.MethodPost, fmt.Sprintf("/api/v1/schedules/%s/cancel", aliceSchedules[0].ID), carol.token, nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = api.do(t, http.MethodPost, fmt.Sprintf("/api/v1/schedules/%s/cancel", aliceSchedules[0].ID), alice.token, nil)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = api.do(t, http.MethodGet, "/api/v1/session-requests?status=completed", alice.token, nil)
	decodeBody(t, rr, &completed)
	assert.Len(t, completed, 1)
}

func TestCreateRequestRejectsNonFutureDate(t *testing.T) {
	api := newTestAPI()
	alice := api.register(t, "alice@example.com", "Alice")
	bob := api.register(t, "bob@example.com", "Bob")

	rr := api.do(t, http.MethodPost, "/api/v1/session-requests", alice.token, map[string]interface{}{
		"recipient_id":       bob.id,
		"skill_offered_id":   uuid.New().String(),
		"skill_offered_name": "Guitar",
		"skill_sought_id":    uuid.New().String(),
		"skill_sought_name":  "Python",
		"session_type":       "online",
		"proposed_date":      api.now.Format(time.RFC3339),
		"proposed_time":      "14:00",
		"duration":           60,
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCreateRequestAcceptsEpochSeconds(t *testing.T) {
	api := newTestAPI()
	alice := api.register(t, "alice@example.com", "Alice")
	bob := api.register(t, "bob@example.com", "Bob")

	rr := api.do(t, http.MethodPost, "/api/v1/session-requests", alice.token, map[string]interface{}{
		"recipient_id":       bob.id,
		"skill_offered_id":   uuid.New().String(),
		"skill_offered_name": "Guitar",
		"skill_sought_id":    uuid.New().String(),
		"skill_sought_name":  "Python",
		"session_type":       "online",
		"proposed_date":      api.now.Add(24 * time.Hour).Unix(),
		"proposed_time":      "14:00",
		"duration":           60,
	})
	assert.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
}

func TestRejectTransitionRequiresRecipient(t *testing.T) {
	api := newTestAPI()
	alice := api.register(t, "alice@example.com", "Alice")
	bob := api.register(t, "bob@example.com", "Bob")
	requestID := api.createRequest(t, alice, bob.id)

	rr := api.do(t, http.MethodPatch, fmt.Sprintf("/api/v1/session-requests/%s/status", requestID), alice.token,
		map[string]string{"status": "rejected"})
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = api.do(t, http.MethodPatch, fmt.Sprintf("/api/v1/session-requests/%s/status", requestID), bob.token,
		map[string]string{"status": "rejected"})
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestStatusTransitionRejectsCompleted(t *testing.T) {
	api := newTestAPI()
	alice := api.register(t, "alice@example.com", "Alice")
	bob := api.register(t, "bob@example.com", "Bob")
	requestID := api.createRequest(t, alice, bob.id)

	// Direct completion is not a valid endpoint transition.
	rr := api.do(t, http.MethodPatch, fmt.Sprintf("/api/v1/session-requests/%s/status", requestID), bob.token,
		map[string]string{"status": "completed"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestEndpointsRequireAuth(t *testing.T) {
	api := newTestAPI()

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/session-requests"},
		{http.MethodGet, "/api/v1/schedules"},
		{http.MethodPost, "/api/v1/ratings"},
		{http.MethodGet, "/api/v1/members"},
	}
	for _, p := range paths {
		rr := api.do(t, p.method, p.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code, p.path)
	}
}

func TestAdminStats(t *testing.T) {
	api := newTestAPI()
	alice := api.register(t, "alice@example.com", "Alice")
	admin := api.register(t, "root@example.com", "Root")
	api.store.Users().SetRole(admin.id, models.RoleAdmin)

	rr := api.do(t, http.MethodGet, "/api/v1/admin/stats", alice.token, nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = api.do(t, http.MethodGet, "/api/v1/admin/stats", admin.token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var stats models.PlatformStats
	decodeBody(t, rr, &stats)
	assert.Equal(t, 2, stats.TotalMembers)
}

func TestRegisterValidation(t *testing.T) {
	api := newTestAPI()

	rr := api.do(t, http.MethodPost, "/api/v1/users", "", map[string]string{
		"email":        "not-an-email",
		"password":     "correcthorse",
		"display_name": "Alice",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = api.do(t, http.MethodPost, "/api/v1/users", "", map[string]string{
		"email":        "alice@example.com",
		"password":     "short",
		"display_name": "Alice",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = api.do(t, http.MethodPost, "/api/v1/users", "", map[string]string{
		"email":        "alice@example.com",
		"password":     "correcthorse",
		"display_name": "Alice",
		"role":         "admin",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code, "unknown fields are rejected")
}
