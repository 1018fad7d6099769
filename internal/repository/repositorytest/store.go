// Package repositorytest provides in-memory implementations of the service
// storage interfaces. They mirror the semantics of the PostgreSQL
// repositories (conditional status updates, atomic acceptance, aggregate
// recomputation) so services and handlers can be tested without a database.
package repositorytest

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"skillswap-backend/internal/apperrors"
	"skillswap-backend/internal/models"
)

// Store holds all in-memory collections behind one lock.
type Store struct {
	mu        sync.RWMutex
	users     map[string]*models.User
	skills    map[string]*models.Skill
	requests  map[string]*models.SessionRequest
	schedules map[string]*models.SessionSchedule
	ratings   map[string]*models.Rating
}

// New creates an empty store.
func New() *Store {
	return &Store{
		users:     make(map[string]*models.User),
		skills:    make(map[string]*models.Skill),
		requests:  make(map[string]*models.SessionRequest),
		schedules: make(map[string]*models.SessionSchedule),
		ratings:   make(map[string]*models.Rating),
	}
}

// Users returns the user store view.
func (s *Store) Users() *Users { return &Users{s} }

// Skills returns the skill store view.
func (s *Store) Skills() *Skills { return &Skills{s} }

// Requests returns the session request store view.
func (s *Store) Requests() *Requests { return &Requests{s} }

// Schedules returns the session schedule store view.
func (s *Store) Schedules() *Schedules { return &Schedules{s} }

// Ratings returns the rating store view.
func (s *Store) Ratings() *Ratings { return &Ratings{s} }

// Stats returns the stats store view.
func (s *Store) Stats() *Stats { return &Stats{s} }

// Users implements the user storage interface.
type Users struct{ s *Store }

// Create stores a user, rejecting duplicate emails.
func (u *Users) Create(_ context.Context, user *models.User) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	for _, existing := range u.s.users {
		if existing.Email == user.Email {
			return apperrors.New(apperrors.AlreadyExists, "email is already registered")
		}
	}
	copied := *user
	u.s.users[user.ID] = &copied
	return nil
}

// GetByID retrieves a user by ID.
func (u *Users) GetByID(_ context.Context, id string) (*models.User, error) {
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()
	user, ok := u.s.users[id]
	if !ok {
		return nil, apperrors.New(apperrors.NotFound, "user not found")
	}
	copied := *user
	return &copied, nil
}

// GetByEmail retrieves a user by email.
func (u *Users) GetByEmail(_ context.Context, email string) (*models.User, error) {
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()
	for _, user := range u.s.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperrors.New(apperrors.NotFound, "user not found")
}

// EmailExists checks whether an email is registered.
func (u *Users) EmailExists(_ context.Context, email string) (bool, error) {
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()
	for _, user := range u.s.users {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

// List returns members, optionally filtered by a taught skill name.
func (u *Users) List(_ context.Context, skill string, limit, offset int) ([]models.User, error) {
	u.s.mu.RLock()
	defer u.s.mu.RUnlock()

	var users []models.User
	for _, user := range u.s.users {
		if skill != "" && !u.s.teachesSkillLocked(user.ID, skill) {
			continue
		}
		users = append(users, *user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.After(users[j].CreatedAt) })
	if offset >= len(users) {
		return nil, nil
	}
	users = users[offset:]
	if len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}

func (s *Store) teachesSkillLocked(userID, name string) bool {
	for _, skill := range s.skills {
		if skill.UserID == userID && skill.Kind == models.SkillKindTeach && skill.Name == name {
			return true
		}
	}
	return false
}

// SetRole updates a user's role; used to promote test admins.
func (u *Users) SetRole(id, role string) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()
	if user, ok := u.s.users[id]; ok {
		user.Role = role
	}
}

// Skills implements the skill storage interface.
type Skills struct{ s *Store }

// Create stores a skill.
func (sk *Skills) Create(_ context.Context, skill *models.Skill) error {
	sk.s.mu.Lock()
	defer sk.s.mu.Unlock()
	copied := *skill
	sk.s.skills[skill.ID] = &copied
	return nil
}

// GetByID retrieves a skill by ID.
func (sk *Skills) GetByID(_ context.Context, id string) (*models.Skill, error) {
	sk.s.mu.RLock()
	defer sk.s.mu.RUnlock()
	skill, ok := sk.s.skills[id]
	if !ok {
		return nil, apperrors.New(apperrors.NotFound, "skill not found")
	}
	copied := *skill
	return &copied, nil
}

// ListByUser returns a user's skills, newest first.
func (sk *Skills) ListByUser(_ context.Context, userID string) ([]models.Skill, error) {
	sk.s.mu.RLock()
	defer sk.s.mu.RUnlock()
	var skills []models.Skill
	for _, skill := range sk.s.skills {
		if skill.UserID == userID {
			skills = append(skills, *skill)
		}
	}
	sort.Slice(skills, func(i, j int) bool { return skills[i].CreatedAt.After(skills[j].CreatedAt) })
	return skills, nil
}

// Delete removes a skill.
func (sk *Skills) Delete(_ context.Context, id string) error {
	sk.s.mu.Lock()
	defer sk.s.mu.Unlock()
	if _, ok := sk.s.skills[id]; !ok {
		return apperrors.New(apperrors.NotFound, "skill not found")
	}
	delete(sk.s.skills, id)
	return nil
}

// Requests implements the session request storage interface.
type Requests struct{ s *Store }

// Create stores a session request.
func (r *Requests) Create(_ context.Context, req *models.SessionRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	copied := *req
	r.s.requests[req.ID] = &copied
	return nil
}

// GetByID retrieves a session request by ID.
func (r *Requests) GetByID(_ context.Context, id string) (*models.SessionRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	req, ok := r.s.requests[id]
	if !ok {
		return nil, apperrors.New(apperrors.NotFound, "session request not found")
	}
	copied := *req
	return &copied, nil
}

func (r *Requests) listBy(userID string, status models.RequestStatus, requester bool) []models.SessionRequest {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var requests []models.SessionRequest
	for _, req := range r.s.requests {
		id := req.RecipientID
		if requester {
			id = req.RequesterID
		}
		if id != userID {
			continue
		}
		if status != "" && req.Status != status {
			continue
		}
		requests = append(requests, *req)
	}
	sort.Slice(requests, func(i, j int) bool { return requests[i].CreatedAt.After(requests[j].CreatedAt) })
	return requests
}

// ListByRequester returns requests initiated by a user, newest first.
func (r *Requests) ListByRequester(_ context.Context, userID string, status models.RequestStatus) ([]models.SessionRequest, error) {
	return r.listBy(userID, status, true), nil
}

// ListByRecipient returns requests addressed to a user, newest first.
func (r *Requests) ListByRecipient(_ context.Context, userID string, status models.RequestStatus) ([]models.SessionRequest, error) {
	return r.listBy(userID, status, false), nil
}

// UpdateStatus conditionally transitions a request.
func (r *Requests) UpdateStatus(_ context.Context, id string, from []models.RequestStatus, to models.RequestStatus, now time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.updateRequestStatusLocked(id, from, to, now), nil
}

func (s *Store) updateRequestStatusLocked(id string, from []models.RequestStatus, to models.RequestStatus, now time.Time) bool {
	req, ok := s.requests[id]
	if !ok {
		return false
	}
	matched := false
	for _, f := range from {
		if req.Status == f {
			matched = true
			break
		}
	}
	if !matched {
		return false
	}
	req.Status = to
	req.UpdatedAt = now
	if to == models.RequestCompleted {
		completedAt := now
		req.CompletedAt = &completedAt
	}
	return true
}

// Accept atomically accepts a pending request and stores both schedules.
func (r *Requests) Accept(_ context.Context, id string, now time.Time, schedules []*models.SessionSchedule) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	req, ok := r.s.requests[id]
	if !ok || req.Status != models.RequestPending {
		return false, nil
	}
	req.Status = models.RequestAccepted
	req.UpdatedAt = now
	acceptedAt := now
	req.AcceptedAt = &acceptedAt

	for _, schedule := range schedules {
		copied := *schedule
		r.s.schedules[schedule.ID] = &copied
	}
	return true, nil
}

// Schedules implements the session schedule storage interface.
type Schedules struct{ s *Store }

// GetByID retrieves a schedule by ID.
func (sc *Schedules) GetByID(_ context.Context, id string) (*models.SessionSchedule, error) {
	sc.s.mu.RLock()
	defer sc.s.mu.RUnlock()
	schedule, ok := sc.s.schedules[id]
	if !ok {
		return nil, apperrors.New(apperrors.NotFound, "session schedule not found")
	}
	copied := *schedule
	return &copied, nil
}

// ListByUser returns a user's schedules, newest first.
func (sc *Schedules) ListByUser(_ context.Context, userID string) ([]models.SessionSchedule, error) {
	sc.s.mu.RLock()
	defer sc.s.mu.RUnlock()
	var schedules []models.SessionSchedule
	for _, schedule := range sc.s.schedules {
		if schedule.UserID == userID {
			schedules = append(schedules, *schedule)
		}
	}
	sort.Slice(schedules, func(i, j int) bool { return schedules[i].CreatedAt.After(schedules[j].CreatedAt) })
	return schedules, nil
}

// ListByRequest returns both schedule halves of a session request.
func (sc *Schedules) ListByRequest(sessionRequestID string) []models.SessionSchedule {
	sc.s.mu.RLock()
	defer sc.s.mu.RUnlock()
	var schedules []models.SessionSchedule
	for _, schedule := range sc.s.schedules {
		if schedule.SessionRequestID == sessionRequestID {
			schedules = append(schedules, *schedule)
		}
	}
	return schedules
}

// UpdateStatus conditionally transitions a schedule.
func (sc *Schedules) UpdateStatus(_ context.Context, id string, from, to models.ScheduleStatus, now time.Time) (bool, error) {
	sc.s.mu.Lock()
	defer sc.s.mu.Unlock()
	schedule, ok := sc.s.schedules[id]
	if !ok || schedule.Status != from {
		return false, nil
	}
	schedule.Status = to
	schedule.UpdatedAt = now
	if to == models.ScheduleCompleted {
		completedAt := now
		schedule.CompletedAt = &completedAt
	}
	return true, nil
}

// CountNotCompleted counts a request's schedules that are not completed.
func (sc *Schedules) CountNotCompleted(_ context.Context, sessionRequestID string) (int, error) {
	sc.s.mu.RLock()
	defer sc.s.mu.RUnlock()
	count := 0
	for _, schedule := range sc.s.schedules {
		if schedule.SessionRequestID == sessionRequestID && schedule.Status != models.ScheduleCompleted {
			count++
		}
	}
	return count, nil
}

// Ratings implements the rating storage interface.
type Ratings struct{ s *Store }

// Exists checks whether a rater has already rated a session.
func (rt *Ratings) Exists(_ context.Context, raterID, sessionRequestID string) (bool, error) {
	rt.s.mu.RLock()
	defer rt.s.mu.RUnlock()
	return rt.s.ratingExistsLocked(raterID, sessionRequestID), nil
}

func (s *Store) ratingExistsLocked(raterID, sessionRequestID string) bool {
	for _, rating := range s.ratings {
		if rating.RaterID == raterID && rating.SessionRequestID == sessionRequestID {
			return true
		}
	}
	return false
}

// Create stores a rating and recomputes the ratee's aggregate in one step.
func (rt *Ratings) Create(_ context.Context, rating *models.Rating) error {
	rt.s.mu.Lock()
	defer rt.s.mu.Unlock()

	if rt.s.ratingExistsLocked(rating.RaterID, rating.SessionRequestID) {
		return apperrors.New(apperrors.AlreadyExists, "you have already rated this session")
	}
	copied := *rating
	rt.s.ratings[rating.ID] = &copied

	if ratee, ok := rt.s.users[rating.RateeID]; ok {
		sum, count := 0, 0
		for _, existing := range rt.s.ratings {
			if existing.RateeID == rating.RateeID {
				sum += existing.Rating
				count++
			}
		}
		ratee.TotalRatings = count
		ratee.AverageRating = math.Round(float64(sum)/float64(count)*10) / 10
	}
	return nil
}

// ListByRatee returns ratings received by a user, newest first.
func (rt *Ratings) ListByRatee(_ context.Context, rateeID string) ([]models.Rating, error) {
	rt.s.mu.RLock()
	defer rt.s.mu.RUnlock()
	var ratings []models.Rating
	for _, rating := range rt.s.ratings {
		if rating.RateeID == rateeID {
			ratings = append(ratings, *rating)
		}
	}
	sort.Slice(ratings, func(i, j int) bool { return ratings[i].CreatedAt.After(ratings[j].CreatedAt) })
	return ratings, nil
}

// Stats implements the stats storage interface.
type Stats struct{ s *Store }

// Collect gathers platform-wide aggregates.
func (st *Stats) Collect(_ context.Context) (*models.PlatformStats, error) {
	st.s.mu.RLock()
	defer st.s.mu.RUnlock()

	stats := &models.PlatformStats{
		TotalMembers:     len(st.s.users),
		TotalSkills:      len(st.s.skills),
		RequestsByStatus: make(map[string]int),
	}
	for _, req := range st.s.requests {
		stats.RequestsByStatus[string(req.Status)]++
	}
	for _, schedule := range st.s.schedules {
		if schedule.Status == models.ScheduleCompleted {
			stats.CompletedSessions++
		}
	}
	sum := 0
	for _, rating := range st.s.ratings {
		stats.TotalRatings++
		sum += rating.Rating
	}
	if stats.TotalRatings > 0 {
		stats.GlobalAverageRating = math.Round(float64(sum)/float64(stats.TotalRatings)*10) / 10
	}
	return stats, nil
}
