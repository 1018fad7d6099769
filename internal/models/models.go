package models

import "time"

// User represents a member of the platform. The rating aggregate is
// denormalized here and maintained by the rating store.
type User struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"`
	DisplayName   string    `json:"display_name"`
	Bio           string    `json:"bio,omitempty"`
	Role          string    `json:"role"`
	AverageRating float64   `json:"average_rating"`
	TotalRatings  int       `json:"total_ratings"`
	CreatedAt     time.Time `json:"created_at"`
}

// User roles.
const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

// Skill is something a member can teach or wants to learn.
type Skill struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Category  string    `json:"category,omitempty"`
	Kind      string    `json:"kind"`
	Level     string    `json:"level,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Skill kinds.
const (
	SkillKindTeach = "teach"
	SkillKindLearn = "learn"
)

// RequestStatus is the lifecycle status of a session request.
type RequestStatus string

const (
	RequestPending   RequestStatus = "pending"
	RequestAccepted  RequestStatus = "accepted"
	RequestRejected  RequestStatus = "rejected"
	RequestCompleted RequestStatus = "completed"
	RequestCancelled RequestStatus = "cancelled"
)

// Valid reports whether s is a known request status.
func (s RequestStatus) Valid() bool {
	switch s {
	case RequestPending, RequestAccepted, RequestRejected, RequestCompleted, RequestCancelled:
		return true
	}
	return false
}

// Terminal reports whether s permits no further transitions.
func (s RequestStatus) Terminal() bool {
	switch s {
	case RequestRejected, RequestCompleted, RequestCancelled:
		return true
	}
	return false
}

// ScheduleStatus is the lifecycle status of a session schedule.
type ScheduleStatus string

const (
	ScheduleAccepted  ScheduleStatus = "accepted"
	ScheduleCompleted ScheduleStatus = "completed"
	ScheduleCancelled ScheduleStatus = "cancelled"
)

// SessionRequest is a proposed skill-exchange session between two members.
// Party display names and emails are denormalized onto the record at creation
// time so listings never need a join against the member directory.
type SessionRequest struct {
	ID               string        `json:"id"`
	RequesterID      string        `json:"requester_id"`
	RequesterName    string        `json:"requester_name"`
	RequesterEmail   string        `json:"requester_email"`
	RecipientID      string        `json:"recipient_id"`
	RecipientName    string        `json:"recipient_name"`
	RecipientEmail   string        `json:"recipient_email"`
	SkillOfferedID   string        `json:"skill_offered_id"`
	SkillOfferedName string        `json:"skill_offered_name"`
	SkillSoughtID    string        `json:"skill_sought_id"`
	SkillSoughtName  string        `json:"skill_sought_name"`
	SessionType      string        `json:"session_type"`
	ProposedDate     time.Time     `json:"proposed_date"`
	ProposedTime     string        `json:"proposed_time"`
	Duration         int           `json:"duration"`
	Location         *string       `json:"location,omitempty"`
	MeetingLink      *string       `json:"meeting_link,omitempty"`
	Description      *string       `json:"description,omitempty"`
	Status           RequestStatus `json:"status"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
	AcceptedAt       *time.Time    `json:"accepted_at,omitempty"`
	CompletedAt      *time.Time    `json:"completed_at,omitempty"`
}

// SessionSchedule is one participant's individually-owned half of an accepted
// session. The skill fields reference what this schedule's owner is learning.
type SessionSchedule struct {
	ID               string         `json:"id"`
	SessionRequestID string         `json:"session_request_id"`
	UserID           string         `json:"user_id"`
	SkillID          string         `json:"skill_id"`
	SkillName        string         `json:"skill_name"`
	ScheduledDate    time.Time      `json:"scheduled_date"`
	ScheduledTime    string         `json:"scheduled_time"`
	Duration         int            `json:"duration"`
	Location         *string        `json:"location,omitempty"`
	MeetingLink      *string        `json:"meeting_link,omitempty"`
	Notes            *string        `json:"notes,omitempty"`
	Status           ScheduleStatus `json:"status"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	CompletedAt      *time.Time     `json:"completed_at,omitempty"`
}

// Rating is a single post-session score, at most one per rater per session.
type Rating struct {
	ID                string    `json:"id"`
	SessionRequestID  string    `json:"session_request_id"`
	SessionScheduleID *string   `json:"session_schedule_id,omitempty"`
	RaterID           string    `json:"rater_id"`
	RaterName         string    `json:"rater_name"`
	RateeID           string    `json:"ratee_id"`
	RateeName         string    `json:"ratee_name"`
	SkillID           string    `json:"skill_id"`
	SkillName         string    `json:"skill_name"`
	Rating            int       `json:"rating"`
	Feedback          *string   `json:"feedback,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

// RatingSummary is the denormalized aggregate shown on a member profile.
type RatingSummary struct {
	AverageRating float64 `json:"average_rating"`
	TotalRatings  int     `json:"total_ratings"`
}

// PlatformStats is a single-pass aggregate over the whole platform.
type PlatformStats struct {
	TotalMembers        int            `json:"total_members"`
	TotalSkills         int            `json:"total_skills"`
	RequestsByStatus    map[string]int `json:"requests_by_status"`
	CompletedSessions   int            `json:"completed_sessions"`
	TotalRatings        int            `json:"total_ratings"`
	GlobalAverageRating float64        `json:"global_average_rating"`
}
