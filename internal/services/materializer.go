package services

import (
	"time"

	"skillswap-backend/internal/models"

	"github.com/google/uuid"
)

// materializeSchedules fans one accepted request out into two per-participant
// schedules. Each schedule carries the skill its owner is learning: the
// requester receives the sought skill, the recipient receives the offered
// one. Scheduling details are copied verbatim from the request.
func materializeSchedules(req *models.SessionRequest, now time.Time) []*models.SessionSchedule {
	build := func(userID, skillID, skillName string) *models.SessionSchedule {
		return &models.SessionSchedule{
			ID:               uuid.New().String(),
			SessionRequestID: req.ID,
			UserID:           userID,
			SkillID:          skillID,
			SkillName:        skillName,
			ScheduledDate:    req.ProposedDate,
			ScheduledTime:    req.ProposedTime,
			Duration:         req.Duration,
			Location:         req.Location,
			MeetingLink:      req.MeetingLink,
			Notes:            req.Description,
			Status:           models.ScheduleAccepted,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
	}

	return []*models.SessionSchedule{
		build(req.RequesterID, req.SkillSoughtID, req.SkillSoughtName),
		build(req.RecipientID, req.SkillOfferedID, req.SkillOfferedName),
	}
}
