package repositorytest

import "skillswap-backend/internal/services"

// Compile-time checks that the in-memory views satisfy the service
// storage interfaces.
var (
	_ services.UserStore            = (*Users)(nil)
	_ services.SkillStore           = (*Skills)(nil)
	_ services.SessionRequestStore  = (*Requests)(nil)
	_ services.SessionScheduleStore = (*Schedules)(nil)
	_ services.RatingStore          = (*Ratings)(nil)
	_ services.StatsStore           = (*Stats)(nil)
)
