package model

import "time"

// AttendanceSummary is the per-user-per-day aggregate. It is a strict
// function of that day's sessions, recomputed inside the same transaction as
// every session write. Never hand-edited.
type AttendanceSummary struct {
	ID               int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID           string     `gorm:"type:varchar(255);not null;uniqueIndex:uq_summary_user_date,priority:1" json:"user_id"`
	Date             time.Time  `gorm:"type:date;not null;uniqueIndex:uq_summary_user_date,priority:2;index:idx_summary_date" json:"date"`
	FirstCheckinTime *time.Time `gorm:"type:timestamptz" json:"first_checkin_time,omitempty"`
	LastCheckoutTime *time.Time `gorm:"type:timestamptz" json:"last_checkout_time,omitempty"`
	TotalWorkMinutes int        `gorm:"not null;default:0" json:"total_work_minutes"`
	TotalSessions    int        `gorm:"not null;default:0" json:"total_sessions"`
	IsComplete       bool       `gorm:"not null;default:false" json:"is_complete"`
	UpdatedAt        time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (AttendanceSummary) TableName() string {
	return "attendance_summary"
}

// EmptySummary is the zeroed, incomplete summary returned when a day has no
// row yet.
func EmptySummary(userID string, date time.Time) AttendanceSummary {
	return AttendanceSummary{
		UserID: userID,
		Date:   date,
	}
}
