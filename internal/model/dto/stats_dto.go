package dto

import "time"

type MonthlyStatsRequest struct {
	UserID  string `json:"user_id"`
	Passkey string `json:"passkey"`
	Year    int    `json:"year"`
	Month   int    `json:"month"`
}

type DailyAttendance struct {
	Date             string     `json:"date"`
	CheckinTime      *time.Time `json:"checkin_time,omitempty"`
	CheckoutTime     *time.Time `json:"checkout_time,omitempty"`
	IsLate           bool       `json:"is_late"`
	IsEarlyLeave     bool       `json:"is_early_leave"`
	TotalWorkMinutes int        `json:"total_work_minutes"`
	TotalSessions    int        `json:"total_sessions"`
}

type MonthlyStatsResponse struct {
	AttendanceDays  int               `json:"attendance_days"`
	LateCount       int               `json:"late_count"`
	EarlyLeaveCount int               `json:"early_leave_count"`
	Details         []DailyAttendance `json:"details"`
}
