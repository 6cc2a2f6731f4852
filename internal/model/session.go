package model

import "time"

// AttendanceSession is one reconstructed work interval. Session numbers are
// dense per (user, date), starting at 1, in chronological order of creation.
// The unique index backs the matcher's conflict detection: a concurrent
// allocation of the same number must fail there, never double-write.
type AttendanceSession struct {
	BaseModel
	UserID            string     `gorm:"type:varchar(255);not null;uniqueIndex:uq_user_date_session,priority:1;index:idx_sessions_user_date,priority:1" json:"user_id"`
	Date              time.Time  `gorm:"type:date;not null;uniqueIndex:uq_user_date_session,priority:2;index:idx_sessions_user_date,priority:2" json:"date"`
	SessionNumber     int        `gorm:"not null;default:1;uniqueIndex:uq_user_date_session,priority:3" json:"session_number"`
	CheckinTime       time.Time  `gorm:"type:timestamptz;not null" json:"checkin_time"`
	CheckoutTime      *time.Time `gorm:"type:timestamptz" json:"checkout_time,omitempty"`
	DurationMinutes   *int       `json:"duration_minutes,omitempty"`
	CheckinLatitude   *float64   `json:"checkin_latitude,omitempty"`
	CheckinLongitude  *float64   `json:"checkin_longitude,omitempty"`
	CheckoutLatitude  *float64   `json:"checkout_latitude,omitempty"`
	CheckoutLongitude *float64   `json:"checkout_longitude,omitempty"`
	CheckinLocation   *string    `gorm:"type:varchar(255)" json:"checkin_location,omitempty"`
	CheckoutLocation  *string    `gorm:"type:varchar(255)" json:"checkout_location,omitempty"`
	IsComplete        bool       `gorm:"not null;default:false" json:"is_complete"`
}

func (AttendanceSession) TableName() string {
	return "attendance_sessions"
}

// Open reports whether the session still lacks a checkout.
func (s *AttendanceSession) Open() bool {
	return s.CheckoutTime == nil
}
