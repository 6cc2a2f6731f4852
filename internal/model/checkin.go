package model

import "time"

// CheckinAction is the raw device action.
type CheckinAction string

const (
	ActionIn  CheckinAction = "IN"
	ActionOut CheckinAction = "OUT"
)

// Valid reports whether the action is one of the two accepted values.
func (a CheckinAction) Valid() bool {
	return a == ActionIn || a == ActionOut
}

// Checkin is one raw presence event as submitted by a field device.
// Rows are append-only: accepted events are never mutated or deleted by the
// sync pipeline. CreatedAt is the device-side instant of the event, not the
// server receive time.
type Checkin struct {
	ID        int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    string        `gorm:"type:varchar(255);not null;index:idx_checkins_user_id" json:"user_id"`
	Action    CheckinAction `gorm:"type:varchar(10);not null" json:"action"`
	CreatedAt time.Time     `gorm:"type:timestamptz;not null;index:idx_checkins_created_at" json:"created_at"`
	Latitude  *float64      `json:"latitude,omitempty"`
	Longitude *float64      `json:"longitude,omitempty"`
	IsSynced  int           `gorm:"not null;default:0" json:"is_synced"`
}

func (Checkin) TableName() string {
	return "checkins"
}
