package dto

import (
	"time"

	"github.com/PlxloYzb/kbk-attendance-server/internal/model"
)

// AuthRequest resolves a bare passkey to a user.
type AuthRequest struct {
	Passkey string `json:"passkey"`
}

type UserInfoResponse struct {
	UserID         string  `json:"user_id"`
	UserName       *string `json:"user_name,omitempty"`
	Department     int32   `json:"department"`
	DepartmentName *string `json:"department_name,omitempty"`
}

// CheckinData is one event inside a sync batch.
type CheckinData struct {
	Action    string    `json:"action"`
	CreatedAt time.Time `json:"created_at"`
	Latitude  *float64  `json:"latitude,omitempty"`
	Longitude *float64  `json:"longitude,omitempty"`
}

type SyncRequest struct {
	UserID   string        `json:"user_id"`
	Passkey  string        `json:"passkey"`
	Checkins []CheckinData `json:"checkins"`
}

type SyncResponse struct {
	SyncedCount int `json:"synced_count"`
}

type CountRequest struct {
	UserID     string `json:"user_id"`
	Passkey    string `json:"passkey"`
	LocalCount int64  `json:"local_count"`
}

// CountResponse.Action is one of "none", "incremental", "full".
type CountResponse struct {
	Action      string `json:"action"`
	ServerCount int64  `json:"server_count"`
}

type FullSyncRequest struct {
	UserID  string `json:"user_id"`
	Passkey string `json:"passkey"`
}

type DailySessionsRequest struct {
	UserID  string `json:"user_id"`
	Passkey string `json:"passkey"`
	Date    string `json:"date"` // YYYY-MM-DD
}

type DailySessionsResponse struct {
	Date     string                    `json:"date"`
	Sessions []model.AttendanceSession `json:"sessions"`
	Summary  model.AttendanceSummary   `json:"summary"`
}
