package dto

type AdminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AdminLoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
	Role      string `json:"role"`
}

type ReconcileResponse struct {
	SyncedCount int    `json:"synced_count"`
	Message     string `json:"message"`
}

type ReconcileStatus struct {
	TotalUsers           int64 `json:"total_users"`
	UsersWithTimeSetting int64 `json:"users_with_time_settings"`
	IsSynced             bool  `json:"is_synced"`
	MissingCount         int64 `json:"missing_count"`
}

// AdminCheckinRequest inserts an event on behalf of a user and replays it
// through the session pipeline.
type AdminCheckinRequest struct {
	UserID    string   `json:"user_id"`
	Action    string   `json:"action"`
	CreatedAt string   `json:"created_at"` // RFC3339
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}
