package model

// SyncCompletedMessage is published after an incremental sync batch commits.
// The worker replays the summary recompute for each touched day; the
// recompute is idempotent, so a redelivered message is harmless.
type SyncCompletedMessage struct {
	MessageID   string   `json:"message_id"`
	BatchID     string   `json:"batch_id"`
	UserID      string   `json:"user_id"`
	Dates       []string `json:"dates"` // YYYY-MM-DD, UTC day buckets
	SyncedCount int      `json:"synced_count"`
	CompletedAt string   `json:"completed_at"` // RFC3339
}
