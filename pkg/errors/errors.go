package errors

func (d Definition) Error() string {
	return d.Message
}

// Definition carries a business error code and its default message.
type Definition struct {
	Code    string
	Message string
}

// Authentication errors.
var (
	InvalidPasskey     = Definition{Code: "INVALID_PASSKEY", Message: "Invalid passkey"}
	InvalidCredentials = Definition{Code: "INVALID_CREDENTIALS", Message: "Invalid credentials"}
	Unauthorized       = Definition{Code: "UNAUTHORIZED", Message: "Unauthorized"}
	AdminLoginFailed   = Definition{Code: "ADMIN_LOGIN_FAILED", Message: "Wrong username or password"}
	AdminAccessDenied  = Definition{Code: "ADMIN_ACCESS_DENIED", Message: "Admin access required"}
)

// Sync pipeline errors.
var (
	InvalidAction      = Definition{Code: "INVALID_ACTION", Message: "Event action must be IN or OUT"}
	InvalidTimestamp   = Definition{Code: "INVALID_TIMESTAMP", Message: "Event timestamp is required"}
	EmptyBatch         = Definition{Code: "EMPTY_BATCH", Message: "Sync batch contains no events"}
	SessionConflict    = Definition{Code: "SESSION_CONFLICT", Message: "Concurrent session number allocation"}
	SyncRetryExhausted = Definition{Code: "SYNC_RETRY_EXHAUSTED", Message: "Sync retries exhausted"}
	OpenSessionExists  = Definition{Code: "OPEN_SESSION_EXISTS", Message: "Another open session already exists"}
)

// Query errors.
var (
	UserNotFound    = Definition{Code: "USER_NOT_FOUND", Message: "User not found"}
	SessionNotFound = Definition{Code: "SESSION_NOT_FOUND", Message: "Session not found"}
	EventNotFound   = Definition{Code: "EVENT_NOT_FOUND", Message: "Checkin event not found"}
	InvalidDate     = Definition{Code: "INVALID_DATE", Message: "Invalid date, expected YYYY-MM-DD"}
	InvalidMonth    = Definition{Code: "INVALID_MONTH", Message: "Invalid year/month"}
)

// Rate limiting.
var (
	TooManyRequests = Definition{Code: "TOO_MANY_REQUESTS", Message: "Too many requests"}
)

// Lookup resolves error codes back to their Definition.
var Lookup = map[string]Definition{
	InvalidPasskey.Code:     InvalidPasskey,
	InvalidCredentials.Code: InvalidCredentials,
	Unauthorized.Code:       Unauthorized,
	AdminLoginFailed.Code:   AdminLoginFailed,
	AdminAccessDenied.Code:  AdminAccessDenied,
	InvalidAction.Code:      InvalidAction,
	InvalidTimestamp.Code:   InvalidTimestamp,
	EmptyBatch.Code:         EmptyBatch,
	SessionConflict.Code:    SessionConflict,
	SyncRetryExhausted.Code: SyncRetryExhausted,
	OpenSessionExists.Code:  OpenSessionExists,
	UserNotFound.Code:       UserNotFound,
	SessionNotFound.Code:    SessionNotFound,
	EventNotFound.Code:      EventNotFound,
	InvalidDate.Code:        InvalidDate,
	InvalidMonth.Code:       InvalidMonth,
	TooManyRequests.Code:    TooManyRequests,
}

// Get returns the Definition for a code, or a placeholder when unknown.
func Get(code string) Definition {
	if def, ok := Lookup[code]; ok {
		return def
	}
	return Definition{Code: code, Message: "Unexpected error"}
}
