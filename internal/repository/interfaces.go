package repository

import (
	"context"
	"errors"
	"time"

	"github.com/PlxloYzb/kbk-attendance-server/internal/model"
)

var (
	// ErrNotFound is returned by Get-style methods when no row matches.
	ErrNotFound = errors.New("repository: record not found")

	// ErrSessionConflict is returned by SessionRepo.Upsert when the
	// (user, date, session_number) slot is already taken by a session with a
	// different checkin time. Callers retry the whole batch.
	ErrSessionConflict = errors.New("repository: session slot taken by concurrent writer")
)

// Store bundles the per-table repositories behind one handle so services can
// run multi-table work inside a single transaction.
type Store interface {
	Events() EventRepo
	Sessions() SessionRepo
	Summaries() SummaryRepo
	Users() UserRepo
	TimeSettings() TimeSettingRepo
	Admins() AdminRepo

	// Transaction runs fn against a store bound to one database transaction.
	// A non-nil error from fn rolls everything back.
	Transaction(ctx context.Context, fn func(Store) error) error
}

type EventRepo interface {
	Insert(ctx context.Context, events []*model.Checkin) error
	Get(ctx context.Context, id int64) (*model.Checkin, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
	// ListByUser returns every event for the user ordered by event instant,
	// then by id for equal instants.
	ListByUser(ctx context.Context, userID string) ([]model.Checkin, error)
	Delete(ctx context.Context, id int64) error
}

type SessionRepo interface {
	Get(ctx context.Context, id int64) (*model.AttendanceSession, error)
	// ListByUserDate returns the day's sessions ordered by session number.
	ListByUserDate(ctx context.Context, userID string, date time.Time) ([]model.AttendanceSession, error)
	// OpenByUserDate returns the highest-numbered session on the date that
	// still lacks a checkout, or ErrNotFound.
	OpenByUserDate(ctx context.Context, userID string, date time.Time) (*model.AttendanceSession, error)
	// Insert creates the session. A (user, date, session_number) slot already
	// taken by another writer yields ErrSessionConflict.
	Insert(ctx context.Context, sess *model.AttendanceSession) error
	// SaveCheckout persists the checkout fields of an existing session.
	SaveCheckout(ctx context.Context, sess *model.AttendanceSession) error
	Delete(ctx context.Context, id int64) error
	DeleteByUser(ctx context.Context, userID string) error
}

type SummaryRepo interface {
	GetByUserDate(ctx context.Context, userID string, date time.Time) (*model.AttendanceSummary, error)
	ListByUserRange(ctx context.Context, userID string, from, to time.Time) ([]model.AttendanceSummary, error)
	Upsert(ctx context.Context, sum *model.AttendanceSummary) error
	DeleteByUserDate(ctx context.Context, userID string, date time.Time) error
	DeleteByUser(ctx context.Context, userID string) error
}

type UserRepo interface {
	GetByPasskey(ctx context.Context, passkey string) (*model.UserInfo, error)
	GetByUserID(ctx context.Context, userID string) (*model.UserInfo, error)
	Count(ctx context.Context) (int64, error)
}

type TimeSettingRepo interface {
	GetByUserID(ctx context.Context, userID string) (*model.UserTimeSetting, error)
	Count(ctx context.Context) (int64, error)
	// MissingCount counts users without a time setting row.
	MissingCount(ctx context.Context) (int64, error)
	// InsertDefaults creates a default row for every user missing one and
	// returns how many rows were inserted.
	InsertDefaults(ctx context.Context, onDuty, offDuty string) (int64, error)
}

type AdminRepo interface {
	GetByUsername(ctx context.Context, username string) (*model.AdminUser, error)
}
