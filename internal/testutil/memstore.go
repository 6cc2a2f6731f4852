// Package testutil provides an in-memory repository.Store for service tests.
// It mirrors the semantics the gorm-backed store guarantees: ErrNotFound from
// Get-style methods, ErrSessionConflict on a taken session slot, and rollback
// of every write when a transaction callback fails.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/PlxloYzb/kbk-attendance-server/internal/model"
	"github.com/PlxloYzb/kbk-attendance-server/internal/repository"
)

type MemStore struct {
	mu     sync.Mutex
	nextID int64

	events    map[int64]model.Checkin
	sessions  map[int64]model.AttendanceSession
	summaries map[int64]model.AttendanceSummary
	users     map[string]model.UserInfo
	settings  map[string]model.UserTimeSetting
	admins    map[string]model.AdminUser

	// SessionInsertHook, when set, runs before every session insert. Tests use
	// it to inject repository.ErrSessionConflict and exercise the retry path.
	SessionInsertHook func(sess *model.AttendanceSession) error
}

func NewMemStore() *MemStore {
	return &MemStore{
		events:    make(map[int64]model.Checkin),
		sessions:  make(map[int64]model.AttendanceSession),
		summaries: make(map[int64]model.AttendanceSummary),
		users:     make(map[string]model.UserInfo),
		settings:  make(map[string]model.UserTimeSetting),
		admins:    make(map[string]model.AdminUser),
	}
}

var _ repository.Store = (*MemStore)(nil)

func (m *MemStore) Events() repository.EventRepo             { return (*memEvents)(m) }
func (m *MemStore) Sessions() repository.SessionRepo         { return (*memSessions)(m) }
func (m *MemStore) Summaries() repository.SummaryRepo        { return (*memSummaries)(m) }
func (m *MemStore) Users() repository.UserRepo               { return (*memUsers)(m) }
func (m *MemStore) TimeSettings() repository.TimeSettingRepo { return (*memSettings)(m) }
func (m *MemStore) Admins() repository.AdminRepo             { return (*memAdmins)(m) }

// Transaction snapshots the tables, runs fn against the same store, and
// restores the snapshot when fn fails.
func (m *MemStore) Transaction(ctx context.Context, fn func(repository.Store) error) error {
	m.mu.Lock()
	events := cloneMap(m.events)
	sessions := cloneMap(m.sessions)
	summaries := cloneMap(m.summaries)
	settings := cloneMap(m.settings)
	m.mu.Unlock()

	if err := fn(m); err != nil {
		m.mu.Lock()
		m.events = events
		m.sessions = sessions
		m.summaries = summaries
		m.settings = settings
		m.mu.Unlock()
		return err
	}
	return nil
}

func cloneMap[K comparable, V any](src map[K]V) map[K]V {
	dst := make(map[K]V, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func (m *MemStore) allocID() int64 {
	m.nextID++
	return m.nextID
}

// SeedUser registers a worker so passkey auth and counts can find it.
func (m *MemStore) SeedUser(u model.UserInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u.ID == 0 {
		u.ID = m.allocID()
	}
	m.users[u.UserID] = u
}

func (m *MemStore) SeedAdmin(a model.AdminUser) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a.ID == 0 {
		a.ID = m.allocID()
	}
	m.admins[a.Username] = a
}

func (m *MemStore) SeedTimeSetting(ts model.UserTimeSetting) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ts.ID == 0 {
		ts.ID = m.allocID()
	}
	m.settings[ts.UserID] = ts
}

func (m *MemStore) SeedSession(sess model.AttendanceSession) model.AttendanceSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sess.ID == 0 {
		sess.ID = m.allocID()
	}
	m.sessions[sess.ID] = sess
	return sess
}

func (m *MemStore) SeedEvent(ev model.Checkin) model.Checkin {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ev.ID == 0 {
		ev.ID = m.allocID()
	}
	m.events[ev.ID] = ev
	return ev
}

// --- events ---

type memEvents MemStore

func (m *memEvents) Insert(ctx context.Context, events []*model.Checkin) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ev := range events {
		if ev.ID == 0 {
			ev.ID = (*MemStore)(m).allocID()
		}
		m.events[ev.ID] = *ev
	}
	return nil
}

func (m *memEvents) Get(ctx context.Context, id int64) (*model.Checkin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ev, ok := m.events[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &ev, nil
}

func (m *memEvents) CountByUser(ctx context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, ev := range m.events {
		if ev.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (m *memEvents) ListByUser(ctx context.Context, userID string) ([]model.Checkin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Checkin
	for _, ev := range m.events {
		if ev.UserID == userID {
			out = append(out, ev)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *memEvents) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.events[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.events, id)
	return nil
}

// --- sessions ---

type memSessions MemStore

func (m *memSessions) Get(ctx context.Context, id int64) (*model.AttendanceSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &sess, nil
}

func (m *memSessions) ListByUserDate(ctx context.Context, userID string, date time.Time) ([]model.AttendanceSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.AttendanceSession
	for _, sess := range m.sessions {
		if sess.UserID == userID && sess.Date.Equal(date) {
			out = append(out, sess)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].SessionNumber < out[j].SessionNumber
	})
	return out, nil
}

func (m *memSessions) OpenByUserDate(ctx context.Context, userID string, date time.Time) (*model.AttendanceSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var open *model.AttendanceSession
	for id := range m.sessions {
		sess := m.sessions[id]
		if sess.UserID != userID || !sess.Date.Equal(date) || sess.CheckoutTime != nil {
			continue
		}
		if open == nil || sess.SessionNumber > open.SessionNumber {
			open = &sess
		}
	}
	if open == nil {
		return nil, repository.ErrNotFound
	}
	return open, nil
}

func (m *memSessions) Insert(ctx context.Context, sess *model.AttendanceSession) error {
	if m.SessionInsertHook != nil {
		if err := m.SessionInsertHook(sess); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.sessions {
		if existing.UserID == sess.UserID && existing.Date.Equal(sess.Date) &&
			existing.SessionNumber == sess.SessionNumber {
			return repository.ErrSessionConflict
		}
	}
	if sess.ID == 0 {
		sess.ID = (*MemStore)(m).allocID()
	}
	m.sessions[sess.ID] = *sess
	return nil
}

func (m *memSessions) SaveCheckout(ctx context.Context, sess *model.AttendanceSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.sessions[sess.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.CheckoutTime = sess.CheckoutTime
	stored.DurationMinutes = sess.DurationMinutes
	stored.CheckoutLatitude = sess.CheckoutLatitude
	stored.CheckoutLongitude = sess.CheckoutLongitude
	stored.CheckoutLocation = sess.CheckoutLocation
	stored.IsComplete = sess.IsComplete
	stored.UpdatedAt = sess.UpdatedAt
	m.sessions[sess.ID] = stored
	return nil
}

func (m *memSessions) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.sessions, id)
	return nil
}

func (m *memSessions) DeleteByUser(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, sess := range m.sessions {
		if sess.UserID == userID {
			delete(m.sessions, id)
		}
	}
	return nil
}

// --- summaries ---

type memSummaries MemStore

func (m *memSummaries) GetByUserDate(ctx context.Context, userID string, date time.Time) (*model.AttendanceSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, sum := range m.summaries {
		if sum.UserID == userID && sum.Date.Equal(date) {
			return &sum, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memSummaries) ListByUserRange(ctx context.Context, userID string, from, to time.Time) ([]model.AttendanceSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.AttendanceSummary
	for _, sum := range m.summaries {
		if sum.UserID == userID && !sum.Date.Before(from) && !sum.Date.After(to) {
			out = append(out, sum)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}

func (m *memSummaries) Upsert(ctx context.Context, sum *model.AttendanceSummary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, existing := range m.summaries {
		if existing.UserID == sum.UserID && existing.Date.Equal(sum.Date) {
			sum.ID = id
			m.summaries[id] = *sum
			return nil
		}
	}
	if sum.ID == 0 {
		sum.ID = (*MemStore)(m).allocID()
	}
	m.summaries[sum.ID] = *sum
	return nil
}

func (m *memSummaries) DeleteByUserDate(ctx context.Context, userID string, date time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, sum := range m.summaries {
		if sum.UserID == userID && sum.Date.Equal(date) {
			delete(m.summaries, id)
		}
	}
	return nil
}

func (m *memSummaries) DeleteByUser(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, sum := range m.summaries {
		if sum.UserID == userID {
			delete(m.summaries, id)
		}
	}
	return nil
}

// --- users ---

type memUsers MemStore

func (m *memUsers) GetByPasskey(ctx context.Context, passkey string) (*model.UserInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Passkey == passkey {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memUsers) GetByUserID(ctx context.Context, userID string) (*model.UserInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (m *memUsers) Count(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.users)), nil
}

// --- time settings ---

type memSettings MemStore

func (m *memSettings) GetByUserID(ctx context.Context, userID string) (*model.UserTimeSetting, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ts, ok := m.settings[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &ts, nil
}

func (m *memSettings) Count(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.settings)), nil
}

func (m *memSettings) MissingCount(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for userID := range m.users {
		if _, ok := m.settings[userID]; !ok {
			n++
		}
	}
	return n, nil
}

func (m *memSettings) InsertDefaults(ctx context.Context, onDuty, offDuty string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for userID := range m.users {
		if _, ok := m.settings[userID]; ok {
			continue
		}
		m.settings[userID] = model.UserTimeSetting{
			ID:          (*MemStore)(m).allocID(),
			UserID:      userID,
			OnDutyTime:  onDuty,
			OffDutyTime: offDuty,
		}
		n++
	}
	return n, nil
}

// --- admins ---

type memAdmins MemStore

func (m *memAdmins) GetByUsername(ctx context.Context, username string) (*model.AdminUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.admins[username]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &a, nil
}
