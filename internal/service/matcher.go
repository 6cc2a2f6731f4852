package service

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/PlxloYzb/kbk-attendance-server/internal/model"
	"github.com/PlxloYzb/kbk-attendance-server/internal/repository"
	"github.com/PlxloYzb/kbk-attendance-server/pkg/errors"
	"github.com/PlxloYzb/kbk-attendance-server/pkg/logger"
	"github.com/PlxloYzb/kbk-attendance-server/utils"
)

// dayState caches one (user, date) worth of sessions for the duration of a
// batch. open tracks the session still awaiting a checkout, maxNumber the
// highest session_number already allocated.
type dayState struct {
	date      time.Time
	sessions  []*model.AttendanceSession
	open      *model.AttendanceSession
	maxNumber int
}

// sessionMatcher walks one user's normalized events inside a single
// transaction and materializes sessions. It is built fresh per batch; the
// unique index on (user_id, date, session_number) is the backstop against a
// concurrent batch allocating the same slot.
type sessionMatcher struct {
	tx      repository.Store
	userID  string
	window  time.Duration
	days    map[string]*dayState
	touched map[string]time.Time
}

func newSessionMatcher(tx repository.Store, userID string, window time.Duration) *sessionMatcher {
	return &sessionMatcher{
		tx:      tx,
		userID:  userID,
		window:  window,
		days:    make(map[string]*dayState),
		touched: make(map[string]time.Time),
	}
}

// Apply runs the state machine over events already sorted by instant and
// returns the distinct dates whose sessions changed, ascending.
func (m *sessionMatcher) Apply(ctx context.Context, events []Event) ([]time.Time, error) {
	for _, ev := range events {
		var err error
		switch ev.Action {
		case model.ActionIn:
			err = m.handleIn(ctx, ev)
		case model.ActionOut:
			err = m.handleOut(ctx, ev)
		}
		if err != nil {
			return nil, err
		}
	}

	dates := make([]time.Time, 0, len(m.touched))
	for _, d := range m.touched {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates, nil
}

func (m *sessionMatcher) day(ctx context.Context, date time.Time) (*dayState, error) {
	key := utils.FormatDate(date)
	if st, ok := m.days[key]; ok {
		return st, nil
	}

	stored, err := m.tx.Sessions().ListByUserDate(ctx, m.userID, date)
	if err != nil {
		return nil, err
	}

	st := &dayState{date: date}
	for i := range stored {
		s := stored[i]
		st.sessions = append(st.sessions, &s)
		if s.SessionNumber > st.maxNumber {
			st.maxNumber = s.SessionNumber
		}
		if s.Open() {
			st.open = st.sessions[len(st.sessions)-1]
		}
	}
	m.days[key] = st
	return st, nil
}

func (m *sessionMatcher) touch(date time.Time) {
	m.touched[utils.FormatDate(date)] = date
}

func (m *sessionMatcher) handleIn(ctx context.Context, ev Event) error {
	date := utils.DateOf(ev.At)
	st, err := m.day(ctx, date)
	if err != nil {
		return err
	}

	// An open session on the date swallows any further IN, including the
	// replay of the IN that opened it.
	if st.open != nil {
		return nil
	}

	// Replay of an already-closed session: same check-in instant, nothing to do.
	for _, s := range st.sessions {
		if s.CheckinTime.Equal(ev.At) {
			return nil
		}
	}

	// A still-open session on the previous date means a missing checkout.
	// Opening a second one would break the single-open-session invariant, so
	// the batch is rejected instead.
	prev, err := m.day(ctx, date.AddDate(0, 0, -1))
	if err != nil {
		return err
	}
	if prev.open != nil {
		logger.Logger.Warn("rejecting check-in while a previous-day session is still open",
			zap.String("user_id", m.userID),
			zap.String("date", utils.FormatDate(date)),
			zap.Int("open_session_number", prev.open.SessionNumber),
		)
		return errors.OpenSessionExists
	}

	sess := &model.AttendanceSession{
		UserID:           m.userID,
		Date:             date,
		SessionNumber:    st.maxNumber + 1,
		CheckinTime:      ev.At,
		CheckinLatitude:  ev.Latitude,
		CheckinLongitude: ev.Longitude,
	}
	if err := m.tx.Sessions().Insert(ctx, sess); err != nil {
		return err
	}

	st.sessions = append(st.sessions, sess)
	st.maxNumber = sess.SessionNumber
	st.open = sess
	m.touch(date)
	return nil
}

func (m *sessionMatcher) handleOut(ctx context.Context, ev Event) error {
	date := utils.DateOf(ev.At)
	st, err := m.day(ctx, date)
	if err != nil {
		return err
	}

	if st.open != nil && !ev.At.Before(st.open.CheckinTime) {
		if err := m.closeSession(ctx, st.open, ev); err != nil {
			return err
		}
		st.open = nil
		m.touch(date)
		return nil
	}

	prev, err := m.day(ctx, date.AddDate(0, 0, -1))
	if err != nil {
		return err
	}

	// Replay: some session on the current or previous date already checked
	// out at exactly this instant.
	if sessionClosedAt(st, ev.At) || sessionClosedAt(prev, ev.At) {
		return nil
	}

	// Midnight crossing: close the freshest qualifying open session of the
	// previous date instead of minting an orphan here.
	if cand := m.previousDayCandidate(prev, ev.At); cand != nil {
		if err := m.closeSession(ctx, cand, ev); err != nil {
			return err
		}
		if prev.open == cand {
			prev.open = nil
		}
		m.touch(prev.date)
		return nil
	}

	// Orphan checkout: nothing to close anywhere, record a zero-length
	// session so the event still shows up in the day's record.
	at := ev.At
	zero := 0
	sess := &model.AttendanceSession{
		UserID:            m.userID,
		Date:              date,
		SessionNumber:     st.maxNumber + 1,
		CheckinTime:       ev.At,
		CheckoutTime:      &at,
		DurationMinutes:   &zero,
		CheckinLatitude:   ev.Latitude,
		CheckinLongitude:  ev.Longitude,
		CheckoutLatitude:  ev.Latitude,
		CheckoutLongitude: ev.Longitude,
		IsComplete:        true,
	}
	if err := m.tx.Sessions().Insert(ctx, sess); err != nil {
		return err
	}

	st.sessions = append(st.sessions, sess)
	st.maxNumber = sess.SessionNumber
	m.touch(date)
	return nil
}

// previousDayCandidate picks the open previous-day session with the latest
// check-in that started before the OUT and within the session window of it.
func (m *sessionMatcher) previousDayCandidate(prev *dayState, at time.Time) *model.AttendanceSession {
	var best *model.AttendanceSession
	for _, s := range prev.sessions {
		if !s.Open() {
			continue
		}
		if !s.CheckinTime.Before(at) || at.Sub(s.CheckinTime) > m.window {
			continue
		}
		if best == nil || s.CheckinTime.After(best.CheckinTime) {
			best = s
		}
	}
	return best
}

func (m *sessionMatcher) closeSession(ctx context.Context, sess *model.AttendanceSession, ev Event) error {
	at := ev.At
	mins := int(at.Sub(sess.CheckinTime).Minutes())
	sess.CheckoutTime = &at
	sess.DurationMinutes = &mins
	sess.CheckoutLatitude = ev.Latitude
	sess.CheckoutLongitude = ev.Longitude
	sess.IsComplete = true
	return m.tx.Sessions().SaveCheckout(ctx, sess)
}

func sessionClosedAt(st *dayState, at time.Time) bool {
	for _, s := range st.sessions {
		if s.CheckoutTime != nil && s.CheckoutTime.Equal(at) {
			return true
		}
	}
	return false
}
