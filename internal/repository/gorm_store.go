package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/PlxloYzb/kbk-attendance-server/internal/model"
)

type gormStore struct {
	db *gorm.DB
}

// NewStore wraps a gorm handle in the Store interface.
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Events() EventRepo             { return &eventRepo{db: s.db} }
func (s *gormStore) Sessions() SessionRepo         { return &sessionRepo{db: s.db} }
func (s *gormStore) Summaries() SummaryRepo        { return &summaryRepo{db: s.db} }
func (s *gormStore) Users() UserRepo               { return &userRepo{db: s.db} }
func (s *gormStore) TimeSettings() TimeSettingRepo { return &timeSettingRepo{db: s.db} }
func (s *gormStore) Admins() AdminRepo             { return &adminRepo{db: s.db} }

func (s *gormStore) Transaction(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}

func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

type eventRepo struct {
	db *gorm.DB
}

func (r *eventRepo) Insert(ctx context.Context, events []*model.Checkin) error {
	if len(events) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&events).Error
}

func (r *eventRepo) Get(ctx context.Context, id int64) (*model.Checkin, error) {
	var c model.Checkin
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &c, nil
}

func (r *eventRepo) CountByUser(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Checkin{}).
		Where("user_id = ?", userID).
		Count(&n).Error
	return n, err
}

func (r *eventRepo) ListByUser(ctx context.Context, userID string) ([]model.Checkin, error) {
	var events []model.Checkin
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&events).Error
	return events, err
}

func (r *eventRepo) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Checkin{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type sessionRepo struct {
	db *gorm.DB
}

func (r *sessionRepo) Get(ctx context.Context, id int64) (*model.AttendanceSession, error) {
	var s model.AttendanceSession
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &s, nil
}

func (r *sessionRepo) ListByUserDate(ctx context.Context, userID string, date time.Time) ([]model.AttendanceSession, error) {
	var sessions []model.AttendanceSession
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date).
		Order("session_number ASC").
		Find(&sessions).Error
	return sessions, err
}

func (r *sessionRepo) OpenByUserDate(ctx context.Context, userID string, date time.Time) (*model.AttendanceSession, error) {
	var s model.AttendanceSession
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date = ? AND checkout_time IS NULL", userID, date).
		Order("session_number DESC").
		First(&s).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &s, nil
}

func (r *sessionRepo) Insert(ctx context.Context, sess *model.AttendanceSession) error {
	// DO NOTHING keeps a lost race from overwriting the winner's row; zero
	// rows affected is how the loser learns it must retry the batch.
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}, {Name: "session_number"}},
		DoNothing: true,
	}).Create(sess)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrSessionConflict
	}
	return nil
}

func (r *sessionRepo) SaveCheckout(ctx context.Context, sess *model.AttendanceSession) error {
	return r.db.WithContext(ctx).Model(sess).
		Select("checkout_time", "duration_minutes",
			"checkout_latitude", "checkout_longitude", "checkout_location",
			"is_complete", "updated_at").
		Updates(sess).Error
}

func (r *sessionRepo) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.AttendanceSession{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *sessionRepo) DeleteByUser(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.AttendanceSession{}).Error
}

type summaryRepo struct {
	db *gorm.DB
}

func (r *summaryRepo) GetByUserDate(ctx context.Context, userID string, date time.Time) (*model.AttendanceSummary, error) {
	var s model.AttendanceSummary
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date).
		First(&s).Error
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &s, nil
}

func (r *summaryRepo) ListByUserRange(ctx context.Context, userID string, from, to time.Time) ([]model.AttendanceSummary, error) {
	var summaries []model.AttendanceSummary
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date <= ?", userID, from, to).
		Order("date ASC").
		Find(&summaries).Error
	return summaries, err
}

func (r *summaryRepo) Upsert(ctx context.Context, sum *model.AttendanceSummary) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"first_checkin_time", "last_checkout_time",
			"total_work_minutes", "total_sessions", "is_complete", "updated_at",
		}),
	}).Create(sum).Error
}

func (r *summaryRepo) DeleteByUserDate(ctx context.Context, userID string, date time.Time) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date).
		Delete(&model.AttendanceSummary{}).Error
}

func (r *summaryRepo) DeleteByUser(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.AttendanceSummary{}).Error
}

type userRepo struct {
	db *gorm.DB
}

func (r *userRepo) GetByPasskey(ctx context.Context, passkey string) (*model.UserInfo, error) {
	var u model.UserInfo
	if err := r.db.WithContext(ctx).Where("passkey = ?", passkey).First(&u).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &u, nil
}

func (r *userRepo) GetByUserID(ctx context.Context, userID string) (*model.UserInfo, error) {
	var u model.UserInfo
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&u).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &u, nil
}

func (r *userRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.UserInfo{}).Count(&n).Error
	return n, err
}

type timeSettingRepo struct {
	db *gorm.DB
}

func (r *timeSettingRepo) GetByUserID(ctx context.Context, userID string) (*model.UserTimeSetting, error) {
	var t model.UserTimeSetting
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&t).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &t, nil
}

func (r *timeSettingRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.UserTimeSetting{}).Count(&n).Error
	return n, err
}

func (r *timeSettingRepo) MissingCount(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.UserInfo{}).
		Where("NOT EXISTS (SELECT 1 FROM user_time_settings t WHERE t.user_id = user_info.user_id)").
		Count(&n).Error
	return n, err
}

func (r *timeSettingRepo) InsertDefaults(ctx context.Context, onDuty, offDuty string) (int64, error) {
	res := r.db.WithContext(ctx).Exec(`
		INSERT INTO user_time_settings (user_id, on_duty_time, off_duty_time)
		SELECT u.user_id, ?::time, ?::time
		FROM user_info u
		WHERE NOT EXISTS (
			SELECT 1 FROM user_time_settings t WHERE t.user_id = u.user_id
		)`, onDuty, offDuty)
	return res.RowsAffected, res.Error
}

type adminRepo struct {
	db *gorm.DB
}

func (r *adminRepo) GetByUsername(ctx context.Context, username string) (*model.AdminUser, error) {
	var a model.AdminUser
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&a).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &a, nil
}
