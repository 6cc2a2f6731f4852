package database

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/PlxloYzb/kbk-attendance-server/internal/model"
	"github.com/PlxloYzb/kbk-attendance-server/pkg/logger"
)

// Migrate creates or updates all tables.
func Migrate() error {
	db := DB()
	if db == nil {
		return gorm.ErrInvalidDB
	}

	logger.Logger.Info("Starting database migration...")

	err := db.AutoMigrate(
		&model.UserInfo{},
		&model.UserTimeSetting{},
		&model.AdminUser{},
		&model.Checkin{},
		&model.AttendanceSession{},
		&model.AttendanceSummary{},
	)
	if err != nil {
		logger.Logger.Error("Database migration failed", zap.Error(err))
		return err
	}

	logger.Logger.Info("Database migration completed successfully")
	return nil
}
