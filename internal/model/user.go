package model

// UserInfo holds one field worker. Devices authenticate with the passkey,
// there is no interactive login on that side.
type UserInfo struct {
	ID             int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         string  `gorm:"type:varchar(255);uniqueIndex;not null" json:"user_id"`
	UserName       *string `gorm:"type:varchar(255)" json:"user_name,omitempty"`
	Department     int32   `gorm:"not null;default:99" json:"department"`
	DepartmentName *string `gorm:"type:varchar(100)" json:"department_name,omitempty"`
	Passkey        string  `gorm:"type:varchar(255);not null;index:idx_user_info_passkey" json:"-"`
}

func (UserInfo) TableName() string {
	return "user_info"
}

// UserTimeSetting carries the per-user duty window used by reporting only;
// the session matcher never reads it. Times are HH:MM:SS strings.
type UserTimeSetting struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      string `gorm:"type:varchar(255);uniqueIndex;not null" json:"user_id"`
	OnDutyTime  string `gorm:"type:time;not null" json:"on_duty_time"`
	OffDutyTime string `gorm:"type:time;not null" json:"off_duty_time"`
}

func (UserTimeSetting) TableName() string {
	return "user_time_settings"
}
