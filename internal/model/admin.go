package model

import "time"

// AdminRole restricts what an admin account may see.
type AdminRole string

const (
	AdminRoleAdmin      AdminRole = "admin"
	AdminRoleDepartment AdminRole = "department"
)

type AdminUser struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Username   string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"username"`
	Password   string    `gorm:"type:varchar(255);not null" json:"-"`
	Role       AdminRole `gorm:"type:varchar(50);not null" json:"role"`
	Department *int32    `json:"department,omitempty"`
	CreatedAt  time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (AdminUser) TableName() string {
	return "admin_user"
}
