package models

import (
	"time"

	"gorm.io/gorm"
)

// Staff is a front desk, kitchen or management account. Chefs on food orders
// reference staff rows.
type Staff struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	FullName  string         `gorm:"size:255" json:"fullName"`
	Username  string         `gorm:"uniqueIndex;size:150" json:"username"`
	Password  string         `gorm:"size:255" json:"-"` // bcrypt hash
	Phone     string         `gorm:"size:50" json:"phone,omitempty"`
	RoleID    *uint          `gorm:"index" json:"roleId,omitempty"`
	Role      *Role          `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Staff) TableName() string { return "staff" }
