package models

import (
	"time"

	"hotel-billing/money"
)

type HotelSetting struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	Name           string     `gorm:"size:255" json:"name"`
	Address        string     `gorm:"type:text" json:"address"`
	Phone          string     `gorm:"size:50" json:"phone"`
	Email          string     `gorm:"size:150" json:"email"`
	GSTIN          string     `gorm:"column:gstin;size:20" json:"gstin"`
	DefaultGSTRate money.Rate `gorm:"column:default_gst_rate" json:"defaultGstPercent"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}
