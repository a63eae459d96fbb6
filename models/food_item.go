package models

import (
	"time"

	"hotel-billing/money"
)

// FoodItem is a menu entry. GSTRate is kept for the menu card only and never
// enters invoice totals.
type FoodItem struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	Name      string      `gorm:"size:150;not null" json:"name"`
	Category  string      `gorm:"size:100;index" json:"category"`
	Price     money.Money `gorm:"not null" json:"price"`
	GSTRate   money.Rate  `gorm:"column:gst_rate" json:"gstPercent"`
	Enabled   bool        `gorm:"not null" json:"enabled"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}
