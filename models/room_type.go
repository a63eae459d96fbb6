package models

import (
	"time"

	"hotel-billing/money"
)

type RoomType struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	TypeName    string      `gorm:"size:100;uniqueIndex" json:"typeName"`
	Description string      `json:"description"`
	MaxGuests   uint        `json:"maxGuests"`
	BaseTariff  money.Money `json:"baseTariff"`
	CreatedAt   time.Time   `json:"createdAt"`
}
