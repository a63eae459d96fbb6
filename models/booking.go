package models

import (
	"time"

	"hotel-billing/money"
)

const (
	BookingActive     = "ACTIVE"
	BookingCheckedOut = "CHECKED_OUT"
)

// Booking is one guest's occupancy of one room. CheckOut is set exactly when
// Status is CHECKED_OUT. SettlementGroup is minted on creation and copied onto
// every invoice settled for this occupancy.
type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	GuestName  string `gorm:"size:255;not null" json:"guestName"`
	GuestPhone string `gorm:"size:50" json:"guestPhone,omitempty"`
	GuestEmail string `gorm:"size:150" json:"guestEmail,omitempty"`
	IDType     string `gorm:"column:id_type;size:50" json:"idType,omitempty"`
	IDNumber   string `gorm:"column:id_number;size:100" json:"idNumber,omitempty"`

	RoomID uint `gorm:"column:room_id;index;not null" json:"roomId"`
	Room   Room `gorm:"foreignKey:RoomID;references:ID" json:"room,omitempty"`

	Tariff                 money.Money `gorm:"not null" json:"tariff"`
	AdditionalGuests       int         `gorm:"not null;default:0" json:"additionalGuests"`
	AdditionalGuestCharges money.Money `gorm:"not null;default:0" json:"additionalGuestCharges"`

	CheckIn  time.Time  `gorm:"column:check_in;not null" json:"checkIn"`
	CheckOut *time.Time `gorm:"column:check_out" json:"checkOut,omitempty"`
	Status   string     `gorm:"size:20;index;not null" json:"status"`

	SettlementGroup string `gorm:"size:36;index;not null" json:"settlementGroup"`

	FoodOrders []FoodOrder `gorm:"foreignKey:BookingID" json:"foodOrders,omitempty"`
	Invoices   []Invoice   `gorm:"foreignKey:BookingID" json:"invoices,omitempty"`
	Payments   []Payment   `gorm:"foreignKey:BookingID" json:"payments,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (b Booking) IsActive() bool { return b.Status == BookingActive }
