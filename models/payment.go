package models

import (
	"time"

	"hotel-billing/money"
)

const (
	PaymentCash   = "CASH"
	PaymentOnline = "ONLINE"

	PaymentPaid    = "PAID"
	PaymentPending = "PENDING"
)

type Payment struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	Reference string      `gorm:"size:32;uniqueIndex;not null" json:"reference"`
	BookingID *uint       `gorm:"index" json:"bookingId,omitempty"`
	InvoiceID *uint       `gorm:"index" json:"invoiceId,omitempty"`
	Amount    money.Money `gorm:"not null" json:"amount"`
	Mode      string      `gorm:"size:10;not null" json:"mode"`
	Status    string      `gorm:"size:10;not null" json:"status"`
	Notes     string      `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}
