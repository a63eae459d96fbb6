package models

import (
	"time"

	"hotel-billing/money"
)

// FoodOrder is one kitchen order line against a booking. InvoiceID stays nil
// until a settlement stamps it; a stamped order is immutable. There is no
// foreign key on InvoiceID, so a stamp can outlive the invoice it points to.
type FoodOrder struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	BookingID  uint      `gorm:"index;not null" json:"bookingId"`
	FoodItemID uint      `gorm:"index;not null" json:"foodItemId"`
	FoodItem   FoodItem  `gorm:"foreignKey:FoodItemID" json:"foodItem,omitempty"`
	Quantity   int       `gorm:"not null" json:"quantity"`
	ChefID     *uint     `gorm:"index" json:"chefId,omitempty"`
	InvoiceID  *uint     `gorm:"index" json:"invoiceId,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Amount is the live line amount: item price times quantity.
func (o FoodOrder) Amount() (money.Money, error) {
	return o.FoodItem.Price.Mul(int64(o.Quantity))
}

func (o FoodOrder) IsBilled() bool { return o.InvoiceID != nil }
