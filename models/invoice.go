package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"hotel-billing/money"
)

const (
	InvoiceRoom   = "ROOM"
	InvoiceFood   = "FOOD"
	InvoiceManual = "MANUAL"
)

// Invoice is a point-in-time settlement record. Monetary fields are a snapshot
// and are never recomputed from bookings or menu prices.
type Invoice struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	InvoiceNumber   string `gorm:"size:64;uniqueIndex;not null" json:"invoiceNumber"`
	Type            string `gorm:"size:16;index;not null" json:"type"`
	IsManual        bool   `gorm:"not null;default:false" json:"isManual"`
	BookingID       *uint  `gorm:"index" json:"bookingId,omitempty"`
	SettlementGroup string `gorm:"size:36;index" json:"settlementGroup,omitempty"`

	GuestName  string `gorm:"size:255" json:"guestName"`
	GuestPhone string `gorm:"size:50" json:"guestPhone,omitempty"`
	RoomNumber string `gorm:"size:50" json:"roomNumber,omitempty"`
	RoomType   string `gorm:"size:100" json:"roomType,omitempty"`

	Tariff                 money.Money `json:"tariff"`
	RoomCharges            money.Money `json:"roomCharges"`
	AdditionalGuestCharges money.Money `json:"additionalGuestCharges"`
	FoodCharges            money.Money `json:"foodCharges"`
	GSTEnabled             bool        `gorm:"column:gst_enabled" json:"gstEnabled"`
	GSTRate                money.Rate  `gorm:"column:gst_rate" json:"gstPercent"`
	GSTAmount              money.Money `gorm:"column:gst_amount" json:"gstAmount"`
	RoundOff               money.Money `json:"roundOff"`
	TotalAmount            money.Money `json:"totalAmount"`

	Items datatypes.JSON `json:"items"`
	Notes string         `gorm:"type:text" json:"notes,omitempty"`

	BillDate  time.Time `json:"billDate"`
	CreatedAt time.Time `json:"createdAt"`
}

// InvoiceLine is one row of the line-item snapshot.
type InvoiceLine struct {
	Description string      `json:"description"`
	OrderID     *uint       `json:"orderId,omitempty"`
	FoodItemID  *uint       `json:"foodItemId,omitempty"`
	Quantity    int         `json:"quantity"`
	UnitPrice   money.Money `json:"unitPrice"`
	Amount      money.Money `json:"amount"`
}

func (inv *Invoice) SetLines(lines []InvoiceLine) error {
	if lines == nil {
		lines = []InvoiceLine{}
	}
	raw, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	inv.Items = datatypes.JSON(raw)
	return nil
}

func (inv Invoice) Lines() ([]InvoiceLine, error) {
	var lines []InvoiceLine
	if len(inv.Items) == 0 {
		return lines, nil
	}
	err := json.Unmarshal(inv.Items, &lines)
	return lines, err
}

// Subtotal is every charge before GST and round-off.
func (inv Invoice) Subtotal() money.Money {
	return money.Sum(inv.RoomCharges, inv.AdditionalGuestCharges, inv.FoodCharges)
}

func (inv Invoice) IsRoomSettlement() bool {
	return inv.Type == InvoiceRoom && !inv.IsManual
}
