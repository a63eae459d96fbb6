package services

import (
	"context"
	"log"
	"time"

	"hotel-billing/models"
	"hotel-billing/money"
)

// Collaborators at the edge of the billing core. All of them are optional:
// a nil collaborator disables the side effect.

// EventPublisher delivers domain events after the owning transaction commits.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload any) error
}

// Notifier sends a short text message to a guest.
type Notifier interface {
	Send(ctx context.Context, to, body string) error
}

// DocumentRenderer turns an invoice snapshot into a printable document.
type DocumentRenderer interface {
	RenderInvoice(inv models.Invoice, hotel models.HotelSetting) ([]byte, error)
}

const (
	EventInvoiceSettled    = "invoice.settled"
	EventInvoiceDeleted    = "invoice.deleted"
	EventBookingOpened     = "booking.opened"
	EventBookingCheckedOut = "booking.checked_out"
	EventPaymentRecorded   = "payment.recorded"
	EventOccupancyRepaired = "occupancy.repaired"
)

type InvoiceSettledEvent struct {
	InvoiceID       uint        `json:"invoiceId"`
	InvoiceNumber   string      `json:"invoiceNumber"`
	Type            string      `json:"type"`
	Manual          bool        `json:"manual"`
	BookingID       *uint       `json:"bookingId,omitempty"`
	SettlementGroup string      `json:"settlementGroup,omitempty"`
	TotalAmount     money.Money `json:"totalAmount"`
	OrderCount      int         `json:"orderCount"`
	SettledAt       time.Time   `json:"settledAt"`
}

type InvoiceDeletedEvent struct {
	InvoiceID       uint      `json:"invoiceId"`
	InvoiceNumber   string    `json:"invoiceNumber"`
	CascadedIDs     []uint    `json:"cascadedIds,omitempty"`
	SettlementGroup string    `json:"settlementGroup,omitempty"`
	DeletedAt       time.Time `json:"deletedAt"`
}

type BookingEvent struct {
	BookingID  uint      `json:"bookingId"`
	RoomID     uint      `json:"roomId"`
	GuestName  string    `json:"guestName"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurredAt"`
}

type PaymentRecordedEvent struct {
	PaymentID uint        `json:"paymentId"`
	Reference string      `json:"reference"`
	BookingID *uint       `json:"bookingId,omitempty"`
	InvoiceID *uint       `json:"invoiceId,omitempty"`
	Amount    money.Money `json:"amount"`
	Mode      string      `json:"mode"`
	Status    string      `json:"status"`
}

// publish is best effort: the state change has already committed, so a
// broker failure is logged and swallowed.
func publish(ctx context.Context, p EventPublisher, eventType string, payload any) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, eventType, payload); err != nil {
		log.Printf("⚠️  publish %s failed: %v", eventType, err)
	}
}
