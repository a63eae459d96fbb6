package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"hotel-billing/models"
	"hotel-billing/money"
)

// PaymentService records what was collected against bookings and invoices.
// Payments are corrected by edits and never deleted automatically.
type PaymentService struct {
	DB     *gorm.DB
	Events EventPublisher
	node   *snowflake.Node
}

// NewPaymentService needs a snowflake node id (0-1023) unique per running
// instance; payment references are generated from it.
func NewPaymentService(db *gorm.DB, events EventPublisher, nodeID int64) (*PaymentService, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("payment reference generator: %w", err)
	}
	return &PaymentService{DB: db, Events: events, node: node}, nil
}

type RecordPaymentRequest struct {
	BookingID *uint        `json:"bookingId"`
	InvoiceID *uint        `json:"invoiceId"`
	Amount    *money.Money `json:"amount"`
	Mode      string       `json:"mode" binding:"required"`
	Status    string       `json:"status"`
	Notes     string       `json:"notes"`
}

// Record stores a payment. The amount defaults to the invoice total and the
// booking is taken from the invoice when not given.
func (s *PaymentService) Record(ctx context.Context, id Identity, req RecordPaymentRequest) (*models.Payment, error) {
	if err := id.Require(models.PermPaymentRecord); err != nil {
		return nil, err
	}
	mode, err := parseMode(req.Mode)
	if err != nil {
		return nil, err
	}
	status := models.PaymentPaid
	if strings.TrimSpace(req.Status) != "" {
		if status, err = parseStatus(req.Status); err != nil {
			return nil, err
		}
	}
	if req.BookingID == nil && req.InvoiceID == nil {
		return nil, Validation("payment.referenceRequired", "bookingId or invoiceId is required")
	}

	db := s.DB.WithContext(ctx)
	bookingID := req.BookingID
	var amount money.Money
	if req.Amount != nil {
		amount = *req.Amount
	}

	if req.InvoiceID != nil {
		var inv models.Invoice
		if err := db.First(&inv, *req.InvoiceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrInvoiceNotFound
			}
			return nil, err
		}
		if bookingID == nil {
			bookingID = inv.BookingID
		} else if inv.BookingID != nil && *inv.BookingID != *bookingID {
			return nil, Validation("payment.bookingMismatch", "invoice %s belongs to booking %d", inv.InvoiceNumber, *inv.BookingID)
		}
		if req.Amount == nil {
			amount = inv.TotalAmount
		}
	} else if req.Amount == nil {
		return nil, Validation("payment.amountRequired", "amount is required when no invoice is given")
	}
	if amount <= 0 {
		return nil, Validation("payment.invalidAmount", "amount must be greater than zero")
	}
	if bookingID != nil {
		if err := ensureBooking(db, *bookingID); err != nil {
			return nil, err
		}
	}

	payment := models.Payment{
		Reference: "PAY-" + s.node.Generate().String(),
		BookingID: bookingID,
		InvoiceID: req.InvoiceID,
		Amount:    amount,
		Mode:      mode,
		Status:    status,
		Notes:     strings.TrimSpace(req.Notes),
	}
	if err := db.Create(&payment).Error; err != nil {
		return nil, err
	}

	log.Printf("💳 payment %s %s %s (%s)", payment.Reference, payment.Mode, payment.Amount, payment.Status)
	publish(ctx, s.Events, EventPaymentRecorded, PaymentRecordedEvent{
		PaymentID: payment.ID,
		Reference: payment.Reference,
		BookingID: payment.BookingID,
		InvoiceID: payment.InvoiceID,
		Amount:    payment.Amount,
		Mode:      payment.Mode,
		Status:    payment.Status,
	})
	return &payment, nil
}

type UpdatePaymentRequest struct {
	Status *string      `json:"status"`
	Amount *money.Money `json:"amount"`
	Mode   *string      `json:"mode"`
	Notes  *string      `json:"notes"`
}

// Update corrects a recorded payment.
func (s *PaymentService) Update(ctx context.Context, id Identity, paymentID uint, req UpdatePaymentRequest) (*models.Payment, error) {
	if err := id.Require(models.PermPaymentEdit); err != nil {
		return nil, err
	}
	updates := map[string]any{}
	if req.Status != nil {
		status, err := parseStatus(*req.Status)
		if err != nil {
			return nil, err
		}
		updates["status"] = status
	}
	if req.Mode != nil {
		mode, err := parseMode(*req.Mode)
		if err != nil {
			return nil, err
		}
		updates["mode"] = mode
	}
	if req.Amount != nil {
		if *req.Amount <= 0 {
			return nil, Validation("payment.invalidAmount", "amount must be greater than zero")
		}
		updates["amount"] = *req.Amount
	}
	if req.Notes != nil {
		updates["notes"] = strings.TrimSpace(*req.Notes)
	}
	if len(updates) == 0 {
		return nil, Validation("payment.noChanges", "no editable fields supplied (status, amount, mode, notes)")
	}

	db := s.DB.WithContext(ctx)
	var payment models.Payment
	if err := db.First(&payment, paymentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	if err := db.Model(&payment).Updates(updates).Error; err != nil {
		return nil, err
	}
	if err := db.First(&payment, paymentID).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

func (s *PaymentService) ListByBooking(ctx context.Context, id Identity, bookingID uint) ([]models.Payment, error) {
	if err := id.Require(models.PermPaymentView); err != nil {
		return nil, err
	}
	db := s.DB.WithContext(ctx)
	if err := ensureBooking(db, bookingID); err != nil {
		return nil, err
	}
	var payments []models.Payment
	err := db.Where("booking_id = ?", bookingID).Order("id").Find(&payments).Error
	return payments, err
}

func parseMode(raw string) (string, error) {
	mode := strings.ToUpper(strings.TrimSpace(raw))
	if mode != models.PaymentCash && mode != models.PaymentOnline {
		return "", Validation("payment.invalidMode", "mode must be CASH or ONLINE")
	}
	return mode, nil
}

func parseStatus(raw string) (string, error) {
	status := strings.ToUpper(strings.TrimSpace(raw))
	if status != models.PaymentPaid && status != models.PaymentPending {
		return "", Validation("payment.invalidStatus", "status must be PAID or PENDING")
	}
	return status, nil
}
