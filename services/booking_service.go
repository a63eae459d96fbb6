package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hotel-billing/models"
	"hotel-billing/money"
)

// BookingService owns the booking lifecycle: ACTIVE on open, CHECKED_OUT only
// through BillingService.SettleRoom.
type BookingService struct {
	DB     *gorm.DB
	Events EventPublisher
}

func NewBookingService(db *gorm.DB, events EventPublisher) *BookingService {
	return &BookingService{DB: db, Events: events}
}

type OpenBookingRequest struct {
	GuestName              string      `json:"guestName" binding:"required"`
	GuestPhone             string      `json:"guestPhone"`
	GuestEmail             string      `json:"guestEmail"`
	IDType                 string      `json:"idType"`
	IDNumber               string      `json:"idNumber"`
	RoomID                 uint        `json:"roomId" binding:"required"`
	Tariff                 money.Money `json:"tariff"`
	AdditionalGuests       int         `json:"additionalGuests"`
	AdditionalGuestCharges money.Money `json:"additionalGuestCharges"`
	CheckIn                *time.Time  `json:"checkIn"`
}

func (r OpenBookingRequest) validate() error {
	if strings.TrimSpace(r.GuestName) == "" {
		return Validation("booking.guestNameRequired", "guest name is required")
	}
	if r.RoomID == 0 {
		return Validation("booking.roomRequired", "roomId is required")
	}
	if r.Tariff.IsNegative() {
		return Validation("booking.invalidTariff", "tariff cannot be negative")
	}
	if r.AdditionalGuests < 0 {
		return Validation("booking.invalidAdditionalGuests", "additional guests cannot be negative")
	}
	if r.AdditionalGuestCharges.IsNegative() {
		return Validation("booking.invalidAdditionalGuestCharges", "additional guest charges cannot be negative")
	}
	return nil
}

// Open claims the room and creates the ACTIVE booking in one transaction.
// A zero tariff falls back to the room type's base tariff.
func (s *BookingService) Open(ctx context.Context, id Identity, req OpenBookingRequest) (*models.Booking, error) {
	if err := id.Require(models.PermBookingCreate); err != nil {
		return nil, err
	}
	if err := req.validate(); err != nil {
		return nil, err
	}

	checkIn := time.Now().UTC()
	if req.CheckIn != nil && !req.CheckIn.IsZero() {
		checkIn = req.CheckIn.UTC()
	}

	var booking models.Booking
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		room, err := claimRoom(tx, req.RoomID)
		if err != nil {
			return err
		}

		tariff := req.Tariff
		if tariff.IsZero() && room.RoomType != nil {
			tariff = room.RoomType.BaseTariff
		}

		booking = models.Booking{
			GuestName:              strings.TrimSpace(req.GuestName),
			GuestPhone:             strings.TrimSpace(req.GuestPhone),
			GuestEmail:             strings.TrimSpace(req.GuestEmail),
			IDType:                 strings.TrimSpace(req.IDType),
			IDNumber:               strings.TrimSpace(req.IDNumber),
			RoomID:                 room.ID,
			Tariff:                 tariff,
			AdditionalGuests:       req.AdditionalGuests,
			AdditionalGuestCharges: req.AdditionalGuestCharges,
			CheckIn:                checkIn,
			Status:                 models.BookingActive,
			SettlementGroup:        uuid.NewString(),
		}
		if err := tx.Omit(clause.Associations).Create(&booking).Error; err != nil {
			return err
		}
		booking.Room = *room
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ booking %d opened for room %s", booking.ID, booking.Room.RoomNumber)
	publish(ctx, s.Events, EventBookingOpened, BookingEvent{
		BookingID:  booking.ID,
		RoomID:     booking.RoomID,
		GuestName:  booking.GuestName,
		Status:     booking.Status,
		OccurredAt: booking.CreatedAt,
	})
	return &booking, nil
}

// Get loads a booking with its room, orders, invoices and payments.
func (s *BookingService) Get(ctx context.Context, id Identity, bookingID uint) (*models.Booking, error) {
	if err := id.Require(models.PermBookingView); err != nil {
		return nil, err
	}
	var booking models.Booking
	err := s.DB.WithContext(ctx).
		Preload("Room.RoomType").
		Preload("FoodOrders", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("FoodOrders.FoodItem").
		Preload("Invoices", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		First(&booking, bookingID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

// List returns bookings newest first, optionally filtered by status.
func (s *BookingService) List(ctx context.Context, id Identity, status string) ([]models.Booking, error) {
	if err := id.Require(models.PermBookingView); err != nil {
		return nil, err
	}
	q := s.DB.WithContext(ctx).Preload("Room.RoomType").Order("id DESC")
	if status != "" {
		status = strings.ToUpper(status)
		if status != models.BookingActive && status != models.BookingCheckedOut {
			return nil, Validation("booking.invalidStatus", "status must be ACTIVE or CHECKED_OUT")
		}
		q = q.Where("status = ?", status)
	}
	var bookings []models.Booking
	err := q.Find(&bookings).Error
	return bookings, err
}

var bookingReadOnlyFields = map[string]bool{
	"id":              true,
	"status":          true,
	"roomId":          true,
	"settlementGroup": true,
}

// Update applies a field edit through the allow-list. checkOut may only be
// corrected on a CHECKED_OUT booking; status is never editable.
func (s *BookingService) Update(ctx context.Context, id Identity, bookingID uint, fields map[string]any) (*models.Booking, error) {
	if err := id.Require(models.PermBookingEdit); err != nil {
		return nil, err
	}
	for key := range fields {
		if bookingReadOnlyFields[key] {
			return nil, Validation("booking.readOnlyField", "%s cannot be edited", key)
		}
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		booking, err := lockBooking(tx, bookingID)
		if err != nil {
			return err
		}

		updates := map[string]any{}
		for key, v := range fields {
			switch key {
			case "guestName":
				name, err := stringField(key, v)
				if err != nil {
					return err
				}
				if name == "" {
					return Validation("booking.guestNameRequired", "guest name is required")
				}
				updates["guest_name"] = name
			case "guestPhone", "guestEmail", "idType", "idNumber":
				str, err := stringField(key, v)
				if err != nil {
					return err
				}
				updates[bookingColumns[key]] = str
			case "tariff", "additionalGuestCharges":
				amount, err := moneyField(key, v)
				if err != nil {
					return err
				}
				if amount.IsNegative() {
					return Validation("booking.negativeAmount", "%s cannot be negative", key)
				}
				updates[bookingColumns[key]] = amount
			case "additionalGuests":
				n, err := intField(key, v)
				if err != nil {
					return err
				}
				if n < 0 {
					return Validation("booking.invalidAdditionalGuests", "additional guests cannot be negative")
				}
				updates["additional_guests"] = n
			case "checkIn":
				t, err := timeField(key, v)
				if err != nil {
					return err
				}
				updates["check_in"] = t.UTC()
			case "checkOut":
				if booking.IsActive() {
					return Validation("booking.checkoutOnActive", "checkout date can only be edited after checkout")
				}
				t, err := timeField(key, v)
				if err != nil {
					return err
				}
				updates["check_out"] = t.UTC()
			}
		}
		if len(updates) == 0 {
			return Validation("booking.noChanges", "no editable fields supplied")
		}

		checkIn := booking.CheckIn
		if t, ok := updates["check_in"].(time.Time); ok {
			checkIn = t
		}
		if booking.CheckOut != nil || updates["check_out"] != nil {
			checkOut := booking.CheckOut
			if t, ok := updates["check_out"].(time.Time); ok {
				checkOut = &t
			}
			if checkOut != nil && checkOut.Before(checkIn) {
				return Validation("booking.invalidDates", "checkout cannot be before check-in")
			}
		}

		return tx.Model(booking).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id, bookingID)
}

var bookingColumns = map[string]string{
	"guestPhone":             "guest_phone",
	"guestEmail":             "guest_email",
	"idType":                 "id_type",
	"idNumber":               "id_number",
	"tariff":                 "tariff",
	"additionalGuestCharges": "additional_guest_charges",
}

// Delete removes a booking that has never been billed. An ACTIVE booking's
// room is released and its orders are removed in the same transaction.
func (s *BookingService) Delete(ctx context.Context, id Identity, bookingID uint) error {
	if err := id.Require(models.PermBookingDelete); err != nil {
		return err
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		booking, err := lockBooking(tx, bookingID)
		if err != nil {
			return err
		}

		var invoices, payments int64
		if err := tx.Model(&models.Invoice{}).Where("booking_id = ?", bookingID).Count(&invoices).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Payment{}).Where("booking_id = ?", bookingID).Count(&payments).Error; err != nil {
			return err
		}
		if invoices > 0 || payments > 0 {
			return fmt.Errorf("booking %d has %d invoices and %d payments: %w", bookingID, invoices, payments, ErrBookingHasBilling)
		}

		if booking.IsActive() {
			if err := releaseRoom(tx, booking.RoomID); err != nil {
				return err
			}
		}
		if err := tx.Where("booking_id = ?", bookingID).Delete(&models.FoodOrder{}).Error; err != nil {
			return err
		}
		return tx.Delete(booking).Error
	})
	if err != nil {
		return err
	}
	log.Printf("🗑️  booking %d deleted", bookingID)
	return nil
}

// lockBooking reads the booking row with SELECT ... FOR UPDATE, serializing
// settlements and edits on one booking.
func lockBooking(tx *gorm.DB, bookingID uint) (*models.Booking, error) {
	var booking models.Booking
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}
