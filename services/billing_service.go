package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hotel-billing/models"
	"hotel-billing/money"
)

// BillKind selects the invoice number prefix of a food settlement.
type BillKind string

const (
	KitchenBill BillKind = PrefixKitchen
	FoodBill    BillKind = PrefixFood
)

// BillingService is the settlement engine. Every settlement runs in one
// transaction holding the booking row lock; events, notifications and
// documents happen after commit and never undo an invoice.
type BillingService struct {
	DB       *gorm.DB
	Settings *SettingsService
	Renderer DocumentRenderer
	Events   EventPublisher
	Notifier Notifier

	// RequireKitchenSettled makes SettleRoom refuse while unbilled orders
	// remain instead of folding them into the room bill.
	RequireKitchenSettled bool

	now func() time.Time
}

func NewBillingService(db *gorm.DB, settings *SettingsService, renderer DocumentRenderer, events EventPublisher, notifier Notifier) *BillingService {
	return &BillingService{
		DB:       db,
		Settings: settings,
		Renderer: renderer,
		Events:   events,
		Notifier: notifier,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Settlement is a persisted invoice plus its rendered document, if rendering
// succeeded.
type Settlement struct {
	Invoice     *models.Invoice `json:"invoice"`
	Document    []byte          `json:"-"`
	RenderError string          `json:"renderError,omitempty"`
}

type SettleFoodRequest struct {
	OrderIDs []uint `json:"orderIds"`
	GSTOptions
}

type SettleRoomRequest struct {
	GSTOptions
	// RequireKitchenSettled overrides the service default for this call.
	RequireKitchenSettled *bool `json:"requireKitchenSettled"`
}

// SettleFood bills the booking's unbilled orders (or the given subset) as a
// FOOD invoice and stamps those orders with it.
func (s *BillingService) SettleFood(ctx context.Context, id Identity, bookingID uint, kind BillKind, req SettleFoodRequest) (*Settlement, error) {
	if err := id.Require(models.PermBillingSettle); err != nil {
		return nil, err
	}
	if kind != KitchenBill && kind != FoodBill {
		return nil, Validation("settlement.invalidKind", "unknown bill kind %q", kind)
	}
	rate, err := s.resolveRate(ctx, req.GSTOptions)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	number, err := NewInvoiceNumber(string(kind), now)
	if err != nil {
		return nil, err
	}

	var inv models.Invoice
	var billed int
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		booking, err := lockBooking(tx, bookingID)
		if err != nil {
			return err
		}
		if !booking.IsActive() {
			return fmt.Errorf("booking %d is %s: %w", booking.ID, booking.Status, ErrBookingNotActive)
		}

		orders, err := listUnbilled(tx, bookingID, req.OrderIDs)
		if err != nil {
			return err
		}
		if len(orders) == 0 {
			return fmt.Errorf("booking %d: %w", bookingID, ErrNothingToSettle)
		}

		room, err := loadRoom(tx, booking.RoomID)
		if err != nil {
			return err
		}

		food, lines, err := foodLines(orders)
		if err != nil {
			return err
		}
		// Kitchen and restaurant bills carry exact paise; round-off is a checkout concern.
		totals := ComputeTotals(Charges{Food: food}, req.ShowGST, rate, false)
		inv = newInvoice(number, models.InvoiceFood, booking, room, totals, now)
		if err := inv.SetLines(lines); err != nil {
			return err
		}
		if err := tx.Create(&inv).Error; err != nil {
			return err
		}
		if err := stampOrders(tx, inv.ID, orders); err != nil {
			return err
		}
		billed = len(orders)
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("🧾 %s %s settled %d orders for booking %d, total %s", kind, inv.InvoiceNumber, billed, bookingID, inv.TotalAmount)
	publish(ctx, s.Events, EventInvoiceSettled, settledEvent(&inv, billed))
	return s.render(ctx, &inv), nil
}

// SettleRoom issues the booking's ROOM invoice covering tariff, additional
// guests and any still-unbilled food, checks the booking out and releases the
// room, all in one transaction. A CHECKED_OUT booking whose room invoice was
// deleted gets a new invoice without touching booking or room.
func (s *BillingService) SettleRoom(ctx context.Context, id Identity, bookingID uint, req SettleRoomRequest) (*Settlement, error) {
	if err := id.Require(models.PermBillingSettle); err != nil {
		return nil, err
	}
	rate, err := s.resolveRate(ctx, req.GSTOptions)
	if err != nil {
		return nil, err
	}
	requireKitchen := s.RequireKitchenSettled
	if req.RequireKitchenSettled != nil {
		requireKitchen = *req.RequireKitchenSettled
	}

	now := s.clock()
	number, err := NewInvoiceNumber(PrefixRoom, now)
	if err != nil {
		return nil, err
	}

	var inv models.Invoice
	var booking *models.Booking
	var checkedOut bool
	var billed int
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		booking, err = lockBooking(tx, bookingID)
		if err != nil {
			return err
		}

		var existing int64
		if err := tx.Model(&models.Invoice{}).
			Where("booking_id = ? AND type = ? AND is_manual = ?", bookingID, models.InvoiceRoom, false).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return fmt.Errorf("booking %d: %w", bookingID, ErrAlreadySettled)
		}

		orders, err := listUnbilled(tx, bookingID, nil)
		if err != nil {
			return err
		}
		if len(orders) > 0 {
			if requireKitchen {
				return fmt.Errorf("booking %d has %d unbilled orders: %w", bookingID, len(orders), ErrUnbilledOrders)
			}
			log.Printf("⚠️  booking %d: %d unbilled orders folded into the room bill", bookingID, len(orders))
		}

		room, err := loadRoom(tx, booking.RoomID)
		if err != nil {
			return err
		}

		food, foodItems, err := foodLines(orders)
		if err != nil {
			return err
		}
		totals := ComputeTotals(Charges{
			Room:             booking.Tariff,
			AdditionalGuests: booking.AdditionalGuestCharges,
			Food:             food,
		}, req.ShowGST, rate, req.RoundOff)

		inv = newInvoice(number, models.InvoiceRoom, booking, room, totals, now)
		inv.Tariff = booking.Tariff
		if err := inv.SetLines(append(roomLines(booking, room.RoomNumber), foodItems...)); err != nil {
			return err
		}
		if err := tx.Create(&inv).Error; err != nil {
			return err
		}
		if len(orders) > 0 {
			if err := stampOrders(tx, inv.ID, orders); err != nil {
				return err
			}
		}
		billed = len(orders)

		if !booking.IsActive() {
			return nil
		}
		res := tx.Model(&models.Booking{}).
			Where("id = ? AND status = ?", bookingID, models.BookingActive).
			Updates(map[string]any{"status": models.BookingCheckedOut, "check_out": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return fmt.Errorf("booking %d: %w", bookingID, ErrBookingNotActive)
		}
		if err := releaseRoom(tx, booking.RoomID); err != nil {
			return err
		}
		booking.Status = models.BookingCheckedOut
		booking.CheckOut = &now
		checkedOut = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("🧾 room bill %s for booking %d, total %s", inv.InvoiceNumber, bookingID, inv.TotalAmount)
	publish(ctx, s.Events, EventInvoiceSettled, settledEvent(&inv, billed))
	if checkedOut {
		publish(ctx, s.Events, EventBookingCheckedOut, BookingEvent{
			BookingID:  booking.ID,
			RoomID:     booking.RoomID,
			GuestName:  booking.GuestName,
			Status:     booking.Status,
			OccurredAt: now,
		})
		s.notifyCheckout(ctx, booking, &inv)
	}
	return s.render(ctx, &inv), nil
}

type ManualInvoiceRequest struct {
	Type                   string               `json:"type"`
	BookingID              *uint                `json:"bookingId"`
	GuestName              string               `json:"guestName" binding:"required"`
	GuestPhone             string               `json:"guestPhone"`
	RoomNumber             string               `json:"roomNumber"`
	RoomType               string               `json:"roomType"`
	Tariff                 money.Money          `json:"tariff"`
	RoomCharges            money.Money          `json:"roomCharges"`
	AdditionalGuestCharges money.Money          `json:"additionalGuestCharges"`
	FoodCharges            money.Money          `json:"foodCharges"`
	GSTEnabled             bool                 `json:"gstEnabled"`
	GSTPercent             money.Rate           `json:"gstPercent"`
	GSTAmount              *money.Money         `json:"gstAmount"`
	RoundOff               money.Money          `json:"roundOff"`
	TotalAmount            *money.Money         `json:"totalAmount"`
	Items                  []models.InvoiceLine `json:"items"`
	Notes                  string               `json:"notes"`
	BillDate               *time.Time           `json:"billDate"`
}

// SettleManual persists a pre-computed invoice. Missing gstAmount or
// totalAmount are derived from the supplied charges; nothing else is touched.
func (s *BillingService) SettleManual(ctx context.Context, id Identity, req ManualInvoiceRequest) (*Settlement, error) {
	if err := id.Require(models.PermBillingManual); err != nil {
		return nil, err
	}
	invType := strings.ToUpper(strings.TrimSpace(req.Type))
	if invType == "" {
		invType = models.InvoiceManual
	}
	if invType != models.InvoiceRoom && invType != models.InvoiceFood && invType != models.InvoiceManual {
		return nil, Validation("invoice.invalidType", "type must be ROOM, FOOD or MANUAL")
	}
	if strings.TrimSpace(req.GuestName) == "" {
		return nil, Validation("invoice.guestNameRequired", "guest name is required")
	}
	for name, v := range map[string]money.Money{
		"tariff":                 req.Tariff,
		"roomCharges":            req.RoomCharges,
		"additionalGuestCharges": req.AdditionalGuestCharges,
		"foodCharges":            req.FoodCharges,
	} {
		if v.IsNegative() {
			return nil, Validation("invoice.negativeAmount", "%s cannot be negative", name)
		}
	}
	if err := validateRate(req.GSTPercent); err != nil {
		return nil, err
	}

	totals := ComputeTotals(Charges{
		Room:             req.RoomCharges,
		AdditionalGuests: req.AdditionalGuestCharges,
		Food:             req.FoodCharges,
	}, req.GSTEnabled, req.GSTPercent, false)
	if req.GSTAmount != nil {
		totals.GSTAmount = *req.GSTAmount
	}
	totals.RoundOff = req.RoundOff
	totals.Total = totals.Subtotal.Add(totals.GSTAmount).Sub(totals.RoundOff)
	if req.TotalAmount != nil {
		totals.Total = *req.TotalAmount
	}
	if totals.Total.IsNegative() {
		return nil, Validation("invoice.negativeTotal", "total cannot be negative")
	}

	now := s.clock()
	number, err := NewInvoiceNumber(PrefixManual, now)
	if err != nil {
		return nil, err
	}
	billDate := now
	if req.BillDate != nil && !req.BillDate.IsZero() {
		billDate = req.BillDate.UTC()
	}

	inv := models.Invoice{
		InvoiceNumber:          number,
		Type:                   invType,
		IsManual:               true,
		BookingID:              req.BookingID,
		GuestName:              strings.TrimSpace(req.GuestName),
		GuestPhone:             strings.TrimSpace(req.GuestPhone),
		RoomNumber:             strings.TrimSpace(req.RoomNumber),
		RoomType:               strings.TrimSpace(req.RoomType),
		Tariff:                 req.Tariff,
		RoomCharges:            totals.Room,
		AdditionalGuestCharges: totals.AdditionalGuests,
		FoodCharges:            totals.Food,
		GSTEnabled:             totals.GSTEnabled,
		GSTRate:                totals.GSTRate,
		GSTAmount:              totals.GSTAmount,
		RoundOff:               totals.RoundOff,
		TotalAmount:            totals.Total,
		Notes:                  req.Notes,
		BillDate:               billDate,
	}
	if err := inv.SetLines(req.Items); err != nil {
		return nil, err
	}

	db := s.DB.WithContext(ctx)
	if req.BookingID != nil {
		if err := ensureBooking(db, *req.BookingID); err != nil {
			return nil, err
		}
	}
	if err := db.Create(&inv).Error; err != nil {
		return nil, err
	}

	log.Printf("🧾 manual invoice %s, total %s", inv.InvoiceNumber, inv.TotalAmount)
	publish(ctx, s.Events, EventInvoiceSettled, settledEvent(&inv, 0))
	return s.render(ctx, &inv), nil
}

// DeleteInvoice removes an invoice. Deleting a booking's ROOM settlement also
// removes every FOOD invoice of the same settlement group. Orders stamped
// with a deleted invoice keep their stamp and do not become billable again.
func (s *BillingService) DeleteInvoice(ctx context.Context, id Identity, invoiceID uint) error {
	if err := id.Require(models.PermBillingDelete); err != nil {
		return err
	}

	var inv models.Invoice
	var cascaded []uint
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&inv, invoiceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvoiceNotFound
			}
			return err
		}
		if inv.BookingID != nil {
			if _, err := lockBooking(tx, *inv.BookingID); err != nil && !errors.Is(err, ErrBookingNotFound) {
				return err
			}
		}

		if inv.IsRoomSettlement() && inv.SettlementGroup != "" {
			var food []models.Invoice
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("settlement_group = ? AND type = ? AND id <> ?", inv.SettlementGroup, models.InvoiceFood, inv.ID).
				Find(&food).Error; err != nil {
				return err
			}
			for _, f := range food {
				cascaded = append(cascaded, f.ID)
			}
			if len(cascaded) > 0 {
				if err := tx.Where("id IN ?", cascaded).Delete(&models.Invoice{}).Error; err != nil {
					return err
				}
			}
		}
		return tx.Delete(&inv).Error
	})
	if err != nil {
		return err
	}

	log.Printf("🗑️  invoice %s deleted (cascaded %d food invoices)", inv.InvoiceNumber, len(cascaded))
	publish(ctx, s.Events, EventInvoiceDeleted, InvoiceDeletedEvent{
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		CascadedIDs:     cascaded,
		SettlementGroup: inv.SettlementGroup,
		DeletedAt:       s.clock(),
	})
	return nil
}

func (s *BillingService) Get(ctx context.Context, id Identity, invoiceID uint) (*models.Invoice, error) {
	if err := id.Require(models.PermBillingView); err != nil {
		return nil, err
	}
	var inv models.Invoice
	if err := s.DB.WithContext(ctx).First(&inv, invoiceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, err
	}
	return &inv, nil
}

type InvoiceFilter struct {
	BookingID *uint
	Type      string
}

func (s *BillingService) List(ctx context.Context, id Identity, f InvoiceFilter) ([]models.Invoice, error) {
	if err := id.Require(models.PermBillingView); err != nil {
		return nil, err
	}
	q := s.DB.WithContext(ctx).Order("id DESC")
	if f.BookingID != nil {
		q = q.Where("booking_id = ?", *f.BookingID)
	}
	if f.Type != "" {
		t := strings.ToUpper(f.Type)
		if t != models.InvoiceRoom && t != models.InvoiceFood && t != models.InvoiceManual {
			return nil, Validation("invoice.invalidType", "type must be ROOM, FOOD or MANUAL")
		}
		q = q.Where("type = ?", t)
	}
	var invoices []models.Invoice
	err := q.Find(&invoices).Error
	return invoices, err
}

// Document renders a stored invoice on demand.
func (s *BillingService) Document(ctx context.Context, id Identity, invoiceID uint) (*models.Invoice, []byte, error) {
	inv, err := s.Get(ctx, id, invoiceID)
	if err != nil {
		return nil, nil, err
	}
	if s.Renderer == nil {
		return nil, nil, errors.New("no document renderer configured")
	}
	doc, err := s.Renderer.RenderInvoice(*inv, s.Settings.Profile(ctx))
	if err != nil {
		return nil, nil, fmt.Errorf("render invoice %s: %w", inv.InvoiceNumber, err)
	}
	return inv, doc, nil
}

func (s *BillingService) resolveRate(ctx context.Context, opts GSTOptions) (money.Rate, error) {
	if !opts.ShowGST {
		return 0, nil
	}
	if opts.GSTPercent != nil {
		if err := validateRate(*opts.GSTPercent); err != nil {
			return 0, err
		}
		return *opts.GSTPercent, nil
	}
	return s.Settings.DefaultRate(ctx), nil
}

func (s *BillingService) render(ctx context.Context, inv *models.Invoice) *Settlement {
	out := &Settlement{Invoice: inv}
	if s.Renderer == nil {
		return out
	}
	doc, err := s.Renderer.RenderInvoice(*inv, s.Settings.Profile(ctx))
	if err != nil {
		log.Printf("⚠️  render %s failed, invoice kept: %v", inv.InvoiceNumber, err)
		out.RenderError = err.Error()
		return out
	}
	out.Document = doc
	return out
}

func (s *BillingService) notifyCheckout(ctx context.Context, b *models.Booking, inv *models.Invoice) {
	if s.Notifier == nil || strings.TrimSpace(b.GuestPhone) == "" {
		return
	}
	hotel := s.Settings.Profile(ctx)
	body := fmt.Sprintf("Thank you for staying at %s, %s. Invoice %s total %s.",
		hotel.Name, b.GuestName, inv.InvoiceNumber, inv.TotalAmount)
	if err := s.Notifier.Send(ctx, b.GuestPhone, body); err != nil {
		log.Printf("⚠️  checkout notification for booking %d failed: %v", b.ID, err)
	}
}

func (s *BillingService) clock() time.Time {
	if s.now == nil {
		return time.Now().UTC()
	}
	return s.now()
}

// stampOrders attributes orders to invoiceID. The invoice_id IS NULL guard
// re-verifies each order inside the transaction; a short count means another
// settlement got there first and the whole transaction rolls back.
func stampOrders(tx *gorm.DB, invoiceID uint, orders []models.FoodOrder) error {
	ids := orderIDs(orders)
	res := tx.Model(&models.FoodOrder{}).
		Where("id IN ? AND invoice_id IS NULL", ids).
		Update("invoice_id", invoiceID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != int64(len(ids)) {
		return fmt.Errorf("stamped %d of %d orders: %w", res.RowsAffected, len(ids), ErrAlreadyInvoiced)
	}
	return nil
}

func loadRoom(tx *gorm.DB, roomID uint) (*models.Room, error) {
	var room models.Room
	if err := tx.Preload("RoomType").First(&room, roomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

func newInvoice(number, invType string, b *models.Booking, room *models.Room, t Totals, now time.Time) models.Invoice {
	bookingID := b.ID
	return models.Invoice{
		InvoiceNumber:          number,
		Type:                   invType,
		BookingID:              &bookingID,
		SettlementGroup:        b.SettlementGroup,
		GuestName:              b.GuestName,
		GuestPhone:             b.GuestPhone,
		RoomNumber:             room.RoomNumber,
		RoomType:               room.TypeName(),
		RoomCharges:            t.Room,
		AdditionalGuestCharges: t.AdditionalGuests,
		FoodCharges:            t.Food,
		GSTEnabled:             t.GSTEnabled,
		GSTRate:                t.GSTRate,
		GSTAmount:              t.GSTAmount,
		RoundOff:               t.RoundOff,
		TotalAmount:            t.Total,
		BillDate:               now,
	}
}

func settledEvent(inv *models.Invoice, orders int) InvoiceSettledEvent {
	return InvoiceSettledEvent{
		InvoiceID:       inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		Type:            inv.Type,
		Manual:          inv.IsManual,
		BookingID:       inv.BookingID,
		SettlementGroup: inv.SettlementGroup,
		TotalAmount:     inv.TotalAmount,
		OrderCount:      orders,
		SettledAt:       inv.CreatedAt,
	}
}
