package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hotel-billing/config"
	"hotel-billing/models"
	"hotel-billing/money"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// One connection: every statement, including those in transactions, sees
	// the same in-memory database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func ownerIdentity() Identity {
	return NewIdentity(1, models.RoleOwner, models.AllPermissions())
}

func roleIdentity(role string) Identity {
	return NewIdentity(2, role, models.DefaultRolePermissions[role])
}

type recordedEvent struct {
	Type    string
	Payload any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, eventType string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{Type: eventType, Payload: payload})
	return p.err
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type sentMessage struct{ To, Body string }

type stubNotifier struct {
	sent []sentMessage
}

func (n *stubNotifier) Send(_ context.Context, to, body string) error {
	n.sent = append(n.sent, sentMessage{To: to, Body: body})
	return nil
}

type stubRenderer struct {
	err error
}

func (r stubRenderer) RenderInvoice(inv models.Invoice, _ models.HotelSetting) ([]byte, error) {
	if r.err != nil {
		return nil, r.err
	}
	return []byte("%PDF " + inv.InvoiceNumber), nil
}

// fixture bundles the services over one test database.
type fixture struct {
	db       *gorm.DB
	events   *recordingPublisher
	notifier *stubNotifier
	bookings *BookingService
	food     *FoodService
	billing  *BillingService
	rooms    *RoomService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	events := &recordingPublisher{}
	notifier := &stubNotifier{}
	settings := NewSettingsService(db, nil, DefaultHotelProfile())
	return &fixture{
		db:       db,
		events:   events,
		notifier: notifier,
		bookings: NewBookingService(db, events),
		food:     NewFoodService(db),
		billing:  NewBillingService(db, settings, stubRenderer{}, events, notifier),
		rooms:    NewRoomService(db),
	}
}

func (f *fixture) room(t *testing.T, number string) *models.Room {
	t.Helper()
	room := models.Room{RoomNumber: number, Status: models.RoomAvailable}
	if err := f.db.Create(&room).Error; err != nil {
		t.Fatalf("create room: %v", err)
	}
	return &room
}

func (f *fixture) item(t *testing.T, name string, price money.Money) *models.FoodItem {
	t.Helper()
	item := models.FoodItem{Name: name, Price: price, Enabled: true}
	if err := f.db.Create(&item).Error; err != nil {
		t.Fatalf("create item: %v", err)
	}
	return &item
}

func (f *fixture) open(t *testing.T, roomNumber string, tariff money.Money) *models.Booking {
	t.Helper()
	room := f.room(t, roomNumber)
	b, err := f.bookings.Open(context.Background(), ownerIdentity(), OpenBookingRequest{
		GuestName:  "Asha Rao",
		GuestPhone: "+919800000000",
		RoomID:     room.ID,
		Tariff:     tariff,
	})
	if err != nil {
		t.Fatalf("open booking: %v", err)
	}
	return b
}

func (f *fixture) order(t *testing.T, bookingID, itemID uint, qty int) *models.FoodOrder {
	t.Helper()
	o, err := f.food.AddOrder(context.Background(), ownerIdentity(), bookingID, AddOrderRequest{FoodItemID: itemID, Quantity: qty})
	if err != nil {
		t.Fatalf("add order: %v", err)
	}
	return o
}

func (f *fixture) roomStatus(t *testing.T, roomID uint) string {
	t.Helper()
	var room models.Room
	if err := f.db.First(&room, roomID).Error; err != nil {
		t.Fatalf("load room: %v", err)
	}
	return room.Status
}

func wantErr(t *testing.T, got, want error) {
	t.Helper()
	if !errors.Is(got, want) {
		t.Fatalf("error = %v, want %v", got, want)
	}
}

func rate(r money.Rate) *money.Rate { return &r }
