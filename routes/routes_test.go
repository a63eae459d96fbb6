package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hotel-billing/config"
	"hotel-billing/controllers"
	"hotel-billing/documents"
	"hotel-billing/middleware"
	"hotel-billing/services"
)

const testSecret = "router-test-secret"

type apiClient struct {
	t      *testing.T
	router *gin.Engine
	token  string
}

func newAPI(t *testing.T) *apiClient {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("SEED_ADMIN_USERNAME", "admin@hotel.local")
	t.Setenv("SEED_ADMIN_PASSWORD", "admin123")

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	config.Seed(db, 500)

	settings := services.NewSettingsService(db, nil, services.DefaultHotelProfile())
	staff := services.NewStaffService(db)
	bookings := services.NewBookingService(db, nil)
	food := services.NewFoodService(db)
	billing := services.NewBillingService(db, settings, documents.NewRenderer(""), nil, nil)
	payments, err := services.NewPaymentService(db, nil, 7)
	if err != nil {
		t.Fatalf("payments: %v", err)
	}

	router := SetupRouter(Controllers{
		Auth:     controllers.NewAuthController(staff, testSecret, time.Hour),
		Staff:    controllers.NewStaffController(staff),
		Roles:    controllers.NewRoleController(services.NewRoleService(db)),
		Rooms:    controllers.NewRoomController(services.NewRoomService(db), services.NewRoomTypeService(db)),
		Bookings: controllers.NewBookingController(bookings, billing, payments),
		Orders:   controllers.NewOrderController(food, billing),
		Invoices: controllers.NewInvoiceController(billing),
		Payments: controllers.NewPaymentController(payments),
		Settings: controllers.NewSettingsController(settings),
	}, []string{"*"}, middleware.Auth(testSecret, staff))

	return &apiClient{t: t, router: router}
}

func (a *apiClient) do(method, path string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			a.t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *apiClient) expect(method, path string, body any, status int) map[string]any {
	a.t.Helper()
	w := a.do(method, path, body)
	if w.Code != status {
		a.t.Fatalf("%s %s = %d, want %d: %s", method, path, w.Code, status, w.Body.String())
	}
	out := map[string]any{}
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		_ = json.Unmarshal(w.Body.Bytes(), &out)
	}
	return out
}

func (a *apiClient) login(username, password string) {
	a.t.Helper()
	res := a.expect(http.MethodPost, "/api/auth/login", gin.H{"username": username, "password": password}, http.StatusOK)
	token, _ := res["token"].(string)
	if token == "" {
		a.t.Fatalf("login returned no token: %v", res)
	}
	a.token = token
}

func errorCode(res map[string]any) string {
	env, _ := res["error"].(map[string]any)
	code, _ := env["code"].(string)
	return code
}

func TestHealthAndAuth(t *testing.T) {
	api := newAPI(t)
	api.expect(http.MethodGet, "/health", nil, http.StatusOK)

	res := api.expect(http.MethodGet, "/api/rooms", nil, http.StatusUnauthorized)
	if errorCode(res) != "auth.unauthenticated" {
		t.Fatalf("anonymous error = %v", res)
	}
	res = api.expect(http.MethodPost, "/api/auth/login", gin.H{"username": "admin@hotel.local", "password": "nope"}, http.StatusUnauthorized)
	if errorCode(res) != "auth.invalidCredentials" {
		t.Fatalf("bad login error = %v", res)
	}

	api.login("admin@hotel.local", "admin123")
	api.expect(http.MethodGet, "/api/rooms", nil, http.StatusOK)
	api.expect(http.MethodGet, "/api/rooms/abc", nil, http.StatusBadRequest)
	api.expect(http.MethodGet, "/api/rooms/999", nil, http.StatusNotFound)
}

func TestStaySettlementOverHTTP(t *testing.T) {
	api := newAPI(t)
	api.login("admin@hotel.local", "admin123")

	room := api.expect(http.MethodPost, "/api/rooms", gin.H{"roomNumber": "901"}, http.StatusCreated)
	roomID := room["id"].(float64)
	api.expect(http.MethodPost, "/api/rooms", gin.H{"roomNumber": "901"}, http.StatusConflict)

	booking := api.expect(http.MethodPost, "/api/bookings", gin.H{
		"guestName":  "Kiran",
		"guestPhone": "+919811111111",
		"roomId":     roomID,
		"tariff":     "1500",
	}, http.StatusCreated)
	bookingPath := fmt.Sprintf("/api/bookings/%.0f", booking["id"].(float64))

	res := api.expect(http.MethodPost, "/api/bookings", gin.H{"guestName": "Late", "roomId": roomID}, http.StatusConflict)
	if errorCode(res) != "room.notAvailable" {
		t.Fatalf("double booking error = %v", res)
	}

	api.expect(http.MethodPost, bookingPath+"/orders", gin.H{"foodItemId": 1, "quantity": "abc"}, http.StatusBadRequest)
	for _, qty := range []any{"2.5", 0, -1} {
		res := api.expect(http.MethodPost, bookingPath+"/orders", gin.H{"foodItemId": 1, "quantity": qty}, http.StatusBadRequest)
		if errorCode(res) != "order.invalidQuantity" {
			t.Fatalf("quantity %v error = %v", qty, res)
		}
	}
	api.expect(http.MethodPost, bookingPath+"/orders", gin.H{"foodItemId": 1, "quantity": "2"}, http.StatusCreated)

	kitchen := api.expect(http.MethodPost, bookingPath+"/kitchen-bill", nil, http.StatusCreated)
	inv := kitchen["invoice"].(map[string]any)
	if inv["type"] != "FOOD" || inv["totalAmount"].(float64) != 80 {
		t.Fatalf("kitchen invoice = %v", inv)
	}
	api.expect(http.MethodPost, bookingPath+"/kitchen-bill", nil, http.StatusConflict)

	checkout := api.expect(http.MethodPost, bookingPath+"/checkout", gin.H{"showGst": true, "gstPercent": 12}, http.StatusCreated)
	roomInv := checkout["invoice"].(map[string]any)
	if roomInv["type"] != "ROOM" || roomInv["totalAmount"].(float64) != 1680 {
		t.Fatalf("room invoice = %v", roomInv)
	}

	pdf := api.do(http.MethodGet, fmt.Sprintf("/api/invoices/%.0f/pdf", roomInv["id"].(float64)), nil)
	if pdf.Code != http.StatusOK || pdf.Header().Get("Content-Type") != "application/pdf" || !bytes.HasPrefix(pdf.Body.Bytes(), []byte("%PDF")) {
		t.Fatalf("pdf = %d %s", pdf.Code, pdf.Header().Get("Content-Type"))
	}

	api.expect(http.MethodPost, "/api/payments", gin.H{"invoiceId": roomInv["id"], "mode": "CASH"}, http.StatusCreated)
	api.expect(http.MethodDelete, bookingPath, nil, http.StatusConflict)
	api.expect(http.MethodPost, bookingPath+"/orders", gin.H{"foodItemId": 1, "quantity": 1}, http.StatusConflict)
}

func TestRolePermissionsOverHTTP(t *testing.T) {
	api := newAPI(t)
	api.login("admin@hotel.local", "admin123")

	api.expect(http.MethodPost, "/api/staff", gin.H{
		"fullName": "Ravi",
		"username": "ravi",
		"password": "frontdesk1",
		"role":     "receptionist",
	}, http.StatusCreated)
	api.expect(http.MethodPut, "/api/roles/owner/permissions", gin.H{"permissions": []string{}}, http.StatusBadRequest)

	api.login("ravi", "frontdesk1")
	res := api.expect(http.MethodPost, "/api/rooms", gin.H{"roomNumber": "950"}, http.StatusForbidden)
	if errorCode(res) != "auth.forbidden" {
		t.Fatalf("receptionist room create = %v", res)
	}
	api.expect(http.MethodGet, "/api/rooms", nil, http.StatusOK)
	api.expect(http.MethodGet, "/api/settings/hotel", nil, http.StatusOK)
}
