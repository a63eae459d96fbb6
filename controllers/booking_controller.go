package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-billing/services"
)

type BookingController struct {
	Bookings *services.BookingService
	Billing  *services.BillingService
	Payments *services.PaymentService
}

func NewBookingController(bookings *services.BookingService, billing *services.BillingService, payments *services.PaymentService) *BookingController {
	return &BookingController{Bookings: bookings, Billing: billing, Payments: payments}
}

// GET /api/bookings?status=ACTIVE
func (bc *BookingController) List(c *gin.Context) {
	bookings, err := bc.Bookings.List(c.Request.Context(), identity(c), c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// POST /api/bookings claims the room and opens an ACTIVE booking.
func (bc *BookingController) Create(c *gin.Context) {
	var req services.OpenBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	booking, err := bc.Bookings.Open(c.Request.Context(), identity(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

func (bc *BookingController) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	booking, err := bc.Bookings.Get(c.Request.Context(), identity(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

func (bc *BookingController) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil {
		badPayload(c, err)
		return
	}
	booking, err := bc.Bookings.Update(c.Request.Context(), identity(c), id, fields)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

func (bc *BookingController) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := bc.Bookings.Delete(c.Request.Context(), identity(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Booking deleted"})
}

// POST /api/bookings/:id/checkout settles the room bill. For an ACTIVE
// booking this also checks the guest out and frees the room.
func (bc *BookingController) Checkout(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req services.SettleRoomRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badPayload(c, err)
			return
		}
	}
	settlement, err := bc.Billing.SettleRoom(c.Request.Context(), identity(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, settlement)
}

func (bc *BookingController) ListPayments(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	payments, err := bc.Payments.ListByBooking(c.Request.Context(), identity(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payments)
}
