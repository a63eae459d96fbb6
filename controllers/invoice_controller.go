package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"hotel-billing/services"
)

type InvoiceController struct {
	Billing *services.BillingService
}

func NewInvoiceController(billing *services.BillingService) *InvoiceController {
	return &InvoiceController{Billing: billing}
}

// GET /api/invoices?bookingId=&type=
func (ic *InvoiceController) List(c *gin.Context) {
	var f services.InvoiceFilter
	if raw := c.Query("bookingId"); raw != "" {
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || n == 0 {
			respondError(c, services.Validation("error.invalidId", "invalid bookingId"))
			return
		}
		id := uint(n)
		f.BookingID = &id
	}
	f.Type = c.Query("type")

	invoices, err := ic.Billing.List(c.Request.Context(), identity(c), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoices)
}

func (ic *InvoiceController) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	inv, err := ic.Billing.Get(c.Request.Context(), identity(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

// GET /api/invoices/:id/pdf
func (ic *InvoiceController) PDF(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	inv, doc, err := ic.Billing.Document(c.Request.Context(), identity(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="%s.pdf"`, inv.InvoiceNumber))
	c.Data(http.StatusOK, "application/pdf", doc)
}

func (ic *InvoiceController) CreateManual(c *gin.Context) {
	var req services.ManualInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	settlement, err := ic.Billing.SettleManual(c.Request.Context(), identity(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, settlement)
}

// DELETE /api/invoices/:id. Deleting a room invoice also removes the food
// invoices of the same settlement.
func (ic *InvoiceController) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := ic.Billing.DeleteInvoice(c.Request.Context(), identity(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Invoice deleted"})
}
