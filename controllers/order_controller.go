package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-billing/services"
)

// orderPayload keeps quantity loose so "2" and 2 both bind; the service
// decides what counts as a valid quantity.
type orderPayload struct {
	FoodItemID uint        `json:"foodItemId" binding:"required"`
	Quantity   json.Number `json:"quantity"`
	ChefID     *uint       `json:"chefId"`
}

type OrderController struct {
	Food    *services.FoodService
	Billing *services.BillingService
}

func NewOrderController(food *services.FoodService, billing *services.BillingService) *OrderController {
	return &OrderController{Food: food, Billing: billing}
}

// ----------------------------------------------------
// Menu
// ----------------------------------------------------

// GET /api/food-items?enabled=true
func (oc *OrderController) ListItems(c *gin.Context) {
	items, err := oc.Food.ListItems(c.Request.Context(), identity(c), c.Query("enabled") == "true")
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (oc *OrderController) CreateItem(c *gin.Context) {
	var req services.CreateFoodItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	item, err := oc.Food.CreateItem(c.Request.Context(), identity(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (oc *OrderController) UpdateItem(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil {
		badPayload(c, err)
		return
	}
	item, err := oc.Food.UpdateItem(c.Request.Context(), identity(c), id, fields)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// ----------------------------------------------------
// Orders
// ----------------------------------------------------

// GET /api/bookings/:id/orders?unbilled=true&ids=1,2
func (oc *OrderController) List(c *gin.Context) {
	bookingID, ok := parseID(c, "id")
	if !ok {
		return
	}
	if c.Query("unbilled") != "true" {
		orders, err := oc.Food.ListOrders(c.Request.Context(), identity(c), bookingID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, orders)
		return
	}

	ids, err := parseIDList(c.Query("ids"))
	if err != nil {
		respondError(c, err)
		return
	}
	orders, err := oc.Food.ListUnbilled(c.Request.Context(), identity(c), bookingID, ids)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (oc *OrderController) Create(c *gin.Context) {
	bookingID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var payload orderPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		badPayload(c, err)
		return
	}
	qty, err := services.ParseQuantity(payload.Quantity.String())
	if err != nil {
		respondError(c, err)
		return
	}
	order, err := oc.Food.AddOrder(c.Request.Context(), identity(c), bookingID, services.AddOrderRequest{
		FoodItemID: payload.FoodItemID,
		Quantity:   qty,
		ChefID:     payload.ChefID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (oc *OrderController) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := oc.Food.RemoveOrder(c.Request.Context(), identity(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order removed"})
}

// ----------------------------------------------------
// Food settlement
// ----------------------------------------------------

// POST /api/bookings/:id/kitchen-bill
func (oc *OrderController) KitchenBill(c *gin.Context) {
	oc.settle(c, services.KitchenBill)
}

// POST /api/bookings/:id/food-bill
func (oc *OrderController) FoodBill(c *gin.Context) {
	oc.settle(c, services.FoodBill)
}

func (oc *OrderController) settle(c *gin.Context, kind services.BillKind) {
	bookingID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req services.SettleFoodRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badPayload(c, err)
			return
		}
	}
	settlement, err := oc.Billing.SettleFood(c.Request.Context(), identity(c), bookingID, kind, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, settlement)
}
