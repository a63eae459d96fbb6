package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"hotel-billing/controllers"
	"hotel-billing/middleware"
)

// Controllers groups every handler the router mounts.
type Controllers struct {
	Auth     *controllers.AuthController
	Staff    *controllers.StaffController
	Roles    *controllers.RoleController
	Rooms    *controllers.RoomController
	Bookings *controllers.BookingController
	Orders   *controllers.OrderController
	Invoices *controllers.InvoiceController
	Payments *controllers.PaymentController
	Settings *controllers.SettingsController
}

// SetupRouter mounts /health and the /api tree. auth resolves bearer tokens
// into the caller identity for every /api route.
func SetupRouter(ctl Controllers, origins []string, auth gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger())

	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.Use(auth)
	{
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/login", ctl.Auth.Login)
		}

		rooms := api.Group("/rooms")
		{
			rooms.GET("", ctl.Rooms.List)
			rooms.POST("", ctl.Rooms.Create)
			rooms.GET("/:id", ctl.Rooms.Get)
			rooms.PATCH("/:id", ctl.Rooms.Update)
			rooms.PUT("/:id", ctl.Rooms.Update)
			rooms.DELETE("/:id", ctl.Rooms.Delete)
		}
		roomTypes := api.Group("/room-types")
		{
			roomTypes.GET("", ctl.Rooms.ListTypes)
			roomTypes.POST("", ctl.Rooms.CreateType)
			roomTypes.DELETE("/:id", ctl.Rooms.DeleteType)
		}

		bookings := api.Group("/bookings")
		{
			bookings.GET("", ctl.Bookings.List)
			bookings.POST("", ctl.Bookings.Create)
			bookings.GET("/:id", ctl.Bookings.Get)
			bookings.PATCH("/:id", ctl.Bookings.Update)
			bookings.DELETE("/:id", ctl.Bookings.Delete)
			bookings.POST("/:id/checkout", ctl.Bookings.Checkout)
			bookings.GET("/:id/payments", ctl.Bookings.ListPayments)

			bookings.GET("/:id/orders", ctl.Orders.List)
			bookings.POST("/:id/orders", ctl.Orders.Create)
			bookings.POST("/:id/kitchen-bill", ctl.Orders.KitchenBill)
			bookings.POST("/:id/food-bill", ctl.Orders.FoodBill)
		}
		api.DELETE("/orders/:id", ctl.Orders.Delete)

		foodItems := api.Group("/food-items")
		{
			foodItems.GET("", ctl.Orders.ListItems)
			foodItems.POST("", ctl.Orders.CreateItem)
			foodItems.PATCH("/:id", ctl.Orders.UpdateItem)
		}

		invoices := api.Group("/invoices")
		{
			invoices.GET("", ctl.Invoices.List)
			invoices.POST("/manual", ctl.Invoices.CreateManual)
			invoices.GET("/:id", ctl.Invoices.Get)
			invoices.GET("/:id/pdf", ctl.Invoices.PDF)
			invoices.DELETE("/:id", ctl.Invoices.Delete)
		}

		payments := api.Group("/payments")
		{
			payments.POST("", ctl.Payments.Record)
			payments.PATCH("/:id", ctl.Payments.Update)
		}

		settings := api.Group("/settings")
		{
			settings.GET("/hotel", ctl.Settings.GetHotel)
			settings.PUT("/hotel", ctl.Settings.UpdateHotel)
		}

		roles := api.Group("/roles")
		{
			roles.GET("", ctl.Roles.List)
			roles.PUT("/:id/permissions", ctl.Roles.UpdatePermissions)
		}

		staff := api.Group("/staff")
		{
			staff.GET("", ctl.Staff.List)
			staff.POST("", ctl.Staff.Create)
			staff.DELETE("/:id", ctl.Staff.Delete)
		}
	}

	return r
}
