package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"hotel-billing/config"
	"hotel-billing/controllers"
	"hotel-billing/documents"
	"hotel-billing/middleware"
	"hotel-billing/notify"
	"hotel-billing/queue"
	"hotel-billing/routes"
	"hotel-billing/services"
)

func main() {
	// Load .env (optional)
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env not found or couldn't load it; continuing with environment variables")
	}
	cfg := config.Load()

	db, err := config.Connect(cfg)
	if err != nil {
		log.Fatalf("❌ Database connect failed: %v", err)
	}
	log.Println("✅ Database connection established and migrations applied.")

	// Optional infrastructure; each one degrades to a no-op when unset.
	cache := config.NewRedisClient()

	var events services.EventPublisher
	if cfg.RabbitURL != "" {
		events = queue.NewPublisher(cfg.RabbitURL)
		log.Println("✅ Billing events will be published to RabbitMQ.")
	} else {
		log.Println("⚠️  RABBITMQ_URL not set; billing events are not published")
	}

	var notifier services.Notifier
	if tw := notify.NewTwilio(cfg.TwilioSID, cfg.TwilioToken, cfg.TwilioFrom, cfg.TwilioWhatsApp); tw.Enabled() {
		notifier = tw
	}

	// Initialize services
	defaults := services.DefaultHotelProfile()
	defaults.DefaultGSTRate = cfg.DefaultGSTRate
	settingsService := services.NewSettingsService(db, cache, defaults)
	staffService := services.NewStaffService(db)
	roleService := services.NewRoleService(db)
	roomService := services.NewRoomService(db)
	roomTypeService := services.NewRoomTypeService(db)
	bookingService := services.NewBookingService(db, events)
	foodService := services.NewFoodService(db)
	billingService := services.NewBillingService(db, settingsService, documents.NewRenderer(os.Getenv("INVOICE_VERIFY_URL")), events, notifier)
	billingService.RequireKitchenSettled = cfg.RequireKitchenSettled
	paymentService, err := services.NewPaymentService(db, events, cfg.SnowflakeNode)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	// Initialize controllers
	router := routes.SetupRouter(routes.Controllers{
		Auth:     controllers.NewAuthController(staffService, cfg.JWTSecret, cfg.JWTTTL),
		Staff:    controllers.NewStaffController(staffService),
		Roles:    controllers.NewRoleController(roleService),
		Rooms:    controllers.NewRoomController(roomService, roomTypeService),
		Bookings: controllers.NewBookingController(bookingService, billingService, paymentService),
		Orders:   controllers.NewOrderController(foodService, billingService),
		Invoices: controllers.NewInvoiceController(billingService),
		Payments: controllers.NewPaymentController(paymentService),
		Settings: controllers.NewSettingsController(settingsService),
	}, cfg.CorsOrigins, middleware.Auth(cfg.JWTSecret, staffService))

	// Background jobs
	bgCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	auditor := services.NewOccupancyAuditor(db, events)
	scheduler, err := auditor.Schedule(cfg.AuditSchedule)
	if err != nil {
		log.Fatalf("❌ invalid AUDIT_SCHEDULE %q: %v", cfg.AuditSchedule, err)
	}

	if cfg.RabbitURL != "" && cfg.Consumer {
		consumer := queue.NewConsumer(cfg.RabbitURL)
		go func() {
			if err := consumer.Run(bgCtx); err != nil && bgCtx.Err() == nil {
				log.Printf("⚠️  settlement consumer stopped: %v", err)
			}
		}()
	}

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("🚀 Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ ListenAndServe(): %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("⚠️  Shutdown signal received, shutting down server...")

	stopBackground()
	<-scheduler.Stop().Done()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}
	if cache != nil {
		_ = cache.Close()
	}

	log.Println("✅ Server stopped gracefully")
}
