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

	"amazonas-backend/config"
	"amazonas-backend/controllers"
	"amazonas-backend/routes"
	"amazonas-backend/services"
	"amazonas-backend/store"
	"amazonas-backend/utils"
)

func main() {
	// Load .env (optional)
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env not found or couldn't load it; continuing with environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}
	if cfg.WompiPrivateKey == "" {
		// Not fatal: card bookings are rejected per request until the key
		// is configured.
		log.Println("⚠️  WOMPI_PRIVATE_KEY is not set; card bookings will be rejected")
	}

	// Connect database
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("❌ Database connect failed: %v", err)
	}
	if config.DB == nil {
		log.Fatal("❌ config.DB is nil after ConnectDatabase()")
	}
	log.Println("✅ Database connection established and migrations applied")

	st := store.NewGormStore(config.DB)
	mailer := utils.NewSMTPMailer(cfg)

	// Initialize services
	paymentService := services.NewPaymentService(cfg)
	bookingService := services.NewBookingService(st, st, paymentService, mailer)

	// Initialize controllers
	bookingController := controllers.NewBookingController(bookingService, mailer)
	catalogController := controllers.NewCatalogController(st)

	// Build router
	router := routes.SetupRouter(bookingController, catalogController)

	addr := ":" + cfg.Port

	srv := &http.Server{
		Addr:    addr,
		Handler: router,
		// useful timeouts
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ ListenAndServe(): %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with timeout
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("⚠️  Shutdown signal received, shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}
