package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"tableside-backend/config"
	"tableside-backend/controllers"
	"tableside-backend/routes"
	"tableside-backend/services"
)

func main() {
	// Load .env (optional)
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env not found or couldn't load it; continuing with environment variables")
	}

	settings, err := config.LoadSettings()
	if err != nil {
		log.Fatalf("❌ ERROR: %v", err)
	}
	if !settings.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := config.ConnectDatabase(settings); err != nil {
		log.Fatalf("❌ Database connect failed: %v", err)
	}
	db := config.DB
	if db == nil {
		log.Fatal("❌ config.DB is nil after ConnectDatabase()")
	}
	log.Println("✅ Database connection established and migrations applied (if configured).")

	// Initialize services
	audit := services.NewAuditService(db)
	menu := services.NewMenuService(db)
	sessions := services.NewSessionManager(settings.SessionSecret, settings.SessionTTL)
	orders := services.NewOrderService(db, audit, menu)
	seats := services.NewSeatService(db, audit)
	selections := services.NewSelectionService(db, audit)
	catalog := services.NewCatalogService(db)
	tickets := services.NewTicketService(db, audit)
	staff := services.NewStaffService(db)

	// Initialize controllers
	authController := controllers.NewAuthController(services.NewCodeScanAuthenticator(db), sessions, audit)
	authController.SecureCookie = !settings.Debug

	router := routes.SetupRouter(routes.Handlers{
		Auth:      authController,
		Rooms:     controllers.NewRoomController(catalog, tickets, audit),
		Tables:    controllers.NewTableController(orders),
		Orders:    controllers.NewOrderController(orders, seats, tickets),
		Seats:     controllers.NewSeatController(seats),
		Selection: controllers.NewSelectionController(selections),
		Parties:   controllers.NewPartyController(menu),
		Admin:     controllers.NewAdminController(catalog, menu, staff, audit),
	}, sessions, settings.CORSOrigins)

	addr := ":" + settings.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("🚀 Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Println("⚠️  Shutdown signal received, shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("❌ Server stopped with error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Println("✅ Server stopped gracefully")
}
