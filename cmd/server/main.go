package main // Entry point package

import (
	"log"  // Logging library
	"time" // Duration conversion for config tunables

	"github.com/joho/godotenv"    // .env loader for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/partyloft/booking/internal/availability"
	"github.com/partyloft/booking/internal/config"
	"github.com/partyloft/booking/internal/database"
	"github.com/partyloft/booking/internal/handler"
	"github.com/partyloft/booking/internal/hold"
	"github.com/partyloft/booking/internal/queue"
	"github.com/partyloft/booking/internal/repository"
	"github.com/partyloft/booking/internal/router"
	queue_publisher "github.com/partyloft/booking/internal/service"
	"github.com/partyloft/booking/internal/tasks"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: a nil client disables rate limiting, response
	// caching and the degraded-mode snapshot, nothing else.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; cache, rate limit and degraded mode disabled")
	}

	tenants := repository.NewTenantRepo(db)
	templates := repository.NewSlotTemplateRepo(db)
	blackouts := repository.NewBlackoutRepo(db)
	rooms := repository.NewRoomRepo(db)
	packages := repository.NewPackageRepo(db)
	catalog := repository.NewCatalogRepo(db)
	customers := repository.NewCustomerRepo(db)
	holds := repository.NewHoldRepo(db)
	bookings := repository.NewBookingRepo(db)

	computer := &availability.Computer{
		Tenants:         tenants,
		Templates:       templates,
		Blackouts:       blackouts,
		Rooms:           rooms,
		Packages:        packages,
		Ledger:          holds,
		Snapshots:       availability.NewSnapshotStore(rdb),
		DefaultDuration: time.Duration(cfg.DefaultSlotDurMin) * time.Minute,
	}

	manager := hold.NewManager(holds, rooms, tenants, templates, blackouts,
		time.Duration(cfg.HoldTTLMin)*time.Minute,
		time.Duration(cfg.HoldMaxExtendMin)*time.Minute)

	availabilityHandler := handler.NewAvailabilityHandler(computer)
	holdHandler := handler.NewHoldHandler(manager)
	bookingHandler := handler.NewBookingHandler(tenants, holds, rooms, packages, catalog, customers, bookings,
		queue_publisher.PublishBookingCreated)
	webhookHandler := handler.NewPaymentWebhookHandler(cfg.WebhookSecret, bookings, rdb)

	// Payment results also arrive over the broker; run the consumer for
	// deployments that prefer the queue to the webhook.
	go func() {
		if err := queue.StartPaymentConsumer(bookings); err != nil {
			log.Printf("payment consumer stopped: %v", err)
		}
	}()

	// Hold sweep hygiene; requires Redis for the asynq backend.
	if rdb != nil {
		go func() {
			retention := time.Duration(cfg.SweepRetentionDays) * 24 * time.Hour
			if err := tasks.Run(rdb.Options().Addr, rdb.Options().Password, holds, retention); err != nil {
				log.Printf("hold sweep stopped: %v", err)
			}
		}()
	}

	e := echo.New()
	router.RegisterRoutes(e, webhookHandler)
	router.RegisterEngine(e, availabilityHandler, holdHandler, bookingHandler, cfg.JWTSecret, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
