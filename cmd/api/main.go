package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lexagenda/booking-api/internal/audit"
	"github.com/lexagenda/booking-api/internal/cache"
	"github.com/lexagenda/booking-api/internal/config"
	dbpkg "github.com/lexagenda/booking-api/internal/db"
	infraRepo "github.com/lexagenda/booking-api/internal/infra/repository"
	"github.com/lexagenda/booking-api/internal/jobs"
	"github.com/lexagenda/booking-api/internal/middleware"
	"github.com/lexagenda/booking-api/internal/notify"
	"github.com/lexagenda/booking-api/internal/routes"
)

func main() {

	cfg := config.Load()
	db := dbpkg.NewDB(cfg)
	rdb := cache.NewRedis(cfg)

	// Shared singletons: one repository, one worker per dispatcher.
	bookingRepo := infraRepo.NewBookingGormRepository(db)
	notifyDispatcher := notify.NewDispatcher(notify.NewSink(db, rdb))
	auditDispatcher := audit.NewDispatcher(audit.New(db))

	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, cfg, bookingRepo, notifyDispatcher, auditDispatcher)

	expiry := jobs.NewExpiryJob(bookingRepo, notifyDispatcher, auditDispatcher, cfg)
	expiry.Start()

	log.Printf("Server running on %s", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
