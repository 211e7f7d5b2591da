package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/lexagenda/booking-api/internal/audit"
	"github.com/lexagenda/booking-api/internal/config"
	domain "github.com/lexagenda/booking-api/internal/domain/booking"
	"github.com/lexagenda/booking-api/internal/handlers"
	"github.com/lexagenda/booking-api/internal/middleware"
	"github.com/lexagenda/booking-api/internal/models"
	"github.com/lexagenda/booking-api/internal/notify"
	ucBooking "github.com/lexagenda/booking-api/internal/usecase/booking"
)

// RegisterRoutes wires the HTTP surface. The repository and dispatchers are
// built once in main and shared with the background jobs.
func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	cfg *config.Config,
	bookingRepo domain.Repository,
	notifyDispatcher *notify.Dispatcher,
	auditDispatcher *audit.Dispatcher,
) {

	// ======================================================
	// USE CASES - BOOKING
	// ======================================================
	bookUC := ucBooking.NewBookAppointment(
		bookingRepo,
		notifyDispatcher,
		auditDispatcher,
	)

	confirmUC := ucBooking.NewConfirmAppointment(
		bookingRepo,
		notifyDispatcher,
		auditDispatcher,
	)

	cancelUC := ucBooking.NewCancelAppointment(
		bookingRepo,
		notifyDispatcher,
		auditDispatcher,
	)

	completeUC := ucBooking.NewCompleteAppointment(
		bookingRepo,
		notifyDispatcher,
		auditDispatcher,
	)

	listUC := ucBooking.NewListAppointments(bookingRepo)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	meHandler := handlers.NewMeHandler(db)

	lawyerProfileHandler := handlers.NewLawyerProfileHandler(db)
	serviceHandler := handlers.NewServiceHandler(db)
	availabilityHandler := handlers.NewAvailabilityHandler(db)

	appointmentHandler := handlers.NewAppointmentHandler(
		bookUC,
		confirmUC,
		cancelUC,
		completeUC,
		listUC,
	)

	notificationHandler := handlers.NewNotificationHandler(db)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)
	publicHandler := handlers.NewPublicHandler(db)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/lawyers/:id/services", publicHandler.ListServices)
			publicAPI.GET("/lawyers/:id/availability", publicHandler.ListAvailability)
		}

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// PRIVATE
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", meHandler.GetMe)
			secured.GET("/me/notifications", notificationHandler.List)
			secured.PATCH("/me/notifications/:id/read", notificationHandler.MarkRead)
			secured.GET("/me/audit-logs", auditLogsHandler.List)

			// ------------------------------
			// LAWYER SURFACE
			// ------------------------------
			lawyer := secured.Group("/me")
			lawyer.Use(middleware.RequireRole(models.RoleLawyer))
			{
				lawyer.GET("/lawyer-profile", lawyerProfileHandler.Get)
				lawyer.PATCH("/lawyer-profile", lawyerProfileHandler.Update)

				lawyer.GET("/services", serviceHandler.List)
				lawyer.POST("/services", serviceHandler.Create)
				lawyer.PATCH("/services/:id", serviceHandler.Update)

				lawyer.GET("/availability", availabilityHandler.List)
				lawyer.POST("/availability", availabilityHandler.Create)
				lawyer.DELETE("/availability/:id", availabilityHandler.Delete)
			}

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.POST("/appointments",
				middleware.RequireRole(models.RoleClient),
				appointmentHandler.Create,
			)
			secured.GET("/appointments", appointmentHandler.List)
			secured.PATCH("/appointments/:id/confirm",
				middleware.RequireRole(models.RoleLawyer),
				appointmentHandler.Confirm,
			)
			secured.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)
			secured.PATCH("/appointments/:id/complete",
				middleware.RequireRole(models.RoleLawyer),
				appointmentHandler.Complete,
			)
		}
	}
}
