package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/lexagenda/booking-api/internal/domain/booking"
	"github.com/lexagenda/booking-api/internal/dto"
	"github.com/lexagenda/booking-api/internal/httperr"
	"github.com/lexagenda/booking-api/internal/httpresp"
	"github.com/lexagenda/booking-api/internal/middleware"
	"github.com/lexagenda/booking-api/internal/models"
	ucBooking "github.com/lexagenda/booking-api/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	bookUC     *ucBooking.BookAppointment
	confirmUC  *ucBooking.ConfirmAppointment
	cancelUC   *ucBooking.CancelAppointment
	completeUC *ucBooking.CompleteAppointment
	listUC     *ucBooking.ListAppointments
}

func NewAppointmentHandler(
	bookUC *ucBooking.BookAppointment,
	confirmUC *ucBooking.ConfirmAppointment,
	cancelUC *ucBooking.CancelAppointment,
	completeUC *ucBooking.CompleteAppointment,
	listUC *ucBooking.ListAppointments,
) *AppointmentHandler {
	return &AppointmentHandler{
		bookUC:     bookUC,
		confirmUC:  confirmUC,
		cancelUC:   cancelUC,
		completeUC: completeUC,
		listUC:     listUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	LawyerProfileID    uint   `json:"lawyer_profile_id" binding:"required"`
	ServiceID          uint   `json:"service_id" binding:"required"`
	AppointmentDate    string `json:"appointment_date" binding:"required"`
	AppointmentTime    string `json:"appointment_time" binding:"required"`
	ClientNotes        string `json:"client_notes"`
	MeetingType        string `json:"meeting_type"`
	AvailabilitySlotID *uint  `json:"availability_slot_id"`
}

type CancelAppointmentRequest struct {
	Reason string `json:"reason"`
}

type CompleteAppointmentRequest struct {
	Notes string `json:"notes"`
}

// ======================================================
// ERROR MAPPING
// ======================================================

// Domain errors carry stable codes; everything else is an opaque internal
// failure and must not leak storage detail.
func writeBookingError(c *gin.Context, err error) {
	code := httperr.BusinessCode(err)

	switch code {
	case httperr.CodeInvalidRequest, httperr.CodePastDate,
		httperr.CodeServiceInactive, httperr.CodeServiceMismatch,
		httperr.CodeInvalidTransition, httperr.CodeAlreadyCancelled,
		httperr.CodeAlreadyCompleted:
		httperr.BadRequest(c, code, "The request cannot be processed in its current form.")
	case httperr.CodeNotFound, httperr.CodeServiceNotFound, httperr.CodeSlotNotFound:
		httperr.NotFound(c, code, "The requested resource was not found.")
	case httperr.CodeForbidden:
		httperr.Forbidden(c, code, "You are not allowed to act on this appointment.")
	case httperr.CodeSlotTaken, httperr.CodeSlotAlreadyBooked:
		httperr.Conflict(c, code, "This time is no longer available.")
	default:
		httperr.Internal(c, "internal_error", "Something went wrong.")
	}
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	clientID := c.MustGet(middleware.ContextUserID).(uint)

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, httperr.CodeInvalidRequest, "Invalid booking payload.")
		return
	}

	ap, err := h.bookUC.Execute(c.Request.Context(), ucBooking.BookAppointmentInput{
		ClientID:           clientID,
		LawyerProfileID:    req.LawyerProfileID,
		ServiceID:          req.ServiceID,
		Date:               req.AppointmentDate,
		Time:               req.AppointmentTime,
		ClientNotes:        req.ClientNotes,
		MeetingType:        req.MeetingType,
		AvailabilitySlotID: req.AvailabilitySlotID,
	})
	if err != nil {
		writeBookingError(c, err)
		return
	}

	httpresp.Created(c, ap)
}

// ======================================================
// LIST (role-scoped)
// ======================================================

func (h *AppointmentHandler) List(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)
	role := c.GetString(middleware.ContextUserRole)

	filter := domain.ListFilter{
		Status: c.Query("status"),
		Query:  c.Query("q"),
	}

	if role == models.RoleLawyer {
		profileID, ok := c.Get(middleware.ContextLawyerProfileID)
		if !ok {
			httperr.Forbidden(c, httperr.CodeForbidden, "Lawyer profile missing.")
			return
		}
		id := profileID.(uint)
		filter.LawyerProfileID = &id
	} else {
		filter.ClientID = &userID
	}

	if v := c.Query("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			httperr.BadRequest(c, "invalid_from", "Invalid from date.")
			return
		}
		filter.From = &t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			httperr.BadRequest(c, "invalid_to", "Invalid to date.")
			return
		}
		end := t.Add(24 * time.Hour)
		filter.To = &end
	}

	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))

	aps, total, err := h.listUC.Execute(c.Request.Context(), filter)
	if err != nil {
		httperr.Internal(c, "failed_to_list_appointments", "Could not list appointments.")
		return
	}

	items := make([]dto.AppointmentListItem, 0, len(aps))
	for _, ap := range aps {
		items = append(items, dto.AppointmentListItemFrom(ap))
	}

	httpresp.List(c, items, total, filter.Page, filter.Limit)
}

// ======================================================
// CONFIRM / CANCEL / COMPLETE
// ======================================================

func (h *AppointmentHandler) Confirm(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, err := pathID(c)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid appointment id.")
		return
	}

	ap, err := h.confirmUC.Execute(c.Request.Context(), id, userID)
	if err != nil {
		writeBookingError(c, err)
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, err := pathID(c)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid appointment id.")
		return
	}

	var req CancelAppointmentRequest
	_ = c.ShouldBindJSON(&req) // reason is optional, body may be empty

	ap, err := h.cancelUC.Execute(c.Request.Context(), id, userID, req.Reason)
	if err != nil {
		writeBookingError(c, err)
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, err := pathID(c)
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid appointment id.")
		return
	}

	var req CompleteAppointmentRequest
	_ = c.ShouldBindJSON(&req)

	ap, err := h.completeUC.Execute(c.Request.Context(), id, userID, req.Notes)
	if err != nil {
		writeBookingError(c, err)
		return
	}

	httpresp.OK(c, ap)
}

func pathID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	return uint(id), err
}
