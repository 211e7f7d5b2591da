package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/lexagenda/booking-api/internal/audit"
	"github.com/lexagenda/booking-api/internal/config"
	domain "github.com/lexagenda/booking-api/internal/domain/booking"
	"github.com/lexagenda/booking-api/internal/httperr"
	"github.com/lexagenda/booking-api/internal/models"
	"github.com/lexagenda/booking-api/internal/notify"
	"github.com/lexagenda/booking-api/internal/timezone"
)

// ExpiryJob auto-cancels pending appointments that were never confirmed
// within the configured TTL, releasing their slots.
type ExpiryJob struct {
	repo   domain.Repository
	notify *notify.Dispatcher
	audit  *audit.Dispatcher
	ttl    time.Duration
}

func NewExpiryJob(
	repo domain.Repository,
	notify *notify.Dispatcher,
	audit *audit.Dispatcher,
	cfg *config.Config,
) *ExpiryJob {
	return &ExpiryJob{
		repo:   repo,
		notify: notify,
		audit:  audit,
		ttl:    time.Duration(cfg.PendingTTLHours) * time.Hour,
	}
}

// Start registers the sweep on a 10 minute cadence. A zero TTL disables the
// job entirely.
func (j *ExpiryJob) Start() *cron.Cron {
	c := cron.New()

	if j.ttl <= 0 {
		log.Println("pending expiry disabled")
		return c
	}

	if _, err := c.AddFunc("*/10 * * * *", j.sweep); err != nil {
		log.Fatalf("failed to register expiry job: %v", err)
	}

	c.Start()
	log.Printf("pending expiry job started (ttl=%s)", j.ttl)
	return c
}

func (j *ExpiryJob) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := time.Now().Add(-j.ttl)

	stale, err := j.repo.ListStalePending(ctx, cutoff)
	if err != nil {
		log.Printf("expiry sweep failed: %v", err)
		return
	}

	for _, ap := range stale {
		if err := j.expire(ctx, ap); err != nil {
			log.Printf("failed to expire appointment %d: %v", ap.ID, err)
		}
	}
}

func (j *ExpiryJob) expire(ctx context.Context, ap models.Appointment) error {
	if err := domain.CanCancel(domain.Status(ap.Status)); err != nil {
		return nil // raced with an explicit transition, nothing to do
	}

	now := timezone.NowIn(ap.LawyerProfile.Timezone)
	ap.Status = string(domain.StatusCancelled)
	ap.CancelledAt = &now
	ap.LawyerNotes = fmt.Sprintf("auto-cancelled: pending for more than %s", j.ttl)

	if err := j.repo.ReleaseAndUpdate(ctx, &ap); err != nil {
		if httperr.BusinessCode(err) != "" {
			return nil // lost the write race to an explicit transition
		}
		return err
	}

	msg := fmt.Sprintf(
		"The appointment on %s at %s expired without confirmation and was cancelled.",
		ap.AppointmentDate, ap.AppointmentTime,
	)

	j.notify.Dispatch(notify.Event{
		UserID:  ap.ClientID,
		Type:    models.NotifAppointmentExpired,
		Title:   "Appointment expired",
		Message: msg,
	})
	j.notify.Dispatch(notify.Event{
		UserID:  ap.LawyerProfile.UserID,
		Type:    models.NotifAppointmentExpired,
		Title:   "Appointment expired",
		Message: msg,
	})

	j.audit.Dispatch(audit.Event{
		Action:   "appointment_expired",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return nil
}
