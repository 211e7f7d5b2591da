package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/lexagenda/booking-api/internal/audit"
	domain "github.com/lexagenda/booking-api/internal/domain/booking"
	"github.com/lexagenda/booking-api/internal/httperr"
	"github.com/lexagenda/booking-api/internal/models"
	"github.com/lexagenda/booking-api/internal/notify"
)

// fakeRepo is an in-memory Repository whose writes are atomic under one
// mutex and re-check the transition rule against stored state, mirroring the
// transactional guarantees of the gorm implementation.
type fakeRepo struct {
	mu sync.Mutex

	profiles     map[uint]*models.LawyerProfile
	services     map[uint]*models.Service
	slots        map[uint]*models.AvailabilitySlot
	appointments map[uint]*models.Appointment
	nextID       uint

	// getErr, when set, is returned by GetAppointment to simulate a
	// storage outage.
	getErr error

	// beforeWrite, when set, runs at the start of UpdateAppointment and
	// ReleaseAndUpdate, before the store lock is taken. Tests use it to
	// commit a competing transition between a usecase's read and its write.
	beforeWrite func()
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		profiles:     map[uint]*models.LawyerProfile{},
		services:     map[uint]*models.Service{},
		slots:        map[uint]*models.AvailabilitySlot{},
		appointments: map[uint]*models.Appointment{},
	}
}

var errFakeNotFound = domain.ErrNotFound

func (r *fakeRepo) GetLawyerProfile(_ context.Context, id uint) (*models.LawyerProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.profiles[id]
	if !ok {
		return nil, errFakeNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeRepo) GetService(_ context.Context, id uint) (*models.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.services[id]
	if !ok {
		return nil, errFakeNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeRepo) GetSlot(_ context.Context, id uint) (*models.AvailabilitySlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.slots[id]
	if !ok {
		return nil, errFakeNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeRepo) findConflictLocked(lawyerProfileID uint, date, timeOfDay string) *models.Appointment {
	for _, ap := range r.appointments {
		if ap.LawyerProfileID == lawyerProfileID &&
			ap.AppointmentDate == date &&
			ap.AppointmentTime == timeOfDay &&
			domain.Status(ap.Status).IsActive() {
			return ap
		}
	}
	return nil
}

func (r *fakeRepo) FindConflict(_ context.Context, lawyerProfileID uint, date, timeOfDay string) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if ap := r.findConflictLocked(lawyerProfileID, date, timeOfDay); ap != nil {
		cp := *ap
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeRepo) ReserveAndCreate(_ context.Context, ap *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.findConflictLocked(ap.LawyerProfileID, ap.AppointmentDate, ap.AppointmentTime) != nil {
		return httperr.ErrBusiness(httperr.CodeSlotTaken)
	}

	if ap.AvailabilitySlotID != nil {
		slot, ok := r.slots[*ap.AvailabilitySlotID]
		if !ok {
			return httperr.ErrBusiness(httperr.CodeSlotNotFound)
		}
		if slot.Booked {
			return httperr.ErrBusiness(httperr.CodeSlotAlreadyBooked)
		}
		slot.Booked = true
	}

	r.nextID++
	ap.ID = r.nextID
	cp := *ap
	r.appointments[ap.ID] = &cp
	return nil
}

func (r *fakeRepo) GetAppointment(_ context.Context, id uint) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.getErr != nil {
		return nil, r.getErr
	}

	ap, ok := r.appointments[id]
	if !ok {
		return nil, errFakeNotFound
	}

	cp := *ap
	if p, ok := r.profiles[ap.LawyerProfileID]; ok {
		cp.LawyerProfile = *p
	}
	return &cp, nil
}

// saveTransitionLocked re-runs the transition rule against the stored
// status before overwriting, as the gorm repository does under FOR UPDATE.
func (r *fakeRepo) saveTransitionLocked(ap *models.Appointment) error {
	current, ok := r.appointments[ap.ID]
	if !ok {
		return errFakeNotFound
	}
	if err := domain.CanTransition(
		domain.Status(current.Status),
		domain.Status(ap.Status),
	); err != nil {
		return err
	}
	cp := *ap
	r.appointments[ap.ID] = &cp
	return nil
}

func (r *fakeRepo) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	if r.beforeWrite != nil {
		r.beforeWrite()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saveTransitionLocked(ap)
}

func (r *fakeRepo) ReleaseAndUpdate(_ context.Context, ap *models.Appointment) error {
	if r.beforeWrite != nil {
		r.beforeWrite()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.saveTransitionLocked(ap); err != nil {
		return err
	}

	if ap.AvailabilitySlotID != nil {
		if slot, ok := r.slots[*ap.AvailabilitySlotID]; ok {
			slot.Booked = false
		}
	}
	return nil
}

func (r *fakeRepo) ListAppointments(_ context.Context, filter domain.ListFilter) ([]models.Appointment, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Appointment
	for _, ap := range r.appointments {
		if filter.ClientID != nil && ap.ClientID != *filter.ClientID {
			continue
		}
		if filter.LawyerProfileID != nil && ap.LawyerProfileID != *filter.LawyerProfileID {
			continue
		}
		if filter.Status != "" && ap.Status != filter.Status {
			continue
		}
		out = append(out, *ap)
	}
	return out, int64(len(out)), nil
}

func (r *fakeRepo) ListStalePending(_ context.Context, createdBefore time.Time) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []models.Appointment
	for _, ap := range r.appointments {
		if ap.Status == string(domain.StatusPending) && ap.CreatedAt.Before(createdBefore) {
			cp := *ap
			if p, ok := r.profiles[ap.LawyerProfileID]; ok {
				cp.LawyerProfile = *p
			}
			out = append(out, cp)
		}
	}
	return out, nil
}

// activeCount reports active appointments for a tuple; used to assert the
// uniqueness invariant after concurrent booking.
func (r *fakeRepo) activeCount(lawyerProfileID uint, date, timeOfDay string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, ap := range r.appointments {
		if ap.LawyerProfileID == lawyerProfileID &&
			ap.AppointmentDate == date &&
			ap.AppointmentTime == timeOfDay &&
			domain.Status(ap.Status).IsActive() {
			n++
		}
	}
	return n
}

var _ domain.Repository = (*fakeRepo)(nil)

// --------------------------------------------------
// Event recorders
// --------------------------------------------------

type notifyRecorder struct {
	mu     sync.Mutex
	events []notify.Event
}

func (r *notifyRecorder) Deliver(ev notify.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *notifyRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func (r *notifyRecorder) snapshot() []notify.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notify.Event(nil), r.events...)
}

type auditRecorder struct {
	mu      sync.Mutex
	actions []string
}

func (r *auditRecorder) Log(_ *uint, action, _ string, _ *uint, _ any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions = append(r.actions, action)
	return nil
}

// --------------------------------------------------
// Test environment
// --------------------------------------------------

const (
	testClientID     = 10
	testLawyerUserID = 70
	testProfileID    = 7
	testServiceID    = 3
)

type env struct {
	repo     *fakeRepo
	notified *notifyRecorder
	audited  *auditRecorder

	book     *BookAppointment
	confirm  *ConfirmAppointment
	cancel   *CancelAppointment
	complete *CompleteAppointment
	list     *ListAppointments
}

func newEnv(t *testing.T) *env {
	t.Helper()

	repo := newFakeRepo()
	repo.profiles[testProfileID] = &models.LawyerProfile{
		ID:       testProfileID,
		UserID:   testLawyerUserID,
		Timezone: "UTC",
	}
	repo.services[testServiceID] = &models.Service{
		ID:              testServiceID,
		LawyerProfileID: testProfileID,
		Name:            "Contract review",
		Active:          true,
	}
	repo.services[4] = &models.Service{
		ID:              4,
		LawyerProfileID: 8,
		Name:            "Tax advice",
		Active:          true,
	}
	repo.services[5] = &models.Service{
		ID:              5,
		LawyerProfileID: testProfileID,
		Name:            "Retired offering",
		Active:          false,
	}
	repo.slots[1] = &models.AvailabilitySlot{
		ID:              1,
		LawyerProfileID: testProfileID,
	}
	repo.slots[2] = &models.AvailabilitySlot{
		ID:              2,
		LawyerProfileID: testProfileID,
		Booked:          true,
	}

	notified := &notifyRecorder{}
	audited := &auditRecorder{}
	nd := notify.NewDispatcher(notified)
	ad := audit.NewDispatcher(audited)

	return &env{
		repo:     repo,
		notified: notified,
		audited:  audited,
		book:     NewBookAppointment(repo, nd, ad),
		confirm:  NewConfirmAppointment(repo, nd, ad),
		cancel:   NewCancelAppointment(repo, nd, ad),
		complete: NewCompleteAppointment(repo, nd, ad),
		list:     NewListAppointments(repo),
	}
}

func futureDate() string {
	return time.Now().AddDate(0, 0, 7).Format("2006-01-02")
}

func baseInput() BookAppointmentInput {
	return BookAppointmentInput{
		ClientID:        testClientID,
		LawyerProfileID: testProfileID,
		ServiceID:       testServiceID,
		Date:            futureDate(),
		Time:            "10:00",
	}
}

// eventually polls for an async condition; dispatchers deliver on a worker
// goroutine.
func eventually(t *testing.T, what string, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}
