package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	domain "github.com/lexagenda/booking-api/internal/domain/booking"
	"github.com/lexagenda/booking-api/internal/httperr"
	"github.com/lexagenda/booking-api/internal/models"
)

func TestBookSuccess(t *testing.T) {
	e := newEnv(t)

	ap, err := e.book.Execute(context.Background(), baseInput())
	if err != nil {
		t.Fatalf("book: %v", err)
	}

	if ap.Status != string(domain.StatusPending) {
		t.Errorf("status = %s, want pending", ap.Status)
	}
	if ap.MeetingType != models.MeetingInPerson {
		t.Errorf("meeting type = %s, want default in-person", ap.MeetingType)
	}
	if ap.ID == 0 {
		t.Error("appointment not persisted")
	}

	eventually(t, "two notifications", func() bool { return e.notified.count() == 2 })

	var clientSeen, lawyerSeen bool
	for _, ev := range e.notified.snapshot() {
		switch {
		case ev.UserID == testClientID && ev.Type == models.NotifAppointmentBooked:
			clientSeen = true
		case ev.UserID == testLawyerUserID && ev.Type == models.NotifAppointmentRequest:
			lawyerSeen = true
		}
	}
	if !clientSeen || !lawyerSeen {
		t.Errorf("notifications = %+v, want booked for client and request for lawyer", e.notified.snapshot())
	}
}

func TestBookDuplicateTuple(t *testing.T) {
	e := newEnv(t)
	in := baseInput()

	if _, err := e.book.Execute(context.Background(), in); err != nil {
		t.Fatalf("first book: %v", err)
	}

	in.ClientID = 11
	_, err := e.book.Execute(context.Background(), in)
	if !httperr.IsBusiness(err, httperr.CodeSlotTaken) {
		t.Fatalf("expected slot_taken, got %v", err)
	}

	if got := e.repo.activeCount(testProfileID, in.Date, in.Time); got != 1 {
		t.Errorf("active appointments for tuple = %d, want 1", got)
	}
}

func TestBookPastDate(t *testing.T) {
	e := newEnv(t)
	in := baseInput()
	in.Date = time.Now().AddDate(0, 0, -1).Format("2006-01-02")

	_, err := e.book.Execute(context.Background(), in)
	if !httperr.IsBusiness(err, httperr.CodePastDate) {
		t.Fatalf("expected past_date, got %v", err)
	}
	if got := e.repo.activeCount(testProfileID, in.Date, in.Time); got != 0 {
		t.Errorf("appointment created despite past date")
	}
}

func TestBookValidation(t *testing.T) {
	e := newEnv(t)

	tests := []struct {
		name     string
		mutate   func(*BookAppointmentInput)
		wantCode string
	}{
		{"missing lawyer", func(in *BookAppointmentInput) { in.LawyerProfileID = 0 }, httperr.CodeInvalidRequest},
		{"missing service", func(in *BookAppointmentInput) { in.ServiceID = 0 }, httperr.CodeInvalidRequest},
		{"missing date", func(in *BookAppointmentInput) { in.Date = "" }, httperr.CodeInvalidRequest},
		{"missing time", func(in *BookAppointmentInput) { in.Time = "" }, httperr.CodeInvalidRequest},
		{"bad date format", func(in *BookAppointmentInput) { in.Date = "01/06/2030" }, httperr.CodeInvalidRequest},
		{"bad meeting type", func(in *BookAppointmentInput) { in.MeetingType = "telepathy" }, httperr.CodeInvalidRequest},
		{"unknown lawyer", func(in *BookAppointmentInput) { in.LawyerProfileID = 99 }, httperr.CodeNotFound},
		{"unknown service", func(in *BookAppointmentInput) { in.ServiceID = 99 }, httperr.CodeServiceNotFound},
		{"inactive service", func(in *BookAppointmentInput) { in.ServiceID = 5 }, httperr.CodeServiceInactive},
		{"foreign service", func(in *BookAppointmentInput) { in.ServiceID = 4 }, httperr.CodeServiceMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := baseInput()
			tt.mutate(&in)

			_, err := e.book.Execute(context.Background(), in)
			if !httperr.IsBusiness(err, tt.wantCode) {
				t.Fatalf("expected %s, got %v", tt.wantCode, err)
			}
		})
	}
}

func TestBookWithSlot(t *testing.T) {
	e := newEnv(t)
	slotID := uint(1)
	in := baseInput()
	in.AvailabilitySlotID = &slotID

	ap, err := e.book.Execute(context.Background(), in)
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	if ap.AvailabilitySlotID == nil || *ap.AvailabilitySlotID != slotID {
		t.Errorf("slot id not recorded on appointment")
	}

	slot, _ := e.repo.GetSlot(context.Background(), slotID)
	if !slot.Booked {
		t.Error("slot not marked booked")
	}
}

func TestBookSlotErrors(t *testing.T) {
	e := newEnv(t)

	booked := uint(2)
	in := baseInput()
	in.AvailabilitySlotID = &booked
	_, err := e.book.Execute(context.Background(), in)
	if !httperr.IsBusiness(err, httperr.CodeSlotAlreadyBooked) {
		t.Fatalf("expected slot_already_booked, got %v", err)
	}

	missing := uint(99)
	in = baseInput()
	in.AvailabilitySlotID = &missing
	_, err = e.book.Execute(context.Background(), in)
	if !httperr.IsBusiness(err, httperr.CodeSlotNotFound) {
		t.Fatalf("expected slot_not_found, got %v", err)
	}
}

func TestConcurrentBookingSingleWinner(t *testing.T) {
	e := newEnv(t)
	in := baseInput()

	const n = 16

	var wg sync.WaitGroup
	errs := make([]error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := in
			req.ClientID = uint(100 + i)
			_, errs[i] = e.book.Execute(context.Background(), req)
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case httperr.IsBusiness(err, httperr.CodeSlotTaken):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if wins != 1 {
		t.Fatalf("winners = %d, want exactly 1", wins)
	}
	if got := e.repo.activeCount(testProfileID, in.Date, in.Time); got != 1 {
		t.Fatalf("active appointments for tuple = %d, want 1", got)
	}
}

func TestListIsRoleScoped(t *testing.T) {
	e := newEnv(t)

	if _, err := e.book.Execute(context.Background(), baseInput()); err != nil {
		t.Fatalf("book: %v", err)
	}

	other := baseInput()
	other.ClientID = 11
	other.Time = "11:00"
	if _, err := e.book.Execute(context.Background(), other); err != nil {
		t.Fatalf("book second: %v", err)
	}

	clientID := uint(testClientID)
	mine, total, err := e.list.Execute(context.Background(), domain.ListFilter{ClientID: &clientID})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 1 || len(mine) != 1 || mine[0].ClientID != clientID {
		t.Errorf("client list = %d items (total %d), want only own", len(mine), total)
	}

	profileID := uint(testProfileID)
	all, total, err := e.list.Execute(context.Background(), domain.ListFilter{LawyerProfileID: &profileID})
	if err != nil {
		t.Fatalf("list lawyer: %v", err)
	}
	if total != 2 || len(all) != 2 {
		t.Errorf("lawyer list = %d items (total %d), want 2", len(all), total)
	}
}
