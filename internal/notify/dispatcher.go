package notify

import "log"

// Event is one user-addressed notification fact ("appointment booked",
// "appointment cancelled", ...). Emission is exactly-once per lifecycle
// transition; delivery beyond persistence + publish belongs to an external
// consumer.
type Event struct {
	UserID  uint
	Type    string
	Title   string
	Message string
}

// Deliverer is where dispatched events end up; Sink is the production
// implementation.
type Deliverer interface {
	Deliver(ev Event) error
}

type Dispatcher struct {
	sink  Deliverer
	queue chan Event
}

func NewDispatcher(sink Deliverer) *Dispatcher {
	d := &Dispatcher{
		sink:  sink,
		queue: make(chan Event, 100),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	for ev := range d.queue {
		if err := d.sink.Deliver(ev); err != nil {
			log.Println("notify error:", err)
		}
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	select {
	case d.queue <- ev:
		// queued
	default:
		// full queue must never block a booking response
		log.Println("notify queue full, dropping event")
	}
}
