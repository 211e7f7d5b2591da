package notify

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lexagenda/booking-api/internal/models"
)

// Channel is the redis pub/sub channel consumed by the delivery collaborator.
const Channel = "notifications"

// Sink persists a notification row and publishes the event as JSON. Persist
// failures are errors; publish failures are tolerated (the row is the source
// of truth, the channel is a best-effort fan-out).
type Sink struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewSink(db *gorm.DB, rdb *redis.Client) *Sink {
	return &Sink{db: db, rdb: rdb}
}

type wireEvent struct {
	EventID string    `json:"event_id"`
	UserID  uint      `json:"user_id"`
	Type    string    `json:"type"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
	SentAt  time.Time `json:"sent_at"`
}

func (s *Sink) Deliver(ev Event) error {
	n := models.Notification{
		UserID:  ev.UserID,
		Type:    ev.Type,
		Title:   ev.Title,
		Message: ev.Message,
	}

	if err := s.db.Create(&n).Error; err != nil {
		return err
	}

	if s.rdb == nil {
		return nil
	}

	payload, err := json.Marshal(wireEvent{
		EventID: uuid.NewString(),
		UserID:  ev.UserID,
		Type:    ev.Type,
		Title:   ev.Title,
		Message: ev.Message,
		SentAt:  time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	// best effort
	_ = s.rdb.Publish(ctx, Channel, payload).Err()

	return nil
}
