// Package notify decouples booking creation from notification delivery. The
// core only enqueues a job row; the delivery collaborator drains the queue.
package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"questbook/internal/pkg/clock"
)

const enqueueTimeout = 5 * time.Second

type JobQueue interface {
	CreateJob(ctx context.Context, kind, topic string, payload []byte, runAt time.Time) error
}

type Notifier struct {
	queue JobQueue
	clock clock.Clock
}

func New(queue JobQueue, clk clock.Clock) *Notifier {
	return &Notifier{queue: queue, clock: clk}
}

// BookingCreated enqueues asynchronously with a detached context so a slow
// queue never stalls the request, and a failed enqueue never fails a booking
// that is already committed.
func (n *Notifier) BookingCreated(bookingID uuid.UUID, sequenceNumber int64) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), enqueueTimeout)
		defer cancel()

		payload, err := json.Marshal(map[string]any{
			"booking_id":      bookingID,
			"sequence_number": sequenceNumber,
		})
		if err != nil {
			slog.Error("failed to marshal booking notification", "booking_id", bookingID, "error", err)
			return
		}
		if err := n.queue.CreateJob(ctx, "booking_created", "bookings", payload, n.clock.Now()); err != nil {
			slog.Error("failed to enqueue booking notification", "booking_id", bookingID, "error", err)
		}
	}()
}
