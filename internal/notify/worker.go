package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/metrics"

	"github.com/rs/zerolog"
)

// Worker drains queued notification texts and delivers them with retries so a
// flaky chat API never blocks the request path.
type Worker struct {
	notifier domain.Notifier
	retry    RetryPolicy
	queue    chan string
	logger   *zerolog.Logger
}

func NewWorker(notifier domain.Notifier, retry RetryPolicy, logger *zerolog.Logger) *Worker {
	if retry.MaxAttempts == 0 {
		retry = DefaultRetryPolicy()
	}
	return &Worker{
		notifier: notifier,
		retry:    retry,
		queue:    make(chan string, 128),
		logger:   logger,
	}
}

// Bind subscribes the worker to booking and comment events on the bus.
func (w *Worker) Bind(bus *events.EventBus) {
	for _, eventType := range []string{
		events.EventBookingCreated,
		events.EventBookingApproved,
		events.EventBookingRejected,
	} {
		bus.Subscribe(eventType, w.onBookingEvent)
	}
	bus.Subscribe(events.EventCommentCreated, w.onCommentEvent)
}

// Start runs the delivery loop until ctx is canceled.
func (w *Worker) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case text := <-w.queue:
				w.deliver(ctx, text)
			}
		}
	}()
}

// Enqueue schedules a message without blocking; a full queue drops it.
func (w *Worker) Enqueue(text string) {
	select {
	case w.queue <- text:
	default:
		metrics.IncNotification("dropped")
		w.logger.Warn().Msg("notification queue full, message dropped")
	}
}

func (w *Worker) deliver(ctx context.Context, text string) {
	var lastErr error
	for attempt := 1; attempt <= w.retry.MaxAttempts; attempt++ {
		if lastErr = w.notifier.Notify(ctx, text); lastErr == nil {
			metrics.IncNotification("ok")
			return
		}
		w.logger.Warn().Err(lastErr).Int("attempt", attempt).Msg("notification delivery failed")

		select {
		case <-ctx.Done():
			return
		case <-time.After(w.retry.Delay(attempt)):
		}
	}
	metrics.IncNotification("error")
	w.logger.Error().Err(lastErr).Msg("notification dropped after retries")
}

func (w *Worker) onBookingEvent(event *events.Event) error {
	var payload events.BookingEventPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return fmt.Errorf("decode booking event: %w", err)
	}

	var text string
	switch event.Type {
	case events.EventBookingCreated:
		text = fmt.Sprintf("New booking #%d: %q for %s - %s, booker %d",
			payload.BookingID, payload.ItemName,
			payload.Start.Format("2006-01-02 15:04"), payload.End.Format("2006-01-02 15:04"),
			payload.BookerID)
	case events.EventBookingApproved:
		text = fmt.Sprintf("Booking #%d for %q approved", payload.BookingID, payload.ItemName)
	case events.EventBookingRejected:
		text = fmt.Sprintf("Booking #%d for %q rejected", payload.BookingID, payload.ItemName)
	default:
		return nil
	}

	w.Enqueue(text)
	return nil
}

func (w *Worker) onCommentEvent(event *events.Event) error {
	var payload events.CommentEventPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return fmt.Errorf("decode comment event: %w", err)
	}
	w.Enqueue(fmt.Sprintf("New comment on %q from user %d: %s", payload.ItemName, payload.AuthorID, payload.Text))
	return nil
}
