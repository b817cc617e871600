package service

import (
	"context"
	"errors"
	"time"

	"shareit/internal/apperr"
	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/metrics"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

// CreateBookingRequest is the booking creation input. Temporal validation
// (start < end, both not in the past) happens at the gateway; the service
// enforces the domain invariants.
type CreateBookingRequest struct {
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	ItemID int64     `json:"item_id"`
}

type BookingService struct {
	store    domain.Store
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewBookingService(store domain.Store, eventBus domain.EventPublisher, logger *zerolog.Logger) *BookingService {
	return &BookingService{store: store, eventBus: eventBus, logger: logger}
}

func (s *BookingService) Create(ctx context.Context, req CreateBookingRequest, bookerID int64) (*models.Booking, error) {
	if _, err := s.requireUser(ctx, bookerID); err != nil {
		return nil, err
	}
	item, err := s.requireItem(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID == bookerID {
		return nil, apperr.AccessDenied("user %d can not book his own item", bookerID)
	}
	if !item.Available {
		return nil, apperr.Unavailable("item %d is not available", item.ID)
	}

	booking := &models.Booking{
		Start:    req.Start,
		End:      req.End,
		ItemID:   item.ID,
		BookerID: bookerID,
		Status:   models.StatusWaiting,
	}
	if err := s.store.CreateBooking(ctx, booking); err != nil {
		return nil, err
	}

	metrics.IncBookingCreated()
	s.logger.Info().Int64("booking_id", booking.ID).Int64("item_id", item.ID).Msg("booking created")
	s.publishEvent(events.EventBookingCreated, booking, item)
	return booking, nil
}

// Decide approves or rejects a waiting booking. Only the item owner decides,
// and an approved booking can not be decided again.
func (s *BookingService) Decide(ctx context.Context, bookingID, userID int64, approved bool) (*models.Booking, error) {
	if _, err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	booking, err := s.requireBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	item, err := s.requireItem(ctx, booking.ItemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != userID {
		return nil, apperr.AccessDenied("user %d is not the owner of item %d", userID, item.ID)
	}
	if booking.Status == models.StatusApproved {
		return nil, apperr.Conflict("booking %d is already approved", booking.ID)
	}

	status := models.StatusRejected
	eventType := events.EventBookingRejected
	if approved {
		status = models.StatusApproved
		eventType = events.EventBookingApproved
	}

	if err := s.store.DecideBooking(ctx, bookingID, status); err != nil {
		if errors.Is(err, database.ErrAlreadyDecided) {
			return nil, apperr.Conflict("booking %d is already approved", booking.ID)
		}
		return nil, err
	}

	booking.Status = status
	s.logger.Info().Int64("booking_id", booking.ID).Str("status", string(status)).Msg("booking decided")
	s.publishEvent(eventType, booking, item)
	return booking, nil
}

// FindByID restricts visibility to the booker and the item owner.
func (s *BookingService) FindByID(ctx context.Context, bookingID, userID int64) (*models.Booking, error) {
	if _, err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	booking, err := s.requireBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	item, err := s.requireItem(ctx, booking.ItemID)
	if err != nil {
		return nil, err
	}
	if booking.BookerID != userID && item.OwnerID != userID {
		return nil, apperr.AccessDenied("user %d is neither booker nor owner of booking %d", userID, bookingID)
	}
	return booking, nil
}

func (s *BookingService) ListByBooker(ctx context.Context, state string, bookerID int64, page models.Page) ([]models.Booking, error) {
	if _, err := s.requireUser(ctx, bookerID); err != nil {
		return nil, err
	}
	parsed, err := ParseSearchState(state)
	if err != nil {
		return nil, err
	}
	bookings, err := s.store.BookingsByBooker(ctx, bookerID, page)
	if err != nil {
		return nil, err
	}
	return FilterByState(bookings, parsed, time.Now())
}

func (s *BookingService) ListByOwner(ctx context.Context, state string, ownerID int64, page models.Page) ([]models.Booking, error) {
	if _, err := s.requireUser(ctx, ownerID); err != nil {
		return nil, err
	}
	parsed, err := ParseSearchState(state)
	if err != nil {
		return nil, err
	}
	bookings, err := s.store.BookingsByOwner(ctx, ownerID, page)
	if err != nil {
		return nil, err
	}
	return FilterByState(bookings, parsed, time.Now())
}

func (s *BookingService) Delete(ctx context.Context, bookingID int64) error {
	if _, err := s.requireBooking(ctx, bookingID); err != nil {
		return err
	}
	return s.store.DeleteBooking(ctx, bookingID)
}

// AllByOwner collects every booking of the owner's items, unpaginated, for
// the report export.
func (s *BookingService) AllByOwner(ctx context.Context, ownerID int64) ([]models.Booking, []models.Item, error) {
	if _, err := s.requireUser(ctx, ownerID); err != nil {
		return nil, nil, err
	}
	items, err := s.store.ItemsByOwner(ctx, ownerID, models.Page{From: 0, Size: 1 << 30})
	if err != nil {
		return nil, nil, err
	}
	bookings, err := s.store.BookingsByOwner(ctx, ownerID, models.Page{From: 0, Size: 1 << 30})
	if err != nil {
		return nil, nil, err
	}
	return bookings, items, nil
}

func (s *BookingService) requireUser(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, apperr.NotFound("user with id = %d not found", id)
		}
		return nil, err
	}
	return user, nil
}

func (s *BookingService) requireItem(ctx context.Context, id int64) (*models.Item, error) {
	item, err := s.store.GetItem(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, apperr.NotFound("item with id = %d not found", id)
		}
		return nil, err
	}
	return item, nil
}

func (s *BookingService) requireBooking(ctx context.Context, id int64) (*models.Booking, error) {
	booking, err := s.store.GetBooking(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, apperr.NotFound("booking with id = %d not found", id)
		}
		return nil, err
	}
	return booking, nil
}

func (s *BookingService) publishEvent(eventType string, booking *models.Booking, item *models.Item) {
	if s.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID: booking.ID,
		ItemID:    item.ID,
		ItemName:  item.Name,
		BookerID:  booking.BookerID,
		Start:     booking.Start,
		End:       booking.End,
		Status:    string(booking.Status),
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Int64("booking_id", booking.ID).Msg("publish event error")
	}
}
