package domain

import (
	"context"
	"time"

	"shareit/internal/models"
)

// Store is the persistence contract consumed by the services. The sqlite
// implementation lives in internal/database.
type Store interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id int64) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id int64) error
	AllUsers(ctx context.Context) ([]models.User, error)

	CreateItem(ctx context.Context, item *models.Item) error
	GetItem(ctx context.Context, id int64) (*models.Item, error)
	UpdateItem(ctx context.Context, item *models.Item) error
	DeleteItem(ctx context.Context, id int64) error
	ItemsByOwner(ctx context.Context, ownerID int64, page models.Page) ([]models.Item, error)
	SearchItems(ctx context.Context, text string, page models.Page) ([]models.Item, error)
	ItemsByRequest(ctx context.Context, requestID int64) ([]models.Item, error)

	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	DecideBooking(ctx context.Context, id int64, status models.BookingStatus) error
	DeleteBooking(ctx context.Context, id int64) error
	BookingsByBooker(ctx context.Context, bookerID int64, page models.Page) ([]models.Booking, error)
	BookingsByOwner(ctx context.Context, ownerID int64, page models.Page) ([]models.Booking, error)
	ApprovedBookingsByItemAsc(ctx context.Context, itemID int64) ([]models.Booking, error)
	ApprovedBookingsByItemDesc(ctx context.Context, itemID int64) ([]models.Booking, error)
	FinishedBookingsByBookerAndItem(ctx context.Context, bookerID, itemID int64, before time.Time) ([]models.Booking, error)

	CreateComment(ctx context.Context, comment *models.Comment) error
	CommentsByItem(ctx context.Context, itemID int64) ([]models.Comment, error)

	CreateRequest(ctx context.Context, request *models.ItemRequest) error
	GetRequest(ctx context.Context, id int64) (*models.ItemRequest, error)
	RequestsByRequester(ctx context.Context, requesterID int64) ([]models.ItemRequest, error)
	RequestsFromOthers(ctx context.Context, userID int64, page models.Page) ([]models.ItemRequest, error)
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// RateLimiter answers whether a user is within limit for the window.
type RateLimiter interface {
	CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error)
}

// Notifier delivers a back-office message.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}
