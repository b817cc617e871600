package service

import (
	"context"
	"io"
	"time"

	"shareit/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
)

func testLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

type mockStore struct {
	mock.Mock
}

func (m *mockStore) CreateUser(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *mockStore) GetUser(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *mockStore) UpdateUser(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *mockStore) DeleteUser(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}
func (m *mockStore) AllUsers(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *mockStore) CreateItem(ctx context.Context, item *models.Item) error {
	return m.Called(ctx, item).Error(0)
}
func (m *mockStore) GetItem(ctx context.Context, id int64) (*models.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Item), args.Error(1)
}
func (m *mockStore) UpdateItem(ctx context.Context, item *models.Item) error {
	return m.Called(ctx, item).Error(0)
}
func (m *mockStore) DeleteItem(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}
func (m *mockStore) ItemsByOwner(ctx context.Context, ownerID int64, page models.Page) ([]models.Item, error) {
	args := m.Called(ctx, ownerID, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Item), args.Error(1)
}
func (m *mockStore) SearchItems(ctx context.Context, text string, page models.Page) ([]models.Item, error) {
	args := m.Called(ctx, text, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Item), args.Error(1)
}
func (m *mockStore) ItemsByRequest(ctx context.Context, requestID int64) ([]models.Item, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Item), args.Error(1)
}

func (m *mockStore) CreateBooking(ctx context.Context, booking *models.Booking) error {
	return m.Called(ctx, booking).Error(0)
}
func (m *mockStore) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}
func (m *mockStore) DecideBooking(ctx context.Context, id int64, status models.BookingStatus) error {
	return m.Called(ctx, id, status).Error(0)
}
func (m *mockStore) DeleteBooking(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}
func (m *mockStore) BookingsByBooker(ctx context.Context, bookerID int64, page models.Page) ([]models.Booking, error) {
	args := m.Called(ctx, bookerID, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Booking), args.Error(1)
}
func (m *mockStore) BookingsByOwner(ctx context.Context, ownerID int64, page models.Page) ([]models.Booking, error) {
	args := m.Called(ctx, ownerID, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Booking), args.Error(1)
}
func (m *mockStore) ApprovedBookingsByItemAsc(ctx context.Context, itemID int64) ([]models.Booking, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Booking), args.Error(1)
}
func (m *mockStore) ApprovedBookingsByItemDesc(ctx context.Context, itemID int64) ([]models.Booking, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Booking), args.Error(1)
}
func (m *mockStore) FinishedBookingsByBookerAndItem(ctx context.Context, bookerID, itemID int64, before time.Time) ([]models.Booking, error) {
	args := m.Called(ctx, bookerID, itemID, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Booking), args.Error(1)
}

func (m *mockStore) CreateComment(ctx context.Context, comment *models.Comment) error {
	return m.Called(ctx, comment).Error(0)
}
func (m *mockStore) CommentsByItem(ctx context.Context, itemID int64) ([]models.Comment, error) {
	args := m.Called(ctx, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Comment), args.Error(1)
}

func (m *mockStore) CreateRequest(ctx context.Context, request *models.ItemRequest) error {
	return m.Called(ctx, request).Error(0)
}
func (m *mockStore) GetRequest(ctx context.Context, id int64) (*models.ItemRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ItemRequest), args.Error(1)
}
func (m *mockStore) RequestsByRequester(ctx context.Context, requesterID int64) ([]models.ItemRequest, error) {
	args := m.Called(ctx, requesterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ItemRequest), args.Error(1)
}
func (m *mockStore) RequestsFromOthers(ctx context.Context, userID int64, page models.Page) ([]models.ItemRequest, error) {
	args := m.Called(ctx, userID, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ItemRequest), args.Error(1)
}
