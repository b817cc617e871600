package service

import (
	"context"
	"errors"
	"time"

	"shareit/internal/apperr"
	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type CreateRequestRequest struct {
	Description string `json:"description"`
}

type RequestService struct {
	store  domain.Store
	logger *zerolog.Logger
}

func NewRequestService(store domain.Store, logger *zerolog.Logger) *RequestService {
	return &RequestService{store: store, logger: logger}
}

func (s *RequestService) Create(ctx context.Context, req CreateRequestRequest, requesterID int64) (*models.ItemRequest, error) {
	if _, err := s.requireUser(ctx, requesterID); err != nil {
		return nil, err
	}

	request := &models.ItemRequest{
		Description: req.Description,
		RequesterID: requesterID,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.store.CreateRequest(ctx, request); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("request_id", request.ID).Int64("requester_id", requesterID).Msg("item request created")
	return request, nil
}

// FindByRequester lists the user's own requests, newest first, each with the
// items offered in answer.
func (s *RequestService) FindByRequester(ctx context.Context, requesterID int64) ([]models.ItemRequestView, error) {
	if _, err := s.requireUser(ctx, requesterID); err != nil {
		return nil, err
	}
	requests, err := s.store.RequestsByRequester(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	return s.buildViews(ctx, requests)
}

// FindFromOthers pages through other users' requests, newest first.
func (s *RequestService) FindFromOthers(ctx context.Context, userID int64, page models.Page) ([]models.ItemRequestView, error) {
	if _, err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	requests, err := s.store.RequestsFromOthers(ctx, userID, page)
	if err != nil {
		return nil, err
	}
	return s.buildViews(ctx, requests)
}

func (s *RequestService) FindByID(ctx context.Context, requestID, userID int64) (*models.ItemRequestView, error) {
	if _, err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	request, err := s.store.GetRequest(ctx, requestID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, apperr.NotFound("request with id = %d not found", requestID)
		}
		return nil, err
	}

	view := models.ItemRequestView{ItemRequest: *request}
	view.Items, err = s.itemsFor(ctx, request.ID)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (s *RequestService) buildViews(ctx context.Context, requests []models.ItemRequest) ([]models.ItemRequestView, error) {
	views := make([]models.ItemRequestView, 0, len(requests))
	for _, request := range requests {
		view := models.ItemRequestView{ItemRequest: request}
		items, err := s.itemsFor(ctx, request.ID)
		if err != nil {
			return nil, err
		}
		view.Items = items
		views = append(views, view)
	}
	return views, nil
}

func (s *RequestService) itemsFor(ctx context.Context, requestID int64) ([]models.Item, error) {
	items, err := s.store.ItemsByRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Item{}
	}
	return items, nil
}

func (s *RequestService) requireUser(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, apperr.NotFound("user with id = %d not found", id)
		}
		return nil, err
	}
	return user, nil
}
