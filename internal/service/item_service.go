package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"shareit/internal/apperr"
	"shareit/internal/database"
	"shareit/internal/domain"
	"shareit/internal/events"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type CreateItemRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   *bool  `json:"available"`
	RequestID   *int64 `json:"request_id,omitempty"`
}

// UpdateItemRequest carries a partial update. Nil fields keep the stored
// value.
type UpdateItemRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Available   *bool   `json:"available,omitempty"`
}

type CreateCommentRequest struct {
	Text string `json:"text"`
}

type ItemService struct {
	store    domain.Store
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewItemService(store domain.Store, eventBus domain.EventPublisher, logger *zerolog.Logger) *ItemService {
	return &ItemService{store: store, eventBus: eventBus, logger: logger}
}

func (s *ItemService) Create(ctx context.Context, req CreateItemRequest, ownerID int64) (*models.Item, error) {
	if _, err := s.requireUser(ctx, ownerID); err != nil {
		return nil, err
	}
	if req.RequestID != nil {
		if _, err := s.store.GetRequest(ctx, *req.RequestID); err != nil {
			if errors.Is(err, database.ErrNotFound) {
				return nil, apperr.NotFound("request with id = %d not found", *req.RequestID)
			}
			return nil, err
		}
	}

	item := &models.Item{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     ownerID,
		RequestID:   req.RequestID,
	}
	if req.Available != nil {
		item.Available = *req.Available
	}
	if err := s.store.CreateItem(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("item_id", item.ID).Int64("owner_id", ownerID).Msg("item created")
	return item, nil
}

// Update applies a partial patch. Only the owner may update an item.
func (s *ItemService) Update(ctx context.Context, itemID int64, req UpdateItemRequest, userID int64) (*models.Item, error) {
	if _, err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	item, err := s.requireItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.OwnerID != userID {
		return nil, apperr.AccessDenied("user %d is not the owner of item %d", userID, itemID)
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Available != nil {
		item.Available = *req.Available
	}
	if err := s.store.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// FindByID returns the item with its comments. Booking summaries are attached
// only when the caller owns the item.
func (s *ItemService) FindByID(ctx context.Context, itemID, userID int64) (*models.ItemView, error) {
	item, err := s.requireItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	view := &models.ItemView{Item: *item}
	view.Comments, err = s.store.CommentsByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if view.Comments == nil {
		view.Comments = []models.Comment{}
	}

	if item.OwnerID == userID {
		if err := s.attachBookings(ctx, view, time.Now()); err != nil {
			return nil, err
		}
	}
	return view, nil
}

// FindAllByOwner lists the owner's items with comments and booking summaries.
func (s *ItemService) FindAllByOwner(ctx context.Context, ownerID int64, page models.Page) ([]models.ItemView, error) {
	if _, err := s.requireUser(ctx, ownerID); err != nil {
		return nil, err
	}
	items, err := s.store.ItemsByOwner(ctx, ownerID, page)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	views := make([]models.ItemView, 0, len(items))
	for _, item := range items {
		view := models.ItemView{Item: item}
		view.Comments, err = s.store.CommentsByItem(ctx, item.ID)
		if err != nil {
			return nil, err
		}
		if view.Comments == nil {
			view.Comments = []models.Comment{}
		}
		if err := s.attachBookings(ctx, &view, now); err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// Search finds available items matching text in name or description. A blank
// query returns an empty list without touching the store.
func (s *ItemService) Search(ctx context.Context, text string, page models.Page) ([]models.Item, error) {
	if strings.TrimSpace(text) == "" {
		return []models.Item{}, nil
	}
	items, err := s.store.SearchItems(ctx, text, page)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Item{}
	}
	return items, nil
}

func (s *ItemService) Delete(ctx context.Context, itemID int64) error {
	if _, err := s.requireItem(ctx, itemID); err != nil {
		return err
	}
	return s.store.DeleteItem(ctx, itemID)
}

// CreateComment lets a user comment on an item only after an approved booking
// of that item has finished.
func (s *ItemService) CreateComment(ctx context.Context, itemID, authorID int64, req CreateCommentRequest) (*models.Comment, error) {
	author, err := s.requireUser(ctx, authorID)
	if err != nil {
		return nil, err
	}
	item, err := s.requireItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	finished, err := s.store.FinishedBookingsByBookerAndItem(ctx, authorID, itemID, now)
	if err != nil {
		return nil, err
	}
	if len(finished) == 0 {
		return nil, apperr.Unavailable("user %d has no finished booking of item %d", authorID, itemID)
	}

	comment := &models.Comment{
		Text:      req.Text,
		ItemID:    itemID,
		AuthorID:  authorID,
		CreatedAt: now,
	}
	if err := s.store.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	comment.AuthorName = author.Name

	s.logger.Info().Int64("comment_id", comment.ID).Int64("item_id", itemID).Msg("comment created")
	s.publishCommentEvent(comment, item.Name)
	return comment, nil
}

func (s *ItemService) attachBookings(ctx context.Context, view *models.ItemView, now time.Time) error {
	desc, err := s.store.ApprovedBookingsByItemDesc(ctx, view.ID)
	if err != nil {
		return err
	}
	asc, err := s.store.ApprovedBookingsByItemAsc(ctx, view.ID)
	if err != nil {
		return err
	}
	view.LastBooking = LastBooking(desc, now)
	view.NextBooking = NextBooking(asc, now)
	return nil
}

func (s *ItemService) requireUser(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, apperr.NotFound("user with id = %d not found", id)
		}
		return nil, err
	}
	return user, nil
}

func (s *ItemService) requireItem(ctx context.Context, id int64) (*models.Item, error) {
	item, err := s.store.GetItem(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, apperr.NotFound("item with id = %d not found", id)
		}
		return nil, err
	}
	return item, nil
}

func (s *ItemService) publishCommentEvent(comment *models.Comment, itemName string) {
	if s.eventBus == nil {
		return
	}
	payload := events.CommentEventPayload{
		CommentID: comment.ID,
		ItemID:    comment.ItemID,
		ItemName:  itemName,
		AuthorID:  comment.AuthorID,
		Text:      comment.Text,
	}
	if err := s.eventBus.PublishJSON(events.EventCommentCreated, payload); err != nil {
		s.logger.Error().Err(err).Int64("comment_id", comment.ID).Msg("publish event error")
	}
}
