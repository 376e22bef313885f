package item

import (
	"context"
	"strings"

	"github.com/nekogravitycat/item-sharing-backend/internal/pkg/pagination"
	"github.com/nekogravitycat/item-sharing-backend/internal/user"
)

type CreateRequest struct {
	Name        string
	Description string
	Available   bool
	RequestID   *string
}

type UpdateRequest struct {
	Name        *string
	Description *string
	Available   *bool
}

type Service interface {
	Create(ctx context.Context, ownerID string, req CreateRequest) (*Item, error)
	// GetByID returns the item with its comments; the owner additionally
	// sees the last and next booking.
	GetByID(ctx context.Context, itemID, userID string) (*View, error)
	// ListByOwner returns the owner's items with booking enrichment,
	// ordered by creation.
	ListByOwner(ctx context.Context, ownerID string, page pagination.Params) ([]*View, error)
	// Search returns available items matching the text in name or
	// description; blank text matches nothing.
	Search(ctx context.Context, text string, page pagination.Params) ([]*View, error)
	Update(ctx context.Context, itemID, ownerID string, req UpdateRequest) (*Item, error)
	Delete(ctx context.Context, itemID, ownerID string) error
	// AddComment records a review; only a user with a completed approved
	// booking of the item may leave one.
	AddComment(ctx context.Context, itemID, authorID, text string) (*Comment, error)
}

type service struct {
	repo      Repository
	comments  CommentRepository
	users     user.Service
	projector BookingProjector
}

func NewService(repo Repository, comments CommentRepository, users user.Service, projector BookingProjector) Service {
	return &service{
		repo:      repo,
		comments:  comments,
		users:     users,
		projector: projector,
	}
}

func (s *service) Create(ctx context.Context, ownerID string, req CreateRequest) (*Item, error) {
	if _, err := s.users.GetByID(ctx, ownerID); err != nil {
		return nil, err
	}

	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrNameRequired
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, ErrDescRequired
	}

	it := &Item{
		OwnerID:     ownerID,
		Name:        req.Name,
		Description: req.Description,
		Available:   req.Available,
		RequestID:   req.RequestID,
	}

	if err := s.repo.Create(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

func (s *service) GetByID(ctx context.Context, itemID, userID string) (*View, error) {
	it, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	// Booking enrichment is owner-only; strangers see just the item and
	// its comments.
	if it.OwnerID == userID {
		return s.enrich(ctx, it)
	}

	comments, err := s.comments.ListByItem(ctx, it.ID)
	if err != nil {
		return nil, err
	}
	return &View{Item: *it, Comments: comments}, nil
}

func (s *service) ListByOwner(ctx context.Context, ownerID string, page pagination.Params) ([]*View, error) {
	if _, err := s.users.GetByID(ctx, ownerID); err != nil {
		return nil, err
	}

	p, err := pagination.New(page)
	if err != nil {
		return nil, err
	}

	// Resolve the page of items first, then enrich each item once.
	items, err := s.repo.ListByOwner(ctx, ownerID, p)
	if err != nil {
		return nil, err
	}

	views := make([]*View, 0, len(items))
	for _, it := range items {
		v, err := s.enrich(ctx, it)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}

func (s *service) Search(ctx context.Context, text string, page pagination.Params) ([]*View, error) {
	if strings.TrimSpace(text) == "" {
		return []*View{}, nil
	}

	p, err := pagination.New(page)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.Search(ctx, strings.ToLower(text), p)
	if err != nil {
		return nil, err
	}

	views := make([]*View, 0, len(items))
	for _, it := range items {
		comments, err := s.comments.ListByItem(ctx, it.ID)
		if err != nil {
			return nil, err
		}
		views = append(views, &View{Item: *it, Comments: comments})
	}
	return views, nil
}

func (s *service) Update(ctx context.Context, itemID, ownerID string, req UpdateRequest) (*Item, error) {
	if _, err := s.users.GetByID(ctx, ownerID); err != nil {
		return nil, err
	}

	// Owner-scoped lookup: another user's item is reported as missing.
	it, err := s.repo.GetByIDForOwner(ctx, itemID, ownerID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, ErrNameRequired
		}
		it.Name = *req.Name
	}
	if req.Description != nil {
		if strings.TrimSpace(*req.Description) == "" {
			return nil, ErrDescRequired
		}
		it.Description = *req.Description
	}
	if req.Available != nil {
		it.Available = *req.Available
	}

	if err := s.repo.Update(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

func (s *service) Delete(ctx context.Context, itemID, ownerID string) error {
	if _, err := s.users.GetByID(ctx, ownerID); err != nil {
		return err
	}

	if _, err := s.repo.GetByIDForOwner(ctx, itemID, ownerID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, itemID)
}

func (s *service) AddComment(ctx context.Context, itemID, authorID, text string) (*Comment, error) {
	author, err := s.users.GetByID(ctx, authorID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(text) == "" {
		return nil, ErrTextRequired
	}

	if _, err := s.repo.GetByID(ctx, itemID); err != nil {
		return nil, err
	}

	// Commenting is gated on a completed approved booking of the item.
	completed, err := s.projector.Completed(ctx, itemID, authorID)
	if err != nil {
		return nil, err
	}
	if completed == nil {
		return nil, ErrDidNotBookItem
	}

	comment := &Comment{
		ItemID:     itemID,
		AuthorID:   author.ID,
		AuthorName: author.Name,
		Text:       text,
	}

	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *service) enrich(ctx context.Context, it *Item) (*View, error) {
	comments, err := s.comments.ListByItem(ctx, it.ID)
	if err != nil {
		return nil, err
	}

	last, err := s.projector.Last(ctx, it.ID)
	if err != nil {
		return nil, err
	}
	next, err := s.projector.Next(ctx, it.ID)
	if err != nil {
		return nil, err
	}

	return &View{
		Item:        *it,
		LastBooking: last,
		NextBooking: next,
		Comments:    comments,
	}, nil
}
