package request

import (
	"context"
	"strings"

	"github.com/nekogravitycat/item-sharing-backend/internal/pkg/pagination"
	"github.com/nekogravitycat/item-sharing-backend/internal/user"
)

type Service interface {
	Create(ctx context.Context, requesterID, description string) (*ItemRequest, error)
	// ListOwn returns the user's requests with answering items, newest first.
	ListOwn(ctx context.Context, userID string) ([]*ItemRequest, error)
	// ListAll returns other users' requests, newest first, paginated.
	ListAll(ctx context.Context, userID string, page pagination.Params) ([]*ItemRequest, error)
	GetByID(ctx context.Context, requestID, userID string) (*ItemRequest, error)
}

type service struct {
	repo  Repository
	users user.Service
}

func NewService(repo Repository, users user.Service) Service {
	return &service{
		repo:  repo,
		users: users,
	}
}

func (s *service) Create(ctx context.Context, requesterID, description string) (*ItemRequest, error) {
	if _, err := s.users.GetByID(ctx, requesterID); err != nil {
		return nil, err
	}

	if strings.TrimSpace(description) == "" {
		return nil, ErrDescRequired
	}

	req := &ItemRequest{
		Description: description,
		RequesterID: requesterID,
	}

	if err := s.repo.Create(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *service) ListOwn(ctx context.Context, userID string) ([]*ItemRequest, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.ListByRequester(ctx, userID)
}

func (s *service) ListAll(ctx context.Context, userID string, page pagination.Params) ([]*ItemRequest, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	p, err := pagination.New(page)
	if err != nil {
		return nil, err
	}
	return s.repo.ListExcludingRequester(ctx, userID, p)
}

func (s *service) GetByID(ctx context.Context, requestID, userID string) (*ItemRequest, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, requestID)
}
