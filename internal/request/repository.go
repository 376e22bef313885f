package request

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/item-sharing-backend/internal/pkg/pagination"
)

type Repository interface {
	Create(ctx context.Context, req *ItemRequest) error
	GetByID(ctx context.Context, id string) (*ItemRequest, error)
	ListByRequester(ctx context.Context, requesterID string) ([]*ItemRequest, error)
	ListExcludingRequester(ctx context.Context, requesterID string, page pagination.Page) ([]*ItemRequest, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, req *ItemRequest) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.item_requests").
		Columns("description", "requester_id").
		Values(req.Description, req.RequesterID).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create item request query failed: %w", err)
	}

	return r.pool.QueryRow(ctx, query, args...).Scan(&req.ID, &req.Created)
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*ItemRequest, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("id", "description", "requester_id", "created_at").
		From("public.item_requests").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get item request query failed: %w", err)
	}

	var req ItemRequest
	if err := r.pool.QueryRow(ctx, query, args...).
		Scan(&req.ID, &req.Description, &req.RequesterID, &req.Created); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get item request failed: %w", err)
	}

	if err := r.attachItems(ctx, []*ItemRequest{&req}); err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *pgxRepository) ListByRequester(ctx context.Context, requesterID string) ([]*ItemRequest, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select("id", "description", "requester_id", "created_at").
		From("public.item_requests").
		Where(squirrel.Eq{"requester_id": requesterID}).
		OrderBy("created_at DESC")

	return r.list(ctx, query)
}

func (r *pgxRepository) ListExcludingRequester(ctx context.Context, requesterID string, page pagination.Page) ([]*ItemRequest, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select("id", "description", "requester_id", "created_at").
		From("public.item_requests").
		Where(squirrel.NotEq{"requester_id": requesterID}).
		OrderBy("created_at DESC").
		Offset(page.Offset)
	if page.Limited {
		query = query.Limit(page.Limit)
	}

	return r.list(ctx, query)
}

func (r *pgxRepository) list(ctx context.Context, query squirrel.SelectBuilder) ([]*ItemRequest, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list item requests query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list item requests failed: %w", err)
	}
	defer rows.Close()

	var requests []*ItemRequest
	for rows.Next() {
		var req ItemRequest
		if err := rows.Scan(&req.ID, &req.Description, &req.RequesterID, &req.Created); err != nil {
			return nil, fmt.Errorf("scan item request failed: %w", err)
		}
		requests = append(requests, &req)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachItems(ctx, requests); err != nil {
		return nil, err
	}
	return requests, nil
}

// attachItems resolves the answering items for a batch of requests with a
// single query.
func (r *pgxRepository) attachItems(ctx context.Context, requests []*ItemRequest) error {
	if len(requests) == 0 {
		return nil
	}

	ids := make([]string, len(requests))
	byID := make(map[string]*ItemRequest, len(requests))
	for i, req := range requests {
		ids[i] = req.ID
		byID[req.ID] = req
		req.Items = []ItemAnswer{}
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	sql, args, err := psql.Select("request_id", "id", "name", "owner_id", "available").
		From("public.items").
		Where(squirrel.Eq{"request_id": ids}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("build request items query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("list request items failed: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var requestID string
		var it ItemAnswer
		if err := rows.Scan(&requestID, &it.ID, &it.Name, &it.OwnerID, &it.Available); err != nil {
			return fmt.Errorf("scan request item failed: %w", err)
		}
		if req, ok := byID[requestID]; ok {
			req.Items = append(req.Items, it)
		}
	}
	return rows.Err()
}
