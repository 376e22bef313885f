package item

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
	Create(ctx context.Context, it *Item) error
	GetByID(ctx context.Context, id string) (*Item, error)
	GetByIDForOwner(ctx context.Context, id, ownerID string) (*Item, error)
	ListByOwner(ctx context.Context, ownerID string, page pagination.Page) ([]*Item, error)
	// Search matches available items whose name or description contains the
	// (lowercased) text.
	Search(ctx context.Context, text string, page pagination.Page) ([]*Item, error)
	Update(ctx context.Context, it *Item) error
	Delete(ctx context.Context, id string) error
}

// CommentRepository stores reviews left on items.
type CommentRepository interface {
	Create(ctx context.Context, c *Comment) error
	// ListByItem returns the item's comments, newest first.
	ListByItem(ctx context.Context, itemID string) ([]*Comment, error)
}

var itemColumns = []string{"id", "owner_id", "name", "description", "available", "request_id", "created_at"}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, it *Item) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.items").
		Columns("owner_id", "name", "description", "available", "request_id").
		Values(it.OwnerID, it.Name, it.Description, it.Available, it.RequestID).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create item query failed: %w", err)
	}

	return r.pool.QueryRow(ctx, query, args...).Scan(&it.ID, &it.CreatedAt)
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Item, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

func (r *pgxRepository) GetByIDForOwner(ctx context.Context, id, ownerID string) (*Item, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id, "owner_id": ownerID})
}

func (r *pgxRepository) getOne(ctx context.Context, pred squirrel.Sqlizer) (*Item, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(itemColumns...).
		From("public.items").
		Where(pred).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get item query failed: %w", err)
	}

	var it Item
	if err := r.pool.QueryRow(ctx, query, args...).
		Scan(&it.ID, &it.OwnerID, &it.Name, &it.Description, &it.Available, &it.RequestID, &it.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get item failed: %w", err)
	}
	return &it, nil
}

func (r *pgxRepository) ListByOwner(ctx context.Context, ownerID string, page pagination.Page) ([]*Item, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(itemColumns...).
		From("public.items").
		Where(squirrel.Eq{"owner_id": ownerID}).
		OrderBy("created_at ASC").
		Offset(page.Offset)
	if page.Limited {
		query = query.Limit(page.Limit)
	}

	return r.list(ctx, query, "list items by owner")
}

func (r *pgxRepository) Search(ctx context.Context, text string, page pagination.Page) ([]*Item, error) {
	pattern := "%" + text + "%"

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(itemColumns...).
		From("public.items").
		Where(squirrel.Eq{"available": true}).
		Where(squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"description": pattern},
		}).
		OrderBy("created_at ASC").
		Offset(page.Offset)
	if page.Limited {
		query = query.Limit(page.Limit)
	}

	return r.list(ctx, query, "search items")
}

func (r *pgxRepository) list(ctx context.Context, query squirrel.SelectBuilder, op string) ([]*Item, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build %s query failed: %w", op, err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%s failed: %w", op, err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.OwnerID, &it.Name, &it.Description, &it.Available, &it.RequestID, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan item failed: %w", err)
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}

func (r *pgxRepository) Update(ctx context.Context, it *Item) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.items").
		Set("name", it.Name).
		Set("description", it.Description).
		Set("available", it.Available).
		Where(squirrel.Eq{"id": it.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update item query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update item failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.items").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete item query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete item failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type pgxCommentRepository struct {
	pool *pgxpool.Pool
}

func NewPgxCommentRepository(pool *pgxpool.Pool) CommentRepository {
	return &pgxCommentRepository{pool: pool}
}

func (r *pgxCommentRepository) Create(ctx context.Context, c *Comment) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.comments").
		Columns("item_id", "author_id", "text").
		Values(c.ItemID, c.AuthorID, c.Text).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create comment query failed: %w", err)
	}

	return r.pool.QueryRow(ctx, query, args...).Scan(&c.ID, &c.Created)
}

func (r *pgxCommentRepository) ListByItem(ctx context.Context, itemID string) ([]*Comment, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	sql, args, err := psql.Select("c.id", "c.item_id", "c.author_id", "u.name", "c.text", "c.created_at").
		From("public.comments c").
		Join("public.users u ON c.author_id = u.id").
		Where(squirrel.Eq{"c.item_id": itemID}).
		OrderBy("c.created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list comments query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list comments failed: %w", err)
	}
	defer rows.Close()

	var comments []*Comment
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.ItemID, &c.AuthorID, &c.AuthorName, &c.Text, &c.Created); err != nil {
			return nil, fmt.Errorf("scan comment failed: %w", err)
		}
		comments = append(comments, &c)
	}
	return comments, rows.Err()
}
