package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)

	// GetByIDForOwner looks up a booking scoped to bookings whose item is
	// owned by ownerID. A booking on another owner's item is ErrNotFound.
	GetByIDForOwner(ctx context.Context, id, ownerID string) (*Booking, error)

	// UpdateStatus flips the status only if the stored status still equals
	// from, and reports whether a row was written. This is the single
	// read-modify-write point of the state machine.
	UpdateStatus(ctx context.Context, id string, from, to Status) (bool, error)

	// List returns bookings matching the filter ordered by start time
	// descending.
	List(ctx context.Context, f Filter) ([]*Booking, error)

	// First returns the first booking matching the query ordered by start
	// time, or nil when none matches.
	First(ctx context.Context, q FirstQuery) (*Booking, error)
}

var bookingColumns = []string{
	"b.id", "b.start_time", "b.end_time",
	"b.item_id", "i.name", "i.owner_id",
	"b.booker_id", "u.name",
	"b.status", "b.created_at",
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.bookings").
		Columns("item_id", "booker_id", "start_time", "end_time", "status").
		Values(b.ItemID, b.BookerID, b.Start, b.End, b.Status).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	return r.pool.QueryRow(ctx, query, args...).
		Scan(&b.ID, &b.CreatedAt)
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	return r.getOne(ctx, squirrel.Eq{"b.id": id})
}

func (r *pgxRepository) GetByIDForOwner(ctx context.Context, id, ownerID string) (*Booking, error) {
	return r.getOne(ctx, squirrel.And{
		squirrel.Eq{"b.id": id},
		squirrel.Eq{"i.owner_id": ownerID},
	})
}

func (r *pgxRepository) getOne(ctx context.Context, pred squirrel.Sqlizer) (*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(bookingColumns...).
		From("public.bookings b").
		Join("public.items i ON b.item_id = i.id").
		Join("public.users u ON b.booker_id = u.id").
		Where(pred).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	row := r.pool.QueryRow(ctx, query, args...)

	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return b, nil
}

func (r *pgxRepository) UpdateStatus(ctx context.Context, id string, from, to Status) (bool, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.bookings").
		Set("status", to).
		Where(squirrel.Eq{"id": id, "status": from}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build update booking status query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("update booking status failed: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}

func (r *pgxRepository) List(ctx context.Context, f Filter) ([]*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(bookingColumns...).
		From("public.bookings b").
		Join("public.items i ON b.item_id = i.id").
		Join("public.users u ON b.booker_id = u.id")

	if f.BookerID != "" {
		query = query.Where(squirrel.Eq{"b.booker_id": f.BookerID})
	}
	if f.ItemOwnerID != "" {
		query = query.Where(squirrel.Eq{"i.owner_id": f.ItemOwnerID})
	}
	if f.Status != "" {
		query = query.Where(squirrel.Eq{"b.status": f.Status})
	}
	if f.StartAtOrBefore != nil {
		query = query.Where(squirrel.LtOrEq{"b.start_time": *f.StartAtOrBefore})
	}
	if f.StartAfter != nil {
		query = query.Where(squirrel.Gt{"b.start_time": *f.StartAfter})
	}
	if f.EndBefore != nil {
		query = query.Where(squirrel.Lt{"b.end_time": *f.EndBefore})
	}
	if f.EndAfter != nil {
		query = query.Where(squirrel.Gt{"b.end_time": *f.EndAfter})
	}

	query = query.OrderBy("b.start_time DESC").Offset(f.Page.Offset)
	if f.Page.Limited {
		query = query.Limit(f.Page.Limit)
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *pgxRepository) First(ctx context.Context, q FirstQuery) (*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(bookingColumns...).
		From("public.bookings b").
		Join("public.items i ON b.item_id = i.id").
		Join("public.users u ON b.booker_id = u.id").
		Where(squirrel.Eq{"b.item_id": q.ItemID})

	if q.BookerID != "" {
		query = query.Where(squirrel.Eq{"b.booker_id": q.BookerID})
	}
	if q.StartBefore != nil {
		query = query.Where(squirrel.Lt{"b.start_time": *q.StartBefore})
	}
	if q.StartAfter != nil {
		query = query.Where(squirrel.Gt{"b.start_time": *q.StartAfter})
	}
	if q.EndBefore != nil {
		query = query.Where(squirrel.Lt{"b.end_time": *q.EndBefore})
	}
	if q.Status != "" {
		query = query.Where(squirrel.Eq{"b.status": q.Status})
	}
	if q.NotStatus != "" {
		query = query.Where(squirrel.NotEq{"b.status": q.NotStatus})
	}

	order := "b.start_time DESC"
	if q.Ascending {
		order = "b.start_time ASC"
	}

	sql, args, err := query.OrderBy(order).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build first booking query failed: %w", err)
	}

	row := r.pool.QueryRow(ctx, sql, args...)

	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("first booking failed: %w", err)
	}
	return b, nil
}

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	if err := row.Scan(
		&b.ID, &b.Start, &b.End,
		&b.ItemID, &b.ItemName, &b.ItemOwnerID,
		&b.BookerID, &b.BookerName,
		&b.Status, &b.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &b, nil
}
