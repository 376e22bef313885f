package booking

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/nekogravitycat/item-sharing-backend/internal/cache"
	"github.com/nekogravitycat/item-sharing-backend/internal/metrics"
	"github.com/nekogravitycat/item-sharing-backend/internal/pkg/pagination"
)

type CreateRequest struct {
	ItemID   string
	BookerID string
	Start    time.Time
	End      time.Time
}

type Service interface {
	// Create persists a new WAITING booking for an existing, available item.
	Create(ctx context.Context, req CreateRequest) (*Booking, error)
	// Decide is the owner-only approve/reject transition of a WAITING booking.
	Decide(ctx context.Context, bookingID, actingUserID string, approve bool) (*Booking, error)
	// GetByID returns a booking to its booker or the item's owner; anyone
	// else learns nothing, not even that the booking exists.
	GetByID(ctx context.Context, bookingID, actingUserID string) (*Booking, error)
	// List returns the state-filtered booking history of a user, as booker
	// or as item owner, ordered by start time descending.
	List(ctx context.Context, role Role, userID, state string, page pagination.Params) ([]*Booking, error)
	// Last returns the item's most recent non-rejected booking that already
	// started, or nil when there is none.
	Last(ctx context.Context, itemID string) (*Booking, error)
	// Next returns the item's nearest non-rejected upcoming booking,
	// or nil when there is none.
	Next(ctx context.Context, itemID string) (*Booking, error)
	// Completed returns an approved booking of the item by the user that has
	// already ended, or nil. A non-nil result makes the user eligible to
	// comment on the item.
	Completed(ctx context.Context, itemID, userID string) (*Booking, error)
}

type service struct {
	repo  Repository
	users UserLookup
	items ItemLookup
	cache cache.Cache
	log   zerolog.Logger

	now func() time.Time
}

func NewService(repo Repository, users UserLookup, items ItemLookup, projCache cache.Cache, log zerolog.Logger) Service {
	return &service{
		repo:  repo,
		users: users,
		items: items,
		cache: projCache,
		log:   log,
		now:   time.Now,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Booking, error) {
	booker, err := s.users.FindUser(ctx, req.BookerID)
	if err != nil {
		return nil, err
	}

	item, err := s.items.FindItem(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}

	if err := validateTimeRange(req.Start, req.End); err != nil {
		return nil, err
	}

	if OwnsItem(item, req.BookerID) {
		return nil, ErrOwnBooking
	}

	// Availability is an attribute of the item, checked only here. It is
	// not recomputed from existing bookings and not re-checked on reads.
	if !item.Available {
		return nil, ErrItemUnavailable
	}

	b := &Booking{
		Start:       req.Start,
		End:         req.End,
		ItemID:      item.ID,
		ItemName:    item.Name,
		ItemOwnerID: item.OwnerID,
		BookerID:    booker.ID,
		BookerName:  booker.Name,
		Status:      StatusWaiting,
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	metrics.IncBookingCreated()
	s.invalidateProjections(ctx, b.ItemID)
	s.log.Info().Str("booking_id", b.ID).Str("item_id", b.ItemID).Str("booker_id", b.BookerID).Msg("booking created")

	return b, nil
}

func (s *service) Decide(ctx context.Context, bookingID, actingUserID string, approve bool) (*Booking, error) {
	if _, err := s.users.FindUser(ctx, actingUserID); err != nil {
		return nil, err
	}

	// Owner-scoped lookup: a booking on someone else's item is reported as
	// missing, so a non-owner can not even learn it exists.
	b, err := s.repo.GetByIDForOwner(ctx, bookingID, actingUserID)
	if err != nil {
		return nil, err
	}

	// Re-check the stored window; a corrupted row fails the same way an
	// invalid creation request does.
	if err := validateTimeRange(b.Start, b.End); err != nil {
		return nil, err
	}

	if b.Status == StatusCanceled {
		return nil, ErrAlreadyCancelled
	}
	if b.Status != StatusWaiting {
		return nil, ErrAlreadyDecided
	}

	to := StatusRejected
	decision := "rejected"
	if approve {
		to = StatusApproved
		decision = "approved"
	}

	// Conditional write keyed on the observed status. Under concurrent
	// decisions exactly one caller flips the row; the other sees zero rows
	// affected and reports the conflict.
	updated, err := s.repo.UpdateStatus(ctx, bookingID, StatusWaiting, to)
	if err != nil {
		return nil, err
	}
	if !updated {
		current, err := s.repo.GetByID(ctx, bookingID)
		if err != nil {
			return nil, err
		}
		if current.Status == StatusCanceled {
			return nil, ErrAlreadyCancelled
		}
		return nil, ErrAlreadyDecided
	}

	b.Status = to
	metrics.IncBookingDecision(decision)
	s.invalidateProjections(ctx, b.ItemID)
	s.log.Info().Str("booking_id", b.ID).Str("owner_id", actingUserID).Str("decision", decision).Msg("booking decided")

	return b, nil
}

func (s *service) GetByID(ctx context.Context, bookingID, actingUserID string) (*Booking, error) {
	if _, err := s.users.FindUser(ctx, actingUserID); err != nil {
		return nil, err
	}

	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !IsBooker(b, actingUserID) && !IsItemOwner(b, actingUserID) {
		return nil, ErrNotFound
	}
	return b, nil
}

func (s *service) List(ctx context.Context, role Role, userID, state string, page pagination.Params) ([]*Booking, error) {
	if _, err := s.users.FindUser(ctx, userID); err != nil {
		return nil, err
	}

	p, err := pagination.New(page)
	if err != nil {
		return nil, err
	}

	st, err := ParseState(state)
	if err != nil {
		return nil, err
	}

	f := Filter{Page: p}
	if role == RoleOwner {
		f.ItemOwnerID = userID
	} else {
		f.BookerID = userID
	}

	now := s.now()
	switch st {
	case StateAll:
	case StateCurrent:
		f.StartAtOrBefore = &now
		f.EndAfter = &now
	case StatePast:
		f.EndBefore = &now
	case StateFuture:
		f.StartAfter = &now
	case StateWaiting:
		f.Status = StatusWaiting
	case StateRejected:
		f.Status = StatusRejected
	}

	return s.repo.List(ctx, f)
}

func (s *service) Last(ctx context.Context, itemID string) (*Booking, error) {
	return s.projection(ctx, "booking:last:"+itemID, func(now time.Time) FirstQuery {
		return FirstQuery{
			ItemID:      itemID,
			StartBefore: &now,
			NotStatus:   StatusRejected,
		}
	})
}

func (s *service) Next(ctx context.Context, itemID string) (*Booking, error) {
	return s.projection(ctx, "booking:next:"+itemID, func(now time.Time) FirstQuery {
		return FirstQuery{
			ItemID:     itemID,
			StartAfter: &now,
			NotStatus:  StatusRejected,
			Ascending:  true,
		}
	})
}

func (s *service) Completed(ctx context.Context, itemID, userID string) (*Booking, error) {
	now := s.now()
	return s.repo.First(ctx, FirstQuery{
		ItemID:    itemID,
		BookerID:  userID,
		EndBefore: &now,
		Status:    StatusApproved,
		Ascending: true,
	})
}

// projection serves the last/next lookups through the cache. Entries carry a
// short TTL because the predicates depend on the current time; writes to an
// item's bookings drop its entries eagerly.
func (s *service) projection(ctx context.Context, key string, query func(now time.Time) FirstQuery) (*Booking, error) {
	if data, ok := s.cache.Get(ctx, key); ok {
		var b Booking
		if err := json.Unmarshal(data, &b); err == nil {
			return &b, nil
		}
	}

	b, err := s.repo.First(ctx, query(s.now()))
	if err != nil || b == nil {
		return nil, err
	}

	if data, err := json.Marshal(b); err == nil {
		s.cache.Set(ctx, key, data)
	}
	return b, nil
}

func (s *service) invalidateProjections(ctx context.Context, itemID string) {
	s.cache.Delete(ctx, "booking:last:"+itemID, "booking:next:"+itemID)
}

func validateTimeRange(start, end time.Time) error {
	if start.IsZero() || end.IsZero() || !end.After(start) {
		return ErrInvalidTimeRange
	}
	return nil
}
