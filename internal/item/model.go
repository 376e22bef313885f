package item

import (
	"context"
	"time"

	"github.com/nekogravitycat/item-sharing-backend/internal/pkg/apperror"
)

var (
	ErrNotFound       = apperror.NotFound("item not found")
	ErrNameRequired   = apperror.Validation("name is required")
	ErrDescRequired   = apperror.Validation("description is required")
	ErrTextRequired   = apperror.Validation("comment text is required")
	ErrDidNotBookItem = apperror.Validation("user did not book this item")
)

// Item is a thing a user shares with others. Available gates booking
// creation; it is owned by the item's owner and never derived from bookings.
type Item struct {
	ID          string
	OwnerID     string
	Name        string
	Description string
	Available   bool
	RequestID   *string // item request this item answers, if any
	CreatedAt   time.Time
}

// Comment is a review left by a user who completed a booking of the item.
type Comment struct {
	ID         string
	ItemID     string
	AuthorID   string
	AuthorName string
	Text       string
	Created    time.Time
}

// View is an item as presented to a caller: the owner additionally sees the
// last and next booking of the item.
type View struct {
	Item
	LastBooking *BookingBrief
	NextBooking *BookingBrief
	Comments    []*Comment
}

// BookingBrief is the slice of a booking the item module needs for
// enrichment and comment gating.
type BookingBrief struct {
	ID       string
	BookerID string
	Start    time.Time
	End      time.Time
}

// BookingProjector answers booking questions about an item. Implemented by
// the booking module; defined here so item does not depend on it.
type BookingProjector interface {
	Last(ctx context.Context, itemID string) (*BookingBrief, error)
	Next(ctx context.Context, itemID string) (*BookingBrief, error)
	Completed(ctx context.Context, itemID, userID string) (*BookingBrief, error)
}
