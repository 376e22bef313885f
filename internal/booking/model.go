package booking

import (
	"context"
	"time"

	"github.com/nekogravitycat/item-sharing-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/item-sharing-backend/internal/pkg/pagination"
)

var (
	ErrNotFound         = apperror.NotFound("booking not found")
	ErrInvalidTimeRange = apperror.Validation("end time must be strictly after start time")
	ErrOwnBooking       = apperror.PermissionDenied("item can not be booked by its owner")
	ErrItemUnavailable  = apperror.PermissionDenied("item is not available for booking")
	ErrAlreadyCancelled = apperror.Conflict("booking was cancelled")
	ErrAlreadyDecided   = apperror.Conflict("booking was decided already")
	ErrUnsupportedState = apperror.UnsupportedState("Unknown state: UNSUPPORTED_STATUS")
)

// Status is the lifecycle state of a booking. A booking is created WAITING,
// the item's owner moves it to APPROVED or REJECTED exactly once, and
// CANCELED is a terminal state no owner decision can leave or produce.
type Status string

const (
	StatusWaiting  Status = "WAITING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
	StatusCanceled Status = "CANCELED"
)

// Booking is a reservation request for an item over a time window.
// Item and booker attributes are denormalized from the joined rows;
// only Status ever changes after creation.
type Booking struct {
	ID          string
	Start       time.Time
	End         time.Time
	ItemID      string
	ItemName    string
	ItemOwnerID string
	BookerID    string
	BookerName  string
	Status      Status
	CreatedAt   time.Time
}

// State names a bucket of a user's booking history.
type State string

const (
	StateAll      State = "ALL"
	StateCurrent  State = "CURRENT"
	StatePast     State = "PAST"
	StateFuture   State = "FUTURE"
	StateWaiting  State = "WAITING"
	StateRejected State = "REJECTED"
)

// ParseState maps the incoming state string onto a State. Matching is
// case-sensitive and an unknown value is an explicit failure, never a
// silent fallback to ALL.
func ParseState(s string) (State, error) {
	switch State(s) {
	case StateAll, StateCurrent, StatePast, StateFuture, StateWaiting, StateRejected:
		return State(s), nil
	default:
		return "", ErrUnsupportedState
	}
}

// Role selects whose bookings a listing covers: the ones a user requested
// or the ones made against the user's items.
type Role int

const (
	RoleBooker Role = iota
	RoleOwner
)

// Filter is the repository predicate for listings. Time bounds follow the
// state-bucket semantics: StartAtOrBefore is start <= t, StartAfter is
// start > t, EndBefore is end < t, EndAfter is end > t.
type Filter struct {
	BookerID        string
	ItemOwnerID     string
	Status          Status
	StartAtOrBefore *time.Time
	StartAfter      *time.Time
	EndBefore       *time.Time
	EndAfter        *time.Time
	Page            pagination.Page
}

// FirstQuery asks for the single first booking of an item ordered by start
// time, optionally narrowed by booker, time bounds and status (in)equality.
type FirstQuery struct {
	ItemID      string
	BookerID    string
	StartBefore *time.Time
	StartAfter  *time.Time
	EndBefore   *time.Time
	Status      Status
	NotStatus   Status
	Ascending   bool
}

// ItemRef is the read-only slice of an item the lifecycle needs.
type ItemRef struct {
	ID        string
	Name      string
	OwnerID   string
	Available bool
}

// UserRef is the read-only slice of a user the lifecycle needs.
type UserRef struct {
	ID   string
	Name string
}

// ItemLookup resolves items owned by the item module.
type ItemLookup interface {
	FindItem(ctx context.Context, id string) (*ItemRef, error)
}

// UserLookup resolves users owned by the user module.
type UserLookup interface {
	FindUser(ctx context.Context, id string) (*UserRef, error)
}
