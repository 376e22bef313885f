package request

import (
	"time"

	"github.com/nekogravitycat/item-sharing-backend/internal/pkg/apperror"
)

var (
	ErrNotFound     = apperror.NotFound("item request not found")
	ErrDescRequired = apperror.Validation("description is required")
)

// ItemRequest is a wish for an item nobody listed yet. Owners answer it by
// creating items that reference the request.
type ItemRequest struct {
	ID          string
	Description string
	RequesterID string
	Created     time.Time
	Items       []ItemAnswer
}

// ItemAnswer is an item created in response to a request.
type ItemAnswer struct {
	ID        string
	Name      string
	OwnerID   string
	Available bool
}
