package user

import (
	"time"

	"github.com/nekogravitycat/item-sharing-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.NotFound("user not found")
	ErrEmailAlreadyUsed = apperror.Conflict("email already used")
	ErrNameRequired     = apperror.Validation("name is required")
	ErrEmailRequired    = apperror.Validation("email is required")
)

// User represents a user in the system. Identity is the only thing the
// booking core ever needs from it.
type User struct {
	ID        string // UUID
	Name      string
	Email     string
	CreatedAt time.Time
}
