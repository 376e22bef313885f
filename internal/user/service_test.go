package user

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memRepo enforces the same email uniqueness the database schema does.
type memRepo struct {
	mu    sync.Mutex
	users []*User
}

func (r *memRepo) emailTaken(email, exceptID string) bool {
	for _, u := range r.users {
		if u.Email == email && u.ID != exceptID {
			return true
		}
	}
	return false
}

func (r *memRepo) Create(ctx context.Context, u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.emailTaken(u.Email, "") {
		return ErrEmailAlreadyUsed
	}
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now()
	stored := *u
	r.users = append(r.users, &stored)
	return nil
}

func (r *memRepo) GetByID(ctx context.Context, id string) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memRepo) List(ctx context.Context) ([]*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*User, len(r.users))
	for i, u := range r.users {
		copied := *u
		out[i] = &copied
	}
	return out, nil
}

func (r *memRepo) Update(ctx context.Context, u *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.emailTaken(u.Email, u.ID) {
		return ErrEmailAlreadyUsed
	}
	for i, stored := range r.users {
		if stored.ID == u.ID {
			copied := *u
			r.users[i] = &copied
			return nil
		}
	}
	return ErrNotFound
}

func (r *memRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, stored := range r.users {
		if stored.ID == id {
			r.users = append(r.users[:i], r.users[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func TestCreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		svc := NewService(&memRepo{})
		u, err := svc.Create(ctx, CreateRequest{Name: " Alice ", Email: " Alice@Example.COM "})
		require.NoError(t, err)
		assert.Equal(t, "Alice", u.Name)
		assert.Equal(t, "alice@example.com", u.Email)
		assert.NotEmpty(t, u.ID)
	})

	t.Run("BlankName", func(t *testing.T) {
		svc := NewService(&memRepo{})
		_, err := svc.Create(ctx, CreateRequest{Name: "  ", Email: "a@example.com"})
		assert.ErrorIs(t, err, ErrNameRequired)
	})

	t.Run("BlankEmail", func(t *testing.T) {
		svc := NewService(&memRepo{})
		_, err := svc.Create(ctx, CreateRequest{Name: "Alice", Email: ""})
		assert.ErrorIs(t, err, ErrEmailRequired)
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		svc := NewService(&memRepo{})
		_, err := svc.Create(ctx, CreateRequest{Name: "Alice", Email: "a@example.com"})
		require.NoError(t, err)

		_, err = svc.Create(ctx, CreateRequest{Name: "Bob", Email: "A@EXAMPLE.com"})
		assert.ErrorIs(t, err, ErrEmailAlreadyUsed)
	})
}

func TestUpdateUser(t *testing.T) {
	ctx := context.Background()

	strPtr := func(s string) *string { return &s }

	t.Run("PartialUpdate", func(t *testing.T) {
		svc := NewService(&memRepo{})
		u, err := svc.Create(ctx, CreateRequest{Name: "Alice", Email: "a@example.com"})
		require.NoError(t, err)

		updated, err := svc.Update(ctx, u.ID, UpdateRequest{Name: strPtr("Alicia")})
		require.NoError(t, err)
		assert.Equal(t, "Alicia", updated.Name)
		assert.Equal(t, "a@example.com", updated.Email)
	})

	t.Run("EmailConflict", func(t *testing.T) {
		svc := NewService(&memRepo{})
		_, err := svc.Create(ctx, CreateRequest{Name: "Alice", Email: "a@example.com"})
		require.NoError(t, err)
		b, err := svc.Create(ctx, CreateRequest{Name: "Bob", Email: "b@example.com"})
		require.NoError(t, err)

		_, err = svc.Update(ctx, b.ID, UpdateRequest{Email: strPtr("a@example.com")})
		assert.ErrorIs(t, err, ErrEmailAlreadyUsed)
	})

	t.Run("UnknownUser", func(t *testing.T) {
		svc := NewService(&memRepo{})
		_, err := svc.Update(ctx, uuid.NewString(), UpdateRequest{Name: strPtr("X")})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestDeleteUser(t *testing.T) {
	ctx := context.Background()
	svc := NewService(&memRepo{})

	u, err := svc.Create(ctx, CreateRequest{Name: "Alice", Email: "a@example.com"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, u.ID))

	_, err = svc.GetByID(ctx, u.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	users, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)
}
