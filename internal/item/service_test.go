package item

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/item-sharing-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/item-sharing-backend/internal/pkg/pagination"
	"github.com/nekogravitycat/item-sharing-backend/internal/user"
)

type memRepo struct {
	mu    sync.Mutex
	items []*Item
}

func (r *memRepo) Create(ctx context.Context, it *Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	it.ID = uuid.NewString()
	it.CreatedAt = time.Now()
	stored := *it
	r.items = append(r.items, &stored)
	return nil
}

func (r *memRepo) GetByID(ctx context.Context, id string) (*Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, it := range r.items {
		if it.ID == id {
			copied := *it
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memRepo) GetByIDForOwner(ctx context.Context, id, ownerID string) (*Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, it := range r.items {
		if it.ID == id && it.OwnerID == ownerID {
			copied := *it
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memRepo) ListByOwner(ctx context.Context, ownerID string, page pagination.Page) ([]*Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*Item
	for _, it := range r.items {
		if it.OwnerID == ownerID {
			copied := *it
			matched = append(matched, &copied)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})
	return pagination.Slice(matched, page), nil
}

func (r *memRepo) Search(ctx context.Context, text string, page pagination.Page) ([]*Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*Item
	for _, it := range r.items {
		if !it.Available {
			continue
		}
		if strings.Contains(strings.ToLower(it.Name), text) ||
			strings.Contains(strings.ToLower(it.Description), text) {
			copied := *it
			matched = append(matched, &copied)
		}
	}
	return pagination.Slice(matched, page), nil
}

func (r *memRepo) Update(ctx context.Context, it *Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, stored := range r.items {
		if stored.ID == it.ID {
			copied := *it
			r.items[i] = &copied
			return nil
		}
	}
	return ErrNotFound
}

func (r *memRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, stored := range r.items {
		if stored.ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

type memComments struct {
	mu       sync.Mutex
	comments []*Comment
}

func (r *memComments) Create(ctx context.Context, c *Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = uuid.NewString()
	c.Created = time.Now()
	stored := *c
	r.comments = append(r.comments, &stored)
	return nil
}

func (r *memComments) ListByItem(ctx context.Context, itemID string) ([]*Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*Comment
	for _, c := range r.comments {
		if c.ItemID == itemID {
			copied := *c
			matched = append(matched, &copied)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Created.After(matched[j].Created)
	})
	return matched, nil
}

// memUsers implements user.Service over a fixed map; only GetByID is
// exercised by the item service.
type memUsers map[string]*user.User

func (m memUsers) GetByID(ctx context.Context, id string) (*user.User, error) {
	if u, ok := m[id]; ok {
		return u, nil
	}
	return nil, user.ErrNotFound
}

func (m memUsers) Create(ctx context.Context, req user.CreateRequest) (*user.User, error) {
	panic("not used")
}

func (m memUsers) List(ctx context.Context) ([]*user.User, error) { panic("not used") }

func (m memUsers) Update(ctx context.Context, id string, req user.UpdateRequest) (*user.User, error) {
	panic("not used")
}

func (m memUsers) Delete(ctx context.Context, id string) error { panic("not used") }

// fakeProjector answers booking questions from fixed maps keyed by item ID.
type fakeProjector struct {
	last      map[string]*BookingBrief
	next      map[string]*BookingBrief
	completed map[string]*BookingBrief // keyed by itemID + "/" + userID
}

func newFakeProjector() *fakeProjector {
	return &fakeProjector{
		last:      map[string]*BookingBrief{},
		next:      map[string]*BookingBrief{},
		completed: map[string]*BookingBrief{},
	}
}

func (p *fakeProjector) Last(ctx context.Context, itemID string) (*BookingBrief, error) {
	return p.last[itemID], nil
}

func (p *fakeProjector) Next(ctx context.Context, itemID string) (*BookingBrief, error) {
	return p.next[itemID], nil
}

func (p *fakeProjector) Completed(ctx context.Context, itemID, userID string) (*BookingBrief, error) {
	return p.completed[itemID+"/"+userID], nil
}

type fixture struct {
	svc       Service
	repo      *memRepo
	projector *fakeProjector

	owner    string
	stranger string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		repo:      &memRepo{},
		projector: newFakeProjector(),
		owner:     uuid.NewString(),
		stranger:  uuid.NewString(),
	}
	users := memUsers{
		f.owner:    {ID: f.owner, Name: "Owner", Email: "owner@example.com"},
		f.stranger: {ID: f.stranger, Name: "Stranger", Email: "stranger@example.com"},
	}
	f.svc = NewService(f.repo, &memComments{}, users, f.projector)
	return f
}

func (f *fixture) createItem(t *testing.T, name, desc string, available bool) *Item {
	t.Helper()
	it, err := f.svc.Create(context.Background(), f.owner, CreateRequest{
		Name:        name,
		Description: desc,
		Available:   available,
	})
	require.NoError(t, err)
	return it
}

func TestCreateItem(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newFixture(t)
		it := f.createItem(t, "Drill", "Cordless drill", true)
		assert.Equal(t, f.owner, it.OwnerID)
		assert.NotEmpty(t, it.ID)
	})

	t.Run("UnknownOwner", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.Create(ctx, uuid.NewString(), CreateRequest{Name: "Drill", Description: "d"})
		assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
	})

	t.Run("BlankName", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.Create(ctx, f.owner, CreateRequest{Name: "  ", Description: "d"})
		assert.ErrorIs(t, err, ErrNameRequired)
	})

	t.Run("BlankDescription", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.Create(ctx, f.owner, CreateRequest{Name: "Drill", Description: ""})
		assert.ErrorIs(t, err, ErrDescRequired)
	})
}

func TestGetItemByID(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	it := f.createItem(t, "Drill", "Cordless drill", true)

	last := &BookingBrief{ID: uuid.NewString(), BookerID: f.stranger}
	next := &BookingBrief{ID: uuid.NewString(), BookerID: f.stranger}
	f.projector.last[it.ID] = last
	f.projector.next[it.ID] = next

	t.Run("OwnerSeesBookings", func(t *testing.T) {
		v, err := f.svc.GetByID(ctx, it.ID, f.owner)
		require.NoError(t, err)
		assert.Equal(t, last, v.LastBooking)
		assert.Equal(t, next, v.NextBooking)
	})

	t.Run("StrangerSeesNoBookings", func(t *testing.T) {
		v, err := f.svc.GetByID(ctx, it.ID, f.stranger)
		require.NoError(t, err)
		assert.Nil(t, v.LastBooking)
		assert.Nil(t, v.NextBooking)
	})

	t.Run("UnknownItem", func(t *testing.T) {
		_, err := f.svc.GetByID(ctx, uuid.NewString(), f.owner)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestListItemsByOwner(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first := f.createItem(t, "Drill", "Cordless drill", true)
	second := f.createItem(t, "Saw", "Hand saw", true)
	third := f.createItem(t, "Ladder", "Step ladder", false)

	t.Run("OrderedByCreation", func(t *testing.T) {
		views, err := f.svc.ListByOwner(ctx, f.owner, pagination.Params{})
		require.NoError(t, err)
		require.Len(t, views, 3)
		assert.Equal(t, first.ID, views[0].ID)
		assert.Equal(t, second.ID, views[1].ID)
		assert.Equal(t, third.ID, views[2].ID)
	})

	t.Run("Paged", func(t *testing.T) {
		size := 2
		views, err := f.svc.ListByOwner(ctx, f.owner, pagination.Params{From: 1, Size: &size})
		require.NoError(t, err)
		require.Len(t, views, 2)
		assert.Equal(t, second.ID, views[0].ID)
		assert.Equal(t, third.ID, views[1].ID)
	})

	t.Run("OtherUserEmpty", func(t *testing.T) {
		views, err := f.svc.ListByOwner(ctx, f.stranger, pagination.Params{})
		require.NoError(t, err)
		assert.Empty(t, views)
	})
}

func TestSearchItems(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	drill := f.createItem(t, "Power Drill", "drills holes", true)
	f.createItem(t, "Broken Drill", "does not work", false)
	f.createItem(t, "Saw", "cuts wood", true)

	t.Run("MatchesNameCaseInsensitive", func(t *testing.T) {
		views, err := f.svc.Search(ctx, "DRILL", pagination.Params{})
		require.NoError(t, err)
		require.Len(t, views, 1)
		assert.Equal(t, drill.ID, views[0].ID)
	})

	t.Run("MatchesDescription", func(t *testing.T) {
		views, err := f.svc.Search(ctx, "holes", pagination.Params{})
		require.NoError(t, err)
		require.Len(t, views, 1)
		assert.Equal(t, drill.ID, views[0].ID)
	})

	t.Run("BlankTextMatchesNothing", func(t *testing.T) {
		views, err := f.svc.Search(ctx, "   ", pagination.Params{})
		require.NoError(t, err)
		assert.Empty(t, views)
	})

	t.Run("UnavailableExcluded", func(t *testing.T) {
		views, err := f.svc.Search(ctx, "broken", pagination.Params{})
		require.NoError(t, err)
		assert.Empty(t, views)
	})
}

func TestUpdateItem(t *testing.T) {
	ctx := context.Background()

	strPtr := func(s string) *string { return &s }
	boolPtr := func(b bool) *bool { return &b }

	t.Run("PartialUpdate", func(t *testing.T) {
		f := newFixture(t)
		it := f.createItem(t, "Drill", "Cordless drill", true)

		updated, err := f.svc.Update(ctx, it.ID, f.owner, UpdateRequest{Available: boolPtr(false)})
		require.NoError(t, err)
		assert.Equal(t, "Drill", updated.Name)
		assert.False(t, updated.Available)
	})

	t.Run("NonOwnerGetsNotFound", func(t *testing.T) {
		f := newFixture(t)
		it := f.createItem(t, "Drill", "Cordless drill", true)

		_, err := f.svc.Update(ctx, it.ID, f.stranger, UpdateRequest{Name: strPtr("Mine now")})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("BlankNameRejected", func(t *testing.T) {
		f := newFixture(t)
		it := f.createItem(t, "Drill", "Cordless drill", true)

		_, err := f.svc.Update(ctx, it.ID, f.owner, UpdateRequest{Name: strPtr(" ")})
		assert.ErrorIs(t, err, ErrNameRequired)
	})
}

func TestDeleteItem(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	it := f.createItem(t, "Drill", "Cordless drill", true)

	t.Run("NonOwnerGetsNotFound", func(t *testing.T) {
		err := f.svc.Delete(ctx, it.ID, f.stranger)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("OwnerDeletes", func(t *testing.T) {
		require.NoError(t, f.svc.Delete(ctx, it.ID, f.owner))
		_, err := f.svc.GetByID(ctx, it.ID, f.owner)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestAddComment(t *testing.T) {
	ctx := context.Background()

	t.Run("RequiresCompletedBooking", func(t *testing.T) {
		f := newFixture(t)
		it := f.createItem(t, "Drill", "Cordless drill", true)

		_, err := f.svc.AddComment(ctx, it.ID, f.stranger, "great drill")
		assert.ErrorIs(t, err, ErrDidNotBookItem)
		assert.True(t, apperror.IsKind(err, apperror.KindValidation))
	})

	t.Run("EligibleUserComments", func(t *testing.T) {
		f := newFixture(t)
		it := f.createItem(t, "Drill", "Cordless drill", true)
		f.projector.completed[it.ID+"/"+f.stranger] = &BookingBrief{ID: uuid.NewString(), BookerID: f.stranger}

		c, err := f.svc.AddComment(ctx, it.ID, f.stranger, "great drill")
		require.NoError(t, err)
		assert.Equal(t, "Stranger", c.AuthorName)

		v, err := f.svc.GetByID(ctx, it.ID, f.stranger)
		require.NoError(t, err)
		require.Len(t, v.Comments, 1)
		assert.Equal(t, "great drill", v.Comments[0].Text)
	})

	t.Run("BlankText", func(t *testing.T) {
		f := newFixture(t)
		it := f.createItem(t, "Drill", "Cordless drill", true)

		_, err := f.svc.AddComment(ctx, it.ID, f.stranger, "  ")
		assert.ErrorIs(t, err, ErrTextRequired)
	})

	t.Run("UnknownItem", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.AddComment(ctx, uuid.NewString(), f.stranger, "text")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
