package app

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/nekogravitycat/item-sharing-backend/internal/api"
	"github.com/nekogravitycat/item-sharing-backend/internal/booking"
	"github.com/nekogravitycat/item-sharing-backend/internal/cache"
	"github.com/nekogravitycat/item-sharing-backend/internal/item"
	"github.com/nekogravitycat/item-sharing-backend/internal/request"
	"github.com/nekogravitycat/item-sharing-backend/internal/user"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	DBPool       *pgxpool.Pool
	Logger       zerolog.Logger
	RedisAddr    string
	CacheTTL     time.Duration
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router *gin.Engine
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) *Container {
	projCache := cache.NewNoop()
	if cfg.RedisAddr != "" {
		projCache = cache.NewRedis(cache.NewRedisClient(cfg.RedisAddr), cfg.CacheTTL)
	}

	// User module
	userRepo := user.NewPgxRepository(cfg.DBPool)
	userService := user.NewService(userRepo)

	// Booking module
	bookingRepo := booking.NewPgxRepository(cfg.DBPool)
	itemRepo := item.NewPgxRepository(cfg.DBPool)
	bookingService := booking.NewService(
		bookingRepo,
		userLookup{userService},
		itemLookup{itemRepo},
		projCache,
		cfg.Logger,
	)

	// Item module
	commentRepo := item.NewPgxCommentRepository(cfg.DBPool)
	itemService := item.NewService(itemRepo, commentRepo, userService, bookingProjector{bookingService})

	// Item request module
	requestRepo := request.NewPgxRepository(cfg.DBPool)
	requestService := request.NewService(requestRepo, userService)

	router := api.NewRouter(api.Config{
		IsProduction:   cfg.IsProduction,
		ProdOrigins:    cfg.ProdOrigins,
		Logger:         cfg.Logger,
		UserService:    userService,
		ItemService:    itemService,
		BookingService: bookingService,
		RequestService: requestService,
	})

	return &Container{Router: router}
}

// userLookup adapts the user service to the booking module's lookup contract.
type userLookup struct {
	users user.Service
}

func (l userLookup) FindUser(ctx context.Context, id string) (*booking.UserRef, error) {
	u, err := l.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &booking.UserRef{ID: u.ID, Name: u.Name}, nil
}

// itemLookup adapts the item repository to the booking module's lookup
// contract. It reads the repository directly so booking creation sees the
// raw item row, not the enriched view.
type itemLookup struct {
	items item.Repository
}

func (l itemLookup) FindItem(ctx context.Context, id string) (*booking.ItemRef, error) {
	it, err := l.items.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &booking.ItemRef{
		ID:        it.ID,
		Name:      it.Name,
		OwnerID:   it.OwnerID,
		Available: it.Available,
	}, nil
}

// bookingProjector adapts the booking service to the item module's
// enrichment contract.
type bookingProjector struct {
	bookings booking.Service
}

func (p bookingProjector) Last(ctx context.Context, itemID string) (*item.BookingBrief, error) {
	b, err := p.bookings.Last(ctx, itemID)
	return toBrief(b), err
}

func (p bookingProjector) Next(ctx context.Context, itemID string) (*item.BookingBrief, error) {
	b, err := p.bookings.Next(ctx, itemID)
	return toBrief(b), err
}

func (p bookingProjector) Completed(ctx context.Context, itemID, userID string) (*item.BookingBrief, error) {
	b, err := p.bookings.Completed(ctx, itemID, userID)
	return toBrief(b), err
}

func toBrief(b *booking.Booking) *item.BookingBrief {
	if b == nil {
		return nil
	}
	return &item.BookingBrief{
		ID:       b.ID,
		BookerID: b.BookerID,
		Start:    b.Start,
		End:      b.End,
	}
}
