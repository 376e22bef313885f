package api

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/nekogravitycat/item-sharing-backend/internal/booking"
	bookingHttp "github.com/nekogravitycat/item-sharing-backend/internal/booking/http"
	"github.com/nekogravitycat/item-sharing-backend/internal/identity"
	"github.com/nekogravitycat/item-sharing-backend/internal/item"
	itemHttp "github.com/nekogravitycat/item-sharing-backend/internal/item/http"
	"github.com/nekogravitycat/item-sharing-backend/internal/metrics"
	"github.com/nekogravitycat/item-sharing-backend/internal/request"
	requestHttp "github.com/nekogravitycat/item-sharing-backend/internal/request/http"
	"github.com/nekogravitycat/item-sharing-backend/internal/user"
	userHttp "github.com/nekogravitycat/item-sharing-backend/internal/user/http"
)

// Config carries the services and settings the router needs.
type Config struct {
	IsProduction   bool
	ProdOrigins    string
	Logger         zerolog.Logger
	UserService    user.Service
	ItemService    item.Service
	BookingService booking.Service
	RequestService request.Service
}

// NewRouter initializes the HTTP router engine.
// It assembles middleware (CORS, logging, metrics, recovery) and registers
// routes for the domain modules.
func NewRouter(cfg Config) *gin.Engine {
	r := gin.New()
	r.Use(RequestLogger(cfg.Logger), gin.Recovery(), Metrics())

	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction && cfg.ProdOrigins != "" {
		corsConfig.AllowOrigins = strings.Split(cfg.ProdOrigins, ",")
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", identity.Header}
	r.Use(cors.New(corsConfig))

	metrics.Register()
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	identityMiddleware := identity.Required()

	userHandler := userHttp.NewHandler(cfg.UserService)
	itemHandler := itemHttp.NewHandler(cfg.ItemService)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService)
	requestHandler := requestHttp.NewHandler(cfg.RequestService)

	root := r.Group("")
	{
		userHttp.RegisterRoutes(root, userHandler)
		itemHttp.RegisterRoutes(root, itemHandler, identityMiddleware)
		bookingHttp.RegisterRoutes(root, bookingHandler, identityMiddleware)
		requestHttp.RegisterRoutes(root, requestHandler, identityMiddleware)
	}

	return r
}
