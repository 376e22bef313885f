package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, identityMiddleware gin.HandlerFunc) {
	group := g.Group("/bookings")

	group.Use(identityMiddleware)
	{
		group.POST("", h.Create)
		group.PATCH("/:id", h.Decide)
		group.GET("/owner", h.ListAsOwner)
		group.GET("/:id", h.Get)
		group.GET("", h.ListAsBooker)
	}
}
