package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nekogravitycat/item-sharing-backend/internal/booking"
	"github.com/nekogravitycat/item-sharing-backend/internal/identity"
	"github.com/nekogravitycat/item-sharing-backend/internal/pkg/pagination"
	"github.com/nekogravitycat/item-sharing-backend/internal/pkg/response"
)

type Handler struct {
	service booking.Service
}

func NewHandler(service booking.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateBookingRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "code": "validation"})
		return
	}

	req := booking.CreateRequest{
		ItemID:   body.ItemID,
		BookerID: identity.GetUserID(c),
		Start:    *body.Start,
		End:      *body.End,
	}

	b, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewBookingResponse(b))
}

func (h *Handler) Decide(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID", "code": "validation"})
		return
	}

	approved, err := strconv.ParseBool(c.Query("approved"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "approved query parameter must be true or false", "code": "validation"})
		return
	}

	b, err := h.service.Decide(c.Request.Context(), id, identity.GetUserID(c), approved)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) Get(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID", "code": "validation"})
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), id, identity.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) ListAsBooker(c *gin.Context) {
	h.list(c, booking.RoleBooker)
}

func (h *Handler) ListAsOwner(c *gin.Context) {
	h.list(c, booking.RoleOwner)
}

func (h *Handler) list(c *gin.Context, role booking.Role) {
	state := c.DefaultQuery("state", string(booking.StateAll))

	page, ok := pageParams(c)
	if !ok {
		return
	}

	bookings, err := h.service.List(c.Request.Context(), role, identity.GetUserID(c), state, page)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, newBookingList(bookings))
}

// pageParams reads the from/size query parameters. Range validation is the
// pagination package's job; only syntax is rejected here.
func pageParams(c *gin.Context) (pagination.Params, bool) {
	var page pagination.Params

	from, err := strconv.Atoi(c.DefaultQuery("from", "0"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from query parameter must be an integer", "code": "validation"})
		return page, false
	}
	page.From = from

	if v := c.Query("size"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "size query parameter must be an integer", "code": "validation"})
			return page, false
		}
		page.Size = &size
	}
	return page, true
}
