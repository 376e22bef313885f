package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nekogravitycat/item-sharing-backend/internal/identity"
	"github.com/nekogravitycat/item-sharing-backend/internal/pkg/pagination"
	"github.com/nekogravitycat/item-sharing-backend/internal/pkg/response"
	"github.com/nekogravitycat/item-sharing-backend/internal/request"
)

type Handler struct {
	service request.Service
}

func NewHandler(service request.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateRequestRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "code": "validation"})
		return
	}

	req, err := h.service.Create(c.Request.Context(), identity.GetUserID(c), body.Description)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewRequestResponse(req))
}

func (h *Handler) ListOwn(c *gin.Context) {
	requests, err := h.service.ListOwn(c.Request.Context(), identity.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, newRequestList(requests))
}

func (h *Handler) ListAll(c *gin.Context) {
	var page pagination.Params

	from, err := strconv.Atoi(c.DefaultQuery("from", "0"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from query parameter must be an integer", "code": "validation"})
		return
	}
	page.From = from

	if v := c.Query("size"); v != "" {
		size, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "size query parameter must be an integer", "code": "validation"})
			return
		}
		page.Size = &size
	}

	requests, err := h.service.ListAll(c.Request.Context(), identity.GetUserID(c), page)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, newRequestList(requests))
}

func (h *Handler) Get(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID", "code": "validation"})
		return
	}

	req, err := h.service.GetByID(c.Request.Context(), id, identity.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewRequestResponse(req))
}
