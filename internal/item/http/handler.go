package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nekogravitycat/item-sharing-backend/internal/identity"
	"github.com/nekogravitycat/item-sharing-backend/internal/item"
	"github.com/nekogravitycat/item-sharing-backend/internal/pkg/pagination"
	"github.com/nekogravitycat/item-sharing-backend/internal/pkg/response"
)

type Handler struct {
	service item.Service
}

func NewHandler(service item.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateItemRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "code": "validation"})
		return
	}

	it, err := h.service.Create(c.Request.Context(), identity.GetUserID(c), item.CreateRequest{
		Name:        body.Name,
		Description: body.Description,
		Available:   *body.Available,
		RequestID:   body.RequestID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewItemResponse(&item.View{Item: *it, Comments: nil}))
}

func (h *Handler) Get(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID", "code": "validation"})
		return
	}

	v, err := h.service.GetByID(c.Request.Context(), id, identity.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewItemResponse(v))
}

func (h *Handler) ListOwn(c *gin.Context) {
	page, ok := pageParams(c)
	if !ok {
		return
	}

	views, err := h.service.ListByOwner(c.Request.Context(), identity.GetUserID(c), page)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, newItemList(views))
}

func (h *Handler) Search(c *gin.Context) {
	page, ok := pageParams(c)
	if !ok {
		return
	}

	views, err := h.service.Search(c.Request.Context(), c.Query("text"), page)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, newItemList(views))
}

func (h *Handler) Update(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID", "code": "validation"})
		return
	}

	var body UpdateItemRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "code": "validation"})
		return
	}

	it, err := h.service.Update(c.Request.Context(), id, identity.GetUserID(c), item.UpdateRequest{
		Name:        body.Name,
		Description: body.Description,
		Available:   body.Available,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewItemResponse(&item.View{Item: *it}))
}

func (h *Handler) Delete(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID", "code": "validation"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, identity.GetUserID(c)); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) AddComment(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID", "code": "validation"})
		return
	}

	var body CreateCommentRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "code": "validation"})
		return
	}

	comment, err := h.service.AddComment(c.Request.Context(), id, identity.GetUserID(c), body.Text)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewCommentResponse(comment))
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
