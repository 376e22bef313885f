package http

import (
	"time"

	"github.com/nekogravitycat/item-sharing-backend/internal/item"
)

type CreateItemRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Available   *bool   `json:"available" binding:"required"`
	RequestID   *string `json:"request_id" binding:"omitempty,uuid"`
}

type UpdateItemRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

type CreateCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

// ItemTag is the minimal item reference embedded in other responses.
type ItemTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// BookingBriefResponse annotates an item view with a neighbouring booking.
type BookingBriefResponse struct {
	ID       string    `json:"id"`
	BookerID string    `json:"booker_id"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

type CommentResponse struct {
	ID         string    `json:"id"`
	AuthorName string    `json:"author_name"`
	Text       string    `json:"text"`
	Created    time.Time `json:"created"`
}

type ItemResponse struct {
	ID          string                `json:"id"`
	OwnerID     string                `json:"owner_id"`
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Available   bool                  `json:"available"`
	RequestID   *string               `json:"request_id,omitempty"`
	LastBooking *BookingBriefResponse `json:"last_booking,omitempty"`
	NextBooking *BookingBriefResponse `json:"next_booking,omitempty"`
	Comments    []CommentResponse     `json:"comments"`
	CreatedAt   time.Time             `json:"created_at"`
}

func NewItemResponse(v *item.View) ItemResponse {
	resp := ItemResponse{
		ID:          v.ID,
		OwnerID:     v.OwnerID,
		Name:        v.Name,
		Description: v.Description,
		Available:   v.Available,
		RequestID:   v.RequestID,
		Comments:    newCommentList(v.Comments),
		CreatedAt:   v.CreatedAt,
	}
	if v.LastBooking != nil {
		resp.LastBooking = newBookingBrief(v.LastBooking)
	}
	if v.NextBooking != nil {
		resp.NextBooking = newBookingBrief(v.NextBooking)
	}
	return resp
}

func newBookingBrief(b *item.BookingBrief) *BookingBriefResponse {
	return &BookingBriefResponse{
		ID:       b.ID,
		BookerID: b.BookerID,
		Start:    b.Start,
		End:      b.End,
	}
}

func NewCommentResponse(c *item.Comment) CommentResponse {
	return CommentResponse{
		ID:         c.ID,
		AuthorName: c.AuthorName,
		Text:       c.Text,
		Created:    c.Created,
	}
}

func newCommentList(comments []*item.Comment) []CommentResponse {
	items := make([]CommentResponse, len(comments))
	for i, c := range comments {
		items[i] = NewCommentResponse(c)
	}
	return items
}

func newItemList(views []*item.View) []ItemResponse {
	items := make([]ItemResponse, len(views))
	for i, v := range views {
		items[i] = NewItemResponse(v)
	}
	return items
}
