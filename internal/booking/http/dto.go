package http

import (
	"time"

	"github.com/nekogravitycat/item-sharing-backend/internal/booking"
	itemHttp "github.com/nekogravitycat/item-sharing-backend/internal/item/http"
	userHttp "github.com/nekogravitycat/item-sharing-backend/internal/user/http"
)

type CreateBookingRequest struct {
	ItemID string     `json:"item_id" binding:"required,uuid"`
	Start  *time.Time `json:"start" binding:"required"`
	End    *time.Time `json:"end" binding:"required"`
}

type BookingResponse struct {
	ID        string           `json:"id"`
	Start     time.Time        `json:"start"`
	End       time.Time        `json:"end"`
	Item      itemHttp.ItemTag `json:"item"`
	Booker    userHttp.UserTag `json:"booker"`
	Status    string           `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:        b.ID,
		Start:     b.Start,
		End:       b.End,
		Item:      itemHttp.ItemTag{ID: b.ItemID, Name: b.ItemName},
		Booker:    userHttp.UserTag{ID: b.BookerID, Name: b.BookerName},
		Status:    string(b.Status),
		CreatedAt: b.CreatedAt,
	}
}

func newBookingList(bookings []*booking.Booking) []BookingResponse {
	items := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = NewBookingResponse(b)
	}
	return items
}
