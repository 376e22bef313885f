package http

import (
	"time"

	"github.com/nekogravitycat/item-sharing-backend/internal/request"
)

type CreateRequestRequest struct {
	Description string `json:"description" binding:"required"`
}

type ItemAnswerResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	OwnerID   string `json:"owner_id"`
	Available bool   `json:"available"`
}

type RequestResponse struct {
	ID          string               `json:"id"`
	Description string               `json:"description"`
	RequesterID string               `json:"requester_id"`
	Created     time.Time            `json:"created"`
	Items       []ItemAnswerResponse `json:"items"`
}

func NewRequestResponse(req *request.ItemRequest) RequestResponse {
	items := make([]ItemAnswerResponse, len(req.Items))
	for i, it := range req.Items {
		items[i] = ItemAnswerResponse{
			ID:        it.ID,
			Name:      it.Name,
			OwnerID:   it.OwnerID,
			Available: it.Available,
		}
	}
	return RequestResponse{
		ID:          req.ID,
		Description: req.Description,
		RequesterID: req.RequesterID,
		Created:     req.Created,
		Items:       items,
	}
}

func newRequestList(requests []*request.ItemRequest) []RequestResponse {
	items := make([]RequestResponse, len(requests))
	for i, req := range requests {
		items[i] = NewRequestResponse(req)
	}
	return items
}
