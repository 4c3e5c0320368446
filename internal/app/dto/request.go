package dto

import (
	"time"

	"lendme/internal/app/services/requests"
	domainrequest "lendme/internal/domain/request"
)

type Request struct {
	ID          int64     `json:"id"`
	Description string    `json:"description"`
	Created     time.Time `json:"created"`
	Items       []Item    `json:"items"`
}

func MapRequest(r *domainrequest.Request, items []Item) Request {
	return Request{
		ID:          r.ID,
		Description: r.Description,
		Created:     r.Created,
		Items:       items,
	}
}

func MapRequestDetails(d *requests.Details) Request {
	return MapRequest(d.Request, MapItems(d.Items))
}

func MapRequestDetailsList(details []*requests.Details) []Request {
	result := make([]Request, 0, len(details))
	for _, d := range details {
		result = append(result, MapRequestDetails(d))
	}
	return result
}
