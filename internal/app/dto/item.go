package dto

import (
	"time"

	"lendme/internal/app/services/items"
	domainitem "lendme/internal/domain/item"
)

// Field names are camelCase: existing clients depend on them.

type Item struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
	RequestID   int64  `json:"requestId,omitempty"`
}

// ItemDetails is the owner-aware item view: last/next are present only when
// the caller owns the item.
type ItemDetails struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Available   bool         `json:"available"`
	LastBooking *BookingInfo `json:"lastBooking"`
	NextBooking *BookingInfo `json:"nextBooking"`
	Comments    []Comment    `json:"comments"`
}

type Comment struct {
	ID         int64     `json:"id"`
	Text       string    `json:"text"`
	AuthorName string    `json:"authorName"`
	Created    time.Time `json:"created"`
}

func MapItem(i *domainitem.Item) Item {
	return Item{
		ID:          i.ID,
		Name:        i.Name,
		Description: i.Description,
		Available:   i.Available,
		RequestID:   i.RequestID,
	}
}

func MapItems(items []*domainitem.Item) []Item {
	result := make([]Item, 0, len(items))
	for _, i := range items {
		result = append(result, MapItem(i))
	}
	return result
}

func MapComment(c *domainitem.Comment) Comment {
	return Comment{ID: c.ID, Text: c.Text, AuthorName: c.AuthorName, Created: c.Created}
}

func MapComments(comments []*domainitem.Comment) []Comment {
	result := make([]Comment, 0, len(comments))
	for _, c := range comments {
		result = append(result, MapComment(c))
	}
	return result
}

func MapItemDetails(d *items.Details) ItemDetails {
	return ItemDetails{
		ID:          d.Item.ID,
		Name:        d.Item.Name,
		Description: d.Item.Description,
		Available:   d.Item.Available,
		LastBooking: MapBookingInfo(d.LastBooking),
		NextBooking: MapBookingInfo(d.NextBooking),
		Comments:    MapComments(d.Comments),
	}
}

func MapItemDetailsList(details []*items.Details) []ItemDetails {
	result := make([]ItemDetails, 0, len(details))
	for _, d := range details {
		result = append(result, MapItemDetails(d))
	}
	return result
}
