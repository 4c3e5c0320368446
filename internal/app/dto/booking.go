package dto

import (
	"time"

	domainbooking "lendme/internal/domain/booking"
)

type Booking struct {
	ID     int64     `json:"id"`
	Item   Item      `json:"item"`
	Booker User      `json:"booker"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Status string    `json:"status"`
}

// BookingInfo is the compact form attached to item views.
type BookingInfo struct {
	ID       int64 `json:"id"`
	BookerID int64 `json:"bookerId"`
}

func MapBooking(b *domainbooking.Booking) Booking {
	return Booking{
		ID:     b.ID,
		Item:   MapItem(b.Item),
		Booker: MapUser(b.Booker),
		Start:  b.Start,
		End:    b.End,
		Status: string(b.Status),
	}
}

func MapBookings(bookings []*domainbooking.Booking) []Booking {
	result := make([]Booking, 0, len(bookings))
	for _, b := range bookings {
		result = append(result, MapBooking(b))
	}
	return result
}

func MapBookingInfo(b *domainbooking.Booking) *BookingInfo {
	if b == nil {
		return nil
	}
	return &BookingInfo{ID: b.ID, BookerID: b.Booker.ID}
}
