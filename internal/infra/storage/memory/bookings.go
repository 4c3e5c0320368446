package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	domainbooking "lendme/internal/domain/booking"
	"lendme/internal/domain/shared/page"
)

// BookingRepository stores bookings in memory. The mutex makes Decide's
// check-and-set atomic, mirroring the conditional update the mongo
// implementation performs.
type BookingRepository struct {
	mu       sync.RWMutex
	nextID   int64
	bookings map[int64]*domainbooking.Booking
}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{bookings: make(map[int64]*domainbooking.Booking)}
}

func (r *BookingRepository) Create(ctx context.Context, b *domainbooking.Booking) (*domainbooking.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	stored := cloneBooking(b)
	stored.ID = r.nextID
	r.bookings[stored.ID] = stored
	return cloneBooking(stored), nil
}

func (r *BookingRepository) ByID(ctx context.Context, id int64) (*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, domainbooking.ErrNotFound
	}
	return cloneBooking(b), nil
}

func (r *BookingRepository) Decide(ctx context.Context, id int64, to domainbooking.Status) (*domainbooking.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, domainbooking.ErrNotFound
	}
	if b.Status != domainbooking.StatusWaiting {
		return nil, domainbooking.ErrAlreadyDecided
	}
	b.Status = to
	return cloneBooking(b), nil
}

func (r *BookingRepository) ByBooker(ctx context.Context, bookerID int64, p page.Page) ([]*domainbooking.Booking, error) {
	return r.list(func(b *domainbooking.Booking) bool {
		return b.Booker.ID == bookerID
	}, byStartDesc, p), nil
}

func (r *BookingRepository) ByBookerAndStatus(ctx context.Context, bookerID int64, status domainbooking.Status, p page.Page) ([]*domainbooking.Booking, error) {
	return r.list(func(b *domainbooking.Booking) bool {
		return b.Booker.ID == bookerID && b.Status == status
	}, byStartDesc, p), nil
}

func (r *BookingRepository) ByBookerInPast(ctx context.Context, bookerID int64, now time.Time, p page.Page) ([]*domainbooking.Booking, error) {
	return r.list(func(b *domainbooking.Booking) bool {
		return b.Booker.ID == bookerID && b.InPast(now)
	}, byStartDesc, p), nil
}

func (r *BookingRepository) ByBookerInFuture(ctx context.Context, bookerID int64, now time.Time, p page.Page) ([]*domainbooking.Booking, error) {
	return r.list(func(b *domainbooking.Booking) bool {
		return b.Booker.ID == bookerID && b.InFuture(now)
	}, byStartDesc, p), nil
}

func (r *BookingRepository) ByBookerCurrent(ctx context.Context, bookerID int64, now time.Time, p page.Page) ([]*domainbooking.Booking, error) {
	return r.list(func(b *domainbooking.Booking) bool {
		return b.Booker.ID == bookerID && b.Current(now)
	}, byIDAsc, p), nil
}

func (r *BookingRepository) ByOwner(ctx context.Context, ownerID int64, p page.Page) ([]*domainbooking.Booking, error) {
	return r.list(func(b *domainbooking.Booking) bool {
		return b.Item.OwnerID == ownerID
	}, byStartDesc, p), nil
}

func (r *BookingRepository) ByOwnerAndStatus(ctx context.Context, ownerID int64, status domainbooking.Status, p page.Page) ([]*domainbooking.Booking, error) {
	return r.list(func(b *domainbooking.Booking) bool {
		return b.Item.OwnerID == ownerID && b.Status == status
	}, byStartDesc, p), nil
}

func (r *BookingRepository) ByOwnerInPast(ctx context.Context, ownerID int64, now time.Time, p page.Page) ([]*domainbooking.Booking, error) {
	return r.list(func(b *domainbooking.Booking) bool {
		return b.Item.OwnerID == ownerID && b.InPast(now)
	}, byStartDesc, p), nil
}

func (r *BookingRepository) ByOwnerInFuture(ctx context.Context, ownerID int64, now time.Time, p page.Page) ([]*domainbooking.Booking, error) {
	return r.list(func(b *domainbooking.Booking) bool {
		return b.Item.OwnerID == ownerID && b.InFuture(now)
	}, byStartDesc, p), nil
}

func (r *BookingRepository) ByOwnerCurrent(ctx context.Context, ownerID int64, now time.Time, p page.Page) ([]*domainbooking.Booking, error) {
	return r.list(func(b *domainbooking.Booking) bool {
		return b.Item.OwnerID == ownerID && b.Current(now)
	}, byStartDesc, p), nil
}

func (r *BookingRepository) CompletedExists(ctx context.Context, bookerID, itemID int64, now time.Time) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, b := range r.bookings {
		if b.Booker.ID == bookerID && b.Item.ID == itemID &&
			b.Status == domainbooking.StatusApproved && b.End.Before(now) {
			return true, nil
		}
	}
	return false, nil
}

func (r *BookingRepository) LastForItem(ctx context.Context, itemID int64, now time.Time) (*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var last *domainbooking.Booking
	for _, b := range r.bookings {
		if b.Item.ID != itemID || b.Status != domainbooking.StatusApproved || !b.Start.Before(now) {
			continue
		}
		if last == nil || b.Start.After(last.Start) {
			last = b
		}
	}
	return cloneBooking(last), nil
}

func (r *BookingRepository) NextForItem(ctx context.Context, itemID int64, now time.Time) (*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var next *domainbooking.Booking
	for _, b := range r.bookings {
		if b.Item.ID != itemID || b.Status != domainbooking.StatusApproved || !b.Start.After(now) {
			continue
		}
		if next == nil || b.Start.Before(next.Start) {
			next = b
		}
	}
	return cloneBooking(next), nil
}

type bookingOrder func(a, b *domainbooking.Booking) bool

func byStartDesc(a, b *domainbooking.Booking) bool {
	if a.Start.Equal(b.Start) {
		return a.ID > b.ID
	}
	return a.Start.After(b.Start)
}

func byIDAsc(a, b *domainbooking.Booking) bool {
	return a.ID < b.ID
}

func (r *BookingRepository) list(match func(*domainbooking.Booking) bool, order bookingOrder, p page.Page) []*domainbooking.Booking {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matches := make([]*domainbooking.Booking, 0)
	for _, b := range r.bookings {
		if match(b) {
			matches = append(matches, cloneBooking(b))
		}
	}
	sort.Slice(matches, func(i, j int) bool { return order(matches[i], matches[j]) })
	start, end := p.Bounds(len(matches))
	return matches[start:end]
}

func cloneBooking(b *domainbooking.Booking) *domainbooking.Booking {
	if b == nil {
		return nil
	}
	copied := *b
	if b.Item != nil {
		itemCopy := *b.Item
		copied.Item = &itemCopy
	}
	if b.Booker != nil {
		bookerCopy := *b.Booker
		copied.Booker = &bookerCopy
	}
	return &copied
}
