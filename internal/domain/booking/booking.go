package booking

import (
	"context"
	"errors"
	"time"

	"lendme/internal/domain/item"
	"lendme/internal/domain/shared/page"
	"lendme/internal/domain/user"
)

var (
	ErrNotFound       = errors.New("booking: not found")
	ErrAlreadyDecided = errors.New("booking: already decided")
	ErrInvalidRange   = errors.New("booking: end must be after start")
)

type Status string

const (
	StatusWaiting  Status = "WAITING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// Booking reserves an item for a time window. Item and Booker are resolved
// snapshots so owner-side queries and response assembly need no extra lookups.
//
// A booking is born WAITING and transitions exactly once, to APPROVED or
// REJECTED; both are terminal.
type Booking struct {
	ID     int64
	Start  time.Time
	End    time.Time
	Item   *item.Item
	Booker *user.User
	Status Status
}

type CreateParams struct {
	Start  time.Time
	End    time.Time
	Item   *item.Item
	Booker *user.User
}

func NewBooking(params CreateParams) (*Booking, error) {
	if !params.End.After(params.Start) {
		return nil, ErrInvalidRange
	}
	return &Booking{
		Start:  params.Start.UTC(),
		End:    params.End.UTC(),
		Item:   params.Item,
		Booker: params.Booker,
		Status: StatusWaiting,
	}, nil
}

// InPast reports whether the booking ended strictly before now.
func (b *Booking) InPast(now time.Time) bool {
	return b.End.Before(now)
}

// InFuture reports whether the booking starts strictly after now.
func (b *Booking) InFuture(now time.Time) bool {
	return b.Start.After(now)
}

// Current reports start <= now <= end, bounds inclusive.
func (b *Booking) Current(now time.Time) bool {
	return !b.Start.After(now) && !b.End.Before(now)
}

// Repository persists bookings. Each listing method maps to one State
// variant; every listing method except the booker-side Current orders by
// start descending. Decide performs the WAITING check and the status write
// as one atomic step so two concurrent decisions cannot both succeed.
type Repository interface {
	Create(ctx context.Context, b *Booking) (*Booking, error)
	ByID(ctx context.Context, id int64) (*Booking, error)
	// Decide moves a WAITING booking to the given terminal status. Returns
	// ErrNotFound when the id is unknown and ErrAlreadyDecided when the
	// booking has left WAITING.
	Decide(ctx context.Context, id int64, to Status) (*Booking, error)

	ByBooker(ctx context.Context, bookerID int64, p page.Page) ([]*Booking, error)
	ByBookerAndStatus(ctx context.Context, bookerID int64, status Status, p page.Page) ([]*Booking, error)
	ByBookerInPast(ctx context.Context, bookerID int64, now time.Time, p page.Page) ([]*Booking, error)
	ByBookerInFuture(ctx context.Context, bookerID int64, now time.Time, p page.Page) ([]*Booking, error)
	// ByBookerCurrent orders by id ascending.
	ByBookerCurrent(ctx context.Context, bookerID int64, now time.Time, p page.Page) ([]*Booking, error)

	ByOwner(ctx context.Context, ownerID int64, p page.Page) ([]*Booking, error)
	ByOwnerAndStatus(ctx context.Context, ownerID int64, status Status, p page.Page) ([]*Booking, error)
	ByOwnerInPast(ctx context.Context, ownerID int64, now time.Time, p page.Page) ([]*Booking, error)
	ByOwnerInFuture(ctx context.Context, ownerID int64, now time.Time, p page.Page) ([]*Booking, error)
	ByOwnerCurrent(ctx context.Context, ownerID int64, now time.Time, p page.Page) ([]*Booking, error)

	// CompletedExists reports whether the booker has an APPROVED booking of
	// the item that ended before now.
	CompletedExists(ctx context.Context, bookerID, itemID int64, now time.Time) (bool, error)
	// LastForItem returns the APPROVED booking with the latest start before
	// now, or nil when there is none.
	LastForItem(ctx context.Context, itemID int64, now time.Time) (*Booking, error)
	// NextForItem returns the APPROVED booking with the earliest start after
	// now, or nil when there is none.
	NextForItem(ctx context.Context, itemID int64, now time.Time) (*Booking, error)
}
