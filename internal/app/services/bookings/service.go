package bookings

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"lendme/internal/app/outbox"
	domainbooking "lendme/internal/domain/booking"
	domainitem "lendme/internal/domain/item"
	"lendme/internal/domain/shared/page"
	domainuser "lendme/internal/domain/user"
)

// UserLookup is the narrow read capability the engine needs from the user
// side; the full user service is not required.
type UserLookup interface {
	ByID(ctx context.Context, id int64) (*domainuser.User, error)
}

// ItemLookup is the narrow read capability the engine needs from the item
// side. Items depend on bookings for availability projection, so this
// interface keeps the dependency one-way in each direction.
type ItemLookup interface {
	ByID(ctx context.Context, id int64) (*domainitem.Item, error)
}

// CreateParams is a candidate booking as received from the boundary. Status
// is deliberately absent: a new booking is always WAITING.
type CreateParams struct {
	ItemID int64
	Start  time.Time
	End    time.Time
}

// Service is the booking lifecycle engine: creation preconditions, the
// one-shot approval transition, temporal classification and the availability
// projection used by item responses.
type Service struct {
	Bookings domainbooking.Repository
	Users    UserLookup
	Items    ItemLookup
	Outbox   outbox.Recorder
	Encoder  outbox.Encoder
	Logger   *slog.Logger
	Clock    func() time.Time
}

// Create validates the candidate and persists it as WAITING.
//
// Precondition order is part of the contract: unknown booker, unknown item,
// self-booking (reported as an item lookup failure), unavailable item.
func (s *Service) Create(ctx context.Context, params CreateParams, bookerID int64) (*domainbooking.Booking, error) {
	booker, err := s.Users.ByID(ctx, bookerID)
	if err != nil {
		return nil, err
	}
	itm, err := s.Items.ByID(ctx, params.ItemID)
	if err != nil {
		return nil, err
	}
	if itm.OwnerID == booker.ID {
		// The owner booking their own item answers as if the item did not
		// exist, the same signal a true lookup miss produces.
		return nil, domainitem.ErrNotFound
	}
	if !itm.Available {
		return nil, domainitem.ErrNotAvailable
	}

	candidate, err := domainbooking.NewBooking(domainbooking.CreateParams{
		Start:  params.Start,
		End:    params.End,
		Item:   itm,
		Booker: booker,
	})
	if err != nil {
		return nil, err
	}
	created, err := s.Bookings.Create(ctx, candidate)
	if err != nil {
		return nil, err
	}

	s.record(ctx, domainbooking.BookingRequested{
		BookingID: created.ID,
		ItemID:    itm.ID,
		BookerID:  booker.ID,
		Start:     created.Start,
		End:       created.End,
		At:        s.now(),
	})
	return created, nil
}

// Approve moves a WAITING booking to APPROVED or REJECTED. Only the owner of
// the booked item may decide, and only once: a booking that already left
// WAITING answers with the availability-conflict signal.
func (s *Service) Approve(ctx context.Context, bookingID, ownerID int64, approved bool) (*domainbooking.Booking, error) {
	if _, err := s.Users.ByID(ctx, ownerID); err != nil {
		return nil, err
	}
	b, err := s.Bookings.ByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status != domainbooking.StatusWaiting {
		return nil, domainitem.ErrNotAvailable
	}
	itm, err := s.Items.ByID(ctx, b.Item.ID)
	if err != nil {
		return nil, err
	}
	if itm.OwnerID != ownerID {
		return nil, domainitem.ErrNotFound
	}

	to := domainbooking.StatusRejected
	if approved {
		to = domainbooking.StatusApproved
	}
	// Decide re-checks WAITING atomically in the store; a concurrent decision
	// that won the race surfaces here as ErrAlreadyDecided.
	decided, err := s.Bookings.Decide(ctx, bookingID, to)
	if err != nil {
		if errors.Is(err, domainbooking.ErrAlreadyDecided) {
			return nil, domainitem.ErrNotAvailable
		}
		return nil, err
	}

	if approved {
		s.record(ctx, domainbooking.BookingApproved{BookingID: decided.ID, ItemID: itm.ID, OwnerID: ownerID, At: s.now()})
	} else {
		s.record(ctx, domainbooking.BookingRejected{BookingID: decided.ID, ItemID: itm.ID, OwnerID: ownerID, At: s.now()})
	}
	return decided, nil
}

// FindByIDAndUserID returns the booking only to its booker or to the owner
// of the booked item. Anyone else gets not-found, not forbidden.
func (s *Service) FindByIDAndUserID(ctx context.Context, bookingID, userID int64) (*domainbooking.Booking, error) {
	b, err := s.Bookings.ByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Booker.ID == userID {
		return b, nil
	}
	itm, err := s.Items.ByID(ctx, b.Item.ID)
	if err != nil {
		return nil, err
	}
	if itm.OwnerID == userID {
		return b, nil
	}
	return nil, domainbooking.ErrNotFound
}

// FindByUserIDAndState lists bookings made by the user, classified against
// now at call time.
func (s *Service) FindByUserIDAndState(ctx context.Context, userID int64, state string, p page.Page) ([]*domainbooking.Booking, error) {
	if _, err := s.Users.ByID(ctx, userID); err != nil {
		return nil, err
	}
	st, err := domainbooking.ParseState(state)
	if err != nil {
		return nil, err
	}
	now := s.now()
	switch st {
	case domainbooking.StateAll:
		return s.Bookings.ByBooker(ctx, userID, p)
	case domainbooking.StateFuture:
		return s.Bookings.ByBookerInFuture(ctx, userID, now, p)
	case domainbooking.StatePast:
		return s.Bookings.ByBookerInPast(ctx, userID, now, p)
	case domainbooking.StateCurrent:
		return s.Bookings.ByBookerCurrent(ctx, userID, now, p)
	case domainbooking.StateWaiting, domainbooking.StateRejected, domainbooking.StateApproved:
		status, _ := st.StatusFilter()
		return s.Bookings.ByBookerAndStatus(ctx, userID, status, p)
	}
	return nil, domainbooking.ErrUnsupportedState
}

// FindByOwnerIDAndState lists bookings of items the user owns.
func (s *Service) FindByOwnerIDAndState(ctx context.Context, ownerID int64, state string, p page.Page) ([]*domainbooking.Booking, error) {
	if _, err := s.Users.ByID(ctx, ownerID); err != nil {
		return nil, err
	}
	st, err := domainbooking.ParseState(state)
	if err != nil {
		return nil, err
	}
	now := s.now()
	switch st {
	case domainbooking.StateAll:
		return s.Bookings.ByOwner(ctx, ownerID, p)
	case domainbooking.StateFuture:
		return s.Bookings.ByOwnerInFuture(ctx, ownerID, now, p)
	case domainbooking.StatePast:
		return s.Bookings.ByOwnerInPast(ctx, ownerID, now, p)
	case domainbooking.StateCurrent:
		return s.Bookings.ByOwnerCurrent(ctx, ownerID, now, p)
	case domainbooking.StateWaiting, domainbooking.StateRejected, domainbooking.StateApproved:
		status, _ := st.StatusFilter()
		return s.Bookings.ByOwnerAndStatus(ctx, ownerID, status, p)
	}
	return nil, domainbooking.ErrUnsupportedState
}

// HasUserBookedItem reports whether the user completed an approved booking
// of the item. Gates comment admission.
func (s *Service) HasUserBookedItem(ctx context.Context, userID, itemID int64) (bool, error) {
	return s.Bookings.CompletedExists(ctx, userID, itemID, s.now())
}

// LastBookingForItem returns the most recent approved booking started before
// now, or nil.
func (s *Service) LastBookingForItem(ctx context.Context, itemID int64) (*domainbooking.Booking, error) {
	return s.Bookings.LastForItem(ctx, itemID, s.now())
}

// NextBookingForItem returns the soonest approved booking starting after
// now, or nil.
func (s *Service) NextBookingForItem(ctx context.Context, itemID int64) (*domainbooking.Booking, error) {
	return s.Bookings.NextForItem(ctx, itemID, s.now())
}

func (s *Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock().UTC()
	}
	return time.Now().UTC()
}

func (s *Service) record(ctx context.Context, ev outbox.Event) {
	enc := s.Encoder
	if enc == nil {
		enc = outbox.JSONEncoder{}
	}
	if err := outbox.RecordEvents(ctx, s.Outbox, enc, ev); err != nil && s.Logger != nil {
		s.Logger.Warn("outbox record failed", "event", ev.EventName(), "error", err)
	}
}
