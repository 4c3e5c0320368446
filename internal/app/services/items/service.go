package items

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"lendme/internal/app/outbox"
	domainbooking "lendme/internal/domain/booking"
	domainitem "lendme/internal/domain/item"
	domainrequest "lendme/internal/domain/request"
	"lendme/internal/domain/shared/page"
	domainuser "lendme/internal/domain/user"
)

// BookingLookup is the read-only availability capability the item side needs
// from the booking engine. Bookings and items would otherwise depend on each
// other directly.
type BookingLookup interface {
	HasUserBookedItem(ctx context.Context, userID, itemID int64) (bool, error)
	LastBookingForItem(ctx context.Context, itemID int64) (*domainbooking.Booking, error)
	NextBookingForItem(ctx context.Context, itemID int64) (*domainbooking.Booking, error)
}

type UserLookup interface {
	ByID(ctx context.Context, id int64) (*domainuser.User, error)
}

type RequestLookup interface {
	ByID(ctx context.Context, id int64) (*domainrequest.Request, error)
}

// Details is an item with its owner-facing availability projection and
// comments attached.
type Details struct {
	Item        *domainitem.Item
	LastBooking *domainbooking.Booking
	NextBooking *domainbooking.Booking
	Comments    []*domainitem.Comment
}

type CreateParams struct {
	Name        string
	Description string
	Available   bool
	RequestID   int64
}

type Service struct {
	Items    domainitem.Repository
	Comments domainitem.CommentRepository
	Users    UserLookup
	Requests RequestLookup
	Bookings BookingLookup
	Outbox   outbox.Recorder
	Encoder  outbox.Encoder
	Logger   *slog.Logger
	Clock    func() time.Time
}

func (s *Service) Create(ctx context.Context, params CreateParams, ownerID int64) (*domainitem.Item, error) {
	owner, err := s.Users.ByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if params.RequestID != 0 {
		if _, err := s.Requests.ByID(ctx, params.RequestID); err != nil {
			return nil, err
		}
	}
	itm, err := domainitem.NewItem(domainitem.CreateParams{
		Name:        params.Name,
		Description: params.Description,
		Available:   params.Available,
		OwnerID:     owner.ID,
		RequestID:   params.RequestID,
	})
	if err != nil {
		return nil, err
	}
	return s.Items.Create(ctx, itm)
}

// Update applies a partial update. Only the owner may mutate an item.
func (s *Service) Update(ctx context.Context, itemID, callerID int64, params domainitem.UpdateParams) (*domainitem.Item, error) {
	itm, err := s.Items.ByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if itm.OwnerID != callerID {
		return nil, domainitem.ErrWrongOwner
	}
	if err := itm.Apply(params); err != nil {
		return nil, err
	}
	return s.Items.Update(ctx, itm)
}

func (s *Service) ByID(ctx context.Context, itemID int64) (*domainitem.Item, error) {
	return s.Items.ByID(ctx, itemID)
}

// FindByIDWithBookings assembles the item detail view. The availability
// projection is scheduling detail of other people's bookings, so it is
// cleared for everyone but the owner; comments are public.
func (s *Service) FindByIDWithBookings(ctx context.Context, itemID, callerID int64) (*Details, error) {
	itm, err := s.Items.ByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	details, err := s.assemble(ctx, itm)
	if err != nil {
		return nil, err
	}
	if itm.OwnerID != callerID {
		details.LastBooking = nil
		details.NextBooking = nil
	}
	return details, nil
}

// FindAllByOwnerID lists the owner's items, each with its availability
// projection; the caller is the owner by construction.
func (s *Service) FindAllByOwnerID(ctx context.Context, ownerID int64, p page.Page) ([]*Details, error) {
	items, err := s.Items.ByOwnerID(ctx, ownerID, p)
	if err != nil {
		return nil, err
	}
	result := make([]*Details, 0, len(items))
	for _, itm := range items {
		details, err := s.assemble(ctx, itm)
		if err != nil {
			return nil, err
		}
		result = append(result, details)
	}
	return result, nil
}

// Search returns available items matching text in name or description.
// Blank text matches nothing.
func (s *Service) Search(ctx context.Context, text string, p page.Page) ([]*domainitem.Item, error) {
	if strings.TrimSpace(text) == "" {
		return []*domainitem.Item{}, nil
	}
	return s.Items.Search(ctx, text, p)
}

// AddComment admits a comment only from a user with a completed approved
// booking of the item.
func (s *Service) AddComment(ctx context.Context, authorID, itemID int64, text string) (*domainitem.Comment, error) {
	author, err := s.Users.ByID(ctx, authorID)
	if err != nil {
		return nil, err
	}
	itm, err := s.Items.ByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, domainitem.ErrCommentTextEmpty
	}
	booked, err := s.Bookings.HasUserBookedItem(ctx, authorID, itemID)
	if err != nil {
		return nil, err
	}
	if !booked {
		return nil, domainitem.ErrIllegalComment
	}

	comment, err := s.Comments.Create(ctx, &domainitem.Comment{
		Text:       strings.TrimSpace(text),
		ItemID:     itm.ID,
		AuthorID:   author.ID,
		AuthorName: author.Name,
		Created:    s.now(),
	})
	if err != nil {
		return nil, err
	}
	s.record(ctx, domainitem.CommentAdded{
		CommentID: comment.ID,
		ItemID:    itm.ID,
		AuthorID:  author.ID,
		At:        comment.Created,
	})
	return comment, nil
}

// FindAllByRequestID feeds the request fan-out.
func (s *Service) FindAllByRequestID(ctx context.Context, requestID int64) ([]*domainitem.Item, error) {
	return s.Items.ByRequestID(ctx, requestID)
}

func (s *Service) assemble(ctx context.Context, itm *domainitem.Item) (*Details, error) {
	last, err := s.Bookings.LastBookingForItem(ctx, itm.ID)
	if err != nil {
		return nil, err
	}
	next, err := s.Bookings.NextBookingForItem(ctx, itm.ID)
	if err != nil {
		return nil, err
	}
	comments, err := s.Comments.ByItemID(ctx, itm.ID)
	if err != nil {
		return nil, err
	}
	return &Details{Item: itm, LastBooking: last, NextBooking: next, Comments: comments}, nil
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
