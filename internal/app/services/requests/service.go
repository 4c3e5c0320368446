package requests

import (
	"context"
	"time"

	domainitem "lendme/internal/domain/item"
	domainrequest "lendme/internal/domain/request"
	"lendme/internal/domain/shared/page"
	domainuser "lendme/internal/domain/user"
)

type UserLookup interface {
	ByID(ctx context.Context, id int64) (*domainuser.User, error)
}

// ItemsByRequest is the fan-out capability: all items created against a
// request, insertion order.
type ItemsByRequest interface {
	FindAllByRequestID(ctx context.Context, requestID int64) ([]*domainitem.Item, error)
}

// Details is a request with the items listed in answer to it.
type Details struct {
	Request *domainrequest.Request
	Items   []*domainitem.Item
}

type Service struct {
	Requests domainrequest.Repository
	Users    UserLookup
	Items    ItemsByRequest
	Clock    func() time.Time
}

func (s *Service) Create(ctx context.Context, description string, requesterID int64) (*domainrequest.Request, error) {
	requester, err := s.Users.ByID(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	req, err := domainrequest.NewRequest(description, requester.ID, s.now())
	if err != nil {
		return nil, err
	}
	return s.Requests.Create(ctx, req)
}

// FindByUserID lists the caller's own requests with fan-out.
func (s *Service) FindByUserID(ctx context.Context, userID int64) ([]*Details, error) {
	if _, err := s.Users.ByID(ctx, userID); err != nil {
		return nil, err
	}
	reqs, err := s.Requests.ByRequesterID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.fanOut(ctx, reqs)
}

// FindAll lists other users' requests, paginated, with fan-out.
func (s *Service) FindAll(ctx context.Context, userID int64, p page.Page) ([]*Details, error) {
	if _, err := s.Users.ByID(ctx, userID); err != nil {
		return nil, err
	}
	reqs, err := s.Requests.ByOtherRequesters(ctx, userID, p)
	if err != nil {
		return nil, err
	}
	return s.fanOut(ctx, reqs)
}

func (s *Service) FindByID(ctx context.Context, requestID, userID int64) (*Details, error) {
	if _, err := s.Users.ByID(ctx, userID); err != nil {
		return nil, err
	}
	req, err := s.Requests.ByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	items, err := s.Items.FindAllByRequestID(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	return &Details{Request: req, Items: items}, nil
}

// ByID satisfies the request-lookup capability the item service uses when an
// item is created against a request.
func (s *Service) ByID(ctx context.Context, id int64) (*domainrequest.Request, error) {
	return s.Requests.ByID(ctx, id)
}

func (s *Service) fanOut(ctx context.Context, reqs []*domainrequest.Request) ([]*Details, error) {
	result := make([]*Details, 0, len(reqs))
	for _, req := range reqs {
		items, err := s.Items.FindAllByRequestID(ctx, req.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, &Details{Request: req, Items: items})
	}
	return result, nil
}

func (s *Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock().UTC()
	}
	return time.Now().UTC()
}
