package request

import (
	"context"
	"errors"
	"strings"
	"time"

	"lendme/internal/domain/shared/page"
)

var (
	ErrNotFound            = errors.New("request: not found")
	ErrDescriptionRequired = errors.New("request: description is required")
)

// Request is a user's post asking for an item they want listed. Immutable
// after creation; fulfilling items reference it by id.
type Request struct {
	ID          int64
	Description string
	RequesterID int64
	Created     time.Time
}

func NewRequest(description string, requesterID int64, now time.Time) (*Request, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, ErrDescriptionRequired
	}
	return &Request{
		Description: description,
		RequesterID: requesterID,
		Created:     now.UTC(),
	}, nil
}

type Repository interface {
	Create(ctx context.Context, r *Request) (*Request, error)
	ByID(ctx context.Context, id int64) (*Request, error)
	// ByRequesterID lists a user's own requests, newest first.
	ByRequesterID(ctx context.Context, requesterID int64) ([]*Request, error)
	// ByOtherRequesters lists requests by everyone else, newest first.
	ByOtherRequesters(ctx context.Context, requesterID int64, p page.Page) ([]*Request, error)
}
