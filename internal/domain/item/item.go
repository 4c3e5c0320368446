package item

import (
	"context"
	"errors"
	"strings"

	"lendme/internal/domain/shared/page"
)

var (
	ErrNotFound            = errors.New("item: not found")
	ErrNotAvailable        = errors.New("item: not available")
	ErrWrongOwner          = errors.New("item: does not belong to this user")
	ErrNameRequired        = errors.New("item: name is required")
	ErrDescriptionRequired = errors.New("item: description is required")
)

// Item is something a user offers for others to book. RequestID links the
// item to the request it was created in answer to; zero means none.
type Item struct {
	ID          int64
	Name        string
	Description string
	Available   bool
	OwnerID     int64
	RequestID   int64
}

type CreateParams struct {
	Name        string
	Description string
	Available   bool
	OwnerID     int64
	RequestID   int64
}

func NewItem(params CreateParams) (*Item, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	description := strings.TrimSpace(params.Description)
	if description == "" {
		return nil, ErrDescriptionRequired
	}
	return &Item{
		Name:        name,
		Description: description,
		Available:   params.Available,
		OwnerID:     params.OwnerID,
		RequestID:   params.RequestID,
	}, nil
}

// UpdateParams carries a partial update; nil fields stay untouched.
type UpdateParams struct {
	Name        *string
	Description *string
	Available   *bool
}

func (i *Item) Apply(params UpdateParams) error {
	if params.Name != nil {
		name := strings.TrimSpace(*params.Name)
		if name == "" {
			return ErrNameRequired
		}
		i.Name = name
	}
	if params.Description != nil {
		description := strings.TrimSpace(*params.Description)
		if description == "" {
			return ErrDescriptionRequired
		}
		i.Description = description
	}
	if params.Available != nil {
		i.Available = *params.Available
	}
	return nil
}

type Repository interface {
	ByID(ctx context.Context, id int64) (*Item, error)
	Create(ctx context.Context, i *Item) (*Item, error)
	Update(ctx context.Context, i *Item) (*Item, error)
	// ByOwnerID lists the owner's items ordered by id ascending.
	ByOwnerID(ctx context.Context, ownerID int64, p page.Page) ([]*Item, error)
	// Search matches text against name or description, case-insensitively,
	// returning available items only.
	Search(ctx context.Context, text string, p page.Page) ([]*Item, error)
	// ByRequestID lists items created against a request, insertion order.
	ByRequestID(ctx context.Context, requestID int64) ([]*Item, error)
}
