package users

import (
	"context"

	domainuser "lendme/internal/domain/user"
)

// Service is flat user CRUD over the store; uniqueness and id assignment
// live in the repository.
type Service struct {
	Users domainuser.Repository
}

func (s *Service) FindAll(ctx context.Context) ([]*domainuser.User, error) {
	return s.Users.All(ctx)
}

func (s *Service) Create(ctx context.Context, params domainuser.CreateParams) (*domainuser.User, error) {
	u, err := domainuser.NewUser(params)
	if err != nil {
		return nil, err
	}
	return s.Users.Create(ctx, u)
}

func (s *Service) FindByID(ctx context.Context, id int64) (*domainuser.User, error) {
	return s.Users.ByID(ctx, id)
}

// Update merges the present fields of params into the stored user.
func (s *Service) Update(ctx context.Context, id int64, params domainuser.UpdateParams) (*domainuser.User, error) {
	u, err := s.Users.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := u.Apply(params); err != nil {
		return nil, err
	}
	return s.Users.Update(ctx, u)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.Users.Delete(ctx, id)
}

// ByID satisfies the narrow user-lookup capability other services depend on.
func (s *Service) ByID(ctx context.Context, id int64) (*domainuser.User, error) {
	return s.Users.ByID(ctx, id)
}
