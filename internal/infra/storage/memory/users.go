package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	domainuser "lendme/internal/domain/user"
)

// UserRepository stores users in memory. Backs tests and the memory store
// mode.
type UserRepository struct {
	mu      sync.RWMutex
	nextID  int64
	byID    map[int64]*domainuser.User
	byEmail map[string]int64
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:    make(map[int64]*domainuser.User),
		byEmail: make(map[string]int64),
	}
}

func (r *UserRepository) ByID(ctx context.Context, id int64) (*domainuser.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, domainuser.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *UserRepository) All(ctx context.Context) ([]*domainuser.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*domainuser.User, 0, len(r.byID))
	for _, u := range r.byID {
		result = append(result, cloneUser(u))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *UserRepository) Create(ctx context.Context, u *domainuser.User) (*domainuser.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := emailKey(u.Email)
	if _, ok := r.byEmail[key]; ok {
		return nil, domainuser.ErrEmailInUse
	}
	r.nextID++
	stored := cloneUser(u)
	stored.ID = r.nextID
	r.byID[stored.ID] = stored
	r.byEmail[key] = stored.ID
	return cloneUser(stored), nil
}

func (r *UserRepository) Update(ctx context.Context, u *domainuser.User) (*domainuser.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.byID[u.ID]
	if !ok {
		return nil, domainuser.ErrNotFound
	}
	key := emailKey(u.Email)
	if ownerID, ok := r.byEmail[key]; ok && ownerID != u.ID {
		return nil, domainuser.ErrEmailInUse
	}
	delete(r.byEmail, emailKey(existing.Email))
	stored := cloneUser(u)
	r.byID[stored.ID] = stored
	r.byEmail[key] = stored.ID
	return cloneUser(stored), nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.byID[id]
	if !ok {
		return domainuser.ErrNotFound
	}
	delete(r.byEmail, emailKey(existing.Email))
	delete(r.byID, id)
	return nil
}

func cloneUser(u *domainuser.User) *domainuser.User {
	if u == nil {
		return nil
	}
	copied := *u
	return &copied
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
