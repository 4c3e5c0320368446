package requests

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lendme/internal/app/services/items"
	"lendme/internal/app/services/users"
	domainrequest "lendme/internal/domain/request"
	"lendme/internal/domain/shared/page"
	domainuser "lendme/internal/domain/user"
	"lendme/internal/infra/storage/memory"
)

type fixture struct {
	now      time.Time
	users    *users.Service
	items    *items.Service
	requests *Service
}

func newFixture() *fixture {
	f := &fixture{now: time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)}
	clock := func() time.Time { return f.now }
	f.users = &users.Service{Users: memory.NewUserRepository()}
	f.items = &items.Service{
		Items:    memory.NewItemRepository(),
		Comments: memory.NewCommentRepository(),
		Users:    f.users,
		Outbox:   memory.NewOutbox(),
		Clock:    clock,
	}
	f.requests = &Service{
		Requests: memory.NewRequestRepository(),
		Users:    f.users,
		Items:    f.items,
		Clock:    clock,
	}
	f.items.Requests = f.requests
	return f
}

func (f *fixture) user(t *testing.T, name, email string) *domainuser.User {
	t.Helper()
	u, err := f.users.Create(context.Background(), domainuser.CreateParams{Name: name, Email: email})
	require.NoError(t, err)
	return u
}

func (f *fixture) answer(t *testing.T, ownerID, requestID int64, name string) {
	t.Helper()
	_, err := f.items.Create(context.Background(), items.CreateParams{
		Name:        name,
		Description: name + " description",
		Available:   true,
		RequestID:   requestID,
	}, ownerID)
	require.NoError(t, err)
}

func TestCreateUnknownRequester(t *testing.T) {
	f := newFixture()

	_, err := f.requests.Create(context.Background(), "need a drill", 42)
	assert.ErrorIs(t, err, domainuser.ErrNotFound)
}

func TestCreateBlankDescription(t *testing.T) {
	f := newFixture()
	requester := f.user(t, "alice", "a@example.com")

	_, err := f.requests.Create(context.Background(), "   ", requester.ID)
	assert.ErrorIs(t, err, domainrequest.ErrDescriptionRequired)
}

func TestFanOut(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	requester := f.user(t, "alice", "a@example.com")
	owner := f.user(t, "bob", "b@example.com")

	answered, err := f.requests.Create(ctx, "need a drill", requester.ID)
	require.NoError(t, err)
	f.now = f.now.Add(time.Minute)
	unanswered, err := f.requests.Create(ctx, "need a ladder", requester.ID)
	require.NoError(t, err)

	f.answer(t, owner.ID, answered.ID, "drill one")
	f.answer(t, owner.ID, answered.ID, "drill two")

	details, err := f.requests.FindByUserID(ctx, requester.ID)
	require.NoError(t, err)
	require.Len(t, details, 2)

	// Newest first; each request carries the items listed against it.
	assert.Equal(t, unanswered.ID, details[0].Request.ID)
	assert.Empty(t, details[0].Items)
	assert.Equal(t, answered.ID, details[1].Request.ID)
	require.Len(t, details[1].Items, 2)
	assert.Equal(t, "drill one", details[1].Items[0].Name)
	assert.Equal(t, "drill two", details[1].Items[1].Name)
}

func TestFindAllExcludesOwn(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := f.user(t, "alice", "a@example.com")
	bob := f.user(t, "bob", "b@example.com")

	own, err := f.requests.Create(ctx, "need a drill", alice.ID)
	require.NoError(t, err)
	others, err := f.requests.Create(ctx, "need a saw", bob.ID)
	require.NoError(t, err)

	details, err := f.requests.FindAll(ctx, alice.ID, page.Page{From: 0, Size: 20})
	require.NoError(t, err)
	require.Len(t, details, 1)
	assert.Equal(t, others.ID, details[0].Request.ID)
	assert.NotEqual(t, own.ID, details[0].Request.ID)
}

func TestFindByID(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := f.user(t, "alice", "a@example.com")
	bob := f.user(t, "bob", "b@example.com")

	req, err := f.requests.Create(ctx, "need a drill", alice.ID)
	require.NoError(t, err)
	f.answer(t, bob.ID, req.ID, "drill")

	// Any known user may read any request.
	details, err := f.requests.FindByID(ctx, req.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, req.ID, details.Request.ID)
	require.Len(t, details.Items, 1)

	_, err = f.requests.FindByID(ctx, 99, bob.ID)
	assert.ErrorIs(t, err, domainrequest.ErrNotFound)

	_, err = f.requests.FindByID(ctx, req.ID, 42)
	assert.ErrorIs(t, err, domainuser.ErrNotFound)
}
