package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lendme/internal/app/services/items"
	"lendme/internal/app/services/users"
	domainbooking "lendme/internal/domain/booking"
	domainitem "lendme/internal/domain/item"
	"lendme/internal/domain/shared/page"
	domainuser "lendme/internal/domain/user"
	"lendme/internal/infra/storage/memory"
)

type fixture struct {
	now      time.Time
	users    *users.Service
	items    *items.Service
	bookings *Service
	outbox   *memory.Outbox
}

func newFixture() *fixture {
	f := &fixture{
		now:    time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC),
		outbox: memory.NewOutbox(),
	}
	clock := func() time.Time { return f.now }
	f.users = &users.Service{Users: memory.NewUserRepository()}
	f.bookings = &Service{
		Bookings: memory.NewBookingRepository(),
		Users:    f.users,
		Outbox:   f.outbox,
		Clock:    clock,
	}
	f.items = &items.Service{
		Items:    memory.NewItemRepository(),
		Comments: memory.NewCommentRepository(),
		Users:    f.users,
		Bookings: f.bookings,
		Outbox:   f.outbox,
		Clock:    clock,
	}
	f.bookings.Items = f.items
	return f
}

func (f *fixture) user(t *testing.T, name, email string) *domainuser.User {
	t.Helper()
	u, err := f.users.Create(context.Background(), domainuser.CreateParams{Name: name, Email: email})
	require.NoError(t, err)
	return u
}

func (f *fixture) item(t *testing.T, ownerID int64, name string, available bool) *domainitem.Item {
	t.Helper()
	itm, err := f.items.Create(context.Background(), items.CreateParams{
		Name:        name,
		Description: name + " description",
		Available:   available,
	}, ownerID)
	require.NoError(t, err)
	return itm
}

func (f *fixture) booking(t *testing.T, bookerID, itemID int64, start, end time.Time) *domainbooking.Booking {
	t.Helper()
	b, err := f.bookings.Create(context.Background(), CreateParams{ItemID: itemID, Start: start, End: end}, bookerID)
	require.NoError(t, err)
	return b
}

func (f *fixture) approved(t *testing.T, bookerID, itemID, ownerID int64, start, end time.Time) *domainbooking.Booking {
	t.Helper()
	b := f.booking(t, bookerID, itemID, start, end)
	decided, err := f.bookings.Approve(context.Background(), b.ID, ownerID, true)
	require.NoError(t, err)
	return decided
}

func TestCreateUnknownBooker(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	// Booker is checked before the item, so an unknown booker wins even when
	// the item is unknown too.
	_, err := f.bookings.Create(ctx, CreateParams{ItemID: 99, Start: f.now.Add(time.Hour), End: f.now.Add(2 * time.Hour)}, 42)
	assert.ErrorIs(t, err, domainuser.ErrNotFound)
}

func TestCreateUnknownItem(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	booker := f.user(t, "booker", "booker@example.com")

	_, err := f.bookings.Create(ctx, CreateParams{ItemID: 99, Start: f.now.Add(time.Hour), End: f.now.Add(2 * time.Hour)}, booker.ID)
	assert.ErrorIs(t, err, domainitem.ErrNotFound)
}

func TestCreateOwnItem(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := f.user(t, "owner", "owner@example.com")
	itm := f.item(t, owner.ID, "drill", true)

	_, err := f.bookings.Create(ctx, CreateParams{ItemID: itm.ID, Start: f.now.Add(time.Hour), End: f.now.Add(2 * time.Hour)}, owner.ID)
	assert.ErrorIs(t, err, domainitem.ErrNotFound)
}

func TestCreateUnavailableItem(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := f.user(t, "owner", "owner@example.com")
	booker := f.user(t, "booker", "booker@example.com")
	itm := f.item(t, owner.ID, "drill", false)

	_, err := f.bookings.Create(ctx, CreateParams{ItemID: itm.ID, Start: f.now.Add(time.Hour), End: f.now.Add(2 * time.Hour)}, booker.ID)
	assert.ErrorIs(t, err, domainitem.ErrNotAvailable)
}

func TestCreateInvalidRange(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := f.user(t, "owner", "owner@example.com")
	booker := f.user(t, "booker", "booker@example.com")
	itm := f.item(t, owner.ID, "drill", true)

	start := f.now.Add(time.Hour)
	_, err := f.bookings.Create(ctx, CreateParams{ItemID: itm.ID, Start: start, End: start}, booker.ID)
	assert.ErrorIs(t, err, domainbooking.ErrInvalidRange)
}

func TestCreateStartsWaitingAndRecordsEvent(t *testing.T) {
	f := newFixture()
	owner := f.user(t, "owner", "owner@example.com")
	booker := f.user(t, "booker", "booker@example.com")
	itm := f.item(t, owner.ID, "drill", true)

	b := f.booking(t, booker.ID, itm.ID, f.now.Add(time.Hour), f.now.Add(2*time.Hour))

	assert.Equal(t, domainbooking.StatusWaiting, b.Status)
	assert.Equal(t, booker.ID, b.Booker.ID)
	assert.Equal(t, itm.ID, b.Item.ID)
	assert.Equal(t, 1, f.outbox.Pending())
}

func TestApproveIsOneShot(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := f.user(t, "owner", "owner@example.com")
	booker := f.user(t, "booker", "booker@example.com")
	itm := f.item(t, owner.ID, "drill", true)
	b := f.booking(t, booker.ID, itm.ID, f.now.Add(time.Hour), f.now.Add(2*time.Hour))

	decided, err := f.bookings.Approve(ctx, b.ID, owner.ID, true)
	require.NoError(t, err)
	assert.Equal(t, domainbooking.StatusApproved, decided.Status)

	// APPROVED is terminal: a second decision of either kind is refused.
	_, err = f.bookings.Approve(ctx, b.ID, owner.ID, true)
	assert.ErrorIs(t, err, domainitem.ErrNotAvailable)
	_, err = f.bookings.Approve(ctx, b.ID, owner.ID, false)
	assert.ErrorIs(t, err, domainitem.ErrNotAvailable)
}

func TestApproveRejects(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := f.user(t, "owner", "owner@example.com")
	booker := f.user(t, "booker", "booker@example.com")
	itm := f.item(t, owner.ID, "drill", true)
	b := f.booking(t, booker.ID, itm.ID, f.now.Add(time.Hour), f.now.Add(2*time.Hour))

	decided, err := f.bookings.Approve(ctx, b.ID, owner.ID, false)
	require.NoError(t, err)
	assert.Equal(t, domainbooking.StatusRejected, decided.Status)
}

func TestApproveWrongUser(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := f.user(t, "owner", "owner@example.com")
	booker := f.user(t, "booker", "booker@example.com")
	stranger := f.user(t, "stranger", "stranger@example.com")
	itm := f.item(t, owner.ID, "drill", true)
	b := f.booking(t, booker.ID, itm.ID, f.now.Add(time.Hour), f.now.Add(2*time.Hour))

	_, err := f.bookings.Approve(ctx, b.ID, stranger.ID, true)
	assert.ErrorIs(t, err, domainitem.ErrNotFound)

	// The failed attempt must not consume the transition.
	got, err := f.bookings.FindByIDAndUserID(ctx, b.ID, booker.ID)
	require.NoError(t, err)
	assert.Equal(t, domainbooking.StatusWaiting, got.Status)
}

func TestApproveUnknownBooking(t *testing.T) {
	f := newFixture()
	owner := f.user(t, "owner", "owner@example.com")

	_, err := f.bookings.Approve(context.Background(), 99, owner.ID, true)
	assert.ErrorIs(t, err, domainbooking.ErrNotFound)
}

func TestFindByIDHidesFromStrangers(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := f.user(t, "owner", "owner@example.com")
	booker := f.user(t, "booker", "booker@example.com")
	stranger := f.user(t, "stranger", "stranger@example.com")
	itm := f.item(t, owner.ID, "drill", true)
	b := f.booking(t, booker.ID, itm.ID, f.now.Add(time.Hour), f.now.Add(2*time.Hour))

	got, err := f.bookings.FindByIDAndUserID(ctx, b.ID, booker.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)

	got, err = f.bookings.FindByIDAndUserID(ctx, b.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)

	// A third party gets not-found, not forbidden.
	_, err = f.bookings.FindByIDAndUserID(ctx, b.ID, stranger.ID)
	assert.ErrorIs(t, err, domainbooking.ErrNotFound)
}

func TestStateFilters(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := f.user(t, "owner", "owner@example.com")
	booker := f.user(t, "booker", "booker@example.com")
	itm := f.item(t, owner.ID, "drill", true)

	past := f.approved(t, booker.ID, itm.ID, owner.ID, f.now.Add(-3*time.Hour), f.now.Add(-2*time.Hour))
	current := f.approved(t, booker.ID, itm.ID, owner.ID, f.now.Add(-time.Hour), f.now.Add(time.Hour))
	future := f.approved(t, booker.ID, itm.ID, owner.ID, f.now.Add(2*time.Hour), f.now.Add(3*time.Hour))
	waiting := f.booking(t, booker.ID, itm.ID, f.now.Add(4*time.Hour), f.now.Add(5*time.Hour))
	rejected := f.booking(t, booker.ID, itm.ID, f.now.Add(6*time.Hour), f.now.Add(7*time.Hour))
	_, err := f.bookings.Approve(ctx, rejected.ID, owner.ID, false)
	require.NoError(t, err)

	p := page.Page{From: 0, Size: 20}

	ids := func(list []*domainbooking.Booking) []int64 {
		out := make([]int64, 0, len(list))
		for _, b := range list {
			out = append(out, b.ID)
		}
		return out
	}

	all, err := f.bookings.FindByUserIDAndState(ctx, booker.ID, "ALL", p)
	require.NoError(t, err)
	assert.Equal(t, []int64{rejected.ID, waiting.ID, future.ID, current.ID, past.ID}, ids(all))

	got, err := f.bookings.FindByUserIDAndState(ctx, booker.ID, "PAST", p)
	require.NoError(t, err)
	assert.Equal(t, []int64{past.ID}, ids(got))

	got, err = f.bookings.FindByUserIDAndState(ctx, booker.ID, "CURRENT", p)
	require.NoError(t, err)
	assert.Equal(t, []int64{current.ID}, ids(got))

	got, err = f.bookings.FindByUserIDAndState(ctx, booker.ID, "FUTURE", p)
	require.NoError(t, err)
	assert.Equal(t, []int64{rejected.ID, waiting.ID, future.ID}, ids(got))

	got, err = f.bookings.FindByUserIDAndState(ctx, booker.ID, "WAITING", p)
	require.NoError(t, err)
	assert.Equal(t, []int64{waiting.ID}, ids(got))

	got, err = f.bookings.FindByUserIDAndState(ctx, booker.ID, "REJECTED", p)
	require.NoError(t, err)
	assert.Equal(t, []int64{rejected.ID}, ids(got))

	got, err = f.bookings.FindByUserIDAndState(ctx, booker.ID, "APPROVED", p)
	require.NoError(t, err)
	assert.Equal(t, []int64{future.ID, current.ID, past.ID}, ids(got))

	// The owner-side listing sees the same bookings.
	got, err = f.bookings.FindByOwnerIDAndState(ctx, owner.ID, "ALL", p)
	require.NoError(t, err)
	assert.Len(t, got, 5)
}

func TestStateBoundaryIsCurrent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := f.user(t, "owner", "owner@example.com")
	booker := f.user(t, "booker", "booker@example.com")
	itm := f.item(t, owner.ID, "drill", true)

	// A booking ending exactly now is CURRENT, not PAST; one starting
	// exactly now is CURRENT, not FUTURE.
	ending := f.booking(t, booker.ID, itm.ID, f.now.Add(-time.Hour), f.now)
	starting := f.booking(t, booker.ID, itm.ID, f.now, f.now.Add(time.Hour))

	p := page.Page{From: 0, Size: 20}
	got, err := f.bookings.FindByUserIDAndState(ctx, booker.ID, "CURRENT", p)
	require.NoError(t, err)
	require.Len(t, got, 2)
	// Booker-side CURRENT orders by id ascending.
	assert.Equal(t, ending.ID, got[0].ID)
	assert.Equal(t, starting.ID, got[1].ID)

	got, err = f.bookings.FindByUserIDAndState(ctx, booker.ID, "PAST", p)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = f.bookings.FindByUserIDAndState(ctx, booker.ID, "FUTURE", p)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestUnsupportedState(t *testing.T) {
	f := newFixture()
	booker := f.user(t, "booker", "booker@example.com")

	_, err := f.bookings.FindByUserIDAndState(context.Background(), booker.ID, "SOMETHING", page.Page{From: 0, Size: 20})
	require.Error(t, err)
	assert.Equal(t, "Unknown state: UNSUPPORTED_STATUS", err.Error())
}

func TestListUnknownUser(t *testing.T) {
	f := newFixture()

	_, err := f.bookings.FindByUserIDAndState(context.Background(), 42, "ALL", page.Page{From: 0, Size: 20})
	assert.ErrorIs(t, err, domainuser.ErrNotFound)
	_, err = f.bookings.FindByOwnerIDAndState(context.Background(), 42, "ALL", page.Page{From: 0, Size: 20})
	assert.ErrorIs(t, err, domainuser.ErrNotFound)
}

func TestPaginationAliasesWithinPage(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := f.user(t, "owner", "owner@example.com")
	booker := f.user(t, "booker", "booker@example.com")
	itm := f.item(t, owner.ID, "drill", true)

	for i := 0; i < 4; i++ {
		f.booking(t, booker.ID, itm.ID, f.now.Add(time.Duration(i+1)*time.Hour), f.now.Add(time.Duration(i+2)*time.Hour))
	}

	first, err := f.bookings.FindByUserIDAndState(ctx, booker.ID, "ALL", page.Page{From: 0, Size: 2})
	require.NoError(t, err)
	require.Len(t, first, 2)

	// from resolves to a page index via integer division, so from=1/size=2
	// lands on the same page as from=0.
	aliased, err := f.bookings.FindByUserIDAndState(ctx, booker.ID, "ALL", page.Page{From: 1, Size: 2})
	require.NoError(t, err)
	require.Len(t, aliased, 2)
	assert.Equal(t, first[0].ID, aliased[0].ID)
	assert.Equal(t, first[1].ID, aliased[1].ID)

	second, err := f.bookings.FindByUserIDAndState(ctx, booker.ID, "ALL", page.Page{From: 2, Size: 2})
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.NotEqual(t, first[0].ID, second[0].ID)

	beyond, err := f.bookings.FindByUserIDAndState(ctx, booker.ID, "ALL", page.Page{From: 4, Size: 2})
	require.NoError(t, err)
	assert.Empty(t, beyond)
}

func TestHasUserBookedItem(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := f.user(t, "owner", "owner@example.com")
	booker := f.user(t, "booker", "booker@example.com")
	itm := f.item(t, owner.ID, "drill", true)

	b := f.approved(t, booker.ID, itm.ID, owner.ID, f.now.Add(time.Hour), f.now.Add(2*time.Hour))

	booked, err := f.bookings.HasUserBookedItem(ctx, booker.ID, itm.ID)
	require.NoError(t, err)
	assert.False(t, booked, "booking has not ended yet")

	f.now = b.End.Add(time.Minute)
	booked, err = f.bookings.HasUserBookedItem(ctx, booker.ID, itm.ID)
	require.NoError(t, err)
	assert.True(t, booked)
}

func TestHasUserBookedItemIgnoresWaiting(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := f.user(t, "owner", "owner@example.com")
	booker := f.user(t, "booker", "booker@example.com")
	itm := f.item(t, owner.ID, "drill", true)

	b := f.booking(t, booker.ID, itm.ID, f.now.Add(time.Hour), f.now.Add(2*time.Hour))
	f.now = b.End.Add(time.Minute)

	booked, err := f.bookings.HasUserBookedItem(ctx, booker.ID, itm.ID)
	require.NoError(t, err)
	assert.False(t, booked, "only APPROVED bookings count")
}

func TestLastAndNextForItem(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := f.user(t, "owner", "owner@example.com")
	booker := f.user(t, "booker", "booker@example.com")
	itm := f.item(t, owner.ID, "drill", true)

	f.approved(t, booker.ID, itm.ID, owner.ID, f.now.Add(-4*time.Hour), f.now.Add(-3*time.Hour))
	recent := f.approved(t, booker.ID, itm.ID, owner.ID, f.now.Add(-2*time.Hour), f.now.Add(-time.Hour))
	soon := f.approved(t, booker.ID, itm.ID, owner.ID, f.now.Add(time.Hour), f.now.Add(2*time.Hour))
	f.approved(t, booker.ID, itm.ID, owner.ID, f.now.Add(3*time.Hour), f.now.Add(4*time.Hour))

	last, err := f.bookings.LastBookingForItem(ctx, itm.ID)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, recent.ID, last.ID)

	next, err := f.bookings.NextBookingForItem(ctx, itm.ID)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, soon.ID, next.ID)
}

func TestLastAndNextForItemEmpty(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := f.user(t, "owner", "owner@example.com")
	itm := f.item(t, owner.ID, "drill", true)

	last, err := f.bookings.LastBookingForItem(ctx, itm.ID)
	require.NoError(t, err)
	assert.Nil(t, last)

	next, err := f.bookings.NextBookingForItem(ctx, itm.ID)
	require.NoError(t, err)
	assert.Nil(t, next)
}
