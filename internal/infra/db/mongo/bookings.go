package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbooking "lendme/internal/domain/booking"
	"lendme/internal/domain/shared/page"
	domainuser "lendme/internal/domain/user"
)

type BookingRepository struct {
	col *mongo.Collection
	db  *mongo.Database
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{col: db.Collection(bookingsCollection), db: db}
}

// bookingDocument embeds item and booker snapshots so owner-side queries run
// against a single collection, the same denormalization the original's join
// query achieved.
type bookingDocument struct {
	ID     int64        `bson:"_id"`
	Start  int64        `bson:"start"`
	End    int64        `bson:"end"`
	Item   itemDocument `bson:"item"`
	Booker userDocument `bson:"booker"`
	Status string       `bson:"status"`
}

func newBookingDocument(b *domainbooking.Booking) bookingDocument {
	return bookingDocument{
		ID:     b.ID,
		Start:  b.Start.UnixMilli(),
		End:    b.End.UnixMilli(),
		Item:   newItemDocument(b.Item),
		Booker: userDocument{ID: b.Booker.ID, Name: b.Booker.Name, Email: b.Booker.Email},
		Status: string(b.Status),
	}
}

func (d bookingDocument) toBooking() *domainbooking.Booking {
	return &domainbooking.Booking{
		ID:     d.ID,
		Start:  millisToTime(d.Start),
		End:    millisToTime(d.End),
		Item:   d.Item.toItem(),
		Booker: &domainuser.User{ID: d.Booker.ID, Name: d.Booker.Name, Email: d.Booker.Email},
		Status: domainbooking.Status(d.Status),
	}
}

func (r *BookingRepository) Create(ctx context.Context, b *domainbooking.Booking) (*domainbooking.Booking, error) {
	id, err := nextID(ctx, r.db, bookingsCollection)
	if err != nil {
		return nil, err
	}
	doc := newBookingDocument(b)
	doc.ID = id
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, err
	}
	return doc.toBooking(), nil
}

func (r *BookingRepository) ByID(ctx context.Context, id int64) (*domainbooking.Booking, error) {
	var doc bookingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainbooking.ErrNotFound
		}
		return nil, err
	}
	return doc.toBooking(), nil
}

// Decide is the conditional status write: the filter pins WAITING so a
// concurrent decision cannot apply twice.
func (r *BookingRepository) Decide(ctx context.Context, id int64, to domainbooking.Status) (*domainbooking.Booking, error) {
	var doc bookingDocument
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := r.col.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id, "status": string(domainbooking.StatusWaiting)},
		bson.M{"$set": bson.M{"status": string(to)}},
		opts,
	).Decode(&doc)
	if err == nil {
		return doc.toBooking(), nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}
	// Missing or already decided; a second lookup tells them apart.
	count, countErr := r.col.CountDocuments(ctx, bson.M{"_id": id})
	if countErr != nil {
		return nil, countErr
	}
	if count == 0 {
		return nil, domainbooking.ErrNotFound
	}
	return nil, domainbooking.ErrAlreadyDecided
}

var (
	startDesc = bson.D{{Key: "start", Value: -1}, {Key: "_id", Value: -1}}
	idAsc     = bson.D{{Key: "_id", Value: 1}}
)

func (r *BookingRepository) ByBooker(ctx context.Context, bookerID int64, p page.Page) ([]*domainbooking.Booking, error) {
	return r.find(ctx, bson.M{"booker.id": bookerID}, startDesc, p)
}

func (r *BookingRepository) ByBookerAndStatus(ctx context.Context, bookerID int64, status domainbooking.Status, p page.Page) ([]*domainbooking.Booking, error) {
	return r.find(ctx, bson.M{"booker.id": bookerID, "status": string(status)}, startDesc, p)
}

func (r *BookingRepository) ByBookerInPast(ctx context.Context, bookerID int64, now time.Time, p page.Page) ([]*domainbooking.Booking, error) {
	return r.find(ctx, bson.M{"booker.id": bookerID, "end": bson.M{"$lt": now.UnixMilli()}}, startDesc, p)
}

func (r *BookingRepository) ByBookerInFuture(ctx context.Context, bookerID int64, now time.Time, p page.Page) ([]*domainbooking.Booking, error) {
	return r.find(ctx, bson.M{"booker.id": bookerID, "start": bson.M{"$gt": now.UnixMilli()}}, startDesc, p)
}

func (r *BookingRepository) ByBookerCurrent(ctx context.Context, bookerID int64, now time.Time, p page.Page) ([]*domainbooking.Booking, error) {
	return r.find(ctx, currentFilter(bson.M{"booker.id": bookerID}, now), idAsc, p)
}

func (r *BookingRepository) ByOwner(ctx context.Context, ownerID int64, p page.Page) ([]*domainbooking.Booking, error) {
	return r.find(ctx, bson.M{"item.owner_id": ownerID}, startDesc, p)
}

func (r *BookingRepository) ByOwnerAndStatus(ctx context.Context, ownerID int64, status domainbooking.Status, p page.Page) ([]*domainbooking.Booking, error) {
	return r.find(ctx, bson.M{"item.owner_id": ownerID, "status": string(status)}, startDesc, p)
}

func (r *BookingRepository) ByOwnerInPast(ctx context.Context, ownerID int64, now time.Time, p page.Page) ([]*domainbooking.Booking, error) {
	return r.find(ctx, bson.M{"item.owner_id": ownerID, "end": bson.M{"$lt": now.UnixMilli()}}, startDesc, p)
}

func (r *BookingRepository) ByOwnerInFuture(ctx context.Context, ownerID int64, now time.Time, p page.Page) ([]*domainbooking.Booking, error) {
	return r.find(ctx, bson.M{"item.owner_id": ownerID, "start": bson.M{"$gt": now.UnixMilli()}}, startDesc, p)
}

func (r *BookingRepository) ByOwnerCurrent(ctx context.Context, ownerID int64, now time.Time, p page.Page) ([]*domainbooking.Booking, error) {
	return r.find(ctx, currentFilter(bson.M{"item.owner_id": ownerID}, now), startDesc, p)
}

func (r *BookingRepository) CompletedExists(ctx context.Context, bookerID, itemID int64, now time.Time) (bool, error) {
	filter := bson.M{
		"booker.id": bookerID,
		"item.id":   itemID,
		"status":    string(domainbooking.StatusApproved),
		"end":       bson.M{"$lt": now.UnixMilli()},
	}
	count, err := r.col.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *BookingRepository) LastForItem(ctx context.Context, itemID int64, now time.Time) (*domainbooking.Booking, error) {
	filter := bson.M{
		"item.id": itemID,
		"status":  string(domainbooking.StatusApproved),
		"start":   bson.M{"$lt": now.UnixMilli()},
	}
	return r.findOneSorted(ctx, filter, bson.D{{Key: "start", Value: -1}})
}

func (r *BookingRepository) NextForItem(ctx context.Context, itemID int64, now time.Time) (*domainbooking.Booking, error) {
	filter := bson.M{
		"item.id": itemID,
		"status":  string(domainbooking.StatusApproved),
		"start":   bson.M{"$gt": now.UnixMilli()},
	}
	return r.findOneSorted(ctx, filter, bson.D{{Key: "start", Value: 1}})
}

func (r *BookingRepository) find(ctx context.Context, filter bson.M, sort bson.D, p page.Page) ([]*domainbooking.Booking, error) {
	opts := options.Find().
		SetSort(sort).
		SetSkip(int64(p.Offset())).
		SetLimit(int64(p.Size))
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	result := make([]*domainbooking.Booking, 0)
	for cur.Next(ctx) {
		var doc bookingDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		result = append(result, doc.toBooking())
	}
	return result, cur.Err()
}

func (r *BookingRepository) findOneSorted(ctx context.Context, filter bson.M, sort bson.D) (*domainbooking.Booking, error) {
	var doc bookingDocument
	err := r.col.FindOne(ctx, filter, options.FindOne().SetSort(sort)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return doc.toBooking(), nil
}

func currentFilter(base bson.M, now time.Time) bson.M {
	base["start"] = bson.M{"$lte": now.UnixMilli()}
	base["end"] = bson.M{"$gte": now.UnixMilli()}
	return base
}

func millisToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
