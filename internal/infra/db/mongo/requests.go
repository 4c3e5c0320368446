package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainrequest "lendme/internal/domain/request"
	"lendme/internal/domain/shared/page"
)

type RequestRepository struct {
	col *mongo.Collection
	db  *mongo.Database
}

func NewRequestRepository(db *mongo.Database) *RequestRepository {
	return &RequestRepository{col: db.Collection(requestsCollection), db: db}
}

type requestDocument struct {
	ID          int64  `bson:"_id"`
	Description string `bson:"description"`
	RequesterID int64  `bson:"requester_id"`
	Created     int64  `bson:"created"`
}

func (d requestDocument) toRequest() *domainrequest.Request {
	return &domainrequest.Request{
		ID:          d.ID,
		Description: d.Description,
		RequesterID: d.RequesterID,
		Created:     time.UnixMilli(d.Created).UTC(),
	}
}

var createdDesc = bson.D{{Key: "created", Value: -1}, {Key: "_id", Value: -1}}

func (r *RequestRepository) Create(ctx context.Context, req *domainrequest.Request) (*domainrequest.Request, error) {
	id, err := nextID(ctx, r.db, requestsCollection)
	if err != nil {
		return nil, err
	}
	doc := requestDocument{
		ID:          id,
		Description: req.Description,
		RequesterID: req.RequesterID,
		Created:     req.Created.UnixMilli(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, err
	}
	return doc.toRequest(), nil
}

func (r *RequestRepository) ByID(ctx context.Context, id int64) (*domainrequest.Request, error) {
	var doc requestDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainrequest.ErrNotFound
		}
		return nil, err
	}
	return doc.toRequest(), nil
}

func (r *RequestRepository) ByRequesterID(ctx context.Context, requesterID int64) ([]*domainrequest.Request, error) {
	opts := options.Find().SetSort(createdDesc)
	return r.find(ctx, bson.M{"requester_id": requesterID}, opts)
}

func (r *RequestRepository) ByOtherRequesters(ctx context.Context, requesterID int64, p page.Page) ([]*domainrequest.Request, error) {
	opts := options.Find().
		SetSort(createdDesc).
		SetSkip(int64(p.Offset())).
		SetLimit(int64(p.Size))
	return r.find(ctx, bson.M{"requester_id": bson.M{"$ne": requesterID}}, opts)
}

func (r *RequestRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domainrequest.Request, error) {
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	result := make([]*domainrequest.Request, 0)
	for cur.Next(ctx) {
		var doc requestDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		result = append(result, doc.toRequest())
	}
	return result, cur.Err()
}
