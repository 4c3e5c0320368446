package mongo

import (
	"context"
	"errors"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainitem "lendme/internal/domain/item"
	"lendme/internal/domain/shared/page"
)

type ItemRepository struct {
	col *mongo.Collection
	db  *mongo.Database
}

func NewItemRepository(db *mongo.Database) *ItemRepository {
	return &ItemRepository{col: db.Collection(itemsCollection), db: db}
}

type itemDocument struct {
	ID          int64  `bson:"_id"`
	Name        string `bson:"name"`
	Description string `bson:"description"`
	Available   bool   `bson:"available"`
	OwnerID     int64  `bson:"owner_id"`
	RequestID   int64  `bson:"request_id"`
}

func newItemDocument(i *domainitem.Item) itemDocument {
	return itemDocument{
		ID:          i.ID,
		Name:        i.Name,
		Description: i.Description,
		Available:   i.Available,
		OwnerID:     i.OwnerID,
		RequestID:   i.RequestID,
	}
}

func (d itemDocument) toItem() *domainitem.Item {
	return &domainitem.Item{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Available:   d.Available,
		OwnerID:     d.OwnerID,
		RequestID:   d.RequestID,
	}
}

func (r *ItemRepository) ByID(ctx context.Context, id int64) (*domainitem.Item, error) {
	var doc itemDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainitem.ErrNotFound
		}
		return nil, err
	}
	return doc.toItem(), nil
}

func (r *ItemRepository) Create(ctx context.Context, i *domainitem.Item) (*domainitem.Item, error) {
	id, err := nextID(ctx, r.db, itemsCollection)
	if err != nil {
		return nil, err
	}
	doc := newItemDocument(i)
	doc.ID = id
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, err
	}
	return doc.toItem(), nil
}

func (r *ItemRepository) Update(ctx context.Context, i *domainitem.Item) (*domainitem.Item, error) {
	doc := newItemDocument(i)
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": i.ID}, doc)
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, domainitem.ErrNotFound
	}
	return doc.toItem(), nil
}

func (r *ItemRepository) ByOwnerID(ctx context.Context, ownerID int64, p page.Page) ([]*domainitem.Item, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(int64(p.Offset())).
		SetLimit(int64(p.Size))
	return r.find(ctx, bson.M{"owner_id": ownerID}, opts)
}

func (r *ItemRepository) Search(ctx context.Context, text string, p page.Page) ([]*domainitem.Item, error) {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(text), Options: "i"}
	filter := bson.M{
		"available": true,
		"$or": bson.A{
			bson.M{"name": pattern},
			bson.M{"description": pattern},
		},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(int64(p.Offset())).
		SetLimit(int64(p.Size))
	return r.find(ctx, filter, opts)
}

func (r *ItemRepository) ByRequestID(ctx context.Context, requestID int64) ([]*domainitem.Item, error) {
	if requestID == 0 {
		return []*domainitem.Item{}, nil
	}
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	return r.find(ctx, bson.M{"request_id": requestID}, opts)
}

func (r *ItemRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domainitem.Item, error) {
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	result := make([]*domainitem.Item, 0)
	for cur.Next(ctx) {
		var doc itemDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		result = append(result, doc.toItem())
	}
	return result, cur.Err()
}
