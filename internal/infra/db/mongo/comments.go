package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainitem "lendme/internal/domain/item"
)

type CommentRepository struct {
	col *mongo.Collection
	db  *mongo.Database
}

func NewCommentRepository(db *mongo.Database) *CommentRepository {
	return &CommentRepository{col: db.Collection(commentsCollection), db: db}
}

type commentDocument struct {
	ID         int64  `bson:"_id"`
	Text       string `bson:"text"`
	ItemID     int64  `bson:"item_id"`
	AuthorID   int64  `bson:"author_id"`
	AuthorName string `bson:"author_name"`
	Created    int64  `bson:"created"`
}

func (d commentDocument) toComment() *domainitem.Comment {
	return &domainitem.Comment{
		ID:         d.ID,
		Text:       d.Text,
		ItemID:     d.ItemID,
		AuthorID:   d.AuthorID,
		AuthorName: d.AuthorName,
		Created:    time.UnixMilli(d.Created).UTC(),
	}
}

func (r *CommentRepository) Create(ctx context.Context, c *domainitem.Comment) (*domainitem.Comment, error) {
	id, err := nextID(ctx, r.db, commentsCollection)
	if err != nil {
		return nil, err
	}
	doc := commentDocument{
		ID:         id,
		Text:       c.Text,
		ItemID:     c.ItemID,
		AuthorID:   c.AuthorID,
		AuthorName: c.AuthorName,
		Created:    c.Created.UnixMilli(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, err
	}
	return doc.toComment(), nil
}

func (r *CommentRepository) ByItemID(ctx context.Context, itemID int64) ([]*domainitem.Comment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{"item_id": itemID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	result := make([]*domainitem.Comment, 0)
	for cur.Next(ctx) {
		var doc commentDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		result = append(result, doc.toComment())
	}
	return result, cur.Err()
}
