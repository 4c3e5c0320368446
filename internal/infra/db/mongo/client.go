package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Client struct {
	DB *mongo.Database
}

func New(uri, database string) (*Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	opts := options.Client().ApplyURI(uri).SetRetryWrites(true)
	m, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &Client{DB: m.Database(database)}, nil
}

func (c *Client) Ping(ctx context.Context) error {
	return c.DB.Client().Ping(ctx, nil)
}

func (c *Client) Close(ctx context.Context) error {
	return c.DB.Client().Disconnect(ctx)
}

// EnsureIndexes creates the indexes the repositories rely on: unique user
// emails and the booking query paths.
func (c *Client) EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)
	if _, err := c.DB.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: unique,
	}); err != nil {
		return err
	}
	bookingIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "booker.id", Value: 1}, {Key: "start", Value: -1}}},
		{Keys: bson.D{{Key: "item.owner_id", Value: 1}, {Key: "start", Value: -1}}},
		{Keys: bson.D{{Key: "item.id", Value: 1}, {Key: "status", Value: 1}, {Key: "start", Value: -1}}},
	}
	if _, err := c.DB.Collection(bookingsCollection).Indexes().CreateMany(ctx, bookingIndexes); err != nil {
		return err
	}
	itemIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "_id", Value: 1}}},
		{Keys: bson.D{{Key: "request_id", Value: 1}}},
	}
	if _, err := c.DB.Collection(itemsCollection).Indexes().CreateMany(ctx, itemIndexes); err != nil {
		return err
	}
	_, err := c.DB.Collection(requestsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "requester_id", Value: 1}, {Key: "created", Value: -1}},
	})
	return err
}
