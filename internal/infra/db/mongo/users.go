package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainuser "lendme/internal/domain/user"
)

type UserRepository struct {
	col *mongo.Collection
	db  *mongo.Database
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(usersCollection), db: db}
}

type userDocument struct {
	ID    int64  `bson:"_id"`
	Name  string `bson:"name"`
	Email string `bson:"email"`
}

func (r *UserRepository) ByID(ctx context.Context, id int64) (*domainuser.User, error) {
	var doc userDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainuser.ErrNotFound
		}
		return nil, err
	}
	return doc.toUser(), nil
}

func (r *UserRepository) All(ctx context.Context) ([]*domainuser.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var result []*domainuser.User
	for cur.Next(ctx) {
		var doc userDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		result = append(result, doc.toUser())
	}
	return result, cur.Err()
}

func (r *UserRepository) Create(ctx context.Context, u *domainuser.User) (*domainuser.User, error) {
	id, err := nextID(ctx, r.db, usersCollection)
	if err != nil {
		return nil, err
	}
	doc := userDocument{ID: id, Name: u.Name, Email: u.Email}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domainuser.ErrEmailInUse
		}
		return nil, err
	}
	return doc.toUser(), nil
}

func (r *UserRepository) Update(ctx context.Context, u *domainuser.User) (*domainuser.User, error) {
	doc := userDocument{ID: u.ID, Name: u.Name, Email: u.Email}
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": u.ID}, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domainuser.ErrEmailInUse
		}
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, domainuser.ErrNotFound
	}
	return doc.toUser(), nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domainuser.ErrNotFound
	}
	return nil
}

func (d userDocument) toUser() *domainuser.User {
	return &domainuser.User{ID: d.ID, Name: d.Name, Email: d.Email}
}
