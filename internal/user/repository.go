package user

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// Repository stores user documents.
type Repository interface {
	Create(ctx context.Context, user *User) (bson.ObjectID, error)
	GetByID(ctx context.Context, id bson.ObjectID) (*User, error)
	Update(ctx context.Context, id bson.ObjectID, patch Patch) (UpdateResult, error)
	Delete(ctx context.Context, id bson.ObjectID) (int64, error)
}

// CollectionProvider hands out collections of the shared database handle.
// It fails when no connection has been established.
type CollectionProvider interface {
	Collection(name string) (*mongo.Collection, error)
}

type repository struct {
	conn CollectionProvider
}

// NewRepository returns a Repository backed by MongoDB.
func NewRepository(conn CollectionProvider) Repository {
	return &repository{conn: conn}
}

func (r *repository) users() (*mongo.Collection, error) {
	coll, err := r.conn.Collection(CollectionName)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s collection: %w", CollectionName, err)
	}
	return coll, nil
}

func (r *repository) Create(ctx context.Context, user *User) (bson.ObjectID, error) {
	coll, err := r.users()
	if err != nil {
		return bson.NilObjectID, err
	}

	res, err := coll.InsertOne(ctx, user)
	if err != nil {
		return bson.NilObjectID, fmt.Errorf("failed to insert user: %w", err)
	}

	id, ok := res.InsertedID.(bson.ObjectID)
	if !ok {
		return bson.NilObjectID, fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}

	return id, nil
}

func (r *repository) GetByID(ctx context.Context, id bson.ObjectID) (*User, error) {
	coll, err := r.users()
	if err != nil {
		return nil, err
	}

	var user User
	err = coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user %s: %w", id.Hex(), err)
	}

	return &user, nil
}

func (r *repository) Update(ctx context.Context, id bson.ObjectID, patch Patch) (UpdateResult, error) {
	coll, err := r.users()
	if err != nil {
		return UpdateResult{}, err
	}

	res, err := coll.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: id}},
		bson.D{{Key: "$set", Value: patch.SetDocument()}},
	)
	if err != nil {
		return UpdateResult{}, fmt.Errorf("failed to update user %s: %w", id.Hex(), err)
	}

	return UpdateResult{Matched: res.MatchedCount, Modified: res.ModifiedCount}, nil
}

func (r *repository) Delete(ctx context.Context, id bson.ObjectID) (int64, error) {
	coll, err := r.users()
	if err != nil {
		return 0, err
	}

	res, err := coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return 0, fmt.Errorf("failed to delete user %s: %w", id.Hex(), err)
	}

	return res.DeletedCount, nil
}
