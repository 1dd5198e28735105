package mongodb

import (
	"context"
	"errors"
	"fmt"

	"myflix/internal/models"
	"myflix/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserStore struct {
	coll *mongo.Collection
}

func NewUserStore(coll *mongo.Collection) *UserStore {
	return &UserStore{coll: coll}
}

var _ repository.UserRepo = (*UserStore)(nil)

func (s *UserStore) Create(ctx context.Context, u models.User) (*models.User, error) {
	doc := newUserDocument(u)
	res, err := s.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("insert user %q: %w", u.Username, repository.ErrDuplicateUsername)
		}
		return nil, fmt.Errorf("insert user %q: %w", u.Username, err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		u.ID = oid.Hex()
	}
	if u.FavoriteMovies == nil {
		u.FavoriteMovies = []string{}
	}
	return &u, nil
}

func (s *UserStore) List(ctx context.Context) ([]models.User, error) {
	cur, err := s.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	defer cur.Close(ctx)

	out := make([]models.User, 0, 16)
	for cur.Next(ctx) {
		var doc userDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode user: %w", err)
		}
		out = append(out, *doc.toModel())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return out, nil
}

// GetByUsername returns (nil, nil) if no document matches.
func (s *UserStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var doc userDocument
	err := s.coll.FindOne(ctx, bson.D{{Key: fieldUsername, Value: username}}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("find user %q: %w", username, err)
	}
	return doc.toModel(), nil
}

func (s *UserStore) Update(ctx context.Context, username string, upd models.UserUpdate) (*models.User, error) {
	set := bson.D{
		{Key: fieldUsername, Value: upd.Username},
		{Key: fieldPassword, Value: upd.PasswordHash},
		{Key: fieldEmail, Value: upd.Email},
	}
	var update bson.D
	if upd.Birthday != nil {
		set = append(set, bson.E{Key: fieldBirthday, Value: *upd.Birthday})
		update = bson.D{{Key: "$set", Value: set}}
	} else {
		update = bson.D{
			{Key: "$set", Value: set},
			{Key: "$unset", Value: bson.D{{Key: fieldBirthday, Value: ""}}},
		}
	}
	return s.findOneAndUpdate(ctx, "update user", username, update)
}

func (s *UserStore) PushFavorite(ctx context.Context, username, movieID string) (*models.User, error) {
	update := bson.D{{Key: "$push", Value: bson.D{{Key: fieldFavoriteMovies, Value: movieRef(movieID)}}}}
	return s.findOneAndUpdate(ctx, "push favorite", username, update)
}

func (s *UserStore) AddFavoriteToSet(ctx context.Context, username, movieID string) (*models.User, error) {
	update := bson.D{{Key: "$addToSet", Value: bson.D{{Key: fieldFavoriteMovies, Value: movieRef(movieID)}}}}
	return s.findOneAndUpdate(ctx, "add favorite", username, update)
}

func (s *UserStore) PullFavorite(ctx context.Context, username, movieID string) (*models.User, error) {
	update := bson.D{{Key: "$pull", Value: bson.D{{Key: fieldFavoriteMovies, Value: movieRef(movieID)}}}}
	return s.findOneAndUpdate(ctx, "pull favorite", username, update)
}

// findOneAndUpdate applies update atomically and returns the document after
// the change, or (nil, nil) when no user matched.
func (s *UserStore) findOneAndUpdate(ctx context.Context, op, username string, update bson.D) (*models.User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc userDocument
	err := s.coll.FindOneAndUpdate(ctx, bson.D{{Key: fieldUsername, Value: username}}, update, opts).Decode(&doc)
	if err != nil {
		switch {
		case errors.Is(err, mongo.ErrNoDocuments):
			return nil, nil
		case mongo.IsDuplicateKeyError(err):
			return nil, fmt.Errorf("%s %q: %w", op, username, repository.ErrDuplicateUsername)
		default:
			return nil, fmt.Errorf("%s %q: %w", op, username, err)
		}
	}
	return doc.toModel(), nil
}

func (s *UserStore) Delete(ctx context.Context, username string) (bool, error) {
	res, err := s.coll.DeleteOne(ctx, bson.D{{Key: fieldUsername, Value: username}})
	if err != nil {
		return false, fmt.Errorf("delete user %q: %w", username, err)
	}
	return res.DeletedCount > 0, nil
}
