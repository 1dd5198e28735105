package mongodb

import (
	"context"
	"errors"
	"fmt"

	"myflix/internal/models"
	"myflix/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type MovieStore struct {
	coll *mongo.Collection
}

func NewMovieStore(coll *mongo.Collection) *MovieStore {
	return &MovieStore{coll: coll}
}

var _ repository.MovieRepo = (*MovieStore)(nil)

func (s *MovieStore) List(ctx context.Context) ([]models.Movie, error) {
	cur, err := s.coll.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("find movies: %w", err)
	}
	defer cur.Close(ctx)

	out := make([]models.Movie, 0, 64)
	for cur.Next(ctx) {
		var doc movieDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode movie: %w", err)
		}
		out = append(out, doc.toModel())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate movies: %w", err)
	}
	return out, nil
}

func (s *MovieStore) GetByTitle(ctx context.Context, title string) (*models.Movie, error) {
	return s.findOne(ctx, fieldTitle, title)
}

func (s *MovieStore) GetByGenre(ctx context.Context, name string) (*models.Movie, error) {
	return s.findOne(ctx, fieldGenreName, name)
}

func (s *MovieStore) GetByDirector(ctx context.Context, name string) (*models.Movie, error) {
	return s.findOne(ctx, fieldDirectorName, name)
}

func (s *MovieStore) findOne(ctx context.Context, field, value string) (*models.Movie, error) {
	var doc movieDocument
	err := s.coll.FindOne(ctx, bson.D{{Key: field, Value: value}}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("find movie by %s %q: %w", field, value, err)
	}
	m := doc.toModel()
	return &m, nil
}

func (s *MovieStore) Count(ctx context.Context) (int64, error) {
	n, err := s.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("count movies: %w", err)
	}
	return n, nil
}

func (s *MovieStore) Insert(ctx context.Context, movies []models.Movie) (int, error) {
	if len(movies) == 0 {
		return 0, nil
	}
	docs := make([]any, 0, len(movies))
	for _, m := range movies {
		docs = append(docs, newMovieDocument(m))
	}
	res, err := s.coll.InsertMany(ctx, docs)
	if err != nil {
		return 0, fmt.Errorf("insert movies: %w", err)
	}
	return len(res.InsertedIDs), nil
}
