package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/librarydesk/librarydesk/internal/core/domain"
)

const collectionBooks = "books"

type BookRepository struct {
	col *mongo.Collection
}

func NewBookRepository(db *mongo.Database) *BookRepository {
	return &BookRepository{col: db.Collection(collectionBooks)}
}

// List returns every book in natural (insertion) order.
func (r *BookRepository) List(ctx context.Context) ([]domain.Book, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "$natural", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	books := []domain.Book{}
	if err := cur.All(ctx, &books); err != nil {
		return nil, fmt.Errorf("decode books: %w", err)
	}
	return books, nil
}

// InsertMany stores books, assigning ids to those without one. It returns
// how many documents were written.
func (r *BookRepository) InsertMany(ctx context.Context, books []domain.Book) (int, error) {
	if len(books) == 0 {
		return 0, nil
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	docs := make([]interface{}, 0, len(books))
	for _, b := range books {
		if b.ID == "" {
			b.ID = uuid.NewString()
		}
		docs = append(docs, b)
	}

	res, err := r.col.InsertMany(ctx, docs)
	if res != nil && err != nil {
		return len(res.InsertedIDs), fmt.Errorf("insert books: %w", err)
	}
	if err != nil {
		return 0, fmt.Errorf("insert books: %w", err)
	}
	return len(res.InsertedIDs), nil
}

// EnsureIndexes creates the lookup indexes on the books collection.
func (r *BookRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "isbn", Value: 1}}, Options: options.Index().SetSparse(true)},
		{Keys: bson.D{{Key: "title", Value: 1}}},
		{Keys: bson.D{{Key: "author", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
