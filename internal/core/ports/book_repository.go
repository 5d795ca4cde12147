package ports

import (
	"context"

	"github.com/librarydesk/librarydesk/internal/core/domain"
)

// BookRepository is the books table of the remote data service.
type BookRepository interface {
	// List returns all books in storage order.
	List(ctx context.Context) ([]domain.Book, error)
	InsertMany(ctx context.Context, books []domain.Book) (int, error)
}
