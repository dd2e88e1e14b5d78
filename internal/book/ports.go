package book

import (
	"context"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=book

// Repository defines the contract for book data storage.
type Repository interface {
	FindAll(ctx context.Context, f Filter) ([]Book, error)
	FindOne(ctx context.Context, isbn string) (Book, error)
	Create(ctx context.Context, b Book) (Book, error)
	Update(ctx context.Context, isbn string, b Book) (Book, error)
	Remove(ctx context.Context, isbn string) error
	Ping(ctx context.Context) error
}
