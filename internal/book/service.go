package book

import (
	"context"

	"go.uber.org/zap"
)

// Service provides book-related business logic.
type Service struct {
	repo Repository
	log  *zap.Logger
}

// NewService creates a new book service.
func NewService(repo Repository, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{repo: repo, log: log}
}

// List returns the books matching every condition in f.
func (s *Service) List(ctx context.Context, f Filter) ([]Book, error) {
	return s.repo.FindAll(ctx, f)
}

// Get returns the book with the given ISBN.
func (s *Service) Get(ctx context.Context, isbn string) (Book, error) {
	return s.repo.FindOne(ctx, isbn)
}

func (s *Service) Create(ctx context.Context, b Book) (Book, error) {
	created, err := s.repo.Create(ctx, b)
	if err != nil {
		return Book{}, err
	}
	s.log.Debug("book created", zap.String("isbn", created.ISBN))
	return created, nil
}

// Update replaces every field except the key. The key always comes from
// isbn; an ISBN in b is ignored.
func (s *Service) Update(ctx context.Context, isbn string, b Book) (Book, error) {
	b.ISBN = isbn
	updated, err := s.repo.Update(ctx, isbn, b)
	if err != nil {
		return Book{}, err
	}
	s.log.Debug("book updated", zap.String("isbn", isbn))
	return updated, nil
}

func (s *Service) Remove(ctx context.Context, isbn string) error {
	if err := s.repo.Remove(ctx, isbn); err != nil {
		return err
	}
	s.log.Debug("book removed", zap.String("isbn", isbn))
	return nil
}

// Ping reports whether the store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
