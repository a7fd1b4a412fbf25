package bookmock

import (
	"context"

	domain "library-backend/internal/domain/book"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock satisfying book.Repository. Fill in only the
// functions a test needs; unfilled ones return zero values.
type Repo struct {
	GetByBookIDFn           func(ctx context.Context, bookID string) (*domain.Book, error)
	GetByBookIDsFn          func(ctx context.Context, bookIDs []string) ([]domain.Book, error)
	GetByBookIDsForUpdateFn func(ctx context.Context, bookIDs []string) ([]domain.Book, error)
	SaveFn                  func(ctx context.Context, b *domain.Book) error
	ListFn                  func(ctx context.Context, f domain.ListFilter) ([]domain.Book, error)
}

func (m *Repo) GetByBookID(ctx context.Context, bookID string) (*domain.Book, error) {
	if m.GetByBookIDFn != nil {
		return m.GetByBookIDFn(ctx, bookID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) GetByBookIDs(ctx context.Context, bookIDs []string) ([]domain.Book, error) {
	if m.GetByBookIDsFn != nil {
		return m.GetByBookIDsFn(ctx, bookIDs)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) GetByBookIDsForUpdate(ctx context.Context, bookIDs []string) ([]domain.Book, error) {
	if m.GetByBookIDsForUpdateFn != nil {
		return m.GetByBookIDsForUpdateFn(ctx, bookIDs)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) Save(ctx context.Context, b *domain.Book) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, b)
	}
	return nil
}

func (m *Repo) List(ctx context.Context, f domain.ListFilter) ([]domain.Book, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, f)
	}
	return nil, nil
}
