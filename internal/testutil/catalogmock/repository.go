package catalogmock

import (
	"context"

	"library-backend/internal/domain/book"
	domain "library-backend/internal/domain/catalog"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock satisfying catalog.Repository.
type Repo struct {
	ListLibrariesFn  func(ctx context.Context, f domain.LibraryFilter) ([]domain.LibraryRow, error)
	ListAuthorsFn    func(ctx context.Context, f domain.AuthorFilter) ([]domain.AuthorRow, error)
	ListCategoriesFn func(ctx context.Context) ([]book.Category, error)
}

func (m *Repo) ListLibraries(ctx context.Context, f domain.LibraryFilter) ([]domain.LibraryRow, error) {
	if m.ListLibrariesFn != nil {
		return m.ListLibrariesFn(ctx, f)
	}
	return nil, nil
}

func (m *Repo) ListAuthors(ctx context.Context, f domain.AuthorFilter) ([]domain.AuthorRow, error) {
	if m.ListAuthorsFn != nil {
		return m.ListAuthorsFn(ctx, f)
	}
	return nil, nil
}

func (m *Repo) ListCategories(ctx context.Context) ([]book.Category, error) {
	if m.ListCategoriesFn != nil {
		return m.ListCategoriesFn(ctx)
	}
	return nil, nil
}
