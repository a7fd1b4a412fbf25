package uow

import (
	"context"

	"library-backend/internal/domain/book"
	"library-backend/internal/domain/borrowing"
)

// Repos bundles transaction-bound repositories.
type Repos struct {
	Books      book.Repository
	Borrowings borrowing.Repository
}

// UnitOfWork runs fn inside a single database transaction; everything done
// through the passed repos commits or rolls back together.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(r Repos) error) error
}
