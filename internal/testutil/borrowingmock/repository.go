package borrowingmock

import (
	"context"
	"time"

	bookDomain "library-backend/internal/domain/book"
	domain "library-backend/internal/domain/borrowing"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock satisfying borrowing.Repository.
type Repo struct {
	CreateFn               func(ctx context.Context, t *domain.BorrowingTransaction) error
	GetByTransactionIDFn   func(ctx context.Context, transactionID string) (*domain.BorrowingTransaction, error)
	SaveFn                 func(ctx context.Context, t *domain.BorrowingTransaction) error
	ListByUserFn           func(ctx context.Context, userID string) ([]domain.BorrowingTransaction, error)
	CountActiveBooksFn     func(ctx context.Context, userID string) (int, error)
	AttachBooksFn          func(ctx context.Context, t *domain.BorrowingTransaction, books []bookDomain.Book) error
	ListActiveDueBetweenFn func(ctx context.Context, from, to time.Time) ([]domain.BorrowingTransaction, error)
	ListActivePastDueFn    func(ctx context.Context, asOf time.Time) ([]domain.BorrowingTransaction, error)
}

func (m *Repo) Create(ctx context.Context, t *domain.BorrowingTransaction) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, t)
	}
	return nil
}

func (m *Repo) GetByTransactionID(ctx context.Context, transactionID string) (*domain.BorrowingTransaction, error) {
	if m.GetByTransactionIDFn != nil {
		return m.GetByTransactionIDFn(ctx, transactionID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) Save(ctx context.Context, t *domain.BorrowingTransaction) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, t)
	}
	return nil
}

func (m *Repo) ListByUser(ctx context.Context, userID string) ([]domain.BorrowingTransaction, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID)
	}
	return nil, nil
}

func (m *Repo) CountActiveBooks(ctx context.Context, userID string) (int, error) {
	if m.CountActiveBooksFn != nil {
		return m.CountActiveBooksFn(ctx, userID)
	}
	return 0, nil
}

func (m *Repo) AttachBooks(ctx context.Context, t *domain.BorrowingTransaction, books []bookDomain.Book) error {
	if m.AttachBooksFn != nil {
		return m.AttachBooksFn(ctx, t, books)
	}
	return nil
}

func (m *Repo) ListActiveDueBetween(ctx context.Context, from, to time.Time) ([]domain.BorrowingTransaction, error) {
	if m.ListActiveDueBetweenFn != nil {
		return m.ListActiveDueBetweenFn(ctx, from, to)
	}
	return nil, nil
}

func (m *Repo) ListActivePastDue(ctx context.Context, asOf time.Time) ([]domain.BorrowingTransaction, error) {
	if m.ListActivePastDueFn != nil {
		return m.ListActivePastDueFn(ctx, asOf)
	}
	return nil, nil
}
