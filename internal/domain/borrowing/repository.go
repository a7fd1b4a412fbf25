package borrowing

import (
	"context"
	"time"

	"library-backend/internal/domain/book"
)

type Repository interface {
	Create(ctx context.Context, t *BorrowingTransaction) error
	// GetByTransactionID loads the transaction with its book set.
	GetByTransactionID(ctx context.Context, transactionID string) (*BorrowingTransaction, error)
	Save(ctx context.Context, t *BorrowingTransaction) error
	ListByUser(ctx context.Context, userID string) ([]BorrowingTransaction, error)
	// CountActiveBooks sums book rows across the user's active and overdue
	// transactions; this is the number the borrowing limit is checked against.
	CountActiveBooks(ctx context.Context, userID string) (int, error)
	// AttachBooks inserts join rows only; inventory decrement is the caller's
	// explicit responsibility, never an association side effect.
	AttachBooks(ctx context.Context, t *BorrowingTransaction, books []book.Book) error
	// ListActiveDueBetween returns active transactions whose expected return
	// date falls inside [from, to], books preloaded. Used by the reminder sweep.
	ListActiveDueBetween(ctx context.Context, from, to time.Time) ([]BorrowingTransaction, error)
	// ListActivePastDue returns active transactions already past their
	// expected return date as of the given day. Used by the overdue sweep.
	ListActivePastDue(ctx context.Context, asOf time.Time) ([]BorrowingTransaction, error)
}
