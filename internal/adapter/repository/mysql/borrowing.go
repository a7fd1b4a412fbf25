package mysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookDomain "library-backend/internal/domain/book"
	domain "library-backend/internal/domain/borrowing"

	"gorm.io/gorm"
)

type BorrowingRepository struct{ db *gorm.DB }

func NewBorrowingRepository(db *gorm.DB) *BorrowingRepository {
	return &BorrowingRepository{db: db}
}

func (r *BorrowingRepository) Create(ctx context.Context, t *domain.BorrowingTransaction) error {
	// Books are attached separately through AttachBooks so the inventory
	// decrement stays an explicit step, never an association side effect.
	return r.db.WithContext(ctx).Omit("Books").Create(t).Error
}

func (r *BorrowingRepository) GetByTransactionID(ctx context.Context, transactionID string) (*domain.BorrowingTransaction, error) {
	var out domain.BorrowingTransaction
	res := r.db.WithContext(ctx).
		Preload("Books").
		Where("transaction_id = ?", transactionID).
		First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("transaction %s: %w", transactionID, domain.ErrNotFound)
	}
	return &out, res.Error
}

func (r *BorrowingRepository) Save(ctx context.Context, t *domain.BorrowingTransaction) error {
	return r.db.WithContext(ctx).Omit("Books").Save(t).Error
}

func (r *BorrowingRepository) ListByUser(ctx context.Context, userID string) ([]domain.BorrowingTransaction, error) {
	var out []domain.BorrowingTransaction
	res := r.db.WithContext(ctx).
		Preload("Books").
		Where("user_id = ?", userID).
		Order("borrow_date DESC, id DESC").
		Find(&out)
	return out, res.Error
}

// CountActiveBooks counts join rows across the user's active and overdue
// transactions, which is what the borrowing limit compares against.
func (r *BorrowingRepository) CountActiveBooks(ctx context.Context, userID string) (int, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Table("borrowing_transaction_books").
		Joins("JOIN borrowing_transactions ON borrowing_transactions.id = borrowing_transaction_books.borrowing_transaction_id").
		Where("borrowing_transactions.user_id = ? AND borrowing_transactions.status IN ?",
			userID, []string{string(domain.StatusActive), string(domain.StatusOverdue)}).
		Count(&n).Error
	return int(n), err
}

// AttachBooks writes join rows only; Omit("Books.*") keeps gorm from
// upserting the book rows themselves. Join rows persist after return as the
// historical record of what was borrowed.
func (r *BorrowingRepository) AttachBooks(ctx context.Context, t *domain.BorrowingTransaction, books []bookDomain.Book) error {
	refs := make([]*bookDomain.Book, 0, len(books))
	for i := range books {
		refs = append(refs, &books[i])
	}
	return r.db.WithContext(ctx).
		Model(t).
		Omit("Books.*").
		Association("Books").
		Append(refs)
}

func (r *BorrowingRepository) ListActiveDueBetween(ctx context.Context, from, to time.Time) ([]domain.BorrowingTransaction, error) {
	var out []domain.BorrowingTransaction
	res := r.db.WithContext(ctx).
		Preload("Books").
		Where("status = ? AND expected_return_date BETWEEN ? AND ?", domain.StatusActive, from, to).
		Find(&out)
	return out, res.Error
}

func (r *BorrowingRepository) ListActivePastDue(ctx context.Context, asOf time.Time) ([]domain.BorrowingTransaction, error) {
	var out []domain.BorrowingTransaction
	res := r.db.WithContext(ctx).
		Preload("Books").
		Where("status = ? AND expected_return_date < ?", domain.StatusActive, asOf).
		Find(&out)
	return out, res.Error
}
