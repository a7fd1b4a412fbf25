package borrowing

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"library-backend/internal/domain/book"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusOverdue  Status = "overdue"
	StatusReturned Status = "returned"
)

const (
	// MaxBorrowLimit caps active+overdue books per user.
	MaxBorrowLimit = 3
	// MaxBorrowDays bounds how far out a return date may be set.
	MaxBorrowDays = 30
	// DefaultDailyPenaltyRate is charged per day overdue.
	DefaultDailyPenaltyRate = 1.00
)

var (
	ErrNotFound            = errors.New("borrowing transaction not found")
	ErrAlreadyReturned     = errors.New("transaction is already returned")
	ErrBorrowLimitExceeded = errors.New("borrowing limit exceeded")
	ErrBookUnavailable     = errors.New("book is not available")
	ErrBooksUnavailable    = errors.New("books are not available")
	ErrReturnDateNotFuture = errors.New("return date must be in the future")
	ErrReturnDateTooFar    = errors.New("return date cannot exceed 30 days from today")
	ErrNoBooksRequested    = errors.New("at least one book is required")
)

type BorrowingTransaction struct {
	ID                 uint64      `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	TransactionID      string      `gorm:"column:transaction_id;type:char(32);not null;uniqueIndex:ux_borrowings_transaction_id" json:"transaction_id"`
	UserID             string      `gorm:"column:user_id;type:char(32);not null;index:idx_borrowings_user_status" json:"user_id"`
	UserEmail          string      `gorm:"column:user_email;size:254;not null" json:"-"`
	Books              []book.Book `gorm:"many2many:borrowing_transaction_books" json:"books,omitempty"`
	BorrowDate         time.Time   `gorm:"column:borrow_date;autoCreateTime" json:"borrow_date"`
	ExpectedReturnDate time.Time   `gorm:"column:expected_return_date;type:date;not null" json:"expected_return_date"`
	ActualReturnDate   *time.Time  `gorm:"column:actual_return_date" json:"actual_return_date,omitempty"`
	Status             Status      `gorm:"column:status;type:enum('active','overdue','returned');default:'active';index:idx_borrowings_user_status" json:"status"`
	PenaltyAmount      float64     `gorm:"column:penalty_amount;type:decimal(10,2);default:0.00" json:"penalty_amount"`
	CreatedAt          time.Time   `gorm:"column:created_at;autoCreateTime" json:"-"`
	UpdatedAt          time.Time   `gorm:"column:updated_at;autoUpdateTime" json:"-"`
}

func (BorrowingTransaction) TableName() string { return "borrowing_transactions" }

// DateOnly truncates to midnight UTC; due-date arithmetic works on dates,
// not instants.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ValidateReturnDate checks the creation-time policy window: strictly after
// today and at most MaxBorrowDays out.
func ValidateReturnDate(expected, today time.Time) error {
	exp, td := DateOnly(expected), DateOnly(today)
	if !exp.After(td) {
		return ErrReturnDateNotFuture
	}
	if exp.After(td.AddDate(0, 0, MaxBorrowDays)) {
		return ErrReturnDateTooFar
	}
	return nil
}

func (t *BorrowingTransaction) IsOverdue(today time.Time) bool {
	if t.Status == StatusReturned {
		return false
	}
	return DateOnly(today).After(DateOnly(t.ExpectedReturnDate))
}

func (t *BorrowingTransaction) DaysOverdue(today time.Time) int {
	if !t.IsOverdue(today) {
		return 0
	}
	return int(DateOnly(today).Sub(DateOnly(t.ExpectedReturnDate)).Hours() / 24)
}

// CalculatePenalty is a pure computation; it never mutates the transaction.
func (t *BorrowingTransaction) CalculatePenalty(dailyRate float64, today time.Time) float64 {
	if !t.IsOverdue(today) {
		return 0
	}
	return float64(t.DaysOverdue(today)) * dailyRate
}

// RefreshOverdue is the explicit active->overdue step, invoked deliberately
/// on reads and by the scheduled sweep. Idempotent for a fixed today: for a
// transaction already overdue it recomputes the same penalty. Reports whether
// anything changed.
func (t *BorrowingTransaction) RefreshOverdue(dailyRate float64, today time.Time) bool {
	if t.Status == StatusReturned || !t.IsOverdue(today) {
		return false
	}
	penalty := t.CalculatePenalty(dailyRate, today)
	changed := t.Status != StatusOverdue || t.PenaltyAmount != penalty
	t.Status = StatusOverdue
	t.PenaltyAmount = penalty
	return changed
}

// MarkReturned flips the terminal transition exactly once. The penalty is
// whatever was accrued at this moment; it is never recomputed afterwards.
func (t *BorrowingTransaction) MarkReturned(now time.Time) error {
	if t.Status == StatusReturned {
		return ErrAlreadyReturned
	}
	t.Status = StatusReturned
	if t.ActualReturnDate == nil {
		at := now.UTC()
		t.ActualReturnDate = &at
	}
	return nil
}

/// ValidateBorrowingLimit is the pure limit check: existing active/overdue
// book count plus the new request must not exceed MaxBorrowLimit.
func ValidateBorrowingLimit(activeBooks, newBooks int) error {
	if activeBooks+newBooks > MaxBorrowLimit {
		return fmt.Errorf(
			"cannot borrow %d book(s): you currently have %d active books, maximum allowed is %d: %w",
			newBooks, activeBooks, MaxBorrowLimit, ErrBorrowLimitExceeded)
	}
	return nil
}

// CanBorrow combines the limit check with per-book availability. Pure read,
// no mutation; callers re-check both under lock before committing.
func CanBorrow(activeBooks int, books []book.Book) error {
	if err := ValidateBorrowingLimit(activeBooks, len(books)); err != nil {
		return err
	}
	for i := range books {
		if !books[i].IsAvailable() {
			return fmt.Errorf("book %q is not available: %w", books[i].Title, ErrBookUnavailable)
		}
	}
	return nil
}

// UnavailableError names every book that went unavailable between the initial
// check and lock acquisition.
func UnavailableError(titles []string) error {
	return fmt.Errorf("the following books are not available: %s: %w",
		strings.Join(titles, ", "), ErrBooksUnavailable)
}
