package borrowing

import (
	"context"
	"log"
	"time"

	domainBook "library-backend/internal/domain/book"
	domain "library-backend/internal/domain/borrowing"
	"library-backend/internal/domain/uow"
	"library-backend/pkg/id"
)

// Notifier is the notification port the lifecycle talks to; every call is
// fire-and-forget and never participates in the surrounding transaction.
type Notifier interface {
	BorrowConfirmation(recipient string, titles []string, due time.Time)
	DueSoonReminder(recipient string, titles []string, due time.Time)
	BookAvailable(title string)
}

type Usecase struct {
	borrowings domain.Repository
	books      domainBook.Repository
	uow        uow.UnitOfWork
	notifier   Notifier

	penaltyRate float64
	now         func() time.Time
}

func NewUsecase(borrowings domain.Repository, books domainBook.Repository, tx uow.UnitOfWork, n Notifier) *Usecase {
	return &Usecase{
		borrowings:  borrowings,
		books:       books,
		uow:         tx,
		notifier:    n,
		penaltyRate: domain.DefaultDailyPenaltyRate,
		now:         time.Now,
	}
}

// WithPenaltyRate overrides the default daily penalty rate.
func (u *Usecase) WithPenaltyRate(rate float64) *Usecase {
	if rate > 0 {
		u.penaltyRate = rate
	}
	return u
}

// Borrow creates a transaction for the requested books.
//
// Policy checks (limit, availability) run first on plain reads; then a single
// database transaction locks the book rows, re-verifies availability and the
// limit under lock, creates the transaction row, and attaches the books while
// decrementing each one's inventory. Nothing is persisted if any step inside
// the transaction fails. The confirmation email goes out only after commit.
func (u *Usecase) Borrow(ctx context.Context, in BorrowInput) (*TransactionDTO, error) {
	if len(in.BookIDs) == 0 {
		return nil, domain.ErrNoBooksRequested
	}
	now := u.now()
	if err := domain.ValidateReturnDate(in.ExpectedReturnDate, now); err != nil {
		return nil, err
	}

	// Advisory pre-checks; the authoritative checks repeat under lock.
	activeBooks, err := u.borrowings.CountActiveBooks(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	candidates, err := u.books.GetByBookIDs(ctx, in.BookIDs)
	if err != nil {
		return nil, err
	}
	if err := domain.CanBorrow(activeBooks, candidates); err != nil {
		return nil, err
	}

	var dto *TransactionDTO
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		locked, err := r.Books.GetByBookIDsForUpdate(ctx, in.BookIDs)
		if err != nil {
			return err
		}
		// A book may have gone unavailable between the advisory check and
		// acquiring the lock; abort naming every stale title.
		var unavailable []string
		for i := range locked {
			if !locked[i].IsAvailable() {
				unavailable = append(unavailable, locked[i].Title)
			}
		}
		if len(unavailable) > 0 {
			return domain.UnavailableError(unavailable)
		}
		activeBooks, err := r.Borrowings.CountActiveBooks(ctx, in.UserID)
		if err != nil {
			return err
		}
		if err := domain.ValidateBorrowingLimit(activeBooks, len(locked)); err != nil {
			return err
		}

		t := &domain.BorrowingTransaction{
			TransactionID:      id.NewID32(),
			UserID:             in.UserID,
			UserEmail:          in.UserEmail,
			BorrowDate:         now.UTC(),
			ExpectedReturnDate: domain.DateOnly(in.ExpectedReturnDate),
			Status:             domain.StatusActive,
		}
		if err := r.Borrowings.Create(ctx, t); err != nil {
			return err
		}
		if err := u.attachBooksAndDecrementInventory(ctx, r, t, locked); err != nil {
			return err
		}
		t.Books = locked
		dto = toDTO(t)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if u.notifier != nil {
		u.notifier.BorrowConfirmation(in.UserEmail, titlesOf(dto.Books), in.ExpectedReturnDate)
	}
	return dto, nil
}

// attachBooksAndDecrementInventory is the one place inventory moves on the
// borrow side: each locked book loses a copy and a join row is written.
func (u *Usecase) attachBooksAndDecrementInventory(ctx context.Context, r uow.Repos, t *domain.BorrowingTransaction, books []domainBook.Book) error {
	for i := range books {
		if err := books[i].BorrowCopy(); err != nil {
			return err
		}
		if err := r.Books.Save(ctx, &books[i]); err != nil {
			return err
		}
	}
	return r.Borrowings.AttachBooks(ctx, t, books)
}

// Return flips an active or overdue transaction to returned, exactly once.
// Each borrowed copy goes back on the shelf; any 0->1 availability crossing
// is broadcast after commit. The penalty is frozen at this moment.
func (u *Usecase) Return(ctx context.Context, transactionID string) (*TransactionDTO, error) {
	now := u.now()
	var dto *TransactionDTO
	var nowAvailable []string

	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		t, err := r.Borrowings.GetByTransactionID(ctx, transactionID)
		if err != nil {
			return err
		}
		// Accrue any outstanding overdue penalty before freezing it.
		t.RefreshOverdue(u.penaltyRate, now)
		if err := t.MarkReturned(now); err != nil {
			return err
		}
		for i := range t.Books {
			crossed, err := t.Books[i].ReturnCopy()
			if err != nil {
				// Copy already on shelf: accepted race with a concurrent
				// adjustment; skip rather than abort the whole return.
				log.Printf("borrowing: return of %q skipped inventory increment: %v", t.Books[i].Title, err)
				continue
			}
			if err := r.Books.Save(ctx, &t.Books[i]); err != nil {
				return err
			}
			if crossed {
				nowAvailable = append(nowAvailable, t.Books[i].Title)
			}
		}
		if err := r.Borrowings.Save(ctx, t); err != nil {
			return err
		}
		dto = toDTO(t)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if u.notifier != nil {
		for _, title := range nowAvailable {
			u.notifier.BookAvailable(title)
		}
	}
	return dto, nil
}

// Get loads a transaction and refreshes its overdue status on the way out;
// a state change is persisted so the stored row matches what the caller saw.
func (u *Usecase) Get(ctx context.Context, transactionID string) (*TransactionDTO, error) {
	t, err := u.borrowings.GetByTransactionID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if t.RefreshOverdue(u.penaltyRate, u.now()) {
		if err := u.borrowings.Save(ctx, t); err != nil {
			return nil, err
		}
	}
	return toDTO(t), nil
}

func (u *Usecase) ListByUser(ctx context.Context, userID string) ([]TransactionDTO, error) {
	ts, err := u.borrowings.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := u.now()
	out := make([]TransactionDTO, 0, len(ts))
	for i := range ts {
		if ts[i].RefreshOverdue(u.penaltyRate, now) {
			if err := u.borrowings.Save(ctx, &ts[i]); err != nil {
				return nil, err
			}
		}
		out = append(out, *toDTO(&ts[i]))
	}
	return out, nil
}

// SweepDueSoon emails every user whose active transaction comes due within
// the next 1-3 days. Side effect only; delivery failures stay in the log.
func (u *Usecase) SweepDueSoon(ctx context.Context) error {
	today := domain.DateOnly(u.now())
	from, to := today.AddDate(0, 0, 1), today.AddDate(0, 0, 3)
	ts, err := u.borrowings.ListActiveDueBetween(ctx, from, to)
	if err != nil {
		return err
	}
	if u.notifier == nil {
		return nil
	}
	for i := range ts {
		titles := make([]string, 0, len(ts[i].Books))
		for _, b := range ts[i].Books {
			titles = append(titles, b.Title)
		}
		u.notifier.DueSoonReminder(ts[i].UserEmail, titles, ts[i].ExpectedReturnDate)
	}
	return nil
}

// SweepOverdue moves every past-due active transaction to overdue with its
// penalty. Safe to run concurrently with interactive traffic: the refresh is
// idempotent for a fixed day.
func (u *Usecase) SweepOverdue(ctx context.Context) error {
	now := u.now()
	ts, err := u.borrowings.ListActivePastDue(ctx, domain.DateOnly(now))
	if err != nil {
		return err
	}
	for i := range ts {
		if ts[i].RefreshOverdue(u.penaltyRate, now) {
			if err := u.borrowings.Save(ctx, &ts[i]); err != nil {
				return err
			}
		}
	}
	return nil
}

func toDTO(t *domain.BorrowingTransaction) *TransactionDTO {
	books := make([]BookSummary, 0, len(t.Books))
	for _, b := range t.Books {
		books = append(books, BookSummary{
			BookID:          b.BookID,
			Title:           b.Title,
			ISBN:            b.ISBN,
			AvailableCopies: b.AvailableCopies,
			TotalCopies:     b.TotalCopies,
		})
	}
	return &TransactionDTO{
		TransactionID:      t.TransactionID,
		UserID:             t.UserID,
		Books:              books,
		BorrowDate:         t.BorrowDate,
		ExpectedReturnDate: domain.DateOnly(t.ExpectedReturnDate).Format("2006-01-02"),
		ActualReturnDate:   t.ActualReturnDate,
		Status:             string(t.Status),
		PenaltyAmount:      t.PenaltyAmount,
	}
}

func titlesOf(books []BookSummary) []string {
	out := make([]string, 0, len(books))
	for _, b := range books {
		out = append(out, b.Title)
	}
	return out
}
