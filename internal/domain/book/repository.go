package book

import "context"

type ListFilter struct {
	Category string // category name, case-insensitive exact
	Library  string // library name, case-insensitive exact
	Author   string // author last name, case-insensitive exact
}

type Repository interface {
	GetByBookID(ctx context.Context, bookID string) (*Book, error)
	GetByBookIDs(ctx context.Context, bookIDs []string) ([]Book, error)
	// GetByBookIDsForUpdate reads the rows under an exclusive row lock
	// (SELECT ... FOR UPDATE); only meaningful inside a transaction.
	GetByBookIDsForUpdate(ctx context.Context, bookIDs []string) ([]Book, error)
	Save(ctx context.Context, b *Book) error
	List(ctx context.Context, f ListFilter) ([]Book, error)
}
