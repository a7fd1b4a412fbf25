package mysql

import (
	"context"
	"errors"
	"fmt"

	bookDomain "library-backend/internal/domain/book"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookRepository struct{ db *gorm.DB }

func NewBookRepository(db *gorm.DB) *BookRepository { return &BookRepository{db: db} }

func (r *BookRepository) GetByBookID(ctx context.Context, bookID string) (*bookDomain.Book, error) {
	var out bookDomain.Book
	res := r.db.WithContext(ctx).
		Preload("Authors").Preload("Category").Preload("Library").
		Where("book_id = ?", bookID).
		First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("book %s: %w", bookID, bookDomain.ErrNotFound)
	}
	return &out, res.Error
}

func (r *BookRepository) GetByBookIDs(ctx context.Context, bookIDs []string) ([]bookDomain.Book, error) {
	var out []bookDomain.Book
	res := r.db.WithContext(ctx).
		Where("book_id IN ?", bookIDs).
		Find(&out)
	if res.Error != nil {
		return nil, res.Error
	}
	if len(out) != len(bookIDs) {
		return nil, fmt.Errorf("%d of %d books: %w", len(out), len(bookIDs), bookDomain.ErrNotFound)
	}
	return out, nil
}

// GetByBookIDsForUpdate takes exclusive row locks on the requested books;
// it serializes concurrent borrow attempts against the same rows. Only
// meaningful when the bound db is a transaction.
func (r *BookRepository) GetByBookIDsForUpdate(ctx context.Context, bookIDs []string) ([]bookDomain.Book, error) {
	var out []bookDomain.Book
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("book_id IN ?", bookIDs).
		Find(&out)
	if res.Error != nil {
		return nil, res.Error
	}
	if len(out) != len(bookIDs) {
		return nil, fmt.Errorf("%d of %d books: %w", len(out), len(bookIDs), bookDomain.ErrNotFound)
	}
	return out, nil
}

// Save persists the book; the entity's BeforeSave hook re-checks the copy
// invariant, so an out-of-range counter aborts here.
func (r *BookRepository) Save(ctx context.Context, b *bookDomain.Book) error {
	return r.db.WithContext(ctx).Omit("Authors", "Category", "Library").Save(b).Error
}

func (r *BookRepository) List(ctx context.Context, f bookDomain.ListFilter) ([]bookDomain.Book, error) {
	q := r.db.WithContext(ctx).Model(&bookDomain.Book{}).
		Preload("Authors").Preload("Category").Preload("Library")
	if f.Category != "" {
		q = q.Joins("JOIN categories ON categories.id = books.category_id").
			Where("LOWER(categories.name) = LOWER(?)", f.Category)
	}
	if f.Library != "" {
		q = q.Joins("JOIN libraries ON libraries.id = books.library_id").
			Where("LOWER(libraries.name) = LOWER(?)", f.Library)
	}
	if f.Author != "" {
		q = q.Joins("JOIN book_authors ON book_authors.book_id = books.id").
			Joins("JOIN authors ON authors.id = book_authors.author_id").
			Where("LOWER(authors.last_name) = LOWER(?)", f.Author).
			Distinct("books.*")
	}
	var out []bookDomain.Book
	res := q.Find(&out)
	return out, res.Error
}
