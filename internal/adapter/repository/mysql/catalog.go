package mysql

import (
	"context"

	bookDomain "library-backend/internal/domain/book"
	domain "library-backend/internal/domain/catalog"

	"gorm.io/gorm"
)

type CatalogRepository struct{ db *gorm.DB }

func NewCatalogRepository(db *gorm.DB) *CatalogRepository { return &CatalogRepository{db: db} }

// Great-circle distance in km, the usual spherical-law-of-cosines SQL
// expression with Earth radius 6371.
const distanceExpr = `(6371 * ACOS(
	COS(RADIANS(?)) * COS(RADIANS(libraries.latitude)) *
	COS(RADIANS(libraries.longitude) - RADIANS(?)) +
	SIN(RADIANS(?)) * SIN(RADIANS(libraries.latitude))
)) AS distance`

func (r *CatalogRepository) ListLibraries(ctx context.Context, f domain.LibraryFilter) ([]domain.LibraryRow, error) {
	sel := "libraries.*, (SELECT COUNT(*) FROM books WHERE books.library_id = libraries.id) AS book_count"
	args := []any{}
	if f.Near != nil {
		sel += ", " + distanceExpr
		args = append(args, f.Near.Latitude, f.Near.Longitude, f.Near.Latitude)
	}

	q := r.db.WithContext(ctx).Table("libraries").Select(sel, args...)
	if f.Category != "" {
		q = q.Where(`EXISTS (
			SELECT 1 FROM books
			JOIN categories ON categories.id = books.category_id
			WHERE books.library_id = libraries.id AND LOWER(categories.name) = LOWER(?))`, f.Category)
	}
	if f.Author != "" {
		q = q.Where(`EXISTS (
			SELECT 1 FROM books
			JOIN book_authors ON book_authors.book_id = books.id
			JOIN authors ON authors.id = book_authors.author_id
			WHERE books.library_id = libraries.id AND LOWER(authors.last_name) LIKE LOWER(?))`,
			"%"+f.Author+"%")
	}
	if f.Near != nil {
		q = q.Order("distance ASC")
	} else {
		q = q.Order("libraries.name ASC")
	}

	var out []domain.LibraryRow
	res := q.Scan(&out)
	return out, res.Error
}

func (r *CatalogRepository) ListAuthors(ctx context.Context, f domain.AuthorFilter) ([]domain.AuthorRow, error) {
	// book_count only counts books matching the library/category filter,
	// mirroring the catalog's filtered-annotation behavior.
	countQ := `(SELECT COUNT(*) FROM book_authors
		JOIN books ON books.id = book_authors.book_id`
	args := []any{}
	if f.Library != "" {
		countQ += ` JOIN libraries ON libraries.id = books.library_id`
	}
	if f.Category != "" {
		countQ += ` JOIN categories ON categories.id = books.category_id`
	}
	countQ += ` WHERE book_authors.author_id = authors.id`
	if f.Library != "" {
		countQ += ` AND LOWER(libraries.name) = LOWER(?)`
		args = append(args, f.Library)
	}
	if f.Category != "" {
		countQ += ` AND LOWER(categories.name) = LOWER(?)`
		args = append(args, f.Category)
	}
	countQ += `) AS book_count`

	var out []domain.AuthorRow
	res := r.db.WithContext(ctx).
		Table("authors").
		Select("authors.*, "+countQ, args...).
		Order("authors.last_name ASC, authors.first_name ASC").
		Scan(&out)
	return out, res.Error
}

func (r *CatalogRepository) ListCategories(ctx context.Context) ([]bookDomain.Category, error) {
	var out []bookDomain.Category
	res := r.db.WithContext(ctx).Order("name ASC").Find(&out)
	return out, res.Error
}
