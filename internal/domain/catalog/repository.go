package catalog

import (
	"context"

	"library-backend/internal/domain/book"
)

// GeoPoint is the caller's location for distance-ordered library search.
type GeoPoint struct {
	Latitude  float64
	Longitude float64
}

type LibraryRow struct {
	book.Library
	BookCount int64    `gorm:"column:book_count" json:"book_count"`
	Distance  *float64 `gorm:"column:distance" json:"distance,omitempty"` // km, set only when a GeoPoint was given
}

type AuthorRow struct {
	book.Author
	BookCount int64 `gorm:"column:book_count" json:"book_count"`
}

type LibraryFilter struct {
	Category string // books of this category present, case-insensitive exact
	Author   string // author last name, case-insensitive contains
	Near     *GeoPoint
}

type AuthorFilter struct {
	Library  string // library name, case-insensitive exact
	Category string // category name, case-insensitive exact
}

// Repository is the read-only master-data side: no lifecycle logic, plain
// queries with counts and the one-off distance expression.
type Repository interface {
	ListLibraries(ctx context.Context, f LibraryFilter) ([]LibraryRow, error)
	ListAuthors(ctx context.Context, f AuthorFilter) ([]AuthorRow, error)
	ListCategories(ctx context.Context) ([]book.Category, error)
}
