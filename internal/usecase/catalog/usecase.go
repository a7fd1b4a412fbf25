package catalog

import (
	"context"

	"library-backend/internal/domain/book"
	"library-backend/internal/domain/catalog"
)

// Usecase is the read-only catalog: books, authors, categories, libraries.
// No lifecycle logic lives here.
type Usecase struct {
	books   book.Repository
	catalog catalog.Repository
}

func NewUsecase(books book.Repository, cat catalog.Repository) *Usecase {
	return &Usecase{books: books, catalog: cat}
}

type AuthorNameDTO struct {
	AuthorID string `json:"author_id"`
	FullName string `json:"full_name"`
}

type BookDTO struct {
	BookID          string          `json:"book_id"`
	Title           string          `json:"title"`
	ISBN            string          `json:"isbn"`
	Authors         []AuthorNameDTO `json:"authors"`
	Category        string          `json:"category"`
	Library         string          `json:"library"`
	PublicationYear int             `json:"publication_year"`
	AvailableCopies int             `json:"available_copies"`
	TotalCopies     int             `json:"total_copies"`
	IsAvailable     bool            `json:"is_available"`
}

func (u *Usecase) ListBooks(ctx context.Context, f book.ListFilter) ([]BookDTO, error) {
	books, err := u.books.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]BookDTO, 0, len(books))
	for i := range books {
		out = append(out, toBookDTO(&books[i]))
	}
	return out, nil
}

func (u *Usecase) GetBook(ctx context.Context, bookID string) (*BookDTO, error) {
	b, err := u.books.GetByBookID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	dto := toBookDTO(b)
	return &dto, nil
}

func (u *Usecase) ListLibraries(ctx context.Context, f catalog.LibraryFilter) ([]catalog.LibraryRow, error) {
	return u.catalog.ListLibraries(ctx, f)
}

func (u *Usecase) ListAuthors(ctx context.Context, f catalog.AuthorFilter) ([]catalog.AuthorRow, error) {
	return u.catalog.ListAuthors(ctx, f)
}

func (u *Usecase) ListCategories(ctx context.Context) ([]book.Category, error) {
	return u.catalog.ListCategories(ctx)
}

func toBookDTO(b *book.Book) BookDTO {
	dto := BookDTO{
		BookID:          b.BookID,
		Title:           b.Title,
		ISBN:            b.ISBN,
		PublicationYear: b.PublicationYear,
		AvailableCopies: b.AvailableCopies,
		TotalCopies:     b.TotalCopies,
		IsAvailable:     b.IsAvailable(),
	}
	if b.Category != nil {
		dto.Category = b.Category.Name
	}
	if b.Library != nil {
		dto.Library = b.Library.Name
	}
	for i := range b.Authors {
		dto.Authors = append(dto.Authors, AuthorNameDTO{
			AuthorID: b.Authors[i].AuthorID,
			FullName: b.Authors[i].FullName(),
		})
	}
	return dto
}
