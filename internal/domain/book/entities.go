package book

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrNotFound          = errors.New("book not found")
	ErrInvalidCopyCount  = errors.New("available copies must stay within [0, total copies]")
	ErrNoCopiesAvailable = errors.New("no copies available")
	ErrAllCopiesOnShelf  = errors.New("all copies already on shelf")
)

type Library struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	LibraryID string    `gorm:"column:library_id;type:char(32);not null;uniqueIndex:ux_libraries_library_id" json:"library_id"`
	Name      string    `gorm:"column:name;size:200;not null" json:"name"`
	Address   string    `gorm:"column:address;type:text" json:"address"`
	Latitude  float64   `gorm:"column:latitude;type:decimal(9,6)" json:"latitude"`
	Longitude float64   `gorm:"column:longitude;type:decimal(9,6)" json:"longitude"`
	Phone     string    `gorm:"column:phone;size:20" json:"phone"`
	Email     string    `gorm:"column:email;size:254" json:"email"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Library) TableName() string { return "libraries" }

type Category struct {
	ID          uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	CategoryID  string `gorm:"column:category_id;type:char(32);not null;uniqueIndex:ux_categories_category_id" json:"category_id"`
	Name        string `gorm:"column:name;size:100;not null;uniqueIndex:ux_categories_name" json:"name"`
	Description string `gorm:"column:description;type:text" json:"description"`
}

func (Category) TableName() string { return "categories" }

type Author struct {
	ID        uint64     `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	AuthorID  string     `gorm:"column:author_id;type:char(32);not null;uniqueIndex:ux_authors_author_id" json:"author_id"`
	FirstName string     `gorm:"column:first_name;size:100;not null" json:"first_name"`
	LastName  string     `gorm:"column:last_name;size:100;not null" json:"last_name"`
	Bio       string     `gorm:"column:bio;type:text" json:"bio"`
	BirthDate *time.Time `gorm:"column:birth_date;type:date" json:"birth_date,omitempty"`
}

func (Author) TableName() string { return "authors" }

func (a *Author) FullName() string { return a.FirstName + " " + a.LastName }

// Book carries the inventory ledger: AvailableCopies moves only through
// BorrowCopy and ReturnCopy, and every persist re-checks the invariant
// 0 <= available <= total via the BeforeSave hook.
type Book struct {
	ID              uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	BookID          string    `gorm:"column:book_id;type:char(32);not null;uniqueIndex:ux_books_book_id" json:"book_id"`
	Title           string    `gorm:"column:title;size:300;not null" json:"title"`
	ISBN            string    `gorm:"column:isbn;size:13;not null;uniqueIndex:ux_books_isbn" json:"isbn"`
	CategoryID      uint64    `gorm:"column:category_id;not null;index" json:"-"`
	Category        *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	LibraryID       uint64    `gorm:"column:library_id;not null;index" json:"-"`
	Library         *Library  `gorm:"foreignKey:LibraryID" json:"library,omitempty"`
	Authors         []Author  `gorm:"many2many:book_authors" json:"authors,omitempty"`
	PublicationYear int       `gorm:"column:publication_year" json:"publication_year"`
	TotalCopies     int       `gorm:"column:total_copies;not null;default:1" json:"total_copies"`
	AvailableCopies int       `gorm:"column:available_copies;not null;default:1" json:"available_copies"`
	Description     string    `gorm:"column:description;type:text" json:"description"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Book) TableName() string { return "books" }

// Validate enforces the copy-count invariant. A violation aborts the save,
// it is never clamped.
func (b *Book) Validate() error {
	if b.AvailableCopies < 0 || b.AvailableCopies > b.TotalCopies {
		return ErrInvalidCopyCount
	}
	return nil
}

func (b *Book) BeforeSave(*gorm.DB) error { return b.Validate() }

func (b *Book) IsAvailable() bool { return b.AvailableCopies > 0 }

// BorrowCopy takes one copy off the shelf. Fails without mutating when
// nothing is available.
func (b *Book) BorrowCopy() error {
	if !b.IsAvailable() {
		return ErrNoCopiesAvailable
	}
	b.AvailableCopies--
	return b.Validate()
}

// ReturnCopy puts one copy back. The returned flag reports whether the book
// just crossed from unavailable to available, which is the single trigger for
// the availability broadcast.
func (b *Book) ReturnCopy() (nowAvailable bool, err error) {
	if b.AvailableCopies >= b.TotalCopies {
		return false, ErrAllCopiesOnShelf
	}
	wasUnavailable := b.AvailableCopies == 0
	b.AvailableCopies++
	if err := b.Validate(); err != nil {
		return false, err
	}
	return wasUnavailable, nil
}
