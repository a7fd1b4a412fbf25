package mysql

import (
	"context"
	"testing"
	"time"

	bookDomain "library-backend/internal/domain/book"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// --- SQLite-friendly schemas only for tests (no ENUM, no DECIMAL) ---

type librarySQLite struct {
	ID        uint64    `gorm:"primaryKey;column:id"`
	LibraryID string    `gorm:"size:32;column:library_id"`
	Name      string    `gorm:"column:name"`
	Address   string    `gorm:"column:address"`
	Latitude  float64   `gorm:"column:latitude"`
	Longitude float64   `gorm:"column:longitude"`
	Phone     string    `gorm:"column:phone"`
	Email     string    `gorm:"column:email"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (librarySQLite) TableName() string { return "libraries" }

type categorySQLite struct {
	ID          uint64 `gorm:"primaryKey;column:id"`
	CategoryID  string `gorm:"size:32;column:category_id"`
	Name        string `gorm:"column:name"`
	Description string `gorm:"column:description"`
}

func (categorySQLite) TableName() string { return "categories" }

type authorSQLite struct {
	ID        uint64     `gorm:"primaryKey;column:id"`
	AuthorID  string     `gorm:"size:32;column:author_id"`
	FirstName string     `gorm:"column:first_name"`
	LastName  string     `gorm:"column:last_name"`
	Bio       string     `gorm:"column:bio"`
	BirthDate *time.Time `gorm:"column:birth_date"`
}

func (authorSQLite) TableName() string { return "authors" }

type bookSQLite struct {
	ID              uint64    `gorm:"primaryKey;column:id"`
	BookID          string    `gorm:"size:32;column:book_id"`
	Title           string    `gorm:"column:title"`
	ISBN            string    `gorm:"column:isbn"`
	CategoryID      uint64    `gorm:"column:category_id"`
	LibraryID       uint64    `gorm:"column:library_id"`
	PublicationYear int       `gorm:"column:publication_year"`
	TotalCopies     int       `gorm:"column:total_copies"`
	AvailableCopies int       `gorm:"column:available_copies"`
	Description     string    `gorm:"column:description"`
	CreatedAt       time.Time `gorm:"column:created_at"`
}

func (bookSQLite) TableName() string { return "books" }

type bookAuthorSQLite struct {
	BookID   uint64 `gorm:"primaryKey;column:book_id"`
	AuthorID uint64 `gorm:"primaryKey;column:author_id"`
}

func (bookAuthorSQLite) TableName() string { return "book_authors" }

type borrowingSQLite struct {
	ID                 uint64     `gorm:"primaryKey;column:id"`
	TransactionID      string     `gorm:"size:32;column:transaction_id"`
	UserID             string     `gorm:"size:32;column:user_id"`
	UserEmail          string     `gorm:"column:user_email"`
	BorrowDate         time.Time  `gorm:"column:borrow_date"`
	ExpectedReturnDate time.Time  `gorm:"column:expected_return_date"`
	ActualReturnDate   *time.Time `gorm:"column:actual_return_date"`
	Status             string     `gorm:"type:text;column:status"` // ← no enum
	PenaltyAmount      float64    `gorm:"column:penalty_amount"`
	CreatedAt          time.Time  `gorm:"column:created_at"`
	UpdatedAt          time.Time  `gorm:"column:updated_at"`
}

func (borrowingSQLite) TableName() string { return "borrowing_transactions" }

type borrowingBookSQLite struct {
	BorrowingTransactionID uint64 `gorm:"primaryKey;column:borrowing_transaction_id"`
	BookID                 uint64 `gorm:"primaryKey;column:book_id"`
}

func (borrowingBookSQLite) TableName() string { return "borrowing_transaction_books" }

// openTestDB creates an in-memory sqlite DB and migrates ONLY the sqlite-safe
// schemas, never the domain models.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&librarySQLite{}, &categorySQLite{}, &authorSQLite{},
		&bookSQLite{}, &bookAuthorSQLite{},
		&borrowingSQLite{}, &borrowingBookSQLite{},
	); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

// seedCatalog inserts one library, one category and one author, returning
// their row IDs for the books that will hang off them.
func seedCatalog(t *testing.T, db *gorm.DB) (libID, catID, authID uint64) {
	t.Helper()
	lib := librarySQLite{LibraryID: "11111111111111111111111111111111", Name: "Central", Latitude: -6.2, Longitude: 106.8}
	cat := categorySQLite{CategoryID: "22222222222222222222222222222222", Name: "Science Fiction"}
	auth := authorSQLite{AuthorID: "33333333333333333333333333333333", FirstName: "Frank", LastName: "Herbert"}
	if err := db.Create(&lib).Error; err != nil {
		t.Fatalf("seed library: %v", err)
	}
	if err := db.Create(&cat).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}
	if err := db.Create(&auth).Error; err != nil {
		t.Fatalf("seed author: %v", err)
	}
	return lib.ID, cat.ID, auth.ID
}

func seedBook(t *testing.T, db *gorm.DB, bookID, title string, libID, catID, authID uint64, total, available int) uint64 {
	t.Helper()
	b := bookSQLite{
		BookID:          bookID,
		Title:           title,
		ISBN:            bookID[:13],
		CategoryID:      catID,
		LibraryID:       libID,
		TotalCopies:     total,
		AvailableCopies: available,
	}
	if err := db.Create(&b).Error; err != nil {
		t.Fatalf("seed book %s: %v", title, err)
	}
	if authID != 0 {
		if err := db.Create(&bookAuthorSQLite{BookID: b.ID, AuthorID: authID}).Error; err != nil {
			t.Fatalf("seed book author: %v", err)
		}
	}
	return b.ID
}

func mustBook(t *testing.T, repo *BookRepository, bookID string) *bookDomain.Book {
	t.Helper()
	b, err := repo.GetByBookID(context.Background(), bookID)
	if err != nil {
		t.Fatalf("GetByBookID(%s): %v", bookID, err)
	}
	return b
}
