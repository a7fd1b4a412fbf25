package borrowing

import (
	"time"
)

type BorrowInput struct {
	UserID             string
	UserEmail          string
	BookIDs            []string
	ExpectedReturnDate time.Time
}

type BookSummary struct {
	BookID          string `json:"book_id"`
	Title           string `json:"title"`
	ISBN            string `json:"isbn"`
	AvailableCopies int    `json:"available_copies"`
	TotalCopies     int    `json:"total_copies"`
}

type TransactionDTO struct {
	TransactionID      string        `json:"transaction_id"`
	UserID             string        `json:"user_id"`
	Books              []BookSummary `json:"books"`
	BorrowDate         time.Time     `json:"borrow_date"`
	ExpectedReturnDate string        `json:"expected_return_date"`
	ActualReturnDate   *time.Time    `json:"actual_return_date,omitempty"`
	Status             string        `json:"status"`
	PenaltyAmount      float64       `json:"penalty_amount"`
}
