package http

import (
	"bytes"
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	bookDomain "library-backend/internal/domain/book"
	domain "library-backend/internal/domain/borrowing"
	"library-backend/internal/domain/uow"
	"library-backend/internal/testutil/bookmock"
	"library-backend/internal/testutil/borrowingmock"
	"library-backend/internal/testutil/notifymock"
	"library-backend/internal/testutil/uowmock"
	uc "library-backend/internal/usecase/borrowing"

	"github.com/labstack/echo/v4"
)

// -------- helpers --------

func newEchoWithValidator() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func mustJSON(v any) *bytes.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

var (
	hbBookA = strings.Repeat("a", 32)
	hbUser  = strings.Repeat("c", 32)
)

func availableBooks() *bookmock.Repo {
	get := func(ctx context.Context, ids []string) ([]bookDomain.Book, error) {
		out := make([]bookDomain.Book, 0, len(ids))
		for _, id := range ids {
			out = append(out, bookDomain.Book{BookID: id, Title: "Dune", TotalCopies: 2, AvailableCopies: 2})
		}
		return out, nil
	}
	return &bookmock.Repo{GetByBookIDsFn: get, GetByBookIDsForUpdateFn: get}
}

func borrowHandler(books *bookmock.Repo, borrowings *borrowingmock.Repo) *BorrowingHandler {
	usecase := uc.NewUsecase(borrowings, books,
		uowmock.Immediate(uow.Repos{Books: books, Borrowings: borrowings}),
		&notifymock.Recorder{})
	return NewBorrowingHandler(usecase)
}

func newBorrowRequest(body any) *stdhttp.Request {
	req := httptest.NewRequest(stdhttp.MethodPost, "/borrowings", mustJSON(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("X-User-Id", hbUser)
	req.Header.Set("X-User-Email", "reader@example.com")
	return req
}

// -------- tests --------

func TestCreateBorrowing_Success(t *testing.T) {
	e := newEchoWithValidator()
	h := borrowHandler(availableBooks(), &borrowingmock.Repo{})

	due := time.Now().AddDate(0, 0, 14).Format("2006-01-02")
	req := newBorrowRequest(map[string]any{
		"book_ids":             []string{hbBookA},
		"expected_return_date": due,
	})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.CreateBorrowing(c); err != nil {
		t.Fatalf("CreateBorrowing: %v", err)
	}
	if rec.Code != stdhttp.StatusCreated {
		t.Fatalf("status = %d, want 201, body %s", rec.Code, rec.Body.String())
	}
	var got uc.TransactionDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if got.UserID != hbUser || got.Status != string(domain.StatusActive) {
		t.Fatalf("dto = %+v", got)
	}
	if got.ExpectedReturnDate != due {
		t.Fatalf("expected_return_date = %s, want %s", got.ExpectedReturnDate, due)
	}
	if len(got.Books) != 1 || got.Books[0].Title != "Dune" {
		t.Fatalf("books = %+v", got.Books)
	}
}

func TestCreateBorrowing_MissingIdentity(t *testing.T) {
	e := newEchoWithValidator()
	h := borrowHandler(availableBooks(), &borrowingmock.Repo{})

	req := httptest.NewRequest(stdhttp.MethodPost, "/borrowings", mustJSON(map[string]any{
		"book_ids":             []string{hbBookA},
		"expected_return_date": time.Now().AddDate(0, 0, 7).Format("2006-01-02"),
	}))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.CreateBorrowing(c); err != nil {
		t.Fatalf("handler err: %v", err)
	}
	if rec.Code != stdhttp.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestCreateBorrowing_ValidationErrors(t *testing.T) {
	e := newEchoWithValidator()
	h := borrowHandler(availableBooks(), &borrowingmock.Repo{})

	cases := []struct {
		name  string
		body  map[string]any
		field string
	}{
		{"missing book_ids", map[string]any{"expected_return_date": "2030-01-02"}, "BookIDs"},
		{"empty book_ids", map[string]any{"book_ids": []string{}, "expected_return_date": "2030-01-02"}, "BookIDs"},
		{"bad id format", map[string]any{"book_ids": []string{"nope"}, "expected_return_date": "2030-01-02"}, "BookIDs[0]"},
		{"bad date", map[string]any{"book_ids": []string{hbBookA}, "expected_return_date": "02-01-2030"}, "ExpectedReturnDate"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c := e.NewContext(newBorrowRequest(tc.body), rec)
			if err := h.CreateBorrowing(c); err != nil {
				t.Fatalf("handler err: %v", err)
			}
			if rec.Code != stdhttp.StatusUnprocessableEntity {
				t.Fatalf("status = %d, want 422, body %s", rec.Code, rec.Body.String())
			}
			var resp ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("bad json: %v", err)
			}
			found := false
			for _, fe := range resp.Details {
				if fe.Field == tc.field {
					found = true
				}
			}
			if !found {
				t.Fatalf("no field error for %s in %+v", tc.field, resp.Details)
			}
		})
	}
}

func TestCreateBorrowing_LimitExceeded_Conflict(t *testing.T) {
	e := newEchoWithValidator()
	borrowings := &borrowingmock.Repo{
		CountActiveBooksFn: func(ctx context.Context, userID string) (int, error) { return 3, nil },
	}
	h := borrowHandler(availableBooks(), borrowings)

	rec := httptest.NewRecorder()
	c := e.NewContext(newBorrowRequest(map[string]any{
		"book_ids":             []string{hbBookA},
		"expected_return_date": time.Now().AddDate(0, 0, 7).Format("2006-01-02"),
	}), rec)

	if err := h.CreateBorrowing(c); err != nil {
		t.Fatalf("handler err: %v", err)
	}
	if rec.Code != stdhttp.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestCreateBorrowing_PastDueDate_BadRequest(t *testing.T) {
	e := newEchoWithValidator()
	h := borrowHandler(availableBooks(), &borrowingmock.Repo{})

	rec := httptest.NewRecorder()
	c := e.NewContext(newBorrowRequest(map[string]any{
		"book_ids":             []string{hbBookA},
		"expected_return_date": "2020-01-01",
	}), rec)

	if err := h.CreateBorrowing(c); err != nil {
		t.Fatalf("handler err: %v", err)
	}
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestReturnBorrowing_Success(t *testing.T) {
	e := newEchoWithValidator()
	txID := strings.Repeat("d", 32)
	tr := &domain.BorrowingTransaction{
		TransactionID:      txID,
		UserID:             hbUser,
		Status:             domain.StatusActive,
		ExpectedReturnDate: time.Now().AddDate(0, 0, 5),
		Books:              []bookDomain.Book{{BookID: hbBookA, Title: "Dune", TotalCopies: 1, AvailableCopies: 0}},
	}
	borrowings := &borrowingmock.Repo{
		GetByTransactionIDFn: func(ctx context.Context, id string) (*domain.BorrowingTransaction, error) {
			return tr, nil
		},
	}
	h := borrowHandler(availableBooks(), borrowings)

	req := httptest.NewRequest(stdhttp.MethodPost, "/borrowings/"+txID+"/return", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("transaction_id")
	c.SetParamValues(txID)

	if err := h.ReturnBorrowing(c); err != nil {
		t.Fatalf("ReturnBorrowing: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}
	var got uc.TransactionDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if got.Status != string(domain.StatusReturned) || got.ActualReturnDate == nil {
		t.Fatalf("dto = %+v", got)
	}
}

func TestReturnBorrowing_AlreadyReturned_Conflict(t *testing.T) {
	e := newEchoWithValidator()
	txID := strings.Repeat("d", 32)
	at := time.Now().UTC()
	borrowings := &borrowingmock.Repo{
		GetByTransactionIDFn: func(ctx context.Context, id string) (*domain.BorrowingTransaction, error) {
			return &domain.BorrowingTransaction{
				TransactionID:      txID,
				Status:             domain.StatusReturned,
				ExpectedReturnDate: time.Now(),
				ActualReturnDate:   &at,
			}, nil
		},
	}
	h := borrowHandler(availableBooks(), borrowings)

	req := httptest.NewRequest(stdhttp.MethodPost, "/borrowings/"+txID+"/return", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("transaction_id")
	c.SetParamValues(txID)

	if err := h.ReturnBorrowing(c); err != nil {
		t.Fatalf("handler err: %v", err)
	}
	if rec.Code != stdhttp.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
}

func TestGetBorrowing_NotFound(t *testing.T) {
	e := newEchoWithValidator()
	h := borrowHandler(availableBooks(), &borrowingmock.Repo{})

	req := httptest.NewRequest(stdhttp.MethodGet, "/borrowings/"+strings.Repeat("e", 32), nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("transaction_id")
	c.SetParamValues(strings.Repeat("e", 32))

	if err := h.GetBorrowing(c); err != nil {
		t.Fatalf("handler err: %v", err)
	}
	if rec.Code != stdhttp.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestListBorrowings_ForCaller(t *testing.T) {
	e := newEchoWithValidator()
	borrowings := &borrowingmock.Repo{
		ListByUserFn: func(ctx context.Context, userID string) ([]domain.BorrowingTransaction, error) {
			if userID != hbUser {
				t.Fatalf("userID = %s", userID)
			}
			return []domain.BorrowingTransaction{
				{TransactionID: strings.Repeat("d", 32), UserID: userID, Status: domain.StatusActive,
					ExpectedReturnDate: time.Now().AddDate(0, 0, 5)},
			}, nil
		},
	}
	h := borrowHandler(availableBooks(), borrowings)

	req := httptest.NewRequest(stdhttp.MethodGet, "/borrowings", nil)
	req.Header.Set("X-User-Id", hbUser)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.ListBorrowings(c); err != nil {
		t.Fatalf("ListBorrowings: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got []uc.TransactionDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if len(got) != 1 || got[0].UserID != hbUser {
		t.Fatalf("list = %+v", got)
	}
}
