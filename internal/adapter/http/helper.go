package http

import (
	"errors"
	"net/http"
	"strings"

	"library-backend/internal/domain/book"
	"library-backend/internal/domain/borrowing"

	"github.com/labstack/echo/v4"
)

// ---- helpers ----

// caller identity arrives from the auth layer in front of this service as
// trusted headers; token issuance itself is out of scope here.
type caller struct {
	ID    string
	Email string
}

func callerIdentity(c echo.Context) (caller, echo.HandlerFunc) {
	id := strings.TrimSpace(c.Request().Header.Get("X-User-Id"))
	if id == "" {
		return caller{}, func(c echo.Context) error {
			return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing X-User-Id"})
		}
	}
	if !reHex32.MatchString(id) {
		return caller{}, func(c echo.Context) error {
			return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid X-User-Id"})
		}
	}
	return caller{
		ID:    id,
		Email: strings.TrimSpace(c.Request().Header.Get("X-User-Email")),
	}, nil
}

// writeDomainError maps domain errors to HTTP statuses. Validation failures
// and business-rule rejections keep their descriptive messages.
func writeDomainError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, borrowing.ErrNotFound), errors.Is(err, book.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, borrowing.ErrAlreadyReturned),
		errors.Is(err, borrowing.ErrBorrowLimitExceeded),
		errors.Is(err, borrowing.ErrBookUnavailable),
		errors.Is(err, borrowing.ErrBooksUnavailable):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, borrowing.ErrReturnDateNotFuture),
		errors.Is(err, borrowing.ErrReturnDateTooFar),
		errors.Is(err, borrowing.ErrNoBooksRequested),
		errors.Is(err, book.ErrInvalidCopyCount):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}
