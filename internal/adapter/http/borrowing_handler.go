package http

import (
	"net/http"
	"time"

	"library-backend/internal/usecase/borrowing"

	"github.com/labstack/echo/v4"
)

type BorrowingHandler struct{ uc *borrowing.Usecase }

func NewBorrowingHandler(uc *borrowing.Usecase) *BorrowingHandler {
	return &BorrowingHandler{uc: uc}
}

type createBorrowingReq struct {
	BookIDs []string `json:"book_ids"             validate:"required,min=1,dive,hex32"`
	// Canonical date `YYYY-MM-DD`; the policy window (future, <=30 days)
	// is enforced by the usecase.
	ExpectedReturnDate string `json:"expected_return_date" validate:"required,datetime=2006-01-02"`
}

func (h *BorrowingHandler) CreateBorrowing(c echo.Context) error {
	user, resp := callerIdentity(c)
	if resp != nil {
		return resp(c)
	}
	var req createBorrowingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	due, err := time.Parse("2006-01-02", req.ExpectedReturnDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid expected_return_date"})
	}

	dto, err := h.uc.Borrow(c.Request().Context(), borrowing.BorrowInput{
		UserID:             user.ID,
		UserEmail:          user.Email,
		BookIDs:            req.BookIDs,
		ExpectedReturnDate: due,
	})
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *BorrowingHandler) ReturnBorrowing(c echo.Context) error {
	transactionID := c.Param("transaction_id")
	if transactionID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing transaction_id path param"})
	}
	dto, err := h.uc.Return(c.Request().Context(), transactionID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *BorrowingHandler) GetBorrowing(c echo.Context) error {
	transactionID := c.Param("transaction_id")
	dto, err := h.uc.Get(c.Request().Context(), transactionID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *BorrowingHandler) ListBorrowings(c echo.Context) error {
	user, resp := callerIdentity(c)
	if resp != nil {
		return resp(c)
	}
	dtos, err := h.uc.ListByUser(c.Request().Context(), user.ID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dtos)
}
