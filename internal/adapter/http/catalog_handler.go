package http

import (
	"net/http"
	"strconv"

	"library-backend/internal/domain/book"
	domainCatalog "library-backend/internal/domain/catalog"
	"library-backend/internal/usecase/catalog"

	"github.com/labstack/echo/v4"
)

type CatalogHandler struct{ uc *catalog.Usecase }

func NewCatalogHandler(uc *catalog.Usecase) *CatalogHandler { return &CatalogHandler{uc: uc} }

func (h *CatalogHandler) ListBooks(c echo.Context) error {
	f := book.ListFilter{
		Category: c.QueryParam("category"),
		Library:  c.QueryParam("library"),
		Author:   c.QueryParam("author"),
	}
	dtos, err := h.uc.ListBooks(c.Request().Context(), f)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dtos)
}

func (h *CatalogHandler) GetBook(c echo.Context) error {
	dto, err := h.uc.GetBook(c.Request().Context(), c.Param("book_id"))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *CatalogHandler) ListLibraries(c echo.Context) error {
	f := domainCatalog.LibraryFilter{
		Category: c.QueryParam("category"),
		Author:   c.QueryParam("author"),
	}
	// A malformed coordinate pair degrades to the unordered listing rather
	// than failing the request.
	latStr, lonStr := c.QueryParam("latitude"), c.QueryParam("longitude")
	if latStr != "" && lonStr != "" {
		lat, latErr := strconv.ParseFloat(latStr, 64)
		lon, lonErr := strconv.ParseFloat(lonStr, 64)
		if latErr == nil && lonErr == nil {
			f.Near = &domainCatalog.GeoPoint{Latitude: lat, Longitude: lon}
		}
	}
	rows, err := h.uc.ListLibraries(c.Request().Context(), f)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *CatalogHandler) ListAuthors(c echo.Context) error {
	f := domainCatalog.AuthorFilter{
		Library:  c.QueryParam("library"),
		Category: c.QueryParam("category"),
	}
	rows, err := h.uc.ListAuthors(c.Request().Context(), f)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *CatalogHandler) ListCategories(c echo.Context) error {
	out, err := h.uc.ListCategories(c.Request().Context())
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
