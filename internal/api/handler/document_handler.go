package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/swiftcargo/movers-portal/internal/core/ports"
)

// DocumentHandler serves CRUD and DOCX download for one document kind.
// T is domain.Bill, domain.Bilty, domain.Quotation or domain.Receipt.
type DocumentHandler[T any] struct {
	service ports.DocumentService[T]
}

func NewDocumentHandler[T any](service ports.DocumentService[T]) *DocumentHandler[T] {
	return &DocumentHandler[T]{service: service}
}

// Register mounts the handler on g: collection at "", items at "/:id".
func (h *DocumentHandler[T]) Register(g *echo.Group) {
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	g.GET("/:id/document", h.Download)
}

// Create stores a new document and allocates its number.
//
// @Summary      Create a document
// @Description  The number (BILL-000001, LR-000001, QTN-000001, RCPT-000001) is allocated unless supplied.
// @Tags         documents
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Success      201  {object}  domain.Bill
// @Failure      400  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /v1/bills [post]
// @Router       /v1/bilties [post]
// @Router       /v1/quotations [post]
// @Router       /v1/receipts [post]
func (h *DocumentHandler[T]) Create(c echo.Context) error {
	doc := new(T)
	if err := bindAndValidate(c, doc); err != nil {
		return err
	}
	created, err := h.service.Create(c.Request().Context(), doc)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, created)
}

// Get returns one document.
//
// @Summary      Get a document
// @Tags         documents
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  domain.Bill
// @Failure      404  {object}  errorResponse
// @Router       /v1/bills/{id} [get]
// @Router       /v1/bilties/{id} [get]
// @Router       /v1/quotations/{id} [get]
// @Router       /v1/receipts/{id} [get]
func (h *DocumentHandler[T]) Get(c echo.Context) error {
	doc, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, doc)
}

// Update replaces a document, keeping its id, number and creation time.
//
// @Summary      Update a document
// @Tags         documents
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  domain.Bill
// @Failure      404  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /v1/bills/{id} [put]
// @Router       /v1/bilties/{id} [put]
// @Router       /v1/quotations/{id} [put]
// @Router       /v1/receipts/{id} [put]
func (h *DocumentHandler[T]) Update(c echo.Context) error {
	doc := new(T)
	if err := bindAndValidate(c, doc); err != nil {
		return err
	}
	updated, err := h.service.Update(c.Request().Context(), c.Param("id"), doc)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete removes a document.
//
// @Summary      Delete a document
// @Tags         documents
// @Security     BearerAuth
// @Param        id   path  string  true  "Document ID"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /v1/bills/{id} [delete]
// @Router       /v1/bilties/{id} [delete]
// @Router       /v1/quotations/{id} [delete]
// @Router       /v1/receipts/{id} [delete]
func (h *DocumentHandler[T]) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// List returns a page of documents, newest first.
//
// @Summary      List documents
// @Tags         documents
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Page size (default 20, max 100)"
// @Success      200    {object}  map[string]any
// @Failure      400    {object}  errorResponse
// @Router       /v1/bills [get]
// @Router       /v1/bilties [get]
// @Router       /v1/quotations [get]
// @Router       /v1/receipts [get]
func (h *DocumentHandler[T]) List(c echo.Context) error {
	page, limit, err := pageParams(c)
	if err != nil {
		return err
	}
	result, err := h.service.List(c.Request().Context(), page, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// Download renders the document into its DOCX template.
//
// @Summary      Download a document as DOCX
// @Tags         documents
// @Produce      application/vnd.openxmlformats-officedocument.wordprocessingml.document
// @Security     BearerAuth
// @Param        id   path      string  true  "Document ID"
// @Success      200  {file}    binary
// @Failure      404  {object}  errorResponse
// @Router       /v1/bills/{id}/document [get]
// @Router       /v1/bilties/{id}/document [get]
// @Router       /v1/quotations/{id}/document [get]
// @Router       /v1/receipts/{id}/document [get]
func (h *DocumentHandler[T]) Download(c echo.Context) error {
	rendered, err := h.service.Render(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", rendered.Filename))
	return c.Blob(http.StatusOK, rendered.ContentType, rendered.Content)
}
