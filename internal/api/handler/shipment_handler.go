package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/swiftcargo/movers-portal/internal/core/ports"
)

const queryDateLayout = "2006-01-02"

// ShipmentHandler handles HTTP requests for shipment operations.
type ShipmentHandler struct {
	service ports.ShipmentService
}

func NewShipmentHandler(service ports.ShipmentService) *ShipmentHandler {
	return &ShipmentHandler{service: service}
}

// Create handles POST /v1/shipments.
//
// @Summary      Book a new shipment
// @Tags         shipments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string           false  "Idempotency key to prevent duplicate bookings"
// @Param        body             body      shipmentRequest  true   "Shipment details"
// @Success      201              {object}  shipmentResponse
// @Success      200              {object}  shipmentResponse  "Replayed idempotent request"
// @Failure      400              {object}  errorResponse
// @Failure      401              {object}  errorResponse
// @Failure      422              {object}  errorResponse
// @Router       /v1/shipments [post]
func (h *ShipmentHandler) Create(c echo.Context) error {
	var req shipmentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.service.CreateShipment(c.Request().Context(), ports.CreateShipmentInput{
		ShipmentInput:  req.toInput(),
		IdempotencyKey: c.Request().Header.Get("Idempotency-Key"),
	})
	if err != nil {
		return err
	}

	code := http.StatusCreated
	if result.AlreadyExisted {
		code = http.StatusOK
	}
	return c.JSON(code, newShipmentResponse(result.Shipment))
}

// Get handles GET /v1/shipments/:id.
//
// @Summary      Get a shipment
// @Tags         shipments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Shipment ID"
// @Success      200  {object}  shipmentResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/shipments/{id} [get]
func (h *ShipmentHandler) Get(c echo.Context) error {
	s, err := h.service.GetShipment(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newShipmentResponse(s))
}

// Update handles PUT /v1/shipments/:id.
//
// @Summary      Replace the editable fields of a shipment
// @Tags         shipments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true  "Shipment ID"
// @Param        body  body      shipmentRequest  true  "Shipment details"
// @Success      200   {object}  shipmentResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/shipments/{id} [put]
func (h *ShipmentHandler) Update(c echo.Context) error {
	var req shipmentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	s, err := h.service.UpdateShipment(c.Request().Context(), c.Param("id"), req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newShipmentResponse(s))
}

// Delete handles DELETE /v1/shipments/:id.
//
// @Summary      Delete a shipment
// @Tags         shipments
// @Security     BearerAuth
// @Param        id   path  string  true  "Shipment ID"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /v1/shipments/{id} [delete]
func (h *ShipmentHandler) Delete(c echo.Context) error {
	if err := h.service.DeleteShipment(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// List handles GET /v1/shipments.
//
// @Summary      List shipments
// @Description  Newest bookings first. date_from and date_to are inclusive calendar days (YYYY-MM-DD, UTC).
// @Tags         shipments
// @Produce      json
// @Security     BearerAuth
// @Param        status     query     string  false  "Operator status"  Enums(booked, dispatched, in_transit, out_for_delivery, delivered, cancelled)
// @Param        search     query     string  false  "Partial tracking number or party name"
// @Param        date_from  query     string  false  "Earliest booking day"
// @Param        date_to    query     string  false  "Latest booking day"
// @Param        page       query     int     false  "Page number (default 1)"
// @Param        limit      query     int     false  "Page size (default 20, max 100)"
// @Success      200        {object}  listShipmentsResponse
// @Failure      400        {object}  errorResponse
// @Router       /v1/shipments [get]
func (h *ShipmentHandler) List(c echo.Context) error {
	page, limit, err := pageParams(c)
	if err != nil {
		return err
	}

	from, err := dateQuery(c, "date_from")
	if err != nil {
		return err
	}
	to, err := dateQuery(c, "date_to")
	if err != nil {
		return err
	}
	if !to.IsZero() {
		to = to.Add(24*time.Hour - time.Nanosecond)
	}
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return echo.NewHTTPError(http.StatusBadRequest, "date_from must not be after date_to")
	}

	result, err := h.service.ListShipments(c.Request().Context(), ports.ListShipmentsInput{
		Status:   c.QueryParam("status"),
		Search:   c.QueryParam("search"),
		DateFrom: from,
		DateTo:   to,
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		return err
	}

	items := make([]shipmentResponse, 0, len(result.Items))
	for _, s := range result.Items {
		items = append(items, newShipmentResponse(s))
	}
	return c.JSON(http.StatusOK, listShipmentsResponse{
		Items: items,
		Pagination: paginationResponse{
			Total:   result.TotalCount,
			Page:    result.Page,
			Limit:   result.Limit,
			HasMore: result.HasMore,
		},
	})
}

// Track handles GET /v1/track/:tracking_number. It is public.
//
// @Summary      Track a shipment
// @Description  Resolves the display status and current location from the planned stops at request time.
// @Tags         tracking
// @Produce      json
// @Param        tracking_number  path      string  true  "Tracking number (e.g. MVR-7A8B9C2D)"
// @Success      200              {object}  trackingResponse
// @Failure      404              {object}  errorResponse
// @Router       /v1/track/{tracking_number} [get]
func (h *ShipmentHandler) Track(c echo.Context) error {
	view, err := h.service.Track(c.Request().Context(), c.Param("tracking_number"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newTrackingResponse(view))
}

func dateQuery(c echo.Context, name string) (time.Time, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(queryDateLayout, raw)
	if err != nil {
		return time.Time{}, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("%s must be YYYY-MM-DD", name))
	}
	return t, nil
}
