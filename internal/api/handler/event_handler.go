package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/swiftcargo/movers-portal/internal/core/domain"
	"github.com/swiftcargo/movers-portal/internal/core/ports"
)

// maxBatchSize bounds a single POST /v1/events/batch body.
const maxBatchSize = 500

// EventDispatcher is the interface the handler uses to enqueue events.
type EventDispatcher interface {
	Enqueue(ctx context.Context, event ports.StopEventInput) error
	EnqueueBatch(ctx context.Context, events []ports.StopEventInput) (int, error)
}

type stopEventRequest struct {
	TrackingNumber string    `json:"tracking_number" validate:"required"`
	StopIndex      *int      `json:"stop_index"      validate:"required,gte=0"`
	Status         string    `json:"status"          validate:"required"`
	Timestamp      time.Time `json:"timestamp"       validate:"required"`
	Source         string    `json:"source"          validate:"required"`
}

// EventHandler handles stop status event ingestion.
type EventHandler struct {
	dispatcher EventDispatcher
}

// NewEventHandler creates an EventHandler backed by the given dispatcher.
func NewEventHandler(dispatcher EventDispatcher) *EventHandler {
	return &EventHandler{dispatcher: dispatcher}
}

// Receive handles POST /v1/events. It enqueues a single event and returns 202.
//
// @Summary      Report a stop status change
// @Tags         events
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      stopEventRequest  true  "Stop event"
// @Success      202   {object}  acceptedResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /v1/events [post]
func (h *EventHandler) Receive(c echo.Context) error {
	var req stopEventRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if _, err := domain.ParseStopStatus(req.Status); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	if err := h.dispatcher.Enqueue(c.Request().Context(), toEventInput(req)); err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "event queue unavailable")
	}
	return c.JSON(http.StatusAccepted, acceptedResponse{Message: "event accepted"})
}

// ReceiveBatch handles POST /v1/events/batch. It enqueues a batch of events
// and returns 202. Events are validated up front; none is enqueued when any
// is invalid.
//
// @Summary      Report a batch of stop status changes
// @Tags         events
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      []stopEventRequest  true  "Array of stop events"
// @Success      202   {object}  acceptedResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /v1/events/batch [post]
func (h *EventHandler) ReceiveBatch(c echo.Context) error {
	var reqs []stopEventRequest
	if err := c.Bind(&reqs); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if len(reqs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "batch cannot be empty")
	}
	if len(reqs) > maxBatchSize {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("batch cannot exceed %d events", maxBatchSize))
	}

	inputs := make([]ports.StopEventInput, 0, len(reqs))
	for i := range reqs {
		if err := c.Validate(&reqs[i]); err != nil {
			return echo.NewHTTPError(http.StatusUnprocessableEntity,
				fmt.Sprintf("event[%d]: %s", i, err.Error()))
		}
		if _, err := domain.ParseStopStatus(reqs[i].Status); err != nil {
			return echo.NewHTTPError(http.StatusUnprocessableEntity,
				fmt.Sprintf("event[%d]: %s", i, err.Error()))
		}
		inputs = append(inputs, toEventInput(reqs[i]))
	}

	n, err := h.dispatcher.EnqueueBatch(c.Request().Context(), inputs)
	if err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable,
			fmt.Sprintf("event queue unavailable after %d of %d events", n, len(inputs)))
	}
	return c.JSON(http.StatusAccepted, acceptedResponse{
		Message: "events accepted",
		Count:   n,
	})
}

func toEventInput(r stopEventRequest) ports.StopEventInput {
	return ports.StopEventInput{
		TrackingNumber: domain.NormalizeTrackingNumber(r.TrackingNumber),
		StopIndex:      *r.StopIndex,
		Status:         r.Status,
		Timestamp:      r.Timestamp,
		Source:         r.Source,
	}
}
