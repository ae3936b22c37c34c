package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/swiftcargo/movers-portal/internal/core/domain"
	"github.com/swiftcargo/movers-portal/internal/core/ports"
	"github.com/swiftcargo/movers-portal/internal/core/tracking"
)

type stubShipmentService struct {
	createFn func(ctx context.Context, in ports.CreateShipmentInput) (*ports.ShipmentResult, error)
	getFn    func(ctx context.Context, id string) (*domain.Shipment, error)
	updateFn func(ctx context.Context, id string, in ports.ShipmentInput) (*domain.Shipment, error)
	deleteFn func(ctx context.Context, id string) error
	listFn   func(ctx context.Context, in ports.ListShipmentsInput) (*domain.Page[*domain.Shipment], error)
	trackFn  func(ctx context.Context, tn string) (*ports.TrackingView, error)
}

func (s *stubShipmentService) CreateShipment(ctx context.Context, in ports.CreateShipmentInput) (*ports.ShipmentResult, error) {
	return s.createFn(ctx, in)
}

func (s *stubShipmentService) GetShipment(ctx context.Context, id string) (*domain.Shipment, error) {
	return s.getFn(ctx, id)
}

func (s *stubShipmentService) UpdateShipment(ctx context.Context, id string, in ports.ShipmentInput) (*domain.Shipment, error) {
	return s.updateFn(ctx, id, in)
}

func (s *stubShipmentService) DeleteShipment(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func (s *stubShipmentService) ListShipments(ctx context.Context, in ports.ListShipmentsInput) (*domain.Page[*domain.Shipment], error) {
	return s.listFn(ctx, in)
}

func (s *stubShipmentService) Track(ctx context.Context, tn string) (*ports.TrackingView, error) {
	return s.trackFn(ctx, tn)
}

const shipmentBody = `{
	"consignor": {"name": "Ravi Kumar", "phone": "9810000000", "address": "Karol Bagh"},
	"consignee": {"name": "Meera Iyer", "phone": "9820000000", "address": "Andheri"},
	"origin": "Delhi",
	"destination": "Mumbai",
	"transit_stops": [
		{"location": "Delhi", "expected_arrival": "2026-03-01T08:00:00Z", "expected_departure": "2026-03-01T10:00:00Z"},
		{"location": "Jaipur", "expected_arrival": "2026-03-01T18:00:00Z", "expected_departure": "2026-03-01T20:00:00Z", "status": "Arrived"}
	]
}`

func sampleShipment() *domain.Shipment {
	return &domain.Shipment{ID: "s1", TrackingNumber: "MVR-0000ABCD", Status: domain.StatusBooked, Origin: "Delhi", Destination: "Mumbai"}
}

func TestShipmentHandler_Create(t *testing.T) {
	var got ports.CreateShipmentInput
	h := NewShipmentHandler(&stubShipmentService{
		createFn: func(_ context.Context, in ports.CreateShipmentInput) (*ports.ShipmentResult, error) {
			got = in
			return &ports.ShipmentResult{Shipment: sampleShipment()}, nil
		},
	})

	c, rec := newJSONContext(http.MethodPost, "/v1/shipments", shipmentBody)
	c.Request().Header.Set("Idempotency-Key", "key-1")
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	if got.IdempotencyKey != "key-1" {
		t.Fatalf("idempotency key not forwarded: %q", got.IdempotencyKey)
	}
	if len(got.TransitStops) != 2 || got.TransitStops[1].Status != "Arrived" {
		t.Fatalf("stops not mapped: %+v", got.TransitStops)
	}
	if got.Consignee.Name != "Meera Iyer" {
		t.Fatalf("consignee not mapped: %+v", got.Consignee)
	}
	want := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
	if !got.TransitStops[1].ExpectedArrival.Equal(want) {
		t.Fatalf("arrival = %v, want %v", got.TransitStops[1].ExpectedArrival, want)
	}

	resp := decode(t, rec)
	if resp["tracking_number"] != "MVR-0000ABCD" {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
	links, _ := resp["_links"].(map[string]any)
	if links["track"] != "/v1/track/MVR-0000ABCD" {
		t.Fatalf("unexpected links %+v", links)
	}
}

func TestShipmentHandler_Create_Replay(t *testing.T) {
	h := NewShipmentHandler(&stubShipmentService{
		createFn: func(context.Context, ports.CreateShipmentInput) (*ports.ShipmentResult, error) {
			return &ports.ShipmentResult{Shipment: sampleShipment(), AlreadyExisted: true}, nil
		},
	})

	c, rec := newJSONContext(http.MethodPost, "/v1/shipments", shipmentBody)
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on replay, got %d", rec.Code)
	}
}

func TestShipmentHandler_Create_Validation(t *testing.T) {
	h := NewShipmentHandler(&stubShipmentService{
		createFn: func(context.Context, ports.CreateShipmentInput) (*ports.ShipmentResult, error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
	})

	body := `{"consignor":{"name":"A","phone":"1"},"origin":"Delhi","status":"lost",
		"transit_stops":[{"location":"","expected_arrival":"2026-03-01T08:00:00Z"}]}`
	c, _ := newJSONContext(http.MethodPost, "/v1/shipments", body)
	he := expectHTTPError(t, h.Create(c), http.StatusUnprocessableEntity)

	msg, _ := he.Message.(string)
	for _, want := range []string{
		"status must be one of",
		"consignee is required",
		"destination is required",
		"transit_stops[0].location is required",
		"transit_stops[0].expected_departure is required",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q missing %q", msg, want)
		}
	}
}

func TestShipmentHandler_Create_ServiceError(t *testing.T) {
	h := NewShipmentHandler(&stubShipmentService{
		createFn: func(context.Context, ports.CreateShipmentInput) (*ports.ShipmentResult, error) {
			return nil, domain.ErrInvalidTransitStop
		},
	})

	c, _ := newJSONContext(http.MethodPost, "/v1/shipments", shipmentBody)
	if err := h.Create(c); !errors.Is(err, domain.ErrInvalidTransitStop) {
		t.Fatalf("expected ErrInvalidTransitStop, got %v", err)
	}
}

func TestShipmentHandler_GetUpdateDelete(t *testing.T) {
	var updatedID, deletedID string
	h := NewShipmentHandler(&stubShipmentService{
		getFn: func(_ context.Context, id string) (*domain.Shipment, error) {
			if id != "s1" {
				return nil, domain.ErrShipmentNotFound
			}
			return sampleShipment(), nil
		},
		updateFn: func(_ context.Context, id string, in ports.ShipmentInput) (*domain.Shipment, error) {
			updatedID = id
			s := sampleShipment()
			s.Destination = in.Destination
			return s, nil
		},
		deleteFn: func(_ context.Context, id string) error {
			deletedID = id
			return nil
		},
	})

	c, rec := newJSONContext(http.MethodGet, "/v1/shipments/s1", "")
	c.SetParamNames("id")
	c.SetParamValues("s1")
	if err := h.Get(c); err != nil {
		t.Fatalf("get: %v", err)
	}
	if decode(t, rec)["id"] != "s1" {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}

	c, _ = newJSONContext(http.MethodGet, "/v1/shipments/nope", "")
	c.SetParamNames("id")
	c.SetParamValues("nope")
	if err := h.Get(c); !errors.Is(err, domain.ErrShipmentNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	c, rec = newJSONContext(http.MethodPut, "/v1/shipments/s1", shipmentBody)
	c.SetParamNames("id")
	c.SetParamValues("s1")
	if err := h.Update(c); err != nil {
		t.Fatalf("update: %v", err)
	}
	if updatedID != "s1" || decode(t, rec)["destination"] != "Mumbai" {
		t.Fatalf("update not applied: id=%q body=%s", updatedID, rec.Body.String())
	}

	c, rec = newJSONContext(http.MethodDelete, "/v1/shipments/s1", "")
	c.SetParamNames("id")
	c.SetParamValues("s1")
	if err := h.Delete(c); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if rec.Code != http.StatusNoContent || deletedID != "s1" {
		t.Fatalf("expected 204 for s1, got %d for %q", rec.Code, deletedID)
	}
}

func TestShipmentHandler_List(t *testing.T) {
	var got ports.ListShipmentsInput
	h := NewShipmentHandler(&stubShipmentService{
		listFn: func(_ context.Context, in ports.ListShipmentsInput) (*domain.Page[*domain.Shipment], error) {
			got = in
			p := domain.NewPage([]*domain.Shipment{sampleShipment()}, 3, 2, 1)
			return &p, nil
		},
	})

	c, rec := newJSONContext(http.MethodGet,
		"/v1/shipments?status=booked&search=ravi&date_from=2026-03-01&date_to=2026-03-02&page=2&limit=1", "")
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if got.Status != "booked" || got.Search != "ravi" || got.Page != 2 || got.Limit != 1 {
		t.Fatalf("unexpected input %+v", got)
	}
	if !got.DateFrom.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("date_from = %v", got.DateFrom)
	}
	if !got.DateTo.Equal(time.Date(2026, 3, 2, 23, 59, 59, 999999999, time.UTC)) {
		t.Fatalf("date_to should cover the whole day, got %v", got.DateTo)
	}

	resp := decode(t, rec)
	items, _ := resp["items"].([]any)
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	pag, _ := resp["pagination"].(map[string]any)
	if pag["total_count"] != float64(3) || pag["has_more"] != true {
		t.Fatalf("unexpected pagination %+v", pag)
	}
}

func TestShipmentHandler_List_BadQuery(t *testing.T) {
	h := NewShipmentHandler(&stubShipmentService{
		listFn: func(context.Context, ports.ListShipmentsInput) (*domain.Page[*domain.Shipment], error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
	})

	for _, q := range []string{
		"?page=abc",
		"?limit=-1",
		"?date_from=01-03-2026",
		"?date_from=2026-03-05&date_to=2026-03-01",
	} {
		c, _ := newJSONContext(http.MethodGet, "/v1/shipments"+q, "")
		expectHTTPError(t, h.List(c), http.StatusBadRequest)
	}
}

func TestShipmentHandler_Track(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	h := NewShipmentHandler(&stubShipmentService{
		trackFn: func(_ context.Context, tn string) (*ports.TrackingView, error) {
			if tn != "MVR-0000ABCD" {
				return nil, domain.ErrShipmentNotFound
			}
			return &ports.TrackingView{
				TrackingNumber:  tn,
				Status:          tracking.AtStop,
				CurrentLocation: "Jaipur",
				Progress:        0.5,
				Timeline: []tracking.TimelineEntry{
					{TransitStop: domain.TransitStop{Location: "Delhi", Status: domain.StopDeparted}, State: tracking.StopDone},
					{TransitStop: domain.TransitStop{Location: "Jaipur"}, State: tracking.StopCurrent},
					{TransitStop: domain.TransitStop{Location: "Mumbai"}, State: tracking.StopUpcoming},
				},
				EvaluatedAt: at,
			}, nil
		},
	})

	c, rec := newJSONContext(http.MethodGet, "/v1/track/MVR-0000ABCD", "")
	c.SetParamNames("tracking_number")
	c.SetParamValues("MVR-0000ABCD")
	if err := h.Track(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	resp := decode(t, rec)
	if resp["status"] != "At Stop" || resp["current_location"] != "Jaipur" || resp["progress"] != 0.5 {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
	timeline, _ := resp["timeline"].([]any)
	if len(timeline) != 3 {
		t.Fatalf("expected 3 timeline entries, got %d", len(timeline))
	}
	first, _ := timeline[0].(map[string]any)
	if first["state"] != "done" || first["location"] != "Delhi" {
		t.Fatalf("unexpected first entry %+v", first)
	}
	if _, leaked := first["status"]; leaked {
		t.Fatalf("operator stop status must not be exposed: %+v", first)
	}

	c, _ = newJSONContext(http.MethodGet, "/v1/track/MVR-FFFFFFFF", "")
	c.SetParamNames("tracking_number")
	c.SetParamValues("MVR-FFFFFFFF")
	if err := h.Track(c); !errors.Is(err, domain.ErrShipmentNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
