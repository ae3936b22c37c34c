package handler

import (
	"time"

	"github.com/swiftcargo/movers-portal/internal/core/domain"
	"github.com/swiftcargo/movers-portal/internal/core/ports"
	"github.com/swiftcargo/movers-portal/internal/core/tracking"
)

// --- Request types ---

type partyRequest struct {
	Name    string `json:"name"    validate:"required"`
	Phone   string `json:"phone"   validate:"required"`
	Email   string `json:"email"   validate:"omitempty,email"`
	Address string `json:"address"`
}

type transitStopRequest struct {
	Location          string    `json:"location"           validate:"required"`
	ExpectedArrival   time.Time `json:"expected_arrival"   validate:"required"`
	ExpectedDeparture time.Time `json:"expected_departure" validate:"required"`
	Status            string    `json:"status"`
}

type shipmentRequest struct {
	Status       string               `json:"status"        validate:"omitempty,oneof=booked dispatched in_transit out_for_delivery delivered cancelled"`
	Consignor    partyRequest         `json:"consignor"     validate:"required"`
	Consignee    partyRequest         `json:"consignee"     validate:"required"`
	Origin       string               `json:"origin"        validate:"required"`
	Destination  string               `json:"destination"   validate:"required"`
	Description  string               `json:"description"`
	BookingDate  time.Time            `json:"booking_date"`
	TransitStops []transitStopRequest `json:"transit_stops" validate:"dive"`
}

func (r partyRequest) toDomain() domain.Party {
	return domain.Party{Name: r.Name, Phone: r.Phone, Email: r.Email, Address: r.Address}
}

func (r shipmentRequest) toInput() ports.ShipmentInput {
	stops := make([]ports.TransitStopInput, 0, len(r.TransitStops))
	for _, s := range r.TransitStops {
		stops = append(stops, ports.TransitStopInput{
			Location:          s.Location,
			ExpectedArrival:   s.ExpectedArrival,
			ExpectedDeparture: s.ExpectedDeparture,
			Status:            s.Status,
		})
	}
	return ports.ShipmentInput{
		Status:       r.Status,
		Consignor:    r.Consignor.toDomain(),
		Consignee:    r.Consignee.toDomain(),
		Origin:       r.Origin,
		Destination:  r.Destination,
		Description:  r.Description,
		BookingDate:  r.BookingDate,
		TransitStops: stops,
	}
}

// --- Response types ---

type shipmentLinks struct {
	Self  string `json:"self"`
	Track string `json:"track"`
}

type shipmentResponse struct {
	*domain.Shipment
	Links shipmentLinks `json:"_links"`
}

func newShipmentResponse(s *domain.Shipment) shipmentResponse {
	return shipmentResponse{
		Shipment: s,
		Links: shipmentLinks{
			Self:  "/v1/shipments/" + s.ID,
			Track: "/v1/track/" + s.TrackingNumber,
		},
	}
}

type paginationResponse struct {
	Total   int64 `json:"total_count"`
	Page    int   `json:"page"`
	Limit   int   `json:"limit"`
	HasMore bool  `json:"has_more"`
}

type listShipmentsResponse struct {
	Items      []shipmentResponse `json:"items"`
	Pagination paginationResponse `json:"pagination"`
}

type timelineEntryResponse struct {
	Location          string    `json:"location"`
	ExpectedArrival   time.Time `json:"expected_arrival"`
	ExpectedDeparture time.Time `json:"expected_departure"`
	State             string    `json:"state"`
}

// trackingResponse is the public projection. Stop statuses stay internal;
// customers only see the derived state of each stop.
type trackingResponse struct {
	TrackingNumber  string                  `json:"tracking_number"`
	BookingDate     time.Time               `json:"booking_date"`
	Origin          string                  `json:"origin"`
	Destination     string                  `json:"destination"`
	Status          tracking.DisplayStatus  `json:"status"`
	CurrentLocation string                  `json:"current_location"`
	Progress        float64                 `json:"progress"`
	Timeline        []timelineEntryResponse `json:"timeline"`
	EvaluatedAt     time.Time               `json:"evaluated_at"`
}

func newTrackingResponse(v *ports.TrackingView) trackingResponse {
	timeline := make([]timelineEntryResponse, 0, len(v.Timeline))
	for _, e := range v.Timeline {
		timeline = append(timeline, timelineEntryResponse{
			Location:          e.Location,
			ExpectedArrival:   e.ExpectedArrival,
			ExpectedDeparture: e.ExpectedDeparture,
			State:             string(e.State),
		})
	}
	return trackingResponse{
		TrackingNumber:  v.TrackingNumber,
		BookingDate:     v.BookingDate,
		Origin:          v.Origin,
		Destination:     v.Destination,
		Status:          v.Status,
		CurrentLocation: v.CurrentLocation,
		Progress:        v.Progress,
		Timeline:        timeline,
		EvaluatedAt:     v.EvaluatedAt,
	}
}
