package ports

import (
	"context"
	"time"

	"github.com/swiftcargo/movers-portal/internal/core/domain"
	"github.com/swiftcargo/movers-portal/internal/core/tracking"
)

// TransitStopInput is a stop as submitted by the admin form. Status is the
// raw operator string and is parsed case-insensitively.
type TransitStopInput struct {
	Location          string
	ExpectedArrival   time.Time
	ExpectedDeparture time.Time
	Status            string
}

// ShipmentInput carries the editable fields of a shipment.
type ShipmentInput struct {
	Status       string
	Consignor    domain.Party
	Consignee    domain.Party
	Origin       string
	Destination  string
	Description  string
	BookingDate  time.Time // zero means "now" on create, "unchanged" on update
	TransitStops []TransitStopInput
}

// CreateShipmentInput adds the creation-only fields.
type CreateShipmentInput struct {
	ShipmentInput
	IdempotencyKey string
}

// ShipmentResult is returned by the service after creating a shipment.
type ShipmentResult struct {
	Shipment *domain.Shipment
	// AlreadyExisted is true when the Idempotency-Key matched an existing shipment.
	AlreadyExisted bool
}

// ListShipmentsInput carries all parameters for the list endpoint.
type ListShipmentsInput struct {
	Status   string
	Search   string
	DateFrom time.Time
	DateTo   time.Time
	Page     int
	Limit    int
}

// TrackingView is the public, read-only projection of a shipment.
type TrackingView struct {
	TrackingNumber  string
	BookingDate     time.Time
	Origin          string
	Destination     string
	Status          tracking.DisplayStatus
	CurrentLocation string
	Progress        float64
	Timeline        []tracking.TimelineEntry
	EvaluatedAt     time.Time
}

// ShipmentService defines use-case operations for shipments.
type ShipmentService interface {
	CreateShipment(ctx context.Context, input CreateShipmentInput) (*ShipmentResult, error)
	GetShipment(ctx context.Context, id string) (*domain.Shipment, error)
	UpdateShipment(ctx context.Context, id string, input ShipmentInput) (*domain.Shipment, error)
	DeleteShipment(ctx context.Context, id string) error
	ListShipments(ctx context.Context, input ListShipmentsInput) (*domain.Page[*domain.Shipment], error)
	Track(ctx context.Context, trackingNumber string) (*TrackingView, error)
}
