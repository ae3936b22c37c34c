package domain

import (
	"fmt"
	"strings"
	"time"
)

// ShipmentStatus is the operator-maintained state of a shipment. It is edited
// by staff and is independent from the display status derived for tracking.
type ShipmentStatus string

const (
	StatusBooked         ShipmentStatus = "booked"
	StatusDispatched     ShipmentStatus = "dispatched"
	StatusInTransit      ShipmentStatus = "in_transit"
	StatusOutForDelivery ShipmentStatus = "out_for_delivery"
	StatusDelivered      ShipmentStatus = "delivered"
	StatusCancelled      ShipmentStatus = "cancelled"
)

// StopStatus is the operator-reported state of a single transit stop.
type StopStatus string

const (
	StopScheduled StopStatus = "scheduled"
	StopArrived   StopStatus = "arrived"
	StopDeparted  StopStatus = "departed"
	StopDelayed   StopStatus = "delayed"
	StopSkipped   StopStatus = "skipped"
	// StopCompleted is only produced by older records; new input should use
	// arrived or departed.
	StopCompleted StopStatus = "completed"
)

var stopStatuses = map[string]StopStatus{
	"scheduled": StopScheduled,
	"arrived":   StopArrived,
	"departed":  StopDeparted,
	"delayed":   StopDelayed,
	"skipped":   StopSkipped,
	"completed": StopCompleted,
}

// ParseStopStatus maps a free-form status string onto StopStatus. Matching
// is case-insensitive and ignores surrounding whitespace. An empty string
// parses as StopScheduled.
func ParseStopStatus(s string) (StopStatus, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" {
		return StopScheduled, nil
	}
	st, ok := stopStatuses[key]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidStopStatus, s)
	}
	return st, nil
}

// IsConfirmed reports whether the operator has confirmed the shipment
// reached this stop.
func (s StopStatus) IsConfirmed() bool {
	switch s {
	case StopArrived, StopDeparted, StopCompleted:
		return true
	}
	return false
}

// TransitStop is one planned stop on a shipment's route.
type TransitStop struct {
	Location          string     `json:"location" bson:"location"`
	ExpectedArrival   time.Time  `json:"expected_arrival" bson:"expected_arrival"`
	ExpectedDeparture time.Time  `json:"expected_departure" bson:"expected_departure"`
	Status            StopStatus `json:"status" bson:"status"`
}

// Validate checks the arrival/departure window of a single stop.
func (t TransitStop) Validate() error {
	if strings.TrimSpace(t.Location) == "" {
		return fmt.Errorf("%w: location is required", ErrInvalidTransitStop)
	}
	if t.ExpectedArrival.IsZero() || t.ExpectedDeparture.IsZero() {
		return fmt.Errorf("%w: %s: expected arrival and departure are required", ErrInvalidTransitStop, t.Location)
	}
	if t.ExpectedArrival.After(t.ExpectedDeparture) {
		return fmt.Errorf("%w: %s: expected arrival is after expected departure", ErrInvalidTransitStop, t.Location)
	}
	return nil
}

// ValidateTransitStops validates every stop in route order.
func ValidateTransitStops(stops []TransitStop) error {
	for i, s := range stops {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("transit_stops[%d]: %w", i, err)
		}
	}
	return nil
}

// NormalizeTrackingNumber returns the stored form of a tracking number:
// trimmed and upper case.
func NormalizeTrackingNumber(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Party is a consignor or consignee.
type Party struct {
	Name    string `json:"name" bson:"name"`
	Phone   string `json:"phone" bson:"phone"`
	Email   string `json:"email,omitempty" bson:"email,omitempty"`
	Address string `json:"address" bson:"address"`
}

// Shipment is the aggregate root for a booked move.
type Shipment struct {
	ID             string         `json:"id" bson:"_id,omitempty"`
	TrackingNumber string         `json:"tracking_number" bson:"tracking_number"`
	BookingDate    time.Time      `json:"booking_date" bson:"booking_date"`
	Status         ShipmentStatus `json:"status" bson:"status"`
	Consignor      Party          `json:"consignor" bson:"consignor"`
	Consignee      Party          `json:"consignee" bson:"consignee"`
	Origin         string         `json:"origin" bson:"origin"`
	Destination    string         `json:"destination" bson:"destination"`
	Description    string         `json:"description,omitempty" bson:"description,omitempty"`
	TransitStops   []TransitStop  `json:"transit_stops" bson:"transit_stops"`
	IdempotencyKey string         `json:"-" bson:"idempotency_key,omitempty"`
	CreatedAt      time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at" bson:"updated_at"`
}
