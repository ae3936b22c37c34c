package ports

import (
	"context"
	"time"

	"github.com/swiftcargo/movers-portal/internal/core/domain"
)

// ListShipmentsFilter carries all query parameters for listing shipments.
type ListShipmentsFilter struct {
	Status   string    // optional: operator status
	Search   string    // optional: partial match on tracking_number or consignor/consignee name
	DateFrom time.Time // optional: booking_date >= DateFrom
	DateTo   time.Time // optional: booking_date <= DateTo
	Page     int       // 1-based
	Limit    int
}

// ShipmentRepository defines persistence operations for shipments.
type ShipmentRepository interface {
	Create(ctx context.Context, s *domain.Shipment) error
	FindByID(ctx context.Context, id string) (*domain.Shipment, error)
	FindByTrackingNumber(ctx context.Context, trackingNumber string) (*domain.Shipment, error)
	FindByIdempotencyKey(ctx context.Context, key string) (*domain.Shipment, error)
	Update(ctx context.Context, s *domain.Shipment) error
	Delete(ctx context.Context, id string) error
	// List returns a page of shipments matching filter and the total count.
	List(ctx context.Context, filter ListShipmentsFilter) ([]*domain.Shipment, int64, error)
}
