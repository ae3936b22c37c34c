package ports

import (
	"context"
	"time"

	"github.com/swiftcargo/movers-portal/internal/core/domain"
)

// EventRepository persists stop status changes and their audit trail.
type EventRepository interface {
	// UpdateStopStatus sets transit_stops[index].status on the shipment and
	// bumps its updated_at to ts.
	UpdateStopStatus(
		ctx context.Context,
		trackingNumber string,
		index int,
		status domain.StopStatus,
		ts time.Time,
	) error

	// InsertEvent persists an event to the stop_events audit collection.
	InsertEvent(ctx context.Context, event *domain.StopEvent) error
}
