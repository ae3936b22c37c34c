package ports

import (
	"context"
	"time"
)

// StopEventInput is the DTO passed from the transport layer to EventService.
type StopEventInput struct {
	TrackingNumber string
	StopIndex      int
	Status         string
	Timestamp      time.Time
	Source         string
}

// EventService processes incoming stop status events.
type EventService interface {
	Process(ctx context.Context, event StopEventInput) error
}
