package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/swiftcargo/movers-portal/internal/core/domain"
	"github.com/swiftcargo/movers-portal/internal/core/ports"
	"github.com/swiftcargo/movers-portal/pkg/metrics"
)

// DedupChecker abstracts the idempotency store (Redis).
type DedupChecker interface {
	IsDuplicate(ctx context.Context, key string) (bool, error)
	Mark(ctx context.Context, key string) error
}

type eventService struct {
	shipmentRepo ports.ShipmentRepository
	eventRepo    ports.EventRepository
	dedup        DedupChecker
	log          zerolog.Logger
}

// NewEventService returns an EventService implementation.
func NewEventService(
	shipmentRepo ports.ShipmentRepository,
	eventRepo ports.EventRepository,
	dedup DedupChecker,
	log zerolog.Logger,
) ports.EventService {
	return &eventService{
		shipmentRepo: shipmentRepo,
		eventRepo:    eventRepo,
		dedup:        dedup,
		log:          log,
	}
}

// Process validates, deduplicates, and persists a single stop status event.
func (s *eventService) Process(ctx context.Context, in ports.StopEventInput) error {
	start := time.Now()
	outcome := "error"
	defer func() {
		metrics.EventProcessingDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	}()

	in.TrackingNumber = domain.NormalizeTrackingNumber(in.TrackingNumber)

	status, err := domain.ParseStopStatus(in.Status)
	if err != nil {
		metrics.EventsErrorsTotal.WithLabelValues("invalid_status").Inc()
		return fmt.Errorf("process event: %w", err)
	}

	// 1. Idempotency check: duplicates are skipped silently.
	key := dedupKey(in, status)
	isDup, err := s.dedup.IsDuplicate(ctx, key)
	if err != nil {
		s.log.Warn().Err(err).Str("tracking_number", in.TrackingNumber).Msg("dedup check failed, processing anyway")
	} else if isDup {
		metrics.EventsDedupTotal.WithLabelValues("hit").Inc()
		s.log.Debug().Str("tracking_number", in.TrackingNumber).Str("status", string(status)).Msg("duplicate event skipped")
		outcome = "duplicate"
		return nil
	}
	metrics.EventsDedupTotal.WithLabelValues("miss").Inc()

	// 2. Find shipment and bounds-check the stop.
	shipment, err := s.shipmentRepo.FindByTrackingNumber(ctx, in.TrackingNumber)
	if err != nil {
		if errors.Is(err, domain.ErrShipmentNotFound) {
			metrics.EventsErrorsTotal.WithLabelValues("shipment_not_found").Inc()
		}
		return fmt.Errorf("process event: %w", err)
	}
	if in.StopIndex < 0 || in.StopIndex >= len(shipment.TransitStops) {
		metrics.EventsErrorsTotal.WithLabelValues("stop_out_of_range").Inc()
		return fmt.Errorf("process event: %w (index %d, %d stops)", domain.ErrStopIndexOutOfRange, in.StopIndex, len(shipment.TransitStops))
	}

	// 3. Persist the new stop status.
	if err := s.eventRepo.UpdateStopStatus(ctx, in.TrackingNumber, in.StopIndex, status, in.Timestamp); err != nil {
		metrics.EventsErrorsTotal.WithLabelValues("update_failed").Inc()
		return fmt.Errorf("process event: update stop: %w", err)
	}

	// 4. Mark only after the write landed so a failed write can be retried.
	if markErr := s.dedup.Mark(ctx, key); markErr != nil {
		s.log.Warn().Err(markErr).Str("tracking_number", in.TrackingNumber).Msg("failed to set dedup key")
	}

	// 5. Insert into audit trail (non-fatal on failure).
	audit := &domain.StopEvent{
		TrackingNumber: in.TrackingNumber,
		StopIndex:      in.StopIndex,
		Status:         status,
		Timestamp:      in.Timestamp,
		Source:         in.Source,
	}
	if err := s.eventRepo.InsertEvent(ctx, audit); err != nil {
		s.log.Warn().Err(err).Str("tracking_number", in.TrackingNumber).Msg("failed to insert audit event")
	}

	outcome = string(status)
	metrics.EventsProcessedTotal.WithLabelValues(string(status), in.Source).Inc()
	s.log.Info().
		Str("tracking_number", in.TrackingNumber).
		Int("stop_index", in.StopIndex).
		Str("location", shipment.TransitStops[in.StopIndex].Location).
		Str("status", string(status)).
		Str("source", in.Source).
		Msg("stop event processed")

	return nil
}

// dedupKey identifies an event by tracking number, stop, status and
// timestamp (second precision).
func dedupKey(in ports.StopEventInput, status domain.StopStatus) string {
	return in.TrackingNumber + ":" + strconv.Itoa(in.StopIndex) + ":" + string(status) + ":" + strconv.FormatInt(in.Timestamp.Unix(), 10)
}
